package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/Juan181803/ecommerce-microservice-backend-app2/shared/database"
	"github.com/Juan181803/ecommerce-microservice-backend-app2/shared/models"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSQLite(t *testing.T) *sqlx.DB {
	t.Helper()
	ctx := context.Background()
	db, err := database.Connect(ctx, database.Config{Driver: database.DriverSQLite, DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, Migrate(ctx, db))
	return db
}

func newJohnDoe() *models.User {
	u := &models.User{
		FirstName: "John",
		LastName:  "Doe",
		Email:     "john.doe@example.com",
		Phone:     "1234567890",
	}
	u.AttachCredential(&models.Credential{
		Username:                "johndoe",
		Password:                "password123",
		RoleBasedAuthority:      models.RoleUser,
		IsEnabled:               true,
		IsAccountNonExpired:     true,
		IsAccountNonLocked:      true,
		IsCredentialsNonExpired: true,
	})
	return u
}

func countCredentials(t *testing.T, db *sqlx.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.Get(&n, `SELECT COUNT(*) FROM credentials`))
	return n
}

func TestSQLUserRepository_SaveInsertsWithSharedKey(t *testing.T) {
	db := setupSQLite(t)
	repo := NewSQLUserRepository(db)
	ctx := context.Background()

	in := newJohnDoe()
	in.Credential.CredentialID = 77
	saved, err := repo.Save(ctx, in)
	require.NoError(t, err)

	assert.NotZero(t, saved.UserID)
	assert.Zero(t, in.UserID, "input must not be modified")
	require.NotNil(t, saved.Credential)
	assert.Equal(t, saved.UserID, saved.Credential.CredentialID)
	assert.Equal(t, saved.UserID, saved.Credential.UserID)
	assert.Equal(t, "johndoe", saved.Credential.Username)
	assert.Equal(t, models.RoleUser, saved.Credential.RoleBasedAuthority)
	assert.True(t, saved.Credential.IsEnabled)
	assert.True(t, saved.Credential.IsCredentialsNonExpired)

	var credentialID, userID int
	require.NoError(t, db.QueryRow(`SELECT credential_id, user_id FROM credentials`).Scan(&credentialID, &userID))
	assert.Equal(t, saved.UserID, credentialID)
	assert.Equal(t, saved.UserID, userID)
}

func TestSQLUserRepository_SaveUpdatesKnownUser(t *testing.T) {
	db := setupSQLite(t)
	repo := NewSQLUserRepository(db)
	ctx := context.Background()

	saved, err := repo.Save(ctx, newJohnDoe())
	require.NoError(t, err)

	update := newJohnDoe()
	update.UserID = saved.UserID
	update.FirstName = "Updated"
	update.ImageURL = "https://example.com/john.png"
	update.Credential.Username = "updateduser"
	updated, err := repo.Save(ctx, update)
	require.NoError(t, err)

	assert.Equal(t, saved.UserID, updated.UserID)
	assert.Equal(t, "Updated", updated.FirstName)
	assert.Equal(t, "https://example.com/john.png", updated.ImageURL)
	assert.Equal(t, "updateduser", updated.Credential.Username)
	assert.Equal(t, 1, countCredentials(t, db))

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSQLUserRepository_SaveWithoutCredentialKeepsStoredOne(t *testing.T) {
	repo := NewSQLUserRepository(setupSQLite(t))
	ctx := context.Background()

	saved, err := repo.Save(ctx, newJohnDoe())
	require.NoError(t, err)

	updated, err := repo.Save(ctx, &models.User{UserID: saved.UserID, FirstName: "Johnny", Email: saved.Email})
	require.NoError(t, err)
	require.NotNil(t, updated.Credential)
	assert.Equal(t, "johndoe", updated.Credential.Username)
	assert.Equal(t, "Johnny", updated.FirstName)
}

func TestSQLUserRepository_SaveUnknownIDInserts(t *testing.T) {
	repo := NewSQLUserRepository(setupSQLite(t))
	ctx := context.Background()

	in := newJohnDoe()
	in.UserID = 500
	saved, err := repo.Save(ctx, in)
	require.NoError(t, err)
	assert.NotEqual(t, 500, saved.UserID)
	assert.Equal(t, saved.UserID, saved.Credential.CredentialID)
}

func TestSQLUserRepository_UniqueConstraints(t *testing.T) {
	repo := NewSQLUserRepository(setupSQLite(t))
	ctx := context.Background()

	_, err := repo.Save(ctx, newJohnDoe())
	require.NoError(t, err)

	dupEmail := newJohnDoe()
	dupEmail.Credential.Username = "someoneelse"
	_, err = repo.Save(ctx, dupEmail)
	require.ErrorIs(t, err, models.ErrConflict)
	var conflict *models.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "email", conflict.Field)
	assert.Equal(t, "john.doe@example.com", conflict.Value)

	dupUsername := newJohnDoe()
	dupUsername.Email = "other@example.com"
	_, err = repo.Save(ctx, dupUsername)
	require.ErrorIs(t, err, models.ErrConflict)
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "username", conflict.Field)

	_, err = repo.FindByEmail(ctx, "other@example.com")
	assert.ErrorIs(t, err, models.ErrNotFound, "failed save must roll back the user row")
}

func TestSQLUserRepository_Finders(t *testing.T) {
	repo := NewSQLUserRepository(setupSQLite(t))
	ctx := context.Background()

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	saved, err := repo.Save(ctx, newJohnDoe())
	require.NoError(t, err)
	bare, err := repo.Save(ctx, &models.User{FirstName: "Jane", Email: "jane@example.com"})
	require.NoError(t, err)

	byID, err := repo.FindByID(ctx, saved.UserID)
	require.NoError(t, err)
	assert.Equal(t, saved, byID)

	byEmail, err := repo.FindByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, bare.UserID, byEmail.UserID)
	assert.Nil(t, byEmail.Credential)

	all, err = repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, saved.UserID, all[0].UserID)
	assert.NotNil(t, all[0].Credential)
	assert.Nil(t, all[1].Credential)

	_, err = repo.FindByID(ctx, 9999)
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = repo.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestSQLUserRepository_DeleteRemovesCredential(t *testing.T) {
	db := setupSQLite(t)
	repo := NewSQLUserRepository(db)
	ctx := context.Background()

	saved, err := repo.Save(ctx, newJohnDoe())
	require.NoError(t, err)

	exists, err := repo.ExistsByID(ctx, saved.UserID)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, repo.DeleteByID(ctx, saved.UserID))

	exists, err = repo.ExistsByID(ctx, saved.UserID)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Equal(t, 0, countCredentials(t, db))

	_, err = repo.FindByID(ctx, saved.UserID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	assert.NoError(t, repo.DeleteByID(ctx, saved.UserID), "deleting an absent id is a no-op")
}

func TestSQLUserRepository_ForeignKeyCascade(t *testing.T) {
	db := setupSQLite(t)
	repo := NewSQLUserRepository(db)

	saved, err := repo.Save(context.Background(), newJohnDoe())
	require.NoError(t, err)

	_, err = db.Exec(`DELETE FROM users WHERE user_id = ?`, saved.UserID)
	require.NoError(t, err)
	assert.Equal(t, 0, countCredentials(t, db))
}
