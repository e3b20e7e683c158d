package repository

import (
	"context"
	"database/sql"

	"github.com/Juan181803/ecommerce-microservice-backend-app2/shared/database"
	"github.com/Juan181803/ecommerce-microservice-backend-app2/shared/models"
	"github.com/jmoiron/sqlx"
)

// UserRepository is the storage contract shared by every user store.
type UserRepository interface {
	FindAll(ctx context.Context) ([]models.User, error)
	FindByID(ctx context.Context, id int) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Save(ctx context.Context, user *models.User) (*models.User, error)
	ExistsByID(ctx context.Context, id int) (bool, error)
	DeleteByID(ctx context.Context, id int) error
}

const selectUser = `
	SELECT u.user_id, u.first_name, u.last_name, COALESCE(u.image_url, '') AS image_url,
		   u.email, u.phone,
		   c.credential_id, c.username, c.password, c.role_based_authority,
		   c.is_enabled, c.is_account_non_expired, c.is_account_non_locked, c.is_credentials_non_expired
	FROM users u
	LEFT JOIN credentials c ON c.user_id = u.user_id
`

// userRow is one users row joined with its optional credential.
type userRow struct {
	models.User
	CredentialID            sql.NullInt64  `db:"credential_id"`
	Username                sql.NullString `db:"username"`
	Password                sql.NullString `db:"password"`
	RoleBasedAuthority      sql.NullString `db:"role_based_authority"`
	IsEnabled               sql.NullBool   `db:"is_enabled"`
	IsAccountNonExpired     sql.NullBool   `db:"is_account_non_expired"`
	IsAccountNonLocked      sql.NullBool   `db:"is_account_non_locked"`
	IsCredentialsNonExpired sql.NullBool   `db:"is_credentials_non_expired"`
}

func (r userRow) toModel() *models.User {
	user := r.User
	if r.CredentialID.Valid {
		user.AttachCredential(&models.Credential{
			Username:                r.Username.String,
			Password:                r.Password.String,
			RoleBasedAuthority:      models.RoleBasedAuthority(r.RoleBasedAuthority.String),
			IsEnabled:               r.IsEnabled.Bool,
			IsAccountNonExpired:     r.IsAccountNonExpired.Bool,
			IsAccountNonLocked:      r.IsAccountNonLocked.Bool,
			IsCredentialsNonExpired: r.IsCredentialsNonExpired.Bool,
		})
	}
	return &user
}

// SQLUserRepository stores users and their credentials in Postgres or SQLite.
// Queries are written with ? placeholders and rebound for the driver.
type SQLUserRepository struct {
	db *sqlx.DB
}

func NewSQLUserRepository(db *sqlx.DB) *SQLUserRepository {
	return &SQLUserRepository{db: db}
}

func (r *SQLUserRepository) FindAll(ctx context.Context) ([]models.User, error) {
	var rows []userRow
	if err := r.db.SelectContext(ctx, &rows, selectUser+` ORDER BY u.user_id`); err != nil {
		return nil, translate("list users", nil, err)
	}
	users := make([]models.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, *row.toModel())
	}
	return users, nil
}

func (r *SQLUserRepository) FindByID(ctx context.Context, id int) (*models.User, error) {
	return r.findOne(ctx, r.db, `u.user_id = ?`, id)
}

func (r *SQLUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, r.db, `u.email = ?`, email)
}

func (r *SQLUserRepository) findOne(ctx context.Context, q sqlx.QueryerContext, where string, arg any) (*models.User, error) {
	var row userRow
	if err := sqlx.GetContext(ctx, q, &row, r.db.Rebind(selectUser+` WHERE `+where), arg); err != nil {
		return nil, translate("get user", nil, err)
	}
	return row.toModel(), nil
}

func (r *SQLUserRepository) ExistsByID(ctx context.Context, id int) (bool, error) {
	var exists bool
	query := r.db.Rebind(`SELECT EXISTS (SELECT 1 FROM users WHERE user_id = ?)`)
	if err := r.db.GetContext(ctx, &exists, query, id); err != nil {
		return false, translate("check user", nil, err)
	}
	return exists, nil
}

// Save updates the user when its id is known and inserts it otherwise. The
// credential is written under the user's id. A user saved without a
// credential keeps the one already stored. The returned user is re-read
// inside the same transaction.
func (r *SQLUserRepository) Save(ctx context.Context, user *models.User) (*models.User, error) {
	var saved *models.User
	err := database.WithTx(ctx, r.db, nil, func(ctx context.Context, tx *sqlx.Tx) error {
		id, err := r.upsertUser(ctx, tx, user)
		if err != nil {
			return err
		}
		if user.Credential != nil {
			cred := *user.Credential
			owner := models.User{UserID: id}
			owner.AttachCredential(&cred)
			if err := r.upsertCredential(ctx, tx, &cred); err != nil {
				return err
			}
		}
		saved, err = r.findOne(ctx, tx, `u.user_id = ?`, id)
		return err
	})
	if err != nil {
		return nil, translate("save user", user, err)
	}
	return saved, nil
}

func (r *SQLUserRepository) upsertUser(ctx context.Context, tx *sqlx.Tx, user *models.User) (int, error) {
	if user.UserID != 0 {
		res, err := tx.ExecContext(ctx, r.db.Rebind(`
			UPDATE users
			SET first_name = ?, last_name = ?, image_url = ?, email = ?, phone = ?,
				updated_at = CURRENT_TIMESTAMP
			WHERE user_id = ?
		`), user.FirstName, user.LastName, nullString(user.ImageURL), user.Email, user.Phone, user.UserID)
		if err != nil {
			return 0, err
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return 0, err
		}
		if rows > 0 {
			return user.UserID, nil
		}
	}

	var id int
	err := tx.GetContext(ctx, &id, r.db.Rebind(`
		INSERT INTO users (first_name, last_name, image_url, email, phone)
		VALUES (?, ?, ?, ?, ?)
		RETURNING user_id
	`), user.FirstName, user.LastName, nullString(user.ImageURL), user.Email, user.Phone)
	return id, err
}

func (r *SQLUserRepository) upsertCredential(ctx context.Context, tx *sqlx.Tx, c *models.Credential) error {
	_, err := tx.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO credentials (credential_id, user_id, username, password, role_based_authority,
			is_enabled, is_account_non_expired, is_account_non_locked, is_credentials_non_expired)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (credential_id) DO UPDATE SET
			username = excluded.username,
			password = excluded.password,
			role_based_authority = excluded.role_based_authority,
			is_enabled = excluded.is_enabled,
			is_account_non_expired = excluded.is_account_non_expired,
			is_account_non_locked = excluded.is_account_non_locked,
			is_credentials_non_expired = excluded.is_credentials_non_expired
	`), c.CredentialID, c.UserID, c.Username, c.Password, string(c.RoleBasedAuthority),
		c.IsEnabled, c.IsAccountNonExpired, c.IsAccountNonLocked, c.IsCredentialsNonExpired)
	return err
}

// DeleteByID removes the credential and then the user. Deleting an unknown id
// is a no-op.
func (r *SQLUserRepository) DeleteByID(ctx context.Context, id int) error {
	err := database.WithTx(ctx, r.db, nil, func(ctx context.Context, tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, r.db.Rebind(`DELETE FROM credentials WHERE user_id = ?`), id); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, r.db.Rebind(`DELETE FROM users WHERE user_id = ?`), id)
		return err
	})
	if err != nil {
		return translate("delete user", nil, err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}
