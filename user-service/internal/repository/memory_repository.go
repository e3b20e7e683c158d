package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/Juan181803/ecommerce-microservice-backend-app2/shared/models"
)

// MemoryUserRepository keeps users in process memory. It applies the same
// uniqueness and shared-key rules as the SQL store.
type MemoryUserRepository struct {
	mu     sync.RWMutex
	users  map[int]models.User
	nextID int
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[int]models.User), nextID: 1}
}

func (r *MemoryUserRepository) FindAll(ctx context.Context) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, *cloneUser(&u))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].UserID < users[j].UserID })
	return users, nil
}

func (r *MemoryUserRepository) FindByID(ctx context.Context, id int) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return cloneUser(&u), nil
}

func (r *MemoryUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(&u), nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *MemoryUserRepository) ExistsByID(ctx context.Context, id int) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.users[id]
	return ok, nil
}

func (r *MemoryUserRepository) Save(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := cloneUser(user)
	prev, known := r.users[u.UserID]
	if !known || u.UserID == 0 {
		u.UserID = 0
	}

	for id, other := range r.users {
		if id == u.UserID {
			continue
		}
		if other.Email == u.Email {
			return nil, models.NewConflict("user", "email", u.Email)
		}
		if u.Credential != nil && other.Credential != nil && other.Credential.Username == u.Credential.Username {
			return nil, models.NewConflict("user", "username", u.Credential.Username)
		}
	}

	if u.UserID == 0 {
		u.UserID = r.nextID
		r.nextID++
	}
	if u.Credential == nil && known {
		u.Credential = cloneUser(&prev).Credential
	}
	u.AttachCredential(u.Credential)

	r.users[u.UserID] = *u
	return cloneUser(u), nil
}

func (r *MemoryUserRepository) DeleteByID(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.users, id)
	return nil
}

func cloneUser(u *models.User) *models.User {
	out := *u
	if u.Credential != nil {
		c := *u.Credential
		out.Credential = &c
	}
	return &out
}
