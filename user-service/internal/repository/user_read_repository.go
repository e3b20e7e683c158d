package repository

import (
	"context"
	"strconv"
	"sync"

	"github.com/Juan181803/ecommerce-microservice-backend-app2/shared/models"
	"golang.org/x/sync/singleflight"
)

const userViewKeyPrefix = "user:view:"

// UserCache is satisfied by *redis.ViewCache[models.User].
type UserCache interface {
	Get(ctx context.Context, key string) (*models.User, bool)
	Set(ctx context.Context, key string, value *models.User)
	Delete(ctx context.Context, key string)
}

// CachedUserRepository serves FindByID from the cache first, falling back to
// the wrapped store on a miss. Writes go straight to the store and evict the
// cached entry.
type CachedUserRepository struct {
	UserRepository
	cache UserCache
	sf    singleflight.Group

	mu      sync.Mutex
	filling map[string]*cacheFill
}

// cacheFill tracks a store read in flight for one key. An eviction during
// the read marks it stale and its result is not cached.
type cacheFill struct {
	stale bool
}

func NewCachedUserRepository(store UserRepository, cache UserCache) *CachedUserRepository {
	return &CachedUserRepository{
		UserRepository: store,
		cache:          cache,
		filling:        make(map[string]*cacheFill),
	}
}

func (r *CachedUserRepository) FindByID(ctx context.Context, id int) (*models.User, error) {
	key := userViewKey(id)
	if user, ok := r.cache.Get(ctx, key); ok {
		return user, nil
	}

	v, err, _ := r.sf.Do(key, func() (any, error) {
		fill := r.startFill(key)
		user, err := r.UserRepository.FindByID(ctx, id)
		r.finishFill(ctx, key, fill, user)
		if err != nil {
			return nil, err
		}
		return user, nil
	})
	if err != nil {
		return nil, err
	}
	return cloneUser(v.(*models.User)), nil
}

func (r *CachedUserRepository) Save(ctx context.Context, user *models.User) (*models.User, error) {
	saved, err := r.UserRepository.Save(ctx, user)
	if err != nil {
		return nil, err
	}
	if user.UserID != 0 {
		r.evict(ctx, userViewKey(user.UserID))
	}
	r.evict(ctx, userViewKey(saved.UserID))
	return saved, nil
}

func (r *CachedUserRepository) DeleteByID(ctx context.Context, id int) error {
	if err := r.UserRepository.DeleteByID(ctx, id); err != nil {
		return err
	}
	r.evict(ctx, userViewKey(id))
	return nil
}

func (r *CachedUserRepository) startFill(key string) *cacheFill {
	r.mu.Lock()
	defer r.mu.Unlock()
	fill := &cacheFill{}
	r.filling[key] = fill
	return fill
}

// finishFill caches user unless the key was evicted after the fill started.
// The check and the write happen under mu so an eviction cannot slip between
// them.
func (r *CachedUserRepository) finishFill(ctx context.Context, key string, fill *cacheFill, user *models.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.filling[key] == fill {
		delete(r.filling, key)
	}
	if user != nil && !fill.stale {
		r.cache.Set(ctx, key, user)
	}
}

func (r *CachedUserRepository) evict(ctx context.Context, key string) {
	r.mu.Lock()
	if fill, ok := r.filling[key]; ok {
		fill.stale = true
	}
	r.mu.Unlock()
	r.cache.Delete(ctx, key)
}

func userViewKey(id int) string {
	return userViewKeyPrefix + strconv.Itoa(id)
}
