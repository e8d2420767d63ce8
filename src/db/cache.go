package db

import (
	"fmt"
	"time"

	"spendwise-server/src/models"

	"github.com/dgraph-io/ristretto/v2"
)

// UserCache keeps recently authenticated users in memory so the auth
// middleware does not hit the users table on every request.
type UserCache struct {
	cache *ristretto.Cache[int64, *models.User]
	ttl   time.Duration
}

func NewUserCache(ttl time.Duration) (*UserCache, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[int64, *models.User]{
		NumCounters: 10000, // number of keys to track frequency of
		MaxCost:     10000,
		BufferItems: 64, // number of keys per Get buffer
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize user cache: %w", err)
	}
	return &UserCache{cache: cache, ttl: ttl}, nil
}

func (c *UserCache) Get(userID int64) (*models.User, bool) {
	return c.cache.Get(userID)
}

func (c *UserCache) Set(user *models.User) {
	if c.ttl > 0 {
		c.cache.SetWithTTL(user.ID, user, 1, c.ttl)
		return
	}
	c.cache.Set(user.ID, user, 1)
}

func (c *UserCache) Del(userID int64) {
	c.cache.Del(userID)
}

// Wait blocks until buffered writes are visible to Get.
func (c *UserCache) Wait() {
	c.cache.Wait()
}

func (c *UserCache) Close() {
	c.cache.Close()
}
