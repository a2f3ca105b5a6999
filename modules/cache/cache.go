package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/zirius/linkcloak/models"
)

const keyPrefix = "link:"

// Cache keeps resolved links in Redis so the hot /verify path can skip
// the database for repeat visitors. Links are immutable, which makes the
// cached copy safe for its whole TTL.
type Cache struct {
	rdb *redis.Client
}

func Connect(addr, password string) (*Cache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Cache{rdb: rdb}, nil
}

func (c *Cache) GetLink(ctx context.Context, shortCode string) (*models.Link, error) {
	raw, err := c.rdb.Get(ctx, keyPrefix+shortCode).Bytes()
	if err != nil {
		return nil, err
	}

	var link models.Link
	if err := json.Unmarshal(raw, &link); err != nil {
		return nil, err
	}
	return &link, nil
}

func (c *Cache) SetLink(ctx context.Context, link *models.Link, expiration time.Duration) error {
	raw, err := json.Marshal(link)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, keyPrefix+link.ShortCode, raw, expiration).Err()
}

func (c *Cache) Close() error {
	return c.rdb.Close()
}
