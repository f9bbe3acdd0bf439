package accounts

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/commercekit/category-merchandising/internal/domain"
	"github.com/redis/go-redis/v9"
)

// Client looks up per-store ranking account configuration and merchandising
// settings from the shared key-value store.
type Client struct {
	client          *redis.Client
	defaultMaxLimit int
}

func NewClient(client *redis.Client, defaultMaxLimit int) *Client {
	return &Client{client: client, defaultMaxLimit: defaultMaxLimit}
}

func accountKey(storeCode string) string {
	return fmt.Sprintf("merch:account:%s", storeCode)
}

func settingsKey(storeCode string) string {
	return fmt.Sprintf("merch:settings:%s", storeCode)
}

// FindAccount returns the ranking account configured for the store, or nil
// when none is configured.
func (c *Client) FindAccount(ctx context.Context, store *domain.Store) (*domain.Account, error) {
	key := accountKey(store.Code)
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get account config from store: %w", err)
	}

	var account domain.Account
	if err := json.Unmarshal([]byte(val), &account); err != nil {
		return nil, fmt.Errorf("failed to unmarshal account config %s: %w", key, err)
	}

	return &account, nil
}

// Settings returns the store's merchandising settings, falling back to
// defaults when nothing is configured.
func (c *Client) Settings(ctx context.Context, store *domain.Store) (*domain.StoreSettings, error) {
	key := settingsKey(store.Code)
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return c.defaultSettings(), nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get store settings: %w", err)
	}

	var settings domain.StoreSettings
	if err := json.Unmarshal([]byte(val), &settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal store settings %s: %w", key, err)
	}

	if settings.MaxProductLimit <= 0 {
		settings.MaxProductLimit = c.defaultMaxLimit
	}
	return &settings, nil
}

func (c *Client) defaultSettings() *domain.StoreSettings {
	return &domain.StoreSettings{
		BrandAttribute:   "manufacturer",
		MaxProductLimit:  c.defaultMaxLimit,
		PersonalizedSort: false,
	}
}

// SaveAccount stores the ranking account configuration of a store.
func (c *Client) SaveAccount(ctx context.Context, store *domain.Store, account *domain.Account) error {
	val, err := json.Marshal(account)
	if err != nil {
		return fmt.Errorf("failed to marshal account config: %w", err)
	}

	if err := c.client.Set(ctx, accountKey(store.Code), val, 0).Err(); err != nil {
		return fmt.Errorf("failed to set account config: %w", err)
	}

	return nil
}

// SaveSettings stores the merchandising settings of a store.
func (c *Client) SaveSettings(ctx context.Context, store *domain.Store, settings *domain.StoreSettings) error {
	val, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal store settings: %w", err)
	}

	if err := c.client.Set(ctx, settingsKey(store.Code), val, 0).Err(); err != nil {
		return fmt.Errorf("failed to set store settings: %w", err)
	}

	return nil
}

// Ping connectivity
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
