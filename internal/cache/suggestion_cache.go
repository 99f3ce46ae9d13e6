package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/nolanv/stocklens/internal/config"
	"github.com/nolanv/stocklens/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	suggestionKeyPrefix    = "suggestions"
	statusSummaryKeyPrefix = "status_summary"
	suggestionScanBatch    = 100
)

type SuggestionCache interface {
	GetSuggestions(ctx context.Context, filter domain.SuggestionFilter) (*domain.SuggestionPage, bool, error)
	SetSuggestions(ctx context.Context, filter domain.SuggestionFilter, page *domain.SuggestionPage) error
	GetSummary(ctx context.Context, clientID string) ([]domain.LevelCount, bool, error)
	SetSummary(ctx context.Context, clientID string, summary []domain.LevelCount) error
	InvalidateClient(ctx context.Context, clientID string) error
	InvalidateAll(ctx context.Context) error
}

type redisSuggestionCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopSuggestionCache struct{}

func NewSuggestionCache(cfg config.CacheConfig) (SuggestionCache, error) {
	if !cfg.Enabled {
		return &noopSuggestionCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisSuggestionCache{
		client: client,
		ttl:    ttl,
	}, nil
}

func NewNoopSuggestionCache() SuggestionCache {
	return &noopSuggestionCache{}
}

func (c *redisSuggestionCache) GetSuggestions(ctx context.Context, filter domain.SuggestionFilter) (*domain.SuggestionPage, bool, error) {
	key := buildSuggestionKey(filter)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var page domain.SuggestionPage
	if err := json.Unmarshal(payload, &page); err != nil {
		return nil, false, fmt.Errorf("decode suggestion cache: %w", err)
	}

	return &page, true, nil
}

func (c *redisSuggestionCache) SetSuggestions(ctx context.Context, filter domain.SuggestionFilter, page *domain.SuggestionPage) error {
	key := buildSuggestionKey(filter)
	payload, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("encode suggestion cache: %w", err)
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisSuggestionCache) GetSummary(ctx context.Context, clientID string) ([]domain.LevelCount, bool, error) {
	key := buildSummaryKey(clientID)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var summary []domain.LevelCount
	if err := json.Unmarshal(payload, &summary); err != nil {
		return nil, false, fmt.Errorf("decode status summary cache: %w", err)
	}

	return summary, true, nil
}

func (c *redisSuggestionCache) SetSummary(ctx context.Context, clientID string, summary []domain.LevelCount) error {
	key := buildSummaryKey(clientID)
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encode status summary cache: %w", err)
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// InvalidateClient drops every cached page for the client. Unscoped entries
// go too since they can include the client's products.
func (c *redisSuggestionCache) InvalidateClient(ctx context.Context, clientID string) error {
	prefixes := []string{
		fmt.Sprintf("%s:%s:", suggestionKeyPrefix, clientScope(clientID)),
		fmt.Sprintf("%s:all:", suggestionKeyPrefix),
	}
	for _, prefix := range prefixes {
		if err := deleteKeysWithPrefix(ctx, c.client, prefix, suggestionScanBatch); err != nil {
			return err
		}
	}

	keys := []string{buildSummaryKey(clientID), buildSummaryKey("")}
	return c.client.Del(ctx, keys...).Err()
}

func (c *redisSuggestionCache) InvalidateAll(ctx context.Context) error {
	if err := deleteKeysWithPrefix(ctx, c.client, suggestionKeyPrefix, suggestionScanBatch); err != nil {
		return err
	}
	return deleteKeysWithPrefix(ctx, c.client, statusSummaryKeyPrefix, suggestionScanBatch)
}

func (n *noopSuggestionCache) GetSuggestions(ctx context.Context, filter domain.SuggestionFilter) (*domain.SuggestionPage, bool, error) {
	return nil, false, nil
}

func (n *noopSuggestionCache) SetSuggestions(ctx context.Context, filter domain.SuggestionFilter, page *domain.SuggestionPage) error {
	return nil
}

func (n *noopSuggestionCache) GetSummary(ctx context.Context, clientID string) ([]domain.LevelCount, bool, error) {
	return nil, false, nil
}

func (n *noopSuggestionCache) SetSummary(ctx context.Context, clientID string, summary []domain.LevelCount) error {
	return nil
}

func (n *noopSuggestionCache) InvalidateClient(ctx context.Context, clientID string) error {
	return nil
}

func (n *noopSuggestionCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func buildSuggestionKey(filter domain.SuggestionFilter) string {
	return fmt.Sprintf("%s:%s:%s", suggestionKeyPrefix, clientScope(filter.ClientID), suggestionFilterHash(filter))
}

func buildSummaryKey(clientID string) string {
	return fmt.Sprintf("%s:%s", statusSummaryKeyPrefix, clientScope(clientID))
}

func clientScope(clientID string) string {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return "all"
	}
	return clientID
}

func suggestionFilterHash(filter domain.SuggestionFilter) string {
	parts := []string{}

	if filter.Urgency != "" {
		parts = append(parts, "urgency="+strings.ToLower(strings.TrimSpace(filter.Urgency)))
	}
	if filter.Level != "" {
		parts = append(parts, "level="+strings.ToLower(strings.TrimSpace(filter.Level)))
	}
	if filter.Search != "" {
		parts = append(parts, "search="+strings.ToLower(strings.TrimSpace(filter.Search)))
	}
	if filter.Page > 1 {
		parts = append(parts, "page="+strconv.Itoa(filter.Page))
	}
	if filter.PageSize > 0 {
		parts = append(parts, "page_size="+strconv.Itoa(filter.PageSize))
	}

	if len(parts) == 0 {
		return "default"
	}

	sort.Strings(parts)
	raw := strings.Join(parts, "|")
	sum := sha1.Sum([]byte(raw))
	return hex.EncodeToString(sum[:])
}
