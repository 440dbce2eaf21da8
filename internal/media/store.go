package media

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// UploadRecord is what an issued credential points at while it is pending.
type UploadRecord struct {
	Filename string `json:"filename"`
	BlobName string `json:"blob_name"`
}

// TokenStore holds pending upload credentials. Tokens are single use: Take
// consumes the token so a credential cannot authorize two uploads.
type TokenStore interface {
	Save(ctx context.Context, token string, rec UploadRecord, ttl time.Duration) error
	Take(ctx context.Context, token string) (*UploadRecord, error)
}

type RedisTokenStore struct {
	client *redis.Client
}

func NewRedisTokenStore(client *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{client: client}
}

func (s *RedisTokenStore) Save(ctx context.Context, token string, rec UploadRecord, ttl time.Duration) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal upload record failed: %w", err)
	}

	if err := s.client.Set(ctx, tokenKey(token), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (s *RedisTokenStore) Take(ctx context.Context, token string) (*UploadRecord, error) {
	data, err := s.client.GetDel(ctx, tokenKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis getdel failed: %w", err)
	}

	var rec UploadRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal upload record failed: %w", err)
	}

	return &rec, nil
}

func tokenKey(token string) string {
	return fmt.Sprintf("upload:%s", token)
}
