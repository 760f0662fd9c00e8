// Copyright 2026 fanjia1024
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package brain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"chat-platform/pkg/config"
	pkgerrors "chat-platform/pkg/errors"
)

// RedisStore Redis 实现
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore 创建 Redis 长期记忆存储并校验连通性
func NewRedisStore(ctx context.Context, cfg config.BrainConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		DB:       cfg.DB,
		Password: cfg.Password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "brain"
	}
	return &RedisStore{client: client, prefix: prefix}, nil
}

func (r *RedisStore) key(contextKey string) string {
	return r.prefix + ":" + contextKey
}

// Get 实现 Store；key 不存在返回 nil，连接失败返回 ErrStoreUnavailable
func (r *RedisStore) Get(ctx context.Context, contextKey string) (map[string]any, error) {
	raw, err := r.client.Get(ctx, r.key(contextKey)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.ErrStoreUnavailable, err.Error())
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		// 损坏数据视为无记忆
		return nil, nil
	}
	return doc, nil
}

// Put 实现 Store
func (r *RedisStore) Put(ctx context.Context, contextKey string, doc map[string]any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key(contextKey), raw, 0).Err(); err != nil {
		return pkgerrors.Wrap(pkgerrors.ErrStoreUnavailable, err.Error())
	}
	return nil
}

// Close 关闭连接
func (r *RedisStore) Close() error {
	return r.client.Close()
}
