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

package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"chat-platform/pkg/config"
	pkgerrors "chat-platform/pkg/errors"
)

const redisKeyPrefix = "stm:"

// RedisStore Redis 实现：每 context 一个 key，整窗 JSON 存取
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore 创建 Redis 短期记忆存储并校验连通性
func NewRedisStore(ctx context.Context, cfg config.MemoryConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		DB:       cfg.DB,
		Password: cfg.Password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisStore{client: client}, nil
}

// Load 实现 Store；key 不存在返回空，连接失败返回 ErrStoreUnavailable
func (r *RedisStore) Load(ctx context.Context, contextKey string) ([]Entry, error) {
	raw, err := r.client.Get(ctx, redisKeyPrefix+contextKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.ErrStoreUnavailable, err.Error())
	}
	var entries []Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		// 损坏数据按空窗处理，下次 Save 覆盖
		return nil, nil
	}
	return entries, nil
}

// Save 实现 Store
func (r *RedisStore) Save(ctx context.Context, contextKey string, entries []Entry) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, redisKeyPrefix+contextKey, raw, 0).Err(); err != nil {
		return pkgerrors.Wrap(pkgerrors.ErrStoreUnavailable, err.Error())
	}
	return nil
}

// Close 关闭连接
func (r *RedisStore) Close() error {
	return r.client.Close()
}
