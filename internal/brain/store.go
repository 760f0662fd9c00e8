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
	"fmt"
	"sync"

	"chat-platform/pkg/config"
)

// Store 长期记忆存储接口（按 context key 整篇读写 JSON mapping；
// shape 可能是 legacy 或当前版本，归一交给 Normalize）
type Store interface {
	Get(ctx context.Context, contextKey string) (map[string]any, error)
	Put(ctx context.Context, contextKey string, doc map[string]any) error
}

// NewStore 根据配置创建长期记忆存储
func NewStore(ctx context.Context, cfg config.BrainConfig) (Store, error) {
	switch cfg.Type {
	case "", "memory":
		return NewMemoryStore(), nil
	case "redis":
		return NewRedisStore(ctx, cfg)
	case "postgres":
		return NewPgStore(ctx, cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported brain store type: %s", cfg.Type)
	}
}

// MemoryStore 内存实现：序列化存取，避免调用方与存储共享底层 map
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewMemoryStore 创建内存长期记忆存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string][]byte)}
}

// Get 实现 Store；未知 context 返回 nil
func (m *MemoryStore) Get(ctx context.Context, contextKey string) (map[string]any, error) {
	m.mu.RLock()
	raw, ok := m.docs[contextKey]
	m.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, nil
	}
	return doc, nil
}

// Put 实现 Store
func (m *MemoryStore) Put(ctx context.Context, contextKey string, doc map[string]any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.docs[contextKey] = raw
	m.mu.Unlock()
	return nil
}
