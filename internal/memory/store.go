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
	"fmt"
	"sync"

	"chat-platform/pkg/config"
)

// Store 短期记忆持久化接口（按 context key 整窗读写）
type Store interface {
	Load(ctx context.Context, contextKey string) ([]Entry, error)
	Save(ctx context.Context, contextKey string, entries []Entry) error
}

// NewStore 根据配置创建短期记忆存储
func NewStore(ctx context.Context, cfg config.MemoryConfig) (Store, error) {
	switch cfg.Type {
	case "", "memory":
		return NewMemoryStore(), nil
	case "redis":
		return NewRedisStore(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported memory store type: %s", cfg.Type)
	}
}

// MemoryStore 内存实现（map + mutex）
type MemoryStore struct {
	mu      sync.RWMutex
	windows map[string][]Entry
}

// NewMemoryStore 创建内存短期记忆存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{windows: make(map[string][]Entry)}
}

// Load 实现 Store；未知 context 返回空
func (m *MemoryStore) Load(ctx context.Context, contextKey string) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	list := m.windows[contextKey]
	if len(list) == 0 {
		return nil, nil
	}
	out := make([]Entry, len(list))
	copy(out, list)
	return out, nil
}

// Save 实现 Store
func (m *MemoryStore) Save(ctx context.Context, contextKey string, entries []Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := make([]Entry, len(entries))
	copy(list, entries)
	m.windows[contextKey] = list
	return nil
}
