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
	"sync"
	"time"

	"chat-platform/pkg/log"
)

const defaultWindowLimit = 40

// Rotator 短期记忆轮换：读-追加-裁剪-写，按 context key 串行。
// 存储不可用时视为空窗继续，只记日志，不中断回合。
type Rotator struct {
	store  Store
	limit  int
	logger *log.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewRotator 创建轮换器；limit<=0 时默认 40
func NewRotator(store Store, limit int, logger *log.Logger) *Rotator {
	if limit <= 0 {
		limit = defaultWindowLimit
	}
	return &Rotator{
		store:  store,
		limit:  limit,
		logger: logger,
		locks:  make(map[string]*sync.Mutex),
	}
}

// contextLock 同一 context 的追加互斥；宿主平台按 context 串行投递时等价于无竞争
func (r *Rotator) contextLock(contextKey string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.locks[contextKey]
	if !ok {
		l = &sync.Mutex{}
		r.locks[contextKey] = l
	}
	return l
}

// Append 追加一条消息并裁剪到窗口上限，返回裁剪后的窗口
func (r *Rotator) Append(ctx context.Context, contextKey, role, content string) []Entry {
	l := r.contextLock(contextKey)
	l.Lock()
	defer l.Unlock()

	entries, err := r.store.Load(ctx, contextKey)
	if err != nil {
		r.warn("load short-term memory failed, treating as empty", contextKey, err)
		entries = nil
	}
	entries = append(entries, Entry{Role: role, Content: content, Timestamp: time.Now()})
	if len(entries) > r.limit {
		entries = entries[len(entries)-r.limit:]
	}
	if err := r.store.Save(ctx, contextKey, entries); err != nil {
		r.warn("save short-term memory failed", contextKey, err)
	}
	return entries
}

// Recent 读取当前窗口；存储不可用时返回空
func (r *Rotator) Recent(ctx context.Context, contextKey string) []Entry {
	entries, err := r.store.Load(ctx, contextKey)
	if err != nil {
		r.warn("load short-term memory failed, treating as empty", contextKey, err)
		return nil
	}
	return entries
}

// Limit 返回窗口上限
func (r *Rotator) Limit() int {
	return r.limit
}

func (r *Rotator) warn(msg, contextKey string, err error) {
	if r.logger == nil {
		return
	}
	r.logger.Warn(msg, "context_key", contextKey, "err", err)
}
