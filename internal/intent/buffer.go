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

// Package intent 进程内的候选意图缓冲：按 context 暂存待晋升为长期记忆的片段。
// 只在内存里存活，进程重启即清空。
package intent

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const defaultCapacity = 10

// 候选意图的生命周期状态
const (
	StateDraft    = "draft"
	StateAccepted = "accepted"
	StatePromoted = "promoted"
	StateDropped  = "dropped"
)

// Intent 单条候选意图
type Intent struct {
	ID         string
	ContextKey string
	RawText    string
	State      string
	CreatedAt  time.Time
	Meta       map[string]any
}

// Buffer 按 context 分组的定容缓冲，满时先进先出淘汰
type Buffer struct {
	mu       sync.Mutex
	capacity int
	byCtx    map[string][]Intent
}

// NewBuffer 创建缓冲；capacity<=0 时默认 10
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &Buffer{
		capacity: capacity,
		byCtx:    make(map[string][]Intent),
	}
}

// Push 追加一条候选意图并返回之；contextKey 为空时不做任何事
func (b *Buffer) Push(contextKey, rawText string, meta map[string]any) *Intent {
	if contextKey == "" {
		return nil
	}
	it := Intent{
		ID:         uuid.NewString(),
		ContextKey: contextKey,
		RawText:    rawText,
		State:      StateDraft,
		CreatedAt:  time.Now(),
		Meta:       meta,
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	list := append(b.byCtx[contextKey], it)
	if len(list) > b.capacity {
		list = list[len(list)-b.capacity:]
	}
	b.byCtx[contextKey] = list
	return &it
}

// ListRecent 返回该 context 下全部候选意图的副本，从旧到新
func (b *Buffer) ListRecent(contextKey string) []Intent {
	b.mu.Lock()
	defer b.mu.Unlock()
	list := b.byCtx[contextKey]
	if len(list) == 0 {
		return nil
	}
	out := make([]Intent, len(list))
	copy(out, list)
	return out
}

// MarkState 按 ID 更新状态，返回是否命中
func (b *Buffer) MarkState(contextKey, id, state string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	list := b.byCtx[contextKey]
	for i := range list {
		if list[i].ID == id {
			list[i].State = state
			return true
		}
	}
	return false
}

// Clear 清空该 context 下的缓冲
func (b *Buffer) Clear(contextKey string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.byCtx, contextKey)
}
