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

// Package brain 长期记忆（thread brain）的规范化、过滤与渲染。
// 包内所有纯函数对任意输入 shape 均返回良构结果，不做 I/O，可并发调用。
package brain

import (
	"encoding/json"
	"fmt"
)

const itemRenderLimit = 80

// Item 约束/决策等松散字段的 string|object 联合（tagged variant）
type Item struct {
	text       string
	structured map[string]any
	isText     bool
}

// TextItem 创建文本项
func TextItem(s string) Item {
	return Item{text: s, isText: true}
}

// StructuredItem 创建结构化项
func StructuredItem(m map[string]any) Item {
	return Item{structured: m}
}

// ItemOf 从任意值创建 Item：string 原样，mapping 保留结构，其余转为文本
func ItemOf(v any) Item {
	switch t := v.(type) {
	case string:
		return TextItem(t)
	case map[string]any:
		return StructuredItem(t)
	default:
		return TextItem(compactString(v))
	}
}

// IsText 是否为文本项
func (it Item) IsText() bool { return it.isText }

// Raw 返回原始值（过滤器写回原 shape 时使用）
func (it Item) Raw() any {
	if it.isText {
		return it.text
	}
	return it.structured
}

// Render 统一的展示文本转换：文本原样；mapping 依次取 title/content/text/name/description；
// action/step 形渲染为 "action: detail"；其余紧凑序列化并截断。不会 panic。
func (it Item) Render() string {
	if it.isText {
		return it.text
	}
	m := it.structured
	if m == nil {
		return ""
	}
	for _, k := range []string{"title", "content", "text", "name", "description"} {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	if a, ok := m["action"]; ok {
		action := compactString(a)
		if d, ok := m["detail"]; ok {
			return action + ": " + compactString(d)
		}
		if d, ok := m["step"]; ok {
			return action + ": " + compactString(d)
		}
		return action
	}
	return truncateRunes(compactString(m), itemRenderLimit)
}

// compactString 任意值的紧凑文本形式；序列化failed时退回 fmt
func compactString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if b, err := json.Marshal(v); err == nil {
		return string(b)
	}
	return fmt.Sprintf("%v", v)
}

// truncateRunes 按字符数截断并附省略号
func truncateRunes(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	if limit <= 3 {
		return string(r[:limit])
	}
	return string(r[:limit-3]) + "..."
}

// Status thread brain 的状态块
type Status struct {
	Phase          string `json:"phase"`
	LastMajorEvent string `json:"last_major_event"`
	Risk           []Item `json:"-"`
}

// ThreadBrain 规范化后的长期记忆。Normalize 之后不再变更，Scoring/Narrative 只读消费。
type ThreadBrain struct {
	Meta            map[string]any
	Status          Status
	Decisions       []Item
	Unresolved      []Item
	Constraints     []Item
	NextActions     []Item
	HighLevelGoal   string
	HistoryDigest   string
	RecentMessages  []string
	CurrentPosition string
}

// ToMap 导出为规范 mapping（持久化写回与测试断言用；字段恒定存在，空值为空形式）
func (b *ThreadBrain) ToMap() map[string]any {
	if b == nil {
		return nil
	}
	itemsOut := func(items []Item) []any {
		out := make([]any, 0, len(items))
		for _, it := range items {
			out = append(out, it.Raw())
		}
		return out
	}
	msgs := make([]any, 0, len(b.RecentMessages))
	for _, m := range b.RecentMessages {
		msgs = append(msgs, m)
	}
	meta := b.Meta
	if meta == nil {
		meta = map[string]any{}
	}
	return map[string]any{
		"meta": meta,
		"status": map[string]any{
			"phase":            b.Status.Phase,
			"last_major_event": b.Status.LastMajorEvent,
			"risk":             itemsOut(b.Status.Risk),
		},
		"decisions":        itemsOut(b.Decisions),
		"unresolved":       itemsOut(b.Unresolved),
		"constraints":      itemsOut(b.Constraints),
		"next_actions":     itemsOut(b.NextActions),
		"high_level_goal":  b.HighLevelGoal,
		"history_digest":   b.HistoryDigest,
		"recent_messages":  msgs,
		"current_position": b.CurrentPosition,
	}
}
