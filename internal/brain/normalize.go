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

import "fmt"

// Normalize 将历史上多种 shape 的长期记忆归一为 ThreadBrain。
// nil 输入返回 nil；含嵌套 thread_brain 字段视为 legacy shape；
// 其余按当前 shape 逐字段拷贝，缺失字段取空形式。确定性、无 I/O。
func Normalize(raw map[string]any) *ThreadBrain {
	if raw == nil {
		return nil
	}
	if legacy, ok := raw["thread_brain"].(map[string]any); ok {
		return normalizeLegacy(legacy)
	}
	return normalizeCurrent(raw)
}

// normalizeLegacy 旧 shape：summary → HistoryDigest；recent_logs → "speaker: content"
func normalizeLegacy(tb map[string]any) *ThreadBrain {
	b := emptyBrain()
	b.HistoryDigest = asString(tb["summary"])
	for _, entry := range asSlice(tb["recent_logs"]) {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		speaker := asString(m["speaker"])
		if speaker == "" {
			speaker = asString(m["role"])
		}
		content := asString(m["content"])
		if speaker == "" && content == "" {
			continue
		}
		b.RecentMessages = append(b.RecentMessages, speaker+": "+content)
	}
	return b
}

// normalizeCurrent 当前 shape：逐字段拷贝
func normalizeCurrent(raw map[string]any) *ThreadBrain {
	b := emptyBrain()
	if meta, ok := raw["meta"].(map[string]any); ok {
		b.Meta = meta
	}
	if status, ok := raw["status"].(map[string]any); ok {
		b.Status.Phase = asString(status["phase"])
		b.Status.LastMajorEvent = asString(status["last_major_event"])
		b.Status.Risk = asItems(status["risk"])
	}
	b.Decisions = asItems(raw["decisions"])
	b.Unresolved = asItems(raw["unresolved"])
	b.Constraints = asItems(raw["constraints"])
	b.NextActions = asItems(raw["next_actions"])
	b.HighLevelGoal = asString(raw["high_level_goal"])
	b.HistoryDigest = asString(raw["history_digest"])
	for _, m := range asSlice(raw["recent_messages"]) {
		b.RecentMessages = append(b.RecentMessages, asString(m))
	}
	b.CurrentPosition = asString(raw["current_position"])
	return b
}

func emptyBrain() *ThreadBrain {
	return &ThreadBrain{
		Meta:           map[string]any{},
		Decisions:      []Item{},
		Unresolved:     []Item{},
		Constraints:    []Item{},
		NextActions:    []Item{},
		RecentMessages: []string{},
		Status:         Status{Risk: []Item{}},
	}
}

func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprintf("%v", t)
	}
}

func asSlice(v any) []any {
	if s, ok := v.([]any); ok {
		return s
	}
	return nil
}

func asItems(v any) []Item {
	raw := asSlice(v)
	out := make([]Item, 0, len(raw))
	for _, e := range raw {
		out = append(out, ItemOf(e))
	}
	return out
}
