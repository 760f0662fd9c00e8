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
	"strings"

	"chat-platform/internal/memory"
)

// 叙述视图与记忆摘要各自独立的截断上限，互不引用
const (
	narrativeDigestLimit = 240
	memoryEntryLimit     = 220
)

// ComposeNarrative 将 ThreadBrain 渲染为人类可读的叙述块（展示/审计用，
// 与 ComposeScoring 是同一数据的两个独立视图）。nil 输入返回空串。
func ComposeNarrative(b *ThreadBrain) string {
	if b == nil {
		return ""
	}
	var sb strings.Builder
	if b.Status.Phase != "" {
		sb.WriteString("Phase: " + b.Status.Phase + "\n")
	}
	if b.Status.LastMajorEvent != "" {
		sb.WriteString("Last event: " + b.Status.LastMajorEvent + "\n")
	}
	if b.HighLevelGoal != "" {
		sb.WriteString("Goal: " + b.HighLevelGoal + "\n")
	}
	if b.HistoryDigest != "" {
		sb.WriteString("History: " + truncateRunes(b.HistoryDigest, narrativeDigestLimit) + "\n")
	}
	writeSection(&sb, "Constraints:", b.Constraints)
	writeSection(&sb, "Decisions:", b.Decisions)
	writeSection(&sb, "Unresolved:", b.Unresolved)
	writeSection(&sb, "Next actions:", b.NextActions)
	return strings.TrimRight(sb.String(), "\n")
}

// DigestMemory 将短期记忆渲染为按角色标注的摘要，取最近 max 条；
// max<=0 时取全部。单条内容截断到 220 字符。
func DigestMemory(entries []memory.Entry, max int) string {
	if len(entries) == 0 {
		return ""
	}
	if max > 0 && len(entries) > max {
		entries = entries[len(entries)-max:]
	}
	var sb strings.Builder
	for _, e := range entries {
		sb.WriteString(e.Role + ": " + truncateRunes(e.Content, memoryEntryLimit) + "\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
