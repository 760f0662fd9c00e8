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

// Package reply 模型原始输出到对外回复文本的整形。
package reply

import (
	"strings"

	"chat-platform/pkg/metrics"
)

// FinalMarker 模型输出中的最终答案标记
const FinalMarker = "[FINAL]"

// FallbackMessage 模型输出为空或failed时的固定兜底回复
const FallbackMessage = "Sorry, I could not come up with a reply just now. Please try again."

// DefaultReplyLimit 外发回复的默认字符上限（宿主平台的硬约束）
const DefaultReplyLimit = 1900

// Stabilize 保证回复非空并抽取最终答案段。
// 空判定作用于原始值，不先 trim；标记后为空时退回整段修剪文本。
// 截断是调用方的责任，这里只保证非空。
func Stabilize(raw string) string {
	if raw == "" {
		metrics.FallbackReplyTotal.Inc()
		return FallbackMessage
	}
	trimmed := strings.TrimSpace(raw)
	idx := strings.Index(trimmed, FinalMarker)
	if idx < 0 {
		return trimmed
	}
	tail := strings.TrimSpace(trimmed[idx+len(FinalMarker):])
	if tail == "" {
		return trimmed
	}
	return tail
}

// Truncate 按字符数硬截断到宿主上限；limit<=0 时取默认 1900
func Truncate(s string, limit int) string {
	if limit <= 0 {
		limit = DefaultReplyLimit
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	metrics.ReplyTruncatedTotal.Inc()
	return string(r[:limit])
}
