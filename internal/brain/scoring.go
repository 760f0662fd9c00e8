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

import "strings"

const (
	scoringHeader   = "[PRIORITY]"
	scoringLimit    = 1200
	maxSectionItems = 5
)

// scoringFallback 无 brain 时的固定兜底指令
const scoringFallback = scoringHeader + "\n" +
	"No stored context is available. Prioritize clarity: answer only what the user asked, " +
	"and ask the user to restate their intent if anything is ambiguous."

// phaseDirectives phase → 指令文案；未知 phase 原样输出 phase 标签
var phaseDirectives = map[string]string{
	"idle":    "Phase: idle. Propose concrete next steps.",
	"active":  "Phase: active. Maintain momentum on the current work.",
	"blocked": "Phase: blocked. Propose 1-3 options to unblock.",
	"done":    "Phase: done. Offer reflection or a summary.",
}

// ComposeScoring 将 ThreadBrain 渲染为优先级指令块（≤1200 字符，超出截断加省略号）。
// nil 输入返回固定兜底。各节仅在来源非空时输出，列表取前 5 项，原顺序。
func ComposeScoring(b *ThreadBrain) string {
	if b == nil {
		return scoringFallback
	}

	var sb strings.Builder
	sb.WriteString(scoringHeader)
	sb.WriteString("\n")
	sb.WriteString("Always prefer the newest user message over older stored plans if they conflict.\n")

	writeSection(&sb, "Unresolved (resolve first):", b.Unresolved)
	writeSection(&sb, "Next actions:", b.NextActions)
	writeSection(&sb, "Constraints (must not be violated):", b.Constraints)
	writeSection(&sb, "Decisions (respect unless the user overrides):", b.Decisions)

	if b.HighLevelGoal != "" {
		sb.WriteString("Goal: " + b.HighLevelGoal + "\n")
	}
	if b.Status.Phase != "" {
		if directive, ok := phaseDirectives[b.Status.Phase]; ok {
			sb.WriteString(directive + "\n")
		} else {
			sb.WriteString("Phase: " + b.Status.Phase + "\n")
		}
	}
	writeSection(&sb, "Risks:", b.Status.Risk)
	if b.Status.LastMajorEvent != "" {
		sb.WriteString("Last major event: " + b.Status.LastMajorEvent + "\n")
	}

	return truncateRunes(strings.TrimRight(sb.String(), "\n"), scoringLimit)
}

func writeSection(sb *strings.Builder, header string, items []Item) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(header)
	sb.WriteString("\n")
	n := len(items)
	if n > maxSectionItems {
		n = maxSectionItems
	}
	for _, it := range items[:n] {
		sb.WriteString("- " + it.Render() + "\n")
	}
}
