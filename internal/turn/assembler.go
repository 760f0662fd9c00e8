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

// Package turn 单回合处理管线：准入后的上下文组装、模型调用与回复整形。
package turn

import (
	"chat-platform/internal/brain"
	"chat-platform/internal/memory"
	"chat-platform/internal/statehint"
)

// PacketVersion 出站包的 schema 版本
const PacketVersion = "2"

// InputPacket 每回合新组装的出站信封，不跨回合保留
type InputPacket struct {
	Version       string             `json:"version"`
	UserText      string             `json:"user_text"`
	RuntimeMemory []memory.Entry     `json:"runtime_memory"` // 最多窗口上限条
	ThreadBrain   *brain.ThreadBrain `json:"-"`
	TBPrompt      string             `json:"tb_prompt"`  // 叙述视图
	TBScoring     string             `json:"tb_scoring"` // 优先级指令视图
	State         *statehint.Hint    `json:"state,omitempty"`
}

// Assembler 上下文组装器：过滤→归一→两路渲染，拼出 InputPacket
type Assembler struct {
	filter      *brain.Filter
	memoryLimit int
}

// NewAssembler 创建组装器；memoryLimit<=0 时不裁剪（由 rotator 自身兜底）
func NewAssembler(filter *brain.Filter, memoryLimit int) *Assembler {
	if filter == nil {
		filter = brain.NewFilter(nil)
	}
	return &Assembler{filter: filter, memoryLimit: memoryLimit}
}

// Assemble 组装单回合的出站包。rawBrain 可为 nil（无长期记忆或存储degrade），
// hint 可为 nil（idle）。纯函数，不做 I/O。
func (a *Assembler) Assemble(userText string, recent []memory.Entry, rawBrain map[string]any, hint *statehint.Hint) *InputPacket {
	filtered := a.filter.FilterConstraints(rawBrain)
	tb := brain.Normalize(filtered)

	window := recent
	if a.memoryLimit > 0 && len(window) > a.memoryLimit {
		window = window[len(window)-a.memoryLimit:]
	}

	return &InputPacket{
		Version:       PacketVersion,
		UserText:      userText,
		RuntimeMemory: window,
		ThreadBrain:   tb,
		TBPrompt:      brain.ComposeNarrative(tb),
		TBScoring:     brain.ComposeScoring(tb),
		State:         hint,
	}
}
