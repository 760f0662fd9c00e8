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

package statehint

import (
	"strings"

	"chat-platform/internal/memory"
)

// 可观测的三种模式；idle 以 nil Hint 表示，不单独建值
const (
	ModeTask           = "task"
	ModeSimpleSequence = "simple_sequence"
)

// 连续性判定的来源
const (
	ReasonKeywordNext        = "keyword_next"
	ReasonUserIncrement      = "user_increment"
	ReasonAssistantIncrement = "assistant_increment"
)

// Hint 单回合的模式提示
type Hint struct {
	Mode       string
	ContextKey string
	BaseNumber int
	Reason     string
}

// Inferencer 模式推断器
type Inferencer struct {
	keywords      map[string]struct{}
	trailingPunct []string
}

// NewInferencer 创建推断器；空参数取默认词表/标点表
func NewInferencer(continueKeywords, trailingPunct []string) *Inferencer {
	if len(continueKeywords) == 0 {
		continueKeywords = DefaultContinueKeywords
	}
	if len(trailingPunct) == 0 {
		trailingPunct = DefaultTrailingPunct
	}
	kw := make(map[string]struct{}, len(continueKeywords))
	for _, k := range continueKeywords {
		kw[strings.ToLower(k)] = struct{}{}
	}
	return &Inferencer{keywords: kw, trailingPunct: trailingPunct}
}

// Infer 推断当前回合的模式提示；无提示（idle）返回 nil。
// taskFlag 无条件优先；数字连续性启发按 keyword_next、user_increment、
// assistant_increment 的顺序判定。keyword_next 的 base 取最近 assistant 数字，
// increment 两路的 base 取当前新解析出的数字，两者刻意不对称。
func (inf *Inferencer) Infer(contextKey, current string, taskFlag bool, recent []memory.Entry) *Hint {
	if taskFlag {
		return &Hint{Mode: ModeTask, ContextKey: contextKey}
	}

	lastUser, haveUser, lastAssistant, haveAssistant := inf.scanNumbers(recent)

	if inf.isContinueKeyword(current) && haveAssistant {
		return &Hint{
			Mode:       ModeSimpleSequence,
			ContextKey: contextKey,
			BaseNumber: lastAssistant,
			Reason:     ReasonKeywordNext,
		}
	}

	n, ok := ParseLooseInt(current, inf.trailingPunct)
	if !ok {
		return nil
	}
	if haveUser && n == lastUser+1 {
		return &Hint{
			Mode:       ModeSimpleSequence,
			ContextKey: contextKey,
			BaseNumber: n,
			Reason:     ReasonUserIncrement,
		}
	}
	if haveAssistant && n == lastAssistant+1 {
		return &Hint{
			Mode:       ModeSimpleSequence,
			ContextKey: contextKey,
			BaseNumber: n,
			Reason:     ReasonAssistantIncrement,
		}
	}
	return nil
}

// scanNumbers 从最近往前扫，取第一条解析成整数的 user 消息与 assistant 消息，
// 两者都找到即停
func (inf *Inferencer) scanNumbers(recent []memory.Entry) (lastUser int, haveUser bool, lastAssistant int, haveAssistant bool) {
	for i := len(recent) - 1; i >= 0; i-- {
		e := recent[i]
		switch e.Role {
		case memory.RoleUser:
			if haveUser {
				continue
			}
			if n, ok := ParseLooseInt(e.Content, inf.trailingPunct); ok {
				lastUser, haveUser = n, true
			}
		case memory.RoleAssistant:
			if haveAssistant {
				continue
			}
			if n, ok := ParseLooseInt(e.Content, inf.trailingPunct); ok {
				lastAssistant, haveAssistant = n, true
			}
		}
		if haveUser && haveAssistant {
			return
		}
	}
	return
}

// isContinueKeyword 当前消息去除首尾空白与尾部标点后整体匹配续行词
func (inf *Inferencer) isContinueKeyword(current string) bool {
	s := strings.TrimSpace(current)
	for {
		trimmed := false
		for _, p := range inf.trailingPunct {
			if p != "" && strings.HasSuffix(s, p) {
				s = strings.TrimSuffix(s, p)
				trimmed = true
			}
		}
		if !trimmed {
			break
		}
	}
	s = strings.ToLower(strings.TrimSpace(s))
	_, ok := inf.keywords[s]
	return ok
}
