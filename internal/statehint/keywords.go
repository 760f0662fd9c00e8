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

// Package statehint 对话模式推断：从当前输入与短期记忆推出轻量的
// 连续性提示。提示只作建议，不持久化，每回合重算。
package statehint

// DefaultContinueKeywords 触发 keyword_next 的续行词（可配置覆盖）
var DefaultContinueKeywords = []string{
	"next",
	"continue",
	"go on",
	"次",
	"つぎ",
	"続き",
	"つづき",
	"続けて",
	"続行",
}

// DefaultTrailingPunct 解析前剔除的尾部标点（两种书写系统）
var DefaultTrailingPunct = []string{".", "!", "?", "。", "！", "？"}
