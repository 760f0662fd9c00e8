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

const minJudgeableRunes = 5

// Filter 约束过滤器：剔除机器指令向的 constraint 字符串，保留人类向内容。
// 标记词表外置（DefaultMachineMarkers 或配置注入），便于独立测试与本地化。
type Filter struct {
	markers []string
}

// NewFilter 创建过滤器；markers 为空时用 DefaultMachineMarkers
func NewFilter(markers []string) *Filter {
	if len(markers) == 0 {
		markers = DefaultMachineMarkers
	}
	lowered := make([]string, len(markers))
	for i, m := range markers {
		lowered[i] = strings.ToLower(m)
	}
	return &Filter{markers: lowered}
}

// FilterConstraints 过滤 raw 中的 constraints（顶层与 legacy 嵌套 thread_brain 内）。
// 返回深拷贝，其余字段不动；非字符串条目一律原样保留；幂等。
func (f *Filter) FilterConstraints(raw map[string]any) map[string]any {
	if raw == nil {
		return nil
	}
	out := deepCopyMap(raw)
	if list, ok := out["constraints"].([]any); ok {
		out["constraints"] = f.filterList(list)
	}
	if tb, ok := out["thread_brain"].(map[string]any); ok {
		if list, ok := tb["constraints"].([]any); ok {
			tb["constraints"] = f.filterList(list)
		}
	}
	return out
}

func (f *Filter) filterList(list []any) []any {
	out := make([]any, 0, len(list))
	for _, entry := range list {
		s, ok := entry.(string)
		if !ok {
			// 结构化条目不做解读，原样保留
			out = append(out, entry)
			continue
		}
		if f.MachineDirected(s) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// MachineDirected 判定约束字符串是否为机器指令向。
// 过短（<5 字符）无从判断，一律保留；否则按标记词表匹配。
func (f *Filter) MachineDirected(s string) bool {
	if len([]rune(s)) < minJudgeableRunes {
		return false
	}
	lowered := strings.ToLower(s)
	for _, m := range f.markers {
		if strings.Contains(lowered, m) {
			return true
		}
	}
	return false
}

func deepCopyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return deepCopyMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = deepCopyValue(e)
		}
		return out
	default:
		return v
	}
}
