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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMachineDirected(t *testing.T) {
	f := NewFilter(nil)

	cases := []struct {
		in   string
		want bool
	}{
		{"respond in JSON only", true},
		{"Output JSON with keys a,b", true},
		{"use ``` fenced blocks", true},
		{"デバッグ用の出力を含める", true},
		{"be polite and concise", false},
		{"答えは日本語で", false},
		// 过短无从判断，保留
		{"json", false},
		{"ok", false},
		{"", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, f.MachineDirected(tc.in), "input %q", tc.in)
	}
}

func TestFilterConstraintsTopLevel(t *testing.T) {
	f := NewFilter(nil)
	raw := map[string]any{
		"constraints": []any{
			"be polite and concise",
			"respond in JSON only",
			map[string]any{"kind": "structured", "note": "output json"},
			float64(42),
		},
		"high_level_goal": "ship v2",
	}

	out := f.FilterConstraints(raw)
	require.NotNil(t, out)

	got, ok := out["constraints"].([]any)
	require.True(t, ok)
	// 机器指令向字符串被剔除；结构化条目和非字符串原样保留
	assert.Equal(t, []any{
		"be polite and concise",
		map[string]any{"kind": "structured", "note": "output json"},
		float64(42),
	}, got)

	// 其余字段不动
	assert.Equal(t, "ship v2", out["high_level_goal"])
}

func TestFilterConstraintsLegacyNested(t *testing.T) {
	f := NewFilter(nil)
	raw := map[string]any{
		"thread_brain": map[string]any{
			"summary":     "digest",
			"constraints": []any{"code block answers preferred", "keep answers short"},
		},
	}

	out := f.FilterConstraints(raw)
	tb := out["thread_brain"].(map[string]any)
	assert.Equal(t, []any{"keep answers short"}, tb["constraints"])
	assert.Equal(t, "digest", tb["summary"])
}

func TestFilterConstraintsDoesNotMutateInput(t *testing.T) {
	f := NewFilter(nil)
	raw := map[string]any{
		"constraints": []any{"respond in JSON only", "stay friendly"},
	}

	_ = f.FilterConstraints(raw)
	assert.Equal(t, []any{"respond in JSON only", "stay friendly"}, raw["constraints"])
}

func TestFilterConstraintsIdempotent(t *testing.T) {
	f := NewFilter(nil)
	raw := map[string]any{
		"constraints": []any{"respond in JSON only", "stay friendly", "markdown tables please"},
	}

	once := f.FilterConstraints(raw)
	twice := f.FilterConstraints(once)
	assert.Equal(t, once, twice)
}

func TestFilterConstraintsNilAndMissing(t *testing.T) {
	f := NewFilter(nil)
	assert.Nil(t, f.FilterConstraints(nil))

	out := f.FilterConstraints(map[string]any{"high_level_goal": "g"})
	assert.Equal(t, map[string]any{"high_level_goal": "g"}, out)
}

func TestNewFilterCustomMarkers(t *testing.T) {
	f := NewFilter([]string{"VERBOTEN"})
	assert.True(t, f.MachineDirected("this is verboten text"))
	assert.False(t, f.MachineDirected("respond in JSON only"))
}
