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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chat-platform/internal/memory"
)

func entries(pairs ...[2]string) []memory.Entry {
	out := make([]memory.Entry, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, memory.Entry{Role: p[0], Content: p[1]})
	}
	return out
}

func TestParseLooseInt(t *testing.T) {
	punct := DefaultTrailingPunct
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"6", 6, true},
		{" 42 ", 42, true},
		{"7!", 7, true},
		{"8。", 8, true},
		{"9?！", 9, true},
		{"-3", -3, true},
		{"", 0, false},
		{"-", 0, false},
		{"6a", 0, false},
		{"1.5", 0, false},
		{"six", 0, false},
		{"６", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseLooseInt(tc.in, punct)
		assert.Equal(t, tc.ok, ok, "input %q", tc.in)
		if tc.ok {
			assert.Equal(t, tc.want, got, "input %q", tc.in)
		}
	}
}

func TestInferTaskFlagWins(t *testing.T) {
	inf := NewInferencer(nil, nil)
	h := inf.Infer("chan", "whatever", true, entries([2]string{memory.RoleAssistant, "5"}))
	require.NotNil(t, h)
	assert.Equal(t, ModeTask, h.Mode)
	assert.Equal(t, "chan", h.ContextKey)
	assert.Empty(t, h.Reason)
}

func TestInferKeywordNext(t *testing.T) {
	inf := NewInferencer(nil, nil)
	recent := entries(
		[2]string{memory.RoleUser, "4"},
		[2]string{memory.RoleAssistant, "5"},
	)

	for _, kw := range []string{"next", "Next.", "続き", "つづき。"} {
		h := inf.Infer("chan", kw, false, recent)
		require.NotNil(t, h, "keyword %q", kw)
		assert.Equal(t, ModeSimpleSequence, h.Mode)
		// keyword 路径的 base 取最近 assistant 数字
		assert.Equal(t, 5, h.BaseNumber)
		assert.Equal(t, ReasonKeywordNext, h.Reason)
	}
}

func TestInferKeywordWithoutAssistantNumber(t *testing.T) {
	inf := NewInferencer(nil, nil)
	recent := entries([2]string{memory.RoleUser, "4"})
	assert.Nil(t, inf.Infer("chan", "next", false, recent))
}

func TestInferUserIncrement(t *testing.T) {
	inf := NewInferencer(nil, nil)
	recent := entries(
		[2]string{memory.RoleUser, "5"},
		[2]string{memory.RoleAssistant, "100"},
	)

	h := inf.Infer("chan", "6", false, recent)
	require.NotNil(t, h)
	assert.Equal(t, ModeSimpleSequence, h.Mode)
	// increment 路径的 base 取当前新解析出的数字
	assert.Equal(t, 6, h.BaseNumber)
	assert.Equal(t, ReasonUserIncrement, h.Reason)
}

func TestInferAssistantIncrement(t *testing.T) {
	inf := NewInferencer(nil, nil)
	recent := entries([2]string{memory.RoleAssistant, "5"})

	h := inf.Infer("chan", "6", false, recent)
	require.NotNil(t, h)
	assert.Equal(t, 6, h.BaseNumber)
	assert.Equal(t, ReasonAssistantIncrement, h.Reason)
}

func TestInferNoNumericHistory(t *testing.T) {
	inf := NewInferencer(nil, nil)
	recent := entries(
		[2]string{memory.RoleUser, "hello"},
		[2]string{memory.RoleAssistant, "hi"},
	)
	assert.Nil(t, inf.Infer("chan", "6", false, recent))
	assert.Nil(t, inf.Infer("chan", "next", false, recent))
	assert.Nil(t, inf.Infer("chan", "hello", false, nil))
}

func TestInferScansBackwardSkippingNonNumeric(t *testing.T) {
	inf := NewInferencer(nil, nil)
	recent := entries(
		[2]string{memory.RoleAssistant, "3"},
		[2]string{memory.RoleAssistant, "not a number"},
		[2]string{memory.RoleUser, "also text"},
	)

	// 往前扫时跳过解析不了的消息，命中更早的 assistant "3"
	h := inf.Infer("chan", "4", false, recent)
	require.NotNil(t, h)
	assert.Equal(t, ReasonAssistantIncrement, h.Reason)
	assert.Equal(t, 4, h.BaseNumber)
}

func TestInferCustomKeywords(t *testing.T) {
	inf := NewInferencer([]string{"weiter"}, nil)
	recent := entries([2]string{memory.RoleAssistant, "5"})

	h := inf.Infer("chan", "weiter", false, recent)
	require.NotNil(t, h)
	assert.Equal(t, ReasonKeywordNext, h.Reason)

	// 默认词表被覆盖
	assert.Nil(t, inf.Infer("chan", "next", false, recent))
}
