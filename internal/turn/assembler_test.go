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

package turn

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chat-platform/internal/brain"
	"chat-platform/internal/memory"
	"chat-platform/internal/statehint"
)

func TestAssembleWithBrain(t *testing.T) {
	a := NewAssembler(brain.NewFilter(nil), 40)
	raw := map[string]any{
		"high_level_goal": "ship v2",
		"constraints":     []any{"respond in JSON only", "stay friendly"},
	}
	recent := []memory.Entry{
		{Role: memory.RoleUser, Content: "hello"},
		{Role: memory.RoleAssistant, Content: "hi"},
	}
	hint := &statehint.Hint{Mode: statehint.ModeSimpleSequence, BaseNumber: 5}

	p := a.Assemble("what next?", recent, raw, hint)
	require.NotNil(t, p)
	assert.Equal(t, PacketVersion, p.Version)
	assert.Equal(t, "what next?", p.UserText)
	assert.Len(t, p.RuntimeMemory, 2)
	require.NotNil(t, p.ThreadBrain)
	assert.Equal(t, "ship v2", p.ThreadBrain.HighLevelGoal)
	assert.Equal(t, hint, p.State)

	// 机器指令向约束在组装时被过滤
	require.Len(t, p.ThreadBrain.Constraints, 1)
	assert.Equal(t, "stay friendly", p.ThreadBrain.Constraints[0].Render())

	assert.True(t, strings.HasPrefix(p.TBScoring, "[PRIORITY]"))
	assert.Contains(t, p.TBPrompt, "Goal: ship v2")
}

func TestAssembleNoBrain(t *testing.T) {
	a := NewAssembler(nil, 40)
	p := a.Assemble("hi", nil, nil, nil)

	require.NotNil(t, p)
	assert.Nil(t, p.ThreadBrain)
	assert.Nil(t, p.State)
	assert.Empty(t, p.TBPrompt)
	// 无长期记忆时优先级块为固定兜底
	assert.Contains(t, p.TBScoring, "No stored context is available")
}

func TestAssembleTrimsMemoryWindow(t *testing.T) {
	a := NewAssembler(nil, 3)
	recent := make([]memory.Entry, 0, 10)
	for i := 0; i < 10; i++ {
		recent = append(recent, memory.Entry{Role: memory.RoleUser, Content: fmt.Sprintf("m%d", i)})
	}

	p := a.Assemble("hi", recent, nil, nil)
	require.Len(t, p.RuntimeMemory, 3)
	assert.Equal(t, "m7", p.RuntimeMemory[0].Content)
	assert.Equal(t, "m9", p.RuntimeMemory[2].Content)
}
