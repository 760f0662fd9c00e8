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

package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdmitAccepts(t *testing.T) {
	g := NewGate("!")
	got, reason := g.Admit(InboundEvent{
		Content:   "hello there",
		AuthorID:  "u1",
		ChannelID: "c1",
		GuildID:   "g1",
	})
	require.NotNil(t, got)
	assert.Empty(t, reason)
	assert.Equal(t, "hello there", got.Content)
	assert.Equal(t, "g1:c1", got.ContextKey)
}

func TestAdmitRejectsSelf(t *testing.T) {
	g := NewGate("!")
	got, reason := g.Admit(InboundEvent{Content: "hi", IsSelf: true, ChannelID: "c1"})
	assert.Nil(t, got)
	assert.Equal(t, RejectSelf, reason)
}

func TestAdmitRejectsEmpty(t *testing.T) {
	g := NewGate("!")
	for _, content := range []string{"", "   ", "\n\t "} {
		got, reason := g.Admit(InboundEvent{Content: content, ChannelID: "c1"})
		assert.Nil(t, got, "content %q", content)
		assert.Equal(t, RejectEmpty, reason)
	}
}

func TestAdmitRejectsCommand(t *testing.T) {
	g := NewGate("!")
	got, reason := g.Admit(InboundEvent{Content: "!status", ChannelID: "c1"})
	assert.Nil(t, got)
	assert.Equal(t, RejectCommand, reason)

	// 前缀前有空白也按命令处理（与空内容判定共用 trim）
	got, reason = g.Admit(InboundEvent{Content: "  !status", ChannelID: "c1"})
	assert.Nil(t, got)
	assert.Equal(t, RejectCommand, reason)
}

func TestAdmitRejectOrder(t *testing.T) {
	// 自发优先于空内容与命令
	g := NewGate("!")
	_, reason := g.Admit(InboundEvent{Content: "", IsSelf: true, ChannelID: "c1"})
	assert.Equal(t, RejectSelf, reason)

	_, reason = g.Admit(InboundEvent{Content: "  ", ChannelID: "c1"})
	assert.Equal(t, RejectEmpty, reason)
}

func TestAdmitNoCommandPrefix(t *testing.T) {
	g := NewGate("")
	got, reason := g.Admit(InboundEvent{Content: "!status", ChannelID: "c1"})
	require.NotNil(t, got)
	assert.Empty(t, reason)
}

func TestContextKey(t *testing.T) {
	assert.Equal(t, "g1:c1", ContextKey("g1", "c1"))
	assert.Equal(t, "c1", ContextKey("", "c1"))
	assert.Equal(t, "", ContextKey("g1", ""))
}
