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
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chat-platform/internal/brain"
	"chat-platform/internal/gateway"
	"chat-platform/internal/intent"
	"chat-platform/internal/memory"
	"chat-platform/internal/model/llm"
	"chat-platform/internal/prompt"
	"chat-platform/internal/reply"
	"chat-platform/internal/statehint"
	"chat-platform/pkg/log"
)

type stubModel struct {
	reply    string
	err      error
	messages []llm.Message
}

func (s *stubModel) Chat(messages []llm.Message, options llm.GenerateOptions) (string, error) {
	return s.ChatWithContext(context.Background(), messages, options)
}

func (s *stubModel) ChatWithContext(ctx context.Context, messages []llm.Message, options llm.GenerateOptions) (string, error) {
	s.messages = messages
	return s.reply, s.err
}

func (s *stubModel) Model() string    { return "stub-model" }
func (s *stubModel) Provider() string { return "stub" }

func newTestPipeline(t *testing.T, model llm.Client) (*Pipeline, *memory.Rotator, *brain.MemoryStore) {
	t.Helper()

	dir := t.TempDir()
	sysPath := filepath.Join(dir, "system.md")
	require.NoError(t, os.WriteFile(sysPath, []byte("you are a concise assistant"), 0o644))

	logger, err := log.NewLogger(nil)
	require.NoError(t, err)

	rotator := memory.NewRotator(memory.NewMemoryStore(), 40, logger)
	brainStore := brain.NewMemoryStore()

	p := NewPipeline(Deps{
		Gate:       gateway.NewGate("!"),
		Inferencer: statehint.NewInferencer(nil, nil),
		Assembler:  NewAssembler(brain.NewFilter(nil), 40),
		BrainStore: brainStore,
		Rotator:    rotator,
		Intents:    intent.NewBuffer(10),
		Client:     model,
		Docs:       prompt.NewDocCache(map[string]string{DocSystem: sysPath}),
		ReplyLimit: 1900,
		Logger:     logger,
	})
	return p, rotator, brainStore
}

func TestHandleEventHappyPath(t *testing.T) {
	model := &stubModel{reply: "thinking [FINAL] here is the answer"}
	p, rotator, _ := newTestPipeline(t, model)

	got := p.HandleEvent(context.Background(), gateway.InboundEvent{
		Content:   "hello there",
		ChannelID: "c1",
		GuildID:   "g1",
	}, false)
	assert.Equal(t, "here is the answer", got)

	// 消息顺序：系统指令、上下文块、当前输入
	require.GreaterOrEqual(t, len(model.messages), 3)
	assert.Equal(t, llm.RoleSystem, model.messages[0].Role)
	assert.Contains(t, model.messages[0].Content, "concise assistant")
	assert.Equal(t, llm.RoleSystem, model.messages[1].Role)
	assert.Contains(t, model.messages[1].Content, "[PRIORITY]")
	last := model.messages[len(model.messages)-1]
	assert.Equal(t, llm.RoleUser, last.Role)
	assert.Equal(t, "hello there", last.Content)

	// 回合结束后短期记忆记录了 user + assistant
	entries := rotator.Recent(context.Background(), "g1:c1")
	require.Len(t, entries, 2)
	assert.Equal(t, memory.RoleUser, entries[0].Role)
	assert.Equal(t, "hello there", entries[0].Content)
	assert.Equal(t, memory.RoleAssistant, entries[1].Role)
	assert.Equal(t, "here is the answer", entries[1].Content)
}

func TestHandleEventRejected(t *testing.T) {
	model := &stubModel{reply: "should not be called"}
	p, _, _ := newTestPipeline(t, model)

	got := p.HandleEvent(context.Background(), gateway.InboundEvent{
		Content:   "!admin do things",
		ChannelID: "c1",
	}, false)
	assert.Equal(t, "", got)
	assert.Nil(t, model.messages)
}

func TestHandleEventModelFailure(t *testing.T) {
	model := &stubModel{err: errors.New("model down")}
	p, rotator, _ := newTestPipeline(t, model)

	got := p.HandleEvent(context.Background(), gateway.InboundEvent{
		Content:   "hi",
		ChannelID: "c1",
	}, false)
	// 模型failed转为兜底回复，不上抛
	assert.Equal(t, reply.FallbackMessage, got)

	entries := rotator.Recent(context.Background(), "c1")
	require.Len(t, entries, 2)
	assert.Equal(t, reply.FallbackMessage, entries[1].Content)
}

func TestHandleEventUsesStoredBrain(t *testing.T) {
	model := &stubModel{reply: "ok"}
	p, _, brainStore := newTestPipeline(t, model)

	require.NoError(t, brainStore.Put(context.Background(), "c1", map[string]any{
		"high_level_goal": "plan the trip",
	}))

	p.HandleEvent(context.Background(), gateway.InboundEvent{
		Content:   "where were we?",
		ChannelID: "c1",
	}, false)

	require.GreaterOrEqual(t, len(model.messages), 2)
	assert.Contains(t, model.messages[1].Content, "Goal: plan the trip")
}

func TestHandleEventHistoryFlowsToModel(t *testing.T) {
	model := &stubModel{reply: "6"}
	p, rotator, _ := newTestPipeline(t, model)
	ctx := context.Background()

	rotator.Append(ctx, "c1", memory.RoleUser, "5")
	rotator.Append(ctx, "c1", memory.RoleAssistant, "5")

	got := p.HandleEvent(ctx, gateway.InboundEvent{Content: "next", ChannelID: "c1"}, false)
	assert.Equal(t, "6", got)

	// 历史作为 user/assistant 消息夹在上下文与当前输入之间
	var roles []string
	for _, m := range model.messages {
		roles = append(roles, m.Role)
	}
	assert.Contains(t, roles, llm.RoleAssistant)
	// keyword_next 提示出现在上下文块里
	assert.Contains(t, model.messages[1].Content, "keyword_next")
}

func TestHandleOperationUnknownIgnored(t *testing.T) {
	model := &stubModel{reply: "ok"}
	p, _, _ := newTestPipeline(t, model)

	// 未识别操作不 panic、不报错
	p.HandleOperation(context.Background(), "rebuild_index", "c1")
}

func TestHandleOperationClearIntents(t *testing.T) {
	model := &stubModel{reply: "ok"}
	p, _, _ := newTestPipeline(t, model)
	ctx := context.Background()

	p.HandleEvent(ctx, gateway.InboundEvent{Content: "remember this", ChannelID: "c1"}, false)
	require.NotEmpty(t, p.intents.ListRecent("c1"))

	p.HandleOperation(ctx, OpClearIntents, "c1")
	assert.Empty(t, p.intents.ListRecent("c1"))
}
