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
	"strings"
	"time"

	"chat-platform/internal/brain"
	"chat-platform/internal/gateway"
	"chat-platform/internal/intent"
	"chat-platform/internal/memory"
	"chat-platform/internal/model/llm"
	"chat-platform/internal/prompt"
	"chat-platform/internal/reply"
	"chat-platform/internal/statehint"
	pkgerrors "chat-platform/pkg/errors"
	"chat-platform/pkg/log"
	"chat-platform/pkg/metrics"
	"chat-platform/pkg/tracing"
)

// 提示词文档名（DocCache 的 key）
const (
	DocSystem  = "system"
	DocPersona = "persona"
)

// 管线支持的外部操作
const (
	OpReloadPrompts = "reload_prompts"
	OpClearIntents  = "clear_intents"
)

// Pipeline 单回合处理管线。每条准入消息在所属 context 内处理到完成，
// 不同 context 可并发在飞；唯一的阻塞点是外部模型调用。
type Pipeline struct {
	gate       *gateway.Gate
	inferencer *statehint.Inferencer
	assembler  *Assembler
	brainStore brain.Store
	rotator    *memory.Rotator
	intents    *intent.Buffer
	client     llm.Client
	options    llm.GenerateOptions
	docs       *prompt.DocCache
	replyLimit int
	logger     *log.Logger
}

// Deps 管线依赖
type Deps struct {
	Gate       *gateway.Gate
	Inferencer *statehint.Inferencer
	Assembler  *Assembler
	BrainStore brain.Store
	Rotator    *memory.Rotator
	Intents    *intent.Buffer
	Client     llm.Client
	Options    llm.GenerateOptions
	Docs       *prompt.DocCache
	ReplyLimit int
	Logger     *log.Logger
}

// NewPipeline 创建管线
func NewPipeline(deps Deps) *Pipeline {
	return &Pipeline{
		gate:       deps.Gate,
		inferencer: deps.Inferencer,
		assembler:  deps.Assembler,
		brainStore: deps.BrainStore,
		rotator:    deps.Rotator,
		intents:    deps.Intents,
		client:     deps.Client,
		options:    deps.Options,
		docs:       deps.Docs,
		replyLimit: deps.ReplyLimit,
		logger:     deps.Logger,
	}
}

// HandleEvent 处理一条入站事件，返回要发送的回复文本；
// 被准入门拒绝时返回空串。模型failed不上抛，转为兜底回复。
func (p *Pipeline) HandleEvent(ctx context.Context, ev gateway.InboundEvent, taskFlag bool) string {
	admitted, reason := p.gate.Admit(ev)
	if admitted == nil {
		metrics.TurnTotal.WithLabelValues("rejected").Inc()
		p.logger.Debug("入站事件被拒", "reason", reason, "channel_id", ev.ChannelID)
		return ""
	}
	key := admitted.ContextKey
	logger := p.logger.WithContextKey(key)

	ctx, span := tracing.StartTurnSpan(ctx, key)
	defer span.End()

	recent := p.rotator.Recent(ctx, key)
	hint := p.inferencer.Infer(key, admitted.Content, taskFlag, recent)

	rawBrain, err := p.brainStore.Get(ctx, key)
	if err != nil {
		// 存储不可用时当作无长期记忆继续，只记日志
		if pkgerrors.IsStoreUnavailable(err) {
			logger.Warn("长期记忆存储不可用，按空处理", "err", err)
		} else {
			logger.Warn("读取长期记忆failed，按空处理", "err", err)
		}
		rawBrain = nil
	}

	packet := p.assembler.Assemble(admitted.Content, recent, rawBrain, hint)
	p.intents.Push(key, admitted.Content, nil)

	raw, err := p.callModel(ctx, packet)
	outcome := "completed"
	if err != nil {
		logger.Error("模型调用failed，走兜底回复", "err", err)
		metrics.ModelFailTotal.WithLabelValues(p.client.Provider()).Inc()
		raw = ""
		outcome = "fallback"
	}

	text := reply.Stabilize(raw)
	text = reply.Truncate(text, p.replyLimit)

	p.rotator.Append(ctx, key, memory.RoleUser, admitted.Content)
	p.rotator.Append(ctx, key, memory.RoleAssistant, text)

	metrics.TurnTotal.WithLabelValues(outcome).Inc()
	return text
}

// callModel 组消息并调用模型：系统指令、上下文块、短期历史、当前用户输入
func (p *Pipeline) callModel(ctx context.Context, packet *InputPacket) (string, error) {
	messages := make([]llm.Message, 0, len(packet.RuntimeMemory)+3)

	if directive := p.systemDirective(); directive != "" {
		messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: directive})
	}
	if block := contextBlock(packet); block != "" {
		messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: block})
	}
	for _, e := range packet.RuntimeMemory {
		role := llm.RoleUser
		if e.Role == memory.RoleAssistant {
			role = llm.RoleAssistant
		}
		messages = append(messages, llm.Message{Role: role, Content: e.Content})
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: packet.UserText})

	ctx, span := tracing.StartModelSpan(ctx, p.client.Provider(), p.client.Model())
	defer span.End()

	start := time.Now()
	raw, err := p.client.ChatWithContext(ctx, messages, p.options)
	metrics.ModelCallDuration.WithLabelValues(p.client.Provider()).Observe(time.Since(start).Seconds())
	return raw, err
}

// systemDirective 拼系统指令：系统提示词 + 可选人格设定。读failed只降级不报错。
func (p *Pipeline) systemDirective() string {
	var parts []string
	if doc, err := p.docs.Load(DocSystem); err == nil && doc != "" {
		parts = append(parts, doc)
	} else if err != nil {
		p.logger.Warn("系统提示词加载failed", "err", err)
	}
	if doc, err := p.docs.Load(DocPersona); err == nil && doc != "" {
		parts = append(parts, doc)
	}
	return strings.Join(parts, "\n\n")
}

// contextBlock 拼上下文块：优先级指令 + 叙述视图 + 模式提示
func contextBlock(packet *InputPacket) string {
	var parts []string
	if packet.TBScoring != "" {
		parts = append(parts, packet.TBScoring)
	}
	if packet.TBPrompt != "" {
		parts = append(parts, packet.TBPrompt)
	}
	if packet.State != nil && packet.State.Mode == statehint.ModeSimpleSequence {
		parts = append(parts, "The user appears to be continuing a numbered sequence from "+
			packet.State.Reason+".")
	}
	return strings.Join(parts, "\n\n")
}

// HandleOperation 处理外部下发的管理操作；未识别的操作记日志后忽略，不报错
func (p *Pipeline) HandleOperation(ctx context.Context, op, contextKey string) {
	switch op {
	case OpReloadPrompts:
		if _, err := p.docs.Reload(DocSystem); err != nil {
			p.logger.Warn("重载系统提示词failed", "err", err)
		}
		if _, err := p.docs.Reload(DocPersona); err != nil {
			p.logger.Warn("重载人格设定failed", "err", err)
		}
	case OpClearIntents:
		p.intents.Clear(contextKey)
	default:
		p.logger.Warn("未识别的操作类型，忽略", "op", op, "err", pkgerrors.ErrUnknownOp)
	}
}
