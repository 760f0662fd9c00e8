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

// Package gateway 入站事件的准入判定：只放行需要走回合管线的普通消息，
// 自发消息/空消息/管理命令在这里挡下。
package gateway

import (
	"strings"
	"time"

	"chat-platform/pkg/metrics"
)

// 拒绝原因（metrics label 同名）
const (
	RejectSelf    = "self"
	RejectEmpty   = "empty"
	RejectCommand = "command"
)

// InboundEvent 宿主平台投递的原始事件
type InboundEvent struct {
	Content   string
	AuthorID  string
	IsSelf    bool
	ChannelID string
	GuildID   string
	Timestamp time.Time
}

// Admitted 通过准入后的回合输入前身
type Admitted struct {
	Content    string
	AuthorID   string
	ChannelID  string
	ContextKey string
	Timestamp  time.Time
}

// Gate 准入门
type Gate struct {
	commandPrefix string
}

// NewGate 创建准入门；prefix 为空表示不识别管理命令
func NewGate(commandPrefix string) *Gate {
	return &Gate{commandPrefix: commandPrefix}
}

// Admit 按序判定：自发 → 空内容 → 命令前缀。拒绝返回 (nil, reason)。
// 纯判定，不做 I/O，任何输入都不会 panic。
func (g *Gate) Admit(ev InboundEvent) (*Admitted, string) {
	if ev.IsSelf {
		metrics.AdmissionRejectTotal.WithLabelValues(RejectSelf).Inc()
		return nil, RejectSelf
	}
	content := strings.TrimSpace(ev.Content)
	if content == "" {
		metrics.AdmissionRejectTotal.WithLabelValues(RejectEmpty).Inc()
		return nil, RejectEmpty
	}
	if g.commandPrefix != "" && strings.HasPrefix(content, g.commandPrefix) {
		metrics.AdmissionRejectTotal.WithLabelValues(RejectCommand).Inc()
		return nil, RejectCommand
	}
	return &Admitted{
		Content:    ev.Content,
		AuthorID:   ev.AuthorID,
		ChannelID:  ev.ChannelID,
		ContextKey: ContextKey(ev.GuildID, ev.ChannelID),
		Timestamp:  ev.Timestamp,
	}, ""
}

// ContextKey guild 与 channel 都存在时取复合键，否则只用 channel/thread id
func ContextKey(guildID, channelID string) string {
	if guildID != "" && channelID != "" {
		return guildID + ":" + channelID
	}
	return channelID
}
