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

package llm

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// EinoClient 基于 Eino ChatModel 的客户端实现
type EinoClient struct {
	provider  string
	model     string
	chatModel *openai.ChatModel
}

// NewEinoClient 创建 Eino ChatModel 客户端
func NewEinoClient(ctx context.Context, provider, modelName, apiKey, baseURL string) (*EinoClient, error) {
	cfg := &openai.ChatModelConfig{
		Model:  modelName,
		APIKey: apiKey,
	}
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	chatModel, err := openai.NewChatModel(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("创建 Eino ChatModel failed: %w", err)
	}
	return &EinoClient{
		provider:  provider,
		model:     modelName,
		chatModel: chatModel,
	}, nil
}

// Chat 聊天
func (c *EinoClient) Chat(messages []Message, options GenerateOptions) (string, error) {
	return c.ChatWithContext(context.Background(), messages, options)
}

// ChatWithContext 使用上下文聊天
func (c *EinoClient) ChatWithContext(ctx context.Context, messages []Message, options GenerateOptions) (string, error) {
	in := make([]*schema.Message, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			in = append(in, schema.SystemMessage(m.Content))
		case RoleAssistant:
			in = append(in, schema.AssistantMessage(m.Content, nil))
		default:
			in = append(in, schema.UserMessage(m.Content))
		}
	}

	var opts []model.Option
	if options.Temperature > 0 {
		opts = append(opts, model.WithTemperature(float32(options.Temperature)))
	}
	if options.MaxTokens > 0 {
		opts = append(opts, model.WithMaxTokens(options.MaxTokens))
	}

	out, err := c.chatModel.Generate(ctx, in, opts...)
	if err != nil {
		return "", fmt.Errorf("Eino ChatModel 调用failed: %w", err)
	}
	if out == nil {
		return "", fmt.Errorf("Eino ChatModel 没有返回结果")
	}
	return out.Content, nil
}

// Model 返回模型名称
func (c *EinoClient) Model() string {
	return c.model
}

// Provider 返回提供商名称
func (c *EinoClient) Provider() string {
	return c.provider
}
