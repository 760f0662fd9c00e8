package llm

import (
	"context"
	"fmt"
	"strings"

	"chat-platform/pkg/config"
	"chat-platform/pkg/secrets"
)

// Client LLM 客户端接口
type Client interface {
	// Chat 聊天
	Chat(messages []Message, options GenerateOptions) (string, error)
	// ChatWithContext 使用上下文聊天
	ChatWithContext(ctx context.Context, messages []Message, options GenerateOptions) (string, error)
	// Model 返回模型名称
	Model() string
	// Provider 返回提供商名称
	Provider() string
}

// GenerateOptions 生成选项
type GenerateOptions struct {
	Temperature float64  `json:"temperature"`
	MaxTokens   int      `json:"max_tokens"`
	TopP        float64  `json:"top_p"`
	Stop        []string `json:"stop"`
}

// Message 聊天消息
type Message struct {
	Role    string `json:"role"` // system, user, assistant
	Content string `json:"content"`
}

// 消息角色
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// NewClient 按配置的 defaults.llm（provider.model_key 形式）创建客户端；
// API key 经 secrets 后端解析（支持 secret: 引用）。engine 选择实现：
// resty 直连 OpenAI 兼容端点，eino 走 Eino ChatModel。
func NewClient(ctx context.Context, cfg config.ModelConfig, sec secrets.Store) (Client, error) {
	provider, modelKey, err := splitDefault(cfg.Defaults.LLM)
	if err != nil {
		return nil, err
	}
	providerCfg, ok := cfg.Providers[provider]
	if !ok {
		return nil, fmt.Errorf("未配置的 provider: %s", provider)
	}
	modelName := modelKey
	if info, ok := providerCfg.Models[modelKey]; ok && info.Name != "" {
		modelName = info.Name
	}
	apiKey, err := secrets.ResolveAPIKey(ctx, sec, providerCfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("解析 %s API key failed: %w", provider, err)
	}

	switch cfg.Engine {
	case "eino":
		return NewEinoClient(ctx, provider, modelName, apiKey, providerCfg.BaseURL)
	case "", "resty":
		return NewOpenAIClient(provider, modelName, apiKey, providerCfg.BaseURL)
	default:
		return nil, fmt.Errorf("未知的 model engine: %s", cfg.Engine)
	}
}

// DefaultOptions 从 provider 配置取默认生成参数
func DefaultOptions(cfg config.ModelConfig) GenerateOptions {
	provider, modelKey, err := splitDefault(cfg.Defaults.LLM)
	if err != nil {
		return GenerateOptions{}
	}
	info := cfg.Providers[provider].Models[modelKey]
	return GenerateOptions{
		Temperature: info.Temperature,
		MaxTokens:   info.MaxTokens,
	}
}

func splitDefault(s string) (provider, modelKey string, err error) {
	parts := strings.SplitN(s, ".", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("defaults.llm 需要 provider.model_key 形式, got %q", s)
	}
	return parts[0], parts[1], nil
}
