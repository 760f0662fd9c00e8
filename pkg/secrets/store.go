// Copyright 2026 fanjia1024
// Secret management abstraction

package secrets

import (
	"context"
	"strings"
)

// Store Secret 存储接口
type Store interface {
	// Get 获取 secret 值
	Get(ctx context.Context, key string) (string, error)

	// Set 设置 secret 值
	Set(ctx context.Context, key string, value string) error

	// Delete 删除 secret
	Delete(ctx context.Context, key string) error
}

// Config Secret Store 配置
type Config struct {
	Provider string      `yaml:"provider"` // vault | env | memory
	Vault    VaultConfig `yaml:"vault"`
}

// NewStore 创建 Secret Store
func NewStore(config Config) (Store, error) {
	switch config.Provider {
	case "memory":
		return NewMemoryStore(), nil
	case "vault":
		return NewVaultStore(config.Vault)
	case "", "env":
		return NewEnvStore(), nil
	default:
		return NewEnvStore(), nil
	}
}

// ResolveAPIKey 解析配置中的 API Key：以 "secret:" 开头时从 Store 取，否则原样返回
func ResolveAPIKey(ctx context.Context, store Store, configured string) (string, error) {
	const prefix = "secret:"
	if store == nil || !strings.HasPrefix(configured, prefix) {
		return configured, nil
	}
	return store.Get(ctx, strings.TrimPrefix(configured, prefix))
}
