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

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config 应用配置结构体
type Config struct {
	Bot        BotConfig        `mapstructure:"bot"`
	Memory     MemoryConfig     `mapstructure:"memory"`
	Brain      BrainConfig      `mapstructure:"brain"`
	Heuristics HeuristicsConfig `mapstructure:"heuristics"`
	Model      ModelConfig      `mapstructure:"model"`
	Log        LogConfig        `mapstructure:"log"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
	RateLimits RateLimitsConfig `mapstructure:"rate_limits"`
	Secrets    SecretsConfig    `mapstructure:"secrets"`
}

// BotConfig 对话服务配置
type BotConfig struct {
	CommandPrefix    string `mapstructure:"command_prefix"`     // 管理命令前缀，命中即不进入对话管线
	ReplyLimit       int    `mapstructure:"reply_limit"`        // 出站回复硬上限（字符），<=0 默认 1900
	SystemPromptPath string `mapstructure:"system_prompt_path"` // 系统指令文档路径（DocCache 加载）
	PersonaPath      string `mapstructure:"persona_path"`       // 人格设定文档路径，可空
}

// MemoryConfig 短期记忆存储配置
type MemoryConfig struct {
	Type     string `mapstructure:"type"` // memory | redis
	Addr     string `mapstructure:"addr"`
	DB       int    `mapstructure:"db"`
	Password string `mapstructure:"password"`
	Limit    int    `mapstructure:"limit"` // 每 context 保留条数，<=0 默认 40
}

// BrainConfig 长期记忆（thread brain）存储配置
type BrainConfig struct {
	Type      string `mapstructure:"type"`       // memory | redis | postgres
	Addr      string `mapstructure:"addr"`       // redis 地址
	DB        int    `mapstructure:"db"`         // redis DB 编号
	Password  string `mapstructure:"password"`   // redis 密码，可选
	DSN       string `mapstructure:"dsn"`        // Postgres 连接串，type=postgres 时必填
	KeyPrefix string `mapstructure:"key_prefix"` // redis key 前缀，空则默认 brain
}

// HeuristicsConfig 模式推断与约束过滤的关键字表（外置配置，空则用内置默认表）
type HeuristicsConfig struct {
	ContinueKeywords []string `mapstructure:"continue_keywords"` // "next"/"続き" 等继续关键词
	TrailingPunct    []string `mapstructure:"trailing_punct"`    // 数字解析时剔除的尾随标点（两种文字体系）
	MachineMarkers   []string `mapstructure:"machine_markers"`   // 机器指令约束的标记词
}

// ModelConfig 模型配置
type ModelConfig struct {
	Engine    string                    `mapstructure:"engine"` // resty | eino，空则 resty
	Providers map[string]ProviderConfig `mapstructure:"providers"`
	Defaults  DefaultsConfig            `mapstructure:"defaults"`
}

// ProviderConfig 模型提供商配置
type ProviderConfig struct {
	APIKey  string               `mapstructure:"api_key"`
	BaseURL string               `mapstructure:"base_url"`
	Models  map[string]ModelInfo `mapstructure:"models"`
}

// ModelInfo 模型信息
type ModelInfo struct {
	Name        string  `mapstructure:"name"`
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
}

// DefaultsConfig 默认模型配置（provider.model_key 形式）
type DefaultsConfig struct {
	LLM string `mapstructure:"llm"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// MonitoringConfig 监控配置
type MonitoringConfig struct {
	Prometheus PrometheusConfig `mapstructure:"prometheus"`
	Tracing    TracingConfig    `mapstructure:"tracing"`
}

// PrometheusConfig Prometheus 配置
type PrometheusConfig struct {
	Enable bool `mapstructure:"enable"`
	Port   int  `mapstructure:"port"`
}

// TracingConfig 链路追踪配置（OpenTelemetry）
type TracingConfig struct {
	Enable         bool   `mapstructure:"enable"`
	ServiceName    string `mapstructure:"service_name"`
	ExportEndpoint string `mapstructure:"export_endpoint"`
	Insecure       bool   `mapstructure:"insecure"`
}

// RateLimitsConfig 限流配置（LLM Provider 维度）
type RateLimitsConfig struct {
	LLM map[string]LLMRateLimitConfig `mapstructure:"llm"`
}

// LLMRateLimitConfig 单个 LLM Provider 的限流配置
type LLMRateLimitConfig struct {
	TokensPerMinute   int     `mapstructure:"tokens_per_minute"`
	RequestsPerMinute float64 `mapstructure:"requests_per_minute"`
	MaxConcurrent     int     `mapstructure:"max_concurrent"`
}

// SecretsConfig 密钥后端配置
type SecretsConfig struct {
	Type  string      `mapstructure:"type"` // env | memory | vault，空则 env
	Vault VaultConfig `mapstructure:"vault"`
}

// VaultConfig Vault 后端配置
type VaultConfig struct {
	Address    string `mapstructure:"address"`
	Token      string `mapstructure:"token"`
	PathPrefix string `mapstructure:"path_prefix"`
}

// LoadConfig 加载配置文件
func LoadConfig(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("无法读取配置文件: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("无法解析配置文件: %w", err)
	}

	// 替换环境变量
	replaceEnvVars(&config)

	return &config, nil
}

// replaceEnvVars 替换配置中的环境变量（api_key: ${OPENAI_API_KEY} 形式）
func replaceEnvVars(config *Config) {
	for provider, providerConfig := range config.Model.Providers {
		if strings.HasPrefix(providerConfig.APIKey, "$") {
			envVar := strings.TrimPrefix(strings.TrimSuffix(providerConfig.APIKey, "}"), "${")
			if val := os.Getenv(envVar); val != "" {
				providerConfig.APIKey = val
				config.Model.Providers[provider] = providerConfig
			}
		}
	}
}

// LoadBotConfig 加载对话服务配置（configs/bot.yaml）
func LoadBotConfig() (*Config, error) {
	return LoadConfig("configs/bot.yaml")
}
