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

// Package app 统一初始化：把配置、存储、模型客户端与回合管线拼成一个可运行的 bot 进程。
package app

import (
	"context"
	"fmt"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"chat-platform/internal/brain"
	"chat-platform/internal/gateway"
	"chat-platform/internal/intent"
	"chat-platform/internal/memory"
	"chat-platform/internal/model"
	"chat-platform/internal/model/llm"
	"chat-platform/internal/prompt"
	"chat-platform/internal/statehint"
	"chat-platform/internal/turn"
	"chat-platform/pkg/config"
	"chat-platform/pkg/log"
	"chat-platform/pkg/secrets"
	"chat-platform/pkg/tracing"
)

const intentBufferCapacity = 10

// App 已装配完的 bot 进程
type App struct {
	Config   *config.Config
	Logger   *log.Logger
	Pipeline *turn.Pipeline

	monitor        *Monitor
	tracerProvider *sdktrace.TracerProvider
}

// NewApp 根据配置装配全部组件
func NewApp(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config 不能为空")
	}

	logger, err := log.NewLogger(&log.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	})
	if err != nil {
		return nil, fmt.Errorf("初始化日志failed: %w", err)
	}

	ctx := context.Background()

	memStore, err := memory.NewStore(ctx, cfg.Memory)
	if err != nil {
		return nil, fmt.Errorf("初始化短期记忆存储failed: %w", err)
	}
	brainStore, err := brain.NewStore(ctx, cfg.Brain)
	if err != nil {
		return nil, fmt.Errorf("初始化长期记忆存储failed: %w", err)
	}

	secretStore, err := secrets.NewStore(secrets.Config{
		Provider: cfg.Secrets.Type,
		Vault: secrets.VaultConfig{
			Address:    cfg.Secrets.Vault.Address,
			Token:      cfg.Secrets.Vault.Token,
			PathPrefix: cfg.Secrets.Vault.PathPrefix,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("初始化 secret 后端failed: %w", err)
	}

	baseClient, err := llm.NewClient(ctx, cfg.Model, secretStore)
	if err != nil {
		return nil, fmt.Errorf("初始化模型客户端failed: %w", err)
	}
	var client llm.Client = baseClient
	if len(cfg.RateLimits.LLM) > 0 {
		client = llm.NewRateLimitedClient(baseClient, llm.NewLLMRateLimiter(cfg.RateLimits.LLM))
	}
	model.RegisterLLM(client.Provider(), client)

	docs := prompt.NewDocCache(map[string]string{
		turn.DocSystem:  cfg.Bot.SystemPromptPath,
		turn.DocPersona: cfg.Bot.PersonaPath,
	})

	pipeline := turn.NewPipeline(turn.Deps{
		Gate: gateway.NewGate(cfg.Bot.CommandPrefix),
		Inferencer: statehint.NewInferencer(
			cfg.Heuristics.ContinueKeywords,
			cfg.Heuristics.TrailingPunct,
		),
		Assembler:  turn.NewAssembler(brain.NewFilter(cfg.Heuristics.MachineMarkers), cfg.Memory.Limit),
		BrainStore: brainStore,
		Rotator:    memory.NewRotator(memStore, cfg.Memory.Limit, logger),
		Intents:    intent.NewBuffer(intentBufferCapacity),
		Client:     client,
		Options:    llm.DefaultOptions(cfg.Model),
		Docs:       docs,
		ReplyLimit: cfg.Bot.ReplyLimit,
		Logger:     logger,
	})

	a := &App{
		Config:   cfg,
		Logger:   logger,
		Pipeline: pipeline,
	}

	if cfg.Monitoring.Tracing.Enable && cfg.Monitoring.Tracing.ExportEndpoint != "" {
		serviceName := cfg.Monitoring.Tracing.ServiceName
		if serviceName == "" {
			serviceName = "chat-bot"
		}
		tp, err := tracing.InitTracer(tracing.OTelConfig{
			ServiceName:    serviceName,
			ExportEndpoint: cfg.Monitoring.Tracing.ExportEndpoint,
			Insecure:       cfg.Monitoring.Tracing.Insecure,
		})
		if err != nil {
			logger.Warn("初始化链路追踪failed，继续无追踪运行", "err", err)
		} else {
			a.tracerProvider = tp
			logger.Info("链路追踪已启用", "service_name", serviceName)
		}
	}

	if cfg.Monitoring.Prometheus.Enable {
		a.monitor = NewMonitor(cfg, logger)
	}

	return a, nil
}

// Start 启动后台组件（监控端点）
func (a *App) Start() error {
	if a.monitor != nil {
		a.monitor.Start()
	}
	a.Logger.Info("bot 已启动")
	return nil
}

// Shutdown 优雅关闭
func (a *App) Shutdown(ctx context.Context) error {
	if a.monitor != nil {
		if err := a.monitor.Shutdown(ctx); err != nil {
			a.Logger.Warn("关闭监控端点failed", "err", err)
		}
	}
	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(ctx); err != nil {
			a.Logger.Warn("关闭链路追踪failed", "err", err)
		}
	}
	a.Logger.Info("bot 已关闭")
	return nil
}
