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

package app

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	hertzapp "github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/common/utils"
	hertzslog "github.com/hertz-contrib/logger/slog"

	"chat-platform/pkg/config"
	"chat-platform/pkg/log"
	"chat-platform/pkg/metrics"
)

// Monitor 运维端点：/healthz 与 /metrics，与对话管线分开的旁路 HTTP 服务
type Monitor struct {
	hertz  *server.Hertz
	logger *log.Logger
	addr   string
}

// NewMonitor 创建监控端点服务
func NewMonitor(cfg *config.Config, logger *log.Logger) *Monitor {
	port := cfg.Monitoring.Prometheus.Port
	if port <= 0 {
		port = 9090
	}
	addr := fmt.Sprintf(":%d", port)

	// 用 Hertz slog 扩展，与主日志配置对齐
	levelVar := &slog.LevelVar{}
	switch cfg.Log.Level {
	case "debug":
		levelVar.Set(slog.LevelDebug)
	case "warn":
		levelVar.Set(slog.LevelWarn)
	case "error":
		levelVar.Set(slog.LevelError)
	default:
		levelVar.Set(slog.LevelInfo)
	}
	hlog.SetLogger(hertzslog.NewLogger(
		hertzslog.WithOutput(os.Stdout),
		hertzslog.WithLevel(levelVar),
	))

	h := server.Default(server.WithHostPorts(addr))

	h.GET("/healthz", func(c context.Context, ctx *hertzapp.RequestContext) {
		ctx.JSON(http.StatusOK, utils.H{"status": "ok"})
	})
	h.GET("/metrics", func(c context.Context, ctx *hertzapp.RequestContext) {
		var buf bytes.Buffer
		if err := metrics.WritePrometheus(&buf); err != nil {
			ctx.String(http.StatusInternalServerError, err.Error())
			return
		}
		ctx.Data(http.StatusOK, "text/plain; version=0.0.4; charset=utf-8", buf.Bytes())
	})

	return &Monitor{hertz: h, logger: logger, addr: addr}
}

// Start 后台启动监控端点
func (m *Monitor) Start() {
	m.logger.Info("监控端点启动", "addr", m.addr)
	go m.hertz.Spin()
}

// Shutdown 优雅关闭
func (m *Monitor) Shutdown(ctx context.Context) error {
	return m.hertz.Shutdown(ctx)
}
