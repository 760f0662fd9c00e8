package metrics

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// 全局 Registry，供 bot 进程注册与暴露
var DefaultRegistry = prometheus.NewRegistry()

func init() {
	DefaultRegistry.MustRegister(
		TurnTotal, AdmissionRejectTotal,
		ModelCallDuration, ModelFailTotal,
		FallbackReplyTotal, ReplyTruncatedTotal,
		RateLimitWaitSeconds,
	)
}

// TurnTotal 处理回合总数（按结果）
var TurnTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "chatbot_turn_total",
		Help: "处理回合总数（按结果）",
	},
	[]string{"outcome"}, // completed | rejected | fallback
)

// AdmissionRejectTotal 入站事件被拒总数（按原因）
var AdmissionRejectTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "chatbot_admission_reject_total",
		Help: "入站事件被拒总数（按原因）",
	},
	[]string{"reason"}, // self | empty | command
)

// ModelCallDuration 模型调用耗时（秒）
var ModelCallDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "chatbot_model_call_duration_seconds",
		Help:    "模型调用耗时（秒）",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"provider"},
)

// ModelFailTotal 模型调用失败总数
var ModelFailTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "chatbot_model_fail_total",
		Help: "模型调用失败总数",
	},
	[]string{"provider"},
)

// FallbackReplyTotal 兜底回复次数（空输出或模型失败）
var FallbackReplyTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "chatbot_fallback_reply_total",
		Help: "兜底回复次数",
	},
)

// ReplyTruncatedTotal 出站回复被硬截断次数
var ReplyTruncatedTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "chatbot_reply_truncated_total",
		Help: "出站回复被硬截断次数",
	},
)

// RateLimitWaitSeconds 限流等待耗时（秒），只记录超过 100ms 的等待
var RateLimitWaitSeconds = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "chatbot_rate_limit_wait_seconds",
		Help:    "限流等待耗时（秒）",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"scope", "provider"},
)

// WritePrometheus 将 Prometheus 文本格式写入 w（供 Hertz 等复用）
func WritePrometheus(w io.Writer) error {
	metrics, err := DefaultRegistry.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.FmtText)
	for _, mf := range metrics {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}
