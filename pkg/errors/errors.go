// Package errors 提供统一错误辅助，不依赖 internal
package errors

import (
	"errors"
	"fmt"
)

// 常用哨兵错误（可按需扩展错误码）
var (
	ErrNotFound   = errors.New("not found")
	ErrInvalidArg = errors.New("invalid argument")

	// ErrStoreUnavailable 短期/长期存储不可达；管线按"状态为空"降级，不中断回合
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrModelFailure 模型调用边界的显式失败信号（转为兜底回复，不向终端用户抛错）
	ErrModelFailure = errors.New("model call failed")
	// ErrUnknownOp 管线不认识的外部操作类型（记日志后忽略）
	ErrUnknownOp = errors.New("unrecognized operation type")
)

// Wrap 包装错误并附加消息
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf 带格式的 Wrap
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// IsStoreUnavailable 判断 err 链上是否为存储不可达
func IsStoreUnavailable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}
