package suggest

import (
	"context"
	"errors"
	"time"
)

// 默认重试策略：共 3 次，首次等待 1 秒，之后每次翻倍。
const (
	DefaultAttempts   = 3
	DefaultRetryDelay = time.Second
)

// RetryableError marks a transient failure: network errors, 5xx and 429.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err carries a RetryableError.
func IsRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}

// Retry 调用 fn 直到成功、返回不可重试的错误或用完 attempts 次。
// 两次调用之间的等待从 delay 开始倍增；等待期间 ctx 取消则返回 ctx.Err()。
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	var err error
	for n := 1; ; n++ {
		if err = fn(); err == nil || !IsRetryable(err) || n >= attempts {
			return err
		}
		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay *= 2
	}
}
