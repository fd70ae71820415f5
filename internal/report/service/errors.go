package service

import (
	"context"
	"errors"

	"lifepath/internal/numerology"
	"lifepath/internal/report"
	dErrors "lifepath/pkg/domain-errors"
)

// User-facing messages for generation failures.
const (
	MsgGenerationTimeout = "AI生成超时，请稍后重试。生成过程通常需要1-3分钟。"
	MsgRateLimited       = "API调用频率过高，请稍后再试。"
	MsgNetwork           = "网络连接问题，请检查网络后重试。"
	MsgConfiguration     = "服务配置错误，请联系管理员。"
	MsgGenerationFailed  = "生成报告时出现错误，请稍后再试。"
)

// outcome labels for metrics and events.
const (
	outcomeOK          = "ok"
	outcomeCached      = "cached"
	outcomeTimeout     = "timeout"
	outcomeRateLimited = "rate_limited"
	outcomeUnavailable = "unavailable"
	outcomeMisconfig   = "misconfigured"
	outcomeError       = "error"
)

// classifyGeneration maps a generator failure to an outcome label and a coded error.
func classifyGeneration(err error) (string, error) {
	switch {
	case errors.Is(err, report.ErrGenerationTimeout), errors.Is(err, context.DeadlineExceeded):
		return outcomeTimeout, dErrors.New(dErrors.CodeTimeout, MsgGenerationTimeout)
	case errors.Is(err, report.ErrRateLimited):
		return outcomeRateLimited, dErrors.New(dErrors.CodeRateLimited, MsgRateLimited)
	case errors.Is(err, report.ErrNetwork):
		return outcomeUnavailable, dErrors.New(dErrors.CodeUnavailable, MsgNetwork)
	case errors.Is(err, report.ErrCredentials):
		return outcomeMisconfig, dErrors.New(dErrors.CodeUnavailable, MsgConfiguration)
	default:
		return outcomeError, dErrors.New(dErrors.CodeInternal, MsgGenerationFailed)
	}
}

// validationError keeps the calculator's user-facing message as the description.
func validationError(err error) error {
	var ve *numerology.ValidationError
	if errors.As(err, &ve) {
		return dErrors.New(dErrors.CodeValidation, ve.Message)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "calculation failed")
}
