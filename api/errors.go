package api

import (
	"errors"

	"budgetown/ledger"

	"github.com/gin-gonic/gin"
)

// LedgerError 将 ledger 包的类型化错误映射为 HTTP 响应
// 金额非法/前置条件不满足 → 400，记录不存在 → 404，其余 → 500
func LedgerError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ledger.ErrInvalidAmount):
		BadRequest(c, err.Error())
	case errors.Is(err, ledger.ErrPreconditionFailed):
		BadRequest(c, err.Error())
	case errors.Is(err, ledger.ErrNotFound):
		NotFound(c, "记录不存在")
	default:
		InternalError(c, SafeErrorMessage(err, fallback))
	}
}
