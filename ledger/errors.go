// Package ledger 记账核心：钱包/交易的读写与余额、预算、趋势的派生计算。
// 写入校验集中在 Store，派生计算是纯函数，对同一份数据反复计算结果一致。
package ledger

import "errors"

// 写入与查询的类型化错误，调用方用 errors.Is 区分并映射为 HTTP 状态
var (
	// ErrInvalidAmount 金额非法（非正数）
	ErrInvalidAmount = errors.New("金额必须为正数")
	// ErrNotFound 记录不存在或不属于该用户
	ErrNotFound = errors.New("记录不存在")
	// ErrPreconditionFailed 前置条件不满足（如删除最后一个钱包）
	ErrPreconditionFailed = errors.New("操作的前置条件不满足")
	// ErrUnavailable 底层存储暂时不可用
	ErrUnavailable = errors.New("存储暂时不可用")
)
