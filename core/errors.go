package core

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX）
//
// 注意：冷启动（未知用户/物品）与退化分数（全分相等）不是错误，
// 引擎内部用降级策略消化，永远不会以 DomainError 形式上抛。
type DomainError struct {
	Code    string // 错误代码（如 "NOT_FOUND", "NOT_FITTED"）
	Message string // 错误消息
	Module  string // 模块名称（如 "store", "recall", "engine"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// IsDomainError 检查错误是否为 DomainError 类型
func IsDomainError(err error) bool {
	if err == nil {
		return false
	}
	_, ok := err.(*DomainError)
	return ok
}

// GetDomainError 获取 DomainError，如果不是则返回 nil
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	if domainErr, ok := err.(*DomainError); ok {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// 错误代码常量
const (
	ErrorCodeNotFound      = "NOT_FOUND"      // 资源不存在
	ErrorCodeNotSupported  = "NOT_SUPPORTED"  // 操作不支持
	ErrorCodeUnavailable   = "UNAVAILABLE"    // 服务不可用
	ErrorCodeInvalidInput  = "INVALID_INPUT"  // 输入无效（空交互/空活动等）
	ErrorCodeNotFitted     = "NOT_FITTED"     // 模型尚未 Fit
	ErrorCodeInternalError = "INTERNAL_ERROR" // 内部错误
)

// 模块名称常量
const (
	ModuleStore     = "store"     // 存储模块
	ModuleRecall    = "recall"    // 召回/模型模块
	ModuleAnalytics = "analytics" // 分析模块
	ModuleEngine    = "engine"    // 引擎门面
)

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}

// IsNotFitted 检查错误是否为 NOT_FITTED（Fit 之前调用了读操作）
func IsNotFitted(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotFitted
	}
	return false
}

// IsInvalidInput 检查错误是否为 INVALID_INPUT
func IsInvalidInput(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeInvalidInput
	}
	return false
}
