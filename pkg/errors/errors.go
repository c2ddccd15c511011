// Package errors 提供统一的错误定义
package errors

import (
	"fmt"
	"net/http"
)

// ErrorCode 错误码类型
type ErrorCode string

// 预定义错误码
const (
	// 通用错误 (1xxx)
	CodeSuccess            ErrorCode = "0"
	CodeUnknown            ErrorCode = "1000"
	CodeInvalidParam       ErrorCode = "1001"
	CodeUnauthorized       ErrorCode = "1002"
	CodeForbidden          ErrorCode = "1003"
	CodeNotFound           ErrorCode = "1004"
	CodeConflict           ErrorCode = "1005"
	CodeTooManyRequests    ErrorCode = "1006"
	CodeInternalError      ErrorCode = "1007"
	CodeServiceUnavailable ErrorCode = "1008"

	// 认证授权错误 (2xxx)
	CodeTokenExpired     ErrorCode = "2001"
	CodeTokenInvalid     ErrorCode = "2002"
	CodeTokenMissing     ErrorCode = "2003"
	CodePermissionDenied ErrorCode = "2004"

	// 资源错误 (3xxx)
	CodeArtifactNotFound ErrorCode = "3001"
	CodeAssetNotFound    ErrorCode = "3002"

	// 上传校验错误 (4xxx)
	CodeUploadTooLarge        ErrorCode = "4001"
	CodeUploadUnsupportedType ErrorCode = "4002"
	CodeUploadEmptyPayload    ErrorCode = "4003"

	// 构件生命周期错误 (5xxx)
	CodeArtifactTooSoon         ErrorCode = "5001"
	CodeArtifactKindMismatch    ErrorCode = "5002"
	CodeArtifactVersionConflict ErrorCode = "5003"
	CodeInvalidKindContent      ErrorCode = "5004"

	// 外部服务错误 (6xxx)
	CodeDatabaseError         ErrorCode = "6001"
	CodeCacheError            ErrorCode = "6002"
	CodeStorageError          ErrorCode = "6003"
	CodeImageGenerationFailed ErrorCode = "6004"
	CodeLLMProviderError      ErrorCode = "6005"
)

// AppError 应用错误
type AppError struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	Detail     string    `json:"detail,omitempty"`
	HTTPStatus int       `json:"-"`
	Err        error     `json:"-"`
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap 返回底层错误
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 按错误码比较，支持 errors.Is 对预定义错误的匹配
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithDetail 添加详细信息
func (e *AppError) WithDetail(detail string) *AppError {
	clone := *e
	clone.Detail = detail
	return &clone
}

// WithError 添加底层错误
func (e *AppError) WithError(err error) *AppError {
	clone := *e
	clone.Err = err
	return &clone
}

// New 创建新的应用错误
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

// Wrap 包装错误
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Err:        err,
	}
}

// codeToHTTPStatus 错误码转 HTTP 状态码
func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case CodeSuccess:
		return http.StatusOK
	case CodeInvalidParam, CodeUploadTooLarge, CodeUploadUnsupportedType, CodeUploadEmptyPayload, CodeInvalidKindContent:
		return http.StatusBadRequest
	case CodeUnauthorized, CodeTokenExpired, CodeTokenInvalid, CodeTokenMissing:
		return http.StatusUnauthorized
	case CodeForbidden, CodePermissionDenied:
		return http.StatusForbidden
	case CodeNotFound, CodeArtifactNotFound, CodeAssetNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeArtifactTooSoon, CodeArtifactKindMismatch, CodeArtifactVersionConflict:
		return http.StatusConflict
	case CodeTooManyRequests:
		return http.StatusTooManyRequests
	case CodeServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// 预定义错误
var (
	ErrInvalidParam       = New(CodeInvalidParam, "invalid parameter")
	ErrUnauthorized       = New(CodeUnauthorized, "unauthorized")
	ErrForbidden          = New(CodeForbidden, "forbidden")
	ErrNotFound           = New(CodeNotFound, "resource not found")
	ErrConflict           = New(CodeConflict, "resource conflict")
	ErrTooManyRequests    = New(CodeTooManyRequests, "too many requests")
	ErrInternalError      = New(CodeInternalError, "internal server error")
	ErrServiceUnavailable = New(CodeServiceUnavailable, "service unavailable")

	ErrTokenExpired = New(CodeTokenExpired, "token expired")
	ErrTokenInvalid = New(CodeTokenInvalid, "token invalid")
	ErrTokenMissing = New(CodeTokenMissing, "token missing")

	ErrArtifactNotFound = New(CodeArtifactNotFound, "artifact not found")

	ErrUploadTooLarge        = New(CodeUploadTooLarge, "file size should be less than 5MB")
	ErrUploadUnsupportedType = New(CodeUploadUnsupportedType, "file type should be JPEG, PNG, or WebP")
	ErrUploadEmptyPayload    = New(CodeUploadEmptyPayload, "no file uploaded")

	ErrArtifactTooSoon         = New(CodeArtifactTooSoon, "artifact has not been reviewed yet")
	ErrArtifactKindMismatch    = New(CodeArtifactKindMismatch, "artifact kind is immutable")
	ErrArtifactVersionConflict = New(CodeArtifactVersionConflict, "artifact version conflict")
	ErrInvalidKindContent      = New(CodeInvalidKindContent, "content does not match artifact kind")

	ErrImageGenerationFailed = New(CodeImageGenerationFailed, "failed to generate interior design image")
	ErrStorageFailed         = New(CodeStorageError, "upload failed")
)

// IsAppError 检查是否为 AppError
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// AsAppError 将错误转换为 AppError
func AsAppError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return Wrap(err, CodeUnknown, "unknown error")
}
