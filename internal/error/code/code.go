package code

// HTTP状态码.
const (
	// StatusOK - 200: 成功.
	StatusOK = 200
	// StatusBadRequest - 400: 请求参数错误.
	StatusBadRequest = 400
	// StatusUnauthorized - 401: 未授权.
	StatusUnauthorized = 401
	// StatusForbidden - 403: 禁止访问.
	StatusForbidden = 403
	// StatusNotFound - 404: 资源不存在.
	StatusNotFound = 404
	// StatusConflict - 409: 状态冲突.
	StatusConflict = 409
	// StatusInternalServerError - 500: 服务器内部错误.
	StatusInternalServerError = 500
	// StatusTooManyRequests - 429: 请求过多.
	StatusTooManyRequests = 429
)

// 通用错误码 (100xxx).
const (
	// ErrSuccess - 200: 成功.
	ErrSuccess int = iota + 100000
	// ErrUnknown - 500: 未知错误.
	ErrUnknown
	// ErrBind - 400: 请求参数绑定错误.
	ErrBind
	// ErrValidation - 400: 请求参数验证错误.
	ErrValidation
	// ErrTokenInvalid - 401: 令牌无效.
	ErrTokenInvalid
	// ErrPermissionDenied - 403: 没有操作权限.
	ErrPermissionDenied
	// ErrTooManyRequests - 429: 请求频率过高.
	ErrTooManyRequests
)

// 用户相关错误码 (101xxx).
const (
	// ErrUserNotFound - 404: 用户不存在.
	ErrUserNotFound int = iota + 101000
	// ErrUserAlreadyExist - 400: 用户已存在.
	ErrUserAlreadyExist
	// ErrUserPasswordIncorrect - 401: 用户密码错误.
	ErrUserPasswordIncorrect
	// ErrUserInactive - 403: 用户已被停用.
	ErrUserInactive
)

// 住户相关错误码 (102xxx).
const (
	// ErrResidentNotFound - 404: 住户不存在.
	ErrResidentNotFound int = iota + 102000
	// ErrResidentAlreadyExist - 400: 住户已存在.
	ErrResidentAlreadyExist
)

// 司机相关错误码 (103xxx).
const (
	// ErrDriverNotFound - 404: 司机不存在.
	ErrDriverNotFound int = iota + 103000
	// ErrDriverAlreadyExist - 400: 司机已存在.
	ErrDriverAlreadyExist
)

// 小区相关错误码 (104xxx).
const (
	// ErrCondoNotFound - 404: 小区不存在.
	ErrCondoNotFound int = iota + 104000
	// ErrCondoAlreadyExist - 400: 小区已存在.
	ErrCondoAlreadyExist
)

// 数据库相关错误码 (105xxx).
const (
	// ErrDatabase - 500: 数据库错误.
	ErrDatabase int = iota + 105000
	// ErrRecordNotFound - 404: 记录不存在.
	ErrRecordNotFound
)

// 访问请求相关错误码 (106xxx).
const (
	// ErrAccessRequestNotFound - 404: 访问请求不存在.
	ErrAccessRequestNotFound int = iota + 106000
	// ErrAccessStatusInvalid - 400: 无效的访问请求状态.
	ErrAccessStatusInvalid
	// ErrAccessTransitionIllegal - 409: 非法的状态流转.
	ErrAccessTransitionIllegal
	// ErrAccessNotOwner - 403: 不是该访问请求的相关方.
	ErrAccessNotOwner
)

// 通行二维码相关错误码 (107xxx).
const (
	// ErrQRCodeNotAuthorized - 409: 访问请求未处于已授权状态.
	ErrQRCodeNotAuthorized int = iota + 107000
	// ErrQRCodeGenerateFailed - 500: 二维码生成失败.
	ErrQRCodeGenerateFailed
	// ErrQRCodeInvalid - 400: 无效的通行二维码.
	ErrQRCodeInvalid
)
