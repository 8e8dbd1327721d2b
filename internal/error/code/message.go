package code

// 错误码消息映射
var codeMessageMap = map[int]string{
	// 通用错误码
	ErrSuccess:          "成功",
	ErrUnknown:          "未知错误",
	ErrBind:             "请求参数绑定错误",
	ErrValidation:       "请求参数验证错误",
	ErrTokenInvalid:     "无效的认证令牌",
	ErrPermissionDenied: "没有操作权限",
	ErrTooManyRequests:  "请求频率过高",

	// 用户相关错误码
	ErrUserNotFound:          "用户不存在",
	ErrUserAlreadyExist:      "用户已存在",
	ErrUserPasswordIncorrect: "用户密码错误",
	ErrUserInactive:          "用户已被停用",

	// 住户相关错误码
	ErrResidentNotFound:     "住户不存在",
	ErrResidentAlreadyExist: "住户已存在",

	// 司机相关错误码
	ErrDriverNotFound:     "司机不存在",
	ErrDriverAlreadyExist: "司机已存在",

	// 小区相关错误码
	ErrCondoNotFound:     "小区不存在",
	ErrCondoAlreadyExist: "小区已存在",

	// 数据库相关错误码
	ErrDatabase:       "数据库错误",
	ErrRecordNotFound: "记录不存在",

	// 访问请求相关错误码
	ErrAccessRequestNotFound:   "访问请求不存在",
	ErrAccessStatusInvalid:     "无效的访问请求状态",
	ErrAccessTransitionIllegal: "非法的状态流转",
	ErrAccessNotOwner:          "不是该访问请求的相关方",

	// 通行二维码相关错误码
	ErrQRCodeNotAuthorized:  "访问请求未处于已授权状态",
	ErrQRCodeGenerateFailed: "二维码生成失败",
	ErrQRCodeInvalid:        "无效的通行二维码",
}

// 错误码HTTP状态码映射
var codeStatusMap = map[int]int{
	// 通用错误码
	ErrSuccess:          StatusOK,
	ErrUnknown:          StatusInternalServerError,
	ErrBind:             StatusBadRequest,
	ErrValidation:       StatusBadRequest,
	ErrTokenInvalid:     StatusUnauthorized,
	ErrPermissionDenied: StatusForbidden,
	ErrTooManyRequests:  StatusTooManyRequests,

	// 用户相关错误码
	ErrUserNotFound:          StatusNotFound,
	ErrUserAlreadyExist:      StatusBadRequest,
	ErrUserPasswordIncorrect: StatusUnauthorized,
	ErrUserInactive:          StatusForbidden,

	// 住户相关错误码
	ErrResidentNotFound:     StatusNotFound,
	ErrResidentAlreadyExist: StatusBadRequest,

	// 司机相关错误码
	ErrDriverNotFound:     StatusNotFound,
	ErrDriverAlreadyExist: StatusBadRequest,

	// 小区相关错误码
	ErrCondoNotFound:     StatusNotFound,
	ErrCondoAlreadyExist: StatusBadRequest,

	// 数据库相关错误码
	ErrDatabase:       StatusInternalServerError,
	ErrRecordNotFound: StatusNotFound,

	// 访问请求相关错误码
	ErrAccessRequestNotFound:   StatusNotFound,
	ErrAccessStatusInvalid:     StatusBadRequest,
	ErrAccessTransitionIllegal: StatusConflict,
	ErrAccessNotOwner:          StatusForbidden,

	// 通行二维码相关错误码
	ErrQRCodeNotAuthorized:  StatusConflict,
	ErrQRCodeGenerateFailed: StatusInternalServerError,
	ErrQRCodeInvalid:        StatusBadRequest,
}

// GetMessage 获取错误码对应的消息
func GetMessage(code int) string {
	if msg, ok := codeMessageMap[code]; ok {
		return msg
	}
	return "未知错误"
}

// GetStatus 获取错误码对应的HTTP状态码
func GetStatus(code int) int {
	if status, ok := codeStatusMap[code]; ok {
		return status
	}
	return StatusInternalServerError
}
