package utils

import (
	"strings"
	"unicode"
)

// FormatVehiclePlate 将车牌号规范化为大写且不含分隔符的形式。
// 规范化后的车牌再次格式化结果不变，便于精确匹配。
func FormatVehiclePlate(plate string) string {
	var b strings.Builder
	for _, r := range plate {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}

// IsValidVehiclePlate 检查车牌号规范化后是否为合理长度（巴西旧式与Mercosul车牌均为7位）
func IsValidVehiclePlate(plate string) bool {
	normalized := FormatVehiclePlate(plate)
	return len(normalized) >= 6 && len(normalized) <= 8
}
