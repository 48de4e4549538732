package reader

import (
	"fmt"
)

// eanPrefix 店内码前缀，2开头的EAN-13不会与商品条码冲突
const eanPrefix = "2"

// GenerateEAN 根据读者ID生成EAN-13
// 格式："2" + 11位补零的读者ID + 校验位
func GenerateEAN(readerID uint) string {
	body := fmt.Sprintf("%s%011d", eanPrefix, readerID)
	return body + string(checkDigit(body))
}

// IsValidEAN 校验13位数字及校验位
func IsValidEAN(code string) bool {
	if len(code) != 13 {
		return false
	}
	for i := 0; i < 13; i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return checkDigit(code[:12]) == code[12]
}

// checkDigit EAN-13校验位：奇数位权重1，偶数位权重3
func checkDigit(body string) byte {
	sum := 0
	for i := 0; i < len(body); i++ {
		d := int(body[i] - '0')
		if i%2 == 1 {
			d *= 3
		}
		sum += d
	}
	return byte('0' + (10-sum%10)%10)
}
