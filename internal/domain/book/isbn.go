package book

import (
	"strings"
)

// NormalizeISBN 规范化ISBN
//
// 去除连字符与空白，x统一为大写；10位ISBN-10转换为ISBN-13（978前缀并重算校验位）；
// 13位数字原样保留，不校验校验位；其他格式返回ErrInvalidISBN。
//
//	NormalizeISBN("978-0-123456-78-6") // "9780123456786"
//	NormalizeISBN("0-306-40615-2")     // "9780306406157"
func NormalizeISBN(raw string) (string, error) {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		switch {
		case r == '-' || r == ' ' || r == '\t':
			continue
		case r == 'x':
			b.WriteRune('X')
		default:
			b.WriteRune(r)
		}
	}
	isbn := b.String()

	switch len(isbn) {
	case 13:
		if !allDigits(isbn) {
			return "", ErrInvalidISBN
		}
		return isbn, nil
	case 10:
		body, check := isbn[:9], isbn[9]
		if !allDigits(body) || !(check == 'X' || (check >= '0' && check <= '9')) {
			return "", ErrInvalidISBN
		}
		return ISBN10To13(body), nil
	default:
		return "", ErrInvalidISBN
	}
}

// ISBN10To13 由ISBN-10的前9位生成ISBN-13
func ISBN10To13(body9 string) string {
	body := "978" + body9
	return body + string(isbn13CheckDigit(body))
}

// isbn13CheckDigit 校验位：奇数位权重1，偶数位权重3
func isbn13CheckDigit(body12 string) byte {
	sum := 0
	for i := 0; i < len(body12); i++ {
		d := int(body12[i] - '0')
		if i%2 == 1 {
			d *= 3
		}
		sum += d
	}
	return byte('0' + (10-sum%10)%10)
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
