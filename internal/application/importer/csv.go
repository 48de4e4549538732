package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/xiebiao/libraryhub/internal/domain/book"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseResult CSV解析结果
type ParseResult struct {
	ISBNs   []string // 规范化后的ISBN-13，保留重复项（重复即多个副本）
	Invalid int      // 表头、空值、格式错误的行数
}

// ParseISBNs 读取第一列作为ISBN，其余列忽略
//
//	978-0-123456-78-6,Title,Author → 9780123456786
func ParseISBNs(data []byte) (*ParseResult, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	result := &ParseResult{ISBNs: []string{}}
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(record) == 0 {
			continue
		}

		isbn, err := book.NormalizeISBN(strings.TrimSpace(record[0]))
		if err != nil {
			result.Invalid++
			continue
		}
		result.ISBNs = append(result.ISBNs, isbn)
	}
	return result, nil
}
