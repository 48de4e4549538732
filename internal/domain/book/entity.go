package book

import (
	"strings"
	"time"
)

// Book 图书（书目），一本书可以有多个馆藏副本
type Book struct {
	ID            uint
	LibraryID     uint
	ISBN          string // 规范化后的ISBN-13
	Title         string
	Subtitle      string
	Publisher     string
	PublishedYear int
	Language      string
	PageCount     int
	Description   string
	CoverURL      string
	AgeGroup      AgeGroup
	Authors       []Author
	Categories    []Category
	Instances     []BookInstance
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// AuthorNames 作者名列表
func (b *Book) AuthorNames() []string {
	names := make([]string, 0, len(b.Authors))
	for _, a := range b.Authors {
		names = append(names, a.Name)
	}
	return names
}

// CategoryNames 分类名列表
func (b *Book) CategoryNames() []string {
	names := make([]string, 0, len(b.Categories))
	for _, c := range b.Categories {
		names = append(names, c.Name)
	}
	return names
}

// AvailableCount 可借副本数
func (b *Book) AvailableCount() int {
	n := 0
	for _, i := range b.Instances {
		if i.Status == StatusAvailable {
			n++
		}
	}
	return n
}

// Author 作者，图书馆内按名称精确匹配
type Author struct {
	ID        uint
	LibraryID uint
	Name      string
}

// Category 分类，图书馆内按名称精确匹配
type Category struct {
	ID        uint
	LibraryID uint
	Name      string
}

// Metadata 外部ISBN服务返回的书目信息，也用于手工录入
type Metadata struct {
	ISBN          string
	Title         string
	Subtitle      string
	Publisher     string
	PublishedYear int
	Language      string
	PageCount     int
	Description   string
	CoverURL      string
	Authors       []string
	Categories    []string
}

// CleanNames 去除首尾空白、空值和重复项，保持原顺序
func CleanNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	result := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		result = append(result, n)
	}
	return result
}

// AgeGroup 适读年龄段
type AgeGroup string

const (
	AgeGroupUnknown AgeGroup = ""
	AgeGroupToddler AgeGroup = "0-5"
	AgeGroupEarly   AgeGroup = "6-8"
	AgeGroupMiddle  AgeGroup = "9-12"
	AgeGroupTeen    AgeGroup = "13-17"
	AgeGroupAdult   AgeGroup = "adult"
)

// AgeGroups 所有有效年龄段
var AgeGroups = []AgeGroup{AgeGroupToddler, AgeGroupEarly, AgeGroupMiddle, AgeGroupTeen, AgeGroupAdult}

// ParseAgeGroup 解析年龄段，忽略大小写与首尾空白
func ParseAgeGroup(s string) (AgeGroup, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, g := range AgeGroups {
		if string(g) == s {
			return g, true
		}
	}
	return AgeGroupUnknown, false
}
