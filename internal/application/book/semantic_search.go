package book

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/xiebiao/libraryhub/internal/domain/book"
)

// TextGenerator 文本生成，由ai.OpenAICompatGenerator实现
type TextGenerator interface {
	GenerateText(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

const searchSystemPrompt = `You convert a library patron's natural-language request into search filters.
Reply with a single JSON object and nothing else, using these optional fields:
{"keyword": string, "author": string, "category": string, "age_group": one of "0-5","6-8","9-12","13-17","adult", "available_only": boolean}
Omit fields that the request does not mention.`

// SearchCriteria 模型输出的检索条件
type SearchCriteria struct {
	Keyword       string `json:"keyword"`
	Author        string `json:"author"`
	Category      string `json:"category"`
	AgeGroup      string `json:"age_group"`
	AvailableOnly bool   `json:"available_only"`
}

// SemanticSearchUseCase 自然语言检索
// 模型把查询转为结构化条件后走普通列表查询；模型失败时退化为关键词检索
type SemanticSearchUseCase struct {
	generator TextGenerator
	listBooks *ListBooksUseCase
}

// NewSemanticSearchUseCase 创建语义检索用例
func NewSemanticSearchUseCase(generator TextGenerator, listBooks *ListBooksUseCase) *SemanticSearchUseCase {
	return &SemanticSearchUseCase{
		generator: generator,
		listBooks: listBooks,
	}
}

// SemanticSearchRequest 语义检索请求
type SemanticSearchRequest struct {
	LibraryID uint
	Query     string
	Page      int
	PageSize  int
}

// SemanticSearchResponse 语义检索响应，Criteria为实际使用的条件
type SemanticSearchResponse struct {
	Criteria SearchCriteria `json:"criteria"`
	Fallback bool           `json:"fallback"`
	*ListBooksResponse
}

func (uc *SemanticSearchUseCase) Execute(ctx context.Context, req SemanticSearchRequest) (*SemanticSearchResponse, error) {
	query := strings.TrimSpace(req.Query)

	criteria, err := uc.interpret(ctx, query)
	fallback := false
	if err != nil {
		slog.WarnContext(ctx, "semantic search fallback to keyword", "query", query, "err", err)
		criteria = SearchCriteria{Keyword: query}
		fallback = true
	}

	list, err := uc.listBooks.Execute(ctx, ListBooksRequest{
		LibraryID:     req.LibraryID,
		Page:          req.Page,
		PageSize:      req.PageSize,
		Keyword:       criteria.Keyword,
		Author:        criteria.Author,
		Category:      criteria.Category,
		AgeGroup:      criteria.AgeGroup,
		AvailableOnly: criteria.AvailableOnly,
	})
	if err != nil {
		return nil, err
	}
	return &SemanticSearchResponse{Criteria: criteria, Fallback: fallback, ListBooksResponse: list}, nil
}

func (uc *SemanticSearchUseCase) interpret(ctx context.Context, query string) (SearchCriteria, error) {
	var criteria SearchCriteria
	if uc.generator == nil || query == "" {
		return criteria, errNoGenerator
	}

	text, err := uc.generator.GenerateText(ctx, searchSystemPrompt, query)
	if err != nil {
		return criteria, err
	}
	if err := json.Unmarshal([]byte(extractJSON(text)), &criteria); err != nil {
		return criteria, err
	}
	if _, ok := book.ParseAgeGroup(criteria.AgeGroup); !ok {
		criteria.AgeGroup = ""
	}
	return criteria, nil
}

// extractJSON 模型有时会用```json包裹输出
func extractJSON(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return text
	}
	return text[start : end+1]
}
