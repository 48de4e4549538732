package dto

// AddBookRequest HTTP录入图书请求
// 只填ISBN时从ISBN服务补全书目
type AddBookRequest struct {
	ISBN          string   `json:"isbn" binding:"required,max=20" example:"9787115428028"`
	Title         string   `json:"title" binding:"max=300" example:"Go语言实战"`
	Subtitle      string   `json:"subtitle" binding:"max=300"`
	Authors       []string `json:"authors" binding:"max=20,dive,max=200" example:"威廉·肯尼迪"`
	Categories    []string `json:"categories" binding:"max=20,dive,max=100" example:"编程"`
	Publisher     string   `json:"publisher" binding:"max=200" example:"人民邮电出版社"`
	PublishedYear int      `json:"published_year" binding:"omitempty,min=1000,max=9999" example:"2017"`
	Language      string   `json:"language" binding:"max=20" example:"zh"`
	PageCount     int      `json:"page_count" binding:"omitempty,min=1" example:"268"`
	Description   string   `json:"description" binding:"max=5000"`
	CoverURL      string   `json:"cover_url" binding:"omitempty,url,max=500" example:"https://example.com/cover.jpg"`
	Copies        int      `json:"copies" binding:"omitempty,min=1,max=100" example:"2"`
}

// UpdateBookRequest 修改书目，空字段不修改
type UpdateBookRequest struct {
	Title         string   `json:"title" binding:"max=300"`
	Subtitle      string   `json:"subtitle" binding:"max=300"`
	Authors       []string `json:"authors" binding:"max=20,dive,max=200"`
	Categories    []string `json:"categories" binding:"max=20,dive,max=100"`
	Publisher     string   `json:"publisher" binding:"max=200"`
	PublishedYear int      `json:"published_year" binding:"omitempty,min=1000,max=9999"`
	Language      string   `json:"language" binding:"max=20"`
	PageCount     int      `json:"page_count" binding:"omitempty,min=1"`
	Description   string   `json:"description" binding:"max=5000"`
	CoverURL      string   `json:"cover_url" binding:"omitempty,url,max=500"`
}

// ListBooksRequest HTTP图书列表请求
type ListBooksRequest struct {
	Page          int    `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize      int    `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
	Keyword       string `form:"keyword" binding:"omitempty,max=100" example:"Go"`
	Author        string `form:"author" binding:"omitempty,max=200"`
	Category      string `form:"category" binding:"omitempty,max=100"`
	AgeGroup      string `form:"age_group" binding:"omitempty,oneof=0-5 6-8 9-12 13-17 adult" example:"9-12"`
	AvailableOnly bool   `form:"available_only"`
	SortBy        string `form:"sort_by" binding:"omitempty,oneof=title_asc published_year_desc created_at_desc" example:"created_at_desc"`
}

// SemanticSearchRequest 自然语言检索
type SemanticSearchRequest struct {
	Query    string `json:"query" binding:"required,max=500" example:"适合十岁孩子的科幻小说"`
	Page     int    `json:"page" binding:"omitempty,min=1"`
	PageSize int    `json:"page_size" binding:"omitempty,min=1,max=100"`
}

// AddInstanceRequest 新增副本
type AddInstanceRequest struct {
	Note string `json:"note" binding:"max=500" example:"捐赠"`
}

// SetInstanceStatusRequest 管理员修改副本状态（不能用于借还）
type SetInstanceStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=available reserved lost_damaged" example:"lost_damaged"`
}
