package gormrepo

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// 本文件是infrastructure层的数据模型，包含GORM tag
// domain层的实体不依赖GORM，由各Repository负责转换

// UserModel 管理员账号
type UserModel struct {
	ID        uint           `gorm:"primaryKey"`
	Email     string         `gorm:"uniqueIndex;size:100;not null;comment:邮箱"`
	Password  string         `gorm:"size:255;not null;comment:密码（bcrypt加密）"`
	Nickname  string         `gorm:"size:50;not null;comment:昵称"`
	CreatedAt time.Time      `gorm:"comment:创建时间"`
	UpdatedAt time.Time      `gorm:"comment:更新时间"`
	DeletedAt gorm.DeletedAt `gorm:"index;comment:删除时间（软删除）"`
}

func (UserModel) TableName() string {
	return "users"
}

// LibraryModel 图书馆（租户）
// 软删除后别名仍然占用
type LibraryModel struct {
	ID                   uint           `gorm:"primaryKey"`
	Name                 string         `gorm:"size:100;not null;comment:名称"`
	Alias                string         `gorm:"uniqueIndex;size:63;not null;comment:URL别名"`
	CheckoutDurationDays int            `gorm:"not null;default:14;comment:借期（天）"`
	OwnerID              uint           `gorm:"index;not null;comment:创建者用户ID"`
	CreatedAt            time.Time      `gorm:"comment:创建时间"`
	UpdatedAt            time.Time      `gorm:"comment:更新时间"`
	DeletedAt            gorm.DeletedAt `gorm:"index;comment:删除时间（软删除）"`
}

func (LibraryModel) TableName() string {
	return "libraries"
}

// LibraryAdministratorModel 图书馆与管理员的多对多关系
type LibraryAdministratorModel struct {
	LibraryID uint      `gorm:"primaryKey;autoIncrement:false"`
	UserID    uint      `gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt time.Time `gorm:"comment:加入时间"`
}

func (LibraryAdministratorModel) TableName() string {
	return "library_administrators"
}

// KioskModel 自助借还机
type KioskModel struct {
	ID         uint      `gorm:"primaryKey"`
	LibraryID  uint      `gorm:"index;not null;comment:图书馆ID"`
	Name       string    `gorm:"size:100;not null;comment:名称"`
	SecretHash string    `gorm:"size:255;not null;comment:密钥（bcrypt加密）"`
	Enabled    bool      `gorm:"not null;comment:是否启用"`
	CreatedAt  time.Time `gorm:"comment:创建时间"`
	UpdatedAt  time.Time `gorm:"comment:更新时间"`
}

func (KioskModel) TableName() string {
	return "kiosks"
}

// ReaderModel 读者，可同时属于多个图书馆
type ReaderModel struct {
	ID        uint      `gorm:"primaryKey"`
	FirstName string    `gorm:"size:50;not null;comment:名"`
	LastName  string    `gorm:"size:50;not null;comment:姓"`
	Email     string    `gorm:"uniqueIndex;size:100;not null;comment:邮箱"`
	EAN       string    `gorm:"column:ean;uniqueIndex;size:32;not null;comment:读者证条码"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

func (ReaderModel) TableName() string {
	return "readers"
}

// LibraryReaderModel 图书馆与读者的多对多关系
type LibraryReaderModel struct {
	LibraryID uint      `gorm:"primaryKey;autoIncrement:false"`
	ReaderID  uint      `gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt time.Time `gorm:"comment:登记时间"`
}

func (LibraryReaderModel) TableName() string {
	return "library_readers"
}

// AuthorModel 作者，名称在图书馆内唯一
type AuthorModel struct {
	ID        uint   `gorm:"primaryKey"`
	LibraryID uint   `gorm:"uniqueIndex:idx_library_author;not null"`
	Name      string `gorm:"uniqueIndex:idx_library_author;size:200;not null"`
}

func (AuthorModel) TableName() string {
	return "authors"
}

// CategoryModel 分类，名称在图书馆内唯一
type CategoryModel struct {
	ID        uint   `gorm:"primaryKey"`
	LibraryID uint   `gorm:"uniqueIndex:idx_library_category;not null"`
	Name      string `gorm:"uniqueIndex:idx_library_category;size:100;not null"`
}

func (CategoryModel) TableName() string {
	return "categories"
}

// BookModel 书目
// (library_id, isbn)唯一，删除为物理删除，删除后同一ISBN可以重新导入
type BookModel struct {
	ID            uint                `gorm:"primaryKey"`
	LibraryID     uint                `gorm:"uniqueIndex:idx_library_isbn;not null;comment:图书馆ID"`
	ISBN          string              `gorm:"column:isbn;uniqueIndex:idx_library_isbn;size:13;not null;comment:ISBN-13"`
	Title         string              `gorm:"index;size:255;not null;comment:书名"`
	Subtitle      string              `gorm:"size:255;comment:副标题"`
	Publisher     string              `gorm:"size:200;comment:出版社"`
	PublishedYear int                 `gorm:"comment:出版年份"`
	Language      string              `gorm:"size:16;comment:语言"`
	PageCount     int                 `gorm:"comment:页数"`
	Description   string              `gorm:"type:text;comment:简介"`
	CoverURL      string              `gorm:"size:500;comment:封面URL"`
	AgeGroup      string              `gorm:"index;size:16;comment:适读年龄段"`
	Authors       []AuthorModel       `gorm:"many2many:book_authors;joinForeignKey:BookID;joinReferences:AuthorID"`
	Categories    []CategoryModel     `gorm:"many2many:book_categories;joinForeignKey:BookID;joinReferences:CategoryID"`
	Instances     []BookInstanceModel `gorm:"foreignKey:BookID"`
	CreatedAt     time.Time           `gorm:"index;comment:创建时间"`
	UpdatedAt     time.Time           `gorm:"comment:更新时间"`
}

func (BookModel) TableName() string {
	return "books"
}

// BookInstanceModel 馆藏副本
type BookInstanceModel struct {
	ID             uint       `gorm:"primaryKey"`
	BookID         uint       `gorm:"index;not null;comment:书目ID"`
	LibraryID      uint       `gorm:"index:idx_instance_reader;not null;comment:图书馆ID"`
	Status         string     `gorm:"index;size:20;not null;comment:状态"`
	ReaderID       *uint      `gorm:"index:idx_instance_reader;comment:借阅读者ID"`
	CheckedOutDate *time.Time `gorm:"comment:借出时间"`
	DueDate        *time.Time `gorm:"comment:应还日期"`
	Note           string     `gorm:"size:255;comment:备注"`
	CreatedAt      time.Time  `gorm:"comment:创建时间"`
	UpdatedAt      time.Time  `gorm:"comment:更新时间"`
}

func (BookInstanceModel) TableName() string {
	return "book_instances"
}

// SubscriptionModel 图书馆订阅，每个图书馆一条
type SubscriptionModel struct {
	ID                uint       `gorm:"primaryKey"`
	LibraryID         uint       `gorm:"uniqueIndex;not null;comment:图书馆ID"`
	Tier              string     `gorm:"size:20;not null;comment:订阅等级"`
	Status            string     `gorm:"size:20;not null;comment:订阅状态"`
	MaxBooks          int        `gorm:"not null;comment:图书上限（-1不限）"`
	MaxReaders        int        `gorm:"not null;comment:读者上限（-1不限）"`
	MaxLibraries      int        `gorm:"not null;comment:图书馆上限（-1不限）"`
	PaymentCustomerID string     `gorm:"size:100;comment:支付平台客户ID"`
	CheckoutSessionID string     `gorm:"size:100;comment:支付会话ID"`
	CurrentPeriodEnd  *time.Time `gorm:"comment:当前周期结束时间"`
	CreatedAt         time.Time  `gorm:"comment:创建时间"`
	UpdatedAt         time.Time  `gorm:"comment:更新时间"`
}

func (SubscriptionModel) TableName() string {
	return "subscriptions"
}

// ImportHistoryModel 批量导入任务
// Version用于乐观锁，FailedIsbns以JSON数组存储
type ImportHistoryModel struct {
	ID              uint           `gorm:"primaryKey"`
	LibraryID       uint           `gorm:"index;not null;comment:图书馆ID"`
	UserID          uint           `gorm:"not null;comment:发起人"`
	FileName        string         `gorm:"size:255;comment:原始文件名"`
	BlobKey         string         `gorm:"size:255;not null;comment:对象存储键"`
	Status          string         `gorm:"index;size:20;not null;comment:状态"`
	TotalIsbns      int            `gorm:"not null;comment:ISBN总数"`
	CurrentPosition int            `gorm:"not null;default:0;comment:下一个待处理位置"`
	SuccessCount    int            `gorm:"not null;default:0"`
	FailedCount     int            `gorm:"not null;default:0"`
	FailedIsbns     datatypes.JSON `gorm:"comment:失败的ISBN（最多保留100个）"`
	ProcessedChunks int            `gorm:"not null;default:0"`
	TotalChunks     int            `gorm:"not null;default:0"`
	ChunkSize       int            `gorm:"not null"`
	ErrorMessage    string         `gorm:"type:text"`
	StartedAt       *time.Time
	CompletedAt     *time.Time
	Version         int       `gorm:"not null;default:0;comment:乐观锁版本号"`
	CreatedAt       time.Time `gorm:"index"`
	UpdatedAt       time.Time
}

func (ImportHistoryModel) TableName() string {
	return "import_histories"
}

// AuditLogModel 管理操作审计日志
type AuditLogModel struct {
	ID         uint           `gorm:"primaryKey"`
	LibraryID  uint           `gorm:"index;comment:图书馆ID"`
	UserID     uint           `gorm:"comment:操作人"`
	Action     string         `gorm:"size:50;not null;comment:操作"`
	EntityType string         `gorm:"size:50;comment:实体类型"`
	EntityID   uint           `gorm:"comment:实体ID"`
	Details    datatypes.JSON `gorm:"comment:详情"`
	CreatedAt  time.Time      `gorm:"index"`
}

func (AuditLogModel) TableName() string {
	return "audit_logs"
}

// ReaderActionModel 借还流水，只追加
type ReaderActionModel struct {
	ID             uint      `gorm:"primaryKey"`
	LibraryID      uint      `gorm:"index:idx_action_reader;not null"`
	ReaderID       uint      `gorm:"index:idx_action_reader;not null"`
	BookInstanceID uint      `gorm:"index;not null"`
	BookID         uint      `gorm:"not null"`
	BookTitle      string    `gorm:"size:255"`
	Action         string    `gorm:"size:20;not null"`
	OccurredAt     time.Time `gorm:"index;not null"`
}

func (ReaderActionModel) TableName() string {
	return "reader_actions"
}
