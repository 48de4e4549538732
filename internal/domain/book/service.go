package book

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
)

// SubscriptionGate 添加图书时的额度检查，由subscription.Service实现
type SubscriptionGate interface {
	CanAddBook(ctx context.Context, libraryID uint) (bool, error)
}

// ClassificationRequester 新书创建后请求年龄段分类（异步）
type ClassificationRequester interface {
	RequestAgeClassification(ctx context.Context, book *Book) error
}

// Service 图书领域服务
type Service interface {
	// AddBook 手工录入图书，copies为初始副本数（至少1）
	// 业务规则：
	// - ISBN规范化为ISBN-13
	// - 同一图书馆内ISBN不能重复
	// - 受订阅的图书数量限制
	AddBook(ctx context.Context, libraryID uint, meta Metadata, copies int) (*Book, error)

	// GetBook 获取图书，其他图书馆的图书视为不存在
	GetBook(ctx context.Context, libraryID, id uint) (*Book, error)

	// UpdateBook 更新书目，空字段不修改，作者/分类非空时整体替换
	UpdateBook(ctx context.Context, libraryID, id uint, meta Metadata) (*Book, error)

	// DeleteBook 有副本借出中时拒绝删除
	DeleteBook(ctx context.Context, libraryID, id uint) error

	ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error)

	AddInstance(ctx context.Context, libraryID, bookID uint, note string) (*BookInstance, error)
	SetInstanceStatus(ctx context.Context, libraryID, instanceID uint, status InstanceStatus) (*BookInstance, error)

	// ImportRecord 批量导入的新增或更新
	// 图书馆已有相同ISBN的图书时新增一个副本，否则创建图书和一个可借副本。
	// 返回的bool表示是否新建了图书。额度在导入前统一校验，这里不再检查。
	ImportRecord(ctx context.Context, libraryID uint, meta Metadata) (*Book, bool, error)

	SetAgeGroup(ctx context.Context, bookID uint, group AgeGroup) error
}

type service struct {
	repo         Repository
	instanceRepo InstanceRepository
	subscription SubscriptionGate
	classifier   ClassificationRequester
}

// NewService 创建图书领域服务
func NewService(repo Repository, instanceRepo InstanceRepository, subscription SubscriptionGate, classifier ClassificationRequester) Service {
	return &service{
		repo:         repo,
		instanceRepo: instanceRepo,
		subscription: subscription,
		classifier:   classifier,
	}
}

// AddBook 手工录入图书
func (s *service) AddBook(ctx context.Context, libraryID uint, meta Metadata, copies int) (*Book, error) {
	isbn, err := NormalizeISBN(meta.ISBN)
	if err != nil {
		return nil, err
	}
	meta.ISBN = isbn
	if strings.TrimSpace(meta.Title) == "" {
		return nil, ErrInvalidTitle
	}
	if copies <= 0 {
		copies = 1
	}

	allowed, err := s.subscription.CanAddBook(ctx, libraryID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrBookLimitReached
	}

	if _, err := s.repo.FindByISBN(ctx, libraryID, isbn); err == nil {
		return nil, ErrISBNDuplicate
	} else if !errors.Is(err, ErrBookNotFound) {
		return nil, err
	}

	return s.createBook(ctx, libraryID, meta, copies)
}

func (s *service) GetBook(ctx context.Context, libraryID, id uint) (*Book, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.LibraryID != libraryID {
		return nil, ErrBookNotFound
	}
	return b, nil
}

// UpdateBook 更新书目信息
func (s *service) UpdateBook(ctx context.Context, libraryID, id uint, meta Metadata) (*Book, error) {
	b, err := s.GetBook(ctx, libraryID, id)
	if err != nil {
		return nil, err
	}

	if meta.ISBN != "" {
		isbn, err := NormalizeISBN(meta.ISBN)
		if err != nil {
			return nil, err
		}
		if isbn != b.ISBN {
			if _, err := s.repo.FindByISBN(ctx, libraryID, isbn); err == nil {
				return nil, ErrISBNDuplicate
			} else if !errors.Is(err, ErrBookNotFound) {
				return nil, err
			}
			b.ISBN = isbn
		}
	}

	applyMetadata(b, meta)
	if names := CleanNames(meta.Authors); len(names) > 0 {
		if b.Authors, err = s.resolveAuthors(ctx, libraryID, names); err != nil {
			return nil, err
		}
	}
	if names := CleanNames(meta.Categories); len(names) > 0 {
		if b.Categories, err = s.resolveCategories(ctx, libraryID, names); err != nil {
			return nil, err
		}
	}
	b.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// DeleteBook 删除图书
func (s *service) DeleteBook(ctx context.Context, libraryID, id uint) error {
	b, err := s.GetBook(ctx, libraryID, id)
	if err != nil {
		return err
	}
	for _, inst := range b.Instances {
		if inst.Status == StatusBorrowed {
			return ErrInstanceBorrowed
		}
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error) {
	return s.repo.List(ctx, params)
}

// AddInstance 为已有图书新增副本
func (s *service) AddInstance(ctx context.Context, libraryID, bookID uint, note string) (*BookInstance, error) {
	if _, err := s.GetBook(ctx, libraryID, bookID); err != nil {
		return nil, err
	}
	inst := NewInstance(bookID, libraryID)
	inst.Note = strings.TrimSpace(note)
	if err := s.instanceRepo.Create(ctx, inst); err != nil {
		return nil, err
	}
	return inst, nil
}

// SetInstanceStatus 调整副本状态
func (s *service) SetInstanceStatus(ctx context.Context, libraryID, instanceID uint, status InstanceStatus) (*BookInstance, error) {
	inst, err := s.instanceRepo.FindByID(ctx, instanceID)
	if err != nil {
		return nil, err
	}
	if inst.LibraryID != libraryID {
		return nil, ErrInstanceNotFound
	}
	if err := inst.SetStatus(status); err != nil {
		return nil, err
	}
	if err := s.instanceRepo.Update(ctx, inst); err != nil {
		return nil, err
	}
	return inst, nil
}

// ImportRecord 导入一条书目
func (s *service) ImportRecord(ctx context.Context, libraryID uint, meta Metadata) (*Book, bool, error) {
	isbn, err := NormalizeISBN(meta.ISBN)
	if err != nil {
		return nil, false, err
	}
	meta.ISBN = isbn

	existing, err := s.repo.FindByISBN(ctx, libraryID, isbn)
	if err == nil {
		inst := NewInstance(existing.ID, libraryID)
		if err := s.instanceRepo.Create(ctx, inst); err != nil {
			return nil, false, err
		}
		existing.Instances = append(existing.Instances, *inst)
		return existing, false, nil
	}
	if !errors.Is(err, ErrBookNotFound) {
		return nil, false, err
	}

	// 外部服务偶尔不返回书名
	if strings.TrimSpace(meta.Title) == "" {
		meta.Title = isbn
	}

	b, err := s.createBook(ctx, libraryID, meta, 1)
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

// SetAgeGroup 保存分类结果
func (s *service) SetAgeGroup(ctx context.Context, bookID uint, group AgeGroup) error {
	if _, ok := ParseAgeGroup(string(group)); !ok {
		return ErrInvalidAgeGroup
	}
	return s.repo.UpdateAgeGroup(ctx, bookID, group)
}

// createBook 解析作者/分类并创建图书及副本
func (s *service) createBook(ctx context.Context, libraryID uint, meta Metadata, copies int) (*Book, error) {
	now := time.Now()
	b := &Book{
		LibraryID: libraryID,
		ISBN:      meta.ISBN,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyMetadata(b, meta)

	var err error
	if b.Authors, err = s.resolveAuthors(ctx, libraryID, CleanNames(meta.Authors)); err != nil {
		return nil, err
	}
	if b.Categories, err = s.resolveCategories(ctx, libraryID, CleanNames(meta.Categories)); err != nil {
		return nil, err
	}
	for i := 0; i < copies; i++ {
		b.Instances = append(b.Instances, *NewInstance(0, libraryID))
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	if s.classifier != nil {
		if err := s.classifier.RequestAgeClassification(ctx, b); err != nil {
			slog.WarnContext(ctx, "request age classification failed",
				"book_id", b.ID,
				"err", err,
			)
		}
	}
	return b, nil
}

func (s *service) resolveAuthors(ctx context.Context, libraryID uint, names []string) ([]Author, error) {
	authors := make([]Author, 0, len(names))
	for _, name := range names {
		a, err := s.repo.FindOrCreateAuthor(ctx, libraryID, name)
		if err != nil {
			return nil, err
		}
		authors = append(authors, *a)
	}
	return authors, nil
}

func (s *service) resolveCategories(ctx context.Context, libraryID uint, names []string) ([]Category, error) {
	categories := make([]Category, 0, len(names))
	for _, name := range names {
		c, err := s.repo.FindOrCreateCategory(ctx, libraryID, name)
		if err != nil {
			return nil, err
		}
		categories = append(categories, *c)
	}
	return categories, nil
}

// applyMetadata 非空字段覆盖
func applyMetadata(b *Book, meta Metadata) {
	if v := strings.TrimSpace(meta.Title); v != "" {
		b.Title = v
	}
	if v := strings.TrimSpace(meta.Subtitle); v != "" {
		b.Subtitle = v
	}
	if v := strings.TrimSpace(meta.Publisher); v != "" {
		b.Publisher = v
	}
	if meta.PublishedYear > 0 {
		b.PublishedYear = meta.PublishedYear
	}
	if v := strings.TrimSpace(meta.Language); v != "" {
		b.Language = v
	}
	if meta.PageCount > 0 {
		b.PageCount = meta.PageCount
	}
	if v := strings.TrimSpace(meta.Description); v != "" {
		b.Description = v
	}
	if v := strings.TrimSpace(meta.CoverURL); v != "" {
		b.CoverURL = v
	}
}
