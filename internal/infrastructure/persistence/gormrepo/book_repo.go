package gormrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/libraryhub/internal/domain/book"
	apperrors "github.com/xiebiao/libraryhub/pkg/errors"
)

// bookRepository 书目仓储，作者与分类通过多对多关联表保存
type bookRepository struct {
	baseRepo
}

func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{baseRepo{db: db}}
}

// Create 一次插入书目、关联和副本
// 作者和分类已由FindOrCreate*创建，这里只写关联表
func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	model := toBookModel(b)
	for _, inst := range b.Instances {
		model.Instances = append(model.Instances, *toInstanceModel(&inst))
	}

	if err := r.getDB(ctx).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return book.ErrISBNDuplicate
		}
		return apperrors.Wrap(err, "创建图书失败")
	}

	b.ID = model.ID
	b.CreatedAt = model.CreatedAt
	b.UpdatedAt = model.UpdatedAt
	for i := range b.Instances {
		b.Instances[i].ID = model.Instances[i].ID
		b.Instances[i].BookID = model.ID
		b.Instances[i].CreatedAt = model.Instances[i].CreatedAt
		b.Instances[i].UpdatedAt = model.Instances[i].UpdatedAt
	}
	return nil
}

// FindByID Preload避免N+1查询
func (r *bookRepository) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	err := r.preload(r.getDB(ctx)).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "查询图书失败")
	}
	return toBookEntity(&model), nil
}

func (r *bookRepository) FindByISBN(ctx context.Context, libraryID uint, isbn string) (*book.Book, error) {
	var model BookModel
	err := r.preload(r.getDB(ctx)).
		Where("library_id = ? AND isbn = ?", libraryID, isbn).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "查询图书失败")
	}
	return toBookEntity(&model), nil
}

// Update 更新书目字段并替换作者、分类关联，副本通过InstanceRepository单独维护
func (r *bookRepository) Update(ctx context.Context, b *book.Book) error {
	model := toBookModel(b)

	return r.getDB(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&BookModel{ID: b.ID}).Updates(map[string]any{
			"isbn":           model.ISBN,
			"title":          model.Title,
			"subtitle":       model.Subtitle,
			"publisher":      model.Publisher,
			"published_year": model.PublishedYear,
			"language":       model.Language,
			"page_count":     model.PageCount,
			"description":    model.Description,
			"cover_url":      model.CoverURL,
			"age_group":      model.AgeGroup,
		}).Error
		if err != nil {
			if isDuplicateError(err) {
				return book.ErrISBNDuplicate
			}
			return apperrors.Wrap(err, "更新图书失败")
		}

		ref := &BookModel{ID: b.ID}
		if err := tx.Model(ref).Association("Authors").Replace(model.Authors); err != nil {
			return apperrors.Wrap(err, "更新图书作者失败")
		}
		if err := tx.Model(ref).Association("Categories").Replace(model.Categories); err != nil {
			return apperrors.Wrap(err, "更新图书分类失败")
		}
		return nil
	})
}

func (r *bookRepository) UpdateAgeGroup(ctx context.Context, id uint, group book.AgeGroup) error {
	result := r.getDB(ctx).Model(&BookModel{}).Where("id = ?", id).Update("age_group", string(group))
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新年龄段失败")
	}
	if result.RowsAffected == 0 {
		// 值未变化时MySQL也返回0，再查一次确定原因
		var count int64
		if err := r.getDB(ctx).Model(&BookModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return apperrors.Wrap(err, "查询图书失败")
		}
		if count == 0 {
			return book.ErrBookNotFound
		}
	}
	return nil
}

// Delete 物理删除书目、关联和副本
func (r *bookRepository) Delete(ctx context.Context, id uint) error {
	return r.getDB(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("book_id = ?", id).Delete(&BookInstanceModel{}).Error; err != nil {
			return apperrors.Wrap(err, "删除副本失败")
		}

		result := tx.Select("Authors", "Categories").Delete(&BookModel{ID: id})
		if result.Error != nil {
			return apperrors.Wrap(result.Error, "删除图书失败")
		}
		if result.RowsAffected == 0 {
			return book.ErrBookNotFound
		}
		return nil
	})
}

func (r *bookRepository) List(ctx context.Context, params book.ListParams) ([]*book.Book, int64, error) {
	var models []BookModel
	var total int64

	query := r.getDB(ctx).Model(&BookModel{}).Where("books.library_id = ?", params.LibraryID)

	if params.Keyword != "" {
		keyword := likePattern(params.Keyword)
		query = query.Where("books.title LIKE ? OR books.subtitle LIKE ? OR books.isbn LIKE ?", keyword, keyword, keyword)
	}
	if params.Author != "" {
		query = query.Where(
			"books.id IN (SELECT ba.book_id FROM book_authors ba JOIN authors a ON a.id = ba.author_id WHERE a.name LIKE ?)",
			likePattern(params.Author),
		)
	}
	if params.Category != "" {
		query = query.Where(
			"books.id IN (SELECT bc.book_id FROM book_categories bc JOIN categories c ON c.id = bc.category_id WHERE c.name = ?)",
			params.Category,
		)
	}
	if params.AgeGroup != "" {
		query = query.Where("books.age_group = ?", string(params.AgeGroup))
	}
	if params.AvailableOnly {
		query = query.Where(
			"EXISTS (SELECT 1 FROM book_instances bi WHERE bi.book_id = books.id AND bi.status = ?)",
			string(book.StatusAvailable),
		)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询图书总数失败")
	}

	switch params.SortBy {
	case "title_asc":
		query = query.Order("books.title ASC")
	case "published_year_desc":
		query = query.Order("books.published_year DESC")
	default:
		query = query.Order("books.created_at DESC")
	}
	query = query.Order("books.id DESC")

	limit, offset := pagination(params.Page, params.PageSize)
	if err := r.preload(query).Limit(limit).Offset(offset).Find(&models).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询图书列表失败")
	}

	books := make([]*book.Book, len(models))
	for i := range models {
		books[i] = toBookEntity(&models[i])
	}
	return books, total, nil
}

func (r *bookRepository) CountByLibrary(ctx context.Context, libraryID uint) (int64, error) {
	var count int64
	if err := r.getDB(ctx).Model(&BookModel{}).Where("library_id = ?", libraryID).Count(&count).Error; err != nil {
		return 0, apperrors.Wrap(err, "统计图书数量失败")
	}
	return count, nil
}

func (r *bookRepository) FindOrCreateAuthor(ctx context.Context, libraryID uint, name string) (*book.Author, error) {
	model := AuthorModel{LibraryID: libraryID, Name: name}
	if err := r.findOrCreate(ctx, &model, AuthorModel{LibraryID: libraryID, Name: name}); err != nil {
		return nil, apperrors.Wrap(err, "保存作者失败")
	}
	return &book.Author{ID: model.ID, LibraryID: model.LibraryID, Name: model.Name}, nil
}

func (r *bookRepository) FindOrCreateCategory(ctx context.Context, libraryID uint, name string) (*book.Category, error) {
	model := CategoryModel{LibraryID: libraryID, Name: name}
	if err := r.findOrCreate(ctx, &model, CategoryModel{LibraryID: libraryID, Name: name}); err != nil {
		return nil, apperrors.Wrap(err, "保存分类失败")
	}
	return &book.Category{ID: model.ID, LibraryID: model.LibraryID, Name: model.Name}, nil
}

// findOrCreate 并发导入可能同时创建同名作者，唯一索引冲突时重新查询
func (r *bookRepository) findOrCreate(ctx context.Context, dest any, cond any) error {
	db := r.getDB(ctx)
	err := db.Where(cond).FirstOrCreate(dest).Error
	if err != nil && isDuplicateError(err) {
		err = db.Where(cond).First(dest).Error
	}
	return err
}

func (r *bookRepository) preload(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Authors", func(db *gorm.DB) *gorm.DB { return db.Order("authors.name ASC") }).
		Preload("Categories", func(db *gorm.DB) *gorm.DB { return db.Order("categories.name ASC") }).
		Preload("Instances", func(db *gorm.DB) *gorm.DB { return db.Order("book_instances.id ASC") })
}

func toBookModel(b *book.Book) *BookModel {
	model := &BookModel{
		ID:            b.ID,
		LibraryID:     b.LibraryID,
		ISBN:          b.ISBN,
		Title:         b.Title,
		Subtitle:      b.Subtitle,
		Publisher:     b.Publisher,
		PublishedYear: b.PublishedYear,
		Language:      b.Language,
		PageCount:     b.PageCount,
		Description:   b.Description,
		CoverURL:      b.CoverURL,
		AgeGroup:      string(b.AgeGroup),
		Authors:       make([]AuthorModel, 0, len(b.Authors)),
		Categories:    make([]CategoryModel, 0, len(b.Categories)),
	}
	for _, a := range b.Authors {
		model.Authors = append(model.Authors, AuthorModel{ID: a.ID, LibraryID: a.LibraryID, Name: a.Name})
	}
	for _, c := range b.Categories {
		model.Categories = append(model.Categories, CategoryModel{ID: c.ID, LibraryID: c.LibraryID, Name: c.Name})
	}
	return model
}

func toBookEntity(model *BookModel) *book.Book {
	b := &book.Book{
		ID:            model.ID,
		LibraryID:     model.LibraryID,
		ISBN:          model.ISBN,
		Title:         model.Title,
		Subtitle:      model.Subtitle,
		Publisher:     model.Publisher,
		PublishedYear: model.PublishedYear,
		Language:      model.Language,
		PageCount:     model.PageCount,
		Description:   model.Description,
		CoverURL:      model.CoverURL,
		AgeGroup:      book.AgeGroup(model.AgeGroup),
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
	for _, a := range model.Authors {
		b.Authors = append(b.Authors, book.Author{ID: a.ID, LibraryID: a.LibraryID, Name: a.Name})
	}
	for _, c := range model.Categories {
		b.Categories = append(b.Categories, book.Category{ID: c.ID, LibraryID: c.LibraryID, Name: c.Name})
	}
	for i := range model.Instances {
		b.Instances = append(b.Instances, *toInstanceEntity(&model.Instances[i]))
	}
	return b
}
