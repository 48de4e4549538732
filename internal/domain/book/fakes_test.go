package book

import (
	"context"
	"sort"
	"sync"

	"github.com/xiebiao/libraryhub/internal/domain/audit"
	"github.com/xiebiao/libraryhub/internal/domain/library"
	"github.com/xiebiao/libraryhub/internal/domain/reader"
)

// memoryStore 内存版图书与副本仓储
type memoryStore struct {
	mu         sync.Mutex
	books      map[uint]*Book
	instances  map[uint]*BookInstance
	authors    []*Author
	categories []*Category
	updates    int
	// failUpdate 指定副本写入时返回的错误
	failUpdate map[uint]error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{books: make(map[uint]*Book), instances: make(map[uint]*BookInstance)}
}

type bookRepo struct{ *memoryStore }

type instanceRepo struct{ *memoryStore }

func (s *memoryStore) bookCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.books)
}

func (s *memoryStore) instanceCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.instances)
}

// addInstance 直接放入指定ID的副本
func (s *memoryStore) addInstance(inst *BookInstance) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.instances[inst.ID] = inst
}

func (r bookRepo) Create(ctx context.Context, b *Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b.ID = uint(len(r.books) + 1)
	for i := range b.Instances {
		inst := b.Instances[i]
		inst.ID = uint(len(r.instances) + 1)
		inst.BookID = b.ID
		b.Instances[i] = inst
		r.instances[inst.ID] = &inst
	}
	r.books[b.ID] = b
	return nil
}

func (r bookRepo) FindByID(ctx context.Context, id uint) (*Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.books[id]
	if !ok {
		return nil, ErrBookNotFound
	}
	copied := *b
	copied.Instances = nil
	for _, inst := range r.instances {
		if inst.BookID == id {
			copied.Instances = append(copied.Instances, *inst)
		}
	}
	return &copied, nil
}

func (r bookRepo) FindByISBN(ctx context.Context, libraryID uint, isbn string) (*Book, error) {
	r.mu.Lock()
	var id uint
	for _, b := range r.books {
		if b.LibraryID == libraryID && b.ISBN == isbn {
			id = b.ID
		}
	}
	r.mu.Unlock()
	if id == 0 {
		return nil, ErrBookNotFound
	}
	return r.FindByID(ctx, id)
}

func (r bookRepo) Update(ctx context.Context, b *Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.books[b.ID] = b
	return nil
}

func (r bookRepo) UpdateAgeGroup(ctx context.Context, id uint, group AgeGroup) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.books[id]
	if !ok {
		return ErrBookNotFound
	}
	b.AgeGroup = group
	return nil
}

func (r bookRepo) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.books, id)
	return nil
}

func (r bookRepo) List(ctx context.Context, params ListParams) ([]*Book, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*Book
	for _, b := range r.books {
		if b.LibraryID == params.LibraryID {
			result = append(result, b)
		}
	}
	return result, int64(len(result)), nil
}

func (r bookRepo) CountByLibrary(ctx context.Context, libraryID uint) (int64, error) {
	_, n, err := r.List(ctx, ListParams{LibraryID: libraryID})
	return n, err
}

func (r bookRepo) FindOrCreateAuthor(ctx context.Context, libraryID uint, name string) (*Author, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.authors {
		if a.LibraryID == libraryID && a.Name == name {
			return a, nil
		}
	}
	a := &Author{ID: uint(len(r.authors) + 1), LibraryID: libraryID, Name: name}
	r.authors = append(r.authors, a)
	return a, nil
}

func (r bookRepo) FindOrCreateCategory(ctx context.Context, libraryID uint, name string) (*Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.categories {
		if c.LibraryID == libraryID && c.Name == name {
			return c, nil
		}
	}
	c := &Category{ID: uint(len(r.categories) + 1), LibraryID: libraryID, Name: name}
	r.categories = append(r.categories, c)
	return c, nil
}

func (r instanceRepo) Create(ctx context.Context, inst *BookInstance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	inst.ID = uint(len(r.instances) + 1)
	copied := *inst
	r.instances[inst.ID] = &copied
	return nil
}

func (r instanceRepo) FindByID(ctx context.Context, id uint) (*BookInstance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inst, ok := r.instances[id]
	if !ok {
		return nil, ErrInstanceNotFound
	}
	copied := *inst
	return &copied, nil
}

func (r instanceRepo) Update(ctx context.Context, inst *BookInstance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failUpdate[inst.ID]; err != nil {
		return err
	}
	copied := *inst
	r.instances[inst.ID] = &copied
	r.updates++
	return nil
}

func (r instanceRepo) ListByBook(ctx context.Context, bookID uint) ([]*BookInstance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*BookInstance
	for _, inst := range r.instances {
		if inst.BookID == bookID {
			copied := *inst
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r instanceRepo) ListBorrowedByReader(ctx context.Context, libraryID, readerID uint) ([]*BookInstance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*BookInstance
	for _, inst := range r.instances {
		if inst.LibraryID == libraryID && inst.IsBorrowedBy(readerID) {
			copied := *inst
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

type actionLog struct {
	actions []*audit.ReaderAction
}

func (l *actionLog) Append(ctx context.Context, a *audit.ReaderAction) error {
	l.actions = append(l.actions, a)
	return nil
}

func (l *actionLog) List(ctx context.Context, q audit.ReaderActionQuery) ([]*audit.ReaderAction, int64, error) {
	return l.actions, int64(len(l.actions)), nil
}

type libraryTable map[uint]*library.Library

func (t libraryTable) FindByID(ctx context.Context, id uint) (*library.Library, error) {
	if l, ok := t[id]; ok {
		return l, nil
	}
	return nil, library.ErrLibraryNotFound
}

// memberTable libraryID -> 成员读者
type memberTable map[uint]map[uint]*reader.Reader

func (t memberTable) FindMember(ctx context.Context, libraryID, readerID uint) (*reader.Reader, error) {
	if r, ok := t[libraryID][readerID]; ok {
		return r, nil
	}
	return nil, reader.ErrReaderNotFound
}

type recordingNotifier struct {
	calls [][]Loan
	err   error
}

func (n *recordingNotifier) NotifyCheckout(ctx context.Context, lib *library.Library, r *reader.Reader, loans []Loan) error {
	n.calls = append(n.calls, loans)
	return n.err
}

type allowGate struct{ allowed bool }

func (g allowGate) CanAddBook(ctx context.Context, libraryID uint) (bool, error) {
	return g.allowed, nil
}

type recordingClassifier struct {
	requested []uint
}

func (c *recordingClassifier) RequestAgeClassification(ctx context.Context, b *Book) error {
	c.requested = append(c.requested, b.ID)
	return nil
}
