package importer

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"sync"

	"github.com/xiebiao/libraryhub/internal/domain/audit"
	"github.com/xiebiao/libraryhub/internal/domain/book"
	"github.com/xiebiao/libraryhub/internal/domain/importjob"
	"github.com/xiebiao/libraryhub/internal/domain/user"
	"github.com/xiebiao/libraryhub/internal/infrastructure/queue"
	"github.com/xiebiao/libraryhub/internal/infrastructure/storage"
)

type memoryImports struct {
	mu      sync.Mutex
	nextID  uint
	items   map[uint]importjob.ImportHistory
	updates int
}

func newMemoryImports() *memoryImports {
	return &memoryImports{items: make(map[uint]importjob.ImportHistory)}
}

func (m *memoryImports) Create(ctx context.Context, h *importjob.ImportHistory) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	h.ID = m.nextID
	m.items[h.ID] = *h
	return nil
}

func (m *memoryImports) FindByID(ctx context.Context, id uint) (*importjob.ImportHistory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.items[id]
	if !ok {
		return nil, importjob.ErrImportNotFound
	}
	h.FailedIsbns = append([]string{}, h.FailedIsbns...)
	return &h, nil
}

func (m *memoryImports) Update(ctx context.Context, h *importjob.ImportHistory) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.items[h.ID]
	if !ok {
		return importjob.ErrImportNotFound
	}
	if stored.Version != h.Version {
		return importjob.ErrVersionConflict
	}
	h.Version++
	m.items[h.ID] = *h
	m.updates++
	return nil
}

func (m *memoryImports) ListByLibrary(ctx context.Context, libraryID uint, page, pageSize int) ([]*importjob.ImportHistory, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := make([]*importjob.ImportHistory, 0)
	for _, h := range m.items {
		if h.LibraryID == libraryID {
			h := h
			list = append(list, &h)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID > list[j].ID })
	return list, int64(len(list)), nil
}

func (m *memoryImports) ListUnfinished(ctx context.Context, limit int) ([]*importjob.ImportHistory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := make([]*importjob.ImportHistory, 0)
	for _, h := range m.items {
		if !h.IsTerminal() {
			h := h
			list = append(list, &h)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

// get 返回存储记录的副本
func (m *memoryImports) get(id uint) *importjob.ImportHistory {
	m.mu.Lock()
	defer m.mu.Unlock()
	h := m.items[id]
	return &h
}

type memoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	getErr  error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{objects: make(map[string][]byte)}
}

func (s *memoryStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return nil
}

func (s *memoryStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	data, ok := s.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

type fakeQueue struct {
	enqueued []uint
	err      error
}

func (q *fakeQueue) Enqueue(ctx context.Context, importID uint) (queue.Job, error) {
	if q.err != nil {
		return queue.Job{}, q.err
	}
	q.enqueued = append(q.enqueued, importID)
	return queue.Job{ID: "job-1", ImportID: importID, Status: queue.StatusQueued}, nil
}

type fakeLimits struct {
	err      error
	incoming int
}

func (l *fakeLimits) ValidateBookImportLimits(ctx context.Context, libraryID uint, incoming int) error {
	l.incoming = incoming
	return l.err
}

type memoryAudit struct {
	mu   sync.Mutex
	logs []*audit.Log
}

func (a *memoryAudit) Append(ctx context.Context, log *audit.Log) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.logs = append(a.logs, log)
	return nil
}

func (a *memoryAudit) List(ctx context.Context, libraryID uint, page, pageSize int) ([]*audit.Log, int64, error) {
	return a.logs, int64(len(a.logs)), nil
}

func (a *memoryAudit) actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.logs))
	for _, l := range a.logs {
		out = append(out, l.Action)
	}
	return out
}

// fakeLookup 只返回known中存在的ISBN
type fakeLookup struct {
	known map[string]string
	err   error
	calls [][]string
}

func (l *fakeLookup) LookupBatch(ctx context.Context, isbns []string) ([]book.Metadata, error) {
	l.calls = append(l.calls, append([]string{}, isbns...))
	if l.err != nil {
		return nil, l.err
	}
	out := make([]book.Metadata, 0, len(isbns))
	for _, isbn := range isbns {
		if title, ok := l.known[isbn]; ok {
			out = append(out, book.Metadata{ISBN: isbn, Title: title})
		}
	}
	return out, nil
}

type fakeRecords struct {
	imported []string
	failISBN string
}

func (r *fakeRecords) ImportRecord(ctx context.Context, libraryID uint, meta book.Metadata) (*book.Book, bool, error) {
	if meta.ISBN == r.failISBN {
		return nil, false, errors.New("insert failed")
	}
	r.imported = append(r.imported, meta.ISBN)
	return &book.Book{ISBN: meta.ISBN, Title: meta.Title}, true, nil
}

type fakeLock struct {
	held     bool
	lost     bool
	unlocked int
}

func (l *fakeLock) TryLock(ctx context.Context, importID uint) (string, bool, error) {
	if l.held {
		return "", false, nil
	}
	return "token", true, nil
}

func (l *fakeLock) Refresh(ctx context.Context, importID uint, token string) (bool, error) {
	return !l.lost, nil
}

func (l *fakeLock) Unlock(ctx context.Context, importID uint, token string) error {
	l.unlocked++
	return nil
}

type fakeNotifier struct {
	sent []string
}

func (n *fakeNotifier) NotifyImportFinished(ctx context.Context, to string, h *importjob.ImportHistory) error {
	n.sent = append(n.sent, to+":"+string(h.Status))
	return nil
}

type fakeUsers struct{}

func (fakeUsers) FindByID(ctx context.Context, id uint) (*user.User, error) {
	return &user.User{ID: id, Email: "librarian@example.com"}, nil
}
