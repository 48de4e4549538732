package book

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/xiebiao/libraryhub/internal/domain/audit"
	"github.com/xiebiao/libraryhub/internal/domain/library"
	"github.com/xiebiao/libraryhub/internal/domain/reader"
	"github.com/xiebiao/libraryhub/pkg/metrics"
	"github.com/xiebiao/libraryhub/pkg/tracing"
)

const tracerName = "libraryhub/circulation"

// LibraryFinder 查询图书馆
type LibraryFinder interface {
	FindByID(ctx context.Context, id uint) (*library.Library, error)
}

// ReaderFinder 查询图书馆内的读者
type ReaderFinder interface {
	FindMember(ctx context.Context, libraryID, readerID uint) (*reader.Reader, error)
}

// Loan 一次借出明细
type Loan struct {
	InstanceID uint
	BookID     uint
	Title      string
	DueDate    time.Time
}

// CheckoutNotifier 借出确认通知（邮件），由application层实现
type CheckoutNotifier interface {
	NotifyCheckout(ctx context.Context, lib *library.Library, r *reader.Reader, loans []Loan) error
}

// CirculationResult 批量借还结果
// 找不到或状态不符的副本静默跳过，记录在Skipped中
type CirculationResult struct {
	Processed []Loan
	Skipped   []uint
}

// CirculationService 借出与归还
//
// 每个副本单独持久化，没有包裹事务：中途失败时已处理的副本保持提交状态。
// 副本更新不加锁，同一副本的并发借出以最后写入为准。
type CirculationService struct {
	libraries LibraryFinder
	readers   ReaderFinder
	books     Repository
	instances InstanceRepository
	actions   audit.ReaderActionRepository
	notifier  CheckoutNotifier
	now       func() time.Time
}

// NewCirculationService 创建借还服务
func NewCirculationService(
	libraries LibraryFinder,
	readers ReaderFinder,
	books Repository,
	instances InstanceRepository,
	actions audit.ReaderActionRepository,
	notifier CheckoutNotifier,
) *CirculationService {
	return &CirculationService{
		libraries: libraries,
		readers:   readers,
		books:     books,
		instances: instances,
		actions:   actions,
		notifier:  notifier,
		now:       time.Now,
	}
}

// SetClock 替换时钟（测试用）
func (s *CirculationService) SetClock(now func() time.Time) {
	s.now = now
}

// CheckoutBooks 为读者借出多个副本
//
// 图书馆不存在返回library.ErrLibraryNotFound，读者不存在或不是成员返回reader.ErrReaderNotFound。
// 只要图书馆和读者存在就返回结果，不论实际借出了几本。
// 至少借出一本时发送一封确认邮件，发送失败只记录日志。
// 副本读取或写入失败时停止处理，返回已借出部分的结果和该错误。
func (s *CirculationService) CheckoutBooks(ctx context.Context, readerID uint, instanceIDs []uint, libraryID uint) (*CirculationResult, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "CheckoutBooks")
	defer span.End()

	lib, err := s.libraries.FindByID(ctx, libraryID)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	r, err := s.readers.FindMember(ctx, libraryID, readerID)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	result := &CirculationResult{}
	titles := make(map[uint]string)
	// 中途失败时已借出的副本照常通知，并随错误一起返回
	var failErr error

	for _, id := range instanceIDs {
		inst, err := s.loadInstance(ctx, libraryID, id)
		if err != nil {
			failErr = err
			break
		}
		if inst == nil || inst.Status != StatusAvailable {
			result.Skipped = append(result.Skipped, id)
			metrics.CirculationTotal.WithLabelValues("checkout", "skipped").Inc()
			continue
		}

		now := s.now()
		if err := inst.Checkout(r.ID, now, lib.DueDate(now)); err != nil {
			result.Skipped = append(result.Skipped, id)
			continue
		}
		if err := s.instances.Update(ctx, inst); err != nil {
			tracing.RecordError(span, err)
			failErr = err
			break
		}

		title := s.bookTitle(ctx, titles, inst.BookID)
		s.appendAction(ctx, &audit.ReaderAction{
			LibraryID:      libraryID,
			ReaderID:       r.ID,
			BookInstanceID: inst.ID,
			BookID:         inst.BookID,
			BookTitle:      title,
			Action:         audit.ActionCheckout,
			OccurredAt:     now,
		})

		result.Processed = append(result.Processed, Loan{
			InstanceID: inst.ID,
			BookID:     inst.BookID,
			Title:      title,
			DueDate:    *inst.DueDate,
		})
		metrics.CirculationTotal.WithLabelValues("checkout", "success").Inc()
	}

	if len(result.Processed) > 0 && s.notifier != nil {
		if err := s.notifier.NotifyCheckout(ctx, lib, r, result.Processed); err != nil {
			slog.WarnContext(ctx, "queue checkout confirmation failed",
				"library_id", libraryID,
				"reader_id", r.ID,
				"err", err,
			)
		}
	}

	return result, failErr
}

// ReturnBooks 归还多个副本
// 非借出状态的副本跳过，重复归还不报错也不写记录
func (s *CirculationService) ReturnBooks(ctx context.Context, instanceIDs []uint, libraryID uint) (*CirculationResult, error) {
	return s.returnBooks(ctx, instanceIDs, libraryID, 0)
}

// ReturnBooksForReader 只归还该读者借出的副本（自助机/移动端还书申请）
func (s *CirculationService) ReturnBooksForReader(ctx context.Context, readerID uint, instanceIDs []uint, libraryID uint) (*CirculationResult, error) {
	if _, err := s.readers.FindMember(ctx, libraryID, readerID); err != nil {
		return nil, err
	}
	return s.returnBooks(ctx, instanceIDs, libraryID, readerID)
}

// BorrowedBy 读者在图书馆的在借副本
func (s *CirculationService) BorrowedBy(ctx context.Context, libraryID, readerID uint) ([]Loan, error) {
	instances, err := s.instances.ListBorrowedByReader(ctx, libraryID, readerID)
	if err != nil {
		return nil, err
	}

	titles := make(map[uint]string)
	loans := make([]Loan, 0, len(instances))
	for _, inst := range instances {
		loan := Loan{
			InstanceID: inst.ID,
			BookID:     inst.BookID,
			Title:      s.bookTitle(ctx, titles, inst.BookID),
		}
		if inst.DueDate != nil {
			loan.DueDate = *inst.DueDate
		}
		loans = append(loans, loan)
	}
	return loans, nil
}

// returnBooks onlyReader为0表示不限读者
func (s *CirculationService) returnBooks(ctx context.Context, instanceIDs []uint, libraryID, onlyReader uint) (*CirculationResult, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "ReturnBooks")
	defer span.End()

	if _, err := s.libraries.FindByID(ctx, libraryID); err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	result := &CirculationResult{}
	titles := make(map[uint]string)

	for _, id := range instanceIDs {
		inst, err := s.loadInstance(ctx, libraryID, id)
		if err != nil {
			return nil, err
		}
		if inst == nil || inst.Status != StatusBorrowed || (onlyReader != 0 && !inst.IsBorrowedBy(onlyReader)) {
			result.Skipped = append(result.Skipped, id)
			metrics.CirculationTotal.WithLabelValues("return", "skipped").Inc()
			continue
		}

		now := s.now()
		previousReader, err := inst.Return(now)
		if err != nil {
			result.Skipped = append(result.Skipped, id)
			continue
		}
		if err := s.instances.Update(ctx, inst); err != nil {
			tracing.RecordError(span, err)
			return nil, err
		}

		title := s.bookTitle(ctx, titles, inst.BookID)
		s.appendAction(ctx, &audit.ReaderAction{
			LibraryID:      libraryID,
			ReaderID:       previousReader,
			BookInstanceID: inst.ID,
			BookID:         inst.BookID,
			BookTitle:      title,
			Action:         audit.ActionReturn,
			OccurredAt:     now,
		})

		result.Processed = append(result.Processed, Loan{InstanceID: inst.ID, BookID: inst.BookID, Title: title})
		metrics.CirculationTotal.WithLabelValues("return", "success").Inc()
	}

	return result, nil
}

// loadInstance 不存在或属于其他图书馆时返回nil
func (s *CirculationService) loadInstance(ctx context.Context, libraryID, id uint) (*BookInstance, error) {
	inst, err := s.instances.FindByID(ctx, id)
	if errors.Is(err, ErrInstanceNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if inst.LibraryID != libraryID {
		return nil, nil
	}
	return inst, nil
}

func (s *CirculationService) bookTitle(ctx context.Context, cache map[uint]string, bookID uint) string {
	if title, ok := cache[bookID]; ok {
		return title
	}
	title := ""
	if b, err := s.books.FindByID(ctx, bookID); err == nil {
		title = b.Title
	}
	cache[bookID] = title
	return title
}

// appendAction 借还记录写入失败不影响借还结果
func (s *CirculationService) appendAction(ctx context.Context, action *audit.ReaderAction) {
	if err := s.actions.Append(ctx, action); err != nil {
		slog.ErrorContext(ctx, "append reader action failed",
			"action", action.Action,
			"instance_id", action.BookInstanceID,
			"err", err,
		)
	}
}
