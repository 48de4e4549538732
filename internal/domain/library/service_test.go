package library

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	libraries map[uint]*Library
	admins    map[uint][]uint
	nextID    uint
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{libraries: make(map[uint]*Library), admins: make(map[uint][]uint)}
}

func (r *memoryRepo) Create(ctx context.Context, l *Library) error {
	r.nextID++
	l.ID = r.nextID
	r.libraries[l.ID] = l
	return nil
}

func (r *memoryRepo) FindByID(ctx context.Context, id uint) (*Library, error) {
	if l, ok := r.libraries[id]; ok {
		return l, nil
	}
	return nil, ErrLibraryNotFound
}

func (r *memoryRepo) FindByAlias(ctx context.Context, alias string) (*Library, error) {
	for _, l := range r.libraries {
		if l.Alias == alias {
			return l, nil
		}
	}
	return nil, ErrLibraryNotFound
}

func (r *memoryRepo) Update(ctx context.Context, l *Library) error {
	r.libraries[l.ID] = l
	return nil
}

func (r *memoryRepo) Delete(ctx context.Context, id uint) error {
	delete(r.libraries, id)
	return nil
}

func (r *memoryRepo) ListByAdministrator(ctx context.Context, userID uint) ([]*Library, error) {
	var result []*Library
	for libID, ids := range r.admins {
		for _, id := range ids {
			if id == userID {
				result = append(result, r.libraries[libID])
			}
		}
	}
	return result, nil
}

func (r *memoryRepo) ListIDsByOwner(ctx context.Context, ownerID uint) ([]uint, error) {
	var ids []uint
	for _, l := range r.libraries {
		if l.OwnerID == ownerID {
			ids = append(ids, l.ID)
		}
	}
	return ids, nil
}

func (r *memoryRepo) AddAdministrator(ctx context.Context, libraryID, userID uint) error {
	r.admins[libraryID] = append(r.admins[libraryID], userID)
	return nil
}

func (r *memoryRepo) RemoveAdministrator(ctx context.Context, libraryID, userID uint) error {
	ids := r.admins[libraryID][:0]
	for _, id := range r.admins[libraryID] {
		if id != userID {
			ids = append(ids, id)
		}
	}
	r.admins[libraryID] = ids
	return nil
}

func (r *memoryRepo) IsAdministrator(ctx context.Context, libraryID, userID uint) (bool, error) {
	for _, id := range r.admins[libraryID] {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryRepo) ListAdministrators(ctx context.Context, libraryID uint) ([]uint, error) {
	return append([]uint(nil), r.admins[libraryID]...), nil
}

type memoryKioskRepo struct {
	kiosks map[uint]*Kiosk
}

func (r *memoryKioskRepo) Create(ctx context.Context, k *Kiosk) error {
	k.ID = uint(len(r.kiosks) + 1)
	r.kiosks[k.ID] = k
	return nil
}

func (r *memoryKioskRepo) FindByID(ctx context.Context, id uint) (*Kiosk, error) {
	if k, ok := r.kiosks[id]; ok {
		return k, nil
	}
	return nil, ErrKioskNotFound
}

func (r *memoryKioskRepo) Update(ctx context.Context, k *Kiosk) error {
	r.kiosks[k.ID] = k
	return nil
}

func (r *memoryKioskRepo) ListByLibrary(ctx context.Context, libraryID uint) ([]*Kiosk, error) {
	var result []*Kiosk
	for _, k := range r.kiosks {
		if k.LibraryID == libraryID {
			result = append(result, k)
		}
	}
	return result, nil
}

type stubGate struct {
	allowed    bool
	subscribed []uint
}

func (g *stubGate) CanAddLibrary(ctx context.Context, userID uint) (bool, error) {
	return g.allowed, nil
}

func (g *stubGate) EnsureSubscription(ctx context.Context, libraryID uint) error {
	g.subscribed = append(g.subscribed, libraryID)
	return nil
}

func newTestService(allowed bool) (Service, *memoryRepo, *stubGate) {
	repo := newMemoryRepo()
	gate := &stubGate{allowed: allowed}
	return NewService(repo, &memoryKioskRepo{kiosks: make(map[uint]*Kiosk)}, gate), repo, gate
}

func TestLibrary_DueDate(t *testing.T) {
	lib := NewLibrary("城市图书馆", "city", 1, 14)
	checkedOut := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), lib.DueDate(checkedOut))
}

func TestNewLibrary_DefaultDuration(t *testing.T) {
	lib := NewLibrary("  社区图书馆 ", " Community-1 ", 1, 0)

	assert.Equal(t, "社区图书馆", lib.Name)
	assert.Equal(t, "community-1", lib.Alias)
	assert.Equal(t, DefaultCheckoutDurationDays, lib.CheckoutDurationDays)
}

func TestService_CreateLibrary(t *testing.T) {
	svc, repo, gate := newTestService(true)
	ctx := context.Background()

	lib, err := svc.CreateLibrary(ctx, 7, "城市图书馆", "city", 21)
	require.NoError(t, err)
	assert.Equal(t, 21, lib.CheckoutDurationDays)
	assert.Equal(t, []uint{lib.ID}, gate.subscribed)

	isAdmin, err := repo.IsAdministrator(ctx, lib.ID, 7)
	require.NoError(t, err)
	assert.True(t, isAdmin)

	_, err = svc.CreateLibrary(ctx, 8, "另一个", "CITY", 14)
	assert.ErrorIs(t, err, ErrAliasDuplicate)
}

func TestService_CreateLibrary_Rules(t *testing.T) {
	ctx := context.Background()

	svc, _, _ := newTestService(false)
	_, err := svc.CreateLibrary(ctx, 1, "城市图书馆", "city", 14)
	assert.ErrorIs(t, err, ErrLibraryLimitReached)

	svc, _, _ = newTestService(true)
	_, err = svc.CreateLibrary(ctx, 1, "城市图书馆", "x", 14)
	assert.ErrorIs(t, err, ErrInvalidAlias)

	_, err = svc.CreateLibrary(ctx, 1, "   ", "city", 14)
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = svc.CreateLibrary(ctx, 1, "城市图书馆", "city", 400)
	assert.ErrorIs(t, err, ErrInvalidCheckoutDuration)
}

func TestService_Administrators(t *testing.T) {
	svc, _, _ := newTestService(true)
	ctx := context.Background()

	lib, err := svc.CreateLibrary(ctx, 1, "城市图书馆", "city", 14)
	require.NoError(t, err)

	require.NoError(t, svc.AddAdministrator(ctx, lib.ID, 2))
	assert.ErrorIs(t, svc.AddAdministrator(ctx, lib.ID, 2), ErrDuplicateAdministrator)

	require.NoError(t, svc.RemoveAdministrator(ctx, lib.ID, 1))
	assert.ErrorIs(t, svc.RemoveAdministrator(ctx, lib.ID, 2), ErrLastAdministrator)
	assert.ErrorIs(t, svc.RemoveAdministrator(ctx, lib.ID, 99), ErrNotAdministrator)
}

func TestService_UpdateSettings(t *testing.T) {
	svc, _, _ := newTestService(true)
	ctx := context.Background()

	lib, err := svc.CreateLibrary(ctx, 1, "城市图书馆", "city", 14)
	require.NoError(t, err)

	updated, err := svc.UpdateSettings(ctx, lib.ID, "", 30)
	require.NoError(t, err)
	assert.Equal(t, "城市图书馆", updated.Name)
	assert.Equal(t, 30, updated.CheckoutDurationDays)

	_, err = svc.UpdateSettings(ctx, lib.ID, "", -1)
	assert.ErrorIs(t, err, ErrInvalidCheckoutDuration)

	_, err = svc.UpdateSettings(ctx, 404, "x", 10)
	assert.ErrorIs(t, err, ErrLibraryNotFound)
}

func TestService_Kiosk(t *testing.T) {
	svc, _, _ := newTestService(true)
	ctx := context.Background()

	lib, err := svc.CreateLibrary(ctx, 1, "城市图书馆", "city", 14)
	require.NoError(t, err)

	kiosk, secret, err := svc.CreateKiosk(ctx, lib.ID, "一楼大厅")
	require.NoError(t, err)
	assert.Len(t, secret, 32)
	assert.NotEqual(t, secret, kiosk.SecretHash)

	authed, err := svc.AuthenticateKiosk(ctx, kiosk.ID, secret)
	require.NoError(t, err)
	assert.Equal(t, lib.ID, authed.LibraryID)

	_, err = svc.AuthenticateKiosk(ctx, kiosk.ID, "wrong")
	assert.ErrorIs(t, err, ErrInvalidKioskSecret)

	require.NoError(t, svc.SetKioskEnabled(ctx, lib.ID, kiosk.ID, false))
	_, err = svc.AuthenticateKiosk(ctx, kiosk.ID, secret)
	assert.ErrorIs(t, err, ErrKioskDisabled)

	assert.ErrorIs(t, svc.SetKioskEnabled(ctx, lib.ID+1, kiosk.ID, true), ErrKioskNotFound)
}
