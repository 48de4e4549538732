package book

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookInstance_CheckoutAndReturn(t *testing.T) {
	inst := NewInstance(1, 1)
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	due := at.Add(14 * 24 * time.Hour)

	require.NoError(t, inst.Checkout(2, at, due))
	assert.Equal(t, StatusBorrowed, inst.Status)
	assert.Equal(t, uint(2), *inst.ReaderID)
	assert.Equal(t, at, *inst.CheckedOutDate)
	assert.Equal(t, due, *inst.DueDate)
	assert.True(t, inst.IsBorrowedBy(2))
	assert.False(t, inst.IsBorrowedBy(3))

	assert.ErrorIs(t, inst.Checkout(3, at, due), ErrInstanceNotAvailable)

	prev, err := inst.Return(at.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, uint(2), prev)
	assert.Equal(t, StatusAvailable, inst.Status)
	assert.Nil(t, inst.ReaderID)
	assert.Nil(t, inst.CheckedOutDate)
	assert.Nil(t, inst.DueDate)

	_, err = inst.Return(at)
	assert.ErrorIs(t, err, ErrInstanceNotBorrowed)
}

func TestBookInstance_SetStatus(t *testing.T) {
	inst := NewInstance(1, 1)

	require.NoError(t, inst.SetStatus(StatusLostDamaged))
	assert.ErrorIs(t, inst.Checkout(1, time.Now(), time.Now()), ErrInstanceNotAvailable)

	require.NoError(t, inst.SetStatus(StatusAvailable))
	assert.ErrorIs(t, inst.SetStatus(StatusBorrowed), ErrInvalidInstanceStatus)
	assert.ErrorIs(t, inst.SetStatus("missing"), ErrInvalidInstanceStatus)

	now := time.Now()
	require.NoError(t, inst.Checkout(1, now, now))
	assert.ErrorIs(t, inst.SetStatus(StatusReserved), ErrInstanceBorrowed)
}

func TestBookInstance_IsOverdue(t *testing.T) {
	inst := NewInstance(1, 1)
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, inst.Checkout(1, at, at.Add(24*time.Hour)))

	assert.False(t, inst.IsOverdue(at.Add(time.Hour)))
	assert.True(t, inst.IsOverdue(at.Add(25*time.Hour)))
}

func TestParseAgeGroup(t *testing.T) {
	g, ok := ParseAgeGroup(" Adult ")
	assert.True(t, ok)
	assert.Equal(t, AgeGroupAdult, g)

	g, ok = ParseAgeGroup("9-12")
	assert.True(t, ok)
	assert.Equal(t, AgeGroupMiddle, g)

	_, ok = ParseAgeGroup("senior")
	assert.False(t, ok)
}

func TestCleanNames(t *testing.T) {
	assert.Equal(t, []string{"刘慈欣", "Ken Liu"}, CleanNames([]string{" 刘慈欣 ", "", "Ken Liu", "刘慈欣"}))
	assert.Empty(t, CleanNames(nil))
}
