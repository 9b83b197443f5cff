package service

import (
	"context"
	"testing"

	"github.com/garyjia/pt-logbook/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEntryService(f *fixture) EntryService {
	return NewEntryService(memStudents{f.store}, memLogbooks{f.store}, memEntries{f.store}, mockTxManager{}, f.logger)
}

func TestEntryService_Create(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	svc := newTestEntryService(f)
	lb := f.addLogbook(1)

	entry, err := svc.Create(ctx, f.user, lb.ID, EntryRequest{Date: monday.AddDate(0, 0, 2), Activity: " Crimped cables "})
	require.NoError(t, err)
	assert.Equal(t, "Wednesday", entry.Day)
	assert.Equal(t, "Crimped cables", entry.Activity)
	assert.True(t, entry.IsUpdated)

	t.Run("date outside week", func(t *testing.T) {
		_, err := svc.Create(ctx, f.user, lb.ID, EntryRequest{Date: monday.AddDate(0, 0, 5), Activity: "x"})
		assert.ErrorIs(t, err, ErrDateOutOfRange)
		_, err = svc.Create(ctx, f.user, lb.ID, EntryRequest{Date: monday.AddDate(0, 0, -1), Activity: "x"})
		assert.ErrorIs(t, err, ErrDateOutOfRange)
	})

	t.Run("duplicate date", func(t *testing.T) {
		_, err := svc.Create(ctx, f.user, lb.ID, EntryRequest{Date: monday.AddDate(0, 0, 2), Activity: "again"})
		var exists *EntryExistsError
		require.ErrorAs(t, err, &exists)
		assert.Equal(t, entry.ID, exists.EntryID)
		assert.True(t, IsClientError(err))
	})

	t.Run("missing date", func(t *testing.T) {
		_, err := svc.Create(ctx, f.user, lb.ID, EntryRequest{Activity: "x"})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("other user's logbook", func(t *testing.T) {
		_, err := svc.Create(ctx, f.otherUser(), lb.ID, EntryRequest{Date: monday, Activity: "x"})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestEntryService_EntryLimit(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	svc := newTestEntryService(f)
	lb := f.addLogbook(1)
	// Widen the range so a sixth distinct date is allowed through the date check.
	lb.ToDate = monday.AddDate(0, 0, 6)
	require.NoError(t, memLogbooks{f.store}.Update(ctx, lb))

	for i := 0; i < entity.EntriesPerWeek; i++ {
		_, err := svc.Create(ctx, f.user, lb.ID, EntryRequest{Date: monday.AddDate(0, 0, i), Activity: "work"})
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, f.user, lb.ID, EntryRequest{Date: monday.AddDate(0, 0, 5), Activity: "extra"})
	assert.ErrorIs(t, err, ErrEntryLimit)
}

func TestEntryService_CreateBatch(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	svc := newTestEntryService(f)
	lb := f.addLogbook(1)
	f.addEntry(lb, 1, "Tuesday work", true)

	created, err := svc.CreateBatch(ctx, f.user, lb.ID)
	require.NoError(t, err)
	require.Len(t, created, 4)

	var days []string
	for _, e := range created {
		days = append(days, e.Day)
		assert.Equal(t, entity.BatchEntryPlaceholder, e.Activity)
		assert.False(t, e.IsUpdated)
	}
	assert.Equal(t, []string{"Monday", "Wednesday", "Thursday", "Friday"}, days)

	again, err := svc.CreateBatch(ctx, f.user, lb.ID)
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestEntryService_CreateBatchRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.store.failOn["entry.create"] = assert.AnError
	svc := newTestEntryService(f)
	lb := f.addLogbook(1)

	_, err := svc.CreateBatch(ctx, f.user, lb.ID)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, f.logger.errors, "Failed to create batch entries")
}

func TestEntryService_Update(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	svc := newTestEntryService(f)
	lb := f.addLogbook(1)
	placeholder := f.addEntry(lb, 0, entity.BatchEntryPlaceholder, false)
	tuesday := f.addEntry(lb, 1, "Tuesday work", true)

	updated, err := svc.Update(ctx, f.user, lb.ID, placeholder.ID, EntryRequest{Activity: "Real Monday work"})
	require.NoError(t, err)
	assert.Equal(t, "Monday", updated.Day)
	assert.Equal(t, "Real Monday work", updated.Activity)
	assert.True(t, updated.IsUpdated)

	moved, err := svc.Update(ctx, f.user, lb.ID, placeholder.ID, EntryRequest{Date: monday.AddDate(0, 0, 3), Activity: "Moved"})
	require.NoError(t, err)
	assert.Equal(t, "Thursday", moved.Day)

	_, err = svc.Update(ctx, f.user, lb.ID, placeholder.ID, EntryRequest{Date: monday.AddDate(0, 0, 1), Activity: "clash"})
	var exists *EntryExistsError
	require.ErrorAs(t, err, &exists)
	assert.Equal(t, tuesday.ID, exists.EntryID)

	_, err = svc.Update(ctx, f.user, lb.ID, placeholder.ID, EntryRequest{Date: monday.AddDate(0, 0, 7), Activity: "late"})
	assert.ErrorIs(t, err, ErrDateOutOfRange)

	other := f.addLogbook(2)
	_, err = svc.Update(ctx, f.user, other.ID, placeholder.ID, EntryRequest{Activity: "wrong logbook"})
	assert.ErrorIs(t, err, ErrNotFound)
}
