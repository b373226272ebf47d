package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/alexanderramin/studyplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalendarRepo_ListBetween_HalfOpen(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteCalendarRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestCalendarEntry("Before", "2025-03-09")))
	require.NoError(t, repo.Create(ctx, testutil.NewTestCalendarEntry("Afternoon", "2025-03-10", testutil.WithTimes("14:00", "16:00"))))
	require.NoError(t, repo.Create(ctx, testutil.NewTestCalendarEntry("Morning", "2025-03-10", testutil.WithTimes("09:00", "10:00"))))
	require.NoError(t, repo.Create(ctx, testutil.NewTestCalendarEntry("After", "2025-03-12")))

	list, err := repo.ListBetween(ctx, "2025-03-10", "2025-03-12")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Morning", list[0].Title)
	assert.Equal(t, "Afternoon", list[1].Title)
	assert.Equal(t, domain.EntryEvent, list[0].Kind)
	assert.Equal(t, domain.SourceManual, list[0].Source)
}

func TestCalendarRepo_ListIncomplete(t *testing.T) {
	db := testutil.NewTestDB(t)
	subjects := NewSQLiteSubjectRepo(db)
	repo := NewSQLiteCalendarRepo(db)
	ctx := context.Background()

	subj := testutil.NewTestSubject("Algebra")
	require.NoError(t, subjects.Create(ctx, subj))
	other := testutil.NewTestSubject("Historia")
	require.NoError(t, subjects.Create(ctx, other))

	complete := testutil.NewTestCalendarEntry("Parcial 1", "2025-03-10",
		testutil.WithEntrySubject(subj.ID), testutil.WithEntryWeight(30), testutil.WithEntryDescription("Units 1-3"))
	noWeight := testutil.NewTestCalendarEntry("Parcial 2", "2025-04-10",
		testutil.WithEntrySubject(subj.ID), testutil.WithEntryDescription("Units 4-6"))
	blankDesc := testutil.NewTestCalendarEntry("TP 1", "2025-03-20",
		testutil.WithEntrySubject(subj.ID), testutil.WithEntryWeight(10), testutil.WithEntryDescription("   "))
	otherSubject := testutil.NewTestCalendarEntry("Final", "2025-03-01", testutil.WithEntrySubject(other.ID))
	for _, e := range []*domain.CalendarEntry{complete, noWeight, blankDesc, otherSubject} {
		require.NoError(t, repo.Create(ctx, e))
	}

	list, err := repo.ListIncomplete(ctx, subj.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, blankDesc.ID, list[0].ID)
	assert.Equal(t, noWeight.ID, list[1].ID)
}

func TestCalendarRepo_UpsertExternal_KeepsEnrichedMetadata(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteCalendarRepo(db)
	ctx := context.Background()

	first := testutil.NewTestCalendarEntry("Parcial", "2025-03-10",
		testutil.WithKind(domain.EntryExam), testutil.WithExternalKey("uid-1@2025-03-10"))
	created, err := repo.UpsertExternal(ctx, first)
	require.NoError(t, err)
	assert.True(t, created)

	require.NoError(t, repo.UpdateMetadata(ctx, first.ID, domain.Float64Ptr(25), "Chapters 1-4 of the textbook"))

	again := testutil.NewTestCalendarEntry("Parcial 1", "2025-03-11",
		testutil.WithKind(domain.EntryExam), testutil.WithExternalKey("uid-1@2025-03-10"),
		testutil.WithTimes("10:00", "12:00"), testutil.WithEntryDescription("feed text"))
	created, err = repo.UpsertExternal(ctx, again)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, again.ID)

	fetched, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Parcial 1", fetched.Title)
	assert.Equal(t, "2025-03-11", fetched.Date)
	assert.Equal(t, "10:00", fetched.StartTime)
	assert.Equal(t, "Chapters 1-4 of the textbook", fetched.Description)
	require.NotNil(t, fetched.Weight)
	assert.InDelta(t, 25.0, *fetched.Weight, 0.001)
	assert.Equal(t, domain.SourceICS, fetched.Source)
}

func TestCalendarRepo_UpsertExternal_FillsEmptyDescription(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteCalendarRepo(db)
	ctx := context.Background()

	first := testutil.NewTestCalendarEntry("Class", "2025-03-10", testutil.WithExternalKey("uid-2@x"))
	_, err := repo.UpsertExternal(ctx, first)
	require.NoError(t, err)

	again := testutil.NewTestCalendarEntry("Class", "2025-03-10",
		testutil.WithExternalKey("uid-2@x"), testutil.WithEntryDescription("Room 4"))
	_, err = repo.UpsertExternal(ctx, again)
	require.NoError(t, err)

	fetched, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Room 4", fetched.Description)
}

func TestCalendarRepo_UpsertExternal_RequiresKey(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteCalendarRepo(db)

	_, err := repo.UpsertExternal(context.Background(), testutil.NewTestCalendarEntry("x", "2025-03-10"))
	assert.Error(t, err)
}

func TestCalendarRepo_UpdateMetadataAndDelete_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteCalendarRepo(db)
	ctx := context.Background()

	assert.ErrorIs(t, repo.UpdateMetadata(ctx, "missing", nil, "x"), ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "missing"), ErrNotFound)
	_, err := repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
