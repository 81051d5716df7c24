package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAcademicYearServiceActiveHandoff(t *testing.T) {
	env := newServiceTestEnv(t)
	school := createTestSchool(t, env.db, "years")

	svc, err := NewAcademicYearService(env.db, env.facade, env.invalidator)
	require.NoError(t, err)

	ctx := context.Background()

	first, err := svc.Create(ctx, CreateAcademicYearInput{
		SchoolID: school.ID,
		Label:    "2024/2025",
		StartsOn: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
		EndsOn:   time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		Active:   true,
	})
	require.NoError(t, err)

	active, err := svc.Active(ctx, school.ID)
	require.NoError(t, err)
	require.Equal(t, first.ID, active.ID)

	// Activating the next year demotes the previous one.
	second, err := svc.Create(ctx, CreateAcademicYearInput{
		SchoolID: school.ID,
		Label:    "2025/2026",
		StartsOn: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		EndsOn:   time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC),
		Active:   true,
	})
	require.NoError(t, err)

	active, err = svc.Active(ctx, school.ID)
	require.NoError(t, err)
	require.Equal(t, second.ID, active.ID)

	years, err := svc.List(ctx, school.ID)
	require.NoError(t, err)
	require.Len(t, years, 2)
	require.Equal(t, "2025/2026", years[0].Label)
}

func TestAcademicYearServiceRejectsDuplicateLabel(t *testing.T) {
	env := newServiceTestEnv(t)
	school := createTestSchool(t, env.db, "dup-years")

	svc, err := NewAcademicYearService(env.db, env.facade, env.invalidator)
	require.NoError(t, err)

	ctx := context.Background()

	_, err = svc.Create(ctx, CreateAcademicYearInput{SchoolID: school.ID, Label: "2025/2026"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateAcademicYearInput{SchoolID: school.ID, Label: "2025/2026"})
	require.ErrorIs(t, err, ErrYearLabelTaken)
}

func TestAcademicYearServiceRejectsInvertedDates(t *testing.T) {
	env := newServiceTestEnv(t)
	school := createTestSchool(t, env.db, "bad-dates")

	svc, err := NewAcademicYearService(env.db, env.facade, env.invalidator)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateAcademicYearInput{
		SchoolID: school.ID,
		Label:    "2025/2026",
		StartsOn: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		EndsOn:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.Error(t, err)
}
