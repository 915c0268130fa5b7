package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MananiDennis/alumniSystem/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func sampleProfile() *model.AlumniProfile {
	return &model.AlumniProfile{
		FullName:        "Jane Smith",
		GraduationYear:  2015,
		Location:        "Perth",
		Industry:        model.IndustryTechnology,
		LinkedInURL:     "https://linkedin.com/in/janesmith",
		ConfidenceScore: 0.8,
		WorkHistory: []model.WorkExperience{
			{Title: "Engineer", Company: "Acme", StartYear: 2018, IsCurrent: true},
			{Title: "Analyst", Company: "OldCo", StartYear: 2015, EndYear: 2018},
		},
		EducationHistory: []model.EducationRecord{
			{Institution: "Curtin University", Degree: "BSc", GraduationYear: 2015},
		},
		Provenance: []model.DataProvenance{
			{SourceType: model.SourceSearchDerived, SourceURL: "https://linkedin.com/in/janesmith",
				CollectedAt: time.Now().UTC(), Confidence: 0.8},
		},
		LastUpdated: time.Now().UTC(),
	}
}

func TestSQLite_CreateAndGet(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	created, err := st.Create(ctx, sampleProfile())
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := st.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith", got.FullName)
	assert.Equal(t, 2015, got.GraduationYear)
	require.Len(t, got.WorkHistory, 2)
	assert.Equal(t, "Acme", got.WorkHistory[0].Company, "work history most recent first")
	require.NotNil(t, got.CurrentPosition)
	assert.Equal(t, "Acme", got.CurrentPosition.Company)
	require.Len(t, got.Provenance, 1)
}

func TestSQLite_GetMissing(t *testing.T) {
	st := newTestSQLiteStore(t)

	_, err := st.Get(context.Background(), "nope")
	assert.True(t, eris.Is(err, ErrNotFound))
}

func TestSQLite_FindByNameCaseInsensitive(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	_, err := st.Create(ctx, sampleProfile())
	require.NoError(t, err)

	got, err := st.FindByName(ctx, "jane smith")
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith", got.FullName)

	_, err = st.FindByName(ctx, "John Doe")
	assert.True(t, eris.Is(err, ErrNotFound))
}

func TestSQLite_DuplicateNameRejected(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	_, err := st.Create(ctx, sampleProfile())
	require.NoError(t, err)
	_, err = st.Create(ctx, sampleProfile())
	require.Error(t, err)
}

func TestSQLite_ApplyMerge(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	created, err := st.Create(ctx, sampleProfile())
	require.NoError(t, err)

	conf := 0.95
	loc := "Sydney"
	now := time.Now().UTC().Add(time.Hour)
	merged, err := st.ApplyMerge(ctx, created.ID, MergeUpdate{
		Location:        &loc,
		ConfidenceScore: &conf,
		WorkHistory: []model.WorkExperience{
			{Title: "Director", Company: "NewCo", StartYear: 2024, IsCurrent: true},
		},
		Provenance: []model.DataProvenance{
			{SourceType: model.SourceManual, CollectedAt: now, Confidence: 1},
		},
		LastUpdated: now,
	})
	require.NoError(t, err)

	assert.Equal(t, "Sydney", merged.Location)
	assert.Equal(t, 0.95, merged.ConfidenceScore)
	require.Len(t, merged.WorkHistory, 1, "history replaced wholesale")
	assert.Equal(t, "NewCo", merged.WorkHistory[0].Company)
	assert.Len(t, merged.Provenance, 2, "provenance appended")

	// the merge must be durable, not just reflected in the return value
	got, err := st.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sydney", got.Location)
	require.NotNil(t, got.CurrentPosition)
	assert.Equal(t, "NewCo", got.CurrentPosition.Company)
	assert.WithinDuration(t, now, got.LastUpdated, time.Second)
}

func TestSQLite_ApplyMergeUntouchedFieldsSurvive(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	created, err := st.Create(ctx, sampleProfile())
	require.NoError(t, err)

	_, err = st.ApplyMerge(ctx, created.ID, MergeUpdate{LastUpdated: time.Now().UTC()})
	require.NoError(t, err)

	got, err := st.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Perth", got.Location)
	assert.Equal(t, 0.8, got.ConfidenceScore)
	assert.Len(t, got.WorkHistory, 2)
}

func TestSQLite_ApplyMergeMissing(t *testing.T) {
	st := newTestSQLiteStore(t)

	_, err := st.ApplyMerge(context.Background(), "nope", MergeUpdate{LastUpdated: time.Now()})
	assert.True(t, eris.Is(err, ErrNotFound))
}

func TestSQLite_ListAllFilters(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	p1 := sampleProfile()
	_, err := st.Create(ctx, p1)
	require.NoError(t, err)

	p2 := sampleProfile()
	p2.FullName = "John Doe"
	p2.Location = "Sydney"
	p2.Industry = model.IndustryFinance
	p2.ConfidenceScore = 0.4
	p2.GraduationYear = 2010
	p2.LastUpdated = time.Now().UTC().Add(-time.Hour)
	_, err = st.Create(ctx, p2)
	require.NoError(t, err)

	all, err := st.ListAll(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Jane Smith", all[0].FullName, "most recently updated first")

	tech, err := st.ListAll(ctx, Filter{Industry: model.IndustryTechnology})
	require.NoError(t, err)
	require.Len(t, tech, 1)
	assert.Equal(t, "Jane Smith", tech[0].FullName)

	confident, err := st.ListAll(ctx, Filter{MinConfidence: 0.6})
	require.NoError(t, err)
	require.Len(t, confident, 1)

	limited, err := st.ListAll(ctx, Filter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)

	offset, err := st.ListAll(ctx, Filter{Offset: 1})
	require.NoError(t, err)
	require.Len(t, offset, 1, "offset must apply without a limit")
	assert.Equal(t, "John Doe", offset[0].FullName)

	byName, err := st.ListAll(ctx, Filter{Name: "john"})
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "John Doe", byName[0].FullName)

	byLocation, err := st.ListAll(ctx, Filter{Location: "perth"})
	require.NoError(t, err)
	require.Len(t, byLocation, 1)
	assert.Equal(t, "Jane Smith", byLocation[0].FullName)
}

func TestSQLite_Delete(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	created, err := st.Create(ctx, sampleProfile())
	require.NoError(t, err)

	require.NoError(t, st.Delete(ctx, created.ID))
	_, err = st.Get(ctx, created.ID)
	assert.True(t, eris.Is(err, ErrNotFound))
	assert.True(t, eris.Is(st.Delete(ctx, created.ID), ErrNotFound))
}

func TestReplaceWorkHistory(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	created, err := st.Create(ctx, sampleProfile())
	require.NoError(t, err)

	now := time.Now().UTC().Truncate(time.Second)
	wh := []model.WorkExperience{
		{Title: "Director", Company: "Initech", StartYear: 2022, IsCurrent: true},
	}
	require.NoError(t, ReplaceWorkHistory(ctx, st, created.ID, wh, now))

	got, err := st.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, got.WorkHistory, 1)
	assert.Equal(t, "Director", got.WorkHistory[0].Title)
	require.NotNil(t, got.CurrentPosition)
	assert.Equal(t, "Initech", got.CurrentPosition.Company)
	assert.False(t, got.LastUpdated.Before(now))
}
