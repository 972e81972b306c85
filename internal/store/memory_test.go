package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/global-analytics-dashboard/internal/analytics"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestInstallations(t *testing.T) {
	s := NewMemoryStore(0, 0)

	_, err := s.InstallationByToken("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	s.SaveInstallation(analytics.Installation{AccessToken: "tok", UID: "uid"})

	inst, err := s.InstallationByToken("tok")
	require.NoError(t, err)
	assert.Equal(t, "uid", inst.UID)

	inst, err = s.InstallationByUID("uid")
	require.NoError(t, err)
	assert.Equal(t, "tok", inst.AccessToken)
}

func TestSaveReportReplacesSameDay(t *testing.T) {
	s := NewMemoryStore(0, 0)

	s.SaveReport(analytics.Report{AccessToken: "a", Date: day("2024-03-02"), CoursesAmount: 1})
	s.SaveReport(analytics.Report{AccessToken: "a", Date: day("2024-03-01"), CoursesAmount: 2})
	s.SaveReport(analytics.Report{AccessToken: "a", Date: day("2024-03-02").Add(5 * time.Hour), CoursesAmount: 3})

	reports := s.Reports()
	require.Len(t, reports, 2)
	assert.Equal(t, day("2024-03-01"), reports[0].Date)
	assert.EqualValues(t, 3, reports[1].CoursesAmount)

	r, err := s.GetReport("a", day("2024-03-02"))
	require.NoError(t, err)
	assert.EqualValues(t, 3, r.CoursesAmount)

	_, err = s.GetReport("a", day("2024-03-05"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRetentionByCount(t *testing.T) {
	s := NewMemoryStore(2, 0)
	for _, d := range []string{"2024-01-01", "2024-01-02", "2024-01-03"} {
		s.SaveReport(analytics.Report{AccessToken: "a", Date: day(d)})
	}

	reports := s.Reports()
	require.Len(t, reports, 2)
	assert.Equal(t, day("2024-01-02"), reports[0].Date)
}

func TestRetentionByAge(t *testing.T) {
	s := NewMemoryStore(0, 48*time.Hour)
	s.now = func() time.Time { return day("2024-01-10") }

	s.SaveReport(analytics.Report{AccessToken: "a", Date: day("2024-01-01")})
	s.SaveReport(analytics.Report{AccessToken: "a", Date: day("2024-01-09")})

	reports := s.Reports()
	require.Len(t, reports, 1)
	assert.Equal(t, day("2024-01-09"), reports[0].Date)
}

func TestReportsOrderedAcrossInstallations(t *testing.T) {
	s := NewMemoryStore(0, 0)
	s.SaveReport(analytics.Report{AccessToken: "b", Date: day("2024-01-01")})
	s.SaveReport(analytics.Report{AccessToken: "a", Date: day("2024-01-02")})
	s.SaveReport(analytics.Report{AccessToken: "a", Date: day("2024-01-01")})

	reports := s.Reports()
	require.Len(t, reports, 3)
	assert.Equal(t, "a", reports[0].AccessToken)
	assert.Equal(t, "b", reports[1].AccessToken)
	assert.Equal(t, day("2024-01-02"), reports[2].Date)
}
