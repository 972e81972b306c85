package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/global-analytics-dashboard/internal/choropleth"
)

var march = time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

func TestBuildSnapshot(t *testing.T) {
	snap := BuildSnapshot(march, map[string]int64{"CA": 66, "US": 33, NoCountryKey: 1})

	assert.Equal(t, "2024-03", snap.Key)
	assert.Equal(t, "Mar 2024", snap.Label)
	assert.EqualValues(t, 100, snap.StudentsAmount)
	assert.Equal(t, 2, snap.CountriesAmount)
	assert.Equal(t, "Canada", snap.TopCountry)

	require.Len(t, snap.TabularCountries, 3)
	assert.Equal(t, TabularRow{Country: "Canada", Students: 66, Percentage: "66.00"}, snap.TabularCountries[0])
	assert.Equal(t, UnsetCountry, snap.TabularCountries[2].Country)
	assert.Equal(t, "1.00", snap.TabularCountries[2].Percentage)

	assert.Equal(t, []choropleth.RegionStat{{Code: "CA", Value: 66}, {Code: "US", Value: 33}}, snap.DatamapCountries)
}

func TestBuildSnapshotEmpty(t *testing.T) {
	snap := BuildSnapshot(march, nil)

	assert.Empty(t, snap.TopCountry)
	assert.Zero(t, snap.CountriesAmount)
	assert.Empty(t, snap.DatamapCountries)
	assert.Equal(t, []TabularRow{{Country: UnsetCountry, Students: 0, Percentage: "0"}}, snap.TabularCountries)
}

func TestBuildSnapshotUnsetCanBeTop(t *testing.T) {
	snap := BuildSnapshot(march, map[string]int64{NoCountryKey: 10, "FR": 3})
	assert.Equal(t, UnsetCountry, snap.TopCountry)
	assert.Equal(t, 1, snap.CountriesAmount)
}

func TestStudentAmountPercentage(t *testing.T) {
	assert.Equal(t, "~0", studentAmountPercentage(1, 1000000))
	assert.Equal(t, "33.33", studentAmountPercentage(1, 3))
	assert.Equal(t, "100.00", studentAmountPercentage(5, 5))
}

func TestBuildSnapshotsLatestReportPerInstallation(t *testing.T) {
	reports := []Report{
		{AccessToken: "a", Date: march, Active: true, StudentsPerCountry: map[string]int64{"FR": 5}},
		{AccessToken: "a", Date: march.AddDate(0, 0, 3), Active: true, StudentsPerCountry: map[string]int64{"FR": 8}},
		{AccessToken: "b", Date: march.AddDate(0, 0, 1), Active: true, StudentsPerCountry: map[string]int64{"FR": 2, "GR": 4}},
		{AccessToken: "a", Date: march.AddDate(0, 1, 0), Active: true, StudentsPerCountry: map[string]int64{"UA": 1}},
	}

	snaps := BuildSnapshots(reports)
	require.Len(t, snaps, 2)
	assert.Equal(t, "2024-03", snaps[0].Key)
	assert.Equal(t, "2024-04", snaps[1].Key)

	assert.Equal(t, []choropleth.RegionStat{{Code: "FR", Value: 10}, {Code: "GR", Value: 4}}, snaps[0].DatamapCountries)
	assert.Equal(t, "Ukraine", snaps[1].TopCountry)
}

func TestBuildSnapshotsIgnoresCounterOnlyDays(t *testing.T) {
	reports := []Report{
		{AccessToken: "a", Date: march.AddDate(0, 0, 29), Active: true, StudentsPerCountry: map[string]int64{"FR": 10}},
		// registered students reported later for the last day of the month
		{AccessToken: "a", Date: march.AddDate(0, 0, 30), RegisteredStudents: 5},
		{AccessToken: "b", Date: march.AddDate(0, 1, 2), RegisteredStudents: 1},
	}

	snaps := BuildSnapshots(reports)
	require.Len(t, snaps, 2)
	assert.Equal(t, []choropleth.RegionStat{{Code: "FR", Value: 10}}, snaps[0].DatamapCountries)
	assert.Equal(t, "France", snaps[0].TopCountry)

	assert.Equal(t, "2024-04", snaps[1].Key)
	assert.Empty(t, snaps[1].DatamapCountries)
}

func TestBuildSnapshotMergesCodeSpellings(t *testing.T) {
	snap := BuildSnapshot(march, map[string]int64{"fr": 3, "FR": 5, "UK": 4, NoCountryKey: 2})

	assert.Equal(t, []choropleth.RegionStat{{Code: "FR", Value: 8}}, snap.DatamapCountries)
	assert.Equal(t, 2, snap.CountriesAmount)
	assert.Equal(t, []TabularRow{
		{Country: "France", Students: 8, Percentage: "57.14"},
		{Country: "UK", Students: 4, Percentage: "28.57"},
		{Country: UnsetCountry, Students: 2, Percentage: "14.29"},
	}, snap.TabularCountries)
}

func TestBuildTimeline(t *testing.T) {
	reports := []Report{
		{AccessToken: "a", Date: march, ActiveStudentsDay: 10, CoursesAmount: 2, RegisteredStudents: 1},
		{AccessToken: "b", Date: march, ActiveStudentsDay: 5, CoursesAmount: 1, GeneratedCertificates: 4},
		{AccessToken: "a", Date: march.AddDate(0, 0, 1), ActiveStudentsDay: 7, CoursesAmount: 2},
		{AccessToken: "a", Date: march.AddDate(0, 1, 0), EnthusiasticStudents: 3},
	}

	tl := BuildTimeline(reports)
	assert.Equal(t, []string{"2024-03-01", "2024-03-02", "2024-04-01"}, tl.Dates)
	assert.Equal(t, []int64{2, 1, 1}, tl.Instances)
	assert.Equal(t, []int64{3, 2, 0}, tl.Courses)
	assert.Equal(t, []int64{15, 7, 0}, tl.Students)

	assert.Equal(t, []string{"2024-03", "2024-04"}, tl.Months)
	assert.Equal(t, []int64{1, 0}, tl.RegisteredStudents)
	assert.Equal(t, []int64{4, 0}, tl.GeneratedCertificates)
	assert.Equal(t, []int64{0, 3}, tl.EnthusiasticStudents)
}

func TestCountDay(t *testing.T) {
	reports := []Report{
		{Date: march, ActiveStudentsDay: 10, CoursesAmount: 2},
		{Date: march, ActiveStudentsDay: 1, CoursesAmount: 1},
		{Date: march.AddDate(0, 0, 1), ActiveStudentsDay: 100},
	}
	assert.Equal(t, OverallCounts{Instances: 2, Courses: 3, Students: 11}, CountDay(reports, march))
}

func TestCountryLookup(t *testing.T) {
	name, ok := CountryName("fr")
	require.True(t, ok)
	assert.Equal(t, "France", name)

	_, ok = CountryName("ZZ")
	assert.False(t, ok)

	code, ok := CountryCode(" gb")
	require.True(t, ok)
	assert.Equal(t, "GB", code)

	for _, bad := range []string{"UK", "FRA", "France"} {
		_, ok = CountryCode(bad)
		assert.False(t, ok, bad)
	}

	_, ok = CountryName(NoCountryKey)
	assert.False(t, ok)
}
