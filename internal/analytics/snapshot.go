package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/i474232898/global-analytics-dashboard/internal/choropleth"
)

const (
	monthKeyLayout   = "2006-01"
	monthLabelLayout = "Jan 2006"
)

// MonthKey returns the snapshot key for the month containing t.
func MonthKey(t time.Time) string {
	return t.UTC().Format(monthKeyLayout)
}

// BuildSnapshot turns a month's students-per-country totals into the map and
// table representations the dashboard renders.
func BuildSnapshot(month time.Time, perCountry map[string]int64) Snapshot {
	snap := Snapshot{
		Key:              MonthKey(month),
		Label:            month.UTC().Format(monthLabelLayout),
		DatamapCountries: []choropleth.RegionStat{},
	}

	perCountry = canonicalCountries(perCountry)
	if len(perCountry) == 0 {
		snap.TabularCountries = []TabularRow{{Country: UnsetCountry, Students: 0, Percentage: "0"}}
		return snap
	}

	var total int64
	for _, n := range perCountry {
		total += n
	}
	snap.StudentsAmount = total

	rows := make([]TabularRow, 0, len(perCountry))
	for code, n := range perCountry {
		pct := studentAmountPercentage(n, total)
		if code == NoCountryKey {
			rows = append(rows, TabularRow{Country: UnsetCountry, Students: n, Percentage: pct})
			continue
		}
		name, ok := CountryName(code)
		if ok {
			snap.DatamapCountries = append(snap.DatamapCountries, choropleth.RegionStat{Code: code, Value: n})
		} else {
			name = code
		}
		snap.CountriesAmount++
		rows = append(rows, TabularRow{Country: name, Students: n, Percentage: pct})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Students != rows[j].Students {
			return rows[i].Students > rows[j].Students
		}
		return rows[i].Country < rows[j].Country
	})
	sort.Slice(snap.DatamapCountries, func(i, j int) bool {
		return snap.DatamapCountries[i].Code < snap.DatamapCountries[j].Code
	})

	snap.TabularCountries = rows
	snap.TopCountry = rows[0].Country
	return snap
}

// canonicalCountries merges the counts of codes that spell the same country
// differently ("fr" and "FR"). Unrecognised codes are kept as sent.
func canonicalCountries(perCountry map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(perCountry))
	for code, n := range perCountry {
		if canonical, ok := CountryCode(code); ok {
			code = canonical
		}
		out[code] += n
	}
	return out
}

// studentAmountPercentage formats count as a share of total with two
// decimals; shares that would print as 0.00 become "~0".
func studentAmountPercentage(count, total int64) string {
	if total == 0 {
		return "~0"
	}
	pct := fmt.Sprintf("%.2f", float64(count)/float64(total)*100)
	if pct == "0.00" {
		return "~0"
	}
	return pct
}

// BuildSnapshots groups reports by month. Within a month every installation
// contributes its latest active report; per-country counts are then summed.
func BuildSnapshots(reports []Report) []Snapshot {
	type monthBucket struct {
		start  time.Time
		latest map[string]Report
	}
	buckets := make(map[string]*monthBucket)

	for _, r := range reports {
		key := MonthKey(r.Date)
		b, ok := buckets[key]
		if !ok {
			d := r.Date.UTC()
			b = &monthBucket{
				start:  time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC),
				latest: make(map[string]Report),
			}
			buckets[key] = b
		}
		if !r.Active {
			continue
		}
		if prev, ok := b.latest[r.AccessToken]; !ok || r.Date.After(prev.Date) {
			b.latest[r.AccessToken] = r
		}
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	snapshots := make([]Snapshot, 0, len(keys))
	for _, k := range keys {
		b := buckets[k]
		perCountry := make(map[string]int64)
		for _, r := range b.latest {
			for code, n := range r.StudentsPerCountry {
				perCountry[code] += n
			}
		}
		snapshots = append(snapshots, BuildSnapshot(b.start, perCountry))
	}
	return snapshots
}
