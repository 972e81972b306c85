package analytics

import (
	"sort"
	"time"
)

const dayLayout = "2006-01-02"

// BuildTimeline sums reports per day and per month. Instances counts the
// installations that reported on a day.
func BuildTimeline(reports []Report) Timeline {
	type dayTotals struct {
		instances, courses, students int64
	}
	type monthTotals struct {
		registered, certificates, enthusiastic int64
	}

	days := make(map[string]*dayTotals)
	months := make(map[string]*monthTotals)

	for _, r := range reports {
		dk := r.Date.UTC().Format(dayLayout)
		d, ok := days[dk]
		if !ok {
			d = &dayTotals{}
			days[dk] = d
		}
		d.instances++
		d.courses += r.CoursesAmount
		d.students += r.ActiveStudentsDay

		mk := MonthKey(r.Date)
		m, ok := months[mk]
		if !ok {
			m = &monthTotals{}
			months[mk] = m
		}
		m.registered += r.RegisteredStudents
		m.certificates += r.GeneratedCertificates
		m.enthusiastic += r.EnthusiasticStudents
	}

	tl := Timeline{
		Dates:                 sortedKeys(days),
		Months:                sortedKeys(months),
		Instances:             []int64{},
		Courses:               []int64{},
		Students:              []int64{},
		RegisteredStudents:    []int64{},
		GeneratedCertificates: []int64{},
		EnthusiasticStudents:  []int64{},
	}
	for _, k := range tl.Dates {
		d := days[k]
		tl.Instances = append(tl.Instances, d.instances)
		tl.Courses = append(tl.Courses, d.courses)
		tl.Students = append(tl.Students, d.students)
	}
	for _, k := range tl.Months {
		m := months[k]
		tl.RegisteredStudents = append(tl.RegisteredStudents, m.registered)
		tl.GeneratedCertificates = append(tl.GeneratedCertificates, m.certificates)
		tl.EnthusiasticStudents = append(tl.EnthusiasticStudents, m.enthusiastic)
	}
	return tl
}

// CountDay totals the reports dated within [start, start+24h).
func CountDay(reports []Report, start time.Time) OverallCounts {
	end := start.Add(24 * time.Hour)
	var c OverallCounts
	for _, r := range reports {
		if r.Date.Before(start) || !r.Date.Before(end) {
			continue
		}
		c.Instances++
		c.Courses += r.CoursesAmount
		c.Students += r.ActiveStudentsDay
	}
	return c
}

// TruncateDay returns midnight UTC of t's day.
func TruncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
