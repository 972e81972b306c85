package analytics

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var validate = validator.New()

// Service registers installations, ingests their statistics and derives
// the dashboard data from the stored reports.
type Service struct {
	store    Store
	geocoder Geocoder
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates a new Service. geocoder may be nil.
func NewService(store Store, geocoder Geocoder, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:    store,
		geocoder: geocoder,
		logger:   logger,
		now:      time.Now,
	}
}

// SetClock replaces the time source.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// RegisterInstallation returns the access token for the client at ip,
// creating an installation on first contact.
func (s *Service) RegisterInstallation(ip string) (token string, created bool) {
	sum := md5.Sum([]byte(ip))
	uid := hex.EncodeToString(sum[:])

	if inst, err := s.store.InstallationByUID(uid); err == nil {
		s.logger.Debug("returning existing access token", zap.String("uid", uid))
		return inst.AccessToken, false
	}

	token = strings.ReplaceAll(uuid.NewString(), "-", "")
	s.store.SaveInstallation(Installation{AccessToken: token, UID: uid})
	s.logger.Info("registered installation", zap.String("uid", uid), zap.String("token", token))
	return token, true
}

// Authorize reports whether token belongs to a registered installation.
func (s *Service) Authorize(token string) bool {
	_, err := s.store.InstallationByToken(token)
	if err != nil {
		s.logger.Debug("installation was not authorized", zap.String("token", token))
		return false
	}
	return true
}

// dayStats is what one submission says about one day. Only today's entry
// carries activity counts; earlier days only carry the per-date counters.
type dayStats struct {
	report   Report
	activity bool
}

// ReceiveStatistics validates and stores one installation submission.
func (s *Service) ReceiveStatistics(ctx context.Context, in ReportInput) error {
	if err := validate.Struct(in); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidReport, err)
	}

	inst, err := s.store.InstallationByToken(in.AccessToken)
	if err != nil {
		return ErrUnauthorized
	}

	today := TruncateDay(s.now())
	todayReport := Report{
		AccessToken:         inst.AccessToken,
		Date:                today,
		ActiveStudentsDay:   in.ActiveStudentsAmountDay,
		ActiveStudentsWeek:  in.ActiveStudentsAmountWeek,
		ActiveStudentsMonth: in.ActiveStudentsAmountMonth,
		CoursesAmount:       in.CoursesAmount,
		StatisticsLevel:     in.StatisticsLevel,
		Active:              true,
	}

	days, err := statsByDates(in, inst.AccessToken)
	if err != nil {
		return err
	}

	if in.StatisticsLevel == LevelEnthusiast {
		perCountry, err := studentsPerCountry(in.StudentsPerCountry, in.ActiveStudentsAmountDay)
		if err != nil {
			return err
		}
		todayReport.StudentsPerCountry = perCountry
		inst = s.extendInstallation(ctx, inst, in)
		s.store.SaveInstallation(inst)
	}
	if prev, ok := days[today]; ok {
		todayReport.RegisteredStudents = prev.report.RegisteredStudents
		todayReport.EnthusiasticStudents = prev.report.EnthusiasticStudents
		todayReport.GeneratedCertificates = prev.report.GeneratedCertificates
	}
	days[today] = dayStats{report: todayReport, activity: true}

	for day, stats := range days {
		s.saveDay(inst.AccessToken, day, stats)
	}

	s.logger.Info("received installation statistics",
		zap.String("token", inst.AccessToken),
		zap.String("level", string(in.StatisticsLevel)),
		zap.Int("days", len(days)))
	return nil
}

// saveDay creates the day's report or merges into an existing one: the
// per-date counters accumulate, activity counts are overwritten.
func (s *Service) saveDay(token string, day time.Time, stats dayStats) {
	prev, err := s.store.GetReport(token, day)
	if err != nil {
		s.store.SaveReport(stats.report)
		s.logger.Debug("report created", zap.String("token", token), zap.Time("date", day))
		return
	}

	prev.RegisteredStudents += stats.report.RegisteredStudents
	prev.EnthusiasticStudents += stats.report.EnthusiasticStudents
	prev.GeneratedCertificates += stats.report.GeneratedCertificates
	prev.StatisticsLevel = stats.report.StatisticsLevel
	if stats.activity {
		prev.ActiveStudentsDay = stats.report.ActiveStudentsDay
		prev.ActiveStudentsWeek = stats.report.ActiveStudentsWeek
		prev.ActiveStudentsMonth = stats.report.ActiveStudentsMonth
		prev.CoursesAmount = stats.report.CoursesAmount
		prev.StudentsPerCountry = stats.report.StudentsPerCountry
		prev.Active = true
	}
	s.store.SaveReport(prev)
	s.logger.Debug("report updated", zap.String("token", token), zap.Time("date", day))
}

// extendInstallation records the enthusiast-level platform details.
func (s *Service) extendInstallation(ctx context.Context, inst Installation, in ReportInput) Installation {
	inst.PlatformName = in.PlatformName
	inst.PlatformURL = in.PlatformURL

	if in.Latitude != "" && in.Longitude != "" {
		lat, latErr := strconv.ParseFloat(in.Latitude, 64)
		lon, lonErr := strconv.ParseFloat(in.Longitude, 64)
		if latErr == nil && lonErr == nil {
			inst.Latitude, inst.Longitude = &lat, &lon
		}
		return inst
	}

	if in.PlatformCityName == "" || s.geocoder == nil {
		return inst
	}
	coords, err := s.geocoder.Locate(ctx, in.PlatformCityName)
	if err != nil {
		s.logger.Warn("could not geocode platform city",
			zap.String("city", in.PlatformCityName),
			zap.Error(err))
		return inst
	}
	inst.Latitude, inst.Longitude = &coords.Lat, &coords.Lon
	return inst
}

// studentsPerCountry decodes the per-country JSON and adds the students
// without a country under NoCountryKey, dropping that key when it is zero.
func studentsPerCountry(raw string, activeStudents int64) (map[string]int64, error) {
	perCountry := map[string]int64{}
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &perCountry); err != nil {
			return nil, fmt.Errorf("%w: students_per_country: %v", ErrInvalidReport, err)
		}
	}

	var withCountry int64
	for code, n := range perCountry {
		if code != NoCountryKey {
			withCountry += n
		}
	}
	// Students without a country cannot be negative; a report whose
	// per-country sum exceeds its active students simply has none.
	if rest := activeStudents - withCountry; rest > 0 {
		perCountry[NoCountryKey] = rest
	} else {
		delete(perCountry, NoCountryKey)
	}
	return perCountry, nil
}

// statsByDates collects the per-date counters of a submission.
func statsByDates(in ReportInput, token string) (map[time.Time]dayStats, error) {
	registered, err := decodeDateCounts("registered_students", in.RegisteredStudents)
	if err != nil {
		return nil, err
	}
	enthusiastic, err := decodeDateCounts("enthusiastic_students", in.EnthusiasticStudents)
	if err != nil {
		return nil, err
	}
	certificates, err := decodeDateCounts("generated_certificates", in.GeneratedCertificates)
	if err != nil {
		return nil, err
	}

	days := make(map[time.Time]dayStats)
	add := func(counts map[time.Time]int64, apply func(r *Report, n int64)) {
		for day, n := range counts {
			d, ok := days[day]
			if !ok {
				d.report = Report{AccessToken: token, Date: day, StatisticsLevel: in.StatisticsLevel}
			}
			apply(&d.report, n)
			days[day] = d
		}
	}
	add(registered, func(r *Report, n int64) { r.RegisteredStudents += n })
	add(enthusiastic, func(r *Report, n int64) { r.EnthusiasticStudents += n })
	add(certificates, func(r *Report, n int64) { r.GeneratedCertificates += n })
	return days, nil
}

func decodeDateCounts(field, raw string) (map[time.Time]int64, error) {
	out := make(map[time.Time]int64)
	if raw == "" {
		return out, nil
	}
	var byDate map[string]int64
	if err := json.Unmarshal([]byte(raw), &byDate); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidReport, field, err)
	}
	for s, n := range byDate {
		day, err := time.Parse(dayLayout, s)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidReport, field, err)
		}
		out[day] += n
	}
	return out, nil
}

// Snapshots builds one snapshot per month with stored reports.
func (s *Service) Snapshots() []Snapshot {
	return BuildSnapshots(s.store.Reports())
}

// Timeline builds the daily and monthly chart series.
func (s *Service) Timeline() Timeline {
	return BuildTimeline(s.store.Reports())
}

// OverallCounts totals the previous calendar day.
func (s *Service) OverallCounts() OverallCounts {
	start := TruncateDay(s.now()).AddDate(0, 0, -1)
	return CountDay(s.store.Reports(), start)
}

// UpdateScope returns the first and last dates statistics were gathered
// for. Both are now when nothing has been reported.
func (s *Service) UpdateScope() (first, last time.Time) {
	reports := s.store.Reports()
	if len(reports) == 0 {
		now := s.now().UTC()
		return now, now
	}
	first, last = reports[0].Date, reports[0].Date
	for _, r := range reports[1:] {
		if r.Date.Before(first) {
			first = r.Date
		}
		if r.Date.After(last) {
			last = r.Date
		}
	}
	return first, last
}
