package store

import (
	"sort"
	"sync"
	"time"

	"github.com/i474232898/global-analytics-dashboard/internal/analytics"
)

// ErrNotFound is returned when no record exists for a token or date.
var ErrNotFound = analytics.ErrNotFound

// ReportHistory holds the date-ordered reports of one installation.
type ReportHistory struct {
	Reports []analytics.Report
}

// MemoryStore is a concurrency-safe in-memory store of installations and
// their daily reports.
type MemoryStore struct {
	mu sync.RWMutex

	installations map[string]analytics.Installation // key: access token
	tokensByUID   map[string]string

	// key: access token
	reports map[string]*ReportHistory

	// retention configuration
	maxHistory int           // max number of reports per installation
	maxAge     time.Duration // optional max age for reports
	now        func() time.Time
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxHistory is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		installations: make(map[string]analytics.Installation),
		tokensByUID:   make(map[string]string),
		reports:       make(map[string]*ReportHistory),
		maxHistory:    maxHistory,
		maxAge:        maxAge,
		now:           time.Now,
	}
}

// SaveInstallation inserts or replaces an installation.
func (s *MemoryStore) SaveInstallation(inst analytics.Installation) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.installations[inst.AccessToken] = inst
	if inst.UID != "" {
		s.tokensByUID[inst.UID] = inst.AccessToken
	}
}

// InstallationByToken returns the installation owning token.
func (s *MemoryStore) InstallationByToken(token string) (analytics.Installation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	inst, ok := s.installations[token]
	if !ok {
		return analytics.Installation{}, ErrNotFound
	}
	return inst, nil
}

// InstallationByUID returns the installation registered for uid.
func (s *MemoryStore) InstallationByUID(uid string) (analytics.Installation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	token, ok := s.tokensByUID[uid]
	if !ok {
		return analytics.Installation{}, ErrNotFound
	}
	return s.installations[token], nil
}

// SaveReport stores a report, replacing any report of the same
// installation and day, and enforces retention.
func (s *MemoryStore) SaveReport(r analytics.Report) {
	r.Date = analytics.TruncateDay(r.Date)

	s.mu.Lock()
	defer s.mu.Unlock()

	history, ok := s.reports[r.AccessToken]
	if !ok {
		history = &ReportHistory{}
		s.reports[r.AccessToken] = history
	}

	i := sort.Search(len(history.Reports), func(i int) bool {
		return !history.Reports[i].Date.Before(r.Date)
	})
	if i < len(history.Reports) && history.Reports[i].Date.Equal(r.Date) {
		history.Reports[i] = r
	} else {
		history.Reports = append(history.Reports, analytics.Report{})
		copy(history.Reports[i+1:], history.Reports[i:])
		history.Reports[i] = r
	}

	// Enforce retention by count.
	if s.maxHistory > 0 && len(history.Reports) > s.maxHistory {
		over := len(history.Reports) - s.maxHistory
		history.Reports = history.Reports[over:]
	}

	// Enforce retention by age.
	if s.maxAge > 0 {
		cutoff := s.now().Add(-s.maxAge)
		i := 0
		for ; i < len(history.Reports); i++ {
			if !history.Reports[i].Date.Before(cutoff) {
				break
			}
		}
		history.Reports = history.Reports[i:]
	}
}

// GetReport returns the report of token for the given day.
func (s *MemoryStore) GetReport(token string, day time.Time) (analytics.Report, error) {
	day = analytics.TruncateDay(day)

	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.reports[token]
	if !ok {
		return analytics.Report{}, ErrNotFound
	}
	for _, r := range history.Reports {
		if r.Date.Equal(day) {
			return r, nil
		}
	}
	return analytics.Report{}, ErrNotFound
}

// Reports returns every stored report ordered by date, then token.
func (s *MemoryStore) Reports() []analytics.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []analytics.Report
	for _, history := range s.reports {
		result = append(result, history.Reports...)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.Before(result[j].Date)
		}
		return result[i].AccessToken < result[j].AccessToken
	})
	return result
}
