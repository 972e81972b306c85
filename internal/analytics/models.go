package analytics

import (
	"time"

	"github.com/i474232898/global-analytics-dashboard/internal/choropleth"
)

// StatisticsLevel is how much an installation agreed to share.
type StatisticsLevel string

const (
	LevelParanoid   StatisticsLevel = "paranoid"
	LevelEnthusiast StatisticsLevel = "enthusiast"
)

// NoCountryKey is the students-per-country key for students without a country.
const NoCountryKey = "null"

// UnsetCountry labels the tabular row for students without a country.
const UnsetCountry = "Unset"

// Installation is a registered reporting platform.
type Installation struct {
	AccessToken  string   `json:"accessToken"`
	UID          string   `json:"uid"`
	PlatformName string   `json:"platformName,omitempty"`
	PlatformURL  string   `json:"platformUrl,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
}

// Report is one installation's statistics for one calendar day.
// Date is always midnight UTC.
type Report struct {
	AccessToken string    `json:"-"`
	Date        time.Time `json:"date"`

	ActiveStudentsDay   int64           `json:"activeStudentsDay"`
	ActiveStudentsWeek  int64           `json:"activeStudentsWeek"`
	ActiveStudentsMonth int64           `json:"activeStudentsMonth"`
	CoursesAmount       int64           `json:"coursesAmount"`
	StatisticsLevel     StatisticsLevel `json:"statisticsLevel"`

	// StudentsPerCountry is keyed by ISO alpha-2 code; NoCountryKey holds the rest.
	StudentsPerCountry map[string]int64 `json:"studentsPerCountry,omitempty"`

	RegisteredStudents    int64 `json:"registeredStudents"`
	EnthusiasticStudents  int64 `json:"enthusiasticStudents"`
	GeneratedCertificates int64 `json:"generatedCertificates"`

	// Active is set once the installation submitted activity for this day.
	// Days only mentioned by the per-date counters stay inactive.
	Active bool `json:"active"`
}

// ReportInput is the form an installation posts with its daily statistics.
// The per-country and per-date fields arrive as JSON-encoded strings.
type ReportInput struct {
	AccessToken string `form:"access_token" validate:"required,len=32,hexadecimal"`

	ActiveStudentsAmountDay   int64           `form:"active_students_amount_day" validate:"gte=0"`
	ActiveStudentsAmountWeek  int64           `form:"active_students_amount_week" validate:"gte=0"`
	ActiveStudentsAmountMonth int64           `form:"active_students_amount_month" validate:"gte=0"`
	CoursesAmount             int64           `form:"courses_amount" validate:"gte=0"`
	StatisticsLevel           StatisticsLevel `form:"statistics_level" validate:"required,oneof=paranoid enthusiast"`

	StudentsPerCountry string `form:"students_per_country" validate:"required_if=StatisticsLevel enthusiast"`
	Latitude           string `form:"latitude" validate:"omitempty,latitude"`
	Longitude          string `form:"longitude" validate:"omitempty,longitude"`
	PlatformName       string `form:"platform_name"`
	PlatformCityName   string `form:"platform_city_name"`
	PlatformURL        string `form:"platform_url" validate:"omitempty,url"`

	RegisteredStudents    string `form:"registered_students"`
	EnthusiasticStudents  string `form:"enthusiastic_students"`
	GeneratedCertificates string `form:"generated_certificates"`
}

// TabularRow is one line of the per-country table.
type TabularRow struct {
	Country    string `json:"country"`
	Students   int64  `json:"students"`
	Percentage string `json:"percentage"`
}

// Snapshot is one month of per-country statistics.
type Snapshot struct {
	Key              string                  `json:"key"`
	Label            string                  `json:"label"`
	TopCountry       string                  `json:"topCountry"`
	CountriesAmount  int                     `json:"countriesAmount"`
	StudentsAmount   int64                   `json:"studentsAmount"`
	DatamapCountries []choropleth.RegionStat `json:"datamapCountries"`
	TabularCountries []TabularRow            `json:"tabularCountries"`
}

// Timeline holds the parallel series plotted by the activity and monthly charts.
type Timeline struct {
	Dates     []string `json:"dates"`
	Instances []int64  `json:"instances"`
	Courses   []int64  `json:"courses"`
	Students  []int64  `json:"students"`

	Months                []string `json:"months"`
	RegisteredStudents    []int64  `json:"registeredStudents"`
	GeneratedCertificates []int64  `json:"generatedCertificates"`
	EnthusiasticStudents  []int64  `json:"enthusiasticStudents"`
}

// OverallCounts totals the previous calendar day.
type OverallCounts struct {
	Instances int64 `json:"instancesCount"`
	Courses   int64 `json:"coursesCount"`
	Students  int64 `json:"studentsCount"`
}
