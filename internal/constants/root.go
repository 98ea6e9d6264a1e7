package constants

import "time"

// SessionState represents the current state of the TUI application
type SessionState int

// Grade is the coarse sustainability rating derived from the average footprint per record
type Grade string

// Badge is an achievement tag derived from aggregate history statistics
type Badge string

const (
	AppName             = "droplet"
	DefaultKeyringUser  = "database-connection"
	IdentityKeyringUser = "identity"
	DefaultConfigDir    = "~/.config/droplet"
	DefaultLocalPath    = "~/.config/droplet/droplet.db"
	Version             = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// MonthFormat is the format used to address a calendar month (YYYY-MM)
	MonthFormat = "2006-01"

	// TimestampFormat is the format records are stamped with
	TimestampFormat = time.RFC3339

	// LitersUnit is the unit all aggregation assumes
	LitersUnit = "L"

	// Grades
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"

	// Grade thresholds on the average liters per record. Both bounds are strict:
	// an average equal to a threshold falls to the lower grade.
	GradeBThreshold = 1000.0
	GradeCThreshold = 3000.0

	// Badges
	BadgeNovice     Badge = "Novice"
	BadgeTrackerPro Badge = "Tracker Pro"
	BadgeWaterSaver Badge = "Water Saver"
	BadgeBigImpact  Badge = "Big Impact"

	// Badge thresholds
	NoviceMinRecords     = 1
	TrackerProMinRecords = 5
	WaterSaverMinRecords = 3
	BigImpactMinLiters   = 10000.0

	// Baseline estimate record
	BaselineItemName     = "Daily Baseline Estimate"
	BaselineCategory     = "baseline"
	DefaultComputeDelay  = 1500 * time.Millisecond
	ChartWindowDays      = 7
	DefaultTopConsumers  = 3
	DefaultRemoteTimeout = 5 * time.Second
	DefaultServerAddr    = ":8080"
)

// Session States
const (
	StateHistory SessionState = iota
	StateStats
	StateWizard
	StateComputing
	StateConfirmDelete
)
