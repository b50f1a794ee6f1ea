package domain

import "time"

// Tier is a session's threat classification. Tiers are ordered, so
// comparisons such as t >= TierHigh are meaningful.
type Tier int

const (
	TierClear Tier = iota
	TierElevated
	TierHigh
	TierCritical
)

func (t Tier) String() string {
	switch t {
	case TierElevated:
		return "elevated"
	case TierHigh:
		return "high"
	case TierCritical:
		return "critical"
	default:
		return "clear"
	}
}

func (t Tier) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

type DegradationMode string

const (
	DegradeNone     DegradationMode = "NONE"
	DegradeRounded  DegradationMode = "ROUNDED"
	DegradeZeroed   DegradationMode = "ZEROED"
	DegradeBlackout DegradationMode = "BLACKOUT"
)

const (
	FlagRapidFire     = "RAPID_FIRE_REQUEST"
	FlagExportAttempt = "EXPORT_ATTEMPT"
)

// RequestSignature is what the shield sees of one inbound request.
type RequestSignature struct {
	SessionID   string
	Timestamp   time.Time
	Intent      string
	Args        map[string]any
	OriginHash  string
	ResultCount int
}

type ThreatAssessment struct {
	Tier        Tier            `json:"tier"`
	Score       int             `json:"score"`
	Degradation DegradationMode `json:"degradation"`
	Flags       []string        `json:"flags"`
}
