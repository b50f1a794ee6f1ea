package shield

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"math"
	"strconv"
	"time"

	"github.com/aussiebroadwan/gate/internal/gate/domain"
)

const (
	// MaxDegradedRecords caps list results for any tier above clear.
	MaxDegradedRecords = 5

	// WatermarkField marks a record as degraded output.
	WatermarkField = "_shield_id"

	// RedactedMarker replaces sensitive URLs at high tier.
	RedactedMarker = "[REDACTED]"

	roundingUnit   = 100000
	roundingFloor  = 1000
	watermarkChars = 8
)

// Fields holding prices and yields.
var sensitiveNumericFields = []string{
	"price",
	"price_aed",
	"final_price_from",
	"gross_rental_yield",
	"net_rental_yield",
}

var sensitiveURLFields = []string{
	"developer_website",
	"brochure_url",
}

// Degrade returns data transformed for the assessment's tier. A clear
// assessment returns data as is. Records are map[string]any; a list of
// records is truncated to MaxDegradedRecords and each element degraded.
// Anything else passes through. The input is never modified.
func Degrade(data any, a domain.ThreatAssessment) any {
	if a.Tier == domain.TierClear {
		return data
	}

	switch v := data.(type) {
	case map[string]any:
		return degradeRecord(v, a.Tier)
	case []map[string]any:
		out := make([]map[string]any, 0, min(len(v), MaxDegradedRecords))
		for _, rec := range v[:min(len(v), MaxDegradedRecords)] {
			out = append(out, degradeRecord(rec, a.Tier))
		}
		return out
	case []any:
		out := make([]any, 0, min(len(v), MaxDegradedRecords))
		for _, item := range v[:min(len(v), MaxDegradedRecords)] {
			if rec, ok := item.(map[string]any); ok {
				out = append(out, degradeRecord(rec, a.Tier))
				continue
			}
			out = append(out, item)
		}
		return out
	default:
		return data
	}
}

func degradeRecord(rec map[string]any, tier domain.Tier) map[string]any {
	if rec == nil {
		return nil
	}

	out := make(map[string]any, len(rec)+1)

	switch tier {
	case domain.TierCritical:
		for k, v := range rec {
			if isNumeric(v) {
				out[k] = 0
			} else {
				out[k] = ""
			}
		}

	case domain.TierHigh:
		for k, v := range rec {
			out[k] = v
		}
		for _, k := range sensitiveNumericFields {
			if _, ok := out[k]; ok {
				out[k] = 0
			}
		}
		for _, k := range sensitiveURLFields {
			if _, ok := out[k]; ok {
				out[k] = RedactedMarker
			}
		}

	case domain.TierElevated:
		for k, v := range rec {
			out[k] = v
		}
		for _, k := range sensitiveNumericFields {
			if v, ok := out[k]; ok {
				out[k] = roundLarge(v)
			}
		}
	}

	out[WatermarkField] = watermark()
	return out
}

func watermark() string {
	var seed [24]byte
	_, _ = rand.Read(seed[:16])
	binary.BigEndian.PutUint64(seed[16:], uint64(time.Now().UnixNano()))

	sum := sha256.Sum256(seed[:])
	return hex.EncodeToString(sum[:])[:watermarkChars]
}

func isNumeric(v any) bool {
	switch n := v.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	case json.Number:
		_, err := n.Float64()
		return err == nil
	default:
		return false
	}
}

type number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

func roundTo[T number](n T) T {
	f := float64(n)
	if f <= roundingFloor {
		return n
	}
	return T(math.RoundToEven(f/roundingUnit) * roundingUnit)
}

// roundLarge rounds values above the floor to the nearest unit, keeping
// the value's type. Non-numeric values are returned untouched.
func roundLarge(v any) any {
	switch n := v.(type) {
	case int:
		return roundTo(n)
	case int8:
		return roundTo(n)
	case int16:
		return roundTo(n)
	case int32:
		return roundTo(n)
	case int64:
		return roundTo(n)
	case uint:
		return roundTo(n)
	case uint8:
		return roundTo(n)
	case uint16:
		return roundTo(n)
	case uint32:
		return roundTo(n)
	case uint64:
		return roundTo(n)
	case float32:
		return roundTo(n)
	case float64:
		return roundTo(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return json.Number(strconv.FormatInt(roundTo(i), 10))
		}
		if f, err := n.Float64(); err == nil {
			return json.Number(strconv.FormatFloat(roundTo(f), 'f', -1, 64))
		}
		return v
	default:
		return v
	}
}
