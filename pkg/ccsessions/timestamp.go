package ccsessions

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// epochMillisThreshold separates epoch seconds from epoch milliseconds.
const epochMillisThreshold = 1e12

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// ParseTimestamp normalizes a transcript timestamp value. ISO-8601 strings,
// epoch seconds and epoch milliseconds (numbers or numeric strings) are
// accepted. Anything else reports false; callers must not substitute the
// current time.
func ParseTimestamp(v gjson.Result) (time.Time, bool) {
	switch v.Type {
	case gjson.Number:
		return fromEpoch(v.Num)
	case gjson.String:
		return ParseTimestampString(v.Str)
	default:
		return time.Time{}, false
	}
}

// ParseTimestampString is ParseTimestamp for a plain string. Zone-less
// values are read as UTC.
func ParseTimestampString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return fromEpoch(f)
	}
	return time.Time{}, false
}

func fromEpoch(v float64) (time.Time, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return time.Time{}, false
	}
	if v > epochMillisThreshold {
		if v == math.Trunc(v) && v < math.MaxInt64/float64(time.Millisecond) {
			return time.UnixMilli(int64(v)).UTC(), true
		}
		v /= 1000
	}
	if v == math.Trunc(v) && v < math.MaxInt64/float64(time.Second) {
		return time.Unix(int64(v), 0).UTC(), true
	}
	nanos := v * float64(time.Second)
	if nanos > math.MaxInt64 {
		return time.Time{}, false
	}
	return time.Unix(0, int64(nanos)).UTC(), true
}
