package ccsessions

import (
	"testing"
	"time"

	"github.com/tidwall/gjson"
)

func TestParseTimestamp(t *testing.T) {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		json   string
		want   time.Time
		wantOK bool
	}{
		{"iso zulu", `"2024-01-01T12:00:00Z"`, base, true},
		{"iso millis", `"2024-01-01T12:00:00.000Z"`, base, true},
		{"iso offset", `"2024-01-01T14:00:00+02:00"`, base, true},
		{"iso naive", `"2024-01-01T12:00:00"`, base, true},
		{"epoch seconds", `1704110400`, base, true},
		{"epoch millis", `1704110400000`, base, true},
		{"epoch string", `"1704110400000"`, base, true},
		{"garbage string", `"yesterday-ish"`, time.Time{}, false},
		{"empty string", `""`, time.Time{}, false},
		{"null", `null`, time.Time{}, false},
		{"object", `{"t":1}`, time.Time{}, false},
		{"negative", `-5`, time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseTimestamp(gjson.Parse(tt.json))
			if ok != tt.wantOK {
				t.Fatalf("ParseTimestamp(%s) ok = %v, want %v", tt.json, ok, tt.wantOK)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("ParseTimestamp(%s) = %v, want %v", tt.json, got, tt.want)
			}
		})
	}
}

func TestParseTimestamp_Absent(t *testing.T) {
	if _, ok := ParseTimestamp(gjson.Get(`{"a":1}`, "timestamp")); ok {
		t.Error("missing field must not produce a timestamp")
	}
}
