package product

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTimestamp_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int64 // epoch millis
	}{
		{"epoch millis", `1614834367890`, 1614834367890},
		{"rfc3339 utc", `"2021-03-04T05:06:07.890Z"`, 1614834367890},
		{"rfc3339 offset", `"2021-03-04T05:06:07+02:00"`, 1614827167000},
		{"no zone iso", `"2021-03-04T05:06:07.890"`, 1614834367890},
		{"sql text", `"2021-03-04 05:06:07.89"`, 1614834367890},
		{"sql text no fraction", `"2021-03-04 05:06:07"`, 1614834367000},
		{"zero", `0`, 0},
		{"quoted epoch millis", `"1614834367890"`, 1614834367890},
		{"quoted negative millis", `"-1000"`, -1000},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var ts Timestamp
			if err := json.Unmarshal([]byte(tc.input), &ts); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := ts.UnixMilli(); got != tc.want {
				t.Errorf("UnixMilli() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestTimestamp_UnmarshalJSON_Invalid(t *testing.T) {
	for _, input := range []string{`true`, `1.5`, `"03/04/2021"`, `{}`, `"-"`, `"99999999999999999999"`} {
		var ts Timestamp
		if err := json.Unmarshal([]byte(input), &ts); err == nil {
			t.Errorf("expected error for %s, got %v", input, ts.Time)
		}
	}
}

func TestTimestamp_NullLeavesPointerNil(t *testing.T) {
	var w struct {
		At *Timestamp `json:"at"`
	}
	if err := json.Unmarshal([]byte(`{"at":null}`), &w); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.At != nil {
		t.Errorf("expected nil, got %v", w.At)
	}
}

func TestParseTimestamp_NoZoneIsUTC(t *testing.T) {
	ts, err := ParseTimestamp("2021-03-04 05:06:07")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ts.Location() != time.UTC {
		t.Errorf("location = %v, want UTC", ts.Location())
	}
}
