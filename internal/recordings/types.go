package recordings

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// RecordingID addresses a single recording. The API accepts numeric IDs; the
// client treats them as opaque text.
type RecordingID string

// IntID converts a numeric recording ID.
func IntID(n int64) RecordingID {
	return RecordingID(strconv.FormatInt(n, 10))
}

// Summary is the subset of a recording row shown by the CLI. Rows stay opaque
// to Query; Summary only reads the fields it knows about.
type Summary struct {
	ID                int64   `json:"id"`
	Type              string  `json:"type"`
	RecordingDateTime string  `json:"recordingDateTime"`
	Duration          float64 `json:"duration"`
	DeviceID          int64   `json:"DeviceId"`
	ProcessingState   string  `json:"processingState"`
	Device            struct {
		Name string `json:"devicename"`
	} `json:"Device"`
}

// ParseSummary decodes the display fields of a query row.
func ParseSummary(row json.RawMessage) (Summary, error) {
	var s Summary
	if err := json.Unmarshal(row, &s); err != nil {
		return Summary{}, fmt.Errorf("decode row: %w", err)
	}
	return s, nil
}

// RecordedAt returns the parsed recordingDateTime, or the zero time.
func (s Summary) RecordedAt() time.Time {
	return parseTime(s.RecordingDateTime)
}

// Length returns the recording duration.
func (s Summary) Length() time.Duration {
	return time.Duration(s.Duration * float64(time.Second))
}

// DeviceLabel prefers the device name and falls back to its ID.
func (s Summary) DeviceLabel() string {
	if s.Device.Name != "" {
		return s.Device.Name
	}
	if s.DeviceID > 0 {
		return "#" + strconv.FormatInt(s.DeviceID, 10)
	}
	return ""
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
