package ui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/five82/recfetch/internal/recordings"
)

func TestRenderRows(t *testing.T) {
	rows := []recordings.Summary{
		{ID: 101, Type: "audio", Duration: 65, DeviceID: 7, ProcessingState: "FINISHED"},
		{ID: 102, Type: "thermalRaw", Duration: 3725, ProcessingState: "corrupt"},
	}
	rows[0].Device.Name = "garden-cam"

	var buf bytes.Buffer
	if err := RenderRows(&buf, rows, ThemeByName("Dracula")); err != nil {
		t.Fatalf("RenderRows returned error: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"ID", "Type", "Recorded", "Duration", "Device", "State",
		"101", "audio", "1:05", "garden-cam", "FINISHED",
		"102", "thermalRaw", "1:02:05", "corrupt",
		"2 recording(s)",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderRows_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderRows(&buf, nil, ThemeByName("Slate")); err != nil {
		t.Fatalf("RenderRows returned error: %v", err)
	}
	if !strings.Contains(buf.String(), "No recordings found.") {
		t.Fatalf("output = %q, want empty notice", buf.String())
	}
}

func TestRowCells_FormatsRecordedTime(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	cells := rowCells(recordings.Summary{ID: 1, RecordingDateTime: at.Format(time.RFC3339)})
	if want := at.Local().Format(recordedLayout); cells[2] != want {
		t.Fatalf("recorded cell = %q, want %q", cells[2], want)
	}
	if cells[3] != "" || cells[4] != "" {
		t.Fatalf("cells = %#v, want empty duration and device", cells)
	}
}
