package ui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/recfetch/internal/state"
)

func TestProgressModel_QuitsWhenSnapshotComplete(t *testing.T) {
	var store state.Store
	store.Register("1")
	m := newProgressModel(&store, Options{})

	next, cmd := m.Update(snapshotMsg(store.Snapshot()))
	pm := next.(progressModel)
	if pm.done || cmd != nil {
		t.Fatalf("model finished with a pending download")
	}

	store.Begin("1", "a.mp4", 4)
	store.Advance("1", 4)
	store.Finish("1", nil)

	next, cmd = pm.Update(snapshotMsg(store.Snapshot()))
	pm = next.(progressModel)
	if !pm.done || cmd == nil {
		t.Fatalf("model did not quit after completion")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("cmd did not produce QuitMsg")
	}

	// Late ticks must not restart polling.
	if _, cmd := pm.Update(tickMsg(time.Now())); cmd != nil {
		t.Fatalf("tick after completion scheduled more work")
	}
}

func TestProgressModel_QuitKeyMarksInterrupted(t *testing.T) {
	for _, msg := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("q")},
		{Type: tea.KeyCtrlC},
		{Type: tea.KeyEsc},
	} {
		var store state.Store
		m := newProgressModel(&store, Options{})
		next, cmd := m.Update(msg)
		if !next.(progressModel).interrupted || cmd == nil {
			t.Fatalf("key %q did not interrupt", msg.String())
		}
	}

	var store state.Store
	m := newProgressModel(&store, Options{})
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	if next.(progressModel).interrupted {
		t.Fatalf("unbound key interrupted the view")
	}
}

func TestProgressModel_ResizeClampsBar(t *testing.T) {
	var store state.Store
	m := newProgressModel(&store, Options{})

	next, _ := m.Update(tea.WindowSizeMsg{Width: 20, Height: 10})
	if w := next.(progressModel).bar.Width; w != minBarWidth {
		t.Fatalf("bar width = %d, want %d", w, minBarWidth)
	}
	next, _ = m.Update(tea.WindowSizeMsg{Width: 500, Height: 10})
	if w := next.(progressModel).bar.Width; w != maxBarWidth {
		t.Fatalf("bar width = %d, want %d", w, maxBarWidth)
	}
}

func TestProgressModel_View(t *testing.T) {
	var store state.Store
	store.Begin("1", "first.mp4", 2048)
	store.Advance("1", 1024)
	store.Begin("2", "", -1)
	store.Advance("2", 10)
	store.Begin("3", "broken.bin", 100)
	store.Finish("3", errors.New("boom"))

	m := newProgressModel(&store, Options{Theme: ThemeByName("Slate")})
	next, _ := m.Update(snapshotMsg(store.Snapshot()))
	view := next.(progressModel).View()

	for _, want := range []string{
		"first.mp4",
		"1.0 KiB / 2.0 KiB",
		"2 ", // unnamed download falls back to its ID
		"10 B",
		"broken.bin",
		"failed",
		"1/3 finished",
		"1 failed",
		"cancel",
	} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
	if lines := strings.Count(view, "\n"); lines != 4 {
		t.Fatalf("view has %d lines, want 4:\n%s", lines, view)
	}
}

func TestRunProgress_ReturnsWhenComplete(t *testing.T) {
	var store state.Store
	store.Begin("1", "done.mp4", 3)
	store.Advance("1", 3)
	store.Finish("1", nil)

	var in, out bytes.Buffer
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := RunProgress(ctx, &store, Options{Tick: 10 * time.Millisecond, Input: &in, Output: &out})
	if err != nil {
		t.Fatalf("RunProgress returned error: %v", err)
	}
	if !strings.Contains(out.String(), "done.mp4") {
		t.Fatalf("output missing download name: %q", out.String())
	}
}

func TestRunProgress_ContextCancel(t *testing.T) {
	var store state.Store
	store.Register("pending")

	var in, out bytes.Buffer
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	err := RunProgress(ctx, &store, Options{Tick: 10 * time.Millisecond, Input: &in, Output: &out})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("RunProgress error = %v, want context.Canceled", err)
	}
}
