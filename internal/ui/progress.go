package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/recfetch/internal/state"
)

// ErrInterrupted is returned by RunProgress when the user cancels the view.
var ErrInterrupted = errors.New("download interrupted")

const (
	defaultTick  = 100 * time.Millisecond
	labelWidth   = 28
	sizeWidth    = 22
	minBarWidth  = 10
	maxBarWidth  = 60
	defaultWidth = 80
)

// Options configures the progress view.
type Options struct {
	Theme Theme
	Tick  time.Duration
	// Output and Input default to the terminal when nil.
	Output io.Writer
	Input  io.Reader
}

type tickMsg time.Time

type snapshotMsg state.Snapshot

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

type progressModel struct {
	store  *state.Store
	styles Styles
	keys   keyMap
	tick   time.Duration
	bar    progress.Model

	snapshot    state.Snapshot
	width       int
	done        bool
	interrupted bool
}

func newProgressModel(store *state.Store, opts Options) progressModel {
	theme := opts.Theme
	if theme.Name == "" {
		theme = draculaTheme()
	}
	tick := opts.Tick
	if tick <= 0 {
		tick = defaultTick
	}
	m := progressModel{
		store:  store,
		styles: theme.Styles(),
		keys:   defaultKeyMap(),
		tick:   tick,
		bar:    progress.New(progress.WithGradient(theme.BarFrom, theme.BarTo), progress.WithoutPercentage()),
	}
	m.resize(defaultWidth)
	return m
}

func (m *progressModel) resize(width int) {
	m.width = width
	bw := width - labelWidth - sizeWidth - 6
	if bw < minBarWidth {
		bw = minBarWidth
	}
	if bw > maxBarWidth {
		bw = maxBarWidth
	}
	m.bar.Width = bw
}

func (m progressModel) Init() tea.Cmd {
	return tea.Batch(fetchSnapshotCmd(m.store), tickCmd(m.tick))
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.interrupted = true
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.resize(msg.Width)
		return m, nil

	case tickMsg:
		if m.done {
			return m, nil
		}
		return m, tea.Batch(fetchSnapshotCmd(m.store), tickCmd(m.tick))

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		if m.snapshot.Complete() {
			m.done = true
			return m, tea.Quit
		}
		return m, nil
	}
	return m, nil
}

func (m progressModel) View() string {
	var b strings.Builder
	for _, d := range m.snapshot.Downloads {
		b.WriteString(m.renderLine(d))
		b.WriteByte('\n')
	}
	b.WriteString(m.renderFooter())
	b.WriteByte('\n')
	return b.String()
}

func (m progressModel) renderLine(d state.Progress) string {
	name := d.Filename
	if name == "" {
		name = d.ID
	}
	label := m.styles.Text.Render(fmt.Sprintf("%-*s", labelWidth, truncate(name, labelWidth)))

	var bar string
	if f := d.Fraction(); f >= 0 {
		bar = m.bar.ViewAs(f)
	} else {
		bar = m.styles.FaintText.Render(strings.Repeat("·", m.bar.Width))
	}

	size := humanBytes(d.Received)
	if d.Total >= 0 {
		size += " / " + humanBytes(d.Total)
	}
	sizeText := m.styles.MutedText.Render(fmt.Sprintf("%-*s", sizeWidth, size))

	status := ""
	switch {
	case d.Done && d.Err != nil:
		status = m.styles.DangerText.Render("failed")
	case d.Done:
		status = m.styles.SuccessText.Render("done")
	}

	return strings.TrimRight(label+" "+bar+" "+sizeText+" "+status, " ")
}

func (m progressModel) renderFooter() string {
	finished := 0
	for _, d := range m.snapshot.Downloads {
		if d.Done {
			finished++
		}
	}
	parts := []string{
		fmt.Sprintf("%d/%d finished", finished, len(m.snapshot.Downloads)),
		humanBytes(m.snapshot.Received()) + " received",
	}
	if failed := m.snapshot.Failed(); failed > 0 {
		parts = append(parts, m.styles.DangerText.Render(fmt.Sprintf("%d failed", failed)))
	}
	if !m.done {
		help := m.keys.Quit.Help()
		parts = append(parts, m.styles.AccentText.Render(help.Key)+" "+help.Desc)
	}
	return m.styles.MutedText.Render(strings.Join(parts, " · "))
}

// RunProgress draws a progress bar per download until every download in
// store has finished, the context is cancelled or the user quits. User
// cancellation is reported as ErrInterrupted.
func RunProgress(ctx context.Context, store *state.Store, opts Options) error {
	programOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if opts.Output != nil {
		programOpts = append(programOpts, tea.WithOutput(opts.Output))
	}
	if opts.Input != nil {
		programOpts = append(programOpts, tea.WithInput(opts.Input))
	}

	p := tea.NewProgram(newProgressModel(store, opts), programOpts...)
	final, err := p.Run()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("run progress view: %w", err)
	}
	if m, ok := final.(progressModel); ok && m.interrupted {
		return ErrInterrupted
	}
	return nil
}
