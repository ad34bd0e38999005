package app

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/five82/recfetch/internal/prefs"
	"github.com/five82/recfetch/internal/ui"
)

// PrefsUpdate lists preference changes. Nil fields keep their stored value.
type PrefsUpdate struct {
	Theme    *string
	Progress *bool
}

// SetPrefs applies update to the preferences file and writes the resulting
// preferences to w. An empty update only prints them. A nil w uses
// Options.Stdout.
func SetPrefs(opts Options, update PrefsUpdate, w io.Writer) error {
	path := opts.PrefsPath
	if strings.TrimSpace(path) == "" {
		path = prefs.DefaultPath()
	}
	p := prefs.Load(path)

	changed := false
	if update.Theme != nil {
		name, ok := themeName(*update.Theme)
		if !ok {
			return fmt.Errorf("unknown theme %q (available: %s)", *update.Theme, strings.Join(ui.ThemeNames(), ", "))
		}
		p.Theme = name
		changed = true
	}
	if update.Progress != nil {
		p.Progress = *update.Progress
		changed = true
	}
	if changed {
		if err := prefs.Save(path, p); err != nil {
			return fmt.Errorf("save prefs: %w", err)
		}
	}

	if w == nil {
		w = opts.Stdout
	}
	if w == nil {
		w = os.Stdout
	}
	_, err := fmt.Fprintf(w, "theme    = %s\nprogress = %t\n", p.Theme, p.Progress)
	return err
}

func themeName(name string) (string, bool) {
	for _, n := range ui.ThemeNames() {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return n, true
		}
	}
	return "", false
}
