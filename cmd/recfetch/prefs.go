package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/recfetch/internal/app"
	"github.com/five82/recfetch/internal/ui"
)

func newPrefsCmd(opts *app.Options, run func(app.Options, app.PrefsUpdate, io.Writer) error) *cobra.Command {
	var (
		theme    string
		progress bool
	)

	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show or change display preferences",
		Long: fmt.Sprintf(`Show the stored display preferences, or change them with flags.

Themes: %s.`, strings.Join(ui.ThemeNames(), ", ")),
		Example: `  recfetch prefs
  recfetch prefs --theme Slate --progress=false`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var update app.PrefsUpdate
			if cmd.Flags().Changed("theme") {
				update.Theme = &theme
			}
			if cmd.Flags().Changed("progress") {
				update.Progress = &progress
			}
			return run(*opts, update, cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.StringVar(&theme, "theme", "", "color theme for tables and progress bars")
	f.BoolVar(&progress, "progress", true, "draw progress bars during downloads")
	return cmd
}
