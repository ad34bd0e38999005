package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/five82/recfetch/internal/app"
	"github.com/five82/recfetch/internal/config"
	"github.com/five82/recfetch/internal/prefs"
	"github.com/five82/recfetch/internal/recordings"
)

// commands are the app entry points the CLI dispatches to.
type commands struct {
	query    func(ctx context.Context, opts app.Options, q recordings.Query, w io.Writer) error
	download func(ctx context.Context, opts app.Options, ids []recordings.RecordingID, dl app.DownloadOptions) error
	prefs    func(opts app.Options, update app.PrefsUpdate, w io.Writer) error
}

func newRootCmd(fns commands) *cobra.Command {
	var opts app.Options

	root := &cobra.Command{
		Use:   "recfetch",
		Short: "Query and download recordings from the recordings API",
		Long: fmt.Sprintf(`recfetch lists recordings matching a filter and downloads their media.

Settings are read from %s. Set either a
pre-issued token or a username and password there.`, config.DefaultPath()),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.ConfigPath, "config", "", "config file (default "+config.DefaultPath()+")")
	flags.StringVar(&opts.PrefsPath, "prefs", "", "preferences file (default "+prefs.DefaultPath()+")")
	flags.StringVar(&opts.LogLevel, "log-level", "", "log level override (debug, info, warn, error)")
	flags.StringVar(&opts.MetricsFile, "metrics-file", "", "write Prometheus metrics to this file when done")

	root.AddCommand(
		newQueryCmd(&opts, fns.query),
		newDownloadCmd(&opts, fns.download, false),
		newDownloadCmd(&opts, fns.download, true),
		newPrefsCmd(&opts, fns.prefs),
	)
	return root
}
