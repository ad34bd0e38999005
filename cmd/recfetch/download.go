package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/five82/recfetch/internal/app"
	"github.com/five82/recfetch/internal/recordings"
)

// newDownloadCmd builds "download", or "download-raw" when raw is set.
func newDownloadCmd(opts *app.Options, run func(context.Context, app.Options, []recordings.RecordingID, app.DownloadOptions) error, raw bool) *cobra.Command {
	dl := app.DownloadOptions{Raw: raw, Parallel: 1}

	cmd := &cobra.Command{
		Use:   "download [flags] ID...",
		Short: "Download the processed media of recordings",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]recordings.RecordingID, 0, len(args))
			for _, a := range args {
				ids = append(ids, recordings.RecordingID(a))
			}
			return run(cmd.Context(), *opts, ids, dl)
		},
	}
	if raw {
		cmd.Use = "download-raw [flags] ID..."
		cmd.Short = "Download the original uploads of recordings"
	} else {
		cmd.Flags().BoolVar(&dl.Raw, "raw", false, "download the original upload instead")
	}

	f := cmd.Flags()
	f.StringVarP(&dl.OutDir, "out", "o", "", "output directory (default output_dir from the config)")
	f.IntVarP(&dl.Parallel, "parallel", "p", 1, "number of concurrent downloads")
	f.BoolVar(&dl.NoProgress, "no-progress", false, "log progress lines instead of drawing bars")
	return cmd
}
