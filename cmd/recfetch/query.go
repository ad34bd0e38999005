package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/recfetch/internal/app"
	"github.com/five82/recfetch/internal/recordings"
)

const dateOnly = "2006-01-02"

func newQueryCmd(opts *app.Options, run func(context.Context, app.Options, recordings.Query, io.Writer) error) *cobra.Command {
	var (
		q          recordings.Query
		typ        string
		minSecs    float64
		start, end string
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "query",
		Short: "List recordings matching a filter",
		Example: `  recfetch query --type audio --start 2024-01-01 --min-secs 30
  recfetch query --device 12 --device 14 --tag-mode human-tagged --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if q.StartDate, err = parseDate(start, false); err != nil {
				return fmt.Errorf("--start: %w", err)
			}
			if q.EndDate, err = parseDate(end, true); err != nil {
				return fmt.Errorf("--end: %w", err)
			}
			if q.Limit < 0 || q.Offset < 0 {
				return fmt.Errorf("--limit and --offset must not be negative")
			}
			// Optional filters are sent only when their flag is given.
			if cmd.Flags().Changed("type") {
				q.Type = &typ
			}
			if cmd.Flags().Changed("min-secs") {
				q.MinSecs = &minSecs
			}
			if !cmd.Flags().Changed("tag") {
				q.Tags = nil
			}
			if !cmd.Flags().Changed("device") {
				q.Devices = nil
			}

			o := *opts
			o.JSON = asJSON
			return run(cmd.Context(), o, q, cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.StringVar(&typ, "type", "", "recording type, e.g. audio or thermalRaw")
	f.StringVar(&start, "start", "", "earliest recording time (RFC 3339 or YYYY-MM-DD)")
	f.StringVar(&end, "end", "", "latest recording time (RFC 3339 or YYYY-MM-DD, inclusive)")
	f.Float64Var(&minSecs, "min-secs", 0, "minimum duration in seconds")
	f.IntVar(&q.Limit, "limit", recordings.DefaultLimit, "maximum number of rows")
	f.IntVar(&q.Offset, "offset", 0, "rows to skip")
	f.StringVar(&q.TagMode, "tag-mode", "", "server tag mode, e.g. any or untagged")
	f.StringArrayVar(&q.Tags, "tag", nil, "tag to match (repeatable)")
	f.IntSliceVar(&q.Devices, "device", nil, "device ID to match (repeatable)")
	f.BoolVar(&asJSON, "json", false, "print raw rows as JSON lines")
	return cmd
}

// parseDate accepts RFC 3339 or a local calendar date. A date-only end bound
// covers the whole day.
func parseDate(value string, endOfDay bool) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(dateOnly, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want RFC 3339 or YYYY-MM-DD", value)
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return t, nil
}
