package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/five82/recfetch/internal/auth"
	"github.com/five82/recfetch/internal/config"
	"github.com/five82/recfetch/internal/log"
	"github.com/five82/recfetch/internal/prefs"
	"github.com/five82/recfetch/internal/recordings"
	"github.com/five82/recfetch/internal/ui"
)

// ErrNoCredentials is returned when neither a token nor a username is
// configured.
var ErrNoCredentials = errors.New("no credentials configured")

// Options configure a recfetch run.
type Options struct {
	ConfigPath  string
	PrefsPath   string // empty uses default ~/.config/recfetch/prefs.toml
	LogLevel    string // overrides log_level from the config file
	MetricsFile string // Prometheus textfile written when the run ends
	JSON        bool   // query prints raw rows as JSON lines instead of a table

	// Overrides used by tests and embedding programs.
	HTTPClient *http.Client
	Stdout     io.Writer
	LogOutput  io.Writer
}

// env is everything a command needs once config, logging and the session are
// set up.
type env struct {
	cfg    config.Config
	prefs  prefs.Prefs
	client *recordings.Client
	logger zerolog.Logger
	stdout io.Writer
}

func setup(ctx context.Context, opts Options) (context.Context, *env, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return ctx, nil, fmt.Errorf("load config: %w", err)
	}

	level := cfg.LogLevel
	if v := strings.TrimSpace(opts.LogLevel); v != "" {
		level = v
	}
	log.Configure(log.Config{Level: level, Output: opts.LogOutput})

	ctx = log.ContextWithRunID(ctx, uuid.NewString())
	logger := log.FromContext(ctx, log.WithComponent("app"))

	hc := opts.HTTPClient
	if hc == nil {
		hc = recordings.NewHTTPClient()
	}

	session, err := newSession(ctx, cfg, hc)
	if err != nil {
		return ctx, nil, err
	}

	client, err := recordings.New(session,
		recordings.WithHTTPClient(hc),
		recordings.WithLogger(log.FromContext(ctx, log.WithComponent("recordings"))),
	)
	if err != nil {
		return ctx, nil, fmt.Errorf("init recordings client: %w", err)
	}

	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	return ctx, &env{
		cfg:    cfg,
		prefs:  prefs.Load(opts.PrefsPath),
		client: client,
		logger: logger,
		stdout: stdout,
	}, nil
}

// newSession prefers a configured token and logs in otherwise.
func newSession(ctx context.Context, cfg config.Config, hc *http.Client) (recordings.Session, error) {
	if !cfg.HasCredentials() {
		return nil, fmt.Errorf("%w: set token or username in the config file", ErrNoCredentials)
	}
	if cfg.Token != "" {
		return auth.Token(cfg.APIURL, cfg.Token), nil
	}
	session, err := auth.Login(ctx, hc, cfg.APIURL, cfg.Username, cfg.Password)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return session, nil
}

// Query runs q and writes the matching rows to w, one JSON document per line
// when opts.JSON is set and as a table otherwise. A nil w uses Options.Stdout.
func Query(ctx context.Context, opts Options, q recordings.Query, w io.Writer) (err error) {
	ctx, e, err := setup(ctx, opts)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, writeMetrics(opts.MetricsFile)) }()

	if w == nil {
		w = e.stdout
	}

	rows, err := e.client.Query(ctx, q)
	if err != nil {
		return fmt.Errorf("query recordings: %w", err)
	}
	e.logger.Debug().Int("rows", len(rows)).Msg("query finished")

	if opts.JSON {
		for _, row := range rows {
			if _, err := fmt.Fprintf(w, "%s\n", compact(row)); err != nil {
				return fmt.Errorf("write row: %w", err)
			}
		}
		return nil
	}

	// Rows are opaque; the table only shows the ones shaped like a recording.
	summaries := make([]recordings.Summary, 0, len(rows))
	for i, row := range rows {
		s, err := recordings.ParseSummary(row)
		if err != nil {
			e.logger.Warn().Err(err).Int("row", i).Str("raw", string(compact(row))).Msg("skipping row, use --json to see all rows")
			continue
		}
		summaries = append(summaries, s)
	}
	if err := ui.RenderRows(w, summaries, ui.ThemeByName(e.prefs.Theme)); err != nil {
		return fmt.Errorf("render rows: %w", err)
	}
	return nil
}

func compact(row json.RawMessage) []byte {
	var buf bytes.Buffer
	if err := json.Compact(&buf, row); err != nil {
		return row
	}
	return buf.Bytes()
}

// writeMetrics exports the default registry for the node_exporter textfile
// collector. An empty path disables it.
func writeMetrics(path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	resolved, err := config.ExpandPath(path)
	if err != nil {
		return fmt.Errorf("resolve metrics file: %w", err)
	}
	if err := prometheus.WriteToTextfile(resolved, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
