package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/renameio/v2"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/five82/recfetch/internal/config"
	"github.com/five82/recfetch/internal/recordings"
	"github.com/five82/recfetch/internal/state"
	"github.com/five82/recfetch/internal/ui"
)

// DownloadOptions control a download run.
type DownloadOptions struct {
	Raw        bool   // fetch the raw upload instead of the processed file
	OutDir     string // overrides output_dir from the config file
	Parallel   int    // concurrent downloads; values below 1 mean 1
	NoProgress bool   // log progress lines even on a terminal
}

// Download fetches every recording in ids into the output directory. Each file
// is written atomically, so an interrupted download never leaves a partial
// file behind. Failures do not stop the other downloads; they are reported
// together once all downloads have ended.
func Download(ctx context.Context, opts Options, ids []recordings.RecordingID, dl DownloadOptions) (err error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return fmt.Errorf("no recording ids given")
	}

	ctx, e, err := setup(ctx, opts)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, writeMetrics(opts.MetricsFile)) }()

	dir := e.cfg.OutputDir
	if strings.TrimSpace(dl.OutDir) != "" {
		if dir, err = config.ExpandPath(dl.OutDir); err != nil {
			return fmt.Errorf("resolve output dir: %w", err)
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	store := &state.Store{}
	for _, id := range ids {
		store.Register(string(id))
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fileLogger := e.logger
	var (
		viewErr  error
		viewDone chan struct{}
	)
	if !dl.NoProgress && e.prefs.Progress && isTerminal(e.stdout) {
		// Log lines would tear the progress view apart.
		fileLogger = zerolog.Nop()
		viewDone = make(chan struct{})
		go func() {
			defer close(viewDone)
			viewErr = ui.RunProgress(ctx, store, ui.Options{
				Theme:  ui.ThemeByName(e.prefs.Theme),
				Output: e.stdout,
			})
			if errors.Is(viewErr, ui.ErrInterrupted) {
				cancel()
			}
		}()
	} else {
		stop := startReporter(ctx, store, e.logger, defaultReportInterval)
		defer stop()
	}

	parallel := dl.Parallel
	if parallel < 1 {
		parallel = 1
	}
	e.logger.Info().
		Int("count", len(ids)).
		Int("parallel", parallel).
		Bool("raw", dl.Raw).
		Str("dir", dir).
		Msg("starting downloads")

	failures := make([]error, len(ids))
	var g errgroup.Group
	g.SetLimit(parallel)
	for i, id := range ids {
		g.Go(func() error {
			if err := fetchOne(ctx, e.client, store, fileLogger, dir, id, dl.Raw); err != nil {
				failures[i] = fmt.Errorf("recording %s: %w", id, err)
			}
			return nil
		})
	}
	_ = g.Wait()

	if viewDone != nil {
		<-viewDone
		switch {
		case errors.Is(viewErr, ui.ErrInterrupted):
			return viewErr
		case viewErr != nil && !errors.Is(viewErr, context.Canceled):
			e.logger.Warn().Err(viewErr).Msg("progress view failed")
		}
	}

	snap := store.Snapshot()
	e.logger.Info().
		Int("count", len(snap.Downloads)).
		Int("failed", snap.Failed()).
		Int64("bytes", snap.Received()).
		Msg("downloads finished")

	if failed := snap.Failed(); failed > 0 {
		return fmt.Errorf("%d of %d downloads failed: %w", failed, len(ids), errors.Join(failures...))
	}
	return nil
}

// fetchOne downloads a single recording into dir and records its progress.
func fetchOne(ctx context.Context, client *recordings.Client, store *state.Store, logger zerolog.Logger, dir string, id recordings.RecordingID, raw bool) (err error) {
	key := string(id)
	defer func() {
		store.Finish(key, err)
		if err != nil {
			logger.Error().Err(err).Str("id", key).Msg("download failed")
		}
	}()

	fetch, fallback := client.Download, key
	if raw {
		fetch, fallback = client.DownloadRaw, key+"-raw"
	}

	stream, err := fetch(ctx, id)
	if err != nil {
		return err
	}
	defer func() { _ = stream.Close() }()

	if err := stream.Open(); err != nil {
		return err
	}

	name := fileName(stream.Filename(), fallback)
	store.Begin(key, name, stream.Size())

	target := filepath.Join(dir, name)
	pf, err := renameio.NewPendingFile(target, renameio.WithPermissions(0o644))
	if err != nil {
		return fmt.Errorf("create pending file: %w", err)
	}
	defer func() { _ = pf.Cleanup() }()

	w := &progressWriter{w: pf, store: store, key: key}
	if _, err := stream.WriteTo(w); err != nil {
		return err
	}
	if err := pf.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("replace %s: %w", target, err)
	}

	logger.Info().
		Str("id", key).
		Str("file", target).
		Int64("bytes", w.n).
		Msg("download complete")
	return nil
}

// progressWriter forwards writes and reports each chunk to the store.
type progressWriter struct {
	w     io.Writer
	store *state.Store
	key   string
	n     int64
}

func (p *progressWriter) Write(b []byte) (int, error) {
	n, err := p.w.Write(b)
	p.n += int64(n)
	p.store.Advance(p.key, n)
	return n, err
}

// fileName picks the server-provided name, falling back to the recording ID.
func fileName(fromServer, fallback string) string {
	name := strings.TrimSpace(fromServer)
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		name = fallback
	}
	return name
}

func uniqueIDs(ids []recordings.RecordingID) []recordings.RecordingID {
	seen := make(map[recordings.RecordingID]struct{}, len(ids))
	out := make([]recordings.RecordingID, 0, len(ids))
	for _, id := range ids {
		id = recordings.RecordingID(strings.TrimSpace(string(id)))
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
