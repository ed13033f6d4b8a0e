package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/mmcdole/albumshelf/internal/domain"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// Loader reads catalog files and keeps only the records that validate.
type Loader struct {
	fs        afero.Fs
	validator *Validator
	logger    *slog.Logger
}

// NewLoader creates a loader over fs. A nil fs reads the real filesystem.
func NewLoader(fs afero.Fs, logger *slog.Logger) *Loader {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{fs: fs, validator: NewValidator(), logger: logger}
}

// Load reads one catalog file. The format follows the extension (.csv or
// JSON otherwise). Invalid records are logged and dropped; only an unreadable
// or unparsable file is an error.
func (l *Loader) Load(kind domain.MediaKind, path string) (*Catalog, error) {
	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return nil, fmt.Errorf("read %s catalog: %w", kind, err)
	}

	var records []*RawRecord
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		records, err = decodeCSV(data)
	} else {
		records, err = decodeJSON(data)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s catalog: %w", kind, err)
	}

	albums := make([]*domain.Album, 0, len(records))
	dropped := 0
	for i, r := range records {
		if err := l.validator.Validate(r); err != nil {
			dropped++
			l.logger.Warn("dropping catalog record", "kind", kind, "index", i, "error", err)
			continue
		}
		albums = append(albums, r.Album(kind))
	}

	l.logger.Info("loaded catalog", "kind", kind, "path", path, "albums", len(albums), "dropped", dropped)
	return New(kind, albums), nil
}

// LoadBoth loads the video and audio catalogs concurrently. A catalog that
// fails to load is logged and replaced by an empty one, so browsing degrades
// instead of failing. The only error returned is ctx's.
func (l *Loader) LoadBoth(ctx context.Context, videoPath, audioPath string) (video, audio *Catalog, err error) {
	g, ctx := errgroup.WithContext(ctx)

	load := func(kind domain.MediaKind, path string, dest **Catalog) func() error {
		return func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if path == "" {
				l.logger.Info("no catalog configured", "kind", kind)
				*dest = Empty(kind)
				return nil
			}
			c, err := l.Load(kind, path)
			if err != nil {
				l.logger.Error("catalog unavailable", "kind", kind, "error", err)
				c = Empty(kind)
			}
			*dest = c
			return nil
		}
	}

	g.Go(load(domain.KindVideo, videoPath, &video))
	g.Go(load(domain.KindAudio, audioPath, &audio))

	if err := g.Wait(); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("load catalogs: %w", err)
	}
	return video, audio, nil
}
