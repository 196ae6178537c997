package ttbuild

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/hayeah/ttbuild/archive"
	"github.com/hayeah/ttbuild/ignore"
	"github.com/hayeah/ttbuild/internal/metrics"
	"github.com/hayeah/ttbuild/manifest"
	"github.com/hayeah/ttbuild/normalize"
	"golang.org/x/sync/errgroup"
)

// Action says how an entry of the plugin directory ends up in the archive.
type Action string

const (
	ActionCopy      Action = "copy"
	ActionNormalize Action = "normalize"
	ActionManifest  Action = "manifest"
	ActionSkip      Action = "skip"
)

// Entry is a file kept by the exclusion policy.
type Entry struct {
	Name    string // slash-separated path inside the archive
	Path    string // source path on disk
	ModTime time.Time
	Action  Action
}

// Builder turns a plugin directory into a store archive.
type Builder struct {
	InputDir  string
	OutputDir string
	Config    *Config
	Manifest  *manifest.Manifest
	Metrics   *metrics.OutputMetrics
	Logger    *slog.Logger
}

// ArchivePath is where Build writes the archive.
func (b *Builder) ArchivePath() string {
	return filepath.Join(b.OutputDir, b.Manifest.ArchiveName())
}

func (b *Builder) logger() *slog.Logger {
	if b.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return b.Logger
}

// Plan walks the input directory and decides the action of every file.
// Entries are in walk order, which is also the archive order.
func (b *Builder) Plan() ([]Entry, error) {
	ig, err := ignore.NewIgnore(b.InputDir, b.Config.Policy())
	if err != nil {
		return nil, err
	}
	ig.Logger = b.Logger
	ig.Skip(b.OutputDir)
	ig.Skip(filepath.Join(b.InputDir, ConfigFileName))

	thumbnail := ""
	if thumb, ok := b.Manifest.Thumbnail(); ok {
		thumbnail = path.Clean(filepath.ToSlash(thumb))
	}

	var entries []Entry
	err = ig.WalkFiles(func(p, rel string) error {
		info, err := os.Stat(p)
		if err != nil {
			return err
		}

		e := Entry{Name: rel, Path: p, ModTime: info.ModTime(), Action: ActionCopy}
		switch {
		case rel == manifest.FileName:
			e.Action = ActionManifest
		case rel == thumbnail:
			e.Action = ActionSkip
		case b.Config.ShouldNormalize(rel):
			e.Action = ActionNormalize
		}
		entries = append(entries, e)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	return entries, nil
}

// Build writes the archive and returns its path. A failed build leaves no
// archive behind.
func (b *Builder) Build(ctx context.Context) (string, error) {
	log := b.logger()

	entries, err := b.Plan()
	if err != nil {
		return "", err
	}

	contents, err := b.rewrite(ctx, entries)
	if err != nil {
		return "", err
	}

	out := b.ArchivePath()
	if err := b.writeArchive(out, entries, contents); err != nil {
		os.Remove(out)
		return "", err
	}

	log.Info("archive written", "path", out)
	return out, nil
}

// rewrite produces the new content of every normalized entry and of the
// manifest. The manifest is rewritten before any file is normalized; files
// are normalized concurrently. Results are indexed like entries.
func (b *Builder) rewrite(ctx context.Context, entries []Entry) ([][]byte, error) {
	log := b.logger()
	contents := make([][]byte, len(entries))

	for i, e := range entries {
		if e.Action != ActionManifest {
			continue
		}
		thumb, removed, err := b.Manifest.StripThumbnail()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Name, err)
		}
		if removed {
			log.Info("removed thumbnail from manifest", "thumbnail", thumb)
		}
		contents[i] = b.Manifest.Encode()
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(b.Config.Workers, 1))

	for i, e := range entries {
		switch e.Action {
		case ActionNormalize:
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}

				data, err := os.ReadFile(e.Path)
				if err != nil {
					return err
				}

				log.Info("normalizing", "file", e.Name)
				text, err := normalize.NormalizeBytes(data, log.With("file", e.Name))
				if err != nil {
					return fmt.Errorf("%s: %w", e.Name, err)
				}

				contents[i] = []byte(text)
				if b.Metrics != nil {
					b.Metrics.Add(metrics.TypeSource, e.Name, data)
					b.Metrics.Add(metrics.TypeOutput, e.Name, contents[i])
				}
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return contents, nil
}

func (b *Builder) writeArchive(out string, entries []Entry, contents [][]byte) (err error) {
	log := b.logger()

	w, err := archive.Create(out)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, w.Close())
	}()

	for i, e := range entries {
		switch e.Action {
		case ActionSkip:
			log.Info("skipping file marked for removal", "file", e.Name)
			continue
		case ActionCopy:
			err = w.AddFile(e.Name, e.Path)
		default:
			err = w.AddBytes(e.Name, contents[i], e.ModTime)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", e.Name, err)
		}
		log.Info("added file to archive", "file", e.Name)
	}
	return nil
}
