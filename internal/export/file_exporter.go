package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/alorle/livetv-collector/internal/run"
)

// FileExporter writes the output files of a run into a directory:
// <base>.m3u, <base>.json, <base>.txt and <base> with no extension.
// It implements the driven.RunExporter port.
type FileExporter struct {
	dir      string
	baseName string
	loc      *time.Location
	logger   *slog.Logger
}

// NewFileExporter creates a FileExporter. loc sets the time zone of the
// date stamped into the JSON document; nil means UTC.
func NewFileExporter(dir, baseName string, loc *time.Location, logger *slog.Logger) *FileExporter {
	if loc == nil {
		loc = time.UTC
	}
	return &FileExporter{
		dir:      dir,
		baseName: baseName,
		loc:      loc,
		logger:   logger,
	}
}

// Export writes every output file. Each file is replaced atomically, so
// readers see either the previous run or this one.
func (e *FileExporter) Export(ctx context.Context, rn run.Run) error {
	if err := os.MkdirAll(e.dir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	doc := NewDocument(rn, e.loc)
	outputs := []struct {
		name  string
		write func(io.Writer) error
	}{
		{e.baseName + ".m3u", func(w io.Writer) error { return WritePlaylist(w, rn) }},
		{e.baseName + ".json", func(w io.Writer) error { return writeJSON(w, doc) }},
		{e.baseName + ".txt", func(w io.Writer) error { return WriteText(w, rn) }},
		{e.baseName, func(w io.Writer) error { return writeJSON(w, doc) }},
	}

	for _, out := range outputs {
		if err := ctx.Err(); err != nil {
			return err
		}
		path := filepath.Join(e.dir, out.name)
		if err := writeAtomic(path, out.write); err != nil {
			return fmt.Errorf("writing %s: %w", out.name, err)
		}
		e.logger.Debug("output written", "path", path)
	}

	e.logger.Info("run exported", "dir", e.dir, "channels", len(rn.Channels))
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// writeAtomic writes to a temporary file in the target directory and renames
// it over path once the content is complete.
func writeAtomic(path string, write func(io.Writer) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = write(tmp); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
