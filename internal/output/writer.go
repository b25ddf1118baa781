// Package output writes a built model to the output directory.
package output

import (
	"context"
	"encoding/json"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/sandrolain/iris-docs/internal/docs"
	"github.com/sandrolain/iris-docs/internal/extractor"
	"github.com/sandrolain/iris-docs/internal/render"
	"github.com/sandrolain/iris-docs/internal/search"
)

const (
	// ModelFile receives the model as JSON.
	ModelFile = "model.json"
	// SearchFile receives the search entries, fetched by the page script.
	SearchFile = "search-index.json"
	// ManifestFile records the run that produced the output.
	ManifestFile = "manifest.json"
)

// Options configures a Writer.
type Options struct {
	Dir        string   // output directory, created when missing
	Assets     []string // files copied by basename next to the pages
	ModelJSON  bool     // write ModelFile
	SearchJSON bool     // write SearchFile
	NoBuiltin  bool     // skip the built-in stylesheet and script
}

// Written lists the files of one write, relative to the output directory.
type Written struct {
	Pages  []string
	Assets []string
}

// Manifest describes one build.
type Manifest struct {
	RunID       string          `json:"run_id"`
	Version     string          `json:"version"`
	GeneratedAt time.Time       `json:"generated_at"`
	Stats       extractor.Stats `json:"stats"`
	Pages       []string        `json:"pages"`
	Assets      []string        `json:"assets"`
}

// NewManifest records result and the files written for it.
func NewManifest(result *extractor.Result, written *Written, version string) Manifest {
	return Manifest{
		RunID:       result.RunID,
		Version:     version,
		GeneratedAt: time.Now().UTC(),
		Stats:       result.Stats,
		Pages:       written.Pages,
		Assets:      written.Assets,
	}
}

// Writer renders pages with a Formatter and writes them out.
type Writer struct {
	opts      Options
	formatter render.Formatter
	logger    *slog.Logger
}

// NewWriter creates a writer. A nil logger uses slog.Default().
func NewWriter(opts Options, formatter render.Formatter, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{opts: opts, formatter: formatter, logger: logger}
}

// Write renders and writes every page of model, then the JSON files and
// assets. Any failure is a KindIO error; files already written stay.
func (w *Writer) Write(ctx context.Context, model *docs.Model) (*Written, error) {
	if err := os.MkdirAll(w.opts.Dir, 0755); err != nil {
		return nil, docs.IOError("create output dir", w.opts.Dir, err)
	}

	written := &Written{Pages: []string{}, Assets: []string{}}

	if err := w.writeFile(written, model.Document.URL, []byte(w.formatter.FormatIndexPage(model))); err != nil {
		return nil, err
	}

	for _, c := range model.Categories {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page, ok := w.formatter.FormatCategoryPage(c, model)
		if !ok {
			continue
		}
		if err := w.writeFile(written, c.URL, []byte(page)); err != nil {
			return nil, err
		}
	}

	if w.opts.ModelJSON {
		if err := w.writeJSON(written, ModelFile, model); err != nil {
			return nil, err
		}
	}
	if w.opts.SearchJSON {
		if err := w.writeJSON(written, SearchFile, search.Entries(model)); err != nil {
			return nil, err
		}
	}

	if err := w.copyAssets(written); err != nil {
		return nil, err
	}

	w.logger.Debug("output written", "dir", w.opts.Dir, "pages", len(written.Pages), "assets", len(written.Assets))
	return written, nil
}

// WriteManifest writes m as ManifestFile.
func (w *Writer) WriteManifest(m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return docs.IOError("encode", ManifestFile, err)
	}
	path := filepath.Join(w.opts.Dir, ManifestFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return docs.IOError("write", path, err)
	}
	return nil
}

func (w *Writer) writeFile(written *Written, name string, data []byte) error {
	path := filepath.Join(w.opts.Dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return docs.IOError("write", path, err)
	}
	written.Pages = append(written.Pages, name)
	return nil
}

func (w *Writer) writeJSON(written *Written, name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return docs.IOError("encode", name, err)
	}
	return w.writeFile(written, name, data)
}

func (w *Writer) copyAssets(written *Written) error {
	if !w.opts.NoBuiltin {
		for _, name := range render.AssetNames {
			data, err := fs.ReadFile(render.Assets, name)
			if err != nil {
				return docs.IOError("read asset", name, err)
			}
			if err := w.writeAsset(written, name, data); err != nil {
				return err
			}
		}
	}

	for _, src := range w.opts.Assets {
		data, err := os.ReadFile(src)
		if err != nil {
			return docs.IOError("read asset", src, err)
		}
		if err := w.writeAsset(written, filepath.Base(src), data); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeAsset(written *Written, name string, data []byte) error {
	path := filepath.Join(w.opts.Dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return docs.IOError("copy asset", path, err)
	}
	written.Assets = append(written.Assets, name)
	return nil
}
