// Package site writes the static reader site for a manga library.
package site

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/ziadkadry99/mangaview/internal/config"
	"github.com/ziadkadry99/mangaview/internal/library"
	"github.com/ziadkadry99/mangaview/internal/progress"
	"github.com/ziadkadry99/mangaview/internal/render"
	"github.com/ziadkadry99/mangaview/internal/viewport"
)

// Output layout below the site root.
const (
	SeriesDir = "manga"
	CoverDir  = "covers"
	IndexFile = "library.json"
)

// SiteGenerator converts a manga library into a static HTML site.
type SiteGenerator struct {
	cfg *config.Config
	log *zap.Logger

	// Live makes reader pages attach to the server's reading session.
	Live bool
	// Progress receives one update per built series.
	Progress progress.Reporter
}

// NewSiteGenerator creates a SiteGenerator for cfg.
func NewSiteGenerator(cfg *config.Config, log *zap.Logger) *SiteGenerator {
	if log == nil {
		log = zap.NewNop()
	}
	return &SiteGenerator{cfg: cfg, log: log, Progress: progress.Nop{}}
}

// Result summarises a build.
type Result struct {
	Series  []*library.Series
	Catalog *Catalog
	Pages   int // Reader pages written.
	Images  int // Images referenced by reader pages.
	Copied  int // Images actually copied.
	Covers  int
}

// readerData holds the data passed to the reader template.
type readerData struct {
	SiteTitle   string
	Title       string
	BasePath    string
	SeriesNav   template.HTML
	ChapterNav  template.HTML
	Description template.HTML
	Pages       []render.Page
	Client      clientConfig
}

// clientConfig is embedded as JSON into reader pages for script.js.
type clientConfig struct {
	Series             string  `json:"series"`
	StickyOffset       int     `json:"stickyOffset"`
	StickyOffsetNarrow int     `json:"stickyOffsetNarrow"`
	NarrowBreakpoint   int     `json:"narrowBreakpoint"`
	DebounceMS         int     `json:"debounceMs"`
	LazyMarginPx       int     `json:"lazyMarginPx"`
	ObserveFraction    float64 `json:"observeFraction"`
	MinBandPx          float64 `json:"minBandPx"`
	Live               bool    `json:"live"`
	SocketPath         string  `json:"socketPath,omitempty"`
}

// indexData holds the data passed to the library index template.
type indexData struct {
	SiteTitle string
	BasePath  string
	SeriesNav template.HTML
	Series    []IndexEntry
}

// Generate scans the library and writes the full site. Series that fail to
// build are skipped and reported in the returned error; the rest of the site
// is still written.
func (g *SiteGenerator) Generate(ctx context.Context) (Result, error) {
	scanner := library.NewScanner(library.Options{
		Root:    g.cfg.LibraryDir,
		Include: g.cfg.Include,
		Exclude: g.cfg.Exclude,
	}, g.log)

	series, errs := scanner.Scan(ctx)
	if series == nil && errs != nil {
		return Result{}, errs
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	out := g.cfg.OutputDir
	if err := os.MkdirAll(filepath.Join(out, SeriesDir), 0o755); err != nil {
		return Result{}, err
	}

	// Write static assets.
	if err := os.WriteFile(filepath.Join(out, "style.css"), []byte(cssContent), 0o644); err != nil {
		return Result{}, err
	}
	if err := os.WriteFile(filepath.Join(out, "script.js"), []byte(jsContent), 0o644); err != nil {
		return Result{}, err
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
			),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
		),
	)

	readerTmpl, err := template.New("reader").Parse(readerTemplate)
	if err != nil {
		return Result{}, fmt.Errorf("parsing reader template: %w", err)
	}
	indexTmpl, err := template.New("index").Parse(indexTemplate)
	if err != nil {
		return Result{}, fmt.Errorf("parsing index template: %w", err)
	}

	res := Result{}
	g.Progress.Start(len(series))
	var built []*library.Series
	for i, s := range series {
		if err := ctx.Err(); err != nil {
			g.Progress.Finish()
			return res, err
		}
		g.Progress.Update(i+1, s.Title)

		st, err := g.buildSeries(md, readerTmpl, series, s)
		if err != nil {
			g.log.Error("series build failed", zap.String("series", s.Name), zap.Error(err))
			errs = multierr.Append(errs, fmt.Errorf("building %s: %w", s.Name, err))
			continue
		}
		res.Pages++
		res.Images += len(s.Images)
		res.Copied += st.copied
		if st.cover {
			res.Covers++
		}
		built = append(built, s)
	}
	g.Progress.Finish()

	g.prune(built)

	entries := IndexEntries(built, g.cfg.CoverWidth > 0)
	if err := WriteIndex(entries, filepath.Join(out, IndexFile)); err != nil {
		return res, fmt.Errorf("writing library index: %w", err)
	}
	data := indexData{
		SiteTitle: g.cfg.Title,
		SeriesNav: template.HTML(SeriesNav(built, "", "")),
		Series:    entries,
	}
	if err := writeTemplate(indexTmpl, filepath.Join(out, "index.html"), data); err != nil {
		return res, fmt.Errorf("writing index page: %w", err)
	}

	res.Series = built
	res.Catalog = NewCatalog(built)
	g.log.Info("site generated",
		zap.String("output", out),
		zap.Int("series", res.Pages),
		zap.Int("images", res.Images),
		zap.Int("copied", res.Copied))
	return res, errs
}

type seriesStats struct {
	copied int
	cover  bool
}

// buildSeries writes one reader page with its images and cover.
func (g *SiteGenerator) buildSeries(md goldmark.Markdown, tmpl *template.Template, all []*library.Series, s *library.Series) (seriesStats, error) {
	var st seriesStats
	dir := filepath.Join(g.cfg.OutputDir, SeriesDir, s.Slug)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return st, err
	}

	for _, img := range s.Images {
		copied, err := copyIfChanged(filepath.Join(s.Dir, img.Filename), filepath.Join(dir, img.Filename))
		if err != nil {
			return st, fmt.Errorf("copying %s: %w", img.Filename, err)
		}
		if copied {
			st.copied++
		}
	}
	g.pruneImages(dir, s)

	var desc bytes.Buffer
	if len(s.Description) > 0 {
		if err := md.Convert(s.Description, &desc); err != nil {
			return st, fmt.Errorf("converting description: %w", err)
		}
	}

	const basePath = "../../"
	layout := render.Build(s.Images, "")
	data := readerData{
		SiteTitle:   g.cfg.Title,
		Title:       s.Title,
		BasePath:    basePath,
		SeriesNav:   template.HTML(SeriesNav(all, s.Name, basePath)),
		ChapterNav:  template.HTML(ChapterNav(s.Chapters)),
		Description: template.HTML(desc.String()),
		Pages:       layout.Pages,
		Client: clientConfig{
			Series:             s.Slug,
			StickyOffset:       g.cfg.StickyOffset,
			StickyOffsetNarrow: g.cfg.StickyOffsetNarrow,
			NarrowBreakpoint:   g.cfg.NarrowBreakpoint,
			DebounceMS:         g.cfg.DebounceMS,
			LazyMarginPx:       g.cfg.LazyMarginPx,
			ObserveFraction:    g.cfg.ObserveFraction,
			MinBandPx:          viewport.MinBand,
			Live:               g.Live,
		},
	}
	if g.Live {
		data.Client.SocketPath = "/ws/read"
	}
	if err := writeTemplate(tmpl, filepath.Join(dir, "index.html"), data); err != nil {
		return st, err
	}

	if g.cfg.CoverWidth > 0 && len(s.Images) > 0 {
		if err := g.writeCover(s); err != nil {
			// A missing cover only degrades the index page.
			g.log.Warn("cover thumbnail failed", zap.String("series", s.Name), zap.Error(err))
		} else {
			st.cover = true
		}
	}
	return st, nil
}

// writeCover renders a thumbnail of the first page of s.
func (g *SiteGenerator) writeCover(s *library.Series) error {
	src, err := imaging.Open(filepath.Join(s.Dir, s.Images[0].Filename), imaging.AutoOrientation(true))
	if err != nil {
		return err
	}
	thumb := imaging.Resize(src, g.cfg.CoverWidth, 0, imaging.Lanczos)

	dir := filepath.Join(g.cfg.OutputDir, CoverDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return imaging.Save(thumb, filepath.Join(dir, s.Slug+".jpg"), imaging.JPEGQuality(85))
}

// prune removes series directories and covers left over from earlier builds.
func (g *SiteGenerator) prune(built []*library.Series) {
	keep := make(map[string]bool, len(built))
	for _, s := range built {
		keep[s.Slug] = true
	}

	entries, err := os.ReadDir(filepath.Join(g.cfg.OutputDir, SeriesDir))
	if err == nil {
		for _, e := range entries {
			if e.IsDir() && !keep[e.Name()] {
				g.log.Debug("removing stale series", zap.String("slug", e.Name()))
				_ = os.RemoveAll(filepath.Join(g.cfg.OutputDir, SeriesDir, e.Name()))
			}
		}
	}
	covers, err := os.ReadDir(filepath.Join(g.cfg.OutputDir, CoverDir))
	if err == nil {
		for _, e := range covers {
			name := e.Name()
			if filepath.Ext(name) == ".jpg" && !keep[name[:len(name)-len(".jpg")]] {
				_ = os.Remove(filepath.Join(g.cfg.OutputDir, CoverDir, name))
			}
		}
	}
}

// pruneImages removes files from a series output directory whose source
// image is no longer in the library.
func (g *SiteGenerator) pruneImages(dir string, s *library.Series) {
	keep := make(map[string]bool, len(s.Images)+1)
	keep["index.html"] = true
	for _, img := range s.Images {
		keep[img.Filename] = true
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if e.IsDir() || keep[e.Name()] {
			continue
		}
		g.log.Debug("removing stale image", zap.String("series", s.Name), zap.String("file", e.Name()))
		if err := os.Remove(filepath.Join(dir, e.Name())); err != nil {
			g.log.Warn("cannot remove stale image", zap.String("file", e.Name()), zap.Error(err))
		}
	}
}

// copyIfChanged copies src to dst unless dst already has the same size and
// is not older than src.
func copyIfChanged(src, dst string) (bool, error) {
	si, err := os.Stat(src)
	if err != nil {
		return false, err
	}
	if di, err := os.Stat(dst); err == nil && di.Size() == si.Size() && !di.ModTime().Before(si.ModTime()) {
		return false, nil
	}

	in, err := os.Open(src)
	if err != nil {
		return false, err
	}
	defer in.Close()

	tmp := dst + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return false, err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(tmp)
		return false, err
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return false, err
	}
	if err := os.Rename(tmp, dst); err != nil {
		return false, err
	}
	return true, nil
}

func writeTemplate(tmpl *template.Template, path string, data any) error {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// WriteIndex writes the library index as JSON to the given path.
func WriteIndex(entries []IndexEntry, outputPath string) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(outputPath, data, 0o644)
}
