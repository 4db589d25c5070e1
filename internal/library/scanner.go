package library

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gosimple/slug"
	"github.com/h2non/filetype"
	"github.com/maruel/natural"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/ziadkadry99/mangaview/internal/chapter"
)

// sniffLen is the number of leading bytes filetype needs to recognise an image.
const sniffLen = 261

// descriptionFiles are looked up, in order, for a series synopsis.
var descriptionFiles = []string{"README.md", "readme.md", "description.md", "DESCRIPTION.md"}

// ErrNotSeries is returned when the requested series directory does not exist.
var ErrNotSeries = errors.New("not a series directory")

// ImageEntry is one page image of a series.
type ImageEntry struct {
	Filename string
	Width    int
	Height   int
	Key      chapter.SortKey
}

// Series is a directory of chapter/page images.
type Series struct {
	Name        string // Directory name.
	Slug        string // URL-safe path segment.
	Title       string // Display title.
	Dir         string // Absolute directory path.
	Images      []ImageEntry
	Chapters    []int
	Description []byte // Raw markdown, empty when absent.
}

// Unparsed counts images that do not follow the naming convention.
func (s *Series) Unparsed() int {
	n := 0
	for _, img := range s.Images {
		if !img.Key.Valid() {
			n++
		}
	}
	return n
}

// Options controls which series and files a Scanner picks up.
type Options struct {
	Root    string   // Library directory, one sub-directory per series.
	Include []string // Glob patterns over "<series>/<file>".
	Exclude []string
}

// Scanner enumerates series and their images.
type Scanner struct {
	opts Options
	log  *zap.Logger
}

// NewScanner creates a Scanner for the given library.
func NewScanner(opts Options, log *zap.Logger) *Scanner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scanner{opts: opts, log: log}
}

// Root returns the library directory.
func (s *Scanner) Root() string { return s.opts.Root }

// ListSeries returns the series directory names in natural order.
func (s *Scanner) ListSeries() ([]string, error) {
	entries, err := os.ReadDir(s.opts.Root)
	if err != nil {
		return nil, fmt.Errorf("library: reading %s: %w", s.opts.Root, err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() || shouldExcludeDir(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Sort(natural.StringSlice(names))
	return names, nil
}

// Scan reads every series in the library. Series that fail to scan are
// skipped; their errors are combined into the returned error.
func (s *Scanner) Scan(ctx context.Context) ([]*Series, error) {
	names, err := s.ListSeries()
	if err != nil {
		return nil, err
	}

	var (
		series []*Series
		errs   error
		used   = make(map[string]bool)
	)
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return series, err
		}
		sr, err := s.ScanSeries(name)
		if err != nil {
			errs = multierr.Append(errs, err)
			if sr == nil {
				continue
			}
		}
		// Different directory names may slug to the same segment, including
		// a name that already ends in a number suffix.
		base := sr.Slug
		for n := 2; used[sr.Slug]; n++ {
			sr.Slug = fmt.Sprintf("%s-%d", base, n)
		}
		used[sr.Slug] = true
		series = append(series, sr)
	}
	return series, errs
}

// ScanSeries reads a single series directory. Unreadable images are skipped
// and reported through the returned error alongside the partial Series.
func (s *Scanner) ScanSeries(name string) (*Series, error) {
	root, err := filepath.Abs(s.opts.Root)
	if err != nil {
		return nil, fmt.Errorf("library: resolve root: %w", err)
	}
	dir := filepath.Join(root, name)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("library: %s: %w", name, ErrNotSeries)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("library: reading %s: %w", dir, err)
	}

	sr := &Series{
		Name:  name,
		Slug:  Slugify(name),
		Title: DisplayTitle(name),
		Dir:   dir,
	}

	var errs error
	for _, e := range entries {
		fname := e.Name()
		if e.IsDir() || !e.Type().IsRegular() {
			continue
		}
		if sr.Description == nil && isDescriptionFile(fname) {
			if data, err := os.ReadFile(filepath.Join(dir, fname)); err == nil {
				sr.Description = data
			}
			continue
		}
		if !chapter.HasImageExt(fname) {
			continue
		}
		rel := name + "/" + fname
		if !MatchesInclude(rel, s.opts.Include) || MatchesExclude(rel, s.opts.Exclude) {
			continue
		}

		w, h, err := imageSize(filepath.Join(dir, fname))
		if err != nil {
			s.log.Warn("skipping image", zap.String("series", name), zap.String("file", fname), zap.Error(err))
			errs = multierr.Append(errs, fmt.Errorf("library: %s: %w", rel, err))
			continue
		}

		key := chapter.Parse(fname)
		if !key.Valid() {
			s.log.Warn("could not parse chapter/page from filename", zap.String("series", name), zap.String("file", fname))
		}
		sr.Images = append(sr.Images, ImageEntry{Filename: fname, Width: w, Height: h, Key: key})
	}

	SortImages(sr.Images)

	keys := make([]chapter.SortKey, len(sr.Images))
	for i, img := range sr.Images {
		keys[i] = img.Key
	}
	sr.Chapters = chapter.Set(keys)

	s.log.Debug("scanned series",
		zap.String("series", name),
		zap.Int("images", len(sr.Images)),
		zap.Int("chapters", len(sr.Chapters)))

	return sr, errs
}

// SortImages orders images by SortKey. Equal keys fall back to natural, then
// byte-wise filename order so the result never depends on directory order.
func SortImages(images []ImageEntry) {
	sort.SliceStable(images, func(i, j int) bool {
		if c := chapter.Compare(images[i].Key, images[j].Key); c != 0 {
			return c < 0
		}
		a, b := images[i].Filename, images[j].Filename
		if natural.Less(a, b) {
			return true
		}
		if natural.Less(b, a) {
			return false
		}
		return a < b
	})
}

// Slugify turns a directory name into a URL path segment.
func Slugify(name string) string {
	if s := slug.Make(name); s != "" {
		return s
	}
	return "series"
}

// DisplayTitle turns a directory name such as "one-piece" into "one piece".
func DisplayTitle(name string) string {
	return strings.ReplaceAll(name, "-", " ")
}

func isDescriptionFile(name string) bool {
	for _, d := range descriptionFiles {
		if name == d {
			return true
		}
	}
	return false
}

// imageSize sniffs the file header and decodes only the image config.
func imageSize(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return 0, 0, err
	}
	kind, err := filetype.Match(head[:n])
	if err != nil {
		return 0, 0, err
	}
	if kind.MIME.Value != "image/jpeg" && kind.MIME.Value != "image/png" {
		return 0, 0, fmt.Errorf("unsupported content type %q", kind.MIME.Value)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return 0, 0, err
	}
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("decoding image header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return 0, 0, fmt.Errorf("invalid dimensions %dx%d", cfg.Width, cfg.Height)
	}
	return cfg.Width, cfg.Height, nil
}
