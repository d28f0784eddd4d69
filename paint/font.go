package paint

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	gotext "github.com/go-text/typesetting/font"
	"github.com/goccy/go-yaml"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// Sentinel errors for the paint package.
var (
	// ErrEmptyFontData is returned when font data is empty.
	ErrEmptyFontData = errors.New("paint: empty font data")

	// ErrMissingRegular is returned when a font map family has no regular face.
	ErrMissingRegular = errors.New("paint: family has no regular font")
)

// Font is a parsed TrueType/OpenType font.
//
// The same bytes are parsed twice: x/image/opentype rasterises glyphs and
// go-text/typesetting shapes runs for measurement. Font is read-only after
// ParseFont and safe for concurrent use.
type Font struct {
	name  string
	ot    *opentype.Font
	shape *gotext.Font
}

// ParseFont parses TTF or OTF data. The data is not retained.
func ParseFont(data []byte) (*Font, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}
	ot, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("paint: failed to parse font: %w", err)
	}
	face, err := gotext.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("paint: failed to load font for shaping: %w", err)
	}

	f := &Font{ot: ot, shape: face.Font}
	if name, err := ot.Name(nil, sfnt.NameIDFamily); err == nil {
		f.name = name
	}
	return f, nil
}

// Name returns the family name stored in the font, if any.
func (f *Font) Name() string {
	return f.name
}

// Family is the regular and bold fonts of one family. A nil Bold falls back
// to Regular.
type Family struct {
	Regular *Font
	Bold    *Font
}

func (fam Family) pick(bold bool) *Font {
	if bold && fam.Bold != nil {
		return fam.Bold
	}
	return fam.Regular
}

// FontMap resolves render-tree font family names to fonts. Lookups are
// case-insensitive; unknown families use the default family.
//
// The zero value has no default family and is rejected by New; use
// DefaultFontMap or LoadFontMap.
type FontMap struct {
	def      Family
	families map[string]Family
}

var goFonts = sync.OnceValues(func() (Family, error) {
	regular, err := ParseFont(goregular.TTF)
	if err != nil {
		return Family{}, err
	}
	bold, err := ParseFont(gobold.TTF)
	if err != nil {
		return Family{}, err
	}
	return Family{Regular: regular, Bold: bold}, nil
})

// DefaultFontMap returns a map with no named families whose default is the
// Go font family.
func DefaultFontMap() (*FontMap, error) {
	def, err := goFonts()
	if err != nil {
		return nil, err
	}
	return &FontMap{def: def, families: map[string]Family{}}, nil
}

// Set binds a family name.
func (m *FontMap) Set(name string, fam Family) error {
	if fam.Regular == nil {
		return fmt.Errorf("%w: %q", ErrMissingRegular, name)
	}
	if m.families == nil {
		m.families = make(map[string]Family)
	}
	m.families[strings.ToLower(name)] = fam
	return nil
}

// Lookup returns the font for a family and weight.
func (m *FontMap) Lookup(family string, bold bool) *Font {
	if fam, ok := m.families[strings.ToLower(family)]; ok {
		return fam.pick(bold)
	}
	return m.def.pick(bold)
}

// valid returns an error unless m has a default family.
func (m *FontMap) valid() error {
	if m.def.Regular == nil {
		return fmt.Errorf("%w: default", ErrMissingRegular)
	}
	return nil
}

// Has reports whether family is bound explicitly.
func (m *FontMap) Has(family string) bool {
	_, ok := m.families[strings.ToLower(family)]
	return ok
}

// fontMapConfig is the YAML form of a FontMap:
//
//	default:
//	  regular: fonts/NotoSerif-Regular.ttf
//	  bold: fonts/NotoSerif-Bold.ttf
//	families:
//	  Times New Roman:
//	    regular: fonts/Tinos-Regular.ttf
//	    bold: fonts/Tinos-Bold.ttf
type fontMapConfig struct {
	Default  *familyConfig           `yaml:"default"`
	Families map[string]familyConfig `yaml:"families"`
}

type familyConfig struct {
	Regular string `yaml:"regular"`
	Bold    string `yaml:"bold"`
}

// LoadFontMap reads a YAML font map from r. Font paths are resolved in fsys.
// Without a default entry the Go fonts are used.
func LoadFontMap(r io.Reader, fsys fs.FS) (*FontMap, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("paint: read font map: %w", err)
	}
	var cfg fontMapConfig
	if err := yaml.UnmarshalWithOptions(data, &cfg, yaml.DisallowUnknownField()); err != nil {
		return nil, fmt.Errorf("paint: decode font map: %w", err)
	}

	m, err := DefaultFontMap()
	if err != nil {
		return nil, err
	}
	if cfg.Default != nil {
		if m.def, err = cfg.Default.load(fsys, "default"); err != nil {
			return nil, err
		}
	}
	for name, fc := range cfg.Families {
		fam, err := fc.load(fsys, name)
		if err != nil {
			return nil, err
		}
		if err := m.Set(name, fam); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// LoadFontMapFile reads a YAML font map from the named file. Font paths are
// relative to the map file's directory.
func LoadFontMapFile(name string) (*FontMap, error) {
	f, err := os.Open(name) // #nosec G304 -- path is provided by the user
	if err != nil {
		return nil, fmt.Errorf("paint: open font map: %w", err)
	}
	defer f.Close()
	return LoadFontMap(f, os.DirFS(filepath.Dir(name)))
}

func (fc familyConfig) load(fsys fs.FS, name string) (Family, error) {
	if fc.Regular == "" {
		return Family{}, fmt.Errorf("%w: %q", ErrMissingRegular, name)
	}
	regular, err := loadFont(fsys, fc.Regular)
	if err != nil {
		return Family{}, fmt.Errorf("paint: family %q: %w", name, err)
	}
	fam := Family{Regular: regular}
	if fc.Bold != "" {
		if fam.Bold, err = loadFont(fsys, fc.Bold); err != nil {
			return Family{}, fmt.Errorf("paint: family %q: %w", name, err)
		}
	}
	return fam, nil
}

func loadFont(fsys fs.FS, name string) (*Font, error) {
	data, err := fs.ReadFile(fsys, path.Clean(filepath.ToSlash(name)))
	if err != nil {
		return nil, err
	}
	return ParseFont(data)
}
