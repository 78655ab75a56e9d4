package ogimage

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"golang.org/x/image/font/sfnt"
)

// FontStyle is the declared style of a font face.
type FontStyle string

const (
	StyleNormal FontStyle = "normal"
	StyleItalic FontStyle = "italic"
)

// FontFace is the declared identity of a font: what text nodes ask for.
type FontFace struct {
	Family string
	Weight int
	Style  FontStyle
}

func (f FontFace) String() string {
	return fmt.Sprintf("%q %d %s", f.Family, f.Weight, f.Style)
}

// Default font asset of the site.
const (
	DefaultFontPath   = "public/fonts/SmileySans-Oblique.ttf"
	DefaultFontFamily = "Smiley Sans Oblique"
	DefaultFontWeight = 600
)

// DefaultFontFace returns the face the font at DefaultFontPath is
// declared as.
func DefaultFontFace() FontFace {
	return FontFace{Family: DefaultFontFamily, Weight: DefaultFontWeight, Style: StyleNormal}
}

type loadedFace struct {
	decl FontFace
	font *sfnt.Font
}

// FontSet holds parsed fonts keyed by their declared face. It is built once
// at startup and only read afterwards, so it is safe for concurrent use.
type FontSet struct {
	faces  []loadedFace
	digest string
}

// LoadFontSet reads and parses the font at path, declaring it as face.
// Any failure is a StartupAssetMissing error.
func LoadFontSet(path string, face FontFace) (*FontSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, wrapError(CodeStartupAssetMissing, err, "read font %s", path)
	}
	fs, err := ParseFontSet(data, face)
	if err != nil {
		return nil, wrapError(CodeStartupAssetMissing, err, "load font %s", path)
	}
	return fs, nil
}

// ParseFontSet parses font data declared as face.
func ParseFontSet(data []byte, face FontFace) (*FontSet, error) {
	if len(data) == 0 {
		return nil, newError(CodeStartupAssetMissing, "empty font data")
	}
	if face.Family == "" {
		return nil, newError(CodeStartupAssetMissing, "font family not declared")
	}
	if face.Style == "" {
		face.Style = StyleNormal
	}
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, wrapError(CodeStartupAssetMissing, err, "parse font %s", face)
	}
	sum := sha256.New()
	sum.Write(data)
	fmt.Fprintf(sum, "|%s", face)
	return &FontSet{
		faces:  []loadedFace{{decl: face, font: f}},
		digest: hex.EncodeToString(sum.Sum(nil)),
	}, nil
}

// Lookup returns the font declared with exactly the given family, weight and
// style.
func (s *FontSet) Lookup(face FontFace) (*sfnt.Font, error) {
	if s == nil {
		return nil, newError(CodeRender, "no fonts loaded")
	}
	if face.Style == "" {
		face.Style = StyleNormal
	}
	for _, f := range s.faces {
		if f.decl == face {
			return f.font, nil
		}
	}
	return nil, newError(CodeRender, "font %s is not loaded", face)
}

// Faces returns the declared faces in load order.
func (s *FontSet) Faces() []FontFace {
	out := make([]FontFace, len(s.faces))
	for i, f := range s.faces {
		out[i] = f.decl
	}
	return out
}

// Digest identifies the font data and declarations; it changes whenever a
// different font would change rendered output.
func (s *FontSet) Digest() string {
	return s.digest
}
