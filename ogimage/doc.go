// Package ogimage produces the social preview (Open Graph) images of the
// site in three pure stages:
//
//	Template.Post / Template.Site   metadata  -> visual tree (*Box)
//	RenderSVG                       tree      -> SVG, text as glyph outlines
//	Rasterize                       SVG       -> 1200×630 PNG
//
// The only shared state is the *FontSet, loaded once at startup with
// LoadFontSet and read concurrently by every render. Generator wires the
// stages together with caching, request collapsing and metrics.
//
// Errors carry a Code (StartupAssetMissing, RenderError, DecodeError) and
// match the ErrStartupAssetMissing, ErrRender and ErrDecode sentinels with
// errors.Is.
package ogimage
