package batch

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/printforge/imageconv/core"
)

// OutputName derives the deterministic output filename for a converted
// image: base name, resolved pixel size, DPI, and the output extension.
// System assets arrive extensionless and untyped, so their name is marked to
// show the forced JPEG normalisation.
func OutputName(source string, dims core.ResolvedDimensions, format core.Format, systemAsset bool) string {
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	base = strings.TrimSpace(base)
	if base == "" || base == "." {
		base = "image"
	}
	if systemAsset {
		base += "_converted"
	}
	return fmt.Sprintf("%s_%dx%d_%ddpi%s", base, dims.Width, dims.Height, dims.DPI, format.Ext())
}
