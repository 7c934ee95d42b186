package resolve

import (
	"errors"
	"math"
	"testing"

	"github.com/printforge/imageconv/core"
	apperrors "github.com/printforge/imageconv/errors"
)

func src(w, h int) core.SourceImage {
	return core.SourceImage{Name: "test", Width: w, Height: h}
}

func TestResolve_PresetNativeDPI(t *testing.T) {
	r := New(nil, 300)

	got, err := r.Resolve(src(1920, 1080), core.OutputSettings{
		Mode:     core.SizePreset,
		PresetID: "print-quality",
		DPI:      300,
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := core.ResolvedDimensions{Width: 4500, Height: 5400, DPI: 300}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestResolve_PresetDPIRescale(t *testing.T) {
	r := New(nil, 300)

	// web preset is 1800x2400 at native 72 dpi; asking for 150 dpi scales
	// the pixel grid by 150/72.
	got, err := r.Resolve(src(100, 100), core.OutputSettings{
		Mode:     core.SizePreset,
		PresetID: "web",
		DPI:      150,
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := core.ResolvedDimensions{Width: 3750, Height: 5000, DPI: 150}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestResolve_Modes(t *testing.T) {
	r := New(nil, 300)

	tests := []struct {
		name     string
		srcW     int
		srcH     int
		settings core.OutputSettings
		want     core.ResolvedDimensions
	}{
		{
			name:     "custom no rescale",
			srcW:     100, srcH: 100,
			settings: core.OutputSettings{Mode: core.SizeCustom, CustomWidth: 1000, CustomHeight: 800, DPI: 600},
			want:     core.ResolvedDimensions{Width: 1000, Height: 800, DPI: 600},
		},
		{
			name:     "scale percent",
			srcW:     1920, srcH: 1080,
			settings: core.OutputSettings{Mode: core.SizeScalePercent, ScalePercent: 50, DPI: 300},
			want:     core.ResolvedDimensions{Width: 960, Height: 540, DPI: 300},
		},
		{
			name:     "scale percent rounds",
			srcW:     333, srcH: 111,
			settings: core.OutputSettings{Mode: core.SizeScalePercent, ScalePercent: 50, DPI: 300},
			want:     core.ResolvedDimensions{Width: 167, Height: 56, DPI: 300},
		},
		{
			name:     "original keeps source size even with dpi change",
			srcW:     800, srcH: 600,
			settings: core.OutputSettings{Mode: core.SizeOriginal, DPI: 600},
			want:     core.ResolvedDimensions{Width: 800, Height: 600, DPI: 600},
		},
		{
			name:     "empty mode treated as original",
			srcW:     640, srcH: 480,
			settings: core.OutputSettings{DPI: 72},
			want:     core.ResolvedDimensions{Width: 640, Height: 480, DPI: 72},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := r.Resolve(src(tc.srcW, tc.srcH), tc.settings)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestResolve_DPIDefaultPrecedence(t *testing.T) {
	// Explicit value wins over the configured default.
	r := New(nil, 150)
	got, err := r.Resolve(src(10, 10), core.OutputSettings{Mode: core.SizeOriginal, DPI: 72})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.DPI != 72 {
		t.Errorf("explicit dpi: got %d, want 72", got.DPI)
	}

	// Configured default wins over the hard-coded constant.
	got, err = r.Resolve(src(10, 10), core.OutputSettings{Mode: core.SizeOriginal})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.DPI != 150 {
		t.Errorf("configured default: got %d, want 150", got.DPI)
	}

	// Hard-coded constant is the last resort.
	r = New(nil, 0)
	got, err = r.Resolve(src(10, 10), core.OutputSettings{Mode: core.SizeOriginal})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.DPI != core.DefaultDPI {
		t.Errorf("fallback: got %d, want %d", got.DPI, core.DefaultDPI)
	}
}

func TestResolve_Errors(t *testing.T) {
	r := New(nil, 300)

	tests := []struct {
		name     string
		source   core.SourceImage
		settings core.OutputSettings
		sentinel error
	}{
		{
			name:     "too large after rescale",
			source:   src(100, 100),
			settings: core.OutputSettings{Mode: core.SizePreset, PresetID: "print-quality", DPI: 2400},
			sentinel: apperrors.ErrDimensionsTooLarge,
		},
		{
			name:     "custom too large",
			source:   src(100, 100),
			settings: core.OutputSettings{Mode: core.SizeCustom, CustomWidth: 40000, CustomHeight: 100, DPI: 300},
			sentinel: apperrors.ErrDimensionsTooLarge,
		},
		{
			name:     "unknown preset",
			source:   src(100, 100),
			settings: core.OutputSettings{Mode: core.SizePreset, PresetID: "nope"},
			sentinel: apperrors.ErrUnknownPreset,
		},
		{
			name:     "custom without dimensions",
			source:   src(100, 100),
			settings: core.OutputSettings{Mode: core.SizeCustom},
			sentinel: apperrors.ErrInvalidSettings,
		},
		{
			name:     "zero scale percent",
			source:   src(100, 100),
			settings: core.OutputSettings{Mode: core.SizeScalePercent},
			sentinel: apperrors.ErrInvalidSettings,
		},
		{
			name:     "bad source size",
			source:   src(0, 100),
			settings: core.OutputSettings{Mode: core.SizeOriginal},
			sentinel: apperrors.ErrInvalidSettings,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := r.Resolve(tc.source, tc.settings)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, tc.sentinel) {
				t.Errorf("error %v does not wrap %v", err, tc.sentinel)
			}
		})
	}
}

func TestResolve_UserPresetOverridesBuiltin(t *testing.T) {
	cat := NewCatalog([]core.Preset{{ID: "web", Width: 640, Height: 480, DPI: 96}})
	r := New(cat, 300)

	got, err := r.Resolve(src(10, 10), core.OutputSettings{
		Mode:     core.SizePreset,
		PresetID: "web",
		DPI:      96,
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.Width != 640 || got.Height != 480 {
		t.Errorf("got %dx%d, want 640x480", got.Width, got.Height)
	}
}

func TestFitRect(t *testing.T) {
	tests := []struct {
		name                         string
		srcW, srcH, targetW, targetH int
		wantW, wantH, wantX, wantY   int
	}{
		{"wide source fits to width", 1920, 1080, 1000, 1000, 1000, 563, 0, 218},
		{"tall source fits to height", 1080, 1920, 1000, 1000, 563, 1000, 218, 0},
		{"equal aspect fills target", 500, 500, 200, 200, 200, 200, 0, 0},
		{"exact match", 800, 600, 800, 600, 800, 600, 0, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w, h, x, y := FitRect(tc.srcW, tc.srcH, tc.targetW, tc.targetH)
			if w != tc.wantW || h != tc.wantH || x != tc.wantX || y != tc.wantY {
				t.Errorf("FitRect(%d,%d,%d,%d) = %d,%d,%d,%d; want %d,%d,%d,%d",
					tc.srcW, tc.srcH, tc.targetW, tc.targetH,
					w, h, x, y, tc.wantW, tc.wantH, tc.wantX, tc.wantY)
			}
		})
	}
}

func TestFitRect_PreservesAspectRatio(t *testing.T) {
	sizes := []struct{ sw, sh, tw, th int }{
		{1920, 1080, 300, 400}, {640, 480, 1000, 250}, {123, 457, 88, 33},
		{3000, 1000, 500, 500}, {1, 1000, 400, 400},
	}
	for _, s := range sizes {
		w, h, _, _ := FitRect(s.sw, s.sh, s.tw, s.th)
		aspect := float64(s.sw) / float64(s.sh)
		// Draw rect must match the source aspect within one pixel of rounding.
		if math.Abs(float64(w)-float64(h)*aspect) > 1 {
			t.Errorf("FitRect(%d,%d,%d,%d) = %dx%d: aspect drifted beyond 1px",
				s.sw, s.sh, s.tw, s.th, w, h)
		}
		if w > s.tw || h > s.th {
			t.Errorf("FitRect(%d,%d,%d,%d) = %dx%d exceeds target", s.sw, s.sh, s.tw, s.th, w, h)
		}
	}
}
