package export

import (
	"bytes"
	"image/png"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/harmonograph/internal/dynamo"
	"github.com/san-kum/harmonograph/internal/sim"
)

func TestToRGBA(t *testing.T) {
	fb := sim.NewFrameBuffer(3, 2)
	fb.Set(2, 1, 0xF800)

	img := ToRGBA(fb)
	if img.Bounds().Dx() != 3 || img.Bounds().Dy() != 2 {
		t.Fatalf("unexpected bounds %v", img.Bounds())
	}
	c := img.RGBAAt(2, 1)
	if c.R != 255 || c.G != 0 || c.B != 0 || c.A != 255 {
		t.Errorf("expected opaque red, got %+v", c)
	}
	if bg := img.RGBAAt(0, 0); bg.R != 0 || bg.A != 255 {
		t.Errorf("expected opaque black, got %+v", bg)
	}
}

func TestWritePNG(t *testing.T) {
	fb := sim.NewFrameBuffer(16, 8)
	fb.Set(3, 4, 0x07E0)

	var buf bytes.Buffer
	if err := WritePNG(&buf, fb); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	_, g, _, _ := img.At(3, 4).RGBA()
	if g>>8 != 255 {
		t.Errorf("expected full green, got %d", g>>8)
	}
}

func TestSavePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.png")
	if err := SavePNG(path, sim.NewFrameBuffer(4, 4)); err != nil {
		t.Fatal(err)
	}
	if err := SavePNG(filepath.Join(t.TempDir(), "missing", "frame.png"), sim.NewFrameBuffer(4, 4)); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestHex(t *testing.T) {
	tests := []struct {
		in   sim.RGB565
		want string
	}{
		{0x0000, "#000000"},
		{0xFFFF, "#ffffff"},
		{0xF800, "#ff0000"},
		{0x001F, "#0000ff"},
	}
	for _, tt := range tests {
		if got := Hex(tt.in); got != tt.want {
			t.Errorf("Hex(%#04x): expected %s, got %s", tt.in, tt.want, got)
		}
	}
}

func TestStrandsToSVG(t *testing.T) {
	table := dynamo.MustSineTable(1024)
	g := sim.NewGenerator(table, sim.NewParams(16, 4, 32, 235), 100, 100)

	c := dynamo.Composition{Scale: 0.25, XOffset: 0.5, YOffset: 0.5}
	svg := StrandsToSVG(g, 0.7, c, 0.6)

	inside := 0
	g.Walk(0.7, c, func(p sim.Point) {
		if p.PX >= 0 && p.PX < 100 && p.PY >= 0 && p.PY < 100 {
			inside++
		}
	})

	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Error("malformed svg envelope")
	}
	if n := strings.Count(svg, "<g id=\"strand-"); n != 4 {
		t.Errorf("expected 4 strand groups, got %d", n)
	}
	if strings.Count(svg, "<g ") != strings.Count(svg, "</g>") {
		t.Error("unbalanced groups")
	}
	if inside == 0 {
		t.Fatal("expected on-screen points")
	}
	if n := strings.Count(svg, "<circle"); n != inside {
		t.Errorf("expected %d dots, got %d", inside, n)
	}
}
