package export

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/harmonograph/internal/sim"
)

// ToRGBA expands a packed frame into an RGBA image.
func ToRGBA(fb *sim.FrameBuffer) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	FillRGBA(img.Pix, fb)
	return img
}

// FillRGBA writes fb into an RGBA byte slice of at least 4*Width*Height bytes.
func FillRGBA(dst []byte, fb *sim.FrameBuffer) {
	for i, p := range fb.Pix {
		r, g, b := p.RGB8()
		o := i * 4
		dst[o] = r
		dst[o+1] = g
		dst[o+2] = b
		dst[o+3] = 0xFF
	}
}

func WritePNG(w io.Writer, fb *sim.FrameBuffer) error {
	return png.Encode(w, ToRGBA(fb))
}

func SavePNG(path string, fb *sim.FrameBuffer) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WritePNG(f, fb); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Hex formats a packed pixel as #rrggbb.
func Hex(c sim.RGB565) string {
	col, _ := colorful.MakeColor(c)
	return col.Hex()
}

var _ color.Color = sim.RGB565(0)
