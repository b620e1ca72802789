package certgen

import (
	"bytes"
	"fmt"
	"image/color"
	"os"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
)

const (
	canvasWidth  = 1200
	canvasHeight = 850
)

// Renderer draws course completion certificates as PNG images. A TTF
// font may be supplied for the headline; without one the library's
// built-in face is used, which keeps tests free of font files.
type Renderer struct {
	titleFace font.Face
	bodyFace  font.Face
}

func NewRenderer(fontPath string) (*Renderer, error) {
	r := &Renderer{}
	if fontPath == "" {
		return r, nil
	}

	data, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read certificate font: %w", err)
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse certificate font: %w", err)
	}
	r.titleFace = truetype.NewFace(f, &truetype.Options{Size: 56})
	r.bodyFace = truetype.NewFace(f, &truetype.Options{Size: 32})
	return r, nil
}

// Render produces the PNG artifact for one issuance.
func (r *Renderer) Render(userName, courseTitle string, issuedAt time.Time) ([]byte, error) {
	dc := gg.NewContext(canvasWidth, canvasHeight)

	dc.SetColor(color.White)
	dc.Clear()

	// Border.
	dc.SetRGB(0.13, 0.22, 0.42)
	dc.SetLineWidth(12)
	dc.DrawRectangle(30, 30, canvasWidth-60, canvasHeight-60)
	dc.Stroke()
	dc.SetLineWidth(2)
	dc.DrawRectangle(50, 50, canvasWidth-100, canvasHeight-100)
	dc.Stroke()

	cx := float64(canvasWidth) / 2

	if r.titleFace != nil {
		dc.SetFontFace(r.titleFace)
	}
	dc.SetRGB(0.13, 0.22, 0.42)
	dc.DrawStringAnchored("Certificate of Completion", cx, 200, 0.5, 0.5)

	if r.bodyFace != nil {
		dc.SetFontFace(r.bodyFace)
	}
	dc.SetRGB(0.2, 0.2, 0.2)
	dc.DrawStringAnchored("This certifies that", cx, 320, 0.5, 0.5)
	dc.DrawStringAnchored(userName, cx, 400, 0.5, 0.5)
	dc.DrawStringAnchored("has successfully completed the course", cx, 480, 0.5, 0.5)
	dc.DrawStringAnchored(courseTitle, cx, 560, 0.5, 0.5)
	dc.DrawStringAnchored(issuedAt.Format("January 2, 2006"), cx, 680, 0.5, 0.5)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode certificate png: %w", err)
	}
	return buf.Bytes(), nil
}
