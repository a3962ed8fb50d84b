// Package testdata writes sample files and service responses for tests.
package testdata

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// JPEG returns an encoded w x h image.
func JPEG(w, h int) []byte {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, solid(w, h), nil); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// PNG returns an encoded w x h image.
func PNG(w, h int) []byte {
	var buf bytes.Buffer
	if err := png.Encode(&buf, solid(w, h)); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func solid(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 0xf5, G: 0xc2, B: 0xe7, A: 0xff})
		}
	}
	return img
}

// PDF returns a minimal document with the given number of blank pages.
func PDF(pages int) []byte {
	var buf bytes.Buffer
	offsets := []int{}
	obj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n")
	obj("<< /Type /Catalog /Pages 2 0 R >>")
	kids := ""
	for i := 0; i < pages; i++ {
		kids += fmt.Sprintf("%d 0 R ", 3+i)
	}
	obj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, pages))
	for i := 0; i < pages; i++ {
		obj("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>")
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)
	return buf.Bytes()
}

// WriteFile writes data under dir and returns the path.
func WriteFile(tb testing.TB, dir, name string, data []byte) string {
	tb.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		tb.Fatalf("write %s: %v", path, err)
	}
	return path
}

// WriteSizedJPEG writes a file that sniffs as JPEG and is exactly size bytes.
// The tail is sparse so large sizes are cheap.
func WriteSizedJPEG(tb testing.TB, dir, name string, size int64) string {
	tb.Helper()
	path := WriteFile(tb, dir, name, JPEG(8, 8))
	if err := os.Truncate(path, size); err != nil {
		tb.Fatalf("truncate %s: %v", path, err)
	}
	return path
}

// PassBody is a success response with one passing compliance section.
const PassBody = `{"status":"PASS","analysis":{"qc":{"compliance":{"status":"PASS","checks":{},"issues":[],"recommendations":[]}}}}`

// FailBody is a failing response with two sections, checks and lists.
const FailBody = `{
  "status": "FAIL",
  "analysis": {
    "qc": {
      "overall_status": "FAIL",
      "brand_compliance": {
        "status": "FAIL",
        "checks": {
          "logo_placement": {"status": "FAIL", "details": "Logo overlaps the safe zone"},
          "color_palette": {"status": "PASS", "details": "Brand colors used"}
        },
        "issues": ["Logo too close to edge"],
        "recommendations": ["Move logo 24px inward"]
      },
      "text_legibility": {
        "status": "PASS",
        "checks": {
          "font_size": {"status": "PASS", "details": "Minimum 14px"}
        },
        "issues": [],
        "recommendations": []
      }
    }
  }
}`
