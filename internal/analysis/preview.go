package analysis

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/ledongthuc/pdf"
)

// Preview is the one-line description shown under a picked file.
type Preview struct {
	Name   string
	Size   string
	Detail string
}

func (p Preview) String() string {
	if p.Detail == "" {
		return fmt.Sprintf("%s  %s", p.Name, p.Size)
	}
	return fmt.Sprintf("%s  %s  %s", p.Name, p.Size, p.Detail)
}

// Describe builds a preview. Decode failures leave Detail empty; a preview
// never blocks selection.
func Describe(f *SelectedFile) Preview {
	if f == nil {
		return Preview{}
	}
	p := Preview{Name: f.Name, Size: f.SizeMB()}
	switch f.Kind {
	case KindImage:
		if w, h, err := imageSize(f); err == nil {
			p.Detail = fmt.Sprintf("%dx%d", w, h)
		}
	case KindDocument:
		if n, err := pageCount(f); err == nil {
			p.Detail = pluralize(n, "page")
		}
	case KindOther:
	}
	return p
}

func imageSize(f *SelectedFile) (int, int, error) {
	rc, err := f.Open()
	if err != nil {
		return 0, 0, err
	}
	defer rc.Close()
	cfg, _, err := image.DecodeConfig(rc)
	if err != nil {
		return 0, 0, fmt.Errorf("decode image config: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}

func pageCount(f *SelectedFile) (int, error) {
	rc, err := f.Open()
	if err != nil {
		return 0, err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return 0, fmt.Errorf("read pdf: %w", err)
	}
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("open pdf: %w", err)
	}
	return r.NumPage(), nil
}

func pluralize(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}
