package analysis

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
)

// FileKind is the coarse MIME category of a picked file.
type FileKind int

const (
	KindOther FileKind = iota
	KindImage
	KindDocument
)

func (k FileKind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindDocument:
		return "document"
	case KindOther:
		return "other"
	}
	return "other"
}

// Image and document types the picker offers.
var (
	ImageExtensions    = []string{".jpeg", ".jpg", ".png"}
	DocumentExtensions = []string{".pdf"}
)

// SelectedFile is a user-chosen payload. The bytes are not held; open streams
// them when the request is sent.
type SelectedFile struct {
	Name string
	Size int64
	MIME string
	Kind FileKind

	open func() (io.ReadCloser, error)
}

// Open returns a reader over the file contents.
func (f *SelectedFile) Open() (io.ReadCloser, error) {
	if f == nil || f.open == nil {
		return nil, fmt.Errorf("file %q has no content", f.displayName())
	}
	return f.open()
}

func (f *SelectedFile) displayName() string {
	if f == nil {
		return ""
	}
	return f.Name
}

// SizeMB renders the size the way the preview shows it.
func (f *SelectedFile) SizeMB() string {
	if f == nil {
		return "0.00 MB"
	}
	return fmt.Sprintf("%.2f MB", float64(f.Size)/1024/1024)
}

// FileFromPath stats and sniffs a file on disk.
func FileFromPath(path string) (*SelectedFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, fmt.Errorf("detect type of %s: %w", path, err)
	}
	return &SelectedFile{
		Name: filepath.Base(path),
		Size: info.Size(),
		MIME: mt.String(),
		Kind: kindOf(mt),
		open: func() (io.ReadCloser, error) { return os.Open(path) },
	}, nil
}

// FileFromBytes wraps an in-memory payload.
func FileFromBytes(name string, data []byte) *SelectedFile {
	mt := mimetype.Detect(data)
	buf := append([]byte(nil), data...)
	return &SelectedFile{
		Name: name,
		Size: int64(len(buf)),
		MIME: mt.String(),
		Kind: kindOf(mt),
		open: func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(buf)), nil },
	}
}

func kindOf(mt *mimetype.MIME) FileKind {
	for m := mt; m != nil; m = m.Parent() {
		switch {
		case m.Is("image/jpeg"), m.Is("image/png"):
			return KindImage
		case m.Is("application/pdf"):
			return KindDocument
		}
	}
	return KindOther
}
