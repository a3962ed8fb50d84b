package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/jask/adlens/internal/analysis"
)

// quoteEscaper escapes header parameters the way multipart.Writer.CreateFormFile does.
var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// encode renders the request body fully before anything is sent, so that a
// failure to read a file surfaces as a local error.
func encode(req analysis.Request) (io.Reader, string, error) {
	if !req.Multipart() {
		params := req.Params
		if params == nil {
			params = &analysis.FetchParams{}
		}
		data, err := json.Marshal(params)
		if err != nil {
			return nil, "", fmt.Errorf("marshal params: %w", err)
		}
		return bytes.NewReader(data), "application/json", nil
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, part := range req.Parts {
		if err := writePart(w, part); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

func writePart(w *multipart.Writer, part analysis.FilePart) error {
	rc, err := part.File.Open()
	if err != nil {
		return fmt.Errorf("open %s: %w", part.Field, err)
	}
	defer rc.Close()

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(part.Field), quoteEscaper.Replace(part.File.Name)))
	ct := part.File.MIME
	if ct == "" {
		ct = "application/octet-stream"
	}
	h.Set("Content-Type", ct)

	dst, err := w.CreatePart(h)
	if err != nil {
		return fmt.Errorf("create part %s: %w", part.Field, err)
	}
	if _, err := io.Copy(dst, rc); err != nil {
		return fmt.Errorf("copy %s: %w", part.Field, err)
	}
	return nil
}
