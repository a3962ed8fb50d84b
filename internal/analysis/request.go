package analysis

// Multipart field names.
const (
	FieldImage  = "image"
	FieldImages = "images"
	FieldPRD    = "prd"
)

// FilePart is one file in a multipart body.
type FilePart struct {
	Field string
	File  *SelectedFile
}

// FetchParams is the JSON body of a fetch-ads request.
type FetchParams struct {
	Keyword  string `json:"keyword,omitempty"`
	Platform string `json:"platform,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

// Request is a packaged outbound call. Exactly one of Parts or Params is used,
// depending on the operation.
type Request struct {
	Mode   Mode
	Parts  []FilePart
	Params *FetchParams
}

// Multipart reports whether the request is sent as multipart/form-data.
func (r Request) Multipart() bool { return r.Mode.Operation.RequiresFile() }

// Field returns the part for the given field name, or nil.
func (r Request) Field(name string) *FilePart {
	for i := range r.Parts {
		if r.Parts[i].Field == name {
			return &r.Parts[i]
		}
	}
	return nil
}

// ReasonSingleImage rejects extra images for a mode that uploads one.
const ReasonSingleImage = "mode takes a single image"

// Build packages the selected files for mode. more carries additional subject
// images; only competitor-batch sends them, each under the images field. It
// never reads file contents.
func Build(mode Mode, primary, secondary *SelectedFile, params FetchParams, more ...*SelectedFile) (Request, error) {
	req := Request{Mode: mode}
	op := mode.Operation
	if op.RequiresFile() && primary == nil {
		return Request{}, &BuildError{Reason: MsgMissingFile}
	}
	if len(more) > 0 && op != OpCompetitorBatch {
		return Request{}, &BuildError{Reason: ReasonSingleImage}
	}

	switch op {
	case OpQC, OpCRMAnalysis:
		req.Parts = append(req.Parts, FilePart{Field: FieldImage, File: primary})
		if secondary != nil {
			req.Parts = append(req.Parts, FilePart{Field: FieldPRD, File: secondary})
		}
	case OpCompetitorAnalyze, OpCompetitorCompare:
		req.Parts = append(req.Parts, FilePart{Field: FieldImage, File: primary})
	case OpCompetitorBatch:
		req.Parts = append(req.Parts, FilePart{Field: FieldImages, File: primary})
		for _, f := range more {
			if f != nil {
				req.Parts = append(req.Parts, FilePart{Field: FieldImages, File: f})
			}
		}
	case OpFetchAds:
		p := params
		req.Params = &p
	}
	return req, nil
}
