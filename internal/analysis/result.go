package analysis

import (
	"encoding/json"
	"fmt"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"github.com/xeipuuv/gojsonschema"
)

// Status is a PASS/FAIL verdict.
type Status string

const (
	StatusPass Status = "PASS"
	StatusFail Status = "FAIL"
)

// DefaultResultKey is where the service nests sections for every mode today.
const DefaultResultKey = "qc"

// overallStatusKey sits next to the sections and is not one of them.
const overallStatusKey = "overall_status"

// Result is a fully parsed analysis response.
type Result struct {
	OverallStatus Status
	Sections      []Section
}

// Section returns the section with the given key.
func (r *Result) Section(key string) (Section, bool) {
	if r == nil {
		return Section{}, false
	}
	for _, s := range r.Sections {
		if s.Key == key {
			return s, true
		}
	}
	return Section{}, false
}

// Section is one named group of checks. Checks keep the order the service sent.
type Section struct {
	Key             string
	Status          Status
	Checks          []Check
	Issues          []string
	Recommendations []string
}

// Check is a single pass/fail line inside a section.
type Check struct {
	Key     string
	Status  Status
	Details string
}

const envelopeSchema = `{
  "type": "object",
  "required": ["status", "analysis"],
  "properties": {
    "status": {"enum": ["PASS", "FAIL"]},
    "analysis": {"type": "object"}
  }
}`

const sectionSchema = `{
  "type": "object",
  "required": ["status", "checks"],
  "properties": {
    "status": {"enum": ["PASS", "FAIL"]},
    "checks": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "required": ["status"],
        "properties": {
          "status": {"enum": ["PASS", "FAIL"]},
          "details": {"type": "string"}
        }
      }
    },
    "issues": {"type": "array", "items": {"type": "string"}},
    "recommendations": {"type": "array", "items": {"type": "string"}}
  }
}`

var (
	envelopeValidator = mustSchema(envelopeSchema)
	sectionValidator  = mustSchema(sectionSchema)
)

func mustSchema(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("compile schema: %v", err))
	}
	return s
}

type envelopeWire struct {
	Status   Status                     `json:"status"`
	Analysis map[string]json.RawMessage `json:"analysis"`
}

type sectionWire struct {
	Status          Status          `json:"status"`
	Checks          json.RawMessage `json:"checks"`
	Issues          []string        `json:"issues"`
	Recommendations []string        `json:"recommendations"`
}

type checkWire struct {
	Status  Status `json:"status"`
	Details string `json:"details"`
}

// ParseResult turns a raw success body into a Result. Any deviation from the
// expected shape yields a ServerError with the malformed-response message.
func ParseResult(mode Mode, body []byte) (Result, *ErrorInfo) {
	res, err := parseResult(mode, body)
	if err != nil {
		return Result{}, &ErrorInfo{Category: CategoryServerError, Message: MsgMalformedResponse, Cause: err}
	}
	return res, nil
}

func parseResult(mode Mode, body []byte) (Result, error) {
	if err := validateAgainst(envelopeValidator, body); err != nil {
		return Result{}, err
	}
	var env envelopeWire
	if err := json.Unmarshal(body, &env); err != nil {
		return Result{}, fmt.Errorf("decode envelope: %w", err)
	}

	raw, ok := env.Analysis[mode.ResultKey]
	if !ok {
		raw, ok = env.Analysis[DefaultResultKey]
	}
	if !ok {
		return Result{}, fmt.Errorf("no sections under analysis.%s", DefaultResultKey)
	}

	sections := orderedmap.New[string, json.RawMessage]()
	if err := json.Unmarshal(raw, sections); err != nil {
		return Result{}, fmt.Errorf("decode sections: %w", err)
	}

	res := Result{OverallStatus: env.Status}
	for pair := sections.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Key == overallStatusKey {
			continue
		}
		sec, err := parseSection(pair.Key, pair.Value)
		if err != nil {
			return Result{}, err
		}
		res.Sections = append(res.Sections, sec)
	}
	return res, nil
}

func parseSection(key string, raw json.RawMessage) (Section, error) {
	if err := validateAgainst(sectionValidator, raw); err != nil {
		return Section{}, fmt.Errorf("section %s: %w", key, err)
	}
	var w sectionWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return Section{}, fmt.Errorf("decode section %s: %w", key, err)
	}
	checks := orderedmap.New[string, checkWire]()
	if err := json.Unmarshal(w.Checks, checks); err != nil {
		return Section{}, fmt.Errorf("decode checks of %s: %w", key, err)
	}
	sec := Section{
		Key:             key,
		Status:          w.Status,
		Issues:          w.Issues,
		Recommendations: w.Recommendations,
	}
	for pair := checks.Oldest(); pair != nil; pair = pair.Next() {
		sec.Checks = append(sec.Checks, Check{Key: pair.Key, Status: pair.Value.Status, Details: pair.Value.Details})
	}
	return sec, nil
}

func validateAgainst(schema *gojsonschema.Schema, doc []byte) error {
	res, err := schema.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	if res.Valid() {
		return nil
	}
	errs := make([]string, len(res.Errors()))
	for i, desc := range res.Errors() {
		errs[i] = desc.String()
	}
	return fmt.Errorf("schema: %s", strings.Join(errs, "; "))
}
