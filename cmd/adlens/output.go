package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jask/adlens/internal/analysis"
)

func printResult(w io.Writer, dm analysis.DisplayModel) {
	fmt.Fprintf(w, "Overall: %s\n", dm.Overall)
	for _, c := range dm.Cards {
		fmt.Fprintf(w, "\n[%s] %s\n", c.Status, c.Title)
		for _, row := range c.Checks {
			if row.Details != "" {
				fmt.Fprintf(w, "  %-4s %s: %s\n", row.Status, row.Label, row.Details)
			} else {
				fmt.Fprintf(w, "  %-4s %s\n", row.Status, row.Label)
			}
		}
		if len(c.Issues) > 0 {
			fmt.Fprintln(w, "  Issues:")
			for _, s := range c.Issues {
				fmt.Fprintf(w, "    - %s\n", s)
			}
		}
		if len(c.Recommendations) > 0 {
			fmt.Fprintln(w, "  Recommendations:")
			for _, s := range c.Recommendations {
				fmt.Fprintf(w, "    - %s\n", s)
			}
		}
	}
}

func printError(w io.Writer, e *analysis.ErrorInfo) {
	if e == nil {
		return
	}
	fmt.Fprintf(w, "error (%s): %s\n", e.Category, e.Message)
}

// printJSON indents body when it is JSON and echoes it otherwise.
func printJSON(w io.Writer, body []byte) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "  "); err != nil {
		_, _ = w.Write(body)
		fmt.Fprintln(w)
		return
	}
	buf.WriteByte('\n')
	_, _ = buf.WriteTo(w)
}
