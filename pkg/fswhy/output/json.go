package output

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/jamesainslie/fswhy/pkg/fswhy/types"
)

// document is the structure shared by the json and yaml formatters.
type document struct {
	Source  string            `json:"source" yaml:"source"`
	Sort    string            `json:"sort" yaml:"sort"`
	Stats   documentStats     `json:"stats" yaml:"stats"`
	Rows    []Row             `json:"rows" yaml:"rows"`
	Skipped []types.ScanError `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

type documentStats struct {
	Dirs       int64  `json:"dirs" yaml:"dirs"`
	Files      int64  `json:"files" yaml:"files"`
	Bytes      int64  `json:"bytes" yaml:"bytes"`
	BytesHuman string `json:"bytes_human" yaml:"bytes_human"`
	Skipped    int64  `json:"skipped" yaml:"skipped"`
	Duration   string `json:"duration,omitempty" yaml:"duration,omitempty"`
}

func buildDocument(r *Result) document {
	rows := r.Rows
	if rows == nil {
		rows = []Row{}
	}
	return document{
		Source: r.Source,
		Sort:   r.Sort,
		Stats: documentStats{
			Dirs:       r.Stats.Dirs,
			Files:      r.Stats.Files,
			Bytes:      r.Stats.Bytes,
			BytesHuman: types.FormatSize(r.Stats.Bytes),
			Skipped:    r.Stats.Skipped,
			Duration:   formatDurationString(r.Stats.Elapsed),
		},
		Rows:    rows,
		Skipped: r.Skipped,
	}
}

// formatDurationString formats a duration for structured output.
func formatDurationString(d time.Duration) string {
	if d == 0 {
		return ""
	}
	return d.Round(time.Millisecond).String()
}

// JSONFormatter formats output as a single indented JSON object.
type JSONFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *JSONFormatter) Format(w *bytes.Buffer, r *Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildDocument(r))
}

func init() {
	Register("json", func() Formatter {
		return &JSONFormatter{}
	})
}

// Ensure JSONFormatter implements Formatter.
var _ Formatter = (*JSONFormatter)(nil)
