package notebook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// MIME types understood by the renderer.
const (
	MIMEHTML  = "text/html"
	MIMEPNG   = "image/png"
	MIMEJPEG  = "image/jpeg"
	MIMEGIF   = "image/gif"
	MIMEPlain = "text/plain"
)

// mimePriority is the order in which rich output payloads are chosen.
var mimePriority = []string{MIMEHTML, MIMEPNG, MIMEJPEG, MIMEPlain}

// Output is one execution output of a code cell.
// Which fields are populated depends on OutputType.
type Output struct {
	OutputType     string                     `json:"output_type"`
	Name           string                     `json:"name,omitempty"` // stream: stdout or stderr
	Text           MultilineString            `json:"text,omitempty"`
	Data           map[string]MultilineString `json:"data,omitempty"`
	ExecutionCount *int                       `json:"execution_count,omitempty"`
	EName          string                     `json:"ename,omitempty"`
	EValue         string                     `json:"evalue,omitempty"`
	Traceback      []string                   `json:"traceback,omitempty"`
}

// IsRich reports whether the output carries a MIME bundle.
func (o Output) IsRich() bool {
	return o.OutputType == OutputExecuteResult || o.OutputType == OutputDisplayData
}

// Preferred returns the single payload to render for a rich output.
// Priority is HTML, then PNG, then JPEG, then plain text.
func (o Output) Preferred() (mime, payload string, ok bool) {
	for _, m := range mimePriority {
		if v, found := o.Data[m]; found {
			return m, string(v), true
		}
	}
	return "", "", false
}

// MultilineString is nbformat's text field: either a string or a list of
// strings meant to be concatenated.
type MultilineString string

// UnmarshalJSON accepts both the string and the list form.
func (m *MultilineString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*m = ""
		return nil
	}

	if data[0] == '[' {
		var parts []string
		if err := json.Unmarshal(data, &parts); err != nil {
			return fmt.Errorf("multiline string: %w", err)
		}
		*m = MultilineString(strings.Join(parts, ""))
		return nil
	}

	// Some producers store JSON payloads (application/json) as objects.
	if data[0] == '{' {
		*m = MultilineString(data)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("multiline string: %w", err)
	}
	*m = MultilineString(s)
	return nil
}

// String returns the joined text.
func (m MultilineString) String() string { return string(m) }
