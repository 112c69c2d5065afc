// Package notebook decodes Jupyter notebooks (nbformat v4 JSON) into a
// read-only document model.
package notebook

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Sentinel errors for notebook decoding.
var (
	ErrRead              = errors.New("failed to read notebook")
	ErrParse             = errors.New("failed to parse notebook")
	ErrTooLarge          = errors.New("notebook exceeds maximum size")
	ErrUnsupportedFormat = errors.New("unsupported nbformat version")
	ErrInvalidCell       = errors.New("invalid notebook cell")
)

// MaxNotebookSize bounds how much JSON Parse will read (256 MiB).
// Notebooks with embedded images are routinely tens of megabytes.
var MaxNotebookSize int64 = 256 << 20

// MinSupportedFormat is the oldest nbformat major version understood.
const MinSupportedFormat = 4

// Cell types.
const (
	CellCode     = "code"
	CellMarkdown = "markdown"
	CellRaw      = "raw"
)

// Output types.
const (
	OutputStream        = "stream"
	OutputExecuteResult = "execute_result"
	OutputDisplayData   = "display_data"
	OutputError         = "error"
)

// Notebook is an ordered sequence of cells plus document metadata.
type Notebook struct {
	Cells         []Cell   `json:"cells"`
	Metadata      Metadata `json:"metadata"`
	NBFormat      int      `json:"nbformat"`
	NBFormatMinor int      `json:"nbformat_minor"`
}

// Metadata holds the notebook-level fields used for rendering.
type Metadata struct {
	KernelSpec   KernelSpec   `json:"kernelspec"`
	LanguageInfo LanguageInfo `json:"language_info"`
	Title        string       `json:"title,omitempty"`
}

// KernelSpec describes the kernel the notebook was last run with.
type KernelSpec struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Language    string `json:"language"`
}

// LanguageInfo describes the kernel language.
type LanguageInfo struct {
	Name          string `json:"name"`
	FileExtension string `json:"file_extension"`
}

// Cell is a single code, markdown, or raw cell.
type Cell struct {
	CellType       string          `json:"cell_type"`
	Source         MultilineString `json:"source"`
	ExecutionCount *int            `json:"execution_count,omitempty"`
	Outputs        []Output        `json:"outputs,omitempty"`
	Metadata       map[string]any  `json:"metadata,omitempty"`

	// Attachments maps a filename referenced as "attachment:<name>" in a
	// markdown cell to its MIME bundle.
	Attachments map[string]map[string]MultilineString `json:"attachments,omitempty"`
}

// IsCode reports whether the cell is a code cell.
func (c Cell) IsCode() bool { return c.CellType == CellCode }

// IsMarkdown reports whether the cell is a markdown cell.
func (c Cell) IsMarkdown() bool { return c.CellType == CellMarkdown }

// Attachment returns the first MIME type and base64 payload stored under name.
func (c Cell) Attachment(name string) (mime, payload string, ok bool) {
	bundle, found := c.Attachments[name]
	if !found {
		return "", "", false
	}
	for _, m := range []string{MIMEPNG, MIMEJPEG, MIMEGIF} {
		if data, has := bundle[m]; has {
			return m, data.String(), true
		}
	}
	return "", "", false
}

// Parse decodes a notebook from r and validates its structure.
// Input larger than MaxNotebookSize is rejected with ErrTooLarge.
func Parse(r io.Reader) (*Notebook, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxNotebookSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRead, err)
	}
	if int64(len(data)) > MaxNotebookSize {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, MaxNotebookSize)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrParse)
	}

	var nb Notebook
	if err := json.Unmarshal(data, &nb); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	if err := nb.Validate(); err != nil {
		return nil, err
	}
	return &nb, nil
}

// ReadFile reads and parses the notebook at path.
func ReadFile(path string) (*Notebook, error) {
	f, err := os.Open(path) // #nosec G304 -- user-provided notebook path
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRead, err)
	}
	defer f.Close()

	nb, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return nb, nil
}

// Validate checks the parts of the schema the renderer relies on.
func (nb *Notebook) Validate() error {
	if nb.NBFormat < MinSupportedFormat {
		return fmt.Errorf("%w: %d (need %d or later)", ErrUnsupportedFormat, nb.NBFormat, MinSupportedFormat)
	}
	for i, c := range nb.Cells {
		switch c.CellType {
		case CellCode, CellMarkdown, CellRaw:
		default:
			return fmt.Errorf("%w: cell %d has type %q", ErrInvalidCell, i, c.CellType)
		}
	}
	return nil
}

// Language returns the kernel language name, or "" if the notebook does not say.
func (nb *Notebook) Language() string {
	if nb.Metadata.LanguageInfo.Name != "" {
		return nb.Metadata.LanguageInfo.Name
	}
	return nb.Metadata.KernelSpec.Language
}

// CodeCells counts the code cells in the notebook.
func (nb *Notebook) CodeCells() int {
	n := 0
	for _, c := range nb.Cells {
		if c.IsCode() {
			n++
		}
	}
	return n
}
