package fileutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFileAtomic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "out.html")

	if err := WriteFileAtomic(path, []byte("first")); err != nil {
		t.Fatalf("WriteFileAtomic() unexpected error: %v", err)
	}
	if err := WriteFileAtomic(path, []byte("second")); err != nil {
		t.Fatalf("WriteFileAtomic() overwrite unexpected error: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(got) != "second" {
		t.Errorf("content = %q, want %q", got, "second")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want 1 (temp file leaked)", len(entries))
	}
}

func TestWriteFileAtomic_Errors(t *testing.T) {
	t.Parallel()

	if err := WriteFileAtomic("", []byte("x")); !errors.Is(err, ErrEmptyPath) {
		t.Errorf("WriteFileAtomic(\"\") error = %v, want ErrEmptyPath", err)
	}

	missingDir := filepath.Join(t.TempDir(), "missing", "out.html")
	if err := WriteFileAtomic(missingDir, []byte("x")); err == nil {
		t.Error("WriteFileAtomic() into missing directory expected error, got nil")
	}
}

func TestStageFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "out.html")

	staged, err := StageFile(path, []byte("page"))
	if err != nil {
		t.Fatalf("StageFile() unexpected error: %v", err)
	}
	if filepath.Dir(staged) != dir {
		t.Errorf("staged in %q, want %q", filepath.Dir(staged), dir)
	}
	if filepath.Ext(staged) != ".html" {
		t.Errorf("staged extension = %q, want .html", filepath.Ext(staged))
	}
	if FileExists(path) {
		t.Error("StageFile() created the destination")
	}
	got, err := os.ReadFile(staged)
	if err != nil {
		t.Fatalf("read staged: %v", err)
	}
	if string(got) != "page" {
		t.Errorf("staged content = %q, want %q", got, "page")
	}

	if _, err := StageFile("", nil); !errors.Is(err, ErrEmptyPath) {
		t.Errorf("StageFile(\"\") error = %v, want ErrEmptyPath", err)
	}
}

func TestFileExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(file, []byte("a"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	tests := []struct {
		name string
		path string
		want bool
	}{
		{name: "regular file", path: file, want: true},
		{name: "directory", path: dir, want: false},
		{name: "missing", path: filepath.Join(dir, "nope"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := FileExists(tt.path); got != tt.want {
				t.Errorf("FileExists(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestIsFilePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{"report", false},
		{"my-config", false},
		{"./report.yaml", true},
		{"../shared/report.yaml", true},
		{"/etc/nb2html.yaml", true},
		{`C:\configs\report.yaml`, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if got := IsFilePath(tt.input); got != tt.want {
				t.Errorf("IsFilePath(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestRequireExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{name: "matching", path: "eval.ipynb"},
		{name: "uppercase", path: "EVAL.IPYNB"},
		{name: "wrong extension", path: "eval.md", wantErr: ErrInvalidExtension},
		{name: "no extension", path: "eval", wantErr: ErrInvalidExtension},
		{name: "empty", path: "", wantErr: ErrEmptyPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := RequireExtension(tt.path, ".ipynb")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("RequireExtension(%q) error = %v, want %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestDerivePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		suffix string
		outDir string
		want   string
	}{
		{
			name:   "same directory",
			input:  filepath.Join("nb", "evaluation.ipynb"),
			suffix: "_collapsible.html",
			want:   filepath.Join("nb", "evaluation_collapsible.html"),
		},
		{
			name:   "output directory",
			input:  filepath.Join("nb", "evaluation.ipynb"),
			suffix: "_custom.html",
			outDir: "out",
			want:   filepath.Join("out", "evaluation_custom.html"),
		},
		{
			name:   "ipynb elsewhere in name is kept",
			input:  "my.ipynb.backup.ipynb",
			suffix: "_collapsible.html",
			want:   "my.ipynb.backup_collapsible.html",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := DerivePath(tt.input, tt.suffix, tt.outDir); got != tt.want {
				t.Errorf("DerivePath(%q, %q, %q) = %q, want %q", tt.input, tt.suffix, tt.outDir, got, tt.want)
			}
		})
	}
}
