package assets

import (
	"errors"
	"strings"
	"testing"
)

func TestEmbeddedLoader_LoadTemplate(t *testing.T) {
	t.Parallel()

	loader := NewEmbeddedLoader()

	tests := []struct {
		name        string
		template    string
		wantErr     error
		wantContain string
	}{
		{
			name:        "loads default notebook template",
			template:    DefaultTemplateName,
			wantContain: ".Notebook.Cells",
		},
		{
			name:     "nonexistent template",
			template: "nonexistent-xyz",
			wantErr:  ErrTemplateNotFound,
		},
		{
			name:     "invalid name",
			template: "../notebook",
			wantErr:  ErrInvalidAssetName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := loader.LoadTemplate(tt.template)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("LoadTemplate(%q) error = %v, want %v", tt.template, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadTemplate(%q) unexpected error: %v", tt.template, err)
			}
			if !strings.Contains(got, tt.wantContain) {
				t.Errorf("LoadTemplate(%q) missing %q", tt.template, tt.wantContain)
			}
		})
	}
}

func TestEmbeddedLoader_LoadSnippet(t *testing.T) {
	t.Parallel()

	loader := NewEmbeddedLoader()

	got, err := loader.LoadSnippet(DefaultSnippetName)
	if err != nil {
		t.Fatalf("LoadSnippet() unexpected error: %v", err)
	}
	for _, want := range []string{`data-nb2html="collapsible"`, "<style", "<script", "toggleAllCode"} {
		if !strings.Contains(got, want) {
			t.Errorf("collapsible snippet missing %q", want)
		}
	}

	if _, err := loader.LoadSnippet("missing"); !errors.Is(err, ErrSnippetNotFound) {
		t.Errorf("LoadSnippet(missing) error = %v, want ErrSnippetNotFound", err)
	}
}
