package codec_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-nb2html/internal/codec"
)

type sample struct {
	Binary string   `yaml:"binary" toml:"binary"`
	Args   []string `yaml:"args" toml:"args"`
	Quiet  bool     `yaml:"quiet" toml:"quiet"`
}

func TestUnmarshalStrict(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		format  codec.Format
		data    string
		wantErr error
		want    sample
	}{
		{
			name:   "yaml",
			format: codec.YAML,
			data:   "binary: jupyter\nargs: [--no-input]\nquiet: true",
			want:   sample{Binary: "jupyter", Args: []string{"--no-input"}, Quiet: true},
		},
		{
			name:   "toml",
			format: codec.TOML,
			data:   "binary = \"jupyter\"\nargs = [\"--no-input\"]\nquiet = true",
			want:   sample{Binary: "jupyter", Args: []string{"--no-input"}, Quiet: true},
		},
		{name: "empty", format: codec.YAML, data: "", wantErr: codec.ErrEmptyData},
		{name: "unknown format", format: codec.Format("ini"), data: "a=1", wantErr: codec.ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got sample
			err := codec.UnmarshalStrict(tt.format, []byte(tt.data), &got)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("UnmarshalStrict() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("UnmarshalStrict() unexpected error: %v", err)
			}
			if got.Binary != tt.want.Binary || got.Quiet != tt.want.Quiet || strings.Join(got.Args, ",") != strings.Join(tt.want.Args, ",") {
				t.Errorf("UnmarshalStrict() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestUnmarshalStrict_RejectsUnknownFields(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		format codec.Format
		data   string
	}{
		{codec.YAML, "binary: jupyter\ntypo: 1"},
		{codec.TOML, "binary = \"jupyter\"\ntypo = 1"},
	} {
		var got sample
		if err := codec.UnmarshalStrict(tt.format, []byte(tt.data), &got); err == nil {
			t.Errorf("UnmarshalStrict(%s) with unknown field: expected error", tt.format)
		}
	}
}

func TestUnmarshalStrict_Limits(t *testing.T) {
	t.Parallel()

	big := []byte("binary: " + strings.Repeat("x", codec.MaxInputSize))
	if err := codec.UnmarshalStrict(codec.YAML, big, &sample{}); !errors.Is(err, codec.ErrInputTooLarge) {
		t.Errorf("oversized input error = %v, want ErrInputTooLarge", err)
	}
	if err := codec.UnmarshalStrict(codec.YAML, []byte("binary: x"), nil); !errors.Is(err, codec.ErrNilDestination) {
		t.Errorf("nil destination error = %v, want ErrNilDestination", err)
	}
}

func TestMarshal_RoundTrip(t *testing.T) {
	t.Parallel()

	in := sample{Binary: "/opt/conda/bin/jupyter", Args: []string{"--no-input"}}
	for _, format := range []codec.Format{codec.YAML, codec.TOML} {
		data, err := codec.Marshal(format, in)
		if err != nil {
			t.Fatalf("Marshal(%s) error: %v", format, err)
		}
		var out sample
		if err := codec.UnmarshalStrict(format, data, &out); err != nil {
			t.Fatalf("UnmarshalStrict(%s) error: %v", format, err)
		}
		if out.Binary != in.Binary {
			t.Errorf("%s round trip Binary = %q", format, out.Binary)
		}
	}
}

func TestFormatFromPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path    string
		want    codec.Format
		wantErr bool
	}{
		{path: "nb2html.yaml", want: codec.YAML},
		{path: "conf/NB2HTML.YML", want: codec.YAML},
		{path: "nb2html.toml", want: codec.TOML},
		{path: "nb2html.json", wantErr: true},
	}

	for _, tt := range tests {
		got, err := codec.FormatFromPath(tt.path)
		if tt.wantErr != (err != nil) || got != tt.want {
			t.Errorf("FormatFromPath(%q) = %q, %v", tt.path, got, err)
		}
	}

	if _, err := codec.ParseFormat("TOML"); err != nil {
		t.Errorf("ParseFormat(TOML) error = %v", err)
	}
}
