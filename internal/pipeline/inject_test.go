package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
)

const testSnippet = `<script data-nb2html="collapsible">toggle()</script>`

func TestSnippetInjection_InjectSnippet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		policy        MarkerPolicy
		html          string
		snippet       string
		want          string
		wantPlacement Placement
		wantErr       error
	}{
		{
			name:          "inserts before body close",
			html:          "<html><body><p>x</p></body></html>",
			snippet:       testSnippet,
			want:          "<html><body><p>x</p>" + testSnippet + "</body></html>",
			wantPlacement: PlacedBeforeBody,
		},
		{
			name:          "uppercase body tag",
			html:          "<HTML><BODY>x</BODY></HTML>",
			snippet:       testSnippet,
			want:          "<HTML><BODY>x" + testSnippet + "</BODY></HTML>",
			wantPlacement: PlacedBeforeBody,
		},
		{
			name:          "uses last body close",
			html:          "<body><pre>&lt;/body&gt; in text </body></pre></body>",
			snippet:       testSnippet,
			want:          "<body><pre>&lt;/body&gt; in text </body></pre>" + testSnippet + "</body>",
			wantPlacement: PlacedBeforeBody,
		},
		{
			name:          "already injected is unchanged",
			html:          "<body>" + testSnippet + "</body>",
			snippet:       testSnippet,
			want:          "<body>" + testSnippet + "</body>",
			wantPlacement: AlreadyPresent,
		},
		{
			name:          "marker inside notebook output still injects",
			html:          `<body><div class="output"><span data-nb2html="collapsible">user output</span></div></body>`,
			snippet:       testSnippet,
			want:          `<body><div class="output"><span data-nb2html="collapsible">user output</span></div>` + testSnippet + "</body>",
			wantPlacement: PlacedBeforeBody,
		},
		{
			name:          "custom snippet detected verbatim",
			html:          "<body><b>hi</b></body>",
			snippet:       "\n<b>hi</b>\n",
			want:          "<body><b>hi</b></body>",
			wantPlacement: AlreadyPresent,
		},
		{
			name:    "missing body fails by default",
			html:    "<html><p>fragment</p></html>",
			snippet: testSnippet,
			wantErr: ErrBodyMarkerNotFound,
		},
		{
			name:          "missing body appends under append policy",
			policy:        MarkerAppend,
			html:          "<p>fragment</p>",
			snippet:       testSnippet,
			want:          "<p>fragment</p>" + testSnippet,
			wantPlacement: PlacedAtEnd,
		},
		{
			name:          "non-ascii content keeps offsets",
			html:          "<body>İstanbul ẞ</body>",
			snippet:       testSnippet,
			want:          "<body>İstanbul ẞ" + testSnippet + "</body>",
			wantPlacement: PlacedBeforeBody,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			injector := &SnippetInjection{Policy: tt.policy}
			got, placement, err := injector.InjectSnippet(context.Background(), tt.html, tt.snippet)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("InjectSnippet() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("InjectSnippet() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("InjectSnippet() =\n%q\nwant\n%q", got, tt.want)
			}
			if placement != tt.wantPlacement {
				t.Errorf("placement = %v, want %v", placement, tt.wantPlacement)
			}
		})
	}
}

func TestSnippetInjection_Idempotent(t *testing.T) {
	t.Parallel()

	injector := &SnippetInjection{}
	ctx := context.Background()

	once, _, err := injector.InjectSnippet(ctx, "<html><body></body></html>", testSnippet)
	if err != nil {
		t.Fatalf("first InjectSnippet() error: %v", err)
	}
	twice, _, err := injector.InjectSnippet(ctx, once, testSnippet)
	if err != nil {
		t.Fatalf("second InjectSnippet() error: %v", err)
	}

	if n := strings.Count(twice, testSnippet); n != 1 {
		t.Errorf("snippet count = %d, want 1", n)
	}
	if !strings.HasSuffix(twice, testSnippet+"</body></html>") {
		t.Errorf("snippet not immediately before </body>: %q", twice)
	}
}

func TestSnippetInjection_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := (&SnippetInjection{}).InjectSnippet(ctx, "<body></body>", testSnippet)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("InjectSnippet() error = %v, want context.Canceled", err)
	}
}

func TestParseMarkerPolicy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    MarkerPolicy
		wantErr bool
	}{
		{input: "", want: MarkerFail},
		{input: "fail", want: MarkerFail},
		{input: "Append", want: MarkerAppend},
		{input: "ignore", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := ParseMarkerPolicy(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidMarkerPolicy) {
					t.Errorf("ParseMarkerPolicy(%q) error = %v, want ErrInvalidMarkerPolicy", tt.input, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseMarkerPolicy(%q) = %v, %v; want %v", tt.input, got, err, tt.want)
			}
			if got.String() != strings.ToLower(tt.want.String()) {
				t.Errorf("String() = %q", got.String())
			}
		})
	}
}

func TestCSSInjection_InjectCSS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		css  string
		want string
	}{
		{
			name: "before head close",
			html: "<html><head><title>t</title></head><body></body></html>",
			css:  "p{color:red}",
			want: "<html><head><title>t</title><style>p{color:red}</style></head><body></body></html>",
		},
		{
			name: "after body open without head",
			html: `<body class="x"><p>a</p></body>`,
			css:  "p{}",
			want: `<body class="x"><style>p{}</style><p>a</p></body>`,
		},
		{
			name: "prepended to fragment",
			html: "<p>a</p>",
			css:  "p{}",
			want: "<style>p{}</style><p>a</p>",
		},
		{
			name: "empty css unchanged",
			html: "<p>a</p>",
			want: "<p>a</p>",
		},
		{
			name: "style breakout escaped",
			html: "<head></head>",
			css:  "</style><script>alert(1)</script>",
			want: `<head><style><\/style><script>alert(1)<\/script></style></head>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := (&CSSInjection{}).InjectCSS(context.Background(), tt.html, tt.css)
			if got != tt.want {
				t.Errorf("InjectCSS() =\n%q\nwant\n%q", got, tt.want)
			}
		})
	}
}
