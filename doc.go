// Package nb2html converts Jupyter notebooks to HTML pages whose code cells
// can be collapsed one by one or all at once.
//
// # Quick Start
//
//	conv, err := nb2html.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	result, err := conv.ConvertSimple(ctx, "analysis.ipynb", "")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("wrote", result.OutputPath) // analysis_collapsible.html
//
// # Conversion Modes
//
// Simple mode runs `jupyter nbconvert --to html` and splices a small
// stylesheet and script immediately before the last </body> tag. The
// snippet adds a toggle button above every code input area and a pair of
// global expand/collapse buttons. Injection is idempotent.
//
// Custom mode needs no Jupyter installation. It parses the notebook JSON and
// renders it with an html/template page: markdown cells through Goldmark,
// code cells optionally highlighted with Chroma, and outputs chosen by MIME
// priority (text/html, image/png, image/jpeg, text/plain). The template is
// first written to disk by WriteTemplate so it can be edited and reused.
//
// # Configuration
//
//	conv, err := nb2html.NewConverter(
//	    nb2html.WithBinary("/opt/conda/bin/jupyter"),
//	    nb2html.WithTimeout(10 * time.Minute),
//	    nb2html.WithMarkerPolicy(nb2html.MarkerAppend),
//	    nb2html.WithHighlight(true),
//	    nb2html.WithLogger(logger),
//	)
//
// # Errors
//
// Failures belong to a closed set of sentinels matched with errors.Is:
// ErrProcessFailed, ErrDependencyMissing, ErrParse, ErrIO,
// ErrBodyMarkerNotFound and ErrInvalidInput. A failed nbconvert run is
// returned as *ProcessError with the exit code and captured stderr.
//
// # PDF Export
//
// WithPDF(true) prints the finished page to PDF with headless Chrome
// (go-rod), code cells expanded. Set ROD_BROWSER_BIN to use a specific
// browser and ROD_NO_SANDBOX=1 inside containers.
package nb2html
