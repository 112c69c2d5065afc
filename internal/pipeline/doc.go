// Package pipeline implements the HTML stages shared by both conversion modes.
//
// It covers:
//   - splicing the collapsible snippet (and an optional stylesheet) into an
//     HTML document
//   - rendering markdown cells with Goldmark
//   - highlighting code cells with Chroma
//   - resolving image sources in rendered markdown
//   - sanitizing untrusted output HTML with bluemonday
//   - executing the notebook page template
//
// Running the external converter lives in internal/nbconvert, and PDF export
// is handled by the root nb2html package with headless Chrome (go-rod).
package pipeline
