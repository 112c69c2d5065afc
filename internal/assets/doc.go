// Package assets provides the HTML template and injected snippet used to
// build collapsible notebook pages.
//
// Assets live in two trees with the same layout:
//
//	templates/{name}.tmpl   html/template notebook page (notebook.tmpl)
//	snippets/{name}.html    markup spliced before </body> (collapsible.html)
//
// NewEmbeddedLoader reads the copy compiled into the binary.
// NewFilesystemLoader reads a directory on disk through an os.Root.
// AssetResolver stacks a directory over the built-in tree, so a user can
// override only the snippet and keep the built-in template, or the reverse.
//
// Asset names are restricted to letters, digits, '-' and '_'.
package assets
