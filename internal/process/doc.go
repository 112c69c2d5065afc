// Package process manages the lifetime of external converter processes.
//
// Converters such as jupyter nbconvert spawn their own children (kernels,
// preprocessors). Killing only the direct child on cancellation would leave
// those running, so callers start the command in a separate process group
// with Isolate and tear the whole group down with KillGroup.
package process
