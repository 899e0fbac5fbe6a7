package cli

import (
	"encoding/json"
	"io"
)

// WriteJSON writes v to w as indented JSON with a trailing newline. Commands
// use it for their machine-readable output path.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
