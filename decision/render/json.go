package render

import (
	"encoding/json"
	"io"
)

// JSON writes v as indented JSON. It is used for reports, inventories and
// comparisons alike.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
