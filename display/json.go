package display

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// MarshalJSON marshals JSON indented for humans, or compact when
// PADDOCK_JSON_COMPACT is set (one document per line for piping).
func MarshalJSON(v interface{}) ([]byte, error) {
	if os.Getenv("PADDOCK_JSON_COMPACT") != "" {
		return json.Marshal(v)
	}
	return json.MarshalIndent(v, "", "  ")
}

// WriteJSON marshals v with MarshalJSON and writes it to w followed by a newline.
func WriteJSON(w io.Writer, v interface{}) error {
	data, err := MarshalJSON(v)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
