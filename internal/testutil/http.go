// Package testutil provides small helpers shared by tests.
package testutil

import (
	"encoding/json"
	"io"
)

// DecodeJSON decodes JSON from a reader
func DecodeJSON(r io.Reader, v interface{}) error {
	return json.NewDecoder(r).Decode(v)
}
