package store

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MarshalArgs encodes action arguments for storage. A nil map is stored as
// an empty object.
func MarshalArgs(args map[string]any) ([]byte, error) {
	if args == nil {
		args = map[string]any{}
	}
	b, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("store: encode args: %w", err)
	}
	return b, nil
}

// UnmarshalArgs decodes stored arguments, keeping numbers as json.Number so
// integers round-trip exactly.
func UnmarshalArgs(b []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	args := map[string]any{}
	if err := dec.Decode(&args); err != nil {
		return nil, fmt.Errorf("store: decode args: %w", err)
	}
	if args == nil {
		args = map[string]any{}
	}
	return args, nil
}
