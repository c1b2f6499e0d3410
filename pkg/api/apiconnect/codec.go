// Package apiconnect wires the lessmo.v1 services to Connect.
//
// Messages are the plain Go structs of package api, encoded as JSON by Codec,
// so handlers and clients must both be built by this package.
package apiconnect

import (
	"encoding/json"
	"fmt"
)

// Codec encodes messages as JSON. It is registered under the name "json",
// so it serves the application/json and application/connect+json content types.
type Codec struct{}

// Name implements connect.Codec.
func (Codec) Name() string { return "json" }

// Marshal implements connect.Codec.
func (Codec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

// Unmarshal implements connect.Codec. An empty body decodes to the zero message.
func (Codec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("decode %T: %w", msg, err)
	}
	return nil
}
