package gateway

import (
	"encoding/json"
	"fmt"
)

// Codec is the pure, stateless wire codec for gateway payloads.
//
// Encoding and decoding are distinct failure conditions: a command that
// cannot be encoded will never encode on retry (fatal for that dispatch),
// while a payload that cannot be decoded is routine hostile input on the
// ingestion path (absorbed and logged).
type Codec struct{}

// Encode serializes a value to its JSON wire form.
//
// Returns:
//   - []byte: The encoded payload
//   - error: ErrEncodeFailed (wrapped) if the value cannot be serialized
func (Codec) Encode(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodeFailed, err)
	}
	return data, nil
}

// Decode parses a JSON wire payload into the given destination.
//
// Returns:
//   - error: ErrDecodeFailed (wrapped) if the payload is not valid JSON
//     for the destination type
func (Codec) Decode(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %w", ErrDecodeFailed, err)
	}
	return nil
}
