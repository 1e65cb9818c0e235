package capture

import (
	"fmt"

	"github.com/bft-labs/labelrec/internal/domain"
)

// DecodePolicy selects how non-ASCII bytes from the device are handled.
type DecodePolicy string

const (
	// DecodeStrict treats any non-ASCII byte as a fatal DecodeError.
	DecodeStrict DecodePolicy = "strict"
	// DecodeDrop removes non-ASCII bytes and keeps the line.
	DecodeDrop DecodePolicy = "drop"
)

// ParseDecodePolicy validates a configured policy name.
func ParseDecodePolicy(s string) (DecodePolicy, error) {
	switch DecodePolicy(s) {
	case DecodeStrict, DecodeDrop:
		return DecodePolicy(s), nil
	case "":
		return DecodeStrict, nil
	}
	return "", fmt.Errorf("unknown decode policy %q (use strict or drop)", s)
}

// Decode converts one raw line to text under policy p.
func Decode(raw []byte, p DecodePolicy) (string, error) {
	for i, b := range raw {
		if b < 0x80 {
			continue
		}
		if p != DecodeDrop {
			return "", &domain.DecodeError{Offset: i, Byte: b}
		}
		out := make([]byte, 0, len(raw))
		for _, c := range raw {
			if c < 0x80 {
				out = append(out, c)
			}
		}
		return string(out), nil
	}
	return string(raw), nil
}
