package capture

import (
	"errors"
	"testing"

	"github.com/bft-labs/labelrec/internal/domain"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		policy  DecodePolicy
		want    string
		wantErr bool
	}{
		{"ascii strict", "00000001 12 34\r\n", DecodeStrict, "00000001 12 34\r\n", false},
		{"high byte strict", "ab\x80c", DecodeStrict, "", true},
		{"high byte drop", "ab\x80c\xffd", DecodeDrop, "abcd", false},
		{"empty", "", DecodeStrict, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.raw), tt.policy)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Decode() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var de *domain.DecodeError
				if !errors.As(err, &de) || de.Offset != 2 {
					t.Errorf("error = %#v, want DecodeError at offset 2", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("Decode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseDecodePolicy(t *testing.T) {
	if p, err := ParseDecodePolicy(""); err != nil || p != DecodeStrict {
		t.Errorf("empty policy = %v, %v; want strict", p, err)
	}
	if p, err := ParseDecodePolicy("drop"); err != nil || p != DecodeDrop {
		t.Errorf("drop policy = %v, %v", p, err)
	}
	if _, err := ParseDecodePolicy("lenient"); err == nil {
		t.Error("unknown policy accepted")
	}
}
