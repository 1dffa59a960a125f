package bridge

import (
	"errors"
	"testing"

	"github.com/snmptree/snmptree-go/pkg/registry"
)

func TestDecodeBool(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want bool
	}{
		{"one is true", 1, true},
		{"zero is false", 0, false},
		{"two is false", 2, false},
		{"negative is false", -1, false},
		{"large is false", 100, false},
		{"int64 one", int64(1), true},
		{"uint one", uint(1), true},
		{"uint32 one", uint32(1), true},
		{"int8 one", int8(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeBool(tt.raw)
			if err != nil {
				t.Fatalf("decodeBool(%v) error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("decodeBool(%v) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestDecodeBool_NonInteger(t *testing.T) {
	for _, raw := range []any{"1", []byte{1}, 1.0, true, nil} {
		if _, err := decodeBool(raw); !errors.Is(err, ErrDecode) {
			t.Errorf("decodeBool(%T) error = %v, want %v", raw, err, ErrDecode)
		}
	}
}

func TestDecodeString(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want string
	}{
		{"string verbatim", "SmartUPS 3000", "SmartUPS 3000"},
		{"empty string", "", ""},
		{"octet string bytes", []byte("231.5 V"), "231.5 V"},
		{"empty bytes", []byte{}, ""},
		{"whitespace preserved", "  padded  ", "  padded  "},
		{"integer formatted", 42, "42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeString(tt.raw)
			if err != nil {
				t.Fatalf("decodeString(%v) error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("decodeString(%v) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestDecoderFor(t *testing.T) {
	boolDecode := decoderFor(registry.KindBool)
	v, err := boolDecode(1)
	if err != nil || v != true {
		t.Errorf("bool decoder(1) = %v, %v", v, err)
	}

	stringDecode := decoderFor(registry.KindString)
	v, err = stringDecode("x")
	if err != nil || v != "x" {
		t.Errorf("string decoder(x) = %v, %v", v, err)
	}
}
