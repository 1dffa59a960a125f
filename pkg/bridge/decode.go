package bridge

import (
	"errors"
	"fmt"

	"github.com/snmptree/snmptree-go/pkg/registry"
)

// ErrDecode indicates a raw reading could not be decoded for its
// quantity's kind.
var ErrDecode = errors.New("decode failed")

// decodeFunc converts a raw polled value to the typed leaf value.
type decodeFunc func(raw any) (any, error)

// decoderFor returns the decode function for a quantity kind.
// The function is captured once per quantity at mapper construction;
// there is no per-cycle dispatch on kind or key.
func decoderFor(kind registry.Kind) decodeFunc {
	if kind == registry.KindBool {
		return decodeBool
	}
	return decodeString
}

// decodeString converts the raw value to its textual representation
// verbatim. Octet strings arrive as byte slices and are taken as-is,
// including the empty string.
func decodeString(raw any) (any, error) {
	switch v := raw.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		return fmt.Sprint(v), nil
	}
}

// decodeBool interprets the raw value as an integer and compares it for
// equality to 1. Every other integer, including negatives and values
// above 1, decodes to false. This is the device's binary encoding, not
// a generic integer-to-boolean cast.
func decodeBool(raw any) (any, error) {
	n, ok := toInt64(raw)
	if !ok {
		return nil, fmt.Errorf("%w: expected integer, got %T", ErrDecode, raw)
	}
	return n == 1, nil
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return int64(n), true
	default:
		return 0, false
	}
}
