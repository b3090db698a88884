package ptb

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ReturnValue is one raw return value from a simulated execution: the bytes
// as produced by the ledger and the Move type tag reported alongside them.
type ReturnValue struct {
	Bytes []byte
	Type  MoveType
}

// DecodedValue is one decoded return value. Decoding is best-effort: an
// unrecognized type passes its bytes through verbatim with Raw set, and a
// malformed value for a recognized type carries a per-element Err rather than
// failing the whole decode.
type DecodedValue struct {
	Type MoveType

	// Uint is set for unsigned integer types.
	Uint *big.Int

	// Bool is set for bool.
	Bool bool

	// Address is set for address and object types.
	Address Address

	// Raw holds the verbatim bytes for unrecognized types.
	Raw []byte

	// IsRaw marks a passthrough value the caller must interpret itself.
	IsRaw bool

	// Err reports a malformed value, such as a wrong byte length for a
	// fixed-width type.
	Err error
}

// String renders the decoded value for presentation.
func (v DecodedValue) String() string {
	switch {
	case v.Err != nil:
		return fmt.Sprintf("<invalid %s: %v>", v.Type, v.Err)
	case v.IsRaw:
		return hexutil.Encode(v.Raw)
	case v.Uint != nil:
		return v.Uint.String()
	case v.Type.Kind == KindBool:
		return fmt.Sprintf("%t", v.Bool)
	case v.Type.Kind == KindAddress || v.Type.Kind == KindObject:
		return v.Address.Hex()
	default:
		return hexutil.Encode(v.Raw)
	}
}

// DecodeReturnValues decodes every raw return value. It never fails as a
// whole: per-value problems are recorded on the value itself.
func DecodeReturnValues(values []ReturnValue) []DecodedValue {
	out := make([]DecodedValue, len(values))
	for i, rv := range values {
		out[i] = decodeReturnValue(rv)
	}
	return out
}

func decodeReturnValue(rv ReturnValue) DecodedValue {
	switch rv.Type.Kind {
	case KindU8, KindU16, KindU32, KindU64, KindU128, KindU256:
		return decodeUnsigned(rv)

	case KindBool:
		if len(rv.Bytes) != 1 {
			return DecodedValue{Type: rv.Type, Err: &DecodeError{Type: rv.Type, Want: 1, Got: len(rv.Bytes)}}
		}
		return DecodedValue{Type: rv.Type, Bool: rv.Bytes[0] == 1}

	case KindAddress, KindObject:
		// Addresses are not numeric: bytes render in the order received.
		if len(rv.Bytes) != AddressLength {
			return DecodedValue{Type: rv.Type, Err: &DecodeError{Type: rv.Type, Want: AddressLength, Got: len(rv.Bytes)}}
		}
		var a Address
		copy(a[:], rv.Bytes)
		return DecodedValue{Type: rv.Type, Address: a}

	default:
		// Unrecognized type: verbatim passthrough, never an error.
		return DecodedValue{Type: rv.Type, Raw: rv.Bytes, IsRaw: true}
	}
}

// decodeUnsigned interprets the bytes as a little-endian unsigned integer.
// Accumulation uses big.Int throughout so widths above 64 bits are exact.
func decodeUnsigned(rv ReturnValue) DecodedValue {
	want := rv.Type.Bits() / 8
	if len(rv.Bytes) != want {
		return DecodedValue{Type: rv.Type, Err: &DecodeError{Type: rv.Type, Want: want, Got: len(rv.Bytes)}}
	}

	// sum(byte[i] << 8*i)
	reversed := make([]byte, len(rv.Bytes))
	for i, b := range rv.Bytes {
		reversed[len(rv.Bytes)-1-i] = b
	}
	return DecodedValue{Type: rv.Type, Uint: new(big.Int).SetBytes(reversed)}
}

// DecodeError reports a wrong byte length for a fixed-width return type.
type DecodeError struct {
	Type MoveType
	Want int
	Got  int
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("ptb: decode %s: want %d bytes, got %d", e.Type, e.Want, e.Got)
}
