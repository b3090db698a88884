package ptb

import (
	"encoding/json"
	"math/big"
	"strings"
)

// TypedValue is the result of coercing a literal against its declared type.
// Value holds *big.Int for unsigned integers, bool, Address, string, or
// []TypedValue for vectors. Module-defined types pass through as the raw
// string.
type TypedValue struct {
	Type  MoveType
	Value any
}

// uintMax caches the closed upper bound 2^n - 1 per integer kind.
var uintMax = map[TypeKind]*big.Int{
	KindU8:   maxForBits(8),
	KindU16:  maxForBits(16),
	KindU32:  maxForBits(32),
	KindU64:  maxForBits(64),
	KindU128: maxForBits(128),
	KindU256: maxForBits(256),
}

func maxForBits(n uint) *big.Int {
	max := new(big.Int).Lsh(big.NewInt(1), n)
	return max.Sub(max, big.NewInt(1))
}

// Validate checks and coerces a raw literal against a declared Move type.
// It is a pure function: callers run it eagerly on every edit and the builder
// runs it again, mandatorily, immediately before lowering.
//
// Integer bounds are checked with unbounded-precision arithmetic for every
// width; machine integers silently truncate u64 and wider. Reference
// parameters (&T, &mut T) require an object-id-shaped value regardless of the
// underlying type. Module-defined types are accepted without deep validation,
// the module's full type definition is not available here.
func Validate(value string, typ MoveType) (TypedValue, error) {
	if requiresObject(typ) {
		id, err := ParseAddress(value)
		if err != nil {
			return TypedValue{}, retypeAddressError(err, typ)
		}
		return TypedValue{Type: typ, Value: id}, nil
	}

	switch typ.Kind {
	case KindU8, KindU16, KindU32, KindU64, KindU128, KindU256:
		return validateUnsigned(value, typ)

	case KindBool:
		switch value {
		case "true":
			return TypedValue{Type: typ, Value: true}, nil
		case "false":
			return TypedValue{Type: typ, Value: false}, nil
		default:
			return TypedValue{}, newValidationError(InvalidBoolean, value, typ.String())
		}

	case KindAddress:
		addr, err := ParseAddress(value)
		if err != nil {
			return TypedValue{}, err
		}
		return TypedValue{Type: typ, Value: addr}, nil

	case KindString:
		return TypedValue{Type: typ, Value: value}, nil

	case KindVector:
		return validateVector(value, typ)

	default:
		// Module-defined type: syntactic passthrough only.
		return TypedValue{Type: typ, Value: value}, nil
	}
}

func validateUnsigned(value string, typ MoveType) (TypedValue, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" || trimmed[0] == '+' {
		return TypedValue{}, newValidationError(NotANumber, value, typ.String())
	}

	n, ok := new(big.Int).SetString(trimmed, 10)
	if !ok {
		return TypedValue{}, newValidationError(NotANumber, value, typ.String())
	}
	if n.Sign() < 0 || n.Cmp(uintMax[typ.Kind]) > 0 {
		return TypedValue{}, newValidationError(OutOfRange, value, typ.String())
	}
	return TypedValue{Type: typ, Value: n}, nil
}

func validateVector(value string, typ MoveType) (TypedValue, error) {
	if typ.Elem == nil {
		return TypedValue{}, newValidationError(InvalidVector, value, typ.String())
	}

	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(value), &raw); err != nil {
		verr := newValidationError(InvalidVector, value, typ.String())
		verr.Err = err
		return TypedValue{}, verr
	}

	elems := make([]TypedValue, len(raw))
	for i, r := range raw {
		tv, err := Validate(elementLiteral(r), *typ.Elem)
		if err != nil {
			// Each vector level prepends its index, so a nested failure
			// carries the full path down to the failing element.
			if verr, ok := err.(*ValidationError); ok {
				verr.Element = i
				verr.Path = append([]int{i}, verr.Path...)
			}
			return TypedValue{}, err
		}
		elems[i] = tv
	}
	return TypedValue{Type: typ, Value: elems}, nil
}

// elementLiteral renders one JSON array element back into the literal form
// Validate expects: strings are unquoted, everything else is kept verbatim.
func elementLiteral(r json.RawMessage) string {
	var s string
	if err := json.Unmarshal(r, &s); err == nil {
		return s
	}
	return string(r)
}

// retypeAddressError rewrites the declared type on an address-format error so
// reference parameters report the type the caller actually declared.
func retypeAddressError(err error, typ MoveType) error {
	if verr, ok := err.(*ValidationError); ok {
		verr.DeclaredType = typ.String()
	}
	return err
}
