package ptb

import (
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// TypeKind identifies a Move primitive type.
type TypeKind uint8

const (
	// KindU8 through KindU256 are the unsigned integer widths.
	KindU8 TypeKind = iota
	KindU16
	KindU32
	KindU64
	KindU128
	KindU256

	// KindBool is the boolean type.
	KindBool

	// KindAddress is a 32-byte account address.
	KindAddress

	// KindObject is a 32-byte on-ledger object id.
	KindObject

	// KindString is a UTF-8 string.
	KindString

	// KindVector is vector<T>; Elem holds T.
	KindVector

	// KindStruct is any module-defined type the builder does not inspect.
	KindStruct
)

// RefKind records whether a parameter type was declared by reference.
type RefKind uint8

const (
	// NoRef is a plain value parameter.
	NoRef RefKind = iota

	// Ref is an immutable reference parameter (&T).
	Ref

	// MutRef is a mutable reference parameter (&mut T).
	MutRef
)

// MoveType describes the declared type of a command argument.
type MoveType struct {
	Kind TypeKind
	Ref  RefKind

	// Elem is the element type when Kind is KindVector.
	Elem *MoveType

	// Struct holds the verbatim type tag when Kind is KindStruct.
	Struct string
}

// TypeOf returns a plain MoveType for a primitive kind.
func TypeOf(kind TypeKind) MoveType {
	return MoveType{Kind: kind}
}

// VectorOf returns vector<elem>.
func VectorOf(elem MoveType) MoveType {
	return MoveType{Kind: KindVector, Elem: &elem}
}

// StructOf returns a module-defined type with the given verbatim tag.
func StructOf(tag string) MoveType {
	return MoveType{Kind: KindStruct, Struct: tag}
}

// Bits returns the width of an unsigned integer kind, or 0 for other kinds.
func (t MoveType) Bits() int {
	switch t.Kind {
	case KindU8:
		return 8
	case KindU16:
		return 16
	case KindU32:
		return 32
	case KindU64:
		return 64
	case KindU128:
		return 128
	case KindU256:
		return 256
	default:
		return 0
	}
}

// IsUnsigned reports whether the type is an unsigned integer.
func (t MoveType) IsUnsigned() bool {
	return t.Bits() > 0
}

// IsReference reports whether the parameter was declared as &T or &mut T.
// Reference parameters always require an object-shaped argument.
func (t MoveType) IsReference() bool {
	return t.Ref != NoRef
}

// String renders the type in Move source syntax.
func (t MoveType) String() string {
	var prefix string
	switch t.Ref {
	case Ref:
		prefix = "&"
	case MutRef:
		prefix = "&mut "
	}

	switch t.Kind {
	case KindU8:
		return prefix + "u8"
	case KindU16:
		return prefix + "u16"
	case KindU32:
		return prefix + "u32"
	case KindU64:
		return prefix + "u64"
	case KindU128:
		return prefix + "u128"
	case KindU256:
		return prefix + "u256"
	case KindBool:
		return prefix + "bool"
	case KindAddress:
		return prefix + "address"
	case KindObject:
		return prefix + "object"
	case KindString:
		return prefix + "string"
	case KindVector:
		if t.Elem == nil {
			return prefix + "vector<?>"
		}
		return prefix + "vector<" + t.Elem.String() + ">"
	default:
		return prefix + t.Struct
	}
}

// ParseMoveType parses a Move type signature into a MoveType.
// Reference markers (&, &mut) are recorded; unrecognized signatures are
// treated as module-defined struct types and kept verbatim.
func ParseMoveType(s string) MoveType {
	s = strings.TrimSpace(s)

	ref := NoRef
	if strings.HasPrefix(s, "&mut ") {
		ref = MutRef
		s = strings.TrimSpace(strings.TrimPrefix(s, "&mut "))
	} else if strings.HasPrefix(s, "&") {
		ref = Ref
		s = strings.TrimSpace(strings.TrimPrefix(s, "&"))
	}

	t := parseBaseType(s)
	t.Ref = ref
	return t
}

func parseBaseType(s string) MoveType {
	switch s {
	case "u8":
		return MoveType{Kind: KindU8}
	case "u16":
		return MoveType{Kind: KindU16}
	case "u32":
		return MoveType{Kind: KindU32}
	case "u64":
		return MoveType{Kind: KindU64}
	case "u128":
		return MoveType{Kind: KindU128}
	case "u256":
		return MoveType{Kind: KindU256}
	case "bool":
		return MoveType{Kind: KindBool}
	case "address":
		return MoveType{Kind: KindAddress}
	case "object":
		return MoveType{Kind: KindObject}
	}

	if strings.HasPrefix(s, "vector<") && strings.HasSuffix(s, ">") {
		elem := parseBaseType(strings.TrimSuffix(strings.TrimPrefix(s, "vector<"), ">"))
		return MoveType{Kind: KindVector, Elem: &elem}
	}

	// std::string renders as a string input even though it is a struct.
	if strings.HasSuffix(s, "::string::String") {
		return MoveType{Kind: KindString, Struct: s}
	}

	return MoveType{Kind: KindStruct, Struct: s}
}

// isTxContext reports whether a parameter type is the implicit transaction
// context supplied by the runtime. It never appears in user-facing argument
// lists.
func isTxContext(t MoveType) bool {
	return t.Kind == KindStruct && strings.HasSuffix(t.Struct, "::tx_context::TxContext")
}

// AddressLength is the byte length of an address or object id.
const AddressLength = 32

// hexAddressLength is the rendered length: "0x" plus 64 hex characters.
const hexAddressLength = 2 + 2*AddressLength

// Address is a 32-byte account address or object id.
type Address [AddressLength]byte

// ParseAddress parses a strict 0x-prefixed, 64-hex-character address.
// Strings of any other length are rejected, including otherwise valid hex of
// length 65 or 67.
func ParseAddress(s string) (Address, error) {
	var a Address
	if len(s) != hexAddressLength || !strings.HasPrefix(s, "0x") {
		return a, newValidationError(InvalidAddressFormat, s, "address")
	}
	raw, err := hexutil.Decode(s)
	if err != nil {
		verr := newValidationError(InvalidAddressFormat, s, "address")
		verr.Err = err
		return a, verr
	}
	copy(a[:], raw)
	return a, nil
}

// MustParseAddress is like ParseAddress but panics on error.
// Use only with compile-time constant values.
func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Hex renders the address as 0x followed by 64 lowercase hex characters.
func (a Address) Hex() string {
	return hexutil.Encode(a[:])
}

// String implements fmt.Stringer.
func (a Address) String() string {
	return a.Hex()
}

// IsZero reports whether the address is all zero bytes.
func (a Address) IsZero() bool {
	return a == Address{}
}

// Target identifies a Move function as package::module::function.
type Target struct {
	Package  string
	Module   string
	Function string
}

// ParseTarget parses a package::module::function path.
func ParseTarget(s string) (Target, error) {
	parts := strings.Split(s, "::")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return Target{}, &TargetError{Target: s}
	}
	return Target{Package: parts[0], Module: parts[1], Function: parts[2]}, nil
}

// MustParseTarget is like ParseTarget but panics on error.
func MustParseTarget(s string) Target {
	t, err := ParseTarget(s)
	if err != nil {
		panic(err)
	}
	return t
}

// String renders the target as package::module::function.
func (t Target) String() string {
	return t.Package + "::" + t.Module + "::" + t.Function
}

// Network names the ledger network an execution targets. The engine treats
// it as a label for error reporting; the transport binds the actual endpoint.
type Network string

const (
	// Testnet is the public test network.
	Testnet Network = "testnet"

	// Mainnet is the production network.
	Mainnet Network = "mainnet"
)

// SimulatedDigest is the reserved transaction digest reported for view calls
// that were answered by simulation alone. No transaction with this digest
// ever exists on the ledger.
const SimulatedDigest = "0xSIMULATED_NO_TRANSACTION"
