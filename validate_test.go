package ptb

import (
	"math/big"
	"strings"
	"testing"
)

func TestValidateUnsigned(t *testing.T) {
	// pow2 returns 2^n as a decimal string, optionally offset.
	pow2 := func(n uint, offset int64) string {
		v := new(big.Int).Lsh(big.NewInt(1), n)
		v.Add(v, big.NewInt(offset))
		return v.String()
	}

	t.Run("accepts closed range bounds per width", func(t *testing.T) {
		widths := []struct {
			typ  MoveType
			bits uint
		}{
			{TypeOf(KindU8), 8},
			{TypeOf(KindU16), 16},
			{TypeOf(KindU32), 32},
			{TypeOf(KindU64), 64},
			{TypeOf(KindU128), 128},
			{TypeOf(KindU256), 256},
		}
		for _, w := range widths {
			t.Run(w.typ.String(), func(t *testing.T) {
				for _, ok := range []string{"0", "1", pow2(w.bits, -1)} {
					tv, err := Validate(ok, w.typ)
					if err != nil {
						t.Errorf("Expected %s to validate as %s, got %v", ok, w.typ, err)
						continue
					}
					if tv.Value.(*big.Int).String() != ok {
						t.Errorf("Expected coerced value %s, got %v", ok, tv.Value)
					}
				}

				for _, bad := range []string{pow2(w.bits, 0), "-1"} {
					_, err := Validate(bad, w.typ)
					verr, ok := err.(*ValidationError)
					if !ok {
						t.Errorf("Expected *ValidationError for %s, got %v", bad, err)
						continue
					}
					if verr.Kind != OutOfRange {
						t.Errorf("Expected OutOfRange for %s as %s, got %s", bad, w.typ, verr.Kind)
					}
				}
			})
		}
	})

	t.Run("u64 boundary uses exact arithmetic", func(t *testing.T) {
		if _, err := Validate("18446744073709551615", TypeOf(KindU64)); err != nil {
			t.Errorf("Expected 2^64-1 to validate as u64, got %v", err)
		}
		if _, err := Validate("18446744073709551616", TypeOf(KindU64)); err == nil {
			t.Error("Expected 2^64 to be rejected as u64")
		}
	})

	t.Run("rejects non-integer strings", func(t *testing.T) {
		for _, bad := range []string{"", "abc", "1.5", "1e3", "0x10", "+5", "1 2"} {
			_, err := Validate(bad, TypeOf(KindU64))
			verr, ok := err.(*ValidationError)
			if !ok {
				t.Errorf("Expected *ValidationError for %q, got %v", bad, err)
				continue
			}
			if verr.Kind != NotANumber {
				t.Errorf("Expected NotANumber for %q, got %s", bad, verr.Kind)
			}
		}
	})
}

func TestValidateBool(t *testing.T) {
	t.Run("accepts exactly true and false", func(t *testing.T) {
		tv, err := Validate("true", TypeOf(KindBool))
		if err != nil || tv.Value != true {
			t.Errorf("Expected true, got %v (%v)", tv.Value, err)
		}
		tv, err = Validate("false", TypeOf(KindBool))
		if err != nil || tv.Value != false {
			t.Errorf("Expected false, got %v (%v)", tv.Value, err)
		}
	})

	t.Run("rejects everything else", func(t *testing.T) {
		for _, bad := range []string{"True", "FALSE", "1", "0", "yes", ""} {
			_, err := Validate(bad, TypeOf(KindBool))
			verr, ok := err.(*ValidationError)
			if !ok || verr.Kind != InvalidBoolean {
				t.Errorf("Expected InvalidBoolean for %q, got %v", bad, err)
			}
		}
	})
}

func TestValidateAddress(t *testing.T) {
	t.Run("valid address coerces to Address", func(t *testing.T) {
		tv, err := Validate(testAddrHex, TypeOf(KindAddress))
		if err != nil {
			t.Fatalf("Expected valid address, got %v", err)
		}
		addr, ok := tv.Value.(Address)
		if !ok {
			t.Fatalf("Expected Address value, got %T", tv.Value)
		}
		if addr.Hex() != testAddrHex {
			t.Errorf("Expected %s, got %s", testAddrHex, addr.Hex())
		}
	})

	t.Run("object id uses the same format rule", func(t *testing.T) {
		if _, err := Validate(testAddrHex, TypeOf(KindObject)); err != nil {
			t.Errorf("Expected object id to validate, got %v", err)
		}
		if _, err := Validate("0x1234", TypeOf(KindObject)); err == nil {
			t.Error("Expected short object id to be rejected")
		}
	})
}

func TestValidateReferenceParameter(t *testing.T) {
	coinRef := ParseMoveType("&mut 0x2::coin::Coin<0x2::iota::IOTA>")

	t.Run("literal for a reference parameter must be an object id", func(t *testing.T) {
		if _, err := Validate(testAddrHex, coinRef); err != nil {
			t.Errorf("Expected object id literal to satisfy &mut parameter, got %v", err)
		}

		_, err := Validate("not-an-id", coinRef)
		verr, ok := err.(*ValidationError)
		if !ok || verr.Kind != InvalidAddressFormat {
			t.Fatalf("Expected InvalidAddressFormat for plain value, got %v", err)
		}
		if verr.DeclaredType != coinRef.String() {
			t.Errorf("Expected error to name the declared type %q, got %q", coinRef.String(), verr.DeclaredType)
		}
	})
}

func TestValidateVector(t *testing.T) {
	t.Run("valid element lists", func(t *testing.T) {
		tv, err := Validate("[1, 2, 3]", VectorOf(TypeOf(KindU8)))
		if err != nil {
			t.Fatalf("Expected vector to validate, got %v", err)
		}
		elems := tv.Value.([]TypedValue)
		if len(elems) != 3 {
			t.Fatalf("Expected 3 elements, got %d", len(elems))
		}
		if elems[2].Value.(*big.Int).Int64() != 3 {
			t.Errorf("Expected third element 3, got %v", elems[2].Value)
		}
	})

	t.Run("string elements for address vectors", func(t *testing.T) {
		v := `["` + testAddrHex + `"]`
		tv, err := Validate(v, VectorOf(TypeOf(KindAddress)))
		if err != nil {
			t.Fatalf("Expected address vector to validate, got %v", err)
		}
		if len(tv.Value.([]TypedValue)) != 1 {
			t.Error("Expected one element")
		}
	})

	t.Run("non-array input is InvalidVector", func(t *testing.T) {
		_, err := Validate("1,2,3", VectorOf(TypeOf(KindU8)))
		verr, ok := err.(*ValidationError)
		if !ok || verr.Kind != InvalidVector {
			t.Fatalf("Expected InvalidVector, got %v", err)
		}
	})

	t.Run("first failing element surfaces with its index", func(t *testing.T) {
		_, err := Validate("[1, 999, 5]", VectorOf(TypeOf(KindU8)))
		verr, ok := err.(*ValidationError)
		if !ok {
			t.Fatalf("Expected *ValidationError, got %v", err)
		}
		if verr.Kind != OutOfRange {
			t.Errorf("Expected element's OutOfRange error, got %s", verr.Kind)
		}
		if verr.Element != 1 {
			t.Errorf("Expected failing element index 1, got %d", verr.Element)
		}
	})

	t.Run("nested vectors validate recursively", func(t *testing.T) {
		typ := VectorOf(VectorOf(TypeOf(KindU16)))
		if _, err := Validate("[[1,2],[65535]]", typ); err != nil {
			t.Errorf("Expected nested vector to validate, got %v", err)
		}
		if _, err := Validate("[[1],[65536]]", typ); err == nil {
			t.Error("Expected out-of-range nested element to be rejected")
		}
	})

	t.Run("nested failure carries the full index path", func(t *testing.T) {
		typ := VectorOf(VectorOf(TypeOf(KindU8)))
		_, err := Validate("[[1,2],[3,999]]", typ)
		verr, ok := err.(*ValidationError)
		if !ok {
			t.Fatalf("Expected *ValidationError, got %v", err)
		}
		if verr.Element != 1 {
			t.Errorf("Expected outer element index 1, got %d", verr.Element)
		}
		if len(verr.Path) != 2 || verr.Path[0] != 1 || verr.Path[1] != 1 {
			t.Errorf("Expected path [1 1] down to the failing element, got %v", verr.Path)
		}
		if !strings.Contains(verr.Error(), "element 1[1]") {
			t.Errorf("Expected message to name the nested element, got %s", verr.Error())
		}
	})
}

func TestValidatePassthrough(t *testing.T) {
	t.Run("string literal passes through", func(t *testing.T) {
		tv, err := Validate("hello", TypeOf(KindString))
		if err != nil || tv.Value != "hello" {
			t.Errorf("Expected string passthrough, got %v (%v)", tv.Value, err)
		}
	})

	t.Run("module-defined type passes through unchecked", func(t *testing.T) {
		typ := StructOf("0x2::balance::Balance<0x2::iota::IOTA>")
		tv, err := Validate("anything goes", typ)
		if err != nil {
			t.Fatalf("Expected struct passthrough, got %v", err)
		}
		if tv.Value != "anything goes" {
			t.Errorf("Expected raw value back, got %v", tv.Value)
		}
	})
}

func TestValidateRoundTrip(t *testing.T) {
	// Coercing a literal and decoding a return value of the same declared
	// type must reproduce the original logical value.
	t.Run("address in, address out is byte-identical", func(t *testing.T) {
		tv, err := Validate(testAddrHex, TypeOf(KindAddress))
		if err != nil {
			t.Fatal(err)
		}
		addr := tv.Value.(Address)

		decoded := DecodeReturnValues([]ReturnValue{{Bytes: addr[:], Type: TypeOf(KindAddress)}})
		if decoded[0].Err != nil {
			t.Fatalf("Expected clean decode, got %v", decoded[0].Err)
		}
		if decoded[0].Address != addr {
			t.Error("Expected byte-identical address round-trip")
		}
	})

	t.Run("u64 value round-trips through little-endian bytes", func(t *testing.T) {
		tv, err := Validate("300", TypeOf(KindU64))
		if err != nil {
			t.Fatal(err)
		}
		n := tv.Value.(*big.Int)

		le := make([]byte, 8)
		for i, b := range n.Bytes() {
			le[len(n.Bytes())-1-i] = b
		}
		decoded := DecodeReturnValues([]ReturnValue{{Bytes: le, Type: TypeOf(KindU64)}})
		if decoded[0].Uint.Cmp(n) != 0 {
			t.Errorf("Expected %v back, got %v", n, decoded[0].Uint)
		}
	})
}
