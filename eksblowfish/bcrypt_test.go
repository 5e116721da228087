package eksblowfish

import (
	"bytes"
	"strings"
	"testing"
)

func TestDeriveEmptySecretDeterministic(t *testing.T) {
	salt := bytes.Repeat([]byte{0x00}, 16)
	var out1, out2 [24]byte
	it1, err := Derive(out1[:], nil, salt, 4, false)
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	if it1 != 16 {
		t.Errorf("iterations = %d, want 16", it1)
	}
	it2, err := Derive(out2[:], []byte{}, salt, 4, false)
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	if it2 != it1 || out1 != out2 {
		t.Error("Derive with nil vs empty secret produced different results")
	}
}

func TestDerivePasswordCost6(t *testing.T) {
	salt := []byte("\x10\x41\x04\x10\x41\x04\x10\x41\x04\x10\x41\x04\x10\x41\x04\x10")
	var out [24]byte
	it, err := Derive(out[:], []byte("password"), salt, 6, false)
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	if it != 64 {
		t.Errorf("iterations = %d, want 64", it)
	}
}

func TestDeriveShortLengthIsPrefixOfLong(t *testing.T) {
	salt := bytes.Repeat([]byte{0xAA}, 16)
	secret := []byte("pass\x00word")
	var long [24]byte
	if _, err := Derive(long[:], secret, salt, 5, false); err != nil {
		t.Fatalf("Derive(24): %v", err)
	}
	var short [16]byte
	it, err := Derive(short[:], secret, salt, 5, false)
	if err != nil {
		t.Fatalf("Derive(16): %v", err)
	}
	if it != 32 {
		t.Errorf("iterations = %d, want 32", it)
	}
	if !bytes.Equal(short[:], long[:16]) {
		t.Error("Derive(16) is not a prefix of Derive(24)")
	}
}

func TestDeriveTruncationBug(t *testing.T) {
	salt := bytes.Repeat([]byte{0x00}, 16)
	secret := bytes.Repeat([]byte{'a'}, 256)
	var withBug, withoutBug, empty [24]byte
	if _, err := Derive(withBug[:], secret, salt, 4, true); err != nil {
		t.Fatalf("Derive(truncBug=true): %v", err)
	}
	if _, err := Derive(withoutBug[:], secret, salt, 4, false); err != nil {
		t.Fatalf("Derive(truncBug=false): %v", err)
	}
	if _, err := Derive(empty[:], nil, salt, 4, false); err != nil {
		t.Fatalf("Derive(empty): %v", err)
	}
	if bytes.Equal(withBug[:], withoutBug[:]) {
		t.Error("trunc_bug=true and trunc_bug=false produced identical output for a 256-byte secret")
	}
	if withBug != empty {
		t.Error("trunc_bug=true with a 256-byte secret did not match an empty-secret derivation")
	}
}

func TestDeriveCostClamping(t *testing.T) {
	salt := bytes.Repeat([]byte{0x00}, 16)
	var low, floor [24]byte
	it, err := Derive(low[:], []byte("x"), salt, 2, false)
	if err != nil {
		t.Fatalf("Derive(cost=2): %v", err)
	}
	if it != 16 {
		t.Errorf("iterations = %d, want 16", it)
	}
	if _, err := Derive(floor[:], []byte("x"), salt, 4, false); err != nil {
		t.Fatalf("Derive(cost=4): %v", err)
	}
	if low != floor {
		t.Error("Derive(cost=2) does not match Derive(cost=4)")
	}
}

func TestDeriveInvalidDerivedLength(t *testing.T) {
	salt := bytes.Repeat([]byte{0x00}, 16)
	out := make([]byte, 25)
	_, err := Derive(out, []byte("x"), salt, 4, false)
	if _, ok := err.(InvalidDerivedLengthError); !ok {
		t.Errorf("Derive(derived_len=25): got %v, want InvalidDerivedLengthError", err)
	}
	out = make([]byte, 0)
	if _, err := Derive(out, []byte("x"), salt, 4, false); err == nil {
		t.Error("Derive(derived_len=0): got nil error")
	}
}

func TestDeriveEmptySalt(t *testing.T) {
	var out [24]byte
	_, err := Derive(out[:], []byte("x"), nil, 4, false)
	if err != ErrEmptySalt {
		t.Errorf("Derive(salt=nil): got %v, want ErrEmptySalt", err)
	}
}

func TestDeriveSaltSensitivity(t *testing.T) {
	secret := []byte("correct horse battery staple")
	for cost := uint32(4); cost <= 5; cost++ {
		salts := make([][]byte, 10)
		for i := range salts {
			salt := bytes.Repeat([]byte{byte(i + 1)}, 16)
			salt[0] ^= byte(i)
			salts[i] = salt
		}
		outs := make([][24]byte, len(salts))
		for i, salt := range salts {
			if _, err := Derive(outs[i][:], secret, salt, cost, false); err != nil {
				t.Fatalf("Derive: %v", err)
			}
		}
		for i := 1; i < len(outs); i++ {
			if outs[i] == outs[0] {
				t.Errorf("cost=%d: salts[0] and salts[%d] produced identical output", cost, i)
			}
		}
	}
}

func TestDeriveIsDeterministic(t *testing.T) {
	salt := []byte("0123456789abcdef")
	secret := []byte("a secret")
	var a, b [24]byte
	if _, err := Derive(a[:], secret, salt, 4, false); err != nil {
		t.Fatalf("Derive: %v", err)
	}
	if _, err := Derive(b[:], secret, salt, 4, false); err != nil {
		t.Fatalf("Derive: %v", err)
	}
	if a != b {
		t.Error("two Derive calls with identical inputs produced different output")
	}
}

type fakeParams struct {
	truncBug  bool
	haveTrunc bool
	cost      uint32
	haveCost  bool
	salt      []byte
	haveSalt  bool
}

func (p fakeParams) Bool(name string) (bool, bool) {
	if name == "TruncationBug" {
		return p.truncBug, p.haveTrunc
	}
	return false, false
}

func (p fakeParams) Uint32(name string) (uint32, bool) {
	if name == "Cost" {
		return p.cost, p.haveCost
	}
	return 0, false
}

func (p fakeParams) Bytes(name string) ([]byte, bool) {
	if name == "Salt" {
		return p.salt, p.haveSalt
	}
	return nil, false
}

func TestDeriveWithParamsDefaults(t *testing.T) {
	salt := bytes.Repeat([]byte{0x00}, 16)
	var viaParams, viaDirect [24]byte
	it, err := DeriveWithParams(viaParams[:], []byte("hunter2"), fakeParams{salt: salt, haveSalt: true})
	if err != nil {
		t.Fatalf("DeriveWithParams: %v", err)
	}
	if it != uint64(1)<<DefaultCost {
		t.Errorf("iterations = %d, want %d", it, uint64(1)<<DefaultCost)
	}
	if _, err := Derive(viaDirect[:], []byte("hunter2"), salt, DefaultCost, false); err != nil {
		t.Fatalf("Derive: %v", err)
	}
	if viaParams != viaDirect {
		t.Error("DeriveWithParams defaults do not match Derive(DefaultCost, false)")
	}
}

func TestDeriveWithParamsEmptySalt(t *testing.T) {
	_, err := DeriveWithParams(make([]byte, 24), []byte("x"), fakeParams{})
	if err != ErrEmptySalt {
		t.Errorf("DeriveWithParams(no salt): got %v, want ErrEmptySalt", err)
	}
}

type sequenceReader struct {
	next byte
}

func (r *sequenceReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = r.next
		r.next++
	}
	return len(p), nil
}

func TestGenerateSalt(t *testing.T) {
	salt := make([]byte, SaltSize)
	if err := GenerateSalt(&sequenceReader{}, salt); err != nil {
		t.Fatalf("GenerateSalt: %v", err)
	}
	for i, b := range salt {
		if b != byte(i) {
			t.Errorf("salt[%d] = %d, want %d", i, b, i)
		}
	}
}

func TestAlgorithmMetadata(t *testing.T) {
	if AlgorithmName() != "bcrypt" {
		t.Errorf("AlgorithmName() = %q, want %q", AlgorithmName(), "bcrypt")
	}
	if MaxDerivedLength() != DefaultDerived {
		t.Errorf("MaxDerivedLength() = %d, want %d", MaxDerivedLength(), DefaultDerived)
	}
	if MaxSecretLength() != MaxPass {
		t.Errorf("MaxSecretLength() = %d, want %d", MaxSecretLength(), MaxPass)
	}
	if n := ValidDerivedLength(100); n != DefaultDerived {
		t.Errorf("ValidDerivedLength(100) = %d, want %d", n, DefaultDerived)
	}
	if n := ValidDerivedLength(10); n != 10 {
		t.Errorf("ValidDerivedLength(10) = %d, want 10", n)
	}
}

func TestDeriveLongSecretClamped(t *testing.T) {
	salt := bytes.Repeat([]byte{0x00}, 16)
	secret := []byte(strings.Repeat("a", 100))
	clamped := secret[:MaxPass]
	var got, want [24]byte
	if _, err := Derive(got[:], secret, salt, 4, false); err != nil {
		t.Fatalf("Derive: %v", err)
	}
	if _, err := Derive(want[:], clamped, salt, 4, false); err != nil {
		t.Fatalf("Derive: %v", err)
	}
	if got != want {
		t.Error("secrets longer than MaxPass are not silently truncated to MaxPass bytes")
	}
}
