package eksblowfish

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func hexBytes(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("hex.DecodeString(%q): %v", s, err)
	}
	return b
}

// Published Blowfish test vectors (key, plaintext, ciphertext), a subset of
// the vectors Bruce Schneier distributed with the reference implementation.
func TestBlowfishVectors(t *testing.T) {
	tests := []struct {
		key, plain, cipher string
	}{
		{"0000000000000000", "0000000000000000", "4EF997456198DD78"},
		{"FFFFFFFFFFFFFFFF", "FFFFFFFFFFFFFFFF", "51866FD5B85ECB8A"},
		{"3000000000000000", "1000000000000001", "7D856F9A613063F2"},
		{"1111111111111111", "1111111111111111", "2466DD878B963C9D"},
		{"0123456789ABCDEF", "1111111111111111", "61F9C3802281B096"},
		{"1111111111111111", "0123456789ABCDEF", "7D0CC630AFDA1EC7"},
		{"FEDCBA9876543210", "0123456789ABCDEF", "0ACEAB0FC6A0A28D"},
		{"0101010101010101", "0123456789ABCDEF", "FA34EC4847B268B2"},
		{"0000000000000000", "FFFFFFFFFFFFFFFF", "014933E0CDAFF6E4"},
		{"FFFFFFFFFFFFFFFF", "0000000000000000", "F21E9A77B71C49BC"},
		{"0123456789ABCDEF", "0000000000000000", "245946885754369A"},
		{"FEDCBA9876543210", "FFFFFFFFFFFFFFFF", "6B5C5A9C5D9E0A5A"},
	}
	for _, tt := range tests {
		key := hexBytes(t, tt.key)
		want := hexBytes(t, tt.cipher)
		b := NewBlowfishState()
		if err := b.SetKey(key); err != nil {
			t.Fatalf("SetKey(%x): %v", key, err)
		}
		block := hexBytes(t, tt.plain)
		b.Encrypt(block)
		if !bytes.Equal(block, want) {
			t.Errorf("encrypt key=%s plain=%s: got %X, want %s", tt.key, tt.plain, block, tt.cipher)
		}
	}
}

func TestBlowfishRoundTrip(t *testing.T) {
	keys := [][]byte{
		hexBytes(t, "0123456789ABCDEF"),
		[]byte("a reasonably long Blowfish key, well within range"),
		[]byte("x"),
	}
	plains := [][]byte{
		hexBytes(t, "0000000000000000"),
		hexBytes(t, "FFFFFFFFFFFFFFFF"),
		[]byte("ABCDEFGH"),
	}
	for _, key := range keys {
		enc := NewBlowfishState()
		if err := enc.SetKey(key); err != nil {
			t.Fatalf("SetKey: %v", err)
		}
		dec := NewBlowfishState()
		if err := dec.SetDecryptKey(key); err != nil {
			t.Fatalf("SetDecryptKey: %v", err)
		}
		for _, plain := range plains {
			block := append([]byte(nil), plain...)
			enc.Encrypt(block)
			dec.Decrypt(block)
			if !bytes.Equal(block, plain) {
				t.Errorf("round trip key=%x plain=%x: got %x", key, plain, block)
			}
		}
	}
}

func TestSetKeyInvalidLength(t *testing.T) {
	b := NewBlowfishState()
	for _, n := range []int{0, 57, 100} {
		err := b.SetKey(make([]byte, n))
		if _, ok := err.(InvalidKeyLengthError); !ok {
			t.Errorf("SetKey(len=%d): got %v, want InvalidKeyLengthError", n, err)
		}
	}
	if err := b.SetKey(make([]byte, MinKeySize)); err != nil {
		t.Errorf("SetKey(len=%d): %v", MinKeySize, err)
	}
	if err := b.SetKey(make([]byte, MaxKeySize)); err != nil {
		t.Errorf("SetKey(len=%d): %v", MaxKeySize, err)
	}
}

func TestInitializeMatchesConstants(t *testing.T) {
	b := NewBlowfishState()
	if diff := cmp.Diff(pInit, b.P); diff != "" {
		t.Errorf("Initialize: P mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(sInit, b.S); diff != "" {
		t.Errorf("Initialize: S mismatch (-want +got):\n%s", diff)
	}
}

func TestMagicConstant(t *testing.T) {
	if string(Magic[:]) != "OrpheanBeholderScryDoubt" {
		t.Errorf("Magic = %q, want %q", Magic[:], "OrpheanBeholderScryDoubt")
	}
	if len(Magic) != 24 {
		t.Errorf("len(Magic) = %d, want 24", len(Magic))
	}
}
