package eksblowfish

import "strconv"

// Cost bounds and defaults (spec.md §3).
const (
	MinCost     = 4
	DefaultCost = 10
	MaxCost     = 31
)

// SaltSize is the recommended salt length. It is not enforced by Derive;
// callers are responsible for supplying an appropriately sized salt.
const SaltSize = 16

// MaxPass is the maximum number of secret bytes Derive consumes.
const MaxPass = 72

// DefaultDerived is both the default and the maximum derived key length.
const DefaultDerived = 24

// InvalidDerivedLengthError values describe errors resulting from
// requesting a derived key length outside (0, DefaultDerived].
type InvalidDerivedLengthError int

func (e InvalidDerivedLengthError) Error() string {
	return "invalid derived length " + strconv.FormatInt(int64(e), 10)
}

// AlgorithmName returns the name of the algorithm this package implements,
// for use by a generic key-derivation adapter.
func AlgorithmName() string { return "bcrypt" }

// MaxDerivedLength returns the maximum number of bytes Derive can produce.
func MaxDerivedLength() int { return DefaultDerived }

// MaxSecretLength returns the maximum number of secret bytes Derive
// consumes before silently clamping.
func MaxSecretLength() int { return MaxPass }

// ValidDerivedLength clamps n to the largest length Derive can produce. It
// never raises; Derive itself rejects n==0 or n>DefaultDerived outright.
func ValidDerivedLength(n int) int {
	if n > DefaultDerived {
		return DefaultDerived
	}
	return n
}

// Derive runs the bcrypt key-derivation construction: clamp secret and cost,
// run EksBlowfish setup on a fresh BlowfishState, encrypt the fixed magic
// plaintext 64 times, and copy the first len(derived) bytes of the result
// into derived.
//
// It reproduces a specific historical implementation bit for bit, including
// its legacy truncBug behavior, rather than canonical "$2a$"/"$2b$" bcrypt
// (see the package doc comment). cost is silently clamped to [MinCost,
// MaxCost]; the returned iteration count reflects the clamped value. Derive
// does enforce two preconditions: len(derived) must be in (0, DefaultDerived]
// (InvalidDerivedLengthError otherwise) and salt must be non-empty
// (ErrEmptySalt otherwise).
func Derive(derived, secret, salt []byte, cost uint32, truncBug bool) (iterations uint64, err error) {
	if len(derived) == 0 || len(derived) > DefaultDerived {
		return 0, InvalidDerivedLengthError(len(derived))
	}
	if len(salt) == 0 {
		return 0, ErrEmptySalt
	}

	secretLen := len(secret)
	if truncBug {
		secretLen &= 0xFF
	}
	if secretLen > MaxPass {
		secretLen = MaxPass
	}
	secret = secret[:secretLen]

	if cost < MinCost {
		cost = MinCost
	} else if cost > MaxCost {
		cost = MaxCost
	}

	state := NewBlowfishState()
	if err := state.EksSetup(cost, salt, secret); err != nil {
		return 0, err
	}

	var c [24]byte
	copy(c[:], Magic[:])
	for i := 0; i < 64; i++ {
		state.Encrypt(c[0:8])
		state.Encrypt(c[8:16])
		state.Encrypt(c[16:24])
	}
	copy(derived, c[:])
	return uint64(1) << cost, nil
}

// Params is the narrow named-parameter view Derive's generic-KDF adapter
// consumes. A concrete parameter-by-name container (out of scope for this
// package, see spec.md §1 and §6) need only answer these three names.
type Params interface {
	// Bool returns the named boolean parameter and whether it was present.
	Bool(name string) (value, ok bool)
	// Uint32 returns the named unsigned integer parameter and whether it
	// was present.
	Uint32(name string) (value uint32, ok bool)
	// Bytes returns the named byte-slice parameter and whether it was
	// present.
	Bytes(name string) (value []byte, ok bool)
}

// DeriveWithParams adapts Derive to the generic-KDF calling convention:
// it reads "TruncationBug", "Cost" and "Salt" from params, defaulting to
// false, DefaultCost and an empty salt respectively, exactly as spec.md §6
// documents. An absent or empty salt still fails with ErrEmptySalt; the
// empty default is not special-cased.
func DeriveWithParams(derived, secret []byte, params Params) (iterations uint64, err error) {
	truncBug, _ := params.Bool("TruncationBug")
	cost, ok := params.Uint32("Cost")
	if !ok {
		cost = DefaultCost
	}
	salt, _ := params.Bytes("Salt")
	return Derive(derived, secret, salt, cost, truncBug)
}

// RandReader is the narrow random byte source GenerateSalt consumes: it
// matches the signature of crypto/rand.Reader's Read method, so
// crypto/rand.Reader satisfies it directly.
type RandReader interface {
	Read(p []byte) (n int, err error)
}

// GenerateSalt fills salt from rng. It does not enforce len(salt) == SaltSize;
// that is a recommendation, not a requirement this core enforces.
func GenerateSalt(rng RandReader, salt []byte) error {
	_, err := rng.Read(salt)
	return err
}
