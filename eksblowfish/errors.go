package eksblowfish

import "errors"

// ErrEmptySalt is returned by EksSetup and Derive when given a zero-length
// salt. Unlike an empty key, which the cyclic iterator reads as a stream of
// zero bytes, an empty salt is rejected outright rather than silently
// defaulting.
var ErrEmptySalt = errors.New("eksblowfish: empty salt")
