// Package eksblowfish implements the Blowfish block cipher and the
// EksBlowfish ("expensive key schedule") construction bcrypt builds on top
// of it.
//
// Two pieces, leaves first: BlowfishState is an in-memory Blowfish cipher
// state (P-array and S-boxes) that knows how to initialize itself from the
// standard constants, run a single Feistel encryption of a 64-bit block, and
// run the salt- and key-dependent expensive key schedule bcrypt needs.
// Derive drives a BlowfishState through the full bcrypt construction: clamp
// the inputs, run EksBlowfish setup, encrypt the fixed magic plaintext 64
// times, and copy out the requested number of derived bytes.
//
// This package reproduces a specific historical implementation byte for
// byte, including its legacy truncation-length bug, rather than aiming for
// interoperability with canonical "$2a$"/"$2b$" bcrypt hashes. It does not
// encode or parse any modular-crypt string format; it operates on raw bytes
// only.
package eksblowfish
