// Package secrets provides envcloak's key material and envelope encryption.
//
// # Keys
//
// Keys are 32 random bytes, or are derived from a password and a 16-byte
// hex salt with scrypt (N=2^14, r=8, p=1). Key files hold the raw 32 bytes
// and are written with 0600 permissions.
//
// # Envelope Format
//
// Every encrypted file is a single AES-256-GCM envelope:
//
//	[version:1][nonce:12][tag:16][ciphertext:N]
//
// A fresh random nonce is drawn for every encryption, so encrypting the same
// file twice produces different output. Opening an envelope under the wrong
// key, or one whose nonce, tag or ciphertext was modified, fails with
// ErrAuthenticationFailed.
//
// # File Operations
//
// Outputs are written with WriteFileAtomic (temporary file, fsync, rename),
// so an interrupted run never leaves a partial file at the final path. Stage
// exposes the two halves separately for callers that verify the temporary
// file before committing it.
package secrets
