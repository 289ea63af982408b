package errors

import "errors"

// Path errors indicate a missing input or a conflicting output.
var (
	// ErrPathNotFound indicates an input file, directory or key file does not exist.
	ErrPathNotFound = errors.New("path not found")

	// ErrPathAlreadyExists indicates the output path exists and overwriting was not requested.
	ErrPathAlreadyExists = errors.New("path already exists")
)

// Key errors indicate malformed key material.
var (
	// ErrInvalidSaltFormat indicates the salt is not valid hex or does not decode to 16 bytes.
	ErrInvalidSaltFormat = errors.New("invalid salt format")

	// ErrKeyFileInvalid indicates a key file does not hold exactly 32 bytes.
	ErrKeyFileInvalid = errors.New("invalid key file")
)

// Envelope errors indicate an encrypted file could not be opened.
var (
	// ErrMalformedEnvelope indicates the envelope is truncated or has an unsupported version.
	ErrMalformedEnvelope = errors.New("malformed envelope")

	// ErrAuthenticationFailed indicates the tag did not verify: wrong key, corruption or tampering.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrRotationVerificationFailed indicates a re-encrypted file did not read
	// back to the original plaintext under the new key.
	ErrRotationVerificationFailed = errors.New("rotation verification failed")
)

// Operational errors.
var (
	// ErrIOFailure indicates a filesystem operation failed (disk full, permissions).
	ErrIOFailure = errors.New("i/o failure")

	// ErrPreconditionsFailed indicates a plan had failed checks and was not executed.
	ErrPreconditionsFailed = errors.New("precondition checks failed")

	// ErrInvalidConfig indicates the configuration file holds unusable values.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidPattern indicates a --pattern glob does not parse.
	ErrInvalidPattern = errors.New("invalid pattern")
)

// IsAuthenticationFailed returns true if the error is or wraps ErrAuthenticationFailed.
func IsAuthenticationFailed(err error) bool {
	return errors.Is(err, ErrAuthenticationFailed)
}

// IsMalformedEnvelope returns true if the error is or wraps ErrMalformedEnvelope.
func IsMalformedEnvelope(err error) bool {
	return errors.Is(err, ErrMalformedEnvelope)
}
