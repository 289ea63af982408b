// Package errors provides typed error values for envcloak.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching.
//
// # Error Categories
//
//   - Path errors: missing inputs or conflicting outputs (ErrPathNotFound, ErrPathAlreadyExists)
//   - Key errors: malformed key material (ErrInvalidSaltFormat, ErrKeyFileInvalid)
//   - Envelope errors: decryption failures (ErrMalformedEnvelope, ErrAuthenticationFailed)
//   - I/O errors: disk full, permissions (ErrIOFailure)
//
// # Usage
//
// Wrap sentinels with context so the message stays readable:
//
//	return fmt.Errorf("%w: %s", errors.ErrPathNotFound, path)
//
// Handle errors in the CLI layer:
//
//	result, err := workflows.Decrypt(ctx, opts)
//	if errors.Is(err, kerrors.ErrAuthenticationFailed) {
//	    // Wrong key or tampered file
//	}
package errors
