// Package audit provides audit trail logging for envcloak operations.
//
// Every successful real run of encrypt, decrypt, rotate-keys and the key
// generation commands can be recorded in a JSON Lines log whose location
// comes from the [audit] section of the configuration file. An empty path
// disables auditing.
//
// Each entry contains:
//   - A random UUID
//   - Timestamp (RFC3339 with microseconds, UTC)
//   - Operation name
//   - Operation-specific details (files, output path)
//
// Entries never contain key material or plaintext.
//
// # Usage
//
//	entry := audit.New("encrypt")
//	entry.Files = written
//	if err := audit.Log(cfg.Audit.Path, entry); err != nil {
//		// warn, the operation already succeeded
//	}
//
// # Failure Handling
//
// Audit logging is best-effort. Log returns the failure so the caller can
// warn about it, but the operation it describes has already completed.
//
// Use ReadEntries() to parse the audit log. Malformed entries are silently
// skipped to handle partial writes.
package audit
