// Package workflows executes envcloak commands.
//
// Each command has a workflow that takes a context and an options struct and
// returns a result. The cmd/ package parses flags, calls the workflow and
// formats the result; workflows do everything else.
//
// # Available Workflows
//
//   - Encrypt: encrypts a file or a directory of files under a key file
//   - Decrypt: decrypts a file or a directory of envelope files
//   - GenerateKey: writes a random 32-byte key file
//   - GenerateKeyFromPassword: writes a key derived from a password and salt
//   - RotateKeys: re-encrypts an envelope file under a new key
//
// # Planning
//
// Every workflow starts by building a planner.Plan from its options. A dry run
// returns the plan's report and touches nothing. A real run refuses a plan
// with failed checks and returns plan.Err(), whose text is the same list of
// reasons the dry-run report shows.
//
// # Error Handling
//
// Workflows return errors wrapping the sentinels in internal/errors:
//
//	result, err := workflows.Decrypt(ctx, opts)
//	if errors.Is(err, kerrors.ErrAuthenticationFailed) {
//	    // Wrong key or tampered file
//	}
//
// Directory runs keep going after a file fails and return a *BatchError
// listing the failures in plan order.
package workflows
