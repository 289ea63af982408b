package workflows

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/awnumar/memguard"

	kerrors "github.com/PolarWolf314/envcloak/internal/errors"
	"github.com/PolarWolf314/envcloak/internal/planner"
	"github.com/PolarWolf314/envcloak/internal/secrets"
)

// RotateKeysOptions configures the rotate-keys workflow.
type RotateKeysOptions struct {
	// Input is the envelope file sealed under OldKeyFile.
	Input string

	// Output receives the envelope sealed under NewKeyFile. Empty rewrites
	// Input in place.
	Output string

	OldKeyFile string
	NewKeyFile string

	Force bool

	RunOptions
}

// RotateKeysResult contains the outcome of a key rotation.
type RotateKeysResult struct {
	Outcome

	// Input and Output are the resolved paths. They are equal for an
	// in-place rotation.
	Input  string
	Output string
}

// RotateKeys re-encrypts Input under the new key without writing plaintext
// to disk.
//
// The workflow:
//  1. Decrypts Input under the old key. A failure aborts with no change.
//  2. Seals the plaintext under the new key into a staged file next to Output.
//  3. Reads the staged file back and decrypts it under the new key.
//  4. Renames the staged file over Output only if the plaintext matches.
//
// Any failure after step 1 discards the staged file and leaves Output as it
// was. Returns an error wrapping ErrRotationVerificationFailed when step 3 or
// 4 fails.
func RotateKeys(ctx context.Context, opts RotateKeysOptions) (*RotateKeysResult, error) {
	outcome, err := begin(planner.Command{
		Kind:       planner.KindRotateKeys,
		Input:      opts.Input,
		Output:     opts.Output,
		OldKeyFile: opts.OldKeyFile,
		NewKeyFile: opts.NewKeyFile,
		Force:      opts.Force,
	}, opts.RunOptions)
	if err != nil {
		return nil, err
	}

	plan := outcome.Plan
	result := &RotateKeysResult{Outcome: outcome, Input: plan.Input, Output: plan.Output}
	if outcome.DryRun {
		return result, nil
	}

	oldKey, err := secrets.LoadKey(plan.KeyFiles[0])
	if err != nil {
		return nil, err
	}
	defer oldKey.Wipe()

	newKey, err := secrets.LoadKey(plan.KeyFiles[1])
	if err != nil {
		return nil, err
	}
	defer newKey.Wipe()

	codec := opts.codec()

	// #nosec G304 -- validated by the planner.
	data, err := os.ReadFile(plan.Input)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", kerrors.ErrIOFailure, plan.Input, err)
	}

	plaintext, err := codec.Decrypt(data, oldKey)
	if err != nil {
		return nil, fmt.Errorf("decrypting %s under the old key: %w", plan.Input, err)
	}
	defer memguard.WipeBytes(plaintext)

	sealed, err := codec.Encrypt(plaintext, newKey)
	if err != nil {
		return nil, fmt.Errorf("encrypting under the new key: %w", err)
	}

	staged, err := secrets.Stage(plan.Output, sealed, encryptedPerm)
	if err != nil {
		return nil, err
	}
	defer staged.Discard()

	if err := verifyStaged(codec, staged.Path(), plaintext, newKey); err != nil {
		return nil, err
	}

	if err := staged.Commit(); err != nil {
		return nil, err
	}

	result.AuditErr = record(opts.AuditPath, planner.KindRotateKeys, []string{plan.Output}, nil, plan.Output)
	return result, nil
}

func verifyStaged(codec Codec, path string, want []byte, key secrets.Key) error {
	// #nosec G304 -- path is our own staged file.
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: reading back %s: %v", kerrors.ErrRotationVerificationFailed, path, err)
	}

	got, err := codec.Decrypt(data, key)
	if err != nil {
		return fmt.Errorf("%w: %w", kerrors.ErrRotationVerificationFailed, err)
	}
	defer memguard.WipeBytes(got)

	if !bytes.Equal(got, want) {
		return fmt.Errorf("%w: plaintext mismatch", kerrors.ErrRotationVerificationFailed)
	}
	return nil
}
