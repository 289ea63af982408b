package workflows

import (
	"context"

	"github.com/PolarWolf314/envcloak/internal/planner"
	"github.com/PolarWolf314/envcloak/internal/secrets"
)

// GenerateKeyOptions configures the generate-key workflow.
type GenerateKeyOptions struct {
	// Output is the key file to write.
	Output string

	Force bool

	// Gitignore adds the key file name to .gitignore in its directory.
	Gitignore bool

	RunOptions
}

// GenerateKeyResult contains the outcome of a key generation.
type GenerateKeyResult struct {
	Outcome

	// KeyFile is the resolved path of the key file.
	KeyFile string

	// Gitignore is the .gitignore that was checked, or empty.
	Gitignore string

	// GitignoreUpdated is false when the entry was already present.
	GitignoreUpdated bool
}

// GenerateKey writes 32 random bytes to Output with mode 0600.
func GenerateKey(ctx context.Context, opts GenerateKeyOptions) (*GenerateKeyResult, error) {
	outcome, err := begin(planner.Command{
		Kind:      planner.KindGenerateKey,
		Output:    opts.Output,
		Force:     opts.Force,
		Gitignore: opts.Gitignore,
	}, opts.RunOptions)
	if err != nil {
		return nil, err
	}

	result := &GenerateKeyResult{Outcome: outcome, KeyFile: outcome.Plan.Output, Gitignore: outcome.Plan.Gitignore}
	if outcome.DryRun {
		return result, nil
	}

	key, err := secrets.GenerateKey()
	if err != nil {
		return nil, err
	}
	defer key.Wipe()

	if err := writeKey(result, key); err != nil {
		return nil, err
	}

	result.AuditErr = record(opts.AuditPath, planner.KindGenerateKey, nil, nil, result.KeyFile)
	return result, nil
}

// GenerateKeyFromPasswordOptions configures the generate-key-from-password
// workflow.
type GenerateKeyFromPasswordOptions struct {
	Output string

	// Password may be empty.
	Password []byte

	// Salt is 16 bytes as hex. Empty means a random salt is generated.
	Salt string

	Force     bool
	Gitignore bool

	RunOptions
}

// GenerateKeyFromPasswordResult contains the outcome of a password-derived
// key generation.
type GenerateKeyFromPasswordResult struct {
	GenerateKeyResult

	// Salt is the salt the key was derived with. The same password and salt
	// always derive the same key.
	Salt string

	// SaltGenerated is true when no salt was supplied.
	SaltGenerated bool
}

// GenerateKeyFromPassword derives a key with scrypt and writes it to Output
// with mode 0600.
//
// Returns an error wrapping ErrInvalidSaltFormat if the salt is not 16 bytes
// of hex.
func GenerateKeyFromPassword(ctx context.Context, opts GenerateKeyFromPasswordOptions) (*GenerateKeyFromPasswordResult, error) {
	outcome, err := begin(planner.Command{
		Kind:      planner.KindGenerateKeyFromPassword,
		Output:    opts.Output,
		Password:  opts.Password,
		Salt:      opts.Salt,
		Force:     opts.Force,
		Gitignore: opts.Gitignore,
	}, opts.RunOptions)
	if err != nil {
		return nil, err
	}

	result := &GenerateKeyFromPasswordResult{
		GenerateKeyResult: GenerateKeyResult{Outcome: outcome, KeyFile: outcome.Plan.Output, Gitignore: outcome.Plan.Gitignore},
		Salt:              opts.Salt,
		SaltGenerated:     opts.Salt == "",
	}
	if outcome.DryRun {
		return result, nil
	}

	if result.SaltGenerated {
		if result.Salt, err = secrets.GenerateSalt(); err != nil {
			return nil, err
		}
	}

	key, err := secrets.DeriveKey(opts.Password, result.Salt)
	if err != nil {
		return nil, err
	}
	defer key.Wipe()

	if err := writeKey(&result.GenerateKeyResult, key); err != nil {
		return nil, err
	}

	result.AuditErr = record(opts.AuditPath, planner.KindGenerateKeyFromPassword, nil, nil, result.KeyFile)
	return result, nil
}

func writeKey(result *GenerateKeyResult, key secrets.Key) error {
	if err := secrets.SaveKey(result.KeyFile, key); err != nil {
		return err
	}

	if result.Gitignore == "" {
		return nil
	}

	updated, err := AddToGitignore(result.Gitignore, result.KeyFile)
	if err != nil {
		return err
	}
	result.GitignoreUpdated = updated
	return nil
}
