package workflows

import (
	"context"
	"fmt"
	"os"

	"github.com/awnumar/memguard"
	"golang.org/x/sync/errgroup"

	kerrors "github.com/PolarWolf314/envcloak/internal/errors"
	"github.com/PolarWolf314/envcloak/internal/planner"
	"github.com/PolarWolf314/envcloak/internal/secrets"
)

const (
	encryptedPerm os.FileMode = 0600
	decryptedPerm os.FileMode = 0644
)

// EncryptOptions configures the encrypt workflow.
type EncryptOptions struct {
	// Input is a single file. Mutually exclusive with Directory.
	Input string

	// Directory encrypts every file it holds into Output.
	Directory string

	// Output defaults to Input plus Extension in single-file mode and is
	// required in directory mode.
	Output string

	// KeyFile holds the raw 32-byte key.
	KeyFile string

	Force     bool
	Recursive bool
	Patterns  []string

	// Extension overrides planner.DefaultExtension.
	Extension string

	RunOptions
}

// DecryptOptions configures the decrypt workflow. Input and Directory name
// envelope files; Output defaults to Input without Extension.
type DecryptOptions EncryptOptions

// TransformResult contains the outcome of an encrypt or decrypt operation.
type TransformResult struct {
	Outcome

	// Files lists every planned file in plan order.
	Files []FileResult
}

// Written returns the destinations that were written.
func (r *TransformResult) Written() []string {
	var out []string
	for _, f := range r.Files {
		if f.Err == nil {
			out = append(out, f.Destination)
		}
	}
	return out
}

// Failed returns the files that failed, in plan order.
func (r *TransformResult) Failed() []FileResult {
	var out []FileResult
	for _, f := range r.Files {
		if f.Err != nil {
			out = append(out, f)
		}
	}
	return out
}

// Encrypt seals each planned file under the key and writes the envelope
// atomically with mode 0600.
//
// Returns a *planner.PreconditionError if any check fails.
// Returns a *BatchError if some files of a directory run fail.
func Encrypt(ctx context.Context, opts EncryptOptions) (*TransformResult, error) {
	return transform(ctx, planner.KindEncrypt, opts)
}

// Decrypt opens each planned envelope under the key and writes the plaintext
// atomically with mode 0644.
//
// Returns an error wrapping ErrAuthenticationFailed for a wrong key or a
// tampered file, and ErrMalformedEnvelope for a truncated or foreign file.
func Decrypt(ctx context.Context, opts DecryptOptions) (*TransformResult, error) {
	return transform(ctx, planner.KindDecrypt, EncryptOptions(opts))
}

func transform(ctx context.Context, kind planner.Kind, opts EncryptOptions) (*TransformResult, error) {
	outcome, err := begin(planner.Command{
		Kind:      kind,
		Input:     opts.Input,
		Directory: opts.Directory,
		Output:    opts.Output,
		KeyFile:   opts.KeyFile,
		Force:     opts.Force,
		Recursive: opts.Recursive,
		Patterns:  opts.Patterns,
		Extension: opts.Extension,
	}, opts.RunOptions)
	if err != nil {
		return nil, err
	}

	plan := outcome.Plan
	result := &TransformResult{Outcome: outcome, Files: make([]FileResult, len(plan.Actions))}
	for i, a := range plan.Actions {
		result.Files[i] = FileResult{Source: a.Source, Destination: a.Destination}
	}
	if outcome.DryRun {
		return result, nil
	}

	key, err := secrets.LoadKey(plan.KeyFiles[0])
	if err != nil {
		return nil, err
	}
	defer key.Wipe()

	codec := opts.codec()
	apply, perm := codec.Encrypt, encryptedPerm
	if kind == planner.KindDecrypt {
		apply, perm = codec.Decrypt, decryptedPerm
	}

	if opts.Directory == "" {
		f := &result.Files[0]
		if f.Err = transformFile(apply, key, f.Source, f.Destination, perm); f.Err != nil {
			return nil, f.Err
		}
		result.AuditErr = record(opts.AuditPath, kind, []string{f.Destination}, nil, f.Destination)
		return result, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.workers())
	for i := range result.Files {
		f := &result.Files[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				f.Err = err
				return nil
			}
			f.Err = transformFile(apply, key, f.Source, f.Destination, perm)
			return nil
		})
	}
	_ = g.Wait()

	failed := result.Failed()
	var failedPaths []string
	for _, f := range failed {
		failedPaths = append(failedPaths, f.Source)
	}
	result.AuditErr = record(opts.AuditPath, kind, result.Written(), failedPaths, plan.Output)

	if len(failed) > 0 {
		return result, &BatchError{Failures: failed, Total: len(result.Files)}
	}
	return result, nil
}

func transformFile(apply func([]byte, secrets.Key) ([]byte, error), key secrets.Key, src, dst string, perm os.FileMode) error {
	// #nosec G304 -- src was validated by the planner.
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("%w: reading %s: %v", kerrors.ErrIOFailure, src, err)
	}

	out, err := apply(data, key)
	if err != nil {
		return fmt.Errorf("%s: %w", src, err)
	}

	err = secrets.WriteFileAtomic(dst, out, perm)

	// Whichever side is plaintext is wiped.
	if perm == decryptedPerm {
		memguard.WipeBytes(out)
	} else {
		memguard.WipeBytes(data)
	}
	return err
}
