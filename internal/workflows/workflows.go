package workflows

import (
	"fmt"
	"strings"

	"github.com/PolarWolf314/envcloak/internal/audit"
	"github.com/PolarWolf314/envcloak/internal/configs"
	"github.com/PolarWolf314/envcloak/internal/planner"
	"github.com/PolarWolf314/envcloak/internal/secrets"
)

// Codec turns plaintext into envelope bytes and back.
type Codec interface {
	Encrypt(plaintext []byte, key secrets.Key) ([]byte, error)
	Decrypt(data []byte, key secrets.Key) ([]byte, error)
}

// RunOptions are shared by every workflow.
type RunOptions struct {
	// DryRun validates and reports without touching the filesystem.
	DryRun bool

	// Workers bounds directory-mode parallelism. Zero means
	// configs.DefaultWorkers.
	Workers int

	// AuditPath is the audit log. Empty disables auditing.
	AuditPath string

	// Codec defaults to secrets.EnvelopeCodec.
	Codec Codec
}

func (o RunOptions) codec() Codec {
	if o.Codec == nil {
		return secrets.EnvelopeCodec{}
	}
	return o.Codec
}

func (o RunOptions) workers() int {
	if o.Workers < 1 {
		return configs.DefaultWorkers
	}
	return o.Workers
}

// Outcome is embedded in every result.
type Outcome struct {
	// Plan is the validated plan the workflow acted on.
	Plan *planner.Plan

	// DryRun indicates no files were modified.
	DryRun bool

	// Report is the dry-run report. Empty for real runs.
	Report string

	// AuditErr is set when the audit entry could not be written. The
	// operation itself succeeded.
	AuditErr error
}

// begin builds the plan for cmd. For a dry run the returned outcome is
// final; for a real run a failing plan yields plan.Err().
func begin(cmd planner.Command, run RunOptions) (Outcome, error) {
	plan := planner.Build(cmd)
	out := Outcome{Plan: plan, DryRun: run.DryRun}

	if run.DryRun {
		out.Report = planner.Report(plan)
		return out, nil
	}

	if !plan.WouldSucceed {
		return out, plan.Err()
	}
	return out, nil
}

// FileResult is the outcome of one file in a run.
type FileResult struct {
	Source      string
	Destination string
	Err         error
}

// BatchError reports the files that failed in a directory run, in plan
// order. It matches each failure's sentinel with errors.Is.
type BatchError struct {
	Failures []FileResult
	Total    int
}

func (e *BatchError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d of %d files failed", len(e.Failures), e.Total)
	for _, f := range e.Failures {
		fmt.Fprintf(&b, "\n  - %s: %v", f.Source, f.Err)
	}
	return b.String()
}

func (e *BatchError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		errs = append(errs, f.Err)
	}
	return errs
}

func record(path string, op planner.Kind, files []string, failed []string, output string) error {
	entry := audit.New(op.String())
	entry.Files = files
	entry.Failed = failed
	entry.OutputPath = output
	return audit.Log(path, entry)
}
