package planner

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kerrors "github.com/PolarWolf314/envcloak/internal/errors"
	"github.com/PolarWolf314/envcloak/internal/secrets"
)

// Check is the outcome of one precondition.
type Check struct {
	Name   string
	Passed bool
	Reason string

	// Err is the sentinel for a failed check.
	Err error
}

// Action is one file the command would write. Source is empty for
// generated key files.
type Action struct {
	Source      string
	Destination string
}

// Plan is the validated, side-effect-free description of one command.
type Plan struct {
	Command Command

	// Input is the resolved input file or directory.
	Input string

	// Output is the resolved output file or directory.
	Output string

	// KeyFiles are the resolved key paths, in the order they were checked.
	KeyFiles []string

	// InPlace is set when rotation replaces Input itself.
	InPlace bool

	// Gitignore is the .gitignore a key generation would update, or empty.
	Gitignore string

	Actions      []Action
	Checks       []Check
	WouldSucceed bool
}

// Kind returns the planned command kind.
func (p *Plan) Kind() Kind {
	return p.Command.Kind
}

// Failures returns the failed checks in evaluation order.
func (p *Plan) Failures() []Check {
	var failed []Check
	for _, c := range p.Checks {
		if !c.Passed {
			failed = append(failed, c)
		}
	}
	return failed
}

// Reasons returns the failure reasons in evaluation order.
func (p *Plan) Reasons() []string {
	var reasons []string
	for _, c := range p.Failures() {
		reasons = append(reasons, c.Reason)
	}
	return reasons
}

// Err returns nil for a plan that would succeed, otherwise a
// *PreconditionError carrying every failure.
func (p *Plan) Err() error {
	failed := p.Failures()
	if len(failed) == 0 {
		return nil
	}
	return &PreconditionError{Failures: failed}
}

// PreconditionError reports every failed check of a plan. It matches
// ErrPreconditionsFailed and each failure's sentinel with errors.Is.
type PreconditionError struct {
	Failures []Check
}

func (e *PreconditionError) Error() string {
	reasons := make([]string, len(e.Failures))
	for i, c := range e.Failures {
		reasons[i] = c.Reason
	}
	return strings.Join(reasons, "\n")
}

func (e *PreconditionError) Unwrap() []error {
	errs := []error{kerrors.ErrPreconditionsFailed}
	for _, c := range e.Failures {
		if c.Err != nil {
			errs = append(errs, c.Err)
		}
	}
	return errs
}

// Build validates cmd and computes its actions. Every check runs; failures
// accumulate rather than short-circuit.
func Build(cmd Command) *Plan {
	p := &Plan{Command: cmd}

	switch cmd.Kind {
	case KindEncrypt, KindDecrypt:
		if cmd.Directory != "" {
			p.planDirectory()
		} else {
			p.planFile()
		}
		p.checkKeyFile("key", "Key file", cmd.KeyFile)

	case KindGenerateKey:
		p.planKeyOutput()

	case KindGenerateKeyFromPassword:
		p.planKeyOutput()
		p.checkSalt()

	case KindRotateKeys:
		p.planRotate()
		p.checkKeyFile("old-key", "Old key file", cmd.OldKeyFile)
		p.checkKeyFile("new-key", "New key file", cmd.NewKeyFile)

	default:
		p.fail("command", kerrors.ErrPreconditionsFailed, fmt.Sprintf("Unknown command: %d", cmd.Kind))
	}

	p.WouldSucceed = len(p.Failures()) == 0
	return p
}

func (p *Plan) pass(name, reason string) {
	p.Checks = append(p.Checks, Check{Name: name, Passed: true, Reason: reason})
}

func (p *Plan) fail(name string, err error, reason string) {
	p.Checks = append(p.Checks, Check{Name: name, Reason: reason, Err: err})
}

func (p *Plan) planFile() {
	cmd := p.Command
	ext := cmd.extension()

	missing := "Input file does not exist: %s"
	if cmd.Kind == KindDecrypt {
		missing = "Encrypted file does not exist: %s"
	}
	p.Input = resolve(cmd.Input)
	p.checkInputFile(missing)

	out := cmd.Output
	if out == "" {
		switch {
		case cmd.Kind == KindEncrypt:
			out = cmd.Input + ext
		case strings.HasSuffix(cmd.Input, ext) && len(cmd.Input) > len(ext):
			out = strings.TrimSuffix(cmd.Input, ext)
		default:
			p.fail("output", kerrors.ErrPathNotFound, fmt.Sprintf("Output path is required: %s has no %s suffix", p.Input, ext))
			return
		}
	}
	p.Output = resolve(out)
	p.checkOutput()

	p.Actions = append(p.Actions, Action{Source: p.Input, Destination: p.Output})
}

func (p *Plan) planDirectory() {
	cmd := p.Command
	ext := cmd.extension()

	p.Input = resolve(cmd.Directory)
	info, err := os.Stat(p.Input)
	inputOK := false
	switch {
	case os.IsNotExist(err):
		p.fail("input", kerrors.ErrPathNotFound, fmt.Sprintf("Input directory does not exist: %s", p.Input))
	case err != nil:
		p.fail("input", kerrors.ErrIOFailure, fmt.Sprintf("Cannot access input directory: %s: %v", p.Input, err))
	case !info.IsDir():
		p.fail("input", kerrors.ErrPathNotFound, fmt.Sprintf("Input path is not a directory: %s", p.Input))
	default:
		inputOK = true
		p.pass("input", fmt.Sprintf("Input directory exists: %s", p.Input))
	}

	if cmd.Output == "" {
		p.fail("output", kerrors.ErrPathNotFound, fmt.Sprintf("Output directory is required for directory input: %s", p.Input))
		return
	}
	p.Output = resolve(cmd.Output)
	p.checkOutput()

	patternsOK := true
	for _, pattern := range cmd.Patterns {
		if err := secrets.ValidatePatterns([]string{pattern}); err != nil {
			patternsOK = false
			p.fail("pattern", kerrors.ErrInvalidPattern, fmt.Sprintf("Invalid pattern: %s", pattern))
		}
	}

	if !inputOK || !patternsOK {
		return
	}

	opts := secrets.ListOptions{
		Recursive: cmd.Recursive,
		Patterns:  cmd.Patterns,
		Exclude:   p.Output,
	}
	if cmd.Kind == KindEncrypt {
		opts.SkipSuffix = ext
	} else {
		opts.OnlySuffix = ext
	}

	files, err := secrets.ListFiles(p.Input, opts)
	if err != nil {
		p.fail("enumerate", kerrors.ErrIOFailure, fmt.Sprintf("Cannot read input directory: %s: %v", p.Input, err))
		return
	}

	for _, rel := range files {
		dest := rel + ext
		if cmd.Kind == KindDecrypt {
			dest = strings.TrimSuffix(rel, ext)
		}
		p.Actions = append(p.Actions, Action{
			Source:      filepath.Join(p.Input, rel),
			Destination: filepath.Join(p.Output, dest),
		})
	}
}

func (p *Plan) planRotate() {
	cmd := p.Command

	p.Input = resolve(cmd.Input)
	p.checkInputFile("Encrypted file does not exist: %s")

	if cmd.Output == "" {
		p.Output = p.Input
		p.InPlace = true
		p.pass("output", fmt.Sprintf("Rotating in place: %s", p.Output))
	} else {
		p.Output = resolve(cmd.Output)
		p.checkOutput()
	}

	p.Actions = append(p.Actions, Action{Source: p.Input, Destination: p.Output})
}

func (p *Plan) planKeyOutput() {
	cmd := p.Command
	if cmd.Output == "" {
		p.fail("output", kerrors.ErrPathNotFound, "Output path is required for the key file")
		return
	}
	p.Output = resolve(cmd.Output)
	p.checkOutput()

	p.Actions = append(p.Actions, Action{Destination: p.Output})
	if cmd.Gitignore {
		p.Gitignore = filepath.Join(filepath.Dir(p.Output), ".gitignore")
	}
}

func (p *Plan) checkInputFile(missing string) {
	info, err := os.Stat(p.Input)
	switch {
	case os.IsNotExist(err):
		p.fail("input", kerrors.ErrPathNotFound, fmt.Sprintf(missing, p.Input))
	case err != nil:
		p.fail("input", kerrors.ErrIOFailure, fmt.Sprintf("Cannot access input file: %s: %v", p.Input, err))
	case info.IsDir():
		p.fail("input", kerrors.ErrPathNotFound, fmt.Sprintf("Input path is a directory: %s", p.Input))
	default:
		p.pass("input", fmt.Sprintf("Input file exists: %s", p.Input))
	}
}

func (p *Plan) checkOutput() {
	_, err := os.Lstat(p.Output)
	switch {
	case os.IsNotExist(err):
		p.pass("output", fmt.Sprintf("Output path is free: %s", p.Output))
	case err != nil:
		p.fail("output", kerrors.ErrIOFailure, fmt.Sprintf("Cannot access output path: %s: %v", p.Output, err))
	case p.Command.Force:
		p.pass("output", fmt.Sprintf("Output path will be overwritten: %s", p.Output))
	default:
		p.fail("output", kerrors.ErrPathAlreadyExists, fmt.Sprintf("Output path already exists: %s", p.Output))
	}
}

func (p *Plan) checkKeyFile(name, label, path string) {
	if path == "" {
		p.fail(name, kerrors.ErrPathNotFound, fmt.Sprintf("%s is required", label))
		return
	}
	path = resolve(path)
	p.KeyFiles = append(p.KeyFiles, path)

	info, err := os.Stat(path)
	switch {
	case os.IsNotExist(err):
		p.fail(name, kerrors.ErrPathNotFound, fmt.Sprintf("%s does not exist: %s", label, path))
		return
	case err != nil:
		p.fail(name, kerrors.ErrIOFailure, fmt.Sprintf("Cannot access %s: %s: %v", strings.ToLower(label), path, err))
		return
	case info.IsDir() || info.Size() != secrets.KeySize:
		size := info.Size()
		if info.IsDir() {
			size = 0
		}
		p.fail(name, kerrors.ErrKeyFileInvalid, fmt.Sprintf("%s is invalid: %s (expected %d bytes, got %d)", label, path, secrets.KeySize, size))
		return
	}

	key, err := secrets.LoadKey(path)
	if err != nil {
		if errors.Is(err, kerrors.ErrKeyFileInvalid) {
			p.fail(name, kerrors.ErrKeyFileInvalid, fmt.Sprintf("%s is invalid: %s", label, path))
		} else {
			p.fail(name, kerrors.ErrIOFailure, fmt.Sprintf("Cannot read %s: %s", strings.ToLower(label), path))
		}
		return
	}
	key.Wipe()
	p.pass(name, fmt.Sprintf("%s is valid: %s", label, path))
}

func (p *Plan) checkSalt() {
	if p.Command.Salt == "" {
		p.pass("salt", "Salt will be generated")
		return
	}
	if _, err := secrets.ParseSalt(p.Command.Salt); err != nil {
		p.fail("salt", kerrors.ErrInvalidSaltFormat, fmt.Sprintf("Invalid salt: must be a %d-byte hex string", secrets.SaltSize))
		return
	}
	p.pass("salt", "Salt is valid")
}

func resolve(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
