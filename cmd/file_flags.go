package cmd

import (
	"github.com/PolarWolf314/envcloak/internal/workflows"

	"github.com/spf13/cobra"
)

// fileFlags are the flags shared by encrypt and decrypt.
type fileFlags struct {
	input     string
	directory string
	output    string
	keyFile   string
	force     bool
	recursive bool
	patterns  []string
	dryRun    bool
}

func (f *fileFlags) register(c *cobra.Command) {
	c.Flags().StringVarP(&f.input, "input", "i", "", "file to process")
	c.Flags().StringVar(&f.directory, "directory", "", "process every file in this directory")
	c.Flags().StringVarP(&f.output, "output", "o", "", "output file, or output directory with --directory")
	c.Flags().StringVarP(&f.keyFile, "key-file", "k", "", "file holding the 32-byte key")
	c.Flags().BoolVarP(&f.force, "force", "f", false, "overwrite an existing output")
	c.Flags().BoolVarP(&f.recursive, "recursive", "r", false, "descend into subdirectories with --directory")
	c.Flags().StringArrayVar(&f.patterns, "pattern", nil, "only process files matching this glob (repeatable)")
	addDryRunFlag(c, &f.dryRun)

	c.MarkFlagsMutuallyExclusive("input", "directory")
	c.MarkFlagsOneRequired("input", "directory")
}

func (f *fileFlags) reset() {
	*f = fileFlags{}
}

func (f *fileFlags) options() workflows.EncryptOptions {
	return workflows.EncryptOptions{
		Input:      f.input,
		Directory:  f.directory,
		Output:     f.output,
		KeyFile:    f.keyFile,
		Force:      f.force,
		Recursive:  f.recursive,
		Patterns:   f.patterns,
		Extension:  extension(),
		RunOptions: runOptions(f.dryRun),
	}
}
