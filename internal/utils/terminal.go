package utils

import (
	"bytes"
	"fmt"
	"os"

	"golang.org/x/term"
)

// ReadPassphrase prompts the user for a passphrase without echoing input.
// Returns an error if stdin is not a terminal.
func ReadPassphrase(prompt string) ([]byte, error) {
	fd := int(os.Stdin.Fd())

	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("cannot read passphrase: stdin is not a terminal")
	}

	fmt.Fprint(os.Stderr, prompt)
	passphrase, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr) // Add newline after hidden input

	if err != nil {
		return nil, fmt.Errorf("failed to read passphrase: %w", err)
	}

	return passphrase, nil
}

// ReadNewPassphrase prompts twice and fails if the entries differ.
func ReadNewPassphrase() ([]byte, error) {
	first, err := ReadPassphrase("Enter password: ")
	if err != nil {
		return nil, err
	}
	second, err := ReadPassphrase("Confirm password: ")
	if err != nil {
		Wipe(first)
		return nil, err
	}
	defer Wipe(second)

	if !bytes.Equal(first, second) {
		Wipe(first)
		return nil, fmt.Errorf("passwords do not match")
	}
	return first, nil
}

// ReadPassword reads a password from the terminal with confirmation, or
// from piped stdin when stdin is not a terminal.
func ReadPassword() ([]byte, error) {
	if IsTerminal() {
		return ReadNewPassphrase()
	}
	data, err := ReadStdin()
	if err != nil {
		return nil, err
	}
	return TrimLineEnding(data), nil
}

// IsTerminal returns true if stdin is a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
