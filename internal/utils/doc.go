// Package utils provides shared utility functions for envcloak.
//
// # Output Utilities
//
//   - FormatPaths: formats file paths for human-readable output
//
// # Input Utilities
//
// Functions for reading secrets from the user:
//   - ReadPassword: prompts on a terminal, otherwise reads piped stdin
//   - ReadPassphrase: single hidden prompt
//   - ReadStdin: reads all data from standard input
//   - Wipe: zeroes a password buffer once it is no longer needed
package utils
