package utils

import "github.com/awnumar/memguard"

// Wipe zeroes b in place.
func Wipe(b []byte) {
	memguard.WipeBytes(b)
}
