// Package codec wraps the Base58, Base58Check and Bech32 encodings used by
// Bitcoin key material. Every other package goes through these helpers
// instead of touching the encoding libraries directly.
package codec

import (
	"strings"
	"unicode"
)

// Base58Alphabet is the Bitcoin Base58 alphabet (excludes 0, O, I, l).
const Base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

// Bech32Charset is the data-part charset of Bech32/Bech32m (excludes 1, b, i, o).
const Bech32Charset = "qpzry9x8gf2tvdw0s3jn54khce6mua7l"

// IsBase58Char checks if a character is valid in Base58 encoding.
func IsBase58Char(c rune) bool {
	return strings.ContainsRune(Base58Alphabet, c)
}

// IsBech32Char checks if a character is valid in the Bech32 data part.
// Bech32 is case-insensitive, so upper case letters are accepted too.
func IsBech32Char(c rune) bool {
	if c > unicode.MaxASCII {
		return false
	}
	return strings.ContainsRune(Bech32Charset, unicode.ToLower(c))
}

// InvalidBase58Chars returns any invalid Base58 characters in the input.
func InvalidBase58Chars(s string) []rune {
	var invalid []rune
	for _, c := range s {
		if !IsBase58Char(c) {
			invalid = append(invalid, c)
		}
	}
	return invalid
}

// InvalidBech32Chars returns invalid Bech32 data characters in the input.
func InvalidBech32Chars(s string) []rune {
	var invalid []rune
	for _, c := range s {
		if !IsBech32Char(c) {
			invalid = append(invalid, c)
		}
	}
	return invalid
}

// firstInvalidBase58 returns the index and rune of the first character
// outside the Base58 alphabet, or -1 if there is none.
func firstInvalidBase58(s string) (int, rune) {
	for i, c := range s {
		if !IsBase58Char(c) {
			return i, c
		}
	}
	return -1, 0
}
