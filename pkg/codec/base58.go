package codec

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/mr-tron/base58"
)

// ChecksumLen is the length of the Base58Check checksum suffix.
const ChecksumLen = 4

// Base58Decode decodes a Base58 string. Characters outside the alphabet
// yield an error wrapping ErrCharset that names the offending character.
func Base58Decode(s string) ([]byte, error) {
	if s == "" {
		return nil, fmt.Errorf("%w: empty input", ErrMalformed)
	}
	if i, c := firstInvalidBase58(s); i >= 0 {
		return nil, fmt.Errorf("%w: %q at index %d is not a Base58 character",
			ErrCharset, c, i)
	}

	decoded, err := base58.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return decoded, nil
}

// Base58CheckDecode decodes a Base58Check string and verifies its 4-byte
// double-SHA256 checksum. The returned payload keeps the version byte(s)
// and drops the checksum.
func Base58CheckDecode(s string) ([]byte, error) {
	decoded, err := Base58Decode(s)
	if err != nil {
		return nil, err
	}
	if len(decoded) < ChecksumLen+1 {
		return nil, fmt.Errorf("%w: %d bytes is too short for Base58Check",
			ErrMalformed, len(decoded))
	}

	split := len(decoded) - ChecksumLen
	payload, sum := decoded[:split], decoded[split:]
	expected := checksum(payload)
	if !bytes.Equal(sum, expected) {
		return nil, fmt.Errorf("%w: expected %s, got %s", ErrChecksum,
			hex.EncodeToString(expected), hex.EncodeToString(sum))
	}

	return payload, nil
}

// Base58CheckEncode encodes data with a 4-byte checksum in Base58.
func Base58CheckEncode(payload []byte) string {
	full := make([]byte, 0, len(payload)+ChecksumLen)
	full = append(full, payload...)
	full = append(full, checksum(payload)...)

	return base58.Encode(full)
}

// checksum returns the first four bytes of SHA256(SHA256(payload)).
func checksum(payload []byte) []byte {
	return chainhash.DoubleHashB(payload)[:ChecksumLen]
}
