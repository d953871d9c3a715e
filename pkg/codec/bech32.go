package codec

import (
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/bech32"
)

// Bech32Decode decodes a native witness address into its human-readable
// part, witness version and witness program. Version 0 programs must carry
// a Bech32 checksum and later versions a Bech32m checksum (BIP-350).
func Bech32Decode(s string) (string, byte, []byte, error) {
	if i := strings.LastIndexByte(s, '1'); i >= 0 {
		if bad := InvalidBech32Chars(s[i+1:]); len(bad) > 0 {
			return "", 0, nil, fmt.Errorf("%w: %q is not a Bech32 "+
				"character", ErrCharset, bad[0])
		}
	}

	hrp, data, variant, err := bech32.DecodeGeneric(s)
	if err != nil {
		return "", 0, nil, classifyBech32Err(err)
	}
	if len(data) < 1 {
		return "", 0, nil, fmt.Errorf("%w: missing witness version",
			ErrMalformed)
	}

	version := data[0]
	if version > 16 {
		return "", 0, nil, fmt.Errorf("%w: witness version %d out of "+
			"range", ErrMalformed, version)
	}

	program, err := bech32.ConvertBits(data[1:], 5, 8, false)
	if err != nil {
		return "", 0, nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	switch {
	case version == 0 && variant != bech32.Version0:
		return "", 0, nil, fmt.Errorf("%w: witness version 0 requires "+
			"a Bech32 checksum", ErrChecksum)
	case version != 0 && variant != bech32.VersionM:
		return "", 0, nil, fmt.Errorf("%w: witness version %d requires "+
			"a Bech32m checksum", ErrChecksum, version)
	}

	return hrp, version, program, nil
}

// Bech32Encode encodes a witness program as a native witness address.
func Bech32Encode(hrp string, version byte, program []byte) (string, error) {
	conv, err := bech32.ConvertBits(program, 8, 5, true)
	if err != nil {
		return "", err
	}
	data := append([]byte{version}, conv...)

	if version == 0 {
		return bech32.Encode(hrp, data)
	}
	return bech32.EncodeM(hrp, data)
}

// classifyBech32Err maps bech32 library errors onto the codec taxonomy.
func classifyBech32Err(err error) error {
	var (
		errChecksum bech32.ErrInvalidChecksum
		errChar     bech32.ErrInvalidCharacter
		errNonChar  bech32.ErrNonCharsetChar
	)
	switch {
	case errors.As(err, &errChecksum):
		return fmt.Errorf("%w: %v", ErrChecksum, err)
	case errors.As(err, &errChar), errors.As(err, &errNonChar):
		return fmt.Errorf("%w: %v", ErrCharset, err)
	default:
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
}
