package codec

import "errors"

var (
	// ErrCharset is returned when the input contains characters outside
	// the codec alphabet.
	ErrCharset = errors.New("invalid character set")

	// ErrChecksum is returned when a Base58Check or Bech32 checksum does
	// not verify.
	ErrChecksum = errors.New("invalid checksum")

	// ErrMalformed is returned for structurally broken encodings that are
	// neither charset nor checksum failures (too short, bad separator,
	// bad padding).
	ErrMalformed = errors.New("malformed encoding")
)
