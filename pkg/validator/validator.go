// Package validator checks decoded Bitcoin key material and addresses
// against their exact binary layout: length, version bytes, trailing flag
// bytes and the private key scalar range.
//
// Checksums are verified by the codec package before any of the payload
// checks run. Every operation is a pure function of its input and safe for
// concurrent use.
package validator

import (
	"strings"

	"github.com/btcsuite/btcd/chaincfg"

	"github.com/Amr-9/KeyRescue/pkg/codec"
)

const (
	// WIFUncompressedLen is the payload length of an uncompressed WIF key:
	// version byte + 32-byte scalar.
	WIFUncompressedLen = 1 + ScalarLen

	// WIFCompressedLen is the payload length of a compressed WIF key:
	// version byte + 32-byte scalar + compression flag.
	WIFCompressedLen = 1 + ScalarLen + 1

	// CompressionFlag is the trailing byte marking a compressed WIF key.
	CompressionFlag = 0x01

	// AddressLen is the payload length of a Base58 address: version byte
	// + 20-byte hash.
	AddressLen = 1 + 20

	// WitnessV0HashLen is the program length of a P2WPKH address.
	WitnessV0HashLen = 20

	// Bip38ByteLen is the payload length of a BIP-38 encrypted key.
	Bip38ByteLen = 39

	// Bip38Magic is the first byte of every BIP-38 payload.
	Bip38Magic = 0x01

	// Bip38NonECMultiplied marks a key encrypted without EC multiplication.
	Bip38NonECMultiplied = 0x42

	// Bip38ECMultiplied marks a key encrypted with EC multiplication.
	Bip38ECMultiplied = 0x43

	// bip38CompressedFlag is set in the flag byte when the encrypted key
	// belongs to a compressed public key.
	bip38CompressedFlag = 0x20
)

// Validator validates payloads against the version bytes of one network.
type Validator struct {
	params *chaincfg.Params
}

// New creates a validator for the given network parameters. A nil params
// selects mainnet.
func New(params *chaincfg.Params) *Validator {
	if params == nil {
		params = &chaincfg.MainNetParams
	}
	return &Validator{params: params}
}

// Params returns the network parameters of the validator.
func (v *Validator) Params() *chaincfg.Params {
	return v.params
}

// ValidatePrivateKeyWIF validates a checksum-verified WIF payload. Checks
// run in order: length, compression flag, version byte, scalar range.
func (v *Validator) ValidatePrivateKeyWIF(payload []byte) Outcome {
	var compressed bool
	switch len(payload) {
	case WIFUncompressedLen:
	case WIFCompressedLen:
		compressed = true
		if flag := payload[WIFCompressedLen-1]; flag != CompressionFlag {
			return invalid(InvalidLength, "private key is %d bytes "+
				"but its compression flag is 0x%02x, expected "+
				"0x%02x", len(payload), flag, CompressionFlag)
		}
	default:
		return invalid(InvalidLength, "private key payload is %d "+
			"bytes, expected %d (uncompressed) or %d (compressed)",
			len(payload), WIFUncompressedLen, WIFCompressedLen)
	}

	if payload[0] != v.params.PrivateKeyID {
		return invalid(InvalidPrefix, "private key version byte is "+
			"0x%02x, expected 0x%02x", payload[0],
			v.params.PrivateKeyID)
	}

	if !IsScalarInRange(payload[1 : 1+ScalarLen]) {
		return invalid(InvalidRange, "private key scalar is zero or "+
			"not below the secp256k1 curve order")
	}

	if compressed {
		return valid("compressed private key")
	}
	return valid("uncompressed private key")
}

// ValidateAddress validates a checksum-verified Base58 address payload.
func (v *Validator) ValidateAddress(payload []byte) Outcome {
	if len(payload) != AddressLen {
		return invalid(InvalidLength, "address payload is %d bytes, "+
			"expected %d", len(payload), AddressLen)
	}

	switch payload[0] {
	case v.params.PubKeyHashAddrID:
		return valid("P2PKH address")
	case v.params.ScriptHashAddrID:
		return valid("P2SH address")
	default:
		return invalid(InvalidPrefix, "address version byte is 0x%02x, "+
			"expected 0x%02x (P2PKH) or 0x%02x (P2SH)", payload[0],
			v.params.PubKeyHashAddrID, v.params.ScriptHashAddrID)
	}
}

// ValidateBip38 validates a checksum-verified BIP-38 payload.
func (v *Validator) ValidateBip38(payload []byte) Outcome {
	if len(payload) != Bip38ByteLen {
		return invalid(InvalidLength, "BIP-38 payload is %d bytes, "+
			"expected %d", len(payload), Bip38ByteLen)
	}
	if payload[0] != Bip38Magic {
		return invalid(InvalidPrefix, "BIP-38 first byte is 0x%02x, "+
			"expected 0x%02x", payload[0], Bip38Magic)
	}

	var flavour string
	switch payload[1] {
	case Bip38NonECMultiplied:
		flavour = "non-EC-multiplied"
	case Bip38ECMultiplied:
		flavour = "EC-multiplied"
	default:
		return invalid(InvalidPrefix, "BIP-38 second byte is 0x%02x, "+
			"expected 0x%02x (non-EC-multiplied) or 0x%02x "+
			"(EC-multiplied)", payload[1], Bip38NonECMultiplied,
			Bip38ECMultiplied)
	}

	compression := "uncompressed"
	if payload[2]&bip38CompressedFlag != 0 {
		compression = "compressed"
	}
	return valid("%s BIP-38 key (%s)", flavour, compression)
}

// DecodeWitnessAddress decodes a version 0 native witness address and
// returns its 20-byte hash. Any mismatch in human-readable part, witness
// version or program length is a failure.
func (v *Validator) DecodeWitnessAddress(address string) ([]byte, error) {
	hrp, version, program, err := codec.Bech32Decode(address)
	if err != nil {
		return nil, OutcomeFromError(err).Err()
	}

	if !strings.EqualFold(hrp, v.params.Bech32HRPSegwit) {
		return nil, invalid(InvalidPrefix, "human-readable part is %q, "+
			"expected %q", hrp, v.params.Bech32HRPSegwit).Err()
	}
	if version != 0 {
		return nil, invalid(InvalidPrefix, "witness version is %d, "+
			"expected 0", version).Err()
	}
	if len(program) != WitnessV0HashLen {
		return nil, invalid(InvalidLength, "witness program is %d "+
			"bytes, expected %d", len(program),
			WitnessV0HashLen).Err()
	}

	return program, nil
}

// defaultValidator backs the package level functions.
var defaultValidator = New(&chaincfg.MainNetParams)

// ValidatePrivateKeyWIF validates a mainnet WIF payload.
func ValidatePrivateKeyWIF(payload []byte) Outcome {
	return defaultValidator.ValidatePrivateKeyWIF(payload)
}

// ValidateAddress validates a mainnet Base58 address payload.
func ValidateAddress(payload []byte) Outcome {
	return defaultValidator.ValidateAddress(payload)
}

// ValidateBip38 validates a BIP-38 payload.
func ValidateBip38(payload []byte) Outcome {
	return defaultValidator.ValidateBip38(payload)
}

// DecodeWitnessAddress decodes a mainnet ("bc") version 0 witness address.
func DecodeWitnessAddress(address string) ([]byte, error) {
	return defaultValidator.DecodeWitnessAddress(address)
}
