package validator

import (
	"crypto/sha256"
	"strings"

	"github.com/btcsuite/btcd/chaincfg"

	"github.com/Amr-9/KeyRescue/pkg/codec"
	"github.com/Amr-9/KeyRescue/pkg/keys"
)

const (
	// witnessV0ScriptLen is the program length of a P2WSH address.
	witnessV0ScriptLen = 32

	// taprootKeyLen is the program length of a P2TR address.
	taprootKeyLen = 32

	// miniKeyPrefix is the first character of every mini private key.
	miniKeyPrefix = 'S'

	// bip38Prefix is the textual prefix of Base58Check BIP-38 keys.
	bip38Prefix = "6P"
)

// witnessHRPs are the witness human-readable parts of every known
// network. An address carrying any of them is routed to the witness
// validator so a wrong network is reported as such.
var witnessHRPs = []string{
	chaincfg.MainNetParams.Bech32HRPSegwit,
	chaincfg.TestNet3Params.Bech32HRPSegwit,
	chaincfg.RegressionNetParams.Bech32HRPSegwit,
	chaincfg.SigNetParams.Bech32HRPSegwit,
	chaincfg.SimNetParams.Bech32HRPSegwit,
}

// miniKeyLens are the accepted mini private key lengths.
var miniKeyLens = []int{22, 26, 30}

// ValidateWIF decodes a Base58Check WIF string and validates its payload.
func (v *Validator) ValidateWIF(s string) Outcome {
	payload, err := codec.Base58CheckDecode(s)
	if err != nil {
		return OutcomeFromError(err)
	}
	return v.ValidatePrivateKeyWIF(payload)
}

// ValidateBase58Address decodes a Base58Check address and validates its
// payload.
func (v *Validator) ValidateBase58Address(s string) Outcome {
	payload, err := codec.Base58CheckDecode(s)
	if err != nil {
		return OutcomeFromError(err)
	}
	return v.ValidateAddress(payload)
}

// ValidateBip38String decodes a Base58Check BIP-38 key and validates its
// payload.
func (v *Validator) ValidateBip38String(s string) Outcome {
	payload, err := codec.Base58CheckDecode(s)
	if err != nil {
		return OutcomeFromError(err)
	}
	return v.ValidateBip38(payload)
}

// ValidateWitnessAddress validates any native witness address this tool
// understands: version 0 with a 20 or 32 byte program, or version 1
// (Taproot) with a 32 byte program.
func (v *Validator) ValidateWitnessAddress(s string) (keys.KeyType, Outcome) {
	hrp, version, program, err := codec.Bech32Decode(s)
	if err != nil {
		return keys.Unknown, OutcomeFromError(err)
	}
	if !strings.EqualFold(hrp, v.params.Bech32HRPSegwit) {
		return keys.Unknown, invalid(InvalidPrefix, "human-readable "+
			"part is %q, expected %q for %s", hrp,
			v.params.Bech32HRPSegwit, v.params.Name)
	}

	switch {
	case version == 0 && len(program) == WitnessV0HashLen:
		return keys.P2WPKH, valid("P2WPKH address")
	case version == 0 && len(program) == witnessV0ScriptLen:
		return keys.P2WSH, valid("P2WSH address")
	case version == 0:
		return keys.Unknown, invalid(InvalidLength, "witness v0 "+
			"program is %d bytes, expected %d or %d", len(program),
			WitnessV0HashLen, witnessV0ScriptLen)
	case version == 1 && len(program) == taprootKeyLen:
		return keys.P2TR, valid("P2TR address")
	case version == 1:
		return keys.Unknown, invalid(InvalidLength, "witness v1 "+
			"program is %d bytes, expected %d", len(program),
			taprootKeyLen)
	default:
		return keys.Unknown, invalid(InvalidPrefix, "witness version "+
			"%d is not supported", version)
	}
}

// ValidateMiniKey validates a Casascius mini private key: it starts with
// 'S', is 22, 26 or 30 Base58 characters long, SHA256(key + "?") starts
// with a zero byte and SHA256(key) is a valid scalar.
func (v *Validator) ValidateMiniKey(s string) Outcome {
	if !isMiniKeyLen(len(s)) {
		return invalid(InvalidLength, "mini private key is %d "+
			"characters, expected 22, 26 or 30", len(s))
	}
	if s[0] != miniKeyPrefix {
		return invalid(InvalidPrefix, "mini private key starts with "+
			"%q, expected %q", s[0], miniKeyPrefix)
	}
	if bad := codec.InvalidBase58Chars(s); len(bad) > 0 {
		return invalid(InvalidCharacterSet, "%q is not a Base58 "+
			"character", bad[0])
	}

	check := sha256.Sum256([]byte(s + "?"))
	if check[0] != 0x00 {
		return invalid(InvalidChecksum, "SHA256(key + \"?\") starts "+
			"with 0x%02x, expected 0x00", check[0])
	}

	scalar := sha256.Sum256([]byte(s))
	if !IsScalarInRange(scalar[:]) {
		return invalid(InvalidRange, "mini key hash is zero or not "+
			"below the secp256k1 curve order")
	}

	return valid("mini private key (%d characters)", len(s))
}

// Detect guesses what kind of key or address s encodes and validates it
// accordingly.
func (v *Validator) Detect(s string) (keys.KeyType, Outcome) {
	s = strings.TrimSpace(s)
	if s == "" {
		return keys.Unknown, invalid(InvalidLength, "input is empty")
	}

	if hasWitnessHRP(s, v.params.Bech32HRPSegwit) {
		return v.ValidateWitnessAddress(s)
	}

	if s[0] == miniKeyPrefix && isMiniKeyLen(len(s)) {
		return keys.MiniKey, v.ValidateMiniKey(s)
	}

	payload, err := codec.Base58CheckDecode(s)
	if err != nil {
		return keys.Unknown, OutcomeFromError(err)
	}

	switch {
	case strings.HasPrefix(s, bip38Prefix):
		return keys.BIP38, v.ValidateBip38(payload)

	case len(payload) == AddressLen:
		out := v.ValidateAddress(payload)
		kind := keys.Unknown
		if out.IsValid() {
			kind = keys.P2PKH
			if payload[0] == v.params.ScriptHashAddrID {
				kind = keys.P2SH
			}
		}
		return kind, out

	case payload[0] == v.params.PrivateKeyID,
		len(payload) == WIFUncompressedLen,
		len(payload) == WIFCompressedLen:

		out := v.ValidatePrivateKeyWIF(payload)
		kind := keys.Unknown
		if out.IsValid() {
			kind = keys.WIFUncompressed
			if len(payload) == WIFCompressedLen {
				kind = keys.WIFCompressed
			}
		}
		return kind, out

	default:
		log.Debugf("Unrecognised %d byte payload with version 0x%02x",
			len(payload), payload[0])

		return keys.Unknown, v.ValidateAddress(payload)
	}
}

// ValidateWIF validates a mainnet WIF string.
func ValidateWIF(s string) Outcome {
	return defaultValidator.ValidateWIF(s)
}

// ValidateMiniKey validates a mini private key.
func ValidateMiniKey(s string) Outcome {
	return defaultValidator.ValidateMiniKey(s)
}

// Detect detects and validates a mainnet key or address string.
func Detect(s string) (keys.KeyType, Outcome) {
	return defaultValidator.Detect(s)
}

// hasWitnessHRP reports whether s starts with the separator-terminated
// witness human-readable part of own or of any other known network.
func hasWitnessHRP(s, own string) bool {
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, own+"1") {
		return true
	}
	for _, hrp := range witnessHRPs {
		if strings.HasPrefix(lower, hrp+"1") {
			return true
		}
	}
	return false
}

func isMiniKeyLen(n int) bool {
	for _, l := range miniKeyLens {
		if n == l {
			return true
		}
	}
	return false
}
