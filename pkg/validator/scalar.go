package validator

import (
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"
)

// ScalarLen is the byte length of a secp256k1 private key scalar.
const ScalarLen = 32

// maxScalar is the largest valid private key, N-1 where N is the
// secp256k1 group order.
var maxScalar = new(big.Int).Sub(btcec.S256().N, big.NewInt(1))

// MaxScalar returns a copy of the largest valid private key scalar.
func MaxScalar() *big.Int {
	return new(big.Int).Set(maxScalar)
}

// IsScalarInRange interprets up to 32 bytes as an unsigned big-endian
// integer and reports whether 1 <= value <= N-1. Longer inputs are always
// out of range.
func IsScalarInRange(b []byte) bool {
	if len(b) > ScalarLen {
		return false
	}

	var s btcec.ModNScalar
	if overflow := s.SetByteSlice(b); overflow {
		return false
	}
	return !s.IsZero()
}
