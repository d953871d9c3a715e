// Package keys defines the key and address kinds handled by KeyRescue and
// the shared result/statistics types passed between the checker and the
// presentation layer. It also derives addresses from recovered private keys.
package keys

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/chaincfg"
)

// Network represents the Bitcoin network whose version bytes and
// human-readable parts are used for validation.
type Network int

const (
	Mainnet  Network = iota // Bitcoin mainnet (0x80 keys, 1/3/bc1 addresses)
	Testnet3                // Testnet3 (0xef keys, m/n/2/tb1 addresses)
	Regtest                 // Regression test network (bcrt1)
	Signet                  // Signet (tb1)
)

// String returns the network name.
func (n Network) String() string {
	switch n {
	case Mainnet:
		return "mainnet"
	case Testnet3:
		return "testnet3"
	case Regtest:
		return "regtest"
	case Signet:
		return "signet"
	default:
		return "unknown"
	}
}

// Params returns the chain parameters for the network.
func (n Network) Params() *chaincfg.Params {
	switch n {
	case Testnet3:
		return &chaincfg.TestNet3Params
	case Regtest:
		return &chaincfg.RegressionNetParams
	case Signet:
		return &chaincfg.SigNetParams
	default:
		return &chaincfg.MainNetParams
	}
}

// ParseNetwork resolves a network name as accepted on the command line.
func ParseNetwork(name string) (Network, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "mainnet", "main", "bitcoin":
		return Mainnet, nil
	case "testnet3", "testnet", "test":
		return Testnet3, nil
	case "regtest", "simnet":
		return Regtest, nil
	case "signet":
		return Signet, nil
	default:
		return Mainnet, fmt.Errorf("unknown network %q", name)
	}
}

// KeyType represents the kind of key material or address a string encodes.
type KeyType int

const (
	Unknown         KeyType = iota
	WIFUncompressed         // Base58Check, 0x80 + 32 bytes (5...)
	WIFCompressed           // Base58Check, 0x80 + 32 bytes + 0x01 (K.../L...)
	MiniKey                 // Casascius mini private key (S...)
	BIP38                   // Passphrase-encrypted key (6P...)
	P2PKH                   // Legacy (1...)
	P2SH                    // Script hash, including nested SegWit (3...)
	P2WPKH                  // Native SegWit v0 key hash (bc1q..., 20 bytes)
	P2WSH                   // Native SegWit v0 script hash (bc1q..., 32 bytes)
	P2TR                    // Taproot (bc1p...)
)

// String returns the key type name.
func (k KeyType) String() string {
	switch k {
	case WIFUncompressed:
		return "WIF (uncompressed)"
	case WIFCompressed:
		return "WIF (compressed)"
	case MiniKey:
		return "Mini private key"
	case BIP38:
		return "BIP-38 encrypted key"
	case P2PKH:
		return "Legacy (P2PKH)"
	case P2SH:
		return "Script hash (P2SH)"
	case P2WPKH:
		return "Native SegWit (P2WPKH)"
	case P2WSH:
		return "Native SegWit (P2WSH)"
	case P2TR:
		return "Taproot (P2TR)"
	default:
		return "Unknown"
	}
}

// IsPrivateKey reports whether the type carries a usable private key.
func (k KeyType) IsPrivateKey() bool {
	return k == WIFUncompressed || k == WIFCompressed || k == MiniKey
}

// IsAddress reports whether the type is an address.
func (k KeyType) IsAddress() bool {
	return k == P2PKH || k == P2SH || k == P2WPKH || k == P2WSH || k == P2TR
}

// Result describes a candidate that passed validation.
type Result struct {
	Index     int     // Position of the candidate in the input list
	Candidate string  // The candidate string as supplied
	Type      KeyType // Detected kind
	Detail    string  // Validator explanation
	WIF       string  // WIF re-encoding of private keys (mini keys included)
	Matched   bool    // Whether the key derives the configured target address
}

// Stats holds real-time checker statistics.
type Stats struct {
	Checked     uint64  // Candidates examined so far
	Valid       uint64  // Candidates that passed validation
	Rate        float64 // Candidates per second
	ElapsedSecs float64 // Time elapsed since start
}
