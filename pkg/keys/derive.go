package keys

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"golang.org/x/crypto/ripemd160"
)

var (
	// ErrRequiresCompressed is returned when a witness address kind is
	// requested for a key that uses an uncompressed public key.
	ErrRequiresCompressed = errors.New("address type requires a compressed public key")

	// ErrUnsupportedAddress is returned for address kinds that cannot be
	// derived from a single key.
	ErrUnsupportedAddress = errors.New("unsupported address type")
)

// Hash160 computes RIPEMD160(SHA256(data)).
func Hash160(data []byte) []byte {
	sha := sha256.Sum256(data)
	h := ripemd160.New()
	h.Write(sha[:])
	return h.Sum(nil)
}

// DeriveAddress derives the address of the given kind for a private key.
func DeriveAddress(priv *btcec.PrivateKey, compressed bool, kind KeyType,
	params *chaincfg.Params) (btcutil.Address, error) {

	pub := priv.PubKey()

	switch kind {
	case P2PKH:
		var serialized []byte
		if compressed {
			serialized = pub.SerializeCompressed()
		} else {
			serialized = pub.SerializeUncompressed()
		}
		return btcutil.NewAddressPubKeyHash(Hash160(serialized), params)

	case P2SH:
		// Nested SegWit: HASH160(0x00 0x14 <HASH160(pubkey)>).
		if !compressed {
			return nil, ErrRequiresCompressed
		}
		witnessProgram := make([]byte, 22)
		witnessProgram[0] = 0x00
		witnessProgram[1] = 0x14
		copy(witnessProgram[2:], Hash160(pub.SerializeCompressed()))
		return btcutil.NewAddressScriptHashFromHash(
			Hash160(witnessProgram), params,
		)

	case P2WPKH:
		if !compressed {
			return nil, ErrRequiresCompressed
		}
		return btcutil.NewAddressWitnessPubKeyHash(
			Hash160(pub.SerializeCompressed()), params,
		)

	case P2TR:
		if !compressed {
			return nil, ErrRequiresCompressed
		}
		tweaked := txscript.ComputeTaprootKeyNoScript(pub)
		return btcutil.NewAddressTaproot(
			schnorr.SerializePubKey(tweaked), params,
		)

	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedAddress, kind)
	}
}

// AddressKind returns the KeyType of a decoded address.
func AddressKind(addr btcutil.Address) KeyType {
	switch addr.(type) {
	case *btcutil.AddressPubKeyHash:
		return P2PKH
	case *btcutil.AddressScriptHash:
		return P2SH
	case *btcutil.AddressWitnessPubKeyHash:
		return P2WPKH
	case *btcutil.AddressWitnessScriptHash:
		return P2WSH
	case *btcutil.AddressTaproot:
		return P2TR
	default:
		return Unknown
	}
}

// MatchesAddress reports whether the private key controls the given
// address. Witness address kinds never match uncompressed keys.
func MatchesAddress(priv *btcec.PrivateKey, compressed bool, address string,
	params *chaincfg.Params) (bool, error) {

	target, err := btcutil.DecodeAddress(address, params)
	if err != nil {
		return false, fmt.Errorf("decode target address: %w", err)
	}
	if !target.IsForNet(params) {
		return false, fmt.Errorf("address %s is not for %s", address,
			params.Name)
	}

	derived, err := DeriveAddress(priv, compressed, AddressKind(target), params)
	switch {
	case errors.Is(err, ErrRequiresCompressed):
		return false, nil
	case err != nil:
		return false, err
	}

	return derived.EncodeAddress() == target.EncodeAddress(), nil
}

// EncodeWIF converts a private key to Wallet Import Format.
func EncodeWIF(priv *btcec.PrivateKey, compressed bool,
	params *chaincfg.Params) (string, error) {

	wif, err := btcutil.NewWIF(priv, params, compressed)
	if err != nil {
		return "", err
	}
	return wif.String(), nil
}

// DecodeWIF parses a WIF string into its private key and compression flag.
func DecodeWIF(s string) (*btcec.PrivateKey, bool, error) {
	wif, err := btcutil.DecodeWIF(s)
	if err != nil {
		return nil, false, err
	}
	return wif.PrivKey, wif.CompressPubKey, nil
}

// MiniKeyPrivateKey returns the private key encoded by a mini private key,
// which is SHA256 of the mini key string. Mini keys always use
// uncompressed public keys.
func MiniKeyPrivateKey(mini string) *btcec.PrivateKey {
	sum := sha256.Sum256([]byte(mini))
	priv, _ := btcec.PrivKeyFromBytes(sum[:])
	return priv
}
