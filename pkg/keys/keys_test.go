package keys

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/stretchr/testify/require"
)

// keyOne returns the private key with scalar 1, whose public key is the
// generator point.
func keyOne() *btcec.PrivateKey {
	b := make([]byte, 32)
	b[31] = 1
	priv, _ := btcec.PrivKeyFromBytes(b)
	return priv
}

func TestParseNetwork(t *testing.T) {
	tests := []struct {
		name    string
		want    Network
		wantErr bool
	}{
		{name: "", want: Mainnet},
		{name: "mainnet", want: Mainnet},
		{name: "Testnet3", want: Testnet3},
		{name: "testnet", want: Testnet3},
		{name: "regtest", want: Regtest},
		{name: " signet ", want: Signet},
		{name: "litecoin", wantErr: true},
	}

	for _, test := range tests {
		got, err := ParseNetwork(test.name)
		if test.wantErr {
			require.Error(t, err, test.name)
			continue
		}
		require.NoError(t, err, test.name)
		require.Equal(t, test.want, got, test.name)

		roundTrip, err := ParseNetwork(got.String())
		require.NoError(t, err)
		require.Equal(t, got, roundTrip)
	}

	require.Equal(t, &chaincfg.SigNetParams, Signet.Params())
}

func TestKeyTypePredicates(t *testing.T) {
	for _, k := range []KeyType{WIFUncompressed, WIFCompressed, MiniKey} {
		require.True(t, k.IsPrivateKey(), k.String())
		require.False(t, k.IsAddress(), k.String())
	}
	for _, k := range []KeyType{P2PKH, P2SH, P2WPKH, P2WSH, P2TR} {
		require.True(t, k.IsAddress(), k.String())
		require.False(t, k.IsPrivateKey(), k.String())
	}
	require.False(t, BIP38.IsPrivateKey())
	require.False(t, BIP38.IsAddress())
	require.Equal(t, "Unknown", KeyType(99).String())
}

func TestHash160(t *testing.T) {
	pub := keyOne().PubKey().SerializeCompressed()
	require.Equal(t, "751e76e8199196d454941c45d1b3a323f1433bd6",
		hex.EncodeToString(Hash160(pub)))
}

func TestDeriveAddress(t *testing.T) {
	params := &chaincfg.MainNetParams
	priv := keyOne()

	tests := []struct {
		name       string
		compressed bool
		kind       KeyType
		want       string
		wantPrefix string
		wantErr    error
	}{
		{
			name:       "uncompressed p2pkh",
			kind:       P2PKH,
			want:       "1EHNa6Q4Jz2uvNExL497mE43ikXhwF6kZm",
		},
		{
			name:       "compressed p2pkh",
			compressed: true,
			kind:       P2PKH,
			want:       "1BgGZ9tcN4rm9KBzDn7KprQz87SZ26SAMH",
		},
		{
			name:       "p2wpkh",
			compressed: true,
			kind:       P2WPKH,
			want:       "bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t4",
		},
		{
			name:       "nested segwit",
			compressed: true,
			kind:       P2SH,
			wantPrefix: "3",
		},
		{
			name:       "taproot",
			compressed: true,
			kind:       P2TR,
			wantPrefix: "bc1p",
		},
		{
			name:    "uncompressed witness",
			kind:    P2WPKH,
			wantErr: ErrRequiresCompressed,
		},
		{
			name:       "script hash",
			compressed: true,
			kind:       P2WSH,
			wantErr:    ErrUnsupportedAddress,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			addr, err := DeriveAddress(priv, test.compressed, test.kind,
				params)
			if test.wantErr != nil {
				require.ErrorIs(t, err, test.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, test.kind, AddressKind(addr))

			encoded := addr.EncodeAddress()
			if test.want != "" {
				require.Equal(t, test.want, encoded)
			}
			require.True(t, strings.HasPrefix(encoded, test.wantPrefix))

			// Every derived address is matched by its own key.
			ok, err := MatchesAddress(priv, test.compressed, encoded,
				params)
			require.NoError(t, err)
			require.True(t, ok)
		})
	}
}

func TestMatchesAddress(t *testing.T) {
	params := &chaincfg.MainNetParams
	priv := keyOne()

	// Compressed and uncompressed keys control different addresses.
	ok, err := MatchesAddress(priv, false,
		"1BgGZ9tcN4rm9KBzDn7KprQz87SZ26SAMH", params)
	require.NoError(t, err)
	require.False(t, ok)

	// An uncompressed key never controls a witness address.
	ok, err = MatchesAddress(priv, false,
		"bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t4", params)
	require.NoError(t, err)
	require.False(t, ok)

	_, err = MatchesAddress(priv, true, "not an address", params)
	require.Error(t, err)

	_, err = MatchesAddress(priv, true,
		"1BgGZ9tcN4rm9KBzDn7KprQz87SZ26SAMH", &chaincfg.TestNet3Params)
	require.Error(t, err)
}

func TestWIFRoundTrip(t *testing.T) {
	params := &chaincfg.MainNetParams
	priv := keyOne()

	tests := []struct {
		compressed bool
		want       string
	}{
		{false, "5HpHagT65TZzG1PH3CSu63k8DbpvD8s5ip4nEB3kEsreAnchuDf"},
		{true, "KwDiBf89QgGbjEhKnhXJuH7LrciVrZi3qYjgd9M7rFU73sVHnoWn"},
	}

	for _, test := range tests {
		wif, err := EncodeWIF(priv, test.compressed, params)
		require.NoError(t, err)
		require.Equal(t, test.want, wif)

		decoded, compressed, err := DecodeWIF(wif)
		require.NoError(t, err)
		require.Equal(t, test.compressed, compressed)
		require.True(t, decoded.Key.Equals(&priv.Key))
	}

	_, _, err := DecodeWIF("5HpHagT65TZzG1PH3CSu63k8DbpvD8s5ip4nEB3kEsreAnchuDe")
	require.ErrorIs(t, err, btcutil.ErrChecksumMismatch)
}

func TestMiniKeyPrivateKey(t *testing.T) {
	mini := "S6c56bnXQiBjk9mqSYE7ykVQ7NzrRy"
	priv := MiniKeyPrivateKey(mini)

	wif, err := EncodeWIF(priv, false, &chaincfg.MainNetParams)
	require.NoError(t, err)
	require.Equal(t, "5JPy8Zg7z4P7RSLsiqcqyeAF1935zjNUdMxcDeVrtU1oarrgnB7",
		wif)
}
