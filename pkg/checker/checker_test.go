package checker

import (
	"context"
	"crypto/sha256"
	"math/rand"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/stretchr/testify/require"

	"github.com/Amr-9/KeyRescue/pkg/codec"
	"github.com/Amr-9/KeyRescue/pkg/keys"
	"github.com/Amr-9/KeyRescue/pkg/progress"
)

const (
	uncompressedWIF = "5HueCGU8rMjxEXxiPuD5BDku4MkFqeZyd4dZ1jvhTVqvbTLvyTJ"
	compressedWIF   = "KwdMAjGmerYanjeui5SHS7JkmpZvVipYvB2LJGU1ZxJwYvP98617"
	genesisAddress  = "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa"
)

// corrupt replaces the last character so the checksum no longer matches.
func corrupt(s string) string {
	last := s[len(s)-1]
	repl := byte('2')
	if last == repl {
		repl = '3'
	}
	return s[:len(s)-1] + string(repl)
}

func newTestChecker(t *testing.T, cfg Config) (*Checker, *progress.Coordinator) {
	t.Helper()

	coord := progress.New(progress.Config{})
	t.Cleanup(coord.Stop)

	return New(cfg, coord), coord
}

func addressFor(t *testing.T, wif string, kind keys.KeyType) string {
	t.Helper()

	priv, compressed, err := keys.DecodeWIF(wif)
	require.NoError(t, err)

	addr, err := keys.DeriveAddress(
		priv, compressed, kind, &chaincfg.MainNetParams,
	)
	require.NoError(t, err)

	return addr.EncodeAddress()
}

func TestRunFindsTargetKey(t *testing.T) {
	target := addressFor(t, uncompressedWIF, keys.P2PKH)

	c, coord := newTestChecker(t, Config{
		Target:     target,
		Partitions: 2,
		Workers:    2,
	})

	candidates := []string{
		corrupt(uncompressedWIF),
		compressedWIF,
		uncompressedWIF,
		"not a key",
	}

	results, err := c.Run(context.Background(), candidates)
	require.NoError(t, err)
	require.Len(t, results, 2)

	require.Equal(t, 1, results[0].Index)
	require.Equal(t, keys.WIFCompressed, results[0].Type)
	require.False(t, results[0].Matched)

	require.Equal(t, 2, results[1].Index)
	require.Equal(t, keys.WIFUncompressed, results[1].Type)
	require.True(t, results[1].Matched)
	require.Equal(t, uncompressedWIF, results[1].WIF)

	state := coord.Snapshot()
	require.Equal(t, progress.FinishedSuccess, state.Status)
	require.True(t, state.Found)
	require.Equal(t, 100.0, state.Percent)
	require.Contains(t, state.Message, "at position 2")
	require.NotContains(t, state.Message, "at position 1")

	stats := c.Stats()
	require.EqualValues(t, 4, stats.Checked)
	require.EqualValues(t, 2, stats.Valid)
}

func TestRunWitnessTarget(t *testing.T) {
	target := addressFor(t, compressedWIF, keys.P2WPKH)

	c, coord := newTestChecker(t, Config{Target: target, Workers: 1})

	// The uncompressed key can never control a witness address.
	results, err := c.Run(context.Background(), []string{
		uncompressedWIF, compressedWIF,
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.False(t, results[0].Matched)
	require.True(t, results[1].Matched)
	require.Equal(t, progress.FinishedSuccess, coord.Snapshot().Status)
}

func TestRunNoMatch(t *testing.T) {
	c, coord := newTestChecker(t, Config{
		Target:  genesisAddress,
		Workers: 3,
	})

	results, err := c.Run(context.Background(), []string{
		uncompressedWIF, compressedWIF, genesisAddress,
	})
	require.NoError(t, err)
	require.Len(t, results, 3)
	for _, r := range results {
		require.False(t, r.Matched)
	}

	state := coord.Snapshot()
	require.Equal(t, progress.FinishedFail, state.Status)
	require.False(t, state.Found)
}

func TestRunWithoutTarget(t *testing.T) {
	tests := []struct {
		name       string
		candidates []string
		wantStatus progress.Status
		wantValid  int
	}{
		{
			name:       "private key is a hit",
			candidates: []string{corrupt(compressedWIF), compressedWIF},
			wantStatus: progress.FinishedSuccess,
			wantValid:  1,
		},
		{
			name:       "address alone is not a hit",
			candidates: []string{genesisAddress, corrupt(genesisAddress)},
			wantStatus: progress.FinishedFail,
			wantValid:  1,
		},
		{
			name:       "nothing valid",
			candidates: []string{"", "xyz", corrupt(uncompressedWIF)},
			wantStatus: progress.FinishedFail,
			wantValid:  0,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c, coord := newTestChecker(t, Config{Partitions: 8})

			results, err := c.Run(context.Background(), test.candidates)
			require.NoError(t, err)
			require.Len(t, results, test.wantValid)
			require.Equal(t, test.wantStatus, coord.Snapshot().Status)
		})
	}
}

func TestRunMiniKey(t *testing.T) {
	mini := findMiniKey(t)

	priv := keys.MiniKeyPrivateKey(mini)
	addr, err := keys.DeriveAddress(
		priv, false, keys.P2PKH, &chaincfg.MainNetParams,
	)
	require.NoError(t, err)

	c, coord := newTestChecker(t, Config{Target: addr.EncodeAddress()})

	results, err := c.Run(context.Background(), []string{mini})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, keys.MiniKey, results[0].Type)
	require.True(t, results[0].Matched)

	decoded, compressed, err := keys.DecodeWIF(results[0].WIF)
	require.NoError(t, err)
	require.False(t, compressed)
	require.True(t, decoded.Key.Equals(&priv.Key))
	require.Equal(t, progress.FinishedSuccess, coord.Snapshot().Status)
}

func TestRunCancelled(t *testing.T) {
	c, coord := newTestChecker(t, Config{Workers: 2})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	candidates := make([]string, 100)
	for i := range candidates {
		candidates[i] = compressedWIF
	}

	_, err := c.Run(ctx, candidates)
	require.ErrorIs(t, err, context.Canceled)

	state := coord.Snapshot()
	require.Equal(t, progress.Working, state.Status)
	require.Contains(t, state.Message, "Search abandoned")
}

func TestRunRejectsBadInput(t *testing.T) {
	c, _ := newTestChecker(t, Config{})

	_, err := c.Run(context.Background(), nil)
	require.ErrorIs(t, err, ErrNoCandidates)

	c, coord := newTestChecker(t, Config{Target: compressedWIF})
	_, err = c.Run(context.Background(), []string{compressedWIF})
	require.ErrorIs(t, err, ErrInvalidTarget)
	require.Equal(t, progress.Ready, coord.Snapshot().Status)

	c, _ = newTestChecker(t, Config{Target: corrupt(genesisAddress)})
	_, err = c.Run(context.Background(), []string{compressedWIF})
	require.ErrorIs(t, err, ErrInvalidTarget)
}

func TestRunTestnet(t *testing.T) {
	params := &chaincfg.TestNet3Params

	priv, _ := btcec.PrivKeyFromBytes([]byte{
		0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08,
		0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f, 0x10,
		0x11, 0x12, 0x13, 0x14, 0x15, 0x16, 0x17, 0x18,
		0x19, 0x1a, 0x1b, 0x1c, 0x1d, 0x1e, 0x1f, 0x20,
	})
	wif, err := keys.EncodeWIF(priv, true, params)
	require.NoError(t, err)

	addr, err := keys.DeriveAddress(priv, true, keys.P2TR, params)
	require.NoError(t, err)

	c, coord := newTestChecker(t, Config{
		Params: params,
		Target: addr.EncodeAddress(),
	})

	// Mainnet keys are rejected by prefix on testnet.
	results, err := c.Run(context.Background(), []string{compressedWIF, wif})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, 1, results[0].Index)
	require.True(t, results[0].Matched)
	require.True(t, strings.HasPrefix(results[0].WIF, "c"))
	require.Equal(t, progress.FinishedSuccess, coord.Snapshot().Status)
}

// findMiniKey deterministically searches for a 30 character mini key that
// passes the typo check.
func findMiniKey(t *testing.T) string {
	t.Helper()

	rng := rand.New(rand.NewSource(30))
	buf := make([]byte, 30)
	for i := 0; i < 100000; i++ {
		buf[0] = 'S'
		for j := 1; j < len(buf); j++ {
			buf[j] = codec.Base58Alphabet[rng.Intn(len(codec.Base58Alphabet))]
		}

		check := sha256.Sum256(append(append([]byte{}, buf...), '?'))
		if check[0] == 0 {
			return string(buf)
		}
	}

	t.Fatalf("no mini key found")
	return ""
}
