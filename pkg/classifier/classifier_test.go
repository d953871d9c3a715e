package classifier

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Amr-9/KeyRescue/pkg/validator"
)

const (
	uncompressedKey = "5HueCGU8rMjxEXxiPuD5BDku4MkFqeZyd4dZ1jvhTVqvbTLvyTJ"
	compressedKey   = "KwdMAjGmerYanjeui5SHS7JkmpZvVipYvB2LJGU1ZxJwYvP98617"
)

func punch(key string, missing byte, idx ...int) string {
	b := []byte(key)
	for _, i := range idx {
		b[i] = missing
	}
	return string(b)
}

func TestNewRejectsBase58Placeholder(t *testing.T) {
	_, err := New("*a")
	require.Error(t, err)

	c, err := New("")
	require.NoError(t, err)
	require.Equal(t, DefaultPlaceholders, c.Placeholders())
}

func TestClassifyPartial(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		missing rune
		want    error
		accept  Accept
	}{
		{
			name:    "placeholder not in set",
			key:     punch(uncompressedKey, '*', 3),
			missing: '0',
			want:    validator.ErrPlaceholder,
		},
		{
			name:    "base58 char as placeholder",
			key:     "5HueCGU8",
			missing: 'H',
			want:    validator.ErrPlaceholder,
		},
		{
			name:    "empty",
			key:     "",
			missing: '*',
			want:    validator.ErrLength,
		},
		{
			name:    "foreign character",
			key:     punch(uncompressedKey, '*', 3) + "0",
			missing: '*',
			want:    validator.ErrCharset,
		},
		{
			name:    "other placeholder symbol is foreign",
			key:     punch(uncompressedKey, '?', 3),
			missing: '*',
			want:    validator.ErrCharset,
		},
		{
			name:    "uncompressed with gaps",
			key:     punch(uncompressedKey, '*', 3, 10),
			missing: '*',
			accept:  Accept{Missing: 2, Positions: []int{3, 10}},
		},
		{
			name:    "compressed with gaps",
			key:     punch(compressedKey, '?', 51),
			missing: '?',
			accept: Accept{
				Missing:    1,
				Positions:  []int{51},
				Compressed: true,
			},
		},
		{
			name:    "compressed length with uncompressed lead",
			key:     punch("5"+compressedKey[1:], '*', 7),
			missing: '*',
			want:    validator.ErrPrefix,
		},
		{
			name:    "uncompressed length with compressed lead",
			key:     punch("K"+uncompressedKey[1:], '*', 7),
			missing: '*',
			want:    validator.ErrPrefix,
		},
		{
			name:    "placeholder as leading character",
			key:     punch(compressedKey, '*', 0),
			missing: '*',
			want:    validator.ErrPrefix,
		},
		{
			name:    "wrong length with gaps",
			key:     punch(uncompressedKey[:40], '*', 5),
			missing: '*',
			want:    validator.ErrLength,
		},
		{
			name:    "complete key",
			key:     compressedKey,
			missing: '*',
			accept:  Accept{Complete: true},
		},
		{
			name:    "short key without placeholder",
			key:     uncompressedKey[:30],
			missing: '*',
			accept:  Accept{Complete: true},
		},
		{
			name:    "too long without placeholder",
			key:     compressedKey + "1",
			missing: '*',
			want:    validator.ErrLength,
		},
		{
			name:    "bad lead without placeholder",
			key:     "1" + uncompressedKey[1:],
			missing: '*',
			want:    validator.ErrPrefix,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accept, err := ClassifyPartial(tt.key, tt.missing)
			if tt.want != nil {
				require.ErrorIs(t, err, tt.want)

				var verr *validator.Error
				require.True(t, errors.As(err, &verr))
				require.NotEmpty(t, verr.Detail)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.accept, accept)
		})
	}
}

func TestClassifyPartialCustomSet(t *testing.T) {
	c, err := New("~")
	require.NoError(t, err)

	_, err = c.ClassifyPartial(strings.Repeat("~", 51), '*')
	require.ErrorIs(t, err, validator.ErrPlaceholder)

	_, err = c.ClassifyPartial("5"+strings.Repeat("~", 50), '~')
	require.NoError(t, err)
}

func TestClassifyPartialMultiBytePlaceholderCountsCharacters(t *testing.T) {
	c, err := New("€§")
	require.NoError(t, err)

	// 51 characters, 53 bytes.
	accept, err := c.ClassifyPartial("5"+strings.Repeat("H", 49)+"€", '€')
	require.NoError(t, err)
	require.Equal(t, 1, accept.Missing)
	require.Equal(t, []int{50}, accept.Positions)
	require.False(t, accept.Compressed)

	// 51 characters, 52 bytes, must not be taken for a compressed key.
	accept, err = c.ClassifyPartial("5§"+strings.Repeat("H", 49), '§')
	require.NoError(t, err)
	require.Equal(t, []int{1}, accept.Positions)
	require.False(t, accept.Compressed)

	accept, err = c.ClassifyPartial("K§"+strings.Repeat("H", 50), '§')
	require.NoError(t, err)
	require.True(t, accept.Compressed)

	_, err = c.ClassifyPartial("5"+strings.Repeat("€", 51), '€')
	require.ErrorIs(t, err, validator.ErrLength)
}
