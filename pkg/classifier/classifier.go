// Package classifier prunes partially known private keys before a search
// spends cycles enumerating the missing characters. It only checks what can
// be decided without knowing the hidden characters: placeholder symbol,
// alphabet, total length and leading character. Checksums and scalar range
// need a fully materialised candidate and are left to the validator.
package classifier

import (
	"fmt"
	"strings"

	"github.com/Amr-9/KeyRescue/pkg/codec"
	"github.com/Amr-9/KeyRescue/pkg/validator"
)

const (
	// CompressedWIFLen is the string length of a compressed WIF key.
	CompressedWIFLen = 52

	// UncompressedWIFLen is the string length of an uncompressed WIF key.
	UncompressedWIFLen = 51

	// DefaultPlaceholders is the default set of symbols that may mark a
	// missing character. None of them belong to the Base58 alphabet.
	DefaultPlaceholders = "*?-_!@#$%&"
)

var (
	// compressedLeads are the first characters a compressed mainnet WIF
	// key may start with.
	compressedLeads = "KL"

	// uncompressedLeads are the first characters an uncompressed mainnet
	// WIF key may start with.
	uncompressedLeads = "5"
)

// Accept describes a partial key that passed the precheck.
type Accept struct {
	// Missing is the number of placeholder occurrences.
	Missing int

	// Positions holds the character index of every placeholder.
	Positions []int

	// Complete is true when the key has no placeholder at all. The caller
	// must then run full validation itself.
	Complete bool

	// Compressed is only meaningful when Missing > 0, since the length of
	// the key is then known to be final.
	Compressed bool
}

// Classifier checks partial WIF strings against a configured placeholder
// set. It is immutable after construction and safe for concurrent use.
type Classifier struct {
	placeholders string
}

// New creates a classifier that accepts the given placeholder symbols. An
// empty set selects DefaultPlaceholders. Symbols that are themselves Base58
// characters are refused, since they would be indistinguishable from key
// material.
func New(placeholders string) (*Classifier, error) {
	if placeholders == "" {
		placeholders = DefaultPlaceholders
	}
	for _, c := range placeholders {
		if codec.IsBase58Char(c) {
			return nil, fmt.Errorf("placeholder %q is a Base58 "+
				"character", c)
		}
	}
	return &Classifier{placeholders: placeholders}, nil
}

// Placeholders returns the configured placeholder symbols.
func (c *Classifier) Placeholders() string {
	return c.placeholders
}

// ClassifyPartial decides whether key can still become a valid WIF private
// key once every occurrence of missing has been substituted. Rejections
// are *validator.Error values.
func (c *Classifier) ClassifyPartial(key string, missing rune) (Accept, error) {
	if !strings.ContainsRune(c.placeholders, missing) {
		return Accept{}, reject(validator.InvalidPlaceholder,
			"%q is not one of the accepted placeholders %q", missing,
			c.placeholders)
	}
	if key == "" {
		return Accept{}, reject(validator.InvalidLength, "key is empty")
	}

	chars := []rune(key)

	var positions []int
	for i, r := range chars {
		switch {
		case r == missing:
			positions = append(positions, i)
		case !codec.IsBase58Char(r):
			return Accept{}, reject(validator.InvalidCharacterSet,
				"%q at index %d is neither a Base58 character "+
					"nor the placeholder %q", r, i, missing)
		}
	}

	// Without a placeholder every character is Base58, hence ASCII.
	if len(positions) == 0 {
		return c.classifyComplete(key)
	}

	var leads string
	compressed := false
	switch len(chars) {
	case CompressedWIFLen:
		leads, compressed = compressedLeads, true
	case UncompressedWIFLen:
		leads = uncompressedLeads
	default:
		return Accept{}, reject(validator.InvalidLength, "key with "+
			"missing characters is %d characters, expected %d "+
			"(compressed) or %d (uncompressed)", len(chars),
			CompressedWIFLen, UncompressedWIFLen)
	}

	if !strings.ContainsRune(leads, chars[0]) {
		return Accept{}, reject(validator.InvalidPrefix, "a %d "+
			"character key must start with one of %q, got %q",
			len(chars), leads, chars[0])
	}

	return Accept{
		Missing:    len(positions),
		Positions:  positions,
		Compressed: compressed,
	}, nil
}

// classifyComplete handles keys without any placeholder. They are either
// already complete or miss characters at unknown positions, so only an
// upper length bound and the leading character are checked here.
func (c *Classifier) classifyComplete(key string) (Accept, error) {
	if len(key) > CompressedWIFLen {
		return Accept{}, reject(validator.InvalidLength, "key is %d "+
			"characters, longer than the %d of a compressed key",
			len(key), CompressedWIFLen)
	}

	leads := compressedLeads + uncompressedLeads
	if !strings.ContainsRune(leads, rune(key[0])) {
		return Accept{}, reject(validator.InvalidPrefix, "key must "+
			"start with one of %q, got %q", leads, key[0])
	}

	return Accept{Complete: true}, nil
}

func reject(kind validator.Kind, format string, args ...interface{}) error {
	return &validator.Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// defaultClassifier backs ClassifyPartial.
var defaultClassifier, _ = New(DefaultPlaceholders)

// ClassifyPartial classifies key using the default placeholder set.
func ClassifyPartial(key string, missing rune) (Accept, error) {
	return defaultClassifier.ClassifyPartial(key, missing)
}
