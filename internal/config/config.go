package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btclog"

	"github.com/Amr-9/KeyRescue/pkg/keys"
)

// Errors
var (
	ErrNoFileSpecified    = errors.New("must specify --file")
	ErrInvalidWorkers     = errors.New("--workers must be at least 1")
	ErrInvalidPartitions  = errors.New("--partitions must not be negative")
	ErrUnknownNetwork     = errors.New("unknown --network")
	ErrInvalidDebugLevel  = errors.New("invalid --debuglevel")
	ErrNoOutputSpecified  = errors.New("--output must not be empty")
	ErrNoCandidatesInFile = errors.New("candidate file contains no candidates")
)

// DefaultOutputFile is where found keys are saved.
const DefaultOutputFile = "wallet.txt"

// Config holds the application configuration
type Config struct {
	Network      string
	DebugLevel   string
	File         string // Candidate list, one per line
	Target       string // Address a recovered key must control
	Partitions   int    // 0 means one share per worker
	Workers      int
	Output       string
	HighPriority bool
}

// NewConfig creates a new configuration with default values
func NewConfig() *Config {
	return &Config{
		Network:    keys.Mainnet.String(),
		DebugLevel: "info",
		Workers:    runtime.NumCPU(),
		Output:     DefaultOutputFile,
	}
}

// Validate validates the settings shared by every command.
func (c *Config) Validate() error {
	if _, err := keys.ParseNetwork(c.Network); err != nil {
		return fmt.Errorf("%w: %q", ErrUnknownNetwork, c.Network)
	}
	if _, ok := btclog.LevelFromString(c.DebugLevel); !ok {
		return fmt.Errorf("%w: %q", ErrInvalidDebugLevel, c.DebugLevel)
	}
	return nil
}

// ValidateCheck validates the configuration of a batch check.
func (c *Config) ValidateCheck() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.File == "" {
		return ErrNoFileSpecified
	}
	if c.Workers < 1 {
		return ErrInvalidWorkers
	}
	if c.Partitions < 0 {
		return ErrInvalidPartitions
	}
	if strings.TrimSpace(c.Output) == "" {
		return ErrNoOutputSpecified
	}
	return nil
}

// Params returns the chain parameters of the configured network. It
// falls back to mainnet if the name does not parse; Validate reports that
// case.
func (c *Config) Params() *chaincfg.Params {
	network, _ := keys.ParseNetwork(c.Network)
	return network.Params()
}

// LogLevel returns the configured log level.
func (c *Config) LogLevel() btclog.Level {
	level, _ := btclog.LevelFromString(c.DebugLevel)
	return level
}

// ReadCandidates reads the candidate file. Blank lines and lines starting
// with '#' are skipped; surrounding whitespace is trimmed.
func (c *Config) ReadCandidates() ([]string, error) {
	f, err := os.Open(c.File)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var candidates []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		candidates = append(candidates, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", c.File, err)
	}

	if len(candidates) == 0 {
		return nil, ErrNoCandidatesInFile
	}

	return candidates, nil
}
