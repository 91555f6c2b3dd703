// Package config is the on-disk configuration of zkauth.
package config

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/TecharoHQ/zkauth"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/yaml"
)

var (
	ErrTTLNotPositive = errors.New("config.Challenge: ttl must be positive")
	ErrBitsOutOfRange = errors.New("config.Challenge: bits out of range")
	ErrKeyPrefixEmpty = errors.New("config: keyPrefix must not be empty")
)

// Challenge configures issued challenges.
type Challenge struct {
	// TTL is how long an issued challenge stays verifiable, e.g. "60s".
	TTL metav1.Duration `json:"ttl"`

	// Bits is the width of drawn challenges, see zkauth.DefaultChallengeBits.
	Bits int `json:"bits"`
}

func (c Challenge) Valid() error {
	var errs []error

	if c.TTL.Duration <= 0 {
		errs = append(errs, fmt.Errorf("%w: %s", ErrTTLNotPositive, c.TTL.Duration))
	}

	if c.Bits < zkauth.MinChallengeBits || c.Bits > zkauth.MaxChallengeBits {
		errs = append(errs, fmt.Errorf("%w: %d not in [%d, %d]", ErrBitsOutOfRange, c.Bits, zkauth.MinChallengeBits, zkauth.MaxChallengeBits))
	}

	if len(errs) != 0 {
		return errors.Join(errs...)
	}

	return nil
}

type Config struct {
	Store     Store     `json:"store"`
	Challenge Challenge `json:"challenge"`
	KeyPrefix string    `json:"keyPrefix"`
}

func (c *Config) Valid() error {
	var errs []error

	if err := c.Store.Valid(); err != nil {
		errs = append(errs, err)
	}

	if err := c.Challenge.Valid(); err != nil {
		errs = append(errs, err)
	}

	if c.KeyPrefix == "" {
		errs = append(errs, ErrKeyPrefixEmpty)
	}

	if len(errs) != 0 {
		return fmt.Errorf("config is not valid:\n%w", errors.Join(errs...))
	}

	return nil
}

// Load parses a YAML (or JSON) configuration. Fields left out take the
// defaults from the zkauth package; the store defaults to memory.
func Load(fin io.Reader, fname string) (*Config, error) {
	c := &Config{
		Store: Store{
			Backend: "memory",
		},
		Challenge: Challenge{
			TTL:  metav1.Duration{Duration: zkauth.DefaultChallengeTTL},
			Bits: zkauth.DefaultChallengeBits,
		},
		KeyPrefix: zkauth.DefaultKeyPrefix,
	}

	if err := yaml.NewYAMLToJSONDecoder(fin).Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("can't parse config YAML %s: %w", fname, err)
	}

	if err := c.Valid(); err != nil {
		return nil, fmt.Errorf("errors validating config %s: %w", fname, err)
	}

	return c, nil
}

// TTL is a shorthand for c.Challenge.TTL.Duration.
func (c *Config) TTL() time.Duration {
	return c.Challenge.TTL.Duration
}
