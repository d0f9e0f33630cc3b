package lattice

import (
	"errors"
	"fmt"
	"math"
	"unicode/utf8"
)

const (
	// DefaultECCBytes is the number of zero bytes of ECC padding used by
	// DefaultConfig.
	DefaultECCBytes = 32
	// MaxECCBytes is the largest amount of ECC padding accepted.
	MaxECCBytes = math.MaxInt32 / 8
)

var (
	// ErrInvalidInput is returned when the payload is not valid UTF-8
	ErrInvalidInput = errors.New("lattice: payload is not valid UTF-8")
	// ErrInvalidConfig is returned when the configuration cannot be used
	ErrInvalidConfig = errors.New("lattice: invalid configuration")
)

// Config holds the settings fixed when an Encoder is created.
type Config struct {
	// ECCBytes is the number of zero bytes appended after the payload
	ECCBytes int
	// Mapping is the symbol to color lookup table. It must be either the
	// zero value, meaning DefaultMapping, or DefaultMapping itself
	Mapping Mapping
}

// DefaultConfig returns the configuration with 32 bytes of ECC padding and
// the default mapping.
func DefaultConfig() Config {
	return Config{
		ECCBytes: DefaultECCBytes,
		Mapping:  DefaultMapping,
	}
}

// Encoder converts payloads into lattices. It holds no mutable state and is
// safe for concurrent use.
type Encoder struct {
	eccBytes int
	mapping  Mapping
}

// NewEncoder returns an Encoder using the provided configuration.
func NewEncoder(config Config) (*Encoder, error) {
	if config.ECCBytes < 0 {
		return nil, fmt.Errorf("%w: negative ECC bytes %d", ErrInvalidConfig, config.ECCBytes)
	}
	if config.ECCBytes > MaxECCBytes {
		return nil, fmt.Errorf("%w: ECC bytes %d exceeds %d", ErrInvalidConfig, config.ECCBytes, MaxECCBytes)
	}

	switch config.Mapping {
	case Mapping{}:
		config.Mapping = DefaultMapping
	case DefaultMapping:
	default:
		return nil, fmt.Errorf("%w: mapping is fixed", ErrInvalidConfig)
	}

	return &Encoder{
		eccBytes: config.ECCBytes,
		mapping:  config.Mapping,
	}, nil
}

// ECCBytes returns the number of bytes of ECC padding.
func (e *Encoder) ECCBytes() int {
	return e.eccBytes
}

// Encode encodes text into a lattice.
func (e *Encoder) Encode(text string) (*Lattice, Report, error) {
	if !utf8.ValidString(text) {
		return nil, Report{}, ErrInvalidInput
	}
	return e.encode([]byte(text))
}

// EncodeBytes encodes b, which must be valid UTF-8, into a lattice.
func (e *Encoder) EncodeBytes(b []byte) (*Lattice, Report, error) {
	if !utf8.Valid(b) {
		return nil, Report{}, ErrInvalidInput
	}
	return e.encode(b)
}

func (e *Encoder) encode(b []byte) (*Lattice, Report, error) {
	bits := padBits(toBits(b), e.eccBytes)
	symbols := toSymbols(bits)

	count := len(symbols)
	side := sideLength(count)

	// Fill the rest of the square with NULL
	for len(symbols) < side*side {
		symbols = append(symbols, Null)
	}

	l := &Lattice{
		Side:    side,
		Symbols: symbols,
		mapping: e.mapping,
		palette: e.mapping.Palette(),
	}

	return l, Report{
		Side:        side,
		BitCount:    len(bits),
		SymbolCount: count,
	}, nil
}

// Smallest side such that side*side >= n
func sideLength(n int) int {
	side := int(math.Ceil(math.Sqrt(float64(n))))
	// Correct any floating point error either way
	for side*side < n {
		side++
	}
	for side > 0 && (side-1)*(side-1) >= n {
		side--
	}
	return side
}
