// Package config loads the session configuration for a proving/verifying
// run from a TOML profile (spec §10.1).
package config

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/naoina/toml"
)

// Config is the session-wide TOML profile.
type Config struct {
	// ChunkFrameCount is k, the multi-frame arity. Must be one of
	// {1,2,4,8} (spec §4.C / Non-goals boundary).
	ChunkFrameCount int

	// SRSPath is the path to the mmap'd inner-product SRS file.
	SRSPath string

	// AllowFakeSRS gates the deterministic-dummy-SRS fallback; MUST be
	// false in a production profile (spec §4.E).
	AllowFakeSRS bool

	// StepLimit bounds the evaluator (spec §4.B "Iteration contract"). 0
	// means unbounded.
	StepLimit uint64

	LogLevel string
}

// Default returns the conservative defaults named in spec §4.C/§4.E.
func Default() Config {
	return Config{
		ChunkFrameCount: 4,
		SRSPath:         "params/v28-fil-inner-product-v1.srs",
		AllowFakeSRS:    false,
		StepLimit:       1_000_000,
		LogLevel:        "info",
	}
}

var validChunkSizes = map[int]bool{1: true, 2: true, 4: true, 8: true}

// Validate rejects configurations the rest of the pipeline cannot honor.
func (c Config) Validate() error {
	if !validChunkSizes[c.ChunkFrameCount] {
		return fmt.Errorf("config: chunk_frame_count must be one of {1,2,4,8}, got %d", c.ChunkFrameCount)
	}
	return nil
}

// Load reads and decodes a TOML profile from path.
func Load(path string) (Config, error) {
	c := Default()
	f, err := os.Open(path)
	if err != nil {
		return c, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	if err := toml.NewDecoder(f).Decode(&c); err != nil {
		return c, fmt.Errorf("config: decode %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

// Session stamps a proving run with a fresh id for log correlation only
// (spec §10.1: "never in circuit-relevant data").
type Session struct {
	ID     uuid.UUID
	Config Config
}

// NewSession starts a session for cfg.
func NewSession(cfg Config) Session {
	return Session{ID: uuid.New(), Config: cfg}
}
