package rules

import (
	"fmt"
	"io"
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/fyrsmithlabs/sweepd/internal/engine"
)

const maxRulesFileSize = 1024 * 1024 // 1MB

// Parse decodes a YAML ruleset document and validates it.
func Parse(content []byte) (*engine.Ruleset, error) {
	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to parse rules document: %w", err)
	}

	var rs engine.Ruleset
	if err := k.Unmarshal("", &rs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rules document: %w", err)
	}

	if err := rs.Validate(); err != nil {
		return nil, err
	}
	return &rs, nil
}

// Load reads and parses a ruleset file.
func Load(path string) (*engine.Ruleset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open rules file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat rules file: %w", err)
	}
	if info.Size() > maxRulesFileSize {
		return nil, fmt.Errorf("rules file too large: %d bytes (max %d)", info.Size(), maxRulesFileSize)
	}

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}
	return Parse(content)
}
