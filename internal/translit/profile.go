package translit

import (
	_ "embed"
	"fmt"
	"os"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

//go:embed default_profile.toml
var defaultProfileTOML []byte

// Rule maps a romanized grapheme to its alternatives, best first.
type Rule struct {
	From    string   `toml:"from"`
	To      []string `toml:"to"`
	Initial []string `toml:"initial"`
	Final   []string `toml:"final"`
}

// Profile is a transliteration rule table.
type Profile struct {
	Name            string   `toml:"name"`
	MaxCombinations int      `toml:"max_combinations"`
	Markers         []string `toml:"markers"`
	Foreign         []string `toml:"foreign"`
	Rules           []Rule   `toml:"rules"`
}

// ParseProfile decodes a TOML profile.
func ParseProfile(data []byte) (*Profile, error) {
	var p Profile
	if err := toml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}
	if len(p.Rules) == 0 {
		return nil, fmt.Errorf("%w: no rules", ErrInvalidProfile)
	}
	for i, r := range p.Rules {
		if r.From == "" {
			return nil, fmt.Errorf("%w: rule %d has an empty source", ErrInvalidProfile, i)
		}
		if len(r.To) == 0 {
			return nil, fmt.Errorf("%w: rule %q has no alternatives", ErrInvalidProfile, r.From)
		}
	}
	if p.MaxCombinations <= 0 {
		p.MaxCombinations = defaultMaxCombinations
	}
	return &p, nil
}

// LoadProfile reads a profile from path, or returns the built-in profile
// when path is empty.
func LoadProfile(path string) (*Profile, error) {
	if path == "" {
		return DefaultProfile()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	return ParseProfile(data)
}

// DefaultProfile returns the built-in profile. It is parsed once.
var DefaultProfile = sync.OnceValues(func() (*Profile, error) {
	return ParseProfile(defaultProfileTOML)
})

const defaultMaxCombinations = 4096
