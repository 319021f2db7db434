package translit

import "errors"

var (
	// ErrCombinatorialExplosion is returned when expanding a chunk would
	// produce more candidates than the profile allows.
	ErrCombinatorialExplosion = errors.New("combinatorial explosion")

	// ErrInvalidProfile is returned when a profile cannot be decoded or
	// contains no rules.
	ErrInvalidProfile = errors.New("invalid transliteration profile")
)
