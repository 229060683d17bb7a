package types

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultAddressCacheSize bounds the number of memoized address lookups.
const DefaultAddressCacheSize = 4096

// AddressValidator memoizes CanonicalAddress. Only successful lookups are cached.
type AddressValidator struct {
	cache *lru.Cache[string, string]
}

// NewAddressValidator creates a validator with a bounded cache.
func NewAddressValidator(size int) (*AddressValidator, error) {
	if size <= 0 {
		size = DefaultAddressCacheSize
	}
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, err
	}
	return &AddressValidator{cache: cache}, nil
}

// Canonical returns the canonical participant key for raw.
func (v *AddressValidator) Canonical(raw string) (string, error) {
	if v == nil || v.cache == nil {
		return CanonicalAddress(raw)
	}
	if canonical, ok := v.cache.Get(raw); ok {
		return canonical, nil
	}
	canonical, err := CanonicalAddress(raw)
	if err != nil {
		return "", err
	}
	v.cache.Add(raw, canonical)
	return canonical, nil
}

// Len reports the number of cached lookups.
func (v *AddressValidator) Len() int {
	if v == nil || v.cache == nil {
		return 0
	}
	return v.cache.Len()
}
