package statement

import (
	"slices"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
)

// Validator memoises Validate results for repeated SQL text. It is safe for
// concurrent use.
type Validator struct {
	cache *lru.Cache[uint64, ValidationResult]
}

// NewValidator returns a Validator that keeps up to cacheSize results. A
// cacheSize of zero or less disables caching, making the Validator a thin
// wrapper around Validate.
func NewValidator(cacheSize int) (*Validator, error) {
	if cacheSize <= 0 {
		return &Validator{}, nil
	}

	cache, err := lru.New[uint64, ValidationResult](cacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create validation cache")
	}

	return &Validator{cache: cache}, nil
}

// Validate returns the same result as the package level Validate. Cached
// results are copied before being returned, so callers may modify the
// statement slice freely.
func (v *Validator) Validate(sql string) ValidationResult {
	if v.cache == nil {
		return Validate(sql)
	}

	key := xxhash.Sum64String(sql)
	if cached, ok := v.cache.Get(key); ok && cached.OriginalQuery == sql {
		return clone(cached)
	}

	result := Validate(sql)
	v.cache.Add(key, result)

	return clone(result)
}

// Len returns the number of cached results.
func (v *Validator) Len() int {
	if v.cache == nil {
		return 0
	}

	return v.cache.Len()
}

func clone(result ValidationResult) ValidationResult {
	return ValidationResult{
		Statements:    slices.Clone(result.Statements),
		OriginalQuery: result.OriginalQuery,
	}
}
