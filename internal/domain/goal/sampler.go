package goal

import (
	"math/rand"

	"github.com/cockroachdb/errors"
)

// Sampler deterministically selects goals from the catalog cross-product.
// Each Sampler owns its RNG so concurrent conversations never interfere
// with each other's sequences.
type Sampler struct {
	catalog *Catalog
	rng     *rand.Rand
}

// NewSampler creates a sampler over the given catalog seeded with seed.
// Identical seeds yield identical sampling sequences for a fixed catalog.
func NewSampler(catalog *Catalog, seed int64) *Sampler {
	return &Sampler{
		catalog: catalog,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

// Sample selects k distinct (category, specificity) pairs from the
// cross-product of selectable codes and resolves each against the catalog,
// returning them in selection order. k must be positive.
func (s *Sampler) Sample(k int) ([]Goal, error) {
	if k <= 0 {
		return nil, errors.Newf("cannot sample %d goals", k)
	}

	categories := SelectableCategories()
	specificities := SelectableSpecificities()
	pairs := make([]catalogKey, 0, len(categories)*len(specificities))
	for _, cat := range categories {
		for _, sp := range specificities {
			pairs = append(pairs, catalogKey{cat, sp})
		}
	}

	s.rng.Shuffle(len(pairs), func(i, j int) {
		pairs[i], pairs[j] = pairs[j], pairs[i]
	})
	if k > len(pairs) {
		k = len(pairs)
	}

	selected := make([]Goal, 0, k)
	for _, pair := range pairs[:k] {
		// Cannot fail: the cross-product only contains catalog keys,
		// verified at catalog load.
		g, err := s.catalog.Lookup(pair.category, pair.specificity)
		if err != nil {
			return nil, err
		}
		selected = append(selected, g)
	}
	return selected, nil
}
