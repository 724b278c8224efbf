package goal

import (
	_ "embed"
	"sync"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// ErrGoalNotFound is returned by Lookup when the requested
// category/specificity combination has no catalog entry.
var ErrGoalNotFound = errors.New("goal not found")

// Catalog holds the full conversation goal taxonomy.
type Catalog struct {
	categories    map[CategoryCode]string
	specificities map[SpecificityCode]string
	entries       map[catalogKey]catalogEntry
}

type catalogKey struct {
	category    CategoryCode
	specificity SpecificityCode
}

type catalogEntry struct {
	ListenerGoal      string
	ListenerExpertise string
	TargetTurnCount   int
	Queries           queriesEntry
}

type queriesEntry struct {
	Initial   []string `yaml:"initial"`
	Iteration []string `yaml:"iteration"`
	Achieved  []string `yaml:"achieved"`
}

type catalogFile struct {
	Categories []struct {
		Code        CategoryCode `yaml:"code"`
		Description string       `yaml:"description"`
	} `yaml:"categories"`
	Specificities []struct {
		Code        SpecificityCode `yaml:"code"`
		Description string          `yaml:"description"`
	} `yaml:"specificities"`
	Goals []struct {
		Category          CategoryCode    `yaml:"category"`
		Specificity       SpecificityCode `yaml:"specificity"`
		ListenerGoal      string          `yaml:"listener_goal"`
		ListenerExpertise string          `yaml:"listener_expertise"`
		TargetTurnCount   int             `yaml:"target_turn_count"`
		Queries           queriesEntry    `yaml:"queries"`
	} `yaml:"goals"`
}

var (
	defaultCatalog     *Catalog
	defaultCatalogOnce sync.Once
	defaultCatalogErr  error
)

// DefaultCatalog returns the catalog embedded in the binary.
// The catalog is parsed once; subsequent calls return the cached instance.
func DefaultCatalog() (*Catalog, error) {
	defaultCatalogOnce.Do(func() {
		defaultCatalog, defaultCatalogErr = parseCatalog(catalogYAML)
	})
	return defaultCatalog, defaultCatalogErr
}

func parseCatalog(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(err, "failed to parse goal catalog")
	}

	c := &Catalog{
		categories:    make(map[CategoryCode]string, len(file.Categories)),
		specificities: make(map[SpecificityCode]string, len(file.Specificities)),
		entries:       make(map[catalogKey]catalogEntry, len(file.Goals)),
	}
	for _, cat := range file.Categories {
		c.categories[cat.Code] = cat.Description
	}
	for _, sp := range file.Specificities {
		c.specificities[sp.Code] = sp.Description
	}
	for _, g := range file.Goals {
		c.entries[catalogKey{g.Category, g.Specificity}] = catalogEntry{
			ListenerGoal:      g.ListenerGoal,
			ListenerExpertise: g.ListenerExpertise,
			TargetTurnCount:   g.TargetTurnCount,
			Queries:           g.Queries,
		}
	}

	// Every selectable combination must resolve, the sampler relies on it.
	for _, cat := range SelectableCategories() {
		for _, sp := range SelectableSpecificities() {
			if _, ok := c.entries[catalogKey{cat, sp}]; !ok {
				return nil, errors.Newf("goal catalog is missing entry for category %s specificity %s", cat, sp)
			}
		}
	}
	return c, nil
}

// Lookup resolves a category/specificity pair into a full Goal.
// Returns ErrGoalNotFound when the combination has no catalog entry;
// UNKNOWN codes are never valid lookup keys.
func (c *Catalog) Lookup(category CategoryCode, specificity SpecificityCode) (Goal, error) {
	entry, ok := c.entries[catalogKey{category, specificity}]
	if !ok {
		return Goal{}, errors.Wrapf(ErrGoalNotFound, "category %s specificity %s", category, specificity)
	}
	return Goal{
		CategoryCode:           category,
		CategoryDescription:    c.categories[category],
		SpecificityCode:        specificity,
		SpecificityDescription: c.specificities[specificity],
		ListenerGoal:           entry.ListenerGoal,
		ListenerExpertise:      entry.ListenerExpertise,
		InitialQueryExamples:   entry.Queries.Initial,
		IterationQueryExamples: entry.Queries.Iteration,
		AchievedQueryExamples:  entry.Queries.Achieved,
		TargetTurnCount:        entry.TargetTurnCount,
		Resolved:               true,
	}, nil
}

// Resolve behaves like Lookup but degrades to the Unknown goal instead of
// failing: any UNKNOWN code or missing combination yields Unknown().
func (c *Catalog) Resolve(category CategoryCode, specificity SpecificityCode) Goal {
	if category == CategoryUnknown || specificity == SpecificityUnknown {
		return Unknown()
	}
	g, err := c.Lookup(category, specificity)
	if err != nil {
		return Unknown()
	}
	return g
}
