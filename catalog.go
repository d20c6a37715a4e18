package truthdare

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// ──────────────────────────────────────────────
// Question Catalog — read-only indexed content
// ──────────────────────────────────────────────

// Catalog is a read-only indexed set of questions, loaded once from packaged
// content. Lookups never mutate the catalog, so it is safe for concurrent use.
type Catalog struct {
	questions  []Question
	byID       map[string]Question
	byCategory map[string][]Question
	// truthRatio overrides the 50/50 truth/dare split per category.
	truthRatio map[string]float64
}

// CatalogConfig controls catalog loading.
type CatalogConfig struct {
	Logger *zap.Logger
	// TruthRatio maps category to the probability of drawing a truth
	// question for it. Categories absent here use 0.5.
	TruthRatio map[string]float64
}

// DefaultCatalogConfig returns the default catalog config.
func DefaultCatalogConfig() CatalogConfig {
	return CatalogConfig{Logger: zap.NewNop()}
}

// NewCatalog builds a catalog from an in-memory question set. Questions
// without an id get a fresh one; tags are normalized.
func NewCatalog(questions []Question, config ...CatalogConfig) *Catalog {
	cfg := DefaultCatalogConfig()
	if len(config) > 0 {
		cfg = config[0]
	}
	c := &Catalog{
		byID:       map[string]Question{},
		byCategory: map[string][]Question{},
		truthRatio: cfg.TruthRatio,
	}
	if c.truthRatio == nil {
		c.truthRatio = map[string]float64{}
	}
	for _, q := range questions {
		c.add(q)
	}
	return c
}

// LoadCatalogDir reads every *.json file in dir as one category of questions
// (the file name, minus extension, is the category). A missing directory or a
// corrupt file degrades to an empty category; loading never fails the process.
func LoadCatalogDir(dir string, config ...CatalogConfig) *Catalog {
	cfg := DefaultCatalogConfig()
	if len(config) > 0 {
		cfg = config[0]
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	c := NewCatalog(nil, cfg)
	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.Warn("catalog: content directory unavailable", zap.String("dir", dir), zap.Error(err))
		return c
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		category := strings.TrimSuffix(e.Name(), ".json")
		var qs []Question
		if err := readJSONFile(filepath.Join(dir, e.Name()), &qs); err != nil {
			logger.Warn("catalog: skipping corrupt category file",
				zap.String("category", category), zap.Error(err))
			continue
		}
		for _, q := range qs {
			if q.Category == "" {
				q.Category = category
			}
			c.add(q)
		}
	}
	logger.Info("catalog loaded", zap.Int("questions", c.Len()))
	return c
}

func (c *Catalog) add(q Question) {
	if q.ID == "" {
		q.ID = NewQuestionID()
	}
	q.Category = NormalizeTag(q.Category)
	q.Tags = NormalizeTags(q.Tags)
	if q.TargetMode == "" {
		q.TargetMode = TargetSingle
	}
	c.questions = append(c.questions, q)
	c.byID[q.ID] = q
	c.byCategory[q.Category] = append(c.byCategory[q.Category], q)
}

// Len returns the number of questions in the catalog.
func (c *Catalog) Len() int { return len(c.questions) }

// ByID looks a question up by its id.
func (c *Catalog) ByID(id string) (Question, bool) {
	q, ok := c.byID[id]
	return q, ok
}

// ByCategory returns all questions of one category.
func (c *Catalog) ByCategory(category string) []Question {
	return c.byCategory[NormalizeTag(category)]
}

// ByKindAndCategories returns all questions of the given kind within the
// given categories, in catalog order.
func (c *Catalog) ByKindAndCategories(kind QuestionKind, categories []string) []Question {
	var out []Question
	for _, cat := range categories {
		out = append(out, lo.Filter(c.byCategory[NormalizeTag(cat)], func(q Question, _ int) bool {
			return q.Kind == kind
		})...)
	}
	return out
}

// ByTags returns questions within the given categories that share at least
// one tag with tags.
func (c *Catalog) ByTags(tags []string, categories []string) []Question {
	normalized := NormalizeTags(tags)
	var out []Question
	for _, cat := range categories {
		out = append(out, lo.Filter(c.byCategory[NormalizeTag(cat)], func(q Question, _ int) bool {
			return q.HasAnyTag(normalized)
		})...)
	}
	return out
}

// TruthRatio returns the probability of drawing a truth question for the
// category, 0.5 unless overridden.
func (c *Catalog) TruthRatio(category string) float64 {
	if r, ok := c.truthRatio[NormalizeTag(category)]; ok {
		return r
	}
	return 0.5
}
