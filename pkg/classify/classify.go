package classify

import (
	"fmt"
	"regexp"
	"runtime"
	"sync"

	"aurelion/pkg/schema"
)

// Classifier maps free-text product names to categories. It is immutable
// after construction and safe to share across goroutines.
type Classifier struct {
	table      *RuleTable
	exact      map[string]string
	categories []compiledRule
	fallback   []*regexp.Regexp
}

type compiledRule struct {
	category string
	patterns []*regexp.Regexp
}

// NewClassifier compiles a rule table into a classifier. Pattern order and
// category order are preserved exactly; compilation fails on the first
// invalid pattern rather than silently skipping it.
func NewClassifier(table *RuleTable) (*Classifier, error) {
	c := &Classifier{
		table:      table,
		exact:      make(map[string]string, len(table.Exact)),
		categories: make([]compiledRule, 0, len(table.Categories)),
	}

	for name, category := range table.Exact {
		c.exact[schema.NormalizeText(name)] = category
	}

	for _, rule := range table.Categories {
		compiled := compiledRule{category: rule.Category}
		for _, pattern := range rule.Patterns {
			re, err := regexp.Compile(pattern)
			if err != nil {
				return nil, fmt.Errorf("category %q: invalid pattern %q: %w", rule.Category, pattern, err)
			}
			compiled.patterns = append(compiled.patterns, re)
		}
		c.categories = append(c.categories, compiled)
		if rule.Category == table.Fallback {
			c.fallback = compiled.patterns
		}
	}

	return c, nil
}

// Fallback returns the fallback category name.
func (c *Classifier) Fallback() string {
	return c.table.Fallback
}

// Table returns the rule table the classifier was built from.
func (c *Classifier) Table() *RuleTable {
	return c.table
}

// Classify returns the category for a product name. It is total: every
// input, including the empty string, maps to exactly one category.
// Precedence: exact-match table, then categories in declaration order with
// patterns in declaration order, then the fallback.
func (c *Classifier) Classify(name string) string {
	text := schema.NormalizeText(name)

	if category, ok := c.exact[text]; ok {
		return category
	}

	for _, rule := range c.categories {
		for _, re := range rule.patterns {
			if re.MatchString(text) {
				return rule.category
			}
		}
	}

	return c.table.Fallback
}

// ClassifyAll fills AssignedCategory on every record. Rows are sharded
// across workers; each worker writes only its own index range and the rule
// state is read-only, so no synchronization beyond the WaitGroup is needed.
func (c *Classifier) ClassifyAll(records []schema.UnifiedRecord) {
	n := len(records)
	if n == 0 {
		return
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}
	chunk := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := start + chunk
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				records[i].AssignedCategory = c.Classify(records[i].ProductName())
			}
		}(start, end)
	}
	wg.Wait()
}
