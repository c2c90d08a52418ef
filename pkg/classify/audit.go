package classify

import (
	"aurelion/pkg/schema"
)

// AuditResult partitions fallback-classified records. Fallback holds every
// record whose assigned category equals the fallback category; Suspect is
// the subset whose name matches none of the fallback category's own
// patterns. Those reached the fallback purely by elimination, which
// signals a rule-coverage gap rather than a genuine match.
type AuditResult struct {
	Fallback []schema.UnifiedRecord `json:"fallback"`
	Suspect  []schema.UnifiedRecord `json:"suspect"`
}

// AuditFallback inspects classified records without mutating them; running
// it twice on the same input yields identical partitions. When the fallback
// category declares no patterns of its own, every fallback record is
// suspect.
func (c *Classifier) AuditFallback(records []schema.UnifiedRecord) *AuditResult {
	result := &AuditResult{}

	for _, rec := range records {
		if rec.AssignedCategory != c.table.Fallback {
			continue
		}
		result.Fallback = append(result.Fallback, rec)

		if !c.matchesFallbackKeyword(rec.ProductName()) {
			result.Suspect = append(result.Suspect, rec)
		}
	}

	return result
}

func (c *Classifier) matchesFallbackKeyword(name string) bool {
	text := schema.NormalizeText(name)
	for _, re := range c.fallback {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
