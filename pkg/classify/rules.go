package classify

import (
	"encoding/json"
	"fmt"
	"os"

	"aurelion/pkg/schema"
)

// CategoryRule pairs a category with its ordered match patterns. Rules are
// an ordered slice, not a map: declaration order decides precedence when a
// name matches patterns from more than one category, so reordering this
// data changes classification outcomes.
type CategoryRule struct {
	Category string   `json:"category"`
	Patterns []string `json:"patterns"`
}

// RuleTable is the full classification rule set: an exact-match table that
// overrides everything, the ordered category rules, and the fallback
// category returned when nothing matches. It is versioned data, loaded once
// per run and immutable afterwards.
type RuleTable struct {
	Exact      map[string]string `json:"exact"`
	Categories []CategoryRule    `json:"categories"`
	Fallback   string            `json:"fallback"`
}

// FallbackName is the category assigned when no rule matches.
const FallbackName = "Alimentos secos"

// DefaultRuleTable returns the built-in rule set for the store's catalog.
// Patterns are written accent-less because input names are normalized with
// schema.NormalizeText before matching; category names keep their original
// spelling. The exact entries correct a known collision: "medialunas de
// manteca" would otherwise hit the dairy rule for "manteca".
func DefaultRuleTable() *RuleTable {
	return &RuleTable{
		Exact: map[string]string{
			"medialunas de manteca": "Panificados",
			"medialuna de manteca":  "Panificados",
		},
		Fallback: FallbackName,
		Categories: []CategoryRule{
			{Category: "Bebidas sin alcohol", Patterns: []string{
				`\bcoca\b`, `\bpepsi\b`, `\bsprite\b`, `\bfanta\b`,
				`\bagua\b`, `\bmineral\b`, `\bjugo\b`, `\bpolvo\b`,
				`\bbebida\b`, `\bnitro\b`, `\benerg(etica|etic)\b`,
			}},
			{Category: "Bebidas alcohólicas", Patterns: []string{
				`\bcerveza\b`, `\bfernet\b`, `\bvodka\b`, `\bwhisky\b`,
				`\bron\b`, `\bgin\b`, `\bsidra\b`, `\bvin(o)?\b`, `\blicor\b`,
			}},
			{Category: "Lácteos y refrigerados", Patterns: []string{
				`\bleche\b`, `\byogur?t\b`, `\bqueso\b`, `manteca\b`,
				`\buntable\b`, `\bcremoso\b`, `\brallado\b`, `\bazul\b`,
			}},
			{Category: "Panificados", Patterns: []string{
				`\bpan\b`, `\blactal\b`, `\bmedialuna(s)?\b`, `\bfactura(s)?\b`,
				`\bmedialunas? de manteca\b`,
			}},
			{Category: "Snacks y golosinas", Patterns: []string{
				`\balfajor(es)?\b`, `\bpapas?\b`, `\bfritas\b`, `\bmani\b`,
				`\bbizcocho(s)?\b`, `\bturron\b`, `\bchocolate\b`,
				`\bgalletita(s)?\b`, `\bcereal(es)?\b`, `\bbarrita(s)?\b`,
				`\bcaramelo(s)?\b`, `\bchicle(s)?\b`, `\bchupet(e)?\b`,
			}},
			{Category: "Infusiones", Patterns: []string{
				`\byerba\b`, `\bte\b`, `\bcafe\b`, `\binfusion(es)?\b`, `\bstevia\b`,
			}},
			{Category: "Congelados", Patterns: []string{
				`\bcongelad[oa]s?\b`, `\bempanad[ao]s?\b`, `\bhamburguesa\b`,
				`\bpizza\b`, `\bhelado(s)?\b`, `\bverdura(s)?\b`,
			}},
			{Category: "Higiene personal", Patterns: []string{
				`\bshampoo\b`, `\bjabon\b`, `\b(dental|cepillo)\b`,
				`\bhilo\b`, `\bcapilar\b`, `\bdesodorante\b`,
				`\bmascarilla\b`, `\btoalla\b`, `\bhumeda(s)?\b`,
			}},
			{Category: "Limpieza del hogar", Patterns: []string{
				`\bdetergente\b`, `\blavandina\b`, `\blimpiavidrios\b`,
				`\bdesengrasante\b`, `\besponja\b`, `\bsuavizante\b`,
				`\btrapo\b`, `\bservilleta(s)?\b`, `\bpapel hig\b`,
			}},
			{Category: FallbackName, Patterns: []string{
				`\baceite\b`, `\bvinagre\b`, `\barroz\b`, `\bharina\b`,
				`\bazucar\b`, `\bsal\b`, `\bsalsa\b`, `\btomate\b`,
				`\bgarbanzo(s)?\b`, `\blenteja(s)?\b`, `\bporoto(s)?\b`,
				`\bfideos\b`, `\bspaghetti\b`, `\baceituna(s)?\b`,
				`\bmiel\b`, `\bgranola\b`, `\bfrutos?\b`, `\bavena\b`,
				`\bsopa\b`, `\bcaldo\b`, `\bmermelada\b`,
			}},
		},
	}
}

// LoadRuleTable reads a rule table from a JSON file. Exact-match keys are
// normalized on load so lookups and file contents need not agree on casing
// or accents. An empty fallback falls back to the built-in default.
func LoadRuleTable(path string) (*RuleTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule table: %w", err)
	}

	var table RuleTable
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to parse rule table %q: %w", path, err)
	}
	if len(table.Categories) == 0 {
		return nil, fmt.Errorf("rule table %q declares no categories", path)
	}
	if table.Fallback == "" {
		table.Fallback = FallbackName
	}

	normalized := make(map[string]string, len(table.Exact))
	for name, category := range table.Exact {
		normalized[schema.NormalizeText(name)] = category
	}
	table.Exact = normalized

	return &table, nil
}

// CategoryNames returns the declared categories in declaration order, with
// the fallback appended when no rule declares it.
func (t *RuleTable) CategoryNames() []string {
	names := make([]string, 0, len(t.Categories)+1)
	seen := make(map[string]bool, len(t.Categories)+1)
	for _, rule := range t.Categories {
		if !seen[rule.Category] {
			names = append(names, rule.Category)
			seen[rule.Category] = true
		}
	}
	if !seen[t.Fallback] {
		names = append(names, t.Fallback)
	}
	return names
}
