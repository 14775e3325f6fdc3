package content

import (
	"fmt"

	"github.com/lysyi3m/wxr-comb/app/config"
	"github.com/lysyi3m/wxr-comb/app/wxr"
)

type Filterer struct {
	rules config.FieldRules
}

func NewFilterer(rules config.FieldRules) *Filterer {
	return &Filterer{rules: rules}
}

// Skip reports whether the item matches a field rule, with the first
// matching rule as reason
func (f *Filterer) Skip(item *wxr.Item) (bool, string) {
	for _, rule := range f.rules {
		value, ok := item.Field(rule.Field)
		if ok && value == rule.Value {
			return true, fmt.Sprintf("Excluded by %s filter: equals '%s'", rule.Field, rule.Value)
		}
	}
	return false, ""
}

// Run returns the items that pass every rule
func (f *Filterer) Run(items []wxr.Item) []wxr.Item {
	if len(f.rules) == 0 {
		return items
	}

	kept := make([]wxr.Item, 0, len(items))
	for i := range items {
		if skip, _ := f.Skip(&items[i]); !skip {
			kept = append(kept, items[i])
		}
	}
	return kept
}
