// Package storematch links free-text store names (checkout locations, directory
// listings) to canonical store records.
//
// Matching is deliberately loose: names are normalized and then compared for
// equality or containment, so "Cash Saver - Camp Wisdom" and
// "CASH SAVER-CAMP WISDOM" refer to the same store.
package storematch

import (
	"strings"

	"pizzeria/internal/domain/model"
)

var dashVariants = strings.NewReplacer(" - ", "-", " -", "-", "- ", "-")

// Normalize uppercases name, collapses whitespace runs and removes the
// spacing around dashes.
func Normalize(name string) string {
	s := strings.ToUpper(strings.Join(strings.Fields(name), " "))
	return dashVariants.Replace(s)
}

// Matches reports whether two names refer to the same store: equal after
// normalization, or one contained in the other. Empty names never match.
func Matches(a, b string) bool {
	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		return false
	}
	return na == nb || strings.Contains(na, nb) || strings.Contains(nb, na)
}

// Match finds the store candidate refers to: the first store in list order
// whose name equals, contains or is contained in the candidate.
func Match(candidate string, stores []model.Store) (model.Store, bool) {
	nc := Normalize(candidate)
	if nc == "" {
		return model.Store{}, false
	}

	for _, s := range stores {
		ns := Normalize(s.Name)
		if ns == "" {
			continue
		}
		// first hit wins even if a later store is an exact fit
		if ns == nc || strings.Contains(ns, nc) || strings.Contains(nc, ns) {
			return s, true
		}
	}
	return model.Store{}, false
}
