package aggregate

import "github.com/phonesift/phonesift/internal/extract"

// Dedupe collapses the accumulated records into the unique canonical numbers,
// in first-seen order across the whole run. Equality is exact string match on
// the canonical form; ordering is stable so identical runs are deterministic.
func Dedupe(recs []extract.Record) []string {
	seen := make(map[string]struct{}, len(recs))
	var out []string
	for _, r := range recs {
		if _, ok := seen[r.Number]; ok {
			continue
		}
		seen[r.Number] = struct{}{}
		out = append(out, r.Number)
	}
	return out
}
