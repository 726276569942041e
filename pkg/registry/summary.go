package registry

import "sort"

// DomainSummary aggregates entity counts per domain.
type DomainSummary struct {
	Domain   string   `json:"domain"`
	Count    int      `json:"count"`
	Enabled  int      `json:"enabled"`
	Disabled int      `json:"disabled"`
	Examples []string `json:"examples"`
}

// Summary returns per-domain entity statistics, sorted by domain, with up to
// three example entity ids each.
func (s *Snapshot) Summary() []DomainSummary {
	byDomain := make(map[string]*DomainSummary)
	ids := make([]string, 0, len(s.entities))
	for id := range s.entities {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		e := s.entities[id]
		domain := e.Domain()
		ds, ok := byDomain[domain]
		if !ok {
			ds = &DomainSummary{Domain: domain}
			byDomain[domain] = ds
		}
		ds.Count++
		if e.Disabled {
			ds.Disabled++
		} else {
			ds.Enabled++
		}
		if len(ds.Examples) < 3 {
			ds.Examples = append(ds.Examples, id)
		}
	}

	out := make([]DomainSummary, 0, len(byDomain))
	for _, ds := range byDomain {
		out = append(out, *ds)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Domain < out[j].Domain })
	return out
}
