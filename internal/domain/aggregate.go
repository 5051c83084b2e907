package domain

import "sort"

// AggregateResult is the outcome of one resolution pass.
type AggregateResult struct {
	// Resolved is ordered by weight, then canonical name. Each canonical
	// station appears at most once.
	Resolved []ResolvedObservation

	// Unmatched holds observations that resolved to no station, in input order.
	Unmatched []RawObservation

	// Duplicates holds observations that resolved to a station already seen
	// earlier in the same pass.
	Duplicates []RawObservation
}

// Aggregate resolves each observation against idx. The first observation for
// a station wins; later ones are reported in Duplicates.
func Aggregate(observations []RawObservation, idx *AliasIndex) AggregateResult {
	res := AggregateResult{Resolved: make([]ResolvedObservation, 0, len(observations))}
	seen := make(map[string]struct{}, len(observations))

	for _, obs := range observations {
		st, ok := idx.Match(obs.RawName)
		if !ok {
			res.Unmatched = append(res.Unmatched, obs)
			continue
		}
		if _, dup := seen[st.Name]; dup {
			res.Duplicates = append(res.Duplicates, obs)
			continue
		}
		seen[st.Name] = struct{}{}
		res.Resolved = append(res.Resolved, Resolve(obs, st))
	}

	SortResolved(res.Resolved)
	return res
}

// SortResolved orders observations upstream first: weight ascending, then
// canonical name ascending.
func SortResolved(obs []ResolvedObservation) {
	sort.SliceStable(obs, func(i, j int) bool {
		if obs[i].Weight != obs[j].Weight {
			return obs[i].Weight < obs[j].Weight
		}
		return obs[i].Name < obs[j].Name
	})
}

// Resolve binds a raw observation to a canonical station.
func Resolve(obs RawObservation, st CanonicalStation) ResolvedObservation {
	return ResolvedObservation{
		Name:      st.Name,
		Location:  st.Location,
		UpdatedAt: obs.UpdatedAt,
		Reading:   obs.Reading,
		Status:    obs.Status,
		Weight:    st.Weight,
		RawName:   obs.RawName,
	}
}
