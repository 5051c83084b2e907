package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCatalog marks a curation error in the station catalog. The service must
// not start with a catalog that produces it.
var ErrCatalog = errors.New("catalog error")

// MinSubstringKeyLen is the shortest key the substring fallback considers.
// Shorter keys still resolve exact labels.
const MinSubstringKeyLen = 3

type aliasEntry struct {
	key       string
	station   int  // index into AliasIndex.stations
	substring bool // eligible for the substring fallback
}

// AliasIndex maps normalized aliases to canonical stations. Keys keep catalog
// declaration order so substring matching is reproducible. An AliasIndex is
// never modified after NewAliasIndex returns and is safe for concurrent use.
type AliasIndex struct {
	stations []CanonicalStation
	entries  []aliasEntry
	byKey    map[string]int // key → station index
}

// NewAliasIndex builds the index for stations. Each station's canonical name is
// indexed alongside its aliases. It fails with ErrCatalog when two stations
// share a normalized alias, when canonical names repeat, or when an alias is
// empty after normalization.
func NewAliasIndex(stations []CanonicalStation) (*AliasIndex, error) {
	idx := &AliasIndex{
		stations: make([]CanonicalStation, len(stations)),
		byKey:    make(map[string]int),
	}
	names := make(map[string]struct{}, len(stations))

	for i, st := range stations {
		st.Aliases = append([]string(nil), st.Aliases...)
		idx.stations[i] = st

		if strings.TrimSpace(st.Name) == "" {
			return nil, fmt.Errorf("%w: station %d has no name", ErrCatalog, i)
		}
		if _, dup := names[st.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate station name %q", ErrCatalog, st.Name)
		}
		names[st.Name] = struct{}{}

		for _, alias := range append([]string{st.Name}, st.Aliases...) {
			key := Normalize(alias)
			if key == "" {
				return nil, fmt.Errorf("%w: alias %q of %q is empty after normalization", ErrCatalog, alias, st.Name)
			}
			if owner, ok := idx.byKey[key]; ok {
				if owner == i {
					continue
				}
				return nil, fmt.Errorf("%w: duplicate alias %q shared by %q and %q",
					ErrCatalog, key, idx.stations[owner].Name, st.Name)
			}
			idx.byKey[key] = i
			idx.entries = append(idx.entries, aliasEntry{
				key:       key,
				station:   i,
				substring: len([]rune(key)) >= MinSubstringKeyLen,
			})
		}
	}
	return idx, nil
}

// Match resolves a raw label to its canonical station. An exact key wins;
// otherwise the longest alias key contained in the normalized label is used,
// with ties going to the key declared first. Keys shorter than
// MinSubstringKeyLen only match exactly. ok is false when nothing matches.
func (idx *AliasIndex) Match(raw string) (station CanonicalStation, ok bool) {
	key := Normalize(raw)
	if key == "" {
		return CanonicalStation{}, false
	}
	if i, found := idx.byKey[key]; found {
		return idx.stations[i], true
	}

	best := -1
	for n, e := range idx.entries {
		if !e.substring || !strings.Contains(key, e.key) {
			continue
		}
		if best < 0 || len(e.key) > len(idx.entries[best].key) {
			best = n
		}
	}
	if best < 0 {
		return CanonicalStation{}, false
	}
	return idx.stations[idx.entries[best].station], true
}

// Keys returns the normalized alias keys in index order.
func (idx *AliasIndex) Keys() []string {
	keys := make([]string, len(idx.entries))
	for i, e := range idx.entries {
		keys[i] = e.key
	}
	return keys
}

// Stations returns a copy of the indexed stations in catalog order.
func (idx *AliasIndex) Stations() []CanonicalStation {
	out := make([]CanonicalStation, len(idx.stations))
	copy(out, idx.stations)
	return out
}

// Len reports the number of alias keys.
func (idx *AliasIndex) Len() int {
	return len(idx.entries)
}
