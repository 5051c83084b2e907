// Command validate checks a station catalog before it is deployed: zone
// station integrity, alias collisions, and how a set of raw telemetry labels
// resolve against the alias index.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -catalog internal/domain/catalog.yaml \
//	  -names testdata/labels.txt \
//	  "Pos Sewan" "Bendung Empang"
//
// An empty -catalog validates the catalog compiled into the binary.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/couchcryptid/cisadane-basin-dashboard/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	notes  []string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) notef(format string, args ...any) {
	p.notes = append(p.notes, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	catalogPath := flag.String("catalog", "", "path to a catalog YAML file (default: embedded catalog)")
	namesPath := flag.String("names", "", "file of raw station labels to resolve, one per line")
	strict := flag.Bool("strict", false, "fail when any label is unmatched or duplicated")
	flag.Parse()

	names := flag.Args()
	if *namesPath != "" {
		fromFile, err := readNames(*namesPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: read names: %v\n", err)
			os.Exit(1)
		}
		names = append(names, fromFile...)
	}

	if code := run(os.Stdout, *catalogPath, names, *strict); code != 0 {
		os.Exit(code)
	}
}

func run(out io.Writer, catalogPath string, names []string, strict bool) int {
	fmt.Fprintln(out, "=== Station Catalog Validation ===")
	fmt.Fprintln(out)

	catalog, err := domain.LoadCatalog(catalogPath)
	if err != nil {
		fmt.Fprintf(out, "FATAL: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateZoneStations(catalog),
		validateAliasKeys(catalog.Index()),
		validateResolution(catalog.Index(), names, strict),
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(out, "  %-42s %s\n", p.name, status)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Catalog %s: %d stations, %d alias keys, %d zone stations\n",
		catalog.Version, len(catalog.Stations), catalog.Index().Len(), len(catalog.ZoneStations))

	for _, p := range phases {
		if len(p.notes) == 0 && p.passed() {
			continue
		}
		fmt.Fprintf(out, "\n--- %s ---\n", p.name)
		for _, n := range p.notes {
			fmt.Fprintf(out, "  %s\n", n)
		}
		for i, e := range p.errors {
			fmt.Fprintf(out, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(out, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(out, "\nValidation FAILED.")
	return 1
}

func readNames(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var names []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	return names, sc.Err()
}

// ── Phase 1: Zone stations ──

func validateZoneStations(c *domain.Catalog) *phase {
	p := &phase{name: "Phase 1: Zone Stations"}

	counts := make(map[domain.Zone]int, len(domain.Zones))
	for _, st := range c.ZoneStations {
		counts[st.Zone]++
		if strings.TrimSpace(st.Contribution) == "" {
			p.errorf("%s (%s): contribution is empty", st.Name, st.Code)
		}
	}
	for _, z := range domain.Zones {
		if counts[z] == 0 {
			p.errorf("zone %s has no stations", z)
			continue
		}
		p.notef("%-7s %d stations", z, counts[z])
	}
	return p
}

// ── Phase 2: Alias keys ──
// Keys that contain another station's key make substring matches depend on
// the longest-key rule, and short keys never match by substring; list both so
// curators can review.

func validateAliasKeys(idx *domain.AliasIndex) *phase {
	p := &phase{name: "Phase 2: Alias Keys"}

	keys := idx.Keys()
	owners := make(map[string]string, len(keys))
	for _, st := range idx.Stations() {
		for _, alias := range append([]string{st.Name}, st.Aliases...) {
			owners[domain.Normalize(alias)] = st.Name
		}
	}

	for _, k := range keys {
		if len([]rune(k)) < domain.MinSubstringKeyLen {
			p.notef("key %q (%s) is shorter than %d characters and only matches exact labels", k, owners[k], domain.MinSubstringKeyLen)
		}
	}

	for _, outer := range keys {
		for _, inner := range keys {
			if outer == inner || owners[outer] == owners[inner] || len([]rune(inner)) < domain.MinSubstringKeyLen {
				continue
			}
			if strings.Contains(outer, inner) {
				p.notef("key %q (%s) contains key %q (%s)", outer, owners[outer], inner, owners[inner])
			}
		}
	}
	return p
}

// ── Phase 3: Resolution ──

func validateResolution(idx *domain.AliasIndex, names []string, strict bool) *phase {
	p := &phase{name: "Phase 3: Label Resolution"}
	if len(names) == 0 {
		p.notef("no labels given")
		return p
	}

	raw := make([]domain.RawObservation, len(names))
	for i, n := range names {
		raw[i] = domain.RawObservation{RawName: n}
	}
	res := domain.Aggregate(raw, idx)

	for _, r := range res.Resolved {
		p.notef("%-32q -> %s (weight %d)", r.RawName, r.Name, r.Weight)
	}
	for _, u := range res.Unmatched {
		if strict {
			p.errorf("%q matches no station", u.RawName)
		} else {
			p.notef("%-32q -> (unmatched)", u.RawName)
		}
	}
	for _, d := range res.Duplicates {
		st, _ := idx.Match(d.RawName)
		if strict {
			p.errorf("%q resolves to %s, which an earlier label already claimed", d.RawName, st.Name)
		} else {
			p.notef("%-32q -> %s (duplicate, dropped)", d.RawName, st.Name)
		}
	}
	return p
}
