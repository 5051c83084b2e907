package telemetry

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/couchcryptid/cisadane-basin-dashboard/internal/domain"
)

// fieldSelector matches the elements inside a list item that may carry a
// labeled field such as "Status: Siaga 3".
const fieldSelector = "p, span, div, small, td"

var whitespaceRe = regexp.MustCompile(`\s+`)

// Extractor pulls raw observations out of a telemetry dashboard page. Each
// list item is one station; the station label comes from NameSelector and the
// other fields from "<label>: <value>" text inside the item.
type Extractor struct {
	itemSelector string
	nameSelector string

	update  *regexp.Regexp
	reading *regexp.Regexp
	status  *regexp.Regexp
	anyRe   *regexp.Regexp // any known label, used to cut run-on text
}

// NewExtractor returns an Extractor for the PDA dashboard markup.
func NewExtractor() *Extractor {
	updateLabels := []string{"last update", "updated", "update", "diperbarui"}
	readingLabels := []string{"tinggi muka air", "tma", "level"}
	statusLabels := []string{"status"}

	all := append(append(append([]string{}, updateLabels...), readingLabels...), statusLabels...)
	return &Extractor{
		itemSelector: "li",
		nameSelector: "h3, h4, strong, .station-name",
		update:       labelRe(updateLabels),
		reading:      labelRe(readingLabels),
		status:       labelRe(statusLabels),
		anyRe:        labelRe(all),
	}
}

// labelRe matches "<label> :" case-insensitively on a word boundary.
func labelRe(labels []string) *regexp.Regexp {
	quoted := make([]string, len(labels))
	for i, l := range labels {
		quoted[i] = regexp.QuoteMeta(l)
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\s*:\s*`)
}

// Extract returns one observation per list item. Fields missing from an item
// are left empty; items with no name and no fields are skipped.
func (e *Extractor) Extract(doc *goquery.Document) []domain.RawObservation {
	var out []domain.RawObservation
	doc.Find(e.itemSelector).Each(func(_ int, item *goquery.Selection) {
		obs := domain.RawObservation{
			RawName:   cleanText(item.Find(e.nameSelector).First().Text()),
			UpdatedAt: e.field(item, e.update),
			Reading:   e.field(item, e.reading),
			Status:    e.field(item, e.status),
		}
		if obs == (domain.RawObservation{}) {
			return
		}
		out = append(out, obs)
	})
	return out
}

// field returns the value following the first label matched by re in the
// item's field elements. The value stops at the next known label so a wrapper
// element holding several fields yields only the first one.
func (e *Extractor) field(item *goquery.Selection, re *regexp.Regexp) string {
	var value string
	item.Find(fieldSelector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := cleanText(s.Text())
		loc := re.FindStringIndex(text)
		if loc == nil {
			return true
		}
		rest := text[loc[1]:]
		if next := e.anyRe.FindStringIndex(rest); next != nil {
			rest = rest[:next[0]]
		}
		value = strings.TrimSpace(rest)
		return false
	})
	return value
}

func cleanText(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}
