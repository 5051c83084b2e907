package domain

import "strings"

// watchList holds BMKG condition labels associated with rising water levels.
var watchList = map[string]struct{}{
	"Hujan Ringan":         {},
	"Hujan Sedang":         {},
	"Hujan Lebat":          {},
	"Hujan Petir":          {},
	"Hujan Lokal":          {},
	"Hujan Disertai Angin": {},
	"Angin Kencang":        {},
}

// IsAlertCondition reports whether a BMKG condition label is on the watch list.
// Labels are compared exactly after trimming surrounding space.
func IsAlertCondition(condition string) bool {
	_, ok := watchList[strings.TrimSpace(condition)]
	return ok
}
