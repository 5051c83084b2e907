package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate_SortsByWeightThenName(t *testing.T) {
	idx, err := NewAliasIndex([]CanonicalStation{
		{Name: "B", Weight: 3, Aliases: []string{"pos bbb"}},
		{Name: "A", Weight: 1, Aliases: []string{"pos aaa"}},
		{Name: "D", Weight: 2, Aliases: []string{"pos ddd"}},
		{Name: "C", Weight: 1, Aliases: []string{"pos ccc"}},
	})
	require.NoError(t, err)

	res := Aggregate([]RawObservation{
		{RawName: "POS BBB", Reading: "3"},
		{RawName: "Pos AAA", Reading: "1"},
		{RawName: "pos-ddd", Reading: "2"},
		{RawName: "pos ccc", Reading: "1b"},
	}, idx)

	require.Len(t, res.Resolved, 4)
	var names []string
	var weights []int
	for _, r := range res.Resolved {
		names = append(names, r.Name)
		weights = append(weights, r.Weight)
	}
	assert.Equal(t, []string{"A", "C", "D", "B"}, names)
	assert.Equal(t, []int{1, 1, 2, 3}, weights)
	assert.Empty(t, res.Unmatched)
	assert.Empty(t, res.Duplicates)
}

func TestAggregate_DropsUnmatched(t *testing.T) {
	idx, err := NewAliasIndex(testStations())
	require.NoError(t, err)

	res := Aggregate([]RawObservation{
		{RawName: "Katulampa", Reading: "80 cm"},
		{RawName: "PDA Genteng", UpdatedAt: "17-10-2026 08:00", Reading: "120 cm", Status: "Normal"},
		{RawName: "", Reading: "?"},
	}, idx)

	require.Len(t, res.Resolved, 1)
	assert.Equal(t, ResolvedObservation{
		Name:      "Genteng",
		Location:  "Kota Bogor",
		UpdatedAt: "17-10-2026 08:00",
		Reading:   "120 cm",
		Status:    "Normal",
		Weight:    2,
		RawName:   "PDA Genteng",
	}, res.Resolved[0])

	require.Len(t, res.Unmatched, 2)
	assert.Equal(t, "Katulampa", res.Unmatched[0].RawName)
	assert.Equal(t, "", res.Unmatched[1].RawName)
}

func TestAggregate_KeepsFirstObservationPerStation(t *testing.T) {
	idx, err := NewAliasIndex(testStations())
	require.NoError(t, err)

	res := Aggregate([]RawObservation{
		{RawName: "PDA Genteng", Reading: "120 cm"},
		{RawName: "Genteng (Bogor)", Reading: "121 cm"},
	}, idx)

	require.Len(t, res.Resolved, 1)
	assert.Equal(t, "120 cm", res.Resolved[0].Reading)
	require.Len(t, res.Duplicates, 1)
	assert.Equal(t, "Genteng (Bogor)", res.Duplicates[0].RawName)
}

func TestAggregate_Empty(t *testing.T) {
	idx, err := NewAliasIndex(testStations())
	require.NoError(t, err)

	res := Aggregate(nil, idx)
	assert.NotNil(t, res.Resolved)
	assert.Empty(t, res.Resolved)
}
