package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeanRating(t *testing.T) {
	tests := []struct {
		name  string
		stars []int
		want  string
		ok    bool
	}{
		{name: "empty", stars: nil, want: "0.0", ok: false},
		{name: "single", stars: []int{5}, want: "5.0", ok: true},
		{name: "half", stars: []int{4, 5}, want: "4.5", ok: true},
		{name: "whole", stars: []int{3, 5}, want: "4.0", ok: true},
		{name: "thirds round down", stars: []int{4, 4, 5}, want: "4.3", ok: true},
		{name: "thirds round up", stars: []int{4, 5, 5}, want: "4.7", ok: true},
		// 89/20 = 4.45 exactly
		{name: "exact half at tenths", stars: []int{5, 5, 5, 5, 5, 5, 5, 5, 5, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4}, want: "4.5", ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MeanRating(tt.stars)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestRating_JSON(t *testing.T) {
	raw, err := json.Marshal(Location{ID: "1", Rating: 4})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"rating":4.0`)

	var fromString Location
	require.NoError(t, json.Unmarshal([]byte(`{"id":"1","rating":"4.5"}`), &fromString))
	assert.Equal(t, Rating(4.5), fromString.Rating)

	var fromNumber Location
	require.NoError(t, json.Unmarshal([]byte(`{"id":"1","rating":3.25}`), &fromNumber))
	assert.Equal(t, "3.3", fromNumber.Rating.String())

	var bad Location
	assert.Error(t, json.Unmarshal([]byte(`{"rating":"five"}`), &bad))
}

func TestLocationPatch_Apply(t *testing.T) {
	r := Rating(3.5)
	n := 2
	l := LocationPatch{Rating: &r, ReviewCount: &n}.Apply(Location{ID: "x", Rating: 5, ReviewCount: 9})
	assert.Equal(t, Rating(3.5), l.Rating)
	assert.Equal(t, 2, l.ReviewCount)

	untouched := LocationPatch{}.Apply(l)
	assert.Equal(t, l, untouched)
}

func TestParseAnnouncementType(t *testing.T) {
	assert.Equal(t, AnnouncementSuccess, ParseAnnouncementType("success"))
	assert.Equal(t, AnnouncementWarning, ParseAnnouncementType("warning"))
	assert.Equal(t, AnnouncementInfo, ParseAnnouncementType(""))
	assert.Equal(t, AnnouncementInfo, ParseAnnouncementType("urgent"))
}
