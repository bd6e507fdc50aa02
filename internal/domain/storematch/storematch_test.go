package storematch

import (
	"testing"

	"pizzeria/internal/domain/model"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"Cash Saver - Camp Wisdom": "CASH SAVER-CAMP WISDOM",
		"CASH SAVER-CAMP WISDOM":   "CASH SAVER-CAMP WISDOM",
		"  cash   saver -camp  ":   "CASH SAVER-CAMP",
		"cash saver- camp":         "CASH SAVER-CAMP",
		"\tdowntown\n":             "DOWNTOWN",
		"":                         "",
		"   ":                      "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Normalize(in), "input %q", in)
	}

	assert.Equal(t, Normalize("Cash Saver - Camp Wisdom"), Normalize("CASH SAVER-CAMP WISDOM"))
}

func TestMatches(t *testing.T) {
	assert.True(t, Matches("Cash Saver - Camp Wisdom", "cash saver-camp wisdom"))
	assert.True(t, Matches("Cash Saver", "CASH SAVER-CAMP WISDOM"))
	assert.True(t, Matches("CASH SAVER-CAMP WISDOM", "cash saver"))
	assert.False(t, Matches("Downtown", "Uptown Plaza"))
	assert.False(t, Matches("", "Downtown"))
	assert.False(t, Matches("Downtown", "  "))
}

func TestMatch(t *testing.T) {
	stores := []model.Store{
		{ID: 1, Name: "Cash Saver - Camp Wisdom"},
		{ID: 2, Name: "Cash Saver"},
		{ID: 3, Name: "Fiesta Mart"},
		{ID: 4, Name: ""},
	}

	t.Run("earlier containment match beats later exact match", func(t *testing.T) {
		s, ok := Match("cash saver", stores)
		assert.True(t, ok)
		assert.Equal(t, int64(1), s.ID)

		s, ok = Match("Cash Saver - Camp Wisdom", []model.Store{
			{ID: 1, Name: "Cash Saver - Camp Wisdom Express"},
			{ID: 2, Name: "CASH SAVER-CAMP WISDOM"},
		})
		assert.True(t, ok)
		assert.Equal(t, int64(1), s.ID)
	})

	t.Run("dash variants are exact", func(t *testing.T) {
		s, ok := Match("CASH SAVER-CAMP WISDOM", stores)
		assert.True(t, ok)
		assert.Equal(t, int64(1), s.ID)
	})

	t.Run("first containment match in list order", func(t *testing.T) {
		s, ok := Match("Cash Saver - Camp Wisdom #12", stores)
		assert.True(t, ok)
		assert.Equal(t, int64(1), s.ID)

		s, ok = Match("SAVER", stores)
		assert.True(t, ok)
		assert.Equal(t, int64(1), s.ID)
	})

	t.Run("no match", func(t *testing.T) {
		_, ok := Match("Kroger", stores)
		assert.False(t, ok)
	})

	t.Run("empty candidate never matches", func(t *testing.T) {
		_, ok := Match("   ", stores)
		assert.False(t, ok)
	})

	t.Run("empty list", func(t *testing.T) {
		_, ok := Match("Fiesta Mart", nil)
		assert.False(t, ok)
	})
}
