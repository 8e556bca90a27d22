package cache

import (
	"fmt"
	"math/rand"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var keyPattern = regexp.MustCompile(`^dictionary:v1:(listing|wordLookup):[0-9a-f]{64}$`)

func TestListingKey(t *testing.T) {
	base := ListingKey("dictionary", "en", "app", 20, 1)
	assert.Regexp(t, keyPattern, base)
	assert.Equal(t, base, ListingKey("dictionary", "en", "app", 20, 1))

	tests := []struct {
		name string
		key  string
	}{
		{name: "language", key: ListingKey("dictionary", "es", "app", 20, 1)},
		{name: "search", key: ListingKey("dictionary", "en", "apple", 20, 1)},
		{name: "page size", key: ListingKey("dictionary", "en", "app", 50, 1)},
		{name: "page", key: ListingKey("dictionary", "en", "app", 20, 2)},
		{name: "prefix", key: ListingKey("words", "en", "app", 20, 1)},
		{name: "search is case sensitive", key: ListingKey("dictionary", "en", "App", 20, 1)},
		{name: "search is not trimmed", key: ListingKey("dictionary", "en", "app ", 20, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEqual(t, base, tt.key)
		})
	}
}

func TestFingerprint_AmbiguousJoinsDoNotCollide(t *testing.T) {
	assert.NotEqual(t,
		Fingerprint("dictionary", PurposeListing, "a_b", "c"),
		Fingerprint("dictionary", PurposeListing, "a", "b_c"),
	)
	assert.NotEqual(t,
		Fingerprint("dictionary", PurposeListing, "en", "", "20", "1"),
		Fingerprint("dictionary", PurposeListing, "en", "20", "1"),
	)
	assert.NotEqual(t,
		Fingerprint("dictionary", PurposeListing, "1:a"),
		Fingerprint("dictionary", PurposeListing, "1:", "a"),
	)
}

func TestFingerprint_PurposesAreSeparate(t *testing.T) {
	lookup := WordLookupKey("dictionary", "apple")
	assert.Regexp(t, keyPattern, lookup)
	assert.NotEqual(t, lookup, Fingerprint("dictionary", PurposeListing, "apple"))
}

func TestListingKey_RandomTuples(t *testing.T) {
	type tuple struct {
		language string
		search   string
		pageSize int
		page     int
	}
	rng := rand.New(rand.NewSource(42))
	alphabet := []rune("ab_:- é")
	randomString := func(maxLen int) string {
		n := rng.Intn(maxLen + 1)
		runes := make([]rune, n)
		for i := range runes {
			runes[i] = alphabet[rng.Intn(len(alphabet))]
		}
		return string(runes)
	}

	keys := map[string]tuple{}
	for i := 0; i < 500; i++ {
		tp := tuple{
			language: []string{"en", "es", "fr"}[rng.Intn(3)],
			search:   randomString(4),
			pageSize: 1 + rng.Intn(3),
			page:     1 + rng.Intn(3),
		}
		key := ListingKey("dictionary", tp.language, tp.search, tp.pageSize, tp.page)
		require.Equal(t, key, ListingKey("dictionary", tp.language, tp.search, tp.pageSize, tp.page))
		if existing, ok := keys[key]; ok {
			require.Equal(t, existing, tp, fmt.Sprintf("distinct tuples share key %s", key))
		}
		keys[key] = tp
	}
	assert.Greater(t, len(keys), 100)
}
