package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
)

// Version is embedded in every key. Bump it when a cached value's format
// changes so old entries are never read back.
const Version = 1

// Purpose separates the key namespaces of different cached operations.
type Purpose string

const (
	PurposeListing    Purpose = "listing"
	PurposeWordLookup Purpose = "wordLookup"
)

// Fingerprint derives a deterministic key from the purpose and the ordered
// parameter tuple. Every part is length-prefixed, so no two distinct tuples
// share an encoding.
func Fingerprint(prefix string, purpose Purpose, parts ...string) string {
	h := sha256.New()
	for _, part := range parts {
		_, _ = fmt.Fprintf(h, "%d:%s", len(part), part)
	}
	return fmt.Sprintf("%s:v%d:%s:%s", prefix, Version, purpose, hex.EncodeToString(h.Sum(nil)))
}

// ListingKey fingerprints a listing page. An absent search term is passed as
// the empty string, so both requests share one entry.
func ListingKey(prefix, language, search string, pageSize, page int) string {
	return Fingerprint(prefix, PurposeListing, language, search, strconv.Itoa(pageSize), strconv.Itoa(page))
}

func WordLookupKey(prefix, word string) string {
	return Fingerprint(prefix, PurposeWordLookup, word)
}
