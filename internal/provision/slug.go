package provision

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// Slugify lowercases s and collapses every run of non-alphanumeric
// characters into a single dash. The result is deterministic, so product
// and product-type slugs derived from the same input always match.
func Slugify(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
		} else {
			dash = true
		}
	}

	return b.String()
}

// DeriveSKU builds a fallback SKU from the product name plus the last six
// digits of the millisecond timestamp to reduce collision risk when the
// caller did not supply one.
func DeriveSKU(name string, now time.Time) string {
	return fmt.Sprintf("%s-%06d", Slugify(name), now.UnixMilli()%1_000_000)
}
