// Package guard validates resolved round data before any session can use it.
//
// Guards run once while the runtime configuration is built. Each returns a coded
// error from internal/errors on the first violation it finds.
package guard

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Normalize canonicalizes text for duplicate detection: NFKC, case folded, whitespace collapsed.
func Normalize(s string) string {
	s = norm.NFKC.String(s)
	s = cases.Fold().String(s)
	return strings.Join(strings.Fields(s), " ")
}
