// Package token normalizes free-text coin references into canonical
// CoinGecko-style identifiers.
package token

import "strings"

// DefaultCutoff is the minimum similarity ratio for a fuzzy alias match.
const DefaultCutoff = 0.6

var defaultAliases = map[string]string{
	"btc":      "bitcoin",
	"bitcoin":  "bitcoin",
	"eth":      "ethereum",
	"ethereum": "ethereum",
	"sol":      "solana",
	"solana":   "solana",
	"ada":      "cardano",
	"cardano":  "cardano",
	"doge":     "dogecoin",
	"dogecoin": "dogecoin",
	"xrp":      "ripple",
	"ripple":   "ripple",
	"dot":      "polkadot",
	"polkadot": "polkadot",
}

type Resolver struct {
	aliases map[string]string
	cutoff  float64
}

func NewResolver() *Resolver {
	return NewResolverWithCutoff(DefaultCutoff)
}

func NewResolverWithCutoff(cutoff float64) *Resolver {
	return &Resolver{aliases: defaultAliases, cutoff: cutoff}
}

// Resolve strips non-alphabetic characters, lower-cases the remainder, and
// maps it through the alias table, falling back to the closest alias key by
// similarity ratio. Unmatched input is returned cleaned but unmapped; callers
// must treat that as best effort.
func (r *Resolver) Resolve(raw string) string {
	cleaned := clean(raw)
	if cleaned == "" {
		return ""
	}

	if canonical, ok := r.aliases[cleaned]; ok {
		return canonical
	}

	bestKey := ""
	bestRatio := 0.0
	for key := range r.aliases {
		ratio := similarity(cleaned, key)
		if ratio > bestRatio || (ratio == bestRatio && bestKey != "" && key < bestKey) {
			bestKey = key
			bestRatio = ratio
		}
	}
	if bestKey != "" && bestRatio >= r.cutoff {
		return r.aliases[bestKey]
	}

	return cleaned
}

func clean(raw string) string {
	var b strings.Builder
	for _, c := range raw {
		switch {
		case c >= 'a' && c <= 'z':
			b.WriteRune(c)
		case c >= 'A' && c <= 'Z':
			b.WriteRune(c + ('a' - 'A'))
		}
	}
	return b.String()
}

// similarity is the Ratcliff/Obershelp ratio: twice the number of matching
// characters over the total length of both strings.
func similarity(a, b string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	matched := matchingChars(a, b)
	return 2 * float64(matched) / float64(len(a)+len(b))
}

func matchingChars(a, b string) int {
	ai, bi, size := longestCommonSubstring(a, b)
	if size == 0 {
		return 0
	}
	total := size
	total += matchingChars(a[:ai], b[:bi])
	total += matchingChars(a[ai+size:], b[bi+size:])
	return total
}

func longestCommonSubstring(a, b string) (ai, bi, size int) {
	// lengths[j] holds the common-suffix length ending at a[i-1], b[j-1]
	// for the current row i.
	lengths := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		prevDiag := 0
		for j := 1; j <= len(b); j++ {
			cur := lengths[j]
			if a[i-1] == b[j-1] {
				lengths[j] = prevDiag + 1
				if lengths[j] > size {
					size = lengths[j]
					ai = i - size
					bi = j - size
				}
			} else {
				lengths[j] = 0
			}
			prevDiag = cur
		}
	}
	return ai, bi, size
}
