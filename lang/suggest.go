package lang

import (
	"log/slog"

	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// maxSuggestDistance is the largest edit distance still offered as a
// suggestion for a misspelled name.
const maxSuggestDistance = 2

// suggest returns the name closest to name among candidates, or "" if none is
// within maxSuggestDistance.
func suggest(name string, candidates []string) string {
	var (
		best     string
		bestDist = maxSuggestDistance + 1
		target   = []rune(name)
	)

	for _, c := range candidates {
		if c == name {
			continue
		}

		d := levenshtein.DistanceForStrings(target, []rune(c), levenshtein.DefaultOptions)
		if d < bestDist || (d == bestDist && c < best) {
			best, bestDist = c, d
		}
	}

	if bestDist > maxSuggestDistance {
		return ""
	}

	return best
}

// undefined returns an ErrUndefinedSymbol for name, suggesting the closest
// name visible from scope.
func undefined(format, name string, scope *Scope) *Error {
	candidates := append(scope.Names(), BuiltinNames()...)

	err := ErrUndefinedSymbol.
		Explain(format, name).
		With(slog.String("symbol", name))

	if s := suggest(name, candidates); s != "" {
		return err.
			Explain(format+" (did you mean %s?)", name, s).
			With(slog.String("suggestion", s))
	}

	return err
}
