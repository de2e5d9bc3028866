package repl

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/tinct/lang"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "list", "edit", "reset", "clear", "quit"}

// maxPreview is the widest value preview shown by the list command.
const maxPreview = 40

// isIdentRune reports whether r can appear in a symbol.
func isIdentRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
}

// wordBounds returns the symbol around byte offset cursor and its byte
// boundaries within input. The word is empty when the cursor is not touching
// a symbol.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if !isIdentRune(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if !isIdentRune(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// memberKey describes a dictionary key being typed inside a member access,
// such as the "po" in cfg["server"]["po.
type memberKey struct {
	symbol  string
	keys    []string // keys leading to the dictionary being indexed
	partial string
	start   int // byte offset of the first character of the key text
}

// memberKeyBounds reports whether byte offset cursor is inside a string
// literal that opens a key of a member access chain.
func memberKeyBounds(input string, cursor int) (memberKey, bool) {
	cursor = min(max(cursor, 0), len(input))

	var (
		quote rune
		open  int
	)

	for i, r := range input[:cursor] {
		switch {
		case quote != 0 && r == quote:
			quote = 0
		case quote == 0 && (r == '"' || r == '\''):
			quote, open = r, i
		}
	}

	if quote == 0 || open == 0 || input[open-1] != '[' {
		return memberKey{}, false
	}

	mk := memberKey{partial: input[open+1 : cursor], start: open + 1}

	// Walk back over complete ["key"] accesses to the symbol.
	pos := open - 1

	for pos > 0 && input[pos-1] == ']' {
		end := pos - 2
		if end < 1 || (input[end] != '"' && input[end] != '\'') {
			return memberKey{}, false
		}

		begin := strings.LastIndexByte(input[:end], input[end])
		if begin < 1 || input[begin-1] != '[' {
			return memberKey{}, false
		}

		mk.keys = append([]string{input[begin+1 : end]}, mk.keys...)
		pos = begin - 1
	}

	mk.symbol, _, _ = wordBounds(input[:pos], pos)
	if mk.symbol == "" {
		return memberKey{}, false
	}

	return mk, true
}

// childCandidates returns completion candidates. With no symbol, these are
// every bound name and built-in function. Otherwise they are the keys of the
// dictionary reached from symbol through keys.
func childCandidates(scope *lang.Scope, symbol string, keys []string) []string {
	if symbol == "" {
		var names []string

		if scope != nil {
			names = scope.Names()
		}

		for _, b := range lang.BuiltinNames() {
			if !slices.Contains(names, b) {
				names = append(names, b)
			}
		}

		return names
	}

	if scope == nil {
		return nil
	}

	v, ok := scope.Lookup(symbol)

	for _, key := range keys {
		d, isDict := v.(*lang.Dictionary)
		if !ok || !isDict {
			return nil
		}

		v, ok = d.Lookup(key)
	}

	d, isDict := v.(*lang.Dictionary)
	if !ok || !isDict {
		return nil
	}

	return slices.Compact(slices.Sorted(slices.Values(d.Keys())))
}

// computeMatches returns the fuzzy matches for the text at the cursor and
// the byte range that a chosen candidate replaces.
func (m model) computeMatches() (matches fuzzy.Matches, start, end int) {
	input := m.input.Value()
	cursor := byteOffset(input, m.input.Position())

	if m.mode == modeCtrl {
		word, ws, we := wordBounds(input, cursor)
		if word == "" {
			return nil, ws, we
		}

		return fuzzy.Find(word, ctrlCommands), ws, we
	}

	if mk, ok := memberKeyBounds(input, cursor); ok {
		candidates := childCandidates(m.interp.Scope(), mk.symbol, mk.keys)

		// Show every key as soon as the quote opens.
		if mk.partial == "" {
			return allMatches(candidates), mk.start, cursor
		}

		return fuzzy.Find(mk.partial, candidates), mk.start, cursor
	}

	word, ws, we := wordBounds(input, cursor)
	if word == "" || inString(input, cursor) {
		return nil, ws, we
	}

	return fuzzy.Find(word, childCandidates(m.interp.Scope(), "", nil)), ws, we
}

func allMatches(candidates []string) fuzzy.Matches {
	matches := make(fuzzy.Matches, len(candidates))
	for i, c := range candidates {
		matches[i] = fuzzy.Match{Str: c, Index: i}
	}

	return matches
}

// inString reports whether byte offset cursor is inside a string literal.
func inString(input string, cursor int) bool {
	var quote rune

	for _, r := range input[:cursor] {
		switch {
		case quote != 0 && r == quote:
			quote = 0
		case quote == 0 && (r == '"' || r == '\''):
			quote = r
		}
	}

	return quote != 0
}

// byteOffset converts a rune position within s into a byte offset.
func byteOffset(s string, pos int) int {
	for i := range s {
		if pos == 0 {
			return i
		}

		pos--
	}

	return len(s)
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within width.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
	isFunc func(string) bool,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	ellipsis := hintStyle.Render("...")
	reserve := lipgloss.Width(ellipsis) + lipgloss.Width(sep)

	var (
		b    strings.Builder
		used int
	)

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx, isFunc(match.Str))

		w := lipgloss.Width(rendered)
		if i > 0 {
			w += lipgloss.Width(sep)
		}

		if i > 0 && i < len(matches)-1 && used+w+reserve > width {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += w
	}

	return b.String()
}

// renderCandidate renders a candidate with its matched characters
// highlighted. Functions get a "()" suffix that is not part of the
// completion.
func renderCandidate(match fuzzy.Match, selected, function bool) string {
	base := suggestionStyle
	highlight := lipgloss.NewStyle().
		Foreground(lipgloss.Color("4")).
		Bold(true)

	if selected {
		base = selectedStyle
		highlight = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4")).
			Bold(true)
	}

	var b strings.Builder

	for i, r := range match.Str {
		if slices.Contains(match.MatchedIndexes, i) {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	if function {
		b.WriteString(base.Render("()"))
	}

	return b.String()
}

// isFunction reports whether name is a built-in or bound to a function.
func isFunction(scope *lang.Scope, name string) bool {
	if _, ok := lang.BuiltinSignature(name); ok {
		return true
	}

	if scope == nil {
		return false
	}

	v, ok := scope.Lookup(name)
	if !ok {
		return false
	}

	_, ok = v.(*lang.FunctionExpr)

	return ok
}

// formatPreview returns a one-line summary of a bound value.
func formatPreview(v lang.Node) string {
	switch v := v.(type) {
	case *lang.FunctionExpr:
		params := make([]string, len(v.Params))
		for i, p := range v.Params {
			params[i] = p.Text
		}

		return "{(" + strings.Join(params, ", ") + ") ...}"

	case *lang.Dictionary:
		return fmt.Sprintf("{ %d keys }", len(v.Body))

	default:
		s := v.String()
		if utf8.RuneCountInString(s) > maxPreview {
			return string([]rune(s)[:maxPreview-3]) + "..."
		}

		return s
	}
}
