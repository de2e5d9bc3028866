package lang

// Placeholder texts for values that have no scalar form.
const (
	FunctionPlaceholder   = "[Function]"
	DictionaryPlaceholder = "[Dictionary]"
)

// Null is the display text of an evaluation that produced nothing.
const Null = "null"

// ToSingleToken reduces a value to the token shown at output boundaries.
// Functions and dictionaries become String placeholders; scalars are
// returned as they are. A nil value reduces to the zero Token.
func ToSingleToken(v Node) Token {
	switch v := v.(type) {
	case nil:
		return Token{}
	case *TokenExpr:
		return v.Token
	case *FunctionExpr:
		return Token{Kind: String, Text: FunctionPlaceholder}
	case *Dictionary:
		return Token{Kind: String, Text: DictionaryPlaceholder}
	default:
		return Token{Kind: String, Text: v.String()}
	}
}

// Display returns the text printed for a value, or [Null] for nothing.
func Display(v Node) string {
	if v == nil {
		return Null
	}

	return ToSingleToken(v).Text
}
