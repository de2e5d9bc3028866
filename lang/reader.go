package lang

// reader consumes the tokens of one construct and returns its node once the
// construct is complete. next is the token after tok, or nil at the end of
// the group.
type reader interface {
	feed(tok Token, next *Token) (Node, error)
	name() string
}

func isOpen(tok Token) bool {
	return tok.Kind == Special && (tok.Text == "(" || tok.Text == "[" || tok.Text == "{")
}

func isClose(tok Token) bool {
	return tok.Kind == Special && (tok.Text == ")" || tok.Text == "]" || tok.Text == "}")
}

// memberReader reads the bracketed keys of name[key][key2]...
type memberReader struct {
	symbol Token
	keys   []Node
	key    []Token
	depth  int
}

func (r *memberReader) name() string { return "member expression" }

func (r *memberReader) feed(tok Token, next *Token) (Node, error) {
	switch {
	case tok.Is(Special, "["):
		r.depth++
		if r.depth == 1 {
			r.key = nil

			return nil, nil //nolint:nilnil
		}

	case tok.Is(Special, "]"):
		r.depth--
		if r.depth == 0 {
			key, err := parseGroup(r.key)
			if err != nil {
				return nil, err
			}

			if key == nil {
				return nil, ErrSyntax.Explain("empty key in %s[]", r.symbol.Text)
			}

			r.keys = append(r.keys, key)

			if next != nil && next.Is(Special, "[") {
				return nil, nil //nolint:nilnil
			}

			return &MemberExpr{Symbol: r.symbol, Keys: r.keys}, nil
		}

	case r.depth == 0:
		return nil, unexpected(tok)
	}

	r.key = append(r.key, tok)

	return nil, nil //nolint:nilnil
}

// dictStage is the part of a key/value pair a dictReader expects next.
type dictStage int

const (
	dictKey dictStage = iota
	dictColon
	dictValue
)

// dictReader reads {"key": value, ...} after the opening brace.
type dictReader struct {
	body  []Pair
	key   Token
	value []Token
	stage dictStage
	depth int
}

func (r *dictReader) name() string { return "dictionary" }

func (r *dictReader) feed(tok Token, _ *Token) (Node, error) {
	switch r.stage {
	case dictKey:
		switch {
		case tok.Kind == String:
			r.key = tok
			r.stage = dictColon
		case tok.Is(Special, "}"):
			return &Dictionary{Body: r.body}, nil
		default:
			return nil, ErrSyntax.
				Explain("dictionary key must be a string, found %s", tok)
		}

	case dictColon:
		if !tok.Is(Special, ":") {
			return nil, ErrSyntax.
				Explain("expected : after dictionary key %s, found %s", r.key, tok)
		}

		r.stage = dictValue
		r.value = nil

	case dictValue:
		switch {
		case isOpen(tok):
			r.depth++

		case isClose(tok):
			r.depth--
			if r.depth == 0 {
				if !tok.Is(Special, "}") {
					return nil, unexpected(tok)
				}

				if err := r.flush(); err != nil {
					return nil, err
				}

				return &Dictionary{Body: r.body}, nil
			}

		case tok.Is(Special, ",") && r.depth == 1:
			if err := r.flush(); err != nil {
				return nil, err
			}

			r.stage = dictKey

			return nil, nil //nolint:nilnil
		}

		r.value = append(r.value, tok)
	}

	return nil, nil //nolint:nilnil
}

func (r *dictReader) flush() error {
	value, err := parseGroup(r.value)
	if err != nil {
		return err
	}

	if value == nil {
		return ErrSyntax.Explain("dictionary key %s has no value", r.key)
	}

	r.body = append(r.body, Pair{Key: r.key, Value: value})

	return nil
}

// funcReader reads {(params) body} after the opening brace.
type funcReader struct {
	params []Token
	body   []Token
	depth  int
	open   bool
	inBody bool
}

func (r *funcReader) name() string { return "function" }

func (r *funcReader) feed(tok Token, _ *Token) (Node, error) {
	if !r.inBody {
		switch {
		case !r.open && tok.Is(Special, "("):
			r.open = true
		case r.open && tok.Kind == Symbol:
			r.params = append(r.params, tok)
		case r.open && tok.Is(Special, ","):
		case r.open && tok.Is(Special, ")"):
			r.inBody = true
		default:
			return nil, ErrSyntax.
				Explain("function parameter must be a symbol, found %s", tok)
		}

		return nil, nil //nolint:nilnil
	}

	switch {
	case tok.Is(Special, "{"):
		r.depth++

	case tok.Is(Special, "}"):
		r.depth--
		if r.depth == 0 {
			body, err := Parse(r.body)
			if err != nil {
				return nil, err
			}

			if len(body) == 0 {
				body = nil
			}

			return &FunctionExpr{Params: r.params, Body: body}, nil
		}
	}

	r.body = append(r.body, tok)

	return nil, nil //nolint:nilnil
}

// callReader reads the parenthesized arguments of name(arg, ...).
type callReader struct {
	symbol string
	args   []Node
	arg    []Token
	depth  int
}

func (r *callReader) name() string { return "call to " + r.symbol }

func (r *callReader) feed(tok Token, _ *Token) (Node, error) {
	switch {
	case isOpen(tok):
		r.depth++
		if r.depth == 1 {
			return nil, nil //nolint:nilnil
		}

	case isClose(tok):
		r.depth--
		if r.depth == 0 {
			if err := r.flush(); err != nil {
				return nil, err
			}

			return &FunctionCall{Symbol: r.symbol, Args: r.args}, nil
		}

	case tok.Is(Special, ",") && r.depth == 1:
		return nil, r.flush()
	}

	r.arg = append(r.arg, tok)

	return nil, nil //nolint:nilnil
}

func (r *callReader) flush() error {
	arg, err := parseGroup(r.arg)
	if err != nil {
		return err
	}

	if arg != nil {
		r.args = append(r.args, arg)
	}

	r.arg = nil

	return nil
}
