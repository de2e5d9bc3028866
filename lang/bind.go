package lang

import (
	"log/slog"
	"math"
	"strconv"
)

// Bind converts a Go value with [FromValue] and binds it to name in s.
func (s *Scope) Bind(name string, v any) error {
	n, err := FromValue(v)
	if err != nil {
		return WrapError(err).With(slog.String("symbol", name))
	}

	s.Set(name, n)

	return nil
}

// FromValue converts a Go value into a stored value.
//
// Booleans, strings, and numbers become tokens. Maps with string keys become
// dictionaries with their keys in sorted order, and slices become
// dictionaries keyed by index. Nodes are returned unchanged.
func FromValue(v any) (Node, error) {
	switch v := v.(type) {
	case *TokenExpr:
		return v, nil
	case *Dictionary:
		return v, nil
	case *FunctionExpr:
		return v, nil

	case bool:
		return &TokenExpr{Token: Bool(v)}, nil
	case string:
		return &TokenExpr{Token: Token{Kind: String, Text: v}}, nil

	case int:
		return intToken(int64(v)), nil
	case int8:
		return intToken(int64(v)), nil
	case int16:
		return intToken(int64(v)), nil
	case int32:
		return intToken(int64(v)), nil
	case int64:
		return intToken(v), nil
	case uint:
		return uintToken(uint64(v)), nil
	case uint8:
		return uintToken(uint64(v)), nil
	case uint16:
		return uintToken(uint64(v)), nil
	case uint32:
		return uintToken(uint64(v)), nil
	case uint64:
		return uintToken(v), nil
	case float32:
		return floatToken(float64(v))
	case float64:
		return floatToken(v)

	case map[string]any:
		return mapDictionary(v)
	case map[string]string:
		return mapDictionary(v)

	case []any:
		return sliceDictionary(v)
	case []string:
		return sliceDictionary(v)

	default:
		return nil, ErrHostBinding.Explain("cannot bind value of type %T", v)
	}
}

// ToValue converts a stored value into a Go value: bool, string, float64 or
// int64 for tokens, and map[string]any for dictionaries (first key wins).
// Functions convert to [FunctionPlaceholder] and nothing converts to nil.
func ToValue(n Node) any {
	switch n := n.(type) {
	case *TokenExpr:
		switch n.Token.Kind {
		case Boolean:
			return n.Token.IsTrue()
		case Number:
			if i, err := strconv.ParseInt(n.Token.Text, 10, 64); err == nil {
				return i
			}

			if f, err := strconv.ParseFloat(n.Token.Text, 64); err == nil {
				return f
			}
		case String, Symbol, MathOperation, Special:
		}

		return n.Token.Text

	case *Dictionary:
		m := make(map[string]any, len(n.Body))

		for _, p := range n.Body {
			if _, ok := m[p.Key.Text]; !ok {
				m[p.Key.Text] = ToValue(p.Value)
			}
		}

		return m

	case nil:
		return nil

	default:
		return ToSingleToken(n).Text
	}
}

func intToken(i int64) *TokenExpr {
	return &TokenExpr{Token: Token{Kind: Number, Text: strconv.FormatInt(i, 10)}}
}

func uintToken(u uint64) *TokenExpr {
	return &TokenExpr{Token: Token{Kind: Number, Text: strconv.FormatUint(u, 10)}}
}

func floatToken(f float64) (Node, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, ErrHostBinding.Explain("cannot bind non-finite number %v", f)
	}

	return numberToken(f), nil
}

func mapDictionary[T any](m map[string]T) (Node, error) {
	d := &Dictionary{Body: make([]Pair, 0, len(m))}

	for _, k := range sortedKeys(m) {
		v, err := FromValue(m[k])
		if err != nil {
			return nil, WrapError(err).With(slog.String("key", k))
		}

		d.Body = append(d.Body, Pair{Key: Token{Kind: String, Text: k}, Value: v})
	}

	return d, nil
}

func sliceDictionary[T any](s []T) (Node, error) {
	d := &Dictionary{Body: make([]Pair, 0, len(s))}

	for i, e := range s {
		v, err := FromValue(e)
		if err != nil {
			return nil, WrapError(err).With(slog.Int("index", i))
		}

		d.Body = append(d.Body, Pair{
			Key:   Token{Kind: String, Text: strconv.Itoa(i)},
			Value: v,
		})
	}

	return d, nil
}
