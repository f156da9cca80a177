package routemap

import (
	"fmt"
	"net/url"
	"strings"
)

// ArrayStyle selects how slice values serialize into a query string.
type ArrayStyle int

const (
	// ArrayStyleRepeat repeats the key: tags=a&tags=b
	ArrayStyleRepeat ArrayStyle = iota
	// ArrayStyleBrackets appends []: tags[]=a&tags[]=b
	ArrayStyleBrackets
	// ArrayStyleComma joins values: tags=a,b
	ArrayStyleComma
)

// QueryEncoder serializes params left over after placeholder
// substitution into a query string, without the leading "?". Treated as
// an opaque collaborator by the URL builder.
type QueryEncoder interface {
	Encode(params map[string]any) string
}

// URLQueryEncoder is the default encoder, built on net/url Values.
// Scalars print with fmt, slices follow ArrayStyle, maps flatten to
// key[sub]=value pairs. Output is sorted by key per url.Values.Encode.
type URLQueryEncoder struct {
	ArrayStyle ArrayStyle
}

func (e *URLQueryEncoder) Encode(params map[string]any) string {
	values := url.Values{}
	for key, value := range params {
		switch v := value.(type) {
		case []string:
			e.addSlice(values, key, v)
		case []any:
			items := make([]string, len(v))
			for i, item := range v {
				items[i] = fmt.Sprint(item)
			}
			e.addSlice(values, key, items)
		case map[string]any:
			for sub, sv := range v {
				values.Add(key+"["+sub+"]", fmt.Sprint(sv))
			}
		default:
			values.Add(key, fmt.Sprint(v))
		}
	}
	return values.Encode()
}

func (e *URLQueryEncoder) addSlice(values url.Values, key string, items []string) {
	switch e.ArrayStyle {
	case ArrayStyleBrackets:
		for _, item := range items {
			values.Add(key+"[]", item)
		}
	case ArrayStyleComma:
		values.Add(key, strings.Join(items, ","))
	default:
		for _, item := range items {
			values.Add(key, item)
		}
	}
}

type urlOptions struct {
	encoder QueryEncoder
}

// URLOption adjusts a single URL build.
type URLOption func(*urlOptions)

// WithEncoder overrides the Router's query encoder for one call.
func WithEncoder(enc QueryEncoder) URLOption {
	return func(o *urlOptions) {
		if enc != nil {
			o.encoder = enc
		}
	}
}

// WithArrayStyle is shorthand for a default encoder with the given
// slice serialization style.
func WithArrayStyle(style ArrayStyle) URLOption {
	return WithEncoder(&URLQueryEncoder{ArrayStyle: style})
}
