// Package markup provides a string type for HTML that is already escaped.
//
// A Markup value is written to autoescaped output unchanged. Any other string
// passes through Escape first, so combining the two never escapes twice.
package markup

import (
	"html"
	"strings"
)

// Markup is a string that is safe to emit without further escaping.
type Markup string

// HTMLer is implemented by values that know their own safe HTML representation.
type HTMLer interface {
	HTML() Markup
}

// Escape returns s with the HTML special characters replaced by entities.
func Escape(s string) Markup {
	return Markup(html.EscapeString(s))
}

// Safe reports whether v is already marked safe, and returns its markup if so.
func Safe(v any) (Markup, bool) {
	switch v := v.(type) {
	case Markup:
		return v, true
	case HTMLer:
		return v.HTML(), true
	default:
		return "", false
	}
}

// Join concatenates parts with sep between them.
// Parts and sep that are not marked safe are escaped first.
func Join(parts []any, sep any, str func(any) string) Markup {
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = string(coerce(p, str))
	}

	return Markup(strings.Join(escaped, string(coerce(sep, str))))
}

// String implements fmt.Stringer.
func (m Markup) String() string {
	return string(m)
}

// HTML implements HTMLer.
func (m Markup) HTML() Markup {
	return m
}

func coerce(v any, str func(any) string) Markup {
	if m, ok := Safe(v); ok {
		return m
	}

	return Escape(str(v))
}
