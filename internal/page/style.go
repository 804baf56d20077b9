package page

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

type declaration struct {
	name  string
	value string
}

// Style is an inline style attribute, kept in declaration order.
type Style struct {
	decls []declaration
}

// ParseStyle parses "name: value; ..." declarations. Malformed entries are dropped.
func ParseStyle(s string) *Style {
	st := &Style{}
	for _, part := range strings.Split(s, ";") {
		name, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		name = strings.ToLower(strings.TrimSpace(name))
		value = strings.TrimSpace(value)
		if name == "" || value == "" {
			continue
		}
		st.Set(name, value)
	}
	return st
}

// Get returns the value of a property, or "".
func (s *Style) Get(name string) string {
	for _, d := range s.decls {
		if d.name == name {
			return d.value
		}
	}
	return ""
}

// Set replaces or appends a property. An empty value removes it.
func (s *Style) Set(name, value string) {
	if value == "" {
		s.Remove(name)
		return
	}
	for i, d := range s.decls {
		if d.name == name {
			s.decls[i].value = value
			return
		}
	}
	s.decls = append(s.decls, declaration{name: name, value: value})
}

// Remove deletes a property.
func (s *Style) Remove(name string) {
	for i, d := range s.decls {
		if d.name == name {
			s.decls = append(s.decls[:i], s.decls[i+1:]...)
			return
		}
	}
}

// Len returns the number of declarations.
func (s *Style) Len() int { return len(s.decls) }

func (s *Style) String() string {
	parts := make([]string, len(s.decls))
	for i, d := range s.decls {
		parts[i] = d.name + ": " + d.value
	}
	return strings.Join(parts, "; ")
}

// GetStyle returns a property of the first element in sel.
func GetStyle(sel *goquery.Selection, name string) string {
	raw, _ := sel.First().Attr("style")
	return ParseStyle(raw).Get(name)
}

// SetStyle sets a property on every element in sel. An empty value removes
// it, and the attribute goes away once no declarations remain.
func SetStyle(sel *goquery.Selection, name, value string) {
	sel.Each(func(_ int, el *goquery.Selection) {
		raw, _ := el.Attr("style")
		st := ParseStyle(raw)
		st.Set(name, value)
		if st.Len() == 0 {
			el.RemoveAttr("style")
			return
		}
		el.SetAttr("style", st.String())
	})
}
