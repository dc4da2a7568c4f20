// Package currency defines currency values and the in-memory catalog loaded at startup.
package currency

import "strings"

// Currency is an ISO currency code with its display name.
type Currency struct {
	Code string `json:"code" example:"USD"`
	Name string `json:"name" example:"United States Dollar"`
}

// IsValidCode checks whether a string is a valid 3-letter currency code.
func IsValidCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	code = strings.ToUpper(code)
	for _, c := range code {
		if c < 'A' || c > 'Z' {
			return false
		}
	}
	return true
}

// NormalizeCode trims and upper-cases a currency code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Catalog holds the currency list in upstream order.
// It is filled once and only read afterwards.
type Catalog struct {
	list   []Currency
	byCode map[string]int
}

// NewCatalog builds a catalog from currencies, keeping their order.
// Later duplicates of a code are ignored.
func NewCatalog(currencies []Currency) *Catalog {
	c := &Catalog{
		list:   make([]Currency, 0, len(currencies)),
		byCode: make(map[string]int, len(currencies)),
	}
	for _, cur := range currencies {
		code := NormalizeCode(cur.Code)
		if _, dup := c.byCode[code]; dup {
			continue
		}
		c.byCode[code] = len(c.list)
		c.list = append(c.list, Currency{Code: code, Name: cur.Name})
	}
	return c
}

// Lookup finds a currency by code, case-insensitively.
func (c *Catalog) Lookup(code string) (Currency, bool) {
	if c == nil {
		return Currency{}, false
	}
	i, ok := c.byCode[NormalizeCode(code)]
	if !ok {
		return Currency{}, false
	}
	return c.list[i], true
}

// All returns a copy of the currencies in catalog order.
func (c *Catalog) All() []Currency {
	if c == nil {
		return []Currency{}
	}
	out := make([]Currency, len(c.list))
	copy(out, c.list)
	return out
}

// Len returns the number of currencies.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.list)
}
