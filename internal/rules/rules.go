// Package rules decides the next state of a two-state cell from its current
// state and live Moore-neighbour count.
package rules

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ErrSyntax is returned for rule strings that are not in B/S notation.
var ErrSyntax = errors.New("rules: invalid rule notation")

// Rule maps (alive, neighbours) to the next alive state. Implementations must
// be pure so they can be called from many goroutines at once.
type Rule interface {
	Name() string
	Next(alive bool, neighbors int) bool
}

// Conway is the B3/S23 rule.
type Conway struct{}

// Name returns the rule identifier.
func (Conway) Name() string { return "conway" }

// Next implements Rule.
func (Conway) Next(alive bool, neighbors int) bool {
	if alive {
		return neighbors == 2 || neighbors == 3
	}
	return neighbors == 3
}

// LifeLike is any outer-totalistic rule given by birth and survival sets.
type LifeLike struct {
	name    string
	birth   [9]bool
	survive [9]bool
}

// Name returns the rule identifier.
func (r *LifeLike) Name() string { return r.name }

// Next implements Rule.
func (r *LifeLike) Next(alive bool, neighbors int) bool {
	if neighbors < 0 || neighbors > 8 {
		return false
	}
	if alive {
		return r.survive[neighbors]
	}
	return r.birth[neighbors]
}

// String renders the rule in B/S notation.
func (r *LifeLike) String() string {
	var sb strings.Builder
	sb.WriteByte('B')
	for n, ok := range r.birth {
		if ok {
			sb.WriteString(strconv.Itoa(n))
		}
	}
	sb.WriteString("/S")
	for n, ok := range r.survive {
		if ok {
			sb.WriteString(strconv.Itoa(n))
		}
	}
	return sb.String()
}

// Parse reads a rule in "B3/S23" notation. The legacy "23/3" survival/birth
// form is accepted too.
func Parse(notation string) (*LifeLike, error) {
	s := strings.ToUpper(strings.TrimSpace(notation))
	parts := strings.Split(s, "/")
	if len(parts) != 2 {
		return nil, fmt.Errorf("%w: %q", ErrSyntax, notation)
	}
	var birthDigits, surviveDigits string
	switch {
	case strings.HasPrefix(parts[0], "B") && strings.HasPrefix(parts[1], "S"):
		birthDigits, surviveDigits = parts[0][1:], parts[1][1:]
	case strings.HasPrefix(parts[0], "S") && strings.HasPrefix(parts[1], "B"):
		surviveDigits, birthDigits = parts[0][1:], parts[1][1:]
	default:
		surviveDigits, birthDigits = parts[0], parts[1]
	}
	r := &LifeLike{}
	if err := fillDigits(&r.birth, birthDigits); err != nil {
		return nil, fmt.Errorf("%w: %q", err, notation)
	}
	if err := fillDigits(&r.survive, surviveDigits); err != nil {
		return nil, fmt.Errorf("%w: %q", err, notation)
	}
	r.name = r.String()
	return r, nil
}

func fillDigits(dst *[9]bool, digits string) error {
	for _, ch := range digits {
		if ch < '0' || ch > '8' {
			return ErrSyntax
		}
		dst[ch-'0'] = true
	}
	return nil
}

// MustParse is Parse for rule tables known at compile time.
func MustParse(name, notation string) *LifeLike {
	r, err := Parse(notation)
	if err != nil {
		panic(err)
	}
	r.name = name
	return r
}

var registry = map[string]Rule{}

// Register adds a rule under the provided name.
func Register(name string, r Rule) {
	if name == "" || r == nil {
		return
	}
	registry[strings.ToLower(name)] = r
}

// Lookup resolves a registered name or, failing that, B/S notation.
func Lookup(name string) (Rule, error) {
	if r, ok := registry[strings.ToLower(strings.TrimSpace(name))]; ok {
		return r, nil
	}
	return Parse(name)
}

// Names lists the registered rule names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	Register("conway", Conway{})
	Register("highlife", MustParse("highlife", "B36/S23"))
	Register("seeds", MustParse("seeds", "B2/S"))
	Register("daynight", MustParse("daynight", "B3678/S34678"))
}
