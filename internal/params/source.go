package params

import (
	stderrors "errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/roach88/motorbench/internal/bench"
)

// Source supplies raw parameter values by name.
type Source interface {
	Int(name string) (int64, error)
}

var _ bench.Values = Source(nil)

// MissingError reports that a source has no value for a parameter.
type MissingError struct {
	Name string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("missing parameter %q", e.Name)
}

// IsMissing returns true if err is a MissingError.
func IsMissing(err error) bool {
	var me *MissingError
	return stderrors.As(err, &me)
}

// Map is an in-memory Source.
type Map map[string]int64

// Int returns the named value or a *MissingError.
func (m Map) Int(name string) (int64, error) {
	v, ok := m[name]
	if !ok {
		return 0, &MissingError{Name: name}
	}
	return v, nil
}

// Names returns the keys in sorted order.
func (m Map) Names() []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Chain queries sources in order and returns the first value found.
type Chain []Source

// Int walks the chain. A *MissingError moves to the next source; any other
// error is returned immediately.
func (c Chain) Int(name string) (int64, error) {
	for _, src := range c {
		if src == nil {
			continue
		}
		v, err := src.Int(name)
		if err == nil {
			return v, nil
		}
		if !IsMissing(err) {
			return 0, err
		}
	}
	return 0, &MissingError{Name: name}
}

// ParseAssignments parses name=value pairs, as given to --set.
// Names must be known bench parameters and values base-10 integers.
func ParseAssignments(pairs []string) (Map, error) {
	m := make(Map, len(pairs))
	for _, pair := range pairs {
		name, raw, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, errors.Errorf("invalid assignment %q: expected name=value", pair)
		}
		name = strings.TrimSpace(name)
		if _, known := bench.LookupParam(name); !known {
			return nil, errors.Errorf("unknown parameter %q", name)
		}
		v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "parameter %s", name)
		}
		m[name] = v
	}
	return m, nil
}
