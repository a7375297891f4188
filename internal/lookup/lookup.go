// Package lookup resolves user-typed composer and work names against the
// known entity universe and proposes close matches for typos.
package lookup

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DefaultSuggestions is how many candidates Suggest returns by default.
const DefaultSuggestions = 3

// minDistanceBudget is the smallest edit distance still worth suggesting.
const minDistanceBudget = 3

// ErrUnknownEntity is wrapped by UnknownEntityError.
var ErrUnknownEntity = errors.New("unknown entity")

// UnknownEntityError carries the closest known names.
type UnknownEntityError struct {
	Query       string
	Suggestions []string
}

func (e *UnknownEntityError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("%s %q", ErrUnknownEntity, e.Query)
	}

	return fmt.Sprintf("%s %q (did you mean %s?)", ErrUnknownEntity, e.Query, quoteJoin(e.Suggestions))
}

// Unwrap ties the error to ErrUnknownEntity.
func (e *UnknownEntityError) Unwrap() error {
	return ErrUnknownEntity
}

// Resolver matches names against a fixed universe. It is safe for
// concurrent use once built.
type Resolver struct {
	names  []string
	folded map[string][]string
}

// NewResolver indexes the given names.
func NewResolver(names []string) *Resolver {
	r := &Resolver{
		names:  slices.Clone(names),
		folded: make(map[string][]string, len(names)),
	}

	for _, name := range r.names {
		key := fold(name)
		r.folded[key] = append(r.folded[key], name)
	}

	return r
}

// Len returns the size of the universe.
func (r *Resolver) Len() int {
	return len(r.names)
}

// Resolve returns the canonical spelling of query. An exact match wins;
// otherwise a case- and space-insensitive match is accepted when unique.
func (r *Resolver) Resolve(query string) (string, error) {
	if slices.Contains(r.names, query) {
		return query, nil
	}

	if candidates := r.folded[fold(query)]; len(candidates) == 1 {
		return candidates[0], nil
	}

	return "", &UnknownEntityError{Query: query, Suggestions: r.Suggest(query, DefaultSuggestions)}
}

// ResolveAll resolves every query and joins the failures.
func (r *Resolver) ResolveAll(queries []string) ([]string, error) {
	out := make([]string, 0, len(queries))

	var errs []error

	for _, q := range queries {
		name, err := r.Resolve(q)
		if err != nil {
			errs = append(errs, err)

			continue
		}

		out = append(out, name)
	}

	return out, errors.Join(errs...)
}

type candidate struct {
	name     string
	distance int
}

// Suggest returns up to n names closest to query. Names containing the
// query come first, then names ranked by Levenshtein distance.
func (r *Resolver) Suggest(query string, n int) []string {
	q := fold(query)
	if q == "" || n <= 0 {
		return nil
	}

	budget := max(len([]rune(q))/2, minDistanceBudget)
	dmp := diffmatchpatch.New()

	var found []candidate

	for _, name := range r.names {
		folded := fold(name)

		if strings.Contains(folded, q) {
			found = append(found, candidate{name: name, distance: 0})

			continue
		}

		d := dmp.DiffLevenshtein(dmp.DiffMain(q, folded, false))
		if d <= budget {
			found = append(found, candidate{name: name, distance: d})
		}
	}

	slices.SortFunc(found, func(a, b candidate) int {
		return cmp.Or(cmp.Compare(a.distance, b.distance), cmp.Compare(a.name, b.name))
	})

	out := make([]string, 0, min(n, len(found)))
	for _, c := range found[:min(n, len(found))] {
		out = append(out, c.name)
	}

	return out
}

func fold(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func quoteJoin(names []string) string {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = fmt.Sprintf("%q", name)
	}

	return strings.Join(quoted, ", ")
}
