// Package precedence evaluates ordered (predicate, label) rule lists where
// the first matching rule wins.
package precedence

// Rule pairs a predicate with the label it produces.
type Rule[T any, L any] struct {
	Name  string
	Match func(T) bool
	Label func(T) L
}

// Const returns a label function that ignores its input.
func Const[T any, L any](l L) func(T) L {
	return func(T) L { return l }
}

// List is an ordered rule list.
type List[T any, L any] []Rule[T, L]

// First returns the label of the first rule whose predicate holds, and the
// rule's name. ok is false when nothing matches.
func (l List[T, L]) First(v T) (label L, name string, ok bool) {
	for _, r := range l {
		if r.Match(v) {
			return r.Label(v), r.Name, true
		}
	}
	var zero L
	return zero, "", false
}

// FirstOr is First with a fallback label.
func (l List[T, L]) FirstOr(v T, fallback L) L {
	if label, _, ok := l.First(v); ok {
		return label
	}
	return fallback
}
