// Package query holds the storage-agnostic description of a list query:
// a conjunction of field predicates, a sort descriptor and a page window.
// Storage adapters translate a Spec into their own query language.
package query

type Operator string

const (
	OpEq       Operator = "eq"
	OpContains Operator = "contains"
	OpGte      Operator = "gte"
	OpLte      Operator = "lte"
)

type Predicate struct {
	Field string
	Op    Operator
	Value any
}

type SortKey struct {
	Field string
	Desc  bool
}

type Spec struct {
	Where   []Predicate
	OrderBy []SortKey
	Skip    int
	Take    int
}

// Conditions returns every operator/value pair applied to field.
// An empty map means the field is not filtered.
func (spec Spec) Conditions(field string) map[Operator]any {
	conditions := make(map[Operator]any)
	for _, predicate := range spec.Where {
		if predicate.Field == field {
			conditions[predicate.Op] = predicate.Value
		}
	}
	return conditions
}

func (spec Spec) HasField(field string) bool {
	for _, predicate := range spec.Where {
		if predicate.Field == field {
			return true
		}
	}
	return false
}
