// Package query turns list query parameters into parameterized GORM
// predicates with pagination and sorting.
//
// Filters use a PostgREST-style syntax in the q parameter:
//
//	q=status=eq.open,priority=gte.2,title=ilike.report,tag=in.(a,b)
//
// Field names are checked against an allow-list and values are always bound
// as arguments, never spliced into SQL.
package query

import "slices"

// Operator represents a filter operator.
type Operator string

const (
	OpEq      Operator = "eq"
	OpNeq     Operator = "neq"
	OpGt      Operator = "gt"
	OpGte     Operator = "gte"
	OpLt      Operator = "lt"
	OpLte     Operator = "lte"
	OpIn      Operator = "in"
	OpNin     Operator = "nin"
	OpLike    Operator = "like"
	OpIlike   Operator = "ilike"
	OpNull    Operator = "null"
	OpNotNull Operator = "notNull"
)

var operators = []Operator{OpEq, OpNeq, OpGt, OpGte, OpLt, OpLte, OpIn, OpNin, OpLike, OpIlike, OpNull, OpNotNull}

// IsValid reports whether the operator is known.
func (o Operator) IsValid() bool {
	return slices.Contains(operators, o)
}

// Kind is the column type a filter value is converted to before binding.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
	KindTime
)

// Condition is a single filter term. Value and Values hold converted values
// ready to bind.
type Condition struct {
	Field    string
	Operator Operator
	Value    any
	Values   []any
}

// Sort directions.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// Defaults for list requests.
const (
	DefaultPage  = 0
	DefaultLimit = 100
	MaxLimit     = 1000
	DefaultSort  = "id"
)

// Params holds parsed list parameters. Page is zero-based.
type Params struct {
	Page       int
	Limit      int
	Sort       string
	SortDir    string
	Conditions []Condition
}

// Offset returns page * limit.
func (p Params) Offset() int {
	return p.Page * p.Limit
}

// DefaultParams returns the parameters used when the caller supplies none.
func DefaultParams() Params {
	return Params{Page: DefaultPage, Limit: DefaultLimit, Sort: DefaultSort, SortDir: SortDesc}
}

// Config defines the filterable and sortable columns of one entity.
type Config struct {
	// Fields maps each filterable field name to its kind.
	Fields map[string]Kind
	// SortFields lists the columns a caller may sort by.
	SortFields []string
	// DefaultSort is the sort column when none is given.
	DefaultSort string
}

func (c Config) defaultSort() string {
	if c.DefaultSort != "" {
		return c.DefaultSort
	}
	return DefaultSort
}

// Result is one page of records plus the total over the unpaged predicate.
type Result[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}
