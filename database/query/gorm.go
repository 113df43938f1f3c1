package query

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ApplyToGorm filters, counts, sorts and pages db into a Result. db carries
// any scope predicates already; the total is counted over those plus the
// filter conditions, before offset and limit.
func ApplyToGorm[T any](db *gorm.DB, params Params, cfg Config) (*Result[T], error) {
	filtered := ApplyConditions(db.Model(new(T)), params.Conditions)

	var total int64
	if err := filtered.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count: %w", err)
	}

	items := make([]T, 0, min(params.Limit, int(total)))
	q := applySort(filtered.Session(&gorm.Session{}), params, cfg).
		Offset(params.Offset()).
		Limit(params.Limit)
	if err := q.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	return &Result[T]{Items: items, Total: total, Page: params.Page, Limit: params.Limit}, nil
}

// ApplyConditions adds every condition to db as a parameterized predicate.
func ApplyConditions(db *gorm.DB, conditions []Condition) *gorm.DB {
	for _, cond := range conditions {
		db = db.Where(Expression(cond))
	}
	return db
}

// Expression builds the clause for a single condition. The column is quoted
// by the dialect and values are bound.
func Expression(cond Condition) clause.Expression {
	col := clause.Column{Name: cond.Field}
	switch cond.Operator {
	case OpNeq:
		return clause.Neq{Column: col, Value: cond.Value}
	case OpGt:
		return clause.Gt{Column: col, Value: cond.Value}
	case OpGte:
		return clause.Gte{Column: col, Value: cond.Value}
	case OpLt:
		return clause.Lt{Column: col, Value: cond.Value}
	case OpLte:
		return clause.Lte{Column: col, Value: cond.Value}
	case OpIn:
		return clause.IN{Column: col, Values: cond.Values}
	case OpNin:
		return clause.Not(clause.IN{Column: col, Values: cond.Values})
	case OpLike:
		return clause.Like{Column: col, Value: "%" + fmt.Sprint(cond.Value) + "%"}
	case OpIlike:
		return clause.Expr{
			SQL:  "LOWER(?) LIKE ?",
			Vars: []any{col, "%" + strings.ToLower(fmt.Sprint(cond.Value)) + "%"},
		}
	case OpNull:
		return clause.Eq{Column: col, Value: nil}
	case OpNotNull:
		return clause.Neq{Column: col, Value: nil}
	default:
		return clause.Eq{Column: col, Value: cond.Value}
	}
}

func applySort(db *gorm.DB, params Params, cfg Config) *gorm.DB {
	column := params.Sort
	if column == "" {
		column = cfg.defaultSort()
	}
	return db.Order(clause.OrderByColumn{
		Column: clause.Column{Name: column},
		Desc:   params.SortDir != SortAsc,
	})
}
