package query

import (
	"fmt"
	"math"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/kbukum/recordkit/errors"
	"github.com/kbukum/recordkit/validation"
)

// Parse reads page, limit, sort, sortDir and q from values. Invalid input
// yields a validation AppError naming the offending parameter.
func Parse(values url.Values, cfg Config) (Params, error) {
	params := DefaultParams()
	params.Sort = cfg.defaultSort()

	v := validation.New()
	if s := values.Get("page"); s != "" {
		n, err := strconv.Atoi(s)
		v.Custom(err == nil, "page", "must be an integer")
		params.Page = n
	}
	if s := values.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		v.Custom(err == nil, "limit", "must be an integer")
		params.Limit = n
	}
	v.Min("page", params.Page, 0).
		Min("limit", params.Limit, 1).
		Max("limit", params.Limit, MaxLimit)
	if params.Limit > 0 {
		v.Max("page", params.Page, math.MaxInt/params.Limit)
	}

	if s := values.Get("sort"); s != "" {
		v.Custom(slices.Contains(cfg.SortFields, s), "sort", "is not a sortable field")
		params.Sort = s
	}
	if s := values.Get("sortDir"); s != "" {
		s = strings.ToLower(s)
		v.OneOf("sortDir", s, []string{SortAsc, SortDesc})
		params.SortDir = s
	}
	if appErr := v.Validate(); appErr != nil {
		return Params{}, appErr
	}

	conditions, err := ParseFilter(values.Get("q"), cfg)
	if err != nil {
		return Params{}, err
	}
	params.Conditions = conditions
	return params, nil
}

// ParseFilter parses a comma separated list of field=op.value terms.
func ParseFilter(filter string, cfg Config) ([]Condition, error) {
	filter = strings.TrimSpace(filter)
	if filter == "" {
		return nil, nil
	}

	var conditions []Condition
	for _, term := range splitTerms(filter) {
		field, raw, ok := strings.Cut(term, "=")
		field = strings.TrimSpace(field)
		if !ok || field == "" {
			return nil, errors.InvalidInput("q", fmt.Sprintf("malformed filter term %q", term))
		}
		kind, allowed := cfg.Fields[field]
		if !allowed {
			return nil, errors.InvalidInput("q", fmt.Sprintf("field %q is not filterable", field))
		}
		cond, err := parseCondition(field, raw, kind)
		if err != nil {
			return nil, err
		}
		conditions = append(conditions, cond)
	}
	return conditions, nil
}

func parseCondition(field, raw string, kind Kind) (Condition, error) {
	switch raw {
	case "is.null":
		return Condition{Field: field, Operator: OpNull}, nil
	case "not.is.null":
		return Condition{Field: field, Operator: OpNotNull}, nil
	}

	op, rest, found := strings.Cut(raw, ".")
	if !found {
		op, rest = string(OpEq), raw
	}
	operator := Operator(op)
	if !operator.IsValid() {
		return Condition{}, errors.InvalidInput("q", fmt.Sprintf("unknown operator %q", op))
	}

	cond := Condition{Field: field, Operator: operator}
	switch operator {
	case OpNull, OpNotNull:
		return cond, nil
	case OpLike, OpIlike:
		cond.Value = unescapeValue(rest)
		return cond, nil
	case OpIn, OpNin:
		inner := strings.TrimSuffix(strings.TrimPrefix(rest, "("), ")")
		for _, s := range splitList(inner) {
			val, err := convert(field, s, kind)
			if err != nil {
				return Condition{}, err
			}
			cond.Values = append(cond.Values, val)
		}
		if len(cond.Values) == 0 {
			return Condition{}, errors.InvalidInput("q", fmt.Sprintf("empty list for %q", field))
		}
		return cond, nil
	default:
		val, err := convert(field, unescapeValue(rest), kind)
		if err != nil {
			return Condition{}, err
		}
		cond.Value = val
		return cond, nil
	}
}

func convert(field, s string, kind Kind) (any, error) {
	var (
		val any
		err error
	)
	switch kind {
	case KindInt:
		val, err = strconv.ParseInt(s, 10, 64)
	case KindFloat:
		val, err = strconv.ParseFloat(s, 64)
	case KindBool:
		val, err = strconv.ParseBool(s)
	case KindTime:
		val, err = time.Parse(time.RFC3339, s)
	default:
		val = s
	}
	if err != nil {
		return nil, errors.InvalidInput("q", fmt.Sprintf("invalid value %q for %q", s, field))
	}
	return val, nil
}

// splitTerms splits on commas that are neither escaped nor inside parentheses.
func splitTerms(s string) []string {
	var (
		terms   []string
		current strings.Builder
		depth   int
		escaped bool
	)
	for _, ch := range s {
		switch {
		case escaped:
			current.WriteRune('\\')
			current.WriteRune(ch)
			escaped = false
			continue
		case ch == '\\':
			escaped = true
			continue
		case ch == '(':
			depth++
		case ch == ')' && depth > 0:
			depth--
		case ch == ',' && depth == 0:
			if t := strings.TrimSpace(current.String()); t != "" {
				terms = append(terms, t)
			}
			current.Reset()
			continue
		}
		current.WriteRune(ch)
	}
	if t := strings.TrimSpace(current.String()); t != "" {
		terms = append(terms, t)
	}
	return terms
}

func splitList(inner string) []string {
	var values []string
	var current strings.Builder
	escaped := false
	for _, ch := range inner {
		if escaped {
			current.WriteRune(ch)
			escaped = false
			continue
		}
		if ch == '\\' {
			escaped = true
			continue
		}
		if ch == ',' {
			if s := strings.TrimSpace(current.String()); s != "" {
				values = append(values, s)
			}
			current.Reset()
			continue
		}
		current.WriteRune(ch)
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		values = append(values, s)
	}
	return values
}

func unescapeValue(s string) string {
	var result strings.Builder
	escaped := false
	for _, ch := range s {
		if escaped {
			result.WriteRune(ch)
			escaped = false
			continue
		}
		if ch == '\\' {
			escaped = true
			continue
		}
		result.WriteRune(ch)
	}
	return result.String()
}
