package query

import (
	"context"
	"math"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/recordkit/database"
	"github.com/kbukum/recordkit/database/testutil"
	"github.com/kbukum/recordkit/errors"
)

type item struct {
	ID       uint `gorm:"primaryKey"`
	Title    string
	Status   string
	Priority int
	Done     bool
	DueAt    *time.Time
}

var itemConfig = Config{
	Fields: map[string]Kind{
		"title":    KindString,
		"status":   KindString,
		"priority": KindInt,
		"done":     KindBool,
		"due_at":   KindTime,
	},
	SortFields: []string{"id", "title", "priority"},
}

func TestParse_Defaults(t *testing.T) {
	params, err := Parse(url.Values{}, itemConfig)
	require.NoError(t, err)
	assert.Equal(t, 0, params.Page)
	assert.Equal(t, 100, params.Limit)
	assert.Equal(t, "id", params.Sort)
	assert.Equal(t, SortDesc, params.SortDir)
	assert.Empty(t, params.Conditions)
	assert.Equal(t, 0, params.Offset())
}

func TestParse_Values(t *testing.T) {
	params, err := Parse(url.Values{
		"page":    {"2"},
		"limit":   {"10"},
		"sort":    {"priority"},
		"sortDir": {"ASC"},
		"q":       {"status=eq.open,priority=gte.2"},
	}, itemConfig)
	require.NoError(t, err)
	assert.Equal(t, 20, params.Offset())
	assert.Equal(t, "priority", params.Sort)
	assert.Equal(t, SortAsc, params.SortDir)
	require.Len(t, params.Conditions, 2)
	assert.Equal(t, Condition{Field: "priority", Operator: OpGte, Value: int64(2)}, params.Conditions[1])
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		query url.Values
		field string
	}{
		{"negative page", url.Values{"page": {"-1"}}, "page"},
		{"non numeric page", url.Values{"page": {"x"}}, "page"},
		{"zero limit", url.Values{"limit": {"0"}}, "limit"},
		{"huge limit", url.Values{"limit": {"5000"}}, "limit"},
		{"offset overflow", url.Values{"page": {"92233720368547759"}, "limit": {"100"}}, "page"},
		{"unknown sort", url.Values{"sort": {"password"}}, "sort"},
		{"bad direction", url.Values{"sortDir": {"up"}}, "sortDir"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.query, itemConfig)
			appErr, ok := errors.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, errors.ErrCodeValidation, appErr.Code)
			assert.Contains(t, appErr.Details["fields"], tc.field)
		})
	}
}

func TestParse_LargestPage(t *testing.T) {
	last := strconv.Itoa(math.MaxInt / 100)
	params, err := Parse(url.Values{"page": {last}, "limit": {"100"}}, itemConfig)
	require.NoError(t, err)
	assert.Positive(t, params.Offset())
}

func TestParseFilter(t *testing.T) {
	conds, err := ParseFilter(`status=in.(open,blocked),title=ilike.a\,b,due_at=is.null,done=true`, itemConfig)
	require.NoError(t, err)
	require.Len(t, conds, 4)

	assert.Equal(t, OpIn, conds[0].Operator)
	assert.Equal(t, []any{"open", "blocked"}, conds[0].Values)
	assert.Equal(t, OpIlike, conds[1].Operator)
	assert.Equal(t, "a,b", conds[1].Value)
	assert.Equal(t, OpNull, conds[2].Operator)
	assert.Equal(t, Condition{Field: "done", Operator: OpEq, Value: true}, conds[3])
}

func TestParseFilter_Rejects(t *testing.T) {
	for _, filter := range []string{
		"password=eq.x",
		"status=between.1",
		"priority=gt.high",
		"noequals",
		"status=in.()",
		"id=1); DROP TABLE items; --",
	} {
		t.Run(filter, func(t *testing.T) {
			_, err := ParseFilter(filter, itemConfig)
			assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidInput), "got %v", err)
		})
	}
}

func seedItems(t *testing.T) *database.DB {
	t.Helper()
	db := testutil.NewDB(t, &item{})
	due := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := []item{
		{Title: "alpha", Status: "open", Priority: 1},
		{Title: "Bravo", Status: "open", Priority: 3, DueAt: &due},
		{Title: "charlie", Status: "done", Priority: 2, Done: true},
		{Title: "delta", Status: "blocked", Priority: 5},
	}
	require.NoError(t, db.WithContext(context.Background()).Create(&rows).Error)
	return db
}

func titles(items []item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Title)
	}
	return out
}

func TestApplyToGorm_DefaultSortAndPaging(t *testing.T) {
	db := seedItems(t)
	params := DefaultParams()
	params.Limit = 3

	res, err := ApplyToGorm[item](db.WithContext(context.Background()), params, itemConfig)
	require.NoError(t, err)
	assert.Equal(t, int64(4), res.Total)
	assert.Equal(t, []string{"delta", "charlie", "Bravo"}, titles(res.Items))

	params.Page = 1
	res, err = ApplyToGorm[item](db.WithContext(context.Background()), params, itemConfig)
	require.NoError(t, err)
	assert.Equal(t, int64(4), res.Total)
	assert.Equal(t, []string{"alpha"}, titles(res.Items))
}

func TestApplyToGorm_FiltersCountBeforePaging(t *testing.T) {
	db := seedItems(t)
	params, err := Parse(url.Values{
		"q":       {"status=in.(open,done),priority=gte.2"},
		"sort":    {"priority"},
		"sortDir": {"asc"},
		"limit":   {"1"},
	}, itemConfig)
	require.NoError(t, err)

	res, err := ApplyToGorm[item](db.WithContext(context.Background()), params, itemConfig)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Total)
	assert.Equal(t, []string{"charlie"}, titles(res.Items))
}

func TestApplyToGorm_Operators(t *testing.T) {
	db := seedItems(t)
	tests := []struct {
		filter string
		want   []string
	}{
		{"title=ilike.BRA", []string{"Bravo"}},
		{"title=like.lph", []string{"alpha"}},
		{"due_at=is.null", []string{"delta", "charlie", "alpha"}},
		{"due_at=not.is.null", []string{"Bravo"}},
		{"done=eq.true", []string{"charlie"}},
		{"status=neq.open", []string{"delta", "charlie"}},
		{"status=nin.(open,blocked)", []string{"charlie"}},
		{"priority=lt.3,priority=gt.1", []string{"charlie"}},
		{"due_at=lte.2026-06-01T00:00:00Z", []string{"Bravo"}},
	}
	for _, tc := range tests {
		t.Run(tc.filter, func(t *testing.T) {
			params := DefaultParams()
			params.Conditions, _ = ParseFilter(tc.filter, itemConfig)
			require.NotEmpty(t, params.Conditions)

			res, err := ApplyToGorm[item](db.WithContext(context.Background()), params, itemConfig)
			require.NoError(t, err)
			assert.Equal(t, tc.want, titles(res.Items))
			assert.Equal(t, int64(len(tc.want)), res.Total)
		})
	}
}

func TestApplyToGorm_ExistingScopeIsKept(t *testing.T) {
	db := seedItems(t)
	scoped := db.WithContext(context.Background()).Where("status = ?", "open")

	res, err := ApplyToGorm[item](scoped, DefaultParams(), itemConfig)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Total)
	assert.Equal(t, []string{"Bravo", "alpha"}, titles(res.Items))
}
