package dto_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"leadflow/shared/dto"
)

func TestQueryParams_FromRequest(t *testing.T) {
	tests := []struct {
		name           string
		url            string
		defaultRequest bool
		expected       dto.QueryParams
	}{
		{
			name:           "all params provided",
			url:            "/v1/leads?page=2&limit=25&sort_by=name&sort_dir=asc",
			defaultRequest: true,
			expected:       dto.QueryParams{Page: 2, Limit: 25, SortBy: "name", SortDir: "ASC"},
		},
		{
			name:           "defaults applied when missing",
			url:            "/v1/leads",
			defaultRequest: true,
			expected:       dto.QueryParams{Page: 1, Limit: 10},
		},
		{
			name:           "no defaults when not requested",
			url:            "/v1/leads",
			defaultRequest: false,
			expected:       dto.QueryParams{},
		},
		{
			name:           "invalid values ignored",
			url:            "/v1/leads?page=zero&limit=-5&sort_dir=sideways",
			defaultRequest: true,
			expected:       dto.QueryParams{Page: 1, Limit: 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.url, nil)

			q := dto.QueryParams{}
			q.FromRequest(req, tt.defaultRequest)

			assert.Equal(t, tt.expected, q)
		})
	}
}

func TestFilter_GetWhereClause(t *testing.T) {
	tests := []struct {
		name      string
		filter    dto.Filter
		wantWhere string
		wantArgs  map[string]any
	}{
		{
			name:      "eq with table",
			filter:    dto.Filter{Field: "status", Operator: dto.FilterOperatorEq, Value: "New", Table: "leads"},
			wantWhere: "leads.status = :status",
			wantArgs:  map[string]any{"status": "New"},
		},
		{
			name:      "not eq",
			filter:    dto.Filter{Field: "status", Operator: dto.FilterOperatorNotEq, Value: "Cancelled", Table: "appointments"},
			wantWhere: "appointments.status != :status",
			wantArgs:  map[string]any{"status": "Cancelled"},
		},
		{
			name:      "greater eq with custom arg name",
			filter:    dto.Filter{ArgName: "from", Field: "date", Operator: dto.FilterOperatorGreaterEq, Value: "2024-07-10"},
			wantWhere: "date >= :from",
			wantArgs:  map[string]any{"from": "2024-07-10"},
		},
		{
			name:      "unknown operator yields empty clause",
			filter:    dto.Filter{Field: "status", Operator: "between"},
			wantWhere: "",
			wantArgs:  map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.filter.GetWhereClause()

			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestFilter_GetWhereClause_In(t *testing.T) {
	filter := dto.Filter{
		Field:    "state",
		Operator: dto.FilterOperatorIn,
		Value:    []string{"Telangana", "Tamil Nadu"},
	}

	where, args := filter.GetWhereClause()

	assert.Equal(t, "state IN (:state_0, :state_1) ", where)
	assert.Equal(t, map[string]any{"state_0": "Telangana", "state_1": "Tamil Nadu"}, args)
}

func TestFilterGroup_GetWhereClause(t *testing.T) {
	group := dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{Field: "evaluator_id", Operator: dto.FilterOperatorEq, Value: "ev-1"},
			dto.FilterGroup{
				Operator: dto.FilterGroupOperatorOr,
				Filters: []any{
					dto.Filter{Field: "status", Operator: dto.FilterOperatorEq, Value: "Booked", ArgName: "status_booked"},
					dto.Filter{Field: "status", Operator: dto.FilterOperatorEq, Value: "Completed", ArgName: "status_completed"},
				},
			},
		},
	}

	where, args := group.GetWhereClause()

	assert.Equal(t, "(evaluator_id = :evaluator_id AND (status = :status_booked OR status = :status_completed))", where)
	assert.Len(t, args, 3)
}

func TestFilterGroup_Empty(t *testing.T) {
	group := dto.FilterGroup{}

	where, args := group.GetWhereClause()

	assert.Empty(t, where)
	assert.Empty(t, args)
}
