package validator_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"leadflow/shared/validator"
)

type bookingPayload struct {
	LeadID string `json:"lead_id" validate:"required"`
	Date   string `json:"date"    validate:"required,dateonly"`
	Half   string `json:"half"    validate:"required,halfday"`
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name: "valid payload",
			body: `{"lead_id":"lead-1","date":"2024-07-10","half":"first_half"}`,
		},
		{
			name:    "malformed json",
			body:    `{"lead_id":`,
			wantErr: "failed to decode request body",
		},
		{
			name:    "missing lead",
			body:    `{"date":"2024-07-10","half":"first_half"}`,
			wantErr: "LeadID is required",
		},
		{
			name:    "bad date form",
			body:    `{"lead_id":"lead-1","date":"10-07-2024","half":"first_half"}`,
			wantErr: "Date must be a calendar date in yyyy-MM-dd form",
		},
		{
			name:    "unknown half",
			body:    `{"lead_id":"lead-1","date":"2024-07-10","half":"full_day"}`,
			wantErr: "Half must be first_half or second_half",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := bookingPayload{}
			err := validator.Validate(strings.NewReader(tt.body), &payload)

			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidateVar(t *testing.T) {
	assert.NoError(t, validator.ValidateVar("2024-07-10", "dateonly"))
	assert.Error(t, validator.ValidateVar("tomorrow", "dateonly"))
	assert.NoError(t, validator.ValidateVar("second_half", "halfday"))
	assert.Error(t, validator.ValidateVar("evening", "halfday"))
}
