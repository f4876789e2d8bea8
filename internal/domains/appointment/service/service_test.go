package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"leadflow/config"
	"leadflow/infras/otel/mocks"
	appointmentMocks "leadflow/internal/domains/appointment/mocks"
	"leadflow/internal/domains/appointment/model"
	"leadflow/internal/domains/appointment/model/dto"
	"leadflow/internal/domains/appointment/service"
	"leadflow/internal/domains/appointment/slot"
	availMocks "leadflow/internal/domains/availability/mocks"
	availModel "leadflow/internal/domains/availability/model"
	leadMocks "leadflow/internal/domains/lead/mocks"
	leadModel "leadflow/internal/domains/lead/model"
	"leadflow/shared/constant"
	gDto "leadflow/shared/dto"
	"leadflow/shared/timezone"
)

const (
	testEvaluatorID = "7b8a2c1e-52f3-4f6d-9a0e-1c2d3e4f5a6b"
	testLeadID      = "0f9e8d7c-6b5a-4abc-8def-123456789abc"

	// A Monday far enough ahead that the same-day cutoff never applies.
	testDay = "2030-06-03"
)

type bookingMocks struct {
	repo  *appointmentMocks.MockAppointment
	avail *availMocks.MockAvailability
	lead  *leadMocks.MockLead
}

func newBookingService(t *testing.T) (service.Appointment, bookingMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	m := bookingMocks{
		repo:  appointmentMocks.NewMockAppointment(ctrl),
		avail: availMocks.NewMockAvailability(ctrl),
		lead:  leadMocks.NewMockLead(ctrl),
	}

	svc := service.New(m.repo, m.avail, m.lead, &config.Config{}, mocks.NewOtel())

	return svc, m
}

func availabilityRow(firstHalf, secondHalf string) availModel.Availability {
	return availModel.Availability{
		ID:          "5a4b3c2d-1e0f-4987-b654-aabbccddeeff",
		EvaluatorID: testEvaluatorID,
		Day:         testDay,
		FirstHalf:   firstHalf,
		SecondHalf:  secondHalf,
	}
}

func firstHalfStarts(t *testing.T) []string {
	t.Helper()

	day, err := timezone.Parse(constant.DateOnlyFormat, testDay)
	require.NoError(t, err)

	starts := slot.Generate(day, slot.FirstHalf)
	out := make([]string, len(starts))
	for i, start := range starts {
		out[i] = start.Format(constant.DateFormat)
	}

	return out
}

func authedCtx() context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user-id")

	return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleAdmin)
}

func TestAppointmentService_Book(t *testing.T) {
	starts := firstHalfStarts(t)
	chosen := starts[2]

	baseReq := dto.BookAppointmentRequest{
		LeadID:      testLeadID,
		EvaluatorID: testEvaluatorID,
		Date:        testDay,
		Half:        slot.HalfParamFirst,
		Slot:        chosen,
	}

	tests := []struct {
		name      string
		req       dto.BookAppointmentRequest
		setupMock func(m bookingMocks)
		wantErr   error
	}{
		{
			name: "books an open slot",
			req:  baseReq,
			setupMock: func(m bookingMocks) {
				m.lead.EXPECT().
					Get(gomock.Any(), gomock.Any(), leadModel.FieldID, leadModel.FieldName).
					Return(leadModel.Lead{ID: testLeadID, Name: "Asha"}, nil)
				m.avail.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(availabilityRow("Calling", "Not Set"), nil)
				m.repo.EXPECT().
					GetActiveByEvaluatorAndDay(gomock.Any(), testEvaluatorID, gomock.Any(), gomock.Any()).
					Return(nil, nil)
				m.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)
				m.lead.EXPECT().
					AppendLog(gomock.Any(), testLeadID, leadModel.FieldNotes, gomock.Any(), "test-user-id").
					Return(nil)
			},
		},
		{
			name: "rejects a slot that is already taken",
			req:  baseReq,
			setupMock: func(m bookingMocks) {
				day, err := timezone.Parse(constant.DateOnlyFormat, testDay)
				require.NoError(t, err)

				taken := slot.Generate(day, slot.FirstHalf)[2]

				m.lead.EXPECT().
					Get(gomock.Any(), gomock.Any(), leadModel.FieldID, leadModel.FieldName).
					Return(leadModel.Lead{ID: testLeadID}, nil)
				m.avail.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(availabilityRow("Calling", "Not Set"), nil)
				m.repo.EXPECT().
					GetActiveByEvaluatorAndDay(gomock.Any(), testEvaluatorID, gomock.Any(), gomock.Any()).
					Return([]model.Appointment{{ID: "existing", EvaluatorID: testEvaluatorID, Date: taken, Status: model.StatusBooked}}, nil)
			},
			wantErr: service.ErrSlotNoLongerAvailable,
		},
		{
			name: "rejects a half that is not bookable",
			req:  baseReq,
			setupMock: func(m bookingMocks) {
				m.lead.EXPECT().
					Get(gomock.Any(), gomock.Any(), leadModel.FieldID, leadModel.FieldName).
					Return(leadModel.Lead{ID: testLeadID}, nil)
				m.avail.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(availabilityRow("Not Available", "Calling"), nil)
				m.repo.EXPECT().
					GetActiveByEvaluatorAndDay(gomock.Any(), testEvaluatorID, gomock.Any(), gomock.Any()).
					Return(nil, nil)
			},
			wantErr: service.ErrHalfNotBookable,
		},
		{
			name: "rejects a day with no availability record",
			req:  baseReq,
			setupMock: func(m bookingMocks) {
				m.lead.EXPECT().
					Get(gomock.Any(), gomock.Any(), leadModel.FieldID, leadModel.FieldName).
					Return(leadModel.Lead{ID: testLeadID}, nil)
				m.avail.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(availModel.Availability{}, nil)
				m.repo.EXPECT().
					GetActiveByEvaluatorAndDay(gomock.Any(), testEvaluatorID, gomock.Any(), gomock.Any()).
					Return(nil, nil)
			},
			wantErr: service.ErrDayNotBookable,
		},
		{
			name: "requires a half",
			req: dto.BookAppointmentRequest{
				LeadID:      testLeadID,
				EvaluatorID: testEvaluatorID,
				Date:        testDay,
				Slot:        chosen,
			},
			setupMock: func(m bookingMocks) {
				m.lead.EXPECT().
					Get(gomock.Any(), gomock.Any(), leadModel.FieldID, leadModel.FieldName).
					Return(leadModel.Lead{ID: testLeadID}, nil)
				m.avail.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(availabilityRow("Calling", "Calling"), nil)
				m.repo.EXPECT().
					GetActiveByEvaluatorAndDay(gomock.Any(), testEvaluatorID, gomock.Any(), gomock.Any()).
					Return(nil, nil)
			},
			wantErr: service.ErrHalfNotSelected,
		},
		{
			name: "maps a unique violation to a lost slot",
			req:  baseReq,
			setupMock: func(m bookingMocks) {
				m.lead.EXPECT().
					Get(gomock.Any(), gomock.Any(), leadModel.FieldID, leadModel.FieldName).
					Return(leadModel.Lead{ID: testLeadID}, nil)
				m.avail.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(availabilityRow("Calling", "Not Set"), nil)
				m.repo.EXPECT().
					GetActiveByEvaluatorAndDay(gomock.Any(), testEvaluatorID, gomock.Any(), gomock.Any()).
					Return(nil, nil)
				m.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(&pq.Error{Code: pq.ErrorCode(constant.PqErrorCodeUniqueViolation)})
			},
			wantErr: service.ErrSlotNoLongerAvailable,
		},
		{
			name: "rejects an off-grid slot",
			req: dto.BookAppointmentRequest{
				LeadID:      testLeadID,
				EvaluatorID: testEvaluatorID,
				Date:        testDay,
				Half:        slot.HalfParamFirst,
				Slot:        "2030-06-03T10:05:00+05:30",
			},
			setupMock: func(m bookingMocks) {
				m.lead.EXPECT().
					Get(gomock.Any(), gomock.Any(), leadModel.FieldID, leadModel.FieldName).
					Return(leadModel.Lead{ID: testLeadID}, nil)
				m.avail.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(availabilityRow("Calling", "Not Set"), nil)
				m.repo.EXPECT().
					GetActiveByEvaluatorAndDay(gomock.Any(), testEvaluatorID, gomock.Any(), gomock.Any()).
					Return(nil, nil)
			},
			wantErr: errors.New("slot is not a valid start for the selected half"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newBookingService(t)
			tt.setupMock(m)

			res, err := svc.Book(authedCtx(), tt.req)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr.Error())

				return
			}

			require.NoError(t, err)
			assert.Equal(t, string(model.StatusBooked), res.Status)
			assert.Equal(t, testEvaluatorID, res.EvaluatorID)
			assert.Equal(t, chosen, res.Date)
			assert.Equal(t, slot.HalfParamFirst, res.Half)
			assert.Equal(t, 20, res.DurationMinutes)
		})
	}
}

func TestAppointmentService_Slots(t *testing.T) {
	starts := firstHalfStarts(t)

	t.Run("lists open starts and drops taken ones", func(t *testing.T) {
		svc, m := newBookingService(t)

		day, err := timezone.Parse(constant.DateOnlyFormat, testDay)
		require.NoError(t, err)

		taken := slot.Generate(day, slot.FirstHalf)[0]

		m.avail.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(availabilityRow("Field Work", "Not Set"), nil)
		m.repo.EXPECT().
			GetActiveByEvaluatorAndDay(gomock.Any(), testEvaluatorID, gomock.Any(), gomock.Any()).
			Return([]model.Appointment{{ID: "existing", Date: taken, Status: model.StatusBooked}}, nil)

		res, err := svc.Slots(authedCtx(), testEvaluatorID, testDay, slot.HalfParamFirst)
		require.NoError(t, err)

		assert.Equal(t, slot.HalfParamFirst, res.Half)
		assert.Len(t, res.Slots, len(starts)-1)
		assert.NotContains(t, res.Slots, starts[0])
		assert.Equal(t, starts[1], res.Slots[0])
	})

	t.Run("rejects a gated half", func(t *testing.T) {
		svc, m := newBookingService(t)

		m.avail.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(availabilityRow("Leave", "Calling"), nil)
		m.repo.EXPECT().
			GetActiveByEvaluatorAndDay(gomock.Any(), testEvaluatorID, gomock.Any(), gomock.Any()).
			Return(nil, nil)

		_, err := svc.Slots(authedCtx(), testEvaluatorID, testDay, slot.HalfParamFirst)
		assert.ErrorIs(t, err, service.ErrHalfNotBookable)
	})

	t.Run("rejects a malformed date", func(t *testing.T) {
		svc, _ := newBookingService(t)

		_, err := svc.Slots(authedCtx(), testEvaluatorID, "03-06-2030", slot.HalfParamFirst)
		assert.Error(t, err)
	})
}

func TestAppointmentService_BookableDates(t *testing.T) {
	svc, m := newBookingService(t)

	// 2030-06-03 is a Monday, 2030-06-09 a Sunday.
	rows := []availModel.Availability{
		availabilityRow("Calling", "Not Set"),
		{
			ID:          "2c3d4e5f-6a7b-4123-8456-fedcba987654",
			EvaluatorID: testEvaluatorID,
			Day:         "2030-06-04",
			FirstHalf:   "Not Set",
			SecondHalf:  "Not Set",
		},
	}

	m.avail.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(rows, nil)

	res, err := svc.BookableDates(authedCtx(), testEvaluatorID, "2030-06-03", "2030-06-09")
	require.NoError(t, err)
	require.Len(t, res.Dates, 7)

	byDay := make(map[string]bool, len(res.Dates))
	for _, date := range res.Dates {
		byDay[date.Day] = date.Bookable
	}

	assert.True(t, byDay["2030-06-03"], "day with a bookable half")
	assert.False(t, byDay["2030-06-04"], "day left at Not Set on both halves")
	assert.False(t, byDay["2030-06-05"], "day without a record")
	assert.False(t, byDay["2030-06-09"], "Sunday")
}

func TestAppointmentService_BookableDates_InvalidRange(t *testing.T) {
	svc, _ := newBookingService(t)

	_, err := svc.BookableDates(authedCtx(), testEvaluatorID, "2030-06-09", "2030-06-03")
	assert.Error(t, err)
}

func TestAppointmentService_GetAll(t *testing.T) {
	t.Run("evaluators only see their own schedule", func(t *testing.T) {
		svc, m := newBookingService(t)

		var captured gDto.FilterGroup

		m.repo.EXPECT().
			Count(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (int, error) {
				captured = filter

				return 1, nil
			})
		m.repo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.Appointment{{ID: "a1", EvaluatorID: testEvaluatorID, Status: model.StatusBooked}}, nil)

		ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, testEvaluatorID)
		ctx = context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleEvaluator)

		res, err := svc.GetAll(ctx, gDto.QueryParams{}, gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd})
		require.NoError(t, err)

		assert.Len(t, res.Appointments, 1)
		require.Len(t, captured.Filters, 1)

		filter, ok := captured.Filters[0].(gDto.Filter)
		require.True(t, ok)
		assert.Equal(t, model.FieldEvaluatorID, filter.Field)
		assert.Equal(t, testEvaluatorID, filter.Value)
	})

	t.Run("admins see everything", func(t *testing.T) {
		svc, m := newBookingService(t)

		m.repo.EXPECT().
			Count(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (int, error) {
				assert.Empty(t, filter.Filters)

				return 2, nil
			})
		m.repo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.Appointment{{ID: "a1"}, {ID: "a2"}}, nil)

		res, err := svc.GetAll(authedCtx(), gDto.QueryParams{}, gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd})
		require.NoError(t, err)
		assert.Len(t, res.Appointments, 2)
	})
}

func TestAppointmentService_UpdateStatus(t *testing.T) {
	t.Run("updates an existing appointment", func(t *testing.T) {
		svc, m := newBookingService(t)

		m.repo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)
		m.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, string(model.StatusCancelled), fields[model.FieldStatus])

				return nil
			})

		err := svc.UpdateStatus(authedCtx(), dto.UpdateAppointmentStatusRequest{Status: string(model.StatusCancelled)}, "a1")
		assert.NoError(t, err)
	})

	t.Run("unknown appointment", func(t *testing.T) {
		svc, m := newBookingService(t)

		m.repo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)

		err := svc.UpdateStatus(authedCtx(), dto.UpdateAppointmentStatusRequest{Status: string(model.StatusCompleted)}, "missing")
		assert.Error(t, err)
	})
}

func TestAppointmentService_Delete(t *testing.T) {
	t.Run("delete succeeds without an existence check", func(t *testing.T) {
		svc, m := newBookingService(t)

		m.repo.EXPECT().
			Delete(gomock.Any(), gomock.Any()).
			Return(nil)

		assert.NoError(t, svc.Delete(authedCtx(), "whatever-id"))
	})

	t.Run("repository error", func(t *testing.T) {
		svc, m := newBookingService(t)

		m.repo.EXPECT().
			Delete(gomock.Any(), gomock.Any()).
			Return(errors.New("database error"))

		assert.Error(t, svc.Delete(authedCtx(), "a1"))
	})
}
