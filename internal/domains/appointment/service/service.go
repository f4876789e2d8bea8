package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"leadflow/config"
	"leadflow/infras/otel"
	"leadflow/internal/domains/appointment/model"
	"leadflow/internal/domains/appointment/model/dto"
	"leadflow/internal/domains/appointment/repository"
	"leadflow/internal/domains/appointment/slot"
	availModel "leadflow/internal/domains/availability/model"
	availRepo "leadflow/internal/domains/availability/repository"
	leadModel "leadflow/internal/domains/lead/model"
	leadRepo "leadflow/internal/domains/lead/repository"
	"leadflow/shared"
	"leadflow/shared/constant"
	gDto "leadflow/shared/dto"
	"leadflow/shared/failure"
	"leadflow/shared/timezone"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

type Appointment interface {
	Slots(ctx context.Context, evaluatorID, date, half string) (dto.SlotsResponse, error)
	BookableDates(ctx context.Context, evaluatorID, from, to string) (dto.BookableDatesResponse, error)
	Book(ctx context.Context, req dto.BookAppointmentRequest) (dto.AppointmentResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetAppointmentsResponse, error)
	Get(ctx context.Context, id string) (dto.AppointmentResponse, error)
	UpdateStatus(ctx context.Context, req dto.UpdateAppointmentStatusRequest, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo     repository.Appointment
	avail    availRepo.Availability
	leadRepo leadRepo.Lead
	cfg      *config.Config
	otel     otel.Otel
}

func New(repo repository.Appointment, avail availRepo.Availability, leadRepo leadRepo.Lead, cfg *config.Config, otel otel.Otel) Appointment {
	return &serviceImpl{
		repo:     repo,
		avail:    avail,
		leadRepo: leadRepo,
		cfg:      cfg,
		otel:     otel,
	}
}

func availabilityFilter(evaluatorID, day string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    availModel.FieldEvaluatorID,
				Operator: gDto.FilterOperatorEq,
				Value:    evaluatorID,
				Table:    availModel.TableName,
			},
			gDto.Filter{
				Field:    availModel.FieldDay,
				Operator: gDto.FilterOperatorEq,
				Value:    day,
				Table:    availModel.TableName,
			},
		},
	}
}

// dayState loads everything the slot engine needs for one evaluator day:
// the availability row (exists flag included) and the booked starts.
func (s *serviceImpl) dayState(ctx context.Context, evaluatorID string, day time.Time) (slot.DailyAvailability, bool, []time.Time, error) {
	dayKey := day.Format(constant.DateOnlyFormat)

	row, err := s.avail.Get(ctx, availabilityFilter(evaluatorID, dayKey))
	if err != nil {
		log.Error().Err(err).Msg("failed to get availability")

		return slot.DailyAvailability{}, false, nil, fmt.Errorf("failed to get availability: %w", err)
	}

	active, err := s.repo.GetActiveByEvaluatorAndDay(ctx, evaluatorID, day, day.AddDate(0, 0, 1))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booked appointments")

		return slot.DailyAvailability{}, false, nil, fmt.Errorf("failed to get booked appointments: %w", err)
	}

	booked := make([]time.Time, len(active))
	for i, appointment := range active {
		booked[i] = timezone.ToAppTime(appointment.Date)
	}

	return row.Daily(), row.ID != "", booked, nil
}

// Slots recomputes the open starts of one half from current state. The
// result may be empty; that is an answer, not a failure.
func (s *serviceImpl) Slots(ctx context.Context, evaluatorID, date, half string) (res dto.SlotsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Slots")
	defer scope.End()
	defer scope.TraceIfError(err)

	day, err := timezone.Parse(constant.DateOnlyFormat, date)
	if err != nil {
		return res, failure.BadRequestFromString("date must use the YYYY-MM-DD format") // nolint:wrapcheck
	}

	chosenHalf := slot.ParseHalf(half)
	if chosenHalf == slot.HalfNone {
		return res, ErrHalfNotSelected
	}

	avail, exists, booked, err := s.dayState(ctx, evaluatorID, day)
	if err != nil {
		return res, err
	}

	now := timezone.Now()

	if !slot.IsDateBookable(day, avail, exists, now) {
		return res, ErrDayNotBookable
	}

	if !avail.ForHalf(chosenHalf).IsBookable() {
		return res, ErrHalfNotBookable
	}

	available := slot.FilterAvailable(slot.Generate(day, chosenHalf), avail, chosenHalf, booked, now)

	res.FromStarts(evaluatorID, date, chosenHalf, available)

	return res, nil
}

// BookableDates evaluates the calendar date-disable predicate over an
// inclusive range of days.
func (s *serviceImpl) BookableDates(ctx context.Context, evaluatorID, from, to string) (res dto.BookableDatesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".BookableDates")
	defer scope.End()
	defer scope.TraceIfError(err)

	fromDay, err := timezone.Parse(constant.DateOnlyFormat, from)
	if err != nil {
		return res, failure.BadRequestFromString("from must use the YYYY-MM-DD format") // nolint:wrapcheck
	}

	toDay, err := timezone.Parse(constant.DateOnlyFormat, to)
	if err != nil {
		return res, failure.BadRequestFromString("to must use the YYYY-MM-DD format") // nolint:wrapcheck
	}

	if toDay.Before(fromDay) {
		return res, failure.BadRequestFromString("to must not precede from") // nolint:wrapcheck
	}

	rangeFilter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    availModel.FieldEvaluatorID,
				Operator: gDto.FilterOperatorEq,
				Value:    evaluatorID,
				Table:    availModel.TableName,
			},
			gDto.Filter{
				ArgName:  "day_from",
				Field:    availModel.FieldDay,
				Operator: gDto.FilterOperatorGreaterEq,
				Value:    from,
				Table:    availModel.TableName,
			},
			gDto.Filter{
				ArgName:  "day_to",
				Field:    availModel.FieldDay,
				Operator: gDto.FilterOperatorLessEq,
				Value:    to,
				Table:    availModel.TableName,
			},
		},
	}

	rows, err := s.avail.GetAll(ctx, gDto.QueryParams{}, rangeFilter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get availability range")

		return res, fmt.Errorf("failed to get availability range: %w", err)
	}

	byDay := make(map[string]availModel.Availability, len(rows))
	for _, row := range rows {
		byDay[row.Day] = row
	}

	now := timezone.Now()

	res.EvaluatorID = evaluatorID

	for day := fromDay; !day.After(toDay); day = day.AddDate(0, 0, 1) {
		dayKey := day.Format(constant.DateOnlyFormat)
		row, exists := byDay[dayKey]

		res.Dates = append(res.Dates, dto.BookableDateResponse{
			Day:      dayKey,
			Bookable: slot.IsDateBookable(day, row.Daily(), exists, now),
		})
	}

	return res, nil
}

// Book validates the requested slot against fresh state and commits it.
// Rejections leave no trace; the partial unique index catches the
// two-writer race and is reported the same way as a lost slot.
func (s *serviceImpl) Book(ctx context.Context, req dto.BookAppointmentRequest) (res dto.AppointmentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Book")
	defer scope.End()
	defer scope.TraceIfError(err)

	day, err := timezone.Parse(constant.DateOnlyFormat, req.Date)
	if err != nil {
		return res, failure.BadRequestFromString("date must use the YYYY-MM-DD format") // nolint:wrapcheck
	}

	lead, err := s.leadRepo.Get(ctx, shared.FilterByID(req.LeadID, leadModel.FieldID, leadModel.TableName), leadModel.FieldID, leadModel.FieldName)
	if err != nil {
		log.Error().Err(err).Msg("failed to get lead")

		return res, fmt.Errorf("failed to get lead: %w", err)
	}

	if lead.ID == constant.Empty {
		return res, failure.NotFound("lead not found") // nolint:wrapcheck
	}

	avail, exists, booked, err := s.dayState(ctx, req.EvaluatorID, day)
	if err != nil {
		return res, err
	}

	now := timezone.Now()

	if !slot.IsDateBookable(day, avail, exists, now) {
		return res, ErrDayNotBookable
	}

	chosenHalf := slot.ParseHalf(req.Half)
	if chosenHalf == slot.HalfNone {
		return res, ErrHalfNotSelected
	}

	if !avail.ForHalf(chosenHalf).IsBookable() {
		return res, ErrHalfNotBookable
	}

	chosen, err := timezone.Parse(constant.DateFormat, req.Slot)
	if err != nil {
		return res, failure.BadRequestFromString("slot must be an RFC 3339 instant") // nolint:wrapcheck
	}

	candidates := slot.Generate(day, chosenHalf)

	if !containsInstant(candidates, chosen) {
		return res, failure.BadRequestFromString("slot is not a valid start for the selected half") // nolint:wrapcheck
	}

	available := slot.FilterAvailable(candidates, avail, chosenHalf, booked, now)

	if !containsInstant(available, chosen) {
		return res, ErrSlotNoLongerAvailable
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	appointment := req.ToModel(chosen, user)

	if err = s.repo.Insert(ctx, appointment); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == constant.PqErrorCodeUniqueViolation {
			return res, ErrSlotNoLongerAvailable
		}

		log.Error().Err(err).Msg("failed to book appointment")

		return res, fmt.Errorf("failed to book appointment: %w", err)
	}

	note := leadModel.Note{
		Text:      fmt.Sprintf("Appointment booked for %s", chosen.Format(constant.DateFormat)),
		CreatedBy: user,
		CreatedAt: now,
	}

	if err = s.leadRepo.AppendLog(ctx, req.LeadID, leadModel.FieldNotes, note, user); err != nil {
		log.Warn().Err(err).Str("lead_id", req.LeadID).Msg("failed to stamp booking note on lead")
	}

	scope.AddEvent("Appointment booked at " + chosen.Format(constant.DateFormat))

	res.FromModel(appointment)

	return res, nil
}

func containsInstant(starts []time.Time, instant time.Time) bool {
	for _, start := range starts {
		if start.Equal(instant) {
			return true
		}
	}

	return false
}

// GetAll lists appointments ascending by date. Evaluators only see their
// own schedule.
func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetAppointmentsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAllAppointments")
	defer scope.End()
	defer scope.TraceIfError(err)

	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	if role == constant.RoleEvaluator {
		userID, _ := ctx.Value(constant.ContextKeyUserID).(string)

		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    model.FieldEvaluatorID,
			Operator: gDto.FilterOperatorEq,
			Value:    userID,
			Table:    model.TableName,
		})
	}

	if req.SortBy == "" {
		req.SortBy = model.FieldDate
		req.SortDir = gDto.SortDirAsc
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count appointments")

		return res, fmt.Errorf("failed to count appointments: %w", err)
	}

	appointments, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get appointments")

		return res, fmt.Errorf("failed to get appointments: %w", err)
	}

	res.FromModels(appointments, total, req.Limit)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.AppointmentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAppointment")
	defer scope.End()
	defer scope.TraceIfError(err)

	appointment, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get appointment")

		return res, fmt.Errorf("failed to get appointment: %w", err)
	}

	if appointment.ID == constant.Empty {
		return res, failure.NotFound("appointment not found") // nolint:wrapcheck
	}

	res.FromModel(appointment)

	return res, nil
}

// UpdateStatus moves the appointment through its lifecycle. Cancelling
// frees the slot for rebooking via the availability filter.
func (s *serviceImpl) UpdateStatus(ctx context.Context, req dto.UpdateAppointmentStatusRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateAppointmentStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if appointment exists")

		return fmt.Errorf("failed to check if appointment exists: %w", err)
	}

	if !exist {
		return failure.NotFound("appointment not found") // nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(req, user)
	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update appointment status")

		return fmt.Errorf("failed to update appointment status: %w", err)
	}

	return nil
}

// Delete removes the appointment outright. Deleting an unknown id is a
// no-op success, so retries are harmless.
func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".DeleteAppointment")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete appointment")

		return fmt.Errorf("failed to delete appointment: %w", err)
	}

	return nil
}
