package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	appointmentRepo "github.com/Skarath13/bloom-sub003/database/repository/appointment"
	catalogRepo "github.com/Skarath13/bloom-sub003/database/repository/catalog"
	scheduleRepo "github.com/Skarath13/bloom-sub003/database/repository/schedule"
	technicianRepo "github.com/Skarath13/bloom-sub003/database/repository/technician"
	"github.com/Skarath13/bloom-sub003/models"
	"github.com/Skarath13/bloom-sub003/services/scheduling"
	"github.com/Skarath13/bloom-sub003/utils"
)

var (
	ErrSlotTaken            = errors.New("the selected slot is no longer available")
	ErrAppointmentNotFound  = errors.New("appointment not found")
	ErrInvalidTransition    = errors.New("appointment is not in a status that allows this transition")
	ErrTechnicianNotWorking = errors.New("technician does not work at the requested time")
)

// BookingRequest is a client's slot selection.
type BookingRequest struct {
	LocationID   string
	TechnicianID string
	ServiceID    string
	ClientID     string
	Date         string // "2006-01-02"
	Start        int    // minutes from midnight
}

// BookingService creates appointments and drives their status transitions.
type BookingService interface {
	CreateAppointment(ctx context.Context, req BookingRequest) (*models.Appointment, error)
	GetAppointment(ctx context.Context, id string) (*models.Appointment, error)
	Confirm(ctx context.Context, id string) error
	Cancel(ctx context.Context, id string) error
	MarkNoShow(ctx context.Context, id string) error
	Complete(ctx context.Context, id string) error
}

type DefaultBookingService struct {
	Appointments appointmentRepo.AppointmentRepository
	Technicians  technicianRepo.TechnicianRepository
	Services     catalogRepo.ServiceRepository
	Schedules    scheduleRepo.ScheduleRepository
	Location     *time.Location
}

// CreateAppointment persists a booking after re-checking the chosen slot
// against the technician's current busy set. Availability results are
// computed without locks, so a slot picked from a stale response is caught
// here rather than double-booked.
func (s *DefaultBookingService) CreateAppointment(ctx context.Context, req BookingRequest) (*models.Appointment, error) {
	logger := utils.GetLogger()

	svc, err := s.Services.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, scheduling.ErrServiceNotFound
		}
		return nil, fmt.Errorf("fetching service: %w", err)
	}
	tech, err := s.Technicians.GetByID(ctx, req.TechnicianID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, scheduling.ErrTechnicianNotFound
		}
		return nil, fmt.Errorf("fetching technician: %w", err)
	}

	dayMidnight, err := utils.ParseDate(req.Date, s.Location)
	if err != nil {
		return nil, scheduling.ErrInvalidDate
	}

	duration := tech.DurationFor(*svc)
	end := req.Start + duration

	ws, err := s.Schedules.GetWorkingSchedule(ctx, tech.ID, dayMidnight.Weekday())
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrTechnicianNotWorking
		}
		return nil, fmt.Errorf("fetching schedule: %w", err)
	}
	if !ws.IsWorking || req.Start < ws.Start || end > ws.End {
		return nil, ErrTechnicianNotWorking
	}

	if err := s.checkConflicts(ctx, tech.ID, req.Date, dayMidnight, scheduling.Interval{Start: req.Start, End: end}, logger); err != nil {
		return nil, err
	}

	appt := &models.Appointment{
		LocationID:   req.LocationID,
		TechnicianID: tech.ID,
		ServiceID:    svc.ID,
		ClientID:     req.ClientID,
		Date:         req.Date,
		Start:        req.Start,
		End:          end,
		StartAt:      utils.AtMinutes(dayMidnight, req.Start),
		EndAt:        utils.AtMinutes(dayMidnight, end),
		Status:       models.StatusConfirmed,
	}
	if err := s.Appointments.Create(ctx, appt); err != nil {
		return nil, fmt.Errorf("creating appointment: %w", err)
	}

	logger.Info("appointment created",
		zap.String("appointmentId", appt.ID),
		zap.String("technicianId", tech.ID),
		zap.String("date", req.Date),
		zap.Int("start", req.Start))
	return appt, nil
}

// checkConflicts rejects the insert if the requested window overlaps any
// current appointment or block occurrence for the technician that day.
func (s *DefaultBookingService) checkConflicts(ctx context.Context, technicianID, date string, dayMidnight time.Time, requested scheduling.Interval, logger *zap.Logger) error {
	appts, err := s.Appointments.ListForTechnicianOnDate(ctx, technicianID, date)
	if err != nil {
		return fmt.Errorf("fetching appointments: %w", err)
	}

	var busy []scheduling.Interval
	for _, a := range appts {
		if a.CountsAsBusy() {
			busy = append(busy, scheduling.Interval{Start: a.Start, End: a.End})
		}
	}

	blocks, err := s.Schedules.ListBlocksForDate(ctx, technicianID, date)
	if err != nil {
		return fmt.Errorf("fetching time blocks: %w", err)
	}
	dayEnd := dayMidnight.AddDate(0, 0, 1)
	for _, b := range blocks {
		for _, occ := range scheduling.ExpandBlock(b, dayMidnight, dayEnd, s.Location, logger) {
			if occ.Date == date {
				busy = append(busy, scheduling.Interval{Start: occ.Start, End: occ.End})
			}
		}
	}

	for _, iv := range scheduling.MergeIntervals(busy) {
		if scheduling.Overlaps(requested, iv) {
			return ErrSlotTaken
		}
	}
	return nil
}

func (s *DefaultBookingService) GetAppointment(ctx context.Context, id string) (*models.Appointment, error) {
	appt, err := s.Appointments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("fetching appointment: %w", err)
	}
	return appt, nil
}

func (s *DefaultBookingService) transition(ctx context.Context, id string, allowedFrom []string, to string) error {
	ok, err := s.Appointments.UpdateStatus(ctx, id, allowedFrom, to)
	if err != nil {
		return fmt.Errorf("updating status: %w", err)
	}
	if ok {
		return nil
	}
	// Distinguish a missing row from a disallowed transition.
	if _, err := s.Appointments.GetByID(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrAppointmentNotFound
		}
		return fmt.Errorf("fetching appointment: %w", err)
	}
	return ErrInvalidTransition
}

func (s *DefaultBookingService) Confirm(ctx context.Context, id string) error {
	return s.transition(ctx, id, []string{models.StatusPending}, models.StatusConfirmed)
}

func (s *DefaultBookingService) Cancel(ctx context.Context, id string) error {
	return s.transition(ctx, id, []string{models.StatusPending, models.StatusConfirmed}, models.StatusCancelled)
}

func (s *DefaultBookingService) MarkNoShow(ctx context.Context, id string) error {
	return s.transition(ctx, id, []string{models.StatusPending, models.StatusConfirmed}, models.StatusNoShow)
}

func (s *DefaultBookingService) Complete(ctx context.Context, id string) error {
	return s.transition(ctx, id, []string{models.StatusPending, models.StatusConfirmed}, models.StatusCompleted)
}
