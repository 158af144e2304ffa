package scheduling

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
	"github.com/Skarath13/bloom-sub003/utils"
)

// AnyTechnician is the sentinel meaning "any available technician".
const AnyTechnician = "any"

// AvailabilityRequest identifies one availability query.
type AvailabilityRequest struct {
	LocationID   string
	ServiceID    string
	TechnicianID string // empty or AnyTechnician for "any available"
	Date         string // "2006-01-02" in the business's local time
}

// AvailabilityEngine computes bookable slots. Read-only; staleness between
// computing slots and booking is resolved by the conflict check at booking
// time.
type AvailabilityEngine interface {
	GetAvailability(ctx context.Context, req AvailabilityRequest) (*models.AvailabilityResponse, error)
}

// DefaultAvailabilityEngine is the production implementation.
type DefaultAvailabilityEngine struct {
	Technicians  technicianRepo.TechnicianRepository
	Services     catalogRepo.ServiceRepository
	Schedules    scheduleRepo.ScheduleRepository
	Appointments appointmentRepo.AppointmentRepository
	Location     *time.Location

	// Now is swappable for tests; defaults to time.Now.
	Now func() time.Time
}

func (e *DefaultAvailabilityEngine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// technicianDay is everything fetched for one technician on one date.
type technicianDay struct {
	tech     models.Technician
	schedule models.WorkingSchedule
	busy     []Interval // merged appointments + expanded blocks
	apptEnds []int
	blkEnds  []int
	count    int // same-day appointment count, for fairness ordering
}

func (e *DefaultAvailabilityEngine) GetAvailability(ctx context.Context, req AvailabilityRequest) (*models.AvailabilityResponse, error) {
	logger := utils.GetLogger()

	svc, err := e.Services.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("fetching service %s: %w", req.ServiceID, err)
	}

	dayMidnight, err := utils.ParseDate(req.Date, e.Location)
	if err != nil {
		return nil, ErrInvalidDate
	}
	dayEnd := dayMidnight.AddDate(0, 0, 1)

	techs, err := e.eligibleTechnicians(ctx, req)
	if err != nil {
		return nil, err
	}

	now := e.now().In(e.Location)
	nowMinutes := -1
	if now.Format(utils.DateLayout) == req.Date {
		nowMinutes = utils.MinutesOfDay(now)
	}

	resp := &models.AvailabilityResponse{
		Date:            req.Date,
		ServiceDuration: svc.DurationMinutes,
		Slots:           []models.Slot{},
	}
	if len(techs) == 0 {
		// No technicians at the location is an empty result, not an error.
		return resp, nil
	}

	candidatesByMinute := make(map[int][]string)
	appointmentCount := make(map[string]int)

	for _, tech := range techs {
		day, err := e.loadTechnicianDay(ctx, tech, req.Date, dayMidnight, dayEnd, logger)
		if err != nil {
			logger.Error("skipping technician after load failure",
				zap.String("technicianId", tech.ID), zap.Error(err))
			continue
		}
		if day == nil {
			continue // not working that day
		}

		duration := tech.DurationFor(*svc)
		anchors := GenerateAnchors(day.schedule.Start, day.schedule.End, tech.BufferMinutes, day.apptEnds, day.blkEnds)
		starts := GenerateSlots(anchors, SlotConstraints{
			ShiftStart: day.schedule.Start,
			ShiftEnd:   day.schedule.End,
			Duration:   duration,
			Busy:       day.busy,
			NowMinutes: nowMinutes,
		})

		appointmentCount[tech.ID] = day.count
		for _, m := range starts {
			candidatesByMinute[m] = append(candidatesByMinute[m], tech.ID)
		}

		// A single requested technician's duration override is what the
		// caller actually gets booked for.
		if len(techs) == 1 {
			resp.ServiceDuration = duration
		}
	}

	for _, tc := range pickWinners(candidatesByMinute, appointmentCount) {
		resp.Slots = append(resp.Slots, models.Slot{
			Time:         utils.FormatMinutes(tc.Minute),
			Available:    true,
			TechnicianID: tc.Technicians[0],
		})
	}
	return resp, nil
}

func (e *DefaultAvailabilityEngine) eligibleTechnicians(ctx context.Context, req AvailabilityRequest) ([]models.Technician, error) {
	if req.TechnicianID != "" && req.TechnicianID != AnyTechnician {
		tech, err := e.Technicians.GetByID(ctx, req.TechnicianID)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, ErrTechnicianNotFound
			}
			return nil, fmt.Errorf("fetching technician %s: %w", req.TechnicianID, err)
		}
		if !tech.Active || tech.LocationID != req.LocationID {
			return nil, nil
		}
		return []models.Technician{*tech}, nil
	}

	techs, err := e.Technicians.ListActiveByLocation(ctx, req.LocationID)
	if err != nil {
		return nil, fmt.Errorf("listing technicians for location %s: %w", req.LocationID, err)
	}
	return techs, nil
}

// loadTechnicianDay fetches and reduces one technician's day to the merged
// busy set plus the anchor inputs. Returns nil when the technician is not
// working that weekday.
func (e *DefaultAvailabilityEngine) loadTechnicianDay(
	ctx context.Context,
	tech models.Technician,
	date string,
	dayMidnight, dayEnd time.Time,
	logger *zap.Logger,
) (*technicianDay, error) {
	ws, err := e.Schedules.GetWorkingSchedule(ctx, tech.ID, dayMidnight.Weekday())
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetching schedule: %w", err)
	}
	if !ws.IsWorking {
		return nil, nil
	}

	appts, err := e.Appointments.ListForTechnicianOnDate(ctx, tech.ID, date)
	if err != nil {
		return nil, fmt.Errorf("fetching appointments: %w", err)
	}

	day := &technicianDay{tech: tech, schedule: *ws}
	var raw []Interval
	for _, a := range appts {
		if !a.CountsAsBusy() {
			continue
		}
		day.count++
		raw = append(raw, Interval{Start: a.Start, End: a.End})
		day.apptEnds = append(day.apptEnds, a.End)
	}

	blocks, err := e.Schedules.ListBlocksForDate(ctx, tech.ID, date)
	if err != nil {
		return nil, fmt.Errorf("fetching time blocks: %w", err)
	}
	for _, b := range blocks {
		for _, occ := range ExpandBlock(b, dayMidnight, dayEnd, e.Location, logger) {
			if occ.Date != date {
				continue
			}
			raw = append(raw, Interval{Start: occ.Start, End: occ.End})
			day.blkEnds = append(day.blkEnds, occ.End)
		}
	}

	day.busy = MergeIntervals(raw)
	return day, nil
}
