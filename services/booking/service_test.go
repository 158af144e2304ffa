package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Skarath13/bloom-sub003/models"
)

type stubTechRepo struct {
	tech *models.Technician
}

func (r *stubTechRepo) GetByID(_ context.Context, _ string) (*models.Technician, error) {
	if r.tech == nil {
		return nil, mongo.ErrNoDocuments
	}
	return r.tech, nil
}

func (r *stubTechRepo) ListActiveByLocation(context.Context, string) ([]models.Technician, error) {
	return nil, nil
}

type stubServiceRepo struct {
	svc *models.Service
}

func (r *stubServiceRepo) GetByID(_ context.Context, _ string) (*models.Service, error) {
	if r.svc == nil {
		return nil, mongo.ErrNoDocuments
	}
	return r.svc, nil
}

func (r *stubServiceRepo) ListByLocation(context.Context, string) ([]models.Service, error) {
	return nil, nil
}

type stubScheduleRepo struct {
	ws     *models.WorkingSchedule
	blocks []models.TimeBlock
}

func (r *stubScheduleRepo) GetWorkingSchedule(context.Context, string, time.Weekday) (*models.WorkingSchedule, error) {
	if r.ws == nil {
		return nil, mongo.ErrNoDocuments
	}
	return r.ws, nil
}

func (r *stubScheduleRepo) UpsertWorkingSchedule(context.Context, models.WorkingSchedule) error {
	return nil
}

func (r *stubScheduleRepo) ListBlocksForDate(context.Context, string, string) ([]models.TimeBlock, error) {
	return r.blocks, nil
}

func (r *stubScheduleRepo) CreateBlock(context.Context, *models.TimeBlock) error { return nil }

func (r *stubScheduleRepo) DeleteBlock(context.Context, string) error { return nil }

func (r *stubScheduleRepo) AddBlockException(context.Context, string, string) error { return nil }

type stubApptRepo struct {
	appts    []models.Appointment
	created  []models.Appointment
	statusOK bool
}

func (r *stubApptRepo) Create(_ context.Context, appt *models.Appointment) error {
	appt.ID = "appt-new"
	r.created = append(r.created, *appt)
	return nil
}

func (r *stubApptRepo) GetByID(_ context.Context, id string) (*models.Appointment, error) {
	for _, a := range r.appts {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *stubApptRepo) ListForTechnicianOnDate(context.Context, string, string) ([]models.Appointment, error) {
	return r.appts, nil
}

func (r *stubApptRepo) UpdateStatus(context.Context, string, []string, string) (bool, error) {
	return r.statusOK, nil
}

func (r *stubApptRepo) FindRemindersDue(context.Context, int, time.Time, time.Time) ([]models.Appointment, error) {
	return nil, nil
}

func (r *stubApptRepo) ClaimReminder(context.Context, string, int, time.Time) (bool, string, error) {
	return false, "", nil
}

func (r *stubApptRepo) ConfirmReminderSent(context.Context, string, int, time.Time) error { return nil }

func (r *stubApptRepo) RollbackReminderClaim(context.Context, string, int, string) error { return nil }

func (r *stubApptRepo) ClaimNoShowFee(context.Context, string, int64, string, time.Time) (bool, error) {
	return false, nil
}

func (r *stubApptRepo) ConfirmNoShowFee(context.Context, string, string, time.Time) error { return nil }

func (r *stubApptRepo) RollbackNoShowFeeClaim(context.Context, string) error { return nil }

func (r *stubApptRepo) ResetStaleClaims(context.Context, time.Time) (map[string]int64, error) {
	return nil, nil
}

func newBookingService(appts *stubApptRepo, scheds *stubScheduleRepo) *DefaultBookingService {
	return &DefaultBookingService{
		Appointments: appts,
		Technicians:  &stubTechRepo{tech: &models.Technician{ID: "tech-a", LocationID: "loc-1", Active: true}},
		Services:     &stubServiceRepo{svc: &models.Service{ID: "svc-cut", DurationMinutes: 60}},
		Schedules:    scheds,
		Location:     time.UTC,
	}
}

func workingNineToFive() *models.WorkingSchedule {
	return &models.WorkingSchedule{TechnicianID: "tech-a", IsWorking: true, Start: 540, End: 1020}
}

func bookingReq(start int) BookingRequest {
	return BookingRequest{
		LocationID: "loc-1", TechnicianID: "tech-a", ServiceID: "svc-cut",
		ClientID: "cl-1", Date: "2024-05-10", Start: start,
	}
}

func TestCreateAppointment_Succeeds(t *testing.T) {
	appts := &stubApptRepo{}
	svc := newBookingService(appts, &stubScheduleRepo{ws: workingNineToFive()})

	appt, err := svc.CreateAppointment(context.Background(), bookingReq(600))
	require.NoError(t, err)

	assert.Equal(t, "appt-new", appt.ID)
	assert.Equal(t, models.StatusConfirmed, appt.Status)
	assert.Equal(t, 660, appt.End)
	assert.Equal(t, time.Date(2024, 5, 10, 10, 0, 0, 0, time.UTC), appt.StartAt)
	require.Len(t, appts.created, 1)
}

func TestCreateAppointment_ConflictWithExistingAppointment(t *testing.T) {
	appts := &stubApptRepo{appts: []models.Appointment{
		{ID: "appt-1", TechnicianID: "tech-a", Date: "2024-05-10", Start: 630, End: 690, Status: models.StatusConfirmed},
	}}
	svc := newBookingService(appts, &stubScheduleRepo{ws: workingNineToFive()})

	_, err := svc.CreateAppointment(context.Background(), bookingReq(600))
	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.Empty(t, appts.created)
}

func TestCreateAppointment_CancelledAppointmentDoesNotConflict(t *testing.T) {
	appts := &stubApptRepo{appts: []models.Appointment{
		{ID: "appt-1", TechnicianID: "tech-a", Date: "2024-05-10", Start: 630, End: 690, Status: models.StatusCancelled},
	}}
	svc := newBookingService(appts, &stubScheduleRepo{ws: workingNineToFive()})

	_, err := svc.CreateAppointment(context.Background(), bookingReq(600))
	assert.NoError(t, err)
}

func TestCreateAppointment_ConflictWithRecurringBlock(t *testing.T) {
	// Weekly block anchored four weeks earlier, landing on the booking date.
	block := models.TimeBlock{
		ID: "blk-1", TechnicianID: "tech-a", Date: "2024-04-12",
		Start: 600, End: 720, Recurrence: "FREQ=WEEKLY;INTERVAL=1",
	}
	appts := &stubApptRepo{}
	svc := newBookingService(appts, &stubScheduleRepo{ws: workingNineToFive(), blocks: []models.TimeBlock{block}})

	_, err := svc.CreateAppointment(context.Background(), bookingReq(660))
	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestCreateAppointment_OutsideShift(t *testing.T) {
	svc := newBookingService(&stubApptRepo{}, &stubScheduleRepo{ws: workingNineToFive()})

	// 16:30 + 60 minutes runs past a 17:00 shift end.
	_, err := svc.CreateAppointment(context.Background(), bookingReq(990))
	assert.ErrorIs(t, err, ErrTechnicianNotWorking)
}

func TestCreateAppointment_DayOff(t *testing.T) {
	ws := workingNineToFive()
	ws.IsWorking = false
	svc := newBookingService(&stubApptRepo{}, &stubScheduleRepo{ws: ws})

	_, err := svc.CreateAppointment(context.Background(), bookingReq(600))
	assert.ErrorIs(t, err, ErrTechnicianNotWorking)
}

func TestTransitions(t *testing.T) {
	t.Run("allowed transition succeeds", func(t *testing.T) {
		appts := &stubApptRepo{statusOK: true}
		svc := newBookingService(appts, &stubScheduleRepo{})
		assert.NoError(t, svc.Confirm(context.Background(), "appt-1"))
	})

	t.Run("disallowed transition on an existing appointment", func(t *testing.T) {
		appts := &stubApptRepo{appts: []models.Appointment{
			{ID: "appt-1", Status: models.StatusCompleted},
		}}
		svc := newBookingService(appts, &stubScheduleRepo{})
		assert.ErrorIs(t, svc.Cancel(context.Background(), "appt-1"), ErrInvalidTransition)
	})

	t.Run("missing appointment", func(t *testing.T) {
		svc := newBookingService(&stubApptRepo{}, &stubScheduleRepo{})
		assert.ErrorIs(t, svc.MarkNoShow(context.Background(), "appt-missing"), ErrAppointmentNotFound)
	})
}
