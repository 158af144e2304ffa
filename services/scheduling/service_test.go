package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Skarath13/bloom-sub003/models"
)

// --- in-memory fakes ---

type fakeTechnicianRepo struct {
	techs map[string]models.Technician
}

func (f *fakeTechnicianRepo) GetByID(_ context.Context, id string) (*models.Technician, error) {
	if t, ok := f.techs[id]; ok {
		return &t, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeTechnicianRepo) ListActiveByLocation(_ context.Context, locationID string) ([]models.Technician, error) {
	var out []models.Technician
	for _, t := range f.techs {
		if t.LocationID == locationID && t.Active {
			out = append(out, t)
		}
	}
	return out, nil
}

type fakeServiceRepo struct {
	svcs map[string]models.Service
}

func (f *fakeServiceRepo) GetByID(_ context.Context, id string) (*models.Service, error) {
	if s, ok := f.svcs[id]; ok {
		return &s, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeServiceRepo) ListByLocation(_ context.Context, locationID string) ([]models.Service, error) {
	var out []models.Service
	for _, s := range f.svcs {
		if s.LocationID == locationID {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeScheduleRepo struct {
	schedules map[string]models.WorkingSchedule // key: technicianID
	blocks    map[string][]models.TimeBlock     // key: technicianID
}

func (f *fakeScheduleRepo) GetWorkingSchedule(_ context.Context, technicianID string, _ time.Weekday) (*models.WorkingSchedule, error) {
	if ws, ok := f.schedules[technicianID]; ok {
		return &ws, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeScheduleRepo) UpsertWorkingSchedule(_ context.Context, ws models.WorkingSchedule) error {
	f.schedules[ws.TechnicianID] = ws
	return nil
}

func (f *fakeScheduleRepo) ListBlocksForDate(_ context.Context, technicianID, _ string) ([]models.TimeBlock, error) {
	return f.blocks[technicianID], nil
}

func (f *fakeScheduleRepo) CreateBlock(_ context.Context, block *models.TimeBlock) error {
	f.blocks[block.TechnicianID] = append(f.blocks[block.TechnicianID], *block)
	return nil
}

func (f *fakeScheduleRepo) DeleteBlock(context.Context, string) error { return nil }

func (f *fakeScheduleRepo) AddBlockException(context.Context, string, string) error { return nil }

type fakeAppointmentRepo struct {
	appts []models.Appointment
}

func (f *fakeAppointmentRepo) Create(_ context.Context, appt *models.Appointment) error {
	f.appts = append(f.appts, *appt)
	return nil
}

func (f *fakeAppointmentRepo) GetByID(_ context.Context, id string) (*models.Appointment, error) {
	for _, a := range f.appts {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeAppointmentRepo) ListForTechnicianOnDate(_ context.Context, technicianID, date string) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, a := range f.appts {
		if a.TechnicianID == technicianID && a.Date == date {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAppointmentRepo) UpdateStatus(context.Context, string, []string, string) (bool, error) {
	return false, nil
}

func (f *fakeAppointmentRepo) FindRemindersDue(context.Context, int, time.Time, time.Time) ([]models.Appointment, error) {
	return nil, nil
}

func (f *fakeAppointmentRepo) ClaimReminder(context.Context, string, int, time.Time) (bool, string, error) {
	return false, "", nil
}

func (f *fakeAppointmentRepo) ConfirmReminderSent(context.Context, string, int, time.Time) error {
	return nil
}

func (f *fakeAppointmentRepo) RollbackReminderClaim(context.Context, string, int, string) error {
	return nil
}

func (f *fakeAppointmentRepo) ClaimNoShowFee(context.Context, string, int64, string, time.Time) (bool, error) {
	return false, nil
}

func (f *fakeAppointmentRepo) ConfirmNoShowFee(context.Context, string, string, time.Time) error {
	return nil
}

func (f *fakeAppointmentRepo) RollbackNoShowFeeClaim(context.Context, string) error { return nil }

func (f *fakeAppointmentRepo) ResetStaleClaims(context.Context, time.Time) (map[string]int64, error) {
	return nil, nil
}

// --- engine fixtures ---

func appt(id, techID, date string, start, end int, status string) models.Appointment {
	return models.Appointment{
		ID: id, TechnicianID: techID, Date: date,
		Start: start, End: end, Status: status,
	}
}

func newTestEngine(techs []models.Technician, schedules map[string]models.WorkingSchedule, appts []models.Appointment) *DefaultAvailabilityEngine {
	techMap := make(map[string]models.Technician)
	for _, t := range techs {
		techMap[t.ID] = t
	}
	return &DefaultAvailabilityEngine{
		Technicians: &fakeTechnicianRepo{techs: techMap},
		Services: &fakeServiceRepo{svcs: map[string]models.Service{
			"svc-cut": {ID: "svc-cut", LocationID: "loc-1", Name: "Haircut", DurationMinutes: 60, Active: true},
		}},
		Schedules:    &fakeScheduleRepo{schedules: schedules, blocks: map[string][]models.TimeBlock{}},
		Appointments: &fakeAppointmentRepo{appts: appts},
		Location:     time.UTC,
		Now:          func() time.Time { return time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC) },
	}
}

func TestGetAvailability_FairnessPrefersLessLoadedTechnician(t *testing.T) {
	techs := []models.Technician{
		{ID: "tech-a", LocationID: "loc-1", Active: true},
		{ID: "tech-b", LocationID: "loc-1", Active: true},
	}
	schedules := map[string]models.WorkingSchedule{
		"tech-a": {TechnicianID: "tech-a", IsWorking: true, Start: 540, End: 1140},
		"tech-b": {TechnicianID: "tech-b", IsWorking: true, Start: 540, End: 1140},
	}
	// tech-a already has two appointments on the date, tech-b has none.
	appts := []models.Appointment{
		appt("a1", "tech-a", "2024-05-10", 600, 660, models.StatusConfirmed),
		appt("a2", "tech-a", "2024-05-10", 720, 780, models.StatusConfirmed),
	}

	engine := newTestEngine(techs, schedules, appts)
	resp, err := engine.GetAvailability(context.Background(), AvailabilityRequest{
		LocationID: "loc-1", ServiceID: "svc-cut", TechnicianID: AnyTechnician, Date: "2024-05-10",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Slots)

	for _, slot := range resp.Slots {
		// Any time both technicians can serve must go to the less loaded one.
		if slot.Time == "9:00 AM" || slot.Time == "2:00 PM" {
			assert.Equal(t, "tech-b", slot.TechnicianID, "slot %s should go to the idle technician", slot.Time)
		}
	}
}

func TestGetAvailability_FairnessTieBreaksOnID(t *testing.T) {
	techs := []models.Technician{
		{ID: "tech-b", LocationID: "loc-1", Active: true},
		{ID: "tech-a", LocationID: "loc-1", Active: true},
	}
	schedules := map[string]models.WorkingSchedule{
		"tech-a": {TechnicianID: "tech-a", IsWorking: true, Start: 540, End: 1140},
		"tech-b": {TechnicianID: "tech-b", IsWorking: true, Start: 540, End: 1140},
	}

	engine := newTestEngine(techs, schedules, nil)
	resp, err := engine.GetAvailability(context.Background(), AvailabilityRequest{
		LocationID: "loc-1", ServiceID: "svc-cut", Date: "2024-05-10",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Slots)
	for _, slot := range resp.Slots {
		assert.Equal(t, "tech-a", slot.TechnicianID)
	}
}

func TestGetAvailability_SingleTechnicianRespectsBusySet(t *testing.T) {
	techs := []models.Technician{
		{ID: "tech-a", LocationID: "loc-1", Active: true, BufferMinutes: 15},
	}
	schedules := map[string]models.WorkingSchedule{
		"tech-a": {TechnicianID: "tech-a", IsWorking: true, Start: 540, End: 1140},
	}
	appts := []models.Appointment{
		appt("a1", "tech-a", "2024-05-10", 600, 660, models.StatusConfirmed),
		// Cancelled appointments never count as busy.
		appt("a2", "tech-a", "2024-05-10", 900, 960, models.StatusCancelled),
	}

	engine := newTestEngine(techs, schedules, appts)
	resp, err := engine.GetAvailability(context.Background(), AvailabilityRequest{
		LocationID: "loc-1", ServiceID: "svc-cut", TechnicianID: "tech-a", Date: "2024-05-10",
	})
	require.NoError(t, err)

	times := make(map[string]bool)
	for _, s := range resp.Slots {
		times[s.Time] = true
	}
	assert.True(t, times["9:00 AM"])
	assert.True(t, times["11:15 AM"], "appointment end + buffer anchor")
	assert.False(t, times["10:00 AM"], "overlaps the existing appointment")
	assert.True(t, times["3:00 PM"], "cancelled appointment does not block")
}

func TestGetAvailability_EmptyTechnicianSetIsEmptyResult(t *testing.T) {
	engine := newTestEngine(nil, map[string]models.WorkingSchedule{}, nil)
	resp, err := engine.GetAvailability(context.Background(), AvailabilityRequest{
		LocationID: "loc-1", ServiceID: "svc-cut", Date: "2024-05-10",
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
	assert.Equal(t, 60, resp.ServiceDuration)
}

func TestGetAvailability_DurationOverrideForRequestedTechnician(t *testing.T) {
	techs := []models.Technician{
		{ID: "tech-a", LocationID: "loc-1", Active: true, ServiceDurations: map[string]int{"svc-cut": 90}},
	}
	schedules := map[string]models.WorkingSchedule{
		"tech-a": {TechnicianID: "tech-a", IsWorking: true, Start: 540, End: 660}, // 9:00-11:00
	}

	engine := newTestEngine(techs, schedules, nil)
	resp, err := engine.GetAvailability(context.Background(), AvailabilityRequest{
		LocationID: "loc-1", ServiceID: "svc-cut", TechnicianID: "tech-a", Date: "2024-05-10",
	})
	require.NoError(t, err)
	assert.Equal(t, 90, resp.ServiceDuration)

	// With 90 minutes needed, 10:00 cannot fit inside a shift ending 11:00.
	for _, s := range resp.Slots {
		assert.NotEqual(t, "10:00 AM", s.Time)
	}
}

func TestGetAvailability_PastSlotsExcludedToday(t *testing.T) {
	techs := []models.Technician{{ID: "tech-a", LocationID: "loc-1", Active: true}}
	schedules := map[string]models.WorkingSchedule{
		"tech-a": {TechnicianID: "tech-a", IsWorking: true, Start: 540, End: 1140},
	}

	engine := newTestEngine(techs, schedules, nil)
	engine.Now = func() time.Time { return time.Date(2024, 5, 10, 12, 30, 0, 0, time.UTC) }

	resp, err := engine.GetAvailability(context.Background(), AvailabilityRequest{
		LocationID: "loc-1", ServiceID: "svc-cut", TechnicianID: "tech-a", Date: "2024-05-10",
	})
	require.NoError(t, err)
	for _, s := range resp.Slots {
		assert.NotContains(t, []string{"9:00 AM", "10:00 AM", "11:00 AM", "12:00 PM"}, s.Time)
	}
}

func TestGetAvailability_UnknownServiceIsNotFound(t *testing.T) {
	engine := newTestEngine(nil, map[string]models.WorkingSchedule{}, nil)
	_, err := engine.GetAvailability(context.Background(), AvailabilityRequest{
		LocationID: "loc-1", ServiceID: "svc-missing", Date: "2024-05-10",
	})
	assert.ErrorIs(t, err, ErrServiceNotFound)
}
