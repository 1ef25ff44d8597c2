package appointment

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	domain "github.com/navarro-barbers/agenda-api/internal/domain/appointment"
	"github.com/navarro-barbers/agenda-api/internal/domain/schedule"
	"github.com/navarro-barbers/agenda-api/internal/httperr"
	"github.com/navarro-barbers/agenda-api/internal/models"
	"github.com/navarro-barbers/agenda-api/internal/notify"
)

// ======================================================
// FAKES
// ======================================================

type fakeRepo struct {
	barbers      map[uint]*models.Barber
	services     map[uint]*models.Service
	appointments map[uint]*models.Appointment
	nextID       uint

	lockCalls int

	// createErrs and updateErrs are consumed one error per write call;
	// the matching hook runs right after a consumed error, letting
	// tests plant a competing booking the way a lost race would.
	createErrs  []error
	onCreateErr func(r *fakeRepo)
	updateErrs  []error
	onUpdateErr func(r *fakeRepo)
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		barbers:      make(map[uint]*models.Barber),
		services:     make(map[uint]*models.Service),
		appointments: make(map[uint]*models.Appointment),
	}
}

func (r *fakeRepo) GetBarberByID(_ context.Context, id uint) (*models.Barber, error) {
	if b, ok := r.barbers[id]; ok {
		copied := *b
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRepo) GetServiceByID(_ context.Context, id uint) (*models.Service, error) {
	if s, ok := r.services[id]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRepo) GetAppointmentByID(_ context.Context, id uint) (*models.Appointment, error) {
	ap, ok := r.appointments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}

	copied := *ap
	if b, ok := r.barbers[ap.BarberID]; ok {
		copied.Barber = *b
	}
	if s, ok := r.services[ap.ServiceID]; ok {
		copied.Service = *s
	}
	return &copied, nil
}

func (r *fakeRepo) ListAppointmentsForDay(
	_ context.Context,
	barberID uint,
	date time.Time,
	exclude ...uint,
) ([]models.Appointment, error) {

	skip := make(map[uint]bool, len(exclude))
	for _, id := range exclude {
		skip[id] = true
	}

	var out []models.Appointment
	for _, ap := range r.appointments {
		if ap.BarberID != barberID || skip[ap.ID] {
			continue
		}
		if !sameDate(ap.Date, date) {
			continue
		}

		copied := *ap
		if s, ok := r.services[ap.ServiceID]; ok {
			copied.Service = *s
		}
		out = append(out, copied)
	}
	return out, nil
}

func (r *fakeRepo) ListAppointmentsForBarber(_ context.Context, barberID uint) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range r.appointments {
		if ap.BarberID == barberID {
			out = append(out, *ap)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListAppointments(_ context.Context) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range r.appointments {
		out = append(out, *ap)
	}
	return out, nil
}

func (r *fakeRepo) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	if len(r.createErrs) > 0 {
		err := r.createErrs[0]
		r.createErrs = r.createErrs[1:]
		if err != nil {
			if r.onCreateErr != nil {
				r.onCreateErr(r)
			}
			return err
		}
	}

	r.nextID++
	ap.ID = r.nextID
	copied := *ap
	r.appointments[ap.ID] = &copied
	return nil
}

func (r *fakeRepo) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	if len(r.updateErrs) > 0 {
		err := r.updateErrs[0]
		r.updateErrs = r.updateErrs[1:]
		if err != nil {
			if r.onUpdateErr != nil {
				r.onUpdateErr(r)
			}
			return err
		}
	}

	if _, ok := r.appointments[ap.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *ap
	r.appointments[ap.ID] = &copied
	return nil
}

func (r *fakeRepo) WithBarberLock(
	_ context.Context,
	_ uint,
	fn func(tx domain.Repository) error,
) error {
	r.lockCalls++
	return fn(r)
}

func (r *fakeRepo) ListPendingReminders(_ context.Context, date time.Time) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range r.appointments {
		if !sameDate(ap.Date, date) || ap.ReminderSent {
			continue
		}
		if !schedule.BookingStatus(ap.Status).Occupies() {
			continue
		}

		copied := *ap
		if b, ok := r.barbers[ap.BarberID]; ok {
			copied.Barber = *b
		}
		if s, ok := r.services[ap.ServiceID]; ok {
			copied.Service = *s
		}
		out = append(out, copied)
	}
	return out, nil
}

func (r *fakeRepo) MarkReminderSent(_ context.Context, id uint) error {
	ap, ok := r.appointments[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	ap.ReminderSent = true
	return nil
}

func sameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

var _ domain.Repository = (*fakeRepo)(nil)

type fakeSender struct {
	result notify.Result
	sent   []string
}

func (s *fakeSender) Send(_ context.Context, phone, message string) notify.Result {
	s.sent = append(s.sent, message)
	res := s.result
	if res.Number == "" {
		res.Number = phone
	}
	return res
}

// ======================================================
// FIXTURES
// ======================================================

// Mon-Fri, 09:00-18:00, 30-minute slots.
func seedBarber(r *fakeRepo) *models.Barber {
	b := &models.Barber{
		ID:          1,
		Name:        "Diego",
		StartTime:   "09:00",
		EndTime:     "18:00",
		SlotMinutes: 30,
		WorkingDays: `["monday","tuesday","wednesday","thursday","friday"]`,
	}
	r.barbers[b.ID] = b
	return b
}

func seedService(r *fakeRepo, id uint, duration int) *models.Service {
	s := &models.Service{
		ID:          id,
		Name:        "Classic cut",
		DurationMin: duration,
		Active:      true,
	}
	r.services[s.ID] = s
	return s
}

func seedAppointment(r *fakeRepo, barberID, serviceID uint, date, start, status string) *models.Appointment {
	day, _ := time.Parse("2006-01-02", date)
	r.nextID++
	ap := &models.Appointment{
		ID:        r.nextID,
		BarberID:  barberID,
		ServiceID: serviceID,
		Date:      day,
		StartTime: start,
		Status:    status,
	}
	r.appointments[ap.ID] = ap
	return ap
}

const (
	testMonday = "2024-01-01"
	testSunday = "2024-01-07"
)

// ======================================================
// BOOK
// ======================================================

func TestBookCreatesConfirmedAppointment(t *testing.T) {
	repo := newFakeRepo()
	seedBarber(repo)
	seedService(repo, 1, 30)
	sender := &fakeSender{result: notify.Result{Success: true}}

	uc := NewBook(repo, nil, sender, nil)

	out, err := uc.Execute(context.Background(), BookInput{
		BarberID:    1,
		ServiceID:   1,
		ClientName:  "Luis",
		ClientPhone: "555-1234567",
		Date:        testMonday,
		Time:        "10:00",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if out.Rejected {
		t.Fatal("booking should not be rejected")
	}
	if out.Appointment == nil {
		t.Fatal("expected created appointment")
	}
	if out.Appointment.Status != string(schedule.StatusConfirmed) {
		t.Errorf("status = %q, want confirmed", out.Appointment.Status)
	}
	if out.Appointment.Reference == "" {
		t.Error("expected a booking reference")
	}
	if out.Appointment.StartTime != "10:00" {
		t.Errorf("start = %q, want 10:00", out.Appointment.StartTime)
	}
	if !out.Notification.Success {
		t.Error("notification should report success")
	}
	if len(sender.sent) != 1 {
		t.Errorf("sent %d messages, want 1", len(sender.sent))
	}
}

func TestBookRejectsTakenSlotWithAvailability(t *testing.T) {
	repo := newFakeRepo()
	seedBarber(repo)
	seedService(repo, 1, 60)
	seedAppointment(repo, 1, 1, testMonday, "10:00", string(schedule.StatusConfirmed))
	sender := &fakeSender{result: notify.Result{Success: true}}

	uc := NewBook(repo, nil, sender, nil)

	out, err := uc.Execute(context.Background(), BookInput{
		BarberID:    1,
		ServiceID:   1,
		ClientName:  "Luis",
		ClientPhone: "555-1234567",
		Date:        testMonday,
		Time:        "09:30", // 60 minutes would overlap the 10:00 booking
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if !out.Rejected {
		t.Fatal("expected rejection")
	}
	if out.Appointment != nil {
		t.Error("no appointment should be created on rejection")
	}
	if len(out.Availability) == 0 {
		t.Fatal("rejection must carry refreshed availability")
	}
	for _, s := range out.Availability {
		if s == "09:30" || s == "10:00" || s == "10:30" {
			t.Errorf("availability contains blocked slot %s", s)
		}
	}
	if len(sender.sent) != 0 {
		t.Error("no notification on a rejected booking")
	}
	if len(repo.appointments) != 1 {
		t.Errorf("repo has %d appointments, want the original 1", len(repo.appointments))
	}
}

func TestBookRejectsNonWorkingDay(t *testing.T) {
	repo := newFakeRepo()
	seedBarber(repo)
	seedService(repo, 1, 30)

	uc := NewBook(repo, nil, &fakeSender{}, nil)

	out, err := uc.Execute(context.Background(), BookInput{
		BarberID:    1,
		ServiceID:   1,
		ClientName:  "Luis",
		ClientPhone: "555-1234567",
		Date:        testSunday,
		Time:        "10:00",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if !out.Rejected {
		t.Fatal("sunday booking should be rejected")
	}
	if len(out.Availability) != 0 {
		t.Errorf("sunday availability = %v, want empty", out.Availability)
	}
}

func TestBookNotificationFailureDoesNotFailBooking(t *testing.T) {
	repo := newFakeRepo()
	seedBarber(repo)
	seedService(repo, 1, 30)
	sender := &fakeSender{result: notify.Result{Success: false, Error: "gateway status 500"}}

	uc := NewBook(repo, nil, sender, nil)

	out, err := uc.Execute(context.Background(), BookInput{
		BarberID:    1,
		ServiceID:   1,
		ClientName:  "Luis",
		ClientPhone: "555-1234567",
		Date:        testMonday,
		Time:        "10:00",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if out.Rejected || out.Appointment == nil {
		t.Fatal("booking must succeed despite notification failure")
	}
	if out.Notification.Success {
		t.Error("notification result should carry the failure")
	}
	if out.Notification.Error == "" {
		t.Error("notification error message should be surfaced")
	}
}

func TestBookUnknownBarberAndService(t *testing.T) {
	repo := newFakeRepo()
	seedBarber(repo)
	seedService(repo, 1, 30)

	uc := NewBook(repo, nil, &fakeSender{}, nil)

	_, err := uc.Execute(context.Background(), BookInput{
		BarberID: 99, ServiceID: 1,
		ClientName: "Luis", ClientPhone: "555-1234567",
		Date: testMonday, Time: "10:00",
	})
	if !httperr.IsBusiness(err, httperr.CodeBarberNotFound) {
		t.Errorf("err = %v, want barber_not_found", err)
	}

	_, err = uc.Execute(context.Background(), BookInput{
		BarberID: 1, ServiceID: 99,
		ClientName: "Luis", ClientPhone: "555-1234567",
		Date: testMonday, Time: "10:00",
	})
	if !httperr.IsBusiness(err, httperr.CodeServiceNotFound) {
		t.Errorf("err = %v, want service_not_found", err)
	}
}

func TestBookMalformedInput(t *testing.T) {
	repo := newFakeRepo()
	seedBarber(repo)
	seedService(repo, 1, 30)

	uc := NewBook(repo, nil, &fakeSender{}, nil)

	_, err := uc.Execute(context.Background(), BookInput{
		BarberID: 1, ServiceID: 1,
		ClientName: "Luis", ClientPhone: "555-1234567",
		Date: "01/01/2024", Time: "10:00",
	})
	if !httperr.IsBusiness(err, httperr.CodeInvalidDate) {
		t.Errorf("err = %v, want invalid_date", err)
	}

	_, err = uc.Execute(context.Background(), BookInput{
		BarberID: 1, ServiceID: 1,
		ClientName: "Luis", ClientPhone: "555-1234567",
		Date: testMonday, Time: "10am",
	})
	if !httperr.IsBusiness(err, httperr.CodeInvalidTime) {
		t.Errorf("err = %v, want invalid_time", err)
	}
}

func TestBookRetriesOnceOnCommitConflict(t *testing.T) {
	repo := newFakeRepo()
	seedBarber(repo)
	seedService(repo, 1, 30)

	// The first create loses a race: the guard index fires and the
	// winner's booking appears. The retry must re-check and reject.
	repo.createErrs = []error{gorm.ErrDuplicatedKey}
	repo.onCreateErr = func(r *fakeRepo) {
		seedAppointment(r, 1, 1, testMonday, "10:00", string(schedule.StatusConfirmed))
	}

	uc := NewBook(repo, nil, &fakeSender{result: notify.Result{Success: true}}, nil)

	out, err := uc.Execute(context.Background(), BookInput{
		BarberID:    1,
		ServiceID:   1,
		ClientName:  "Luis",
		ClientPhone: "555-1234567",
		Date:        testMonday,
		Time:        "10:00",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if !out.Rejected {
		t.Fatal("loser of the race must end rejected")
	}
	if len(out.Availability) == 0 {
		t.Error("rejection must carry refreshed availability")
	}
	if repo.lockCalls != 2 {
		t.Errorf("lock taken %d times, want 2 (original + one retry)", repo.lockCalls)
	}
}
