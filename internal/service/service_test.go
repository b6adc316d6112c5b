package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/Leganyst/clinic-booking/internal/calendar"
	"github.com/Leganyst/clinic-booking/internal/db"
	"github.com/Leganyst/clinic-booking/internal/model"
	"github.com/Leganyst/clinic-booking/internal/repository"
)

// 7 января 2030: понедельник.
var monday = time.Date(2030, 1, 7, 0, 0, 0, 0, time.UTC)

type sentSms struct {
	phone string
	text  string
}

// fakeSms запоминает отправленные сообщения.
type fakeSms struct {
	mu   sync.Mutex
	sent []sentSms
	err  error
}

func (f *fakeSms) Send(_ context.Context, phone, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentSms{phone: phone, text: text})
	return nil
}

func (f *fakeSms) last(t *testing.T) sentSms {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		t.Fatalf("no sms sent")
	}
	return f.sent[len(f.sent)-1]
}

// lastCode: код из последнего сообщения (последнее слово текста).
func (f *fakeSms) lastCode(t *testing.T) string {
	t.Helper()
	fields := strings.Fields(f.last(t).text)
	return fields[len(fields)-1]
}

type testEnv struct {
	db    *gorm.DB
	repos *repository.Repositories
	sms   *fakeSms

	user      *model.User
	other     *model.User
	admin     *model.User
	specialty *model.Specialty
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	gdb, err := db.NewSQLiteDB(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := model.AutoMigrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	env := &testEnv{db: gdb, repos: repository.NewRepositories(gdb), sms: &fakeSms{}}
	ctx := context.Background()

	env.user = env.createUser(t, "Sara", "Ahmadi", "0011111111", "09120000001", true, model.RoleUser)
	env.other = env.createUser(t, "Reza", "Karimi", "0022222222", "09120000002", true, model.RoleUser)
	env.admin = env.createUser(t, "Admin", "Clinic", "0033333333", "09120000003", true, model.RoleAdmin)

	env.specialty = &model.Specialty{Name: "General dentistry", IsActive: true}
	if err := env.repos.Specialties.Create(ctx, env.specialty); err != nil {
		t.Fatalf("create specialty: %v", err)
	}
	return env
}

func (e *testEnv) createUser(t *testing.T, first, last, nationalID, phone string, verified bool, role model.UserRole) *model.User {
	t.Helper()
	u := &model.User{
		FirstName:       first,
		LastName:        last,
		NationalID:      nationalID,
		Phone:           phone,
		IsPhoneVerified: verified,
		Role:            role,
	}
	if err := e.repos.Users.Create(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func (e *testEnv) addWorkingHour(t *testing.T, day time.Weekday, start, end string, dur int) *model.WorkingHour {
	t.Helper()
	wh := &model.WorkingHour{
		SpecialtyID:         e.specialty.ID,
		DayOfWeek:           int(day),
		StartTime:           model.ClockToDB(clock(t, start)),
		EndTime:             model.ClockToDB(clock(t, end)),
		SlotDurationMinutes: dur,
		IsActive:            true,
	}
	if err := e.repos.WorkingHours.Create(context.Background(), wh); err != nil {
		t.Fatalf("create working hour: %v", err)
	}
	return wh
}

func (e *testEnv) availability() *calendar.AvailabilityService {
	src := repository.NewCalendarSource(e.repos.WorkingHours, e.repos.Reservations)
	return calendar.NewAvailabilityService(src, src)
}

func (e *testEnv) reservations(now time.Time, opts ...ReservationOption) *ReservationService {
	opts = append([]ReservationOption{
		WithNotifier(e.sms),
		WithClock(func() time.Time { return now }),
	}, opts...)
	return NewReservationService(e.db, e.repos, calendar.NewChecker(24*time.Hour, time.UTC), zerolog.Nop(), opts...)
}

func clock(t *testing.T, s string) calendar.ClockTime {
	t.Helper()
	c, err := calendar.ParseClockTime(s)
	if err != nil {
		t.Fatalf("parse clock %q: %v", s, err)
	}
	return c
}

func iv(t *testing.T, start, end string) calendar.TimeInterval {
	t.Helper()
	return calendar.TimeInterval{Start: clock(t, start), End: clock(t, end)}
}
