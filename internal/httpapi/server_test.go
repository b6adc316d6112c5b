package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/Leganyst/clinic-booking/internal/calendar"
	"github.com/Leganyst/clinic-booking/internal/db"
	"github.com/Leganyst/clinic-booking/internal/model"
	"github.com/Leganyst/clinic-booking/internal/repository"
	"github.com/Leganyst/clinic-booking/internal/service"
)

type captureSms struct {
	mu   sync.Mutex
	last string
}

func (s *captureSms) Send(_ context.Context, _, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = text
	return nil
}

func (s *captureSms) code() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	fields := strings.Fields(s.last)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

type testServer struct {
	e         *echo.Echo
	repos     *repository.Repositories
	tokens    *service.TokenManager
	sms       *captureSms
	specialty *model.Specialty
	admin     string // bearer-токен администратора
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gdb, err := db.NewSQLiteDB(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := model.AutoMigrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	log := zerolog.Nop()
	repos := repository.NewRepositories(gdb)
	sms := &captureSms{}
	tokens := service.NewTokenManager("0123456789abcdef0123456789abcdef", "clinic", "clinic-api", time.Hour)
	checker := calendar.NewChecker(24*time.Hour, time.UTC)
	src := repository.NewCalendarSource(repos.WorkingHours, repos.Reservations)
	availability := calendar.NewAvailabilityService(src, src)

	e := NewServer(Deps{
		DB:           gdb,
		Auth:         service.NewAuthService(gdb, repos, sms, tokens, log, service.AuthOptions{PerMinute: 100, BcryptCost: bcrypt.MinCost}),
		Tokens:       tokens,
		Specialties:  service.NewSpecialtyService(repos.Specialties, log),
		WorkingHours: service.NewWorkingHourService(gdb, repos, availability, log),
		Reservations: service.NewReservationService(gdb, repos, checker, log, service.WithNotifier(sms)),
		Availability: availability,
		Checker:      checker,
		Log:          log,
	})

	ctx := context.Background()
	sp := &model.Specialty{Name: "Orthodontics", IsActive: true}
	if err := repos.Specialties.Create(ctx, sp); err != nil {
		t.Fatalf("create specialty: %v", err)
	}
	admin := &model.User{FirstName: "Admin", LastName: "Clinic", NationalID: "0099999999", Phone: "09129999999", IsPhoneVerified: true, Role: model.RoleAdmin}
	if err := repos.Users.Create(ctx, admin); err != nil {
		t.Fatalf("create admin: %v", err)
	}
	adminToken, _, err := tokens.Issue(admin)
	if err != nil {
		t.Fatalf("issue admin token: %v", err)
	}

	return &testServer{e: e, repos: repos, tokens: tokens, sms: sms, specialty: sp, admin: adminToken}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d; body = %s", rec.Code, want, rec.Body.String())
	}
}

// registerPatient проходит регистрацию и подтверждение телефона, возвращает токен.
func (s *testServer) registerPatient(t *testing.T, phone, nationalID string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"firstName": "Sara", "lastName": "Ahmadi", "nationalId": nationalID, "phoneNumber": phone,
	})
	expectStatus(t, rec, http.StatusCreated)

	rec = s.do(t, http.MethodPost, "/api/auth/verify-phone", "", map[string]string{
		"phoneNumber": phone, "verificationCode": s.sms.code(),
	})
	expectStatus(t, rec, http.StatusOK)
	return decode[authResponse](t, rec).Token
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{"/", "/health", "/ready"} {
		rec := s.do(t, http.MethodGet, path, "", nil)
		expectStatus(t, rec, http.StatusOK)
	}
	if rec := s.do(t, http.MethodGet, "/health", "", nil); rec.Header().Get(echo.HeaderXRequestID) == "" {
		t.Fatalf("missing request id header")
	}
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t)

	token := s.registerPatient(t, "09120000001", "0011111111")
	claims, err := s.tokens.Parse(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if !claims.IsPhoneVerified || claims.Role != model.RoleUser {
		t.Fatalf("claims = %+v", claims)
	}

	rec := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"firstName": "Sara", "lastName": "Ahmadi", "nationalId": "0011111111", "phoneNumber": "09120000009",
	})
	expectStatus(t, rec, http.StatusConflict)

	rec = s.do(t, http.MethodPost, "/api/auth/verify-phone", "", map[string]string{
		"phoneNumber": "09120000001", "verificationCode": "12ab56",
	})
	expectStatus(t, rec, http.StatusBadRequest)

	rec = s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"phoneNumber": "09120000001"})
	expectStatus(t, rec, http.StatusOK)

	rec = s.do(t, http.MethodPost, "/api/auth/register-admin", token, map[string]string{
		"firstName": "X", "lastName": "Y", "nationalId": "0022222222", "phoneNumber": "09120000002",
	})
	expectStatus(t, rec, http.StatusForbidden)
}

func TestAuthorization(t *testing.T) {
	s := newTestServer(t)
	token := s.registerPatient(t, "09120000001", "0011111111")

	expectStatus(t, s.do(t, http.MethodGet, "/api/reservations", "", nil), http.StatusUnauthorized)
	expectStatus(t, s.do(t, http.MethodGet, "/api/reservations", "garbage", nil), http.StatusUnauthorized)
	expectStatus(t, s.do(t, http.MethodGet, "/api/reservations/all", token, nil), http.StatusForbidden)
	expectStatus(t, s.do(t, http.MethodGet, "/api/reservations/all", s.admin, nil), http.StatusOK)
	expectStatus(t, s.do(t, http.MethodPost, "/api/specialties", token, map[string]string{"name": "Surgery"}), http.StatusForbidden)
	expectStatus(t, s.do(t, http.MethodGet, "/api/specialties", "", nil), http.StatusOK)
}

func TestWorkingHoursAndSlots(t *testing.T) {
	s := newTestServer(t)
	spID := s.specialty.ID.String()

	rec := s.do(t, http.MethodPost, "/api/workinghours", s.admin, map[string]any{
		"specialtyId": spID, "dayOfWeek": 1, "startTime": "09:00", "endTime": "10:00", "slotDurationMinutes": 30,
	})
	expectStatus(t, rec, http.StatusCreated)
	created := decode[workingHourResponse](t, rec)
	if created.StartTime.String() != "09:00" || created.DayName != "Monday" {
		t.Fatalf("created = %+v", created)
	}

	rec = s.do(t, http.MethodPost, "/api/workinghours", s.admin, map[string]any{
		"specialtyId": spID, "dayOfWeek": 1, "startTime": "09:30", "endTime": "11:00",
	})
	expectStatus(t, rec, http.StatusConflict)
	if body := decode[errorResponse](t, rec); body.Code != string(calendar.KindTimeConflict) {
		t.Fatalf("code = %q", body.Code)
	}

	rec = s.do(t, http.MethodPost, "/api/workinghours", s.admin, map[string]any{
		"specialtyId": spID, "dayOfWeek": 2, "startTime": "11:00", "endTime": "10:00",
	})
	expectStatus(t, rec, http.StatusBadRequest)

	rec = s.do(t, http.MethodGet, "/api/workinghours/generate-slots/"+spID+"?fromDate=2030-01-07&toDate=2030-01-08", "", nil)
	expectStatus(t, rec, http.StatusOK)
	days := decode[[]dailySlotsResponse](t, rec)
	if len(days) != 2 || len(days[0].Slots) != 2 || len(days[1].Slots) != 0 {
		t.Fatalf("days = %+v", days)
	}

	rec = s.do(t, http.MethodGet, "/api/workinghours/generate-slots/"+spID+"?fromDate=2030-01-01&toDate=2030-01-20", "", nil)
	expectStatus(t, rec, http.StatusBadRequest)

	expectStatus(t, s.do(t, http.MethodDelete, "/api/workinghours/"+created.ID.String(), s.admin, nil), http.StatusNoContent)
	rec = s.do(t, http.MethodGet, "/api/workinghours/specialty/"+spID, s.admin, nil)
	expectStatus(t, rec, http.StatusOK)
	if list := decode[[]workingHourResponse](t, rec); len(list) != 0 {
		t.Fatalf("active after deactivate = %+v", list)
	}
}

func TestReservationLifecycle(t *testing.T) {
	s := newTestServer(t)
	spID := s.specialty.ID.String()
	alice := s.registerPatient(t, "09120000001", "0011111111")
	bob := s.registerPatient(t, "09120000002", "0022222222")

	rec := s.do(t, http.MethodPost, "/api/reservations", alice, map[string]string{
		"specialtyId": spID, "reservationDate": "2030-01-07", "startTime": "09:00", "endTime": "10:00",
	})
	expectStatus(t, rec, http.StatusCreated)
	res := decode[reservationResponse](t, rec)
	if res.Status != calendar.StatusPending || res.SpecialtyName != "Orthodontics" {
		t.Fatalf("reservation = %+v", res)
	}

	rec = s.do(t, http.MethodPost, "/api/reservations", bob, map[string]string{
		"specialtyId": spID, "reservationDate": "2030-01-07", "startTime": "09:30", "endTime": "10:00",
	})
	expectStatus(t, rec, http.StatusConflict)

	rec = s.do(t, http.MethodGet, "/api/reservations/available-times?date=2030-01-07&specialtyId="+spID+"&durationMinutes=60", "", nil)
	expectStatus(t, rec, http.StatusOK)
	slots := decode[[]slotResponse](t, rec)
	// 08:00–20:00 по часу, минус занятый 09:00–10:00.
	if len(slots) != 11 || slots[0].StartTime.String() != "08:00" || slots[1].StartTime.String() != "10:00" {
		t.Fatalf("slots = %+v", slots)
	}

	rec = s.do(t, http.MethodPut, "/api/reservations/"+res.ID.String(), alice, map[string]string{"startTime": "10:00", "endTime": "10:30"})
	expectStatus(t, rec, http.StatusOK)
	if got := decode[reservationResponse](t, rec); got.StartTime.String() != "10:00" || got.ReservationDate != "2030-01-07" {
		t.Fatalf("updated = %+v", got)
	}

	expectStatus(t, s.do(t, http.MethodGet, "/api/reservations/"+res.ID.String(), bob, nil), http.StatusNotFound)

	rec = s.do(t, http.MethodPatch, "/api/reservations/"+res.ID.String()+"/status", s.admin, map[string]string{"status": "confirmed"})
	expectStatus(t, rec, http.StatusOK)
	if !strings.Contains(s.sms.last, "confirmed") {
		t.Fatalf("sms = %q", s.sms.last)
	}

	rec = s.do(t, http.MethodPut, "/api/reservations/"+res.ID.String(), alice, map[string]string{"startTime": "11:00", "endTime": "11:30"})
	expectStatus(t, rec, http.StatusBadRequest)

	rec = s.do(t, http.MethodGet, "/api/reservations", alice, nil)
	expectStatus(t, rec, http.StatusOK)
	page := decode[repository.Page[reservationResponse]](t, rec)
	if page.Total != 1 || page.Items[0].Status != calendar.StatusConfirmed {
		t.Fatalf("own = %+v", page)
	}

	expectStatus(t, s.do(t, http.MethodDelete, "/api/reservations/"+res.ID.String(), alice, nil), http.StatusOK)
	rec = s.do(t, http.MethodDelete, "/api/reservations/"+res.ID.String(), alice, nil)
	expectStatus(t, rec, http.StatusBadRequest)
	if body := decode[errorResponse](t, rec); body.Code != string(calendar.KindAlreadyCancelled) {
		t.Fatalf("code = %q", body.Code)
	}

	rec = s.do(t, http.MethodGet, "/api/reservations/"+res.ID.String()+"/history", s.admin, nil)
	expectStatus(t, rec, http.StatusOK)
	if events := decode[[]eventResponse](t, rec); len(events) != 4 {
		t.Fatalf("history = %+v", events)
	}
}

func TestAvailableByWorkingHours(t *testing.T) {
	s := newTestServer(t)
	spID := s.specialty.ID.String()

	expectStatus(t, s.do(t, http.MethodPost, "/api/workinghours", s.admin, map[string]any{
		"specialtyId": spID, "dayOfWeek": 1, "startTime": "14:00", "endTime": "15:00", "slotDurationMinutes": 20,
	}), http.StatusCreated)

	rec := s.do(t, http.MethodGet, "/api/reservations/available?specialtyId="+spID+"&fromDate=2030-01-07&toDate=2030-01-07", "", nil)
	expectStatus(t, rec, http.StatusOK)
	days := decode[[]dailySlotsResponse](t, rec)
	if len(days) != 1 || len(days[0].Slots) != 3 || days[0].Slots[2].EndTime.String() != "15:00" {
		t.Fatalf("days = %+v", days)
	}

	rec = s.do(t, http.MethodGet, "/api/reservations/available?specialtyId="+spID+"&fromDate=2030-01-08&toDate=2030-01-07", "", nil)
	expectStatus(t, rec, http.StatusBadRequest)
	if body := decode[errorResponse](t, rec); body.Code != string(calendar.KindInvalidRange) {
		t.Fatalf("code = %q", body.Code)
	}

	rec = s.do(t, http.MethodGet, "/api/reservations/schedule?specialtyId="+spID+"&date=2030-01-07", s.admin, nil)
	expectStatus(t, rec, http.StatusOK)
	if all := decode[[]slotResponse](t, rec); len(all) != 3 || !all[0].IsAvailable {
		t.Fatalf("schedule = %+v", all)
	}
}
