package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/m04kA/SMC-RitualBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-RitualBookingService/internal/domain"
	"github.com/m04kA/SMC-RitualBookingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-RitualBookingService/internal/integrations/addressservice"
	"github.com/m04kA/SMC-RitualBookingService/internal/integrations/paymentgateway"
	"github.com/m04kA/SMC-RitualBookingService/pkg/logger"
	"github.com/m04kA/SMC-RitualBookingService/pkg/metrics"
)

const (
	requesterUserID = int64(100)
	providerUserID  = int64(200)
	strangerUserID  = int64(300)
)

type recordingPublisher struct {
	mu   sync.Mutex
	keys []string
}

func (p *recordingPublisher) Publish(_ context.Context, key string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, key)
	return nil
}

type recordingNotifier struct {
	mu    sync.Mutex
	users []int64
}

func (n *recordingNotifier) Notify(_ context.Context, userID int64, _, _ string, _ int64) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.users = append(n.users, userID)
	return nil
}

// ownedAddresses адрес -> владелец
type ownedAddresses map[int64]int64

func (a ownedAddresses) Resolve(_ context.Context, addressID, ownerID int64) error {
	if a[addressID] != ownerID {
		return addressservice.ErrAddressNotFound
	}
	return nil
}

type RouterSuite struct {
	suite.Suite

	server    *httptest.Server
	publisher *recordingPublisher
	notifier  *recordingNotifier

	providerID int64
	virtualID  int64
	offlineID  int64
	date       time.Time
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	store := memory.NewStore()
	provider := store.AddProvider(domain.Provider{
		UserID:      providerUserID,
		DisplayName: "Pandit Sharma",
		HourlyRate:  decimal.NewFromInt(1000),
	})
	s.providerID = provider.ID
	s.virtualID = store.AddService(domain.Service{
		ProviderID:      provider.ID,
		Name:            "Online puja",
		BasePrice:       decimal.NewFromInt(500),
		DurationMinutes: 90,
		IsVirtual:       true,
		IsActive:        true,
	}).ID
	s.offlineID = store.AddService(domain.Service{
		ProviderID:      provider.ID,
		Name:            "Griha pravesh",
		BasePrice:       decimal.NewFromInt(2000),
		DurationMinutes: 120,
		IsActive:        true,
	}).ID

	s.date = time.Now().UTC().AddDate(0, 0, 14).Truncate(24 * time.Hour)
	s.publisher = &recordingPublisher{}
	s.notifier = &recordingNotifier{}
	log := logger.NewNop()

	router := NewRouter(Deps{
		Storage:         NewMemoryStorage(store),
		Addresses:       ownedAddresses{7: requesterUserID},
		Notifier:        s.notifier,
		Publisher:       s.publisher,
		Gateway:         paymentgateway.NewLocalGateway(log),
		Metrics:         metrics.New("test", prometheus.NewRegistry()),
		Logger:          log,
		MetricsPath:     "/metrics",
		Currency:        domain.DefaultCurrency,
		MeetingBaseURL:  "https://meet.example.com",
		DispatchTimeout: time.Second,
		RateLimiter:     middleware.NewRateLimiter(1000, 1000, time.Minute),
	})
	s.server = httptest.NewServer(router)
}

func (s *RouterSuite) TearDownTest() {
	s.server.Close()
}

func (s *RouterSuite) do(method, path string, userID int64, body any) (int, map[string]any) {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, s.server.URL+"/api/v1"+path, reader)
	s.Require().NoError(err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != 0 {
		req.Header.Set(middleware.HeaderUserID, strconv.FormatInt(userID, 10))
	}

	resp, err := s.server.Client().Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	var out map[string]any
	if resp.StatusCode != http.StatusNoContent {
		_ = json.NewDecoder(resp.Body).Decode(&out)
	}
	return resp.StatusCode, out
}

func (s *RouterSuite) createWindow(start, end string) {
	status, body := s.do(http.MethodPost, fmt.Sprintf("/providers/%d/availability-windows", s.providerID), providerUserID, map[string]any{
		"dayOfWeek": int(s.date.Weekday()),
		"startTime": start,
		"endTime":   end,
	})
	s.Require().Equal(http.StatusCreated, status, body)
}

func (s *RouterSuite) book(serviceID int64, mode, at string) (int, map[string]any) {
	req := map[string]any{
		"providerId":  s.providerID,
		"serviceId":   serviceID,
		"bookingDate": s.date.Format(domain.DateFormat),
		"bookingTime": at,
		"timezone":    "Asia/Kolkata",
		"mode":        mode,
	}
	if mode == string(domain.ModeOffline) {
		req["addressId"] = 7
	}
	return s.do(http.MethodPost, "/bookings", requesterUserID, req)
}

func bookingID(body map[string]any) int64 {
	booking := body["booking"].(map[string]any)
	return int64(booking["id"].(float64))
}

func (s *RouterSuite) TestFullLifecycle() {
	s.createWindow("09:00", "12:00")

	status, body := s.book(s.virtualID, "online", "10:00")
	s.Require().Equal(http.StatusCreated, status, body)
	s.Equal("pending", body["booking"].(map[string]any)["status"])
	s.Equal("2000.00", body["booking"].(map[string]any)["totalAmount"])
	s.NotNil(body["payment"])
	id := bookingID(body)

	for _, step := range []struct {
		action string
		status string
	}{
		{"confirm", "confirmed"},
		{"start", "in_progress"},
		{"complete", "completed"},
	} {
		code, resp := s.do(http.MethodPatch, fmt.Sprintf("/bookings/%d/%s", id, step.action), providerUserID, nil)
		s.Require().Equal(http.StatusOK, code, resp)
		s.Equal(step.status, resp["status"])
		if step.action == "start" {
			s.NotEmpty(resp["meetingLink"])
		}
	}

	code, resp := s.do(http.MethodPost, fmt.Sprintf("/bookings/%d/review", id), requesterUserID, map[string]any{
		"rating":  5,
		"comment": "Very well conducted",
	})
	s.Require().Equal(http.StatusCreated, code, resp)
	s.EqualValues(5, resp["providerRating"])
	s.EqualValues(1, resp["reviewCount"])

	code, resp = s.do(http.MethodPost, fmt.Sprintf("/bookings/%d/review", id), requesterUserID, map[string]any{"rating": 4})
	s.Equal(http.StatusConflict, code, resp)

	code, resp = s.do(http.MethodGet, fmt.Sprintf("/providers/%d/reviews", s.providerID), 0, nil)
	s.Require().Equal(http.StatusOK, code, resp)
	s.Len(resp["reviews"], 1)

	s.Equal([]string{
		domain.EventBookingCreated,
		domain.EventBookingConfirmed,
		domain.EventBookingStarted,
		domain.EventBookingCompleted,
		domain.EventBookingReviewed,
	}, s.publisher.keys)
	s.NotEmpty(s.notifier.users)
}

func (s *RouterSuite) TestOfflineBufferConflict() {
	s.createWindow("09:00", "18:00")

	status, body := s.book(s.offlineID, "offline", "12:00")
	s.Require().Equal(http.StatusCreated, status, body)

	status, body = s.book(s.offlineID, "offline", "12:30")
	s.Equal(http.StatusConflict, status, body)

	status, body = s.book(s.virtualID, "online", "13:30")
	s.Equal(http.StatusCreated, status, body)

	status, body = s.do(http.MethodGet, fmt.Sprintf("/providers/%d/availability?date=%s", s.providerID, s.date.Format(domain.DateFormat)), 0, nil)
	s.Require().Equal(http.StatusOK, status, body)
	for _, raw := range body["slots"].([]any) {
		slot := raw.(map[string]any)
		if slot["time"] == "12:00" || slot["time"] == "13:30" {
			s.Equal(false, slot["available"], slot["time"])
		}
		if slot["time"] == "12:30" {
			s.Equal(true, slot["available"], "online listing marks exact times only")
		}
	}

	status, body = s.do(http.MethodGet, fmt.Sprintf("/providers/%d/availability?date=%s&mode=offline", s.providerID, s.date.Format(domain.DateFormat)), 0, nil)
	s.Require().Equal(http.StatusOK, status, body)
	offline := map[string]bool{}
	for _, raw := range body["slots"].([]any) {
		slot := raw.(map[string]any)
		offline[slot["time"].(string)] = slot["available"].(bool)
	}
	s.False(offline["12:30"])
	s.False(offline["14:30"])
	s.True(offline["10:30"])
	s.True(offline["15:00"])

	status, _ = s.do(http.MethodGet, fmt.Sprintf("/providers/%d/availability?date=%s&mode=home", s.providerID, s.date.Format(domain.DateFormat)), 0, nil)
	s.Equal(http.StatusBadRequest, status)
}

func (s *RouterSuite) TestOutsideAvailability() {
	s.createWindow("09:00", "10:00")

	status, body := s.book(s.virtualID, "online", "15:00")
	s.Equal(http.StatusBadRequest, status, body)
}

func (s *RouterSuite) TestCancelAndReschedule() {
	s.createWindow("09:00", "18:00")

	_, body := s.book(s.virtualID, "online", "10:00")
	id := bookingID(body)

	status, resp := s.do(http.MethodPatch, fmt.Sprintf("/bookings/%d/reschedule", id), requesterUserID, map[string]any{
		"bookingDate": s.date.Format(domain.DateFormat),
		"bookingTime": "11:00",
		"reason":      "Family travel",
	})
	s.Require().Equal(http.StatusOK, status, resp)
	s.Equal("11:00", resp["bookingTime"])

	status, resp = s.do(http.MethodPatch, fmt.Sprintf("/bookings/%d/cancel", id), strangerUserID, nil)
	s.Equal(http.StatusForbidden, status, resp)

	status, resp = s.do(http.MethodPatch, fmt.Sprintf("/bookings/%d/cancel", id), requesterUserID, map[string]any{"cancellationReason": "Changed plans"})
	s.Require().Equal(http.StatusOK, status, resp)
	s.Equal("cancelled", resp["status"])

	status, body = s.book(s.virtualID, "online", "11:00")
	s.Equal(http.StatusCreated, status, body)
}

func (s *RouterSuite) TestListings() {
	s.createWindow("09:00", "18:00")
	s.book(s.virtualID, "online", "10:00")
	s.book(s.virtualID, "online", "11:00")

	status, body := s.do(http.MethodGet, fmt.Sprintf("/users/%d/bookings", requesterUserID), requesterUserID, nil)
	s.Require().Equal(http.StatusOK, status, body)
	s.Len(body["bookings"], 2)

	status, body = s.do(http.MethodGet, fmt.Sprintf("/providers/%d/bookings?status=pending", s.providerID), providerUserID, nil)
	s.Require().Equal(http.StatusOK, status, body)
	s.Len(body["bookings"], 2)

	status, _ = s.do(http.MethodGet, fmt.Sprintf("/providers/%d/bookings", s.providerID), requesterUserID, nil)
	s.Equal(http.StatusForbidden, status)

	status, _ = s.do(http.MethodGet, fmt.Sprintf("/providers/%d/bookings?startDate=bad", s.providerID), providerUserID, nil)
	s.Equal(http.StatusBadRequest, status)
}

func (s *RouterSuite) TestWindowManagement() {
	s.createWindow("09:00", "12:00")

	path := fmt.Sprintf("/providers/%d/availability-windows", s.providerID)

	status, body := s.do(http.MethodPost, path, providerUserID, map[string]any{
		"dayOfWeek": int(s.date.Weekday()),
		"startTime": "11:00",
		"endTime":   "13:00",
	})
	s.Equal(http.StatusConflict, status, body)

	status, body = s.do(http.MethodPost, path, requesterUserID, map[string]any{
		"dayOfWeek": 1,
		"startTime": "09:00",
		"endTime":   "10:00",
	})
	s.Equal(http.StatusForbidden, status, body)

	status, body = s.do(http.MethodGet, path, providerUserID, nil)
	s.Require().Equal(http.StatusOK, status, body)
	windows := body["windows"].([]any)
	s.Require().Len(windows, 1)
	windowID := int64(windows[0].(map[string]any)["id"].(float64))

	status, body = s.do(http.MethodPut, fmt.Sprintf("%s/%d", path, windowID), providerUserID, map[string]any{"endTime": "14:00"})
	s.Require().Equal(http.StatusOK, status, body)
	s.Equal("14:00", body["endTime"])

	status, body = s.do(http.MethodPatch, fmt.Sprintf("%s/%d/deactivate", path, windowID), providerUserID, nil)
	s.Require().Equal(http.StatusOK, status, body)
	s.Equal(false, body["isActive"])

	status, _ = s.do(http.MethodDelete, fmt.Sprintf("%s/%d", path, windowID), providerUserID, nil)
	s.Equal(http.StatusNoContent, status)

	status, _ = s.do(http.MethodDelete, fmt.Sprintf("%s/%d", path, windowID), providerUserID, nil)
	s.Equal(http.StatusNotFound, status)
}

func (s *RouterSuite) TestRequestValidation() {
	status, _ := s.do(http.MethodPost, "/bookings", 0, map[string]any{})
	s.Equal(http.StatusUnauthorized, status)

	status, body := s.do(http.MethodPost, "/bookings", requesterUserID, map[string]any{
		"providerId":  s.providerID,
		"serviceId":   s.virtualID,
		"bookingDate": "15-10-2025",
		"bookingTime": "10:00",
		"timezone":    "UTC",
		"mode":        "online",
	})
	s.Equal(http.StatusBadRequest, status, body)

	status, _ = s.do(http.MethodPatch, "/bookings/abc/confirm", providerUserID, nil)
	s.Equal(http.StatusBadRequest, status)

	status, _ = s.do(http.MethodGet, "/bookings/9999", requesterUserID, nil)
	s.Equal(http.StatusNotFound, status)

	status, _ = s.do(http.MethodGet, fmt.Sprintf("/providers/%d/availability?date=tomorrow", s.providerID), 0, nil)
	s.Equal(http.StatusBadRequest, status)
}

func (s *RouterSuite) TestMetricsEndpoint() {
	resp, err := s.server.Client().Get(s.server.URL + "/metrics")
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)
}
