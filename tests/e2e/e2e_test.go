package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"renthaven/internal/config"
	"renthaven/internal/database"
	"renthaven/internal/domain"
	"renthaven/internal/middleware"
	"renthaven/internal/modules/auth"
	"renthaven/internal/modules/booking"
	"renthaven/internal/modules/catalog"
	"renthaven/internal/modules/maintenance"
	"renthaven/internal/modules/mpesa"
	"renthaven/internal/modules/payment"
	jwtsvc "renthaven/internal/pkg/jwt"
	"renthaven/internal/repository"
)

type testSuite struct {
	router  *gin.Engine
	db      *gorm.DB
	gateway *gatewayStub
}

type envelope struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   *errorDetail           `json:"error,omitempty"`
}

type errorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// gatewayStub fakes the Daraja sandbox: a token endpoint and an STK push
// endpoint whose behavior tests can flip per request.
type gatewayStub struct {
	server       *httptest.Server
	pushCalls    int
	nextCheckout string
	failNext     bool
}

func newGatewayStub() *gatewayStub {
	g := &gatewayStub{nextCheckout: "ws_CO_0001"}
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/v1/generate", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{
			"access_token": "stub-token",
			"expires_in":   "3599",
		})
	})
	mux.HandleFunc("/mpesa/stkpush/v1/processrequest", func(w http.ResponseWriter, r *http.Request) {
		g.pushCalls++
		if g.failNext {
			g.failNext = false
			_ = json.NewEncoder(w).Encode(map[string]string{
				"errorCode":    "500.001.1001",
				"errorMessage": "Unable to lock subscriber",
			})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"CheckoutRequestID":   g.nextCheckout,
			"MerchantRequestID":   "29115-34620561-1",
			"ResponseCode":        "0",
			"ResponseDescription": "Success. Request accepted for processing",
		})
	})
	g.server = httptest.NewServer(mux)
	return g
}

func setupSuite(t *testing.T) *testSuite {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(":memory:")
	require.NoError(t, err)

	for _, model := range []interface{}{
		&domain.User{},
		&domain.Apartment{},
		&domain.Booking{},
		&domain.Payment{},
		&domain.MaintenanceRequest{},
		&domain.FamilyMember{},
		&domain.Notification{},
		&domain.OutboxMessage{},
	} {
		require.NoError(t, db.AutoMigrate(model), "migrate %T", model)
	}

	gateway := newGatewayStub()
	t.Cleanup(gateway.server.Close)

	mpesaCfg := config.Mpesa{
		BaseURL:         gateway.server.URL,
		ConsumerKey:     "test-key",
		ConsumerSecret:  "test-secret",
		ShortCode:       "174379",
		Passkey:         "test-passkey",
		CallbackBaseURL: "http://localhost:8080",
	}

	userRepo := repository.NewUserRepository(db)
	apartmentRepo := repository.NewApartmentRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	maintenanceRepo := repository.NewMaintenanceRepository(db)

	j := jwtsvc.New("e2e-test-secret", time.Hour)
	client := mpesa.NewClient(mpesaCfg, nil)

	authHandler := auth.NewHandler(auth.NewService(userRepo, j, nil))
	catalogHandler := catalog.NewHandler(catalog.NewService(apartmentRepo))
	bookingHandler := booking.NewHandler(booking.NewService(bookingRepo, apartmentRepo, client, nil))
	paymentHandler := payment.NewHandler(payment.NewService(paymentRepo, nil), nil)
	maintenanceHandler := maintenance.NewHandler(maintenance.NewService(maintenanceRepo, userRepo, nil))

	r := gin.New()
	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterPublicRoutes(v1)
		catalogHandler.RegisterPublicRoutes(v1)
		paymentHandler.RegisterPublicRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.Auth(j))
		{
			authHandler.RegisterProtectedRoutes(protected)
			bookingHandler.RegisterRoutes(protected)
			paymentHandler.RegisterProtectedRoutes(protected)
			maintenanceHandler.RegisterTenantRoutes(protected)

			landlord := protected.Group("/")
			landlord.Use(middleware.RequireRole("landlord", "admin"))
			{
				catalogHandler.RegisterLandlordRoutes(landlord)
			}
		}
	}

	return &testSuite{router: r, db: db, gateway: gateway}
}

func (s *testSuite) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func (s *testSuite) register(t *testing.T, email, role string) string {
	t.Helper()
	w, env := s.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"email":    email,
		"password": "correct-horse-battery",
		"name":     "E2E User",
		"role":     role,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	token, _ := env.Data["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func (s *testSuite) createApartment(t *testing.T, token string) int64 {
	t.Helper()
	w, env := s.do(t, http.MethodPost, "/api/v1/apartments", token, map[string]interface{}{
		"title":         "Two-bedroom in Kilimani",
		"city":          "Nairobi",
		"address":       "Argwings Kodhek Rd",
		"bedrooms":      2,
		"bathrooms":     1,
		"monthly_rent":  85000,
		"deposit_price": 85000,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id, _ := env.Data["id"].(float64)
	require.NotZero(t, id)
	return int64(id)
}

func TestBookingPaymentFlow(t *testing.T) {
	s := setupSuite(t)
	landlordToken := s.register(t, "landlord@e2e.test", "landlord")
	tenantToken := s.register(t, "tenant@e2e.test", "tenant")
	apartmentID := s.createApartment(t, landlordToken)

	s.gateway.nextCheckout = "ws_CO_FLOW_1"
	w, env := s.do(t, http.MethodPost, "/api/v1/bookings", tenantToken, map[string]interface{}{
		"apartmentId": fmt.Sprintf("%d", apartmentID),
		"startDate":   "2026-10-01",
		"endDate":     "2026-11-01",
		"paymentType": "rent",
		"totalAmount": "85000.50",
		"phoneNumber": "254712345678",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created, ok := env.Data["booking"].(map[string]interface{})
	require.True(t, ok, "response must carry the created booking")
	assert.Equal(t, "ws_CO_FLOW_1", created["checkout_id"])
	assert.NotZero(t, created["booking_id"])
	require.Equal(t, 1, s.gateway.pushCalls)

	// both records are written pending before the callback lands
	wStatus, envStatus := s.do(t, http.MethodGet, "/api/v1/payments/status?checkout_id=ws_CO_FLOW_1", tenantToken, nil)
	require.Equal(t, http.StatusOK, wStatus.Code)
	assert.Equal(t, "PENDING", envStatus.Data["status"])

	// gateway posts the success callback
	callback := map[string]interface{}{
		"Body": map[string]interface{}{
			"stkCallback": map[string]interface{}{
				"MerchantRequestID": "29115-34620561-1",
				"CheckoutRequestID": "ws_CO_FLOW_1",
				"ResultCode":        0,
				"ResultDesc":        "The service request is processed successfully.",
			},
		},
	}
	wCb, _ := s.do(t, http.MethodPost, "/api/v1/payments/mpesa/callback", "", callback)
	require.Equal(t, http.StatusOK, wCb.Code, wCb.Body.String())

	wStatus, envStatus = s.do(t, http.MethodGet, "/api/v1/payments/status?checkout_id=ws_CO_FLOW_1", tenantToken, nil)
	require.Equal(t, http.StatusOK, wStatus.Code)
	assert.Equal(t, "CONFIRMED", envStatus.Data["status"])

	// replaying the callback stays 200 and does not flip anything
	wCb, _ = s.do(t, http.MethodPost, "/api/v1/payments/mpesa/callback", "", callback)
	require.Equal(t, http.StatusOK, wCb.Code)

	var b domain.Booking
	require.NoError(t, s.db.First(&b, "checkout_id = ?", "ws_CO_FLOW_1").Error)
	assert.Equal(t, domain.BookingConfirmed, b.Status)

	// an outbox row exists for both the created booking and confirmed payment
	var outboxCount int64
	require.NoError(t, s.db.Model(&domain.OutboxMessage{}).Count(&outboxCount).Error)
	assert.GreaterOrEqual(t, outboxCount, int64(2))

	// the tenant can read the booking back; other users cannot see it
	bookingID := int64(created["booking_id"].(float64))
	wGet, envGet := s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/bookings/%d", bookingID), tenantToken, nil)
	require.Equal(t, http.StatusOK, wGet.Code)
	got, _ := envGet.Data["booking"].(map[string]interface{})
	assert.Equal(t, "CONFIRMED", got["status"])

	wGet, _ = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/bookings/%d", bookingID), landlordToken, nil)
	require.Equal(t, http.StatusNotFound, wGet.Code)
}

func TestBookingValidationErrors(t *testing.T) {
	s := setupSuite(t)
	tenantToken := s.register(t, "tenant@e2e.test", "tenant")

	w, env := s.do(t, http.MethodPost, "/api/v1/bookings", tenantToken, map[string]interface{}{
		"apartmentId": "abc",
		"paymentType": "rent",
		"totalAmount": "-5",
		"phoneNumber": "0712345678",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)

	details, ok := env.Error.Details.(map[string]interface{})
	require.True(t, ok, "expected field details, got %v", env.Error.Details)
	// every invalid field is reported at once
	assert.Contains(t, details, "ApartmentID")
	assert.Contains(t, details, "PhoneNumber")
	require.Zero(t, s.gateway.pushCalls, "invalid bookings must never reach the gateway")
}

func TestDoubleBookingRejected(t *testing.T) {
	s := setupSuite(t)
	landlordToken := s.register(t, "landlord@e2e.test", "landlord")
	tenantToken := s.register(t, "tenant@e2e.test", "tenant")
	otherToken := s.register(t, "other@e2e.test", "tenant")
	apartmentID := s.createApartment(t, landlordToken)

	s.gateway.nextCheckout = "ws_CO_FIRST"
	w, _ := s.do(t, http.MethodPost, "/api/v1/bookings", tenantToken, map[string]interface{}{
		"apartmentId": fmt.Sprintf("%d", apartmentID),
		"startDate":   "2026-10-01",
		"endDate":     "2026-11-01",
		"paymentType": "rent",
		"totalAmount": "85000",
		"phoneNumber": "254712345678",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, env := s.do(t, http.MethodPost, "/api/v1/bookings", otherToken, map[string]interface{}{
		"apartmentId": fmt.Sprintf("%d", apartmentID),
		"startDate":   "2026-10-15",
		"endDate":     "2026-11-15",
		"paymentType": "rent",
		"totalAmount": "85000",
		"phoneNumber": "254722000000",
	})
	require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	assert.Equal(t, "BOOKING_CONFLICT", env.Error.Code)
	require.Equal(t, 1, s.gateway.pushCalls, "conflicting booking must not push a payment")
}

func TestGatewayRejectionMarksBookingFailed(t *testing.T) {
	s := setupSuite(t)
	landlordToken := s.register(t, "landlord@e2e.test", "landlord")
	tenantToken := s.register(t, "tenant@e2e.test", "tenant")
	apartmentID := s.createApartment(t, landlordToken)

	s.gateway.failNext = true
	w, env := s.do(t, http.MethodPost, "/api/v1/bookings", tenantToken, map[string]interface{}{
		"apartmentId": fmt.Sprintf("%d", apartmentID),
		"paymentType": "deposit",
		"totalAmount": "85000",
		"phoneNumber": "254712345678",
	})
	require.Equal(t, http.StatusBadGateway, w.Code, w.Body.String())
	assert.Equal(t, "PAYMENT_FAILED", env.Error.Code)

	// the local pair exists and is already failed
	var b domain.Booking
	require.NoError(t, s.db.First(&b, "tenant_id IS NOT NULL").Error)
	assert.Equal(t, domain.BookingFailed, b.Status)
	var p domain.Payment
	require.NoError(t, s.db.First(&p, "booking_id = ?", b.ID).Error)
	assert.Equal(t, domain.PaymentFailed, p.Status)
}

func TestFailureCallback(t *testing.T) {
	s := setupSuite(t)
	landlordToken := s.register(t, "landlord@e2e.test", "landlord")
	tenantToken := s.register(t, "tenant@e2e.test", "tenant")
	apartmentID := s.createApartment(t, landlordToken)

	s.gateway.nextCheckout = "ws_CO_FAIL_1"
	w, _ := s.do(t, http.MethodPost, "/api/v1/bookings", tenantToken, map[string]interface{}{
		"apartmentId": fmt.Sprintf("%d", apartmentID),
		"paymentType": "deposit",
		"totalAmount": "85000",
		"phoneNumber": "254712345678",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	wCb, _ := s.do(t, http.MethodPost, "/api/v1/payments/mpesa/callback", "", map[string]interface{}{
		"Body": map[string]interface{}{
			"stkCallback": map[string]interface{}{
				"CheckoutRequestID": "ws_CO_FAIL_1",
				"ResultCode":        1032,
				"ResultDesc":        "Request cancelled by user",
			},
		},
	})
	require.Equal(t, http.StatusOK, wCb.Code)

	_, envStatus := s.do(t, http.MethodGet, "/api/v1/payments/status?checkout_id=ws_CO_FAIL_1", tenantToken, nil)
	assert.Equal(t, "FAILED", envStatus.Data["status"])

	var p domain.Payment
	require.NoError(t, s.db.First(&p, "checkout_id = ?", "ws_CO_FAIL_1").Error)
	assert.Equal(t, "Request cancelled by user", p.FailureReason)
}

func TestUnknownCallbackCheckout(t *testing.T) {
	s := setupSuite(t)

	for _, resultCode := range []int{0, 1037, 1032} {
		w, _ := s.do(t, http.MethodPost, "/api/v1/payments/mpesa/callback", "", map[string]interface{}{
			"Body": map[string]interface{}{
				"stkCallback": map[string]interface{}{
					"CheckoutRequestID": "ws_CO_GHOST",
					"ResultCode":        resultCode,
				},
			},
		})
		require.Equal(t, http.StatusNotFound, w.Code, "result code %d", resultCode)
	}
}

func TestAuthRequired(t *testing.T) {
	s := setupSuite(t)

	w, env := s.do(t, http.MethodPost, "/api/v1/bookings", "", map[string]interface{}{})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)

	// catalog browsing stays public
	w, _ = s.do(t, http.MethodGet, "/api/v1/apartments", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestLandlordRoleEnforced(t *testing.T) {
	s := setupSuite(t)
	tenantToken := s.register(t, "tenant@e2e.test", "tenant")

	w, _ := s.do(t, http.MethodPost, "/api/v1/apartments", tenantToken, map[string]interface{}{
		"title":        "Should not exist",
		"city":         "Nairobi",
		"address":      "Nowhere",
		"monthly_rent": 1000,
	})
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestMaintenanceFlow(t *testing.T) {
	s := setupSuite(t)
	tenantToken := s.register(t, "tenant@e2e.test", "tenant")

	w, env := s.do(t, http.MethodPost, "/api/v1/maintenance", tenantToken, map[string]interface{}{
		"apartment_id": 1,
		"kind":         "repair",
		"description":  "Kitchen tap is leaking",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "requested", env.Data["status"])

	w, _ = s.do(t, http.MethodGet, "/api/v1/maintenance", tenantToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
}
