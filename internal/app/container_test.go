package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/barbershop-booking-backend/internal/auth"
	"github.com/nekogravitycat/barbershop-booking-backend/internal/availability"
	"github.com/nekogravitycat/barbershop-booking-backend/internal/db"
	"github.com/nekogravitycat/barbershop-booking-backend/internal/user"
)

// testEnv talks to a real Postgres through the full router.
// It needs TEST_DB_DSN; without it the tests are skipped.
type testEnv struct {
	router *gin.Engine
	pool   *pgxpool.Pool
	jwt    *auth.JWTManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	_ = godotenv.Load("../../.env")

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, dsn, db.PoolOptions{MaxConns: 4})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, db.EnsureSchema(ctx, pool))

	_, err = pool.Exec(ctx, "TRUNCATE TABLE public.bookings, public.days_off, public.weekly_schedules, public.offerings, public.barbers, public.shops, public.users CASCADE")
	require.NoError(t, err)

	gin.SetMode(gin.TestMode)
	c := NewContainer(Config{
		DBPool:     pool,
		JWTSecret:  "integration-secret",
		JWTTTL:     30 * time.Minute,
		BcryptCost: 4, // Lower cost for testing purposes
		Availability: availability.Config{
			BufferMinutes:   5,
			SlotStepMinutes: 15,
		},
		AvailabilityTimeout: 3 * time.Second,
	})
	return &testEnv{router: c.Router, pool: pool, jwt: c.JWTManager}
}

func (e *testEnv) createUser(t *testing.T, email string, isAdmin bool) (*user.User, string) {
	t.Helper()
	hash, err := auth.NewBcryptPasswordHasherWithCost(4).Hash("password123")
	require.NoError(t, err)

	u := &user.User{Email: email, PasswordHash: hash, IsActive: true, IsSystemAdmin: isAdmin}
	require.NoError(t, user.NewPgxRepository(e.pool).Create(context.Background(), u))

	token, err := e.jwt.GenerateAccessToken(u.ID, u.Email)
	require.NoError(t, err)
	return u, token
}

func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reqBody []byte
	if body != nil {
		var err error
		reqBody, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, path, bytes.NewBuffer(reqBody))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

type availabilityBody struct {
	AvailableTimes []string `json:"availableTimes"`
	Message        string   `json:"message"`
}

func TestBookingFlow(t *testing.T) {
	env := newTestEnv(t)

	_, adminToken := env.createUser(t, "admin@shop.test", true)
	owner, ownerToken := env.createUser(t, "owner@shop.test", false)
	_, clientToken := env.createUser(t, "client@shop.test", false)
	_, otherToken := env.createUser(t, "other@shop.test", false)

	// A weekday one to two weeks ahead, so the date is never in the past.
	day := time.Now().UTC().AddDate(0, 0, 8)
	date := day.Format(availability.DateLayout)

	var shopID, barberID, serviceID, bookingID string

	t.Run("setup shop, barber, service and hours", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/v1/shops", map[string]any{"name": "Corner Cuts", "owner_id": owner.ID}, adminToken)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var s struct{ ID string }
		decode(t, w, &s)
		shopID = s.ID

		w = env.do(t, http.MethodPost, "/v1/barbers", map[string]any{"shop_id": shopID, "display_name": "Sam"}, ownerToken)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var b struct{ ID string }
		decode(t, w, &b)
		barberID = b.ID

		w = env.do(t, http.MethodPost, "/v1/services", map[string]any{"shop_id": shopID, "name": "Fade", "duration_minutes": 30, "price_cents": 2500}, ownerToken)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var o struct{ ID string }
		decode(t, w, &o)
		serviceID = o.ID

		w = env.do(t, http.MethodPut, fmt.Sprintf("/v1/barbers/%s/schedule/%d", barberID, int(day.Weekday())),
			map[string]any{"start_time": "09:00", "end_time": "10:00", "available": true}, ownerToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})

	availabilityPath := func() string {
		return fmt.Sprintf("/v1/availability?barber_id=%s&date=%s&service_id=%s", barberID, date, serviceID)
	}

	t.Run("open day", func(t *testing.T) {
		w := env.do(t, http.MethodGet, availabilityPath(), nil, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var body availabilityBody
		decode(t, w, &body)
		assert.Equal(t, []string{"9:00 AM", "9:15 AM"}, body.AvailableTimes)
	})

	t.Run("client books and the slot disappears", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/v1/bookings",
			map[string]any{"barber_id": barberID, "service_id": serviceID, "date": date, "start_time": "9:00 AM"}, clientToken)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var bk struct {
			ID        string `json:"id"`
			StartTime string `json:"start_time"`
			Status    string `json:"status"`
		}
		decode(t, w, &bk)
		bookingID = bk.ID
		assert.Equal(t, "9:00 AM", bk.StartTime)
		assert.Equal(t, "pending", bk.Status)

		w = env.do(t, http.MethodGet, availabilityPath(), nil, "")
		var body availabilityBody
		decode(t, w, &body)
		assert.Empty(t, body.AvailableTimes)
	})

	t.Run("overlapping booking rejected", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/v1/bookings",
			map[string]any{"barber_id": barberID, "service_id": serviceID, "date": date, "start_time": "09:15"}, otherToken)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("strangers cannot see the booking", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/v1/bookings/"+bookingID, nil, otherToken)
		assert.Equal(t, http.StatusForbidden, w.Code)

		w = env.do(t, http.MethodGet, "/v1/bookings/"+bookingID, nil, ownerToken)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("cancelling frees the slot", func(t *testing.T) {
		w := env.do(t, http.MethodPatch, "/v1/bookings/"+bookingID+"/status", map[string]any{"status": "cancelled"}, clientToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = env.do(t, http.MethodGet, availabilityPath(), nil, "")
		var body availabilityBody
		decode(t, w, &body)
		assert.Equal(t, []string{"9:00 AM", "9:15 AM"}, body.AvailableTimes)
	})

	t.Run("simultaneous overlapping bookings admit one", func(t *testing.T) {
		tokens := []string{clientToken, otherToken}
		starts := []string{"9:00 AM", "9:15 AM"}
		codes := make([]int, len(starts))

		var wg sync.WaitGroup
		for i := range starts {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				w := env.do(t, http.MethodPost, "/v1/bookings",
					map[string]any{"barber_id": barberID, "service_id": serviceID, "date": date, "start_time": starts[i]}, tokens[i])
				codes[i] = w.Code
			}(i)
		}
		wg.Wait()

		assert.ElementsMatch(t, []int{http.StatusCreated, http.StatusConflict}, codes)

		w := env.do(t, http.MethodGet, availabilityPath(), nil, "")
		var body availabilityBody
		decode(t, w, &body)
		assert.Empty(t, body.AvailableTimes)
	})

	t.Run("day off closes the date", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/v1/barbers/"+barberID+"/days-off", map[string]any{"date": date, "reason": "vacation"}, ownerToken)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		w = env.do(t, http.MethodGet, availabilityPath(), nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		var body availabilityBody
		decode(t, w, &body)
		assert.Empty(t, body.AvailableTimes)
		assert.Equal(t, availability.MessageDayOff, body.Message)
	})
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}
