package web

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/rentalmngr/internal/alert"
	"github.com/vbonduro/rentalmngr/internal/db"
	"github.com/vbonduro/rentalmngr/internal/document"
	"github.com/vbonduro/rentalmngr/internal/domain"
	"github.com/vbonduro/rentalmngr/internal/imagefetch"
	"github.com/vbonduro/rentalmngr/internal/photostore/local"
	"github.com/vbonduro/rentalmngr/internal/service"
	"github.com/vbonduro/rentalmngr/internal/store"
)

var testNow = time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) *Server {
	d, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	photos, err := local.NewLocalPhotoStore(t.TempDir())
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clock := func() time.Time { return testNow }
	properties := store.NewPropertyStore(d)
	tenants := store.NewTenantStore(d)
	income := store.NewIncomeStore(d)

	svc := service.NewRentalService(service.Repositories{
		Properties: properties,
		Rooms:      store.NewRoomStore(d),
		RoomPhotos: store.NewRoomPhotoStore(d),
		Tenants:    tenants,
		Income:     income,
		Expenses:   store.NewExpenseStore(d),
		HouseRules: store.NewHouseRuleStore(d),
		Reminders:  store.NewHouseholdReminderStore(d),
	},
		photos,
		imagefetch.New(photos, logger),
		document.New(document.WithClock(clock), document.WithLogger(logger)),
		alert.NewEngine(properties, tenants, income, nil, logger, alert.WithClock(clock)),
		logger,
		service.WithClock(clock),
	)
	return NewServer(svc, logger)
}

func do(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type seeded struct {
	property domain.Property
	room     domain.Room
	tenant   domain.Tenant
}

func seedHTTP(t *testing.T, srv *Server) seeded {
	t.Helper()
	w := do(t, srv, http.MethodPost, "/properties/", `{"name":"Piso Centro","address":"Calle Mayor 1"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	p := decode[domain.Property](t, w)

	w = do(t, srv, http.MethodPost, "/properties/"+p.ID.String()+"/rooms", `{"name":"Hab 1","monthly_rent":"450"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	room := decode[domain.Room](t, w)

	w = do(t, srv, http.MethodPost, "/properties/"+p.ID.String()+"/tenants",
		`{"full_name":"Ana Ruiz","dni":"12345678Z","contract_start":"2026-01-01","contract_months":3,"room_id":"`+room.ID.String()+`"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	tenant := decode[domain.Tenant](t, w)

	return seeded{property: p, room: room, tenant: tenant}
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	w := do(t, srv, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}

func TestListPropertiesEmpty(t *testing.T) {
	srv := newTestServer(t)
	w := do(t, srv, http.MethodGet, "/properties/", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestErrorStatusMapping(t *testing.T) {
	srv := newTestServer(t)
	s := seedHTTP(t, srv)
	pid := s.property.ID.String()

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"malformed id", http.MethodGet, "/properties/not-a-uuid/", "", http.StatusBadRequest},
		{"unknown property", http.MethodGet, "/properties/00000000-0000-0000-0000-000000000001/", "", http.StatusNotFound},
		{"blank name", http.MethodPost, "/properties/", `{"name":"  "}`, http.StatusBadRequest},
		{"unknown field", http.MethodPost, "/properties/", `{"name":"x","floors":3}`, http.StatusBadRequest},
		{"negative rent", http.MethodPost, "/properties/" + pid + "/rooms", `{"name":"Hab 2","monthly_rent":"-5"}`, http.StatusBadRequest},
		{"bad date", http.MethodPost, "/properties/" + pid + "/tenants", `{"full_name":"Luis","contract_start":"01/02/2026"}`, http.StatusBadRequest},
		{"end before start", http.MethodPost, "/properties/" + pid + "/tenants", `{"full_name":"Luis","contract_start":"2026-05-01","contract_end":"2026-04-01"}`, http.StatusBadRequest},
		{"bad summary month", http.MethodGet, "/properties/" + pid + "/summary?year=2026&month=13", "", http.StatusBadRequest},
		{"bad template", http.MethodGet, "/tenants/" + s.tenant.ID.String() + "/contract.pdf?template=fancy", "", http.StatusBadRequest},
		{"missing photo", http.MethodGet, "/rooms/" + s.room.ID.String() + "/photos/0", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, srv, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
			body := decode[map[string]string](t, w)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestTenantLifecycle(t *testing.T) {
	srv := newTestServer(t)
	s := seedHTTP(t, srv)

	require.NotNil(t, s.tenant.ContractEnd)
	assert.Equal(t, "2026-04-30", s.tenant.ContractEnd.Format(time.DateOnly))
	require.NotNil(t, s.tenant.Room)
	assert.Equal(t, "Hab 1", s.tenant.Room.Name)

	w := do(t, srv, http.MethodPost, "/tenants/"+s.tenant.ID.String()+"/renew", `{"months":6}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	renewed := decode[domain.Tenant](t, w)
	assert.Equal(t, "2026-05-01", renewed.ContractStart.Format(time.DateOnly))
	assert.Equal(t, "2026-11-30", renewed.ContractEnd.Format(time.DateOnly))

	w = do(t, srv, http.MethodDelete, "/rooms/"+s.room.ID.String()+"/tenant", "")
	require.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, srv, http.MethodDelete, "/tenants/"+s.tenant.ID.String()+"/", "")
	require.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, srv, http.MethodGet, "/properties/"+s.property.ID.String()+"/tenants", "")
	require.Equal(t, http.StatusOK, w.Code)
	tenants := decode[[]domain.Tenant](t, w)
	require.Len(t, tenants, 1)
	assert.False(t, tenants[0].Active)
}

func TestIncomeAndAlerts(t *testing.T) {
	srv := newTestServer(t)
	s := seedHTTP(t, srv)
	pid := s.property.ID.String()

	w := do(t, srv, http.MethodPost, "/properties/"+pid+"/income/generate?month=2026-03", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	generated := decode[[]domain.Income](t, w)
	require.Len(t, generated, 1)
	assert.Equal(t, "450", generated[0].Amount.String())

	w = do(t, srv, http.MethodGet, "/alerts", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	alerts := decode[[]domain.LocalAlert](t, w)
	require.Len(t, alerts, 1)
	assert.Equal(t, domain.AlertUnpaidRent, alerts[0].Kind)
	assert.Equal(t, "Pago pendiente — Hab 1", alerts[0].Title)

	w = do(t, srv, http.MethodPost, "/income/"+generated[0].ID.String()+"/paid", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	paid := decode[domain.Income](t, w)
	assert.True(t, paid.Paid)
	require.NotNil(t, paid.PaymentDate)

	w = do(t, srv, http.MethodGet, "/alerts", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = do(t, srv, http.MethodPost, "/properties/"+pid+"/expenses", `{"amount":"100","category":"suministros","date":"2026-03-02"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(t, srv, http.MethodGet, "/properties/"+pid+"/summary?year=2026&month=3", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var sum struct {
		TotalIncome   string  `json:"total_income"`
		PaidIncome    string  `json:"paid_income"`
		TotalExpenses string  `json:"total_expenses"`
		NetProfit     string  `json:"net_profit"`
		ProfitMargin  float64 `json:"profit_margin"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sum))
	assert.Equal(t, "450", sum.TotalIncome)
	assert.Equal(t, "450", sum.PaidIncome)
	assert.Equal(t, "100", sum.TotalExpenses)
	assert.Equal(t, "350", sum.NetProfit)
	assert.InDelta(t, 77.78, sum.ProfitMargin, 0.01)

	w = do(t, srv, http.MethodDelete, "/income/"+generated[0].ID.String()+"/paid", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[domain.Income](t, w).Paid)
}

func pngBytes(t *testing.T) []byte {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 16, 12))))
	return buf.Bytes()
}

func multipartBody(t *testing.T, data []byte) (*bytes.Buffer, string) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("image", "room.png")
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func TestPhotoUploadServeDelete(t *testing.T) {
	srv := newTestServer(t)
	s := seedHTTP(t, srv)
	base := "/rooms/" + s.room.ID.String() + "/photos"

	body, ct := multipartBody(t, pngBytes(t))
	req := httptest.NewRequest(http.MethodPost, base, body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	photo := decode[domain.RoomPhoto](t, w)
	assert.Equal(t, "image/png", photo.MimeType)

	w = do(t, srv, http.MethodGet, base+"/0", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, pngBytes(t), w.Body.Bytes())

	w = do(t, srv, http.MethodDelete, base+"/0", "")
	require.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, srv, http.MethodGet, base+"/0", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPhotoUploadRejectsNonImage(t *testing.T) {
	srv := newTestServer(t)
	s := seedHTTP(t, srv)

	body, ct := multipartBody(t, []byte("just some text, not an image"))
	req := httptest.NewRequest(http.MethodPost, "/rooms/"+s.room.ID.String()+"/photos", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReminderLifecycle(t *testing.T) {
	srv := newTestServer(t)
	s := seedHTTP(t, srv)
	base := "/properties/" + s.property.ID.String() + "/reminders"

	w := do(t, srv, http.MethodPost, base, `{"title":"Pagar el agua","reminder_type":"pago","due_date":"2026-03-20","due_time":"09:00"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	reminder := decode[domain.HouseholdReminder](t, w)
	assert.Equal(t, domain.ReminderPayment, reminder.Type)
	assert.Equal(t, "2026-03-20", reminder.DueDate.Format(time.DateOnly))

	w = do(t, srv, http.MethodPost, base, `{"title":"Sin fecha"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = do(t, srv, http.MethodPost, base, `{"title":"Fiesta","reminder_type":"fiesta","due_date":"2026-03-20"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	item := "/reminders/" + reminder.ID.String()
	w = do(t, srv, http.MethodPost, item+"/completed", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, decode[domain.HouseholdReminder](t, w).Completed)

	w = do(t, srv, http.MethodGet, base+"?pending=true", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]domain.HouseholdReminder](t, w))

	w = do(t, srv, http.MethodDelete, item+"/completed", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[domain.HouseholdReminder](t, w).Completed)

	w = do(t, srv, http.MethodGet, base+"?pending=yes-please", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, srv, http.MethodDelete, item+"/", "")
	require.Equal(t, http.StatusNoContent, w.Code)
	w = do(t, srv, http.MethodDelete, item+"/", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSniffImage(t *testing.T) {
	webp := append([]byte("RIFF\x00\x00\x00\x00WEBP"), make([]byte, 8)...)
	mime, ok := sniffImage(webp)
	assert.True(t, ok)
	assert.Equal(t, "image/webp", mime)

	mime, ok = sniffImage(pngBytes(t))
	assert.True(t, ok)
	assert.Equal(t, "image/png", mime)

	_, ok = sniffImage([]byte("%PDF-1.4"))
	assert.False(t, ok)
}

func TestDocumentEndpoints(t *testing.T) {
	srv := newTestServer(t)
	s := seedHTTP(t, srv)

	for _, tmpl := range []string{"", "legal", "structured"} {
		w := do(t, srv, http.MethodGet, "/tenants/"+s.tenant.ID.String()+"/contract.pdf?template="+tmpl, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Header().Get("Content-Disposition"), "contrato-")
		assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
	}

	w := do(t, srv, http.MethodGet, "/rooms/"+s.room.ID.String()+"/ad.pdf?contact=600123123", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
}

func TestParseMonth(t *testing.T) {
	fallback := time.Date(2026, time.July, 4, 0, 0, 0, 0, time.UTC)
	got, err := parseMonth("", fallback)
	require.NoError(t, err)
	assert.Equal(t, fallback, got)

	got, err = parseMonth("2026-02", fallback)
	require.NoError(t, err)
	assert.Equal(t, time.February, got.Month())

	got, err = parseMonth("2026-02-17", fallback)
	require.NoError(t, err)
	assert.Equal(t, 17, got.Day())

	_, err = parseMonth("feb 2026", fallback)
	assert.ErrorIs(t, err, errBadRequest)
}
