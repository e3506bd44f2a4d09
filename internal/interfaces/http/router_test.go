package http_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Produccion-api/internal/application/auth"
	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/application/inventory"
	"github.com/jhoicas/Produccion-api/internal/application/production"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
	apphttp "github.com/jhoicas/Produccion-api/internal/interfaces/http"
)

// ── Fakes ────────────────────────────────────────────────────────────────────

type stubDashboards struct{ list []entity.Dashboard }

func (s stubDashboards) ListActiveOrdered(context.Context) ([]entity.Dashboard, error) {
	return s.list, nil
}

type stubMovements struct {
	list []*entity.StockMovement
	last repository.MovementFilter
}

func (s *stubMovements) List(_ context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	s.last = f
	return s.list, nil
}

type stubGenerator struct{}

func (stubGenerator) GenerateMovementReport(context.Context, inventory.MovementReport) ([]byte, error) {
	return []byte("%PDF-1.3 fake"), nil
}

type stubLots struct{}

func (stubLots) Get(context.Context, string, string) (*entity.Lot, error) { return nil, nil }
func (stubLots) Update(context.Context, *entity.Lot) error               { return nil }

// ── App de prueba ────────────────────────────────────────────────────────────

const adminPassword = "clave-admin"

type testServer struct {
	app       *fiber.App
	movements *stubMovements
}

func newTestServer(t *testing.T, referenceDigest string) *testServer {
	t.Helper()
	log := zerolog.Nop()
	order := production.NewDashboardOrder(stubDashboards{list: []entity.Dashboard{
		{ID: "corte", Name: "Corte", Position: 1},
		{ID: "costura", Name: "Costura", Position: 2},
	}}, time.Minute, log)
	movements := &stubMovements{list: []*entity.StockMovement{
		{ID: "m1", ProductID: "P1", VariationID: "V1", Quantity: 200, Type: entity.MovementTypeOut, User: "u-1"},
	}}
	applyMovements := inventory.NewApplyMovementsUseCase(log)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Migration:     production.NewLotMigrationUseCase(order, nil, nil, nil, nil, applyMovements, log),
		Production:    production.NewProductionUseCase(stubLots{}, nil, nil, nil, applyMovements, log),
		Dashboards:    order,
		Movements:     inventory.NewMovementReportUseCase(movements, stubGenerator{}),
		AdminPassword: auth.NewAdminPasswordUseCase(referenceDigest, log),
		JWTSecret:     testJWTSecret,
	})
	return &testServer{app: app, movements: movements}
}

func digestOf(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = strings.NewReader(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			reader = strings.NewReader(string(raw))
		}
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestHealth(t *testing.T) {
	s := newTestServer(t, digestOf(adminPassword))
	resp := s.do(t, http.MethodGet, "/health", "", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestTrigger_RequiereRolDeServicio(t *testing.T) {
	s := newTestServer(t, digestOf(adminPassword))
	resp := s.do(t, http.MethodPost, "/api/triggers/lots/corte/lot-1", tokenFor(t, "operator"), map[string]any{})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestTrigger_EventoNoElegible(t *testing.T) {
	s := newTestServer(t, digestOf(adminPassword))
	body := `{"before":{"status":"ongoing","target":10},"after":{"status":"ongoing","target":"10"}}`

	resp := s.do(t, http.MethodPost, "/api/triggers/lots/corte/lot-1", tokenFor(t, "service"), body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[dto.MigrationResultResponse](t, resp)
	assert.Equal(t, string(production.OutcomeNotEligible), out.Outcome)
}

func TestTrigger_SinSnapshot(t *testing.T) {
	s := newTestServer(t, digestOf(adminPassword))
	resp := s.do(t, http.MethodPost, "/api/triggers/lots/corte/lot-1", tokenFor(t, "service"), `{"after":{"status":"completed"}}`)
	out := decode[dto.MigrationResultResponse](t, resp)
	assert.Equal(t, string(production.OutcomeMissingSnapshot), out.Outcome)
}

func TestTrigger_CuerpoInvalido(t *testing.T) {
	s := newTestServer(t, digestOf(adminPassword))
	resp := s.do(t, http.MethodPost, "/api/triggers/lots/corte/lot-1", tokenFor(t, "admin"), "{no es json")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDashboards_OrdenYSiguiente(t *testing.T) {
	s := newTestServer(t, digestOf(adminPassword))
	token := tokenFor(t, "operator")

	order := decode[dto.DashboardOrderResponse](t, s.do(t, http.MethodGet, "/api/dashboards/order", token, nil))
	require.Len(t, order.Dashboards, 2)
	assert.Equal(t, "corte", order.Dashboards[0].ID)

	next := decode[dto.DashboardResponse](t, s.do(t, http.MethodGet, "/api/dashboards/corte/next", token, nil))
	assert.Equal(t, "costura", next.ID)

	resp := s.do(t, http.MethodGet, "/api/dashboards/costura/next", token, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDashboards_InvalidateSoloAdmin(t *testing.T) {
	s := newTestServer(t, digestOf(adminPassword))

	resp := s.do(t, http.MethodPost, "/api/dashboards/order/invalidate", tokenFor(t, "operator"), nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/api/dashboards/order/invalidate", tokenFor(t, "admin"), nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestProduction_LoteInexistente(t *testing.T) {
	s := newTestServer(t, digestOf(adminPassword))
	resp := s.do(t, http.MethodPut, "/api/dashboards/corte/lots/nope/production", tokenFor(t, "operator"), map[string]any{"produced": 5})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStock_ListaMovimientos(t *testing.T) {
	s := newTestServer(t, digestOf(adminPassword))

	out := decode[dto.StockMovementListResponse](t, s.do(t, http.MethodGet, "/api/stock/movements?product_id=P1&from=2026-01-01&to=2026-01-31&limit=5000", tokenFor(t, "operator"), nil))

	require.Len(t, out.Items, 1)
	assert.Equal(t, "Saída", out.Items[0].Type)
	assert.Equal(t, "P1", s.movements.last.ProductID)
	assert.Equal(t, 1000, s.movements.last.Limit, "el límite se acota")
	require.NotNil(t, s.movements.last.To)
	assert.Equal(t, 31, s.movements.last.To.Day())
	assert.Equal(t, 23, s.movements.last.To.Hour(), "la fecha hasta cubre el día completo")
}

func TestStock_FechaInvalida(t *testing.T) {
	s := newTestServer(t, digestOf(adminPassword))
	resp := s.do(t, http.MethodGet, "/api/stock/movements?from=ayer", tokenFor(t, "operator"), nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStock_ReportePDF(t *testing.T) {
	s := newTestServer(t, digestOf(adminPassword))
	resp := s.do(t, http.MethodGet, "/api/stock/movements/report?product_id=P1", tokenFor(t, "operator"), nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "movimientos_P1.pdf")
}

func TestVerifyPassword(t *testing.T) {
	cases := []struct {
		name       string
		reference  string
		token      string
		password   string
		wantStatus int
		wantValid  bool
	}{
		{"admin correcta", digestOf(adminPassword), "admin", adminPassword, http.StatusOK, true},
		{"admin incorrecta", digestOf(adminPassword), "admin", "otra", http.StatusOK, false},
		{"operador sin permiso", digestOf(adminPassword), "operator", adminPassword, http.StatusForbidden, false},
		{"contraseña vacía", digestOf(adminPassword), "admin", "", http.StatusBadRequest, false},
		{"digest mal configurado", "", "admin", adminPassword, http.StatusPreconditionFailed, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestServer(t, tc.reference)
			resp := s.do(t, http.MethodPost, "/api/admin/verify-password", tokenFor(t, tc.token), map[string]string{"password": tc.password})
			require.Equal(t, tc.wantStatus, resp.StatusCode)
			if tc.wantStatus == http.StatusOK {
				out := decode[dto.VerifyPasswordResponse](t, resp)
				assert.Equal(t, tc.wantValid, out.Valid)
				return
			}
			resp.Body.Close()
		})
	}
}

func TestVerifyPassword_PermisoExplicito(t *testing.T) {
	s := newTestServer(t, digestOf(adminPassword))
	resp := s.do(t, http.MethodPost, "/api/admin/verify-password", tokenFor(t, "operator", "MANAGE_SETTINGS"), map[string]string{"password": adminPassword})
	out := decode[dto.VerifyPasswordResponse](t, resp)
	assert.True(t, out.Valid)
}
