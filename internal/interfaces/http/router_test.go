package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/jhoicas/gudang-api/internal/application/auth"
	"github.com/jhoicas/gudang-api/internal/application/ledger"
	"github.com/jhoicas/gudang-api/internal/application/report"
	"github.com/jhoicas/gudang-api/internal/application/usecase"
	"github.com/jhoicas/gudang-api/internal/domain/entity"
	"github.com/jhoicas/gudang-api/internal/infrastructure/memory"
	"github.com/jhoicas/gudang-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/gudang-api/internal/interfaces/http"
	"github.com/jhoicas/gudang-api/pkg/logger"
)

const productID = "11111111-1111-1111-1111-111111111111"

// newAPI arma la API completa sobre el almacén en memoria con un producto de stock 10.
func newAPI(t *testing.T) *fiber.App {
	t.Helper()
	log := logger.Nop()
	db := memory.NewStore()
	ctx := context.Background()

	now := time.Now()
	hash, err := usecase.HashPassword("Bodega2025")
	require.NoError(t, err)
	require.NoError(t, db.Users().Create(ctx, &entity.User{
		ID: testUserID, Username: testUsername, Email: "bodega@gudang.test", PasswordHash: hash,
		Role: entity.RoleAdmin, IsActive: true, CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, db.Products().Create(ctx, &entity.Product{
		ID: productID, SKU: "ELC-001", Name: "Cable HDMI", Category: "Electrónica", Unit: "pcs",
		Price: decimal.NewFromInt(15000), MinStock: 5, CurrentStock: 10, CreatedAt: now, UpdatedAt: now,
	}))

	audit := usecase.NewAuditRecorder(db.AuditLogs(), log)
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.FiberErrorHandler(log)})
	app.Use(apphttp.RequestLogger(log))
	apphttp.Router(app, apphttp.RouterDeps{
		Ledger:    ledger.NewStockLedger(memory.NewTxRunner(db), db.Products(), db.Transactions(), nil, log, ledger.DefaultOptions()),
		ProductUC: usecase.NewProductUseCase(db.Products(), audit, log),
		UserUC:    usecase.NewUserUseCase(db.Users(), audit, log),
		Audit:     audit,
		AuthUC: auth.NewAuthUseCase(db.Users(), audit, auth.JWTConfig{
			Secret: testJWTSecret, ExpMinutes: testExpMin, RefreshExpMinutes: 120, Issuer: testIssuer,
		}, log),
		Reports:   report.NewReportUseCase(db.Products(), db.Transactions(), pdf.NewMarotoReportGenerator("Gudang", language.Spanish), language.Spanish),
		Dashboard: report.NewDashboardUseCase(db.Products(), db.Transactions(), language.Spanish),
		JWTSecret: testJWTSecret,
		Log:       log,
	})
	return app
}

// call ejecuta la petición y decodifica el cuerpo JSON.
func call(t *testing.T, app *fiber.App, method, path, role string, body any) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]any{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func TestAPI_StockIn_Devuelve201ConStockAfter(t *testing.T) {
	app := newAPI(t)
	status, body := call(t, app, http.MethodPost, "/api/v1/stock/in", "admin", map[string]any{
		"product_id": productID, "quantity": 5, "reference": "PO-001", "transaction_date": "2025-01-15",
	})
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, true, body["success"])
	data := body["data"].(map[string]any)
	assert.EqualValues(t, 15, data["stock_after"])
	assert.Equal(t, "in", data["type"])
}

func TestAPI_StockOut_Insuficiente_Devuelve409ConDisponible(t *testing.T) {
	app := newAPI(t)
	status, body := call(t, app, http.MethodPost, "/api/v1/stock/out", "admin", map[string]any{
		"product_id": productID, "quantity": 11, "transaction_date": "2025-01-15",
	})
	require.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "insufficient_stock", body["kind"])
	assert.Equal(t, "INSUFFICIENT_STOCK", body["code"])
	details := body["details"].(map[string]any)
	assert.EqualValues(t, 10, details["available"])
}

func TestAPI_Ajuste_Negativo_Devuelve409ConStockActual(t *testing.T) {
	app := newAPI(t)
	status, body := call(t, app, http.MethodPost, "/api/v1/stock/adjustment", "admin", map[string]any{
		"product_id": productID, "quantity": -20, "reason": "damage",
		"notes": "Caja mojada en el muelle de carga", "transaction_date": "2025-01-15",
	})
	require.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "invalid_adjustment", body["kind"])
	details := body["details"].(map[string]any)
	assert.EqualValues(t, 10, details["current_stock"])
}

func TestAPI_Validacion_Devuelve400ConCampo(t *testing.T) {
	app := newAPI(t)
	status, body := call(t, app, http.MethodPost, "/api/v1/stock/in", "admin", map[string]any{
		"product_id": productID, "quantity": 0, "transaction_date": "2025-01-15",
	})
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "validation", body["kind"])
	assert.Contains(t, body, "details")
}

func TestAPI_ProductoInexistente_Devuelve404(t *testing.T) {
	app := newAPI(t)
	status, body := call(t, app, http.MethodGet, "/api/v1/stock/current/no-existe", "admin", nil)
	require.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "not_found", body["kind"])
}

func TestAPI_StockActualEHistorial(t *testing.T) {
	app := newAPI(t)
	for i := 0; i < 3; i++ {
		status, _ := call(t, app, http.MethodPost, "/api/v1/stock/out", "admin", map[string]any{
			"product_id": productID, "quantity": 2, "transaction_date": "2025-01-16",
		})
		require.Equal(t, http.StatusCreated, status)
	}

	status, body := call(t, app, http.MethodGet, "/api/v1/stock/current/"+productID, "admin", nil)
	require.Equal(t, http.StatusOK, status)
	level := body["data"].(map[string]any)
	assert.EqualValues(t, 4, level["current_stock"])
	assert.Equal(t, "low-stock", level["status"])

	status, body = call(t, app, http.MethodGet, "/api/v1/stock/history/"+productID+"?page=1&limit=10", "admin", nil)
	require.Equal(t, http.StatusOK, status)
	page := body["data"].(map[string]any)
	assert.Len(t, page["data"], 3)
	pagination := page["pagination"].(map[string]any)
	assert.EqualValues(t, 3, pagination["total"])
	assert.EqualValues(t, 1, pagination["pages"])

	status, body = call(t, app, http.MethodGet, "/api/v1/stock/history/"+productID+"?limit=15", "admin", nil)
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "validation", body["kind"])
}

func TestAPI_AuditLogs_SoloSuperadmin(t *testing.T) {
	app := newAPI(t)
	status, _ := call(t, app, http.MethodGet, "/api/v1/audit-logs", "admin", nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = call(t, app, http.MethodGet, "/api/v1/audit-logs", "superadmin", nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestAPI_SinToken_Devuelve401(t *testing.T) {
	app := newAPI(t)
	status, body := call(t, app, http.MethodGet, "/api/v1/products", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "auth", body["kind"])
	assert.Equal(t, "INVALID_CREDENTIALS", body["code"])
	assert.Equal(t, "credenciales inválidas", body["message"])
}

func TestAPI_RefreshInvalido_NoHablaDeCredenciales(t *testing.T) {
	app := newAPI(t)
	status, body := call(t, app, http.MethodPost, "/api/auth/refresh", "", map[string]any{
		"refresh_token": "no-es-un-jwt",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "INVALID_TOKEN", body["code"])
	assert.Equal(t, "token inválido o expirado", body["message"])
}

func TestAPI_Login(t *testing.T) {
	app := newAPI(t)
	status, body := call(t, app, http.MethodPost, "/api/auth/login", "", map[string]any{
		"username": testUsername, "password": "Bodega2025",
	})
	require.Equal(t, http.StatusOK, status, body)
	data := body["data"].(map[string]any)
	assert.NotEmpty(t, data["token"])
	assert.NotEmpty(t, data["refresh_token"])

	status, body = call(t, app, http.MethodPost, "/api/auth/login", "", map[string]any{
		"username": testUsername, "password": "incorrecta",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "auth", body["kind"])
}

func TestAPI_ReporteStockPDF(t *testing.T) {
	app := newAPI(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/stock.pdf", nil)
	req.Header.Set("Authorization", tokenForRole(t, "admin"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}

func TestAPI_RutaInexistente_Devuelve404(t *testing.T) {
	app := newAPI(t)
	status, body := call(t, app, http.MethodGet, "/api/nada", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "not_found", body["kind"])
}
