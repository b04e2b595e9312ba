package router

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	commodityapp "github.com/tradewiser/backend/internal/application/commodity"
	depositapp "github.com/tradewiser/backend/internal/application/deposit"
	identityapp "github.com/tradewiser/backend/internal/application/identity"
	loanapp "github.com/tradewiser/backend/internal/application/loan"
	paymentapp "github.com/tradewiser/backend/internal/application/payment"
	processapp "github.com/tradewiser/backend/internal/application/process"
	receiptapp "github.com/tradewiser/backend/internal/application/receipt"
	warehouseapp "github.com/tradewiser/backend/internal/application/warehouse"
	"github.com/tradewiser/backend/internal/infrastructure/auth"
	"github.com/tradewiser/backend/internal/infrastructure/config"
	"github.com/tradewiser/backend/internal/infrastructure/ws"
	"github.com/tradewiser/backend/internal/interfaces/http/handler"
)

func testHandlers() Handlers {
	logger := zap.NewNop()
	jwtService := auth.NewJWTService(config.JWTConfig{Secret: "router-test-secret"})
	hub := ws.NewHub(config.WSConfig{}, logger)

	paymentService := paymentapp.NewService(nil, nil, nil, nil, nil, logger)

	return Handlers{
		Auth:      handler.NewAuthHandler(&identityapp.AuthService{}),
		Warehouse: handler.NewWarehouseHandler(warehouseapp.NewService(nil, nil, logger), paymentService),
		Deposit:   handler.NewDepositHandler(depositapp.NewService(nil, nil, nil, nil, logger)),
		Process:   handler.NewProcessHandler(processapp.NewService(nil, nil, logger)),
		Commodity: handler.NewCommodityHandler(commodityapp.NewService(nil, nil, nil, logger)),
		Receipt:   handler.NewReceiptHandler(receiptapp.NewService(nil, nil, nil, nil, nil, nil, logger)),
		Loan:      handler.NewLoanHandler(loanapp.NewService(nil, nil, nil, nil, nil, logger)),
		Payment:   handler.NewPaymentHandler(paymentService),
		WS:        handler.NewWSHandler(hub, jwtService, config.WSConfig{}, logger),
		System:    handler.NewSystemHandler(nil),
	}
}

func TestSetup_RegistersAllRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	Setup(engine, testHandlers())

	type route struct{ method, path string }
	registered := make(map[route]bool)
	for _, r := range engine.Routes() {
		registered[route{r.Method, r.Path}] = true
	}

	expected := []route{
		{"GET", "/health"},
		{"GET", "/ws"},
		{"POST", "/api/auth/register"},
		{"POST", "/api/auth/login"},
		{"POST", "/api/auth/refresh"},
		{"POST", "/api/auth/logout"},
		{"GET", "/api/auth/me"},
		{"GET", "/api/warehouses"},
		{"POST", "/api/warehouses"},
		{"GET", "/api/warehouses/:id"},
		{"PUT", "/api/warehouses/:id"},
		{"DELETE", "/api/warehouses/:id"},
		{"POST", "/api/warehouses/:id/pay-fees"},
		{"POST", "/api/deposits"},
		{"GET", "/api/deposits"},
		{"GET", "/api/deposits/:id"},
		{"GET", "/api/processes"},
		{"GET", "/api/processes/:id"},
		{"POST", "/api/processes/:id/advance"},
		{"POST", "/api/processes/:id/fail"},
		{"POST", "/api/processes/:id/restart"},
		{"GET", "/api/commodities"},
		{"GET", "/api/commodities/:id"},
		{"POST", "/api/commodities/:id/sacks"},
		{"GET", "/api/commodity-sacks/:id"},
		{"POST", "/api/commodity-sacks/:id/transfer"},
		{"GET", "/api/receipts"},
		{"POST", "/api/receipts"},
		{"GET", "/api/receipts/:id"},
		{"GET", "/api/receipts/verify/:code"},
		{"POST", "/api/receipts/:id/transfer"},
		{"POST", "/api/receipts/:id/withdraw"},
		{"POST", "/api/receipts/:id/attachments"},
		{"GET", "/api/receipts/:id/attachments/:key/download"},
		{"GET", "/api/loans"},
		{"POST", "/api/loans"},
		{"GET", "/api/loans/:id"},
		{"POST", "/api/loans/:id/approve"},
		{"POST", "/api/loans/:id/repay"},
		{"GET", "/api/payments"},
		{"GET", "/api/payments/:id"},
	}

	for _, r := range expected {
		assert.True(t, registered[r], "missing route %s %s", r.method, r.path)
	}
}
