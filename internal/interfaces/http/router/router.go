package router

import (
	"github.com/gin-gonic/gin"

	"github.com/tradewiser/backend/internal/domain/identity"
	"github.com/tradewiser/backend/internal/interfaces/http/handler"
	"github.com/tradewiser/backend/internal/interfaces/http/middleware"
)

// Handlers bundles everything the router wires up
type Handlers struct {
	Auth      *handler.AuthHandler
	Warehouse *handler.WarehouseHandler
	Deposit   *handler.DepositHandler
	Process   *handler.ProcessHandler
	Commodity *handler.CommodityHandler
	Receipt   *handler.ReceiptHandler
	Loan      *handler.LoanHandler
	Payment   *handler.PaymentHandler
	WS        *handler.WSHandler
	System    *handler.SystemHandler
}

// Setup registers all routes with the engine. Authentication
// middleware is expected to be attached by the caller; public paths
// are declared in its skip list.
func Setup(engine *gin.Engine, h Handlers) {
	operatorOnly := middleware.RequireRoles(
		string(identity.RoleWarehouseOperator),
		string(identity.RoleAdmin),
	)
	adminOnly := middleware.RequireRoles(string(identity.RoleAdmin))

	engine.GET("/health", h.System.Health)
	engine.GET("/ws", h.WS.Serve)

	api := engine.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.RefreshToken)
		auth.POST("/logout", h.Auth.Logout)
		auth.GET("/me", h.Auth.Me)
		auth.PUT("/me", h.Auth.UpdateProfile)
		auth.POST("/change-password", h.Auth.ChangePassword)
	}

	warehouses := api.Group("/warehouses")
	{
		warehouses.GET("", h.Warehouse.List)
		warehouses.GET("/:id", h.Warehouse.Get)
		warehouses.POST("", operatorOnly, h.Warehouse.Create)
		warehouses.PUT("/:id", operatorOnly, h.Warehouse.Update)
		warehouses.DELETE("/:id", operatorOnly, h.Warehouse.Disable)
		warehouses.POST("/:id/enable", operatorOnly, h.Warehouse.Enable)
		warehouses.POST("/:id/pay-fees", h.Warehouse.PayFees)
	}

	deposits := api.Group("/deposits")
	{
		deposits.POST("", h.Deposit.Create)
		deposits.GET("", h.Deposit.List)
		deposits.GET("/:id", h.Deposit.Get)
	}

	processes := api.Group("/processes")
	{
		processes.GET("", h.Process.ListActive)
		processes.GET("/:id", h.Process.Get)
		processes.POST("/:id/advance", operatorOnly, h.Process.Advance)
		processes.POST("/:id/fail", operatorOnly, h.Process.Fail)
		processes.POST("/:id/restart", operatorOnly, h.Process.Restart)
	}

	commodities := api.Group("/commodities")
	{
		commodities.GET("", h.Commodity.List)
		commodities.GET("/:id", h.Commodity.Get)
		commodities.GET("/:id/sacks", h.Commodity.ListSacks)
		commodities.POST("/:id/sacks", h.Commodity.Split)
	}

	sacks := api.Group("/commodity-sacks")
	{
		sacks.GET("/:id", h.Commodity.GetSack)
		sacks.POST("/:id/transfer", h.Commodity.TransferSack)
	}

	receipts := api.Group("/receipts")
	{
		receipts.GET("", h.Receipt.List)
		receipts.POST("", operatorOnly, h.Receipt.Issue)
		receipts.GET("/verify/:code", h.Receipt.Verify)
		receipts.GET("/:id", h.Receipt.Get)
		receipts.POST("/:id/transfer", h.Receipt.Transfer)
		receipts.POST("/:id/withdraw", h.Receipt.Withdraw)
		receipts.POST("/:id/attachments", h.Receipt.RequestUpload)
		receipts.POST("/:id/attachments/confirm", h.Receipt.ConfirmUpload)
		receipts.GET("/:id/attachments/:key/download", h.Receipt.Download)
	}

	loans := api.Group("/loans")
	{
		loans.GET("", h.Loan.List)
		loans.POST("", h.Loan.Apply)
		loans.GET("/:id", h.Loan.Get)
		loans.POST("/:id/approve", adminOnly, h.Loan.Approve)
		loans.POST("/:id/repay", h.Loan.Repay)
	}

	payments := api.Group("/payments")
	{
		payments.GET("", h.Payment.List)
		payments.GET("/:id", h.Payment.Get)
	}
}
