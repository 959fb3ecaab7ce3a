package router

import (
	"github.com/gin-gonic/gin"
	"github.com/tunerp/backend/internal/interfaces/http/handler"
	"github.com/tunerp/backend/internal/interfaces/http/middleware"
)

// Handlers groups every API handler
type Handlers struct {
	Auth         *handler.AuthHandler
	Company      *handler.CompanyHandler
	User         *handler.UserHandler
	Admin        *handler.AdminHandler
	Client       *handler.ClientHandler
	Supplier     *handler.SupplierHandler
	Product      *handler.ProductHandler
	Stock        *handler.StockHandler
	Sale         *handler.SaleHandler
	Purchase     *handler.PurchaseHandler
	Payment      *handler.PaymentHandler
	Notification *handler.NotificationHandler
	Charge       *handler.ChargeHandler
	Quote        *handler.QuoteHandler
	Delivery     *handler.DeliveryHandler
	Return       *handler.ReturnHandler
	Employee     *handler.EmployeeHandler
	Report       *handler.ReportHandler
	OCR          *handler.OCRHandler
}

// RouteOptions carries the route-specific middleware built by the server
type RouteOptions struct {
	// LoginLimiter guards POST /auth/login; nil disables it
	LoginLimiter gin.HandlerFunc
}

// APIGroups builds the route groups of the ERP API. Tenant groups are
// scoped to the company of the token; /admin is reserved to the system
// administrator.
func APIGroups(h Handlers, opts RouteOptions) []RouteRegistrar {
	tenant := middleware.RequireCompany()
	companyAdmin := middleware.RequireCompanyAdmin()

	auth := NewDomainGroup("auth", "/auth")
	if opts.LoginLimiter != nil {
		auth.POST("/login", opts.LoginLimiter, h.Auth.Login)
	} else {
		auth.POST("/login", h.Auth.Login)
	}
	auth.POST("/refresh", h.Auth.Refresh).
		POST("/logout", h.Auth.Logout).
		POST("/change-password", h.Auth.ChangePassword)

	me := NewDomainGroup("users", "/users").
		GET("/me", h.User.GetMe).
		PUT("/me", h.User.UpdateMe)

	company := NewDomainGroup("company", "/company").Use(tenant)
	company.GET("", h.Company.Get).
		PUT("", companyAdmin, h.Company.Update).
		POST("/logo", companyAdmin, h.Company.UploadLogo)
	company.Group("users", "/users").Use(companyAdmin).
		GET("", h.User.List).
		POST("", h.User.Create).
		PUT("/:id", h.User.Update).
		DELETE("/:id", h.User.Delete).
		POST("/:id/reset-password", h.User.ResetPassword)

	admin := NewDomainGroup("admin", "/admin").Use(middleware.RequireSystemAdmin())
	admin.Group("companies", "/companies").
		POST("", h.Admin.CreateCompany).
		GET("", h.Admin.ListCompanies).
		GET("/:id", h.Admin.GetCompany).
		POST("/:id/suspend", h.Admin.Suspend).
		POST("/:id/reactivate", h.Admin.Reactivate).
		POST("/:id/ocr/reset", h.Admin.ResetOCR).
		PUT("/:id/ocr/limit", h.Admin.SetOCRLimit)
	admin.Group("users", "/users").
		POST("/:id/toggle", h.Admin.ToggleUser).
		POST("/:id/reset-password", h.Admin.ResetUserPassword)

	clients := NewDomainGroup("clients", "/clients").Use(tenant).
		POST("", h.Client.Create).
		GET("", h.Client.List).
		GET("/:id", h.Client.GetByID).
		PUT("/:id", h.Client.Update).
		DELETE("/:id", h.Client.Delete).
		PATCH("/:id/credit", h.Client.UpdateCredit).
		GET("/:id/stats", h.Client.Stats)

	suppliers := NewDomainGroup("suppliers", "/suppliers").Use(tenant).
		POST("", h.Supplier.Create).
		GET("", h.Supplier.List).
		GET("/:id", h.Supplier.GetByID).
		PUT("/:id", h.Supplier.Update).
		DELETE("/:id", h.Supplier.Delete).
		PATCH("/:id/debt", h.Supplier.UpdateDebt)

	products := NewDomainGroup("products", "/products").Use(tenant).
		POST("", h.Product.Create).
		GET("", h.Product.List).
		GET("/low-stock", h.Product.LowStock).
		GET("/out-of-stock", h.Product.OutOfStock).
		GET("/supplier/:supplierId", h.Product.BySupplier).
		GET("/:id", h.Product.GetByID).
		PUT("/:id", h.Product.Update).
		DELETE("/:id", h.Product.Delete)

	stock := NewDomainGroup("stock", "/stock").Use(tenant).
		GET("/movements", h.Stock.ListMovements).
		POST("/adjust", h.Stock.Adjust).
		PATCH("/products/:productId", h.Stock.UpdateStock).
		GET("/alerts", h.Stock.Alerts)

	sales := NewDomainGroup("sales", "/sales").Use(tenant).
		POST("", h.Sale.Create).
		GET("", h.Sale.List).
		GET("/export", h.Sale.Export).
		GET("/client/:clientId", h.Sale.ByClient).
		GET("/client/:clientId/stats", h.Sale.ClientStats).
		GET("/:id", h.Sale.GetByID).
		DELETE("/:id", h.Sale.Delete).
		GET("/:id/invoice", h.Sale.Invoice).
		POST("/:id/payments", h.Sale.AddPayment).
		DELETE("/:id/payments/:paymentId", h.Sale.RemovePayment)

	purchases := NewDomainGroup("purchases", "/purchases").Use(tenant).
		POST("", h.Purchase.Create).
		GET("", h.Purchase.List).
		GET("/export", h.Purchase.Export).
		GET("/supplier/:supplierId", h.Purchase.BySupplier).
		GET("/:id", h.Purchase.GetByID).
		DELETE("/:id", h.Purchase.Delete).
		GET("/:id/voucher", h.Purchase.Voucher).
		POST("/:id/payments", h.Purchase.AddPayment).
		DELETE("/:id/payments/:paymentId", h.Purchase.RemovePayment)

	salePayments := NewDomainGroup("sale-payments", "/sale-payments").Use(tenant).
		POST("", h.Payment.CreateSalePayment).
		GET("", h.Payment.ListSalePayments).
		GET("/client/:clientId", h.Payment.SalePaymentsByClient).
		GET("/client/:clientId/stats", h.Payment.ClientPaymentStats).
		GET("/sale/:saleId", h.Payment.SalePaymentsBySale).
		GET("/:id", h.Payment.GetSalePayment).
		PUT("/:id", h.Payment.UpdateSalePayment).
		DELETE("/:id", h.Payment.DeleteSalePayment)

	purchasePayments := NewDomainGroup("purchase-payments", "/purchase-payments").Use(tenant).
		GET("", h.Payment.ListPurchasePayments).
		DELETE("/:id", h.Payment.DeletePurchasePayment)

	notifications := NewDomainGroup("notifications", "/notifications").Use(tenant).
		GET("", h.Notification.List).
		POST("", h.Notification.Create).
		GET("/unread-count", h.Notification.UnreadCount).
		PATCH("/read-all", h.Notification.MarkAllRead).
		PATCH("/:id/read", h.Notification.MarkRead)

	charges := NewDomainGroup("charges", "/charges").Use(tenant).
		POST("", h.Charge.Create).
		GET("", h.Charge.List).
		GET("/export", h.Charge.Export).
		GET("/:id", h.Charge.GetByID).
		PUT("/:id", h.Charge.Update).
		DELETE("/:id", h.Charge.Delete).
		POST("/:id/receipt", h.Charge.UploadReceipt)

	quotes := NewDomainGroup("quotes", "/quotes").Use(tenant).
		POST("", h.Quote.Create).
		GET("", h.Quote.List).
		GET("/:id", h.Quote.GetByID).
		PUT("/:id", h.Quote.Update).
		DELETE("/:id", h.Quote.Delete).
		PATCH("/:id/status", h.Quote.UpdateStatus).
		POST("/:id/convert", h.Quote.Convert)

	deliveries := NewDomainGroup("deliveries", "/deliveries").Use(tenant).
		POST("", h.Delivery.Create).
		GET("", h.Delivery.List).
		GET("/:id", h.Delivery.GetByID).
		DELETE("/:id", h.Delivery.Delete).
		POST("/:id/deliver", h.Delivery.MarkDelivered).
		POST("/:id/cancel", h.Delivery.Cancel)

	returns := NewDomainGroup("returns", "/returns").Use(tenant).
		POST("", h.Return.Create).
		GET("", h.Return.List).
		GET("/:id", h.Return.GetByID).
		DELETE("/:id", h.Return.Delete).
		PATCH("/:id/status", h.Return.UpdateStatus)

	employees := NewDomainGroup("employees", "/employees").Use(tenant).
		POST("", h.Employee.Create).
		GET("", h.Employee.List).
		GET("/:id", h.Employee.GetByID).
		PUT("/:id", h.Employee.Update).
		DELETE("/:id", h.Employee.Delete)

	accounting := NewDomainGroup("accounting", "/accounting").Use(tenant).
		GET("/summary", h.Report.AccountingSummary)

	dashboard := NewDomainGroup("dashboard", "/dashboard").Use(tenant).
		GET("", h.Report.Dashboard)

	reports := NewDomainGroup("reports", "/reports").Use(tenant).
		GET("/sales", h.Report.SalesReport).
		GET("/purchases", h.Report.PurchasesReport).
		GET("/stock", h.Report.StockReport).
		GET("/charges", h.Report.ChargesReport)

	ocr := NewDomainGroup("ocr", "/ocr").Use(tenant).
		POST("/analyze", h.OCR.Analyze).
		GET("/status", h.OCR.Status)

	return []RouteRegistrar{
		auth, me, company, admin,
		clients, suppliers, products, stock,
		sales, purchases, salePayments, purchasePayments,
		notifications, charges, quotes, deliveries, returns,
		employees, accounting, dashboard, reports, ocr,
	}
}
