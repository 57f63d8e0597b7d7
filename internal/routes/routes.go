package routes

import (
	"database/sql"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	adminControllers "github.com/c14220110/billing-backend/internal/administrasi/controllers"
	adminServices "github.com/c14220110/billing-backend/internal/administrasi/services"
	billingControllers "github.com/c14220110/billing-backend/internal/billing/controllers"
	billingServices "github.com/c14220110/billing-backend/internal/billing/services"
	"github.com/c14220110/billing-backend/internal/common/middlewares"
	"github.com/c14220110/billing-backend/internal/common/models"
	katalogControllers "github.com/c14220110/billing-backend/internal/katalog/controllers"
	katalogServices "github.com/c14220110/billing-backend/internal/katalog/services"
	"github.com/c14220110/billing-backend/pkg/utils"
	"github.com/c14220110/billing-backend/ws"
)

// Init menginisialisasi semua routes menggunakan Echo framework
func Init(e *echo.Echo, db *sql.DB, jm *utils.JWTManager, log *zap.Logger, hub *ws.Hub) {
	// Inisialisasi service
	adminService := adminServices.NewAdministrasiService(db)
	pasienService := adminServices.NewPasienService(db)
	rekamMedisService := adminServices.NewRekamMedisService(db)
	katalogService := katalogServices.NewKatalogService(db)
	invoiceService := billingServices.NewInvoiceService(
		billingServices.NewMariaDBInvoiceStore(db),
		katalogService,
		rekamMedisService,
		hub,
		log.Named("billing"),
	)

	// Inisialisasi controller dengan service yang sesuai
	adminController := adminControllers.NewAdministrasiController(adminService, jm, log)
	pasienController := adminControllers.NewPasienController(pasienService)
	rekamMedisController := adminControllers.NewRekamMedisController(rekamMedisService)
	katalogController := katalogControllers.NewKatalogController(katalogService)
	invoiceController := billingControllers.NewInvoiceController(invoiceService)

	auth := middlewares.JWTMiddleware(jm)
	adminRS := middlewares.RequireRole(models.RoleAdminRS)
	adminBPJS := middlewares.RequireRole(models.RoleAdminBPJS)

	e.GET("/ws", ws.ServeWS(hub, jm))

	// Grup API utama
	api := e.Group("/api")
	api.POST("/auth/login", adminController.Login) // Tidak pakai JWT

	// Semua route di bawah ini butuh token
	secured := api.Group("", auth)

	// **Grup Pasien**
	pasien := secured.Group("/patients")
	pasien.GET("", pasienController.ListPasien)
	pasien.GET("/:id", pasienController.GetPasien)
	pasien.POST("", pasienController.RegisterPasien, adminRS)

	// **Grup Rekam Medis**
	rekamMedis := secured.Group("/medical-records")
	rekamMedis.GET("", rekamMedisController.ListRekamMedis)
	rekamMedis.GET("/:id", rekamMedisController.GetRekamMedis)
	rekamMedis.POST("", rekamMedisController.CreateRekamMedis, adminRS)
	rekamMedis.PUT("/:id/status", rekamMedisController.UpdateStatus, adminRS)

	// **Grup Katalog**
	katalog := secured.Group("/catalog")
	katalog.GET("/categories", katalogController.ListCategories)
	katalog.GET("/items/:type", katalogController.ListItems)
	katalog.GET("/items/:type/:id", katalogController.GetItem)

	// **Grup Invoice**
	invoice := secured.Group("/invoices")
	invoice.POST("/calculate", invoiceController.CalculateInvoice)
	invoice.GET("", invoiceController.ListInvoices)
	invoice.GET("/:id", invoiceController.GetInvoice)
	invoice.GET("/:id/print", invoiceController.PrintInvoice)

	invoice.POST("", invoiceController.CreateInvoice, adminRS)
	invoice.PUT("/:id", invoiceController.UpdateInvoice, adminRS)
	invoice.POST("/:id/submit", invoiceController.SubmitInvoice, adminRS)
	invoice.DELETE("/:id", invoiceController.DeleteInvoice, adminRS)

	invoice.POST("/:id/approve", invoiceController.ApproveInvoice, adminBPJS)
	invoice.POST("/:id/reject", invoiceController.RejectInvoice, adminBPJS)
}
