package http

import (
	"github.com/gofiber/fiber/v2"

	appdoc "github.com/jhoicas/kardex-core/internal/application/document"
	"github.com/jhoicas/kardex-core/internal/application/stock"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Mutator   *stock.Mutator
	Query     *stock.LedgerQuery
	Documents *appdoc.Allocator
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api/v1")

	// Kardex: mutaciones y consultas
	st := api.Group("/stock")
	stockHandler := NewStockHandler(deps.Mutator, deps.Query)
	st.Post("/adjustments", stockHandler.Adjust)
	st.Post("/transfers", stockHandler.Transfer)
	st.Post("/receipts", stockHandler.PostReceipt)
	st.Get("/balances", stockHandler.GetBalance)
	st.Get("/movements", stockHandler.ListMovements)
	st.Get("/reconciliation", stockHandler.Reconcile)

	// Consecutivos de documentos
	docs := api.Group("/documents")
	documentHandler := NewDocumentHandler(deps.Documents)
	docs.Post("/numbers", documentHandler.Allocate)
}
