package http

import (
	"github.com/gofiber/fiber/v2"

	appdoc "github.com/jhoicas/kardex-core/internal/application/document"
	"github.com/jhoicas/kardex-core/internal/application/dto"
)

// DocumentHandler maneja la asignación de números de documento para los
// flujos colaboradores (órdenes de compra, lotes de calidad).
type DocumentHandler struct {
	allocator *appdoc.Allocator
}

// NewDocumentHandler construye el handler.
func NewDocumentHandler(allocator *appdoc.Allocator) *DocumentHandler {
	return &DocumentHandler{allocator: allocator}
}

// Allocate asigna y formatea el siguiente número de la secuencia pedida.
func (h *DocumentHandler) Allocate(c *fiber.Ctx) error {
	var in dto.AllocateNumberRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	number, value, err := h.allocator.NextDocumentNumber(c.Context(), in.Sequence, in.Prefix)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.AllocateNumberResponse{Number: number, Value: value})
}
