// Package document contiene la lógica pura de numeración de documentos.
package document

import (
	"fmt"

	"github.com/jhoicas/kardex-core/internal/domain"
)

// FormatNumber produce el número de documento legible "{prefijo}-{año}-{consecutivo}",
// con el consecutivo a mínimo seis dígitos (ej. PO-2025-000042).
// El consecutivo es global y no se reinicia con el cambio de año: el año es
// solo informativo, estampado al momento de la asignación.
func FormatNumber(prefix string, value int64, year int) (string, error) {
	if value < 0 {
		return "", domain.ErrInvalidInput
	}
	return fmt.Sprintf("%s-%d-%06d", prefix, year, value), nil
}
