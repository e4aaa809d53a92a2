package document_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-core/internal/domain"
	"github.com/jhoicas/kardex-core/internal/domain/document"
)

// ──────────────────────────────────────────────────────────────────────────────
// FormatNumber es función pura: mismos parámetros, mismo número. El formato
// "{prefijo}-{año}-{consecutivo a 6 dígitos}" queda estampado en documentos
// impresos y correos, así que cualquier cambio accidental debe reventar aquí.
// ──────────────────────────────────────────────────────────────────────────────

func TestFormatNumber_VectoresExactos(t *testing.T) {
	cases := []struct {
		name   string
		prefix string
		value  int64
		year   int
		want   string
	}{
		{"orden de compra", "PO", 42, 2025, "PO-2025-000042"},
		{"consecutivo siguiente", "PO", 44, 2025, "PO-2025-000044"},
		{"lote de calidad", "QC", 7, 2026, "QC-2026-000007"},
		{"valor cero", "GRN", 0, 2025, "GRN-2025-000000"},
		{"mas de seis dígitos no se trunca", "PO", 1234567, 2025, "PO-2025-1234567"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := document.FormatNumber(tc.prefix, tc.value, tc.year)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFormatNumber_ValorNegativo(t *testing.T) {
	_, err := document.FormatNumber("PO", -1, 2025)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// El consecutivo no se reinicia con el año: el mismo valor con otro año solo
// cambia la parte informativa del número.
func TestFormatNumber_AnioSoloInformativo(t *testing.T) {
	n2025, err := document.FormatNumber("PO", 500, 2025)
	require.NoError(t, err)
	n2026, err := document.FormatNumber("PO", 501, 2026)
	require.NoError(t, err)

	assert.Equal(t, "PO-2025-000500", n2025)
	assert.Equal(t, "PO-2026-000501", n2026)
}
