package entity

// Secuencias de documentos conocidas por el núcleo. Cada una es un contador
// durable y estrictamente creciente; un valor asignado nunca se reutiliza,
// incluso si la transacción que lo pidió termina en rollback.
const (
	SeqPONumber  = "po_number_seq"     // órdenes de compra
	SeqQCLot     = "qc_lot_number_seq" // lotes de control de calidad
	SeqGRNNumber = "grn_number_seq"    // notas de recepción de mercancía
)

// KnownSequence indica si el nombre corresponde a una secuencia del núcleo.
func KnownSequence(name string) bool {
	switch name {
	case SeqPONumber, SeqQCLot, SeqGRNNumber:
		return true
	}
	return false
}
