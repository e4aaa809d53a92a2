package repository

import "context"

// SequenceRepository define el puerto del asignador de consecutivos.
type SequenceRepository interface {
	// Next asigna el siguiente valor de la secuencia nombrada. La asignación
	// no bloquea a otros llamadores y no participa del rollback: un valor
	// entregado nunca se reutiliza, aunque queden huecos.
	Next(ctx context.Context, name string) (int64, error)
}
