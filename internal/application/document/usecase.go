// Package document expone el asignador de números de documento del núcleo.
package document

import (
	"context"
	"time"

	"github.com/jhoicas/kardex-core/internal/domain"
	domaindoc "github.com/jhoicas/kardex-core/internal/domain/document"
	"github.com/jhoicas/kardex-core/internal/domain/entity"
	"github.com/jhoicas/kardex-core/internal/domain/repository"
)

// Allocator asigna números de documento únicos y estrictamente crecientes
// (órdenes de compra, lotes de calidad, recepciones). La asignación no toma
// bloqueos: llamadores concurrentes nunca se esperan entre sí.
type Allocator struct {
	seqRepo repository.SequenceRepository
	now     func() time.Time
}

// NewAllocator construye el asignador sobre el repositorio de secuencias.
func NewAllocator(seqRepo repository.SequenceRepository) *Allocator {
	return &Allocator{seqRepo: seqRepo, now: time.Now}
}

// NextValue asigna el siguiente entero de la secuencia nombrada.
// Solo se aceptan las secuencias conocidas por el núcleo.
func (a *Allocator) NextValue(ctx context.Context, name string) (int64, error) {
	if !entity.KnownSequence(name) {
		return 0, domain.ErrInvalidInput
	}
	return a.seqRepo.Next(ctx, name)
}

// NextDocumentNumber asigna y formatea en un paso: "{prefijo}-{año}-{consecutivo}".
// El año es el del momento de la asignación; el consecutivo no se reinicia por año.
func (a *Allocator) NextDocumentNumber(ctx context.Context, name, prefix string) (string, int64, error) {
	v, err := a.NextValue(ctx, name)
	if err != nil {
		return "", 0, err
	}
	number, err := domaindoc.FormatNumber(prefix, v, a.now().Year())
	if err != nil {
		return "", 0, err
	}
	return number, v, nil
}
