package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/comercio-api/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo entrega consecutivos de numeración de documentos sobre la
// tabla document_sequences. El upsert con RETURNING hace el incremento
// atómico bajo la transacción del documento.
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// Next devuelve el siguiente consecutivo para (name, year).
func (r *SequenceRepo) Next(name string, year int) (int64, error) {
	query := `
		INSERT INTO document_sequences (name, year, value)
		VALUES ($1, $2, 1)
		ON CONFLICT (name, year) DO UPDATE SET value = document_sequences.value + 1
		RETURNING value`
	var value int64
	if err := r.q.QueryRow(context.Background(), query, name, year).Scan(&value); err != nil {
		return 0, fmt.Errorf("next sequence %s-%d: %w", name, year, err)
	}
	return value, nil
}
