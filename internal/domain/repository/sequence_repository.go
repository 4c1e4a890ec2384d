package repository

// Nombres de secuencias de numeración de documentos.
const (
	SequencePurchase = "purchase"
	SequenceSale     = "sale"
)

// SequenceRepository entrega consecutivos por nombre y año (numeración de
// facturas de compra y ventas). Next debe ser atómico dentro de la transacción.
type SequenceRepository interface {
	Next(name string, year int) (int64, error)
}
