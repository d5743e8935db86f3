package billing

import (
	"time"

	"github.com/estudio/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PlanDePago is a payment plan for the fees of an expediente: a total owed by
// a cliente, split into numbered cuotas with monthly due dates.
type PlanDePago struct {
	shared.BaseAggregateRoot
	ExpedienteID uuid.UUID `json:"expediente_id"`
	ClienteID    uuid.UUID `json:"cliente_id"`
	Descripcion  string    `json:"descripcion"`
	Cuotas       []Cuota   `json:"cuotas"`
}

// NewPlanDePago creates a new payment plan
func NewPlanDePago(expedienteID, clienteID uuid.UUID, descripcion string) (*PlanDePago, error) {
	if expedienteID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_EXPEDIENTE", "Expediente ID cannot be empty")
	}
	if clienteID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENTE", "Cliente ID cannot be empty")
	}

	p := &PlanDePago{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ExpedienteID:      expedienteID,
		ClienteID:         clienteID,
		Descripcion:       descripcion,
		Cuotas:            []Cuota{},
	}
	p.AddDomainEvent(NewPlanCreatedEvent(p))
	return p, nil
}

// UpdateDescripcion changes the plan description
func (p *PlanDePago) UpdateDescripcion(descripcion string) {
	p.Descripcion = descripcion
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// GenerateCuotasARS splits an ARS total into n equal monthly cuotas starting
// at firstDue. Cent remainders from the division land on the first cuota so
// the cuotas always sum exactly to the total.
func (p *PlanDePago) GenerateCuotasARS(total decimal.Decimal, n int, firstDue time.Time) error {
	if n <= 0 {
		return shared.NewDomainError("INVALID_CUOTAS", "Number of cuotas must be positive")
	}
	if total.IsNegative() {
		return &InvalidAmountError{Field: "total", Value: total}
	}

	base := total.Div(decimal.NewFromInt(int64(n))).Truncate(2)
	first := total.Sub(base.Mul(decimal.NewFromInt(int64(n - 1))))

	for i := 0; i < n; i++ {
		monto := base
		if i == 0 {
			monto = first
		}
		m := monto
		cuota, err := NewCuota(p.ID, i+1, firstDue.AddDate(0, i, 0), MonetaryFields{MontoARS: &m})
		if err != nil {
			return err
		}
		p.Cuotas = append(p.Cuotas, *cuota)
	}

	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// GenerateCuotasJUS creates n monthly cuotas of the given JUS unit count each,
// all captured at the reference rate in force when the plan was agreed.
func (p *PlanDePago) GenerateCuotasJUS(unitsPerCuota, rate decimal.Decimal, n int, firstDue time.Time) error {
	if n <= 0 {
		return shared.NewDomainError("INVALID_CUOTAS", "Number of cuotas must be positive")
	}
	if unitsPerCuota.IsNegative() {
		return &InvalidAmountError{Field: "cantidad_jus", Value: unitsPerCuota}
	}
	if rate.IsNegative() {
		return &InvalidAmountError{Field: "valor_jus", Value: rate}
	}

	for i := 0; i < n; i++ {
		units := unitsPerCuota
		r := rate
		cuota, err := NewCuota(p.ID, i+1, firstDue.AddDate(0, i, 0), MonetaryFields{CantidadJus: &units, ValorJus: &r})
		if err != nil {
			return err
		}
		p.Cuotas = append(p.Cuotas, *cuota)
	}

	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}
