package billing

import (
	"context"
	"time"

	"github.com/estudio/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// In-memory repositories backing the domain tests. They mirror the semantics
// of the GORM implementations: Save upserts, Find returns copies, and the
// active-allocation queries order by creation time ascending.

type memCuotaRepo struct {
	cuotas map[uuid.UUID]*Cuota
}

func newMemCuotaRepo(cuotas ...*Cuota) *memCuotaRepo {
	r := &memCuotaRepo{cuotas: make(map[uuid.UUID]*Cuota)}
	for _, c := range cuotas {
		r.cuotas[c.ID] = c
	}
	return r
}

func (r *memCuotaRepo) FindByID(_ context.Context, id uuid.UUID) (*Cuota, error) {
	c, ok := r.cuotas[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return c, nil
}

func (r *memCuotaRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]Cuota, error) {
	out := make([]Cuota, 0, len(ids))
	for _, id := range ids {
		c, ok := r.cuotas[id]
		if !ok {
			return nil, shared.ErrNotFound
		}
		out = append(out, *c)
	}
	return out, nil
}

func (r *memCuotaRepo) FindByPlan(_ context.Context, planID uuid.UUID) ([]Cuota, error) {
	var out []Cuota
	for _, c := range r.cuotas {
		if c.PlanID == planID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *memCuotaRepo) Save(_ context.Context, cuota *Cuota) error {
	r.cuotas[cuota.ID] = cuota
	return nil
}

type memIngresoRepo struct {
	ingresos map[uuid.UUID]*Ingreso
	saves    int
}

func newMemIngresoRepo(ingresos ...*Ingreso) *memIngresoRepo {
	r := &memIngresoRepo{ingresos: make(map[uuid.UUID]*Ingreso)}
	for _, i := range ingresos {
		r.ingresos[i.ID] = i
	}
	return r
}

func (r *memIngresoRepo) FindByID(_ context.Context, id uuid.UUID) (*Ingreso, error) {
	i, ok := r.ingresos[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return i, nil
}

func (r *memIngresoRepo) FindAll(_ context.Context, _ IngresoFilter) ([]Ingreso, error) {
	out := make([]Ingreso, 0, len(r.ingresos))
	for _, i := range r.ingresos {
		out = append(out, *i)
	}
	return out, nil
}

func (r *memIngresoRepo) Count(_ context.Context, _ IngresoFilter) (int64, error) {
	return int64(len(r.ingresos)), nil
}

func (r *memIngresoRepo) Save(_ context.Context, ingreso *Ingreso) error {
	r.ingresos[ingreso.ID] = ingreso
	r.saves++
	return nil
}

type memAllocationRepo struct {
	order       []uuid.UUID
	allocations map[uuid.UUID]*Allocation
}

func newMemAllocationRepo() *memAllocationRepo {
	return &memAllocationRepo{allocations: make(map[uuid.UUID]*Allocation)}
}

func (r *memAllocationRepo) FindByID(_ context.Context, id uuid.UUID) (*Allocation, error) {
	a, ok := r.allocations[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return a, nil
}

func (r *memAllocationRepo) FindActiveByCuota(_ context.Context, cuotaID uuid.UUID) ([]Allocation, error) {
	var out []Allocation
	for _, id := range r.order {
		a := r.allocations[id]
		if a.CuotaID == cuotaID && a.IsActive() {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *memAllocationRepo) FindActiveByIngreso(_ context.Context, ingresoID uuid.UUID) ([]Allocation, error) {
	var out []Allocation
	for _, id := range r.order {
		a := r.allocations[id]
		if a.IngresoID == ingresoID && a.IsActive() {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *memAllocationRepo) FindByIngreso(_ context.Context, ingresoID uuid.UUID) ([]Allocation, error) {
	var out []Allocation
	for _, id := range r.order {
		a := r.allocations[id]
		if a.IngresoID == ingresoID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *memAllocationRepo) SumActiveByCuota(_ context.Context, cuotaID uuid.UUID) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, a := range r.allocations {
		if a.CuotaID == cuotaID && a.IsActive() {
			sum = sum.Add(a.Monto)
		}
	}
	return sum, nil
}

func (r *memAllocationRepo) SumActiveByCuotaExcludingIngreso(_ context.Context, cuotaID, ingresoID uuid.UUID) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, a := range r.allocations {
		if a.CuotaID == cuotaID && a.IngresoID != ingresoID && a.IsActive() {
			sum = sum.Add(a.Monto)
		}
	}
	return sum, nil
}

func (r *memAllocationRepo) Save(_ context.Context, allocation *Allocation) error {
	if _, exists := r.allocations[allocation.ID]; !exists {
		r.order = append(r.order, allocation.ID)
	}
	r.allocations[allocation.ID] = allocation
	return nil
}

// test data helpers

func ars(v float64) *decimal.Decimal {
	d := decimal.NewFromFloat(v)
	return &d
}

func newTestCuota(planID uuid.UUID, numero int, montoARS float64) *Cuota {
	c, err := NewCuota(planID, numero, time.Now().AddDate(0, numero, 0), MonetaryFields{MontoARS: ars(montoARS)})
	if err != nil {
		panic(err)
	}
	return c
}

func newTestIngreso(montoARS float64) *Ingreso {
	i, err := NewIngreso(uuid.New(), nil, time.Now(), "pago", MonetaryFields{MontoARS: ars(montoARS)})
	if err != nil {
		panic(err)
	}
	return i
}
