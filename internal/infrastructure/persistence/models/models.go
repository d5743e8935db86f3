// Package models contains the GORM persistence models mapping the
// domain aggregates to relational tables.
package models

// AllModels returns every persistence model, in dependency order, for
// schema migration.
func AllModels() []any {
	return []any{
		&ClienteModel{},
		&ExpedienteModel{},
		&EventoModel{},
		&AdjuntoModel{},
		&PlanDePagoModel{},
		&CuotaModel{},
		&IngresoModel{},
		&AllocationModel{},
		&GastoModel{},
		&HonorarioModel{},
	}
}
