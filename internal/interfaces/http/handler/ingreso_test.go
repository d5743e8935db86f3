package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/estudio/backend/internal/domain/billing"
)

// createPlanARS creates a 3-cuota ARS plan and returns the cuota ids in
// numero order
func (e *testEnv) createPlanARS(t *testing.T, expedienteID, clienteID uuid.UUID, total string) (uuid.UUID, []string) {
	t.Helper()
	w, resp := e.doJSON(t, http.MethodPost, "/api/v1/planes-de-pago", gin.H{
		"expediente_id":      expedienteID.String(),
		"cliente_id":         clienteID.String(),
		"descripcion":        "Honorarios convenidos",
		"cant_cuotas":        3,
		"primer_vencimiento": "2026-09-01T00:00:00Z",
		"total_ars":          total,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	data := dataMap(t, resp)
	planID := uuid.MustParse(data["id"].(string))

	raw, err := json.Marshal(data["cuotas"])
	require.NoError(t, err)
	var cuotas []billing.Cuota
	require.NoError(t, json.Unmarshal(raw, &cuotas))
	require.Len(t, cuotas, 3)

	ids := make([]string, len(cuotas))
	for i, c := range cuotas {
		ids[i] = c.ID.String()
	}
	return planID, ids
}

func TestIngresoHandlerCreate(t *testing.T) {
	env := newTestEnv(t)
	clienteID := env.createCliente(t, "García, María", "28111222")
	expedienteID := env.createExpediente(t, clienteID)
	_, cuotaIDs := env.createPlanARS(t, expedienteID, clienteID, "3000")

	t.Run("create without aplicaciones leaves full remanente", func(t *testing.T) {
		w, resp := env.doJSON(t, http.MethodPost, "/api/v1/ingresos", gin.H{
			"cliente_id": clienteID.String(),
			"fecha":      "2026-09-05T00:00:00Z",
			"concepto":   "pago parcial",
			"monto_ars":  "500",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		data := dataMap(t, resp)
		assert.Equal(t, "500", data["remanente"])
	})

	t.Run("create with aplicaciones allocates and pays cuota", func(t *testing.T) {
		w, resp := env.doJSON(t, http.MethodPost, "/api/v1/ingresos", gin.H{
			"cliente_id": clienteID.String(),
			"fecha":      "2026-09-10T00:00:00Z",
			"concepto":   "primera cuota",
			"monto_ars":  "1000",
			"aplicaciones_cuotas": []gin.H{
				{"cuota_id": cuotaIDs[0], "monto": "1000"},
			},
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		data := dataMap(t, resp)
		assert.Equal(t, "0", data["remanente"])

		raw, err := json.Marshal(data["changed_cuotas"])
		require.NoError(t, err)
		var changes []billing.CuotaStateChange
		require.NoError(t, json.Unmarshal(raw, &changes))
		require.Len(t, changes, 1)
		assert.Equal(t, billing.CuotaStatusPaid, changes[0].Current)
	})

	t.Run("over-allocation rejected with 409", func(t *testing.T) {
		w, resp := env.doJSON(t, http.MethodPost, "/api/v1/ingresos", gin.H{
			"cliente_id": clienteID.String(),
			"fecha":      "2026-09-11T00:00:00Z",
			"monto_ars":  "5000",
			"aplicaciones_cuotas": []gin.H{
				{"cuota_id": cuotaIDs[0], "monto": "5000"},
			},
		})
		assert.Equal(t, http.StatusConflict, w.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, billing.ErrCodeOverAllocation, resp.Error.Code)
	})

	t.Run("unknown cuota rejected with 404", func(t *testing.T) {
		w, resp := env.doJSON(t, http.MethodPost, "/api/v1/ingresos", gin.H{
			"cliente_id": clienteID.String(),
			"fecha":      "2026-09-12T00:00:00Z",
			"monto_ars":  "100",
			"aplicaciones_cuotas": []gin.H{
				{"cuota_id": uuid.New().String(), "monto": "100"},
			},
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, billing.ErrCodeCuotaNotFound, resp.Error.Code)
	})

	t.Run("negative amount rejected with 400", func(t *testing.T) {
		w, _ := env.doJSON(t, http.MethodPost, "/api/v1/ingresos", gin.H{
			"cliente_id": clienteID.String(),
			"fecha":      "2026-09-13T00:00:00Z",
			"monto_ars":  "-100",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestIngresoHandlerReconcile(t *testing.T) {
	env := newTestEnv(t)
	clienteID := env.createCliente(t, "García, María", "28111222")
	expedienteID := env.createExpediente(t, clienteID)
	_, cuotaIDs := env.createPlanARS(t, expedienteID, clienteID, "3000")

	w, resp := env.doJSON(t, http.MethodPost, "/api/v1/ingresos", gin.H{
		"cliente_id": clienteID.String(),
		"fecha":      "2026-09-05T00:00:00Z",
		"monto_ars":  "2500",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	ingresoData := dataMap(t, resp)
	ingresoMap := ingresoData["ingreso"].(map[string]any)
	ingresoID := ingresoMap["id"].(string)

	t.Run("full payment walk pays first two cuotas", func(t *testing.T) {
		w, resp := env.doJSON(t, http.MethodPut, "/api/v1/ingresos/"+ingresoID+"/reconciliar", gin.H{
			"selected_cuota_ids": []string{cuotaIDs[0], cuotaIDs[1], cuotaIDs[2]},
			"force_reaplicar_parcial": true,
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		data := dataMap(t, resp)
		assert.Equal(t, "0", data["remanente"])

		raw, err := json.Marshal(data["allocations"])
		require.NoError(t, err)
		var allocations []billing.Allocation
		require.NoError(t, json.Unmarshal(raw, &allocations))
		require.Len(t, allocations, 3)
		assert.True(t, allocations[2].Monto.Equal(allocations[2].Monto.Round(2)))
	})

	t.Run("without force partial tail fails with 422", func(t *testing.T) {
		w, resp := env.doJSON(t, http.MethodPut, "/api/v1/ingresos/"+ingresoID+"/reconciliar", gin.H{
			"selected_cuota_ids": []string{cuotaIDs[0], cuotaIDs[1], cuotaIDs[2]},
		})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, billing.ErrCodeInsufficientFunds, resp.Error.Code)
	})

	t.Run("downward adjustment needs confirmation", func(t *testing.T) {
		w, resp := env.doJSON(t, http.MethodPut, "/api/v1/ingresos/"+ingresoID+"/reconciliar", gin.H{
			"selected_cuota_ids":      []string{cuotaIDs[0], cuotaIDs[1], cuotaIDs[2]},
			"force_reaplicar_parcial": true,
			"montos":                  gin.H{"monto_ars": "1500"},
		})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, billing.ErrCodeAjusteRequiresConfirm, resp.Error.Code)

		w, resp = env.doJSON(t, http.MethodPut, "/api/v1/ingresos/"+ingresoID+"/reconciliar", gin.H{
			"selected_cuota_ids":      []string{cuotaIDs[0], cuotaIDs[1], cuotaIDs[2]},
			"force_reaplicar_parcial": true,
			"confirmar_ajuste":        true,
			"montos":                  gin.H{"monto_ars": "1500"},
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})

	t.Run("unknown ingreso returns 404", func(t *testing.T) {
		w, _ := env.doJSON(t, http.MethodPut, "/api/v1/ingresos/"+uuid.New().String()+"/reconciliar", gin.H{
			"selected_cuota_ids": []string{},
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestIngresoHandlerAnular(t *testing.T) {
	env := newTestEnv(t)
	clienteID := env.createCliente(t, "García, María", "28111222")
	expedienteID := env.createExpediente(t, clienteID)
	_, cuotaIDs := env.createPlanARS(t, expedienteID, clienteID, "3000")

	w, resp := env.doJSON(t, http.MethodPost, "/api/v1/ingresos", gin.H{
		"cliente_id": clienteID.String(),
		"fecha":      "2026-09-05T00:00:00Z",
		"monto_ars":  "1000",
		"aplicaciones_cuotas": []gin.H{
			{"cuota_id": cuotaIDs[0], "monto": "1000"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	ingresoID := dataMap(t, resp)["ingreso"].(map[string]any)["id"].(string)

	w, resp = env.doJSON(t, http.MethodDelete, "/api/v1/ingresos/"+ingresoID, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := dataMap(t, resp)
	assert.Equal(t, true, data["ingreso"].(map[string]any)["anulado"])

	raw, err := json.Marshal(data["changed_cuotas"])
	require.NoError(t, err)
	var changes []billing.CuotaStateChange
	require.NoError(t, json.Unmarshal(raw, &changes))
	require.Len(t, changes, 1)
	assert.Equal(t, billing.CuotaStatusPending, changes[0].Current)

	t.Run("detail shows voided allocations", func(t *testing.T) {
		w, resp := env.doJSON(t, http.MethodGet, "/api/v1/ingresos/"+ingresoID, nil)
		require.Equal(t, http.StatusOK, w.Code)
		raw, err := json.Marshal(dataMap(t, resp)["allocations"])
		require.NoError(t, err)
		var allocations []billing.Allocation
		require.NoError(t, json.Unmarshal(raw, &allocations))
		require.Len(t, allocations, 1)
		assert.Equal(t, billing.AllocationStatusVoided, allocations[0].Status)
	})
}
