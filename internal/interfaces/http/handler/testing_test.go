package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	billingapp "github.com/estudio/backend/internal/application/billing"
	practiceapp "github.com/estudio/backend/internal/application/practice"
	reportapp "github.com/estudio/backend/internal/application/report"
	"github.com/estudio/backend/internal/infrastructure/lock"
	"github.com/estudio/backend/internal/infrastructure/persistence"
	"github.com/estudio/backend/internal/infrastructure/persistence/models"
	"github.com/estudio/backend/internal/infrastructure/storage"
	"github.com/estudio/backend/internal/interfaces/http/dto"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testEnv wires real services over an in-memory database so handler tests
// exercise the full stack below the HTTP layer.
type testEnv struct {
	db     *gorm.DB
	engine *gin.Engine

	clientes    *practiceapp.ClienteService
	expedientes *practiceapp.ExpedienteService
	ingresos    *billingapp.IngresoService
	planes      *billingapp.PlanService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.AllModels()...))
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		require.NoError(t, err)
		require.NoError(t, sqlDB.Close())
	})

	logger := zap.NewNop()

	clienteRepo := persistence.NewGormClienteRepository(db)
	expedienteRepo := persistence.NewGormExpedienteRepository(db)
	eventoRepo := persistence.NewGormEventoRepository(db)
	adjuntoRepo := persistence.NewGormAdjuntoRepository(db)
	ingresoRepo := persistence.NewGormIngresoRepository(db)
	cuotaRepo := persistence.NewGormCuotaRepository(db)
	planRepo := persistence.NewGormPlanDePagoRepository(db)
	allocationRepo := persistence.NewGormAllocationRepository(db)
	gastoRepo := persistence.NewGormGastoRepository(db)
	honorarioRepo := persistence.NewGormHonorarioRepository(db)
	balanceRepo := persistence.NewGormBalanceReportRepository(db)

	scope := persistence.NewGormTransactionScope(db)
	locks := lock.NewManager(2 * time.Second)

	localStorage, err := storage.NewLocalObjectStorage(t.TempDir())
	require.NoError(t, err)

	env := &testEnv{
		db:          db,
		clientes:    practiceapp.NewClienteService(clienteRepo, nil, logger),
		expedientes: practiceapp.NewExpedienteService(expedienteRepo, eventoRepo, clienteRepo, nil, logger),
		ingresos:    billingapp.NewIngresoService(scope, ingresoRepo, allocationRepo, locks, nil, logger),
		planes:      billingapp.NewPlanService(scope, planRepo, cuotaRepo, allocationRepo, nil, logger),
	}

	adjuntos := practiceapp.NewAdjuntoService(adjuntoRepo, expedienteRepo, localStorage, logger)
	costos := billingapp.NewCostoService(gastoRepo, honorarioRepo, logger)
	reports := reportapp.NewAggregationService(balanceRepo, logger)

	engine := gin.New()
	api := engine.Group("/api/v1")

	clienteHandler := NewClienteHandler(env.clientes)
	api.POST("/clientes", clienteHandler.Create)
	api.GET("/clientes", clienteHandler.List)
	api.GET("/clientes/:id", clienteHandler.GetByID)
	api.PUT("/clientes/:id", clienteHandler.Update)
	api.DELETE("/clientes/:id", clienteHandler.Deactivate)

	expedienteHandler := NewExpedienteHandler(env.expedientes)
	api.POST("/expedientes", expedienteHandler.Create)
	api.GET("/expedientes", expedienteHandler.List)
	api.GET("/expedientes/:id", expedienteHandler.GetByID)
	api.PUT("/expedientes/:id/estado", expedienteHandler.ChangeEstado)
	api.POST("/expedientes/:id/eventos", expedienteHandler.CreateEvento)
	api.GET("/eventos", expedienteHandler.ListEventos)
	api.PUT("/eventos/:id/cumplido", expedienteHandler.MarkEventoCumplido)

	adjuntoHandler := NewAdjuntoHandler(adjuntos)
	api.POST("/expedientes/:id/adjuntos", adjuntoHandler.Register)
	api.GET("/expedientes/:id/adjuntos", adjuntoHandler.ListByExpediente)
	api.GET("/adjuntos/:id/download", adjuntoHandler.DownloadURL)
	api.DELETE("/adjuntos/:id", adjuntoHandler.Delete)

	planHandler := NewPlanHandler(env.planes)
	api.POST("/planes-de-pago", planHandler.Create)
	api.GET("/planes-de-pago/:id", planHandler.GetByID)
	api.PUT("/planes-de-pago/:id", planHandler.Update)
	api.GET("/planes-de-pago/:id/cuotas", planHandler.ListCuotas)
	api.GET("/expedientes/:id/planes", planHandler.ListByExpediente)

	costoHandler := NewCostoHandler(costos)
	api.POST("/expedientes/:id/gastos", costoHandler.RegisterGasto)
	api.GET("/expedientes/:id/gastos", costoHandler.ListGastos)
	api.POST("/expedientes/:id/honorarios", costoHandler.RegisterHonorario)
	api.GET("/expedientes/:id/honorarios", costoHandler.ListHonorarios)

	ingresoHandler := NewIngresoHandler(env.ingresos)
	api.POST("/ingresos", ingresoHandler.Create)
	api.GET("/ingresos", ingresoHandler.List)
	api.GET("/ingresos/:id", ingresoHandler.GetByID)
	api.PUT("/ingresos/:id/reconciliar", ingresoHandler.Reconcile)
	api.DELETE("/ingresos/:id", ingresoHandler.Anular)

	reportHandler := NewReportHandler(reports)
	api.GET("/reports/saldos-clientes", reportHandler.SaldosClientes)

	env.engine = engine
	return env
}

// doJSON performs a request with a JSON body and decodes the envelope
func (e *testEnv) doJSON(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, dto.Response) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)

	var resp dto.Response
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

// dataMap re-decodes the data payload as a map for field assertions
func dataMap(t *testing.T, resp dto.Response) map[string]any {
	t.Helper()
	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	return m
}

func (e *testEnv) createCliente(t *testing.T, nombre, documento string) uuid.UUID {
	t.Helper()
	w, resp := e.doJSON(t, http.MethodPost, "/api/v1/clientes", gin.H{
		"nombre":          nombre,
		"documento_tipo":  "DNI",
		"documento_valor": documento,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return uuid.MustParse(dataMap(t, resp)["id"].(string))
}

func (e *testEnv) createExpediente(t *testing.T, clienteID uuid.UUID) uuid.UUID {
	t.Helper()
	w, resp := e.doJSON(t, http.MethodPost, "/api/v1/expedientes", gin.H{
		"cliente_id": clienteID.String(),
		"caratula":   "García c/ Empresa SA s/ daños",
		"numero":     "12345/2025",
		"fuero":      "Civil",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return uuid.MustParse(dataMap(t, resp)["id"].(string))
}
