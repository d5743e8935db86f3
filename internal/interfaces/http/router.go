// Package http wires the gin engine: middleware chain, route table and
// handler construction.
package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/estudio/backend/internal/infrastructure/auth"
	"github.com/estudio/backend/internal/infrastructure/config"
	"github.com/estudio/backend/internal/infrastructure/logger"
	"github.com/estudio/backend/internal/interfaces/http/handler"
	"github.com/estudio/backend/internal/interfaces/http/middleware"
)

// RouterConfig carries everything the route table needs
type RouterConfig struct {
	Config *config.Config
	Logger *zap.Logger

	// JWTService is optional; when nil the API is served unauthenticated
	// (local development only).
	JWTService     *auth.JWTService
	TokenBlacklist auth.TokenBlacklist

	System      *handler.SystemHandler
	Clientes    *handler.ClienteHandler
	Expedientes *handler.ExpedienteHandler
	Adjuntos    *handler.AdjuntoHandler
	Planes      *handler.PlanHandler
	Ingresos    *handler.IngresoHandler
	Costos      *handler.CostoHandler
	Reports     *handler.ReportHandler
}

// NewRouter builds the gin engine with the full middleware chain and route
// table.
func NewRouter(rc RouterConfig) *gin.Engine {
	if rc.Config != nil && rc.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(rc.Logger))
	engine.Use(logger.Recovery(rc.Logger))

	corsCfg := middleware.DefaultCORSConfig()
	if rc.Config != nil {
		corsCfg.AllowOrigins = rc.Config.HTTP.CORSAllowOrigins
	}
	engine.Use(middleware.CORSWithConfig(corsCfg))

	engine.GET("/health", rc.System.Health)
	engine.GET("/ready", rc.System.Ready)

	api := engine.Group("/api/v1")
	if rc.JWTService != nil {
		api.Use(middleware.JWTAuthWithConfig(middleware.JWTMiddlewareConfig{
			JWTService:     rc.JWTService,
			TokenBlacklist: rc.TokenBlacklist,
			Logger:         rc.Logger,
		}))
	}

	clientes := api.Group("/clientes")
	{
		clientes.POST("", rc.Clientes.Create)
		clientes.GET("", rc.Clientes.List)
		clientes.GET("/:id", rc.Clientes.GetByID)
		clientes.PUT("/:id", rc.Clientes.Update)
		clientes.DELETE("/:id", rc.Clientes.Deactivate)
	}

	expedientes := api.Group("/expedientes")
	{
		expedientes.POST("", rc.Expedientes.Create)
		expedientes.GET("", rc.Expedientes.List)
		expedientes.GET("/:id", rc.Expedientes.GetByID)
		expedientes.PUT("/:id/estado", rc.Expedientes.ChangeEstado)
		expedientes.POST("/:id/eventos", rc.Expedientes.CreateEvento)
		expedientes.POST("/:id/adjuntos", rc.Adjuntos.Register)
		expedientes.GET("/:id/adjuntos", rc.Adjuntos.ListByExpediente)
		expedientes.GET("/:id/planes", rc.Planes.ListByExpediente)
		expedientes.POST("/:id/gastos", rc.Costos.RegisterGasto)
		expedientes.GET("/:id/gastos", rc.Costos.ListGastos)
		expedientes.POST("/:id/honorarios", rc.Costos.RegisterHonorario)
		expedientes.GET("/:id/honorarios", rc.Costos.ListHonorarios)
	}

	eventos := api.Group("/eventos")
	{
		eventos.GET("", rc.Expedientes.ListEventos)
		eventos.PUT("/:id/cumplido", rc.Expedientes.MarkEventoCumplido)
	}

	adjuntos := api.Group("/adjuntos")
	{
		adjuntos.GET("/:id/download", rc.Adjuntos.DownloadURL)
		adjuntos.DELETE("/:id", rc.Adjuntos.Delete)
	}

	planes := api.Group("/planes-de-pago")
	{
		planes.POST("", rc.Planes.Create)
		planes.GET("/:id", rc.Planes.GetByID)
		planes.PUT("/:id", rc.Planes.Update)
		planes.GET("/:id/cuotas", rc.Planes.ListCuotas)
	}

	ingresos := api.Group("/ingresos")
	{
		ingresos.POST("", rc.Ingresos.Create)
		ingresos.GET("", rc.Ingresos.List)
		ingresos.GET("/:id", rc.Ingresos.GetByID)
		ingresos.PUT("/:id/reconciliar", rc.Ingresos.Reconcile)
		ingresos.DELETE("/:id", rc.Ingresos.Anular)
	}

	reports := api.Group("/reports")
	{
		reports.GET("/saldos-clientes", rc.Reports.SaldosClientes)
	}

	return engine
}
