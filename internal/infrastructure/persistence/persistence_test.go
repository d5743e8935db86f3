package persistence

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/estudio/backend/internal/domain/billing"
	"github.com/estudio/backend/internal/infrastructure/persistence/models"
)

// newTestDB opens an in-memory sqlite database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A named in-memory database keeps all pooled connections on the same
	// schema while isolating tests from one another.
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
	return db
}

func ars(v float64) *decimal.Decimal {
	d := decimal.NewFromFloat(v)
	return &d
}

func seedCuota(t *testing.T, db *gorm.DB, planID uuid.UUID, numero int, montoARS float64) *billing.Cuota {
	t.Helper()
	cuota, err := billing.NewCuota(planID, numero, time.Now().AddDate(0, numero, 0), billing.MonetaryFields{MontoARS: ars(montoARS)})
	require.NoError(t, err)
	require.NoError(t, NewGormCuotaRepository(db).Save(t.Context(), cuota))
	return cuota
}
