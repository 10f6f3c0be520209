package bootstrap

import (
	"context"
	"path/filepath"
	"testing"

	"forum/internal/config"
	"forum/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func sqliteConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Env:               "test",
		DBDriver:          "sqlite",
		DBSQLitePath:      filepath.Join(t.TempDir(), "forum.db"),
		DBSchemaMode:      "hybrid",
		DBMaxIdleConns:    1,
		BcryptCost:        bcrypt.MinCost,
		SeedAdminUsername: "admin",
		SeedAdminPassword: "admin123",
	}
}

func closeDB(t *testing.T, db *gorm.DB) {
	t.Helper()
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
}

func TestInitRuntimeSeedsReferenceData(t *testing.T) {
	cfg := sqliteConfig(t)
	ctx := context.Background()

	db, r, err := InitRuntime(ctx, cfg, Options{SeedReferenceData: true})
	require.NoError(t, err)
	closeDB(t, db)
	assert.Nil(t, r, "no REDIS_URL means no cache client")

	var programs int64
	require.NoError(t, db.Model(&models.StudyProgram{}).Count(&programs).Error)
	assert.Equal(t, int64(6), programs)

	var admin models.User
	require.NoError(t, db.Where("username = ?", "admin").First(&admin).Error)
	assert.Equal(t, models.RoleAdmin, admin.Role)

	// A second boot against the same file must not duplicate anything.
	require.NoError(t, SeedReferenceData(ctx, cfg, db))
	require.NoError(t, db.Model(&models.StudyProgram{}).Count(&programs).Error)
	assert.Equal(t, int64(6), programs)

	var admins int64
	require.NoError(t, db.Model(&models.User{}).Where("username = ?", "admin").Count(&admins).Error)
	assert.Equal(t, int64(1), admins)
}

func TestInitRuntimeWithoutSeeding(t *testing.T) {
	cfg := sqliteConfig(t)

	db, _, err := InitRuntime(context.Background(), cfg, Options{})
	require.NoError(t, err)
	closeDB(t, db)

	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.Zero(t, users)
}

func TestSeedReferenceDataSkipsAdminWithoutPassword(t *testing.T) {
	cfg := sqliteConfig(t)
	cfg.SeedAdminPassword = ""

	db, _, err := InitRuntime(context.Background(), cfg, Options{SeedReferenceData: true})
	require.NoError(t, err)
	closeDB(t, db)

	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.Zero(t, users)

	var programs int64
	require.NoError(t, db.Model(&models.StudyProgram{}).Count(&programs).Error)
	assert.Equal(t, int64(6), programs)
}

func TestInitRuntimeRejectsUnknownDriver(t *testing.T) {
	cfg := sqliteConfig(t)
	cfg.DBDriver = "mysql"

	_, _, err := InitRuntime(context.Background(), cfg, Options{})
	assert.ErrorContains(t, err, "database connection failed")
}
