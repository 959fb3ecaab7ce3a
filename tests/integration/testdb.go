// Package integration runs the repositories and the HTTP stack against real
// PostgreSQL and Redis containers started with testcontainers.
package integration

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/tunerp/backend/internal/domain/catalog"
	"github.com/tunerp/backend/internal/domain/identity"
	"github.com/tunerp/backend/internal/domain/partner"
	"github.com/tunerp/backend/internal/infrastructure/migration"
	"github.com/tunerp/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	sharedMu       sync.Mutex
	sharedPostgres testcontainers.Container
	sharedDSN      string
	sharedRedis    testcontainers.Container
	sharedRedisURL string
)

// TestDB is a migrated database connection on the shared container
type TestDB struct {
	DB    *gorm.DB
	SqlDB *sql.DB
	t     *testing.T
}

// NewTestDB returns a connection to the shared PostgreSQL container, starting
// and migrating it on first use. Tests isolate their data by company.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	sharedMu.Lock()
	defer sharedMu.Unlock()

	ctx := context.Background()
	if sharedPostgres == nil {
		container, err := tcpostgres.Run(ctx,
			"postgres:16-alpine",
			tcpostgres.WithDatabase("tunerp_test"),
			tcpostgres.WithUsername("postgres"),
			tcpostgres.WithPassword("postgres"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second)),
		)
		require.NoError(t, err, "Failed to start PostgreSQL container")

		dsn, err := container.ConnectionString(ctx, "sslmode=disable")
		require.NoError(t, err, "Failed to get connection string")

		_, sqlDB := connectToDatabase(t, dsn)
		runMigrations(t, sqlDB)
		_ = sqlDB.Close()

		sharedPostgres, sharedDSN = container, dsn
	}

	db, sqlDB := connectToDatabase(t, sharedDSN)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return &TestDB{DB: db, SqlDB: sqlDB, t: t}
}

// NewTestRedis returns a client on the shared Redis container
func NewTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	sharedMu.Lock()
	defer sharedMu.Unlock()

	ctx := context.Background()
	if sharedRedis == nil {
		container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        "redis:7-alpine",
				ExposedPorts: []string{"6379/tcp"},
				WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
			},
			Started: true,
		})
		require.NoError(t, err, "Failed to start Redis container")

		endpoint, err := container.Endpoint(ctx, "")
		require.NoError(t, err)
		sharedRedis, sharedRedisURL = container, endpoint
	}

	client := redis.NewClient(&redis.Options{Addr: sharedRedisURL})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(ctx).Err())
	return client
}

// CleanupContainers terminates the shared containers. Called from TestMain.
func CleanupContainers() {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	for _, c := range []testcontainers.Container{sharedPostgres, sharedRedis} {
		if c != nil {
			_ = c.Terminate(ctx)
		}
	}
	sharedPostgres, sharedRedis = nil, nil
}

func connectToDatabase(t *testing.T, dsn string) (*gorm.DB, *sql.DB) {
	t.Helper()

	gormConfig := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	if os.Getenv("TEST_DB_DEBUG") != "" {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(gormpostgres.Open(dsn), gormConfig)
	require.NoError(t, err, "Failed to connect to database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(2)
	return db, sqlDB
}

func runMigrations(t *testing.T, sqlDB *sql.DB) {
	t.Helper()

	m, err := migration.New(sqlDB, zap.NewNop())
	require.NoError(t, err, "Failed to load migrations")
	require.NoError(t, m.Up(), "Failed to run migrations")
}

// CreateCompany saves an active company and returns its ID
func (tdb *TestDB) CreateCompany(name string) uuid.UUID {
	tdb.t.Helper()

	company, err := identity.NewCompany(identity.CompanyProfile{Name: name}, 0)
	require.NoError(tdb.t, err)
	require.NoError(tdb.t, persistence.NewGormCompanyRepository(tdb.DB).Save(context.Background(), company))
	return company.ID
}

// CreateUser saves a user of the company with a known password
func (tdb *TestDB) CreateUser(companyID *uuid.UUID, role identity.Role, password string) *identity.User {
	tdb.t.Helper()

	email := fmt.Sprintf("user-%s@test.tn", uuid.NewString()[:8])
	user, err := identity.NewUser(companyID, "Utilisateur Test", email, password, role)
	require.NoError(tdb.t, err)
	require.NoError(tdb.t, persistence.NewGormUserRepository(tdb.DB).Save(context.Background(), user))
	return user
}

// CreateProduct saves a product with the given stock and sale price
func (tdb *TestDB) CreateProduct(companyID uuid.UUID, name string, stock, price decimal.Decimal) *catalog.Product {
	tdb.t.Helper()

	product, err := catalog.NewProduct(companyID, name, "pièce", decimal.NewFromInt(19))
	require.NoError(tdb.t, err)
	require.NoError(tdb.t, product.SetPrices(price.Div(decimal.NewFromInt(2)), price))
	require.NoError(tdb.t, product.SetInitialStock(stock))
	product.ClearDomainEvents()
	require.NoError(tdb.t, persistence.NewGormProductRepository(tdb.DB).Save(context.Background(), product))
	return product
}

// CreateClient saves a client with a unique Tunisian mobile number
func (tdb *TestDB) CreateClient(companyID uuid.UUID, name string) *partner.Client {
	tdb.t.Helper()

	phone := fmt.Sprintf("+2162%07d", time.Now().UnixNano()%10_000_000)
	client, err := partner.NewClient(companyID, partner.ClientDetails{Name: name, Phone: phone})
	require.NoError(tdb.t, err)
	require.NoError(tdb.t, persistence.NewGormClientRepository(tdb.DB).Save(context.Background(), client))
	return client
}

// CreateSupplier saves a supplier with a unique Tunisian mobile number
func (tdb *TestDB) CreateSupplier(companyID uuid.UUID, name string) *partner.Supplier {
	tdb.t.Helper()

	phone := fmt.Sprintf("+2165%07d", time.Now().UnixNano()%10_000_000)
	supplier, err := partner.NewSupplier(companyID, partner.SupplierDetails{Name: name, Phone: phone})
	require.NoError(tdb.t, err)
	require.NoError(tdb.t, persistence.NewGormSupplierRepository(tdb.DB).Save(context.Background(), supplier))
	return supplier
}
