package persistence

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/erp/fulfillment/internal/domain/order"
	"github.com/erp/fulfillment/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockOrderRepository creates a GormOrderRepository with a mocked SQL connection
func newMockOrderRepository(t *testing.T) (*GormOrderRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormOrderRepository(gormDB), mock, mockDB
}

func TestNewGormOrderRepository(t *testing.T) {
	repo, _, mockDB := newMockOrderRepository(t)
	defer mockDB.Close()

	assert.NotNil(t, repo)
	assert.NotNil(t, repo.db)
}

func TestGormOrderRepository_FindByID(t *testing.T) {
	t.Run("finds existing order", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		orderID := uuid.New()
		orgID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "organization_id", "version", "order_number", "kind", "status", "currency", "grand_total"}).
			AddRow(orderID, orgID, 1, "PO-2026-00001", "PURCHASE", "DRAFT", "INR", decimal.Zero)

		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE \(organization_id = \$1 AND id = \$2\) AND .*`).
			WithArgs(orgID, orderID, 1).
			WillReturnRows(rows)
		mock.ExpectQuery(`SELECT \* FROM "order_lines" WHERE .*`).
			WithArgs(orderID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "order_id"}))

		o, err := repo.FindByID(context.Background(), orgID, orderID)

		assert.NoError(t, err)
		require.NotNil(t, o)
		assert.Equal(t, orderID, o.ID)
		assert.Equal(t, "PO-2026-00001", o.OrderNumber)
		assert.Equal(t, order.StatusDraft, o.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found for missing order", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		orderID := uuid.New()
		orgID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE .*`).
			WithArgs(orgID, orderID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		o, err := repo.FindByID(context.Background(), orgID, orderID)

		assert.Nil(t, o)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormOrderRepository_ExistsByOrderNumber(t *testing.T) {
	repo, mock, mockDB := newMockOrderRepository(t)
	defer mockDB.Close()

	orgID := uuid.New()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "orders" WHERE .*`).
		WithArgs(orgID, "PO-2026-00001").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := repo.ExistsByOrderNumber(context.Background(), orgID, "PO-2026-00001")

	assert.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormOrderRepository_GenerateOrderNumber(t *testing.T) {
	t.Run("first number of the year", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		orgID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE .*order_number LIKE .*`).
			WillReturnError(gorm.ErrRecordNotFound)
		mock.ExpectQuery(`SELECT count\(\*\) FROM "orders" WHERE .*`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		number, err := repo.GenerateOrderNumber(context.Background(), orgID, order.KindPurchase)

		assert.NoError(t, err)
		assert.Regexp(t, regexp.MustCompile(`^PO-\d{4}-00001$`), number)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("production orders use MO prefix", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		orgID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE .*order_number LIKE .*`).
			WillReturnError(gorm.ErrRecordNotFound)
		mock.ExpectQuery(`SELECT count\(\*\) FROM "orders" WHERE .*`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		number, err := repo.GenerateOrderNumber(context.Background(), orgID, order.KindProduction)

		assert.NoError(t, err)
		assert.Regexp(t, regexp.MustCompile(`^MO-\d{4}-00001$`), number)
	})
}

func TestGormOrderRepository_SaveWithLock(t *testing.T) {
	t.Run("version mismatch reports concurrent modification", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		o, err := order.NewPurchaseOrder(uuid.New(), "PO-2026-00001", uuid.New(), "Acme", "INR", decimal.NewFromFloat(0.18), uuid.New())
		require.NoError(t, err)

		mock.ExpectBegin()
		// stored version is ahead of the aggregate's
		mock.ExpectQuery(`SELECT "version" FROM "orders" WHERE .*`).
			WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(o.Version + 1))
		mock.ExpectRollback()

		err = repo.SaveWithLock(context.Background(), o)

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CONCURRENT_MODIFICATION", domainErr.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("deleted order reports not found", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		o, err := order.NewPurchaseOrder(uuid.New(), "PO-2026-00002", uuid.New(), "Acme", "INR", decimal.NewFromFloat(0.18), uuid.New())
		require.NoError(t, err)

		mock.ExpectBegin()
		// no row for the order anymore
		mock.ExpectQuery(`SELECT "version" FROM "orders" WHERE .*`).
			WillReturnRows(sqlmock.NewRows([]string{"version"}))
		mock.ExpectRollback()

		err = repo.SaveWithLock(context.Background(), o)

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
