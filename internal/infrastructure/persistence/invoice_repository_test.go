package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/billing"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockInvoiceDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
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

	return gormDB, mock, mockDB
}

func TestGormInvoiceRepository_Create(t *testing.T) {
	t.Run("duplicate invoice number maps to ALREADY_EXISTS", func(t *testing.T) {
		gormDB, mock, mockDB := newMockInvoiceDB(t)
		defer mockDB.Close()
		repo := NewGormInvoiceRepository(gormDB)

		invoice, err := billing.NewInvoice(uuid.New(), "", "", "")
		require.NoError(t, err)
		require.NoError(t, invoice.SetInvoiceNumber("INV-2026-00001"))

		mock.ExpectExec(`INSERT INTO "invoices"`).
			WillReturnError(gorm.ErrDuplicatedKey)

		err = repo.Create(context.Background(), invoice)

		require.Error(t, err)
		assert.Equal(t, shared.ErrAlreadyExists, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInvoiceRepository_FindByNumber(t *testing.T) {
	t.Run("missing invoice maps to NOT_FOUND", func(t *testing.T) {
		gormDB, mock, mockDB := newMockInvoiceDB(t)
		defer mockDB.Close()
		repo := NewGormInvoiceRepository(gormDB)

		mock.ExpectQuery(`SELECT \* FROM "invoices" WHERE invoice_number = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("INV-2026-99999", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		invoice, err := repo.FindByNumber(context.Background(), "INV-2026-99999")

		require.Error(t, err)
		assert.Nil(t, invoice)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormNumberSequenceRepository_Next(t *testing.T) {
	t.Run("formats the issued number", func(t *testing.T) {
		gormDB, mock, mockDB := newMockInvoiceDB(t)
		defer mockDB.Close()
		repo := NewGormNumberSequenceRepository(gormDB)

		year := time.Now().Year()
		mock.ExpectQuery(`(?s)INSERT INTO invoice_sequences.*ON CONFLICT \(year\).*RETURNING last_value`).
			WithArgs(year).
			WillReturnRows(sqlmock.NewRows([]string{"last_value"}).AddRow(int64(42)))

		number, err := repo.Next(context.Background())

		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("INV-%d-00042", year), number)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
