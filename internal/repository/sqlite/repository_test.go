package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/coopcontrol/internal/domain/models"
)

func openTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(filepath.Join(t.TempDir(), "ledger.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, repo.Close()) })
	return repo
}

func TestAppendThenFetch(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.AppendRecord(ctx, models.TableSales, []interface{}{"2025-02-01", "Cash", 2, "10.00", "Paid"}))
	require.NoError(t, repo.AppendRecord(ctx, models.TableSales, []interface{}{"2025-01-31", "Ana", 1, "5.00", "Pending"}))

	records, err := repo.FetchAllRecords(ctx, models.TableSales)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, models.Record{
		"Date": "2025-02-01", "Customer": "Cash", "Dozens_Sold": "2", "Total_Price": "10.00", "Status": "Paid",
	}, records[0])
	assert.Equal(t, "Ana", records[1]["Customer"])
}

func TestShortRowsArePadded(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.AppendRecord(ctx, models.TableDailyLog, []interface{}{"2025-02-01", 14}))

	records, err := repo.FetchAllRecords(ctx, models.TableDailyLog)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "14", records[0]["Eggs_Collected"])
	assert.Equal(t, "", records[0]["Notes"])
}

func TestAppendRejectsExtraValues(t *testing.T) {
	repo := openTestRepo(t)
	err := repo.AppendRecord(context.Background(), models.TableFlock, []interface{}{"2025-01-01", "Add", 1, "", "extra"})
	assert.ErrorIs(t, err, models.ErrWriteFailure)
}

func TestEmptyTable(t *testing.T) {
	repo := openTestRepo(t)
	records, err := repo.FetchAllRecords(context.Background(), models.TableFlock)
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestMigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	require.NoError(t, RunMigrations(path))
	require.NoError(t, RunMigrations(path))
}
