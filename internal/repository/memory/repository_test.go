package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/coopcontrol/internal/domain/models"
)

func TestAppendThenFetchKeepsOrder(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	require.NoError(t, repo.AppendRecord(ctx, models.TableFlock, []interface{}{"2025-01-02", "Add", 10, "chicks"}))
	require.NoError(t, repo.AppendRecord(ctx, models.TableFlock, []interface{}{"2025-01-01", "Remove", 1}))

	records, err := repo.FetchAllRecords(ctx, models.TableFlock)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "chicks", records[0]["Reason"])
	assert.Equal(t, "Remove", records[1]["Action"])
	assert.Equal(t, "", records[1]["Reason"])

	sales, err := repo.FetchAllRecords(ctx, models.TableSales)
	require.NoError(t, err)
	assert.Empty(t, sales)
}

func TestFailAppends(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()
	repo.FailAppends(models.TableSales, errors.New("quota exceeded"))

	err := repo.AppendRecord(ctx, models.TableSales, []interface{}{"2025-01-01"})
	assert.ErrorIs(t, err, models.ErrWriteFailure)

	repo.FailAppends(models.TableSales, nil)
	assert.NoError(t, repo.AppendRecord(ctx, models.TableSales, []interface{}{"2025-01-01"}))
}

func TestUnknownTable(t *testing.T) {
	repo := NewRepository()
	assert.Error(t, repo.AppendRecord(context.Background(), "Eggs", nil))
	_, err := repo.FetchAllRecords(context.Background(), "Eggs")
	assert.Error(t, err)
}
