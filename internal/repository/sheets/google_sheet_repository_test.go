package sheets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/coopcontrol/internal/domain/models"
)

func TestRecordsFromRows(t *testing.T) {
	rows := [][]interface{}{
		{"Date", "Action", "Quantity", "Reason"},
		{"2025-01-01", "Add Birds (+)", "10", "Hatchery order"},
		{"2025-01-05", "Remove Birds (-)", "2"},
		{"", "", ""},
		{"2025-01-09", "Add", "1", "Gift"},
	}

	records := recordsFromRows(rows)
	require.Len(t, records, 3)
	assert.Equal(t, models.Record{"Date": "2025-01-01", "Action": "Add Birds (+)", "Quantity": "10", "Reason": "Hatchery order"}, records[0])
	assert.Equal(t, "", records[1]["Reason"])
	assert.Equal(t, "Gift", records[2]["Reason"])
}

func TestRecordsFromRowsEmptySheet(t *testing.T) {
	assert.Empty(t, recordsFromRows(nil))
	assert.NotNil(t, recordsFromRows(nil))
	assert.Empty(t, recordsFromRows([][]interface{}{{"Date", "Eggs_Collected"}}))
}

func TestTableRange(t *testing.T) {
	cases := map[models.Table]string{
		models.TableDailyLog: "Daily_Log!A:D",
		models.TableSales:    "Sales!A:E",
		models.TableFlock:    "Flock!A:D",
	}
	for table, want := range cases {
		got, err := tableRange(table)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := tableRange("Eggs")
	assert.Error(t, err)
}
