package models

// Table names one of the append-only ledgers kept in the store.
type Table string

const (
	TableDailyLog Table = "Daily_Log"
	TableSales    Table = "Sales"
	TableFlock    Table = "Flock"
)

// Column headers, in the order rows are written.
const (
	ColumnDate           = "Date"
	ColumnEggsCollected  = "Eggs_Collected"
	ColumnFeedBagsOpened = "Feed_Bags_Opened"
	ColumnNotes          = "Notes"
	ColumnCustomer       = "Customer"
	ColumnDozensSold     = "Dozens_Sold"
	ColumnTotalPrice     = "Total_Price"
	ColumnStatus         = "Status"
	ColumnAction         = "Action"
	ColumnQuantity       = "Quantity"
	ColumnReason         = "Reason"
)

var tableColumns = map[Table][]string{
	TableDailyLog: {ColumnDate, ColumnEggsCollected, ColumnFeedBagsOpened, ColumnNotes},
	TableSales:    {ColumnDate, ColumnCustomer, ColumnDozensSold, ColumnTotalPrice, ColumnStatus},
	TableFlock:    {ColumnDate, ColumnAction, ColumnQuantity, ColumnReason},
}

// Tables lists every ledger in display order.
func Tables() []Table {
	return []Table{TableDailyLog, TableSales, TableFlock}
}

// Columns returns the header row of the table, or nil for an unknown table.
func (t Table) Columns() []string {
	cols, ok := tableColumns[t]
	if !ok {
		return nil
	}
	return append([]string(nil), cols...)
}

// Valid reports whether t is one of the known ledgers.
func (t Table) Valid() bool {
	_, ok := tableColumns[t]
	return ok
}

func (t Table) String() string {
	return string(t)
}

// Record is one raw ledger row keyed by column header.
type Record map[string]interface{}
