package domain

// Row is one spreadsheet row. Cells may be strings, numbers or booleans.
type Row []any

// Sheet is an ordered set of rows destined for one worksheet.
type Sheet struct {
	Name string
	Rows []Row
}

// Workbook is the complete report, one sheet per table, in display order.
type Workbook struct {
	Sheets []Sheet
}
