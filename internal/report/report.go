// Package report renders attendance statistics as Excel workbooks.
package report

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/UnknownOlympus/chronos/internal/models"
	"github.com/xuri/excelize/v2"
)

var ErrNoRows = errors.New("failed to generate report, 0 rows were provided")

const (
	maxSheetName      = 31
	noDepartmentSheet = "No department"
	lastColumn        = "H"
)

var headers = []string{
	"Employee ID", "Full Name", "Total Days", "Present Days",
	"Late Days", "Avg Work Hours", "Total Work Hours", "Overtime Hours",
}

// Generator holds the state for the Excel report generation process.
type Generator struct {
	file *excelize.File
}

// NewGenerator creates a new report generator.
func NewGenerator() *Generator {
	return &Generator{
		file: excelize.NewFile(),
	}
}

// GenerateAttendanceReport renders monthly attendance statistics into an Excel
// workbook with one sheet per department, sheets in alphabetical order. The title
// is written to the workbook properties.
func GenerateAttendanceReport(title string, rows []models.EmployeeAttendanceStats) (*bytes.Buffer, error) {
	var err error

	if len(rows) == 0 {
		return nil, ErrNoRows
	}

	rowsByDepartment := make(map[string][]models.EmployeeAttendanceStats)
	for _, row := range rows {
		department := sheetName(row.Department)
		rowsByDepartment[department] = append(rowsByDepartment[department], row)
	}

	gen := NewGenerator()
	defer gen.file.Close()

	if err = gen.file.SetDocProps(&excelize.DocProperties{Title: title, Creator: "chronos"}); err != nil {
		return nil, fmt.Errorf("failed to set document properties: %w", err)
	}

	if err = gen.addSheets(rowsByDepartment); err != nil {
		return nil, fmt.Errorf("failed to add sheets: %w", err)
	}

	// delete default sheet
	if sheetIndex, _ := gen.file.GetSheetIndex("Sheet1"); sheetIndex != -1 {
		if err = gen.file.DeleteSheet("Sheet1"); err != nil {
			return nil, fmt.Errorf("failed to delete default sheet 'Sheet1': %w", err)
		}
	}

	gen.file.SetActiveSheet(0)

	buffer, err := gen.file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write data from saved file: %w", err)
	}

	return buffer, nil
}

// addSheets creates one sheet per department and fills it with its employees.
func (g *Generator) addSheets(rowsByDepartment map[string][]models.EmployeeAttendanceStats) error {
	var err error
	headerIndex := 2

	departments := make([]string, 0, len(rowsByDepartment))
	for department := range rowsByDepartment {
		departments = append(departments, department)
	}
	sort.Strings(departments)

	for i, department := range departments {
		rows := rowsByDepartment[department]

		if _, err = g.file.NewSheet(department); err != nil {
			return fmt.Errorf("failed to generate new sheet '%s': %w", department, err)
		}

		if err = g.setupSheet(department, i, len(rows)); err != nil {
			return fmt.Errorf("failed to setup sheet '%s': %w", department, err)
		}

		for j, row := range rows {
			if err = g.addRow(department, j+headerIndex, row); err != nil { // the first row is the header
				return fmt.Errorf("failed to add row '%d': %w", j+headerIndex, err)
			}
		}
	}
	return nil
}

// setupSheet writes the styled header, sets the column widths and adds a table
// over the header and rowCount data rows.
func (g *Generator) setupSheet(sheet string, index, rowCount int) error {
	var err error

	headerStyle, err := g.file.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Vertical: "center", Horizontal: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create new style: %w", err)
	}

	rowHeight := 20
	if err = g.file.SetRowHeight(sheet, 1, float64(rowHeight)); err != nil {
		return fmt.Errorf("failed to set row height for headers: %w", err)
	}
	if err = g.file.SetSheetRow(sheet, "A1", &headers); err != nil {
		return fmt.Errorf("failed to set sheet row for headers: %w", err)
	}
	if err = g.file.SetCellStyle(sheet, "A1", lastColumn+"1", headerStyle); err != nil {
		return fmt.Errorf("failed to set cell style for headers: %w", err)
	}

	widths := map[string]float64{
		"A": 15, "B": 30, "C": 12, "D": 14, "E": 12, "F": 16, "G": 18, "H": 16, //nolint:mnd // column widths
	}
	for col, width := range widths {
		if err = g.file.SetColWidth(sheet, col, col, width); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}

	if err = g.file.AddTable(sheet, &excelize.Table{
		Range:     fmt.Sprintf("A1:%s%d", lastColumn, rowCount+1),
		Name:      tableName(sheet, index),
		StyleName: "TableStyleMedium9",
	}); err != nil {
		return fmt.Errorf("failed to add table: %w", err)
	}

	return nil
}

// addRow writes the statistics of one employee at rowNum.
func (g *Generator) addRow(sheet string, rowNum int, row models.EmployeeAttendanceStats) error {
	rowData := []any{
		row.EmployeeCode,
		row.FullName,
		row.TotalDays,
		row.PresentDays,
		row.LateDays,
		row.AvgWorkHours,
		row.TotalWorkHours,
		row.TotalOvertimeHours,
	}
	cell, _ := excelize.CoordinatesToCellName(1, rowNum)

	if err := g.file.SetSheetRow(sheet, cell, &rowData); err != nil {
		return fmt.Errorf("failed to set sheet row: %w", err)
	}

	return nil
}

// sheetName makes a department name usable as a sheet name: characters Excel
// forbids are replaced and the result is truncated to 31 runes.
func sheetName(department string) string {
	name := strings.TrimSpace(strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '-'
		}
		return r
	}, department))
	if name == "" {
		return noDepartmentSheet
	}
	return truncateSheetName(name)
}

// truncateSheetName truncates the given sheet name to a maximum of 31 runes.
func truncateSheetName(name string) string {
	if utf8.RuneCountInString(name) > maxSheetName {
		runes := []rune(name)
		return string(runes[:maxSheetName])
	}
	return name
}

// tableName derives a workbook-unique table name from the sheet name.
func tableName(sheet string, index int) string {
	var b strings.Builder
	b.WriteString("table_")
	for _, r := range sheet {
		if r < utf8.RuneSelf && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		}
	}
	fmt.Fprintf(&b, "_%d", index)
	return b.String()
}
