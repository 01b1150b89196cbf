// Package export writes a recommended schedule as a downloadable file.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"coursepick/internal/models/response_models"
)

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

var scheduleHeaders = []string{"学期", "课程名", "学分", "时间", "教师", "地点", "备注", "课程类别"}

// ContentType returns the MIME type and file extension for format.
func ContentType(format string) (string, bool) {
	switch format {
	case FormatCSV:
		return "text/csv; charset=utf-8", true
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", true
	default:
		return "", false
	}
}

func courseRow(label string, c response_models.Course) []string {
	return []string{
		label,
		c.Name,
		c.CreditsLabel(),
		string(c.Time),
		string(c.Teacher),
		string(c.Location),
		string(c.Note),
		strings.Join(c.SubjectCategory, "、"),
	}
}

// WriteScheduleCSV writes every semester into one table, semester label first. A UTF-8
// BOM is written so spreadsheet apps pick the right encoding for the Chinese headers.
func WriteScheduleCSV(w io.Writer, semesters []response_models.Semester) error {
	if _, err := io.WriteString(w, "\ufeff"); err != nil {
		return fmt.Errorf("failed to write bom: %w", err)
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(scheduleHeaders); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, sem := range semesters {
		for _, c := range sem.Courses {
			if err := writer.Write(courseRow(sem.Label, c)); err != nil {
				return fmt.Errorf("failed to write row: %w", err)
			}
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteScheduleXLSX writes one sheet per semester with a credits total under the table.
func WriteScheduleXLSX(w io.Writer, semesters []response_models.Semester) error {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}

	defaultSheet := f.GetSheetName(0)
	used := make(map[string]bool, len(semesters))
	for i, sem := range semesters {
		name := SheetName(sem.Label)
		for n := 2; used[name]; n++ {
			name = fmt.Sprintf("%s(%d)", SheetName(sem.Label), n)
		}
		used[name] = true
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, name); err != nil {
				return fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet: %w", err)
		}

		// semester label is the sheet itself
		headers := scheduleHeaders[1:]
		for col, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(col+1, 1)
			if err := f.SetCellValue(name, cell, h); err != nil {
				return fmt.Errorf("failed to write header: %w", err)
			}
			if err := f.SetCellStyle(name, cell, cell, headerStyle); err != nil {
				return fmt.Errorf("failed to style header: %w", err)
			}
		}

		for r, c := range sem.Courses {
			row := courseRow(sem.Label, c)[1:]
			cell, _ := excelize.CoordinatesToCellName(1, r+2)
			values := make([]any, len(row))
			for j, v := range row {
				values[j] = v
			}
			values[1] = c.Credits
			if err := f.SetSheetRow(name, cell, &values); err != nil {
				return fmt.Errorf("failed to write row: %w", err)
			}
		}

		totalRow := len(sem.Courses) + 2
		if err := f.SetCellValue(name, fmt.Sprintf("A%d", totalRow), "总学分"); err != nil {
			return fmt.Errorf("failed to write total: %w", err)
		}
		if err := f.SetCellValue(name, fmt.Sprintf("B%d", totalRow), sem.Credits()); err != nil {
			return fmt.Errorf("failed to write total: %w", err)
		}
		if err := f.SetCellStyle(name, fmt.Sprintf("A%d", totalRow), fmt.Sprintf("B%d", totalRow), headerStyle); err != nil {
			return fmt.Errorf("failed to style total: %w", err)
		}

		if err := f.SetColWidth(name, "A", "A", 28); err != nil {
			return fmt.Errorf("failed to size columns: %w", err)
		}
		if err := f.SetColWidth(name, "B", "G", 16); err != nil {
			return fmt.Errorf("failed to size columns: %w", err)
		}
	}
	f.SetActiveSheet(0)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// SheetName turns a semester label into a valid worksheet name.
func SheetName(label string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, strings.TrimSpace(label))
	name = strings.Trim(name, "'")
	if name == "" {
		name = "未命名"
	}
	if _, err := strconv.Atoi(name); err == nil {
		name = "第" + name + "学期"
	}
	if r := []rune(name); len(r) > 31 {
		name = string(r[:31])
	}
	return name
}
