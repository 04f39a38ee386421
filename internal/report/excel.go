package report

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Proposta"

// GenerateExcel renders doc as a single-sheet workbook and returns the file
// contents.
func GenerateExcel(doc Document) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}
	if err := f.SetColWidth(sheetName, "A", "A", 40); err != nil {
		return nil, fmt.Errorf("set col width A: %w", err)
	}
	if err := f.SetColWidth(sheetName, "B", "B", 28); err != nil {
		return nil, fmt.Errorf("set col width B: %w", err)
	}

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16},
	})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}
	subtitleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 11, Color: "#505050"},
	})
	if err != nil {
		return nil, fmt.Errorf("create subtitle style: %w", err)
	}
	sectionStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create section style: %w", err)
	}
	labelStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create label style: %w", err)
	}
	valueStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 10},
		Alignment: &excelize.Alignment{Horizontal: "right"},
		Border:    thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create value style: %w", err)
	}

	if err := f.MergeCell(sheetName, "A1", "B1"); err != nil {
		return nil, fmt.Errorf("merge title: %w", err)
	}
	f.SetCellValue(sheetName, "A1", sanitizeExcelCell(doc.Title))
	f.SetCellStyle(sheetName, "A1", "B1", titleStyle)

	if doc.Client != "" {
		f.SetCellValue(sheetName, "A2", "Cliente: "+sanitizeExcelCell(doc.Client))
	}
	f.SetCellValue(sheetName, "B2", "Gerado em "+doc.GeneratedAt)
	f.SetCellStyle(sheetName, "A2", "B2", subtitleStyle)

	row := 4
	for _, s := range doc.Sections {
		top := fmt.Sprintf("A%d", row)
		if err := f.MergeCell(sheetName, top, fmt.Sprintf("B%d", row)); err != nil {
			return nil, fmt.Errorf("merge section %s: %w", s.Title, err)
		}
		f.SetCellValue(sheetName, top, s.Title)
		f.SetCellStyle(sheetName, top, fmt.Sprintf("B%d", row), sectionStyle)
		row++

		for _, l := range s.Lines {
			a := fmt.Sprintf("A%d", row)
			b := fmt.Sprintf("B%d", row)
			f.SetCellValue(sheetName, a, l.Label)
			f.SetCellValue(sheetName, b, sanitizeExcelCell(l.Value))
			f.SetCellStyle(sheetName, a, a, labelStyle)
			f.SetCellStyle(sheetName, b, b, valueStyle)
			row++
		}
		row++
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

// sanitizeExcelCell prefixes values Excel would read as formulas.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{Type: side, Color: "#000000", Style: 1}
	}
	return borders
}
