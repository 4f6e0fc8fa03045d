package excel

import (
	"fmt"

	"github.com/zourte2486/school-platform-test/internal/model"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Schools"

var headers = []string{"ID", "Name", "Address", "City", "State", "Contact", "Email", "Image", "Created At"}

type Exporter struct{}

func NewExporter() *Exporter {
	return &Exporter{}
}

// Export writes the listing into an XLSX workbook, one row per school in
// the order given.
func (e *Exporter) Export(schools []model.School) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := file.SetCellValue(sheetName, cell, header); err != nil {
			return nil, err
		}
	}

	for i, school := range schools {
		row := []interface{}{
			school.ID, school.Name, school.Address, school.City, school.State,
			school.Contact, school.EmailID, school.Image,
			school.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := file.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}
