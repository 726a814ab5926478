package service

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"photoflow-backend/internal/domains/derivative/model"
)

// ExportToExcel lists derivatives through the same filter path as Query
// and lays them out as a workbook, one row per derivative.
func (s *DerivativeService) ExportToExcel(ctx context.Context, req model.QueryRequest) (*excelize.File, []*model.GeneratedDerivative, error) {
	derivatives, err := s.Query(ctx, req)
	if err != nil {
		return nil, nil, err
	}

	f, err := buildDerivativesExcelFile(derivatives)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build excel file: %w", err)
	}

	return f, derivatives, nil
}

func buildDerivativesExcelFile(derivatives []*model.GeneratedDerivative) (*excelize.File, error) {
	f := excelize.NewFile()

	sheetName := "Derivatives"
	f.SetSheetName("Sheet1", sheetName)

	headers := []string{
		"ID",
		"Source Asset",
		"Platform",
		"Variant",
		"Crop X",
		"Crop Y",
		"Crop Width",
		"Crop Height",
		"Score",
		"Output Width",
		"Output Height",
		"Blob Key",
		"Saved",
		"Exported",
		"Created At",
	}

	for colIdx, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(colIdx+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
	})
	if err == nil {
		f.SetCellStyle(sheetName, "A1", "O1", headerStyle)
	}

	for i, d := range derivatives {
		rowNum := i + 2

		cell := func(col int) string {
			name, _ := excelize.CoordinatesToCellName(col, rowNum)
			return name
		}

		f.SetCellValue(sheetName, cell(1), d.ID.String())
		f.SetCellValue(sheetName, cell(2), d.SourceAssetID.String())
		f.SetCellValue(sheetName, cell(3), string(d.Platform))
		f.SetCellValue(sheetName, cell(4), d.VariantName)
		f.SetCellValue(sheetName, cell(5), d.Crop.X)
		f.SetCellValue(sheetName, cell(6), d.Crop.Y)
		f.SetCellValue(sheetName, cell(7), d.Crop.Width)
		f.SetCellValue(sheetName, cell(8), d.Crop.Height)
		f.SetCellValue(sheetName, cell(9), d.Score)
		f.SetCellValue(sheetName, cell(10), d.OutputWidth)
		f.SetCellValue(sheetName, cell(11), d.OutputHeight)
		f.SetCellValue(sheetName, cell(12), d.BlobKey)
		f.SetCellValue(sheetName, cell(13), d.Saved)
		f.SetCellValue(sheetName, cell(14), d.Exported)
		f.SetCellValue(sheetName, cell(15), d.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	return f, nil
}
