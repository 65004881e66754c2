package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"cablestock-service/internal/apperrors"
	"cablestock-service/internal/models"
)

// importColumns is the required header row, matched case-insensitively.
var importColumns = []string{"TableName", "MovementType", "Quantity", "Color", "CableID"}

// ImportService runs bulk movement imports from XLSX workbooks. Rows are
// processed independently; a failing row is reported and skipped without
// aborting the batch.
type ImportService struct {
	movements *MovementService
	stock     MovementStore
	users     UserStore
	logger    *logrus.Logger
}

func NewImportService(movements *MovementService, stock MovementStore, users UserStore, logger *logrus.Logger) *ImportService {
	return &ImportService{
		movements: movements,
		stock:     stock,
		users:     users,
		logger:    logger,
	}
}

type importRow struct {
	rowNum       int
	tableName    string
	movementType string
	quantity     string
	color        string
	cableID      string
}

// ImportXLSX reads the first sheet of the workbook and applies every data
// row as a movement. With dryRun set, rows are validated against the
// stock levels as they stood before the batch, and nothing is written.
func (s *ImportService) ImportXLSX(ctx context.Context, file io.Reader, dryRun bool, userID int64) (*models.ImportResult, error) {
	rows, err := s.parseSheet(file)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetActiveByID(ctx, userID)
	if err != nil {
		return nil, apperrors.NewInternal("failed to resolve user", err)
	}
	if user == nil {
		return nil, apperrors.NewNotFound("user %d not found or inactive", userID)
	}

	result := &models.ImportResult{
		BatchID: uuid.NewString(),
		DryRun:  dryRun,
		Rows:    make([]models.ImportRowResult, 0, len(rows)),
	}

	for _, row := range rows {
		result.Total++

		if err := s.processRow(ctx, row, dryRun, userID); err != nil {
			result.Skipped++
			code, _ := apperrors.Categorize(err)
			result.Rows = append(result.Rows, models.ImportRowResult{
				Row:    row.rowNum,
				Status: models.ImportRowSkipped,
				Error:  fmt.Sprintf("%s: %s", code, err.Error()),
			})
			continue
		}

		result.Processed++
		result.Rows = append(result.Rows, models.ImportRowResult{
			Row:    row.rowNum,
			Status: models.ImportRowProcessed,
		})
	}

	s.logger.WithFields(logrus.Fields{
		"batchId":   result.BatchID,
		"dryRun":    dryRun,
		"total":     result.Total,
		"processed": result.Processed,
		"skipped":   result.Skipped,
	}).Info("Bulk import finished")

	return result, nil
}

func (s *ImportService) parseSheet(file io.Reader) ([]importRow, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, apperrors.NewValidation("failed to open workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.NewValidation("workbook has no sheets")
	}

	sheetRows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperrors.NewValidation("failed to read sheet: %v", err)
	}
	if len(sheetRows) == 0 {
		return nil, apperrors.NewValidation("workbook is empty")
	}

	header := sheetRows[0]
	for i, expected := range importColumns {
		var found string
		if i < len(header) {
			found = strings.TrimSpace(header[i])
		}
		if !strings.EqualFold(found, expected) {
			return nil, apperrors.NewValidation("expected column %q, found %q", expected, found)
		}
	}

	cell := func(row []string, i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	// The data region ends at the first row with an empty first cell.
	var rows []importRow
	for idx, raw := range sheetRows[1:] {
		if cell(raw, 0) == "" {
			break
		}
		rows = append(rows, importRow{
			rowNum:       idx + 2,
			tableName:    cell(raw, 0),
			movementType: cell(raw, 1),
			quantity:     cell(raw, 2),
			color:        cell(raw, 3),
			cableID:      cell(raw, 4),
		})
	}
	return rows, nil
}

func (s *ImportService) processRow(ctx context.Context, row importRow, dryRun bool, userID int64) error {
	tableName := models.TargetKind(row.tableName)
	movementType := models.MovementType(row.movementType)

	if tableName != models.TargetSingle && tableName != models.TargetMulti {
		return apperrors.NewValidation("invalid TableName: %s", row.tableName)
	}
	if movementType != models.MovementInflow && movementType != models.MovementOutflow {
		return apperrors.NewValidation("invalid MovementType: %s", row.movementType)
	}

	qty, err := strconv.Atoi(row.quantity)
	if err != nil {
		return apperrors.NewValidation("invalid Quantity: %s", row.quantity)
	}
	if qty <= 0 {
		return apperrors.NewValidation("quantity must be positive, got %d", qty)
	}

	req := &models.CreateMovementRequest{
		TableName:    tableName,
		MovementType: movementType,
		Quantity:     qty,
	}

	if tableName == models.TargetSingle {
		if row.color == "" {
			return apperrors.NewValidation("color is required for single cable movements")
		}
		color := row.color
		req.Color = &color
	} else {
		if row.cableID == "" {
			return apperrors.NewValidation("cableId is required for multi cable movements")
		}
		cableID, err := strconv.Atoi(row.cableID)
		if err != nil {
			return apperrors.NewValidation("invalid CableID: %s", row.cableID)
		}
		req.CableID = cableID
	}

	if dryRun {
		return s.validateAgainstBaseline(ctx, req)
	}

	_, _, err = s.movements.Record(ctx, req, userID)
	return err
}

// validateAgainstBaseline checks a row against live stock levels without
// writing. Dry runs do not accumulate the batch's own effects, so each
// row is judged against the pre-batch state.
func (s *ImportService) validateAgainstBaseline(ctx context.Context, req *models.CreateMovementRequest) error {
	if req.TableName == models.TargetSingle {
		if req.MovementType == models.MovementOutflow {
			current, err := s.stock.CurrentColorStock(ctx, *req.Color)
			if err != nil {
				return err
			}
			if current < req.Quantity {
				return apperrors.NewConflict("insufficient active single stock for color %q: have %d, requested %d",
					*req.Color, current, req.Quantity)
			}
		}
		return nil
	}

	current, err := s.stock.CurrentMultiStock(ctx, req.CableID)
	if err != nil {
		var notFound *apperrors.NotFoundError
		if errors.As(err, &notFound) {
			return apperrors.NewNotFound("multi cable %d not found or inactive", req.CableID)
		}
		return err
	}
	if req.MovementType == models.MovementOutflow && current < req.Quantity {
		return apperrors.NewConflict("insufficient multi stock for cable %d: have %d, requested %d",
			req.CableID, current, req.Quantity)
	}
	return nil
}

// TemplateFile builds the downloadable import template workbook.
func TemplateFile() (*excelize.File, error) {
	const sheetName = "Movements"

	f := excelize.NewFile()
	f.SetSheetName("Sheet1", sheetName)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}

	for i, col := range importColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, col)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)

		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, colName, colName, 16)
	}

	samples := [][]interface{}{
		{"Single", string(models.MovementInflow), 10, "Kırmızı", ""},
		{"Multi", string(models.MovementOutflow), 3, "", 1},
	}
	for rowIdx, sample := range samples {
		for colIdx, value := range sample {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, err
	}

	sheetIdx, _ := f.GetSheetIndex(sheetName)
	f.SetActiveSheet(sheetIdx)
	return f, nil
}
