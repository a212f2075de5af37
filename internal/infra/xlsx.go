package infra

import (
	"fmt"
	"io"

	"github.com/LaTashkhat17/Inventory-Management-System/internal/dto"

	"github.com/xuri/excelize/v2"
)

const inventorySheet = "Inventory"

// WriteInventoryXLSX renders ledger rows as a single-sheet workbook.
func WriteInventoryXLSX(w io.Writer, rows []dto.LedgerEntryResponse) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", inventorySheet); err != nil {
		return err
	}

	header := []interface{}{"Date", "Item", "Item ID", "Type", "Quantity", "Reference"}
	if err := f.SetSheetRow(inventorySheet, "A1", &header); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(inventorySheet, "A1", "F1", bold); err != nil {
		return err
	}

	for i, r := range rows {
		qty, _ := r.Quantity.Float64()
		row := []interface{}{r.MovementDate, r.ItemName, r.ItemID, r.MovementType, qty, r.MovementReference}
		if err := f.SetSheetRow(inventorySheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}
	_ = f.SetColWidth(inventorySheet, "B", "C", 36)
	_ = f.SetColWidth(inventorySheet, "F", "F", 48)

	_, err = f.WriteTo(w)
	return err
}
