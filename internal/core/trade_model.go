package core

import (
	"github.com/shopspring/decimal"
)

// LineInput is one line of a new purchase or sale.
type LineInput struct {
	ItemID    int             `json:"itemId" validate:"required,gt=0"`
	Quantity  decimal.Decimal `json:"quantity" validate:"gt=0,scale=4"`
	UnitPrice decimal.Decimal `json:"unitPrice" validate:"gte=0,scale=2"`
}

// LineQuantityInput sets the quantity of the existing line holding ItemID.
type LineQuantityInput struct {
	ItemID   int             `json:"itemId" validate:"required,gt=0"`
	Quantity decimal.Decimal `json:"quantity" validate:"gt=0,scale=4"`
}

// lineTotal is quantity x unit price rounded to cents, matching the column scale.
func lineTotal(qty, unitPrice decimal.Decimal) decimal.Decimal {
	return qty.Mul(unitPrice).Round(2)
}

// sumLines totals the lines of a new document.
func sumLines(lines []LineInput) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(lineTotal(l.Quantity, l.UnitPrice))
	}
	return total
}

// checkDistinctItems rejects a line update naming the same item twice.
func checkDistinctItems(lines []LineQuantityInput) error {
	seen := make(map[int]bool, len(lines))
	for _, l := range lines {
		if seen[l.ItemID] {
			return &ValidationError{Field: "items", Message: "lists the same item more than once"}
		}
		seen[l.ItemID] = true
	}
	return nil
}

// tradePatch checks the non-tag rules of an update and builds the patch.
func tradePatch(settled, total *decimal.Decimal, status *string, lines []LineQuantityInput) (tradeDocPatch, error) {
	patch := tradeDocPatch{Settled: settled, Total: total, Lines: lines}
	if status != nil {
		if *status == "" {
			return tradeDocPatch{}, &ValidationError{Field: "status", Message: "must not be empty"}
		}
		st, err := ParseTradeStatus(*status)
		if err != nil {
			return tradeDocPatch{}, err
		}
		patch.Status = &st
	}
	if err := checkDistinctItems(lines); err != nil {
		return tradeDocPatch{}, err
	}
	return patch, nil
}
