package budget

import (
	"github.com/alexanderramin/claquete/internal/domain"
	"github.com/shopspring/decimal"
)

// AddComplementary attaches a complementary line to a labor row.
func (e *Editor) AddComplementary(rowID string, line domain.ComplementaryLine) (string, bool) {
	if !e.editable() {
		return "", false
	}
	lr, ok := e.laborRow(rowID)
	if !ok {
		return "", false
	}
	if line.ID == "" {
		line.ID = e.newID()
	}
	if !domain.ValidComplementaryTypes[string(line.Type)] {
		line.Type = domain.CompOther
	}
	line.Value = domain.NonNegative(line.Value)
	lr.Complementary = append(lr.Complementary, line)
	e.syncCatering()
	return line.ID, true
}

// UpdateComplementary changes the description and value of a complementary line.
func (e *Editor) UpdateComplementary(rowID, lineID string, description *string, value *decimal.Decimal) bool {
	if !e.editable() {
		return false
	}
	lr, ok := e.laborRow(rowID)
	if !ok {
		return false
	}
	for i := range lr.Complementary {
		if lr.Complementary[i].ID != lineID {
			continue
		}
		setString(&lr.Complementary[i].Description, description)
		setAmount(&lr.Complementary[i].Value, value)
		return true
	}
	return false
}

// RemoveComplementary detaches a complementary line from its labor row.
func (e *Editor) RemoveComplementary(rowID, lineID string) bool {
	if !e.editable() {
		return false
	}
	lr, ok := e.laborRow(rowID)
	if !ok {
		return false
	}
	for i := range lr.Complementary {
		if lr.Complementary[i].ID == lineID {
			lr.Complementary = append(lr.Complementary[:i:i], lr.Complementary[i+1:]...)
			return true
		}
	}
	return false
}

func (e *Editor) laborRow(id string) (*domain.LaborRow, bool) {
	row, _, ok := e.state.FindRow(id)
	if !ok {
		return nil, false
	}
	lr, ok := row.(*domain.LaborRow)
	return lr, ok
}
