package service

import (
	"fmt"

	"github.com/alexanderramin/claquete/internal/closing"
	"github.com/alexanderramin/claquete/internal/domain"
	"github.com/alexanderramin/claquete/internal/savings"
	"github.com/shopspring/decimal"
)

// ClosingLineView is a closing line with its computed amounts.
type ClosingLineView struct {
	domain.ClosingLine
	FinalValue     decimal.Decimal
	ReferenceDaily decimal.Decimal
	Overtime       decimal.Decimal
	Payable        decimal.Decimal
}

// ClosingReport is everything the closing screen shows.
type ClosingReport struct {
	Lines       []ClosingLineView
	Departments []closing.DepartmentTotal
	Totals      closing.Amounts
	Expenses    []domain.ExpenseLine
	ExpenseCaps []closing.ExpenseTotal
	Savings     *savings.Result
}

// editClosing runs fn on the closing book when Closing is editable.
func (w *Workspace) editClosing(fn func(p *domain.Project) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.current == nil {
		return ErrNoProject
	}
	if !domain.Access(w.current.Status).Editable(domain.StageClosing) {
		return fmt.Errorf("closing: %w", ErrStageLocked)
	}
	if err := fn(w.current); err != nil {
		return err
	}
	w.bookDirty = true
	return nil
}

func lineOf(p *domain.Project, id string) (*domain.ClosingLine, error) {
	l, ok := p.Closing.FindLine(id)
	if !ok {
		return nil, fmt.Errorf("closing line %s: %w", id, domain.ErrNotFound)
	}
	return l, nil
}

func notApplicable(what, id string) error {
	return fmt.Errorf("%s on line %s: %w", what, id, ErrNotApplicable)
}

func (w *Workspace) AddDiaryEntry(lineID string) error {
	return w.editClosing(func(p *domain.Project) error {
		l, err := lineOf(p, lineID)
		if err != nil {
			return err
		}
		if !closing.AddDiaryEntry(l) {
			return notApplicable("add diary entry", lineID)
		}
		return nil
	})
}

func (w *Workspace) RemoveDiaryEntry(lineID string, idx int) error {
	return w.editClosing(func(p *domain.Project) error {
		l, err := lineOf(p, lineID)
		if err != nil {
			return err
		}
		if !closing.RemoveDiaryEntry(l, idx) {
			return notApplicable(fmt.Sprintf("remove diary entry %d", idx+1), lineID)
		}
		return nil
	})
}

func (w *Workspace) SetDiaryEntry(lineID string, idx int, e domain.DiaryEntry) error {
	return w.editClosing(func(p *domain.Project) error {
		l, err := lineOf(p, lineID)
		if err != nil {
			return err
		}
		if !closing.SetDiaryEntry(l, idx, e) {
			return notApplicable(fmt.Sprintf("set diary entry %d", idx+1), lineID)
		}
		return nil
	})
}

// ExpandWeekly opens the per-day diary of a weekly line, seeding it with the
// shooting days of the line's phase in the Final snapshot.
func (w *Workspace) ExpandWeekly(lineID string) error {
	return w.editClosing(func(p *domain.Project) error {
		l, err := lineOf(p, lineID)
		if err != nil {
			return err
		}
		days := 0
		if snap := p.Snapshots.Final; snap != nil {
			if ph := snap.Phase(l.Phase); ph != nil {
				days = ph.Defaults.Days
			}
		}
		if !closing.ExpandWeekly(l, days) {
			return notApplicable("expand weekly diary", lineID)
		}
		return nil
	})
}

func (w *Workspace) AddExtra(seed closing.ExtraSeed) (string, error) {
	var id string
	err := w.editClosing(func(p *domain.Project) error {
		if seed.ParentLineID != "" {
			if _, err := lineOf(p, seed.ParentLineID); err != nil {
				return err
			}
		}
		id = closing.AddExtra(&p.Closing, seed)
		return nil
	})
	return id, err
}

func (w *Workspace) RemoveExtra(lineID string) error {
	return w.editClosing(func(p *domain.Project) error {
		if _, err := lineOf(p, lineID); err != nil {
			return err
		}
		if !closing.RemoveExtra(&p.Closing, lineID) {
			return notApplicable("remove extra", lineID)
		}
		return nil
	})
}

func (w *Workspace) SetInvoice(lineID, invoice string) error {
	return w.editClosing(func(p *domain.Project) error {
		if !closing.SetInvoice(&p.Closing, lineID, invoice) {
			return fmt.Errorf("closing line %s: %w", lineID, domain.ErrNotFound)
		}
		return nil
	})
}

func (w *Workspace) SetPayStatus(lineID string, status domain.PayStatus) error {
	return w.editClosing(func(p *domain.Project) error {
		if !domain.ValidPayStatuses[string(status)] {
			return fmt.Errorf("invalid pay status %q (want pending or paid)", status)
		}
		if !closing.SetPayStatus(&p.Closing, lineID, status) {
			return fmt.Errorf("closing line %s: %w", lineID, domain.ErrNotFound)
		}
		return nil
	})
}

func (w *Workspace) SetLineNotes(lineID, notes string) error {
	return w.editClosing(func(p *domain.Project) error {
		if !closing.SetNotes(&p.Closing, lineID, notes) {
			return fmt.Errorf("closing line %s: %w", lineID, domain.ErrNotFound)
		}
		return nil
	})
}

func (w *Workspace) AddExpense(seed closing.ExpenseSeed) (string, error) {
	var id string
	err := w.editClosing(func(p *domain.Project) error {
		id = closing.AddExpense(&p.Closing, seed)
		return nil
	})
	return id, err
}

func (w *Workspace) RemoveExpense(id string) error {
	return w.editClosing(func(p *domain.Project) error {
		if !closing.RemoveExpense(&p.Closing, id) {
			return fmt.Errorf("expense %s: %w", id, domain.ErrNotFound)
		}
		return nil
	})
}

func (w *Workspace) SetExpensePayStatus(id string, status domain.PayStatus) error {
	return w.editClosing(func(p *domain.Project) error {
		if !domain.ValidPayStatuses[string(status)] {
			return fmt.Errorf("invalid pay status %q (want pending or paid)", status)
		}
		if !closing.SetExpensePayStatus(&p.Closing, id, status) {
			return fmt.Errorf("expense %s: %w", id, domain.ErrNotFound)
		}
		return nil
	})
}

func (w *Workspace) SetExpenseCap(dept domain.Department, limit decimal.Decimal) error {
	return w.editClosing(func(p *domain.Project) error {
		closing.SetExpenseCap(&p.Closing, dept, limit)
		return nil
	})
}

// SetSaving stores the savings configuration. The percent is clamped and the
// responsible line, when set, must exist.
func (w *Workspace) SetSaving(cfg domain.SavingConfig) error {
	return w.editClosing(func(p *domain.Project) error {
		for _, key := range cfg.SelectedItemKeys {
			if _, _, err := savings.ParseKey(key); err != nil {
				return err
			}
		}
		if cfg.ResponsibleLineID != "" {
			if _, err := lineOf(p, cfg.ResponsibleLineID); err != nil {
				return err
			}
		}
		cfg.Percent = savings.ClampPercent(cfg.Percent)
		cfg.SelectedItemKeys = append([]string(nil), cfg.SelectedItemKeys...)
		p.Closing.Saving = &cfg
		return nil
	})
}

// SavingsCatalog lists the item keys present in either locked snapshot.
func (w *Workspace) SavingsCatalog() ([]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.current == nil {
		return nil, ErrNoProject
	}
	return savings.Catalog(w.current.Snapshots.Initial, w.current.Snapshots.Final), nil
}

// Savings computes the configured split, or nil when none is configured.
func (w *Workspace) Savings() (*savings.Result, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.current == nil {
		return nil, ErrNoProject
	}
	return w.savingsLocked(), nil
}

func (w *Workspace) savingsLocked() *savings.Result {
	cfg := w.current.Closing.Saving
	if cfg == nil {
		return nil
	}
	res := savings.Compute(w.current.Snapshots.Initial, w.current.Snapshots.Final, *cfg)
	return &res
}

// ClosingReport computes the closing view of the open project.
func (w *Workspace) ClosingReport() (*ClosingReport, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.current == nil {
		return nil, ErrNoProject
	}
	book := w.current.Closing.Clone()

	var bonus closing.Bonus
	res := w.savingsLocked()
	if res != nil {
		bonus = closing.Bonus{LineID: res.ResponsibleLineID, Amount: res.Payout}
	}

	report := &ClosingReport{
		Departments: closing.DepartmentTotals(book.Lines, bonus),
		Totals:      closing.Totals(book.Lines, bonus),
		Expenses:    book.Expenses,
		ExpenseCaps: closing.ExpenseTotals(book),
		Savings:     res,
	}
	for _, l := range book.Lines {
		report.Lines = append(report.Lines, ClosingLineView{
			ClosingLine:    l,
			FinalValue:     closing.FinalValue(l),
			ReferenceDaily: closing.ReferenceDailyRate(l),
			Overtime:       closing.OvertimeAmount(l),
			Payable:        closing.LinePayable(l, bonus),
		})
	}
	return report, nil
}
