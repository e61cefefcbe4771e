package repository

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alexanderramin/claquete/internal/domain"
	"github.com/shopspring/decimal"
)

// ProjectRecord is the persisted shape of a project: one value per column.
// Map-valued columns hold JSON keyed Phase -> Department. A never-loaded
// stage is stored as NULL budget columns.
type ProjectRecord struct {
	ID                   string
	JobID                string
	Name                 string
	Agency               string
	Client               string
	Duration             int
	DurationUnit         string
	StatusInitial        string
	StatusFinal          string
	StatusClosing        string
	BudgetLinesInitial   sql.NullString
	BudgetLinesFinal     sql.NullString
	VerbaLinesInitial    sql.NullString
	VerbaLinesFinal      sql.NullString
	MiniTables           sql.NullString
	MiniTablesFinal      sql.NullString
	PhaseDefaultsInitial sql.NullString
	PhaseDefaultsFinal   sql.NullString
	JobValue             string
	JobValueFinal        string
	TaxRate              string
	TaxRateFinal         string
	NotesInitial         sql.NullString
	NotesFinal           sql.NullString
	SnapshotInitial      sql.NullString
	SnapshotFinal        sql.NullString
	ClosingLines         sql.NullString
	CacheTableID         string
	CreatedAt            string
	UpdatedAt            string
}

// Row discriminators in budget_lines JSON.
const (
	rowTypePeople = "people"
	rowTypeLabor  = "labor"
	rowTypeCost   = "cost"
)

type complementaryJSON struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Type        string          `json:"line_type"`
	Value       decimal.Decimal `json:"value"`
}

type rowJSON struct {
	Type          string              `json:"type"`
	ID            string              `json:"id"`
	ItemName      string              `json:"item_name"`
	RoleFunction  string              `json:"role_function"`
	PayBasis      string              `json:"pay_basis,omitempty"`
	UnitType      string              `json:"unit_type,omitempty"`
	UnitCost      decimal.Decimal     `json:"unit_cost"`
	ExtraCost     decimal.Decimal     `json:"extra_cost"`
	Quantity      decimal.Decimal     `json:"quantity"`
	Complementary []complementaryJSON `json:"complementary_lines,omitempty"`
	CateringMode  string              `json:"catering_mode,omitempty"`
}

type verbaJSON struct {
	ID       string          `json:"id"`
	ItemName string          `json:"item_name"`
	UnitCost decimal.Decimal `json:"unit_cost"`
	Quantity decimal.Decimal `json:"quantity"`
}

type miniTablesJSON struct {
	Contingency  decimal.Decimal `json:"contingency"`
	CRT          decimal.Decimal `json:"crt"`
	AgencyMargin decimal.Decimal `json:"agency_margin"`
}

type phaseDefaultsJSON struct {
	Days                   int             `json:"days"`
	Weeks                  int             `json:"weeks"`
	TravelAllowance        decimal.Decimal `json:"travel_allowance"`
	MealAllowancePerPerson decimal.Decimal `json:"meal_allowance_per_person"`
}

type (
	rowsByPhase     map[domain.Phase]map[domain.Department][]rowJSON
	verbaByPhase    map[domain.Phase]map[domain.Department][]verbaJSON
	miniByPhase     map[domain.Phase]miniTablesJSON
	defaultsByPhase map[domain.Phase]phaseDefaultsJSON
	notesByPhase    map[domain.Phase]string
)

// stageJSON is a whole stage in one document, used for snapshots.
type stageJSON struct {
	BudgetLines   rowsByPhase     `json:"budget_lines"`
	VerbaLines    verbaByPhase    `json:"verba_lines"`
	MiniTables    miniByPhase     `json:"mini_tables"`
	PhaseDefaults defaultsByPhase `json:"phase_defaults"`
	Notes         notesByPhase    `json:"notes"`
	JobValue      decimal.Decimal `json:"job_value"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
}

type diaryJSON struct {
	DailyHours        decimal.Decimal `json:"daily_hours"`
	AdditionalPercent decimal.Decimal `json:"additional_percent"`
	OvertimeHours     decimal.Decimal `json:"overtime_hours"`
}

type closingLineJSON struct {
	ID                 string          `json:"id"`
	SourceRowID        string          `json:"source_row_id,omitempty"`
	Department         string          `json:"department"`
	Phase              string          `json:"phase"`
	ItemName           string          `json:"item_name"`
	RoleFunction       string          `json:"role_function"`
	IsLabor            bool            `json:"is_labor"`
	IsVerba            bool            `json:"is_verba"`
	PayBasis           string          `json:"pay_basis,omitempty"`
	FinalUnitCost      decimal.Decimal `json:"final_unit_cost"`
	FinalExtraCost     decimal.Decimal `json:"final_extra_cost"`
	FinalQuantity      decimal.Decimal `json:"final_quantity"`
	ComplementaryTotal decimal.Decimal `json:"complementary_total"`
	Diary              []diaryJSON     `json:"diary_entries,omitempty"`
	DiaryExpanded      bool            `json:"diary_expanded,omitempty"`
	InvoiceNumber      string          `json:"invoice_number"`
	PayStatus          string          `json:"pay_status"`
	IsExtraAdHoc       bool            `json:"is_extra_ad_hoc"`
	ParentLineID       string          `json:"parent_line_id,omitempty"`
	Notes              string          `json:"notes,omitempty"`
}

type expenseJSON struct {
	ID            string          `json:"id"`
	Department    string          `json:"department"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Value         decimal.Decimal `json:"value"`
	InvoiceNumber string          `json:"invoice_number"`
	PayStatus     string          `json:"pay_status"`
	Date          *time.Time      `json:"date,omitempty"`
	Supplier      string          `json:"supplier"`
	ExpenseType   string          `json:"expense_type"`
}

type savingJSON struct {
	SelectedItemKeys  []string        `json:"selected_item_keys"`
	Percent           decimal.Decimal `json:"percent"`
	ResponsibleLineID string          `json:"responsible_line_id,omitempty"`
}

type expenseDepartmentsJSON struct {
	Departments []string                   `json:"departments"`
	Caps        map[string]decimal.Decimal `json:"caps,omitempty"`
}

// EncodeProject converts a project into its persisted record.
func EncodeProject(p *domain.Project) (ProjectRecord, error) {
	rec := ProjectRecord{
		ID:            p.ID,
		JobID:         p.JobID,
		Name:          p.Name,
		Agency:        p.Agency,
		Client:        p.Client,
		Duration:      p.Duration,
		DurationUnit:  p.DurationUnit,
		StatusInitial: string(statusOrOpen(p.Status.Initial)),
		StatusFinal:   string(statusOrOpen(p.Status.Final)),
		StatusClosing: string(statusOrOpen(p.Status.Closing)),
		JobValue:      "0",
		JobValueFinal: "0",
		TaxRate:       "0",
		TaxRateFinal:  "0",
		CacheTableID:  p.CacheTableID,
		CreatedAt:     p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     p.UpdatedAt.UTC().Format(time.RFC3339),
	}

	if s := p.Initial; s != nil {
		doc := encodeStage(s)
		var err error
		if rec.BudgetLinesInitial, err = nullJSON(doc.BudgetLines); err != nil {
			return rec, fmt.Errorf("encoding initial budget lines: %w", err)
		}
		if rec.VerbaLinesInitial, err = nullJSON(doc.VerbaLines); err != nil {
			return rec, fmt.Errorf("encoding initial verba lines: %w", err)
		}
		if rec.MiniTables, err = nullJSON(doc.MiniTables); err != nil {
			return rec, fmt.Errorf("encoding initial mini tables: %w", err)
		}
		if rec.PhaseDefaultsInitial, err = nullJSON(doc.PhaseDefaults); err != nil {
			return rec, fmt.Errorf("encoding initial phase defaults: %w", err)
		}
		if rec.NotesInitial, err = nullJSON(doc.Notes); err != nil {
			return rec, fmt.Errorf("encoding initial notes: %w", err)
		}
		rec.JobValue = s.JobValue.String()
		rec.TaxRate = s.TaxRatePercent.String()
	}
	if s := p.Final; s != nil {
		doc := encodeStage(s)
		var err error
		if rec.BudgetLinesFinal, err = nullJSON(doc.BudgetLines); err != nil {
			return rec, fmt.Errorf("encoding final budget lines: %w", err)
		}
		if rec.VerbaLinesFinal, err = nullJSON(doc.VerbaLines); err != nil {
			return rec, fmt.Errorf("encoding final verba lines: %w", err)
		}
		if rec.MiniTablesFinal, err = nullJSON(doc.MiniTables); err != nil {
			return rec, fmt.Errorf("encoding final mini tables: %w", err)
		}
		if rec.PhaseDefaultsFinal, err = nullJSON(doc.PhaseDefaults); err != nil {
			return rec, fmt.Errorf("encoding final phase defaults: %w", err)
		}
		if rec.NotesFinal, err = nullJSON(doc.Notes); err != nil {
			return rec, fmt.Errorf("encoding final notes: %w", err)
		}
		rec.JobValueFinal = s.JobValue.String()
		rec.TaxRateFinal = s.TaxRatePercent.String()
	}

	var err error
	if p.Snapshots.Initial != nil {
		if rec.SnapshotInitial, err = nullJSON(encodeStage(p.Snapshots.Initial)); err != nil {
			return rec, fmt.Errorf("encoding initial snapshot: %w", err)
		}
	}
	if p.Snapshots.Final != nil {
		if rec.SnapshotFinal, err = nullJSON(encodeStage(p.Snapshots.Final)); err != nil {
			return rec, fmt.Errorf("encoding final snapshot: %w", err)
		}
	}
	if rec.ClosingLines, err = encodeClosing(p.Closing); err != nil {
		return rec, fmt.Errorf("encoding closing lines: %w", err)
	}
	return rec, nil
}

// BookVersion digests the lock status, snapshots and closing book of p in
// their persisted encoding. Projects with equal books share a version.
func BookVersion(p *domain.Project) (string, error) {
	rec, err := EncodeProject(p)
	if err != nil {
		return "", err
	}
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s\n", rec.StatusInitial, rec.StatusFinal, rec.StatusClosing)
	for _, col := range []sql.NullString{rec.SnapshotInitial, rec.SnapshotFinal, rec.ClosingLines} {
		fmt.Fprintf(h, "%t:%s\n", col.Valid, col.String)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// DecodeProject converts a persisted record back into a project.
func DecodeProject(rec ProjectRecord) (*domain.Project, error) {
	p := &domain.Project{
		ID:           rec.ID,
		JobID:        rec.JobID,
		Name:         rec.Name,
		Agency:       rec.Agency,
		Client:       rec.Client,
		Duration:     rec.Duration,
		DurationUnit: rec.DurationUnit,
		Status: domain.ProjectStatus{
			Initial: statusOrOpen(domain.StageStatus(rec.StatusInitial)),
			Final:   statusOrOpen(domain.StageStatus(rec.StatusFinal)),
			Closing: statusOrOpen(domain.StageStatus(rec.StatusClosing)),
		},
		CacheTableID: rec.CacheTableID,
	}

	var err error
	p.Initial, err = decodeStageColumns(rec.BudgetLinesInitial, rec.VerbaLinesInitial, rec.MiniTables,
		rec.PhaseDefaultsInitial, rec.NotesInitial, rec.JobValue, rec.TaxRate)
	if err != nil {
		return nil, fmt.Errorf("decoding initial stage: %w", err)
	}
	p.Final, err = decodeStageColumns(rec.BudgetLinesFinal, rec.VerbaLinesFinal, rec.MiniTablesFinal,
		rec.PhaseDefaultsFinal, rec.NotesFinal, rec.JobValueFinal, rec.TaxRateFinal)
	if err != nil {
		return nil, fmt.Errorf("decoding final stage: %w", err)
	}
	if p.Snapshots.Initial, err = decodeSnapshot(rec.SnapshotInitial); err != nil {
		return nil, fmt.Errorf("decoding initial snapshot: %w", err)
	}
	if p.Snapshots.Final, err = decodeSnapshot(rec.SnapshotFinal); err != nil {
		return nil, fmt.Errorf("decoding final snapshot: %w", err)
	}
	if p.Closing, err = decodeClosing(rec.ClosingLines); err != nil {
		return nil, fmt.Errorf("decoding closing lines: %w", err)
	}

	if p.CreatedAt, err = time.Parse(time.RFC3339, rec.CreatedAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if p.UpdatedAt, err = time.Parse(time.RFC3339, rec.UpdatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return p, nil
}

func statusOrOpen(s domain.StageStatus) domain.StageStatus {
	if s == domain.StatusLocked {
		return domain.StatusLocked
	}
	return domain.StatusOpen
}

func nullJSON(v any) (sql.NullString, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func unmarshalNull(s sql.NullString, v any) (bool, error) {
	if !s.Valid || s.String == "" {
		return false, nil
	}
	if err := json.Unmarshal([]byte(s.String), v); err != nil {
		return false, err
	}
	return true, nil
}

func encodeStage(s *domain.StageBudget) stageJSON {
	doc := stageJSON{
		BudgetLines:   make(rowsByPhase, len(domain.Phases)),
		VerbaLines:    make(verbaByPhase, len(domain.Phases)),
		MiniTables:    make(miniByPhase, len(domain.Phases)),
		PhaseDefaults: make(defaultsByPhase, len(domain.Phases)),
		Notes:         make(notesByPhase, len(domain.Phases)),
		JobValue:      s.JobValue,
		TaxRate:       s.TaxRatePercent,
	}
	for _, ph := range domain.Phases {
		p := s.Phase(ph)

		rows := make(map[domain.Department][]rowJSON, len(p.Rows))
		for dept, list := range p.Rows {
			out := make([]rowJSON, 0, len(list))
			for _, r := range list {
				out = append(out, encodeRow(r))
			}
			rows[dept] = out
		}
		doc.BudgetLines[ph] = rows

		verba := make(map[domain.Department][]verbaJSON, len(p.Verba))
		for dept, list := range p.Verba {
			out := make([]verbaJSON, 0, len(list))
			for _, v := range list {
				out = append(out, verbaJSON{ID: v.ID, ItemName: v.ItemName, UnitCost: v.UnitCost, Quantity: v.Quantity})
			}
			verba[dept] = out
		}
		doc.VerbaLines[ph] = verba

		doc.MiniTables[ph] = miniTablesJSON{
			Contingency:  p.MiniTables.Contingency,
			CRT:          p.MiniTables.CRT,
			AgencyMargin: p.MiniTables.AgencyMargin,
		}
		doc.PhaseDefaults[ph] = phaseDefaultsJSON{
			Days:                   p.Defaults.Days,
			Weeks:                  p.Defaults.Weeks,
			TravelAllowance:        p.Defaults.TravelAllowance,
			MealAllowancePerPerson: p.Defaults.MealAllowancePerPerson,
		}
		doc.Notes[ph] = p.Notes
	}
	return doc
}

func encodeRow(r domain.Row) rowJSON {
	switch row := r.(type) {
	case *domain.PeopleRow:
		return rowJSON{Type: rowTypePeople, ID: row.ID, ItemName: row.ItemName, RoleFunction: row.RoleFunction}
	case *domain.LaborRow:
		out := rowJSON{
			Type:         rowTypeLabor,
			ID:           row.ID,
			ItemName:     row.ItemName,
			RoleFunction: row.RoleFunction,
			PayBasis:     string(row.PayBasis),
			UnitCost:     row.UnitCost,
			ExtraCost:    row.ExtraCost,
			Quantity:     row.Quantity,
		}
		for _, c := range row.Complementary {
			out.Complementary = append(out.Complementary, complementaryJSON{
				ID: c.ID, Description: c.Description, Type: string(c.Type), Value: c.Value,
			})
		}
		return out
	case *domain.CostRow:
		return rowJSON{
			Type:         rowTypeCost,
			ID:           row.ID,
			ItemName:     row.ItemName,
			RoleFunction: row.RoleFunction,
			UnitType:     string(row.UnitType),
			UnitCost:     row.UnitCost,
			Quantity:     row.Quantity,
			CateringMode: string(row.Catering),
		}
	default:
		panic(fmt.Sprintf("repository: unhandled row type %T", r))
	}
}

func decodeRow(j rowJSON) (domain.Row, error) {
	switch j.Type {
	case rowTypePeople:
		return &domain.PeopleRow{ID: j.ID, ItemName: j.ItemName, RoleFunction: j.RoleFunction}, nil
	case rowTypeLabor:
		r := &domain.LaborRow{
			ID:           j.ID,
			ItemName:     j.ItemName,
			RoleFunction: j.RoleFunction,
			PayBasis:     domain.PayBasis(j.PayBasis),
			UnitCost:     domain.NonNegative(j.UnitCost),
			ExtraCost:    domain.NonNegative(j.ExtraCost),
			Quantity:     domain.NonNegative(j.Quantity),
		}
		if !domain.ValidPayBases[j.PayBasis] {
			r.PayBasis = domain.PayDaily
		}
		for _, c := range j.Complementary {
			t := domain.ComplementaryType(c.Type)
			if !domain.ValidComplementaryTypes[c.Type] {
				t = domain.CompOther
			}
			r.Complementary = append(r.Complementary, domain.ComplementaryLine{
				ID: c.ID, Description: c.Description, Type: t, Value: domain.NonNegative(c.Value),
			})
		}
		return r, nil
	case rowTypeCost:
		r := &domain.CostRow{
			ID:           j.ID,
			ItemName:     j.ItemName,
			RoleFunction: j.RoleFunction,
			UnitType:     domain.UnitType(j.UnitType),
			UnitCost:     domain.NonNegative(j.UnitCost),
			Quantity:     domain.NonNegative(j.Quantity),
			Catering:     domain.CateringMode(j.CateringMode),
		}
		if !domain.ValidUnitTypes[j.UnitType] {
			r.UnitType = domain.UnitCache
		}
		if r.Catering != domain.CateringOverridden {
			r.Catering = domain.CateringDerived
		}
		return r, nil
	default:
		return nil, fmt.Errorf("unknown row type %q in row %s", j.Type, j.ID)
	}
}

func decodeStage(doc stageJSON) (*domain.StageBudget, error) {
	s := domain.NewStageBudget()
	s.JobValue = doc.JobValue
	s.TaxRatePercent = doc.TaxRate
	for ph, depts := range doc.BudgetLines {
		p := s.Phase(ph)
		if p == nil {
			return nil, fmt.Errorf("unknown phase %q", ph)
		}
		for dept, list := range depts {
			rows := make([]domain.Row, 0, len(list))
			for _, j := range list {
				r, err := decodeRow(j)
				if err != nil {
					return nil, err
				}
				rows = append(rows, r)
			}
			p.Rows[dept] = rows
		}
	}
	for ph, depts := range doc.VerbaLines {
		p := s.Phase(ph)
		if p == nil {
			return nil, fmt.Errorf("unknown phase %q", ph)
		}
		for dept, list := range depts {
			rows := make([]domain.VerbaRow, 0, len(list))
			for _, v := range list {
				rows = append(rows, domain.VerbaRow{
					ID:       v.ID,
					ItemName: v.ItemName,
					UnitCost: domain.NonNegative(v.UnitCost),
					Quantity: domain.NonNegative(v.Quantity),
				})
			}
			p.Verba[dept] = rows
		}
	}
	for ph, m := range doc.MiniTables {
		if p := s.Phase(ph); p != nil {
			p.MiniTables = domain.MiniTables{Contingency: m.Contingency, CRT: m.CRT, AgencyMargin: m.AgencyMargin}
		}
	}
	for ph, d := range doc.PhaseDefaults {
		if p := s.Phase(ph); p != nil {
			p.Defaults = domain.PhaseDefaults{
				Days:                   d.Days,
				Weeks:                  d.Weeks,
				TravelAllowance:        d.TravelAllowance,
				MealAllowancePerPerson: d.MealAllowancePerPerson,
			}
		}
	}
	for ph, n := range doc.Notes {
		if p := s.Phase(ph); p != nil {
			p.Notes = n
		}
	}
	return s, nil
}

func decodeStageColumns(budget, verba, mini, defaults, notes sql.NullString, jobValue, taxRate string) (*domain.StageBudget, error) {
	var doc stageJSON
	ok, err := unmarshalNull(budget, &doc.BudgetLines)
	if err != nil {
		return nil, fmt.Errorf("budget lines: %w", err)
	}
	if !ok {
		return nil, nil
	}
	if _, err := unmarshalNull(verba, &doc.VerbaLines); err != nil {
		return nil, fmt.Errorf("verba lines: %w", err)
	}
	if _, err := unmarshalNull(mini, &doc.MiniTables); err != nil {
		return nil, fmt.Errorf("mini tables: %w", err)
	}
	if _, err := unmarshalNull(defaults, &doc.PhaseDefaults); err != nil {
		return nil, fmt.Errorf("phase defaults: %w", err)
	}
	if _, err := unmarshalNull(notes, &doc.Notes); err != nil {
		return nil, fmt.Errorf("notes: %w", err)
	}
	doc.JobValue = domain.ParseAmount(jobValue)
	doc.TaxRate = domain.ParseAmount(taxRate)
	return decodeStage(doc)
}

func decodeSnapshot(s sql.NullString) (*domain.StageBudget, error) {
	var doc stageJSON
	ok, err := unmarshalNull(s, &doc)
	if err != nil || !ok {
		return nil, err
	}
	return decodeStage(doc)
}

// encodeClosing writes the closing book as the tuple
// [lines, expenses, savingConfig|null, expenseDepartmentConfig|null].
func encodeClosing(b domain.ClosingBook) (sql.NullString, error) {
	lines := make([]closingLineJSON, 0, len(b.Lines))
	for _, l := range b.Lines {
		j := closingLineJSON{
			ID:                 l.ID,
			SourceRowID:        l.SourceRowID,
			Department:         string(l.Department),
			Phase:              string(l.Phase),
			ItemName:           l.ItemName,
			RoleFunction:       l.RoleFunction,
			IsLabor:            l.IsLabor,
			IsVerba:            l.IsVerba,
			PayBasis:           string(l.PayBasis),
			FinalUnitCost:      l.FinalUnitCost,
			FinalExtraCost:     l.FinalExtraCost,
			FinalQuantity:      l.FinalQuantity,
			ComplementaryTotal: l.ComplementaryTotal,
			DiaryExpanded:      l.DiaryExpanded,
			InvoiceNumber:      l.InvoiceNumber,
			PayStatus:          string(l.PayStatus),
			IsExtraAdHoc:       l.IsExtraAdHoc,
			ParentLineID:       l.ParentLineID,
			Notes:              l.Notes,
		}
		for _, e := range l.Diary {
			j.Diary = append(j.Diary, diaryJSON{DailyHours: e.DailyHours, AdditionalPercent: e.AdditionalPercent, OvertimeHours: e.OvertimeHours})
		}
		lines = append(lines, j)
	}

	expenses := make([]expenseJSON, 0, len(b.Expenses))
	for _, e := range b.Expenses {
		expenses = append(expenses, expenseJSON{
			ID:            e.ID,
			Department:    string(e.Department),
			Name:          e.Name,
			Description:   e.Description,
			Value:         e.Value,
			InvoiceNumber: e.InvoiceNumber,
			PayStatus:     string(e.PayStatus),
			Date:          e.Date,
			Supplier:      e.Supplier,
			ExpenseType:   e.ExpenseType,
		})
	}

	var saving *savingJSON
	if b.Saving != nil {
		saving = &savingJSON{
			SelectedItemKeys:  b.Saving.SelectedItemKeys,
			Percent:           b.Saving.Percent,
			ResponsibleLineID: b.Saving.ResponsibleLineID,
		}
	}
	var expDepts *expenseDepartmentsJSON
	if cfg := b.ExpenseDepartments; cfg != nil {
		expDepts = &expenseDepartmentsJSON{}
		for _, d := range cfg.Departments {
			expDepts.Departments = append(expDepts.Departments, string(d))
		}
		if len(cfg.Caps) > 0 {
			expDepts.Caps = make(map[string]decimal.Decimal, len(cfg.Caps))
			for d, v := range cfg.Caps {
				expDepts.Caps[string(d)] = v
			}
		}
	}

	return nullJSON([]any{lines, expenses, saving, expDepts})
}

func decodeClosing(s sql.NullString) (domain.ClosingBook, error) {
	var b domain.ClosingBook
	var tuple []json.RawMessage
	ok, err := unmarshalNull(s, &tuple)
	if err != nil || !ok {
		return b, err
	}
	part := func(i int, v any) error {
		if i >= len(tuple) || string(tuple[i]) == "null" {
			return nil
		}
		return json.Unmarshal(tuple[i], v)
	}

	var lines []closingLineJSON
	if err := part(0, &lines); err != nil {
		return b, fmt.Errorf("lines: %w", err)
	}
	for _, j := range lines {
		l := domain.ClosingLine{
			ID:                 j.ID,
			SourceRowID:        j.SourceRowID,
			Department:         domain.Department(j.Department),
			Phase:              domain.Phase(j.Phase),
			ItemName:           j.ItemName,
			RoleFunction:       j.RoleFunction,
			IsLabor:            j.IsLabor,
			IsVerba:            j.IsVerba,
			PayBasis:           domain.PayBasis(j.PayBasis),
			FinalUnitCost:      j.FinalUnitCost,
			FinalExtraCost:     j.FinalExtraCost,
			FinalQuantity:      j.FinalQuantity,
			ComplementaryTotal: j.ComplementaryTotal,
			DiaryExpanded:      j.DiaryExpanded,
			InvoiceNumber:      j.InvoiceNumber,
			PayStatus:          payStatusOrPending(j.PayStatus),
			IsExtraAdHoc:       j.IsExtraAdHoc,
			ParentLineID:       j.ParentLineID,
			Notes:              j.Notes,
		}
		for _, e := range j.Diary {
			l.Diary = append(l.Diary, domain.DiaryEntry{DailyHours: e.DailyHours, AdditionalPercent: e.AdditionalPercent, OvertimeHours: e.OvertimeHours})
		}
		b.Lines = append(b.Lines, l)
	}

	var expenses []expenseJSON
	if err := part(1, &expenses); err != nil {
		return b, fmt.Errorf("expenses: %w", err)
	}
	for _, e := range expenses {
		b.Expenses = append(b.Expenses, domain.ExpenseLine{
			ID:            e.ID,
			Department:    domain.Department(e.Department),
			Name:          e.Name,
			Description:   e.Description,
			Value:         domain.NonNegative(e.Value),
			InvoiceNumber: e.InvoiceNumber,
			PayStatus:     payStatusOrPending(e.PayStatus),
			Date:          e.Date,
			Supplier:      e.Supplier,
			ExpenseType:   e.ExpenseType,
		})
	}

	var saving *savingJSON
	if err := part(2, &saving); err != nil {
		return b, fmt.Errorf("saving config: %w", err)
	}
	if saving != nil {
		b.Saving = &domain.SavingConfig{
			SelectedItemKeys:  saving.SelectedItemKeys,
			Percent:           saving.Percent,
			ResponsibleLineID: saving.ResponsibleLineID,
		}
	}

	var expDepts *expenseDepartmentsJSON
	if err := part(3, &expDepts); err != nil {
		return b, fmt.Errorf("expense department config: %w", err)
	}
	if expDepts != nil {
		cfg := &domain.ExpenseDepartmentConfig{}
		for _, d := range expDepts.Departments {
			cfg.Departments = append(cfg.Departments, domain.Department(d))
		}
		if len(expDepts.Caps) > 0 {
			cfg.Caps = make(map[domain.Department]decimal.Decimal, len(expDepts.Caps))
			for d, v := range expDepts.Caps {
				cfg.Caps[domain.Department(d)] = v
			}
		}
		b.ExpenseDepartments = cfg
	}
	return b, nil
}

func payStatusOrPending(s string) domain.PayStatus {
	if s == string(domain.PayPaid) {
		return domain.PayPaid
	}
	return domain.PayPending
}
