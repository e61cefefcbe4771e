package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/claquete/internal/db"
	"github.com/alexanderramin/claquete/internal/domain"
	"github.com/alexanderramin/claquete/internal/repository"
	"github.com/alexanderramin/claquete/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func fullProject() *domain.Project {
	labor := &domain.LaborRow{
		ID: "dp", ItemName: "Ana", RoleFunction: "Director of Photography", PayBasis: domain.PayWeekly,
		UnitCost: d("5000"), ExtraCost: d("250.5"), Quantity: d("2"),
		Complementary: []domain.ComplementaryLine{{ID: "c1", Description: "Scout", Type: domain.CompScout, Value: d("300")}},
	}
	catering := &domain.CostRow{
		ID: "cat", ItemName: "Catering", UnitType: domain.UnitCache,
		UnitCost: d("25"), Quantity: d("5"), Catering: domain.CateringOverridden,
	}
	p := testutil.NewTestProject("Spot",
		testutil.WithJobID("JOB-RT"),
		testutil.WithClient("Agency", "Client"),
		testutil.WithRows(domain.StageInitial, domain.PhaseProduction, domain.DeptPhotography, labor),
		testutil.WithRows(domain.StageInitial, domain.PhaseProduction, domain.DeptCatering, catering),
		testutil.WithRows(domain.StageInitial, domain.PhasePre, domain.DeptCasting,
			&domain.PeopleRow{ID: "extra", ItemName: "Extras", RoleFunction: "Extra"}),
		testutil.WithVerba(domain.StageInitial, domain.PhasePost, domain.DeptGeneral,
			domain.VerbaRow{ID: "v1", ItemName: "Courier", UnitCost: d("40"), Quantity: d("3")}),
	)
	p.Duration = 30
	p.DurationUnit = "seconds"
	p.CacheTableID = "table-2026"
	p.Initial.Production.MiniTables = domain.MiniTables{Contingency: d("5"), CRT: d("2"), AgencyMargin: d("10")}
	p.Initial.Production.Defaults = domain.PhaseDefaults{Days: 3, Weeks: 1, MealAllowancePerPerson: d("30")}
	p.Initial.Production.Notes = "two shooting days"
	p.Initial.JobValue = d("120000")
	p.Initial.TaxRatePercent = d("12.5")

	p.Status = domain.ProjectStatus{Initial: domain.StatusLocked, Final: domain.StatusLocked, Closing: domain.StatusOpen}
	p.Snapshots.Initial = p.Initial.Clone()
	p.Final = p.Initial.Clone()
	p.Snapshots.Final = p.Final.Clone()

	date := time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC)
	p.Closing = domain.ClosingBook{
		Lines: []domain.ClosingLine{{
			ID: "dp", SourceRowID: "dp", Department: domain.DeptPhotography, Phase: domain.PhaseProduction,
			ItemName: "Ana", IsLabor: true, PayBasis: domain.PayWeekly,
			FinalUnitCost: d("5000"), FinalExtraCost: d("250.5"), FinalQuantity: d("2"), ComplementaryTotal: d("300"),
			Diary:         []domain.DiaryEntry{{DailyHours: d("10"), AdditionalPercent: d("50"), OvertimeHours: d("2")}},
			DiaryExpanded: true, InvoiceNumber: "NF-1", PayStatus: domain.PayPaid, Notes: "ok",
		}},
		Expenses: []domain.ExpenseLine{{
			ID: "e1", Department: domain.DeptArt, Name: "Paint", Value: d("80"),
			PayStatus: domain.PayPending, Date: &date, Supplier: "Shop",
		}},
		Saving: &domain.SavingConfig{SelectedItemKeys: []string{"cost:art"}, Percent: d("10"), ResponsibleLineID: "dp"},
		ExpenseDepartments: &domain.ExpenseDepartmentConfig{
			Departments: []domain.Department{domain.DeptArt},
			Caps:        map[domain.Department]decimal.Decimal{domain.DeptArt: d("500")},
		},
	}
	return p
}

func TestSQLiteProjectRepo_RoundTrip(t *testing.T) {
	repo := repository.NewSQLiteProjectRepo(testutil.NewTestDB(t))
	ctx := context.Background()
	p := fullProject()
	require.NoError(t, repo.Create(ctx, p))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)

	assert.Equal(t, "JOB-RT", got.JobID)
	assert.Equal(t, "Client", got.Client)
	assert.Equal(t, 30, got.Duration)
	assert.Equal(t, "table-2026", got.CacheTableID)
	assert.Equal(t, p.Status, got.Status)
	assert.True(t, p.CreatedAt.Equal(got.CreatedAt))

	require.NotNil(t, got.Initial)
	prod := got.Initial.Production
	require.Len(t, prod.Rows[domain.DeptPhotography], 1)
	lr := prod.Rows[domain.DeptPhotography][0].(*domain.LaborRow)
	assert.Equal(t, domain.PayWeekly, lr.PayBasis)
	assert.True(t, d("250.5").Equal(lr.ExtraCost))
	require.Len(t, lr.Complementary, 1)
	assert.Equal(t, domain.CompScout, lr.Complementary[0].Type)

	cr := prod.Rows[domain.DeptCatering][0].(*domain.CostRow)
	assert.True(t, cr.CateringOverridden())
	assert.IsType(t, &domain.PeopleRow{}, got.Initial.Pre.Rows[domain.DeptCasting][0])
	require.Len(t, got.Initial.Post.Verba[domain.DeptGeneral], 1)
	assert.Equal(t, "Courier", got.Initial.Post.Verba[domain.DeptGeneral][0].ItemName)
	assert.True(t, d("10").Equal(prod.MiniTables.AgencyMargin))
	assert.Equal(t, 3, prod.Defaults.Days)
	assert.Equal(t, "two shooting days", prod.Notes)
	assert.True(t, d("120000").Equal(got.Initial.JobValue))
	assert.True(t, d("12.5").Equal(got.Initial.TaxRatePercent))

	want := domain.Summarize(p.Initial)
	assert.True(t, want.Total.Equal(domain.Summarize(got.Initial).Total))
	require.NotNil(t, got.Final)
	require.NotNil(t, got.Snapshots.Initial)
	require.NotNil(t, got.Snapshots.Final)
	assert.True(t, want.Total.Equal(domain.Summarize(got.Snapshots.Final).Total))

	require.Len(t, got.Closing.Lines, 1)
	line := got.Closing.Lines[0]
	assert.Equal(t, domain.PayPaid, line.PayStatus)
	assert.True(t, line.DiaryExpanded)
	require.Len(t, line.Diary, 1)
	assert.True(t, d("2").Equal(line.Diary[0].OvertimeHours))
	require.Len(t, got.Closing.Expenses, 1)
	require.NotNil(t, got.Closing.Expenses[0].Date)
	assert.True(t, got.Closing.Expenses[0].Date.Equal(*p.Closing.Expenses[0].Date))
	require.NotNil(t, got.Closing.Saving)
	assert.Equal(t, []string{"cost:art"}, got.Closing.Saving.SelectedItemKeys)
	require.NotNil(t, got.Closing.ExpenseDepartments)
	assert.True(t, d("500").Equal(got.Closing.ExpenseDepartments.Caps[domain.DeptArt]))
}

func TestSQLiteProjectRepo_NeverLoadedStageStaysNil(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteProjectRepo(database)
	ctx := context.Background()
	p := testutil.NewTestProject("Fresh")
	require.NoError(t, repo.Create(ctx, p))

	var final sql.NullString
	require.NoError(t, database.QueryRow(`SELECT budget_lines_final FROM projects WHERE id = ?`, p.ID).Scan(&final))
	assert.False(t, final.Valid)

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.Initial, "an empty loaded stage is not the same as a never-loaded one")
	assert.Nil(t, got.Final)
	assert.Nil(t, got.Snapshots.Initial)
	assert.Empty(t, got.Closing.Lines)
}

func TestSQLiteProjectRepo_NotFound(t *testing.T) {
	repo := repository.NewSQLiteProjectRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	_, err := repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = repo.GetByJobID(ctx, "JOB-NONE")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = repo.Update(ctx, testutil.NewTestProject("Ghost"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSQLiteProjectRepo_GetByJobIDIgnoresCase(t *testing.T) {
	repo := repository.NewSQLiteProjectRepo(testutil.NewTestDB(t))
	ctx := context.Background()
	p := testutil.NewTestProject("Spot", testutil.WithJobID("JOB-77"))
	require.NoError(t, repo.Create(ctx, p))

	got, err := repo.GetByJobID(ctx, "job-77")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
}

func TestSQLiteProjectRepo_DuplicateJobID(t *testing.T) {
	repo := repository.NewSQLiteProjectRepo(testutil.NewTestDB(t))
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, testutil.NewTestProject("A", testutil.WithJobID("JOB-1"))))
	assert.Error(t, repo.Create(ctx, testutil.NewTestProject("B", testutil.WithJobID("JOB-1"))))
}

func TestSQLiteProjectRepo_ListUpdateDelete(t *testing.T) {
	repo := repository.NewSQLiteProjectRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	first := testutil.NewTestProject("First")
	second := testutil.NewTestProject("Second")
	second.CreatedAt = first.CreatedAt.Add(time.Hour)
	require.NoError(t, repo.Create(ctx, second))
	require.NoError(t, repo.Create(ctx, first))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "First", all[0].Name)
	assert.Equal(t, "Second", all[1].Name)

	first.Name = "Renamed"
	first.Status.Initial = domain.StatusLocked
	first.Final = domain.NewStageBudget()
	first.Final.Pre.Rows[domain.DeptArt] = []domain.Row{testutil.NewTestCostRow("Props", 100, 2)}
	require.NoError(t, repo.Update(ctx, first))

	got, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, domain.StatusLocked, got.Status.Initial)
	require.NotNil(t, got.Final)
	assert.True(t, d("200").Equal(domain.SumRows(got.Final.Pre.Rows[domain.DeptArt])))

	require.NoError(t, repo.Delete(ctx, first.ID))
	_, err = repo.GetByID(ctx, first.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSQLiteProjectRepo_WithinTransaction(t *testing.T) {
	database := testutil.NewTestDB(t)
	uow := db.NewSQLiteUnitOfWork(database)
	ctx := context.Background()
	p := testutil.NewTestProject("Tx")

	err := uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteProjectRepo(tx).Create(ctx, p)
	})
	require.NoError(t, err)

	_, err = repository.NewSQLiteProjectRepo(database).GetByID(ctx, p.ID)
	assert.NoError(t, err)
}

func TestSQLiteProjectTx_RollsBackFailedWrite(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	repo := repository.NewSQLiteProjectRepo(database)
	p := testutil.NewTestProject("Before")
	require.NoError(t, repo.Create(ctx, p))

	boom := errors.New("disk full")
	tx := repository.NewSQLiteProjectTx(&testutil.FailOnNthExecUoW{DB: database, FailOn: 2, Err: boom})
	err := tx.WithinProjectTx(ctx, func(ctx context.Context, projects repository.ProjectRepo) error {
		cur, err := projects.GetByID(ctx, p.ID)
		if err != nil {
			return err
		}
		cur.Name = "After"
		if err := projects.Update(ctx, cur); err != nil {
			return err
		}
		return projects.Create(ctx, testutil.NewTestProject("Second"))
	})
	require.ErrorIs(t, err, boom)

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Before", got.Name, "update rolled back with the failed create")
	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSQLiteProjectRepo_StatusAndFinalStage(t *testing.T) {
	repo := repository.NewSQLiteProjectRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	final := domain.NewStageBudget()
	final.Post.Notes = "grade in week 3"
	p := testutil.NewTestProject("Spot",
		testutil.WithStatus(domain.ProjectStatus{Initial: domain.StatusLocked, Final: domain.StatusOpen, Closing: domain.StatusOpen}),
		testutil.WithStage(domain.StageFinal, final),
	)
	require.NoError(t, repo.Create(ctx, p))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusLocked, got.Status.Initial)
	assert.Equal(t, domain.StatusOpen, got.Status.Final)
	require.NotNil(t, got.Final)
	assert.Equal(t, "grade in week 3", got.Final.Post.Notes)
}
