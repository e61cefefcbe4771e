package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/claquete/internal/budget"
	"github.com/alexanderramin/claquete/internal/docsync"
	"github.com/alexanderramin/claquete/internal/domain"
	"github.com/alexanderramin/claquete/internal/lifecycle"
	"github.com/alexanderramin/claquete/internal/merge"
	"github.com/alexanderramin/claquete/internal/repository"
	"github.com/sethvargo/go-retry"
)

// WorkspaceOptions wires the optional collaborators of a Workspace.
type WorkspaceOptions struct {
	Rates      budget.RateLookup
	Publisher  docsync.Publisher
	Logger     *slog.Logger
	Observer   UseCaseObserver
	RetryDelay time.Duration
	Now        func() time.Time
}

// Workspace is one editing session over a single project. It hands out stage
// editors, applies lock transitions and saves through the department merge.
// Sessions on the same project are separate Workspaces sharing only the
// store.
//
// Workspace methods are safe for concurrent use. A stage Editor is not: it
// must not be used while another goroutine edits the same stage or calls
// Project, Save or a transition.
type Workspace struct {
	projects repository.ProjectRepo
	tx       repository.ProjectTx
	opts     WorkspaceOptions

	gen atomic.Uint64

	mu      sync.Mutex
	current *domain.Project
	editors map[domain.Stage]*budget.Editor

	// bookVersion is the stored version of status, snapshots and closing
	// book this session last loaded or saved. bookDirty is set once the
	// session changes any of them.
	bookVersion string
	bookDirty   bool
}

func NewWorkspace(projects repository.ProjectRepo, tx repository.ProjectTx, opts WorkspaceOptions) *Workspace {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Observer == nil {
		opts.Observer = NoopUseCaseObserver{}
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 200 * time.Millisecond
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}
	return &Workspace{projects: projects, tx: tx, opts: opts}
}

// Open loads a project by job ID or ID. When another Open started after this
// one, the loaded project is discarded and stale is true.
func (w *Workspace) Open(ctx context.Context, ref string) (stale bool, err error) {
	token := w.gen.Add(1)
	err = observe(ctx, w.opts.Observer, "workspace.open", map[string]any{"ref": ref}, func() error {
		p, err := resolveProject(ctx, w.projects, ref)
		if err != nil {
			return err
		}
		version, err := repository.BookVersion(p)
		if err != nil {
			return fmt.Errorf("load project %s: %w", p.DisplayID(), err)
		}

		w.mu.Lock()
		defer w.mu.Unlock()
		if w.gen.Load() != token {
			stale = true
			return nil
		}
		w.current = p
		w.editors = nil
		w.bookVersion = version
		w.bookDirty = false
		return nil
	})
	if stale {
		w.opts.Logger.Debug("discarded stale project load", "ref", ref)
	}
	return stale, err
}

// Project returns a copy of the open project with editor changes applied.
func (w *Workspace) Project() (*domain.Project, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.current == nil {
		return nil, ErrNoProject
	}
	w.syncFromEditors()
	return w.current.Clone(), nil
}

// Access returns the access policy of the open project.
func (w *Workspace) Access() (domain.AccessPolicy, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.current == nil {
		return domain.AccessPolicy{}, ErrNoProject
	}
	return domain.Access(w.current.Status), nil
}

// Editor returns the editor of an estimate stage. Loading a never-loaded
// stage starts it empty, or from the Initial snapshot for Final.
func (w *Workspace) Editor(stage domain.Stage) (*budget.Editor, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.current == nil {
		return nil, ErrNoProject
	}
	if stage != domain.StageInitial && stage != domain.StageFinal {
		return nil, fmt.Errorf("stage %q has no budget editor", stage)
	}
	if ed, ok := w.editors[stage]; ok {
		return ed, nil
	}

	state := w.current.Stage(stage)
	if state == nil {
		if stage == domain.StageFinal && w.current.Snapshots.Initial != nil {
			state = w.current.Snapshots.Initial.Clone()
		} else {
			state = domain.NewStageBudget()
		}
		w.current.SetStage(stage, state)
	}

	opts := []budget.Option{budget.WithEditable(func() bool {
		w.mu.Lock()
		defer w.mu.Unlock()
		return w.current != nil && domain.Access(w.current.Status).Editable(stage)
	})}
	if w.opts.Rates != nil {
		opts = append(opts, budget.WithRates(w.opts.Rates))
	}
	ed := budget.NewEditor(state, opts...)
	if w.editors == nil {
		w.editors = make(map[domain.Stage]*budget.Editor, 2)
	}
	w.editors[stage] = ed
	return ed, nil
}

// Save persists the open project, merging it per department with what is
// stored. Stages this session never loaded keep their stored data, and the
// stored header is kept. Status, snapshots and closing book are written only
// when this session changed them; if another session changed them first the
// save fails with ErrStaleProject. On failure the in-memory project is
// unchanged.
func (w *Workspace) Save(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.current == nil {
		return ErrNoProject
	}
	return observe(ctx, w.opts.Observer, "workspace.save", map[string]any{"job_id": w.current.JobID}, func() error {
		return w.saveLocked(ctx)
	})
}

func (w *Workspace) saveLocked(ctx context.Context) error {
	w.syncFromEditors()
	caller := w.current.Clone()
	caller.UpdatedAt = w.opts.Now()

	var merged *domain.Project
	var version string
	err := w.tx.WithinProjectTx(ctx, func(ctx context.Context, projects repository.ProjectRepo) error {
		persisted, err := projects.GetByID(ctx, caller.ID)
		if err != nil {
			return err
		}
		if w.bookDirty {
			stored, err := repository.BookVersion(persisted)
			if err != nil {
				return err
			}
			if stored != w.bookVersion {
				return ErrStaleProject
			}
		}
		for _, st := range []domain.Stage{domain.StageInitial, domain.StageFinal} {
			if _, loaded := w.editors[st]; !loaded && persisted.Stage(st) != nil {
				caller.SetStage(st, nil)
			}
		}

		merged = merge.Project(caller, persisted)
		merge.Header(merged, persisted)
		if !w.bookDirty {
			merge.Book(merged, persisted)
		}
		if err := projects.Update(ctx, merged); err != nil {
			return err
		}
		stored, err := projects.GetByID(ctx, merged.ID)
		if err != nil {
			return err
		}
		version, err = repository.BookVersion(stored)
		return err
	})
	if err != nil {
		return fmt.Errorf("save project %s: %w", caller.DisplayID(), err)
	}
	w.install(merged)
	w.bookVersion = version
	w.bookDirty = false
	return nil
}

// Apply runs a lock transition and autosaves when it was applied. A refused
// transition is reported through the outcome, not as an error.
func (w *Workspace) Apply(ctx context.Context, a lifecycle.Action) (lifecycle.Outcome, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.current == nil {
		return lifecycle.Outcome{Action: a}, ErrNoProject
	}
	w.syncFromEditors()
	out := lifecycle.Apply(w.current, a)
	return out, w.afterTransition(ctx, out)
}

// ToggleLock flips the lock of one stage.
func (w *Workspace) ToggleLock(ctx context.Context, stage domain.Stage) (lifecycle.Outcome, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.current == nil {
		return lifecycle.Outcome{}, ErrNoProject
	}
	w.syncFromEditors()
	out, err := lifecycle.Toggle(w.current, stage)
	if err != nil {
		return out, err
	}
	return out, w.afterTransition(ctx, out)
}

func (w *Workspace) afterTransition(ctx context.Context, out lifecycle.Outcome) error {
	if !out.Applied {
		return nil
	}
	w.bookDirty = true
	fields := map[string]any{"job_id": w.current.JobID, "action": string(out.Action)}
	err := observe(ctx, w.opts.Observer, "workspace.autosave", fields, func() error {
		return w.autosave(ctx)
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAutosaveFailed, err)
	}
	if out.Action == lifecycle.LockFinal && w.opts.Publisher != nil {
		m := docsync.BuildManifest(w.current, w.opts.Now())
		if err := w.opts.Publisher.Publish(ctx, m); err != nil {
			w.opts.Logger.Warn("publish document manifest", "job_id", m.JobID, "error", err)
		}
	}
	return nil
}

// autosave retries a failed save exactly once.
func (w *Workspace) autosave(ctx context.Context) error {
	backoff := retry.WithMaxRetries(1, retry.NewConstant(w.opts.RetryDelay))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := w.saveLocked(ctx); err != nil {
			if errors.Is(err, ErrStaleProject) {
				return err
			}
			w.opts.Logger.Debug("autosave attempt failed", "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
}

// syncFromEditors points the project at the states the editors hold.
func (w *Workspace) syncFromEditors() {
	for stage, ed := range w.editors {
		w.current.SetStage(stage, ed.State())
	}
}

// install adopts p as the open project and reloads the editors from it.
func (w *Workspace) install(p *domain.Project) {
	w.current = p
	for stage, ed := range w.editors {
		ed.LoadState(p.Stage(stage))
		p.SetStage(stage, ed.State())
	}
}
