// ABOUTME: Reading plan state machine: start, complete days in order, restart, and streaks
// ABOUTME: Progress is persisted one record per plan under progress:<planID>
package plan

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/harper/devotional/internal/logging"
	"github.com/harper/devotional/internal/models"
	"github.com/harper/devotional/internal/storage"
)

// ProgressStore is the subset of the KV the engine needs
type ProgressStore interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
	ListKeys(prefix string) ([]string, error)
}

// Engine tracks progress through a fixed set of reading plans
type Engine struct {
	mu     sync.Mutex
	plans  map[string]models.ReadingPlan
	order  []string
	store  ProgressStore
	logger *log.Logger
	now    func() time.Time
	loc    *time.Location
}

// Option configures an Engine
type Option func(*Engine)

// WithClock overrides time.Now for completion timestamps
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLocation sets the time zone used to derive calendar days for streaks
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) { e.loc = loc }
}

// WithLogger sets the engine logger
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = logging.OrNop(l) }
}

// NewEngine validates plans and returns an engine backed by store
func NewEngine(plans []models.ReadingPlan, store ProgressStore, opts ...Option) (*Engine, error) {
	if store == nil {
		return nil, errors.New("plan engine requires a progress store")
	}

	e := &Engine{
		plans:  make(map[string]models.ReadingPlan, len(plans)),
		store:  store,
		logger: logging.Nop(),
		now:    time.Now,
		loc:    time.Local,
	}
	for _, p := range plans {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, dup := e.plans[p.ID]; dup {
			return nil, fmt.Errorf("duplicate plan id %q", p.ID)
		}
		e.plans[p.ID] = p
		e.order = append(e.order, p.ID)
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Plans returns all plans in seed order
func (e *Engine) Plans() []models.ReadingPlan {
	out := make([]models.ReadingPlan, 0, len(e.order))
	for _, id := range e.order {
		out = append(out, e.plans[id])
	}
	return out
}

// Plan returns a plan by id
func (e *Engine) Plan(planID string) (models.ReadingPlan, error) {
	p, ok := e.plans[planID]
	if !ok {
		return models.ReadingPlan{}, fmt.Errorf("plan %s: %w", planID, models.ErrNotFound)
	}
	return p, nil
}

// Start creates progress at day 1. With restart, existing progress is reset instead of rejected.
func (e *Engine) Start(planID string, restart bool) (models.PlanProgress, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.Plan(planID); err != nil {
		return models.PlanProgress{}, err
	}

	_, found, err := e.load(planID)
	if err != nil {
		return models.PlanProgress{}, err
	}
	if found && !restart {
		return models.PlanProgress{}, fmt.Errorf("plan %s: %w", planID, models.ErrAlreadyStarted)
	}

	p := models.NewPlanProgress(planID, e.now())
	if err := e.save(p); err != nil {
		return models.PlanProgress{}, err
	}
	e.logger.Debug("plan started", "plan", planID, "restart", found)
	return p.Clone(), nil
}

// Restart resets progress to day 1 from any state, creating it if absent
func (e *Engine) Restart(planID string) (models.PlanProgress, error) {
	return e.Start(planID, true)
}

// Progress returns stored progress, or a not-started record positioned at day 1
func (e *Engine) Progress(planID string) (models.PlanProgress, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.Plan(planID); err != nil {
		return models.PlanProgress{}, err
	}
	p, found, err := e.load(planID)
	if err != nil {
		return models.PlanProgress{}, err
	}
	if !found {
		return models.PlanProgress{
			PlanID:     planID,
			CurrentDay: 1,
			Completed:  []models.Completion{},
			State:      models.PlanNotStarted,
		}, nil
	}
	return p, nil
}

// CurrentDay returns the day at the progress pointer
func (e *Engine) CurrentDay(planID string) (models.PlanDay, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	plan, p, err := e.started(planID)
	if err != nil {
		return models.PlanDay{}, err
	}
	day, ok := plan.Day(p.CurrentDay)
	if !ok {
		return models.PlanDay{}, fmt.Errorf("plan %s day %d: %w", planID, p.CurrentDay, models.ErrPlanExhausted)
	}
	return day, nil
}

// CompleteDay marks the current day done and advances. Any other day index is rejected.
func (e *Engine) CompleteDay(planID string, day int) (models.PlanProgress, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	plan, p, err := e.started(planID)
	if err != nil {
		return models.PlanProgress{}, err
	}
	if p.State == models.PlanCompleted {
		return models.PlanProgress{}, fmt.Errorf("plan %s: %w", planID, models.ErrPlanAlreadyCompleted)
	}
	if day != p.CurrentDay {
		return models.PlanProgress{}, &models.OutOfOrderError{PlanID: planID, Expected: p.CurrentDay, Got: day}
	}

	at := e.now()
	p.Completed = append(p.Completed, models.Completion{Day: day, At: at})
	p.LastCompletedAt = &at
	p.CurrentDay++
	if p.CurrentDay > plan.Len() {
		p.State = models.PlanCompleted
	}

	if err := e.save(p); err != nil {
		return models.PlanProgress{}, err
	}
	e.logger.Debug("plan day completed", "plan", planID, "day", day, "state", p.State)
	return p.Clone(), nil
}

// Streak returns the run of consecutive completion days ending at the latest completion
func (e *Engine) Streak(planID string) (int, error) {
	p, err := e.Progress(planID)
	if err != nil {
		return 0, err
	}
	return Streak(p, e.loc), nil
}

// CurrentStreak returns the streak, or zero when the latest completion is before yesterday
func (e *Engine) CurrentStreak(planID string) (int, error) {
	p, err := e.Progress(planID)
	if err != nil {
		return 0, err
	}
	return CurrentStreak(p, e.now(), e.loc), nil
}

// Status summarises a plan for display
type Status struct {
	Plan          models.ReadingPlan  `json:"plan"`
	Progress      models.PlanProgress `json:"progress"`
	Streak        int                 `json:"streak"`
	CurrentStreak int                 `json:"current_streak"`
}

// Status returns the plan, its progress, and both streak values
func (e *Engine) Status(planID string) (Status, error) {
	plan, err := e.Plan(planID)
	if err != nil {
		return Status{}, err
	}
	p, err := e.Progress(planID)
	if err != nil {
		return Status{}, err
	}
	return Status{
		Plan:          plan,
		Progress:      p,
		Streak:        Streak(p, e.loc),
		CurrentStreak: CurrentStreak(p, e.now(), e.loc),
	}, nil
}

// Started returns the ids of plans with stored progress, in seed order
func (e *Engine) Started() ([]string, error) {
	keys, err := e.store.ListKeys(storage.ProgressPrefix)
	if err != nil {
		return nil, err
	}
	have := make(map[string]bool, len(keys))
	for _, k := range keys {
		have[strings.TrimPrefix(k, storage.ProgressPrefix)] = true
	}
	var out []string
	for _, id := range e.order {
		if have[id] {
			out = append(out, id)
		}
	}
	return out, nil
}

// Repair rewrites a stored record that breaks the completed-prefix rule, keeping the
// longest valid prefix of completed days. It reports whether anything changed.
func (e *Engine) Repair(planID string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	plan, err := e.Plan(planID)
	if err != nil {
		return false, err
	}
	p, found, err := e.load(planID)
	if err != nil || !found {
		return false, err
	}

	fixed := repaired(p, plan.Len())
	if sameProgress(p, fixed) {
		return false, nil
	}
	if err := e.save(fixed); err != nil {
		return false, err
	}
	e.logger.Warn("plan progress repaired",
		"plan", planID,
		"completed_before", len(p.Completed),
		"completed_after", len(fixed.Completed),
	)
	return true, nil
}

func repaired(p models.PlanProgress, planLen int) models.PlanProgress {
	byDay := make(map[int]models.Completion, len(p.Completed))
	for _, c := range p.Completed {
		if prev, ok := byDay[c.Day]; !ok || c.At.Before(prev.At) {
			byDay[c.Day] = c
		}
	}

	out := p.Clone()
	out.Completed = []models.Completion{}
	out.LastCompletedAt = nil
	for day := 1; day <= planLen; day++ {
		c, ok := byDay[day]
		if !ok {
			break
		}
		out.Completed = append(out.Completed, c)
		at := c.At
		out.LastCompletedAt = &at
	}
	out.CurrentDay = len(out.Completed) + 1
	if len(out.Completed) == planLen {
		out.State = models.PlanCompleted
	} else {
		out.State = models.PlanInProgress
	}
	return out
}

func sameProgress(a, b models.PlanProgress) bool {
	if a.CurrentDay != b.CurrentDay || a.State != b.State || len(a.Completed) != len(b.Completed) {
		return false
	}
	for i := range a.Completed {
		if a.Completed[i].Day != b.Completed[i].Day || !a.Completed[i].At.Equal(b.Completed[i].At) {
			return false
		}
	}
	if (a.LastCompletedAt == nil) != (b.LastCompletedAt == nil) {
		return false
	}
	return a.LastCompletedAt == nil || a.LastCompletedAt.Equal(*b.LastCompletedAt)
}

// started loads progress that must exist
func (e *Engine) started(planID string) (models.ReadingPlan, models.PlanProgress, error) {
	plan, err := e.Plan(planID)
	if err != nil {
		return models.ReadingPlan{}, models.PlanProgress{}, err
	}
	p, found, err := e.load(planID)
	if err != nil {
		return models.ReadingPlan{}, models.PlanProgress{}, err
	}
	if !found {
		return models.ReadingPlan{}, models.PlanProgress{}, fmt.Errorf("plan %s not started: %w", planID, models.ErrNotFound)
	}
	return plan, p, nil
}

func (e *Engine) load(planID string) (models.PlanProgress, bool, error) {
	var p models.PlanProgress
	err := storage.GetJSON(e.store, storage.ProgressKey(planID), &p)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return models.PlanProgress{}, false, nil
	}
	if err != nil {
		return models.PlanProgress{}, false, fmt.Errorf("failed to load progress for %s: %w", planID, err)
	}
	if p.Completed == nil {
		p.Completed = []models.Completion{}
	}
	sort.SliceStable(p.Completed, func(i, j int) bool { return p.Completed[i].Day < p.Completed[j].Day })
	return p, true, nil
}

func (e *Engine) save(p models.PlanProgress) error {
	if err := storage.SetJSON(e.store, storage.ProgressKey(p.PlanID), p); err != nil {
		return fmt.Errorf("failed to save progress for %s: %w", p.PlanID, err)
	}
	return nil
}
