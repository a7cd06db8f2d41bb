package batch

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"planbot/internal/models"
)

// Store хранит текущее дерево программы. Replace заменяет всё дерево или ничего.
type Store interface {
	Read(ctx context.Context) (*models.Program, error)
	Replace(ctx context.Context, p *models.Program) error
}

// HistoryEntry запись о применённой операции
type HistoryEntry struct {
	ProgramID int
	Action    ActionKind
	Outcome   Outcome
	Summary   string
	Alerts    []string
	CreatedAt time.Time
}

// HistoryRecorder сохраняет историю
type HistoryRecorder interface {
	Record(ctx context.Context, entry HistoryEntry) error
}

// State шаг сессии
type State int

const (
	StateSelecting State = iota
	StateConfiguring
	StatePreviewing
	StateCommitted
)

func (s State) String() string {
	switch s {
	case StateSelecting:
		return "selecting"
	case StateConfiguring:
		return "configuring"
	case StatePreviewing:
		return "previewing"
	case StateCommitted:
		return "committed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Session ведёт операцию: выбор → настройка → предпросмотр → применение.
// Одна сессия принадлежит одному редактору.
type Session struct {
	store   Store
	history HistoryRecorder
	limits  SafetyLimits
	logger  *zap.Logger

	state   State
	action  Action
	config  Config
	preview *Result
}

// NewSession создаёт сессию в состоянии выбора. Перед работой вызовите Reset,
// чтобы загрузить настройки по умолчанию для программы.
func NewSession(store Store, limits SafetyLimits, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		store:  store,
		limits: limits,
		logger: logger,
		config: DefaultConfig(1, limits),
	}
}

// SetHistory подключает запись истории
func (s *Session) SetHistory(h HistoryRecorder) {
	s.history = h
}

// Reset открывает сессию заново: выбор и настройки по умолчанию
func (s *Session) Reset(ctx context.Context) error {
	p, err := s.store.Read(ctx)
	if err != nil {
		return fmt.Errorf("read program: %w", err)
	}
	s.state = StateSelecting
	s.action = nil
	s.preview = nil
	s.config = DefaultConfig(p.TotalWeeks(), s.limits)
	return nil
}

// State текущий шаг
func (s *Session) State() State { return s.state }

// Action выбранная операция, nil на шаге выбора
func (s *Session) Action() Action { return s.action }

// Config текущие настройки
func (s *Session) Config() Config { return s.config }

// Select выбирает операцию и переходит к настройке
func (s *Session) Select(a Action) error {
	if err := s.expect(StateSelecting); err != nil {
		return err
	}
	if a == nil {
		return fmt.Errorf("%w: no action selected", ErrUnknownAction)
	}
	s.action = a
	s.state = StateConfiguring
	return nil
}

// Configure заменяет настройки. Здесь структурная проверка, против программы
// проверяется при предпросмотре.
func (s *Session) Configure(cfg Config) error {
	if err := s.expect(StateConfiguring); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.config = cfg
	return nil
}

// UpdateConfig правит настройки на месте и проверяет результат
func (s *Session) UpdateConfig(fn func(*Config)) error {
	cfg := s.config
	fn(&cfg)
	return s.Configure(cfg)
}

// SetAction меняет операцию того же типа на шаге настройки (например, исходную неделю)
func (s *Session) SetAction(a Action) error {
	if err := s.expect(StateConfiguring); err != nil {
		return err
	}
	if a == nil || a.Kind() != s.action.Kind() {
		return fmt.Errorf("%w: action kind is fixed for the session", ErrInvalidTransition)
	}
	s.action = a
	return nil
}

// Preview считает новое дерево и предупреждения, не трогая хранилище
func (s *Session) Preview(ctx context.Context) (*Result, error) {
	if err := s.expect(StateConfiguring); err != nil {
		return nil, err
	}
	p, err := s.store.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("read program: %w", err)
	}
	result, err := Apply(p, s.action, s.config)
	if err != nil {
		return nil, err
	}
	s.preview = result
	s.state = StatePreviewing
	return result, nil
}

// Back шаг назад
func (s *Session) Back() error {
	switch s.state {
	case StateConfiguring:
		s.state = StateSelecting
		s.action = nil
	case StatePreviewing:
		s.state = StateConfiguring
		s.preview = nil
	default:
		return fmt.Errorf("%w: cannot go back from %s", ErrInvalidTransition, s.state)
	}
	return nil
}

// Confirm пересчитывает операцию по текущей программе и сохраняет результат.
// Неподдерживаемые операции завершают сессию без записи.
func (s *Session) Confirm(ctx context.Context) (*Result, error) {
	if err := s.expect(StatePreviewing); err != nil {
		return nil, err
	}

	p, err := s.store.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("read program: %w", err)
	}
	result, err := Apply(p, s.action, s.config)
	if err != nil {
		return nil, err
	}

	if result.Outcome == OutcomeApplied {
		result.Program.UpdatedAt = time.Now()
		if err := s.store.Replace(ctx, result.Program); err != nil {
			return nil, fmt.Errorf("replace program: %w", err)
		}
	}

	observeCommit(result)
	s.logger.Info("пакетная операция применена",
		zap.Int("program_id", p.ID),
		zap.String("action", string(s.action.Kind())),
		zap.String("outcome", string(result.Outcome)),
		zap.String("config", s.config.Summary()),
		zap.Int("alerts", len(result.Preview.Alerts)),
	)
	s.recordHistory(ctx, p.ID, result)

	s.state = StateCommitted
	s.preview = result
	return result, nil
}

func (s *Session) recordHistory(ctx context.Context, programID int, r *Result) {
	if s.history == nil {
		return
	}
	entry := HistoryEntry{
		ProgramID: programID,
		Action:    r.Action.Kind(),
		Outcome:   r.Outcome,
		Summary:   r.Config.Summary(),
		Alerts:    r.Preview.Messages(),
		CreatedAt: time.Now(),
	}
	if err := s.history.Record(ctx, entry); err != nil {
		s.logger.Warn("история не сохранена", zap.Int("program_id", programID), zap.Error(err))
	}
}

func (s *Session) expect(want State) error {
	if s.state != want {
		return fmt.Errorf("%w: in %s, want %s", ErrInvalidTransition, s.state, want)
	}
	return nil
}
