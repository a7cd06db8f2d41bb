// Package scheduler запускает пресеты по расписанию cron.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"planbot/internal/batch"
	"planbot/internal/presets"
)

// Job регулярная операция. Cron в формате из шести полей с секундами
// ("0 0 6 * * MON") или дескриптор вроде "@weekly".
type Job struct {
	Name      string `yaml:"name"`
	ProgramID int    `yaml:"program_id"`
	Preset    string `yaml:"preset"`
	Cron      string `yaml:"cron"`
}

type jobsFile struct {
	Jobs []Job `yaml:"jobs"`
}

// PresetSource ищет пресеты по имени
type PresetSource interface {
	Get(name string) (presets.Preset, error)
}

// StoreFunc хранилище программы
type StoreFunc func(programID int) batch.Store

// LoadJobs читает и проверяет файл расписаний
func LoadJobs(path string) ([]Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schedules: %w", err)
	}
	var f jobsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse schedules: %w", err)
	}

	var errs []error
	for i, job := range f.Jobs {
		if job.Name == "" {
			f.Jobs[i].Name = fmt.Sprintf("%s#%d", job.Preset, job.ProgramID)
		}
		if err := job.check(); err != nil {
			errs = append(errs, fmt.Errorf("job %d: %w", i+1, err))
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return f.Jobs, nil
}

func (j Job) check() error {
	if j.ProgramID <= 0 {
		return errors.New("program_id must be positive")
	}
	if j.Preset == "" {
		return errors.New("preset is required")
	}
	if _, err := cron.Parse(j.Cron); err != nil {
		return fmt.Errorf("cron %q: %w", j.Cron, err)
	}
	return nil
}

// Scheduler применяет пресеты без участия редактора
type Scheduler struct {
	cron    *cron.Cron
	presets PresetSource
	stores  StoreFunc
	history batch.HistoryRecorder
	limits  batch.SafetyLimits
	logger  *zap.Logger
	timeout time.Duration
}

// New создаёт планировщик; history может быть nil
func New(src PresetSource, stores StoreFunc, history batch.HistoryRecorder, limits batch.SafetyLimits, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		cron:    cron.New(),
		presets: src,
		stores:  stores,
		history: history,
		limits:  limits,
		logger:  logger,
		timeout: time.Minute,
	}
}

// Add регистрирует задачу
func (s *Scheduler) Add(job Job) error {
	if err := job.check(); err != nil {
		return err
	}
	return s.cron.AddFunc(job.Cron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		if _, err := s.Run(ctx, job); err != nil {
			s.logger.Error("операция по расписанию не выполнена", zap.String("job", job.Name), zap.Error(err))
		}
	})
}

// Start запускает cron в фоне
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("планировщик запущен", zap.Int("jobs", len(s.cron.Entries())))
}

// Stop останавливает cron, текущие задачи не прерываются
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// Run проходит сессию целиком: выбор, настройка, предпросмотр, применение.
func (s *Scheduler) Run(ctx context.Context, job Job) (*batch.Result, error) {
	preset, err := s.presets.Get(job.Preset)
	if err != nil {
		return nil, err
	}

	session := batch.NewSession(s.stores(job.ProgramID), s.limits, s.logger.With(zap.String("job", job.Name)))
	if s.history != nil {
		session.SetHistory(s.history)
	}
	if err := session.Reset(ctx); err != nil {
		return nil, err
	}

	action, cfg, err := preset.Resolve(session.Config().WeekRange.End, s.limits)
	if err != nil {
		return nil, err
	}
	if err := session.Select(action); err != nil {
		return nil, err
	}
	if err := session.Configure(cfg); err != nil {
		return nil, err
	}
	preview, err := session.Preview(ctx)
	if err != nil {
		return nil, err
	}
	for _, msg := range preview.Preview.Messages() {
		s.logger.Warn("предупреждение операции по расписанию", zap.String("job", job.Name), zap.String("alert", msg))
	}
	return session.Confirm(ctx)
}
