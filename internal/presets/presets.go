// Package presets загружает сохранённые настройки пакетных операций из YAML
// и перечитывает их при изменении файлов.
package presets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"planbot/internal/batch"
)

// ErrNotFound пресет не найден
var ErrNotFound = errors.New("preset not found")

// Preset именованная пакетная операция
type Preset struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Action      string       `yaml:"action"`
	SourceWeek  int          `yaml:"source_week"`
	Config      batch.Config `yaml:"config"`
}

// Resolve превращает пресет в операцию и настройки для программы из totalWeeks
// недель. Без диапазона берётся вся программа, без лимитов берутся limits.
func (p Preset) Resolve(totalWeeks int, limits batch.SafetyLimits) (batch.Action, batch.Config, error) {
	cfg := p.Config
	if cfg.WeekRange == (batch.WeekRange{}) {
		cfg.WeekRange = batch.WeekRange{Start: 1, End: totalWeeks}
	}
	if cfg.SafetyLimits.MaxSets == 0 {
		cfg.SafetyLimits.MaxSets = limits.MaxSets
	}
	if cfg.SafetyLimits.MaxReps == 0 {
		cfg.SafetyLimits.MaxReps = limits.MaxReps
	}
	if cfg.AdjustmentType == "" {
		cfg.AdjustmentType = batch.AdjustAdd
	}
	if !cfg.Filters.ApplyToAll && len(cfg.Filters.Tags) == 0 {
		cfg.Filters.ApplyToAll = true
	}

	action, err := batch.ParseAction(p.Action, p.SourceWeek, cfg.AdjustmentType)
	if err != nil {
		return nil, batch.Config{}, fmt.Errorf("preset %s: %w", p.Name, err)
	}
	return action, cfg, nil
}

// Library пресеты из каталога
type Library struct {
	dir    string
	logger *zap.Logger

	mu      sync.RWMutex
	presets map[string]Preset
}

// NewLibrary создаёт пустую библиотеку, читает её Load
func NewLibrary(dir string, logger *zap.Logger) *Library {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Library{dir: dir, logger: logger, presets: make(map[string]Preset)}
}

// Load перечитывает все *.yaml / *.yml. Битые файлы пропускаются с предупреждением.
func (l *Library) Load() error {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return fmt.Errorf("read presets dir: %w", err)
	}

	presets := make(map[string]Preset)
	for _, entry := range entries {
		if entry.IsDir() || !isPresetFile(entry.Name()) {
			continue
		}
		path := filepath.Join(l.dir, entry.Name())
		p, err := readPreset(path)
		if err != nil {
			l.logger.Warn("пресет пропущен", zap.String("file", path), zap.Error(err))
			continue
		}
		presets[p.Name] = p
	}

	l.mu.Lock()
	l.presets = presets
	l.mu.Unlock()

	l.logger.Info("пресеты загружены", zap.String("dir", l.dir), zap.Int("count", len(presets)))
	return nil
}

// Get пресет по имени
func (l *Library) Get(name string) (Preset, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	p, ok := l.presets[name]
	if !ok {
		return Preset{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return p, nil
}

// List пресеты по имени
func (l *Library) List() []Preset {
	l.mu.RLock()
	defer l.mu.RUnlock()
	list := make([]Preset, 0, len(l.presets))
	for _, p := range l.presets {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

// Watch перечитывает библиотеку при изменении файлов каталога.
// Блокируется до отмены ctx.
func (l *Library) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(l.dir); err != nil {
		return fmt.Errorf("watch %s: %w", l.dir, err)
	}
	l.logger.Info("наблюдение за пресетами", zap.String("dir", l.dir))

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isPresetFile(event.Name) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				l.logger.Debug("файл пресета изменён", zap.String("file", event.Name), zap.String("op", event.Op.String()))
				if err := l.Load(); err != nil {
					l.logger.Warn("пресеты не перечитаны", zap.Error(err))
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			l.logger.Warn("ошибка наблюдения за пресетами", zap.Error(err))
		}
	}
}

func readPreset(path string) (Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Preset{}, err
	}
	var p Preset
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Preset{}, err
	}
	if p.Name == "" {
		p.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if _, err := batch.ParseAction(p.Action, p.SourceWeek, p.Config.AdjustmentType); err != nil {
		return Preset{}, err
	}
	return p, nil
}

func isPresetFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}
