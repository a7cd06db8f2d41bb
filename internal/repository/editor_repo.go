package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
)

// bootstrapEditorName имя редакторов, заведённых через EDITOR_IDS
const bootstrapEditorName = "EDITOR_IDS"

// EditorRepository работает с таблицей editors: кому доступны пакетные операции
type EditorRepository struct {
	db    *sql.DB
	cache sync.Map // кэш для IsEditor
}

// NewEditorRepository создаёт репозиторий редакторов
func NewEditorRepository(db *sql.DB) *EditorRepository {
	return &EditorRepository{db: db}
}

// IsEditor проверяет доступ (с кэшированием). Ошибка БД означает отказ и не кэшируется.
func (r *EditorRepository) IsEditor(ctx context.Context, telegramID int64) bool {
	if cached, ok := r.cache.Load(telegramID); ok {
		return cached.(bool)
	}

	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM public.editors WHERE telegram_id = $1)",
		telegramID,
	).Scan(&exists)
	if err != nil {
		return false
	}

	r.cache.Store(telegramID, exists)
	return exists
}

// Add добавляет редактора и сбрасывает кэш
func (r *EditorRepository) Add(ctx context.Context, telegramID int64, name string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO public.editors (telegram_id, name) VALUES ($1, $2)
		ON CONFLICT (telegram_id) DO UPDATE SET name = EXCLUDED.name`,
		telegramID, name,
	)
	if err != nil {
		return err
	}
	r.cache.Delete(telegramID)
	return nil
}

// EditorAdder добавляет редактора
type EditorAdder interface {
	Add(ctx context.Context, telegramID int64, name string) error
}

var _ EditorAdder = (*EditorRepository)(nil)

// BootstrapEditors заносит редакторов из конфигурации (EDITOR_IDS)
func BootstrapEditors(ctx context.Context, editors EditorAdder, ids []int64) error {
	for _, id := range ids {
		if err := editors.Add(ctx, id, bootstrapEditorName); err != nil {
			return fmt.Errorf("редактор %d: %w", id, err)
		}
	}
	return nil
}
