package repository

import (
	"context"
	"database/sql"
	"errors"
)

var (
	// ErrProgramNotFound программа не найдена
	ErrProgramNotFound = errors.New("program not found")
	// ErrProgramExists программа с таким ID уже есть
	ErrProgramExists = errors.New("program already exists")
)

// Repository содержит все репозитории
type Repository struct {
	Program *ProgramRepository
	History *HistoryRepository
	Editor  *EditorRepository
}

// New создаёт новый экземпляр Repository
func New(db *sql.DB) *Repository {
	return &Repository{
		Program: NewProgramRepository(db),
		History: NewHistoryRepository(db),
		Editor:  NewEditorRepository(db),
	}
}

const schema = `
CREATE TABLE IF NOT EXISTS public.program_trees (
	program_id INT PRIMARY KEY,
	name       TEXT NOT NULL DEFAULT '',
	tree       JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS public.batch_history (
	id         SERIAL PRIMARY KEY,
	program_id INT NOT NULL REFERENCES public.program_trees(program_id) ON DELETE CASCADE,
	action     TEXT NOT NULL,
	outcome    TEXT NOT NULL,
	summary    TEXT NOT NULL DEFAULT '',
	alerts     TEXT[] NOT NULL DEFAULT '{}',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS batch_history_program_idx ON public.batch_history (program_id, created_at DESC);

CREATE TABLE IF NOT EXISTS public.editors (
	telegram_id BIGINT PRIMARY KEY,
	name        TEXT NOT NULL DEFAULT ''
);
`

// Migrate создаёт таблицы, если их нет
func Migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}
