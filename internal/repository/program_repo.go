package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"planbot/internal/batch"
	"planbot/internal/models"
)

// uniqueViolation код ошибки Postgres для нарушения уникальности
const uniqueViolation = "23505"

// ProgramRepository хранит дерево программы целиком в JSONB
type ProgramRepository struct {
	db *sql.DB
}

// NewProgramRepository создаёт новый репозиторий программ
func NewProgramRepository(db *sql.DB) *ProgramRepository {
	return &ProgramRepository{db: db}
}

// ProgramListItem for program pickers
type ProgramListItem struct {
	ID         int
	Name       string
	TotalWeeks int
	UpdatedAt  time.Time
}

// Get возвращает программу по ID
func (r *ProgramRepository) Get(ctx context.Context, programID int) (*models.Program, error) {
	var (
		program models.Program
		tree    []byte
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT program_id, name, tree, updated_at
		FROM public.program_trees
		WHERE program_id = $1`, programID,
	).Scan(&program.ID, &program.Name, &tree, &program.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrProgramNotFound, programID)
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(tree, &program.Weeks); err != nil {
		return nil, fmt.Errorf("программа %d: повреждённое дерево: %w", programID, err)
	}
	return &program, nil
}

// Create сохраняет новую программу
func (r *ProgramRepository) Create(ctx context.Context, p *models.Program) error {
	tree, err := json.Marshal(p.Weeks)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO public.program_trees (program_id, name, tree, updated_at)
		VALUES ($1, $2, $3, NOW())`,
		p.ID, p.Name, tree,
	)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %d", ErrProgramExists, p.ID)
	}
	return err
}

// Replace atomically swaps the stored tree for the given program
func (r *ProgramRepository) Replace(ctx context.Context, p *models.Program) error {
	tree, err := json.Marshal(p.Weeks)
	if err != nil {
		return err
	}
	updatedAt := p.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE public.program_trees
		SET name = $2, tree = $3, updated_at = $4
		WHERE program_id = $1`,
		p.ID, p.Name, tree, updatedAt,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %d", ErrProgramNotFound, p.ID)
	}
	return nil
}

// List возвращает все программы, последние изменённые первыми
func (r *ProgramRepository) List(ctx context.Context) ([]ProgramListItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT program_id, name, jsonb_array_length(tree), updated_at
		FROM public.program_trees
		ORDER BY updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []ProgramListItem
	for rows.Next() {
		var item ProgramListItem
		if err := rows.Scan(&item.ID, &item.Name, &item.TotalWeeks, &item.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Store binds the repository to one program for a batch session
func (r *ProgramRepository) Store(programID int) batch.Store {
	return &programStore{repo: r, programID: programID}
}

type programStore struct {
	repo      *ProgramRepository
	programID int
}

func (s *programStore) Read(ctx context.Context) (*models.Program, error) {
	return s.repo.Get(ctx, s.programID)
}

func (s *programStore) Replace(ctx context.Context, p *models.Program) error {
	if p.ID != s.programID {
		return fmt.Errorf("program %d cannot replace program %d", p.ID, s.programID)
	}
	return s.repo.Replace(ctx, p)
}
