package repository

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"planbot/internal/batch"
)

// HistoryRepository журнал применённых пакетных операций
type HistoryRepository struct {
	db *sql.DB
}

// NewHistoryRepository создаёт репозиторий истории
func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Record сохраняет запись истории
func (r *HistoryRepository) Record(ctx context.Context, e batch.HistoryEntry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO public.batch_history (program_id, action, outcome, summary, alerts, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ProgramID, string(e.Action), string(e.Outcome), e.Summary, pq.Array(e.Alerts), e.CreatedAt,
	)
	return err
}

// List возвращает последние записи истории программы
func (r *HistoryRepository) List(ctx context.Context, programID, limit int) ([]batch.HistoryEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT program_id, action, outcome, summary, alerts, created_at
		FROM public.batch_history
		WHERE program_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, programID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []batch.HistoryEntry
	for rows.Next() {
		var (
			e               batch.HistoryEntry
			action, outcome string
			alerts          pq.StringArray
		)
		if err := rows.Scan(&e.ProgramID, &action, &outcome, &e.Summary, &alerts, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Action = batch.ActionKind(action)
		e.Outcome = batch.Outcome(outcome)
		e.Alerts = []string(alerts)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
