package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"planbot/internal/models"
)

// FileStore keeps a program tree in a JSON file. Replace writes a temp file and
// renames it over the original so readers never see a partial tree.
type FileStore struct {
	path string
}

// NewFileStore создаёт хранилище поверх JSON файла
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Read загружает программу из файла
func (s *FileStore) Read(_ context.Context) (*models.Program, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения программы: %w", err)
	}
	var p models.Program
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("ошибка разбора %s: %w", s.path, err)
	}
	return &p, nil
}

// Replace сохраняет программу целиком
func (s *FileStore) Replace(_ context.Context, p *models.Program) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".program-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}
