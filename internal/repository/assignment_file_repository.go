package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/noah-isme/sternfield-timetable/internal/models"
	"github.com/noah-isme/sternfield-timetable/internal/timetable"
)

// AssignmentFileRepository keeps the teacher roster in a pretty-printed JSON
// document. Every read goes back to disk so edits made by other processes are
// picked up. Teacher names are title-cased on read, so hand-edited or older
// files with other spellings stay reachable.
type AssignmentFileRepository struct {
	path string
	mu   sync.Mutex
}

// NewAssignmentFileRepository constructs the repository for the file at path.
func NewAssignmentFileRepository(path string) *AssignmentFileRepository {
	return &AssignmentFileRepository{path: path}
}

// ListByTeacher returns the teacher's assignments in registration order.
func (r *AssignmentFileRepository) ListByTeacher(ctx context.Context, teacher string) ([]models.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	roster, err := r.read(ctx)
	if err != nil {
		return nil, err
	}
	return append([]models.Assignment(nil), roster[timetable.TitleCase(teacher)]...), nil
}

// ListTeachers returns every teacher on file, sorted.
func (r *AssignmentFileRepository) ListTeachers(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	roster, err := r.read(ctx)
	if err != nil {
		return nil, err
	}
	teachers := make([]string, 0, len(roster))
	for name := range roster {
		teachers = append(teachers, name)
	}
	sort.Strings(teachers)
	return teachers, nil
}

// Replace overwrites the teacher's assignment list. An empty list removes the
// teacher.
func (r *AssignmentFileRepository) Replace(ctx context.Context, teacher string, assignments []models.Assignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	roster, err := r.read(ctx)
	if err != nil {
		return err
	}
	teacher = timetable.TitleCase(teacher)
	if len(assignments) == 0 {
		delete(roster, teacher)
	} else {
		roster[teacher] = append([]models.Assignment(nil), assignments...)
	}
	return r.write(roster)
}

func (r *AssignmentFileRepository) read(ctx context.Context) (models.Roster, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return models.Roster{}, nil
		}
		return nil, fmt.Errorf("read assignments %s: %w", r.path, err)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return models.Roster{}, nil
	}
	stored := models.Roster{}
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("decode assignments %s: %w", r.path, err)
	}
	return normalizeRoster(stored), nil
}

// normalizeRoster re-keys stored by title-cased teacher name. Lists whose keys
// collapse onto the same name are merged in key order without duplicates.
func normalizeRoster(stored models.Roster) models.Roster {
	keys := make([]string, 0, len(stored))
	for key := range stored {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	roster := make(models.Roster, len(stored))
	for _, key := range keys {
		name := timetable.TitleCase(key)
		if name == "" {
			continue
		}
		list := roster[name]
	next:
		for _, a := range stored[key] {
			for _, existing := range list {
				if existing.SameAs(a) {
					continue next
				}
			}
			list = append(list, a)
		}
		if len(list) > 0 {
			roster[name] = list
		}
	}
	return roster
}

// write replaces the file atomically through a sibling temp file.
func (r *AssignmentFileRepository) write(roster models.Roster) error {
	payload, err := json.MarshalIndent(roster, "", "  ")
	if err != nil {
		return fmt.Errorf("encode assignments: %w", err)
	}

	dir := filepath.Dir(r.path)
	tmp, err := os.CreateTemp(dir, ".assignments-*.json")
	if err != nil {
		return fmt.Errorf("create temp assignments file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(append(payload, '\n')); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write assignments: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close assignments: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		return fmt.Errorf("replace assignments %s: %w", r.path, err)
	}
	return nil
}
