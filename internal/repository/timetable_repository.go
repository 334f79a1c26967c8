package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/noah-isme/sternfield-timetable/internal/models"
)

// TimetableRepository reads the weekly timetable document from disk.
type TimetableRepository struct {
	path string
}

// NewTimetableRepository constructs the repository for the JSON file at path.
func NewTimetableRepository(path string) *TimetableRepository {
	return &TimetableRepository{path: path}
}

// Path returns the source file location.
func (r *TimetableRepository) Path() string {
	return r.path
}

// Load returns every record in the file. A missing or blank file yields no
// records and no error; a document that is not a JSON array is an error. An
// element that does not decode as a record keeps its position and comes back
// flagged Malformed.
func (r *TimetableRepository) Load(ctx context.Context) ([]models.TimetableRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read timetable %s: %w", r.path, err)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, nil
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		return nil, fmt.Errorf("decode timetable %s: %w", r.path, err)
	}
	records := make([]models.TimetableRecord, len(elements))
	for i, element := range elements {
		if err := json.Unmarshal(element, &records[i]); err != nil {
			records[i] = models.TimetableRecord{Malformed: true}
		}
	}
	return records, nil
}
