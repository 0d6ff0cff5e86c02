package store

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/gofrs/flock"
	"github.com/google/uuid"
	yaml "gopkg.in/yaml.v3"

	"github.com/prohubhq/prohub/models"
)

const (
	defaultDataFile   = "prohub.json"
	dataFileKey       = "dataFile"
	dataFileFormatKey = "dataFileFormat"
	defaultDataFormat = "json"
	formatJSON        = "json"
	formatYAML        = "yaml"
	formatTOML        = "toml"
	checksumSuffix    = ".checksum"
)

// document is the on-disk shape: the three collections in one file.
type document struct {
	Tasks  []models.Task  `json:"tasks" yaml:"tasks" toml:"tasks"`
	Notes  []models.Note  `json:"notes" yaml:"notes" toml:"notes"`
	Trades []models.Trade `json:"trades" yaml:"trades" toml:"trades"`
}

// FileStore implements the Store interface on a single data file. It
// supports JSON, YAML, and TOML formats, serializes access with a file
// lock, and guards the file with a checksum sidecar plus atomic
// write-then-rename.
type FileStore struct {
	filePath string
	format   string
	flk      *flock.Flock
	tasks    map[string]models.Task
	notes    map[string]models.Note
	trades   map[string]models.Trade
}

// NewFileStore creates a new instance of FileStore. Initialize must be
// called before use.
func NewFileStore() *FileStore {
	return &FileStore{
		tasks:  make(map[string]models.Task),
		notes:  make(map[string]models.Note),
		trades: make(map[string]models.Trade),
	}
}

// Initialize configures the FileStore. It expects a 'dataFile' key in
// the config map; without one it defaults to 'prohub.json' in the
// working directory. Existing data is loaded and the file lock
// established.
func (s *FileStore) Initialize(config map[string]string) error {
	if val, ok := config[dataFileKey]; ok && val != "" {
		s.filePath = val
	} else {
		s.filePath = defaultDataFile
	}

	if val, ok := config[dataFileFormatKey]; ok && val != "" {
		formatLower := strings.ToLower(val)
		switch formatLower {
		case formatJSON, formatYAML, formatTOML:
			s.format = formatLower
		default:
			return fmt.Errorf("unsupported dataFileFormat: %s. Supported formats are json, yaml, toml", val)
		}
	} else {
		s.format = defaultDataFormat
	}

	if s.filePath == defaultDataFile && s.format != formatJSON {
		ext := filepath.Ext(s.filePath)
		s.filePath = strings.TrimSuffix(s.filePath, ext) + "." + s.format
	}

	dir := filepath.Dir(s.filePath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	s.flk = flock.New(s.filePath)

	locked, err := s.flk.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire initial lock for %s: %w", s.filePath, err)
	}
	if !locked {
		if err := s.flk.Lock(); err != nil {
			return fmt.Errorf("failed to acquire blocking initial lock for %s: %w", s.filePath, err)
		}
	}
	defer func() { _ = s.flk.Unlock() }()

	return s.loadInternal()
}

// Close releases the file lock.
func (s *FileStore) Close() error {
	if s.flk != nil {
		return s.flk.Unlock()
	}
	return nil
}

func calculateChecksum(data []byte) string {
	hasher := sha256.New()
	hasher.Write(data)
	return hex.EncodeToString(hasher.Sum(nil))
}

// loadInternal reads the data file, verifies its checksum, and rebuilds
// the in-memory maps. Assumes the file lock is held.
func (s *FileStore) loadInternal() error {
	checksumFilePath := s.filePath + checksumSuffix

	s.tasks = make(map[string]models.Task)
	s.notes = make(map[string]models.Note)
	s.trades = make(map[string]models.Trade)

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			_ = os.Remove(checksumFilePath)
			f, createErr := os.OpenFile(s.filePath, os.O_CREATE|os.O_RDWR, 0o644)
			if createErr != nil {
				return fmt.Errorf("failed to create data file %s: %w", s.filePath, createErr)
			}
			_ = f.Close()
			if err := os.WriteFile(checksumFilePath, []byte(calculateChecksum([]byte{})), 0o644); err != nil {
				slog.Warn("could not write initial checksum file", "path", checksumFilePath, "error", err)
			}
			return nil
		}
		return fmt.Errorf("failed to read data file %s: %w", s.filePath, err)
	}

	if _, err := os.Stat(checksumFilePath); err == nil {
		expectedChecksumBytes, readErr := os.ReadFile(checksumFilePath)
		if readErr != nil {
			return fmt.Errorf("failed to read checksum file %s: %w", checksumFilePath, readErr)
		}
		expectedChecksum := strings.TrimSpace(string(expectedChecksumBytes))
		if actual := calculateChecksum(data); actual != expectedChecksum {
			return fmt.Errorf("checksum mismatch for %s - expected %s, got %s - file is corrupt or tampered", s.filePath, expectedChecksum, actual)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("error checking checksum file %s: %w", checksumFilePath, err)
	}
	// A data file without a checksum sidecar predates checksumming; load
	// it and let the next save create one.

	if len(data) == 0 {
		_ = os.WriteFile(checksumFilePath, []byte(calculateChecksum([]byte{})), 0o644)
		return nil
	}

	var doc document
	switch s.format {
	case formatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("failed to unmarshal JSON from %s: %w", s.filePath, err)
		}
	case formatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("failed to unmarshal YAML from %s: %w", s.filePath, err)
		}
	case formatTOML:
		if err := toml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("failed to unmarshal TOML from %s: %w", s.filePath, err)
		}
	default:
		return fmt.Errorf("unsupported data format for loading: %s", s.format)
	}

	for _, t := range doc.Tasks {
		s.tasks[t.ID] = t
	}
	for _, n := range doc.Notes {
		s.notes[n.ID] = n
	}
	for _, t := range doc.Trades {
		s.trades[t.ID] = t
	}
	return nil
}

// saveInternal writes the collections to the data file, then its
// checksum, both via temp-file-and-rename. Assumes the file lock is held.
func (s *FileStore) saveInternal() error {
	doc := document{
		Tasks:  s.taskSlice(),
		Notes:  s.noteSlice(),
		Trades: s.tradeSlice(),
	}

	var marshaledData []byte
	var err error
	switch s.format {
	case formatJSON:
		marshaledData, err = json.MarshalIndent(doc, "", "  ")
	case formatYAML:
		marshaledData, err = yaml.Marshal(doc)
	case formatTOML:
		buf := new(bytes.Buffer)
		if encodeErr := toml.NewEncoder(buf).Encode(doc); encodeErr == nil {
			marshaledData = buf.Bytes()
		} else {
			err = fmt.Errorf("failed to marshal TOML: %w", encodeErr)
		}
	default:
		return fmt.Errorf("unsupported data format for saving: %s", s.format)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal data to %s: %w", s.format, err)
	}

	tempFilePath := s.filePath + ".tmp"
	checksumFilePath := s.filePath + checksumSuffix
	tempChecksumFilePath := checksumFilePath + ".tmp"

	defer func() { _ = os.Remove(tempFilePath) }()
	defer func() { _ = os.Remove(tempChecksumFilePath) }()

	if err := os.WriteFile(tempFilePath, marshaledData, 0o644); err != nil {
		return fmt.Errorf("failed to write to temporary data file %s: %w", tempFilePath, err)
	}
	if err := os.WriteFile(tempChecksumFilePath, []byte(calculateChecksum(marshaledData)), 0o644); err != nil {
		return fmt.Errorf("failed to write to temporary checksum file %s: %w", tempChecksumFilePath, err)
	}

	if err := os.Rename(tempFilePath, s.filePath); err != nil {
		return fmt.Errorf("failed to rename temporary data file %s to %s: %w", tempFilePath, s.filePath, err)
	}
	if err := os.Rename(tempChecksumFilePath, checksumFilePath); err != nil {
		return fmt.Errorf("data file %s updated but checksum file %s was not: %w - store may report corruption on next load", s.filePath, checksumFilePath, err)
	}
	return nil
}

// mutate runs fn against freshly loaded state under the exclusive lock
// and saves on success. A failed save reloads from disk, which reverts
// the in-memory change.
func (s *FileStore) mutate(fn func() error) error {
	if err := s.flk.Lock(); err != nil {
		return fmt.Errorf("could not lock data file: %w", err)
	}
	defer func() { _ = s.flk.Unlock() }()

	if err := s.loadInternal(); err != nil {
		return fmt.Errorf("failed to reload data before write: %w", err)
	}
	if err := fn(); err != nil {
		return err
	}
	if err := s.saveInternal(); err != nil {
		_ = s.loadInternal()
		return fmt.Errorf("failed to save data: %w", err)
	}
	return nil
}

// view runs fn against freshly loaded state under the lock, without
// saving.
func (s *FileStore) view(fn func() error) error {
	if err := s.flk.Lock(); err != nil {
		return fmt.Errorf("could not lock data file: %w", err)
	}
	defer func() { _ = s.flk.Unlock() }()

	if err := s.loadInternal(); err != nil {
		return fmt.Errorf("failed to load data: %w", err)
	}
	return fn()
}

func generateID() string {
	return uuid.NewString()
}

func (s *FileStore) taskSlice() []models.Task {
	out := make([]models.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *FileStore) noteSlice() []models.Note {
	out := make([]models.Note, 0, len(s.notes))
	for _, n := range s.notes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *FileStore) tradeSlice() []models.Trade {
	out := make([]models.Trade, 0, len(s.trades))
	for _, t := range s.trades {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// --- Tasks ---

// CreateTask adds a new task to the store, assigning an ID and
// timestamps.
func (s *FileStore) CreateTask(task models.Task) (models.Task, error) {
	err := s.mutate(func() error {
		if task.ID == "" {
			task.ID = generateID()
		} else if _, exists := s.tasks[task.ID]; exists {
			return fmt.Errorf("task with ID '%s' already exists", task.ID)
		}
		now := time.Now().UTC()
		task.CreatedAt = now
		task.UpdatedAt = now
		if err := models.ValidateStruct(task); err != nil {
			return fmt.Errorf("validation failed for new task: %w", err)
		}
		s.tasks[task.ID] = task
		return nil
	})
	if err != nil {
		return models.Task{}, err
	}
	return task, nil
}

// GetTask retrieves a task by its unique identifier.
func (s *FileStore) GetTask(id string) (models.Task, error) {
	var task models.Task
	err := s.view(func() error {
		t, ok := s.tasks[id]
		if !ok {
			return fmt.Errorf("task with ID '%s' not found", id)
		}
		task = t
		return nil
	})
	return task, err
}

// UpdateTask applies mutate to the stored task and persists the result.
func (s *FileStore) UpdateTask(id string, mutateFn func(models.Task) (models.Task, error)) (models.Task, error) {
	var updated models.Task
	err := s.mutate(func() error {
		task, ok := s.tasks[id]
		if !ok {
			return fmt.Errorf("task with ID '%s' not found", id)
		}
		next, err := mutateFn(task)
		if err != nil {
			return err
		}
		next.ID = task.ID
		next.CreatedAt = task.CreatedAt
		if err := models.ValidateStruct(next); err != nil {
			return fmt.Errorf("validation failed for updated task: %w", err)
		}
		s.tasks[id] = next
		updated = next
		return nil
	})
	if err != nil {
		return models.Task{}, err
	}
	return updated, nil
}

// DeleteTask removes a task from the store.
func (s *FileStore) DeleteTask(id string) error {
	return s.mutate(func() error {
		if _, ok := s.tasks[id]; !ok {
			return fmt.Errorf("task with ID '%s' not found", id)
		}
		delete(s.tasks, id)
		return nil
	})
}

// ListTasks returns all tasks, oldest first.
func (s *FileStore) ListTasks() ([]models.Task, error) {
	var out []models.Task
	err := s.view(func() error {
		out = s.taskSlice()
		return nil
	})
	return out, err
}

// ReplaceTasks swaps in a whole new task collection. Used by the AI
// merge so that either the full merged collection lands on disk or
// nothing changes.
func (s *FileStore) ReplaceTasks(tasks []models.Task) error {
	return s.mutate(func() error {
		next := make(map[string]models.Task, len(tasks))
		for _, t := range tasks {
			if err := models.ValidateStruct(t); err != nil {
				return fmt.Errorf("validation failed while replacing tasks: %w", err)
			}
			if _, dup := next[t.ID]; dup {
				return fmt.Errorf("duplicate task ID '%s' in replacement collection", t.ID)
			}
			next[t.ID] = t
		}
		s.tasks = next
		return nil
	})
}

// MarkTaskDone transitions a task to completed, stamping CompletedAt and
// clearing AI fields.
func (s *FileStore) MarkTaskDone(id string) (models.Task, error) {
	return s.UpdateTask(id, func(t models.Task) (models.Task, error) {
		if t.Status == models.StatusCompleted {
			return models.Task{}, fmt.Errorf("task '%s' is already completed", t.Title)
		}
		return t.Complete(time.Now().UTC()), nil
	})
}

// ReopenTask transitions a completed task back to pending.
func (s *FileStore) ReopenTask(id string) (models.Task, error) {
	return s.UpdateTask(id, func(t models.Task) (models.Task, error) {
		if t.Status == models.StatusPending {
			return models.Task{}, fmt.Errorf("task '%s' is not completed", t.Title)
		}
		return t.Reopen(time.Now().UTC()), nil
	})
}

// --- Notes ---

// CreateNote adds a new note to the store.
func (s *FileStore) CreateNote(note models.Note) (models.Note, error) {
	err := s.mutate(func() error {
		if note.ID == "" {
			note.ID = generateID()
		} else if _, exists := s.notes[note.ID]; exists {
			return fmt.Errorf("note with ID '%s' already exists", note.ID)
		}
		now := time.Now().UTC()
		note.CreatedAt = now
		note.UpdatedAt = now
		if err := models.ValidateStruct(note); err != nil {
			return fmt.Errorf("validation failed for new note: %w", err)
		}
		s.notes[note.ID] = note
		return nil
	})
	if err != nil {
		return models.Note{}, err
	}
	return note, nil
}

// GetNote retrieves a note by its unique identifier.
func (s *FileStore) GetNote(id string) (models.Note, error) {
	var note models.Note
	err := s.view(func() error {
		n, ok := s.notes[id]
		if !ok {
			return fmt.Errorf("note with ID '%s' not found", id)
		}
		note = n
		return nil
	})
	return note, err
}

// UpdateNote applies mutate to the stored note and persists the result.
func (s *FileStore) UpdateNote(id string, mutateFn func(models.Note) (models.Note, error)) (models.Note, error) {
	var updated models.Note
	err := s.mutate(func() error {
		note, ok := s.notes[id]
		if !ok {
			return fmt.Errorf("note with ID '%s' not found", id)
		}
		next, err := mutateFn(note)
		if err != nil {
			return err
		}
		next.ID = note.ID
		next.CreatedAt = note.CreatedAt
		if err := models.ValidateStruct(next); err != nil {
			return fmt.Errorf("validation failed for updated note: %w", err)
		}
		s.notes[id] = next
		updated = next
		return nil
	})
	if err != nil {
		return models.Note{}, err
	}
	return updated, nil
}

// TrashNote moves a note to the trash; trashing a note that is already
// in the trash deletes it permanently. The boolean reports permanent
// deletion.
func (s *FileStore) TrashNote(id string) (models.Note, bool, error) {
	var (
		result  models.Note
		deleted bool
	)
	err := s.mutate(func() error {
		note, ok := s.notes[id]
		if !ok {
			return fmt.Errorf("note with ID '%s' not found", id)
		}
		next, alreadyTrashed := note.Trash(time.Now().UTC())
		if alreadyTrashed {
			delete(s.notes, id)
			deleted = true
			return nil
		}
		s.notes[id] = next
		result = next
		return nil
	})
	if err != nil {
		return models.Note{}, false, err
	}
	return result, deleted, nil
}

// DeleteNote removes a note permanently.
func (s *FileStore) DeleteNote(id string) error {
	return s.mutate(func() error {
		if _, ok := s.notes[id]; !ok {
			return fmt.Errorf("note with ID '%s' not found", id)
		}
		delete(s.notes, id)
		return nil
	})
}

// ListNotes returns all notes, oldest first.
func (s *FileStore) ListNotes() ([]models.Note, error) {
	var out []models.Note
	err := s.view(func() error {
		out = s.noteSlice()
		return nil
	})
	return out, err
}

// --- Trades ---

// CreateTrade adds a new trade to the store.
func (s *FileStore) CreateTrade(trade models.Trade) (models.Trade, error) {
	err := s.mutate(func() error {
		if trade.ID == "" {
			trade.ID = generateID()
		} else if _, exists := s.trades[trade.ID]; exists {
			return fmt.Errorf("trade with ID '%s' already exists", trade.ID)
		}
		now := time.Now().UTC()
		trade.CreatedAt = now
		trade.UpdatedAt = now
		if err := models.ValidateStruct(trade); err != nil {
			return fmt.Errorf("validation failed for new trade: %w", err)
		}
		s.trades[trade.ID] = trade
		return nil
	})
	if err != nil {
		return models.Trade{}, err
	}
	return trade, nil
}

// GetTrade retrieves a trade by its unique identifier.
func (s *FileStore) GetTrade(id string) (models.Trade, error) {
	var trade models.Trade
	err := s.view(func() error {
		t, ok := s.trades[id]
		if !ok {
			return fmt.Errorf("trade with ID '%s' not found", id)
		}
		trade = t
		return nil
	})
	return trade, err
}

// UpdateTrade applies mutate to the stored trade and persists the
// result.
func (s *FileStore) UpdateTrade(id string, mutateFn func(models.Trade) (models.Trade, error)) (models.Trade, error) {
	var updated models.Trade
	err := s.mutate(func() error {
		trade, ok := s.trades[id]
		if !ok {
			return fmt.Errorf("trade with ID '%s' not found", id)
		}
		next, err := mutateFn(trade)
		if err != nil {
			return err
		}
		next.ID = trade.ID
		next.CreatedAt = trade.CreatedAt
		if err := models.ValidateStruct(next); err != nil {
			return fmt.Errorf("validation failed for updated trade: %w", err)
		}
		s.trades[id] = next
		updated = next
		return nil
	})
	if err != nil {
		return models.Trade{}, err
	}
	return updated, nil
}

// ListTrades returns all trades, oldest first.
func (s *FileStore) ListTrades() ([]models.Trade, error) {
	var out []models.Trade
	err := s.view(func() error {
		out = s.tradeSlice()
		return nil
	})
	return out, err
}
