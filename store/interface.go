package store

import "github.com/prohubhq/prohub/models"

// Store is the persistence contract for the three ProHub collections.
// Mutating operations are serialized by the implementation; update
// methods take a mutator so model transition rules (status changes, note
// lifecycle) run inside the store's lock against fresh data.
type Store interface {
	// Initialize configures the store with backend-specific settings such
	// as file path and data format. It must be called before any other
	// store operation.
	Initialize(config map[string]string) error

	// Close releases any resources held by the store, such as file locks.
	Close() error

	// CreateTask adds a new task, assigning an ID when none is set.
	CreateTask(task models.Task) (models.Task, error)
	// GetTask retrieves a task by ID.
	GetTask(id string) (models.Task, error)
	// UpdateTask applies mutate to the stored task and persists the result.
	UpdateTask(id string, mutate func(models.Task) (models.Task, error)) (models.Task, error)
	// DeleteTask removes a task by ID.
	DeleteTask(id string) error
	// ListTasks returns all tasks, oldest first.
	ListTasks() ([]models.Task, error)
	// ReplaceTasks swaps in a whole new task collection atomically. The
	// AI merge uses this so a failed oracle call never touches disk.
	ReplaceTasks(tasks []models.Task) error
	// MarkTaskDone transitions a task to completed.
	MarkTaskDone(id string) (models.Task, error)
	// ReopenTask transitions a completed task back to pending.
	ReopenTask(id string) (models.Task, error)

	// CreateNote adds a new note, assigning an ID when none is set.
	CreateNote(note models.Note) (models.Note, error)
	// GetNote retrieves a note by ID.
	GetNote(id string) (models.Note, error)
	// UpdateNote applies mutate to the stored note and persists the result.
	UpdateNote(id string, mutate func(models.Note) (models.Note, error)) (models.Note, error)
	// TrashNote moves a note to the trash. Trashing an already-trashed
	// note deletes it permanently; the boolean reports that case.
	TrashNote(id string) (models.Note, bool, error)
	// DeleteNote removes a note permanently.
	DeleteNote(id string) error
	// ListNotes returns all notes, oldest first.
	ListNotes() ([]models.Note, error)

	// CreateTrade adds a new trade, assigning an ID when none is set.
	CreateTrade(trade models.Trade) (models.Trade, error)
	// GetTrade retrieves a trade by ID.
	GetTrade(id string) (models.Trade, error)
	// UpdateTrade applies mutate to the stored trade and persists the result.
	UpdateTrade(id string, mutate func(models.Trade) (models.Trade, error)) (models.Trade, error)
	// ListTrades returns all trades, oldest first.
	ListTrades() ([]models.Trade, error)
}
