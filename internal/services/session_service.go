package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"csv_manager_backend/internal/backup"
	"csv_manager_backend/internal/metrics"
	"csv_manager_backend/internal/models"
	"csv_manager_backend/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// --- Session DTOs ---
type AppendRecordRequest struct {
	FirstName        string   `json:"first_name" form:"first_name"`
	LastName         string   `json:"last_name" form:"last_name"`
	Email            string   `json:"email" form:"email"`
	Phone            string   `json:"phone" form:"phone"`
	ReservationDates []string `json:"reservation_dates" form:"reservation_dates"` // YYYY-MM-DD each
	Status           string   `json:"status" form:"status" binding:"omitempty,oneof=Pending Confirmed Cancelled"`
}

type ReplaceRowsRequest struct {
	Rows [][]string `json:"rows" binding:"required"`
}

// Session is a snapshot of one interactive editing session: the table and
// the concrete file it loads from and saves to.
type Session struct {
	ID       uuid.UUID           `json:"id"`
	Path     string              `json:"path"`
	Table    *models.RecordTable `json:"table"`
	Dirty    bool                `json:"dirty"`
	OpenedAt time.Time           `json:"opened_at"`
	SavedAt  *time.Time          `json:"saved_at,omitempty"`
}

// --- SessionService Interface ---
type SessionService interface {
	Open(path string) (*Session, error)
	OpenStaged(staged, dest string) (*Session, error)
	Get(id uuid.UUID) (*Session, error)
	AppendRecord(id uuid.UUID, req AppendRecordRequest) (*Session, error)
	ReplaceRows(id uuid.UUID, req ReplaceRowsRequest) (*Session, error)
	Save(ctx context.Context, id uuid.UUID) (*Session, error)
	Reload(id uuid.UUID) (*Session, error)
	Export(id uuid.UUID) ([]byte, error)
	Search(id uuid.UUID, term string) (*models.RecordTable, error)
	Calendar(id uuid.UUID) ([]models.CalendarEntry, error)
	Summary(id uuid.UUID) (*models.TableSummary, error)
	Close(id uuid.UUID) error
}

type sessionState struct {
	mu       sync.Mutex
	id       uuid.UUID
	path     string
	table    *models.RecordTable
	dirty    bool
	openedAt time.Time
	savedAt  *time.Time
}

func (s *sessionState) snapshot() *Session {
	return &Session{
		ID:       s.id,
		Path:     s.path,
		Table:    s.table.Clone(),
		Dirty:    s.dirty,
		OpenedAt: s.openedAt,
		SavedAt:  s.savedAt,
	}
}

// --- sessionService Implementation ---
type sessionService struct {
	recordRepo repositories.RecordRepository
	archiver   backup.Archiver // nil disables backups

	mu       sync.RWMutex
	sessions map[uuid.UUID]*sessionState
}

// NewSessionService creates a new instance of SessionService.
func NewSessionService(repo repositories.RecordRepository, archiver backup.Archiver) SessionService {
	return &sessionService{
		recordRepo: repo,
		archiver:   archiver,
		sessions:   make(map[uuid.UUID]*sessionState),
	}
}

// Open loads path into a new session. The caller resolves the path.
func (s *sessionService) Open(path string) (*Session, error) {
	table, err := s.recordRepo.Load(path)
	if err != nil {
		metrics.TableLoadsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to open session: %w", err)
	}
	metrics.TableLoadsTotal.WithLabelValues("ok").Inc()
	return s.register(path, table), nil
}

// OpenStaged loads the file at staged and, only if it parses, moves it to
// dest and opens a session on dest. A staged file that fails to load is left
// where it is and dest is not touched.
func (s *sessionService) OpenStaged(staged, dest string) (*Session, error) {
	table, err := s.recordRepo.Load(staged)
	if err != nil {
		metrics.TableLoadsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to open session: %w", err)
	}
	metrics.TableLoadsTotal.WithLabelValues("ok").Inc()

	if err := os.Rename(staged, dest); err != nil {
		return nil, fmt.Errorf("%w: moving %s into place: %v", repositories.ErrRecordFileWrite, filepath.Base(dest), err)
	}
	return s.register(dest, table), nil
}

func (s *sessionService) register(path string, table *models.RecordTable) *Session {
	st := &sessionState{
		id:       uuid.New(),
		path:     path,
		table:    table,
		openedAt: time.Now(),
	}

	s.mu.Lock()
	s.sessions[st.id] = st
	metrics.SessionsOpen.Set(float64(len(s.sessions)))
	s.mu.Unlock()

	log.Info().Str("session_id", st.id.String()).Str("path", path).Int("rows", len(table.Rows)).Msg("session opened")
	return st.snapshot()
}

func (s *sessionService) lookup(id uuid.UUID) (*sessionState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return st, nil
}

func (s *sessionService) Get(id uuid.UUID) (*Session, error) {
	st, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.snapshot(), nil
}

// AppendRecord encodes the entered dates and appends the record as the last row.
func (s *sessionService) AppendRecord(id uuid.UUID, req AppendRecordRequest) (*Session, error) {
	if req.Status != "" && !models.IsValidReservationStatus(req.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrRecordValidation, req.Status)
	}
	dates, err := ParseDateInputs(req.ReservationDates)
	if err != nil {
		return nil, err
	}
	st, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	record := models.ClientRecord{
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Email:            req.Email,
		Phone:            req.Phone,
		ReservationDates: EncodeDates(dates),
		Status:           req.Status,
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	st.table = Append(st.table, record)
	st.dirty = true
	metrics.RecordsAppended.Inc()
	return st.snapshot(), nil
}

// ReplaceRows swaps in the edited grid rows, keeping the schema.
func (s *sessionService) ReplaceRows(id uuid.UUID, req ReplaceRowsRequest) (*Session, error) {
	st, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	st.table = ReplaceAll(st.table, req.Rows)
	st.dirty = true
	return st.snapshot(), nil
}

// Save writes the table to the session path. On failure the in-memory table
// and dirty flag are left as they were so the save can be retried.
func (s *sessionService) Save(ctx context.Context, id uuid.UUID) (*Session, error) {
	st, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()

	if err := s.recordRepo.Save(st.table, st.path); err != nil {
		metrics.TableSavesTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to save session %s: %w", id, err)
	}
	metrics.TableSavesTotal.WithLabelValues("ok").Inc()
	now := time.Now()
	st.savedAt = &now
	st.dirty = false

	s.archive(ctx, st)
	return st.snapshot(), nil
}

// archive hands the saved bytes to the archiver. Failures are logged only;
// the save itself already succeeded.
func (s *sessionService) archive(ctx context.Context, st *sessionState) {
	if s.archiver == nil {
		return
	}
	data, err := s.recordRepo.Encode(st.table)
	if err != nil {
		metrics.BackupsTotal.WithLabelValues("error").Inc()
		log.Error().Err(err).Str("session_id", st.id.String()).Msg("failed to encode table for backup")
		return
	}
	location, err := s.archiver.Archive(ctx, filepath.Base(st.path), data)
	if err != nil {
		metrics.BackupsTotal.WithLabelValues("error").Inc()
		log.Error().Err(err).Str("session_id", st.id.String()).Msg("backup failed")
		return
	}
	metrics.BackupsTotal.WithLabelValues("ok").Inc()
	log.Info().Str("session_id", st.id.String()).Str("location", location).Msg("backup stored")
}

// Reload discards unsaved edits and reads the session file again.
func (s *sessionService) Reload(id uuid.UUID) (*Session, error) {
	st, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()

	table, err := s.recordRepo.Load(st.path)
	if err != nil {
		metrics.TableLoadsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to reload session %s: %w", id, err)
	}
	metrics.TableLoadsTotal.WithLabelValues("ok").Inc()
	st.table = table
	st.dirty = false
	return st.snapshot(), nil
}

// Export returns the same bytes Save would write for the current table.
func (s *sessionService) Export(id uuid.UUID) ([]byte, error) {
	st, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	return s.recordRepo.Encode(st.table)
}

func (s *sessionService) Search(id uuid.UUID, term string) (*models.RecordTable, error) {
	st, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	return Search(st.table, term), nil
}

func (s *sessionService) Calendar(id uuid.UUID) ([]models.CalendarEntry, error) {
	st, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	entries := Project(st.table)
	metrics.CalendarEntriesProjected.Add(float64(len(entries)))
	return entries, nil
}

// Summary reports table shape; size is that of the serialized table.
func (s *sessionService) Summary(id uuid.UUID) (*models.TableSummary, error) {
	st, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	data, err := s.recordRepo.Encode(st.table)
	if err != nil {
		return nil, fmt.Errorf("failed to encode table for summary: %w", err)
	}
	summary := Summarize(st.table, int64(len(data)))
	return &summary, nil
}

func (s *sessionService) Close(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	metrics.SessionsOpen.Set(float64(len(s.sessions)))
	if st.dirty {
		log.Warn().Str("session_id", id.String()).Str("path", st.path).Msg("session closed with unsaved changes")
	}
	return nil
}
