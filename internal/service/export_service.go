package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/league-sched-api/internal/dto"
	"github.com/noah-isme/league-sched-api/internal/models"
	appErrors "github.com/noah-isme/league-sched-api/pkg/errors"
	"github.com/noah-isme/league-sched-api/pkg/export"
	"github.com/noah-isme/league-sched-api/pkg/jobs"
	"github.com/noah-isme/league-sched-api/pkg/storage"
)

// Export job states.
const (
	ExportStatusQueued    = "queued"
	ExportStatusRunning   = "running"
	ExportStatusCompleted = "completed"
	ExportStatusFailed    = "failed"
)

type exportSlotLister interface {
	ListWindow(ctx context.Context, leagueID, division, fieldKey, dateFrom, dateTo string) ([]models.Slot, error)
}

// exportJob tracks one queued schedule export.
type exportJob struct {
	ID        string
	LeagueID  string
	Division  string
	Format    string
	DateFrom  string
	DateTo    string
	Status    string
	FilePath  string
	Error     string
	CreatedAt time.Time
}

// ExportService renders division schedules to CSV or PDF on a background
// worker queue and serves them through signed URLs.
type ExportService struct {
	slots     exportSlotLister
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	store     *storage.LocalStorage
	signer    *storage.SignedURLSigner
	queue     *jobs.Queue
	validator *validator.Validate
	logger    *zap.Logger

	mu   sync.RWMutex
	jobs map[string]*exportJob
}

// NewExportService wires export dependencies and starts the worker queue.
func NewExportService(
	ctx context.Context,
	slots exportSlotLister,
	store *storage.LocalStorage,
	signer *storage.SignedURLSigner,
	validate *validator.Validate,
	logger *zap.Logger,
	workers, retries int,
) *ExportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &ExportService{
		slots:     slots,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		store:     store,
		signer:    signer,
		validator: validate,
		logger:    logger,
		jobs:      make(map[string]*exportJob),
	}
	s.queue = jobs.NewQueue("schedule-exports", s.handleJob, jobs.QueueConfig{
		Workers:    workers,
		MaxRetries: retries,
		Logger:     logger,
	})
	s.queue.Start(ctx)
	return s
}

// Stop drains the worker queue.
func (s *ExportService) Stop() {
	s.queue.Stop()
}

// Enqueue schedules an export job and returns its id immediately.
func (s *ExportService) Enqueue(ctx context.Context, leagueID string, req dto.ExportRequest) (*dto.ExportJobResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export payload")
	}

	job := &exportJob{
		ID:        uuid.NewString(),
		LeagueID:  leagueID,
		Division:  req.Division,
		Format:    req.Format,
		DateFrom:  req.DateFrom,
		DateTo:    req.DateTo,
		Status:    ExportStatusQueued,
		CreatedAt: time.Now().UTC(),
	}
	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()

	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: "schedule-export", Payload: job.ID}); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue export")
	}
	return &dto.ExportJobResponse{JobID: job.ID, Status: job.Status}, nil
}

// Status reports progress and, once completed, a signed download URL.
func (s *ExportService) Status(jobID string) (*dto.ExportStatusResponse, error) {
	s.mu.RLock()
	job, ok := s.jobs[jobID]
	s.mu.RUnlock()
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export job not found")
	}

	resp := &dto.ExportStatusResponse{JobID: job.ID, Status: job.Status, Error: job.Error}
	if job.Status == ExportStatusCompleted && s.signer != nil {
		token, expires, err := s.signer.Generate(job.ID, job.FilePath)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download url")
		}
		resp.DownloadURL = "/api/v1/exports/" + job.ID + "/download?sig=" + token
		resp.ExpiresAt = expires.UTC().Format(time.RFC3339)
	}
	return resp, nil
}

// Open validates the signed token and returns the stored file path.
func (s *ExportService) Open(jobID, token string) (string, error) {
	tokenJob, relPath, _, err := s.signer.Parse(token, false)
	if err != nil || tokenJob != jobID {
		return "", appErrors.Clone(appErrors.ErrForbidden, "invalid or expired download token")
	}
	return relPath, nil
}

// FileStore exposes the backing storage for handlers streaming downloads.
func (s *ExportService) FileStore() *storage.LocalStorage {
	return s.store
}

func (s *ExportService) handleJob(ctx context.Context, job jobs.Job) error {
	jobID, _ := job.Payload.(string)
	s.mu.Lock()
	record, ok := s.jobs[jobID]
	if !ok {
		s.mu.Unlock()
		return nil
	}
	record.Status = ExportStatusRunning
	s.mu.Unlock()

	err := s.render(ctx, record)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		record.Status = ExportStatusFailed
		record.Error = err.Error()
		return err
	}
	record.Status = ExportStatusCompleted
	record.Error = ""
	return nil
}

func (s *ExportService) render(ctx context.Context, job *exportJob) error {
	slots, err := s.slots.ListWindow(ctx, job.LeagueID, job.Division, "", job.DateFrom, job.DateTo)
	if err != nil {
		return fmt.Errorf("load slots for export: %w", err)
	}

	dataset := export.Dataset{
		Headers: []string{"Date", "Start", "End", "Field", "Home", "Away", "Status", "Type"},
	}
	for _, slot := range slots {
		if slot.IsAvailability {
			continue
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Date":   slot.GameDate,
			"Start":  slot.StartTime,
			"End":    slot.EndTime,
			"Field":  slot.FieldKey,
			"Home":   slot.HomeTeamID,
			"Away":   slot.AwayTeamID,
			"Status": string(slot.Status),
			"Type":   slot.GameType,
		})
	}

	var payload []byte
	filename := fmt.Sprintf("%s/%s-%s.%s", job.LeagueID, job.Division, job.ID, job.Format)
	switch job.Format {
	case "pdf":
		payload, err = s.pdf.Render(dataset, fmt.Sprintf("%s %s schedule", job.LeagueID, job.Division))
	default:
		payload, err = s.csv.Render(dataset)
	}
	if err != nil {
		return fmt.Errorf("render export: %w", err)
	}

	if _, err := s.store.Save(filename, payload); err != nil {
		return fmt.Errorf("store export: %w", err)
	}
	job.FilePath = filename
	s.logger.Info("schedule export rendered",
		zap.String("job_id", job.ID),
		zap.String("division", job.Division),
		zap.String("format", job.Format),
		zap.Int("rows", len(dataset.Rows)))
	return nil
}
