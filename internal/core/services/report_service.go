package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/fintrk/fin_tracker_app/internal/apperrors"
	"github.com/fintrk/fin_tracker_app/internal/core/domain"
	portsrepo "github.com/fintrk/fin_tracker_app/internal/core/ports/repositories"
	portssvc "github.com/fintrk/fin_tracker_app/internal/core/ports/services"
	"github.com/fintrk/fin_tracker_app/internal/dto"
	"github.com/fintrk/fin_tracker_app/internal/middleware"
)

var reportHeader = []string{"Name", "Surname", "Email", "Amount", "Type", "Category", "Date"}

// reportService produces CSV transaction reports. Requests only enqueue a
// job; the worker calls RunReport, which records its outcome in the report
// result table instead of failing the job.
type reportService struct {
	reportRepo portsrepo.ReportResultRepositoryFacade
	txnRepo    portsrepo.TransactionRepositoryFacade
	userRepo   portsrepo.UserRepositoryFacade
	jobs       portssvc.JobEnqueuer
	notifier   portssvc.Notifier
	reportsDir string
}

// NewReportService creates a new ReportService.
func NewReportService(
	reportRepo portsrepo.ReportResultRepositoryFacade,
	txnRepo portsrepo.TransactionRepositoryFacade,
	userRepo portsrepo.UserRepositoryFacade,
	jobs portssvc.JobEnqueuer,
	notifier portssvc.Notifier,
	reportsDir string,
) portssvc.ReportSvcFacade {
	return &reportService{
		reportRepo: reportRepo,
		txnRepo:    txnRepo,
		userRepo:   userRepo,
		jobs:       jobs,
		notifier:   notifier,
		reportsDir: reportsDir,
	}
}

var _ portssvc.ReportSvcFacade = (*reportService)(nil)

// RequestReport enqueues a report job and returns its task ID immediately.
// The result record appears once the worker picks the job up.
func (s *reportService) RequestReport(ctx context.Context, userID string, req dto.CreateReportRequest) (string, error) {
	if (req.StartDate == nil) != (req.EndDate == nil) {
		return "", apperrors.NewValidationError("startDate", "startDate and endDate must be provided together")
	}

	taskID := uuid.NewString()
	job := dto.ReportJob{
		TaskID:    taskID,
		UserID:    userID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		SendEmail: req.SendEmail,
	}
	if err := s.jobs.EnqueueReport(ctx, job); err != nil {
		return "", fmt.Errorf("failed to enqueue report job: %w", err)
	}

	middleware.GetLoggerFromCtx(ctx).Info("Report requested", slog.String("task_id", taskID))
	return taskID, nil
}

// GetReportByTaskID retrieves the record for a previously enqueued report.
func (s *reportService) GetReportByTaskID(ctx context.Context, userID string, taskID string) (*domain.ReportResult, error) {
	record, err := s.reportRepo.FindReportResultByTaskID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if record.UserID != userID {
		return nil, apperrors.ErrNotFound
	}
	return record, nil
}

// RunReport executes one report task. A result record is created up front
// with status in_progress and finalized as completed or error; failures never
// propagate to the job runner.
func (s *reportService) RunReport(ctx context.Context, task dto.ReportJob) {
	logger := middleware.GetLoggerFromCtx(ctx).With(slog.String("task_id", task.TaskID))

	record := domain.ReportResult{
		ReportID:  uuid.NewString(),
		UserID:    task.UserID,
		TaskID:    task.TaskID,
		SendEmail: task.SendEmail,
		Status:    domain.ReportInProgress,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.reportRepo.SaveReportResult(ctx, record); err != nil {
		logger.Error("Failed to create report record", slog.String("error", err.Error()))
		return
	}

	path, err := s.execute(ctx, task)
	if err != nil {
		logger.Error("Report generation failed", slog.String("error", err.Error()))
		record.Status = domain.ReportError
		msg := err.Error()
		record.ErrorMessage = &msg
	} else {
		record.Status = domain.ReportCompleted
		record.ReportPath = path
	}

	if err := s.reportRepo.UpdateReportResult(ctx, record); err != nil {
		logger.Error("Failed to finalize report record", slog.String("error", err.Error()))
		return
	}
	logger.Info("Report task finished", slog.String("status", string(record.Status)))
}

// execute renders the CSV and delivers it, returning the file path when the
// report is written to disk.
func (s *reportService) execute(ctx context.Context, task dto.ReportJob) (*string, error) {
	user, err := s.userRepo.FindUserByID(ctx, task.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve report owner: %w", err)
	}

	from, to, err := reportRange(task)
	if err != nil {
		return nil, err
	}

	transactions, err := s.txnRepo.ListTransactionsByUser(ctx, task.UserID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	data, err := renderCSV(user, transactions)
	if err != nil {
		return nil, err
	}
	fileName := fmt.Sprintf("transactions_%s.csv", task.TaskID)

	if task.SendEmail {
		notification := domain.Notification{
			Kind:           domain.NotifyReport,
			Subject:        "Your transaction report",
			Body:           fmt.Sprintf("Hi %s, the transaction report you requested is attached.", user.FirstName),
			Recipient:      user.Email,
			Attachment:     data,
			AttachmentName: fileName,
		}
		if err := s.notifier.Deliver(ctx, notification); err != nil {
			return nil, fmt.Errorf("failed to email report: %w", err)
		}
		return nil, nil
	}

	if err := os.MkdirAll(s.reportsDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create reports directory: %w", err)
	}
	path := filepath.Join(s.reportsDir, fileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write report file: %w", err)
	}
	return &path, nil
}

// reportRange converts the job's calendar-day bounds to a half-open instant
// range. The end day is included by pushing the upper bound to the next day.
func reportRange(task dto.ReportJob) (*time.Time, *time.Time, error) {
	if task.StartDate == nil || task.EndDate == nil {
		return nil, nil, nil
	}
	from, err := time.ParseInLocation("2006-01-02", *task.StartDate, time.UTC)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid start date %q: %w", *task.StartDate, err)
	}
	endDay, err := time.ParseInLocation("2006-01-02", *task.EndDate, time.UTC)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid end date %q: %w", *task.EndDate, err)
	}
	to := endDay.AddDate(0, 0, 1)
	return &from, &to, nil
}

func renderCSV(user *domain.User, transactions []domain.Transaction) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(reportHeader); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	for _, txn := range transactions {
		row := []string{
			user.FirstName,
			user.LastName,
			user.Email,
			txn.Amount.String(),
			txn.Type.DisplayName(),
			txn.Category,
			txn.OccurredAt.Format("2006-01-02"),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to render report: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	return buf.Bytes(), nil
}
