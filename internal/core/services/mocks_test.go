package services_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/fintrk/fin_tracker_app/internal/core/domain"
	portsrepo "github.com/fintrk/fin_tracker_app/internal/core/ports/repositories"
	portssvc "github.com/fintrk/fin_tracker_app/internal/core/ports/services"
	"github.com/fintrk/fin_tracker_app/internal/dto"
)

// --- Mock TransactionRepository ---

type MockTransactionRepository struct {
	mock.Mock
}

var _ portsrepo.TransactionRepositoryWithTx = (*MockTransactionRepository)(nil)

func (m *MockTransactionRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	tx, _ := args.Get(0).(pgx.Tx)
	return tx, args.Error(1)
}

func (m *MockTransactionRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	return m.Called(ctx, tx).Error(0)
}

func (m *MockTransactionRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	return m.Called(ctx, tx).Error(0)
}

func (m *MockTransactionRepository) SaveTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	return m.Called(ctx, tx, txn).Error(0)
}

func (m *MockTransactionRepository) UpdateTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	return m.Called(ctx, tx, txn).Error(0)
}

func (m *MockTransactionRepository) DeleteTransactionInTx(ctx context.Context, tx pgx.Tx, transactionID string) error {
	return m.Called(ctx, tx, transactionID).Error(0)
}

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactionsByUser(ctx context.Context, userID string, from, to *time.Time) ([]domain.Transaction, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) SumAmountsByCategoryInTx(ctx context.Context, tx pgx.Tx, userID string, from, to time.Time) (map[portsrepo.TypeCategory]decimal.Decimal, error) {
	args := m.Called(ctx, tx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[portsrepo.TypeCategory]decimal.Decimal), args.Error(1)
}

// --- Mock BudgetRepository ---

type MockBudgetRepository struct {
	mock.Mock
}

var _ portsrepo.BudgetRepositoryWithTx = (*MockBudgetRepository)(nil)

func (m *MockBudgetRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	tx, _ := args.Get(0).(pgx.Tx)
	return tx, args.Error(1)
}

func (m *MockBudgetRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	return m.Called(ctx, tx).Error(0)
}

func (m *MockBudgetRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	return m.Called(ctx, tx).Error(0)
}

func (m *MockBudgetRepository) FindBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error) {
	args := m.Called(ctx, budgetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Budget), args.Error(1)
}

func (m *MockBudgetRepository) ListBudgetsByUser(ctx context.Context, userID string) ([]domain.Budget, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Budget), args.Error(1)
}

func (m *MockBudgetRepository) FindLatestBudgetByUser(ctx context.Context, userID string) (*domain.Budget, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Budget), args.Error(1)
}

func (m *MockBudgetRepository) FindBudgetForDateForUpdate(ctx context.Context, tx pgx.Tx, userID string, at time.Time) (*domain.Budget, error) {
	args := m.Called(ctx, tx, userID, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Budget), args.Error(1)
}

func (m *MockBudgetRepository) FindBudgetByIDForUpdate(ctx context.Context, tx pgx.Tx, budgetID string) (*domain.Budget, error) {
	args := m.Called(ctx, tx, budgetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Budget), args.Error(1)
}

func (m *MockBudgetRepository) SaveBudget(ctx context.Context, budget domain.Budget) error {
	return m.Called(ctx, budget).Error(0)
}

func (m *MockBudgetRepository) ReplaceBudget(ctx context.Context, budget domain.Budget) error {
	return m.Called(ctx, budget).Error(0)
}

func (m *MockBudgetRepository) UpdateBudgetBodyInTx(ctx context.Context, tx pgx.Tx, budgetID string, body domain.BudgetBody, modifiedAt time.Time) error {
	return m.Called(ctx, tx, budgetID, body, modifiedAt).Error(0)
}

func (m *MockBudgetRepository) DeleteBudget(ctx context.Context, budgetID string) error {
	return m.Called(ctx, budgetID).Error(0)
}

// --- Mock UserRepository ---

type MockUserRepository struct {
	mock.Mock
}

var _ portsrepo.UserRepositoryFacade = (*MockUserRepository)(nil)

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	return m.Called(ctx, user).Error(0)
}

// --- Mock ReportResultRepository ---

type MockReportRepository struct {
	mock.Mock
}

var _ portsrepo.ReportResultRepositoryFacade = (*MockReportRepository)(nil)

func (m *MockReportRepository) FindReportResultByTaskID(ctx context.Context, taskID string) (*domain.ReportResult, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReportResult), args.Error(1)
}

func (m *MockReportRepository) SaveReportResult(ctx context.Context, result domain.ReportResult) error {
	return m.Called(ctx, result).Error(0)
}

func (m *MockReportRepository) UpdateReportResult(ctx context.Context, result domain.ReportResult) error {
	return m.Called(ctx, result).Error(0)
}

// --- Mock Notifier ---

type MockNotifier struct {
	mock.Mock
}

var _ portssvc.Notifier = (*MockNotifier)(nil)

func (m *MockNotifier) Deliver(ctx context.Context, n domain.Notification) error {
	return m.Called(ctx, n).Error(0)
}

// --- Mock JobEnqueuer ---

type MockJobEnqueuer struct {
	mock.Mock
}

var _ portssvc.JobEnqueuer = (*MockJobEnqueuer)(nil)

func (m *MockJobEnqueuer) EnqueueBudgetRecheck(ctx context.Context, budgetID string) error {
	return m.Called(ctx, budgetID).Error(0)
}

func (m *MockJobEnqueuer) EnqueueReport(ctx context.Context, job dto.ReportJob) error {
	return m.Called(ctx, job).Error(0)
}

// --- Mock Reconciler ---

type MockReconciler struct {
	mock.Mock
}

var _ portssvc.ReconcilerSvc = (*MockReconciler)(nil)

func (m *MockReconciler) ApplyDelta(ctx context.Context, tx pgx.Tx, userID string, snapshot domain.Transaction, op portssvc.DeltaOp) ([]domain.Notification, error) {
	args := m.Called(ctx, tx, userID, snapshot, op)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Notification), args.Error(1)
}

func (m *MockReconciler) Recompute(ctx context.Context, budgetID string) error {
	return m.Called(ctx, budgetID).Error(0)
}

// --- Mock NotificationService ---

type MockNotificationService struct {
	mock.Mock
}

var _ portssvc.NotificationSvcFacade = (*MockNotificationService)(nil)

func (m *MockNotificationService) EvaluateEntry(recipient string, txnType domain.TransactionType, category string, entry *domain.CategoryEntry) []domain.Notification {
	args := m.Called(recipient, txnType, category, entry)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]domain.Notification)
}

func (m *MockNotificationService) Dispatch(ctx context.Context, notifications []domain.Notification) {
	m.Called(ctx, notifications)
}
