package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/fintrk/fin_tracker_app/internal/apperrors"
	"github.com/fintrk/fin_tracker_app/internal/core/domain"
	portsrepo "github.com/fintrk/fin_tracker_app/internal/core/ports/repositories"
	portssvc "github.com/fintrk/fin_tracker_app/internal/core/ports/services"
	"github.com/fintrk/fin_tracker_app/internal/core/services"
)

type ReconciliationServiceTestSuite struct {
	suite.Suite
	mockBudgetRepo *MockBudgetRepository
	mockTxnRepo    *MockTransactionRepository
	mockUserRepo   *MockUserRepository
	mockNotifier   *MockNotifier
	svc            portssvc.ReconcilerSvc

	userID string
	owner  *domain.User
	budget *domain.Budget
}

func (suite *ReconciliationServiceTestSuite) SetupTest() {
	suite.mockBudgetRepo = new(MockBudgetRepository)
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockNotifier = new(MockNotifier)

	decider := services.NewNotificationService(suite.mockNotifier)
	suite.svc = services.NewReconciliationService(suite.mockBudgetRepo, suite.mockTxnRepo, suite.mockUserRepo, decider)

	suite.userID = uuid.NewString()
	suite.owner = &domain.User{
		UserID: suite.userID,
		Email:  "owner@example.com",
	}
	suite.budget = &domain.Budget{
		BudgetID:  uuid.NewString(),
		UserID:    suite.userID,
		StartDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		Body: domain.BudgetBody{
			domain.Expense: {
				"food": &domain.CategoryEntry{
					Forecast: decimal.NewFromInt(1000),
					Actual:   decimal.NewFromInt(100),
				},
			},
		},
	}
}

func (suite *ReconciliationServiceTestSuite) snapshot(amount int64, occurredAt time.Time) domain.Transaction {
	return domain.Transaction{
		TransactionID: uuid.NewString(),
		UserID:        suite.userID,
		Amount:        decimal.NewFromInt(amount),
		Type:          domain.Expense,
		Category:      "food",
		OccurredAt:    occurredAt,
	}
}

func (suite *ReconciliationServiceTestSuite) TestApplyDeltaAddsToActual() {
	occurredAt := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	suite.mockBudgetRepo.On("FindBudgetForDateForUpdate", mock.Anything, nil, suite.userID, occurredAt).
		Return(suite.budget, nil).Once()
	suite.mockUserRepo.On("FindUserByID", mock.Anything, suite.userID).Return(suite.owner, nil).Once()
	suite.mockBudgetRepo.On("UpdateBudgetBodyInTx", mock.Anything, nil, suite.budget.BudgetID, suite.budget.Body, mock.Anything).
		Return(nil).Once()

	notifications, err := suite.svc.ApplyDelta(context.Background(), nil, suite.userID, suite.snapshot(200, occurredAt), portssvc.OpAdd)

	suite.NoError(err)
	suite.Empty(notifications)
	entry := suite.budget.Body.EntryFor(domain.Expense, "food")
	suite.True(entry.Actual.Equal(decimal.NewFromInt(300)))
	suite.mockBudgetRepo.AssertExpectations(suite.T())
}

func (suite *ReconciliationServiceTestSuite) TestApplyDeltaSubtractReversesAdd() {
	occurredAt := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	suite.mockBudgetRepo.On("FindBudgetForDateForUpdate", mock.Anything, nil, suite.userID, occurredAt).
		Return(suite.budget, nil).Twice()
	suite.mockUserRepo.On("FindUserByID", mock.Anything, suite.userID).Return(suite.owner, nil).Twice()
	suite.mockBudgetRepo.On("UpdateBudgetBodyInTx", mock.Anything, nil, suite.budget.BudgetID, suite.budget.Body, mock.Anything).
		Return(nil).Twice()

	snap := suite.snapshot(250, occurredAt)
	_, err := suite.svc.ApplyDelta(context.Background(), nil, suite.userID, snap, portssvc.OpAdd)
	suite.NoError(err)
	_, err = suite.svc.ApplyDelta(context.Background(), nil, suite.userID, snap, portssvc.OpSubtract)
	suite.NoError(err)

	entry := suite.budget.Body.EntryFor(domain.Expense, "food")
	suite.True(entry.Actual.Equal(decimal.NewFromInt(100)), "add then subtract must restore the original actual")
}

func (suite *ReconciliationServiceTestSuite) TestApplyDeltaOutsideAnyPeriodIsNoOp() {
	occurredAt := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	suite.mockBudgetRepo.On("FindBudgetForDateForUpdate", mock.Anything, nil, suite.userID, occurredAt).
		Return(nil, apperrors.ErrNotFound).Once()

	notifications, err := suite.svc.ApplyDelta(context.Background(), nil, suite.userID, suite.snapshot(500, occurredAt), portssvc.OpAdd)

	suite.NoError(err)
	suite.Nil(notifications)
	suite.mockBudgetRepo.AssertNotCalled(suite.T(), "UpdateBudgetBodyInTx")
	suite.mockUserRepo.AssertNotCalled(suite.T(), "FindUserByID")
}

func (suite *ReconciliationServiceTestSuite) TestApplyDeltaCreatesEntryForUnbudgetedCategory() {
	occurredAt := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)
	suite.mockBudgetRepo.On("FindBudgetForDateForUpdate", mock.Anything, nil, suite.userID, occurredAt).
		Return(suite.budget, nil).Once()
	suite.mockUserRepo.On("FindUserByID", mock.Anything, suite.userID).Return(suite.owner, nil).Once()
	suite.mockBudgetRepo.On("UpdateBudgetBodyInTx", mock.Anything, nil, suite.budget.BudgetID, suite.budget.Body, mock.Anything).
		Return(nil).Once()

	snap := suite.snapshot(75, occurredAt)
	snap.Category = "gadgets"
	notifications, err := suite.svc.ApplyDelta(context.Background(), nil, suite.userID, snap, portssvc.OpAdd)

	suite.NoError(err)
	// A zero-forecast entry was created, so the missing-budget warning fires.
	suite.Len(notifications, 1)
	suite.Equal(domain.NotifyZeroBudget, notifications[0].Kind)
	suite.Equal("owner@example.com", notifications[0].Recipient)

	entry := suite.budget.Body.EntryFor(domain.Expense, "gadgets")
	suite.NotNil(entry)
	suite.True(entry.Actual.Equal(decimal.NewFromInt(75)))
	suite.True(entry.Forecast.IsZero())
}

func (suite *ReconciliationServiceTestSuite) TestApplyDeltaReturnsThresholdNotificationWithoutDispatching() {
	occurredAt := time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)
	suite.mockBudgetRepo.On("FindBudgetForDateForUpdate", mock.Anything, nil, suite.userID, occurredAt).
		Return(suite.budget, nil).Once()
	suite.mockUserRepo.On("FindUserByID", mock.Anything, suite.userID).Return(suite.owner, nil).Once()
	suite.mockBudgetRepo.On("UpdateBudgetBodyInTx", mock.Anything, nil, suite.budget.BudgetID, suite.budget.Body, mock.Anything).
		Return(nil).Once()

	// 100 + 800 = 900 = 90% of the 1000 forecast.
	notifications, err := suite.svc.ApplyDelta(context.Background(), nil, suite.userID, suite.snapshot(800, occurredAt), portssvc.OpAdd)

	suite.NoError(err)
	suite.Len(notifications, 1)
	suite.Equal(domain.NotifyLimitBudget, notifications[0].Kind)

	entry := suite.budget.Body.EntryFor(domain.Expense, "food")
	suite.True(entry.IsNotified, "flag must be set before the budget body is persisted")

	// Delivery is the caller's job, after commit.
	suite.mockNotifier.AssertNotCalled(suite.T(), "Deliver")
}

func (suite *ReconciliationServiceTestSuite) TestApplyDeltaRejectsUnknownType() {
	snap := suite.snapshot(10, time.Now().UTC())
	snap.Type = "transfer"

	_, err := suite.svc.ApplyDelta(context.Background(), nil, suite.userID, snap, portssvc.OpAdd)

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ReconciliationServiceTestSuite) TestRecomputeReplacesActualsFromLedger() {
	suite.budget.Body[domain.Expense]["rent"] = &domain.CategoryEntry{
		Forecast: decimal.NewFromInt(500),
		Actual:   decimal.NewFromInt(999), // drifted value, must be overwritten
	}

	suite.mockBudgetRepo.On("Begin", mock.Anything).Return(nil, nil).Once()
	suite.mockBudgetRepo.On("Rollback", mock.Anything, nil).Return(nil).Once()
	suite.mockBudgetRepo.On("FindBudgetByIDForUpdate", mock.Anything, nil, suite.budget.BudgetID).
		Return(suite.budget, nil).Once()
	suite.mockTxnRepo.On("SumAmountsByCategoryInTx", mock.Anything, nil, suite.userID, suite.budget.StartDate, suite.budget.EndDate).
		Return(map[portsrepo.TypeCategory]decimal.Decimal{
			{Type: domain.Expense, Category: "food"}: decimal.NewFromInt(450),
		}, nil).Once()
	suite.mockUserRepo.On("FindUserByID", mock.Anything, suite.userID).Return(suite.owner, nil).Once()
	suite.mockBudgetRepo.On("UpdateBudgetBodyInTx", mock.Anything, nil, suite.budget.BudgetID, suite.budget.Body, mock.Anything).
		Return(nil).Once()
	suite.mockBudgetRepo.On("Commit", mock.Anything, nil).Return(nil).Once()

	err := suite.svc.Recompute(context.Background(), suite.budget.BudgetID)

	suite.NoError(err)
	suite.True(suite.budget.Body.EntryFor(domain.Expense, "food").Actual.Equal(decimal.NewFromInt(450)))
	// No ledger rows for rent: its actual resets to zero instead of keeping drift.
	suite.True(suite.budget.Body.EntryFor(domain.Expense, "rent").Actual.IsZero())
	suite.mockBudgetRepo.AssertExpectations(suite.T())
}

func (suite *ReconciliationServiceTestSuite) TestRecomputeDispatchesAfterCommit() {
	// Ledger total sits above 90% of the food forecast, so the one-time
	// warning fires and must be delivered.
	suite.mockBudgetRepo.On("Begin", mock.Anything).Return(nil, nil).Once()
	suite.mockBudgetRepo.On("Rollback", mock.Anything, nil).Return(nil).Once()
	suite.mockBudgetRepo.On("FindBudgetByIDForUpdate", mock.Anything, nil, suite.budget.BudgetID).
		Return(suite.budget, nil).Once()
	suite.mockTxnRepo.On("SumAmountsByCategoryInTx", mock.Anything, nil, suite.userID, suite.budget.StartDate, suite.budget.EndDate).
		Return(map[portsrepo.TypeCategory]decimal.Decimal{
			{Type: domain.Expense, Category: "food"}: decimal.NewFromInt(950),
		}, nil).Once()
	suite.mockUserRepo.On("FindUserByID", mock.Anything, suite.userID).Return(suite.owner, nil).Once()
	suite.mockBudgetRepo.On("UpdateBudgetBodyInTx", mock.Anything, nil, suite.budget.BudgetID, suite.budget.Body, mock.Anything).
		Return(nil).Once()
	suite.mockBudgetRepo.On("Commit", mock.Anything, nil).Return(nil).Once()
	suite.mockNotifier.On("Deliver", mock.Anything, mock.MatchedBy(func(n domain.Notification) bool {
		return n.Kind == domain.NotifyLimitBudget && n.Recipient == "owner@example.com"
	})).Return(nil).Once()

	err := suite.svc.Recompute(context.Background(), suite.budget.BudgetID)

	suite.NoError(err)
	suite.True(suite.budget.Body.EntryFor(domain.Expense, "food").IsNotified)
	suite.mockNotifier.AssertExpectations(suite.T())
}

func (suite *ReconciliationServiceTestSuite) TestRecomputeIsIdempotentForNotifications() {
	sums := map[portsrepo.TypeCategory]decimal.Decimal{
		{Type: domain.Expense, Category: "food"}: decimal.NewFromInt(950),
	}

	suite.mockBudgetRepo.On("Begin", mock.Anything).Return(nil, nil).Twice()
	suite.mockBudgetRepo.On("Rollback", mock.Anything, nil).Return(nil).Twice()
	suite.mockBudgetRepo.On("FindBudgetByIDForUpdate", mock.Anything, nil, suite.budget.BudgetID).
		Return(suite.budget, nil).Twice()
	suite.mockTxnRepo.On("SumAmountsByCategoryInTx", mock.Anything, nil, suite.userID, suite.budget.StartDate, suite.budget.EndDate).
		Return(sums, nil).Twice()
	suite.mockUserRepo.On("FindUserByID", mock.Anything, suite.userID).Return(suite.owner, nil).Twice()
	suite.mockBudgetRepo.On("UpdateBudgetBodyInTx", mock.Anything, nil, suite.budget.BudgetID, suite.budget.Body, mock.Anything).
		Return(nil).Twice()
	suite.mockBudgetRepo.On("Commit", mock.Anything, nil).Return(nil).Twice()
	// Exactly one delivery across both runs.
	suite.mockNotifier.On("Deliver", mock.Anything, mock.Anything).Return(nil).Once()

	suite.NoError(suite.svc.Recompute(context.Background(), suite.budget.BudgetID))
	suite.NoError(suite.svc.Recompute(context.Background(), suite.budget.BudgetID))

	suite.mockNotifier.AssertExpectations(suite.T())
}

func TestReconciliationService(t *testing.T) {
	suite.Run(t, new(ReconciliationServiceTestSuite))
}
