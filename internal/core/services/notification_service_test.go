package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/fintrk/fin_tracker_app/internal/core/domain"
	portssvc "github.com/fintrk/fin_tracker_app/internal/core/ports/services"
	"github.com/fintrk/fin_tracker_app/internal/core/services"
)

type NotificationServiceTestSuite struct {
	suite.Suite
	mockNotifier *MockNotifier
	svc          portssvc.NotificationSvcFacade
}

func (suite *NotificationServiceTestSuite) SetupTest() {
	suite.mockNotifier = new(MockNotifier)
	suite.svc = services.NewNotificationService(suite.mockNotifier)
}

func (suite *NotificationServiceTestSuite) TestZeroForecastWarnsOnEveryPass() {
	entry := &domain.CategoryEntry{
		Forecast: decimal.Zero,
		Actual:   decimal.NewFromInt(300),
	}

	for i := 0; i < 3; i++ {
		out := suite.svc.EvaluateEntry("user@example.com", domain.Expense, "food", entry)
		suite.Len(out, 1)
		suite.Equal(domain.NotifyZeroBudget, out[0].Kind)
		suite.Equal("user@example.com", out[0].Recipient)
		suite.Contains(out[0].Body, "food")
	}

	// The zero-forecast warning never touches the one-time flag.
	suite.False(entry.IsNotified)
	suite.Nil(entry.DateNotified)
}

func (suite *NotificationServiceTestSuite) TestLimitWarningFiresExactlyAtThreshold() {
	entry := &domain.CategoryEntry{
		Forecast: decimal.NewFromInt(1000),
		Actual:   decimal.NewFromInt(899),
	}

	// Just below 90%: silent.
	out := suite.svc.EvaluateEntry("user@example.com", domain.Expense, "rent", entry)
	suite.Empty(out)
	suite.False(entry.IsNotified)

	// At exactly 90%: one warning, flag flips, date recorded.
	entry.Actual = decimal.NewFromInt(900)
	out = suite.svc.EvaluateEntry("user@example.com", domain.Expense, "rent", entry)
	suite.Len(out, 1)
	suite.Equal(domain.NotifyLimitBudget, out[0].Kind)
	suite.True(entry.IsNotified)
	suite.NotNil(entry.DateNotified)

	// Further growth past the threshold stays silent.
	entry.Actual = decimal.NewFromInt(950)
	out = suite.svc.EvaluateEntry("user@example.com", domain.Expense, "rent", entry)
	suite.Empty(out)
}

func (suite *NotificationServiceTestSuite) TestNotifiedFlagIsOneWay() {
	entry := &domain.CategoryEntry{
		Forecast:   decimal.NewFromInt(1000),
		Actual:     decimal.NewFromInt(950),
		IsNotified: true,
	}

	// Actual drops below the threshold and crosses it again: the flag was
	// already set, so nothing re-arms.
	for _, actual := range []int64{500, 950, 1200} {
		entry.Actual = decimal.NewFromInt(actual)
		out := suite.svc.EvaluateEntry("user@example.com", domain.Expense, "travel", entry)
		suite.Empty(out)
		suite.True(entry.IsNotified)
	}
}

func (suite *NotificationServiceTestSuite) TestIncomeEntriesUseSameRules() {
	entry := &domain.CategoryEntry{
		Forecast: decimal.NewFromInt(2000),
		Actual:   decimal.NewFromInt(1800),
	}

	out := suite.svc.EvaluateEntry("user@example.com", domain.Income, "salary", entry)
	suite.Len(out, 1)
	suite.Equal(domain.NotifyLimitBudget, out[0].Kind)
	suite.Contains(out[0].Body, "salary")
	suite.Contains(out[0].Body, "income")
}

func (suite *NotificationServiceTestSuite) TestDispatchSwallowsDeliveryErrors() {
	notifications := []domain.Notification{
		{Kind: domain.NotifyZeroBudget, Recipient: "a@example.com"},
		{Kind: domain.NotifyLimitBudget, Recipient: "b@example.com"},
	}

	suite.mockNotifier.On("Deliver", mock.Anything, notifications[0]).Return(errors.New("smtp down")).Once()
	suite.mockNotifier.On("Deliver", mock.Anything, notifications[1]).Return(nil).Once()

	// Must not panic or abort after the first failure.
	suite.svc.Dispatch(context.Background(), notifications)

	suite.mockNotifier.AssertExpectations(suite.T())
}

func TestNotificationService(t *testing.T) {
	suite.Run(t, new(NotificationServiceTestSuite))
}
