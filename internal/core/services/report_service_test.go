package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/fintrk/fin_tracker_app/internal/apperrors"
	"github.com/fintrk/fin_tracker_app/internal/core/domain"
	portssvc "github.com/fintrk/fin_tracker_app/internal/core/ports/services"
	"github.com/fintrk/fin_tracker_app/internal/core/services"
	"github.com/fintrk/fin_tracker_app/internal/dto"
)

type ReportServiceTestSuite struct {
	suite.Suite
	mockReportRepo *MockReportRepository
	mockTxnRepo    *MockTransactionRepository
	mockUserRepo   *MockUserRepository
	mockJobs       *MockJobEnqueuer
	mockNotifier   *MockNotifier
	svc            portssvc.ReportSvcFacade

	userID string
	user   *domain.User
}

func (suite *ReportServiceTestSuite) SetupTest() {
	suite.mockReportRepo = new(MockReportRepository)
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockJobs = new(MockJobEnqueuer)
	suite.mockNotifier = new(MockNotifier)
	suite.svc = services.NewReportService(
		suite.mockReportRepo, suite.mockTxnRepo, suite.mockUserRepo,
		suite.mockJobs, suite.mockNotifier, suite.T().TempDir())

	suite.userID = uuid.NewString()
	suite.user = &domain.User{
		UserID:    suite.userID,
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
	}
}

func (suite *ReportServiceTestSuite) TestRequestReportEnqueuesJob() {
	suite.mockJobs.On("EnqueueReport", mock.Anything, mock.MatchedBy(func(job dto.ReportJob) bool {
		return job.UserID == suite.userID && job.TaskID != "" && job.SendEmail
	})).Return(nil).Once()

	taskID, err := suite.svc.RequestReport(context.Background(), suite.userID, dto.CreateReportRequest{SendEmail: true})

	suite.NoError(err)
	suite.NotEmpty(taskID)
	suite.mockJobs.AssertExpectations(suite.T())
}

func (suite *ReportServiceTestSuite) TestRequestReportRejectsHalfOpenRange() {
	start := "2025-03-01"

	_, err := suite.svc.RequestReport(context.Background(), suite.userID, dto.CreateReportRequest{StartDate: &start})

	var vErr *apperrors.ValidationError
	suite.ErrorAs(err, &vErr)
	suite.mockJobs.AssertNotCalled(suite.T(), "EnqueueReport")
}

func (suite *ReportServiceTestSuite) TestGetReportHidesForeignRecord() {
	foreign := &domain.ReportResult{
		ReportID: uuid.NewString(),
		UserID:   uuid.NewString(),
		TaskID:   uuid.NewString(),
	}
	suite.mockReportRepo.On("FindReportResultByTaskID", mock.Anything, foreign.TaskID).Return(foreign, nil).Once()

	_, err := suite.svc.GetReportByTaskID(context.Background(), suite.userID, foreign.TaskID)

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *ReportServiceTestSuite) TestRunReportEmailsAttachment() {
	task := dto.ReportJob{TaskID: uuid.NewString(), UserID: suite.userID, SendEmail: true}
	transactions := []domain.Transaction{{
		TransactionID: uuid.NewString(),
		UserID:        suite.userID,
		Amount:        decimal.NewFromInt(42),
		Type:          domain.Expense,
		Category:      "food",
		OccurredAt:    time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC),
	}}

	suite.mockReportRepo.On("SaveReportResult", mock.Anything, mock.MatchedBy(func(r domain.ReportResult) bool {
		return r.TaskID == task.TaskID && r.Status == domain.ReportInProgress
	})).Return(nil).Once()
	suite.mockUserRepo.On("FindUserByID", mock.Anything, suite.userID).Return(suite.user, nil).Once()
	suite.mockTxnRepo.On("ListTransactionsByUser", mock.Anything, suite.userID, (*time.Time)(nil), (*time.Time)(nil)).
		Return(transactions, nil).Once()
	suite.mockNotifier.On("Deliver", mock.Anything, mock.MatchedBy(func(n domain.Notification) bool {
		body := string(n.Attachment)
		return n.Kind == domain.NotifyReport &&
			n.Recipient == "ada@example.com" &&
			strings.HasPrefix(body, "Name,Surname,Email,Amount,Type,Category,Date") &&
			strings.Contains(body, "Ada,Lovelace,ada@example.com,42,Expense,food,2025-03-10")
	})).Return(nil).Once()
	suite.mockReportRepo.On("UpdateReportResult", mock.Anything, mock.MatchedBy(func(r domain.ReportResult) bool {
		return r.Status == domain.ReportCompleted && r.ReportPath == nil
	})).Return(nil).Once()

	suite.svc.RunReport(context.Background(), task)

	suite.mockNotifier.AssertExpectations(suite.T())
	suite.mockReportRepo.AssertExpectations(suite.T())
}

func (suite *ReportServiceTestSuite) TestRunReportWritesFileWhenNotEmailed() {
	task := dto.ReportJob{TaskID: uuid.NewString(), UserID: suite.userID}

	suite.mockReportRepo.On("SaveReportResult", mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockUserRepo.On("FindUserByID", mock.Anything, suite.userID).Return(suite.user, nil).Once()
	suite.mockTxnRepo.On("ListTransactionsByUser", mock.Anything, suite.userID, (*time.Time)(nil), (*time.Time)(nil)).
		Return([]domain.Transaction{}, nil).Once()
	suite.mockReportRepo.On("UpdateReportResult", mock.Anything, mock.MatchedBy(func(r domain.ReportResult) bool {
		return r.Status == domain.ReportCompleted &&
			r.ReportPath != nil && strings.HasSuffix(*r.ReportPath, "transactions_"+task.TaskID+".csv")
	})).Return(nil).Once()

	suite.svc.RunReport(context.Background(), task)

	suite.mockNotifier.AssertNotCalled(suite.T(), "Deliver")
	suite.mockReportRepo.AssertExpectations(suite.T())
}

func (suite *ReportServiceTestSuite) TestRunReportRecordsDeliveryFailure() {
	task := dto.ReportJob{TaskID: uuid.NewString(), UserID: suite.userID, SendEmail: true}

	suite.mockReportRepo.On("SaveReportResult", mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockUserRepo.On("FindUserByID", mock.Anything, suite.userID).Return(suite.user, nil).Once()
	suite.mockTxnRepo.On("ListTransactionsByUser", mock.Anything, suite.userID, (*time.Time)(nil), (*time.Time)(nil)).
		Return([]domain.Transaction{}, nil).Once()
	suite.mockNotifier.On("Deliver", mock.Anything, mock.Anything).Return(errors.New("smtp down")).Once()
	suite.mockReportRepo.On("UpdateReportResult", mock.Anything, mock.MatchedBy(func(r domain.ReportResult) bool {
		return r.Status == domain.ReportError &&
			r.ErrorMessage != nil && strings.Contains(*r.ErrorMessage, "smtp down")
	})).Return(nil).Once()

	suite.svc.RunReport(context.Background(), task)

	suite.mockReportRepo.AssertExpectations(suite.T())
}

func (suite *ReportServiceTestSuite) TestRunReportRejectsMalformedDates() {
	start, end := "03/01/2025", "04/01/2025"
	task := dto.ReportJob{TaskID: uuid.NewString(), UserID: suite.userID, StartDate: &start, EndDate: &end}

	suite.mockReportRepo.On("SaveReportResult", mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockUserRepo.On("FindUserByID", mock.Anything, suite.userID).Return(suite.user, nil).Once()
	suite.mockReportRepo.On("UpdateReportResult", mock.Anything, mock.MatchedBy(func(r domain.ReportResult) bool {
		return r.Status == domain.ReportError && r.ErrorMessage != nil
	})).Return(nil).Once()

	suite.svc.RunReport(context.Background(), task)

	suite.mockTxnRepo.AssertNotCalled(suite.T(), "ListTransactionsByUser")
}

func TestReportService(t *testing.T) {
	suite.Run(t, new(ReportServiceTestSuite))
}
