package repositories

// RepositoryProvider bundles the concrete repositories handed to the service
// layer.
type RepositoryProvider struct {
	TxnRepo    TransactionRepositoryWithTx
	BudgetRepo BudgetRepositoryWithTx
	UserRepo   UserRepositoryFacade
	ReportRepo ReportResultRepositoryFacade
}
