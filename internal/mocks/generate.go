package mocks

//go:generate mockgen -destination=./mock_execution.go -package=mocks alert-connector/internal/execution AccountState,OrderSubmitter,Trader
