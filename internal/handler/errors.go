package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"

	// Query parameter error messages
	ErrMsgMissingQueryParam = "Missing %s query parameter"
	ErrMsgInvalidLimit      = "Invalid limit parameter"
	ErrMsgInvalidOffset     = "Invalid offset parameter"

	// Balance and transaction error messages
	ErrMsgGetBalanceFailed       = "Failed to get balance"
	ErrMsgDepositFailed          = "Failed to process deposit"
	ErrMsgWithdrawFailed         = "Failed to process withdrawal"
	ErrMsgRewardFailed           = "Failed to issue reward"
	ErrMsgTransferFailed         = "Failed to process transfer"
	ErrMsgListTransactionsFailed = "Failed to list transactions"
	ErrMsgListRewardsFailed      = "Failed to list rewards"

	// Item custody error messages
	ErrMsgIssueItemFailed    = "Failed to issue item"
	ErrMsgWithdrawItemFailed = "Failed to withdraw item"
	ErrMsgBurnItemFailed     = "Failed to burn item"
	ErrMsgListItemsFailed    = "Failed to list items"
)

// Success messages for API responses
const (
	MsgItemBurnedSuccess = "Item burned successfully"
)
