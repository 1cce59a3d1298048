package handler

import (
	"net/http"
	"strconv"

	"github.com/solcade/treasury/internal/domain"
	"github.com/solcade/treasury/internal/logger"
	"github.com/solcade/treasury/internal/treasury"
)

// DepositRequest credits a confirmed external deposit to a player.
type DepositRequest struct {
	PlayerID          string `json:"player_id" validate:"required,max=100,excludesall=\x00\n\r\t"`
	Mint              string `json:"mint,omitempty" validate:"max=100"`
	Amount            int64  `json:"amount" validate:"required,gt=0"`
	ConfirmationToken string `json:"confirmation_token" validate:"required,max=200"`
}

// WithdrawRequest converts internal credit and pays it out on chain.
type WithdrawRequest struct {
	PlayerID    string `json:"player_id" validate:"required,max=100,excludesall=\x00\n\r\t"`
	Mint        string `json:"mint,omitempty" validate:"max=100"`
	Amount      int64  `json:"amount" validate:"required,gt=0"`
	Destination string `json:"destination" validate:"required,max=200"`
}

// RewardRequest issues game credit to a player.
type RewardRequest struct {
	PlayerID string            `json:"player_id" validate:"required,max=100,excludesall=\x00\n\r\t"`
	Amount   int64             `json:"amount" validate:"required,gt=0"`
	Category string            `json:"category" validate:"required,max=50"`
	Context  map[string]string `json:"context,omitempty"`
}

// TransferRequest moves credit between two players.
type TransferRequest struct {
	FromPlayerID string `json:"from_player_id" validate:"required,max=100,excludesall=\x00\n\r\t"`
	ToPlayerID   string `json:"to_player_id" validate:"required,max=100,nefield=FromPlayerID"`
	Mint         string `json:"mint,omitempty" validate:"max=100"`
	Amount       int64  `json:"amount" validate:"required,gt=0"`
}

// resolveMint falls back to the configured game mint when the request does
// not name one.
func resolveMint(requested, gameMint string) string {
	if requested == "" {
		return gameMint
	}
	return requested
}

// HandleGetBalance handles GET requests for a player's balance
func HandleGetBalance(svc treasury.Service, gameMint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		playerID, ok := GetQueryParam(r, w, "player_id")
		if !ok {
			return
		}
		mint := resolveMint(r.URL.Query().Get("mint"), gameMint)

		log.Debug("Get balance request", "player_id", playerID, "mint", mint)

		result, err := svc.GetBalance(r.Context(), playerID, mint)
		if err != nil {
			respondServiceError(w, r, ErrMsgGetBalanceFailed, err)
			return
		}

		respondJSON(w, http.StatusOK, result)
	}
}

// HandleDeposit handles POST requests crediting a confirmed external deposit
func HandleDeposit(svc treasury.Service, gameMint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req DepositRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Deposit"); err != nil {
			return
		}
		mint := resolveMint(req.Mint, gameMint)

		log.Debug("Deposit request", "player_id", req.PlayerID, "mint", mint, "amount", req.Amount)

		result, err := svc.Deposit(r.Context(), req.PlayerID, mint, req.Amount, req.ConfirmationToken)
		if err != nil {
			respondServiceError(w, r, ErrMsgDepositFailed, err)
			return
		}

		log.Info("Deposit credited", "player_id", req.PlayerID, "amount", req.Amount)
		respondJSON(w, http.StatusCreated, result)
	}
}

// HandleWithdraw handles POST requests paying out internal credit on chain
func HandleWithdraw(svc treasury.Service, gameMint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req WithdrawRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Withdraw"); err != nil {
			return
		}
		mint := resolveMint(req.Mint, gameMint)

		log.Debug("Withdraw request", "player_id", req.PlayerID, "mint", mint, "amount", req.Amount)

		result, err := svc.Withdraw(r.Context(), req.PlayerID, mint, req.Amount, req.Destination)
		if err != nil {
			respondServiceError(w, r, ErrMsgWithdrawFailed, err)
			return
		}

		log.Info("Withdrawal processed", "player_id", req.PlayerID, "amount", req.Amount)
		respondJSON(w, http.StatusCreated, result)
	}
}

// HandleIssueReward handles POST requests issuing game credit to a player
func HandleIssueReward(svc treasury.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req RewardRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Issue reward"); err != nil {
			return
		}

		log.Debug("Reward request", "player_id", req.PlayerID, "amount", req.Amount, "category", req.Category)

		result, err := svc.IssueReward(r.Context(), req.PlayerID, req.Amount, req.Category, req.Context)
		if err != nil {
			respondServiceError(w, r, ErrMsgRewardFailed, err)
			return
		}

		log.Info("Reward issued", "player_id", req.PlayerID, "amount", req.Amount, "category", req.Category)
		respondJSON(w, http.StatusCreated, result)
	}
}

// HandleTransfer handles POST requests moving credit between players
func HandleTransfer(svc treasury.Service, gameMint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req TransferRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Transfer"); err != nil {
			return
		}
		mint := resolveMint(req.Mint, gameMint)

		log.Debug("Transfer request",
			"from_player_id", req.FromPlayerID,
			"to_player_id", req.ToPlayerID,
			"amount", req.Amount)

		result, err := svc.Transfer(r.Context(), req.FromPlayerID, req.ToPlayerID, mint, req.Amount)
		if err != nil {
			respondServiceError(w, r, ErrMsgTransferFailed, err)
			return
		}

		log.Info("Transfer completed",
			"from_player_id", req.FromPlayerID,
			"to_player_id", req.ToPlayerID,
			"amount", req.Amount)
		respondJSON(w, http.StatusCreated, result)
	}
}

// HandleListTransactions handles GET requests for a player's ledger history
func HandleListTransactions(svc treasury.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		playerID, ok := GetQueryParam(r, w, "player_id")
		if !ok {
			return
		}

		limit, ok := parseIntParam(w, r, "limit", domain.DefaultHistoryLimit, ErrMsgInvalidLimit)
		if !ok {
			return
		}
		offset, ok := parseIntParam(w, r, "offset", 0, ErrMsgInvalidOffset)
		if !ok {
			return
		}

		entries, err := svc.ListTransactions(r.Context(), playerID, limit, offset)
		if err != nil {
			respondServiceError(w, r, ErrMsgListTransactionsFailed, err)
			return
		}

		log.Debug("Transactions listed", "player_id", playerID, "count", len(entries))
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"player_id":    playerID,
			"transactions": entries,
		})
	}
}

// HandleListRewards handles GET requests for a player's recent rewards
func HandleListRewards(svc treasury.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		playerID, ok := GetQueryParam(r, w, "player_id")
		if !ok {
			return
		}
		limit, ok := parseIntParam(w, r, "limit", domain.DefaultHistoryLimit, ErrMsgInvalidLimit)
		if !ok {
			return
		}

		rewards, err := svc.ListRewards(r.Context(), playerID, limit)
		if err != nil {
			respondServiceError(w, r, ErrMsgListRewardsFailed, err)
			return
		}

		log.Debug("Rewards listed", "player_id", playerID, "count", len(rewards))
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"player_id": playerID,
			"rewards":   rewards,
		})
	}
}

// parseIntParam parses a non-negative integer query parameter, writing the
// error response itself when the value is malformed.
func parseIntParam(w http.ResponseWriter, r *http.Request, name string, defaultValue int, errMsg string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return defaultValue, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		logger.FromContext(r.Context()).Warn("Invalid query parameter", "param", name, "value", raw)
		respondError(w, http.StatusBadRequest, errMsg)
		return 0, false
	}
	return value, true
}
