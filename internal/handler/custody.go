package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/solcade/treasury/internal/custody"
	"github.com/solcade/treasury/internal/logger"
)

// IssueItemRequest mints an item into the shared custodial wallet.
type IssueItemRequest struct {
	PlayerID    string `json:"player_id" validate:"required,max=100,excludesall=\x00\n\r\t"`
	ItemID      string `json:"item_id,omitempty" validate:"max=100"`
	Collection  string `json:"collection" validate:"required,max=100"`
	MetadataURI string `json:"metadata_uri" validate:"required,max=500"`
	Slot        *int   `json:"slot,omitempty"`
}

// WithdrawItemRequest transfers a held item to a player wallet.
type WithdrawItemRequest struct {
	PlayerID    string `json:"player_id" validate:"required,max=100,excludesall=\x00\n\r\t"`
	ItemID      string `json:"item_id" validate:"required,max=100"`
	Destination string `json:"destination" validate:"required,max=200"`
}

// BurnItemRequest marks a held item burned.
type BurnItemRequest struct {
	ItemID string `json:"item_id" validate:"required,max=100"`
}

// WithdrawItemResponse carries the chain confirmation for a withdrawal.
type WithdrawItemResponse struct {
	ItemID            string `json:"item_id"`
	ConfirmationToken string `json:"confirmation_token"`
}

// HandleIssueItem handles POST requests minting an item into custody
func HandleIssueItem(svc custody.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req IssueItemRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Issue item"); err != nil {
			return
		}
		if req.ItemID == "" {
			req.ItemID = uuid.NewString()
		}

		log.Debug("Issue item request", "player_id", req.PlayerID, "item_id", req.ItemID)

		item, err := svc.Issue(r.Context(), custody.IssueParams{
			PlayerID:    req.PlayerID,
			ItemID:      req.ItemID,
			Collection:  req.Collection,
			MetadataURI: req.MetadataURI,
			Slot:        req.Slot,
		})
		if err != nil {
			respondServiceError(w, r, ErrMsgIssueItemFailed, err)
			return
		}

		log.Info("Item issued", "item_id", item.ID, "player_id", item.PlayerID)
		respondJSON(w, http.StatusCreated, item)
	}
}

// HandleWithdrawItem handles POST requests transferring a held item out
func HandleWithdrawItem(svc custody.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req WithdrawItemRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Withdraw item"); err != nil {
			return
		}

		log.Debug("Withdraw item request", "player_id", req.PlayerID, "item_id", req.ItemID)

		token, err := svc.Withdraw(r.Context(), req.PlayerID, req.ItemID, req.Destination)
		if err != nil {
			respondServiceError(w, r, ErrMsgWithdrawItemFailed, err)
			return
		}

		log.Info("Item withdrawn", "item_id", req.ItemID, "player_id", req.PlayerID)
		respondJSON(w, http.StatusCreated, WithdrawItemResponse{
			ItemID:            req.ItemID,
			ConfirmationToken: token,
		})
	}
}

// HandleBurnItem handles POST requests marking an item burned
func HandleBurnItem(svc custody.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req BurnItemRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Burn item"); err != nil {
			return
		}

		if err := svc.Burn(r.Context(), req.ItemID); err != nil {
			respondServiceError(w, r, ErrMsgBurnItemFailed, err)
			return
		}

		log.Info("Item burned", "item_id", req.ItemID)
		respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgItemBurnedSuccess})
	}
}

// HandleListItems handles GET requests for a player's custodial items
func HandleListItems(svc custody.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		playerID, ok := GetQueryParam(r, w, "player_id")
		if !ok {
			return
		}

		items, err := svc.List(r.Context(), playerID)
		if err != nil {
			respondServiceError(w, r, ErrMsgListItemsFailed, err)
			return
		}

		log.Debug("Items listed", "player_id", playerID, "count", len(items))
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"player_id": playerID,
			"items":     items,
		})
	}
}
