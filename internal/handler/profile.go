package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/polarisfn/Polaris_Go/internal/domain"
	"github.com/polarisfn/Polaris_Go/internal/logger"
	"github.com/polarisfn/Polaris_Go/internal/profile"
)

// Client command names accepted by the profile endpoint.
const (
	CommandQuestLogin   = "ClientQuestLogin"
	CommandQueryProfile = "QueryProfile"
	CommandGrantItem    = "GrantItem"
	CommandRemoveItem   = "RemoveItem"
	CommandModifyStat   = "ModifyStat"
)

// GrantItemRequest is the body for the GrantItem command
type GrantItemRequest struct {
	TemplateID string `json:"templateId" validate:"required,templateid"`
	Quantity   int    `json:"quantity" validate:"required,gt=0"`
}

// RemoveItemRequest is the body for the RemoveItem command
type RemoveItemRequest struct {
	ItemID string `json:"itemId" validate:"required"`
}

// ModifyStatRequest is the body for the ModifyStat command
type ModifyStatRequest struct {
	Name  string      `json:"name" validate:"required"`
	Value interface{} `json:"value"`
}

// ProfileHandler dispatches client profile commands
type ProfileHandler struct {
	profileService profile.Service
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(profileService profile.Service) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// ExecuteCommand handles POST /api/game/v2/profile/{accountId}/client/{command}.
// The target profile comes from the profileId query parameter, defaulting to
// the athena profile.
func (h *ProfileHandler) ExecuteCommand(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	accountID := chi.URLParam(r, "accountId")
	command := chi.URLParam(r, "command")
	if accountID == "" || command == "" {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidRequestError)
		return
	}

	profileID := r.URL.Query().Get("profileId")
	if profileID == "" {
		profileID = domain.ProfileIDAthena
	}

	var resp *domain.CommandResponse
	var err error

	switch command {
	case CommandQuestLogin:
		resp, err = h.profileService.DailyLogin(ctx, accountID, profileID, r.UserAgent())

	case CommandQueryProfile:
		resp, err = h.profileService.QueryProfile(ctx, accountID, profileID)

	case CommandGrantItem:
		var req GrantItemRequest
		if !h.decodeAndValidate(w, r, &req) {
			return
		}
		resp, err = h.profileService.GrantItem(ctx, accountID, profileID, req.TemplateID, req.Quantity)

	case CommandRemoveItem:
		var req RemoveItemRequest
		if !h.decodeAndValidate(w, r, &req) {
			return
		}
		resp, err = h.profileService.RemoveItem(ctx, accountID, profileID, req.ItemID)

	case CommandModifyStat:
		var req ModifyStatRequest
		if !h.decodeAndValidate(w, r, &req) {
			return
		}
		resp, err = h.profileService.ModifyStat(ctx, accountID, profileID, req.Name, req.Value)

	default:
		respondError(w, http.StatusNotFound, ErrMsgOperationNotFound)
		return
	}

	if err != nil {
		status, message := mapServiceErrorToResponse(err)
		if status >= http.StatusInternalServerError {
			log.Error("Command failed", "command", command, "account_id", accountID, "error", err)
		}
		respondError(w, status, message)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// decodeAndValidate parses the request body and runs struct validation,
// writing the error response itself on failure.
func (h *ProfileHandler) decodeAndValidate(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := GetValidator().ValidateStruct(req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":  ErrMsgInvalidRequestError,
			"fields": FormatValidationError(err),
		})
		return false
	}
	return true
}
