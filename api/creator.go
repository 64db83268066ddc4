package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Aditya-Vasipalli/buymechai/models"
	"github.com/Aditya-Vasipalli/buymechai/services"
	"github.com/Aditya-Vasipalli/buymechai/utils"
	"github.com/gorilla/mux"
)

type CreatorHandler struct {
	creatorService *services.CreatorService
	intentService  *services.IntentService
}

func NewCreatorHandler(creatorService *services.CreatorService, intentService *services.IntentService) *CreatorHandler {
	return &CreatorHandler{
		creatorService: creatorService,
		intentService:  intentService,
	}
}

func (h *CreatorHandler) HandleGetPage(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	page, err := h.creatorService.GetPage(r.Context(), username)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

func (h *CreatorHandler) HandleGoals(w http.ResponseWriter, r *http.Request) {
	creatorID := mux.Vars(r)["id"]
	ctx := utils.WithCreatorID(r.Context(), creatorID)

	switch r.Method {
	case http.MethodGet:
		goals, err := h.creatorService.ListGoals(ctx, creatorID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, models.GoalListResponse{Goals: goals})

	case http.MethodPost:
		var req models.CreateGoalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
			return
		}
		goal, err := h.creatorService.CreateGoal(ctx, creatorID, &req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, goal)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *CreatorHandler) HandleTransactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	creatorID := mux.Vars(r)["id"]
	ctx := utils.WithCreatorID(r.Context(), creatorID)

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	list, err := h.creatorService.ListTransactions(ctx, creatorID, clampLimit(limit), offset)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, list)
}

// HandleListIntents exposes a creator's outstanding intents. Tokens are
// sensitive while active, so this route is mounted under /debug and meant
// for operator troubleshooting only.
func (h *CreatorHandler) HandleListIntents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	creatorID := mux.Vars(r)["id"]
	ctx := utils.WithCreatorID(r.Context(), creatorID)

	intents, err := h.intentService.ListActiveIntents(ctx, creatorID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"intents": intents,
		"count":   len(intents),
	})
}
