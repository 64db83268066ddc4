package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Aditya-Vasipalli/buymechai/models"
	"github.com/Aditya-Vasipalli/buymechai/services"
	"github.com/Aditya-Vasipalli/buymechai/upi"
)

type PaymentHandler struct {
	intentService *services.IntentService
	verifier      *services.VerificationService
}

func NewPaymentHandler(intentService *services.IntentService, verifier *services.VerificationService) *PaymentHandler {
	return &PaymentHandler{
		intentService: intentService,
		verifier:      verifier,
	}
}

func (h *PaymentHandler) HandleCreateIntent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req models.CreateIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	resp, err := h.intentService.CreateIntent(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *PaymentHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req models.VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	txn, err := h.verifier.Verify(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, models.VerifyResponse{Transaction: txn})
}

// HandlePaymentCode hands the supporter off to the external payment leg.
// Mobile clients get a redirect the OS resolves to an installed UPI app;
// everything else gets a scannable PNG.
func (h *PaymentHandler) HandlePaymentCode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	creatorID := r.URL.Query().Get("creator_id")
	tok := r.URL.Query().Get("token")

	if upi.IsMobileUserAgent(r.UserAgent()) {
		link, err := h.intentService.PaymentLink(r.Context(), creatorID, tok)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		http.Redirect(w, r, link, http.StatusSeeOther)
		return
	}

	size := 256
	if s := r.URL.Query().Get("size"); s != "" {
		if parsed, err := strconv.Atoi(s); err == nil && parsed >= 64 && parsed <= 1024 {
			size = parsed
		}
	}

	png, err := h.intentService.PaymentQR(r.Context(), creatorID, tok, size)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
