package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/fitcert/backend/internal/model"
	"github.com/fitcert/backend/internal/relay"
	"github.com/fitcert/backend/internal/service"
)

// ContactHandler exposes the anonymous coach-contact relay.
type ContactHandler struct {
	relayService service.ContactRelayService
	// trustedProxyCount positions the client address inside
	// X-Forwarded-For; one reverse proxy (nginx) by default.
	trustedProxyCount int
}

// NewContactHandler creates a ContactHandler with the given relay service.
func NewContactHandler(relayService service.ContactRelayService) *ContactHandler {
	return &ContactHandler{relayService: relayService, trustedProxyCount: 1}
}

// sendRequest is the expected JSON body for POST /api/contact/{id}.
type sendRequest struct {
	Email      string `json:"email"`
	Subject    string `json:"subject"`
	Message    string `json:"message"`
	SenderName string `json:"senderName"`
}

type sendResponse struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Data    *model.DispatchReceipt `json:"data"`
}

// Send handles POST /api/contact/{id}: relays a visitor's message to the
// coach identified by the path segment.
func (h *ContactHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	receipt, err := h.relayService.Relay(r.Context(), ClientIP(r, h.trustedProxyCount), relay.RawContactInput{
		RecipientID: r.PathValue("id"),
		SenderName:  req.SenderName,
		SenderEmail: req.Email,
		Subject:     req.Subject,
		Body:        req.Message,
	})
	if err != nil {
		h.writeRelayError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sendResponse{
		Success: true,
		Message: "your message was sent",
		Data:    receipt,
	})
}

// writeRelayError maps every member of the relay failure taxonomy to its
// status and caller-safe body. Anything unrecognized becomes a generic 500.
func (h *ContactHandler) writeRelayError(w http.ResponseWriter, err error) {
	var rateLimited *service.RateLimitedError
	var invalid *service.ValidationError
	var unsafe *service.UnsafeContentError

	switch {
	case errors.As(err, &rateLimited):
		w.Header().Set("Retry-After", strconv.Itoa(rateLimited.RetryAfterSeconds))
		writeJSON(w, http.StatusTooManyRequests, map[string]string{
			"error":   "rate_limited",
			"message": "too many messages from this address, try again later",
		})
	case errors.As(err, &invalid):
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":   "validation_failed",
			"details": invalid.Fields,
		})
	case errors.As(err, &unsafe):
		// No detail on which rule fired; that stays in the abuse log.
		writeJSONError(w, http.StatusBadRequest, "message_rejected")
	case errors.Is(err, service.ErrRecipientNotFound):
		writeJSONError(w, http.StatusNotFound, "recipient_not_found")
	case errors.Is(err, service.ErrRecipientMisconfigured), errors.Is(err, service.ErrDeliveryFailed):
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "delivery_failed",
			"message": "the message could not be delivered, please try again later",
		})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "internal_error",
			"message": "an unexpected error occurred",
		})
	}
}
