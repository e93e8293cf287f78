package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/swap24/backend/internal/models"
	"github.com/swap24/backend/internal/services"
	"github.com/swap24/backend/pkg/logger"
	"go.uber.org/zap"
)

type TransactionAPI interface {
	RecordTransaction(ctx context.Context, req services.RecordTransactionRequest) (*models.Transaction, error)
	RecordOfferFromChain(ctx context.Context, req services.RecordAdRequest) (*services.RecordAdResult, error)
	GetTransactions(ctx context.Context, userID string) (models.Transactions, error)
}

// TransactionResponse wraps a freshly recorded ledger entry
type TransactionResponse struct {
	Message     string             `json:"message" example:"Transaction added successfully"`
	Transaction models.Transaction `json:"transaction"`
}

// AdRecordedResponse wraps the offer and ledger entry written for an on-chain ad
type AdRecordedResponse struct {
	Message string `json:"message" example:"Ad recorded successfully"`
	services.RecordAdResult
}

// TransactionsResponse is a user's full ledger
type TransactionsResponse struct {
	Transactions models.Transactions `json:"transactions"`
}

type TransactionHandler struct {
	service TransactionAPI
	log     *zap.Logger
}

func NewTransactionHandler(service TransactionAPI) *TransactionHandler {
	return &TransactionHandler{service: service, log: logger.Named("ledger")}
}

// AddTransaction appends an entry to the caller's ledger
// @Summary Record transaction
// @Description Append a ledger entry and push it to the user's realtime room
// @Tags Transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body services.RecordTransactionRequest true "Transaction"
// @Success 200 {object} TransactionResponse
// @Failure 400 {object} services.ErrorResponse
// @Failure 403 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Router /transactions/add [post]
func (h *TransactionHandler) AddTransaction(w http.ResponseWriter, r *http.Request) {
	var req services.RecordTransactionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !authorizeUser(w, r, req.UserID) {
		return
	}

	entry, err := h.service.RecordTransaction(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, TransactionResponse{Message: "Transaction added successfully", Transaction: *entry})
}

// RecordAdAfterContract mirrors an ad the caller just posted on chain
// @Summary Record on-chain ad
// @Description Create the local offer for an on-chain ad and log an adPlacement entry
// @Tags Transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body services.RecordAdRequest true "Ad"
// @Success 201 {object} AdRecordedResponse
// @Failure 400 {object} services.ErrorResponse
// @Failure 409 {object} services.ErrorResponse
// @Router /transactions/recordAdAfterContract [post]
func (h *TransactionHandler) RecordAdAfterContract(w http.ResponseWriter, r *http.Request) {
	var req services.RecordAdRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !authorizeUser(w, r, req.UserID) {
		return
	}

	result, err := h.service.RecordOfferFromChain(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, AdRecordedResponse{Message: "Ad recorded successfully", RecordAdResult: *result})
}

// GetTransactions returns the caller's ledger in append order
// @Summary List transactions
// @Tags Transactions
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User id"
// @Success 200 {object} TransactionsResponse
// @Failure 403 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Router /transactions/{userId} [get]
func (h *TransactionHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if !authorizeUser(w, r, userID) {
		return
	}

	ledger, err := h.service.GetTransactions(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, TransactionsResponse{Transactions: ledger})
}
