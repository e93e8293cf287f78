package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/swap24/backend/internal/chain"
	"github.com/swap24/backend/internal/services"
	"github.com/swap24/backend/pkg/logger"
	"go.uber.org/zap"
)

type ContractReader interface {
	Info() chain.ContractInfo
	ReadAd(ctx context.Context, id string) (*chain.Ad, error)
	ReadAllAds(ctx context.Context) ([]chain.Ad, error)
}

// ContractHandler exposes read-only contract data. A nil reader means no RPC is
// configured and every route answers 503.
type ContractHandler struct {
	reader ContractReader
	log    *zap.Logger
}

func NewContractHandler(reader ContractReader) *ContractHandler {
	return &ContractHandler{reader: reader, log: logger.Named("chain")}
}

func (h *ContractHandler) available(w http.ResponseWriter) bool {
	if h.reader == nil {
		services.SendErrorResponse(w, "Contract reader not configured", http.StatusServiceUnavailable, nil)
		return false
	}
	return true
}

// ContractInfo returns the market contract address and ABI
// @Summary Contract info
// @Tags Contract
// @Produce json
// @Success 200 {object} chain.ContractInfo
// @Failure 503 {object} services.ErrorResponse
// @Router /contract/contract-info [get]
func (h *ContractHandler) ContractInfo(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}
	writeJSON(w, http.StatusOK, h.reader.Info())
}

// ListAds reads every ad from the contract
// @Summary List on-chain ads
// @Tags Contract
// @Produce json
// @Success 200 {array} chain.Ad
// @Failure 500 {object} services.ErrorResponse
// @Router /contract/ads [get]
func (h *ContractHandler) ListAds(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}

	ads, err := h.reader.ReadAllAds(r.Context())
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, ads)
}

// GetAd reads one ad from the contract
// @Summary Get on-chain ad
// @Tags Contract
// @Produce json
// @Param id path string true "On-chain ad id"
// @Success 200 {object} chain.Ad
// @Failure 400 {object} services.ErrorResponse
// @Failure 500 {object} services.ErrorResponse
// @Router /contract/ads/{id} [get]
func (h *ContractHandler) GetAd(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}

	ad, err := h.reader.ReadAd(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, chain.ErrInvalidAdID) {
		services.SendErrorResponse(w, err.Error(), http.StatusBadRequest, nil)
		return
	}
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, ad)
}
