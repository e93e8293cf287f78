package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/swap24/backend/internal/services"
	"github.com/swap24/backend/pkg/logger"
	"go.uber.org/zap"
)

type OfferAPI interface {
	ListActiveOffers(ctx context.Context) ([]services.OfferView, error)
}

type OfferQRAPI interface {
	GenerateOfferQR(ctx context.Context, adsID string) ([]byte, error)
}

// OffersResponse is the marketplace listing
type OffersResponse struct {
	Success bool                 `json:"success" example:"true"`
	Offers  []services.OfferView `json:"offers"`
}

type OfferHandler struct {
	offers OfferAPI
	qr     OfferQRAPI
	log    *zap.Logger
}

func NewOfferHandler(offers OfferAPI, qr OfferQRAPI) *OfferHandler {
	return &OfferHandler{offers: offers, qr: qr, log: logger.Named("offers")}
}

// ListOffers returns every active offer with its seller card
// @Summary List active offers
// @Description Active offers, newest first, each joined with the seller's profile and trader stats
// @Tags Offers
// @Produce json
// @Success 200 {object} OffersResponse
// @Failure 500 {object} services.ErrorResponse
// @Router /offers [get]
func (h *OfferHandler) ListOffers(w http.ResponseWriter, r *http.Request) {
	offers, err := h.offers.ListActiveOffers(r.Context())
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, OffersResponse{Success: true, Offers: offers})
}

// OfferQR renders a share link for an offer as a PNG QR code
// @Summary Offer share QR
// @Tags Offers
// @Produce png
// @Param adsId path string true "Ad id"
// @Success 200 {file} binary
// @Failure 404 {object} services.ErrorResponse
// @Router /offers/{adsId}/qr [get]
func (h *OfferHandler) OfferQR(w http.ResponseWriter, r *http.Request) {
	png, err := h.qr.GenerateOfferQR(r.Context(), chi.URLParam(r, "adsId"))
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
