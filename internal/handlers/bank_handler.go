package handlers

import (
	"net/http"

	"github.com/swap24/backend/internal/services"
)

type BankLister interface {
	Banks() []services.Bank
}

// ListBanks returns the banks a seller can name in their bank details
// @Summary List banks
// @Tags Traders
// @Produce json
// @Success 200 {array} services.Bank
// @Router /banks [get]
func ListBanks(dir BankLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=86400")
		writeJSON(w, http.StatusOK, dir.Banks())
	}
}
