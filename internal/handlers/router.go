package handlers

import (
	"github.com/go-chi/chi/v5"
	"github.com/swap24/backend/internal/middleware"
)

type Handlers struct {
	Auth         *AuthHandler
	Offers       *OfferHandler
	Transactions *TransactionHandler
	Profiles     *ProfileHandler
	Contract     *ContractHandler
	Banks        BankLister
	Socket       SocketServer
}

// Mount registers the API routes on r. Writes and ledger reads need a bearer
// token; listings, profiles and contract reads are public.
func Mount(r chi.Router, h Handlers, auth *middleware.Authenticator) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Auth.Register)
		r.Post("/verify-otp", h.Auth.VerifyOTP)
		r.Post("/resend-otp", h.Auth.ResendOTP)
		r.Post("/send-otp-phone", h.Auth.SendPhoneOTP)
		r.Post("/verify-otp-phone", h.Auth.VerifyPhoneOTP)
		r.Post("/resend-otp-phone", h.Auth.ResendPhoneOTP)
		r.Post("/signin", h.Auth.Signin)
		r.Post("/verify-login-otp", h.Auth.VerifyLoginOTP)
		r.Post("/logout", h.Auth.Logout)
	})

	r.Get("/offers", h.Offers.ListOffers)
	r.Get("/offers/{adsId}/qr", h.Offers.OfferQR)

	r.Get("/profiles/{userId}", h.Profiles.GetProfile)
	r.Get("/traders/{userId}/stats", h.Profiles.GetTraderStats)
	r.Get("/banks", ListBanks(h.Banks))

	r.Get("/contract/contract-info", h.Contract.ContractInfo)
	r.Get("/contract/ads", h.Contract.ListAds)
	r.Get("/contract/ads/{id}", h.Contract.GetAd)

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware)

		r.Post("/transactions/add", h.Transactions.AddTransaction)
		r.Post("/transactions/recordAdAfterContract", h.Transactions.RecordAdAfterContract)
		r.Get("/transactions/{userId}", h.Transactions.GetTransactions)

		r.Patch("/profiles/{userId}", h.Profiles.UpdateProfile)
		r.Put("/traders/{userId}/stats", h.Profiles.UpsertTraderStats)
	})

	r.With(auth.QueryTokenMiddleware).Get("/ws", ServeWS(h.Socket))
}
