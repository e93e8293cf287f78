package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/swap24/backend/internal/chain"
	"github.com/swap24/backend/internal/middleware"
	"github.com/swap24/backend/internal/models"
	"github.com/swap24/backend/internal/services"
)

const testSecret = "handler-secret"

type apiFixture struct {
	router   chi.Router
	tokens   *services.JWTIssuer
	auth     *MockAuth
	offers   *MockOffers
	ledger   *MockLedger
	profiles *MockProfiles
	contract *MockContract
	socket   *MockSocket
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	f := &apiFixture{
		tokens:   services.NewJWTIssuer(testSecret, time.Hour),
		auth:     &MockAuth{},
		offers:   &MockOffers{},
		ledger:   &MockLedger{},
		profiles: &MockProfiles{},
		contract: &MockContract{},
		socket:   &MockSocket{},
	}

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		Mount(r, Handlers{
			Auth:         NewAuthHandler(f.auth),
			Offers:       NewOfferHandler(f.offers, f.offers),
			Transactions: NewTransactionHandler(f.ledger),
			Profiles:     NewProfileHandler(f.profiles, f.profiles),
			Contract:     NewContractHandler(f.contract),
			Banks:        services.NewBankDirectory(),
			Socket:       f.socket,
		}, middleware.NewAuthenticator(f.tokens, nil))
	})
	f.router = r

	t.Cleanup(func() {
		f.auth.AssertExpectations(t)
		f.offers.AssertExpectations(t)
		f.ledger.AssertExpectations(t)
		f.profiles.AssertExpectations(t)
		f.contract.AssertExpectations(t)
		f.socket.AssertExpectations(t)
	})
	return f
}

func (f *apiFixture) do(t *testing.T, method, path, body, userID string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		token, err := f.tokens.Issue(userID, userID+"@example.com")
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRegister(t *testing.T) {
	f := newAPIFixture(t)
	req := services.RegisterRequest{FirstName: "Ada", LastName: "Obi", Email: "ada@example.com", Password: "password123"}
	f.auth.On("Register", mock.Anything, req).Return(&services.RegisterResult{UserID: "u1", ProfileID: "p1"}, nil)

	rec := f.do(t, http.MethodPost, "/api/auth/register",
		`{"firstName":"Ada","lastName":"Obi","email":"ada@example.com","password":"password123"}`, "")

	assert.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "User registered. OTP sent to email", body["message"])
	assert.Equal(t, "u1", body["userId"])
	assert.Equal(t, "p1", body["profileId"])
}

func TestRegister_RejectsMalformedBodies(t *testing.T) {
	f := newAPIFixture(t)

	tests := map[string]struct {
		body string
		want string
	}{
		"not json":       {body: `{`, want: "Invalid request body"},
		"unknown field":  {body: `{"email":"a@b.co","admin":true}`, want: "Invalid request body"},
		"trailing value": {body: `{"email":"a@b.co"}{}`, want: "Request body must only contain a single JSON object"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			rec := f.do(t, http.MethodPost, "/api/auth/register", tt.body, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.want, decodeBody(t, rec)["error"])
		})
	}
}

func TestServiceErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", fmt.Errorf("%w: email is required", services.ErrValidation), http.StatusBadRequest, "validation failed: email is required"},
		{"invalid otp", services.ErrInvalidOTP, http.StatusBadRequest, "invalid OTP"},
		{"expired", services.ErrOTPExpired, http.StatusBadRequest, "OTP expired"},
		{"not found", fmt.Errorf("user %w", services.ErrNotFound), http.StatusNotFound, "user not found"},
		{"conflict", fmt.Errorf("email %w", services.ErrConflict), http.StatusConflict, "email already exists"},
		{"rate limited", services.ErrRateLimited, http.StatusTooManyRequests, services.ErrRateLimited.Error()},
		{"unexpected", errors.New("pq: connection refused"), http.StatusInternalServerError, "Server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAPIFixture(t)
			f.auth.On("VerifyEmailOTP", mock.Anything, mock.Anything).Return(tt.err)

			rec := f.do(t, http.MethodPost, "/api/auth/verify-otp", `{"email":"ada@example.com","otp":"1234"}`, "")

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.message, decodeBody(t, rec)["error"])
		})
	}
}

func TestServiceErrorMapping_FieldErrorsStayInDetails(t *testing.T) {
	type registerBody struct {
		FirstName string `validate:"required"`
	}
	verr := services.NewValidationHelper().ValidateStruct(&registerBody{})
	require.ErrorIs(t, verr, services.ErrValidation)

	f := newAPIFixture(t)
	f.auth.On("VerifyEmailOTP", mock.Anything, mock.Anything).Return(verr)

	rec := f.do(t, http.MethodPost, "/api/auth/verify-otp", `{"email":"ada@example.com","otp":"1234"}`, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotContains(t, rec.Body.String(), "Key: ")
	body := decodeBody(t, rec)
	assert.Equal(t, "validation failed", body["error"])
	assert.Equal(t, map[string]any{"FirstName": "Field Validation Failed on 'required' tag"}, body["details"])
}

func TestAuthMessages(t *testing.T) {
	tests := []struct {
		path    string
		method  string
		body    string
		message string
	}{
		{"/api/auth/verify-otp", "VerifyEmailOTP", `{"email":"a@b.co","otp":"1234"}`, "Email verified successfully"},
		{"/api/auth/resend-otp", "ResendEmailOTP", `{"email":"a@b.co"}`, "New OTP has been sent to your email"},
		{"/api/auth/send-otp-phone", "SendPhoneOTP", `{"email":"a@b.co","phone":"+2348000000000"}`, "OTP generated (check console log)"},
		{"/api/auth/verify-otp-phone", "VerifyPhoneOTP", `{"email":"a@b.co","phone":"+2348000000000","otp":"1234"}`, "Phone number verified successfully"},
		{"/api/auth/resend-otp-phone", "ResendPhoneOTP", `{"email":"a@b.co","phone":"+2348000000000"}`, "New OTP generated (check console log)"},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			f := newAPIFixture(t)
			f.auth.On(tt.method, mock.Anything, mock.Anything).Return(nil)

			rec := f.do(t, http.MethodPost, tt.path, tt.body, "")

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.message, decodeBody(t, rec)["message"])
		})
	}
}

func TestSigninFlow(t *testing.T) {
	f := newAPIFixture(t)
	f.auth.On("SigninStart", mock.Anything, services.SigninRequest{Email: "ada@example.com", Password: "pw"}).
		Return(&services.SigninChallenge{Step: "VERIFY_OTP", Phone: "+2348012345678"}, nil)
	f.auth.On("SigninComplete", mock.Anything, services.VerifyLoginOTPRequest{Email: "ada@example.com", OTP: "4821"}).
		Return(&services.SigninResult{Token: "jwt", UserID: "u1"}, nil)

	rec := f.do(t, http.MethodPost, "/api/auth/signin", `{"email":"ada@example.com","password":"pw"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "VERIFY_OTP", body["step"])
	assert.Equal(t, "+2348012345678", body["phone"])

	rec = f.do(t, http.MethodPost, "/api/auth/verify-login-otp", `{"email":"ada@example.com","otp":"4821"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	assert.Equal(t, "Signin successful", body["message"])
	assert.Equal(t, "jwt", body["token"])
	assert.Nil(t, body["profileId"])
}

func TestLogout(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/api/auth/logout", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	f.auth.AssertNotCalled(t, "Logout", mock.Anything, mock.Anything)

	f.auth.On("Logout", mock.Anything, mock.AnythingOfType("string")).Return()
	rec = f.do(t, http.MethodPost, "/api/auth/logout", "", "u1")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Logout successful. Please delete token on client.", decodeBody(t, rec)["message"])
}

func TestListOffers(t *testing.T) {
	f := newAPIFixture(t)
	f.offers.On("ListActiveOffers", mock.Anything).Return([]services.OfferView{
		{AdsID: "AD-2", AssetType: "USDT", Seller: &services.SellerView{Username: "adaobi"}},
		{AdsID: "AD-1", AssetType: "BTC"},
	}, nil)

	rec := f.do(t, http.MethodGet, "/api/offers", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body OffersResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	require.Len(t, body.Offers, 2)
	assert.Equal(t, "adaobi", body.Offers[0].Seller.Username)
	assert.Nil(t, body.Offers[1].Seller)
}

func TestOfferQR(t *testing.T) {
	f := newAPIFixture(t)
	png := []byte("\x89PNG fake")
	f.offers.On("GenerateOfferQR", mock.Anything, "AD-1").Return(png, nil)
	f.offers.On("GenerateOfferQR", mock.Anything, "AD-404").Return(nil, fmt.Errorf("offer %w", services.ErrNotFound))

	rec := f.do(t, http.MethodGet, "/api/offers/AD-1/qr", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, png, rec.Body.Bytes())

	rec = f.do(t, http.MethodGet, "/api/offers/AD-404/qr", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddTransaction(t *testing.T) {
	f := newAPIFixture(t)
	entry := &models.Transaction{ID: "t1", Type: models.TransactionDeposit, Asset: "USDT", Amount: 50, Status: models.TransactionPending}
	f.ledger.On("RecordTransaction", mock.Anything, mock.MatchedBy(func(req services.RecordTransactionRequest) bool {
		return req.UserID == "u1" && req.Asset == "USDT" && req.Amount == 50
	})).Return(entry, nil)

	rec := f.do(t, http.MethodPost, "/api/transactions/add", `{"userId":"u1","type":"deposit","asset":"USDT","amount":50}`, "u1")

	require.Equal(t, http.StatusOK, rec.Code)
	var body TransactionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "t1", body.Transaction.ID)
	assert.Equal(t, models.TransactionPending, body.Transaction.Status)
}

func TestAddTransaction_RequiresAuth(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/api/transactions/add", `{"userId":"u1","type":"deposit","asset":"USDT","amount":50}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/transactions/add", `{"userId":"u1","type":"deposit","asset":"USDT","amount":50}`, "u2")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRecordAdAfterContract(t *testing.T) {
	f := newAPIFixture(t)
	offer := &models.Offer{AdsID: "AD-1", Status: models.OfferActive}
	result := &services.RecordAdResult{
		Offer:       offer,
		Transaction: models.Transaction{Type: models.TransactionAdPlacement, ValueInNaira: 150000},
	}
	f.ledger.On("RecordOfferFromChain", mock.Anything, mock.MatchedBy(func(req services.RecordAdRequest) bool {
		return req.AdsID == "AD-1" && req.PricePerUnit == 1500 && req.AvailableAmount == 100
	})).Return(result, nil)

	rec := f.do(t, http.MethodPost, "/api/transactions/recordAdAfterContract",
		`{"userId":"u1","adsId":"AD-1","assetType":"USDT","pricePerUnit":1500,"availableAmount":100}`, "u1")

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	tx := body["transaction"].(map[string]any)
	assert.Equal(t, "adPlacement", tx["type"])
	assert.Equal(t, 150000.0, tx["valueInNaira"])
	assert.Equal(t, "AD-1", body["offer"].(map[string]any)["adsId"])
}

func TestGetTransactions(t *testing.T) {
	f := newAPIFixture(t)
	f.ledger.On("GetTransactions", mock.Anything, "u1").Return(models.Transactions{{ID: "a"}, {ID: "b"}}, nil)

	rec := f.do(t, http.MethodGet, "/api/transactions/u1", "", "u1")
	require.Equal(t, http.StatusOK, rec.Code)
	var body TransactionsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Transactions, 2)
	assert.Equal(t, "a", body.Transactions[0].ID)

	rec = f.do(t, http.MethodGet, "/api/transactions/u2", "", "u1")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestProfiles(t *testing.T) {
	f := newAPIFixture(t)
	profile := &models.Profile{UserID: "u1", Username: "adaobi"}
	f.profiles.On("GetProfile", mock.Anything, "u1").Return(profile, nil)
	bio := "hello"
	f.profiles.On("UpdateProfile", mock.Anything, "u1", services.UpdateProfileRequest{Bio: &bio}).Return(profile, nil)

	rec := f.do(t, http.MethodGet, "/api/profiles/u1", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "adaobi", decodeBody(t, rec)["username"])

	rec = f.do(t, http.MethodPatch, "/api/profiles/u1", `{"bio":"hello"}`, "u1")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPatch, "/api/profiles/u1", `{"bio":"hello"}`, "u2")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestTraderStats(t *testing.T) {
	f := newAPIFixture(t)
	stats := &models.TraderStats{UserID: "u1", TotalOrders: 3, SuccessfulOrders: 1, PositivityRate: 33.33}
	f.profiles.On("GetTraderStats", mock.Anything, "u1").Return(stats, nil)
	f.profiles.On("GetTraderStats", mock.Anything, "u9").Return(nil, fmt.Errorf("trader stats %w", services.ErrNotFound))
	f.profiles.On("UpsertTraderStats", mock.Anything, "u1", mock.Anything).Return(stats, nil)

	rec := f.do(t, http.MethodGet, "/api/traders/u1/stats", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 33.33, decodeBody(t, rec)["positivityRate"])

	rec = f.do(t, http.MethodGet, "/api/traders/u9/stats", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodPut, "/api/traders/u1/stats",
		`{"totalOrders":3,"successfulOrders":1,"cancelledOrders":0,"bankDetails":{"bankName":"GTB","accountNumber":"0123456789","accountUsername":"adaobi"}}`, "u1")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTraderStats_PutAcceptsReadOnlyFields(t *testing.T) {
	f := newAPIFixture(t)
	stats := &models.TraderStats{UserID: "u1", TotalOrders: 3, SuccessfulOrders: 1, PositivityRate: 33.33}
	f.profiles.On("UpsertTraderStats", mock.Anything, "u1", mock.MatchedBy(func(req services.UpsertTraderStatsRequest) bool {
		return req.TotalOrders == 3 && req.SuccessfulOrders == 1
	})).Return(stats, nil)

	rec := f.do(t, http.MethodPut, "/api/traders/u1/stats",
		`{"userId":"u1","totalOrders":3,"successfulOrders":1,"cancelledOrders":0,"positivityRate":99,`+
			`"averageReleaseTime":0,"averagePaymentTime":0,"updatedAt":"2025-03-01T12:00:00Z",`+
			`"bankDetails":{"bankName":"GTB","accountNumber":"0123456789","accountUsername":"adaobi"}}`, "u1")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 33.33, decodeBody(t, rec)["positivityRate"])
	f.profiles.AssertExpectations(t)
}

func TestContractRoutes(t *testing.T) {
	f := newAPIFixture(t)
	f.contract.On("Info").Return(chain.ContractInfo{Address: "0xabc", ABI: json.RawMessage(`[]`)})
	f.contract.On("ReadAllAds", mock.Anything).Return([]chain.Ad{{ID: "1"}}, nil)
	f.contract.On("ReadAd", mock.Anything, "1").Return(&chain.Ad{ID: "1", Active: true}, nil)
	f.contract.On("ReadAd", mock.Anything, "x").Return(nil, fmt.Errorf("%w: %q", chain.ErrInvalidAdID, "x"))

	rec := f.do(t, http.MethodGet, "/api/contract/contract-info", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"address":"0xabc","abi":[]}`, rec.Body.String())

	rec = f.do(t, http.MethodGet, "/api/contract/ads", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/contract/ads/1", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["active"])

	rec = f.do(t, http.MethodGet, "/api/contract/ads/x", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestContractRoutes_NotConfigured(t *testing.T) {
	r := chi.NewRouter()
	h := NewContractHandler(nil)
	r.Get("/contract/ads", h.ListAds)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/contract/ads", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestServeWS_UsesTokenUser(t *testing.T) {
	f := newAPIFixture(t)
	f.socket.On("ServeWS", "u1").Return()
	token, err := f.tokens.Issue("u1", "u1@example.com")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ws?token="+token, nil))
	assert.Equal(t, http.StatusSwitchingProtocols, rec.Code)

	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ws", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHealth(t *testing.T) {
	ok := PingFunc(func(context.Context) error { return nil })
	down := PingFunc(func(context.Context) error { return errors.New("down") })

	rec := httptest.NewRecorder()
	Health(map[string]Pinger{"postgres": ok, "redis": nil})(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy","postgres":"ok"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	Health(map[string]Pinger{"postgres": ok, "redis": down})(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "unavailable", decodeBody(t, rec)["redis"])
}

func TestListBanks(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodGet, "/api/banks", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var banks []services.Bank
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &banks))
	assert.NotEmpty(t, banks)
	assert.Equal(t, "public, max-age=86400", rec.Header().Get("Cache-Control"))
}
