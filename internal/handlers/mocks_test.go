package handlers

import (
	"context"
	"net/http"

	"github.com/stretchr/testify/mock"
	"github.com/swap24/backend/internal/chain"
	"github.com/swap24/backend/internal/models"
	"github.com/swap24/backend/internal/services"
)

type MockAuth struct{ mock.Mock }

func (m *MockAuth) Register(ctx context.Context, req services.RegisterRequest) (*services.RegisterResult, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*services.RegisterResult)
	return res, args.Error(1)
}

func (m *MockAuth) VerifyEmailOTP(ctx context.Context, req services.VerifyEmailOTPRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockAuth) ResendEmailOTP(ctx context.Context, req services.ResendEmailOTPRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockAuth) SendPhoneOTP(ctx context.Context, req services.SendPhoneOTPRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockAuth) VerifyPhoneOTP(ctx context.Context, req services.VerifyPhoneOTPRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockAuth) ResendPhoneOTP(ctx context.Context, req services.ResendPhoneOTPRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockAuth) SigninStart(ctx context.Context, req services.SigninRequest) (*services.SigninChallenge, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*services.SigninChallenge)
	return res, args.Error(1)
}

func (m *MockAuth) SigninComplete(ctx context.Context, req services.VerifyLoginOTPRequest) (*services.SigninResult, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*services.SigninResult)
	return res, args.Error(1)
}

func (m *MockAuth) Logout(ctx context.Context, token string) {
	m.Called(ctx, token)
}

type MockOffers struct{ mock.Mock }

func (m *MockOffers) ListActiveOffers(ctx context.Context) ([]services.OfferView, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).([]services.OfferView)
	return res, args.Error(1)
}

func (m *MockOffers) GenerateOfferQR(ctx context.Context, adsID string) ([]byte, error) {
	args := m.Called(ctx, adsID)
	res, _ := args.Get(0).([]byte)
	return res, args.Error(1)
}

type MockLedger struct{ mock.Mock }

func (m *MockLedger) RecordTransaction(ctx context.Context, req services.RecordTransactionRequest) (*models.Transaction, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*models.Transaction)
	return res, args.Error(1)
}

func (m *MockLedger) RecordOfferFromChain(ctx context.Context, req services.RecordAdRequest) (*services.RecordAdResult, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*services.RecordAdResult)
	return res, args.Error(1)
}

func (m *MockLedger) GetTransactions(ctx context.Context, userID string) (models.Transactions, error) {
	args := m.Called(ctx, userID)
	res, _ := args.Get(0).(models.Transactions)
	return res, args.Error(1)
}

type MockProfiles struct{ mock.Mock }

func (m *MockProfiles) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	args := m.Called(ctx, userID)
	res, _ := args.Get(0).(*models.Profile)
	return res, args.Error(1)
}

func (m *MockProfiles) UpdateProfile(ctx context.Context, userID string, req services.UpdateProfileRequest) (*models.Profile, error) {
	args := m.Called(ctx, userID, req)
	res, _ := args.Get(0).(*models.Profile)
	return res, args.Error(1)
}

func (m *MockProfiles) GetTraderStats(ctx context.Context, userID string) (*models.TraderStats, error) {
	args := m.Called(ctx, userID)
	res, _ := args.Get(0).(*models.TraderStats)
	return res, args.Error(1)
}

func (m *MockProfiles) UpsertTraderStats(ctx context.Context, userID string, req services.UpsertTraderStatsRequest) (*models.TraderStats, error) {
	args := m.Called(ctx, userID, req)
	res, _ := args.Get(0).(*models.TraderStats)
	return res, args.Error(1)
}

type MockContract struct{ mock.Mock }

func (m *MockContract) Info() chain.ContractInfo {
	return m.Called().Get(0).(chain.ContractInfo)
}

func (m *MockContract) ReadAd(ctx context.Context, id string) (*chain.Ad, error) {
	args := m.Called(ctx, id)
	res, _ := args.Get(0).(*chain.Ad)
	return res, args.Error(1)
}

func (m *MockContract) ReadAllAds(ctx context.Context) ([]chain.Ad, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).([]chain.Ad)
	return res, args.Error(1)
}

type MockSocket struct{ mock.Mock }

func (m *MockSocket) ServeWS(w http.ResponseWriter, r *http.Request, userID string) {
	m.Called(userID)
	w.WriteHeader(http.StatusSwitchingProtocols)
}
