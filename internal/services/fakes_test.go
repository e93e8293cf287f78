package services

import (
	"context"
	"sort"
	"sync"

	"github.com/swap24/backend/internal/models"
	"github.com/swap24/backend/internal/store"
)

// In-memory stand-ins for internal/store, keyed the same way the SQL is.

type fakeUsers struct {
	mu      sync.Mutex
	byEmail map[string]models.User
	created int
	saves   int
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byEmail: map[string]models.User{}}
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byEmail[email]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (f *fakeUsers) FindByEmailAndPhone(_ context.Context, email, phone string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byEmail[email]
	if !ok || u.Phone == nil || *u.Phone != phone {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (f *fakeUsers) CreateWithProfile(_ context.Context, user *models.User, _ *models.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byEmail[user.Email]; ok {
		return store.ErrDuplicate
	}
	f.byEmail[user.Email] = *user
	f.created++
	return nil
}

// SaveEmailVerification and SavePhoneVerification follow the column split and
// one-way flags of the SQL store.
func (f *fakeUsers) SaveEmailVerification(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.byEmail[user.Email]
	if !ok {
		return store.ErrNotFound
	}
	verified := cur.EmailVerification.Verified || user.EmailVerification.Verified
	cur.EmailVerification = user.EmailVerification
	cur.EmailVerification.Verified = verified
	f.byEmail[user.Email] = cur
	f.saves++
	return nil
}

func (f *fakeUsers) SavePhoneVerification(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.byEmail[user.Email]
	if !ok {
		return store.ErrNotFound
	}
	verified := user.PhoneVerification.Verified
	if samePhone(cur.Phone, user.Phone) {
		verified = verified || cur.PhoneVerification.Verified
	}
	cur.Phone = user.Phone
	cur.PhoneVerification = user.PhoneVerification
	cur.PhoneVerification.Verified = verified
	f.byEmail[user.Email] = cur
	f.saves++
	return nil
}

func samePhone(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func (f *fakeUsers) get(email string) models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byEmail[email]
}

// fakeProfiles holds profiles by owning user id.
type fakeProfiles struct {
	mu       sync.Mutex
	byUserID map[string]*models.Profile
}

func newFakeProfiles(profiles ...*models.Profile) *fakeProfiles {
	f := &fakeProfiles{byUserID: map[string]*models.Profile{}}
	for _, p := range profiles {
		f.byUserID[p.UserID] = p
	}
	return f
}

func (f *fakeProfiles) FindByUserID(_ context.Context, userID string) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byUserID[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *p
	cp.Transactions = append(models.Transactions{}, p.Transactions...)
	return &cp, nil
}

func (f *fakeProfiles) FindSummaryByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	p, err := f.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	p.Transactions = nil
	return p, nil
}

func (f *fakeProfiles) Transactions(_ context.Context, userID string) (models.Transactions, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byUserID[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return append(models.Transactions{}, p.Transactions...), nil
}

func (f *fakeProfiles) AppendTransaction(_ context.Context, userID string, entry models.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byUserID[userID]
	if !ok {
		return store.ErrNotFound
	}
	p.Transactions = append(p.Transactions, entry)
	return nil
}

func (f *fakeProfiles) Update(_ context.Context, profile *models.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byUserID[profile.UserID]; !ok {
		return store.ErrNotFound
	}
	cp := *profile
	f.byUserID[profile.UserID] = &cp
	return nil
}

// linkedUsers stores the profile half of CreateWithProfile as well.
type linkedUsers struct {
	*fakeUsers
	profiles *fakeProfiles
}

func (l *linkedUsers) CreateWithProfile(ctx context.Context, user *models.User, profile *models.Profile) error {
	if err := l.fakeUsers.CreateWithProfile(ctx, user, profile); err != nil {
		return err
	}
	l.profiles.mu.Lock()
	defer l.profiles.mu.Unlock()
	cp := *profile
	l.profiles.byUserID[profile.UserID] = &cp
	return nil
}

type fakeOffers struct {
	mu    sync.Mutex
	items []models.Offer
}

func (f *fakeOffers) Create(_ context.Context, offer *models.Offer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.items {
		if o.AdsID == offer.AdsID {
			return store.ErrDuplicate
		}
	}
	f.items = append(f.items, *offer)
	return nil
}

func (f *fakeOffers) ListByStatus(_ context.Context, status models.OfferStatus) ([]models.Offer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Offer{}
	for _, o := range f.items {
		if o.Status == status {
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeOffers) FindByAdsID(_ context.Context, adsID string) (*models.Offer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.items {
		if o.AdsID == adsID {
			return &o, nil
		}
	}
	return nil, store.ErrNotFound
}

type fakeStats struct {
	byUserID map[string]models.TraderStats
}

func (f *fakeStats) FindByUserID(_ context.Context, userID string) (*models.TraderStats, error) {
	st, ok := f.byUserID[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &st, nil
}

func (f *fakeStats) Upsert(_ context.Context, st *models.TraderStats) error {
	st.Recompute()
	if f.byUserID == nil {
		f.byUserID = map[string]models.TraderStats{}
	}
	f.byUserID[st.UserID] = *st
	return nil
}
