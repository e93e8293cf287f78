package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/skip2/go-qrcode"
	"github.com/swap24/backend/internal/store"
)

const (
	qrImageSize = 256
	qrCacheTTL  = 5 * time.Minute
)

// QRService renders share codes for offers. PNGs are cached in Redis when available.
type QRService struct {
	offers    OfferRepository
	redis     *redis.Client
	publicURL string
}

func NewQRService(offers OfferRepository, redis *redis.Client, publicURL string) *QRService {
	return &QRService{
		offers:    offers,
		redis:     redis,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

// OfferLink is the URL a scanned code opens.
func (s *QRService) OfferLink(adsID string) string {
	return fmt.Sprintf("%s/offers/%s", s.publicURL, url.PathEscape(adsID))
}

// GenerateOfferQR returns a PNG QR code linking to the offer.
func (s *QRService) GenerateOfferQR(ctx context.Context, adsID string) ([]byte, error) {
	key := fmt.Sprintf("qr:offer:%s", adsID)
	if s.redis != nil {
		cached, err := s.redis.Get(ctx, key).Bytes()
		if err == nil {
			return cached, nil
		}
		if err != redis.Nil {
			return nil, err
		}
	}

	if _, err := s.offers.FindByAdsID(ctx, adsID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("offer %w", ErrNotFound)
		}
		return nil, err
	}

	png, err := qrcode.Encode(s.OfferLink(adsID), qrcode.Medium, qrImageSize)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		if err := s.redis.Set(ctx, key, png, qrCacheTTL).Err(); err != nil {
			return nil, err
		}
	}
	return png, nil
}
