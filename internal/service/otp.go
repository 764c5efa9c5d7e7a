package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/patrickmn/go-cache"
)

// OtpService holds short-lived one-time codes keyed by email. It is an
// explicitly time-bounded cache injected into the auth flow, never
// authoritative state: losing it only forces a re-request.
type OtpService struct {
	codes *cache.Cache
}

func NewOtpService(ttl time.Duration) *OtpService {
	return &OtpService{
		codes: cache.New(ttl, 2*ttl),
	}
}

// Request generates a fresh 6-digit code for the key, replacing any
// previous one. Delivery (email) is the caller's concern.
func (s *OtpService) Request(key string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	code := fmt.Sprintf("%06d", n.Int64())
	s.codes.Set(key, code, cache.DefaultExpiration)
	return code, nil
}

// Verify consumes the code on success: a code can be used once.
func (s *OtpService) Verify(key, code string) bool {
	stored, found := s.codes.Get(key)
	if !found {
		return false
	}
	if stored.(string) != code {
		return false
	}
	s.codes.Delete(key)
	return true
}
