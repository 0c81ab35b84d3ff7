package redis

import (
	"context"
	"errors"

	redisclient "github.com/redis/go-redis/v9"
)

// The vendor identity is a single process-wide cell with no expiry,
// overwritten unconditionally at startup.
const vendorEmailKey = "pos:vendor:email"

var ErrVendorEmailNotSet = errors.New("vendor email not set")

func (s *Store) SetVendorEmail(ctx context.Context, email string) error {
	return s.client.Set(ctx, vendorEmailKey, email, 0).Err()
}

func (s *Store) GetVendorEmail(ctx context.Context) (string, error) {
	email, err := s.client.Get(ctx, vendorEmailKey).Result()
	if errors.Is(err, redisclient.Nil) {
		return "", ErrVendorEmailNotSet
	}
	if err != nil {
		return "", err
	}
	return email, nil
}
