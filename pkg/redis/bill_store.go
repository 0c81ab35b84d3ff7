package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redisclient "github.com/redis/go-redis/v9"
	"github.com/superbill/pos-api/pkg/models"
)

// A billing snapshot is valid for exactly one checkout transition: PutSnapshot
// stores it, TakeSnapshot consumes it. A second read behaves the same as a
// checkout opened without a preceding cart. The pending copy survives until
// the bill is successfully submitted upstream, so a failed submission never
// loses the bill data.
const (
	snapshotTTL   = 15 * time.Minute
	pendingTTL    = 1 * time.Hour
	submitLockTTL = 30 * time.Second
)

var ErrSnapshotNotFound = errors.New("billing snapshot not found")

func snapshotKey(billID string) string {
	return fmt.Sprintf("pos:bill:%s", billID)
}

func pendingKey(billID string) string {
	return fmt.Sprintf("pos:bill:%s:pending", billID)
}

func submitLockKey(billID string) string {
	return fmt.Sprintf("pos:bill:%s:submitting", billID)
}

func (s *Store) PutSnapshot(ctx context.Context, snap *models.BillingSnapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal billing snapshot %s: %w", snap.BillID, err)
	}
	if err := s.client.Set(ctx, snapshotKey(snap.BillID), raw, snapshotTTL).Err(); err != nil {
		return fmt.Errorf("failed to store billing snapshot %s: %w", snap.BillID, err)
	}
	return nil
}

// TakeSnapshot consumes the one-shot snapshot. Absent or already consumed
// returns ErrSnapshotNotFound.
func (s *Store) TakeSnapshot(ctx context.Context, billID string) (*models.BillingSnapshot, error) {
	raw, err := s.client.GetDel(ctx, snapshotKey(billID)).Result()
	if errors.Is(err, redisclient.Nil) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to take billing snapshot %s: %w", billID, err)
	}

	var snap models.BillingSnapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal billing snapshot %s: %w", billID, err)
	}
	normalizeItems(snap.Items)
	return &snap, nil
}

func normalizeItems(items []models.CartLine) {
	for i := range items {
		items[i].Normalize()
	}
}

func (s *Store) PutPendingBill(ctx context.Context, snap *models.BillingSnapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal pending bill %s: %w", snap.BillID, err)
	}
	if err := s.client.Set(ctx, pendingKey(snap.BillID), raw, pendingTTL).Err(); err != nil {
		return fmt.Errorf("failed to store pending bill %s: %w", snap.BillID, err)
	}
	return nil
}

func (s *Store) GetPendingBill(ctx context.Context, billID string) (*models.BillingSnapshot, error) {
	raw, err := s.client.Get(ctx, pendingKey(billID)).Result()
	if errors.Is(err, redisclient.Nil) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pending bill %s: %w", billID, err)
	}

	var snap models.BillingSnapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pending bill %s: %w", billID, err)
	}
	normalizeItems(snap.Items)
	return &snap, nil
}

func (s *Store) DeletePendingBill(ctx context.Context, billID string) error {
	return s.client.Del(ctx, pendingKey(billID)).Err()
}

// AcquireSubmitLock guards against a second submission while one is in
// flight. The lock expires on its own so a crashed submitter never disables
// the submit affordance permanently.
func (s *Store) AcquireSubmitLock(ctx context.Context, billID string) (bool, error) {
	return s.client.SetNX(ctx, submitLockKey(billID), "1", submitLockTTL).Result()
}

func (s *Store) ReleaseSubmitLock(ctx context.Context, billID string) error {
	return s.client.Del(ctx, submitLockKey(billID)).Err()
}
