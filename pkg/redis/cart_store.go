package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/superbill/pos-api/pkg/models"
)

// Carts live in a hash of productId -> line JSON plus a list preserving the
// order products were first added. Both keys share a rolling TTL; a session
// that goes quiet is discarded, which is the "cart dropped on navigation
// away" lifecycle of the inventory screen.
const cartTTL = 1 * time.Hour

func cartKey(sessionID string) string {
	return fmt.Sprintf("pos:cart:%s", sessionID)
}

func cartOrderKey(sessionID string) string {
	return fmt.Sprintf("pos:cart:%s:order", sessionID)
}

// LoadCart returns the stored cart lines in insertion order. A missing or
// expired cart loads as empty, not as an error.
func (s *Store) LoadCart(ctx context.Context, sessionID string) ([]models.CartLine, error) {
	fields, err := s.client.HGetAll(ctx, cartKey(sessionID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load cart %s: %w", sessionID, err)
	}
	if len(fields) == 0 {
		return nil, nil
	}

	order, err := s.client.LRange(ctx, cartOrderKey(sessionID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load cart order %s: %w", sessionID, err)
	}

	lines := make([]models.CartLine, 0, len(order))
	for _, productID := range order {
		raw, ok := fields[productID]
		if !ok {
			continue
		}
		var line models.CartLine
		if err := json.Unmarshal([]byte(raw), &line); err != nil {
			log.Printf("Warning: dropping unreadable cart line %s in session %s: %v", productID, sessionID, err)
			continue
		}
		// Parsed price values are derived, not stored.
		line.Normalize()
		lines = append(lines, line)
	}
	return lines, nil
}

// SaveCart replaces the stored cart with the given lines and refreshes the
// session TTL. Saving an empty cart clears the keys.
func (s *Store) SaveCart(ctx context.Context, sessionID string, lines []models.CartLine) error {
	key := cartKey(sessionID)
	orderKey := cartOrderKey(sessionID)

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, key, orderKey)

	if len(lines) > 0 {
		fields := make(map[string]interface{}, len(lines))
		order := make([]interface{}, 0, len(lines))
		for _, line := range lines {
			raw, err := json.Marshal(line)
			if err != nil {
				return fmt.Errorf("failed to marshal cart line %s: %w", line.ProductID, err)
			}
			fields[string(line.ProductID)] = raw
			order = append(order, string(line.ProductID))
		}
		pipe.HSet(ctx, key, fields)
		pipe.RPush(ctx, orderKey, order...)
		pipe.Expire(ctx, key, cartTTL)
		pipe.Expire(ctx, orderKey, cartTTL)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save cart %s: %w", sessionID, err)
	}
	return nil
}

func (s *Store) ClearCart(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, cartKey(sessionID), cartOrderKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to clear cart %s: %w", sessionID, err)
	}
	return nil
}
