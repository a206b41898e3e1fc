package engine

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/queuebeat/backend/internal/models"
)

// Award converts a platform event into priority points for the user and
// clamps the balance to [0, max_prio_points]. A disabled award type is a
// silent no-op: zero delta, no event. The emitted delta is the applied one,
// so a clamped award reports what actually landed.
func (e *Engine) Award(channelID uuid.UUID, platformUserID, displayName, eventType string, meta models.AwardMeta) (int, error) {
	var applied int

	err := e.withChannelLock(channelID, func() error {
		st, err := e.store.GetSettings(channelID)
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}

		delta := ConvertPoints(st, eventType, meta)
		if delta <= 0 {
			return nil
		}

		user, err := e.getOrCreateUser(channelID, platformUserID, displayName)
		if err != nil {
			return err
		}

		before := user.PrioPoints
		user.PrioPoints = clampPoints(before+delta, st.MaxPrioPoints)
		applied = user.PrioPoints - before
		if err := e.store.UpdateUser(user); err != nil {
			return fmt.Errorf("failed to update user points: %w", err)
		}

		_, err = e.bus.Publish(channelID, models.EventBumpAwarded, &user.ID, models.BumpAwardedPayload{
			User:       *user,
			Delta:      applied,
			PrioPoints: user.PrioPoints,
		})
		return err
	})
	if err != nil {
		return 0, err
	}
	return applied, nil
}

// TryDebit atomically reduces the user's balance if it covers cost. A false
// return is not an error; callers use it for the paid-bump fallback.
func (e *Engine) TryDebit(channelID uuid.UUID, platformUserID string, cost int) (bool, error) {
	var ok bool

	err := e.withChannelLock(channelID, func() error {
		st, err := e.store.GetSettings(channelID)
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}
		user, err := e.store.GetUserByPlatformID(channelID, platformUserID)
		if err != nil {
			return fmt.Errorf("%w: user %s", ErrNotFound, platformUserID)
		}
		ok, err = e.debitLocked(st, user, cost)
		return err
	})
	if err != nil {
		return false, err
	}
	return ok, nil
}

// debitLocked is the in-lock debit used by Enqueue's paid bump. The
// playlist identity never pays for anything.
func (e *Engine) debitLocked(st *models.ChannelSettings, user *models.User, cost int) (bool, error) {
	if user.IsPlaylistUser() {
		return false, nil
	}
	if user.PrioPoints < cost {
		return false, nil
	}
	user.PrioPoints = clampPoints(user.PrioPoints-cost, st.MaxPrioPoints)
	if err := e.store.UpdateUser(user); err != nil {
		return false, fmt.Errorf("failed to debit points: %w", err)
	}
	return true, nil
}

func clampPoints(v, max int) int {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}
