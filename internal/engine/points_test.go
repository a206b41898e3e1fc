package engine_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/queuebeat/backend/internal/engine"
	"github.com/queuebeat/backend/internal/models"
)

func TestAwardGiftSubsAndBits(t *testing.T) {
	eng, _, ch := newTestEngine(t)
	updateSettings(t, eng, ch.ID, func(st *models.ChannelSettings) {
		st.SubEnabled = true
		st.PrioSubTier2Points = 1
		st.BitsEnabled = true
		st.PrioBitsPerPoint = 250
	})

	applied, err := eng.Award(ch.ID, "alice", "Alice", models.AwardGiftSub, models.AwardMeta{
		Count: 3,
		Tier:  models.SubTier2,
	})
	if err != nil {
		t.Fatalf("Award gift_sub error: %v", err)
	}
	if applied != 3 {
		t.Fatalf("gift_sub delta = %d, want 3", applied)
	}

	applied, err = eng.Award(ch.ID, "alice", "Alice", models.AwardBits, models.AwardMeta{Amount: 500})
	if err != nil {
		t.Fatalf("Award bits error: %v", err)
	}
	if applied != 2 {
		t.Fatalf("bits delta = %d, want 2", applied)
	}

	// Bits below the divisor yield nothing.
	applied, err = eng.Award(ch.ID, "alice", "Alice", models.AwardBits, models.AwardMeta{Amount: 249})
	if err != nil {
		t.Fatalf("Award bits error: %v", err)
	}
	if applied != 0 {
		t.Fatalf("sub-divisor bits delta = %d, want 0", applied)
	}
}

func TestAwardDisabledTypeIsSilent(t *testing.T) {
	eng, _, ch := newTestEngine(t)

	// Follow awards are disabled by default.
	applied, err := eng.Award(ch.ID, "alice", "Alice", models.AwardFollow, models.AwardMeta{})
	if err != nil {
		t.Fatalf("Award error: %v", err)
	}
	if applied != 0 {
		t.Fatalf("disabled award delta = %d, want 0", applied)
	}

	// No user.bump_awarded event was emitted.
	events, err := eng.Bus().Since(ch.ID, 0)
	if err != nil {
		t.Fatalf("Since error: %v", err)
	}
	for _, ev := range events {
		if ev.Type == models.EventBumpAwarded {
			t.Fatalf("disabled award emitted %s event", ev.Type)
		}
	}
}

func TestAwardClampsToCeiling(t *testing.T) {
	eng, _, ch := newTestEngine(t)
	updateSettings(t, eng, ch.ID, func(st *models.ChannelSettings) {
		st.MaxPrioPoints = 5
		st.FollowEnabled = true
		st.PrioFollowPoints = 4
	})

	if _, err := eng.Award(ch.ID, "alice", "Alice", models.AwardFollow, models.AwardMeta{}); err != nil {
		t.Fatalf("Award error: %v", err)
	}

	// Second award would land at 8; only 1 point fits under the ceiling and
	// the reported delta says so.
	applied, err := eng.Award(ch.ID, "alice", "Alice", models.AwardFollow, models.AwardMeta{})
	if err != nil {
		t.Fatalf("Award error: %v", err)
	}
	if applied != 1 {
		t.Fatalf("clamped delta = %d, want 1", applied)
	}
}

func TestTryDebit(t *testing.T) {
	eng, _, ch := newTestEngine(t)
	givePoints(t, eng, ch.ID, "alice", 3)

	ok, err := eng.TryDebit(ch.ID, "alice", 2)
	if err != nil {
		t.Fatalf("TryDebit error: %v", err)
	}
	if !ok {
		t.Fatalf("TryDebit refused with sufficient balance")
	}

	ok, err = eng.TryDebit(ch.ID, "alice", 2)
	if err != nil {
		t.Fatalf("TryDebit error: %v", err)
	}
	if ok {
		t.Fatalf("TryDebit granted with insufficient balance")
	}
}

func TestConcurrentAwardsAndDebitsRespectClamp(t *testing.T) {
	eng, mem, ch := newTestEngine(t)
	updateSettings(t, eng, ch.ID, func(st *models.ChannelSettings) {
		st.FollowEnabled = true
		st.PrioFollowPoints = 3
		st.MaxPrioPoints = 10
	})

	// Seed the user so concurrent debits never race its creation.
	first, err := eng.Award(ch.ID, "alice", "Alice", models.AwardFollow, models.AwardMeta{})
	if err != nil {
		t.Fatalf("Award error: %v", err)
	}

	var (
		wg      sync.WaitGroup
		applied = int64(first)
		debited int64
	)
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			delta, err := eng.Award(ch.ID, "alice", "Alice", models.AwardFollow, models.AwardMeta{})
			if err != nil {
				t.Errorf("Award error: %v", err)
				return
			}
			atomic.AddInt64(&applied, int64(delta))
		}()
		go func() {
			defer wg.Done()
			ok, err := eng.TryDebit(ch.ID, "alice", 2)
			if err != nil {
				t.Errorf("TryDebit error: %v", err)
				return
			}
			if ok {
				atomic.AddInt64(&debited, 2)
			}
		}()
	}
	wg.Wait()

	user, err := mem.GetUserByPlatformID(ch.ID, "alice")
	if err != nil {
		t.Fatalf("GetUserByPlatformID error: %v", err)
	}
	if user.PrioPoints < 0 || user.PrioPoints > 10 {
		t.Fatalf("balance %d outside [0, 10]", user.PrioPoints)
	}
	// Every applied delta and successful debit is accounted for, in any
	// interleaving.
	if int64(user.PrioPoints) != applied-debited {
		t.Fatalf("balance %d, want applied %d - debited %d", user.PrioPoints, applied, debited)
	}
}

func TestConvertPoints(t *testing.T) {
	st := &models.ChannelSettings{
		FollowEnabled:      true,
		RaidEnabled:        true,
		SubEnabled:         true,
		BitsEnabled:        true,
		PrioFollowPoints:   1,
		PrioRaidPoints:     2,
		PrioSubTier1Points: 1,
		PrioSubTier2Points: 2,
		PrioSubTier3Points: 6,
		PrioBitsPerPoint:   100,
	}

	tests := []struct {
		name      string
		eventType string
		meta      models.AwardMeta
		want      int
	}{
		{"follow", models.AwardFollow, models.AwardMeta{}, 1},
		{"raid", models.AwardRaid, models.AwardMeta{}, 2},
		{"gift sub tier1", models.AwardGiftSub, models.AwardMeta{Count: 2, Tier: models.SubTier1}, 2},
		{"gift sub tier3", models.AwardGiftSub, models.AwardMeta{Count: 2, Tier: models.SubTier3}, 12},
		{"gift sub unknown tier defaults to tier1", models.AwardGiftSub, models.AwardMeta{Count: 1, Tier: "Prime"}, 1},
		{"gift sub zero count", models.AwardGiftSub, models.AwardMeta{Tier: models.SubTier1}, 0},
		{"bits integer division", models.AwardBits, models.AwardMeta{Amount: 350}, 3},
		{"bits below divisor", models.AwardBits, models.AwardMeta{Amount: 99}, 0},
		{"unknown type", "hype_train", models.AwardMeta{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := engine.ConvertPoints(st, tt.eventType, tt.meta); got != tt.want {
				t.Fatalf("ConvertPoints(%s) = %d, want %d", tt.eventType, got, tt.want)
			}
		})
	}
}

func TestConvertPointsDisabledTypes(t *testing.T) {
	st := &models.ChannelSettings{
		PrioFollowPoints: 5,
		PrioBitsPerPoint: 100,
	}
	if got := engine.ConvertPoints(st, models.AwardFollow, models.AwardMeta{}); got != 0 {
		t.Fatalf("disabled follow = %d, want 0", got)
	}
	if got := engine.ConvertPoints(st, models.AwardBits, models.AwardMeta{Amount: 500}); got != 0 {
		t.Fatalf("disabled bits = %d, want 0", got)
	}
}
