package engine

import "github.com/queuebeat/backend/internal/models"

// ConvertPoints computes the point delta for a platform award event from the
// channel's configured rates. Pure; the clamp to the balance ceiling happens
// at award time.
//
// Semantics per type:
//   - follow:   flat prio_follow_points.
//   - raid:     flat prio_raid_points.
//   - gift_sub: count * per-tier points; the tier selects the rate, it does
//     not multiply on top of it.
//   - bits:     amount / prio_bits_per_point, integer division; a zero
//     divisor yields no points.
//
// A disabled or unknown event type yields 0.
func ConvertPoints(st *models.ChannelSettings, eventType string, meta models.AwardMeta) int {
	switch eventType {
	case models.AwardFollow:
		if !st.FollowEnabled {
			return 0
		}
		return st.PrioFollowPoints

	case models.AwardRaid:
		if !st.RaidEnabled {
			return 0
		}
		return st.PrioRaidPoints

	case models.AwardGiftSub:
		if !st.SubEnabled || meta.Count <= 0 {
			return 0
		}
		return meta.Count * subTierPoints(st, meta.Tier)

	case models.AwardBits:
		if !st.BitsEnabled || st.PrioBitsPerPoint <= 0 || meta.Amount <= 0 {
			return 0
		}
		return meta.Amount / st.PrioBitsPerPoint

	default:
		return 0
	}
}

func subTierPoints(st *models.ChannelSettings, tier string) int {
	switch tier {
	case models.SubTier2:
		return st.PrioSubTier2Points
	case models.SubTier3:
		return st.PrioSubTier3Points
	default:
		// Tier 1 and "Prime" style defaults share the base rate.
		return st.PrioSubTier1Points
	}
}
