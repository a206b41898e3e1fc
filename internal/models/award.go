package models

// Platform award event types delivered by the chat/event source.
const (
	AwardFollow  = "follow"
	AwardRaid    = "raid"
	AwardGiftSub = "gift_sub"
	AwardBits    = "bits"
)

// Sub tiers as the platform reports them.
const (
	SubTier1 = "1000"
	SubTier2 = "2000"
	SubTier3 = "3000"
)

// AwardMeta carries the per-type quantities of a platform award event.
type AwardMeta struct {
	Count  int    `json:"count,omitempty"`  // gift_sub
	Tier   string `json:"tier,omitempty"`   // gift_sub
	Amount int    `json:"amount,omitempty"` // bits
}

type AwardRequest struct {
	Type            string    `json:"type" binding:"required"`
	PlatformUserID  string    `json:"platform_user_id" binding:"required"`
	UserDisplayName string    `json:"user_display_name"`
	Meta            AwardMeta `json:"meta"`
}
