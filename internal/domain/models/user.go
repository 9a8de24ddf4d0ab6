package models

import (
	"database/sql"
	"time"
)

type User struct {
	UserID           int64          `json:"user_id"`
	Username         sql.NullString `json:"username"`
	Balance          int64          `json:"balance"`
	ReferrerID       sql.NullInt64  `json:"referrer_id"`
	Verified         bool           `json:"verified"`
	ReferralRewarded bool           `json:"referral_rewarded"`
	ReferralsCount   int64          `json:"referrals_count"`
	CreatedAt        time.Time      `json:"created_at"`
}
