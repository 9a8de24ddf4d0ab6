package models

import "time"

type WithdrawStatus string

const (
	WithdrawPending  WithdrawStatus = "pending"
	WithdrawApproved WithdrawStatus = "approved"
	WithdrawDeclined WithdrawStatus = "declined"
)

// Terminal reports whether the request has already been decided.
func (s WithdrawStatus) Terminal() bool {
	return s == WithdrawApproved || s == WithdrawDeclined
}

// WithdrawRequest snapshots the gift name and cost at purchase time, so later
// catalog changes never alter past requests.
type WithdrawRequest struct {
	ID        int64          `json:"id"`
	UserID    int64          `json:"user_id"`
	GiftKey   string         `json:"gift_key"`
	GiftName  string         `json:"gift_name"`
	Cost      int64          `json:"cost"`
	Status    WithdrawStatus `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
}
