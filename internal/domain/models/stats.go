package models

// Stats is the aggregate snapshot rendered by the admin surfaces.
type Stats struct {
	Users        int64 `json:"users"`
	Verified     int64 `json:"verified"`
	CoinsPaidOut int64 `json:"coins_paid_out"`
	Withdraws    int64 `json:"withdraws"`
	Pending      int64 `json:"pending"`
	Approved     int64 `json:"approved"`
	Declined     int64 `json:"declined"`
}
