package models

import "time"

type MergeRequest struct {
	DeviceID string `json:"deviceId"`
}

// AdjustedItem is a server-side change applied while folding the guest cart
// into the account cart (quantity capped, item no longer sold).
type AdjustedItem struct {
	ProductID         string `json:"productId"`
	ProductName       string `json:"productName,omitempty"`
	RequestedQuantity int    `json:"requestedQuantity"`
	AdjustedQuantity  int    `json:"adjustedQuantity"`
	Reason            string `json:"reason,omitempty"`
}

type MergeResponse struct {
	Success       bool           `json:"success"`
	AdjustedItems []AdjustedItem `json:"adjustedItems,omitempty"`
}

type MergeState string

const (
	MergeStateIdle                  MergeState = "idle"
	MergeStateMerging               MergeState = "merging"
	MergeStateMergedNoChange        MergeState = "merged_no_change"
	MergeStateMergedWithAdjustments MergeState = "merged_with_adjustments"
	MergeStateFailed                MergeState = "merge_failed"
)

type MergeResult struct {
	State         MergeState     `json:"state"`
	Adjustments   []AdjustedItem `json:"adjustments,omitempty"`
	RedirectAfter time.Duration  `json:"-"`
}

type AuthenticatedResponse struct {
	UserID          string         `json:"user_id,omitempty"`
	State           MergeState     `json:"state"`
	Adjustments     []AdjustedItem `json:"adjustments,omitempty"`
	RedirectAfterMs int64          `json:"redirect_after_ms"`
}

type DeviceResponse struct {
	DeviceID   string `json:"device_id"`
	Persistent bool   `json:"persistent"`
}
