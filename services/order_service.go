package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/andrasetiawan/rentalku-api/models"
)

// StatusChange carries the optional metadata accepted alongside a status update
type StatusChange struct {
	Status             models.Status
	Notes              string
	PickupNotes        string
	ReturnNotes        string
	PickedUpAt         *time.Time
	ReturnedAt         *time.Time
	DamageFee          *float64
	LateFee            *float64
	ReturnAmount       *float64
	CollateralReturned *bool
	CollateralType     string
	CollateralDetails  string
}

// ApplyStatusChange validates the requested transition against the order's
// current status and mutates the order in place. Timestamps are stamped once:
// an existing PickedUpAt or ReturnedAt is never overwritten, so retrying the
// same request is a no-op.
func ApplyStatusChange(order *models.Order, change StatusChange) error {
	next, err := models.NextStatus(order.Status, change.Status)
	if err != nil {
		return err
	}
	order.Status = next

	if next == models.StatusPickuped && order.PickedUpAt == nil {
		if change.PickedUpAt != nil {
			order.PickedUpAt = change.PickedUpAt
		} else {
			now := clock.Now()
			order.PickedUpAt = &now
		}
	}
	if next == models.StatusReturned && order.ReturnedAt == nil {
		if change.ReturnedAt != nil {
			order.ReturnedAt = change.ReturnedAt
		} else {
			now := clock.Now()
			order.ReturnedAt = &now
		}
	}

	if change.Notes != "" {
		order.Notes = change.Notes
	}
	if change.PickupNotes != "" {
		order.PickupNotes = change.PickupNotes
	}
	if change.ReturnNotes != "" {
		order.ReturnNotes = change.ReturnNotes
	}
	if change.DamageFee != nil {
		order.DamageFee = *change.DamageFee
	}
	if change.LateFee != nil {
		order.LateFee = *change.LateFee
	}
	if change.ReturnAmount != nil {
		order.ReturnAmount = change.ReturnAmount
	}
	if change.CollateralReturned != nil {
		order.CollateralReturned = *change.CollateralReturned
	}
	if change.CollateralType != "" {
		order.CollateralType = change.CollateralType
	}
	if change.CollateralDetails != "" {
		order.CollateralDetails = change.CollateralDetails
	}

	return nil
}

// ReleasesStock reports whether moving to status gives rented/reserved
// units back to the outlet's stock
func ReleasesStock(orderType string, status models.Status) bool {
	switch status {
	case models.StatusCancelled:
		return true
	case models.StatusReturned:
		return orderType == models.OrderTypeRent
	}
	return false
}

// NewOrderNumber generates a unique order number like RNT-20240101-1A2B3C4D
func NewOrderNumber(orderType string, now time.Time) string {
	prefix := "RNT"
	if orderType == models.OrderTypeSale {
		prefix = "SLE"
	}
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return fmt.Sprintf("%s-%s-%s", prefix, now.Format("20060102"), id)
}
