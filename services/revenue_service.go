package services

import (
	"time"

	"github.com/andrasetiawan/rentalku-api/models"
	"github.com/andrasetiawan/rentalku-api/utils"
)

// OrderRevenue computes the period-recognized net revenue of a single order.
//
// SALE orders count their full total regardless of status. RENT orders
// recognize revenue incrementally over the lifecycle: only the deposit at
// reservation, the remaining rent plus the held security deposit at pickup,
// and the deposit/fee settlement delta at return. A rental picked up and
// returned on the same calendar day never recognized pickup revenue, so the
// whole total is recognized at return instead.
func OrderRevenue(o models.Order) float64 {
	if o.OrderType == models.OrderTypeSale {
		return utils.RoundCurrency(o.TotalAmount)
	}

	switch o.Status {
	case models.StatusReserved:
		return utils.RoundCurrency(o.DepositAmount)
	case models.StatusPickuped:
		return utils.RoundCurrency(o.TotalAmount - o.DepositAmount + o.SecurityDeposit)
	case models.StatusReturned, models.StatusCompleted:
		if o.PickedUpAt != nil && o.ReturnedAt != nil && sameCalendarDay(*o.PickedUpAt, *o.ReturnedAt) {
			return utils.RoundCurrency(o.TotalAmount - o.SecurityDeposit + o.DamageFee)
		}
		return utils.RoundCurrency(o.SecurityDeposit - o.DamageFee)
	}

	// CANCELLED orders contribute nothing
	return 0
}

// RevenueDate returns the date on which an order's revenue is recognized:
// pickup time for picked-up rentals, return time for returned ones,
// creation time otherwise.
func RevenueDate(o models.Order) time.Time {
	if o.OrderType == models.OrderTypeRent {
		switch o.Status {
		case models.StatusPickuped:
			if o.PickedUpAt != nil {
				return *o.PickedUpAt
			}
		case models.StatusReturned, models.StatusCompleted:
			if o.ReturnedAt != nil {
				return *o.ReturnedAt
			}
		}
	}
	return o.CreatedAt
}

// PeriodRevenue sums per-order revenue across orders whose revenue date
// falls within [from, to]
func PeriodRevenue(orders []models.Order, from, to time.Time) float64 {
	var total float64
	for _, o := range orders {
		d := RevenueDate(o)
		if d.Before(from) || d.After(to) {
			continue
		}
		total += OrderRevenue(o)
	}
	return utils.RoundCurrency(total)
}

// GrowthPercent computes percentage growth of current over previous,
// returning 0 when there is no prior baseline
func GrowthPercent(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return utils.RoundCurrency((current - previous) / previous * 100)
}

// sameCalendarDay reports whether a and b fall on the same calendar day in
// a's location
func sameCalendarDay(a, b time.Time) bool {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
