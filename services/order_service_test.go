package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/andrasetiawan/rentalku-api/models"
)

func TestApplyStatusChange_StampsPickupTime(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 14, 30, 0, 0, time.UTC)
	SetClock(FixedClock{Time: fixed})
	defer SetClock(nil)

	order := models.Order{OrderType: models.OrderTypeRent, Status: models.StatusReserved}
	err := ApplyStatusChange(&order, StatusChange{Status: models.StatusPickuped})

	assert.NoError(t, err)
	assert.Equal(t, models.StatusPickuped, order.Status)
	assert.NotNil(t, order.PickedUpAt)
	assert.Equal(t, fixed, *order.PickedUpAt)
}

func TestApplyStatusChange_PickupTimestampIsIdempotent(t *testing.T) {
	first := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	SetClock(FixedClock{Time: first})
	defer SetClock(nil)

	order := models.Order{OrderType: models.OrderTypeRent, Status: models.StatusReserved}
	assert.NoError(t, ApplyStatusChange(&order, StatusChange{Status: models.StatusPickuped}))
	assert.Equal(t, first, *order.PickedUpAt)

	// Retry with a later clock: existing timestamp must survive
	SetClock(FixedClock{Time: first.Add(3 * time.Hour)})
	assert.NoError(t, ApplyStatusChange(&order, StatusChange{Status: models.StatusPickuped}))
	assert.Equal(t, first, *order.PickedUpAt)
}

func TestApplyStatusChange_ExplicitTimestampsUsedWhenUnset(t *testing.T) {
	SetClock(FixedClock{Time: time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC)})
	defer SetClock(nil)

	picked := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	order := models.Order{OrderType: models.OrderTypeRent, Status: models.StatusReserved}
	assert.NoError(t, ApplyStatusChange(&order, StatusChange{Status: models.StatusPickuped, PickedUpAt: &picked}))
	assert.Equal(t, picked, *order.PickedUpAt)

	returned := time.Date(2024, 5, 3, 17, 0, 0, 0, time.UTC)
	assert.NoError(t, ApplyStatusChange(&order, StatusChange{Status: models.StatusReturned, ReturnedAt: &returned}))
	assert.Equal(t, returned, *order.ReturnedAt)
}

func TestApplyStatusChange_ExplicitTimestampDoesNotOverwrite(t *testing.T) {
	existing := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	order := models.Order{
		OrderType:  models.OrderTypeRent,
		Status:     models.StatusPickuped,
		PickedUpAt: &existing,
	}

	later := existing.Add(24 * time.Hour)
	assert.NoError(t, ApplyStatusChange(&order, StatusChange{Status: models.StatusPickuped, PickedUpAt: &later}))
	assert.Equal(t, existing, *order.PickedUpAt)
}

func TestApplyStatusChange_RejectsIllegalTransition(t *testing.T) {
	order := models.Order{OrderType: models.OrderTypeRent, Status: models.StatusCompleted}
	err := ApplyStatusChange(&order, StatusChange{Status: models.StatusReserved})

	assert.Error(t, err)
	var invalid *models.ErrInvalidTransition
	assert.ErrorAs(t, err, &invalid)
	assert.Equal(t, models.StatusCompleted, order.Status, "order must be untouched after a rejected transition")
	assert.Nil(t, order.PickedUpAt)
}

func TestApplyStatusChange_SettlementFields(t *testing.T) {
	SetClock(FixedClock{Time: time.Date(2024, 5, 4, 10, 0, 0, 0, time.UTC)})
	defer SetClock(nil)

	damage := 15.0
	returnAmount := 35.0
	collateralBack := true

	order := models.Order{OrderType: models.OrderTypeRent, Status: models.StatusPickuped}
	err := ApplyStatusChange(&order, StatusChange{
		Status:             models.StatusReturned,
		ReturnNotes:        "scratched frame",
		DamageFee:          &damage,
		ReturnAmount:       &returnAmount,
		CollateralReturned: &collateralBack,
	})

	assert.NoError(t, err)
	assert.Equal(t, models.StatusReturned, order.Status)
	assert.Equal(t, "scratched frame", order.ReturnNotes)
	assert.Equal(t, 15.0, order.DamageFee)
	assert.Equal(t, 35.0, *order.ReturnAmount)
	assert.True(t, order.CollateralReturned)
	assert.NotNil(t, order.ReturnedAt)
}

func TestReleasesStock(t *testing.T) {
	assert.True(t, ReleasesStock(models.OrderTypeRent, models.StatusCancelled))
	assert.True(t, ReleasesStock(models.OrderTypeSale, models.StatusCancelled))
	assert.True(t, ReleasesStock(models.OrderTypeRent, models.StatusReturned))
	assert.False(t, ReleasesStock(models.OrderTypeSale, models.StatusReturned))
	assert.False(t, ReleasesStock(models.OrderTypeRent, models.StatusPickuped))
	assert.False(t, ReleasesStock(models.OrderTypeRent, models.StatusCompleted))
}

func TestNewOrderNumber(t *testing.T) {
	now := time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC)

	rent := NewOrderNumber(models.OrderTypeRent, now)
	assert.True(t, strings.HasPrefix(rent, "RNT-20240715-"), rent)
	assert.Len(t, rent, len("RNT-20240715-")+8)

	sale := NewOrderNumber(models.OrderTypeSale, now)
	assert.True(t, strings.HasPrefix(sale, "SLE-20240715-"), sale)

	// Suffixes must differ between calls
	assert.NotEqual(t, NewOrderNumber(models.OrderTypeRent, now), NewOrderNumber(models.OrderTypeRent, now))
}
