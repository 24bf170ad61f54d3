package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError(t *testing.T) {
	verr := &ValidationError{}
	require.NoError(t, verr.OrNil())

	verr.Add("quantity", "must be greater than 0")
	verr.Add("price", "must be greater than 0")
	verr.Add("price", "must have at most 2 decimals")

	err := fmt.Errorf("creating listing: %w", verr.OrNil())
	var target *ValidationError
	require.ErrorAs(t, err, &target)
	assert.Len(t, target.Fields["price"], 2)
	assert.Equal(t,
		"validation failed: price: must be greater than 0, must have at most 2 decimals; quantity: must be greater than 0",
		target.Error())
}

func TestInvalidTransitionError(t *testing.T) {
	err := fmt.Errorf("wrapped: %w",
		NewInvalidTransitionError(StatusDomainOrder, string(OrderStatusShipped), string(OrderStatusCompleted)))

	assert.True(t, errors.Is(err, ErrInvalidTransition))
	assert.Contains(t, err.Error(), "from Shipped to Completed")
}

func TestStatusRegistry(t *testing.T) {
	for _, d := range StatusDomains() {
		codes := RegisteredStatusCodes(d)
		require.NotEmpty(t, codes, d)
		for _, c := range codes {
			assert.True(t, IsRegisteredStatus(d, c))
		}
	}
	assert.False(t, IsRegisteredStatus(StatusDomainOrder, "Lost"))

	// изменение возвращенного среза не портит реестр.
	codes := RegisteredStatusCodes(StatusDomainListing)
	codes[0] = "Broken"
	assert.True(t, IsRegisteredStatus(StatusDomainListing, string(ListingStatusActive)))
}
