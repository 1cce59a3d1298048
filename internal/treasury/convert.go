package treasury

import (
	"fmt"
	"math"

	"github.com/solcade/treasury/internal/domain"
)

// toExternal converts an internal credit amount to external token units by
// the fixed scale factor. Amounts that do not divide evenly are rejected:
// truncating would silently discard remainder value smaller than the scale
// factor, and amounts below one external unit would round to zero.
func toExternal(amount, scale int64) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("%w: %d", domain.ErrInvalidAmount, amount)
	}
	if amount < scale {
		return 0, fmt.Errorf("%w: %d is below scale factor %d", domain.ErrAmountTooSmall, amount, scale)
	}
	if amount%scale != 0 {
		return 0, fmt.Errorf("%w: %d is not a multiple of scale factor %d", domain.ErrInvalidAmount, amount, scale)
	}
	return amount / scale, nil
}

// toInternal converts an external deposit amount into internal credit units.
func toInternal(amount, scale int64) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("%w: %d", domain.ErrInvalidAmount, amount)
	}
	if amount > math.MaxInt64/scale {
		return 0, fmt.Errorf("%w: %d exceeds the representable range at scale %d", domain.ErrInvalidAmount, amount, scale)
	}
	return amount * scale, nil
}
