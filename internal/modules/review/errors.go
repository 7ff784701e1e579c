package review

import "errors"

// Validation errors carry the message shown to the user.
var (
	ErrRatingRequired   = errors.New("Iltimos, yulduzchalar sonini tanlang")
	ErrCategoryRequired = errors.New("Kategoriyani tanlang")
	ErrTextRequired     = errors.New("Izoh qoldiring")
	ErrLocationRequired = errors.New("Joy tanlanmagan")
)

// StaleAggregateWarning is returned with a saved review whose location
// rating could not be refreshed.
const StaleAggregateWarning = "Fikringiz saqlandi, lekin joy reytingi yangilanmadi"

func isValidationError(err error) bool {
	return errors.Is(err, ErrRatingRequired) ||
		errors.Is(err, ErrCategoryRequired) ||
		errors.Is(err, ErrTextRequired) ||
		errors.Is(err, ErrLocationRequired)
}
