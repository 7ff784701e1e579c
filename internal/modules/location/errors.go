package location

import "errors"

var (
	ErrNotFound           = errors.New("Joy topilmadi")
	ErrFieldsRequired     = errors.New("Barcha maydonlarni toldiring")
	ErrUnknownType        = errors.New("Noma'lum joy turi")
	ErrInvalidCoordinates = errors.New("Koordinatalar noto'g'ri")
	ErrInvalidQuery       = errors.New("lat va lon raqam bo'lishi kerak")
)
