package announcement

import "errors"

var ErrFieldsRequired = errors.New("Ma'lumotlarni to'ldiring")
