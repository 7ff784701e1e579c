package admin

import "errors"

var (
	ErrCredentialsRequired = errors.New("Login va parolni kiriting")
	ErrInvalidCredentials  = errors.New("Login yoki parol xato")
)

const resetDoneMessage = "Barcha ma'lumotlar o'chirildi!"
