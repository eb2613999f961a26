package app

import "errors"

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrDuplicateAccount  = errors.New("username or email already taken")
	ErrInvalidCredential = errors.New("invalid username or password")
	ErrWrongPassword     = errors.New("incorrect password")
	ErrUserNotFound      = errors.New("user not found")
	ErrMessageNotFound   = errors.New("message not found")
	ErrOwnMessage        = errors.New("cannot like your own message")
	ErrNotMessageOwner   = errors.New("not the owner of this message")
	ErrSelfFollow        = errors.New("cannot follow yourself")
	ErrNotFollowing      = errors.New("not following this user")
)
