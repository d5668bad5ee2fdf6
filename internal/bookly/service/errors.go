package service

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrUserAlreadyExists  = errors.New("user_already_exists")
	ErrUserNotFound       = errors.New("user_not_found")
	ErrInvalidActionToken = errors.New("invalid_action_token")
	ErrPasswordMismatch   = errors.New("password_mismatch")
	ErrBookNotFound       = errors.New("book_not_found")
	ErrReviewNotFound     = errors.New("review_not_found")
	ErrTagNotFound        = errors.New("tag_not_found")
	ErrTagAlreadyExists   = errors.New("tag_already_exists")
	ErrForbidden          = errors.New("forbidden")
)
