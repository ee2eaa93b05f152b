package domain

import "errors"

var (
	ErrDisplayNotFound = errors.New("display not found")
	ErrWidgetNotFound  = errors.New("widget not found")
)
