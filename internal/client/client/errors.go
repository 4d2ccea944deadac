package client

import "errors"

var (
	ErrUnavailable     = errors.New("server unavailable")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrUnknownGateway  = errors.New("unknown gateway")
	ErrUnknownStore    = errors.New("unknown store")
)
