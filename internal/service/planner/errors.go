package planner

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках планировщика
	ErrInternal = errors.New("planner.service: internal error")
)
