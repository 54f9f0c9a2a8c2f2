package generator

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках генерации
	ErrInternal = errors.New("generator.service: internal error")
)
