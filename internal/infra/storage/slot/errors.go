package slot

import "errors"

var (
	// ErrNoTransaction возвращается, если операция требует активной транзакции
	ErrNoTransaction = errors.New("slot.repository: operation requires a transaction")

	// ErrSerializationFailure возвращается при конфликте сериализации или deadlock, операцию можно повторить
	ErrSerializationFailure = errors.New("slot.repository: serialization failure")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("slot.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("slot.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("slot.repository: failed to scan row")
)
