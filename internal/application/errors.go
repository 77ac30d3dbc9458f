package app

import "errors"

// Ошибки уровня приложения; транспорт сопоставляет их с HTTP-кодами.
var (
	ErrPermissionDenied  = errors.New("permission denied")
	ErrOperationNotFound = errors.New("operation not found")
	ErrOperationClaimed  = errors.New("operation already has a report")
	ErrReportNotFound    = errors.New("report not found")
	ErrInvalidStatus     = errors.New("invalid report status")
)
