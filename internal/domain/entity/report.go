package entity

import "time"

// ReportStatus статус обращения
type ReportStatus string

const (
	StatusReceived   ReportStatus = "RECEIVED"
	StatusPending    ReportStatus = "PENDING"
	StatusInProgress ReportStatus = "IN_PROGRESS"
	StatusCompleted  ReportStatus = "COMPLETED"
)

// ParseReportStatus проверяет строковый литерал статуса.
func ParseReportStatus(s string) (ReportStatus, bool) {
	switch ReportStatus(s) {
	case StatusReceived, StatusPending, StatusInProgress, StatusCompleted:
		return ReportStatus(s), true
	}
	return "", false
}

// Report — обращение по операции, проходящее рабочий цикл статусов.
// Операция может быть привязана максимум к одному обращению.
type Report struct {
	ID          uint   `gorm:"primaryKey"`
	OperationID uint   `gorm:"uniqueIndex;not null"`
	UserID      uint   `gorm:"index;not null"`
	Description string `gorm:"type:text"`
	CreatedAt   time.Time
	Status      ReportStatus `gorm:"type:varchar(20)"`
}

// NewReport создаёт обращение в начальном статусе RECEIVED.
func NewReport(operationID, userID uint, description string) *Report {
	return &Report{
		OperationID: operationID,
		UserID:      userID,
		Description: description,
		Status:      StatusReceived,
	}
}

// SetStatus переводит обращение в новый статус и возвращает прежний.
// Порядок переходов не ограничен: за любым статусом может следовать любой.
func (r *Report) SetStatus(status ReportStatus) ReportStatus {
	old := r.Status
	r.Status = status
	return old
}
