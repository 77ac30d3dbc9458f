package entity

// User представляет пользователя сервиса
type User struct {
	ID       uint   `gorm:"primaryKey"`
	Username string `gorm:"uniqueIndex"`
	IsWorker bool // работник проверяет обращения, но не создаёт их
}

// NewUser создаёт пользователя с обычной ролью
func NewUser(username string) *User {
	return &User{Username: username}
}

// CanSubmitReport: обращения создают только обычные пользователи.
func CanSubmitReport(u *User) bool {
	return u != nil && !u.IsWorker
}

// CanUpdateReportStatus: статус обращения меняет только работник.
func CanUpdateReportStatus(u *User) bool {
	return u != nil && u.IsWorker
}

// CanViewAllReports: работник видит все обращения, остальные — только свои.
func CanViewAllReports(u *User) bool {
	return u != nil && u.IsWorker
}

// CanViewDashboard: сводная статистика доступна только работнику.
func CanViewDashboard(u *User) bool {
	return u != nil && u.IsWorker
}
