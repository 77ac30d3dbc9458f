package entity

// Operation — одна отправка партии геопривязанных снимков.
// Запись создаётся до обработки и существует независимо от того,
// сколько снимков удалось обогатить детекциями.
type Operation struct {
	ID     uint             `gorm:"primaryKey"`
	Images []OperationImage `gorm:"foreignKey:OperationID;constraint:OnDelete:CASCADE"`
}

// OperationImage — снимок в составе операции.
// Координата общая на всю партию и проставляется при приёме.
type OperationImage struct {
	ID           uint `gorm:"primaryKey"`
	OperationID  uint `gorm:"index;not null"`
	Longitude    float64
	Latitude     float64
	OriginalPath string
	OperatedPath string    // пусто, пока разметка не выполнена
	Findings     []Finding `gorm:"foreignKey:OperationImageID;constraint:OnDelete:CASCADE"`
}

// Annotated сообщает, есть ли у снимка размеченная копия.
func (i *OperationImage) Annotated() bool {
	return i.OperatedPath != ""
}

// Finding — одно классифицированное повреждение на снимке.
// Запись неизменяема после создания.
type Finding struct {
	ID                uint   `gorm:"primaryKey"`
	OperationImageID  uint   `gorm:"index;not null"`
	DamageType        string `gorm:"type:varchar(100)"`
	DamageDescription string `gorm:"type:text"`
}
