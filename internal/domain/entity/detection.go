package entity

import "fmt"

// RawDetection — сырой результат модели для одного объекта.
type RawDetection struct {
	ClassID    int
	Confidence float64
	X1         int // левый верхний угол рамки в пикселях
	Y1         int
	X2         int // правый нижний угол рамки в пикселях
	Y2         int
}

// DamageType тип повреждения дорожного покрытия
type DamageType string

const (
	DamageLongitudinalCrack DamageType = "Longitudinal Crack (D00)"
	DamageTransverseCrack   DamageType = "Transverse Crack (D10)"
	DamageAlligatorCrack    DamageType = "Alligator Crack (D20)"
	DamagePothole           DamageType = "Pothole (D40)"
	DamageRepaired          DamageType = "Repaired Damage"
	DamageUnknown           DamageType = "Unknown Damage Type"
)

// Таксономия модели фиксированная: пять классов, остальное — неизвестный тип.
var damageTypes = map[int]DamageType{
	0: DamageLongitudinalCrack,
	1: DamageTransverseCrack,
	2: DamageAlligatorCrack,
	3: DamagePothole,
	4: DamageRepaired,
}

// MapDamageType переводит class id модели в тип повреждения.
func MapDamageType(classID int) DamageType {
	if t, ok := damageTypes[classID]; ok {
		return t
	}
	return DamageUnknown
}

// DescribeConfidence форматирует уверенность модели для описания находки.
func DescribeConfidence(confidence float64) string {
	return fmt.Sprintf("Confidence: %.2f", confidence)
}

// NewFinding строит доменную запись находки из сырой детекции.
func NewFinding(imageID uint, det RawDetection) Finding {
	return Finding{
		OperationImageID:  imageID,
		DamageType:        string(MapDamageType(det.ClassID)),
		DamageDescription: DescribeConfidence(det.Confidence),
	}
}
