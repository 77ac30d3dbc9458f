package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMapDamageType(t *testing.T) {
	require.Equal(t, DamageLongitudinalCrack, MapDamageType(0))
	require.Equal(t, DamageTransverseCrack, MapDamageType(1))
	require.Equal(t, DamageAlligatorCrack, MapDamageType(2))
	require.Equal(t, DamagePothole, MapDamageType(3))
	require.Equal(t, DamageRepaired, MapDamageType(4))
	require.Equal(t, DamageUnknown, MapDamageType(5))
	require.Equal(t, DamageUnknown, MapDamageType(-1))
}

func TestDescribeConfidence(t *testing.T) {
	require.Equal(t, "Confidence: 0.87", DescribeConfidence(0.87))
	require.Equal(t, "Confidence: 0.91", DescribeConfidence(0.91))
	require.Equal(t, "Confidence: 1.00", DescribeConfidence(1))
}

func TestNewFinding(t *testing.T) {
	det := RawDetection{ClassID: 3, Confidence: 0.91, X1: 1, Y1: 2, X2: 3, Y2: 4}
	finding := NewFinding(7, det)

	require.Equal(t, uint(7), finding.OperationImageID)
	require.Equal(t, "Pothole (D40)", finding.DamageType)
	require.Equal(t, "Confidence: 0.91", finding.DamageDescription)
}
