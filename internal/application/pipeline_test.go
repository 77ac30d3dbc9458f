package app

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"road-vision/internal/domain/entity"
	"road-vision/internal/infrastructure/media"
	"road-vision/internal/infrastructure/storage"
)

type fakeDetector struct {
	detect func(imageData []byte) ([]entity.RawDetection, error)
}

func (d *fakeDetector) Detect(ctx context.Context, imageData []byte) ([]entity.RawDetection, error) {
	return d.detect(imageData)
}

type fakeRenderer struct {
	err error
}

func (r *fakeRenderer) Render(imageData []byte, detections []entity.RawDetection) ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}
	return append([]byte("annotated:"), imageData...), nil
}

func uploads(names ...string) []ImageUpload {
	result := make([]ImageUpload, 0, len(names))
	for _, name := range names {
		result = append(result, ImageUpload{Data: []byte(name), ContentType: "image/jpeg"})
	}
	return result
}

func TestPipeline_FindingsOnlyForDetectedImage(t *testing.T) {
	store := storage.NewMemoryStore()
	artifacts := media.NewMemoryStore()
	detector := &fakeDetector{detect: func(imageData []byte) ([]entity.RawDetection, error) {
		if bytes.Equal(imageData, []byte("img2")) {
			return []entity.RawDetection{{ClassID: 3, Confidence: 0.91, X1: 10, Y1: 10, X2: 50, Y2: 50}}, nil
		}
		return nil, nil
	}}
	pipeline := NewDetectionPipeline(store, detector, &fakeRenderer{}, artifacts, 0)
	ctx := context.Background()

	op, summary, err := pipeline.Process(ctx, uploads("img1", "img2", "img3"), 30.0, 31.0)
	require.NoError(t, err)
	require.Equal(t, 3, summary.SuccessCount())

	full, err := store.GetOperation(ctx, op.ID)
	require.NoError(t, err)
	require.Len(t, full.Images, 3)

	for _, img := range full.Images {
		require.Equal(t, 30.0, img.Longitude)
		require.Equal(t, 31.0, img.Latitude)
		require.NotEmpty(t, img.OriginalPath)
	}

	require.Empty(t, full.Images[0].Findings)
	require.False(t, full.Images[0].Annotated())
	require.Empty(t, full.Images[2].Findings)
	require.False(t, full.Images[2].Annotated())

	second := full.Images[1]
	require.Len(t, second.Findings, 1)
	require.Equal(t, "Pothole (D40)", second.Findings[0].DamageType)
	require.Equal(t, "Confidence: 0.91", second.Findings[0].DamageDescription)
	require.True(t, second.Annotated())

	annotated, ok := artifacts.Get(second.OperatedPath)
	require.True(t, ok)
	require.Equal(t, []byte("annotated:img2"), annotated)
}

func TestPipeline_DetectorFailureDoesNotAbortBatch(t *testing.T) {
	store := storage.NewMemoryStore()
	detector := &fakeDetector{detect: func(imageData []byte) ([]entity.RawDetection, error) {
		if bytes.Equal(imageData, []byte("img2")) {
			return nil, errors.New("inference crashed")
		}
		return nil, nil
	}}
	pipeline := NewDetectionPipeline(store, detector, &fakeRenderer{}, media.NewMemoryStore(), 0)
	ctx := context.Background()

	op, summary, err := pipeline.Process(ctx, uploads("img1", "img2", "img3"), 30.0, 31.0)
	require.NoError(t, err)
	require.Equal(t, 2, summary.SuccessCount())
	require.Len(t, summary.Results, 3)
	require.True(t, summary.Results[0].OK())
	require.False(t, summary.Results[1].OK())
	require.True(t, summary.Results[2].OK())

	// Снимок сохраняется даже когда детекция по нему упала.
	full, err := store.GetOperation(ctx, op.ID)
	require.NoError(t, err)
	require.Len(t, full.Images, 3)
}

func TestPipeline_ModelUnavailableDegradesGracefully(t *testing.T) {
	store := storage.NewMemoryStore()
	detector := &fakeDetector{detect: func(imageData []byte) ([]entity.RawDetection, error) {
		return nil, errors.New("model is not available")
	}}
	pipeline := NewDetectionPipeline(store, detector, &fakeRenderer{}, media.NewMemoryStore(), 0)
	ctx := context.Background()

	// Операция создаётся даже если модель недоступна для всей партии.
	op, summary, err := pipeline.Process(ctx, uploads("img1", "img2"), 30.0, 31.0)
	require.NoError(t, err)
	require.Equal(t, 0, summary.SuccessCount())

	full, err := store.GetOperation(ctx, op.ID)
	require.NoError(t, err)
	require.Len(t, full.Images, 2)
	for _, img := range full.Images {
		require.Empty(t, img.Findings)
		require.False(t, img.Annotated())
	}
}

func TestPipeline_AnnotationFailureIsNonFatal(t *testing.T) {
	store := storage.NewMemoryStore()
	detector := &fakeDetector{detect: func(imageData []byte) ([]entity.RawDetection, error) {
		return []entity.RawDetection{{ClassID: 0, Confidence: 0.5}}, nil
	}}
	renderer := &fakeRenderer{err: errors.New("draw failed")}
	pipeline := NewDetectionPipeline(store, detector, renderer, media.NewMemoryStore(), 0)
	ctx := context.Background()

	op, summary, err := pipeline.Process(ctx, uploads("img1"), 30.0, 31.0)
	require.NoError(t, err)
	require.Equal(t, 1, summary.SuccessCount())

	full, err := store.GetOperation(ctx, op.ID)
	require.NoError(t, err)
	require.Len(t, full.Images, 1)
	require.Len(t, full.Images[0].Findings, 1)
	require.False(t, full.Images[0].Annotated())
}
