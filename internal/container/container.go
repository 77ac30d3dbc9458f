package container

import (
	"time"

	app "road-vision/internal/application"
	"road-vision/internal/domain/port"
)

type Container struct {
	Pipeline   *app.DetectionPipeline
	Reports    *app.ReportService
	Dashboard  *app.DashboardService
	Operations port.OperationRepository
}

func New(
	ops port.OperationRepository,
	reports port.ReportRepository,
	detector port.DamageDetector,
	renderer port.BoxRenderer,
	artifacts port.ArtifactStore,
	detectTimeout time.Duration,
) *Container {
	return &Container{
		Pipeline:   app.NewDetectionPipeline(ops, detector, renderer, artifacts, detectTimeout),
		Reports:    app.NewReportService(reports, ops),
		Dashboard:  app.NewDashboardService(reports),
		Operations: ops,
	}
}
