package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	app "road-vision/internal/application"
	"road-vision/internal/domain/entity"
)

type findingResponse struct {
	DamageType        string `json:"damage_type"`
	DamageDescription string `json:"damage_description"`
}

type operationImageResponse struct {
	ID          uint              `json:"id"`
	Longitude   float64           `json:"longitude"`
	Latitude    float64           `json:"latitude"`
	OriginalURL string            `json:"original_url"`
	OperatedURL *string           `json:"operated_url"` // null, пока разметки нет
	Findings    []findingResponse `json:"findings"`
}

type operationResponse struct {
	ID              uint                     `json:"id"`
	ProcessedImages int                      `json:"processed_images"`
	Images          []operationImageResponse `json:"images"`
}

type reportResponse struct {
	ID          uint      `json:"id"`
	OperationID uint      `json:"operation_id"`
	UserID      uint      `json:"user_id"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

type statusChangeResponse struct {
	ReportID  uint   `json:"report_id"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
}

// handleCreateOperation принимает multipart-партию снимков с координатами.
func (s *Server) handleCreateOperation(c echo.Context) error {
	longitude, err := strconv.ParseFloat(c.FormValue("longitude"), 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "longitude is required"})
	}
	latitude, err := strconv.ParseFloat(c.FormValue("latitude"), 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "latitude is required"})
	}
	if longitude < -180 || longitude > 180 || latitude < -90 || latitude > 90 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "coordinates are out of range"})
	}

	form, err := c.MultipartForm()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "multipart form expected"})
	}
	files := form.File["images"]
	if len(files) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "at least one image is required"})
	}

	uploads := make([]app.ImageUpload, 0, len(files))
	for _, fh := range files {
		src, err := fh.Open()
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "failed to read uploaded file"})
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "failed to read uploaded file"})
		}
		uploads = append(uploads, app.ImageUpload{
			Data:        data,
			ContentType: fh.Header.Get("Content-Type"),
		})
	}

	ctx := c.Request().Context()
	op, summary, err := s.services.Pipeline.Process(ctx, uploads, longitude, latitude)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	// Перечитываем операцию: снимки и находки собраны пайплайном.
	full, err := s.services.Operations.GetOperation(ctx, op.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusCreated, s.toOperationResponse(c, full, summary))
}

func (s *Server) toOperationResponse(c echo.Context, op *entity.Operation, summary app.BatchSummary) operationResponse {
	resp := operationResponse{
		ID:              op.ID,
		ProcessedImages: summary.SuccessCount(),
		Images:          make([]operationImageResponse, 0, len(op.Images)),
	}
	for i := range op.Images {
		img := &op.Images[i]
		imgResp := operationImageResponse{
			ID:          img.ID,
			Longitude:   img.Longitude,
			Latitude:    img.Latitude,
			OriginalURL: s.mediaURL(c, img.OriginalPath),
			Findings:    make([]findingResponse, 0, len(img.Findings)),
		}
		if img.Annotated() {
			url := s.mediaURL(c, img.OperatedPath)
			imgResp.OperatedURL = &url
		}
		for _, f := range img.Findings {
			imgResp.Findings = append(imgResp.Findings, findingResponse{
				DamageType:        f.DamageType,
				DamageDescription: f.DamageDescription,
			})
		}
		resp.Images = append(resp.Images, imgResp)
	}
	return resp
}

// mediaURL строит абсолютную ссылку на сохранённый снимок.
func (s *Server) mediaURL(c echo.Context, key string) string {
	base := s.baseURL
	if base == "" {
		base = c.Scheme() + "://" + c.Request().Host
	}
	return base + "/media/" + key
}

type submitReportRequest struct {
	OperationID uint   `json:"operation_id"`
	Description string `json:"description"`
}

func (s *Server) handleSubmitReport(c echo.Context) error {
	var req submitReportRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request format"})
	}

	report, err := s.services.Reports.Submit(c.Request().Context(), actorFrom(c), req.OperationID, req.Description)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, toReportResponse(report))
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) handleUpdateReportStatus(c echo.Context) error {
	reportID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid report id"})
	}

	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request format"})
	}

	change, err := s.services.Reports.UpdateStatus(c.Request().Context(), actorFrom(c), uint(reportID), req.Status)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(http.StatusOK, statusChangeResponse{
		ReportID:  change.ReportID,
		OldStatus: string(change.Old),
		NewStatus: string(change.New),
	})
}

func (s *Server) handleListReports(c echo.Context) error {
	reports, err := s.services.Reports.List(c.Request().Context(), actorFrom(c), c.QueryParam("status"))
	if err != nil {
		return serviceError(c, err)
	}

	resp := make([]reportResponse, 0, len(reports))
	for i := range reports {
		resp = append(resp, toReportResponse(&reports[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleGetReport(c echo.Context) error {
	reportID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid report id"})
	}

	report, err := s.services.Reports.Get(c.Request().Context(), actorFrom(c), uint(reportID))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, toReportResponse(report))
}

func (s *Server) handleDashboardStats(c echo.Context) error {
	summary, err := s.services.Dashboard.Summarize(c.Request().Context(), actorFrom(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}

func toReportResponse(report *entity.Report) reportResponse {
	return reportResponse{
		ID:          report.ID,
		OperationID: report.OperationID,
		UserID:      report.UserID,
		Description: report.Description,
		Status:      string(report.Status),
		CreatedAt:   report.CreatedAt,
	}
}

// serviceError переводит ошибки приложения в HTTP-коды.
func serviceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, app.ErrPermissionDenied):
		return c.JSON(http.StatusForbidden, map[string]string{"error": err.Error()})
	case errors.Is(err, app.ErrReportNotFound), errors.Is(err, app.ErrOperationNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, app.ErrOperationClaimed):
		return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, app.ErrInvalidStatus):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}
