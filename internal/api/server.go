package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"road-vision/internal/container"
	"road-vision/internal/domain/entity"
	"road-vision/internal/domain/port"
)

const userContextKey = "actor"

// Server HTTP-интерфейс сервиса
type Server struct {
	echo     *echo.Echo
	services *container.Container
	users    port.UserRepository
	baseURL  string
}

// NewServer собирает роутер и middleware.
func NewServer(services *container.Container, users port.UserRepository, mediaDir, baseURL string) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	s := &Server{
		echo:     e,
		services: services,
		users:    users,
		baseURL:  baseURL,
	}

	e.GET("/health", s.handleHealth)
	e.Static("/media", mediaDir)

	g := e.Group("/api/v1", s.withUser)
	g.POST("/operations", s.handleCreateOperation)
	g.POST("/reports", s.handleSubmitReport)
	g.PATCH("/reports/:id/status", s.handleUpdateReportStatus)
	g.GET("/reports", s.handleListReports)
	g.GET("/reports/:id", s.handleGetReport)
	g.GET("/dashboard/stats", s.handleDashboardStats)

	return s
}

// Run запускает HTTP-сервер.
func (s *Server) Run(addr string) error {
	return s.echo.Start(addr)
}

// Handler отдаёт роутер; используется в тестах.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// withUser достаёт действующего пользователя из заголовка X-User-ID.
// Проверка учётных данных — забота внешнего сервиса аутентификации,
// сюда запросы приходят уже аутентифицированными.
func (s *Server) withUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := strconv.ParseUint(c.Request().Header.Get("X-User-ID"), 10, 64)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		}

		user, err := s.users.GetByID(c.Request().Context(), uint(id))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unknown user"})
		}

		c.Set(userContextKey, user)
		return next(c)
	}
}

func actorFrom(c echo.Context) *entity.User {
	user, _ := c.Get(userContextKey).(*entity.User)
	return user
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
