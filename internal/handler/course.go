package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-reservation/internal/repository"
)

// CourseHandler exposes the course catalog to authenticated users.
type CourseHandler struct {
	Courses *repository.CourseRepo
}

func NewCourseHandler(courses *repository.CourseRepo) *CourseHandler {
	if courses == nil {
		panic("nil course repository passed to NewCourseHandler")
	}
	return &CourseHandler{Courses: courses}
}

// List handles GET /v1/courses.
func (h *CourseHandler) List(c echo.Context) error {
	list, err := h.Courses.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"courses": list})
}
