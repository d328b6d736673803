package handler

import (
	"net/http"
	"strconv"

	"github.com/aluvasquez/schoolledger/internal/domain"
	"github.com/aluvasquez/schoolledger/internal/service"
	"github.com/labstack/echo/v4"
)

// RepresentativeHandler exposes the representative and student catalogues.
type RepresentativeHandler struct {
	representatives *service.RepresentativeService
	students        *service.StudentService
}

func NewRepresentativeHandler(representatives *service.RepresentativeService, students *service.StudentService) *RepresentativeHandler {
	return &RepresentativeHandler{representatives: representatives, students: students}
}

func (h *RepresentativeHandler) Create(c echo.Context) error {
	var rep domain.Representative
	if err := c.Bind(&rep); err != nil {
		return NewValidationError(c, "invalid request body", nil)
	}
	created, err := h.representatives.Create(&rep)
	if err != nil {
		return HandleError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *RepresentativeHandler) Get(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		return NewValidationError(c, "invalid id", nil)
	}
	rep, err := h.representatives.Get(int32(id))
	if err != nil {
		return HandleError(c, err)
	}
	return c.JSON(http.StatusOK, rep)
}

func (h *RepresentativeHandler) List(c echo.Context) error {
	filter := domain.RepresentativeFilter{}
	if search := c.QueryParam("search"); search != "" {
		filter.Search = &search
	}
	reps, err := h.representatives.List(filter)
	if err != nil {
		return HandleError(c, err)
	}
	return c.JSON(http.StatusOK, reps)
}

func (h *RepresentativeHandler) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		return NewValidationError(c, "invalid id", nil)
	}
	rep, err := h.representatives.Get(int32(id))
	if err != nil {
		return HandleError(c, err)
	}
	if err := c.Bind(rep); err != nil {
		return NewValidationError(c, "invalid request body", nil)
	}
	rep.ID = int32(id)
	updated, err := h.representatives.Update(rep)
	if err != nil {
		return HandleError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *RepresentativeHandler) CreateStudent(c echo.Context) error {
	var student domain.Student
	if err := c.Bind(&student); err != nil {
		return NewValidationError(c, "invalid request body", nil)
	}
	created, err := h.students.Create(&student)
	if err != nil {
		return HandleError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *RepresentativeHandler) GetStudent(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		return NewValidationError(c, "invalid id", nil)
	}
	student, err := h.students.Get(int32(id))
	if err != nil {
		return HandleError(c, err)
	}
	return c.JSON(http.StatusOK, student)
}

func (h *RepresentativeHandler) ListStudents(c echo.Context) error {
	filter := domain.StudentFilter{ActiveOnly: c.QueryParam("active_only") == "true"}
	if repID, err := strconv.ParseInt(c.QueryParam("representative_id"), 10, 32); err == nil {
		id := int32(repID)
		filter.RepresentativeID = &id
	}
	if gradeID, err := strconv.ParseInt(c.QueryParam("grade_level_id"), 10, 32); err == nil {
		id := int32(gradeID)
		filter.GradeLevelID = &id
	}
	students, err := h.students.List(filter)
	if err != nil {
		return HandleError(c, err)
	}
	return c.JSON(http.StatusOK, students)
}

func (h *RepresentativeHandler) UpdateStudent(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		return NewValidationError(c, "invalid id", nil)
	}
	student, err := h.students.Get(int32(id))
	if err != nil {
		return HandleError(c, err)
	}
	if err := c.Bind(student); err != nil {
		return NewValidationError(c, "invalid request body", nil)
	}
	student.ID = int32(id)
	updated, err := h.students.Update(student)
	if err != nil {
		return HandleError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}
