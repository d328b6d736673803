package handler

import (
	"net/http"
	"strconv"

	"github.com/aluvasquez/schoolledger/internal/domain"
	"github.com/aluvasquez/schoolledger/internal/service"
	"github.com/labstack/echo/v4"
)

// PersonnelHandler exposes employees, departments, positions, and salary
// component catalogues.
type PersonnelHandler struct {
	employees  *service.EmployeeService
	departments *service.DepartmentService
	positions  *service.PositionService
	components *service.SalaryComponentService
}

func NewPersonnelHandler(
	employees *service.EmployeeService,
	departments *service.DepartmentService,
	positions *service.PositionService,
	components *service.SalaryComponentService,
) *PersonnelHandler {
	return &PersonnelHandler{employees: employees, departments: departments, positions: positions, components: components}
}

func (h *PersonnelHandler) CreateEmployee(c echo.Context) error {
	var emp domain.Employee
	if err := c.Bind(&emp); err != nil {
		return NewValidationError(c, "invalid request body", nil)
	}
	created, err := h.employees.Create(&emp)
	if err != nil {
		return HandleError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *PersonnelHandler) GetEmployee(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		return NewValidationError(c, "invalid id", nil)
	}
	emp, err := h.employees.Get(int32(id))
	if err != nil {
		return HandleError(c, err)
	}
	return c.JSON(http.StatusOK, emp)
}

func (h *PersonnelHandler) ListEmployees(c echo.Context) error {
	filter := domain.EmployeeFilter{ActiveOnly: c.QueryParam("active_only") == "true"}
	if deptID, err := strconv.ParseInt(c.QueryParam("department_id"), 10, 32); err == nil {
		id := int32(deptID)
		filter.DepartmentID = &id
	}
	employees, err := h.employees.List(filter)
	if err != nil {
		return HandleError(c, err)
	}
	return c.JSON(http.StatusOK, employees)
}

func (h *PersonnelHandler) UpdateEmployee(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		return NewValidationError(c, "invalid id", nil)
	}
	emp, err := h.employees.Get(int32(id))
	if err != nil {
		return HandleError(c, err)
	}
	if err := c.Bind(emp); err != nil {
		return NewValidationError(c, "invalid request body", nil)
	}
	emp.ID = int32(id)
	updated, err := h.employees.Update(emp)
	if err != nil {
		return HandleError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *PersonnelHandler) CreateDepartment(c echo.Context) error {
	var dept domain.Department
	if err := c.Bind(&dept); err != nil {
		return NewValidationError(c, "invalid request body", nil)
	}
	created, err := h.departments.Create(&dept)
	if err != nil {
		return HandleError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *PersonnelHandler) ListDepartments(c echo.Context) error {
	depts, err := h.departments.List()
	if err != nil {
		return HandleError(c, err)
	}
	return c.JSON(http.StatusOK, depts)
}

func (h *PersonnelHandler) UpdateDepartment(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		return NewValidationError(c, "invalid id", nil)
	}
	var dept domain.Department
	if err := c.Bind(&dept); err != nil {
		return NewValidationError(c, "invalid request body", nil)
	}
	dept.ID = int32(id)
	updated, err := h.departments.Update(&dept)
	if err != nil {
		return HandleError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *PersonnelHandler) CreatePosition(c echo.Context) error {
	var pos domain.Position
	if err := c.Bind(&pos); err != nil {
		return NewValidationError(c, "invalid request body", nil)
	}
	created, err := h.positions.Create(&pos)
	if err != nil {
		return HandleError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *PersonnelHandler) ListPositionsByDepartment(c echo.Context) error {
	deptID, err := strconv.ParseInt(c.Param("departmentId"), 10, 32)
	if err != nil {
		return NewValidationError(c, "invalid department id", nil)
	}
	positions, err := h.positions.ListByDepartment(int32(deptID))
	if err != nil {
		return HandleError(c, err)
	}
	return c.JSON(http.StatusOK, positions)
}

func (h *PersonnelHandler) UpdatePosition(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		return NewValidationError(c, "invalid id", nil)
	}
	var pos domain.Position
	if err := c.Bind(&pos); err != nil {
		return NewValidationError(c, "invalid request body", nil)
	}
	pos.ID = int32(id)
	updated, err := h.positions.Update(&pos)
	if err != nil {
		return HandleError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *PersonnelHandler) CreateSalaryComponentDefinition(c echo.Context) error {
	var def domain.SalaryComponentDefinition
	if err := c.Bind(&def); err != nil {
		return NewValidationError(c, "invalid request body", nil)
	}
	created, err := h.components.CreateDefinition(&def)
	if err != nil {
		return HandleError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *PersonnelHandler) ListSalaryComponentDefinitions(c echo.Context) error {
	defs, err := h.components.ListDefinitions()
	if err != nil {
		return HandleError(c, err)
	}
	return c.JSON(http.StatusOK, defs)
}

func (h *PersonnelHandler) AssignSalaryComponent(c echo.Context) error {
	var assignment domain.EmployeeSalaryComponent
	if err := c.Bind(&assignment); err != nil {
		return NewValidationError(c, "invalid request body", nil)
	}
	created, err := h.components.AssignToEmployee(&assignment)
	if err != nil {
		return HandleError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *PersonnelHandler) ListEmployeeSalaryComponents(c echo.Context) error {
	employeeID, err := strconv.ParseInt(c.Param("employeeId"), 10, 32)
	if err != nil {
		return NewValidationError(c, "invalid employee id", nil)
	}
	components, err := h.components.ListForEmployee(int32(employeeID))
	if err != nil {
		return HandleError(c, err)
	}
	return c.JSON(http.StatusOK, components)
}

func (h *PersonnelHandler) RemoveSalaryComponentAssignment(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		return NewValidationError(c, "invalid id", nil)
	}
	if err := h.components.RemoveAssignment(int32(id)); err != nil {
		return HandleError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
