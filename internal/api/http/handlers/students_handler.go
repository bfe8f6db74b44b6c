package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cforclown/school-admin/internal/api/dto"
	"github.com/cforclown/school-admin/internal/service"
)

// StudentsHandler exposes student master data.
type StudentsHandler struct {
	students *service.StudentService
}

// NewStudentsHandler constructs handler.
func NewStudentsHandler(students *service.StudentService) *StudentsHandler {
	return &StudentsHandler{students: students}
}

// Get handles GET /api/students/:studentId.
func (h *StudentsHandler) Get(c *fiber.Ctx) error {
	student, err := h.students.Get(c.UserContext(), c.Params("studentId"))
	if err != nil {
		return err
	}
	return ok(c, dto.NewStudentResponse(student))
}

// Find handles POST /api/students/find.
func (h *StudentsHandler) Find(c *fiber.Ctx) error {
	var req dto.FindRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	page, err := h.students.Find(c.UserContext(), req.Query, req.Pagination)
	if err != nil {
		return err
	}
	return ok(c, dto.MapPage(page, dto.NewStudentResponse))
}

// Create handles POST /api/students.
func (h *StudentsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateStudentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	student, err := h.students.Create(c.UserContext(), actorID(c), req.Input())
	if err != nil {
		return err
	}
	return ok(c, dto.NewStudentResponse(student))
}

// Update handles PUT /api/students.
func (h *StudentsHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateStudentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	student, err := h.students.Update(c.UserContext(), actorID(c), req.Input())
	if err != nil {
		return err
	}
	return ok(c, dto.NewStudentResponse(student))
}

// Delete handles DELETE /api/students/:studentId.
func (h *StudentsHandler) Delete(c *fiber.Ctx) error {
	student, err := h.students.Delete(c.UserContext(), actorID(c), c.Params("studentId"))
	if err != nil {
		return err
	}
	return ok(c, dto.NewStudentResponse(student))
}
