package dto

import (
	"time"

	"github.com/cforclown/school-admin/internal/domain"
	"github.com/cforclown/school-admin/internal/service"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// CreateStudentRequest payload.
type CreateStudentRequest struct {
	Fullname    string `json:"fullname" validate:"required,max=100"`
	NIM         string `json:"nim" validate:"required,max=30"`
	DateOfBirth string `json:"dateOfBirth" validate:"required,datetime=2006-01-02"`
}

// Input converts the request for the service. Validation has already checked
// the date format.
func (r CreateStudentRequest) Input() service.CreateStudentInput {
	dob, _ := time.Parse(DateLayout, r.DateOfBirth)
	return service.CreateStudentInput{Fullname: r.Fullname, NIM: r.NIM, DateOfBirth: dob}
}

// UpdateStudentRequest payload. At least one field besides id is required.
type UpdateStudentRequest struct {
	ID          string  `json:"id" validate:"required"`
	Fullname    *string `json:"fullname" validate:"omitempty,min=1,max=100"`
	NIM         *string `json:"nim" validate:"omitempty,min=1,max=30"`
	DateOfBirth *string `json:"dateOfBirth" validate:"omitempty,datetime=2006-01-02"`
}

// Input converts the request for the service.
func (r UpdateStudentRequest) Input() service.UpdateStudentInput {
	input := service.UpdateStudentInput{ID: r.ID, Fullname: r.Fullname, NIM: r.NIM}
	if r.DateOfBirth != nil {
		dob, _ := time.Parse(DateLayout, *r.DateOfBirth)
		input.DateOfBirth = &dob
	}
	return input
}

// StudentResponse is the public shape of a student.
type StudentResponse struct {
	ID          string    `json:"id"`
	Fullname    string    `json:"fullname"`
	NIM         string    `json:"nim"`
	DateOfBirth string    `json:"dateOfBirth"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewStudentResponse maps a student.
func NewStudentResponse(student *domain.Student) StudentResponse {
	return StudentResponse{
		ID:          student.ID,
		Fullname:    student.Fullname,
		NIM:         student.NIM,
		DateOfBirth: student.DateOfBirth.Format(DateLayout),
		CreatedAt:   student.CreatedAt,
		UpdatedAt:   student.UpdatedAt,
	}
}
