package service

import (
	"context"

	"github.com/IBA-HOK/user-attendance-record/internal/model"
	"github.com/IBA-HOK/user-attendance-record/internal/repository"
)

// StudentService handles student master data business logic.
type StudentService struct {
	studentRepo *repository.StudentRepository
}

// NewStudentService creates a new StudentService.
func NewStudentService(studentRepo *repository.StudentRepository) *StudentService {
	return &StudentService{studentRepo: studentRepo}
}

// GetByID retrieves a student by their external user ID.
func (s *StudentService) GetByID(ctx context.Context, userID string) (*model.Student, error) {
	return s.studentRepo.GetByID(ctx, userID)
}

// List retrieves students, optionally filtered by a partial name match.
func (s *StudentService) List(ctx context.Context, nameQuery string) ([]model.Student, error) {
	return s.studentRepo.List(ctx, nameQuery)
}

// Create registers a new student.
func (s *StudentService) Create(ctx context.Context, req *model.CreateStudentRequest) (*model.Student, error) {
	st := &model.Student{
		UserID:        req.UserID,
		Name:          req.Name,
		Email:         req.Email,
		UserLevel:     req.UserLevel,
		DefaultPCID:   req.DefaultPCID,
		DefaultSlotID: req.DefaultSlotID,
	}
	if err := s.studentRepo.Create(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

// Update edits a student. Returns the number of rows affected so the
// handler can distinguish a missing student from a no-op.
func (s *StudentService) Update(ctx context.Context, userID string, req *model.UpdateStudentRequest) (int64, error) {
	st := &model.Student{
		UserID:        userID,
		Name:          req.Name,
		Email:         req.Email,
		UserLevel:     req.UserLevel,
		DefaultPCID:   req.DefaultPCID,
		DefaultSlotID: req.DefaultSlotID,
	}
	return s.studentRepo.Update(ctx, st)
}

// Delete removes a student.
func (s *StudentService) Delete(ctx context.Context, userID string) (int64, error) {
	return s.studentRepo.Delete(ctx, userID)
}
