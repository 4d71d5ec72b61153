package student

import (
	"context"
	"errors"
	"log/slog"
)

var (
	ErrStudentNotFound = errors.New("student not found")
	ErrInvalidID       = errors.New("invalid student id format")
	ErrEmailTaken      = errors.New("email already exists")
	ErrMatricNoTaken   = errors.New("matriculation number already exists")
)

// Producer interface for lifecycle event publishing (NATS)
type Producer interface {
	SendMessage(ctx context.Context, value interface{}) error
	Close() error
}

// Event is published on the configured subject after each successful mutation
type Event struct {
	Action   string `json:"action"`
	ID       string `json:"id"`
	Email    string `json:"email"`
	MatricNo string `json:"matric_no"`
}

type Service interface {
	CreateStudent(ctx context.Context, in Input) (*Student, error)
	GetAllStudents(ctx context.Context) ([]Student, error)
	GetStudentByID(ctx context.Context, id string) (*Student, error)
	UpdateStudent(ctx context.Context, id string, in Input) (*Student, error)
	DeleteStudent(ctx context.Context, id string) (*Student, error)
}

type service struct {
	repo   Repository
	events Producer
	logger *slog.Logger
}

// NewService builds the orchestration layer. events may be nil; lifecycle
// publishing is then skipped.
func NewService(repo Repository, events Producer, logger *slog.Logger) Service {
	return &service{
		repo:   repo,
		events: events,
		logger: logger,
	}
}

// CreateStudent runs the duplicate check before the write. Input is assumed
// validated and normalized. An email collision is reported ahead of a
// matric_no collision when the same record matches both.
func (s *service) CreateStudent(ctx context.Context, in Input) (*Student, error) {
	existing, err := s.repo.FindByUniqueKeys(ctx, in.Email, in.MatricNo, "")
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.Email == in.Email {
			return nil, ErrEmailTaken
		}
		return nil, ErrMatricNoTaken
	}

	created, err := s.repo.Create(ctx, &Student{
		Firstname: in.Firstname,
		Lastname:  in.Lastname,
		Gender:    in.Gender,
		Email:     in.Email,
		MatricNo:  in.MatricNo,
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, "created", created)
	return created, nil
}

func (s *service) GetAllStudents(ctx context.Context) ([]Student, error) {
	return s.repo.GetAll(ctx)
}

func (s *service) GetStudentByID(ctx context.Context, id string) (*Student, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateStudent applies the same duplicate check as create, excluding the
// record's own id so it cannot collide with itself.
func (s *service) UpdateStudent(ctx context.Context, id string, in Input) (*Student, error) {
	existing, err := s.repo.FindByUniqueKeys(ctx, in.Email, in.MatricNo, id)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.Email == in.Email {
			return nil, ErrEmailTaken
		}
		return nil, ErrMatricNoTaken
	}

	updated, err := s.repo.Update(ctx, id, in)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, "updated", updated)
	return updated, nil
}

func (s *service) DeleteStudent(ctx context.Context, id string) (*Student, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, "deleted", deleted)
	return deleted, nil
}

func (s *service) publish(ctx context.Context, action string, student *Student) {
	if s.events == nil {
		return
	}
	event := Event{
		Action:   action,
		ID:       student.ID.Hex(),
		Email:    student.Email,
		MatricNo: student.MatricNo,
	}
	if err := s.events.SendMessage(ctx, event); err != nil {
		// Event publishing is best effort, the mutation already succeeded
		s.logger.WarnContext(ctx, "failed to publish student event", "action", action, "error", err)
	}
}
