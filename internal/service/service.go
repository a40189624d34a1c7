package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dan9191/users-service/internal/models"
	"github.com/sirupsen/logrus"
)

// ErrMissingField is returned when a required request field is absent
var ErrMissingField = errors.New("missing required field")

// UserRepository is the storage used by Service
type UserRepository interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, name, email *string) error
	UpdateUser(ctx context.Context, id int64, name, email *string) (int64, error)
	DeleteUser(ctx context.Context, id int64) (int64, error)
	Ping(ctx context.Context) error
}

// Service handles user operations
type Service struct {
	repo UserRepository
	log  logrus.FieldLogger
}

// NewService initializes a new service
func NewService(repo UserRepository, log logrus.FieldLogger) *Service {
	return &Service{repo: repo, log: log}
}

// ListUsers returns all stored users
func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.repo.ListUsers(ctx)
}

// CreateUser stores a new user. Both keys must be present; an explicit null is stored as NULL.
func (s *Service) CreateUser(ctx context.Context, in models.UserInput) error {
	name, email, err := requireFields(in)
	if err != nil {
		return err
	}
	if err := s.repo.CreateUser(ctx, name, email); err != nil {
		return err
	}
	s.log.Infof("User created: %s", display(email))
	return nil
}

// UpdateUser overwrites name and email of user id. A missing row is not an error.
func (s *Service) UpdateUser(ctx context.Context, id int64, in models.UserInput) error {
	name, email, err := requireFields(in)
	if err != nil {
		return err
	}
	affected, err := s.repo.UpdateUser(ctx, id, name, email)
	if err != nil {
		return err
	}
	s.log.WithField("user_id", id).WithField("rows_affected", affected).Info("User updated")
	return nil
}

// DeleteUser removes user id. A missing row is not an error.
func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	affected, err := s.repo.DeleteUser(ctx, id)
	if err != nil {
		return err
	}
	s.log.WithField("user_id", id).WithField("rows_affected", affected).Info("User deleted")
	return nil
}

// Health reports whether the database is reachable
func (s *Service) Health(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func requireFields(in models.UserInput) (*string, *string, error) {
	switch {
	case !in.Name.Present:
		return nil, nil, fmt.Errorf("%w: name", ErrMissingField)
	case !in.Email.Present:
		return nil, nil, fmt.Errorf("%w: email", ErrMissingField)
	}
	return in.Name.Value, in.Email.Value, nil
}

func display(s *string) string {
	if s == nil {
		return "<null>"
	}
	return *s
}
