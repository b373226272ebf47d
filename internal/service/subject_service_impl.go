package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/alexanderramin/studyplan/internal/repository"
	"github.com/google/uuid"
)

type subjectService struct {
	subjects repository.SubjectRepo
}

func NewSubjectService(subjects repository.SubjectRepo) SubjectService {
	return &subjectService{subjects: subjects}
}

func (s *subjectService) Create(ctx context.Context, subj *domain.Subject) error {
	subj.Name = strings.TrimSpace(subj.Name)
	if subj.Name == "" {
		return validationErrorf("subject name is required")
	}
	if subj.ID == "" {
		subj.ID = uuid.New().String()
	}
	if subj.CreatedAt.IsZero() {
		subj.CreatedAt = time.Now().UTC()
	}
	return s.subjects.Create(ctx, subj)
}

func (s *subjectService) List(ctx context.Context) ([]*domain.Subject, error) {
	return s.subjects.List(ctx)
}

func (s *subjectService) Resolve(ctx context.Context, idOrName string) (*domain.Subject, error) {
	key := strings.TrimSpace(idOrName)
	if key == "" {
		return nil, validationErrorf("subject is required")
	}
	subj, err := s.subjects.GetByID(ctx, key)
	if err == nil {
		return subj, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	subj, err = s.subjects.GetByName(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("resolving subject %q: %w", key, err)
	}
	return subj, nil
}
