package service

import (
	"context"

	"github.com/commutelog/api/internal/model"
	"github.com/commutelog/api/internal/repository"
)

// CommuteService scopes every commute operation to its owning user.
type CommuteService struct {
	repo        repository.CommuteRepository
	fileService *FileService
}

func NewCommuteService(repo repository.CommuteRepository, fileService *FileService) *CommuteService {
	return &CommuteService{
		repo:        repo,
		fileService: fileService,
	}
}

func (s *CommuteService) Commutes(ctx context.Context, userID int64) ([]*model.Commute, error) {
	return s.repo.Commutes(ctx, userID)
}

func (s *CommuteService) ByID(ctx context.Context, userID, commuteID int64) (*model.Commute, error) {
	return s.repo.ByID(ctx, userID, commuteID)
}

func (s *CommuteService) Create(ctx context.Context, commute *model.Commute) error {
	return s.repo.Create(ctx, commute)
}

func (s *CommuteService) Update(ctx context.Context, commute *model.Commute) error {
	return s.repo.Update(ctx, commute)
}

func (s *CommuteService) Delete(ctx context.Context, userID, commuteID int64) error {
	image, err := s.repo.Delete(ctx, userID, commuteID)
	if err != nil {
		return err
	}

	if image != nil {
		s.fileService.Remove(ctx, *image)
	}

	return nil
}

// AttachImage sets filename as the commute's image. If the commute is not
// found (or not owned) the stored file is removed again.
func (s *CommuteService) AttachImage(ctx context.Context, userID, commuteID int64, filename string) error {
	previous, err := s.repo.SetImage(ctx, userID, commuteID, filename)
	if err != nil {
		s.fileService.Remove(ctx, filename)
		return err
	}

	if previous != nil && *previous != filename {
		s.fileService.Remove(ctx, *previous)
	}

	return nil
}

// Image returns the stored image filename of an owned commute, nil if unset.
func (s *CommuteService) Image(ctx context.Context, userID, commuteID int64) (*string, error) {
	commute, err := s.repo.ByID(ctx, userID, commuteID)
	if err != nil {
		return nil, err
	}
	if !commute.HasImage() {
		return nil, nil
	}
	return commute.Image, nil
}
