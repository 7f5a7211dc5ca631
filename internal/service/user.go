package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/commutelog/api/internal/model"
	"github.com/commutelog/api/internal/repository"
	"github.com/commutelog/api/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	userRepository repository.UserRepository
	fileService    *FileService
	hashCost       int
}

func NewUserService(userRepository repository.UserRepository, fileService *FileService) *UserService {
	return &UserService{
		userRepository: userRepository,
		fileService:    fileService,
		hashCost:       bcrypt.DefaultCost,
	}
}

func (s *UserService) Users(ctx context.Context) ([]*model.User, error) {
	return s.userRepository.Users(ctx)
}

func (s *UserService) ByID(ctx context.Context, id int64) (*model.User, error) {
	return s.userRepository.ByID(ctx, id)
}

// Create stores a new user with password hashed.
func (s *UserService) Create(ctx context.Context, user *model.User, password string) error {
	hash, err := s.hashPassword(password)
	if err != nil {
		return err
	}
	user.PasswordHash = hash

	err = s.userRepository.Create(ctx, user)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// Update overwrites the user's profile fields. A blank password keeps the
// stored hash; anything else replaces it.
func (s *UserService) Update(ctx context.Context, user *model.User, password string) error {
	withPassword := strings.TrimSpace(password) != ""
	if withPassword {
		hash, err := s.hashPassword(password)
		if err != nil {
			return err
		}
		user.PasswordHash = hash
	}

	err := s.userRepository.Update(ctx, user, withPassword)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	return nil
}

// Login returns the users registered with email whose password matches.
// No match yields an empty slice, not an error.
func (s *UserService) Login(ctx context.Context, email, password string) ([]*model.User, error) {
	candidates, err := s.userRepository.ByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	matches := []*model.User{}
	for _, user := range candidates {
		err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
		if err != nil {
			continue
		}
		user.PasswordHash = ""
		matches = append(matches, user)
	}

	return matches, nil
}

// SetAvatar points the user's image at filename (nil clears it). On failure
// the newly stored file is removed; on success the replaced file is.
func (s *UserService) SetAvatar(ctx context.Context, id int64, filename *string) error {
	previous, err := s.userRepository.SetImage(ctx, id, filename)
	if err != nil {
		if filename != nil {
			s.fileService.Remove(ctx, *filename)
		}
		return err
	}

	if previous != nil && (filename == nil || *previous != *filename) {
		s.fileService.Remove(ctx, *previous)
	}

	return nil
}

// Delete removes the user and, through the foreign key cascade, their
// commutes. Stored images are cleaned up afterwards.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	files, err := s.userRepository.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.fileService.Remove(ctx, files...)
	return nil
}

func (s *UserService) hashPassword(password string) (string, error) {
	err := validation.ValidatePassword(password)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPassword, err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hashed), nil
}
