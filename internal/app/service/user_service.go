package service

import (
	"context"
	"fmt"

	"melodia/internal/common"
	"melodia/internal/domain/model"
	"melodia/internal/domain/repository"
	"melodia/internal/platform/storage"

	"github.com/rs/zerolog"
)

type UserService struct {
	userRepo repository.UserRepository
	images   storage.ImageStore
	log      zerolog.Logger
}

func NewUserService(userRepo repository.UserRepository, images storage.ImageStore, log zerolog.Logger) *UserService {
	return &UserService{userRepo: userRepo, images: images, log: log}
}

type ProfileUpdateRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	Email     string `json:"email"`
}

func (s *UserService) Profile(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.HashedPassword = ""
	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID int64, req ProfileUpdateRequest) (*model.User, error) {
	if req.FirstName == "" || req.LastName == "" || req.Username == "" || req.Email == "" {
		return nil, common.Errorf("all fields are required: %w", common.ErrValidation)
	}

	if err := s.userRepo.UpdateProfile(ctx, userID, req.FirstName, req.LastName, req.Username, req.Email); err != nil {
		return nil, err
	}
	return s.Profile(ctx, userID)
}

// List returns every account with password hashes stripped.
func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	users, err := s.userRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].HashedPassword = ""
	}
	return users, nil
}

// UpdateProfileImage uploads the new image, stores its URL, and removes the
// previous image from the store. Cleanup of the old image is best effort.
func (s *UserService) UpdateProfileImage(ctx context.Context, userID int64, data []byte, contentType string) (*model.User, error) {
	if len(data) == 0 {
		return nil, common.Errorf("image data is required: %w", common.ErrValidation)
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	url, err := s.images.Upload(ctx, data, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to upload image: %w", err)
	}

	if err := s.userRepo.UpdateProfileImage(ctx, userID, &url); err != nil {
		return nil, err
	}

	if user.ProfileImage != nil && *user.ProfileImage != "" {
		if err := s.images.Delete(ctx, *user.ProfileImage); err != nil {
			s.log.Warn().Err(err).Int64("user_id", userID).Msg("failed to delete old profile image")
		}
	}

	return s.Profile(ctx, userID)
}

// RemoveProfileImage clears the stored URL and deletes the image from the
// store.
func (s *UserService) RemoveProfileImage(ctx context.Context, userID int64) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdateProfileImage(ctx, userID, nil); err != nil {
		return err
	}
	if user.ProfileImage != nil && *user.ProfileImage != "" {
		if err := s.images.Delete(ctx, *user.ProfileImage); err != nil {
			s.log.Warn().Err(err).Int64("user_id", userID).Msg("failed to delete profile image")
		}
	}
	return nil
}

// DeleteAccount removes the user and, best effort, their profile image.
func (s *UserService) DeleteAccount(ctx context.Context, userID int64) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return err
	}
	if user.ProfileImage != nil && *user.ProfileImage != "" {
		if err := s.images.Delete(ctx, *user.ProfileImage); err != nil {
			s.log.Warn().Err(err).Int64("user_id", userID).Msg("failed to delete profile image")
		}
	}
	return nil
}
