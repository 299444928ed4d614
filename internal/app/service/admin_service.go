package service

import (
	"context"
	"errors"
	"fmt"

	"melodia/internal/common"
	"melodia/internal/common/security"
	"melodia/internal/domain/model"
	"melodia/internal/domain/repository"
)

type AdminService struct {
	userRepo  repository.UserRepository
	adminRepo repository.AdminRepository
}

func NewAdminService(userRepo repository.UserRepository, adminRepo repository.AdminRepository) *AdminService {
	return &AdminService{userRepo: userRepo, adminRepo: adminRepo}
}

// Dashboard aggregates everything the admin landing page shows.
type Dashboard struct {
	SongCount     int
	ArtistCount   int
	CategoryCount int
	LastSongs     []repository.DashboardSong
	LastArtists   []repository.DashboardArtist
	Stats         model.CreationStats
	RecentActions []model.RecentAction
}

// Login authenticates an admin for the panel. Non-admin accounts are
// rejected with the same error as bad credentials.
func (s *AdminService) Login(ctx context.Context, email, password string) (*model.User, error) {
	if email == "" || password == "" {
		return nil, common.Errorf("email and password are required: %w", common.ErrValidation)
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if !security.CheckPasswordHash(password, user.HashedPassword) {
		return nil, common.ErrInvalidCredentials
	}
	if user.Role != model.RoleAdmin {
		return nil, common.ErrInvalidCredentials
	}

	user.HashedPassword = ""
	return user, nil
}

// Dashboard loads the aggregate view for the signed-in admin. The creation
// stats and action history are scoped to that admin, the counts are global.
func (s *AdminService) Dashboard(ctx context.Context, adminID int64) (*Dashboard, error) {
	songs, artists, categories, err := s.adminRepo.Counts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load entity counts: %w", err)
	}
	lastSongs, err := s.adminRepo.LastSongs(ctx, 5)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent songs: %w", err)
	}
	lastArtists, err := s.adminRepo.LastArtists(ctx, 5)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent artists: %w", err)
	}
	stats, err := s.adminRepo.CreationStats(ctx, adminID)
	if err != nil {
		return nil, fmt.Errorf("failed to load creation stats: %w", err)
	}
	actions, err := s.adminRepo.RecentActions(ctx, adminID, 10)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent actions: %w", err)
	}

	return &Dashboard{
		SongCount:     songs,
		ArtistCount:   artists,
		CategoryCount: categories,
		LastSongs:     lastSongs,
		LastArtists:   lastArtists,
		Stats:         *stats,
		RecentActions: actions,
	}, nil
}

func (s *AdminService) Users(ctx context.Context) ([]model.User, error) {
	users, err := s.userRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].HashedPassword = ""
	}
	return users, nil
}
