package service

import (
	"context"
	"fmt"

	"melodia/internal/common"
	"melodia/internal/domain/model"
	"melodia/internal/domain/repository"

	"github.com/rs/zerolog"
)

type ArtistService struct {
	artistRepo repository.ArtistRepository
	adminRepo  repository.AdminRepository
	log        zerolog.Logger
}

func NewArtistService(artistRepo repository.ArtistRepository, adminRepo repository.AdminRepository, log zerolog.Logger) *ArtistService {
	return &ArtistService{artistRepo: artistRepo, adminRepo: adminRepo, log: log}
}

type ArtistInput struct {
	Name  string  `json:"name"`
	Photo *string `json:"photo"`
}

func (s *ArtistService) List(ctx context.Context) ([]model.Artist, error) {
	return s.artistRepo.ListWithSongs(ctx)
}

func (s *ArtistService) GetByID(ctx context.Context, id int64) (*model.Artist, error) {
	return s.artistRepo.FindByIDWithSongs(ctx, id)
}

func (s *ArtistService) Search(ctx context.Context, name string) ([]model.Artist, error) {
	return s.artistRepo.SearchByName(ctx, name)
}

func (s *ArtistService) Songs(ctx context.Context, artistID int64) ([]model.SongSummary, error) {
	if _, err := s.artistRepo.FindByIDWithSongs(ctx, artistID); err != nil {
		return nil, err
	}
	return s.artistRepo.SongsByArtist(ctx, artistID)
}

// Names returns bare id/name rows for selection dropdowns.
func (s *ArtistService) Names(ctx context.Context) ([]model.Artist, error) {
	return s.artistRepo.ListNames(ctx)
}

func (s *ArtistService) Create(ctx context.Context, actorID int64, in ArtistInput) (*model.Artist, error) {
	if in.Name == "" {
		return nil, common.Errorf("name is required: %w", common.ErrValidation)
	}

	artist := &model.Artist{Name: in.Name, Photo: in.Photo}
	if err := s.artistRepo.Create(ctx, artist); err != nil {
		return nil, fmt.Errorf("failed to create artist: %w", err)
	}

	s.audit(ctx, actorID, model.ActionCreateArtist, artist.ID)
	return artist, nil
}

func (s *ArtistService) Update(ctx context.Context, actorID, id int64, in ArtistInput) (*model.Artist, error) {
	if in.Name == "" {
		return nil, common.Errorf("name is required: %w", common.ErrValidation)
	}

	artist := &model.Artist{ID: id, Name: in.Name, Photo: in.Photo}
	if err := s.artistRepo.Update(ctx, artist); err != nil {
		return nil, err
	}

	s.audit(ctx, actorID, model.ActionUpdateArtist, id)
	return artist, nil
}

// Delete removes the artist and its song links. Songs themselves are kept.
func (s *ArtistService) Delete(ctx context.Context, actorID, id int64) error {
	if err := s.artistRepo.DeleteWithRelations(ctx, id); err != nil {
		return err
	}
	s.audit(ctx, actorID, model.ActionDeleteArtist, id)
	return nil
}

func (s *ArtistService) audit(ctx context.Context, actorID int64, action string, targetID int64) {
	if err := s.adminRepo.LogAction(ctx, actorID, action, targetID); err != nil {
		s.log.Warn().Err(err).Str("action", action).Int64("target_id", targetID).Msg("failed to record admin action")
	}
}
