package service

import (
	"context"
	"fmt"

	"melodia/internal/common"
	"melodia/internal/domain/model"
	"melodia/internal/domain/repository"

	"github.com/gosimple/slug"
	"github.com/rs/zerolog"
)

type SongService struct {
	songRepo  repository.SongRepository
	adminRepo repository.AdminRepository
	log       zerolog.Logger
}

func NewSongService(songRepo repository.SongRepository, adminRepo repository.AdminRepository, log zerolog.Logger) *SongService {
	return &SongService{songRepo: songRepo, adminRepo: adminRepo, log: log}
}

type SongInput struct {
	Title       string  `json:"title"`
	Album       string  `json:"album"`
	Duration    int     `json:"duration"`
	PathSong    string  `json:"path_song"`
	ImagePath   string  `json:"image_path"`
	ArtistIDs   []int64 `json:"artist_ids"`
	CategoryIDs []int64 `json:"category_ids"`
}

func (s *SongService) List(ctx context.Context) ([]model.SongDetail, error) {
	return s.songRepo.ListDetailed(ctx)
}

func (s *SongService) GetByID(ctx context.Context, id int64) (*model.SongDetail, error) {
	return s.songRepo.FindDetailedByID(ctx, id)
}

// Search matches songs by title and/or artist name, both optional.
func (s *SongService) Search(ctx context.Context, title, artist string) ([]model.SongDetail, error) {
	return s.songRepo.Search(ctx, title, artist)
}

// Create stores the song and its artist/category links atomically. When no
// audio path is given one is derived from the title.
func (s *SongService) Create(ctx context.Context, actorID int64, in SongInput) (*model.Song, error) {
	if in.Title == "" {
		return nil, common.Errorf("title is required: %w", common.ErrValidation)
	}
	if in.PathSong == "" {
		in.PathSong = slug.Make(in.Title) + ".mp3"
	}

	song := &model.Song{
		Title:     in.Title,
		Album:     in.Album,
		Duration:  in.Duration,
		PathSong:  in.PathSong,
		ImagePath: in.ImagePath,
	}
	if err := s.songRepo.CreateWithRelations(ctx, song, in.ArtistIDs, in.CategoryIDs); err != nil {
		return nil, fmt.Errorf("failed to create song: %w", err)
	}

	s.audit(ctx, actorID, model.ActionCreateSong, song.ID)
	return song, nil
}

// Update replaces the song's fields and its artist/category links with the
// given set.
func (s *SongService) Update(ctx context.Context, actorID, id int64, in SongInput) (*model.Song, error) {
	if in.Title == "" {
		return nil, common.Errorf("title is required: %w", common.ErrValidation)
	}

	song := &model.Song{
		ID:        id,
		Title:     in.Title,
		Album:     in.Album,
		Duration:  in.Duration,
		PathSong:  in.PathSong,
		ImagePath: in.ImagePath,
	}
	if err := s.songRepo.UpdateWithRelations(ctx, song, in.ArtistIDs, in.CategoryIDs); err != nil {
		return nil, err
	}

	s.audit(ctx, actorID, model.ActionUpdateSong, id)
	return song, nil
}

func (s *SongService) Delete(ctx context.Context, actorID, id int64) error {
	if err := s.songRepo.DeleteWithRelations(ctx, id); err != nil {
		return err
	}
	s.audit(ctx, actorID, model.ActionDeleteSong, id)
	return nil
}

// audit records the admin action. Auditing never fails the request.
func (s *SongService) audit(ctx context.Context, actorID int64, action string, targetID int64) {
	if err := s.adminRepo.LogAction(ctx, actorID, action, targetID); err != nil {
		s.log.Warn().Err(err).Str("action", action).Int64("target_id", targetID).Msg("failed to record admin action")
	}
}
