package service

import (
	"context"
	"errors"
	"fmt"

	"melodia/internal/common"
	"melodia/internal/domain/model"
	"melodia/internal/domain/repository"
)

type PlaylistService struct {
	playlistRepo repository.PlaylistRepository
	songRepo     repository.SongRepository
}

func NewPlaylistService(playlistRepo repository.PlaylistRepository, songRepo repository.SongRepository) *PlaylistService {
	return &PlaylistService{playlistRepo: playlistRepo, songRepo: songRepo}
}

type PlaylistInput struct {
	Title string `json:"title"`
}

// Create stores a playlist for the owner. The color is assigned by the
// database, not the caller.
func (s *PlaylistService) Create(ctx context.Context, ownerID int64, in PlaylistInput) (*model.Playlist, error) {
	if in.Title == "" {
		return nil, common.Errorf("title is required: %w", common.ErrValidation)
	}

	playlist := &model.Playlist{UserID: ownerID, Title: in.Title}
	if err := s.playlistRepo.Create(ctx, playlist); err != nil {
		return nil, fmt.Errorf("failed to create playlist: %w", err)
	}
	return playlist, nil
}

func (s *PlaylistService) GetByID(ctx context.Context, id int64) (*model.PlaylistWithSongs, error) {
	return s.playlistRepo.FindByIDWithSongs(ctx, id)
}

func (s *PlaylistService) ListByUser(ctx context.Context, userID int64) ([]model.PlaylistWithSongs, error) {
	return s.playlistRepo.ListByUserWithSongs(ctx, userID)
}

// ListByOthers returns every playlist not owned by the given user, for the
// discovery view.
func (s *PlaylistService) ListByOthers(ctx context.Context, userID int64) ([]model.Playlist, error) {
	return s.playlistRepo.ListByOtherUsers(ctx, userID)
}

// Rename changes the playlist title. Only the owner may rename it.
func (s *PlaylistService) Rename(ctx context.Context, ownerID, id int64, title string) error {
	if title == "" {
		return common.Errorf("title is required: %w", common.ErrValidation)
	}
	if err := s.requireOwner(ctx, ownerID, id); err != nil {
		return err
	}
	return s.playlistRepo.UpdateTitle(ctx, id, title)
}

func (s *PlaylistService) Delete(ctx context.Context, ownerID, id int64) error {
	if err := s.requireOwner(ctx, ownerID, id); err != nil {
		return err
	}
	return s.playlistRepo.Delete(ctx, id)
}

// AddSong places a song into the playlist. A song belongs to at most one
// playlist, so adding it here removes it from wherever it was before.
func (s *PlaylistService) AddSong(ctx context.Context, ownerID, playlistID, songID int64) error {
	if err := s.requireOwner(ctx, ownerID, playlistID); err != nil {
		return err
	}
	if _, err := s.songRepo.FindDetailedByID(ctx, songID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.Errorf("song not found: %w", common.ErrNotFound)
		}
		return err
	}
	return s.playlistRepo.SetSongPlaylist(ctx, songID, &playlistID)
}

// RemoveSong detaches a song from its playlist. The caller must own the
// playlist the song currently sits in, not just any playlist.
func (s *PlaylistService) RemoveSong(ctx context.Context, ownerID, songID int64) error {
	current, err := s.playlistRepo.FindSongPlaylist(ctx, songID)
	if err != nil {
		return err
	}
	if current == nil {
		return common.Errorf("song is not in a playlist: %w", common.ErrNotFound)
	}
	if err := s.requireOwner(ctx, ownerID, *current); err != nil {
		return err
	}
	return s.playlistRepo.SetSongPlaylist(ctx, songID, nil)
}

func (s *PlaylistService) requireOwner(ctx context.Context, userID, playlistID int64) error {
	playlist, err := s.playlistRepo.FindByIDWithSongs(ctx, playlistID)
	if err != nil {
		return err
	}
	if playlist.UserID != userID {
		return common.Errorf("playlist belongs to another user: %w", common.ErrForbidden)
	}
	return nil
}
