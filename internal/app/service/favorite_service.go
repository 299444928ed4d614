package service

import (
	"context"

	"melodia/internal/domain/model"
	"melodia/internal/domain/repository"
)

type FavoriteService struct {
	favoriteRepo repository.FavoriteRepository
}

func NewFavoriteService(favoriteRepo repository.FavoriteRepository) *FavoriteService {
	return &FavoriteService{favoriteRepo: favoriteRepo}
}

func (s *FavoriteService) List(ctx context.Context, userID int64) ([]model.FavoriteSong, error) {
	return s.favoriteRepo.ListByUser(ctx, userID)
}

func (s *FavoriteService) Add(ctx context.Context, userID, songID int64) error {
	return s.favoriteRepo.Add(ctx, userID, songID)
}

func (s *FavoriteService) Remove(ctx context.Context, userID, songID int64) error {
	return s.favoriteRepo.Remove(ctx, userID, songID)
}

func (s *FavoriteService) Exists(ctx context.Context, userID, songID int64) (bool, error) {
	return s.favoriteRepo.Exists(ctx, userID, songID)
}
