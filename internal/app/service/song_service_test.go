package service

import (
	"context"
	"errors"
	"testing"

	"melodia/internal/common"
	"melodia/internal/domain/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSongFixture() (*SongService, *fakeSongRepo, *fakeAdminRepo) {
	songs := newFakeSongRepo()
	admin := &fakeAdminRepo{}
	return NewSongService(songs, admin, zerolog.Nop()), songs, admin
}

func TestSongService_CreateDerivesAudioPath(t *testing.T) {
	svc, _, _ := newSongFixture()

	song, err := svc.Create(context.Background(), 1, SongInput{Title: "Bohemian Rhapsody"})
	require.NoError(t, err)
	assert.Equal(t, "bohemian-rhapsody.mp3", song.PathSong)

	// An explicit path wins over the derived one.
	song, err = svc.Create(context.Background(), 1, SongInput{Title: "Other", PathSong: "custom.mp3"})
	require.NoError(t, err)
	assert.Equal(t, "custom.mp3", song.PathSong)
}

func TestSongService_CreateRequiresTitle(t *testing.T) {
	svc, _, _ := newSongFixture()

	_, err := svc.Create(context.Background(), 1, SongInput{})
	assert.True(t, errors.Is(err, common.ErrValidation))
}

func TestSongService_CreateRecordsAudit(t *testing.T) {
	svc, _, admin := newSongFixture()

	song, err := svc.Create(context.Background(), 7, SongInput{Title: "Test"})
	require.NoError(t, err)

	require.Len(t, admin.actions, 1)
	assert.Equal(t, loggedAction{AdminID: 7, Action: model.ActionCreateSong, TargetID: song.ID}, admin.actions[0])
}

func TestSongService_UpdateReplacesRelations(t *testing.T) {
	svc, songs, _ := newSongFixture()

	song, err := svc.Create(context.Background(), 1, SongInput{
		Title:     "Test",
		ArtistIDs: []int64{1, 2},
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, songs.artistIDs[song.ID])

	_, err = svc.Update(context.Background(), 1, song.ID, SongInput{
		Title:       "Test",
		ArtistIDs:   []int64{3},
		CategoryIDs: []int64{9},
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, songs.artistIDs[song.ID])
	assert.Equal(t, []int64{9}, songs.categoryIDs[song.ID])
}

func TestSongService_UpdateMissing(t *testing.T) {
	svc, _, admin := newSongFixture()

	_, err := svc.Update(context.Background(), 1, 999, SongInput{Title: "Ghost"})
	assert.True(t, errors.Is(err, common.ErrNotFound))
	// Failed operations are not audited.
	assert.Empty(t, admin.actions)
}

func TestSongService_Delete(t *testing.T) {
	svc, songs, admin := newSongFixture()

	song, err := svc.Create(context.Background(), 1, SongInput{Title: "Short lived"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), 1, song.ID))
	assert.Empty(t, songs.songs)
	require.Len(t, admin.actions, 2)
	assert.Equal(t, model.ActionDeleteSong, admin.actions[1].Action)

	err = svc.Delete(context.Background(), 1, song.ID)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}
