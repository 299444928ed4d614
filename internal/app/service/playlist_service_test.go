package service

import (
	"context"
	"errors"
	"testing"

	"melodia/internal/common"
	"melodia/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPlaylistFixture() (*PlaylistService, *fakePlaylistRepo, *fakeSongRepo) {
	playlists := newFakePlaylistRepo()
	songs := newFakeSongRepo()
	return NewPlaylistService(playlists, songs), playlists, songs
}

func TestPlaylistService_CreateDefaults(t *testing.T) {
	svc, _, _ := newPlaylistFixture()

	p, err := svc.Create(context.Background(), 1, PlaylistInput{Title: "Road trip"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.UserID)
	assert.Equal(t, "#1DB954", p.Color)

	_, err = svc.Create(context.Background(), 1, PlaylistInput{})
	assert.True(t, errors.Is(err, common.ErrValidation))
}

func TestPlaylistService_OwnershipEnforced(t *testing.T) {
	svc, _, _ := newPlaylistFixture()

	p, err := svc.Create(context.Background(), 1, PlaylistInput{Title: "Mine"})
	require.NoError(t, err)

	err = svc.Rename(context.Background(), 2, p.ID, "Stolen")
	assert.True(t, errors.Is(err, common.ErrForbidden))

	err = svc.Delete(context.Background(), 2, p.ID)
	assert.True(t, errors.Is(err, common.ErrForbidden))

	require.NoError(t, svc.Rename(context.Background(), 1, p.ID, "Renamed"))
}

func TestPlaylistService_AddSongMovesBetweenPlaylists(t *testing.T) {
	svc, playlists, songs := newPlaylistFixture()

	first, err := svc.Create(context.Background(), 1, PlaylistInput{Title: "First"})
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), 1, PlaylistInput{Title: "Second"})
	require.NoError(t, err)

	song := testSong(t, songs)

	require.NoError(t, svc.AddSong(context.Background(), 1, first.ID, song))
	got, err := svc.GetByID(context.Background(), first.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.SongCount)

	// Adding to the second playlist moves the song out of the first.
	require.NoError(t, svc.AddSong(context.Background(), 1, second.ID, song))
	got, err = svc.GetByID(context.Background(), first.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.SongCount)
	got, err = svc.GetByID(context.Background(), second.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.SongCount)

	require.NoError(t, svc.RemoveSong(context.Background(), 1, song))
	assert.Nil(t, playlists.songPlaylist[song])
}

func TestPlaylistService_RemoveSongChecksCurrentPlaylistOwner(t *testing.T) {
	svc, playlists, songs := newPlaylistFixture()

	victim, err := svc.Create(context.Background(), 2, PlaylistInput{Title: "Victim"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), 1, PlaylistInput{Title: "Attacker"})
	require.NoError(t, err)

	song := testSong(t, songs)
	require.NoError(t, svc.AddSong(context.Background(), 2, victim.ID, song))

	// Owning some other playlist does not grant the right to detach the song.
	err = svc.RemoveSong(context.Background(), 1, song)
	assert.True(t, errors.Is(err, common.ErrForbidden))
	got, err := svc.GetByID(context.Background(), victim.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.SongCount)

	require.NoError(t, svc.RemoveSong(context.Background(), 2, song))
	assert.Nil(t, playlists.songPlaylist[song])

	// Once detached there is nothing left to remove.
	err = svc.RemoveSong(context.Background(), 2, song)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestPlaylistService_AddUnknownSong(t *testing.T) {
	svc, _, _ := newPlaylistFixture()

	p, err := svc.Create(context.Background(), 1, PlaylistInput{Title: "Empty"})
	require.NoError(t, err)

	err = svc.AddSong(context.Background(), 1, p.ID, 999)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestPlaylistService_ListByOthers(t *testing.T) {
	svc, _, _ := newPlaylistFixture()

	_, err := svc.Create(context.Background(), 1, PlaylistInput{Title: "Mine"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), 2, PlaylistInput{Title: "Theirs"})
	require.NoError(t, err)

	others, err := svc.ListByOthers(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, others, 1)
	assert.Equal(t, "Theirs", others[0].Title)
}

func testSong(t *testing.T, songs *fakeSongRepo) int64 {
	t.Helper()
	song := model.Song{Title: "Fixture"}
	err := songs.CreateWithRelations(context.Background(), &song, nil, nil)
	require.NoError(t, err)
	return song.ID
}
