package service

import (
	"context"
	"fmt"
	"time"

	"melodia/internal/common"
	"melodia/internal/domain/model"
	"melodia/internal/domain/repository"
)

// In-memory repository fakes backing the service tests.

type fakeUserRepo struct {
	users  map[int64]*model.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*model.User), nextID: 1}
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range f.users {
		if u.Email == user.Email || u.Username == user.Username {
			return fmt.Errorf("email or username already in use: %w", common.ErrConflict)
		}
	}
	user.ID = f.nextID
	f.nextID++
	user.CreatedAt = time.Now()
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id int64) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeUserRepo) UpdateProfile(_ context.Context, id int64, firstName, lastName, username, email string) error {
	u, ok := f.users[id]
	if !ok {
		return common.ErrNotFound
	}
	u.FirstName, u.LastName, u.Username, u.Email = firstName, lastName, username, email
	return nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, id int64, hashedPassword string) error {
	u, ok := f.users[id]
	if !ok {
		return common.ErrNotFound
	}
	u.HashedPassword = hashedPassword
	return nil
}

func (f *fakeUserRepo) SetResetToken(_ context.Context, email, token string, expires time.Time) error {
	for _, u := range f.users {
		if u.Email == email {
			u.ResetToken = &token
			u.ResetExpires = &expires
			return nil
		}
	}
	return common.ErrNotFound
}

func (f *fakeUserRepo) FindByResetToken(_ context.Context, token string) (*model.User, error) {
	for _, u := range f.users {
		if u.ResetToken != nil && *u.ResetToken == token && u.ResetExpires.After(time.Now()) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeUserRepo) ConsumePasswordReset(_ context.Context, id int64, token, hashedPassword string) error {
	u, ok := f.users[id]
	if !ok || u.ResetToken == nil || *u.ResetToken != token || !u.ResetExpires.After(time.Now()) {
		return common.ErrInvalidResetToken
	}
	u.HashedPassword = hashedPassword
	u.ResetToken = nil
	u.ResetExpires = nil
	return nil
}

func (f *fakeUserRepo) UpdateProfileImage(_ context.Context, id int64, imageURL *string) error {
	u, ok := f.users[id]
	if !ok {
		return common.ErrNotFound
	}
	u.ProfileImage = imageURL
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.users[id]; !ok {
		return common.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) ListAll(_ context.Context) ([]model.User, error) {
	out := make([]model.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUserRepo) ListProfileImages(_ context.Context) ([]string, error) {
	var out []string
	for _, u := range f.users {
		if u.ProfileImage != nil && *u.ProfileImage != "" {
			out = append(out, *u.ProfileImage)
		}
	}
	return out, nil
}

type sentMail struct {
	To        string
	FirstName string
	Token     string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (f *fakeMailer) SendPasswordReset(_ context.Context, to, firstName, token string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{To: to, FirstName: firstName, Token: token})
	return nil
}

type loggedAction struct {
	AdminID  int64
	Action   string
	TargetID int64
}

type fakeAdminRepo struct {
	actions []loggedAction
}

func (f *fakeAdminRepo) LogAction(_ context.Context, adminID int64, actionType string, targetID int64) error {
	f.actions = append(f.actions, loggedAction{AdminID: adminID, Action: actionType, TargetID: targetID})
	return nil
}

func (f *fakeAdminRepo) CreationStats(_ context.Context, adminID int64) (*model.CreationStats, error) {
	stats := &model.CreationStats{}
	for _, a := range f.actions {
		if a.AdminID != adminID {
			continue
		}
		switch a.Action {
		case model.ActionCreateSong:
			stats.SongsCreated++
		case model.ActionCreateArtist:
			stats.ArtistsCreated++
		}
	}
	return stats, nil
}

func (f *fakeAdminRepo) RecentActions(_ context.Context, adminID int64, limit int) ([]model.RecentAction, error) {
	var out []model.RecentAction
	for i := len(f.actions) - 1; i >= 0 && len(out) < limit; i-- {
		if f.actions[i].AdminID == adminID {
			out = append(out, model.RecentAction{ActionType: f.actions[i].Action})
		}
	}
	return out, nil
}

func (f *fakeAdminRepo) Counts(_ context.Context) (int, int, int, error) { return 0, 0, 0, nil }

func (f *fakeAdminRepo) LastSongs(_ context.Context, _ int) ([]repository.DashboardSong, error) {
	return nil, nil
}

func (f *fakeAdminRepo) LastArtists(_ context.Context, _ int) ([]repository.DashboardArtist, error) {
	return nil, nil
}

type fakeSongRepo struct {
	songs       map[int64]*model.Song
	artistIDs   map[int64][]int64
	categoryIDs map[int64][]int64
	nextID      int64
}

func newFakeSongRepo() *fakeSongRepo {
	return &fakeSongRepo{
		songs:       make(map[int64]*model.Song),
		artistIDs:   make(map[int64][]int64),
		categoryIDs: make(map[int64][]int64),
		nextID:      1,
	}
}

func (f *fakeSongRepo) ListDetailed(_ context.Context) ([]model.SongDetail, error) {
	var out []model.SongDetail
	for _, s := range f.songs {
		out = append(out, model.SongDetail{ID: s.ID, Title: s.Title})
	}
	return out, nil
}

func (f *fakeSongRepo) FindDetailedByID(_ context.Context, id int64) (*model.SongDetail, error) {
	s, ok := f.songs[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &model.SongDetail{ID: s.ID, Title: s.Title, PathSong: s.PathSong}, nil
}

func (f *fakeSongRepo) Search(_ context.Context, title, _ string) ([]model.SongDetail, error) {
	return nil, nil
}

func (f *fakeSongRepo) CreateWithRelations(_ context.Context, song *model.Song, artistIDs, categoryIDs []int64) error {
	song.ID = f.nextID
	f.nextID++
	cp := *song
	f.songs[song.ID] = &cp
	f.artistIDs[song.ID] = artistIDs
	f.categoryIDs[song.ID] = categoryIDs
	return nil
}

func (f *fakeSongRepo) UpdateWithRelations(_ context.Context, song *model.Song, artistIDs, categoryIDs []int64) error {
	if _, ok := f.songs[song.ID]; !ok {
		return common.ErrNotFound
	}
	cp := *song
	f.songs[song.ID] = &cp
	f.artistIDs[song.ID] = artistIDs
	f.categoryIDs[song.ID] = categoryIDs
	return nil
}

func (f *fakeSongRepo) DeleteWithRelations(_ context.Context, id int64) error {
	if _, ok := f.songs[id]; !ok {
		return common.ErrNotFound
	}
	delete(f.songs, id)
	delete(f.artistIDs, id)
	delete(f.categoryIDs, id)
	return nil
}

type fakePlaylistRepo struct {
	playlists    map[int64]*model.Playlist
	songPlaylist map[int64]*int64
	nextID       int64
}

func newFakePlaylistRepo() *fakePlaylistRepo {
	return &fakePlaylistRepo{
		playlists:    make(map[int64]*model.Playlist),
		songPlaylist: make(map[int64]*int64),
		nextID:       1,
	}
}

func (f *fakePlaylistRepo) Create(_ context.Context, p *model.Playlist) error {
	p.ID = f.nextID
	f.nextID++
	if p.Color == "" {
		p.Color = "#1DB954"
	}
	cp := *p
	f.playlists[p.ID] = &cp
	return nil
}

func (f *fakePlaylistRepo) UpdateTitle(_ context.Context, id int64, title string) error {
	p, ok := f.playlists[id]
	if !ok {
		return common.ErrNotFound
	}
	p.Title = title
	return nil
}

func (f *fakePlaylistRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.playlists[id]; !ok {
		return common.ErrNotFound
	}
	delete(f.playlists, id)
	for songID, pl := range f.songPlaylist {
		if pl != nil && *pl == id {
			f.songPlaylist[songID] = nil
		}
	}
	return nil
}

func (f *fakePlaylistRepo) FindByIDWithSongs(_ context.Context, id int64) (*model.PlaylistWithSongs, error) {
	p, ok := f.playlists[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	out := &model.PlaylistWithSongs{Playlist: *p, Songs: []model.SongSummary{}}
	for songID, pl := range f.songPlaylist {
		if pl != nil && *pl == id {
			out.Songs = append(out.Songs, model.SongSummary{ID: songID})
		}
	}
	out.SongCount = len(out.Songs)
	return out, nil
}

func (f *fakePlaylistRepo) ListByUserWithSongs(ctx context.Context, userID int64) ([]model.PlaylistWithSongs, error) {
	var out []model.PlaylistWithSongs
	for id, p := range f.playlists {
		if p.UserID == userID {
			pw, _ := f.FindByIDWithSongs(ctx, id)
			out = append(out, *pw)
		}
	}
	return out, nil
}

func (f *fakePlaylistRepo) ListByOtherUsers(_ context.Context, excludeUserID int64) ([]model.Playlist, error) {
	var out []model.Playlist
	for _, p := range f.playlists {
		if p.UserID != excludeUserID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePlaylistRepo) SetSongPlaylist(_ context.Context, songID int64, playlistID *int64) error {
	f.songPlaylist[songID] = playlistID
	return nil
}

func (f *fakePlaylistRepo) FindSongPlaylist(_ context.Context, songID int64) (*int64, error) {
	return f.songPlaylist[songID], nil
}

type fakeImageStore struct {
	uploads int
	deleted []string
	stored  []string
}

func (f *fakeImageStore) Upload(_ context.Context, _ []byte, _ string) (string, error) {
	f.uploads++
	url := fmt.Sprintf("https://img.example/v1/melodia/profiles/img-%d.jpg", f.uploads)
	f.stored = append(f.stored, url)
	return url, nil
}

func (f *fakeImageStore) Delete(_ context.Context, url string) error {
	f.deleted = append(f.deleted, url)
	return nil
}

func (f *fakeImageStore) List(_ context.Context) ([]string, error) {
	return f.stored, nil
}
