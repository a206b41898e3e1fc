package repository

import (
	"github.com/google/uuid"

	"github.com/queuebeat/backend/internal/database"
	"github.com/queuebeat/backend/internal/models"
)

// Store bundles the repositories behind the engine.Store and
// eventbus.EventStore interfaces.
type Store struct {
	Channels  *ChannelRepository
	Accounts  *AccountRepository
	Sessions  *SessionRepository
	Requests  *RequestRepository
	Users     *UserRepository
	Songs     *SongRepository
	Settings  *SettingsRepository
	Playlists *PlaylistRepository
	Events    *EventRepository
}

func NewStore(db *database.DB) *Store {
	return &Store{
		Channels:  NewChannelRepository(db),
		Accounts:  NewAccountRepository(db),
		Sessions:  NewSessionRepository(db),
		Requests:  NewRequestRepository(db),
		Users:     NewUserRepository(db),
		Songs:     NewSongRepository(db),
		Settings:  NewSettingsRepository(db),
		Playlists: NewPlaylistRepository(db),
		Events:    NewEventRepository(db),
	}
}

// engine.Store

func (s *Store) InsertChannel(ch *models.Channel) error { return s.Channels.Create(ch) }
func (s *Store) GetChannel(id uuid.UUID) (*models.Channel, error) {
	return s.Channels.GetByID(id)
}

func (s *Store) InsertSession(sess *models.StreamSession) error { return s.Sessions.Create(sess) }
func (s *Store) ActiveSession(channelID uuid.UUID) (*models.StreamSession, error) {
	return s.Sessions.Active(channelID)
}
func (s *Store) ArchiveSession(id uuid.UUID) error { return s.Sessions.Archive(id) }

func (s *Store) InsertRequest(r *models.Request) error { return s.Requests.Create(r) }
func (s *Store) UpdateRequest(r *models.Request) error { return s.Requests.Update(r) }
func (s *Store) DeleteRequest(id uuid.UUID) error      { return s.Requests.Delete(id) }
func (s *Store) GetRequest(id uuid.UUID) (*models.Request, error) {
	return s.Requests.GetByID(id)
}
func (s *Store) PendingRequests(sessionID uuid.UUID) ([]models.Request, error) {
	return s.Requests.Pending(sessionID)
}
func (s *Store) PlayedRequests(sessionID uuid.UUID) ([]models.Request, error) {
	return s.Requests.Played(sessionID)
}
func (s *Store) LastInsertedPending(sessionID uuid.UUID) (*models.Request, error) {
	return s.Requests.LastInsertedPending(sessionID)
}
func (s *Store) NextPosition(sessionID uuid.UUID, isPriority bool) (int, error) {
	return s.Requests.NextPosition(sessionID, isPriority)
}
func (s *Store) CountPending(sessionID uuid.UUID, priorityOnly bool) (int, error) {
	return s.Requests.CountPending(sessionID, priorityOnly)
}
func (s *Store) CountPendingByUser(sessionID, userID uuid.UUID, priorityOnly bool) (int, error) {
	return s.Requests.CountPendingByUser(sessionID, userID, priorityOnly)
}
func (s *Store) CountFreeBumpsByUser(sessionID, userID uuid.UUID) (int, error) {
	return s.Requests.CountFreeBumpsByUser(sessionID, userID)
}

func (s *Store) GetUserByPlatformID(channelID uuid.UUID, platformUserID string) (*models.User, error) {
	return s.Users.GetByPlatformID(channelID, platformUserID)
}
func (s *Store) InsertUser(u *models.User) error { return s.Users.Create(u) }
func (s *Store) UpdateUser(u *models.User) error { return s.Users.Update(u) }

func (s *Store) GetSongByLink(channelID uuid.UUID, link string) (*models.Song, error) {
	return s.Songs.GetByLink(channelID, link)
}
func (s *Store) InsertSong(song *models.Song) error { return s.Songs.Create(song) }

func (s *Store) GetSettings(channelID uuid.UUID) (*models.ChannelSettings, error) {
	return s.Settings.Get(channelID)
}
func (s *Store) SaveSettings(st *models.ChannelSettings) error { return s.Settings.Save(st) }

func (s *Store) InsertPlaylist(p *models.Playlist, keywords []string) error {
	return s.Playlists.Create(p, keywords)
}
func (s *Store) PlaylistByKeyword(channelID uuid.UUID, keyword string) (*models.Playlist, error) {
	return s.Playlists.GetByKeyword(channelID, keyword)
}
func (s *Store) PlaylistItems(playlistID uuid.UUID) ([]models.PlaylistItem, error) {
	return s.Playlists.Items(playlistID)
}

// eventbus.EventStore

func (s *Store) InsertEvent(ev *models.Event) error { return s.Events.Create(ev) }
func (s *Store) EventsSince(channelID uuid.UUID, cursor int64) ([]models.Event, error) {
	return s.Events.Since(channelID, cursor)
}
func (s *Store) LastEventTime(channelID uuid.UUID) (int64, error) {
	return s.Events.LastEventTime(channelID)
}
