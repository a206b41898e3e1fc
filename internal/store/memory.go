// Package store provides an in-memory implementation of the engine's
// persistence surface, used by tests and local development. It mirrors the
// Postgres repositories' semantics, including the queue total order and
// not-found signalling.
package store

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/queuebeat/backend/internal/engine"
	"github.com/queuebeat/backend/internal/models"
)

type Memory struct {
	mu sync.RWMutex

	channels  map[uuid.UUID]models.Channel
	sessions  map[uuid.UUID]models.StreamSession
	requests  map[uuid.UUID]models.Request
	users     map[uuid.UUID]models.User
	songs     map[uuid.UUID]models.Song
	settings  map[uuid.UUID]models.ChannelSettings
	playlists map[uuid.UUID]models.Playlist
	items     map[uuid.UUID][]models.PlaylistItem
	events    map[uuid.UUID][]models.Event

	insertSeq int64 // orders pending requests for "last" removal
	lastSeq   map[uuid.UUID]int64
}

func NewMemory() *Memory {
	return &Memory{
		channels:  make(map[uuid.UUID]models.Channel),
		sessions:  make(map[uuid.UUID]models.StreamSession),
		requests:  make(map[uuid.UUID]models.Request),
		users:     make(map[uuid.UUID]models.User),
		songs:     make(map[uuid.UUID]models.Song),
		settings:  make(map[uuid.UUID]models.ChannelSettings),
		playlists: make(map[uuid.UUID]models.Playlist),
		items:     make(map[uuid.UUID][]models.PlaylistItem),
		events:    make(map[uuid.UUID][]models.Event),
		lastSeq:   make(map[uuid.UUID]int64),
	}
}

// Channels

func (m *Memory) InsertChannel(ch *models.Channel) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.channels[ch.ID] = *ch
	return nil
}

func (m *Memory) GetChannel(id uuid.UUID) (*models.Channel, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ch, ok := m.channels[id]
	if !ok {
		return nil, fmt.Errorf("%w: channel", engine.ErrNotFound)
	}
	return &ch, nil
}

// Sessions

func (m *Memory) InsertSession(s *models.StreamSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = *s
	return nil
}

func (m *Memory) ActiveSession(channelID uuid.UUID) (*models.StreamSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.sessions {
		if s.ChannelID == channelID && s.Active {
			sess := s
			return &sess, nil
		}
	}
	return nil, fmt.Errorf("%w: active session", engine.ErrNotFound)
}

func (m *Memory) ArchiveSession(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok || !s.Active {
		return fmt.Errorf("%w: session", engine.ErrNotFound)
	}
	s.Active = false
	m.sessions[id] = s
	return nil
}

// Requests

func (m *Memory) InsertRequest(r *models.Request) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.insertSeq++
	m.lastSeq[r.ID] = m.insertSeq
	m.requests[r.ID] = *r
	return nil
}

func (m *Memory) UpdateRequest(r *models.Request) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.requests[r.ID]; !ok {
		return fmt.Errorf("%w: request", engine.ErrNotFound)
	}
	m.requests[r.ID] = *r
	return nil
}

func (m *Memory) DeleteRequest(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.requests, id)
	delete(m.lastSeq, id)
	return nil
}

func (m *Memory) GetRequest(id uuid.UUID) (*models.Request, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.requests[id]
	if !ok {
		return nil, fmt.Errorf("%w: request", engine.ErrNotFound)
	}
	m.attach(&r)
	return &r, nil
}

// attach joins song and user the way the SQL store does. Callers hold m.mu.
func (m *Memory) attach(r *models.Request) {
	if song, ok := m.songs[r.SongID]; ok {
		s := song
		r.Song = &s
	}
	if user, ok := m.users[r.UserID]; ok {
		u := user
		r.User = &u
	}
}

func (m *Memory) sessionRequests(sessionID uuid.UUID, played bool) []models.Request {
	var out []models.Request
	for _, r := range m.requests {
		if r.SessionID == sessionID && r.Played == played {
			m.attach(&r)
			out = append(out, r)
		}
	}
	return out
}

func (m *Memory) PendingRequests(sessionID uuid.UUID) ([]models.Request, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := m.sessionRequests(sessionID, false)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Less(&out[j]) })
	return out, nil
}

func (m *Memory) PlayedRequests(sessionID uuid.UUID) ([]models.Request, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := m.sessionRequests(sessionID, true)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RequestTime.Before(out[j].RequestTime)
	})
	return out, nil
}

func (m *Memory) LastInsertedPending(sessionID uuid.UUID) (*models.Request, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var best *models.Request
	var bestSeq int64
	for id, r := range m.requests {
		if r.SessionID != sessionID || r.Played {
			continue
		}
		if seq := m.lastSeq[id]; best == nil || seq > bestSeq {
			r := r
			best, bestSeq = &r, seq
		}
	}
	if best == nil {
		return nil, fmt.Errorf("%w: no pending requests", engine.ErrNotFound)
	}
	m.attach(best)
	return best, nil
}

func (m *Memory) NextPosition(sessionID uuid.UUID, isPriority bool) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	max := 0
	for _, r := range m.requests {
		if r.SessionID == sessionID && r.IsPriority == isPriority && r.Position > max {
			max = r.Position
		}
	}
	return max + 1, nil
}

func (m *Memory) CountPending(sessionID uuid.UUID, priorityOnly bool) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, r := range m.requests {
		if r.SessionID == sessionID && !r.Played && (!priorityOnly || r.IsPriority) {
			n++
		}
	}
	return n, nil
}

func (m *Memory) CountPendingByUser(sessionID, userID uuid.UUID, priorityOnly bool) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, r := range m.requests {
		if r.SessionID == sessionID && r.UserID == userID && !r.Played && (!priorityOnly || r.IsPriority) {
			n++
		}
	}
	return n, nil
}

func (m *Memory) CountFreeBumpsByUser(sessionID, userID uuid.UUID) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, r := range m.requests {
		if r.SessionID == sessionID && r.UserID == userID && r.Bumped &&
			r.PrioritySource == models.PrioritySourceFreeBump {
			n++
		}
	}
	return n, nil
}

// Users

func (m *Memory) GetUserByPlatformID(channelID uuid.UUID, platformUserID string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.ChannelID == channelID && u.PlatformUserID == platformUserID {
			user := u
			return &user, nil
		}
	}
	return nil, fmt.Errorf("%w: user", engine.ErrNotFound)
}

func (m *Memory) InsertUser(u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = *u
	return nil
}

func (m *Memory) UpdateUser(u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.ID]; !ok {
		return fmt.Errorf("%w: user", engine.ErrNotFound)
	}
	m.users[u.ID] = *u
	return nil
}

// Songs

func (m *Memory) GetSongByLink(channelID uuid.UUID, link string) (*models.Song, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.songs {
		if s.ChannelID == channelID && s.Link != nil && *s.Link == link {
			song := s
			return &song, nil
		}
	}
	return nil, fmt.Errorf("%w: song", engine.ErrNotFound)
}

func (m *Memory) InsertSong(s *models.Song) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.songs[s.ID] = *s
	return nil
}

// Settings

func (m *Memory) GetSettings(channelID uuid.UUID) (*models.ChannelSettings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st, ok := m.settings[channelID]
	if !ok {
		return nil, fmt.Errorf("%w: settings", engine.ErrNotFound)
	}
	return &st, nil
}

func (m *Memory) SaveSettings(st *models.ChannelSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings[st.ChannelID] = *st
	return nil
}

// Playlists

func (m *Memory) InsertPlaylist(p *models.Playlist, keywords []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	pl := *p
	pl.Keywords = append([]string(nil), keywords...)
	m.playlists[p.ID] = pl
	return nil
}

func (m *Memory) PlaylistByKeyword(channelID uuid.UUID, keyword string) (*models.Playlist, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.playlists {
		if p.ChannelID != channelID {
			continue
		}
		for _, kw := range p.Keywords {
			if kw == keyword {
				pl := p
				return &pl, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: playlist", engine.ErrNotFound)
}

func (m *Memory) PlaylistItems(playlistID uuid.UUID) ([]models.PlaylistItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.PlaylistItem(nil), m.items[playlistID]...), nil
}

// AddPlaylistItem appends an item for test setup.
func (m *Memory) AddPlaylistItem(it models.PlaylistItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it.Position = len(m.items[it.PlaylistID]) + 1
	m.items[it.PlaylistID] = append(m.items[it.PlaylistID], it)
}

// Events

func (m *Memory) InsertEvent(ev *models.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[ev.ChannelID] = append(m.events[ev.ChannelID], *ev)
	return nil
}

func (m *Memory) EventsSince(channelID uuid.UUID, cursor int64) ([]models.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Event
	for _, ev := range m.events[channelID] {
		if ev.EventTime > cursor {
			out = append(out, ev)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EventTime < out[j].EventTime })
	return out, nil
}

func (m *Memory) LastEventTime(channelID uuid.UUID) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var last int64
	for _, ev := range m.events[channelID] {
		if ev.EventTime > last {
			last = ev.EventTime
		}
	}
	return last, nil
}
