package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/queuebeat/backend/internal/metadata"
	"github.com/queuebeat/backend/internal/models"
)

// PrioritySlotCost is the point cost of one paid priority slot.
const PrioritySlotCost = 1

// Selectors accepted by MarkPlayed and Remove besides an explicit id.
const (
	SelectTop    = "top"
	SelectRandom = "random"
	SelectLast   = "last"
)

// EnqueueParams describes one inbound song request.
type EnqueueParams struct {
	Link   string
	Title  string
	Artist string

	PlatformUserID  string
	UserDisplayName string

	WantPriority      bool
	PreferSubFreeBump bool
	IsSubscriber      bool
}

// Enqueue creates a request in the channel's active session. A priority
// request is served first by a subscriber free bump, then by a point debit;
// if the user cannot pay, the request still lands as non-priority. The queue
// never refuses a song over points.
func (e *Engine) Enqueue(channelID uuid.UUID, p EnqueueParams) (*models.Request, error) {
	var req *models.Request

	err := e.withChannelLock(channelID, func() error {
		st, err := e.store.GetSettings(channelID)
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}
		if st.QueueClosed {
			return ErrQueueClosed
		}

		sess, err := e.activeSession(channelID)
		if err != nil {
			return err
		}

		total, err := e.store.CountPending(sess.ID, false)
		if err != nil {
			return fmt.Errorf("failed to count pending requests: %w", err)
		}
		if st.OverallQueueCap > 0 && total >= st.OverallQueueCap {
			return ErrCapacityExceeded
		}

		user, err := e.getOrCreateUser(channelID, p.PlatformUserID, p.UserDisplayName)
		if err != nil {
			return err
		}

		if st.MaxRequestsPerUser > 0 {
			mine, err := e.store.CountPendingByUser(sess.ID, user.ID, false)
			if err != nil {
				return fmt.Errorf("failed to count user requests: %w", err)
			}
			if mine >= st.MaxRequestsPerUser {
				return ErrCapacityExceeded
			}
		}

		isPriority := false
		source := ""
		bumped := false

		if p.WantPriority {
			minePrio, err := e.store.CountPendingByUser(sess.ID, user.ID, true)
			if err != nil {
				return fmt.Errorf("failed to count priority requests: %w", err)
			}
			if minePrio >= st.MaxPrioPerUser {
				return ErrBumpLimitExceeded
			}

			granted, grantSource, err := e.grantPriority(st, sess, user, p)
			if err != nil {
				return err
			}
			if granted {
				isPriority = true
				source = grantSource
				bumped = grantSource == models.PrioritySourceFreeBump
			}
		}

		if !isPriority {
			if st.PrioOnly {
				return ErrPriorityOnly
			}
			if st.NonPriorityQueueCap > 0 {
				prio, err := e.store.CountPending(sess.ID, true)
				if err != nil {
					return fmt.Errorf("failed to count priority pending: %w", err)
				}
				if total-prio >= st.NonPriorityQueueCap {
					return ErrCapacityExceeded
				}
			}
		}

		song, err := e.getOrCreateSong(channelID, p.Link, p.Title, p.Artist)
		if err != nil {
			return err
		}

		pos, err := e.store.NextPosition(sess.ID, isPriority)
		if err != nil {
			return fmt.Errorf("failed to assign position: %w", err)
		}

		req = &models.Request{
			ID:             uuid.New(),
			ChannelID:      channelID,
			SessionID:      sess.ID,
			SongID:         song.ID,
			UserID:         user.ID,
			Position:       pos,
			IsPriority:     isPriority,
			PrioritySource: source,
			Bumped:         bumped,
			RequestTime:    time.Now(),
			Song:           song,
			User:           user,
		}
		if err := e.store.InsertRequest(req); err != nil {
			return fmt.Errorf("failed to insert request: %w", err)
		}

		user.AmountRequested++
		if err := e.store.UpdateUser(user); err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}

		if _, err := e.bus.Publish(channelID, models.EventRequestAdded, &user.ID, models.RequestAddedPayload{
			ID:        req.ID,
			Song:      *song,
			Requester: *user,
		}); err != nil {
			return err
		}
		if isPriority {
			if _, err := e.bus.Publish(channelID, models.EventRequestBumped, &user.ID, models.RequestBumpedPayload{
				ID:         req.ID,
				IsPriority: true,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

// grantPriority decides how a wanted priority slot is paid for: a subscriber
// free bump when available, otherwise a point debit. Returns granted=false
// on insufficient balance (the documented non-priority fallback).
func (e *Engine) grantPriority(st *models.ChannelSettings, sess *models.StreamSession, user *models.User, p EnqueueParams) (bool, string, error) {
	if p.PreferSubFreeBump && p.IsSubscriber && st.AllowBumps {
		used, err := e.store.CountFreeBumpsByUser(sess.ID, user.ID)
		if err != nil {
			return false, "", fmt.Errorf("failed to count free bumps: %w", err)
		}
		if used < st.MaxFreeBumpsPerStream {
			return true, models.PrioritySourceFreeBump, nil
		}
	}

	ok, err := e.debitLocked(st, user, PrioritySlotCost)
	if err != nil {
		return false, "", err
	}
	if ok {
		return true, models.PrioritySourceUserPoints, nil
	}
	return false, "", nil
}

// SetPriority moves a pending request between priority classes, reassigning
// its position to the tail of the new class. Enabling counts against the
// user's concurrent priority limit; the promotion is admin-sourced and
// leaves the subscriber free-bump allotment untouched.
func (e *Engine) SetPriority(requestID uuid.UUID, enabled bool) (*models.Request, error) {
	probe, err := e.store.GetRequest(requestID)
	if err != nil {
		return nil, fmt.Errorf("%w: request %s", ErrNotFound, requestID)
	}

	var req *models.Request
	err = e.withChannelLock(probe.ChannelID, func() error {
		req, err = e.store.GetRequest(requestID)
		if err != nil || req.Played {
			return fmt.Errorf("%w: request %s", ErrNotFound, requestID)
		}
		if req.IsPriority == enabled {
			return nil
		}

		if enabled {
			st, err := e.store.GetSettings(req.ChannelID)
			if err != nil {
				return fmt.Errorf("failed to load settings: %w", err)
			}
			minePrio, err := e.store.CountPendingByUser(req.SessionID, req.UserID, true)
			if err != nil {
				return fmt.Errorf("failed to count priority requests: %w", err)
			}
			if minePrio >= st.MaxPrioPerUser {
				return ErrBumpLimitExceeded
			}
			req.PrioritySource = models.PrioritySourceAdmin
			req.Bumped = true
		}

		pos, err := e.store.NextPosition(req.SessionID, enabled)
		if err != nil {
			return fmt.Errorf("failed to assign position: %w", err)
		}
		req.IsPriority = enabled
		req.Position = pos

		if err := e.store.UpdateRequest(req); err != nil {
			return fmt.Errorf("failed to update request: %w", err)
		}

		_, err = e.bus.Publish(req.ChannelID, models.EventRequestBumped, &req.UserID, models.RequestBumpedPayload{
			ID:         req.ID,
			IsPriority: enabled,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

// MarkPlayed marks a request played and reports the new head of the queue.
// Selector is an explicit id, "top" (highest-ranked pending) or "random"
// (uniform among priority pending if any, else among all pending).
func (e *Engine) MarkPlayed(channelID uuid.UUID, selector string) (*models.Request, *models.Request, error) {
	var played, upNext *models.Request

	err := e.withChannelLock(channelID, func() error {
		sess, err := e.activeSession(channelID)
		if err != nil {
			return err
		}

		pending, err := e.store.PendingRequests(sess.ID)
		if err != nil {
			return fmt.Errorf("failed to list pending requests: %w", err)
		}

		idx, err := e.selectPlayed(sess.ID, pending, selector)
		if err != nil {
			return err
		}
		played = &pending[idx]

		now := time.Now()
		played.Played = true
		played.PlayedAt = &now
		if err := e.store.UpdateRequest(played); err != nil {
			return fmt.Errorf("failed to mark request played: %w", err)
		}

		for i := range pending {
			if i != idx {
				upNext = &pending[i]
				break
			}
		}

		_, err = e.bus.Publish(channelID, models.EventRequestPlayed, &played.UserID, models.RequestPlayedPayload{
			Request: *played,
			UpNext:  upNext,
		})
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return played, upNext, nil
}

// selectPlayed resolves a MarkPlayed selector to an index in pending, which
// the store returns already sorted by the queue's total order.
func (e *Engine) selectPlayed(sessionID uuid.UUID, pending []models.Request, selector string) (int, error) {
	switch selector {
	case SelectTop:
		if len(pending) == 0 {
			return 0, ErrNotFound
		}
		return 0, nil

	case SelectRandom:
		if len(pending) == 0 {
			return 0, ErrNotFound
		}
		// Priority pending sorts first, so the candidate pool is a prefix.
		prio := 0
		for i := range pending {
			if !pending[i].IsPriority {
				break
			}
			prio++
		}
		if prio > 0 {
			return e.intn(prio), nil
		}
		return e.intn(len(pending)), nil

	default:
		id, err := uuid.Parse(selector)
		if err != nil {
			return 0, fmt.Errorf("%w: invalid selector %q", ErrNotFound, selector)
		}
		for i := range pending {
			if pending[i].ID == id {
				return i, nil
			}
		}
		req, err := e.store.GetRequest(id)
		if err == nil && req.Played && req.SessionID == sessionID {
			return 0, ErrAlreadyPlayed
		}
		return 0, fmt.Errorf("%w: request %s", ErrNotFound, id)
	}
}

// Remove deletes a pending request. Selector "last" removes the most
// recently inserted pending request irrespective of priority class (viewer
// self-undo). Played requests are history and cannot be removed.
func (e *Engine) Remove(channelID uuid.UUID, selector string) (*models.Request, error) {
	var removed *models.Request

	err := e.withChannelLock(channelID, func() error {
		sess, err := e.activeSession(channelID)
		if err != nil {
			return err
		}

		if selector == SelectLast {
			removed, err = e.store.LastInsertedPending(sess.ID)
			if err != nil {
				return ErrNotFound
			}
		} else {
			id, err := uuid.Parse(selector)
			if err != nil {
				return fmt.Errorf("%w: invalid selector %q", ErrNotFound, selector)
			}
			removed, err = e.store.GetRequest(id)
			if err != nil || removed.SessionID != sess.ID {
				return fmt.Errorf("%w: request %s", ErrNotFound, id)
			}
			if removed.Played {
				return ErrAlreadyPlayed
			}
		}

		if err := e.store.DeleteRequest(removed.ID); err != nil {
			return fmt.Errorf("failed to delete request: %w", err)
		}

		_, err = e.bus.Publish(channelID, models.EventRequestRemoved, &removed.UserID, models.RequestRemovedPayload{
			ID: removed.ID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

// RemoveByID deletes a pending request addressed only by id, resolving the
// channel from the request itself.
func (e *Engine) RemoveByID(requestID uuid.UUID) (*models.Request, error) {
	probe, err := e.store.GetRequest(requestID)
	if err != nil {
		return nil, fmt.Errorf("%w: request %s", ErrNotFound, requestID)
	}
	return e.Remove(probe.ChannelID, requestID.String())
}

// Snapshot returns the ordered queue of the active session. It is a read
// and takes no lock; the store serves it from one consistent read.
func (e *Engine) Snapshot(channelID uuid.UUID, includePlayed bool) (*models.QueueSnapshot, error) {
	sess, err := e.store.ActiveSession(channelID)
	if err != nil {
		return nil, fmt.Errorf("failed to load active session: %w", err)
	}

	pending, err := e.store.PendingRequests(sess.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending requests: %w", err)
	}

	snap := &models.QueueSnapshot{SessionID: sess.ID, Pending: pending}
	if includePlayed {
		played, err := e.store.PlayedRequests(sess.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list played requests: %w", err)
		}
		snap.Played = played
	}
	return snap, nil
}

func (e *Engine) getOrCreateUser(channelID uuid.UUID, platformUserID, displayName string) (*models.User, error) {
	user, err := e.store.GetUserByPlatformID(channelID, platformUserID)
	if err == nil {
		if displayName != "" && user.DisplayName != displayName {
			user.DisplayName = displayName
			if err := e.store.UpdateUser(user); err != nil {
				return nil, fmt.Errorf("failed to update user: %w", err)
			}
		}
		return user, nil
	}

	user = &models.User{
		ID:             uuid.New(),
		ChannelID:      channelID,
		PlatformUserID: platformUserID,
		DisplayName:    displayName,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	if err := e.store.InsertUser(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (e *Engine) getOrCreateSong(channelID uuid.UUID, link, title, artist string) (*models.Song, error) {
	if link != "" {
		// Dedup runs on the canonical link so youtu.be and watch?v=
		// shapes of the same video land on one song row.
		if normalized, err := metadata.NormalizeVideoLink(link); err == nil {
			link = normalized
		}
		if song, err := e.store.GetSongByLink(channelID, link); err == nil {
			return song, nil
		}
	}

	if title == "" {
		// Metadata resolution is best-effort; fall back to the raw link.
		title = link
	}
	song := &models.Song{
		ID:        uuid.New(),
		ChannelID: channelID,
		Artist:    artist,
		Title:     title,
		CreatedAt: time.Now(),
	}
	if link != "" {
		song.Link = &link
	}
	if err := e.store.InsertSong(song); err != nil {
		return nil, fmt.Errorf("failed to create song: %w", err)
	}
	return song, nil
}
