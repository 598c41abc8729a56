// Package music implements the per-guild playback state machine: one queue
// per guild with an explicit lifecycle, created on the first enqueue and
// destroyed on stop or after five minutes of idle.
package music

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/WardenStudios/WardenBotGo/pkg/logger"
)

var (
	ErrNoQueue        = errors.New("no hay una cola de reproducción activa")
	ErrNothingPlaying = errors.New("no hay nada reproduciéndose")
	ErrAlreadyPaused  = errors.New("la reproducción ya está pausada")
	ErrNotPaused      = errors.New("la reproducción no está pausada")
	ErrVolumeRange    = errors.New("el volumen debe estar entre 0 y 100")
)

const (
	// DefaultIdleTimeout is how long an empty, silent queue survives before
	// the guild is disconnected.
	DefaultIdleTimeout = 5 * time.Minute

	// DefaultJoinTimeout bounds the wait for a voice-channel join.
	DefaultJoinTimeout = 30 * time.Second

	DefaultVolume = 100
)

var (
	instance *Manager
	once     sync.Once
)

// Init initializes the global music manager (singleton)
func Init(player Player) *Manager {
	once.Do(func() {
		instance = NewManager(player)
	})
	return instance
}

// Get returns the global music manager instance
func Get() *Manager {
	return instance
}

// Track is one queued song.
type Track struct {
	Title      string `json:"title"`
	URL        string `json:"url"`
	DurationMs int64  `json:"durationMs"`
	Requester  string `json:"requester"`
	// Encoded carries the opaque playback handle for the audio backend.
	Encoded string `json:"-"`
}

// Player is the audio backend the manager drives. Join blocks until the
// voice connection is usable or ctx expires.
type Player interface {
	Join(ctx context.Context, guildID, channelID string) error
	Play(guildID string, track *Track) error
	SetPaused(guildID string, paused bool) error
	StopTrack(guildID string) error
	SetVolume(guildID string, volume int) error
	Leave(guildID string) error
}

// Snapshot is a copy of a queue's observable state.
type Snapshot struct {
	GuildID     string   `json:"guildId"`
	CurrentSong *Track   `json:"currentSong"`
	Songs       []*Track `json:"songs"`
	Volume      int      `json:"volume"`
	Playing     bool     `json:"playing"`
	Paused      bool     `json:"paused"`
}

// guildQueue holds the mutable playback state for one guild. All access goes
// through the owning Manager's lock.
type guildQueue struct {
	guildID        string
	voiceChannelID string
	textChannelID  string
	songs          []*Track
	currentSong    *Track
	volume         int
	playing        bool
	paused         bool
	// idleGen invalidates an armed idle timer: the timer captures the
	// generation at arm time and aborts if it moved on.
	idleGen int
}

// Manager owns the registry of guild queues. It is safe for concurrent use.
type Manager struct {
	player      Player
	mu          sync.Mutex
	queues      map[string]*guildQueue
	idleTimeout time.Duration
	joinTimeout time.Duration

	// OnStateChange, when set, receives a snapshot after every transition.
	// Used to fan playback state out to the telemetry broker.
	OnStateChange func(event string, snapshot Snapshot)
}

// NewManager creates a Manager driving the given audio backend.
func NewManager(player Player) *Manager {
	return &Manager{
		player:      player,
		queues:      make(map[string]*guildQueue),
		idleTimeout: DefaultIdleTimeout,
		joinTimeout: DefaultJoinTimeout,
	}
}

// WithTimeouts overrides the idle and join timeouts.
func (m *Manager) WithTimeouts(idle, join time.Duration) *Manager {
	m.idleTimeout = idle
	m.joinTimeout = join
	return m
}

// Enqueue adds a track to a guild's queue, creating the queue and joining
// the voice channel on first use. It reports whether the track started
// playing immediately and, if queued instead, its position in line.
func (m *Manager) Enqueue(guildID, voiceChannelID, textChannelID string, track *Track) (started bool, position int, err error) {
	m.mu.Lock()
	q, exists := m.queues[guildID]
	if !exists {
		q = &guildQueue{
			guildID:        guildID,
			voiceChannelID: voiceChannelID,
			textChannelID:  textChannelID,
			volume:         DefaultVolume,
		}
		m.queues[guildID] = q
	}
	q.idleGen++
	m.mu.Unlock()

	if !exists {
		ctx, cancel := context.WithTimeout(context.Background(), m.joinTimeout)
		defer cancel()

		if err := m.player.Join(ctx, guildID, voiceChannelID); err != nil {
			m.mu.Lock()
			delete(m.queues, guildID)
			m.mu.Unlock()
			return false, 0, fmt.Errorf("no se pudo unir al canal de voz: %w", err)
		}
	}

	m.mu.Lock()
	if q.currentSong == nil {
		q.currentSong = track
		q.playing = true
		q.paused = false
		m.mu.Unlock()

		if err := m.player.Play(guildID, track); err != nil {
			m.mu.Lock()
			q.currentSong = nil
			q.playing = false
			m.mu.Unlock()
			return false, 0, err
		}

		m.notify("playing", guildID)
		return true, 0, nil
	}

	q.songs = append(q.songs, track)
	position = len(q.songs)
	m.mu.Unlock()

	m.notify("queued", guildID)
	return false, position, nil
}

// OnTrackEnd advances the queue after natural track completion: next track
// if one is queued, otherwise idle with the destroy timer armed.
func (m *Manager) OnTrackEnd(guildID string) {
	m.mu.Lock()
	q, exists := m.queues[guildID]
	if !exists {
		m.mu.Unlock()
		return
	}

	if len(q.songs) > 0 {
		next := q.songs[0]
		q.songs = q.songs[1:]
		q.currentSong = next
		q.playing = true
		q.paused = false
		m.mu.Unlock()

		if err := m.player.Play(guildID, next); err != nil {
			logger.Error(fmt.Sprintf("Fallo al reproducir siguiente pista en guild %s: %v", guildID, err), "Music")
			return
		}
		m.notify("playing", guildID)
		return
	}

	q.currentSong = nil
	q.playing = false
	q.paused = false
	q.idleGen++
	gen := q.idleGen
	m.mu.Unlock()

	m.notify("idle", guildID)
	m.armIdleTimer(guildID, gen)
}

// armIdleTimer schedules the idle teardown. The handler re-checks both the
// generation and the idleness at fire time, so an enqueue racing in after
// arming aborts the destroy.
func (m *Manager) armIdleTimer(guildID string, gen int) {
	time.AfterFunc(m.idleTimeout, func() {
		m.mu.Lock()
		q, exists := m.queues[guildID]
		if !exists || q.idleGen != gen || q.currentSong != nil || len(q.songs) > 0 {
			m.mu.Unlock()
			return
		}
		delete(m.queues, guildID)
		m.mu.Unlock()

		logger.Info(fmt.Sprintf("Cola inactiva destruida en guild %s", guildID), "Music")
		if err := m.player.Leave(guildID); err != nil {
			logger.Warn(fmt.Sprintf("Error al salir del canal de voz en guild %s: %v", guildID, err), "Music")
		}
		m.notify("destroyed", guildID)
	})
}

// Pause pauses playback. Pausing an already paused queue is an error the
// command layer shows to the user.
func (m *Manager) Pause(guildID string) error {
	m.mu.Lock()
	q, exists := m.queues[guildID]
	if !exists {
		m.mu.Unlock()
		return ErrNoQueue
	}
	if q.currentSong == nil {
		m.mu.Unlock()
		return ErrNothingPlaying
	}
	if q.paused {
		m.mu.Unlock()
		return ErrAlreadyPaused
	}
	q.paused = true
	m.mu.Unlock()

	if err := m.player.SetPaused(guildID, true); err != nil {
		return err
	}
	m.notify("paused", guildID)
	return nil
}

// Resume resumes paused playback.
func (m *Manager) Resume(guildID string) error {
	m.mu.Lock()
	q, exists := m.queues[guildID]
	if !exists {
		m.mu.Unlock()
		return ErrNoQueue
	}
	if !q.paused {
		m.mu.Unlock()
		return ErrNotPaused
	}
	q.paused = false
	m.mu.Unlock()

	if err := m.player.SetPaused(guildID, false); err != nil {
		return err
	}
	m.notify("playing", guildID)
	return nil
}

// Skip stops the current track; the natural-completion event then advances
// the queue.
func (m *Manager) Skip(guildID string) error {
	m.mu.Lock()
	q, exists := m.queues[guildID]
	if !exists {
		m.mu.Unlock()
		return ErrNoQueue
	}
	if q.currentSong == nil {
		m.mu.Unlock()
		return ErrNothingPlaying
	}
	m.mu.Unlock()

	return m.player.StopTrack(guildID)
}

// Stop destroys the queue and disconnects from voice, whatever the state.
func (m *Manager) Stop(guildID string) error {
	m.mu.Lock()
	_, exists := m.queues[guildID]
	if !exists {
		m.mu.Unlock()
		return ErrNoQueue
	}
	delete(m.queues, guildID)
	m.mu.Unlock()

	if err := m.player.Leave(guildID); err != nil {
		logger.Warn(fmt.Sprintf("Error al desconectar de voz en guild %s: %v", guildID, err), "Music")
	}
	m.notify("destroyed", guildID)
	return nil
}

// SetVolume updates the guild volume. Out-of-range values are rejected, not
// clamped; the new volume applies to subsequent playback.
func (m *Manager) SetVolume(guildID string, volume int) error {
	if volume < 0 || volume > 100 {
		return ErrVolumeRange
	}

	m.mu.Lock()
	q, exists := m.queues[guildID]
	if !exists {
		m.mu.Unlock()
		return ErrNoQueue
	}
	q.volume = volume
	m.mu.Unlock()

	if err := m.player.SetVolume(guildID, volume); err != nil {
		return err
	}
	m.notify("volume", guildID)
	return nil
}

// Volume reads the guild volume.
func (m *Manager) Volume(guildID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	q, exists := m.queues[guildID]
	if !exists {
		return 0, ErrNoQueue
	}
	return q.volume, nil
}

// Queue returns a snapshot of the guild's queue state.
func (m *Manager) Queue(guildID string) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	q, exists := m.queues[guildID]
	if !exists {
		return Snapshot{}, ErrNoQueue
	}
	return m.snapshotLocked(q), nil
}

// HasQueue reports whether a guild currently has a queue.
func (m *Manager) HasQueue(guildID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, exists := m.queues[guildID]
	return exists
}

// ActiveQueues returns the number of live queues across all guilds.
func (m *Manager) ActiveQueues() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queues)
}

func (m *Manager) snapshotLocked(q *guildQueue) Snapshot {
	songs := make([]*Track, len(q.songs))
	copy(songs, q.songs)
	return Snapshot{
		GuildID:     q.guildID,
		CurrentSong: q.currentSong,
		Songs:       songs,
		Volume:      q.volume,
		Playing:     q.playing,
		Paused:      q.paused,
	}
}

func (m *Manager) notify(event, guildID string) {
	if m.OnStateChange == nil {
		return
	}

	m.mu.Lock()
	q, exists := m.queues[guildID]
	var snap Snapshot
	if exists {
		snap = m.snapshotLocked(q)
	} else {
		snap = Snapshot{GuildID: guildID}
	}
	m.mu.Unlock()

	m.OnStateChange(event, snap)
}
