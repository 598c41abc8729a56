package music

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// fakePlayer records backend calls and can be told to fail joins.
type fakePlayer struct {
	mu       sync.Mutex
	joined   []string
	played   []*Track
	paused   []bool
	stopped  int
	left     []string
	volumes  []int
	joinErr  error
	joinWait time.Duration
}

func (f *fakePlayer) Join(ctx context.Context, guildID, channelID string) error {
	if f.joinWait > 0 {
		select {
		case <-time.After(f.joinWait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if f.joinErr != nil {
		return f.joinErr
	}
	f.mu.Lock()
	f.joined = append(f.joined, channelID)
	f.mu.Unlock()
	return nil
}

func (f *fakePlayer) Play(guildID string, track *Track) error {
	f.mu.Lock()
	f.played = append(f.played, track)
	f.mu.Unlock()
	return nil
}

func (f *fakePlayer) SetPaused(guildID string, paused bool) error {
	f.mu.Lock()
	f.paused = append(f.paused, paused)
	f.mu.Unlock()
	return nil
}

func (f *fakePlayer) StopTrack(guildID string) error {
	f.mu.Lock()
	f.stopped++
	f.mu.Unlock()
	return nil
}

func (f *fakePlayer) SetVolume(guildID string, volume int) error {
	f.mu.Lock()
	f.volumes = append(f.volumes, volume)
	f.mu.Unlock()
	return nil
}

func (f *fakePlayer) Leave(guildID string) error {
	f.mu.Lock()
	f.left = append(f.left, guildID)
	f.mu.Unlock()
	return nil
}

func track(title string) *Track {
	return &Track{Title: title, URL: "https://example.com/" + title, Requester: "user-1"}
}

func TestEnqueueStartsPlaybackOnEmptyQueue(t *testing.T) {
	fake := &fakePlayer{}
	m := NewManager(fake)

	started, pos, err := m.Enqueue("g1", "voice-1", "text-1", track("A"))
	if err != nil {
		t.Fatalf("Enqueue() error: %v", err)
	}
	if !started || pos != 0 {
		t.Errorf("Enqueue() = (started=%v, pos=%d), want (true, 0)", started, pos)
	}

	snap, err := m.Queue("g1")
	if err != nil {
		t.Fatalf("Queue() error: %v", err)
	}
	if snap.CurrentSong == nil || snap.CurrentSong.Title != "A" {
		t.Errorf("current song = %+v, want A", snap.CurrentSong)
	}
	if len(snap.Songs) != 0 {
		t.Errorf("songs = %d entries, want 0", len(snap.Songs))
	}
	if !snap.Playing {
		t.Error("queue should be playing")
	}
	if len(fake.joined) != 1 || fake.joined[0] != "voice-1" {
		t.Errorf("joined = %v, want [voice-1]", fake.joined)
	}
}

func TestEnqueueAppendsWhilePlaying(t *testing.T) {
	fake := &fakePlayer{}
	m := NewManager(fake)

	m.Enqueue("g1", "voice-1", "text-1", track("A"))
	started, pos, err := m.Enqueue("g1", "voice-1", "text-1", track("B"))
	if err != nil {
		t.Fatalf("Enqueue() error: %v", err)
	}
	if started {
		t.Error("second enqueue should not start playback")
	}
	if pos != 1 {
		t.Errorf("position = %d, want 1", pos)
	}

	snap, _ := m.Queue("g1")
	if snap.CurrentSong.Title != "A" || len(snap.Songs) != 1 || snap.Songs[0].Title != "B" {
		t.Errorf("state = current %v, songs %v; want A playing, [B] queued", snap.CurrentSong, snap.Songs)
	}

	// Only A went to the backend
	if len(fake.played) != 1 {
		t.Errorf("backend played %d tracks, want 1", len(fake.played))
	}
}

func TestTrackEndAdvancesFIFO(t *testing.T) {
	fake := &fakePlayer{}
	m := NewManager(fake)

	m.Enqueue("g1", "voice-1", "text-1", track("A"))
	m.Enqueue("g1", "voice-1", "text-1", track("B"))
	m.Enqueue("g1", "voice-1", "text-1", track("C"))

	m.OnTrackEnd("g1")

	snap, _ := m.Queue("g1")
	if snap.CurrentSong.Title != "B" {
		t.Errorf("current = %v, want B", snap.CurrentSong)
	}
	if len(snap.Songs) != 1 || snap.Songs[0].Title != "C" {
		t.Errorf("songs = %v, want [C]", snap.Songs)
	}

	m.OnTrackEnd("g1")
	snap, _ = m.Queue("g1")
	if snap.CurrentSong.Title != "C" || len(snap.Songs) != 0 {
		t.Errorf("state = %v / %v, want C playing with empty queue", snap.CurrentSong, snap.Songs)
	}
}

func TestIdleTeardownAfterTimeout(t *testing.T) {
	fake := &fakePlayer{}
	m := NewManager(fake).WithTimeouts(30*time.Millisecond, time.Second)

	m.Enqueue("g1", "voice-1", "text-1", track("A"))
	m.OnTrackEnd("g1") // queue empty, idle timer armed

	snap, err := m.Queue("g1")
	if err != nil {
		t.Fatalf("Queue() error right after idle: %v", err)
	}
	if snap.CurrentSong != nil || snap.Playing {
		t.Error("queue should be idle")
	}

	deadline := time.Now().Add(2 * time.Second)
	for m.HasQueue("g1") && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if m.HasQueue("g1") {
		t.Fatal("idle queue was not destroyed")
	}

	fake.mu.Lock()
	defer fake.mu.Unlock()
	if len(fake.left) != 1 || fake.left[0] != "g1" {
		t.Errorf("left = %v, want [g1]", fake.left)
	}
}

func TestEnqueueCancelsIdleTeardown(t *testing.T) {
	fake := &fakePlayer{}
	m := NewManager(fake).WithTimeouts(50*time.Millisecond, time.Second)

	m.Enqueue("g1", "voice-1", "text-1", track("A"))
	m.OnTrackEnd("g1")

	// Enqueue before the timer fires
	started, _, err := m.Enqueue("g1", "voice-1", "text-1", track("C"))
	if err != nil {
		t.Fatalf("Enqueue() error: %v", err)
	}
	if !started {
		t.Error("enqueue on idle queue should start playback immediately")
	}

	time.Sleep(120 * time.Millisecond)
	if !m.HasQueue("g1") {
		t.Fatal("queue was destroyed despite the new track")
	}

	snap, _ := m.Queue("g1")
	if snap.CurrentSong == nil || snap.CurrentSong.Title != "C" {
		t.Errorf("current = %v, want C", snap.CurrentSong)
	}
}

func TestJoinTimeoutTearsDownQueue(t *testing.T) {
	fake := &fakePlayer{joinWait: time.Second}
	m := NewManager(fake).WithTimeouts(time.Minute, 20*time.Millisecond)

	_, _, err := m.Enqueue("g1", "voice-1", "text-1", track("A"))
	if err == nil {
		t.Fatal("expected join timeout error")
	}
	if m.HasQueue("g1") {
		t.Error("failed join should tear down the partially created queue")
	}
}

func TestJoinFailureTearsDownQueue(t *testing.T) {
	fake := &fakePlayer{joinErr: errors.New("voice unavailable")}
	m := NewManager(fake)

	_, _, err := m.Enqueue("g1", "voice-1", "text-1", track("A"))
	if err == nil {
		t.Fatal("expected join error")
	}
	if m.HasQueue("g1") {
		t.Error("failed join should tear down the queue")
	}
}

func TestPauseResumeStateErrors(t *testing.T) {
	fake := &fakePlayer{}
	m := NewManager(fake)

	if err := m.Pause("g1"); err != ErrNoQueue {
		t.Errorf("Pause without queue = %v, want ErrNoQueue", err)
	}

	m.Enqueue("g1", "voice-1", "text-1", track("A"))

	if err := m.Resume("g1"); err != ErrNotPaused {
		t.Errorf("Resume while playing = %v, want ErrNotPaused", err)
	}
	if err := m.Pause("g1"); err != nil {
		t.Errorf("Pause() error: %v", err)
	}
	if err := m.Pause("g1"); err != ErrAlreadyPaused {
		t.Errorf("double Pause = %v, want ErrAlreadyPaused", err)
	}
	if err := m.Resume("g1"); err != nil {
		t.Errorf("Resume() error: %v", err)
	}
}

func TestSkipStopsCurrentTrack(t *testing.T) {
	fake := &fakePlayer{}
	m := NewManager(fake)

	if err := m.Skip("g1"); err != ErrNoQueue {
		t.Errorf("Skip without queue = %v, want ErrNoQueue", err)
	}

	m.Enqueue("g1", "voice-1", "text-1", track("A"))
	m.Enqueue("g1", "voice-1", "text-1", track("B"))

	if err := m.Skip("g1"); err != nil {
		t.Fatalf("Skip() error: %v", err)
	}
	if fake.stopped != 1 {
		t.Errorf("backend stop calls = %d, want 1", fake.stopped)
	}

	// The backend's end event drives the actual advance
	m.OnTrackEnd("g1")
	snap, _ := m.Queue("g1")
	if snap.CurrentSong.Title != "B" {
		t.Errorf("current after skip = %v, want B", snap.CurrentSong)
	}
}

func TestStopDestroysQueueUnconditionally(t *testing.T) {
	fake := &fakePlayer{}
	m := NewManager(fake)

	m.Enqueue("g1", "voice-1", "text-1", track("A"))
	m.Enqueue("g1", "voice-1", "text-1", track("B"))

	if err := m.Stop("g1"); err != nil {
		t.Fatalf("Stop() error: %v", err)
	}
	if m.HasQueue("g1") {
		t.Error("Stop should destroy the queue")
	}
	if len(fake.left) != 1 {
		t.Errorf("leave calls = %d, want 1", len(fake.left))
	}
}

func TestVolumeValidationAndReadback(t *testing.T) {
	fake := &fakePlayer{}
	m := NewManager(fake)

	m.Enqueue("g1", "voice-1", "text-1", track("A"))

	if err := m.SetVolume("g1", 150); err != ErrVolumeRange {
		t.Errorf("SetVolume(150) = %v, want ErrVolumeRange", err)
	}
	if err := m.SetVolume("g1", -1); err != ErrVolumeRange {
		t.Errorf("SetVolume(-1) = %v, want ErrVolumeRange", err)
	}

	if err := m.SetVolume("g1", 50); err != nil {
		t.Fatalf("SetVolume(50) error: %v", err)
	}
	vol, err := m.Volume("g1")
	if err != nil {
		t.Fatalf("Volume() error: %v", err)
	}
	if vol != 50 {
		t.Errorf("Volume() = %d, want 50", vol)
	}

	// Default before any change
	m.Enqueue("g2", "voice-2", "text-2", track("B"))
	vol, _ = m.Volume("g2")
	if vol != DefaultVolume {
		t.Errorf("default volume = %d, want %d", vol, DefaultVolume)
	}
}

func TestQueuesAreGuildIndependent(t *testing.T) {
	fake := &fakePlayer{}
	m := NewManager(fake)

	m.Enqueue("g1", "voice-1", "text-1", track("A"))
	m.Enqueue("g2", "voice-2", "text-2", track("B"))

	if err := m.Stop("g1"); err != nil {
		t.Fatalf("Stop(g1) error: %v", err)
	}
	if !m.HasQueue("g2") {
		t.Error("stopping g1 destroyed g2's queue")
	}

	snap, _ := m.Queue("g2")
	if snap.CurrentSong.Title != "B" {
		t.Errorf("g2 current = %v, want B", snap.CurrentSong)
	}
}
