// Package lavalink provides the Lavalink audio transport: node connections,
// track search and the raw playback operations driven by the music manager.
package lavalink

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/WardenStudios/WardenBotGo/pkg/logger"
	"github.com/WardenStudios/WardenBotGo/pkg/music"
	"github.com/bwmarrin/discordgo"
	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

// NodeConfig holds configuration for a Lavalink node
type NodeConfig struct {
	Name     string
	Host     string
	Port     int
	Password string
	Secure   bool
}

// TrackInfo contains the wire metadata of a track
type TrackInfo struct {
	Identifier string `json:"identifier"`
	IsSeekable bool   `json:"isSeekable"`
	Author     string `json:"author"`
	Length     int64  `json:"length"`
	IsStream   bool   `json:"isStream"`
	Position   int64  `json:"position"`
	Title      string `json:"title"`
	URI        string `json:"uri"`
	ArtworkURL string `json:"artworkUrl"`
	SourceName string `json:"sourceName"`
}

// Track represents a playable track as Lavalink encodes it
type Track struct {
	Encoded string    `json:"encoded"`
	Info    TrackInfo `json:"info"`
}

// ToMusicTrack converts a wire track into the manager's queue entry.
func (t *Track) ToMusicTrack(requester string) *music.Track {
	return &music.Track{
		Title:      t.Info.Title,
		URL:        t.Info.URI,
		DurationMs: t.Info.Length,
		Requester:  requester,
		Encoded:    t.Encoded,
	}
}

// SearchResult represents a search response from Lavalink
type SearchResult struct {
	LoadType     string      `json:"loadType"`
	PlaylistInfo interface{} `json:"playlistInfo"`
	Tracks       []*Track    `json:"tracks"`
	Exception    *struct {
		Message  string `json:"message"`
		Severity string `json:"severity"`
	} `json:"exception"`
}

// Client manages the Lavalink node connections. It implements music.Player.
type Client struct {
	session         *discordgo.Session
	nodes           []*Node
	mu              sync.RWMutex
	defaultPlatform string
	trackEnd        func(guildID string)
	joinWaits       map[string]chan struct{}
}

// Node represents a Lavalink node connection
type Node struct {
	config       NodeConfig
	conn         *websocket.Conn
	client       *Client
	connected    bool
	reconnecting bool
	mu           sync.RWMutex
}

var (
	lavalinkClient *Client
	once           sync.Once
)

// Init initializes the global Lavalink client
func Init(session *discordgo.Session, nodeConfigs []NodeConfig) *Client {
	once.Do(func() {
		lavalinkClient = NewClient(session, nodeConfigs)
	})
	return lavalinkClient
}

// Get returns the global Lavalink client
func Get() *Client {
	return lavalinkClient
}

// NewClient creates a new Lavalink client
func NewClient(session *discordgo.Session, nodeConfigs []NodeConfig) *Client {
	logger.Debug("Initializing Lavalink Client", "Lavalink")

	client := &Client{
		session:         session,
		nodes:           make([]*Node, 0),
		defaultPlatform: "dzsearch",
		joinWaits:       make(map[string]chan struct{}),
	}

	for _, config := range nodeConfigs {
		node := &Node{
			config: config,
			client: client,
		}
		client.nodes = append(client.nodes, node)
	}

	// Voice plumbing between Discord and Lavalink
	session.AddHandler(client.voiceStateUpdate)
	session.AddHandler(client.voiceServerUpdate)

	return client
}

// OnTrackEnd registers the callback invoked when a track finishes naturally
// or is stopped. The music manager uses it to advance the queue.
func (c *Client) OnTrackEnd(fn func(guildID string)) {
	c.mu.Lock()
	c.trackEnd = fn
	c.mu.Unlock()
}

// Connect connects to all Lavalink nodes
func (c *Client) Connect() error {
	for _, node := range c.nodes {
		go node.connect()
	}
	return nil
}

// connect establishes connection to a Lavalink node
func (n *Node) connect() {
	n.mu.Lock()
	if n.connected || n.reconnecting {
		n.mu.Unlock()
		return
	}
	n.reconnecting = true
	n.mu.Unlock()

	scheme := "ws"
	if n.config.Secure {
		scheme = "wss"
	}

	url := fmt.Sprintf("%s://%s:%d/v4/websocket", scheme, n.config.Host, n.config.Port)

	headers := http.Header{}
	headers.Set("Authorization", n.config.Password)
	headers.Set("User-Id", n.client.session.State.User.ID)
	headers.Set("Client-Name", "WardenBot-Go/1.0")

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.Dial(url, headers)
	if err != nil {
		logger.Error(fmt.Sprintf("Error al conectar con Lavalink %s: %v", n.config.Name, err), "Lavalink")
		n.mu.Lock()
		n.reconnecting = false
		n.mu.Unlock()

		go func() {
			time.Sleep(5 * time.Second)
			n.connect()
		}()
		return
	}

	n.mu.Lock()
	n.conn = conn
	n.connected = true
	n.reconnecting = false
	n.mu.Unlock()

	logger.Success(fmt.Sprintf("Conectado con Lavalink server: %s", n.config.Name), "Lavalink")

	go n.readMessages()
}

// readMessages reads messages from the Lavalink websocket
func (n *Node) readMessages() {
	for {
		_, message, err := n.conn.ReadMessage()
		if err != nil {
			logger.Warn(fmt.Sprintf("Error leyendo mensaje de Lavalink: %v", err), "Lavalink")
			n.handleDisconnect()
			return
		}

		var payload map[string]interface{}
		if err := json.Unmarshal(message, &payload); err != nil {
			continue
		}

		n.handleMessage(payload)
	}
}

// handleMessage processes incoming Lavalink messages
func (n *Node) handleMessage(payload map[string]interface{}) {
	op, ok := payload["op"].(string)
	if !ok {
		return
	}

	switch op {
	case "ready":
		logger.Info("Lavalink ready", "Lavalink")
	case "event":
		n.handleEvent(payload)
	case "playerUpdate", "stats":
		// Position updates and node statistics are not tracked here
	}
}

// handleEvent handles Lavalink events
func (n *Node) handleEvent(payload map[string]interface{}) {
	eventType, ok := payload["type"].(string)
	if !ok {
		return
	}

	guildID, _ := payload["guildId"].(string)

	switch eventType {
	case "TrackStartEvent":
		logger.Info(fmt.Sprintf("Pista iniciada en guild %s", guildID), "Lavalink")
	case "TrackEndEvent":
		n.client.mu.RLock()
		fn := n.client.trackEnd
		n.client.mu.RUnlock()
		if fn != nil {
			fn(guildID)
		}
	case "TrackExceptionEvent":
		logger.Error(fmt.Sprintf("Track exception in guild %s", guildID), "Lavalink")
	case "TrackStuckEvent":
		logger.Warn(fmt.Sprintf("Track stuck in guild %s", guildID), "Lavalink")
	case "WebSocketClosedEvent":
		logger.Warn(fmt.Sprintf("WebSocket closed for guild %s", guildID), "Lavalink")
	}
}

// handleDisconnect handles node disconnection
func (n *Node) handleDisconnect() {
	n.mu.Lock()
	n.connected = false
	if n.conn != nil {
		n.conn.Close()
	}
	n.mu.Unlock()

	logger.Warn(fmt.Sprintf("Desconectado de Lavalink: %s. Reintentando...", n.config.Name), "Lavalink")

	time.Sleep(5 * time.Second)
	go n.connect()
}

// Search searches for tracks on the first available node
func (c *Client) Search(query string) (*SearchResult, error) {
	for _, node := range c.nodes {
		if !node.connected {
			continue
		}

		scheme := "http"
		if node.config.Secure {
			scheme = "https"
		}

		url := fmt.Sprintf("%s://%s:%d/v4/loadtracks?identifier=%s:%s",
			scheme, node.config.Host, node.config.Port, c.defaultPlatform, query)

		req, err := http.NewRequest("GET", url, nil)
		if err != nil {
			continue
		}
		req.Header.Set("Authorization", node.config.Password)

		client := &http.Client{Timeout: 10 * time.Second}
		resp, err := client.Do(req)
		if err != nil {
			continue
		}
		defer resp.Body.Close()

		var result SearchResult
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			continue
		}

		return &result, nil
	}

	return nil, fmt.Errorf("no available Lavalink nodes")
}

// Join connects to a voice channel and blocks until Discord confirms the
// voice state or ctx expires.
func (c *Client) Join(ctx context.Context, guildID, channelID string) error {
	wait := make(chan struct{})
	c.mu.Lock()
	c.joinWaits[guildID] = wait
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.joinWaits, guildID)
		c.mu.Unlock()
	}()

	if err := c.session.ChannelVoiceJoinManual(guildID, channelID, false, true); err != nil {
		return fmt.Errorf("error joining voice channel: %w", err)
	}

	select {
	case <-wait:
		return nil
	case <-ctx.Done():
		// Abandon the half-open voice connection
		_ = c.session.ChannelVoiceJoinManual(guildID, "", false, true)
		return ctx.Err()
	}
}

// Play starts playing a track in a guild
func (c *Client) Play(guildID string, track *music.Track) error {
	return c.sendToNode(map[string]interface{}{
		"op":      "play",
		"guildId": guildID,
		"track":   track.Encoded,
	})
}

// SetPaused pauses or resumes playback
func (c *Client) SetPaused(guildID string, paused bool) error {
	return c.sendToNode(map[string]interface{}{
		"op":      "pause",
		"guildId": guildID,
		"pause":   paused,
	})
}

// StopTrack stops the current track; Lavalink then emits TrackEndEvent
func (c *Client) StopTrack(guildID string) error {
	return c.sendToNode(map[string]interface{}{
		"op":      "stop",
		"guildId": guildID,
	})
}

// SetVolume sets the playback volume for a guild
func (c *Client) SetVolume(guildID string, volume int) error {
	return c.sendToNode(map[string]interface{}{
		"op":      "volume",
		"guildId": guildID,
		"volume":  volume,
	})
}

// Leave destroys the guild player and disconnects from voice
func (c *Client) Leave(guildID string) error {
	err := c.sendToNode(map[string]interface{}{
		"op":      "destroy",
		"guildId": guildID,
	})

	if vErr := c.session.ChannelVoiceJoinManual(guildID, "", false, true); vErr != nil && err == nil {
		err = vErr
	}
	return err
}

// sendToNode sends an operation to the first connected node
func (c *Client) sendToNode(data map[string]interface{}) error {
	for _, node := range c.nodes {
		if node.connected {
			return node.sendOp(data)
		}
	}
	return fmt.Errorf("no available nodes")
}

// sendOp sends an operation to the Lavalink node
func (n *Node) sendOp(data map[string]interface{}) error {
	n.mu.RLock()
	defer n.mu.RUnlock()

	if !n.connected || n.conn == nil {
		return fmt.Errorf("node not connected")
	}

	return n.conn.WriteJSON(data)
}

// Voice handlers for Discord
func (c *Client) voiceStateUpdate(s *discordgo.Session, v *discordgo.VoiceStateUpdate) {
	if v.UserID != s.State.User.ID {
		return
	}

	// Unblock a pending Join once we land in a channel
	if v.ChannelID != "" {
		c.mu.Lock()
		if wait, exists := c.joinWaits[v.GuildID]; exists {
			close(wait)
			delete(c.joinWaits, v.GuildID)
		}
		c.mu.Unlock()
	}

	for _, node := range c.nodes {
		if node.connected {
			node.sendOp(map[string]interface{}{
				"op":        "voiceUpdate",
				"guildId":   v.GuildID,
				"sessionId": v.SessionID,
			})
			break
		}
	}
}

func (c *Client) voiceServerUpdate(s *discordgo.Session, v *discordgo.VoiceServerUpdate) {
	for _, node := range c.nodes {
		if node.connected {
			node.sendOp(map[string]interface{}{
				"op":      "voiceUpdate",
				"guildId": v.GuildID,
				"event":   v,
			})
			break
		}
	}
}

// Disconnect disconnects from all nodes
func (c *Client) Disconnect() {
	for _, node := range c.nodes {
		node.mu.Lock()
		if node.conn != nil {
			node.conn.Close()
		}
		node.connected = false
		node.mu.Unlock()
	}

	logger.System("Lavalink client desconectado", "Lavalink")
}
