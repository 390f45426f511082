package bot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/avelis/millebot/pkg/mille"
)

// WSEvent is a server-pushed table event.
type WSEvent struct {
	Type    string          `json:"type"`
	TableID string          `json:"table_id"`
	Data    json.RawMessage `json:"data"`
}

// Event types pushed by a match server.
const (
	EventTurn       = "turn"        // data: mille.GameState
	EventCardDrawn  = "card_drawn"  // data: {card}
	EventMovePlayed = "move_played" // data: {player, move}
	EventHandEnded  = "hand_ended"  // data: mille.ScoreSummary
	EventCoupFourre = "coup_fourre" // data: {attack, state}
	EventExtension  = "extension"   // data: {state}
	EventSeated     = "seated"      // data: {player}
	EventMatchEnded = "match_ended" // data: {winner_team}
)

// Client is an HTTP+WebSocket client for a single remote bot player.
type Client struct {
	name     string
	baseURL  string
	token    string
	wsConn   *websocket.Conn
	events   chan WSEvent
	httpC    *http.Client
	mu       sync.Mutex
	closedWS bool
}

// NewClient creates a new bot client targeting the given match server URL.
func NewClient(name, baseURL string) *Client {
	return &Client{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		events:  make(chan WSEvent, 64),
		httpC:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Name returns the bot name.
func (c *Client) Name() string { return c.name }

// Login authenticates via the dev login endpoint.
func (c *Client) Login() error {
	resp, err := c.httpC.Get(c.baseURL + "/auth/dev?name=" + url.QueryEscape(c.name))
	if err != nil {
		return fmt.Errorf("dev login request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("dev login status %d: %s", resp.StatusCode, body)
	}

	var tokens struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokens); err != nil {
		return fmt.Errorf("decode tokens: %w", err)
	}
	c.token = tokens.AccessToken
	log.Debug().Str("bot", c.name).Msg("Bot logged in")
	return nil
}

// CreateTable creates a new table and returns its ID.
func (c *Client) CreateTable(name string, seats int) (string, error) {
	resp, err := c.postJSON("/api/v1/tables", map[string]any{"name": name, "seats": seats})
	if err != nil {
		return "", err
	}
	id, _ := resp["id"].(string)
	return id, nil
}

// JoinTable joins an existing table.
func (c *Client) JoinTable(tableID string) error {
	_, err := c.postJSON("/api/v1/tables/"+tableID+"/join", nil)
	return err
}

// StartTable starts the match (creator only).
func (c *Client) StartTable(tableID string) error {
	_, err := c.postJSON("/api/v1/tables/"+tableID+"/start", nil)
	return err
}

// SubmitMove submits the move for the current turn.
func (c *Client) SubmitMove(tableID string, m mille.Move) error {
	return c.post("/api/v1/tables/"+tableID+"/moves", map[string]any{
		"type":   int(m.Type),
		"card":   int(m.Card),
		"target": m.Target,
	})
}

// RespondCoupFourre answers a coup fourré offer.
func (c *Client) RespondCoupFourre(tableID string, accept bool) error {
	return c.post("/api/v1/tables/"+tableID+"/coup-fourre", map[string]any{"accept": accept})
}

// RespondExtension answers a trip-extension offer.
func (c *Client) RespondExtension(tableID string, accept bool) error {
	return c.post("/api/v1/tables/"+tableID+"/extension", map[string]any{"accept": accept})
}

// ConnectWS opens a WebSocket connection and starts listening for events.
func (c *Client) ConnectWS() error {
	wsURL := strings.Replace(c.baseURL, "http", "ws", 1) + "/api/v1/ws?token=" + url.QueryEscape(c.token)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return fmt.Errorf("ws dial: %w", err)
	}
	c.wsConn = conn

	go c.readWSLoop()
	return nil
}

// SubscribeTable sends a subscribe message for the given table.
func (c *Client) SubscribeTable(tableID string) error {
	msg := map[string]string{"action": "subscribe", "table_id": tableID}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.wsConn.WriteJSON(msg)
}

// Events returns the channel of incoming WebSocket events.
func (c *Client) Events() <-chan WSEvent { return c.events }

// CloseWS closes the WebSocket connection.
func (c *Client) CloseWS() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.wsConn != nil && !c.closedWS {
		c.closedWS = true
		c.wsConn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		c.wsConn.Close()
	}
}

func (c *Client) readWSLoop() {
	defer close(c.events)
	for {
		_, msg, err := c.wsConn.ReadMessage()
		if err != nil {
			if !c.closedWS {
				log.Debug().Err(err).Str("bot", c.name).Msg("WS read error")
			}
			return
		}
		var event WSEvent
		if err := json.Unmarshal(msg, &event); err != nil {
			continue
		}
		c.events <- event
	}
}

// post sends a POST request and checks for errors without decoding the response body.
func (c *Client) post(path string, payload any) error {
	resp, err := c.doPost(path, payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("POST %s: status %d: %s", path, resp.StatusCode, body)
	}
	return nil
}

func (c *Client) postJSON(path string, payload any) (map[string]any, error) {
	resp, err := c.doPost(path, payload)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("POST %s: status %d: %s", path, resp.StatusCode, body)
	}

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return result, nil
}

func (c *Client) doPost(path string, payload any) (*http.Response, error) {
	var bodyReader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(data)
	} else {
		bodyReader = bytes.NewReader([]byte("{}"))
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	return c.httpC.Do(req)
}
