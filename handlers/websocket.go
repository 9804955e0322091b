package handlers

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"

	"robosim-backend/models"
)

// Client - 연결된 뷰어
type Client struct {
	Conn       *websocket.Conn
	ClientType string // "viewer"

	writeMu sync.Mutex
}

// send serialises writes to one connection.
func (c *Client) send(msg models.WebSocketMessage) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.Conn.WriteJSON(msg)
}

// ClientManager - 뷰어 등록/해제 및 브로드캐스트
type ClientManager struct {
	clients    map[*websocket.Conn]*Client
	broadcast  chan models.WebSocketMessage
	register   chan *Client
	unregister chan *websocket.Conn
	mutex      sync.RWMutex
}

// NewClientManager - 클라이언트 관리자 생성
func NewClientManager() *ClientManager {
	return &ClientManager{
		clients:    make(map[*websocket.Conn]*Client),
		broadcast:  make(chan models.WebSocketMessage, 256),
		register:   make(chan *Client),
		unregister: make(chan *websocket.Conn),
	}
}

// 전역 클라이언트 관리자
var Manager = NewClientManager()

// Start - 클라이언트 관리 루프 (고루틴으로 실행)
func (manager *ClientManager) Start() {
	slog.Info("✅ ClientManager 시작")
	for {
		select {
		case client := <-manager.register:
			manager.mutex.Lock()
			manager.clients[client.Conn] = client
			manager.mutex.Unlock()
			slog.Info("클라이언트 등록", "type", client.ClientType, "addr", client.Conn.RemoteAddr().String())

		case conn := <-manager.unregister:
			manager.remove(conn)

		case message := <-manager.broadcast:
			manager.handleBroadcast(message)
		}
	}
}

func (manager *ClientManager) remove(conn *websocket.Conn) {
	manager.mutex.Lock()
	client, ok := manager.clients[conn]
	delete(manager.clients, conn)
	manager.mutex.Unlock()
	if ok {
		_ = conn.Close()
		slog.Info("클라이언트 해제", "type", client.ClientType, "addr", conn.RemoteAddr().String())
	}
}

func (manager *ClientManager) handleBroadcast(message models.WebSocketMessage) {
	manager.mutex.RLock()
	var failed []*websocket.Conn
	for conn, client := range manager.clients {
		if err := client.send(message); err != nil {
			slog.Warn("전송 실패", "type", client.ClientType, "err", err)
			failed = append(failed, conn)
		}
	}
	manager.mutex.RUnlock()

	for _, conn := range failed {
		manager.remove(conn)
	}
}

// BroadcastMessage queues msg for every viewer. It never blocks the caller;
// messages are dropped when the queue is full.
func (manager *ClientManager) BroadcastMessage(msg models.WebSocketMessage) {
	select {
	case manager.broadcast <- msg:
	default:
		slog.Warn("⚠️ broadcast 채널 가득 참", "type", msg.Type)
	}
}

// GetClientCount - 연결된 뷰어 수
func (manager *ClientManager) GetClientCount() int {
	manager.mutex.RLock()
	defer manager.mutex.RUnlock()
	return len(manager.clients)
}

// HandleViewerWebSocket streams simulation updates to a viewer and accepts
// control messages of the same shape as the REST bodies.
func HandleViewerWebSocket(c *websocket.Conn) {
	client := &Client{Conn: c, ClientType: "viewer"}
	Manager.register <- client

	defer func() {
		Manager.unregister <- c
	}()

	for _, msg := range welcomeMessages() {
		if err := client.send(msg); err != nil {
			return
		}
	}

	for {
		var msg models.WebSocketMessage
		if err := c.ReadJSON(&msg); err != nil {
			slog.Debug("뷰어 메시지 읽기 종료", "err", err)
			break
		}

		slog.Info("🎮 제어 메시지", "type", msg.Type)
		if err := dispatchControl(msg); err != nil {
			_ = client.send(models.WebSocketMessage{
				Type:      models.MessageTypeControlFailure,
				Data:      models.ControlFailure{Request: msg.Type, Error: err.Error()},
				Timestamp: time.Now().UnixMilli(),
			})
		}
	}
}

// welcomeMessages - 접속 직후 전송 (시스템 정보, 현재 챌린지, 스냅샷)
func welcomeMessages() []models.WebSocketMessage {
	now := time.Now()
	info := models.SystemInfo{
		ConnectedViewers: Manager.GetClientCount(),
		ServerTime:       now,
	}
	msgs := []models.WebSocketMessage{}
	if Runner != nil {
		info.TickMs = Runner.Params().TickMs()
		if ch := Runner.Challenge(); ch != nil {
			info.ChallengeID = ch.ID
			msgs = append(msgs, models.WebSocketMessage{Type: models.MessageTypeChallengeLoad, Data: ch, Timestamp: now.UnixMilli()})
		}
		if snap, err := Runner.Snapshot(); err == nil {
			msgs = append(msgs, models.WebSocketMessage{Type: models.MessageTypeSnapshot, Data: snap, Timestamp: now.UnixMilli()})
		}
	}
	sys := models.WebSocketMessage{Type: models.MessageTypeSystemInfo, Data: info, Timestamp: now.UnixMilli()}
	return append([]models.WebSocketMessage{sys}, msgs...)
}

// decodeData re-decodes the loosely typed Data field into a request struct.
func decodeData(data interface{}, out interface{}) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}
