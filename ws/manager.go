package ws

import (
	"context"
	"sync"

	"rentease_backend/internal/logger"
	"rentease_backend/internal/metrics"
)

// WebSocketManager держит открытые соединения, сгруппированные по пользователю.
// Один пользователь может быть подключен с нескольких вкладок.
type WebSocketManager struct {
	clients    map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

func NewWebSocketManager() *WebSocketManager {
	return &WebSocketManager{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (manager *WebSocketManager) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			manager.closeAll()
			return

		case client := <-manager.register:
			manager.mu.Lock()
			set, ok := manager.clients[client.UserID]
			if !ok {
				set = make(map[*Client]struct{})
				manager.clients[client.UserID] = set
			}
			set[client] = struct{}{}
			manager.mu.Unlock()
			metrics.RealtimeConnected()
			logger.Debug("Realtime client registered", "user_id", client.UserID)

		case client := <-manager.unregister:
			manager.remove(client)
		}
	}
}

func (manager *WebSocketManager) remove(client *Client) {
	manager.mu.Lock()
	defer manager.mu.Unlock()

	set, ok := manager.clients[client.UserID]
	if !ok {
		return
	}
	if _, ok := set[client]; !ok {
		return
	}
	close(client.Send)
	delete(set, client)
	if len(set) == 0 {
		delete(manager.clients, client.UserID)
	}
	metrics.RealtimeDisconnected()
	logger.Debug("Realtime client unregistered", "user_id", client.UserID)
}

func (manager *WebSocketManager) closeAll() {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	for userID, set := range manager.clients {
		for client := range set {
			close(client.Send)
			metrics.RealtimeDisconnected()
		}
		delete(manager.clients, userID)
	}
}

// Deliver отправляет сообщение всем соединениям пользователя msg.UserID.
// Клиент с переполненной очередью отключается.
func (manager *WebSocketManager) Deliver(msg Message) int {
	manager.mu.RLock()
	defer manager.mu.RUnlock()

	delivered := 0
	for client := range manager.clients[msg.UserID] {
		select {
		case client.Send <- msg:
			delivered++
		default:
			go func(c *Client) {
				manager.unregister <- c
			}(client)
			logger.Warn("Realtime client disconnected due to full send channel", "user_id", msg.UserID)
		}
	}
	return delivered
}

// GetClientCount возвращает количество подключенных соединений
func (manager *WebSocketManager) GetClientCount() int {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	n := 0
	for _, set := range manager.clients {
		n += len(set)
	}
	return n
}

// IsUserConnected проверяет, есть ли у пользователя открытое соединение
func (manager *WebSocketManager) IsUserConnected(userID string) bool {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	return len(manager.clients[userID]) > 0
}
