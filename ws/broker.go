package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"rentease_backend/internal/logger"

	"github.com/go-redis/redis/v8"
)

// Broker доставляет сообщения всем инстансам приложения.
// Каждый инстанс подписывается и отдает сообщения своему WebSocketManager.
type Broker interface {
	Publish(ctx context.Context, msg Message) error
	// Subscribe блокируется до отмены ctx
	Subscribe(ctx context.Context, handler func(Message)) error
	Close() error
}

// LocalBroker - брокер внутри одного процесса
type LocalBroker struct {
	mu       sync.RWMutex
	handlers map[int]func(Message)
	nextID   int
}

func NewLocalBroker() *LocalBroker {
	return &LocalBroker{handlers: make(map[int]func(Message))}
}

func (b *LocalBroker) Publish(_ context.Context, msg Message) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, h := range b.handlers {
		h(msg)
	}
	return nil
}

func (b *LocalBroker) Subscribe(ctx context.Context, handler func(Message)) error {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.handlers[id] = handler
	b.mu.Unlock()

	<-ctx.Done()

	b.mu.Lock()
	delete(b.handlers, id)
	b.mu.Unlock()
	return nil
}

func (b *LocalBroker) Close() error { return nil }

// RedisBroker - pub/sub через Redis для нескольких инстансов
type RedisBroker struct {
	client  *redis.Client
	channel string
}

func NewRedisBroker(client *redis.Client, channel string) *RedisBroker {
	return &RedisBroker{client: client, channel: channel}
}

func (b *RedisBroker) Publish(ctx context.Context, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal realtime message: %w", err)
	}
	return b.client.Publish(ctx, b.channel, data).Err()
}

func (b *RedisBroker) Subscribe(ctx context.Context, handler func(Message)) error {
	sub := b.client.Subscribe(ctx, b.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", b.channel, err)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			var msg Message
			if err := json.Unmarshal([]byte(m.Payload), &msg); err != nil {
				logger.Warn("Dropping malformed realtime message", "error", err.Error())
				continue
			}
			handler(msg)
		}
	}
}

func (b *RedisBroker) Close() error {
	return b.client.Close()
}

// BrokerOptions - параметры подключения к Redis
type BrokerOptions struct {
	Addr     string
	Password string
	DB       int
	Channel  string
}

// NewBroker возвращает RedisBroker, если Redis настроен и отвечает,
// иначе LocalBroker.
func NewBroker(ctx context.Context, opts BrokerOptions) Broker {
	if opts.Addr == "" {
		logger.Info("Redis is not configured, realtime fan-out is in-process")
		return NewLocalBroker()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Redis is unreachable, falling back to in-process realtime", "addr", opts.Addr, "error", err.Error())
		_ = client.Close()
		return NewLocalBroker()
	}

	logger.Info("Realtime fan-out via Redis", "addr", opts.Addr, "channel", opts.Channel)
	return NewRedisBroker(client, opts.Channel)
}
