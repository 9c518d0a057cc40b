package broker

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/soulgarden/bfx-postonly/dictionary"
)

const eventChSize = 1024

// Broker fans inbound websocket frames out to every subscriber. Subscribing
// is synchronous, so a frame published after Subscribe returns is delivered.
type Broker struct {
	mu          sync.RWMutex
	subscribers map[chan []byte]struct{}
	publishCh   chan []byte
	logger      *zerolog.Logger
}

func New(logger *zerolog.Logger) *Broker {
	return &Broker{
		subscribers: make(map[chan []byte]struct{}),
		publishCh:   make(chan []byte, eventChSize),
		logger:      logger,
	}
}

func (b *Broker) Start(ctx context.Context) {
	for {
		select {
		case msg := <-b.publishCh:
			b.fanOut(msg)
		case <-ctx.Done():
			return
		}
	}
}

func (b *Broker) fanOut(msg []byte) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for msgCh := range b.subscribers {
		select {
		case msgCh <- msg:
		default:
			b.logger.Err(dictionary.ErrChannelOverflowed).Msg(dictionary.ErrChannelOverflowed.Error())
		}
	}
}

func (b *Broker) Subscribe() chan []byte {
	msgCh := make(chan []byte, eventChSize)

	b.mu.Lock()
	b.subscribers[msgCh] = struct{}{}
	b.mu.Unlock()

	return msgCh
}

func (b *Broker) Unsubscribe(msgCh chan []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subscribers[msgCh]; !ok {
		return
	}

	delete(b.subscribers, msgCh)
	close(msgCh)
}

func (b *Broker) Publish(msg []byte) {
	b.publishCh <- msg
}
