package events

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// Event is one committed cart mutation.
type Event struct {
	Op        string    `json:"op"`
	ProductID int64     `json:"product_id"`
	Amount    int       `json:"amount"`
	At        time.Time `json:"at"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Journal publishes cart mutations to Kafka, best effort. Record never
// blocks the mutation path: events queue into a buffered channel drained by
// a background goroutine, and are dropped with a log line when the queue is
// full or the broker is down.
type Journal struct {
	writer  messageWriter
	queue   chan Event
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewJournal(brokers ...string) *Journal {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  "cart-mutations",
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return newJournal(w)
}

func newJournal(w messageWriter) *Journal {
	j := &Journal{
		writer:  w,
		queue:   make(chan Event, 64),
		timeout: 5 * time.Second,
	}
	j.wg.Add(1)
	go j.run()
	return j
}

// Record satisfies the cart store's Recorder interface.
func (j *Journal) Record(op string, productID int64, amount int) {
	e := Event{Op: op, ProductID: productID, Amount: amount, At: time.Now()}
	select {
	case j.queue <- e:
	default:
		log.Printf("events: queue full, dropping %s for product %d", op, productID)
	}
}

func (j *Journal) run() {
	defer j.wg.Done()

	for e := range j.queue {
		payload, err := json.Marshal(e)
		if err != nil {
			log.Printf("events: marshal failed: %v", err)
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
		err = j.writer.WriteMessages(ctx, kafka.Message{Value: payload})
		cancel()
		if err != nil {
			log.Printf("events: publish failed for product %d: %v", e.ProductID, err)
		}
	}
}

// Close drains queued events and shuts down the writer.
func (j *Journal) Close() error {
	close(j.queue)
	j.wg.Wait()
	return j.writer.Close()
}
