package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/skillbridge/session-gateway/internal/api/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// ErrQueueFull is returned when the worker owning an email has no room left.
var ErrQueueFull = errors.New("reset queue full")

// ResetSender delivers a single password reset message.
type ResetSender interface {
	SendReset(ctx context.Context, email string) error
}

// Dispatcher fans password reset requests out to a fixed set of workers. An
// email always lands on the same worker, so repeated requests for one address
// are delivered in order.
type Dispatcher struct {
	workers []chan string
	sender  ResetSender
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, sender ResetSender, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan string, numWorkers),
		sender:  sender,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan string, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// NotifyPasswordReset queues a reset message for email. It never blocks; a
// full worker channel is reported as ErrQueueFull.
func (d *Dispatcher) NotifyPasswordReset(ctx context.Context, email string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	idx := d.shardIndex(email)
	select {
	case d.workers[idx] <- email:
		metrics.ResetQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
		return nil
	default:
		return ErrQueueFull
	}
}

// shardIndex maps an email deterministically to a worker index.
func (d *Dispatcher) shardIndex(email string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(strings.TrimSpace(email))))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan string) {
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case email, ok := <-ch:
			if !ok {
				return
			}
			metrics.ResetQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			if err := d.sender.SendReset(ctx, email); err != nil {
				metrics.ResetNotificationsTotal.WithLabelValues("failed").Inc()
				d.log.Error().Err(err).
					Str("email", email).
					Int("worker_id", id).
					Msg("password reset delivery failed")
				continue
			}
			metrics.ResetNotificationsTotal.WithLabelValues("sent").Inc()
		}
	}
}
