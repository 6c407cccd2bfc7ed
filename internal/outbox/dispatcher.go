package outbox

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type pendingMessage struct {
	ID         string
	EntityID   int64
	RoutingKey string
	Payload    string
}

type messagePublisher interface {
	Publish(ctx context.Context, routingKey string, body []byte) error
}

// Dispatcher polls unprocessed outbox rows and publishes them. Rows are
// locked with SKIP LOCKED so multiple dispatchers can run side by side.
type Dispatcher struct {
	pool      *pgxpool.Pool
	publisher messagePublisher
	interval  time.Duration
	batchSize int
	loggerf   func(format string, args ...interface{})
}

func NewDispatcher(pool *pgxpool.Pool, publisher messagePublisher, interval time.Duration, loggerf func(format string, args ...interface{})) *Dispatcher {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &Dispatcher{
		pool:      pool,
		publisher: publisher,
		interval:  interval,
		batchSize: 100,
		loggerf:   loggerf,
	}
}

func (d *Dispatcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := d.dispatchBatch(ctx); err != nil {
				d.loggerf("level=error msg=outbox dispatch failed err=%v", err)
			}
		}
	}
}

func (d *Dispatcher) dispatchBatch(ctx context.Context) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx,
		`SELECT id, entity_id, routing_key, payload
		 FROM outbox_messages
		 WHERE processed_at IS NULL
		 ORDER BY created_at
		 LIMIT $1
		 FOR UPDATE SKIP LOCKED`, d.batchSize)
	if err != nil {
		return err
	}

	var messages []pendingMessage
	for rows.Next() {
		var m pendingMessage
		if err := rows.Scan(&m.ID, &m.EntityID, &m.RoutingKey, &m.Payload); err != nil {
			rows.Close()
			return err
		}
		messages = append(messages, m)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	dispatchBatchSize.Observe(float64(len(messages)))
	if len(messages) == 0 {
		return tx.Commit(ctx)
	}

	for _, m := range messages {
		if err := d.publisher.Publish(ctx, m.RoutingKey, []byte(m.Payload)); err != nil {
			// commit nothing; the whole batch is retried next tick
			publishFailures.Inc()
			return err
		}
		messagesPublished.WithLabelValues(m.RoutingKey).Inc()

		if _, err := tx.Exec(ctx,
			`UPDATE outbox_messages SET processed_at = $1 WHERE id = $2`,
			time.Now().UTC(), m.ID); err != nil {
			return err
		}
	}

	d.loggerf("level=info msg=outbox batch dispatched count=%d", len(messages))
	return tx.Commit(ctx)
}
