package worker

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"teamawesome_t4/internal/queue"
)

const (
	// DefaultRepairWorkers is how many repair goroutines a pool runs. Two is
	// plenty: every event collapses into an idempotent recompute, so extra
	// workers only add contention on the same summary rows.
	DefaultRepairWorkers = 2

	// DefaultRepairBatch caps messages claimed per XREADGROUP call.
	DefaultRepairBatch = 10

	// DefaultRepairBlock bounds how long an idle worker blocks on the stream
	// before re-checking for shutdown.
	DefaultRepairBlock = 5 * time.Second
)

// Pool runs the projection-repair workers. Each worker claims batches from
// the relationship stream and re-runs the recompute for whatever the event
// names, so counters and progress converge even when the inline recompute
// failed.
type Pool struct {
	consumer queue.Consumer
	handler  *Handler
	cfg      PoolConfig

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// PoolConfig sizes the repair pool.
type PoolConfig struct {
	Workers int
	Batch   int64
	Block   time.Duration
}

// DefaultPoolConfig returns the sizing used in production.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		Workers: DefaultRepairWorkers,
		Batch:   DefaultRepairBatch,
		Block:   DefaultRepairBlock,
	}
}

func NewPool(consumer queue.Consumer, handler *Handler, cfg PoolConfig) *Pool {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultRepairWorkers
	}
	if cfg.Batch <= 0 {
		cfg.Batch = DefaultRepairBatch
	}
	if cfg.Block <= 0 {
		cfg.Block = DefaultRepairBlock
	}
	return &Pool{consumer: consumer, handler: handler, cfg: cfg}
}

// Start creates the consumer group if needed and launches the workers.
// Stop blocks until they drain.
func (p *Pool) Start(ctx context.Context) error {
	p.ctx, p.cancel = context.WithCancel(ctx)

	if err := p.consumer.EnsureGroup(p.ctx, queue.StreamRelationship, queue.ConsumerGroupProjection); err != nil {
		return err
	}

	log.Printf("[RepairPool] Starting %d workers: stream=%s group=%s",
		p.cfg.Workers, queue.StreamRelationship, queue.ConsumerGroupProjection)

	for i := 1; i <= p.cfg.Workers; i++ {
		p.wg.Add(1)
		go p.repairLoop(i)
	}
	return nil
}

// Stop cancels the workers and waits for in-flight batches to finish.
func (p *Pool) Stop() {
	log.Printf("[RepairPool] Stopping")
	p.cancel()
	p.wg.Wait()
	log.Printf("[RepairPool] Stopped")
}

func (p *Pool) repairLoop(id int) {
	defer p.wg.Done()

	name := fmt.Sprintf("repair-%d", id)
	log.Printf("[RepairPool] Worker %s started", name)

	// Claimed-but-unacked messages from a previous process go first, so a
	// crash mid-batch never strands a repair.
	p.drainPending(name)

	for {
		select {
		case <-p.ctx.Done():
			log.Printf("[RepairPool] Worker %s shutting down", name)
			return
		default:
			p.readAndRepair(name)
		}
	}
}

// drainPending replays this consumer's unacknowledged backlog.
func (p *Pool) drainPending(name string) {
	rc, ok := p.consumer.(*queue.RedisConsumer)
	if !ok {
		return
	}

	for {
		messages, err := rc.ReadPending(p.ctx, queue.StreamRelationship, queue.ConsumerGroupProjection, name, p.cfg.Batch)
		if err != nil {
			log.Printf("[RepairPool] %s: pending read failed: %v", name, err)
			return
		}
		if len(messages) == 0 {
			return
		}
		log.Printf("[RepairPool] %s: replaying %d pending messages", name, len(messages))
		p.repair(name, messages)
	}
}

func (p *Pool) readAndRepair(name string) {
	messages, err := p.consumer.Read(
		p.ctx,
		queue.StreamRelationship,
		queue.ConsumerGroupProjection,
		name,
		p.cfg.Batch,
		p.cfg.Block,
	)
	if err != nil {
		log.Printf("[RepairPool] %s: read failed: %v", name, err)
		time.Sleep(time.Second)
		return
	}
	if len(messages) == 0 {
		return
	}
	p.repair(name, messages)
}

// repair runs the handler for each message and always acknowledges. A failed
// repair is safe to drop from the stream: recomputes are idempotent and the
// reconciliation sweep rebuilds every projection on its own schedule.
func (p *Pool) repair(name string, messages []queue.Message) {
	for _, msg := range messages {
		if err := p.handler.HandleEvent(p.ctx, msg.Event); err != nil {
			log.Printf("[RepairPool] %s: repair failed msgID=%s type=%s: %v", name, msg.ID, msg.Event.Type, err)
		}
		if err := p.consumer.Ack(p.ctx, queue.StreamRelationship, queue.ConsumerGroupProjection, msg.ID); err != nil {
			log.Printf("[RepairPool] %s: ack failed msgID=%s: %v", name, msg.ID, err)
		}
	}
}
