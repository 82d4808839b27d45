// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chainsync drives a block-indexed store to catch up with, and then
// track, the active chain: an initial catch-up pass walks forward from
// whatever block the store last recorded to the current tip, after which
// the synchronizer switches to consuming block-connected notifications from
// a validation bus in order, one at a time.
//
// This is a goroutine-and-channel re-expression of TxIndex::ThreadSync /
// BlockConnected / BlockUntilSyncedToCurrentChain: a std::thread plus
// CThreadInterrupt becomes a goroutine plus context.Context, and the
// index's own worker queue becomes a workqueue.Queue.
package chainsync

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/workqueue"
)

// BlockIndex is a node in the collaborator's block index: enough to walk
// ancestry and identify a block without the synchronizer needing to know
// anything about block or transaction contents.
type BlockIndex interface {
	Height() int64
	BlockHash() chainhash.Hash
	PrevHash() chainhash.Hash
	AncestorAt(height int64) (BlockIndex, bool)
}

// ActiveChain is the chain-state collaborator the synchronizer queries
// while catching up and while fast-pathing BlockUntilSyncedToCurrentChain.
// Callers are expected to hold the lock passed to New while calling any of
// its methods.
type ActiveChain interface {
	Tip() BlockIndex
	Next(prev BlockIndex) (BlockIndex, bool)
}

// Writer persists a single block to the backing store. Writer
// implementations are expected to validate that block extends whatever the
// store last recorded, the same way updatemmr.MMR.BlockConnected does.
type Writer interface {
	WriteBlock(block BlockIndex) error
}

// ValidationBus is the upstream notification source the synchronizer
// subscribes BlockConnected to, and the FIFO BlockUntilSyncedToCurrentChain
// drains before draining the local queue.
type ValidationBus interface {
	WaitUntilProcessed() <-chan struct{}
}

// BlockEvent is a single connect notification queued for the steady-state
// loop to write.
type BlockEvent struct {
	Block BlockIndex
}

// queueBufferSize is the local FIFO's channel capacity, matching the
// teacher's IndexSubscriber notification buffer size.
const queueBufferSize = 128

// Synchronizer drives a Writer to track ActiveChain, first by catching up
// from the writer's last recorded block and then by consuming block-connect
// notifications in order.
type Synchronizer struct {
	chainMu sync.Locker
	chain   ActiveChain
	writer  Writer
	bus     ValidationBus

	queue  *workqueue.Queue[BlockEvent]
	synced atomic.Bool

	bestBlock atomic.Pointer[BlockIndex]

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	fatalOnce sync.Once
	fatalErr  error
}

// New creates a Synchronizer. chainMu must be the same lock callers take
// before reading chain state through chain, so catch-up and the fast path
// of BlockUntilSyncedToCurrentChain observe a consistent view.
func New(chainMu sync.Locker, chain ActiveChain, writer Writer, bus ValidationBus) *Synchronizer {
	return &Synchronizer{
		chainMu: chainMu,
		chain:   chain,
		writer:  writer,
		bus:     bus,
	}
}

// Start begins the synchronizer: it launches the catch-up pass, followed by
// the steady-state loop, in a background goroutine. initialBest is the
// block the backing store last recorded (the chain's genesis ancestor if
// the store is empty).
func (s *Synchronizer) Start(ctx context.Context, initialBest BlockIndex) {
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.queue = workqueue.New[BlockEvent](s.ctx, queueBufferSize)
	s.bestBlock.Store(&initialBest)

	s.wg.Add(1)
	go s.run()
}

// Stop interrupts the synchronizer and waits for its goroutine to exit.
func (s *Synchronizer) Stop() {
	s.cancel()
	s.queue.Interrupt()
	s.wg.Wait()
}

// Err returns the error that caused the synchronizer to stop, if any. It is
// only meaningful after the goroutine started by Start has exited.
func (s *Synchronizer) Err() error {
	return s.fatalErr
}

func (s *Synchronizer) run() {
	defer s.wg.Done()

	if err := s.catchUp(); err != nil {
		s.fatal(err)
		return
	}
	if s.ctx.Err() != nil {
		return
	}
	s.synced.Store(true)
	log.Infof("chainsync: caught up to tip, entering steady state")

	for {
		ev, ok := s.queue.Pop()
		if !ok {
			return
		}
		if err := s.connect(ev.Block); err != nil {
			s.fatal(err)
			return
		}
	}
}

// catchUp walks forward from the synchronizer's recorded best block to the
// chain's current tip, writing each block along the way. It returns nil,
// leaving bestBlock at the tip, once there is no next block to write or the
// synchronizer is interrupted.
func (s *Synchronizer) catchUp() error {
	for {
		if s.ctx.Err() != nil {
			return nil
		}

		s.chainMu.Lock()
		best := *s.bestBlock.Load()
		next, ok := s.chain.Next(best)
		s.chainMu.Unlock()
		if !ok {
			return nil
		}

		if err := s.writer.WriteBlock(next); err != nil {
			return makeError(ErrWriteFailed, fmt.Sprintf(
				"catch-up: failed to write block %s at height %d: %v",
				next.BlockHash(), next.Height(), err))
		}
		s.bestBlock.Store(&next)
	}
}

// connect writes a single steady-state block, after verifying it extends
// the synchronizer's recorded best block.
func (s *Synchronizer) connect(block BlockIndex) error {
	best := *s.bestBlock.Load()
	ancestor, ok := best.AncestorAt(block.Height() - 1)
	if !ok || ancestor.BlockHash() != block.PrevHash() {
		return makeError(ErrReorgDetected, fmt.Sprintf(
			"block %s at height %d does not extend best block %s at height %d",
			block.BlockHash(), block.Height(), best.BlockHash(), best.Height()))
	}

	if err := s.writer.WriteBlock(block); err != nil {
		return makeError(ErrWriteFailed, fmt.Sprintf(
			"failed to write block %s at height %d: %v",
			block.BlockHash(), block.Height(), err))
	}
	s.bestBlock.Store(&block)
	return nil
}

func (s *Synchronizer) fatal(err error) {
	s.fatalOnce.Do(func() {
		s.fatalErr = err
		log.Errorf("chainsync: %v", err)
		s.cancel()
	})
}

// BlockConnected notifies the synchronizer of a newly connected block. It is
// a no-op until the initial catch-up pass has completed; blocks connected
// before that point are picked up by catch-up itself instead.
func (s *Synchronizer) BlockConnected(block BlockIndex) {
	if !s.synced.Load() {
		return
	}
	s.queue.Push(BlockEvent{Block: block})
}

// BlockUntilSyncedToCurrentChain blocks until every block-connect
// notification delivered before the call has been written. It returns false
// if the synchronizer has never completed its catch-up pass, or if it is
// interrupted while waiting.
//
// The fast path checks, under the chain lock, whether the recorded best
// block already descends from the current tip; if so there is nothing left
// to wait for. Otherwise it drains the validation bus and then the local
// queue, in that order: because both are FIFO with in-band barriers, and
// BlockConnected enqueues onto the local queue from the validation bus's own
// goroutine, draining both establishes happens-before with every
// BlockConnected delivered before this call.
func (s *Synchronizer) BlockUntilSyncedToCurrentChain() bool {
	if !s.synced.Load() {
		return false
	}

	s.chainMu.Lock()
	tip := s.chain.Tip()
	best := *s.bestBlock.Load()
	ancestor, ok := best.AncestorAt(tip.Height())
	atTip := ok && ancestor.BlockHash() == tip.BlockHash()
	s.chainMu.Unlock()
	if atTip {
		return true
	}

	select {
	case <-s.bus.WaitUntilProcessed():
	case <-s.ctx.Done():
		return false
	}

	select {
	case <-s.queue.WaitUntilProcessed():
	case <-s.ctx.Done():
		return false
	}
	return true
}
