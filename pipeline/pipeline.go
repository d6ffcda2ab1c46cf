// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pipeline implements the longitudinal MPI pipeline of spec.md §5
// and §6: one Wait (blocking receive) and one Notify (non-blocking send)
// per time step between z-slab-adjacent ranks, built on a split of the
// world communicator into xy and z sub-communicators. It is grounded
// directly on gofem/main.go's mpi.Start/mpi.Rank/mpi.Stop usage.
package pipeline

import (
	"sync"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/mpi"
)

// TagSlices is the MPI tag used for the two-slice handoff (spec §5).
const TagSlices = 1000

// Split divides the world communicator into a transverse (xy) communicator
// -- all ranks sharing a z-slab -- and a z communicator -- one rank per
// z-slab -- per spec §5 "Process-level": NProcs(xy)*NProcs(z) ==
// NProcs(world).
type Split struct {
	XY *mpi.Communicator
	Z  *mpi.Communicator
}

// NewSplit builds the xy/z communicators given the process-grid shape.
// worldRank = rankZ*numXY + rankXY (the layout grid.NewDecomposition
// assumes).
func NewSplit(numProcsX, numProcsY, numProcsZ int) *Split {
	numXY := numProcsX * numProcsY
	worldRank := mpi.Rank()
	rankXY := worldRank % numXY
	rankZ := worldRank / numXY

	xyRanks := make([]int, numXY)
	for r := 0; r < numXY; r++ {
		xyRanks[r] = rankZ*numXY + r
	}
	zRanks := make([]int, numProcsZ)
	for r := 0; r < numProcsZ; r++ {
		zRanks[r] = r*numXY + rankXY
	}
	return &Split{
		XY: mpi.NewCommunicator(xyRanks),
		Z:  mpi.NewCommunicator(zRanks),
	}
}

// Payload is the flattened message for one pipeline handoff: Previous1 and
// Previous2 of the components the predictor-corrector and diagnostics need
// downstream (spec §5, §6: "slice_points*(ncomp2+ncomp3) reals").
type Payload struct {
	Previous1, Previous2 []float64
}

// Pending is an outstanding, not-yet-completed Notify send (spec §5
// "non-blocking"). gosl/mpi's Communicator only exposes blocking Send in
// the retrieval pack, so non-blocking semantics are realized here with a
// goroutine carrying the blocking call and a WaitGroup the sender owns
// until NotifyFinish (spec §5 "Shared state": "pipeline send buffer is
// owned by the sender until its MPI_Wait completes").
type Pending struct {
	wg  sync.WaitGroup
	buf []float64
}

// Pipeline drives one rank's half of the longitudinal handoff.
type Pipeline struct {
	Comm       *mpi.Communicator // the z communicator
	IsTop      bool              // spec §5: top-most rank does not receive
	IsBottom   bool              // spec §5: bottom-most rank does not send
	SlicePoints int
	NComp2, NComp3 int // component counts contributing to the payload
	pending    *Pending
}

// New builds a Pipeline for this rank.
func New(comm *mpi.Communicator, isTop, isBottom bool, slicePoints, nComp2, nComp3 int) *Pipeline {
	return &Pipeline{Comm: comm, IsTop: isTop, IsBottom: isBottom, SlicePoints: slicePoints, NComp2: nComp2, NComp3: nComp3}
}

// PayloadSize is slice_points*(ncomp2+ncomp3), the message size named in
// spec §6.
func (p *Pipeline) PayloadSize() int { return p.SlicePoints * (p.NComp2 + p.NComp3) }

// Wait performs the blocking receive of Previous1 and Previous2 from the
// upstream neighbor on the z communicator, tag=1000 (spec §5). The
// top-most rank does not receive and returns an empty Payload.
func (p *Pipeline) Wait() Payload {
	if p.IsTop {
		return Payload{}
	}
	n := p.PayloadSize()
	buf := make([]float64, n)
	p.Comm.Recv(buf, p.Comm.Rank()+1, TagSlices)
	n1 := p.SlicePoints * p.NComp2
	return Payload{Previous1: buf[:n1], Previous2: buf[n1:]}
}

// Notify sends Previous1 and Previous2 to the downstream neighbor,
// non-blocking (spec §5). The bottom-most rank does not send.
func (p *Pipeline) Notify(payload Payload) {
	if p.IsBottom {
		return
	}
	if p.pending != nil {
		chk.Panic("pipeline: Notify called before the previous NotifyFinish completed")
	}
	n := p.PayloadSize()
	buf := make([]float64, n)
	n1 := p.SlicePoints * p.NComp2
	copy(buf[:n1], payload.Previous1)
	copy(buf[n1:], payload.Previous2)

	pending := &Pending{buf: buf}
	pending.wg.Add(1)
	go func() {
		defer pending.wg.Done()
		p.Comm.Send(buf, p.Comm.Rank()-1, TagSlices)
	}()
	p.pending = pending
}

// NotifyFinish ensures the outstanding send completes before the next
// step's buffer is overwritten (spec §5 "NotifyFinish ensures the
// outstanding send completes").
func (p *Pipeline) NotifyFinish() {
	if p.pending == nil {
		return
	}
	p.pending.wg.Wait()
	p.pending = nil
}
