// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pipeline

import "testing"

func TestPayloadSize(t *testing.T) {
	p := &Pipeline{SlicePoints: 100, NComp2: 3, NComp3: 2}
	if got := p.PayloadSize(); got != 500 {
		t.Fatalf("PayloadSize = %d, want 500", got)
	}
}

func TestTopRankSkipsWait(t *testing.T) {
	p := &Pipeline{IsTop: true, SlicePoints: 10, NComp2: 1, NComp3: 1}
	got := p.Wait()
	if got.Previous1 != nil || got.Previous2 != nil {
		t.Fatalf("top rank should receive an empty payload, got %+v", got)
	}
}

func TestBottomRankSkipsNotify(t *testing.T) {
	p := &Pipeline{IsBottom: true, SlicePoints: 10, NComp2: 1, NComp3: 1}
	p.Notify(Payload{Previous1: make([]float64, 10), Previous2: make([]float64, 10)})
	if p.pending != nil {
		t.Fatalf("bottom rank should never create a pending send")
	}
}
