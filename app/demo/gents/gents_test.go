// Copyright 2024, Chef.  All rights reserved.
// https://github.com/q191201771/tscheck
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package main

import (
	"testing"

	"github.com/q191201771/naza/pkg/assert"
	"github.com/q191201771/tscheck/pkg/ebp"
	"github.com/q191201771/tscheck/pkg/mpegts"
	"github.com/q191201771/tscheck/pkg/scte35"
)

type memWriter struct {
	b []byte
}

func (w *memWriter) Write(b []byte) error {
	w.b = append(w.b, b...)
	return nil
}

func TestNewEbpDescriptor(t *testing.T) {
	in := newEbpDescriptor()
	out, err := ebp.ParseDescriptor(in.Pack())
	assert.Equal(t, nil, err)
	assert.Equal(t, in.Partitions, out.Partitions)
	assert.Equal(t, uint32(90000), out.TicksPerSecond)
	assert.Equal(t, true, out.DoesFragmentMarkBoundary())
	assert.Equal(t, true, out.DoesSegmentMarkBoundary())
}

func TestGenerate(t *testing.T) {
	w := &memWriter{}
	eventNum, err := generate(w, 10)
	assert.Equal(t, nil, err)
	assert.Equal(t, uint32(1), eventNum)
	assert.Equal(t, 0, len(w.b)%mpegts.PacketSize)

	var (
		markerNum  int
		segmentNum int
		cmdNum     = make(map[uint8]int)
		pool       = scte35.NewSectionReassemblerPool()
	)
	for i := 0; i < len(w.b); i += mpegts.PacketSize {
		h, af, payload, err := mpegts.ParseTsPacket(w.b[i : i+mpegts.PacketSize])
		assert.Equal(t, nil, err)

		if af != nil && af.TransportPrivateDataFlag {
			markers, err := ebp.ParseMarkersFromPrivateData(af.TransportPrivateData)
			assert.Equal(t, nil, err)
			for _, m := range markers {
				assert.Equal(t, mpegts.PidVideo, h.Pid)
				assert.Equal(t, 0, len(m.Validate()))
				markerNum++
				if m.SegmentFlag {
					segmentNum++
				}
			}
		}

		if h.Pid != mpegts.PidScte35 {
			continue
		}
		sis, complete, err := pool.Feed(h.Pid, payload, h.PayloadUnitStart == 1)
		assert.Equal(t, nil, err)
		assert.Equal(t, true, complete)
		cmdNum[sis.SpliceCommandType]++
		if sis.IsSpliceInsert() {
			assert.Equal(t, uint32(1), sis.SpliceInsertEventId())
		}
	}

	// 每秒一个fragment，每4秒一个segment
	assert.Equal(t, 10, markerNum)
	assert.Equal(t, 3, segmentNum)
	assert.Equal(t, 8, cmdNum[scte35.SpliceCommandTypeNull])
	assert.Equal(t, 1, cmdNum[scte35.SpliceCommandTypeInsert])
	assert.Equal(t, 1, cmdNum[scte35.SpliceCommandTypeTimeSignal])
}
