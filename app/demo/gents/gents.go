// Copyright 2024, Chef.  All rights reserved.
// https://github.com/q191201771/tscheck
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/q191201771/naza/pkg/nazalog"
	"github.com/q191201771/tscheck/pkg/ebp"
	"github.com/q191201771/tscheck/pkg/mpegts"
	"github.com/q191201771/tscheck/pkg/scte35"
)

// 生成一个带SCTE-35和EBP的TS文件，用于验证tscheck
//
// 视频PID上每帧的adaptation field中放一个EBP，每秒一个fragment，每4秒一个segment。
// SCTE-35 PID上每秒一个splice_null，第5秒一个splice_insert，第9秒一个time_signal

const (
	fps         = 25
	frameDurPts = 90000 / fps

	fragmentFrames = fps
	segmentFrames  = fps * 4
)

// tsWriter mpegts.FileWriter 满足该接口
type tsWriter interface {
	Write(b []byte) error
}

func main() {
	_ = nazalog.Init(func(option *nazalog.Option) {
		option.AssertBehavior = nazalog.AssertFatal
	})
	defer nazalog.Sync()

	filename, seconds := parseFlag()

	var fw mpegts.FileWriter
	err := fw.Create(filename)
	nazalog.Assert(nil, err)
	defer fw.Dispose()

	eventNum, err := generate(&fw, seconds)
	nazalog.Assert(nil, err)

	nazalog.Infof("generate done. file=%s, seconds=%d, packets=%d, splice insert=%d", fw.Name(), seconds, fw.PacketCount(), eventNum)
}

func generate(w tsWriter, seconds int) (eventId uint32, err error) {
	ebpDescriptor := newEbpDescriptor()

	p := mpegts.NewPacketizer()
	pat := mpegts.PackPat([]mpegts.PatProgramElement{{Pn: 1, Pmpid: mpegts.PidPmt}})
	pmt := mpegts.PackPmt(1, mpegts.PidVideo, nil, []mpegts.PmtProgramElement{
		{
			StreamType:  mpegts.StreamTypeAvc,
			Pid:         mpegts.PidVideo,
			Descriptors: []mpegts.Descriptor{mpegts.DescriptorFromBytes(ebpDescriptor.Pack())},
		},
		{
			StreamType:  mpegts.StreamTypeScte35,
			Pid:         mpegts.PidScte35,
			Descriptors: []mpegts.Descriptor{mpegts.PackRegistrationDescriptor(scte35.RegistrationIdentifier)},
		},
	})

	for i := 0; i < seconds*fps; i++ {
		pts := uint64(i * frameDurPts)
		key := i%fragmentFrames == 0

		if key {
			if err = w.Write(p.PackSection(mpegts.PidPat, pat)); err != nil {
				return
			}
			if err = w.Write(p.PackSection(mpegts.PidPmt, pmt)); err != nil {
				return
			}
		}

		frame := &mpegts.Frame{
			Pts: pts,
			Dts: pts,
			Pid: mpegts.PidVideo,
			Sid: mpegts.StreamIdVideo,
			Key: key,
			Raw: fakeAnnexb(key),
		}
		if key {
			m := newEbpMarker(i)
			frame.PrivateData = ebp.PackPrivateData(&m)
		}
		if err = w.Write(p.PackFrame(frame)); err != nil {
			return
		}

		if !key {
			continue
		}
		sec := i / fps
		sis := &scte35.SpliceInfoSection{Tier: 0xFFF, SpliceCommand: &scte35.SpliceNull{}}
		switch sec % 10 {
		case 5:
			eventId++
			sis.SpliceCommand = &scte35.SpliceInsert{
				SpliceEventId:         eventId,
				OutOfNetworkIndicator: true,
				ProgramSpliceFlag:     true,
				DurationFlag:          true,
				SpliceTime:            scte35.NewSpliceTime(pts + 90000),
				BreakDuration:         &scte35.BreakDuration{AutoReturn: true, Duration: 30 * 90000},
				UniqueProgramId:       1,
			}
		case 9:
			sis.SpliceCommand = &scte35.TimeSignal{SpliceTime: scte35.NewSpliceTime(pts)}
			sis.SpliceDescriptors = []scte35.SpliceDescriptor{
				{Tag: 0x02, Identifier: scte35.RegistrationIdentifier, PrivateBytes: []byte{0x00, 0x00, 0x00, 0x01}},
			}
		}
		section, packErr := sis.Pack()
		if packErr != nil {
			return eventId, packErr
		}
		if err = w.Write(p.PackSection(mpegts.PidScte35, section)); err != nil {
			return
		}
	}
	return
}

func newEbpDescriptor() ebp.Descriptor {
	return ebp.Descriptor{
		TimescaleFlag:       true,
		TicksPerSecond:      90000,
		DistanceWidthMinus1: 2,
		Partitions: []ebp.Partition{
			{PartitionId: ebp.PartitionIdFragment, Data: ebp.ExplicitPartition{BoundaryFlag: true, Distance: 90000, SapTypeMax: 1}},
			{PartitionId: ebp.PartitionIdSegment, Data: ebp.ExplicitPartition{BoundaryFlag: true, Distance: 360000, SapTypeMax: 1}},
		},
	}
}

func newEbpMarker(frameIndex int) ebp.Marker {
	m := ebp.Marker{
		FragmentFlag: true,
		SapFlag:      true,
		SapType:      1,
		GroupingFlag: true,
		GroupingIds:  []uint8{1},
	}
	if frameIndex%segmentFrames == 0 {
		m.SegmentFlag = true
		m.GroupingIds = []uint8{1, ebp.GroupIdStart, 2}
	}
	return m
}

// 只需要有合法的Annexb起始码，内容不重要
func fakeAnnexb(key bool) []byte {
	out := []byte{0x00, 0x00, 0x00, 0x01, 0x09, 0xF0}
	size := 600
	if key {
		out = append(out, 0x00, 0x00, 0x00, 0x01, 0x65)
		size = 4000
	} else {
		out = append(out, 0x00, 0x00, 0x00, 0x01, 0x41)
	}
	for i := 0; i < size; i++ {
		out = append(out, uint8(i%251)+1)
	}
	return out
}

func parseFlag() (string, int) {
	o := flag.String("o", "", "specify output ts file")
	n := flag.Int("n", 30, "duration in seconds")
	flag.Parse()
	if *o == "" {
		flag.Usage()
		_, _ = fmt.Fprintf(os.Stderr, `
Example:
  %s -o scte35_ebp.ts -n 30
`, os.Args[0])
		os.Exit(1)
	}
	return *o, *n
}
