// Copyright 2024, Chef.  All rights reserved.
// https://github.com/q191201771/tscheck
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package tsanalyze

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/q191201771/naza/pkg/assert"
	"github.com/q191201771/tscheck/pkg/base"
	"github.com/q191201771/tscheck/pkg/ebp"
	"github.com/q191201771/tscheck/pkg/mpegts"
	"github.com/q191201771/tscheck/pkg/scte35"
)

type recorder struct {
	sections    []*scte35.SpliceInfoSection
	markers     []ebp.Marker
	violations  []ebp.Violations
	descriptors []ebp.Descriptor
	errs        []error
}

func (r *recorder) OnSpliceInfoSection(pid uint16, sis *scte35.SpliceInfoSection) {
	r.sections = append(r.sections, sis)
}

func (r *recorder) OnEbpMarker(pid uint16, marker ebp.Marker, violations ebp.Violations) {
	r.markers = append(r.markers, marker)
	r.violations = append(r.violations, violations)
}

func (r *recorder) OnEbpDescriptor(pid uint16, d ebp.Descriptor) {
	r.descriptors = append(r.descriptors, d)
}

func (r *recorder) OnError(pid uint16, err error) {
	r.errs = append(r.errs, err)
}

var testEbpDescriptor = ebp.Descriptor{
	Partitions: []ebp.Partition{
		{PartitionId: ebp.PartitionIdFragment, Data: ebp.ExplicitPartition{BoundaryFlag: true, SapTypeMax: 2}},
		{PartitionId: ebp.PartitionIdSegment, Data: ebp.ExplicitPartition{BoundaryFlag: true, Distance: 4, SapTypeMax: 1}},
	},
}

func newTestMarker(groupingIds ...uint8) ebp.Marker {
	return ebp.Marker{
		FragmentFlag: true,
		SapFlag:      true,
		SapType:      1,
		GroupingFlag: len(groupingIds) != 0,
		GroupingIds:  groupingIds,
	}
}

// 生成一段TS流：PAT、PMT各两次，然后交替写入带EBP的视频帧和SCTE-35 section
func genStream(t *testing.T, sections [][]byte, markers []ebp.Marker) []byte {
	p := mpegts.NewPacketizer()
	pat := mpegts.PackPat([]mpegts.PatProgramElement{{Pn: 1, Pmpid: mpegts.PidPmt}})
	pmt := mpegts.PackPmt(1, mpegts.PidVideo, nil, []mpegts.PmtProgramElement{
		{
			StreamType:  mpegts.StreamTypeAvc,
			Pid:         mpegts.PidVideo,
			Descriptors: []mpegts.Descriptor{mpegts.DescriptorFromBytes(testEbpDescriptor.Pack())},
		},
		{
			StreamType:  mpegts.StreamTypeScte35,
			Pid:         mpegts.PidScte35,
			Descriptors: []mpegts.Descriptor{mpegts.PackRegistrationDescriptor(scte35.RegistrationIdentifier)},
		},
	})

	var out []byte
	for i := 0; i < 2; i++ {
		out = append(out, p.PackSection(mpegts.PidPat, pat)...)
		out = append(out, p.PackSection(mpegts.PidPmt, pmt)...)
	}
	for i := range sections {
		frame := &mpegts.Frame{
			Pts:         uint64(i) * 3000,
			Dts:         uint64(i) * 3000,
			Pid:         mpegts.PidVideo,
			Sid:         mpegts.StreamIdVideo,
			PrivateData: ebp.PackPrivateData(&markers[i]),
			Raw:         bytes.Repeat([]byte{0x00, 0x00, 0x00, 0x01, 0x09, 0xF0}, 50),
		}
		out = append(out, p.PackFrame(frame)...)
		out = append(out, p.PackSection(mpegts.PidScte35, sections[i])...)
	}
	assert.Equal(t, 0, len(out)%mpegts.PacketSize)
	return out
}

func mustPack(t *testing.T, sis *scte35.SpliceInfoSection) []byte {
	b, err := sis.Pack()
	assert.Equal(t, nil, err)
	return b
}

func TestAnalyzerRun(t *testing.T) {
	insert := &scte35.SpliceInfoSection{
		PtsAdjustment: 5,
		SpliceCommand: &scte35.SpliceInsert{
			SpliceEventId:     100,
			ProgramSpliceFlag: true,
			SpliceTime:        scte35.NewSpliceTime(90000),
		},
	}
	timeSignal := &scte35.SpliceInfoSection{
		SpliceCommand: &scte35.TimeSignal{SpliceTime: scte35.NewSpliceTime(180000)},
	}
	// 跨越多个TS包
	private := &scte35.SpliceInfoSection{
		SpliceCommand: &scte35.PrivateCommand{Identifier: scte35.RegistrationIdentifier, PrivateBytes: make([]byte, 300)},
	}
	sections := [][]byte{mustPack(t, insert), mustPack(t, timeSignal), mustPack(t, private)}
	markers := []ebp.Marker{newTestMarker(), newTestMarker(1, 2), newTestMarker(3, 3)}

	r := &recorder{}
	a := NewAnalyzer(r)
	err := a.Run(context.Background(), bytes.NewReader(genStream(t, sections, markers)))
	assert.Equal(t, nil, err)
	assert.Equal(t, 0, len(r.errs))

	assert.Equal(t, []uint16{mpegts.PidScte35}, a.Scte35Pids())

	assert.Equal(t, 3, len(r.sections))
	assert.Equal(t, insert, r.sections[0])
	assert.Equal(t, uint64(90005), r.sections[0].SpliceInsertPts())
	assert.Equal(t, timeSignal, r.sections[1])
	assert.Equal(t, private, r.sections[2])

	assert.Equal(t, markers, r.markers)
	assert.Equal(t, 0, len(r.violations[0]))
	assert.Equal(t, 0, len(r.violations[1]))
	assert.Equal(t, 1, len(r.violations[2]))
	assert.Equal(t, ebp.ViolationDuplicateGroupId, r.violations[2][0].Kind)

	// PMT重复出现，描述符只回调一次
	assert.Equal(t, 1, len(r.descriptors))
	assert.Equal(t, true, r.descriptors[0].DoesFragmentMarkBoundary())
	assert.Equal(t, uint8(2), r.descriptors[0].FragmentSapTypeMax())
	assert.Equal(t, uint8(1), r.descriptors[0].SegmentSapTypeMax())

	stat := a.Stat()
	assert.Equal(t, uint64(3), stat.SpliceInfoSectionCount)
	assert.Equal(t, uint64(1), stat.SpliceCommandCount[scte35.SpliceCommandTypeInsert])
	assert.Equal(t, uint64(1), stat.SpliceCommandCount[scte35.SpliceCommandTypeTimeSignal])
	assert.Equal(t, uint64(1), stat.SpliceCommandCount[scte35.SpliceCommandTypePrivate])
	assert.Equal(t, uint64(3), stat.EbpMarkerCount)
	assert.Equal(t, uint64(1), stat.EbpDescriptorCount)
	assert.Equal(t, uint64(1), stat.GroupingViolationCount)
	assert.Equal(t, uint64(0), stat.ErrorCount)
}

func TestAnalyzerCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	a := NewAnalyzer(&recorder{})
	err := a.Run(ctx, bytes.NewReader(genStream(t, nil, nil)))
	assert.Equal(t, true, errors.Is(err, context.Canceled))
}

func TestAnalyzerScte35Payload(t *testing.T) {
	r := &recorder{}
	a := NewAnalyzer(r)
	a.AddScte35Pid(0x200)
	assert.Equal(t, []uint16{0x200}, a.Scte35Pids())

	section := mustPack(t, &scte35.SpliceInfoSection{SpliceCommand: &scte35.SpliceNull{}})
	a.onScte35Payload(0x200, append([]byte{0}, section...), true)
	assert.Equal(t, 1, len(r.sections))
	assert.Equal(t, scte35.SpliceCommandTypeNull, r.sections[0].SpliceCommandType)

	// 中途加入的流，第一个包没有payload_unit_start_indicator
	a.onScte35Payload(0x200, section, false)
	assert.Equal(t, 1, len(r.errs))
	assert.Equal(t, base.ErrScte35NoStartIndicatorNoBuffer, r.errs[0])

	// 流结束时section不完整
	a.onScte35Payload(0x200, []byte{0x00, 0xFC, 0x30, 0x40, 0x00}, true)
	assert.Equal(t, 1, len(r.errs))
	a.flush()
	assert.Equal(t, 2, len(r.errs))
	assert.Equal(t, true, errors.Is(r.errs[1], base.ErrScte35Malformed))
	assert.Equal(t, 0, len(a.pool.Accumulating()))

	assert.Equal(t, uint64(2), a.Stat().ErrorCount)
	assert.Equal(t, uint64(1), a.Stat().SpliceInfoSectionCount)
}

func TestAnalyzerPrivateData(t *testing.T) {
	r := &recorder{}
	a := NewAnalyzer(r, func(option *AnalyzerOption) {
		option.ValidateGrouping = false
	})

	m := newTestMarker(126, 126)
	b := ebp.PackPrivateData(&m)
	// 非EBP的项跳过
	b = append(b, 0x01, 0x02, 0xAA, 0xBB)
	a.onPrivateData(mpegts.PidVideo, b)
	assert.Equal(t, []ebp.Marker{m}, r.markers)
	assert.Equal(t, true, r.violations[0] == nil)
	assert.Equal(t, 0, len(r.errs))

	// 长度越界
	a.onPrivateData(mpegts.PidVideo, []byte{0xDF, 0x10, 0x45})
	assert.Equal(t, 1, len(r.errs))
	assert.Equal(t, true, errors.Is(r.errs[0], base.ErrEbpMalformedPrivate))
}

func TestAnalyzerEbpDescriptor(t *testing.T) {
	r := &recorder{}
	a := NewAnalyzer(r)

	b := testEbpDescriptor.Pack()
	a.onEbpDescriptorPayload(mpegts.PidVideo, b[0], b[1], b[2:])
	a.onEbpDescriptorPayload(mpegts.PidVideo, b[0], b[1], b[2:])
	assert.Equal(t, 1, len(r.descriptors))
	assert.Equal(t, uint8(2), r.descriptors[0].NumPartitions)

	// 内容变化后重新解析
	a.onEbpDescriptorPayload(mpegts.PidVideo, b[0], 1, b[2:3])
	assert.Equal(t, 1, len(r.descriptors))
	assert.Equal(t, 1, len(r.errs))
	assert.Equal(t, true, errors.Is(r.errs[0], base.ErrEbpMalformedDescriptor))
}
