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
	"io"
	"sort"

	"github.com/asticode/go-astits"
	"github.com/q191201771/tscheck/pkg/base"
	"github.com/q191201771/tscheck/pkg/ebp"
	"github.com/q191201771/tscheck/pkg/mpegts"
	"github.com/q191201771/tscheck/pkg/scte35"
)

// IAnalyzerObserver 回调都在 Analyzer.Run 所在的协程中同步调用
type IAnalyzerObserver interface {
	// OnSpliceInfoSection sis在回调结束后不再被 Analyzer 持有
	OnSpliceInfoSection(pid uint16, sis *scte35.SpliceInfoSection)

	// OnEbpMarker 没有开启 AnalyzerOption.ValidateGrouping 时violations为nil
	OnEbpMarker(pid uint16, marker ebp.Marker, violations ebp.Violations)

	// OnEbpDescriptor PMT中ES的EBP描述符，内容不变时只回调一次
	OnEbpDescriptor(pid uint16, d ebp.Descriptor)

	// OnError 解析失败，不影响后续数据的分析。pid未知时为 PidUnknown
	OnError(pid uint16, err error)
}

const PidUnknown uint16 = 0xFFFF

type AnalyzerOption struct {
	ValidateGrouping bool
}

var defaultAnalyzerOption = AnalyzerOption{
	ValidateGrouping: true,
}

type ModAnalyzerOption func(option *AnalyzerOption)

type Stat struct {
	PacketCount            uint64 // 经过解复用交付的TS包
	SpliceInfoSectionCount uint64
	SpliceCommandCount     map[uint8]uint64 // key为splice_command_type
	EbpMarkerCount         uint64
	EbpDescriptorCount     uint64
	GroupingViolationCount uint64
	ErrorCount             uint64
}

// Analyzer 分析一路TS流中的SCTE-35和EBP
//
// 一个 Analyzer 对应一路输入，不是并发安全的
type Analyzer struct {
	option   AnalyzerOption
	observer IAnalyzerObserver

	pool           *scte35.SectionReassemblerPool
	scte35Pids     map[uint16]struct{}
	ebpDescriptors map[uint16][]byte // 上次回调的描述符内容，用于去重
	logDump        base.LogDump

	stat Stat
}

func NewAnalyzer(observer IAnalyzerObserver, modOptions ...ModAnalyzerOption) *Analyzer {
	option := defaultAnalyzerOption
	for _, fn := range modOptions {
		fn(&option)
	}
	return &Analyzer{
		option:         option,
		observer:       observer,
		pool:           scte35.NewSectionReassemblerPool(),
		scte35Pids:     make(map[uint16]struct{}),
		ebpDescriptors: make(map[uint16][]byte),
		logDump:        base.NewLogDump(Log, base.TsAnalyzeDumpMaxNum),
		stat: Stat{
			SpliceCommandCount: make(map[uint8]uint64),
		},
	}
}

// Run 阻塞直到r读取结束或者ctx被取消
//
// 流结束时仍在组包的section通过 IAnalyzerObserver.OnError 上报
func (a *Analyzer) Run(ctx context.Context, r io.Reader) error {
	dmx := astits.NewDemuxer(ctx, r,
		astits.DemuxerOptPacketSize(mpegts.PacketSize),
		astits.DemuxerOptPacketsParser(a.parsePackets))

	errNum := 0
	for {
		d, err := dmx.NextData()
		if err != nil {
			if errors.Is(err, astits.ErrNoMorePackets) {
				a.flush()
				return nil
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}

			errNum++
			a.onError(PidUnknown, err)
			if errNum >= maxConsecutiveErrors {
				return base.NewErrTsAnalyzeTooManyErrors(errNum, err)
			}
			continue
		}
		errNum = 0

		if d.PMT != nil {
			a.onPmt(d.PMT)
		}
	}
}

func (a *Analyzer) Stat() Stat {
	out := a.stat
	out.SpliceCommandCount = make(map[uint8]uint64, len(a.stat.SpliceCommandCount))
	for k, v := range a.stat.SpliceCommandCount {
		out.SpliceCommandCount[k] = v
	}
	return out
}

// Scte35Pids 从PMT中发现的SCTE-35 PID
func (a *Analyzer) Scte35Pids() []uint16 {
	pids := make([]uint16, 0, len(a.scte35Pids))
	for pid := range a.scte35Pids {
		pids = append(pids, pid)
	}
	sort.Slice(pids, func(i, j int) bool { return pids[i] < pids[j] })
	return pids
}

// AddScte35Pid 手动指定SCTE-35 PID，用于PMT中没有声明stream_type 0x86的流
func (a *Analyzer) AddScte35Pid(pid uint16) {
	a.scte35Pids[pid] = struct{}{}
}

// ----- private -------------------------------------------------------------------------------------------------------

// parsePackets astits按PID以及payload_unit_start_indicator分组后交给我们，ps属于同一个PID
//
// SCTE-35的PID由我们自己组包，其他PID继续交给astits解析PAT、PMT和PES
func (a *Analyzer) parsePackets(ps []*astits.Packet) (ds []*astits.DemuxerData, skip bool, err error) {
	if len(ps) == 0 {
		return nil, false, nil
	}
	pid := ps[0].Header.PID
	_, isScte35 := a.scte35Pids[pid]

	for _, p := range ps {
		a.stat.PacketCount++

		if p.AdaptationField != nil && p.AdaptationField.HasTransportPrivateData {
			a.onPrivateData(pid, p.AdaptationField.TransportPrivateData)
		}
		if isScte35 {
			a.onScte35Payload(pid, p.Payload, p.Header.PayloadUnitStartIndicator)
		}
	}
	return nil, isScte35, nil
}

func (a *Analyzer) onPmt(pmt *astits.PMTData) {
	for _, es := range pmt.ElementaryStreams {
		if uint8(es.StreamType) == scte35.StreamType {
			if _, ok := a.scte35Pids[es.ElementaryPID]; !ok {
				Log.Infof("found scte35 pid. program=%d, pid=%d", pmt.ProgramNumber, es.ElementaryPID)
				a.scte35Pids[es.ElementaryPID] = struct{}{}
			}
		}

		for _, desc := range es.ElementaryStreamDescriptors {
			if desc.Tag != ebp.DescriptorTag {
				continue
			}
			payload := desc.UserDefined
			if payload == nil && desc.Unknown != nil {
				payload = desc.Unknown.Content
			}
			a.onEbpDescriptorPayload(es.ElementaryPID, desc.Tag, desc.Length, payload)
		}
	}
}

func (a *Analyzer) onEbpDescriptorPayload(pid uint16, tag uint8, length uint8, payload []byte) {
	if prev, ok := a.ebpDescriptors[pid]; ok && bytes.Equal(prev, payload) {
		return
	}
	a.ebpDescriptors[pid] = append([]byte{}, payload...)

	d, err := ebp.ReadDescriptorPayload(base.NewBitReader(payload), tag, length)
	if err != nil {
		a.onErrorWithPayload(pid, err, payload)
		return
	}
	Log.Debugf("[%d] ebp descriptor. %+v", pid, d)
	a.stat.EbpDescriptorCount++
	a.observer.OnEbpDescriptor(pid, d)
}

func (a *Analyzer) onScte35Payload(pid uint16, payload []byte, payloadUnitStart bool) {
	sis, complete, err := a.pool.Feed(pid, payload, payloadUnitStart)
	if err != nil {
		a.onErrorWithPayload(pid, err, payload)
		return
	}
	if !complete {
		return
	}
	Log.Debugf("[%d] splice info section. type=0x%02x, length=%d", pid, sis.SpliceCommandType, sis.SectionLength)
	a.stat.SpliceInfoSectionCount++
	a.stat.SpliceCommandCount[sis.SpliceCommandType]++
	a.observer.OnSpliceInfoSection(pid, sis)
}

func (a *Analyzer) onPrivateData(pid uint16, b []byte) {
	markers, err := ebp.ParseMarkersFromPrivateData(b)
	for i := range markers {
		var violations ebp.Violations
		if a.option.ValidateGrouping {
			violations = markers[i].Validate()
			if len(violations) != 0 {
				Log.Warnf("[%d] ebp grouping violation. %+v", pid, violations.Err())
			}
			a.stat.GroupingViolationCount += uint64(len(violations))
		}
		a.stat.EbpMarkerCount++
		a.observer.OnEbpMarker(pid, markers[i], violations)
	}
	if err != nil {
		a.onErrorWithPayload(pid, err, b)
	}
}

func (a *Analyzer) flush() {
	for _, pid := range a.pool.Accumulating() {
		used, target := a.pool.Get(pid).Pending()
		Log.Warnf("[%d] stream ended while section incomplete. used=%d, target=%d", pid, used, target)
		a.pool.Get(pid).Reset()
		a.onError(pid, base.NewErrScte35IncompleteSection(used, target))
	}
}

func (a *Analyzer) onErrorWithPayload(pid uint16, err error, payload []byte) {
	a.logDump.DumpPayload(pid, err, payload)
	a.onError(pid, err)
}

func (a *Analyzer) onError(pid uint16, err error) {
	a.stat.ErrorCount++
	a.observer.OnError(pid, err)
}
