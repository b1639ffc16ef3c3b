// Copyright 2024, Chef.  All rights reserved.
// https://github.com/q191201771/tscheck
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package scte35

import (
	"sort"

	"github.com/q191201771/tscheck/pkg/base"
)

type ReassemblerState uint8

const (
	ReassemblerStateIdle ReassemblerState = iota
	ReassemblerStateAccumulating
)

func (s ReassemblerState) String() string {
	switch s {
	case ReassemblerStateIdle:
		return "Idle"
	case ReassemblerStateAccumulating:
		return "Accumulating"
	}
	return "Unknown"
}

// SectionReassembler 单个PID上的section组包器，section可能跨越多个TS包
//
// 要求同一PID的payload按到达顺序喂入，不做重排和丢包检测。
// 不是并发安全的，每个PID各自持有一个实例
type SectionReassembler struct {
	pid uint16

	// 起始包中放不下section头（table_id到section_length）时，已有的不足3字节先缓存在这里，
	// 不为nil时同样处于Accumulating状态
	head []byte

	buf  []byte // head和buf都为nil时处于Idle状态
	used int
}

func NewSectionReassembler(pid uint16) *SectionReassembler {
	return &SectionReassembler{pid: pid}
}

// Feed 喂入一个TS包的payload
//
// @param payload:          TS包中adaptation field之后的内容
// @param payloadUnitStart: TS头中的payload_unit_start_indicator，为true时payload以pointer_field开头
//
// @return complete: 为true表示有一个完整的section被取出并解析，此时组包器回到Idle状态，
//                   解析失败时err不为nil，sis为nil。
//                   为false且err为nil表示section还不完整，需要继续喂入后续的包
//
// 以下情况complete为false且err不为nil:
//   - base.ErrScte35NoStartIndicatorNoBuffer 没有缓存数据时收到了非起始包，状态不变
//   - base.ErrScte35WrongTableId             section的table_id不是0xFC，状态回到Idle
//   - base.ErrScte35Malformed                pointer_field越界
//
// 起始包中pointer_field之后不足3字节时，section头也按跨包处理
func (r *SectionReassembler) Feed(payload []byte, payloadUnitStart bool) (sis *SpliceInfoSection, complete bool, err error) {
	if !payloadUnitStart && r.buf == nil && r.head == nil {
		Log.Warnf("[%d] payload unit start indicator not set and no cached data. len=%d", r.pid, len(payload))
		return nil, false, base.ErrScte35NoStartIndicatorNoBuffer
	}

	if payloadUnitStart {
		if len(payload) == 0 {
			return nil, false, base.NewErrScte35PointerField(0, 0)
		}
		pointerField := payload[0]
		if 1+int(pointerField) > len(payload) {
			return nil, false, base.NewErrScte35PointerField(pointerField, len(payload))
		}
		Log.Debugf("[%d] pointer field=%d", r.pid, pointerField)
		payload = payload[1+int(pointerField):]
	}

	if r.buf != nil {
		n := copy(r.buf[r.used:], payload)
		r.used += n
		if r.used < len(r.buf) {
			Log.Debugf("[%d] section not yet complete. used=%d, target=%d", r.pid, r.used, len(r.buf))
			return nil, false, nil
		}

		data := r.buf
		r.Reset()
		sis, err = ParseSpliceInfoSection(data)
		return sis, true, err
	}

	if r.head != nil {
		payload = append(r.head, payload...)
		r.head = nil
	}
	if len(payload) < sectionHeaderLength {
		// section头跨包，table_id已经到了的话先检查
		if len(payload) > 0 && payload[0] != TableId {
			return nil, false, base.NewErrScte35WrongTableId(payload[0])
		}
		Log.Debugf("[%d] section header spans more than one packet. len=%d", r.pid, len(payload))
		r.head = append([]byte{}, payload...)
		return nil, false, nil
	}

	br := base.NewBitReader(payload)
	tid := br.ReadBits8(8)
	if tid != TableId {
		return nil, false, base.NewErrScte35WrongTableId(tid)
	}
	br.SkipBits(4)
	sectionLength := br.ReadBits16(12)
	if br.Err() != nil {
		return nil, false, base.NewErrScte35Malformed(br.Err())
	}

	if uint(sectionLength) > br.BytesLeft() {
		Log.Debugf("[%d] section spans more than one packet. section length=%d, left=%d", r.pid, sectionLength, br.BytesLeft())
		r.buf = make([]byte, int(sectionLength)+sectionHeaderLength)
		r.used = copy(r.buf, payload)
		return nil, false, nil
	}

	sis, err = ParseSpliceInfoSection(payload[:sectionHeaderLength+int(sectionLength)])
	return sis, true, err
}

func (r *SectionReassembler) State() ReassemblerState {
	if r.buf == nil && r.head == nil {
		return ReassemblerStateIdle
	}
	return ReassemblerStateAccumulating
}

// Pending 已缓存的字节数以及目标大小，Idle时都为0。section头还不完整时target为0
func (r *SectionReassembler) Pending() (used int, target int) {
	if r.head != nil {
		return len(r.head), 0
	}
	return r.used, len(r.buf)
}

// Reset 丢弃缓存，回到Idle状态。上层判断组包超时后可以调用
func (r *SectionReassembler) Reset() {
	r.head = nil
	r.buf = nil
	r.used = 0
}

// SectionReassemblerPool 按PID管理组包器，PID之间互不影响
//
// 不是并发安全的
type SectionReassemblerPool struct {
	m map[uint16]*SectionReassembler
}

func NewSectionReassemblerPool() *SectionReassemblerPool {
	return &SectionReassemblerPool{
		m: make(map[uint16]*SectionReassembler),
	}
}

// Get 不存在时创建
func (p *SectionReassemblerPool) Get(pid uint16) *SectionReassembler {
	r, ok := p.m[pid]
	if !ok {
		r = NewSectionReassembler(pid)
		p.m[pid] = r
	}
	return r
}

func (p *SectionReassemblerPool) Feed(pid uint16, payload []byte, payloadUnitStart bool) (*SpliceInfoSection, bool, error) {
	return p.Get(pid).Feed(payload, payloadUnitStart)
}

// Accumulating 处于Accumulating状态的PID，从小到大排列
func (p *SectionReassemblerPool) Accumulating() []uint16 {
	var pids []uint16
	for pid, r := range p.m {
		if r.State() == ReassemblerStateAccumulating {
			pids = append(pids, pid)
		}
	}
	sort.Slice(pids, func(i, j int) bool { return pids[i] < pids[j] })
	return pids
}

func (p *SectionReassemblerPool) Remove(pid uint16) {
	delete(p.m, pid)
}
