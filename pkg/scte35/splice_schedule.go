// Copyright 2024, Chef.  All rights reserved.
// https://github.com/q191201771/tscheck
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package scte35

import "github.com/q191201771/tscheck/pkg/base"

// SpliceSchedule
//
// splice_count             [8b] *
// -----loop splice_count-----
// splice_event()
type SpliceSchedule struct {
	Events []SpliceEvent
}

// SpliceEvent
//
// ----------------------------------------------------------
// <SCTE 35> <9.7.2 splice_schedule()>
// splice_event_id                 [32b] ****
// splice_event_cancel_indicator   [1b]
// reserved                        [7b]  *
// -----if splice_event_cancel_indicator == 0-----
// out_of_network_indicator        [1b]
// program_splice_flag             [1b]
// duration_flag                   [1b]
// reserved                        [5b]  *
// -----if program_splice_flag == 1-----
// utc_splice_time                 [32b] ****
// -----else-----
// component_count                 [8b]  *
// -----loop component_count-----
// component_tag                   [8b]  *
// utc_splice_time                 [32b] ****
// -----
// -----if duration_flag == 1-----
// break_duration()
// -----
// unique_program_id               [16b] **
// avail_num                       [8b]  *
// avails_expected                 [8b]  *
// ----------------------------------------------------------
type SpliceEvent struct {
	SpliceEventId              uint32
	SpliceEventCancelIndicator bool

	OutOfNetworkIndicator bool
	ProgramSpliceFlag     bool
	DurationFlag          bool

	UtcSpliceTime uint32
	Components    []SpliceEventComponent
	BreakDuration *BreakDuration

	UniqueProgramId uint16
	AvailNum        uint8
	AvailsExpected  uint8
}

type SpliceEventComponent struct {
	ComponentTag  uint8
	UtcSpliceTime uint32
}

func (cmd *SpliceSchedule) Type() uint8 { return SpliceCommandTypeSchedule }

func (cmd *SpliceSchedule) read(br *base.BitReader, _ uint16) {
	count := br.ReadBits8(8)
	if br.Err() != nil {
		return
	}
	cmd.Events = make([]SpliceEvent, 0, count)
	for i := uint8(0); i < count && br.Err() == nil; i++ {
		cmd.Events = append(cmd.Events, readSpliceEvent(br))
	}
}

func (cmd *SpliceSchedule) write(bw *base.BitWriter) {
	bw.WriteBits(8, uint64(len(cmd.Events)))
	for i := range cmd.Events {
		cmd.Events[i].write(bw)
	}
}

func (cmd *SpliceSchedule) bitLength() uint {
	n := uint(8)
	for i := range cmd.Events {
		n += cmd.Events[i].bitLength()
	}
	return n
}

func (cmd *SpliceSchedule) clone() SpliceCommand {
	out := &SpliceSchedule{}
	if cmd.Events != nil {
		out.Events = make([]SpliceEvent, len(cmd.Events))
		for i := range cmd.Events {
			out.Events[i] = cmd.Events[i].clone()
		}
	}
	return out
}

func readSpliceEvent(br *base.BitReader) (e SpliceEvent) {
	e.SpliceEventId = br.ReadBits32(32)
	e.SpliceEventCancelIndicator = br.ReadFlag()
	br.SkipBits(7)

	if !e.SpliceEventCancelIndicator {
		e.OutOfNetworkIndicator = br.ReadFlag()
		e.ProgramSpliceFlag = br.ReadFlag()
		e.DurationFlag = br.ReadFlag()
		br.SkipBits(5)

		if e.ProgramSpliceFlag {
			e.UtcSpliceTime = br.ReadBits32(32)
		} else {
			count := br.ReadBits8(8)
			if count > 0 && br.Err() == nil {
				e.Components = make([]SpliceEventComponent, 0, count)
			}
			for i := uint8(0); i < count && br.Err() == nil; i++ {
				var c SpliceEventComponent
				c.ComponentTag = br.ReadBits8(8)
				c.UtcSpliceTime = br.ReadBits32(32)
				e.Components = append(e.Components, c)
			}
		}
		if e.DurationFlag {
			e.BreakDuration = readBreakDuration(br)
		}
	}

	e.UniqueProgramId = br.ReadBits16(16)
	e.AvailNum = br.ReadBits8(8)
	e.AvailsExpected = br.ReadBits8(8)
	return
}

func (e *SpliceEvent) write(bw *base.BitWriter) {
	bw.WriteBits(32, uint64(e.SpliceEventId))
	bw.WriteFlag(e.SpliceEventCancelIndicator)
	bw.WriteReserved(7)

	if !e.SpliceEventCancelIndicator {
		bw.WriteFlag(e.OutOfNetworkIndicator)
		bw.WriteFlag(e.ProgramSpliceFlag)
		bw.WriteFlag(e.DurationFlag)
		bw.WriteReserved(5)

		if e.ProgramSpliceFlag {
			bw.WriteBits(32, uint64(e.UtcSpliceTime))
		} else {
			bw.WriteBits(8, uint64(len(e.Components)))
			for _, c := range e.Components {
				bw.WriteBits(8, uint64(c.ComponentTag))
				bw.WriteBits(32, uint64(c.UtcSpliceTime))
			}
		}
		if e.DurationFlag {
			e.BreakDuration.write(bw)
		}
	}

	bw.WriteBits(16, uint64(e.UniqueProgramId))
	bw.WriteBits(8, uint64(e.AvailNum))
	bw.WriteBits(8, uint64(e.AvailsExpected))
}

func (e *SpliceEvent) bitLength() uint {
	n := uint(32 + 1 + 7)
	if !e.SpliceEventCancelIndicator {
		n += 8
		if e.ProgramSpliceFlag {
			n += 32
		} else {
			n += 8 + uint(len(e.Components))*40
		}
		if e.DurationFlag {
			n += breakDurationBitLength
		}
	}
	return n + 16 + 8 + 8
}

func (e *SpliceEvent) clone() SpliceEvent {
	out := *e
	out.BreakDuration = e.BreakDuration.clone()
	if e.Components != nil {
		out.Components = append([]SpliceEventComponent{}, e.Components...)
	}
	return out
}
