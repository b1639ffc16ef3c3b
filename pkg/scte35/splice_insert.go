// Copyright 2024, Chef.  All rights reserved.
// https://github.com/q191201771/tscheck
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package scte35

import "github.com/q191201771/tscheck/pkg/base"

// SpliceInsert
//
// ----------------------------------------------------------
// <SCTE 35> <9.7.3 splice_insert()>
// splice_event_id                 [32b] ****
// splice_event_cancel_indicator   [1b]
// reserved                        [7b]  *
// -----if splice_event_cancel_indicator == 0-----
// out_of_network_indicator        [1b]
// program_splice_flag             [1b]
// duration_flag                   [1b]
// splice_immediate_flag           [1b]
// reserved                        [4b]  *
// -----if program_splice_flag == 1 && splice_immediate_flag == 0-----
// splice_time()
// -----if program_splice_flag == 0-----
// component_count                 [8b]  *
// -----loop component_count-----
// component_tag                   [8b]  *
// -----if splice_immediate_flag == 1-----
// splice_time()
// -----
// -----if duration_flag == 1-----
// break_duration()
// -----
// unique_program_id               [16b] **
// avail_num                       [8b]  *
// avails_expected                 [8b]  *
// ----------------------------------------------------------
//
// 注意，component中的splice_time在splice_immediate_flag为1时读取，与program级别的条件相反
type SpliceInsert struct {
	SpliceEventId              uint32
	SpliceEventCancelIndicator bool

	OutOfNetworkIndicator bool
	ProgramSpliceFlag     bool
	DurationFlag          bool
	SpliceImmediateFlag   bool

	SpliceTime    *SpliceTime
	Components    []SpliceInsertComponent
	BreakDuration *BreakDuration

	UniqueProgramId uint16
	AvailNum        uint8
	AvailsExpected  uint8
}

type SpliceInsertComponent struct {
	ComponentTag uint8
	SpliceTime   *SpliceTime
}

func (cmd *SpliceInsert) Type() uint8 { return SpliceCommandTypeInsert }

func (cmd *SpliceInsert) read(br *base.BitReader, _ uint16) {
	cmd.SpliceEventId = br.ReadBits32(32)
	cmd.SpliceEventCancelIndicator = br.ReadFlag()
	br.SkipBits(7)

	if !cmd.SpliceEventCancelIndicator {
		cmd.OutOfNetworkIndicator = br.ReadFlag()
		cmd.ProgramSpliceFlag = br.ReadFlag()
		cmd.DurationFlag = br.ReadFlag()
		cmd.SpliceImmediateFlag = br.ReadFlag()
		br.SkipBits(4)

		if cmd.ProgramSpliceFlag && !cmd.SpliceImmediateFlag {
			cmd.SpliceTime = readSpliceTime(br)
		}
		if !cmd.ProgramSpliceFlag {
			count := br.ReadBits8(8)
			if count > 0 && br.Err() == nil {
				cmd.Components = make([]SpliceInsertComponent, 0, count)
			}
			for i := uint8(0); i < count && br.Err() == nil; i++ {
				var c SpliceInsertComponent
				c.ComponentTag = br.ReadBits8(8)
				if cmd.SpliceImmediateFlag {
					c.SpliceTime = readSpliceTime(br)
				}
				cmd.Components = append(cmd.Components, c)
			}
		}
		if cmd.DurationFlag {
			cmd.BreakDuration = readBreakDuration(br)
		}
	}

	cmd.UniqueProgramId = br.ReadBits16(16)
	cmd.AvailNum = br.ReadBits8(8)
	cmd.AvailsExpected = br.ReadBits8(8)
}

func (cmd *SpliceInsert) write(bw *base.BitWriter) {
	bw.WriteBits(32, uint64(cmd.SpliceEventId))
	bw.WriteFlag(cmd.SpliceEventCancelIndicator)
	bw.WriteReserved(7)

	if !cmd.SpliceEventCancelIndicator {
		bw.WriteFlag(cmd.OutOfNetworkIndicator)
		bw.WriteFlag(cmd.ProgramSpliceFlag)
		bw.WriteFlag(cmd.DurationFlag)
		bw.WriteFlag(cmd.SpliceImmediateFlag)
		bw.WriteReserved(4)

		if cmd.ProgramSpliceFlag && !cmd.SpliceImmediateFlag {
			cmd.SpliceTime.write(bw)
		}
		if !cmd.ProgramSpliceFlag {
			bw.WriteBits(8, uint64(len(cmd.Components)))
			for _, c := range cmd.Components {
				bw.WriteBits(8, uint64(c.ComponentTag))
				if cmd.SpliceImmediateFlag {
					c.SpliceTime.write(bw)
				}
			}
		}
		if cmd.DurationFlag {
			cmd.BreakDuration.write(bw)
		}
	}

	bw.WriteBits(16, uint64(cmd.UniqueProgramId))
	bw.WriteBits(8, uint64(cmd.AvailNum))
	bw.WriteBits(8, uint64(cmd.AvailsExpected))
}

func (cmd *SpliceInsert) bitLength() uint {
	n := uint(32 + 1 + 7)
	if !cmd.SpliceEventCancelIndicator {
		n += 8
		if cmd.ProgramSpliceFlag && !cmd.SpliceImmediateFlag {
			n += cmd.SpliceTime.bitLength()
		}
		if !cmd.ProgramSpliceFlag {
			n += 8
			for _, c := range cmd.Components {
				n += 8
				if cmd.SpliceImmediateFlag {
					n += c.SpliceTime.bitLength()
				}
			}
		}
		if cmd.DurationFlag {
			n += breakDurationBitLength
		}
	}
	return n + 16 + 8 + 8
}

func (cmd *SpliceInsert) clone() SpliceCommand {
	out := *cmd
	out.SpliceTime = cmd.SpliceTime.clone()
	out.BreakDuration = cmd.BreakDuration.clone()
	if cmd.Components != nil {
		out.Components = make([]SpliceInsertComponent, len(cmd.Components))
		for i, c := range cmd.Components {
			out.Components[i] = SpliceInsertComponent{ComponentTag: c.ComponentTag, SpliceTime: c.SpliceTime.clone()}
		}
	}
	return &out
}
