// Copyright 2024, Chef.  All rights reserved.
// https://github.com/q191201771/tscheck
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package scte35

import "github.com/q191201771/tscheck/pkg/base"

// SpliceCommand 六种命令之一:
// *SpliceNull, *SpliceSchedule, *SpliceInsert, *TimeSignal, *BandwidthReservation, *PrivateCommand
//
// 接口包含未导出方法，包外无法新增实现，对它做type switch时以上六种即为全部情况
type SpliceCommand interface {
	Type() uint8

	read(br *base.BitReader, commandLength uint16)
	write(bw *base.BitWriter)
	bitLength() uint
	clone() SpliceCommand
}

// newSpliceCommand 未知类型返回nil
func newSpliceCommand(commandType uint8) SpliceCommand {
	switch commandType {
	case SpliceCommandTypeNull:
		return &SpliceNull{}
	case SpliceCommandTypeSchedule:
		return &SpliceSchedule{}
	case SpliceCommandTypeInsert:
		return &SpliceInsert{}
	case SpliceCommandTypeTimeSignal:
		return &TimeSignal{}
	case SpliceCommandTypeBandwidthReservation:
		return &BandwidthReservation{}
	case SpliceCommandTypePrivate:
		return &PrivateCommand{}
	}
	return nil
}

// readSpliceCommand
//
// 未知类型不报错，跳过splice_command_length字节后返回nil，后面的descriptor和CRC依然可以解析
func readSpliceCommand(br *base.BitReader, commandType uint8, commandLength uint16) SpliceCommand {
	cmd := newSpliceCommand(commandType)
	if cmd == nil {
		Log.Debugf("unknown splice command type, skip. type=0x%02x, length=%d", commandType, commandLength)
		if commandLength != legacySpliceCommandLength {
			br.SkipBytes(uint(commandLength))
		}
		return nil
	}
	cmd.read(br, commandLength)
	return cmd
}

const maxLoopCount = 0xFF

// checkLoopCount 命令中8位计数字段能否放下对应的列表
func checkLoopCount(cmd SpliceCommand) error {
	switch c := cmd.(type) {
	case *SpliceSchedule:
		if len(c.Events) > maxLoopCount {
			return base.NewErrScte35TooLong("splice_count", len(c.Events), maxLoopCount)
		}
		for i := range c.Events {
			if len(c.Events[i].Components) > maxLoopCount {
				return base.NewErrScte35TooLong("component_count", len(c.Events[i].Components), maxLoopCount)
			}
		}
	case *SpliceInsert:
		if len(c.Components) > maxLoopCount {
			return base.NewErrScte35TooLong("component_count", len(c.Components), maxLoopCount)
		}
	}
	return nil
}
