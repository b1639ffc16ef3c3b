// Copyright 2024, Chef.  All rights reserved.
// https://github.com/q191201771/tscheck
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package scte35

import "github.com/q191201771/tscheck/pkg/base"

// TimeSignal 只包含一个splice_time，一般配合segmentation descriptor使用
type TimeSignal struct {
	SpliceTime *SpliceTime
}

func (cmd *TimeSignal) Type() uint8 { return SpliceCommandTypeTimeSignal }

func (cmd *TimeSignal) read(br *base.BitReader, _ uint16) {
	cmd.SpliceTime = readSpliceTime(br)
}

func (cmd *TimeSignal) write(bw *base.BitWriter) {
	cmd.SpliceTime.write(bw)
}

func (cmd *TimeSignal) bitLength() uint {
	return cmd.SpliceTime.bitLength()
}

func (cmd *TimeSignal) clone() SpliceCommand {
	return &TimeSignal{SpliceTime: cmd.SpliceTime.clone()}
}
