// Copyright 2024, Chef.  All rights reserved.
// https://github.com/q191201771/tscheck
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package scte35

import "github.com/q191201771/tscheck/pkg/base"

// PrivateCommand
//
// identifier               [32b] ****
// private_byte             [(splice_command_length-4)*8 b]
type PrivateCommand struct {
	Identifier uint32

	// splice_command_length不大于4时为空切片
	PrivateBytes []byte
}

func (cmd *PrivateCommand) Type() uint8 { return SpliceCommandTypePrivate }

func (cmd *PrivateCommand) read(br *base.BitReader, commandLength uint16) {
	cmd.Identifier = br.ReadBits32(32)
	var n uint
	if commandLength > 4 {
		n = uint(commandLength) - 4
	}
	cmd.PrivateBytes = br.ReadBytes(n)
}

func (cmd *PrivateCommand) write(bw *base.BitWriter) {
	bw.WriteBits(32, uint64(cmd.Identifier))
	bw.WriteBytes(cmd.PrivateBytes)
}

func (cmd *PrivateCommand) bitLength() uint {
	return 32 + uint(len(cmd.PrivateBytes))*8
}

func (cmd *PrivateCommand) clone() SpliceCommand {
	out := &PrivateCommand{Identifier: cmd.Identifier}
	if cmd.PrivateBytes != nil {
		out.PrivateBytes = append([]byte{}, cmd.PrivateBytes...)
	}
	return out
}
