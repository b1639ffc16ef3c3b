// Copyright 2024, Chef.  All rights reserved.
// https://github.com/q191201771/tscheck
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package base

import (
	"github.com/q191201771/naza/pkg/nazabits"
	"github.com/q191201771/naza/pkg/nazaerrors"
)

// BitReader 在 nazabits.BitReader 之上增加两点:
//
// 1. 支持一次读取最多64位，33位的PTS等字段可以直接读
// 2. 第一次读越界后错误会被记住，后续读取全部返回0，调用方可以连续读完一段字段再统一检查 Err
//
// 越界由 nazabits 判断，越界时不会消费任何位
type BitReader struct {
	core  nazabits.BitReader
	total uint // 单位bit
	err   error
}

func NewBitReader(b []byte) *BitReader {
	return &BitReader{
		core:  nazabits.NewBitReader(b),
		total: uint(len(b)) * 8,
	}
}

// ReadBits 读取n位，n取值范围[0, 64]，高位在前
func (br *BitReader) ReadBits(n uint) uint64 {
	if n == 0 || br.err != nil {
		return 0
	}
	v, err := br.core.ReadBits64(n)
	if err != nil {
		br.err = nazaerrors.Wrap(NewErrShortBufferCause(n, br.BitsLeft(), err))
		return 0
	}
	return v
}

func (br *BitReader) ReadBits8(n uint) uint8 {
	return uint8(br.ReadBits(n))
}

func (br *BitReader) ReadBits16(n uint) uint16 {
	return uint16(br.ReadBits(n))
}

func (br *BitReader) ReadBits32(n uint) uint32 {
	return uint32(br.ReadBits(n))
}

func (br *BitReader) ReadFlag() bool {
	return br.ReadBits(1) == 1
}

// ReadBytes 读取n个字节，不要求当前位置字节对齐
//
// n为0时返回长度为0的非nil切片
func (br *BitReader) ReadBytes(n uint) []byte {
	if br.err != nil {
		return nil
	}
	if n == 0 {
		return []byte{}
	}
	// 非字节对齐时 nazabits 逐字节读取，越界前已经消费的字节无法退回，所以先检查
	if n*8 > br.BitsLeft() {
		br.err = nazaerrors.Wrap(NewErrShortBuffer(n*8, br.BitsLeft()))
		return nil
	}
	out, err := br.core.ReadBytes(n)
	if err != nil {
		br.err = nazaerrors.Wrap(NewErrShortBufferCause(n*8, br.BitsLeft(), err))
		return nil
	}
	return out
}

func (br *BitReader) SkipBits(n uint) {
	if n == 0 || br.err != nil {
		return
	}
	if err := br.core.SkipBits(n); err != nil {
		br.err = nazaerrors.Wrap(NewErrShortBufferCause(n, br.BitsLeft(), err))
	}
}

func (br *BitReader) SkipBytes(n uint) {
	br.SkipBits(n * 8)
}

func (br *BitReader) BitsLeft() uint {
	avail, _ := br.core.AvailBits()
	return avail
}

// BytesLeft 剩余完整字节数
func (br *BitReader) BytesLeft() uint {
	return br.BitsLeft() / 8
}

func (br *BitReader) Consumed() uint {
	return br.total - br.BitsLeft()
}

func (br *BitReader) Err() error {
	return br.err
}
