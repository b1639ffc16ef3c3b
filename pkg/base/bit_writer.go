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
)

// BitWriter 定长缓冲上的写位器，用于打包EBP、SCTE-35、PSI等
//
// 容量在构造时确定，写超出容量的部分会被丢弃并记录错误
type BitWriter struct {
	buf     []byte
	core    nazabits.BitWriter
	written uint // 单位bit
	err     error
}

// NewBitWriter
//
// @param size: 缓冲大小，单位字节
func NewBitWriter(size int) *BitWriter {
	buf := make([]byte, size)
	return &BitWriter{
		buf:  buf,
		core: nazabits.NewBitWriter(buf),
	}
}

// WriteBits 写入v的低n位，n取值范围[0, 64]，高位在前
func (bw *BitWriter) WriteBits(n uint, v uint64) {
	if bw.err != nil {
		return
	}
	if bw.written+n > uint(len(bw.buf))*8 {
		bw.err = NewErrShortBuffer(n, uint(len(bw.buf))*8-bw.written)
		return
	}
	for n > 0 {
		m := n % 16
		if m == 0 {
			m = 16
		}
		chunk := uint16(v>>(n-m)) & uint16(1<<m-1)
		bw.core.WriteBits16(m, chunk)
		bw.written += m
		n -= m
	}
}

func (bw *BitWriter) WriteFlag(f bool) {
	if f {
		bw.WriteBits(1, 1)
	} else {
		bw.WriteBits(1, 0)
	}
}

// WriteReserved 写入n位全1的保留位
func (bw *BitWriter) WriteReserved(n uint) {
	bw.WriteBits(n, 0xFFFFFFFFFFFFFFFF)
}

func (bw *BitWriter) WriteBytes(b []byte) {
	for _, v := range b {
		bw.WriteBits(8, uint64(v))
	}
}

// Bytes 已写入的内容，最后不满一字节的部分按0补齐
func (bw *BitWriter) Bytes() []byte {
	return bw.buf[:(bw.written+7)/8]
}

func (bw *BitWriter) Written() uint {
	return bw.written
}

func (bw *BitWriter) Err() error {
	return bw.err
}
