// Copyright 2021, Chef.  All rights reserved.
// https://github.com/q191201771/tscheck
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package base

import (
	"errors"
	"fmt"
)

// ----- 通用的 ---------------------------------------------------------------------------------------------------------

var ErrShortBuffer = errors.New("tscheck: buffer too short")

func NewErrShortBuffer(needBits, leftBits uint) error {
	return fmt.Errorf("%w. need=%d bits, left=%d bits", ErrShortBuffer, needBits, leftBits)
}

func NewErrShortBufferCause(needBits, leftBits uint, cause error) error {
	return fmt.Errorf("%w. need=%d bits, left=%d bits: %w", ErrShortBuffer, needBits, leftBits, cause)
}

// ----- pkg/ebp -------------------------------------------------------------------------------------------------------

var (
	ErrEbpMalformedMarker     = errors.New("tscheck.ebp: malformed marker")
	ErrEbpMalformedDescriptor = errors.New("tscheck.ebp: malformed descriptor")
	ErrEbpMalformedPrivate    = errors.New("tscheck.ebp: malformed transport private data")
)

// NewErrEbpMalformedMarker
//
// @param cause: 读取失败的底层原因，一般是 ErrShortBuffer
func NewErrEbpMalformedMarker(cause error) error {
	return fmt.Errorf("%w: %w", ErrEbpMalformedMarker, cause)
}

func NewErrEbpMalformedDescriptor(cause error) error {
	return fmt.Errorf("%w: %w", ErrEbpMalformedDescriptor, cause)
}

func NewErrEbpDescriptorTag(tag uint8) error {
	return fmt.Errorf("%w. unexpected tag=0x%02x", ErrEbpMalformedDescriptor, tag)
}

func NewErrEbpMalformedPrivate(need, actual int) error {
	return fmt.Errorf("%w. need=%d, actual=%d", ErrEbpMalformedPrivate, need, actual)
}

// ----- pkg/scte35 ----------------------------------------------------------------------------------------------------

var (
	ErrScte35WrongTableId             = errors.New("tscheck.scte35: wrong table id")
	ErrScte35NoStartIndicatorNoBuffer = errors.New("tscheck.scte35: no payload unit start indicator and no cached data")
	ErrScte35Malformed                = errors.New("tscheck.scte35: malformed splice info section")
	ErrScte35TooLong                  = errors.New("tscheck.scte35: content too long to pack")
)

func NewErrScte35WrongTableId(tid uint8) error {
	return fmt.Errorf("%w. tid=0x%02x", ErrScte35WrongTableId, tid)
}

func NewErrScte35Malformed(cause error) error {
	return fmt.Errorf("%w: %w", ErrScte35Malformed, cause)
}

func NewErrScte35PointerField(pointerField uint8, payloadLen int) error {
	return fmt.Errorf("%w. pointer field=%d, payload=%d", ErrScte35Malformed, pointerField, payloadLen)
}

func NewErrScte35TooLong(field string, length, max int) error {
	return fmt.Errorf("%w. field=%s, length=%d, max=%d", ErrScte35TooLong, field, length, max)
}

func NewErrScte35IncompleteSection(used, target int) error {
	return fmt.Errorf("%w. incomplete section, used=%d, target=%d", ErrScte35Malformed, used, target)
}

// ----- pkg/mpegts ----------------------------------------------------------------------------------------------------

var ErrMpegts = errors.New("tscheck.mpegts: fxxk")

func NewErrMpegtsShortPacket(actual int) error {
	return fmt.Errorf("%w. packet too short, actual=%d", ErrMpegts, actual)
}

func NewErrMpegtsUnalignedWrite(length int) error {
	return fmt.Errorf("%w. write length is not a multiple of packet size, length=%d", ErrMpegts, length)
}

// ----- pkg/tsanalyze -------------------------------------------------------------------------------------------------

var ErrTsAnalyze = errors.New("tscheck.tsanalyze: fxxk")

func NewErrTsAnalyzeTooManyErrors(num int, last error) error {
	return fmt.Errorf("%w. too many consecutive demux errors, num=%d, last=%w", ErrTsAnalyze, num, last)
}
