// Copyright 2024, Chef.  All rights reserved.
// https://github.com/q191201771/tscheck
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package scte35

import "github.com/q191201771/tscheck/pkg/base"

// SpliceTime
//
// ----------------------------------------------------------
// <SCTE 35> <9.4.1 splice_time()>
// time_specified_flag      [1b]
// -----if time_specified_flag == 1-----
// reserved                 [6b]
// pts_time                 [33b] *****
// -----else-----
// reserved                 [7b]  *
// ----------------------------------------------------------
type SpliceTime struct {
	// nil表示time_specified_flag为0
	PtsTime *uint64
}

func NewSpliceTime(pts uint64) *SpliceTime {
	return &SpliceTime{PtsTime: &pts}
}

func (st *SpliceTime) TimeSpecified() bool {
	return st != nil && st.PtsTime != nil
}

// Pts 没有指定时间时返回0
func (st *SpliceTime) Pts() uint64 {
	if !st.TimeSpecified() {
		return 0
	}
	return *st.PtsTime
}

func readSpliceTime(br *base.BitReader) *SpliceTime {
	st := &SpliceTime{}
	if br.ReadFlag() {
		br.SkipBits(6)
		pts := br.ReadBits(33)
		st.PtsTime = &pts
	} else {
		br.SkipBits(7)
	}
	return st
}

// nil按time_specified_flag为0写入
func (st *SpliceTime) write(bw *base.BitWriter) {
	if st.TimeSpecified() {
		bw.WriteFlag(true)
		bw.WriteReserved(6)
		bw.WriteBits(33, *st.PtsTime)
		return
	}
	bw.WriteFlag(false)
	bw.WriteReserved(7)
}

func (st *SpliceTime) bitLength() uint {
	if st.TimeSpecified() {
		return 40
	}
	return 8
}

func (st *SpliceTime) clone() *SpliceTime {
	if st == nil {
		return nil
	}
	if st.PtsTime == nil {
		return &SpliceTime{}
	}
	return NewSpliceTime(*st.PtsTime)
}

// BreakDuration
//
// ----------------------------------------------------------
// <SCTE 35> <9.4.2 break_duration()>
// auto_return              [1b]
// reserved                 [6b]
// duration                 [33b] *****
// ----------------------------------------------------------
type BreakDuration struct {
	AutoReturn bool
	Duration   uint64
}

func readBreakDuration(br *base.BitReader) *BreakDuration {
	bd := &BreakDuration{}
	bd.AutoReturn = br.ReadFlag()
	br.SkipBits(6)
	bd.Duration = br.ReadBits(33)
	return bd
}

func (bd *BreakDuration) write(bw *base.BitWriter) {
	var v BreakDuration
	if bd != nil {
		v = *bd
	}
	bw.WriteFlag(v.AutoReturn)
	bw.WriteReserved(6)
	bw.WriteBits(33, v.Duration)
}

func (bd *BreakDuration) clone() *BreakDuration {
	if bd == nil {
		return nil
	}
	out := *bd
	return &out
}

const breakDurationBitLength = 40
