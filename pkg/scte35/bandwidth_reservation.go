// Copyright 2024, Chef.  All rights reserved.
// https://github.com/q191201771/tscheck
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package scte35

import "github.com/q191201771/tscheck/pkg/base"

// BandwidthReservation 占位用，没有内容
type BandwidthReservation struct{}

func (cmd *BandwidthReservation) Type() uint8 { return SpliceCommandTypeBandwidthReservation }

func (cmd *BandwidthReservation) read(_ *base.BitReader, _ uint16) {}

func (cmd *BandwidthReservation) write(_ *base.BitWriter) {}

func (cmd *BandwidthReservation) bitLength() uint { return 0 }

func (cmd *BandwidthReservation) clone() SpliceCommand { return &BandwidthReservation{} }
