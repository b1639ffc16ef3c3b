// Copyright 2024, Chef.  All rights reserved.
// https://github.com/q191201771/tscheck
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package scte35

import "github.com/q191201771/tscheck/pkg/base"

// SpliceNull 心跳，没有内容
type SpliceNull struct{}

func (cmd *SpliceNull) Type() uint8 { return SpliceCommandTypeNull }

func (cmd *SpliceNull) read(_ *base.BitReader, _ uint16) {}

func (cmd *SpliceNull) write(_ *base.BitWriter) {}

func (cmd *SpliceNull) bitLength() uint { return 0 }

func (cmd *SpliceNull) clone() SpliceCommand { return &SpliceNull{} }
