// Copyright 2024, Chef.  All rights reserved.
// https://github.com/q191201771/tscheck
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package ebp

import "github.com/q191201771/tscheck/pkg/base"

var Log = base.Log

const (
	// DescriptorTag EBP描述符出现在PMT的ES info中
	DescriptorTag uint8 = 0xE9

	// PartitionIdSegment 和 PartitionIdFragment 是两个预定义的partition
	PartitionIdSegment  uint8 = 1
	PartitionIdFragment uint8 = 2

	// GroupIdStart 和 GroupIdEnd 是grouping id中两个有特殊含义的值
	GroupIdStart uint8 = 126
	GroupIdEnd   uint8 = 127
)

// SCTE-128 transport private data
const (
	PrivateDataTagScte128  uint8  = 0xDF
	FormatIdentifierEbp    uint32 = 0x45425030 // "EBP0"
	formatIdentifierLength        = 4
)
