// Copyright 2024, Chef.  All rights reserved.
// https://github.com/q191201771/tscheck
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package ebp

import (
	"github.com/q191201771/tscheck/pkg/base"
)

// Marker Encoder Boundary Point
//
// ----------------------------------------------------------
// <OC-SP-EBP-I01> <Table 3 EBP Structure>
// EBP_fragment_flag        [1b]
// EBP_segment_flag         [1b]
// EBP_SAP_flag             [1b]
// EBP_grouping_flag        [1b]
// EBP_time_flag            [1b]
// EBP_concealment_flag     [1b]
// reserved                 [1b]
// EBP_extension_flag       [1b] *
// -----if EBP_extension_flag == 1-----
// EBP_ext_partition_flag   [1b]
// reserved                 [7b] *
// -----if EBP_SAP_flag == 1-----
// EBP_SAP_type             [3b]
// reserved                 [5b] *
// -----if EBP_grouping_flag == 1, loop-----
// EBP_grouping_ext_flag    [1b]
// EBP_grouping_id          [7b] *
// -----if EBP_time_flag == 1-----
// EBP_acquisition_time     [64b] ********
// -----if EBP_ext_partition_flag == 1-----
// EBP_ext_partitions       [8b] *
// ----------------------------------------------------------
type Marker struct {
	FragmentFlag     bool
	SegmentFlag      bool
	SapFlag          bool
	GroupingFlag     bool
	TimeFlag         bool
	ConcealmentFlag  bool
	ExtensionFlag    bool
	ExtPartitionFlag bool

	SapType uint8

	GroupingIds []uint8

	// NTP格式，按原始字节序读取，不做转换，见 ParseNtpTimestamp
	AcquisitionTime uint64

	ExtPartitions uint8
}

// ParseMarker 解析EBP结构
//
// 缓冲连首字节都不够，或者某个条件字段读取越界时，返回 base.ErrEbpMalformedMarker
// 出错时返回值中已经解析出的字段依然有效
func ParseMarker(b []byte) (m Marker, err error) {
	br := base.NewBitReader(b)
	m.FragmentFlag = br.ReadFlag()
	m.SegmentFlag = br.ReadFlag()
	m.SapFlag = br.ReadFlag()
	m.GroupingFlag = br.ReadFlag()
	m.TimeFlag = br.ReadFlag()
	m.ConcealmentFlag = br.ReadFlag()
	br.SkipBits(1)
	m.ExtensionFlag = br.ReadFlag()
	if br.Err() != nil {
		return m, base.NewErrEbpMalformedMarker(br.Err())
	}

	if m.ExtensionFlag {
		m.ExtPartitionFlag = br.ReadFlag()
		br.SkipBits(7)
	}
	if m.SapFlag {
		m.SapType = br.ReadBits8(3)
		br.SkipBits(5)
	}
	if m.GroupingFlag {
		m.GroupingIds = readGroupingIds(br)
	}
	if m.TimeFlag {
		m.AcquisitionTime = br.ReadBits(64)
	}
	if m.ExtPartitionFlag {
		m.ExtPartitions = br.ReadBits8(8)
	}

	if br.Err() != nil {
		return m, base.NewErrEbpMalformedMarker(br.Err())
	}
	return m, nil
}

// Pack 按 ParseMarker 的字段顺序打包，保留位写1
//
// GroupingFlag 为true但 GroupingIds 为空时，写入一个值为0的结束项，因为grouping循环至少包含一项
func (m *Marker) Pack() []byte {
	bw := base.NewBitWriter(m.packSize())
	bw.WriteFlag(m.FragmentFlag)
	bw.WriteFlag(m.SegmentFlag)
	bw.WriteFlag(m.SapFlag)
	bw.WriteFlag(m.GroupingFlag)
	bw.WriteFlag(m.TimeFlag)
	bw.WriteFlag(m.ConcealmentFlag)
	bw.WriteReserved(1)
	bw.WriteFlag(m.ExtensionFlag)

	if m.ExtensionFlag {
		bw.WriteFlag(m.ExtPartitionFlag)
		bw.WriteReserved(7)
	}
	if m.SapFlag {
		bw.WriteBits(3, uint64(m.SapType))
		bw.WriteReserved(5)
	}
	if m.GroupingFlag {
		if len(m.GroupingIds) == 0 {
			bw.WriteBits(8, 0)
		}
		for i, id := range m.GroupingIds {
			bw.WriteFlag(i != len(m.GroupingIds)-1)
			bw.WriteBits(7, uint64(id))
		}
	}
	if m.TimeFlag {
		bw.WriteBits(64, m.AcquisitionTime)
	}
	if m.ExtensionFlag && m.ExtPartitionFlag {
		bw.WriteBits(8, uint64(m.ExtPartitions))
	}
	return bw.Bytes()
}

// Validate 检查grouping id序列，见 ValidateGrouping
func (m *Marker) Validate() Violations {
	return ValidateGrouping(m.GroupingIds)
}

func (m *Marker) Clone() Marker {
	out := *m
	if m.GroupingIds != nil {
		out.GroupingIds = make([]uint8, len(m.GroupingIds))
		copy(out.GroupingIds, m.GroupingIds)
	}
	return out
}

func (m *Marker) packSize() int {
	n := 1
	if m.ExtensionFlag {
		n++
		if m.ExtPartitionFlag {
			n++
		}
	}
	if m.SapFlag {
		n++
	}
	if m.GroupingFlag {
		if len(m.GroupingIds) == 0 {
			n++
		}
		n += len(m.GroupingIds)
	}
	if m.TimeFlag {
		n += 8
	}
	return n
}

// 每轮至少消费8位，缓冲读完后 br 进入错误状态，循环必然结束
func readGroupingIds(br *base.BitReader) []uint8 {
	var ids []uint8
	for {
		more := br.ReadFlag()
		id := br.ReadBits8(7)
		if br.Err() != nil {
			return ids
		}
		ids = append(ids, id)
		if !more {
			return ids
		}
	}
}
