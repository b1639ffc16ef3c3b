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

// Descriptor EBP_descriptor，位于PMT中视频ES的描述符循环里
//
// ----------------------------------------------------------
// <OC-SP-EBP-I01> <Table 4 EBP Descriptor>
// descriptor_tag                [8b]  * 0xE9
// descriptor_length             [8b]  *
// num_partitions                [5b]
// timescale_flag                [1b]
// reserved                      [2b]  *
// -----if timescale_flag == 1-----
// ticks_per_second              [21b]
// EBP_distance_width_minus_1    [3b]  ***
// -----loop num_partitions-----
// EBP_data_explicit_flag        [1b]
// representation_id_flag        [1b]
// partition_id                  [5b]
// -----if EBP_data_explicit_flag == 0-----
// reserved                      [1b]
// EBP_PID                       [13b]
// reserved                      [3b]
// -----else-----
// boundary_flag                 [1b]
// EBP_distance                  [(EBP_distance_width_minus_1+1)*8 b]
// -----if boundary_flag == 1-----
// SAP_type_max                  [3b]
// reserved                      [4b]
// -----else-----
// reserved                      [7b]
// -----
// acquisition_time_flag         [1b]
// -----
// -----if representation_id_flag == 1-----
// representation_id             [64b] ********
// ----------------------------------------------------------
type Descriptor struct {
	Tag    uint8
	Length uint8

	NumPartitions uint8
	TimescaleFlag bool

	// TimescaleFlag 为false时分别为1和0
	TicksPerSecond      uint32
	DistanceWidthMinus1 uint8

	Partitions []Partition
}

type Partition struct {
	PartitionId          uint8
	RepresentationIdFlag bool
	RepresentationId     uint64 // 按原始字节序读取

	// ImplicitPartition 或者 ExplicitPartition
	Data PartitionData
}

// PartitionData 只有 ImplicitPartition 和 ExplicitPartition 两种实现
type PartitionData interface {
	isPartitionData()
}

// ImplicitPartition EBP_data_explicit_flag为0，边界信息由另一个PID上的EBP给出
type ImplicitPartition struct {
	EbpPid uint16
}

type ExplicitPartition struct {
	BoundaryFlag bool
	Distance     uint64

	// BoundaryFlag 为false时为0
	SapTypeMax uint8

	// 只解析标志位，不读取对应的时间
	AcquisitionTimeFlag bool
}

func (ImplicitPartition) isPartitionData() {}
func (ExplicitPartition) isPartitionData() {}

// Explicit 返回nil表示该partition是隐式的
func (p *Partition) Explicit() *ExplicitPartition {
	if e, ok := p.Data.(ExplicitPartition); ok {
		return &e
	}
	return nil
}

// ParseDescriptor 解析包含tag和length的完整描述符
func ParseDescriptor(b []byte) (d Descriptor, err error) {
	if len(b) < 2 {
		return d, base.NewErrEbpMalformedDescriptor(base.NewErrShortBuffer(16, uint(len(b))*8))
	}
	if b[0] != DescriptorTag {
		return d, base.NewErrEbpDescriptorTag(b[0])
	}
	length := int(b[1])
	if len(b)-2 < length {
		return d, base.NewErrEbpMalformedDescriptor(base.NewErrShortBuffer(uint(length)*8, uint(len(b)-2)*8))
	}
	br := base.NewBitReader(b[2 : 2+length])
	return ReadDescriptorPayload(br, b[0], b[1])
}

// ReadDescriptorPayload
//
// @param br: 位置在descriptor_length之后
// @param tag, length: 调用方已经读出的描述符头，原样记录
func ReadDescriptorPayload(br *base.BitReader, tag uint8, length uint8) (d Descriptor, err error) {
	d.Tag = tag
	d.Length = length
	d.NumPartitions = br.ReadBits8(5)
	d.TimescaleFlag = br.ReadFlag()
	br.SkipBits(2)
	if d.TimescaleFlag {
		d.TicksPerSecond = br.ReadBits32(21)
		d.DistanceWidthMinus1 = br.ReadBits8(3)
	} else {
		d.TicksPerSecond = 1
		d.DistanceWidthMinus1 = 0
	}
	if br.Err() != nil {
		return d, base.NewErrEbpMalformedDescriptor(br.Err())
	}

	distanceWidth := (uint(d.DistanceWidthMinus1) + 1) * 8
	if d.NumPartitions > 0 {
		d.Partitions = make([]Partition, 0, d.NumPartitions)
	}
	for i := uint8(0); i < d.NumPartitions; i++ {
		var p Partition
		explicit := br.ReadFlag()
		p.RepresentationIdFlag = br.ReadFlag()
		p.PartitionId = br.ReadBits8(5)
		if explicit {
			var e ExplicitPartition
			e.BoundaryFlag = br.ReadFlag()
			e.Distance = br.ReadBits(distanceWidth)
			if e.BoundaryFlag {
				e.SapTypeMax = br.ReadBits8(3)
				br.SkipBits(4)
			} else {
				br.SkipBits(7)
			}
			e.AcquisitionTimeFlag = br.ReadFlag()
			p.Data = e
		} else {
			br.SkipBits(1)
			p.Data = ImplicitPartition{EbpPid: br.ReadBits16(13)}
			br.SkipBits(3)
		}
		if p.RepresentationIdFlag {
			p.RepresentationId = br.ReadBits(64)
		}

		if br.Err() != nil {
			return d, base.NewErrEbpMalformedDescriptor(br.Err())
		}
		d.Partitions = append(d.Partitions, p)
	}
	return d, nil
}

// Partition 线性查找，返回第一个匹配的，不存在时返回nil
//
// 返回的指针指向 d 内部
func (d *Descriptor) Partition(partitionId uint8) *Partition {
	for i := range d.Partitions {
		if d.Partitions[i].PartitionId == partitionId {
			return &d.Partitions[i]
		}
	}
	return nil
}

func (d *Descriptor) FragmentPartition() *Partition {
	return d.Partition(PartitionIdFragment)
}

func (d *Descriptor) SegmentPartition() *Partition {
	return d.Partition(PartitionIdSegment)
}

func (d *Descriptor) DoesFragmentMarkBoundary() bool {
	return markBoundary(d.FragmentPartition())
}

func (d *Descriptor) DoesSegmentMarkBoundary() bool {
	return markBoundary(d.SegmentPartition())
}

func (d *Descriptor) FragmentSapTypeMax() uint8 {
	return sapTypeMax(d.FragmentPartition())
}

func (d *Descriptor) SegmentSapTypeMax() uint8 {
	return sapTypeMax(d.SegmentPartition())
}

// Pack 打包成包含tag和length的完整描述符，Tag、Length、NumPartitions 字段由内容重新计算
func (d *Descriptor) Pack() []byte {
	distanceWidth := (uint(d.DistanceWidthMinus1) + 1) * 8
	if !d.TimescaleFlag {
		distanceWidth = 8
	}

	bits := uint(8)
	if d.TimescaleFlag {
		bits += 24
	}
	for i := range d.Partitions {
		bits += 7
		if _, ok := d.Partitions[i].Data.(ExplicitPartition); ok {
			bits += 1 + distanceWidth + 7 + 1
		} else {
			bits += 1 + 13 + 3
		}
		if d.Partitions[i].RepresentationIdFlag {
			bits += 64
		}
	}
	length := bits / 8

	bw := base.NewBitWriter(int(2 + length))
	bw.WriteBits(8, uint64(DescriptorTag))
	bw.WriteBits(8, uint64(length))
	bw.WriteBits(5, uint64(len(d.Partitions)))
	bw.WriteFlag(d.TimescaleFlag)
	bw.WriteReserved(2)
	if d.TimescaleFlag {
		bw.WriteBits(21, uint64(d.TicksPerSecond))
		bw.WriteBits(3, uint64(d.DistanceWidthMinus1))
	}
	for _, p := range d.Partitions {
		switch data := p.Data.(type) {
		case ExplicitPartition:
			bw.WriteFlag(true)
			bw.WriteFlag(p.RepresentationIdFlag)
			bw.WriteBits(5, uint64(p.PartitionId))
			bw.WriteFlag(data.BoundaryFlag)
			bw.WriteBits(distanceWidth, data.Distance)
			if data.BoundaryFlag {
				bw.WriteBits(3, uint64(data.SapTypeMax))
				bw.WriteReserved(4)
			} else {
				bw.WriteReserved(7)
			}
			bw.WriteFlag(data.AcquisitionTimeFlag)
		default:
			var pid uint16
			if implicit, ok := data.(ImplicitPartition); ok {
				pid = implicit.EbpPid
			}
			bw.WriteFlag(false)
			bw.WriteFlag(p.RepresentationIdFlag)
			bw.WriteBits(5, uint64(p.PartitionId))
			bw.WriteReserved(1)
			bw.WriteBits(13, uint64(pid))
			bw.WriteReserved(3)
		}
		if p.RepresentationIdFlag {
			bw.WriteBits(64, p.RepresentationId)
		}
	}
	return bw.Bytes()
}

// Clone partition中的数据都是值类型，拷贝切片即可
func (d *Descriptor) Clone() Descriptor {
	out := *d
	if d.Partitions != nil {
		out.Partitions = make([]Partition, len(d.Partitions))
		copy(out.Partitions, d.Partitions)
	}
	return out
}

func markBoundary(p *Partition) bool {
	if p == nil {
		return false
	}
	if e := p.Explicit(); e != nil {
		return e.BoundaryFlag
	}
	return false
}

func sapTypeMax(p *Partition) uint8 {
	if p == nil {
		return 0
	}
	if e := p.Explicit(); e != nil {
		return e.SapTypeMax
	}
	return 0
}
