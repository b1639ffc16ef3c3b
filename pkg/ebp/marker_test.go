// Copyright 2024, Chef.  All rights reserved.
// https://github.com/q191201771/tscheck
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package ebp

import (
	"errors"
	"testing"

	"github.com/q191201771/naza/pkg/assert"
	"github.com/q191201771/tscheck/pkg/base"
)

// 所有条件字段都存在，保留位均为1
var goldenMarker = []byte{
	0xFB,                   // fragment segment sap grouping time, concealment=0, reserved, extension
	0xFF,                   // ext_partition_flag + reserved
	0x5F,                   // sap_type=2 + reserved
	0x85, 0xFE, 0x7F,       // grouping ids 5, 126, 127
	0x01, 0x02, 0x03, 0x04, // acquisition time
	0x05, 0x06, 0x07, 0x08, //
	0x03, // ext partitions
}

func TestParseMarker(t *testing.T) {
	m, err := ParseMarker(goldenMarker)
	assert.Equal(t, nil, err)
	assert.Equal(t, true, m.FragmentFlag)
	assert.Equal(t, true, m.SegmentFlag)
	assert.Equal(t, true, m.SapFlag)
	assert.Equal(t, true, m.GroupingFlag)
	assert.Equal(t, true, m.TimeFlag)
	assert.Equal(t, false, m.ConcealmentFlag)
	assert.Equal(t, true, m.ExtensionFlag)
	assert.Equal(t, true, m.ExtPartitionFlag)
	assert.Equal(t, uint8(2), m.SapType)
	assert.Equal(t, []uint8{5, 126, 127}, m.GroupingIds)
	assert.Equal(t, uint64(0x0102030405060708), m.AcquisitionTime)
	assert.Equal(t, uint8(3), m.ExtPartitions)
	assert.Equal(t, 0, len(m.Validate()))

	// 解析是确定的
	m2, err := ParseMarker(goldenMarker)
	assert.Equal(t, nil, err)
	assert.Equal(t, m, m2)
}

func TestParseMarkerMinimal(t *testing.T) {
	m, err := ParseMarker([]byte{0xC0})
	assert.Equal(t, nil, err)
	assert.Equal(t, true, m.FragmentFlag)
	assert.Equal(t, true, m.SegmentFlag)
	assert.Equal(t, false, m.SapFlag)
	assert.Equal(t, false, m.ExtensionFlag)
	assert.Equal(t, 0, len(m.GroupingIds))
	assert.Equal(t, []byte{0xC2}, m.Pack())
}

func TestParseMarkerMalformed(t *testing.T) {
	_, err := ParseMarker(nil)
	assert.Equal(t, true, errors.Is(err, base.ErrEbpMalformedMarker))
	assert.Equal(t, true, errors.Is(err, base.ErrShortBuffer))

	// sap_flag置位但没有后续字节
	m, err := ParseMarker([]byte{0x20})
	assert.Equal(t, true, errors.Is(err, base.ErrEbpMalformedMarker))
	assert.Equal(t, true, m.SapFlag)

	// time_flag置位但只有4字节时间
	_, err = ParseMarker([]byte{0x08, 0x01, 0x02, 0x03, 0x04})
	assert.Equal(t, true, errors.Is(err, base.ErrEbpMalformedMarker))
}

func TestParseMarkerGroupingTruncated(t *testing.T) {
	// 每一项的continuation bit都为1，缓冲读完时结束
	m, err := ParseMarker([]byte{0x10, 0x81, 0x82})
	assert.Equal(t, true, errors.Is(err, base.ErrEbpMalformedMarker))
	assert.Equal(t, []uint8{1, 2}, m.GroupingIds)

	// 全0的grouping项，读一项就结束
	m, err = ParseMarker([]byte{0x10, 0x00})
	assert.Equal(t, nil, err)
	assert.Equal(t, []uint8{0}, m.GroupingIds)
}

func TestMarkerPackRoundTrip(t *testing.T) {
	m, err := ParseMarker(goldenMarker)
	assert.Equal(t, nil, err)
	assert.Equal(t, goldenMarker, m.Pack())

	cases := []Marker{
		{},
		{SegmentFlag: true, SapFlag: true, SapType: 1},
		{GroupingFlag: true, GroupingIds: []uint8{35}},
		{TimeFlag: true, AcquisitionTime: 0xDEADBEEF00000001, ConcealmentFlag: true},
		{ExtensionFlag: true},
		{ExtensionFlag: true, ExtPartitionFlag: true, ExtPartitions: 0x7F},
	}
	for _, c := range cases {
		b := c.Pack()
		decoded, err := ParseMarker(b)
		assert.Equal(t, nil, err)
		assert.Equal(t, c, decoded)
		assert.Equal(t, b, decoded.Pack())
	}
}

func TestMarkerPackEmptyGrouping(t *testing.T) {
	m := Marker{GroupingFlag: true}
	b := m.Pack()
	assert.Equal(t, []byte{0x12, 0x00}, b)
	decoded, err := ParseMarker(b)
	assert.Equal(t, nil, err)
	assert.Equal(t, []uint8{0}, decoded.GroupingIds)
}

func TestMarkerClone(t *testing.T) {
	m, err := ParseMarker(goldenMarker)
	assert.Equal(t, nil, err)
	c := m.Clone()
	assert.Equal(t, m, c)
	c.GroupingIds[0] = 9
	assert.Equal(t, uint8(5), m.GroupingIds[0])
}

func TestParseNtpTimestamp(t *testing.T) {
	s, f := ParseNtpTimestamp(0x0000000580000000)
	assert.Equal(t, uint32(5), s)
	assert.Equal(t, 0.5, f)

	s, f = ParseNtpTimestamp(0xE5A1B2C340000000)
	assert.Equal(t, uint32(0xE5A1B2C3), s)
	assert.Equal(t, 0.25, f)
}

func BenchmarkParseMarker(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = ParseMarker(goldenMarker)
	}
}
