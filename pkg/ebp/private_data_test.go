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

func TestParsePrivateData(t *testing.T) {
	m := Marker{FragmentFlag: true, SapFlag: true, SapType: 1}
	b := append([]byte{0x01, 0x02, 0xAA, 0xBB}, PackPrivateData(&m)...)
	assert.Equal(t, []byte{0xDF, 0x06, 'E', 'B', 'P', '0', 0xA2, 0x3F}, b[4:])

	items, err := ParsePrivateData(b)
	assert.Equal(t, nil, err)
	assert.Equal(t, 2, len(items))
	assert.Equal(t, uint8(0x01), items[0].Tag)
	assert.Equal(t, []byte{0xAA, 0xBB}, items[0].Data)
	assert.Equal(t, false, items[0].IsEbp())
	assert.Equal(t, true, items[1].IsEbp())
	assert.Equal(t, FormatIdentifierEbp, items[1].FormatIdentifier)

	markers, err := ParseMarkersFromPrivateData(b)
	assert.Equal(t, nil, err)
	assert.Equal(t, []Marker{m}, markers)
}

func TestParsePrivateDataMalformed(t *testing.T) {
	items, err := ParsePrivateData([]byte{0x01, 0x01, 0xAA, 0xDF, 0x09, 'E'})
	assert.Equal(t, true, errors.Is(err, base.ErrEbpMalformedPrivate))
	assert.Equal(t, 1, len(items))

	_, err = ParsePrivateData([]byte{0x01})
	assert.Equal(t, true, errors.Is(err, base.ErrEbpMalformedPrivate))

	// 0xDF但不是EBP0
	items, err = ParsePrivateData([]byte{0xDF, 0x05, 'C', 'U', 'E', 'I', 0x00})
	assert.Equal(t, nil, err)
	assert.Equal(t, false, items[0].IsEbp())
	assert.Equal(t, []byte{0x00}, items[0].Data)
}

func TestParseMarkersFromPrivateDataBadMarker(t *testing.T) {
	good := Marker{SegmentFlag: true}
	b := []byte{0xDF, 0x05, 'E', 'B', 'P', '0', 0x20} // sap_flag置位但截断
	b = append(b, PackPrivateData(&good)...)
	markers, err := ParseMarkersFromPrivateData(b)
	assert.Equal(t, true, errors.Is(err, base.ErrEbpMalformedMarker))
	assert.Equal(t, []Marker{good}, markers)
}
