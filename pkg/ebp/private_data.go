// Copyright 2024, Chef.  All rights reserved.
// https://github.com/q191201771/tscheck
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package ebp

import (
	"github.com/q191201771/naza/pkg/bele"
	"github.com/q191201771/tscheck/pkg/base"
)

// PrivateData adaptation field中transport_private_data的一项
//
// ----------------------------------------------------------
// <SCTE 128-1> <Table 4 Transport private data>
// tag                      [8b] *
// length                   [8b] *
// -----if tag == 0xDF && length >= 4-----
// format_identifier        [32b] ****
// private data             [(length-4)*8 b]
// ----------------------------------------------------------
type PrivateData struct {
	Tag    uint8
	Length uint8

	// tag为0xDF并且长度足够时才有效
	FormatIdentifier uint32

	// 不包含format_identifier
	Data []byte
}

func (pd *PrivateData) IsEbp() bool {
	return pd.Tag == PrivateDataTagScte128 && pd.FormatIdentifier == FormatIdentifierEbp
}

// ParsePrivateData 拆分transport_private_data中的所有项
//
// 某项的长度超出缓冲时返回 base.ErrEbpMalformedPrivate ，此前已拆分的项依然返回
func ParsePrivateData(b []byte) (items []PrivateData, err error) {
	for len(b) > 0 {
		if len(b) < 2 {
			return items, base.NewErrEbpMalformedPrivate(2, len(b))
		}
		item := PrivateData{
			Tag:    b[0],
			Length: b[1],
		}
		length := int(b[1])
		if len(b)-2 < length {
			return items, base.NewErrEbpMalformedPrivate(length, len(b)-2)
		}
		data := b[2 : 2+length]
		if item.Tag == PrivateDataTagScte128 && length >= formatIdentifierLength {
			item.FormatIdentifier = bele.BeUint32(data)
			data = data[formatIdentifierLength:]
		}
		item.Data = data
		items = append(items, item)
		b = b[2+length:]
	}
	return items, nil
}

// ParseMarkersFromPrivateData 拆分transport_private_data并解析其中所有EBP
//
// 某个EBP解析失败不影响其他项，返回遇到的第一个错误
func ParseMarkersFromPrivateData(b []byte) (markers []Marker, err error) {
	items, err := ParsePrivateData(b)
	for i := range items {
		if !items[i].IsEbp() {
			continue
		}
		m, merr := ParseMarker(items[i].Data)
		if merr != nil {
			Log.Debugf("parse ebp marker failed. err=%+v", merr)
			if err == nil {
				err = merr
			}
			continue
		}
		markers = append(markers, m)
	}
	return markers, err
}

// PackPrivateData 将EBP打包成一项SCTE-128 transport private data
func PackPrivateData(m *Marker) []byte {
	payload := m.Pack()
	out := make([]byte, 2+formatIdentifierLength+len(payload))
	out[0] = PrivateDataTagScte128
	out[1] = uint8(formatIdentifierLength + len(payload))
	bele.BePutUint32(out[2:], FormatIdentifierEbp)
	copy(out[2+formatIdentifierLength:], payload)
	return out
}
