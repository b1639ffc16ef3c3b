// Copyright 2024, Chef.  All rights reserved.
// https://github.com/q191201771/tscheck
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package ebp

// ParseNtpTimestamp 将64位NTP时间拆成秒和小数秒
//
// 高32位为秒，低32位为秒的小数部分，单位1/2^32秒
func ParseNtpTimestamp(t uint64) (seconds uint32, fraction float64) {
	seconds = uint32(t >> 32)
	fraction = float64(uint32(t)) / (1 << 32)
	return
}
