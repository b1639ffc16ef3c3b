// Copyright 2024, Chef.  All rights reserved.
// https://github.com/q191201771/tscheck
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package scte35

func (sis *SpliceInfoSection) IsSpliceInsert() bool {
	return sis.SpliceCommandType == SpliceCommandTypeInsert
}

func (sis *SpliceInfoSection) IsTimeSignal() bool {
	return sis.SpliceCommandType == SpliceCommandTypeTimeSignal
}

// SpliceInsert 命令不是splice_insert时返回nil
func (sis *SpliceInfoSection) SpliceInsert() *SpliceInsert {
	cmd, _ := sis.SpliceCommand.(*SpliceInsert)
	return cmd
}

// TimeSignal 命令不是time_signal时返回nil
func (sis *SpliceInfoSection) TimeSignal() *TimeSignal {
	cmd, _ := sis.SpliceCommand.(*TimeSignal)
	return cmd
}

// SpliceInsertEventId 命令不是splice_insert时返回0
func (sis *SpliceInfoSection) SpliceInsertEventId() uint32 {
	if cmd := sis.SpliceInsert(); cmd != nil {
		return cmd.SpliceEventId
	}
	return 0
}

// SpliceInsertPts program级别的splice_time加上pts_adjustment
//
// 命令不是splice_insert，或者没有指定splice_time时返回0
func (sis *SpliceInfoSection) SpliceInsertPts() uint64 {
	cmd := sis.SpliceInsert()
	if cmd == nil || !cmd.SpliceTime.TimeSpecified() {
		return 0
	}
	return *cmd.SpliceTime.PtsTime + sis.PtsAdjustment
}

// LatestPts 只对splice_insert有意义，其他命令返回0
//
// program_splice_flag为1时同 SpliceInsertPts ，
// 否则取所有指定了splice_time的component中最大的pts_time加pts_adjustment，都没有时返回0
//
// 结果不做33位回绕
func (sis *SpliceInfoSection) LatestPts() uint64 {
	cmd := sis.SpliceInsert()
	if cmd == nil {
		return 0
	}
	if cmd.ProgramSpliceFlag {
		return sis.SpliceInsertPts()
	}

	var latest uint64
	for _, c := range cmd.Components {
		if !c.SpliceTime.TimeSpecified() {
			continue
		}
		if pts := *c.SpliceTime.PtsTime + sis.PtsAdjustment; pts > latest {
			latest = pts
		}
	}
	return latest
}
