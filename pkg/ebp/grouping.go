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
	"fmt"
)

type ViolationKind uint8

const (
	ViolationDuplicateGroupId ViolationKind = iota + 1
	ViolationOrphanGroupStart
	ViolationOrphanGroupEnd
)

func (k ViolationKind) String() string {
	switch k {
	case ViolationDuplicateGroupId:
		return "DuplicateGroupId"
	case ViolationOrphanGroupStart:
		return "OrphanGroupStart"
	case ViolationOrphanGroupEnd:
		return "OrphanGroupEnd"
	}
	return fmt.Sprintf("ViolationKind(%d)", uint8(k))
}

// Violation grouping id序列的语义问题，不影响marker本身的解析结果
type Violation struct {
	Kind ViolationKind

	// 出问题的id值
	GroupId uint8

	// 出问题的位置，重复时为两者中靠后的那个
	Index int
}

func (v Violation) Error() string {
	return fmt.Sprintf("tscheck.ebp: grouping violation. kind=%s, id=%d, index=%d", v.Kind, v.GroupId, v.Index)
}

type Violations []Violation

// Err 把所有问题合并成一个error，没有问题时返回nil
//
// 每个 Violation 都可以通过返回值的 Unwrap() []error 取到，errors.As 取到的是第一个
func (vs Violations) Err() error {
	if len(vs) == 0 {
		return nil
	}
	errs := make([]error, len(vs))
	for i, v := range vs {
		errs[i] = v
	}
	return errors.Join(errs...)
}

// ValidateGrouping
//
// 1. 相同id每出现一对（无序）报告一次 ViolationDuplicateGroupId ，126和127除外
// 2. 126位于首位，或者紧跟在126、127之后，报告 ViolationOrphanGroupStart
// 3. 127位于首位，或者紧跟在127之后，报告 ViolationOrphanGroupEnd
//
// 126后紧跟127表示一个空分组，是合法的
//
// 不修改输入
func ValidateGrouping(ids []uint8) Violations {
	var vs Violations
	for j := range ids {
		if ids[j] == GroupIdStart || ids[j] == GroupIdEnd {
			continue
		}
		for i := 0; i < j; i++ {
			if ids[i] == ids[j] {
				vs = append(vs, Violation{Kind: ViolationDuplicateGroupId, GroupId: ids[j], Index: j})
			}
		}
	}

	for i, id := range ids {
		switch id {
		case GroupIdStart:
			if i == 0 || ids[i-1] == GroupIdStart || ids[i-1] == GroupIdEnd {
				vs = append(vs, Violation{Kind: ViolationOrphanGroupStart, GroupId: id, Index: i})
			}
		case GroupIdEnd:
			if i == 0 || ids[i-1] == GroupIdEnd {
				vs = append(vs, Violation{Kind: ViolationOrphanGroupEnd, GroupId: id, Index: i})
			}
		}
	}
	return vs
}
