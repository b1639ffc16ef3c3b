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
	"strings"
	"testing"

	"github.com/q191201771/naza/pkg/assert"
)

func TestValidateGrouping(t *testing.T) {
	assert.Equal(t, 0, len(ValidateGrouping(nil)))
	assert.Equal(t, 0, len(ValidateGrouping([]uint8{})))

	vs := ValidateGrouping([]uint8{5, 5})
	assert.Equal(t, Violations{{Kind: ViolationDuplicateGroupId, GroupId: 5, Index: 1}}, vs)

	vs = ValidateGrouping([]uint8{126})
	assert.Equal(t, Violations{{Kind: ViolationOrphanGroupStart, GroupId: 126, Index: 0}}, vs)

	assert.Equal(t, 0, len(ValidateGrouping([]uint8{5, 126, 127})))

	vs = ValidateGrouping([]uint8{126, 127, 127})
	assert.Equal(t, Violations{
		{Kind: ViolationOrphanGroupStart, GroupId: 126, Index: 0},
		{Kind: ViolationOrphanGroupEnd, GroupId: 127, Index: 2},
	}, vs)

	vs = ValidateGrouping([]uint8{5, 126, 126})
	assert.Equal(t, Violations{{Kind: ViolationOrphanGroupStart, GroupId: 126, Index: 2}}, vs)
}

func TestValidateGroupingOrphanEnd(t *testing.T) {
	vs := ValidateGrouping([]uint8{127})
	assert.Equal(t, Violations{{Kind: ViolationOrphanGroupEnd, GroupId: 127, Index: 0}}, vs)

	// 126后的127是空分组
	assert.Equal(t, 0, len(ValidateGrouping([]uint8{3, 126, 127})))
	assert.Equal(t, 0, len(ValidateGrouping([]uint8{3, 127})))

	vs = ValidateGrouping([]uint8{3, 127, 126})
	assert.Equal(t, Violations{{Kind: ViolationOrphanGroupStart, GroupId: 126, Index: 2}}, vs)
}

func TestValidateGroupingDuplicatePairs(t *testing.T) {
	// 三个相同的值构成三对
	vs := ValidateGrouping([]uint8{7, 7, 7})
	assert.Equal(t, 3, len(vs))
	for _, v := range vs {
		assert.Equal(t, ViolationDuplicateGroupId, v.Kind)
		assert.Equal(t, uint8(7), v.GroupId)
	}

	vs = ValidateGrouping([]uint8{1, 2, 1})
	assert.Equal(t, Violations{{Kind: ViolationDuplicateGroupId, GroupId: 1, Index: 2}}, vs)
}

func TestValidateGroupingNotMutate(t *testing.T) {
	ids := []uint8{126, 5, 5, 127}
	_ = ValidateGrouping(ids)
	assert.Equal(t, []uint8{126, 5, 5, 127}, ids)
}

func TestViolationsErr(t *testing.T) {
	assert.Equal(t, nil, Violations(nil).Err())
	assert.Equal(t, nil, Violations{}.Err())

	vs := ValidateGrouping([]uint8{126, 4, 4})
	assert.Equal(t, Violations{
		{Kind: ViolationDuplicateGroupId, GroupId: 4, Index: 2},
		{Kind: ViolationOrphanGroupStart, GroupId: 126, Index: 0},
	}, vs)

	err := vs.Err()
	assert.IsNotNil(t, err)

	// 所有问题都要能从合并后的error中取出来
	joined, ok := err.(interface{ Unwrap() []error })
	assert.Equal(t, true, ok)
	errs := joined.Unwrap()
	assert.Equal(t, len(vs), len(errs))
	for i := range errs {
		var v Violation
		assert.Equal(t, true, errors.As(errs[i], &v))
		assert.Equal(t, vs[i], v)
	}

	var first Violation
	assert.Equal(t, true, errors.As(err, &first))
	assert.Equal(t, ViolationDuplicateGroupId, first.Kind)
	assert.Equal(t, true, strings.Contains(err.Error(), "kind=OrphanGroupStart"))

	assert.Equal(t, "OrphanGroupStart", ViolationOrphanGroupStart.String())
	assert.Equal(t, "DuplicateGroupId", ViolationDuplicateGroupId.String())
}
