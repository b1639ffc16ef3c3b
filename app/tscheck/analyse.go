// Copyright 2024, Chef.  All rights reserved.
// https://github.com/q191201771/tscheck
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/q191201771/naza/pkg/nazalog"
	"github.com/q191201771/tscheck/pkg/ebp"
	"github.com/q191201771/tscheck/pkg/scte35"
	"github.com/q191201771/tscheck/pkg/tsanalyze"
)

type FileResult struct {
	Filename   string
	Stat       tsanalyze.Stat
	Scte35Pids []uint16

	// splice_insert的event id，按出现顺序
	SpliceEventIds []uint32
}

func (r *FileResult) Summary() string {
	var types []int
	for t := range r.Stat.SpliceCommandCount {
		types = append(types, int(t))
	}
	sort.Ints(types)
	var cmds []string
	for _, t := range types {
		cmds = append(cmds, fmt.Sprintf("0x%02x:%d", t, r.Stat.SpliceCommandCount[uint8(t)]))
	}

	return fmt.Sprintf("%s: packets=%d, scte35 pids=%v, sections=%d, commands=[%s], event ids=%v, ebp markers=%d, ebp descriptors=%d, grouping violations=%d, errors=%d",
		r.Filename, r.Stat.PacketCount, r.Scte35Pids, r.Stat.SpliceInfoSectionCount, strings.Join(cmds, " "), r.SpliceEventIds,
		r.Stat.EbpMarkerCount, r.Stat.EbpDescriptorCount, r.Stat.GroupingViolationCount, r.Stat.ErrorCount)
}

// fileObserver 每个文件一个，只在该文件的analyzer协程中使用
type fileObserver struct {
	filename     string
	dumpSections bool
	result       *FileResult
}

func (o *fileObserver) OnSpliceInfoSection(pid uint16, sis *scte35.SpliceInfoSection) {
	if sis.IsSpliceInsert() {
		o.result.SpliceEventIds = append(o.result.SpliceEventIds, sis.SpliceInsertEventId())
	}
	if !o.dumpSections {
		return
	}
	nazalog.Infof("[%s][%d] splice info section. type=0x%02x, pts_adjustment=%d, latest_pts=%d, command=%+v, descriptors=%d",
		o.filename, pid, sis.SpliceCommandType, sis.PtsAdjustment, sis.LatestPts(), sis.SpliceCommand, len(sis.SpliceDescriptors))
}

func (o *fileObserver) OnEbpMarker(pid uint16, marker ebp.Marker, violations ebp.Violations) {
	if marker.TimeFlag {
		seconds, fraction := ebp.ParseNtpTimestamp(marker.AcquisitionTime)
		nazalog.Debugf("[%s][%d] ebp marker. %+v, acquisition time=%d+%.6f", o.filename, pid, marker, seconds, fraction)
	} else {
		nazalog.Debugf("[%s][%d] ebp marker. %+v", o.filename, pid, marker)
	}
	for _, v := range violations {
		nazalog.Warnf("[%s][%d] %s", o.filename, pid, v.Error())
	}
}

func (o *fileObserver) OnEbpDescriptor(pid uint16, d ebp.Descriptor) {
	nazalog.Infof("[%s][%d] ebp descriptor. partitions=%d, fragment boundary=%t, segment boundary=%t, fragment sap max=%d, segment sap max=%d",
		o.filename, pid, d.NumPartitions, d.DoesFragmentMarkBoundary(), d.DoesSegmentMarkBoundary(), d.FragmentSapTypeMax(), d.SegmentSapTypeMax())
}

func (o *fileObserver) OnError(pid uint16, err error) {
	nazalog.Warnf("[%s][%d] %+v", o.filename, pid, err)
}

func analyseFile(ctx context.Context, filename string, config *Config) (*FileResult, error) {
	fp, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer fp.Close()

	result := &FileResult{Filename: filename}
	observer := &fileObserver{
		filename:     filename,
		dumpSections: config.DumpSections,
		result:       result,
	}
	a := tsanalyze.NewAnalyzer(observer, func(option *tsanalyze.AnalyzerOption) {
		option.ValidateGrouping = config.ValidateGrouping
	})
	if err = a.Run(ctx, bufio.NewReader(fp)); err != nil {
		return nil, err
	}

	result.Stat = a.Stat()
	result.Scte35Pids = a.Scte35Pids()
	return result, nil
}
