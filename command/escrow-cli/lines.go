// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"strconv"
	"strings"

	po "github.com/bitmark-inc/escrowd/purchaseorder"
)

// order lines are NAME:AMOUNT, the name is taken up to the last colon
func parseOrderLines(args []string) ([]po.LineRequest, error) {
	lines := make([]po.LineRequest, 0, len(args))
	for _, arg := range args {
		i := strings.LastIndex(arg, ":")
		if i <= 0 {
			return nil, ErrInvalidLine
		}
		amount, err := strconv.ParseUint(arg[i+1:], 10, 64)
		if nil != err {
			return nil, ErrInvalidLine
		}
		lines = append(lines, po.LineRequest{
			Name:   arg[:i],
			Amount: amount,
		})
	}
	return lines, nil
}

// delivery lines are NAME:BATCH:AMOUNT, batches of the same name are
// collected into one line in order of first appearance
func parseUpdateLines(args []string) ([]po.LineUpdate, error) {
	lines := make([]po.LineUpdate, 0, len(args))
	index := make(map[string]int)

	for _, arg := range args {
		i := strings.LastIndex(arg, ":")
		if i <= 0 {
			return nil, ErrInvalidDeliveryLine
		}
		amount, err := strconv.ParseUint(arg[i+1:], 10, 64)
		if nil != err {
			return nil, ErrInvalidDeliveryLine
		}
		j := strings.LastIndex(arg[:i], ":")
		if j <= 0 {
			return nil, ErrInvalidDeliveryLine
		}
		batch, err := strconv.ParseUint(arg[j+1:i], 10, 64)
		if nil != err {
			return nil, ErrInvalidDeliveryLine
		}

		name := arg[:j]
		b := po.BatchAmount{
			Batch:  batch,
			Amount: amount,
		}
		if n, ok := index[name]; ok {
			lines[n].Batches = append(lines[n].Batches, b)
			continue
		}
		index[name] = len(lines)
		lines = append(lines, po.LineUpdate{
			Name:    name,
			Batches: []po.BatchAmount{b},
		})
	}
	return lines, nil
}
