// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package asset

import (
	"math"

	"github.com/bitmark-inc/escrowd/fault"
)

// AddAmounts - a + b, or AmountOverflow if the result does not fit
func AddAmounts(a uint64, b uint64) (uint64, error) {
	if a > math.MaxUint64-b {
		return 0, fault.AmountOverflow
	}
	return a + b, nil
}

// MultiplyAmounts - a * b, or AmountOverflow if the result does not fit
func MultiplyAmounts(a uint64, b uint64) (uint64, error) {
	if 0 != a && b > math.MaxUint64/a {
		return 0, fault.AmountOverflow
	}
	return a * b, nil
}
