// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package ledger

import "time"

// Clock supplies the ledger time used for order timestamps and expiry
// checks.
type Clock interface {
	// Now returns the current ledger time as a Unix timestamp in seconds.
	Now() int64
}

// SystemClock is a Clock backed by the wall clock.
type SystemClock struct{}

// Now returns the current wall-clock time.
func (SystemClock) Now() int64 {
	return time.Now().Unix()
}

// FixedClock is a Clock pinned to a settable instant, for tests.
type FixedClock struct {
	// Time is the instant reported by Now.
	Time int64
}

// Now returns the pinned instant.
func (c *FixedClock) Now() int64 {
	return c.Time
}
