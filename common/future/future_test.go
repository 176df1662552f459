// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package future

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreate_FulfilledValueIsAwaited(t *testing.T) {
	promise, future := Create[error]()
	promise.Fulfill(nil)
	require.NoError(t, future.Await())
}

func TestCreate_AwaitBlocksUntilFulfillment(t *testing.T) {
	promise, future := Create[int]()
	go promise.Fulfill(42)
	require.Equal(t, 42, future.Await())
}

func TestCreate_ErrorsArriveAsValues(t *testing.T) {
	issue := fmt.Errorf("flush failed")
	promise, future := Create[error]()
	go promise.Fulfill(issue)
	require.ErrorIs(t, future.Await(), issue)
}

func TestImmediate_ValueIsAvailableWithoutProducer(t *testing.T) {
	require.Equal(t, "done", Immediate("done").Await())
}
