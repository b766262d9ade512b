// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package log

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestFromZapWithFields(t *testing.T) {
	require := require.New(t)

	core, logs := observer.New(zap.DebugLevel)
	logger := FromZap(zap.New(core)).With(String("component", "deal"))

	logger.Info("transition dispatched", Int64("deal_id", 17), String("status", "CANCELED"))
	logger.Debug("refetch")

	entries := logs.All()
	require.Len(entries, 2)
	require.Equal("transition dispatched", entries[0].Message)

	fields := entries[0].ContextMap()
	require.Equal("deal", fields["component"])
	require.Equal(int64(17), fields["deal_id"])
	require.Equal("CANCELED", fields["status"])
}

func TestNoOp(t *testing.T) {
	logger := NoOp()
	logger.With(String("k", "v")).Error("ignored", Error(nil))
	require.NoError(t, logger.Sync())
}
