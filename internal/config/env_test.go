// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseHelpers(t *testing.T) {
	t.Setenv("REWARDKIT_TEST_STRING", "value")
	t.Setenv("REWARDKIT_TEST_INT", "42")
	t.Setenv("REWARDKIT_TEST_FLOAT", "0.5")
	t.Setenv("REWARDKIT_TEST_DURATION", "1500ms")
	t.Setenv("REWARDKIT_TEST_BOOL", "YES")
	t.Setenv("REWARDKIT_TEST_EMPTY", "")
	t.Setenv("REWARDKIT_TEST_BAD", "x")

	assert.Equal(t, "value", ParseString("REWARDKIT_TEST_STRING", "d"))
	assert.Equal(t, "d", ParseString("REWARDKIT_TEST_EMPTY", "d"))
	assert.Equal(t, "d", ParseString("REWARDKIT_TEST_UNSET", "d"))

	assert.Equal(t, 42, ParseInt("REWARDKIT_TEST_INT", 1))
	assert.Equal(t, 1, ParseInt("REWARDKIT_TEST_BAD", 1))

	assert.Equal(t, 0.5, ParseFloat("REWARDKIT_TEST_FLOAT", 1))
	assert.Equal(t, 1.0, ParseFloat("REWARDKIT_TEST_BAD", 1))

	assert.Equal(t, 1500*time.Millisecond, ParseDuration("REWARDKIT_TEST_DURATION", time.Second))
	assert.Equal(t, time.Second, ParseDuration("REWARDKIT_TEST_EMPTY", time.Second))

	assert.True(t, ParseBool("REWARDKIT_TEST_BOOL", false))
	assert.True(t, ParseBool("REWARDKIT_TEST_BAD", true))
	assert.False(t, ParseBool("REWARDKIT_TEST_UNSET", false))
}
