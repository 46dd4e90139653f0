package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMembershipEventText(t *testing.T) {
	data, err := json.Marshal(RebuildEvent{Reason: MembershipPartialMismatch})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Reason":"partial_mismatch"`)

	var ev RebuildEvent
	require.NoError(t, json.Unmarshal(data, &ev))
	assert.Equal(t, MembershipPartialMismatch, ev.Reason)

	var m MembershipEvent
	assert.Error(t, m.UnmarshalText([]byte("rebooted")))
	assert.Equal(t, "unknown", MembershipEvent(42).String())
}
