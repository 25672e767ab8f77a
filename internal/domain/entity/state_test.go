package entity

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		state    State[int]
		expected string
	}{
		{name: "idle", state: Idle[int]{}, expected: `{"status":"idle"}`},
		{name: "loading", state: Loading[int]{}, expected: `{"status":"loading"}`},
		{name: "success", state: Success[int]{Data: 3}, expected: `{"data":3,"status":"success"}`},
		{name: "failure", state: Failure[int]{Reason: "Erreur"}, expected: `{"reason":"Erreur","status":"failure"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			raw, err := json.Marshal(tt.state)
			require.NoError(t, err)
			assert.JSONEq(t, tt.expected, string(raw))
		})
	}
}

func TestStateFrom(t *testing.T) {
	t.Parallel()

	ok := StateFrom(4, nil, "unused")
	assert.Equal(t, Success[int]{Data: 4}, ok)

	failed := StateFrom(0, errors.New("db down"), "Erreur de chargement")
	assert.Equal(t, StateFailure, failed.Status())
	assert.Equal(t, Failure[int]{Reason: "Erreur de chargement"}, failed)
}
