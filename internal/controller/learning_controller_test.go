package controller

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLessonProgressRequestWantsCompletion(t *testing.T) {
	for _, tc := range []struct {
		name string
		body string
		want bool
	}{
		{"AbsentFieldCompletes", `{"timeSpent": 30}`, true},
		{"EmptyBodyCompletes", `{}`, true},
		{"ExplicitTrue", `{"completed": true}`, true},
		{"ExplicitFalseRecordsTimeOnly", `{"completed": false, "timeSpent": 30}`, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var req LessonProgressRequest
			require.NoError(t, json.Unmarshal([]byte(tc.body), &req))
			assert.Equal(t, tc.want, req.wantsCompletion())
		})
	}
}
