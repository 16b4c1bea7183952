package logsvc

import (
	"bytes"
	"errors"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/studio/core"
)

func TestRollbarLogger(t *testing.T) {
	var buff bytes.Buffer
	logger := NewRollbarLogger(log.New(&buff, "", 0), &core.Config{Env: "TEST", TestMode: true})

	logger.Error("saving failed", errors.New("boom"), map[string]interface{}{"locator": "vertical+block@1"}, core.Person{ID: "1", Username: "staff"})
	out := buff.String()
	assert.Contains(t, out, "[ERROR] saving failed")
	assert.Contains(t, out, "boom")
	assert.Contains(t, out, "vertical+block@1")
	// the person is reported to rollbar only
	assert.NotContains(t, out, "staff")
}

func TestRollbarLogger_prepare(t *testing.T) {
	logger := RollbarLogger{}
	args := logger.prepare("msg", []interface{}{core.Person{ID: "1"}, "extra", core.Person{ID: "2"}})
	assert.Equal(t, []interface{}{"msg", "extra"}, args)
}

func TestRollbarLogger_levels(t *testing.T) {
	var buff bytes.Buffer
	logger := NewRollbarLogger(log.New(&buff, "", 0), &core.Config{Env: "TEST", TestMode: true})

	tests := []struct {
		log  func(string, ...interface{})
		want string
	}{
		{log: logger.Debug, want: "[DEBUG] msg"},
		{log: logger.Info, want: "[INFO] msg"},
		{log: logger.Warn, want: "[WARN] msg"},
		{log: logger.Error, want: "[ERROR] msg"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			buff.Reset()
			tt.log("msg")
			assert.Equal(t, tt.want+"\n", buff.String())
		})
	}
}
