package logx

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(os.Stderr); SetLevel(LevelInfo) })

	SetLevel(LevelWarn)
	Infof("hidden %d", 1)
	Warnf("shown %d", 2)

	out := buf.String()
	assert.NotContains(t, out, "hidden 1")
	assert.Contains(t, out, "shown 2")
}

func TestWith_JSON(t *testing.T) {
	var buf bytes.Buffer
	SetJSON(true, &buf)
	t.Cleanup(func() { SetJSON(false, os.Stderr) })

	With("component", "ranking").Info("ranked", "job_id", "j-1")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "ranking", line["component"])
	assert.Equal(t, "j-1", line["job_id"])
	assert.Equal(t, "ranked", line["msg"])
}

func TestFatalfExits(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	code := 0
	exitFn = func(c int) { code = c }
	t.Cleanup(func() { SetOutput(os.Stderr); exitFn = os.Exit })

	Fatalf("boom: %s", "db")

	assert.Equal(t, 1, code)
	assert.Contains(t, buf.String(), "boom: db")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, LevelWarn, ParseLevel("warning"))
	assert.Equal(t, LevelError, ParseLevel("error"))
	assert.Equal(t, LevelInfo, ParseLevel(""))
}
