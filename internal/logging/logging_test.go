package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitJSON(t *testing.T) {
	Init("debug", "json")
	defer Init("info", "")

	var buf bytes.Buffer
	Logger().SetOutput(&buf)

	Log.WithField("post_id", 7).Debug("rendered")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "yatube", entry["service"])
	assert.Equal(t, "rendered", entry["msg"])
	assert.EqualValues(t, 7, entry["post_id"])
}

func TestInitBadLevelFallsBackToInfo(t *testing.T) {
	Init("chatty", "")
	defer Init("info", "")

	assert.Equal(t, logrus.InfoLevel, Logger().GetLevel())
}
