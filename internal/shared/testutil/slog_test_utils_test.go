package testutil

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferedSlogHandler(t *testing.T) {
	t.Run("captures log records", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Info("question built", slog.Int("q_id", 3))
		logger.Error("load failed", slog.String("source", "responses.csv"))

		assert.Len(t, handler.GetRecords(), 2)
		assert.True(t, handler.ContainsMessage("question built"))
		assert.True(t, handler.ContainsAttr("source", "responses.csv"))
	})

	t.Run("filters by level", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Debug("debug msg")
		logger.Info("info msg")
		logger.Warn("warn msg")
		logger.Error("error msg")

		assert.Len(t, handler.GetRecordsByLevel(slog.LevelInfo), 1)
		assert.Len(t, handler.GetRecordsByLevel(slog.LevelError), 1)
		assert.Equal(t, 4, handler.Count())
	})

	t.Run("keeps attributes bound with With", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.With(slog.String("component", "analyzer")).Info("derived")

		AssertLogAttr(t, handler, "component", "analyzer")
		assert.Equal(t, 1, handler.Count())
	})

	t.Run("clear", func(t *testing.T) {
		logger, handler := NewTestLogger(t)
		logger.Info("message 1")
		logger.Info("message 2")
		require.Equal(t, 2, handler.Count())

		handler.Clear()
		assert.Equal(t, 0, handler.Count())
	})
}

func TestExamFixtures(t *testing.T) {
	f := NewExamFixtures(t)

	questions, responses := f.StandardSources()
	assert.FileExists(t, questions)
	assert.FileExists(t, responses)

	content, err := os.ReadFile(responses)
	require.NoError(t, err)
	assert.Contains(t, string(content), ",exam,q_number,drawing,redrawing,correct")

	xlsx := f.WriteXLSX("q.xlsx", "Questions", [][]interface{}{{"exam", "q_number"}, {"A", 1}})
	assert.FileExists(t, xlsx)

	src := f.WriteSQLite("exam.db", "responses", []string{"exam TEXT", "q_number INTEGER"},
		[][]interface{}{{"A", 1}})
	assert.Equal(t, "sqlite://"+f.Path("exam.db")+"?table=responses", src)
}
