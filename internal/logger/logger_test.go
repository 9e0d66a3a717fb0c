package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureOutput redirects logger output to a buffer and returns a cleanup
// that restores the previous settings.
func captureOutput() (*bytes.Buffer, func()) {
	buf := new(bytes.Buffer)

	mu.Lock()
	prevOutput, prevColor, prevFormat := output, useColor, format
	prevLevel := level.Level()
	output, useColor = buf, false
	rebuildLocked()
	mu.Unlock()

	return buf, func() {
		mu.Lock()
		output, useColor, format = prevOutput, prevColor, prevFormat
		level.Set(prevLevel)
		rebuildLocked()
		mu.Unlock()
	}
}

func TestLevelFiltering(t *testing.T) {
	emitAll := func() {
		Debug("debug message")
		Info("info message")
		Warn("warn message")
		Error("error message")
	}

	tests := []struct {
		level   string
		visible []string
		hidden  []string
	}{
		{"DEBUG", []string{"debug message", "info message", "warn message", "error message"}, nil},
		{"INFO", []string{"info message", "warn message", "error message"}, []string{"debug message"}},
		{"WARN", []string{"warn message", "error message"}, []string{"debug message", "info message"}},
		{"ERROR", []string{"error message"}, []string{"debug message", "info message", "warn message"}},
	}

	for _, tc := range tests {
		t.Run(tc.level, func(t *testing.T) {
			buf, cleanup := captureOutput()
			defer cleanup()

			SetLevel(tc.level)
			emitAll()

			out := buf.String()
			for _, want := range tc.visible {
				assert.Contains(t, out, want)
			}
			for _, unwanted := range tc.hidden {
				assert.NotContains(t, out, unwanted)
			}
		})
	}
}

func TestSetLevel(t *testing.T) {
	t.Run("ChangesFiltering", func(t *testing.T) {
		buf, cleanup := captureOutput()
		defer cleanup()

		SetLevel("ERROR")
		Info("should not appear")
		buf.Reset()

		SetLevel("INFO")
		Info("should appear")

		assert.Contains(t, buf.String(), "should appear")
		assert.NotContains(t, buf.String(), "should not appear")
	})

	t.Run("CaseInsensitive", func(t *testing.T) {
		buf, cleanup := captureOutput()
		defer cleanup()

		SetLevel("debug")
		Debug("lower")
		SetLevel("DeBuG")
		Debug("mixed")

		assert.Contains(t, buf.String(), "lower")
		assert.Contains(t, buf.String(), "mixed")
	})

	t.Run("UnknownLevelIgnored", func(t *testing.T) {
		buf, cleanup := captureOutput()
		defer cleanup()

		SetLevel("INFO")
		SetLevel("LOUD")

		Debug("debug message")
		Info("info message")

		assert.NotContains(t, buf.String(), "debug message")
		assert.Contains(t, buf.String(), "info message")
	})
}

func TestTextFormat(t *testing.T) {
	t.Run("TimestampAndLevel", func(t *testing.T) {
		buf, cleanup := captureOutput()
		defer cleanup()

		SetLevel("INFO")
		Info("test message")

		out := buf.String()
		assert.Regexp(t, `\[\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\]`, out)
		assert.Contains(t, out, "[INFO]")
	})

	t.Run("StructuredFields", func(t *testing.T) {
		buf, cleanup := captureOutput()
		defer cleanup()

		SetLevel("INFO")
		Info("user logged in", "username", "alice", "user_id", 42)

		out := buf.String()
		assert.Contains(t, out, "user logged in")
		assert.Contains(t, out, "username=alice")
		assert.Contains(t, out, "user_id=42")
	})

	t.Run("EmptyMessage", func(t *testing.T) {
		buf, cleanup := captureOutput()
		defer cleanup()

		SetLevel("INFO")
		Info("")

		assert.Contains(t, buf.String(), "[INFO]")
	})

	t.Run("GroupPrefixesKeys", func(t *testing.T) {
		buf := new(bytes.Buffer)
		l := slog.New(newTextHandler(buf, slog.LevelInfo, false))

		l.WithGroup("db").Info("query done", "rows", 3)

		assert.Contains(t, buf.String(), "db.rows=3")
	})

	t.Run("ColorizesLevel", func(t *testing.T) {
		buf := new(bytes.Buffer)
		l := slog.New(newTextHandler(buf, slog.LevelInfo, true))

		l.Info("colored")

		assert.Contains(t, buf.String(), ansiGreen+"INFO"+ansiReset)
	})
}

func TestJSONFormat(t *testing.T) {
	t.Run("ValidJSON", func(t *testing.T) {
		buf, cleanup := captureOutput()
		defer cleanup()

		SetLevel("INFO")
		SetFormat("json")

		Info("test message", "key1", "value1", "key2", 42)

		var entry map[string]any
		err := json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry)
		require.NoError(t, err, "output should be valid JSON: %s", buf.String())

		assert.Equal(t, "INFO", entry["level"])
		assert.Equal(t, "test message", entry["msg"])
		assert.Equal(t, "value1", entry["key1"])
		assert.Equal(t, float64(42), entry["key2"])
		assert.Contains(t, entry, "time")
	})

	t.Run("SwitchBackToText", func(t *testing.T) {
		buf, cleanup := captureOutput()
		defer cleanup()

		SetLevel("INFO")
		SetFormat("json")
		Info("json line")
		assert.True(t, json.Valid([]byte(strings.TrimSpace(buf.String()))))
		buf.Reset()

		SetFormat("text")
		Info("text line")
		assert.Contains(t, buf.String(), "[INFO]")
	})

	t.Run("UnknownFormatIgnored", func(t *testing.T) {
		buf, cleanup := captureOutput()
		defer cleanup()

		SetLevel("INFO")
		SetFormat("text")
		SetFormat("xml")

		Info("test message")

		assert.Contains(t, buf.String(), "[INFO]")
	})
}

func TestContextLogging(t *testing.T) {
	t.Run("LogContextFieldsInjected", func(t *testing.T) {
		buf, cleanup := captureOutput()
		defer cleanup()

		SetLevel("INFO")
		SetFormat("json")

		lc := &LogContext{
			TraceID:      "abc123",
			SpanID:       "xyz789",
			Endpoint:     "POST /api/v1/sessions/roles",
			Organization: "acme",
			Username:     "alice",
			SessionID:    7,
			ClientIP:     "192.168.1.100",
		}
		ctx := WithContext(context.Background(), lc)

		InfoCtx(ctx, "operation completed", "extra_field", "value")

		var entry map[string]any
		err := json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry)
		require.NoError(t, err)

		assert.Equal(t, "abc123", entry["trace_id"])
		assert.Equal(t, "xyz789", entry["span_id"])
		assert.Equal(t, "POST /api/v1/sessions/roles", entry["endpoint"])
		assert.Equal(t, "acme", entry["organization"])
		assert.Equal(t, "alice", entry["subject"])
		assert.Equal(t, float64(7), entry["session_id"])
		assert.Equal(t, "192.168.1.100", entry["client_ip"])
		assert.Equal(t, "value", entry["extra_field"])
	})

	t.Run("NilContext", func(t *testing.T) {
		buf, cleanup := captureOutput()
		defer cleanup()

		SetLevel("INFO")
		require.NotPanics(t, func() {
			InfoCtx(nil, "test message") //nolint:staticcheck
		})
		assert.Contains(t, buf.String(), "test message")
	})

	t.Run("ContextWithoutLogContext", func(t *testing.T) {
		buf, cleanup := captureOutput()
		defer cleanup()

		SetLevel("INFO")
		InfoCtx(context.Background(), "test message")
		assert.Contains(t, buf.String(), "test message")
	})

	t.Run("FilteredBeforeFieldAssembly", func(t *testing.T) {
		buf, cleanup := captureOutput()
		defer cleanup()

		SetLevel("ERROR")
		DebugCtx(context.Background(), "hidden")
		assert.Empty(t, buf.String())
	})
}

func TestLogContext(t *testing.T) {
	t.Run("NewLogContext", func(t *testing.T) {
		lc := NewLogContext("192.168.1.100")
		assert.Equal(t, "192.168.1.100", lc.ClientIP)
		assert.False(t, lc.StartTime.IsZero())
	})

	t.Run("Clone", func(t *testing.T) {
		lc := &LogContext{
			TraceID:      "trace123",
			Endpoint:     "GET /api/v1/organizations/",
			ClientIP:     "192.168.1.100",
			Organization: "acme",
		}

		clone := lc.Clone()
		assert.Equal(t, lc.TraceID, clone.TraceID)
		assert.Equal(t, lc.Endpoint, clone.Endpoint)

		clone.Endpoint = "GET /api/v1/files/"
		assert.Equal(t, "GET /api/v1/organizations/", lc.Endpoint)
	})

	t.Run("CloneNil", func(t *testing.T) {
		var lc *LogContext
		assert.Nil(t, lc.Clone())
	})

	t.Run("WithEndpoint", func(t *testing.T) {
		lc := NewLogContext("192.168.1.100")
		lc2 := lc.WithEndpoint("GET /api/v1/organizations/")

		assert.Equal(t, "GET /api/v1/organizations/", lc2.Endpoint)
		assert.Equal(t, "", lc.Endpoint)
	})

	t.Run("WithSession", func(t *testing.T) {
		lc := NewLogContext("192.168.1.100")
		lc2 := lc.WithSession("acme", "alice", 3)

		assert.Equal(t, "acme", lc2.Organization)
		assert.Equal(t, "alice", lc2.Username)
		assert.Equal(t, uint64(3), lc2.SessionID)
		assert.Equal(t, "", lc.Organization)
	})

	t.Run("DurationMs", func(t *testing.T) {
		lc := NewLogContext("192.168.1.100")
		assert.GreaterOrEqual(t, lc.DurationMs(), 0.0)
	})
}

func TestFieldHelpers(t *testing.T) {
	t.Run("FileHandle", func(t *testing.T) {
		attr := FileHandle("01020304")
		assert.Equal(t, KeyFileHandle, attr.Key)
		assert.Equal(t, "01020304", attr.Value.String())
	})

	t.Run("ErrNil", func(t *testing.T) {
		attr := Err(nil)
		assert.Equal(t, "", attr.Key)
	})

	t.Run("ErrFormats", func(t *testing.T) {
		attr := Err(assert.AnError)
		assert.Equal(t, KeyError, attr.Key)
		assert.Contains(t, attr.Value.String(), "assert.AnError")
	})
}

func TestConcurrentLogging(t *testing.T) {
	t.Run("ConcurrentLogsDoNotInterleave", func(t *testing.T) {
		buf, cleanup := captureOutput()
		defer cleanup()

		SetLevel("INFO")

		const goroutines = 10
		const perGoroutine = 100

		var wg sync.WaitGroup
		wg.Add(goroutines)
		for i := 0; i < goroutines; i++ {
			go func(id int) {
				defer wg.Done()
				for j := 0; j < perGoroutine; j++ {
					Info("goroutine log", "id", id, "iteration", j)
				}
			}(i)
		}
		wg.Wait()

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		assert.Equal(t, goroutines*perGoroutine, len(lines))
	})

	t.Run("ConcurrentLevelAndFormatChanges", func(t *testing.T) {
		// io.Discard because handler swaps race against a plain buffer.
		InitWithWriter(io.Discard, "DEBUG", "text", false)
		defer func() {
			mu.Lock()
			output = os.Stdout
			rebuildLocked()
			mu.Unlock()
		}()

		const goroutines = 5
		const iterations = 50

		var wg sync.WaitGroup
		wg.Add(goroutines * 2)
		for i := 0; i < goroutines; i++ {
			go func() {
				defer wg.Done()
				for j := 0; j < iterations; j++ {
					if j%2 == 0 {
						SetLevel("DEBUG")
					} else {
						SetLevel("ERROR")
					}
				}
			}()
		}
		for i := 0; i < goroutines; i++ {
			go func(id int) {
				defer wg.Done()
				for j := 0; j < iterations; j++ {
					Debug("debug", "id", id)
					Info("info", "id", id)
					Warn("warn", "id", id)
					Error("error", "id", id)
				}
			}(i)
		}

		require.NotPanics(t, wg.Wait)
	})
}

func TestInit(t *testing.T) {
	t.Run("WithWriter", func(t *testing.T) {
		buf := new(bytes.Buffer)
		InitWithWriter(buf, "DEBUG", "text", false)
		defer func() {
			mu.Lock()
			output = os.Stdout
			rebuildLocked()
			mu.Unlock()
		}()

		Debug("test message")
		assert.Contains(t, buf.String(), "test message")
	})

	t.Run("WithConfig", func(t *testing.T) {
		err := Init(Config{Level: "DEBUG", Format: "text", Output: "stdout"})
		require.NoError(t, err)

		mu.Lock()
		output = os.Stdout
		rebuildLocked()
		mu.Unlock()
	})

	t.Run("EmptyConfigKeepsSettings", func(t *testing.T) {
		require.NoError(t, Init(Config{}))
	})

	t.Run("UnwritableFilePath", func(t *testing.T) {
		err := Init(Config{Output: "/nonexistent-dir/docrep.log"})
		require.Error(t, err)
	})
}

func BenchmarkLogDisabled(b *testing.B) {
	InitWithWriter(io.Discard, "ERROR", "text", false)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Debug("test message", "key", "value")
	}
}

func BenchmarkLogText(b *testing.B) {
	InitWithWriter(io.Discard, "DEBUG", "text", false)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Info("test message", "key", "value", "count", i)
	}
}

func BenchmarkLogJSON(b *testing.B) {
	InitWithWriter(io.Discard, "DEBUG", "json", false)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Info("test message", "key", "value", "count", i)
	}
}
