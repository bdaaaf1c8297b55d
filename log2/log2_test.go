package log2

import (
	"bytes"
	"fmt"
	"log"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func formatCallerShort(skipFrames int) string {
	_, file, line, ok := runtime.Caller(skipFrames + 1)
	if !ok {
		return "?:0: "
	}
	parts := strings.Split(file, "/")
	// the log call sits one line above the return that builds the expectation
	return fmt.Sprintf("%s:%d: ", parts[len(parts)-1], line-1)
}

func TestLevels(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		fun  func(l *Log) string
	}{
		{"caller/debug", func(l *Log) string {
			l.SetFlags(log.Lshortfile)
			l.Debugf("low level var=%d", 42)
			return formatCallerShort(1) + "debug: low level var=42\n"
		}},
		{"caller/warning", func(l *Log) string {
			l.SetFlags(log.Lshortfile)
			l.Warningf("temp=%0.1f", 31.5)
			return formatCallerShort(1) + "warning: temp=31.5\n"
		}},
		{"caller/info", func(l *Log) string {
			l.SetFlags(log.Lshortfile)
			l.Infof("regular state=%s", "ok")
			return formatCallerShort(1) + "regular state=ok\n"
		}},
		{"caller/error", func(l *Log) string {
			l.SetFlags(log.Lshortfile)
			l.Errorf("problem")
			return formatCallerShort(1) + "error: problem\n"
		}},
		{"filtered/debug", func(l *Log) string {
			l.SetLevel(LInfo)
			l.Debugf("should not appear")
			return ""
		}},
		{"filtered/warning", func(l *Log) string {
			l.SetLevel(LError)
			l.Warningf("should not appear")
			return ""
		}},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			buf := bytes.NewBuffer(nil)
			l := NewWriter(buf, LDebug)
			require.NotNil(t, l)
			expect := c.fun(l)
			assert.Equal(t, expect, buf.String())
		})
	}
}

func TestNilSafe(t *testing.T) {
	t.Parallel()

	var l *Log
	l.SetLevel(LDebug)
	l.SetFlags(0)
	l.SetPrefix("x")
	l.Infof("to nowhere")
	assert.False(t, l.Enabled(LError))
	assert.Nil(t, l.Clone(LDebug))
}

func TestClone(t *testing.T) {
	t.Parallel()

	buf := bytes.NewBuffer(nil)
	l := NewWriter(buf, LError)
	l.SetFlags(0)
	l2 := l.Clone(LDebug)
	l2.Debugf("visible")
	l.Debugf("invisible")
	assert.Equal(t, "debug: visible\n", buf.String())
}
