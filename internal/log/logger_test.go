package log

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLoggerNumbersEvents(t *testing.T) {
	l := NewMemoryLogger()
	assert.Equal(t, GameEvent{}, l.LastEvent())

	l.Log(NewRunStartEvent("abc"))
	l.Log(NewNodeEnterEvent(0, "Battle"))
	l.Log(NewDamageEvent(1, 0, "Cronie", 3, 2))

	events := l.Events()
	require.Len(t, events, 3)
	for i, e := range events {
		assert.Equal(t, i+1, e.Seq)
	}
	assert.Len(t, l.EventsOfType(EventDamage), 1)
	assert.Equal(t, EventDamage, l.LastEvent().Type)
	assert.Equal(t, 3, l.LastEvent().Amount)
}

func TestTextLoggerWritesLines(t *testing.T) {
	var buf bytes.Buffer
	l := NewTextLogger(&buf)
	l.Log(NewRunStartEvent("abc"))
	l.Log(NewCardPlayedEvent(2, 4, "Slash", "Captain"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "   T0  Title   | === Run abc ===", lines[0])
	assert.Equal(t, "N4 T2  Battle  | Plays Slash → Captain", lines[1])
	assert.Len(t, l.Events(), 2)
}

func TestFormatAll(t *testing.T) {
	text := FormatAll([]GameEvent{NewDefeatEvent(5), NewRestartEvent(5, 25)})
	assert.Equal(t, 2, strings.Count(text, "\n"))
	assert.Contains(t, text, "N5")
}
