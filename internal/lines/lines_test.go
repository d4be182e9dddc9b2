package lines

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func setUser(t *testing.T, name string) {
	t.Helper()
	SetUser(name)
	t.Cleanup(func() { SetUser(DefaultUser) })
}

func TestDefaultUser(t *testing.T) {
	assert.Equal(t, DefaultUser, User())
	assert.Equal(t, "Powering down FRIDAY interface. Ping me when you need me, Boss.", Farewell())
}

func TestSetUser_AddressesEveryLine(t *testing.T) {
	setUser(t, "Tony")
	now := time.Date(2024, time.August, 15, 9, 5, 0, 0, time.UTC)

	for _, line := range []string{
		Farewell(),
		StatusFault(),
		NothingToSay(),
		Unintelligible(),
		BrowserUnavailable(),
		VolumeUnavailable(),
		ShuttingDown(),
		WeatherUnavailable(),
		NoHeadlines(),
		HeadlinesUnavailable(),
		LocalHeadlineUnavailable(),
		NationalHeadlineUnavailable(),
		OfflineGreeting(),
		TimeCheck(now),
		StatusGreeting("morning", now),
	} {
		assert.Contains(t, line, "Tony")
		assert.NotContains(t, line, "Boss")
		assert.NotContains(t, line, "%!")
	}

	assert.Equal(t, "Local time check: Thursday, 09:05 AM. Right on schedule, Tony.", TimeCheck(now))
	assert.Equal(t, "Good morning, Tony. The time is 09:05 hours on Thursday, 15 August 2024.",
		StatusGreeting("morning", now))
}

func TestSetUser_BlankKeepsName(t *testing.T) {
	setUser(t, "Tony")
	SetUser("   ")
	assert.Equal(t, "Tony", User())
}

func TestThinking(t *testing.T) {
	setUser(t, "Tony")
	for range 50 {
		line := Thinking()
		assert.NotEmpty(t, line)
		assert.False(t, strings.Contains(line, "%"), line)
		assert.NotContains(t, line, "Boss")
	}
}
