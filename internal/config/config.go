// internal/config/config.go
package config

import (
	"os"
	"strconv"
	"time"
)

// Settings holds every tunable for the game server. Values are read from the
// environment once at startup; unset or malformed variables fall back to the
// defaults below.
type Settings struct {
	// Addr is the HTTP listen address, e.g. ":3003".
	Addr string

	// DrawSeconds is the length of the drawing phase for each turn.
	DrawSeconds int

	// Rounds is the number of full passes through the roster before the game ends.
	Rounds int

	// WordChoices is how many candidate words the drawer picks from.
	WordChoices int

	// DrawerBonus is the flat score awarded to the drawer per correct guess.
	DrawerBonus int

	// RoomCodeLength is the length of generated room codes.
	RoomCodeLength int

	// GracePeriod is how long a disconnected player's seat is held before removal.
	GracePeriod time.Duration

	// Intermission is the pause between a turn's word reveal and the next turn.
	Intermission time.Duration

	// TickInterval is the countdown resolution. One second in production;
	// tests shrink it to keep timer-driven paths fast.
	TickInterval time.Duration

	// WordBankPath optionally points at a newline-separated word list file.
	// When empty the built-in vocabulary is used.
	WordBankPath string
}

// Load reads Settings from the environment.
func Load() Settings {
	return Settings{
		Addr:           ":" + envString("PORT", "3003"),
		DrawSeconds:    envInt("DRAW_TIME", 90),
		Rounds:         envInt("ROUNDS", 3),
		WordChoices:    envInt("WORD_CHOICES", 3),
		DrawerBonus:    envInt("DRAWER_BONUS", 20),
		RoomCodeLength: envInt("ROOM_CODE_LENGTH", 5),
		GracePeriod:    envDuration("GRACE_PERIOD", 30*time.Second),
		Intermission:   envDuration("INTERMISSION", 5*time.Second),
		TickInterval:   time.Second,
		WordBankPath:   os.Getenv("WORD_BANK_PATH"),
	}
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
