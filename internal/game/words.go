// internal/game/words.go
package game

import (
	"math/rand"
	"os"
	"strings"
	"sync"
	"time"
)

// defaultWords is the built-in vocabulary, used when no word bank file is
// configured.
var defaultWords = []string{
	"Dinosaur", "Volcano", "Jungle", "Meteor", "Fossil", "T-Rex",
	"Laptop", "Keyboard", "Mountain", "Star", "River", "Castle",
	"Bicycle", "Telescope", "Guitar", "Sunflower", "Ocean", "Pirate",
	"Robot", "Dragon", "Wizard", "Spaceship", "Alien", "Moon",
}

// WordBank produces candidate words for the drawer to choose from.
type WordBank struct {
	mu    sync.Mutex // guards rng; rooms draw words concurrently
	words []string
	rng   *rand.Rand
}

// NewWordBank loads the vocabulary from path, a newline-separated word list.
// An empty path or an unreadable/empty file falls back to the built-in list.
func NewWordBank(path string) *WordBank {
	wb := &WordBank{
		words: defaultWords,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	if path == "" {
		return wb
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return wb
	}
	var words []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			words = append(words, line)
		}
	}
	if len(words) > 0 {
		wb.words = words
	}
	return wb
}

// Choices returns n distinct words drawn without replacement. If the
// vocabulary holds fewer than n words, all of them are returned.
func (wb *WordBank) Choices(n int) []string {
	shuffled := make([]string, len(wb.words))
	copy(shuffled, wb.words)
	wb.mu.Lock()
	wb.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	wb.mu.Unlock()
	if n > len(shuffled) {
		n = len(shuffled)
	}
	return shuffled[:n]
}
