package game

import (
	"finops-arcade/internal/model"
	"finops-arcade/internal/random"
)

// Deal returns a freshly shuffled copy of the flipcard deck.
func Deal(cards []model.Flipcard, src random.Source) []model.Flipcard {
	return random.Shuffled(src, cards)
}
