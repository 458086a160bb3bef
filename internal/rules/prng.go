package rules

import (
	"fmt"

	"github.com/tactics5x5/arena/internal/entity"
)

// drawInt consumes one value from state's PRNG stream, returning it along
// with the state carrying the advanced cursor. Every stochastic branch in
// this package goes through this helper (spec.md §4.2, §9 "Random effects").
func drawInt(s entity.GameState, bound int) (int, entity.GameState) {
	v, next := s.RNGState.NextInt(bound)
	s.RNGState = next
	return v, s
}

// drawTileBuffType draws one of the six tile-eligible buff types with equal
// probability.
func drawTileBuffType(s entity.GameState) (entity.BuffType, entity.GameState) {
	i, next := drawInt(s, len(entity.TileBuffTypes))
	return entity.TileBuffTypes[i], next
}

// nextBuffID derives a buff instance id deterministically from the PRNG
// stream rather than a process-random uuid, so that replaying the same seed
// and action sequence reproduces byte-identical serialized state (spec.md §8).
func nextBuffID(s entity.GameState, ownerUnitID string, t entity.BuffType) (string, entity.GameState) {
	n, next := drawInt(s, 1<<30)
	return fmt.Sprintf("%s_%s_%d", ownerUnitID, t, n), next
}
