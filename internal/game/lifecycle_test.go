package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeedFromID_StripsHyphensAndTakesLeading12HexDigits(t *testing.T) {
	seed := seedFromID("abcdef01-2345-6789-0000-000000000000")

	assert.Equal(t, uint64(0xabcdef012345), seed)
}

func TestSeedFromID_DeterministicForSameID(t *testing.T) {
	id := "11111111-2222-3333-4444-555555555555"

	assert.Equal(t, seedFromID(id), seedFromID(id))
}

func TestSeedFromID_DiffersAcrossIDs(t *testing.T) {
	a := seedFromID("11111111-2222-3333-4444-555555555555")
	b := seedFromID("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee")

	assert.NotEqual(t, a, b)
}
