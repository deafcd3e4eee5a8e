package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestVisibilitySet_DedupKeepsFirstReason(t *testing.T) {
	set := NewVisibilitySet()

	set.Add("char-1", VisibilitySectorSnapshot)
	set.Add("char-1", VisibilityCorpMember)

	recipients := set.Recipients()
	assert.Len(t, recipients, 1)
	assert.Equal(t, VisibilitySectorSnapshot, recipients[0].Reason)
}

func TestVisibilitySet_PreservesInsertionOrder(t *testing.T) {
	set := NewVisibilitySet()

	set.Add("char-3", VisibilityDirect)
	set.Add("char-1", VisibilitySectorSnapshot)
	set.Add("char-2", VisibilityCorpMember)

	var ids []string
	for _, r := range set.Recipients() {
		ids = append(ids, r.CharacterID)
	}

	assert.Equal(t, []string{"char-3", "char-1", "char-2"}, ids)
}

func TestVisibilitySet_IgnoresEmptyID(t *testing.T) {
	set := NewVisibilitySet()

	set.Add("", VisibilityDirect)

	assert.Empty(t, set.Recipients())
}

func TestVisibilitySet_RemoveDropsRecipientButKeepsOrder(t *testing.T) {
	set := NewVisibilitySet()

	set.Add("char-1", VisibilityDirect)
	set.Add("char-2", VisibilitySectorSnapshot)
	set.Add("char-3", VisibilityCorpMember)

	set.Remove("char-2")

	var ids []string
	for _, r := range set.Recipients() {
		ids = append(ids, r.CharacterID)
	}
	assert.Equal(t, []string{"char-1", "char-3"}, ids)
}

func TestVisibilitySet_RemoveThenReAddIsAllowed(t *testing.T) {
	set := NewVisibilitySet()

	set.Add("char-1", VisibilityDirect)
	set.Remove("char-1")
	set.Add("char-1", VisibilityCorpMember)

	recipients := set.Recipients()
	assert.Len(t, recipients, 1)
	assert.Equal(t, VisibilityCorpMember, recipients[0].Reason)
}

func TestSalvage_Expired(t *testing.T) {
	now := time.Now()

	fresh := Salvage{ExpiresAt: now.Add(time.Hour)}
	stale := Salvage{ExpiresAt: now.Add(-time.Hour)}

	assert.False(t, fresh.Expired(now))
	assert.True(t, stale.Expired(now))
}
