package game

import (
	"voidreach_combat/internal/data"
	"voidreach_combat/internal/model"
)

// RecipientResolver :
// Implements the visibility and recipient computation (C7). Holds
// the two proxies it needs to expand sector and corp membership
// into character ids.
type RecipientResolver struct {
	Ships data.ShipProxy
	Corps data.CorpProxy
}

// ComputeRecipients :
// Combines the four recipient sources into one deduplicated,
// ordered set, then removes any character present in `exclude`.
// Dedup keeps the first reason seen, in the order direct →
// sector_snapshot → corp_member → garrison sources.
//
// The `sectorID`, when non-empty, pulls in every character whose
// ship is present there and not in hyperspace.
//
// The `corpIDs` pulls in every active member of each listed
// corporation.
//
// The `direct` names characters to include unconditionally.
//
// The `garrisons` supplies the garrisons whose owner (and owner's
// corp) should be included; pass `nil` when not applicable.
//
// The `exclude` names characters to drop from the final set
// regardless of how they were added.
//
// Returns the resulting empty-or-populated recipient list. An
// empty result is valid and expected.
func (r RecipientResolver) ComputeRecipients(
	sectorID string,
	corpIDs []string,
	direct []string,
	garrisons []model.GarrisonRow,
	exclude []string,
) ([]model.Recipient, error) {
	set := model.NewVisibilitySet()

	for _, id := range direct {
		set.Add(id, model.VisibilityDirect)
	}

	if sectorID != "" {
		ships, err := r.Ships.FetchInSector(sectorID)
		if err != nil {
			return nil, err
		}
		for _, s := range ships {
			if s.InHyperspace || s.OwnerCharacterID == "" {
				continue
			}
			set.Add(s.OwnerCharacterID, model.VisibilitySectorSnapshot)
		}
	}

	for _, corpID := range corpIDs {
		members, err := r.Corps.ActiveMembers(corpID)
		if err != nil {
			return nil, err
		}
		for _, m := range members {
			set.Add(m, model.VisibilityCorpMember)
		}
	}

	for _, g := range garrisons {
		set.Add(g.OwnerCharacterID, model.VisibilityGarrisonOwner)

		if g.OwnerCorporationID == "" {
			continue
		}
		members, err := r.Corps.ActiveMembers(g.OwnerCorporationID)
		if err != nil {
			return nil, err
		}
		for _, m := range members {
			set.Add(m, model.VisibilityGarrisonCorpMember)
		}
	}

	for _, id := range exclude {
		set.Remove(id)
	}

	return set.Recipients(), nil
}
