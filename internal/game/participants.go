package game

import (
	"context"

	"voidreach_combat/internal/apperrors"
	"voidreach_combat/internal/data"
	"voidreach_combat/internal/external"
	"voidreach_combat/internal/model"
)

// ParticipantLoader :
// Implements the participant loader (C2): given a sector id,
// produces the combatants eligible to take part in an encounter
// there, keyed by combatant id.
type ParticipantLoader struct {
	Ships      data.ShipProxy
	Garrisons  data.GarrisonProxy
	Characters data.CharacterProxy
	Templates  external.ShipTemplateCatalog
}

// Load :
// Loads every eligible combatant for a sector.
//
// Fails with a `DataIntegrity` error if a ship's template cannot
// be resolved.
func (l ParticipantLoader) Load(ctx context.Context, sectorID string) (map[string]model.Combatant, error) {
	combatants := make(map[string]model.Combatant)

	ships, err := l.Ships.FetchInSector(sectorID)
	if err != nil {
		return nil, err
	}

	for _, ship := range ships {
		if ship.InHyperspace || ship.IsEscapePod {
			continue
		}
		if ship.Fighters == 0 && ship.Shields == 0 {
			// Treat a fighterless, shieldless hull as already
			// destroyed rather than as a valid combatant.
			continue
		}

		if ship.OwnerCharacterID != "" {
			currentShipID, err := l.Characters.CurrentShipID(ship.OwnerCharacterID)
			if err != nil {
				return nil, err
			}
			if currentShipID != ship.ID {
				continue
			}
		}

		template, err := l.Templates.Template(ctx, ship.ShipType)
		if err != nil {
			return nil, apperrors.ErrDataIntegrity("missing ship template", err)
		}

		fighters, shields := ship.Fighters, ship.Shields
		if fighters < 0 {
			fighters = template.MaxFighters
		}
		if shields < 0 {
			shields = template.MaxShields
		}

		playerType := model.PlayerHuman
		corpID := ship.OwnerCorporationID
		if ship.OwnerCorporationID != "" && ship.OwnerCharacterID != "" {
			playerType = model.PlayerCorporationShip
		}

		combatants[ship.OwnerCharacterID] = model.Combatant{
			ID:            ship.OwnerCharacterID,
			Kind:          model.CombatantCharacter,
			DisplayName:   ship.Name,
			Fighters:      fighters,
			Shields:       shields,
			MaxFighters:   template.MaxFighters,
			MaxShields:    template.MaxShields,
			TurnsPerWarp:  template.TurnsPerWarp,
			OwnerID:       ship.OwnerCharacterID,
			ShipID:        ship.ID,
			ShipType:      ship.ShipType,
			CorporationID: corpID,
			PlayerType:    playerType,
			IsEscapePod:   ship.IsEscapePod,
		}
	}

	garrisons, err := l.Garrisons.FetchInSector(sectorID)
	if err != nil {
		return nil, err
	}

	for _, g := range garrisons {
		if g.Fighters <= 0 {
			continue
		}

		id := garrisonCombatantID(sectorID, g.OwnerCharacterID)
		combatants[id] = model.Combatant{
			ID:          id,
			Kind:        model.CombatantGarrison,
			Fighters:    g.Fighters,
			OwnerID:     g.OwnerCharacterID,
			OwnerCorpID: g.OwnerCorporationID,
			Mode:        g.Mode,
			TollAmount:  g.TollAmount,
			TollBalance: g.TollBalance,
		}
	}

	return combatants, nil
}

// garrisonCombatantID :
// Builds a garrison's combatant id in the `garrison:<sector>:<owner>`
// form mandated by the participant loader.
func garrisonCombatantID(sectorID, ownerCharacterID string) string {
	return "garrison:" + sectorID + ":" + ownerCharacterID
}
