package combat

import "voidreach_combat/internal/model"

// ApplyGarrisonAutoActions :
// Runs between "collect submitted actions" and "invoke resolver"
// (C4). For every garrison combatant present in the encounter that
// has no submitted action, synthesizes one according to its
// posture and writes it into `actions`. Submitted actions (a
// garrison can't normally submit one, but defensive callers should
// not clobber a pre-existing entry) are left untouched.
//
// Garrison mitigation always uses shields=0; that is enforced by
// the resolver reading `Combatant.Shields`, which is never set for
// garrisons, not by this function.
//
// The `encounter` supplies participants and the toll registry.
//
// The `actions` is the in-progress effective action map for the
// round being assembled; mutated in place.
func ApplyGarrisonAutoActions(encounter model.Encounter, actions map[string]model.RoundAction) {
	for id, combatant := range encounter.Participants {
		if !combatant.IsGarrison() {
			continue
		}
		if _, ok := actions[id]; ok {
			continue
		}

		switch combatant.Mode {
		case model.GarrisonOffensive:
			actions[id] = offensiveAction(encounter, combatant)
		case model.GarrisonDefensive:
			actions[id] = defensiveAction(encounter, combatant, actions)
		case model.GarrisonToll:
			actions[id] = tollAction(encounter, combatant)
		default:
			actions[id] = model.RoundAction{Tag: model.ActionBrace}
		}
	}
}

// offensiveAction :
// Attacks the enemy character with the greatest live fighter count
// (ties broken by ascending id), or braces if none is present.
func offensiveAction(encounter model.Encounter, garrison model.Combatant) model.RoundAction {
	target := greatestFighterEnemy(encounter, garrison, nil)
	if target == "" {
		return model.RoundAction{Tag: model.ActionBrace}
	}

	return model.RoundAction{Tag: model.ActionAttack, Commit: garrison.Fighters, Target: target}
}

// defensiveAction :
// Attacks only combatants whose submitted action targets this
// garrison or its owner, picking the one with the greatest live
// fighter count; braces otherwise.
func defensiveAction(encounter model.Encounter, garrison model.Combatant, actions map[string]model.RoundAction) model.RoundAction {
	attackers := make(map[string]bool)

	for attackerID, action := range actions {
		if action.Tag != model.ActionAttack {
			continue
		}
		if action.Target == garrison.ID || action.Target == garrison.OwnerID {
			attackers[attackerID] = true
		}
	}

	if len(attackers) == 0 {
		return model.RoundAction{Tag: model.ActionBrace}
	}

	target := greatestFighterEnemy(encounter, garrison, attackers)
	if target == "" {
		return model.RoundAction{Tag: model.ActionBrace}
	}

	return model.RoundAction{Tag: model.ActionAttack, Commit: garrison.Fighters, Target: target}
}

// tollAction :
// Braces unless the owner is marked unpaid in the toll registry
// for the current round, in which case attacks the non-paying
// character with the greatest fighters.
func tollAction(encounter model.Encounter, garrison model.Combatant) model.RoundAction {
	paid, known := encounter.Context.TollRegistry[garrison.OwnerID]
	if !known || paid {
		return model.RoundAction{Tag: model.ActionBrace}
	}

	target := greatestFighterEnemy(encounter, garrison, nil)
	if target == "" {
		return model.RoundAction{Tag: model.ActionBrace}
	}

	return model.RoundAction{Tag: model.ActionAttack, Commit: garrison.Fighters, Target: target}
}

// greatestFighterEnemy :
// Finds the enemy character combatant (not the same owning
// character, not the same corporation as the garrison's owner)
// with the greatest fighter count, breaking ties by ascending id.
// If `restrictTo` is non-nil, only ids present in it are eligible.
//
// Returns the empty string if no eligible enemy exists.
func greatestFighterEnemy(encounter model.Encounter, garrison model.Combatant, restrictTo map[string]bool) string {
	best := ""
	bestFighters := -1

	for id, c := range encounter.Participants {
		if c.Kind != model.CombatantCharacter {
			continue
		}
		if c.Fighters <= 0 {
			continue
		}
		if c.OwnerID == garrison.OwnerID {
			continue
		}
		if garrison.OwnerCorpID != "" && c.CorporationID == garrison.OwnerCorpID {
			continue
		}
		if restrictTo != nil && !restrictTo[id] {
			continue
		}

		if c.Fighters > bestFighters || (c.Fighters == bestFighters && id < best) {
			best = id
			bestFighters = c.Fighters
		}
	}

	return best
}
