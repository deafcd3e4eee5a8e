package combat

import (
	"math"
	"sort"

	"voidreach_combat/internal/model"
)

// clamp :
// Restricts `v` to the closed interval `[lo, hi]`.
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// participantState :
// Mutable working copy of a combatant used only for the duration
// of a single round resolution. The resolver never writes back
// into the `model.Combatant` it was built from; callers translate
// the returned `RoundOutcome` into persisted deltas themselves.
type participantState struct {
	id           string
	turnsPerWarp int

	startFighters int
	startShields  int

	fighters int
	shields  int

	action     model.RoundAction
	mitigation float64

	active bool // still in the encounter (hasn't fled)
	fled   bool // successfully fled this round
}

// ResolveRound :
// The pure round resolver (C3). Reconstructing the same
// `(encounter.BaseSeed, round, actions)` triple always yields a
// byte-identical outcome: the resolver reads no wall-clock, no
// deadline, and nothing outside its two arguments.
//
// The `encounter` supplies participants and the base seed; it is
// read-only and never mutated.
//
// The `actions` is the full effective action map for this round
// (submissions ∪ timeout-braces ∪ garrison auto-actions), keyed by
// combatant id.
//
// Returns the round's outcome.
func ResolveRound(encounter model.Encounter, actions map[string]model.RoundAction) model.RoundOutcome {
	rng := NewRoundRNG(encounter.BaseSeed, encounter.Round)
	outcome := model.NewRoundOutcome(encounter.Round)

	states := normalize(encounter, actions)

	ids := make([]string, 0, len(states))
	for id := range states {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		s := states[id]
		outcome.FightersRemaining[id] = s.startFighters
		outcome.ShieldsRemaining[id] = s.startShields
		outcome.EffectiveActions[id] = s.action
	}

	resolveFlee(states, ids, rng, &outcome)

	if end, done := earlyTermination(states, ids); done {
		for _, id := range ids {
			s := states[id]
			outcome.FightersRemaining[id] = s.fighters
			outcome.ShieldsRemaining[id] = s.shields
		}
		outcome.EndState = end
		return outcome
	}

	resolveAttacks(states, ids, rng, &outcome)
	ablateShields(states, ids, &outcome)

	for _, id := range ids {
		s := states[id]
		outcome.FightersRemaining[id] = s.fighters
		outcome.ShieldsRemaining[id] = s.shields
	}

	outcome.EndState = deriveEndState(states, ids)

	return outcome
}

// normalize :
// Phase A. Coerces every submitted action into a well-formed one
// and computes each participant's starting shield mitigation.
func normalize(encounter model.Encounter, actions map[string]model.RoundAction) map[string]*participantState {
	states := make(map[string]*participantState, len(encounter.Participants))

	for id, combatant := range encounter.Participants {
		action, ok := actions[id]
		if !ok {
			action = model.RoundAction{Tag: model.ActionBrace}
		}

		switch action.Tag {
		case model.ActionAttack:
			if action.Commit < 0 {
				action.Commit = 0
			}
			if action.Commit > combatant.Fighters {
				action.Commit = combatant.Fighters
			}

			_, targetExists := encounter.Participants[action.Target]
			if action.Commit == 0 || action.Target == "" || action.Target == id || !targetExists {
				action = model.RoundAction{Tag: model.ActionBrace, Commit: 0}
			}

		case model.ActionBrace, model.ActionPay:
			action.Commit = 0
			action.Target = ""

		case model.ActionFlee:
			action.Commit = 0
			action.Target = ""

		default:
			action = model.RoundAction{Tag: model.ActionBrace, Commit: 0}
		}

		mitigation := clamp(float64(combatant.Shields)*0.0005, 0, 0.5)
		if action.Tag == model.ActionBrace {
			mitigation = clamp(mitigation*1.2, 0, 0.5)
		}

		states[id] = &participantState{
			id:            id,
			turnsPerWarp:  combatant.TurnsPerWarp,
			startFighters: combatant.Fighters,
			startShields:  combatant.Shields,
			fighters:      combatant.Fighters,
			shields:       combatant.Shields,
			action:        action,
			mitigation:    mitigation,
			active:        true,
		}
	}

	return states
}

// resolveFlee :
// Phase B. Iterates participants in stable id order; a fleeing
// participant targets the currently-active opponent with the
// largest live fighter count.
func resolveFlee(states map[string]*participantState, ids []string, rng *RNG, outcome *model.RoundOutcome) {
	for _, id := range ids {
		s := states[id]
		if s.action.Tag != model.ActionFlee || !s.active {
			continue
		}

		opponent := largestActiveOpponent(states, ids, id)

		success := opponent == nil
		if !success {
			prob := clamp(0.5+0.1*float64(s.turnsPerWarp-opponent.turnsPerWarp), 0.2, 0.9)
			success = rng.Float64() < prob
		}

		outcome.FleeResults[id] = success
		if success {
			s.active = false
			s.fled = true
		}
	}
}

// largestActiveOpponent :
// Returns the currently-active combatant other than `self` with
// the greatest live fighter count, breaking ties by ascending id.
// Returns `nil` if no such opponent exists.
func largestActiveOpponent(states map[string]*participantState, ids []string, self string) *participantState {
	var best *participantState

	for _, id := range ids {
		if id == self {
			continue
		}
		s := states[id]
		if !s.active || s.fighters <= 0 {
			continue
		}

		if best == nil || s.fighters > best.fighters || (s.fighters == best.fighters && s.id < best.id) {
			best = s
		}
	}

	return best
}

// earlyTermination :
// Phase C. Checked once, after flee resolution and before any
// attack is processed.
func earlyTermination(states map[string]*participantState, ids []string) (string, bool) {
	anyFled := false
	anyAttack := false
	allActiveBrace := true

	for _, id := range ids {
		s := states[id]
		if s.fled {
			anyFled = true
			continue
		}
		if !s.active {
			continue
		}
		if s.action.Tag == model.ActionAttack {
			anyAttack = true
		}
		if s.action.Tag != model.ActionBrace && s.action.Tag != model.ActionPay {
			allActiveBrace = false
		}
	}

	if anyFled && !anyAttack {
		fleer := firstFleer(states, ids)
		return fleer + "_fled", true
	}

	if !anyAttack && allActiveBrace {
		return "stalemate", true
	}

	return "", false
}

// firstFleer :
// Returns the id of the first (in stable order) participant that
// fled successfully this round, used to name the early-termination
// end state.
func firstFleer(states map[string]*participantState, ids []string) string {
	for _, id := range ids {
		if states[id].fled {
			return id
		}
	}
	return ""
}

// attackStep :
// One pending commit unit still owed by an attacker.
type attackStep struct {
	attackerID string
}

// resolveAttacks :
// Phase D. Builds the ordered attacker list and processes commits
// round-robin, one step per attacker per pass, until no attacker
// makes progress in a full pass.
func resolveAttacks(states map[string]*participantState, ids []string, rng *RNG, outcome *model.RoundOutcome) {
	type attacker struct {
		id        string
		remaining int
	}

	var attackers []attacker
	for _, id := range ids {
		s := states[id]
		if s.active && s.action.Tag == model.ActionAttack && s.action.Commit > 0 {
			attackers = append(attackers, attacker{id: id, remaining: s.action.Commit})
		}
	}

	sort.Slice(attackers, func(i, j int) bool {
		si, sj := states[attackers[i].id], states[attackers[j].id]
		if si.fighters != sj.fighters {
			return si.fighters < sj.fighters
		}
		if si.turnsPerWarp != sj.turnsPerWarp {
			return si.turnsPerWarp < sj.turnsPerWarp
		}
		return si.id < sj.id
	})

	for {
		progressed := false

		for i := range attackers {
			a := &attackers[i]
			if a.remaining <= 0 {
				continue
			}

			attackerState := states[a.id]
			targetState := states[attackerState.action.Target]

			a.remaining--
			progressed = true

			if attackerState.fighters <= 0 || targetState == nil || targetState.fighters <= 0 || !targetState.active {
				continue
			}

			hitProb := clamp(0.5-0.6*targetState.mitigation+0.1*attackerState.mitigation, 0.15, 0.85)
			roll := rng.Float64()

			if roll < hitProb {
				outcome.Hits[a.id]++
				outcome.DefensiveLosses[targetState.id]++
				targetState.fighters--
			} else {
				outcome.OffensiveLosses[a.id]++
				attackerState.fighters--
			}
		}

		if !progressed {
			break
		}
	}
}

// ablateShields :
// Phase E. Converts each participant's defensive losses into
// shield loss, applying the brace bonus before re-ceiling.
func ablateShields(states map[string]*participantState, ids []string, outcome *model.RoundOutcome) {
	for _, id := range ids {
		s := states[id]

		losses := outcome.DefensiveLosses[id]
		shieldLoss := math.Ceil(float64(losses) * 0.5)

		if s.action.Tag == model.ActionBrace {
			shieldLoss = math.Ceil(shieldLoss * 0.8)
		}

		outcome.ShieldLoss[id] = int(shieldLoss)

		remaining := s.startShields - int(shieldLoss)
		if remaining < 0 {
			remaining = 0
		}
		s.shields = remaining
	}
}

// deriveEndState :
// Phase F. Determines whether the encounter can conclude after
// this round and, if so, what label to record.
func deriveEndState(states map[string]*participantState, ids []string) string {
	var survivors []string
	var fledIDs []string
	var defeatedNonFleers []string

	for _, id := range ids {
		s := states[id]
		switch {
		case s.fled:
			fledIDs = append(fledIDs, id)
		case s.fighters > 0:
			survivors = append(survivors, id)
		default:
			defeatedNonFleers = append(defeatedNonFleers, id)
		}
	}

	switch len(survivors) {
	case 0:
		if len(fledIDs) > 0 {
			return "stalemate"
		}
		return "mutual_defeat"

	case 1:
		if len(defeatedNonFleers) == 1 {
			return defeatedNonFleers[0] + "_defeated"
		}
		if len(defeatedNonFleers) > 1 {
			return "victory"
		}
		if len(defeatedNonFleers) == 0 && len(fledIDs) > 0 {
			return "stalemate"
		}
		return ""

	default:
		return ""
	}
}
