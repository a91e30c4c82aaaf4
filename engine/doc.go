// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package engine implements the group-consensus elimination state machine
shared by the tournament games: participants are partitioned into small
voting groups each round, a group survives only on a unanimous verdict,
and rounds repeat until the stopping condition leaves the winners.

# Pipeline

Data flows strictly one way:

	eligibility source -> group formation -> vote ledger -> round resolver
	                   -> tournament progressor -> game supervisor

No stage reads state produced later in the pipeline.

# Operations

	eng := engine.New(db, engine.DefaultVariants())

	game, _ := eng.CreateGame(req)
	eng.AddEntrants(game.ID, ids)
	round, groups, _ := eng.StartGame(game.ID, slug, nil)

	eng.CastVote(groupID, voterID, targetID)

	outcome, _ := eng.ResolveRound(round.ID)
	next, _ := eng.AdvanceRound(game.ID)

	eng.Outcome(game.ID)

# Variants

Two variants ship built in:

  - elimination: a unanimous group completes with the chosen member
    recorded as winner. Whether "chosen" means kept or removed is the
    game's verdict_policy, not the engine's guess.
  - hidden_role: each group conceals a role holder. A unanimous group that
    names its role holder advances everyone else; a unanimous group that
    names anyone else hands the role holder the entire game on the spot,
    and resolution of the remaining groups is abandoned.

Per-variant game defaults (group size, vote policy, verdict policy, finish
threshold) can be overridden from a YAML file via VariantSet.LoadDefaults.

# Concurrency

Every state transition is a conditional write keyed on the expected prior
status, and vote uniqueness is the vote table's primary key. Duplicate
triggers therefore lose races cleanly instead of double-processing:
resolution is idempotent, a second advance of the same round fails with a
conflict, and a second immutable vote fails with a conflict.

The engine has no timers. "You had N minutes to vote" is whoever calls
ResolveRound deciding when to call it.

# Errors

ValidationError and ConflictError are expected, recoverable conditions.
Not-found sentinels (ErrGameNotFound and friends) are terminal for the
call. InvariantViolation means a bug - a group partition that disagrees
with the eligible set - and is never silently corrected.
*/
package engine
