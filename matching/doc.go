// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package matching implements the Secret Santa (Manito) draw.

The draw shuffles the participant list and assigns every participant the
next one in the shuffled order, with the last wrapping back to the first:

	shuffled: C A D B
	matches:  C→A  A→D  D→B  B→C

Because the assignment follows a single cycle of length n ≥ 2, every
participant gives exactly once, receives exactly once, and nobody draws
themselves.

# Idempotency

A draw happens once per event. Generator.Run refuses to draw when a
previous result exists, and Store.SaveMatches must be an atomic
insert-if-absent so that two concurrent runs cannot both persist a draw.
The losing run gets ErrAlreadyMatched.

# Errors

  - ErrTooFewParticipants: fewer than two participants
  - ErrAlreadyMatched: a draw is already stored
  - *PersistenceError: the store failed; the message is the store's
*/
package matching
