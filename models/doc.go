// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - SetNicknameRequest: nickname
  - PostMessageRequest: content

# Response Types

Types for JSON responses:

  - PostMessageResponse: message_id
  - JoinManitoResponse: participant_id, joined_at
  - RunMatchingResponse: success, message, matchesCount
  - ManitoStatusResponse: is_participant, participant_count, match
  - ParticipantsResponse: participants, count
  - TreeResponse: canvas size and positioned ornaments
  - ErrorResponse: error, message

# Domain Types

  - Profile: a user's nickname, created once
  - Message: a guestbook entry; its id keys the ornament layout
  - Participant: a Manito sign-up
  - Ornament: a message placed on the tree

# Limits

	MaxNicknameLength = 20   // runes
	MaxMessageLength  = 200  // runes
*/
package models
