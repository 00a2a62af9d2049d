package models

import "time"

// Field limits
const (
	MaxNicknameLength = 20
	MaxMessageLength  = 200
)

// Request types

type SetNicknameRequest struct {
	Nickname string `json:"nickname"`
}

type PostMessageRequest struct {
	Content string `json:"content"`
}

// Response types

type PostMessageResponse struct {
	MessageID int64 `json:"message_id"`
}

type JoinManitoResponse struct {
	ParticipantID int64     `json:"participant_id"`
	JoinedAt      time.Time `json:"joined_at"`
}

// RunMatchingResponse is the success payload of the matching trigger.
type RunMatchingResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	MatchesCount int    `json:"matchesCount"`
}

type ManitoStatusResponse struct {
	IsParticipant    bool         `json:"is_participant"`
	ParticipantCount int          `json:"participant_count"`
	Match            *ManitoMatch `json:"match"`
}

type ManitoMatch struct {
	ReceiverUserID   string `json:"receiver_user_id"`
	ReceiverNickname string `json:"receiver_nickname"`
}

type TreeResponse struct {
	Width     float64    `json:"width"`
	Height    float64    `json:"height"`
	Ornaments []Ornament `json:"ornaments"`
}

// Ornament is a guestbook message positioned on the tree.
type Ornament struct {
	MessageID   int64   `json:"message_id"`
	Nickname    string  `json:"nickname"`
	Content     string  `json:"content"`
	Category    string  `json:"category"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	LeftPercent float64 `json:"left_percent"`
	TopPercent  float64 `json:"top_percent"`
	Fallback    bool    `json:"fallback"`
}

// Domain types

type Profile struct {
	ID        string    `json:"id"`
	Nickname  string    `json:"nickname"`
	CreatedAt time.Time `json:"created_at"`
}

type Message struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Nickname  string    `json:"nickname"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type Participant struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Nickname  string    `json:"nickname"`
	JoinedAt  time.Time `json:"joined_at"`
	JoinedAgo string    `json:"joined_ago"`
}

type ParticipantsResponse struct {
	Participants []Participant `json:"participants"`
	Count        int           `json:"count"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
