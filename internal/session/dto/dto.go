package dto

import "time"

type SessionResult struct {
	SessionID int64     `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
	Resumed   bool      `json:"resumed"`
}
