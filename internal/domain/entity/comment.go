package entity

import (
	"time"
)

type UserComment struct {
	ID        string    `json:"id" firestore:"id"`
	Text      string    `json:"text" firestore:"text"`
	UserID    string    `json:"userId" firestore:"userId"`
	Username  string    `json:"username" firestore:"username"`
	ProfileID string    `json:"profileId" firestore:"profileId"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
}
