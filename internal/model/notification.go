package model

import "time"

type NotificationTarget string

const (
	TargetBusiness NotificationTarget = "business"
	TargetUser     NotificationTarget = "user"
)

// Notification es el mensaje que viaja por la cola de salida.
type Notification struct {
	Target    NotificationTarget `json:"target"`
	TargetID  string             `json:"targetId"`
	Title     string             `json:"title"`
	Body      string             `json:"body"`
	Data      map[string]string  `json:"data,omitempty"`
	CreatedAt time.Time          `json:"createdAt"`
}
