package domain

import "time"

// Session is a verified identity granted temporary access to order data.
// PK: token, an opaque unique value generated by the caller of the store.
// Sessions are immutable once created; the gate evicts them lazily once
// their age exceeds the freshness window.
type Session struct {
	Token     string    `json:"token" dynamodbav:"token"`
	Email     string    `json:"email" dynamodbav:"email"`
	CreatedAt time.Time `json:"created_at" dynamodbav:"created_at"`
}
