package domain

import "time"

type ProfileID string
type ArticleID string
type CommentID string
type ChatRequestID string

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type Category string

const (
	CategoryInvestigative Category = "Investigative"
	CategoryEconomic      Category = "Economic"
	CategoryRegional      Category = "Regional"
)

type InteractionKind string

const (
	InteractionLike    InteractionKind = "like"
	InteractionDislike InteractionKind = "dislike"
)

// CounterField names the single article counter a write may touch.
type CounterField string

const (
	CounterLikes    CounterField = "likes"
	CounterDislikes CounterField = "dislikes"
	CounterComments CounterField = "comments"
)

type Timestamp = time.Time
