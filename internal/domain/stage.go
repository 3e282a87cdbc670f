package domain

import "time"

type Stage struct {
	ID        string
	Kind      StageKind
	SortOrder int
	Title     string
	CreatedAt time.Time
}

type Day struct {
	ID        string
	StageID   string
	Number    int
	Title     string
	CreatedAt time.Time
}
