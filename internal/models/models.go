package models

import "time"

type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Exercise is a single logged activity. Date always holds a UTC calendar day.
type Exercise struct {
	ID          string
	OwnerID     string
	Description string
	Duration    int
	Date        time.Time
}

type LogEntry struct {
	Description string `json:"description"`
	Duration    int    `json:"duration"`
	Date        string `json:"date"`
}

// LogResult is the filtered view of one user's exercises. Count is len(Log).
type LogResult struct {
	Username string     `json:"username"`
	ID       string     `json:"id"`
	Count    int        `json:"count"`
	Log      []LogEntry `json:"log"`
}

type ExerciseResult struct {
	Username    string `json:"username"`
	ID          string `json:"id"`
	Description string `json:"description"`
	Duration    int    `json:"duration"`
	Date        string `json:"date"`
}
