package models

import (
	"strings"

	"github.com/google/uuid"
)

type Priority string

type UploadType string

const (
	PriorityEasy   Priority = "easy"
	PriorityMedium Priority = "medium"
	PriorityHard   Priority = "hard"

	UploadTypeText     UploadType = "text"
	UploadTypeImage    UploadType = "image"
	UploadTypeVideo    UploadType = "video"
	UploadTypeDocument UploadType = "document"
)

type Task struct {
	ID               uuid.UUID `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Category         string    `json:"category"`
	EstimatedMinutes int       `json:"estimated_minutes"`
	Priority         Priority  `json:"priority"`
	Completed        bool      `json:"completed"`
}

type DailyTaskSet struct {
	DayKey string `json:"day_key"`
	Tasks  []Task `json:"tasks"`
}

type DailyRecord struct {
	Date   string `json:"date"`
	Amount int64  `json:"amount"`
}

type MonthlyRecord struct {
	Month  string `json:"month"`
	Amount int64  `json:"amount"`
}

type DailyStats struct {
	Date           string  `json:"date"`
	CompletedTasks int     `json:"completed_tasks"`
	TotalTasks     int     `json:"total_tasks"`
	Earnings       int64   `json:"earnings"`
	CompletionRate float64 `json:"completion_rate"`
}

type UploadRecord struct {
	Type UploadType `json:"type"`
	Name string     `json:"name"`
	Size string     `json:"size"`
}

// ParsePriority нормализует значение приоритета, включая синонимы low/high.
func ParsePriority(value string) (Priority, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case string(PriorityEasy), "low":
		return PriorityEasy, true
	case string(PriorityMedium):
		return PriorityMedium, true
	case string(PriorityHard), "high":
		return PriorityHard, true
	default:
		return "", false
	}
}

// ParseUploadType нормализует тип загружаемого файла.
func ParseUploadType(value string) (UploadType, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case string(UploadTypeText):
		return UploadTypeText, true
	case string(UploadTypeImage):
		return UploadTypeImage, true
	case string(UploadTypeVideo):
		return UploadTypeVideo, true
	case string(UploadTypeDocument):
		return UploadTypeDocument, true
	default:
		return "", false
	}
}

type BankDetails struct {
	AccountHolderName string `json:"account_holder_name"`
	BankName          string `json:"bank_name"`
	AccountNumber     string `json:"account_number"`
	IFSC              string `json:"ifsc"`
	UPIID             string `json:"upi_id,omitempty"`
}
