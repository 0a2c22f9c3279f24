package api

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// Activity types
const (
	ActivitySpeaking = "speaking"
	ActivityWriting  = "writing"
	ActivityQuiz     = "quiz"
)

// Submission statuses
const (
	StatusPending  = "pending"
	StatusScored   = "scored"   // AI score available, awaiting teacher review
	StatusReviewed = "reviewed" // teacher signed off
)

type Activity struct {
	ID          string      `json:"id"`
	Type        string      `json:"type"` // speaking | writing | quiz
	Title       string      `json:"title"`
	Prompt      string      `json:"prompt"`
	MaxScore    float64     `json:"max_score"`
	DueAt       null.Time   `json:"due_at,omitempty"`
	Description null.String `json:"description,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

type Submission struct {
	ID           string       `json:"id"`
	ActivityID   string       `json:"activity_id"`
	StudentID    string       `json:"student_id"`
	Status       string       `json:"status"`
	Content      string       `json:"content"`
	UploadRef    null.String  `json:"upload_ref,omitempty"`
	AIScore      null.Float64 `json:"ai_score,omitempty"`
	TeacherScore null.Float64 `json:"teacher_score,omitempty"`
	Feedback     null.String  `json:"feedback,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	ReviewedAt   null.Time    `json:"reviewed_at,omitempty"`
}

// NewSubmission is a student's answer to an activity. UploadRef points at an
// already-uploaded asset (audio recording, document); UploadSize is checked
// against the configured cap before any network call.
type NewSubmission struct {
	ActivityID string `json:"activity_id"`
	Content    string `json:"content"`
	UploadRef  string `json:"upload_ref,omitempty"`
	UploadSize int64  `json:"-"`
}

// GradeReview is a teacher's verdict on a submission: accept or override the
// AI score, optionally with feedback.
type GradeReview struct {
	Score    float64 `json:"score"`
	Feedback string  `json:"feedback,omitempty"`
}

type AuditEntry struct {
	ID        string      `json:"id"`
	ActorID   string      `json:"actor_id"`
	Action    string      `json:"action"`
	Target    null.String `json:"target,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

type AnalyticsSummary struct {
	ActiveUsers      int          `json:"active_users"`
	SubmissionsToday int          `json:"submissions_today"`
	PendingReviews   int          `json:"pending_reviews"`
	AvgAIScore       null.Float64 `json:"avg_ai_score,omitempty"`
}
