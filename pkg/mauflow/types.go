package mauflow

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

const (
	TaskStatusTodo  TaskStatus = "todo"
	TaskStatusDoing TaskStatus = "doing"
	TaskStatusDone  TaskStatus = "done"
)

// IsValid returns true if the TaskStatus is a defined value.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusDoing, TaskStatusDone:
		return true
	}
	return false
}

// TaskPriority represents the urgency of a task.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// IsValid returns true if the TaskPriority is a defined value.
func (p TaskPriority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task is the central unit of work. Tasks are created by one user and may be
// delegated to another; comments and notifications hang off the task ID.
type Task struct {
	ID          uuid.UUID
	Title       string
	Description string
	Status      TaskStatus
	Priority    TaskPriority
	CreatedBy   string
	AssigneeID  string
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DelegationStatus tracks the handshake between delegator and recipient.
type DelegationStatus string

const (
	DelegationPending   DelegationStatus = "pending"
	DelegationAccepted  DelegationStatus = "accepted"
	DelegationDeclined  DelegationStatus = "declined"
	DelegationCompleted DelegationStatus = "completed"
)

// IsValid returns true if the DelegationStatus is a defined value.
func (s DelegationStatus) IsValid() bool {
	switch s {
	case DelegationPending, DelegationAccepted, DelegationDeclined, DelegationCompleted:
		return true
	}
	return false
}

// Delegation records a task being handed from one user to another.
//
// Lifecycle: pending -> accepted -> completed, or pending -> declined.
// Only the recipient may accept, decline, or complete a delegation.
type Delegation struct {
	ID         uuid.UUID
	TaskID     uuid.UUID
	FromUserID string
	ToUserID   string
	Status     DelegationStatus
	Note       string
	CreatedAt  time.Time
	ResolvedAt *time.Time
}

// Comment is a message attached to a task. Mentions holds the @usernames
// extracted from Body at creation time, in order of first occurrence.
type Comment struct {
	ID        uuid.UUID
	TaskID    uuid.UUID
	AuthorID  string
	Body      string
	Mentions  []string
	CreatedAt time.Time
}

// NotificationKind categorizes notifications for preference filtering.
type NotificationKind string

const (
	NotifyDelegation NotificationKind = "delegation"
	NotifyMention    NotificationKind = "mention"
	NotifyComment    NotificationKind = "comment"
	NotifyStatus     NotificationKind = "status"
)

// IsValid returns true if the NotificationKind is a defined value.
func (k NotificationKind) IsValid() bool {
	switch k {
	case NotifyDelegation, NotifyMention, NotifyComment, NotifyStatus:
		return true
	}
	return false
}

// Notification is a per-user event record. ActorID is the user whose action
// produced the notification (the delegator, the comment author, etc.).
type Notification struct {
	ID        uuid.UUID
	UserID    string
	Kind      NotificationKind
	TaskID    uuid.UUID
	ActorID   string
	Message   string
	Read      bool
	CreatedAt time.Time
}

// NotificationPreferences controls which notification kinds a user receives
// and when real-time delivery is suppressed.
//
// Quiet hours use "HH:MM" 24-hour wall-clock strings. A window may cross
// midnight (e.g. 22:00-07:00). During quiet hours notifications are still
// persisted but not published to live channels.
type NotificationPreferences struct {
	UserID            string
	DelegationEnabled bool
	MentionEnabled    bool
	CommentEnabled    bool
	StatusEnabled     bool
	QuietHoursStart   string
	QuietHoursEnd     string
}

// Enabled reports whether the given notification kind is switched on.
func (p *NotificationPreferences) Enabled(kind NotificationKind) bool {
	switch kind {
	case NotifyDelegation:
		return p.DelegationEnabled
	case NotifyMention:
		return p.MentionEnabled
	case NotifyComment:
		return p.CommentEnabled
	case NotifyStatus:
		return p.StatusEnabled
	default:
		return false
	}
}

// AuthMethod represents the database authentication mechanism to use.
type AuthMethod int

const (
	AuthMethodStandard    AuthMethod = iota // Username/Password
	AuthMethodAWSIAM                        // AWS IAM Database Authentication
	AuthMethodGoogleIAM                     // Google Cloud SQL IAM
	AuthMethodAzureEntraID                  // Azure Active Directory (Entra ID)
)

// String returns a human-readable string representation of the AuthMethod.
func (a AuthMethod) String() string {
	switch a {
	case AuthMethodStandard:
		return "Standard"
	case AuthMethodAWSIAM:
		return "AWS IAM"
	case AuthMethodGoogleIAM:
		return "Google IAM"
	case AuthMethodAzureEntraID:
		return "Azure Entra ID"
	default:
		return fmt.Sprintf("Unknown(%d)", a)
	}
}

// IsValid returns true if the AuthMethod is a valid, defined value.
func (a AuthMethod) IsValid() bool {
	return a >= AuthMethodStandard && a <= AuthMethodAzureEntraID
}

// ConnectionConfig holds resolved database connection parameters.
type ConnectionConfig struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
	SSLMode  string

	AuthMethod AuthMethod

	// AWS IAM authentication (AuthMethodAWSIAM)
	AWSRegion string

	// Google Cloud SQL IAM authentication (AuthMethodGoogleIAM)
	// Instance connection name: project:region:instance
	GoogleInstance string

	// Azure Entra ID authentication (AuthMethodAzureEntraID).
	// If all three are set, Service Principal auth is used; otherwise the
	// DefaultAzureCredential chain (env vars, managed identity, CLI, ...).
	AzureTenantID     string
	AzureClientID     string
	AzureClientSecret string
}
