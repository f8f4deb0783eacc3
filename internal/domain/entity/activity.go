package entity

import (
	"time"
)

// Activity actions. The admin_activities collection is append-only; entries
// are never mutated by application code.
const (
	ActionUserApprove    = "user_approve"
	ActionUserReject     = "user_reject"
	ActionUserSuspend    = "user_suspend"
	ActionUserReactivate = "user_reactivate"
	ActionUserDelete     = "user_delete"

	ActionCertSubmit  = "certificate_submit"
	ActionCertApprove = "certificate_approve"
	ActionCertReject  = "certificate_reject"
	ActionCertIssue   = "certificate_issue"
	ActionCertRevoke  = "certificate_revoke"
	ActionCertVerify  = "certificate_verify"

	ActionDocumentReview = "document_review"

	ActionBackupCreate  = "backup_create"
	ActionBackupRestore = "backup_restore"
)

const (
	TargetTypeUser        = "user"
	TargetTypeCertificate = "certificate"
	TargetTypeDocument    = "document"
	TargetTypeBackup      = "backup"
)

type AdminActivity struct {
	ID         string                 `json:"id" firestore:"id"`
	ActorID    string                 `json:"actor_id" firestore:"actorId"`
	ActorEmail string                 `json:"actor_email,omitempty" firestore:"actorEmail,omitempty"`
	Action     string                 `json:"action" firestore:"action"`
	TargetType string                 `json:"target_type" firestore:"targetType"`
	TargetID   string                 `json:"target_id" firestore:"targetId"`
	Reason     string                 `json:"reason,omitempty" firestore:"reason,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty" firestore:"details,omitempty"`
	Timestamp  time.Time              `json:"timestamp" firestore:"timestamp"`
}
