package models

import "time"

// AgentVerification - заявка агента на верификацию и ее текущее состояние.
// AgentID заполнен только в статусе approved. Поля приостановки
// (IsSuspended, SuspendedAt, SuspensionReason, SuspendedBy, SuspendedUntil)
// выставляются и очищаются вместе; SuspendedUntil = nil при активной
// приостановке означает бессрочную.
type AgentVerification struct {
	BaseModel
	ProfileID       string             `gorm:"type:uuid;uniqueIndex;not null" json:"profile_id"`
	Status          VerificationStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	AgentID         *string            `gorm:"uniqueIndex" json:"agent_id,omitempty"`
	DocumentURL     string             `gorm:"not null" json:"document_url"`
	BusinessName    string             `json:"business_name,omitempty"`
	IDNumber        string             `json:"id_number,omitempty"`
	RejectionReason string             `json:"rejection_reason,omitempty"`
	VerifiedAt      *time.Time         `json:"verified_at,omitempty"`
	VerifiedBy      *string            `gorm:"type:uuid" json:"verified_by,omitempty"`

	IsSuspended      bool       `gorm:"default:false;index" json:"is_suspended"`
	SuspendedAt      *time.Time `json:"suspended_at,omitempty"`
	SuspendedUntil   *time.Time `json:"suspended_until,omitempty"`
	SuspensionReason string     `json:"suspension_reason,omitempty"`
	SuspendedBy      *string    `gorm:"type:uuid" json:"suspended_by,omitempty"`

	RevokedAt        *time.Time `json:"revoked_at,omitempty"`
	RevokedBy        *string    `gorm:"type:uuid" json:"revoked_by,omitempty"`
	RevocationReason string     `json:"revocation_reason,omitempty"`

	Profile *Profile `gorm:"foreignKey:ProfileID" json:"profile,omitempty"`
}
