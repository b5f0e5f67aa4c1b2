package dto

import (
	"time"

	"rentease_backend/internal/models"
	"rentease_backend/internal/workflow"
)

type SubmitVerificationRequest struct {
	DocumentURL  string `json:"document_url" validate:"required,max=500"`
	BusinessName string `json:"business_name,omitempty" validate:"omitempty,max=200"`
	IDNumber     string `json:"id_number,omitempty" validate:"omitempty,max=50"`
}

// SuspendAgentRequest - пустая причина отклоняется валидатором до обращения к БД
type SuspendAgentRequest struct {
	Duration workflow.SuspensionDuration `json:"duration" validate:"required,is-suspension-duration"`
	Reason   string                      `json:"reason" validate:"required,notblank,max=1000"`
}

type VerificationListRequest struct {
	Status    models.VerificationStatus `form:"status" validate:"omitempty,is-verification-status"`
	Suspended *bool                     `form:"suspended"`
	Page      int                       `form:"page" validate:"omitempty,gte=1"`
	PageSize  int                       `form:"page_size" validate:"omitempty,gte=1,lte=100"`
}

type VerificationResponse struct {
	ID               string                    `json:"id"`
	ProfileID        string                    `json:"profile_id"`
	Status           models.VerificationStatus `json:"status"`
	State            string                    `json:"state"`
	AgentID          *string                   `json:"agent_id,omitempty"`
	DocumentURL      string                    `json:"document_url"`
	BusinessName     string                    `json:"business_name,omitempty"`
	IDNumber         string                    `json:"id_number,omitempty"`
	RejectionReason  string                    `json:"rejection_reason,omitempty"`
	VerifiedAt       *time.Time                `json:"verified_at,omitempty"`
	IsSuspended      bool                      `json:"is_suspended"`
	SuspensionActive bool                      `json:"suspension_active"`
	SuspendedAt      *time.Time                `json:"suspended_at,omitempty"`
	SuspendedUntil   *time.Time                `json:"suspended_until,omitempty"`
	SuspensionReason string                    `json:"suspension_reason,omitempty"`
	RevokedAt        *time.Time                `json:"revoked_at,omitempty"`
	RevocationReason string                    `json:"revocation_reason,omitempty"`
	AgentName        string                    `json:"agent_name,omitempty"`
	AgentEmail       string                    `json:"agent_email,omitempty"`
	CreatedAt        time.Time                 `json:"created_at"`
}

func NewVerificationResponse(v *models.AgentVerification, now time.Time) *VerificationResponse {
	resp := &VerificationResponse{
		ID:               v.ID,
		ProfileID:        v.ProfileID,
		Status:           v.Status,
		State:            workflow.StateOf(v),
		AgentID:          v.AgentID,
		DocumentURL:      v.DocumentURL,
		BusinessName:     v.BusinessName,
		IDNumber:         v.IDNumber,
		RejectionReason:  v.RejectionReason,
		VerifiedAt:       v.VerifiedAt,
		IsSuspended:      v.IsSuspended,
		SuspensionActive: workflow.SuspensionActive(v, now),
		SuspendedAt:      v.SuspendedAt,
		SuspendedUntil:   v.SuspendedUntil,
		SuspensionReason: v.SuspensionReason,
		RevokedAt:        v.RevokedAt,
		RevocationReason: v.RevocationReason,
		CreatedAt:        v.CreatedAt,
	}
	if v.Profile != nil {
		resp.AgentName = v.Profile.FullName
		resp.AgentEmail = v.Profile.Email
	}
	return resp
}
