package leadcapture

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"website-audit/internal/common/logger"
	"website-audit/internal/common/zoho"
)

type Input struct {
	Type         string                 `json:"type"`
	Name         string                 `json:"name,omitempty"`
	Email        string                 `json:"email"`
	Phone        string                 `json:"phone,omitempty"`
	Company      string                 `json:"company,omitempty"`
	Message      string                 `json:"message,omitempty"`
	AuditResults map[string]interface{} `json:"auditResults,omitempty"`
}

type Output struct {
	Success bool   `json:"success"`
	LeadID  string `json:"leadId"`
	Type    string `json:"type"`
}

// CRMClient is the slice of the Zoho client the relay uses.
type CRMClient interface {
	CreateContact(ctx context.Context, contact *zoho.Contact) (string, error)
	SearchContacts(ctx context.Context, email string) ([]zoho.Contact, error)
}

// SESService and SNSService mirror the AWS SDK call shapes for mocking.
type SESService interface {
	SendEmail(ctx context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, input *sns.PublishInput) (*sns.PublishOutput, error)
}

type ServiceDependencies struct {
	Logger logger.Logger
}
