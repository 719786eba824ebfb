package leadcapture

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/google/uuid"

	"website-audit/internal/common/errors"
	"website-audit/internal/common/httpclient"
	"website-audit/internal/common/logger"
	"website-audit/internal/common/metrics"
	"website-audit/internal/common/zoho"
	"website-audit/internal/models"
)

const insertLeadQuery = `INSERT INTO leads
	(id, type, name, email, phone, company, message, website_url, audit_score, audit_data, status, zoho_synced, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

type Service struct {
	config     *Config
	logger     logger.Logger
	db         *sql.DB
	zohoClient CRMClient
	sesClient  SESService
	snsClient  SNSService
	webhook    *httpclient.Client
}

func NewService(deps ServiceDependencies, config *Config, db *sql.DB) *Service {
	var zohoClient CRMClient
	if config.ZohoAPIKey != "" && config.ZohoOAuthToken != "" {
		zohoClient = zoho.NewCRMClient(config.ZohoAPIKey, config.ZohoOAuthToken)
	}

	return &Service{
		config:     config,
		logger:     deps.Logger,
		db:         db,
		zohoClient: zohoClient,
		webhook:    httpclient.New(15 * time.Second),
	}
}

// WithCRMClient overrides the CRM relay target, used by tests.
func (s *Service) WithCRMClient(client CRMClient) *Service {
	s.zohoClient = client
	return s
}

// WithNotifiers attaches the SES and SNS clients for team alerts.
func (s *Service) WithNotifiers(sesClient SESService, snsClient SNSService) *Service {
	s.sesClient = sesClient
	s.snsClient = snsClient
	return s
}

// Execute persists one lead row per call, then fires the best-effort side
// channels. The row is the single source of truth; CRM relay and team
// notification failures are logged and swallowed.
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	lead := s.buildLead(input)

	s.logger.Info("Capturing lead", map[string]interface{}{
		"leadId": lead.ID,
		"type":   lead.Type,
		"email":  lead.Email,
	})

	if err := s.persistLead(ctx, lead); err != nil {
		return nil, errors.NewLeadSaveFailedError(err)
	}
	metrics.LeadsPersistedTotal.WithLabelValues(lead.Type).Inc()

	s.relayCRM(ctx, lead)
	s.notifyTeam(ctx, lead)

	return &Output{
		Success: true,
		LeadID:  lead.ID,
		Type:    lead.Type,
	}, nil
}

func (s *Service) validateInput(input *Input) error {
	if strings.TrimSpace(input.Type) == "" {
		return errors.NewValidationError("Missing required field: type", "")
	}
	if strings.TrimSpace(input.Email) == "" {
		return errors.NewValidationError("Missing required field: email", "")
	}
	if err := validateEmail(input.Email); err != nil {
		return errors.NewValidationError("Invalid email address", err.Error())
	}
	return nil
}

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return fmt.Errorf("invalid email format")
	}
	if len(parts[0]) == 0 || len(parts[1]) == 0 {
		return fmt.Errorf("invalid email format")
	}
	if !strings.Contains(parts[1], ".") {
		return fmt.Errorf("invalid email domain")
	}
	return nil
}

func (s *Service) buildLead(input *Input) *models.Lead {
	lead := &models.Lead{
		ID:         uuid.New().String(),
		Type:       input.Type,
		Name:       input.Name,
		Email:      input.Email,
		Phone:      input.Phone,
		Company:    input.Company,
		Message:    input.Message,
		Status:     models.LeadStatusNew,
		ZohoSynced: false,
		CreatedAt:  time.Now().UTC(),
	}

	if input.AuditResults != nil {
		if data, err := json.Marshal(input.AuditResults); err == nil {
			lead.AuditData = data
		}
		if v, ok := input.AuditResults["url"].(string); ok {
			lead.WebsiteURL = v
		}
		if v, ok := input.AuditResults["overallScore"].(float64); ok {
			lead.AuditScore = int(v)
		}
	}

	return lead
}

func (s *Service) persistLead(ctx context.Context, lead *models.Lead) error {
	auditData := lead.AuditData
	if auditData == nil {
		auditData = json.RawMessage("null")
	}

	_, err := s.db.ExecContext(ctx, insertLeadQuery,
		lead.ID, lead.Type, lead.Name, lead.Email, lead.Phone, lead.Company,
		lead.Message, lead.WebsiteURL, lead.AuditScore, []byte(auditData),
		lead.Status, lead.ZohoSynced, lead.CreatedAt,
	)
	return err
}

// relayCRM forwards the lead to Zoho when configured, otherwise to the
// generic CRM webhook. Advisory only: the persisted row already holds the
// lead.
func (s *Service) relayCRM(ctx context.Context, lead *models.Lead) {
	switch {
	case s.zohoClient != nil:
		if err := s.relayZoho(ctx, lead); err != nil {
			s.logger.Warn("CRM relay failed", map[string]interface{}{
				"leadId":   lead.ID,
				"provider": "zoho",
				"error":    err.Error(),
			})
		}
	case s.config.CRMWebhookURL != "":
		if err := s.relayWebhook(ctx, lead); err != nil {
			s.logger.Warn("CRM relay failed", map[string]interface{}{
				"leadId":   lead.ID,
				"provider": "webhook",
				"error":    err.Error(),
			})
		}
	}
}

func (s *Service) relayZoho(ctx context.Context, lead *models.Lead) error {
	if existing, err := s.zohoClient.SearchContacts(ctx, lead.Email); err == nil && len(existing) > 0 {
		s.logger.Info("Contact already exists in CRM", map[string]interface{}{
			"leadId":    lead.ID,
			"contactId": existing[0].ID,
		})
		return nil
	}

	firstName, lastName := splitName(lead.Name)
	contact := &zoho.Contact{
		Email:       lead.Email,
		FirstName:   firstName,
		LastName:    lastName,
		Phone:       lead.Phone,
		Company:     lead.Company,
		Source:      "Website Audit",
		Description: fmt.Sprintf("Lead type: %s. Site: %s. Audit score: %d.", lead.Type, lead.WebsiteURL, lead.AuditScore),
	}

	contactID, err := s.zohoClient.CreateContact(ctx, contact)
	if err != nil {
		return err
	}

	s.logger.Info("Lead relayed to CRM", map[string]interface{}{
		"leadId":    lead.ID,
		"contactId": contactID,
	})
	return nil
}

func (s *Service) relayWebhook(ctx context.Context, lead *models.Lead) error {
	payload, err := json.Marshal(lead)
	if err != nil {
		return err
	}

	req, err := newJSONPost(ctx, s.config.CRMWebhookURL, payload)
	if err != nil {
		return err
	}

	resp, err := s.webhook.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

// notifyTeam sends the email alert and, for high-scoring leads, the SMS
// alert. Both are best-effort.
func (s *Service) notifyTeam(ctx context.Context, lead *models.Lead) {
	if s.config.EmailEnabled && s.sesClient != nil {
		if err := s.sendTeamEmail(ctx, lead); err != nil {
			s.logger.Warn("Team notification email failed", map[string]interface{}{
				"leadId": lead.ID,
				"error":  err.Error(),
			})
		}
	}

	if s.config.SMSEnabled && s.snsClient != nil && lead.AuditScore >= s.config.SMSScoreThreshold {
		if err := s.sendTeamSMS(ctx, lead); err != nil {
			s.logger.Warn("Team notification SMS failed", map[string]interface{}{
				"leadId": lead.ID,
				"error":  err.Error(),
			})
		}
	}
}

func (s *Service) sendTeamEmail(ctx context.Context, lead *models.Lead) error {
	subject := fmt.Sprintf("New %s lead: %s", lead.Type, lead.Email)
	body := fmt.Sprintf(
		"A new lead was captured.\n\nType: %s\nName: %s\nEmail: %s\nPhone: %s\nCompany: %s\nSite: %s\nAudit score: %d\n\nMessage:\n%s\n",
		lead.Type, lead.Name, lead.Email, lead.Phone, lead.Company, lead.WebsiteURL, lead.AuditScore, lead.Message,
	)

	_, err := s.sesClient.SendEmail(ctx, &ses.SendEmailInput{
		Source: awssdk.String(s.config.FromEmail),
		Destination: &sestypes.Destination{
			ToAddresses: []string{s.config.TeamEmail},
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: awssdk.String(subject)},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: awssdk.String(body)},
			},
		},
	})
	return err
}

func (s *Service) sendTeamSMS(ctx context.Context, lead *models.Lead) error {
	message := fmt.Sprintf("High-score lead: %s (%s), score %d", lead.Email, lead.WebsiteURL, lead.AuditScore)

	_, err := s.snsClient.Publish(ctx, &sns.PublishInput{
		PhoneNumber: awssdk.String(s.config.TeamPhone),
		Message:     awssdk.String(message),
	})
	return err
}

func newJSONPost(ctx context.Context, endpoint string, body []byte) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func splitName(name string) (string, string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "Unknown"
	}
	parts := strings.SplitN(name, " ", 2)
	if len(parts) == 1 {
		return "", parts[0]
	}
	return parts[0], parts[1]
}
