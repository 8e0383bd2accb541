package domain

// Identity is the applicant identity sent to the grading service.
// It is built once from configuration and never mutated.
type Identity struct {
	Name  string
	RegNo string
	Email string
}

// WebhookIssueRequest is the JSON body for the webhook-issue call.
type WebhookIssueRequest struct {
	Name  string `json:"name"`
	RegNo string `json:"regNo"`
	Email string `json:"email"`
}

// NewWebhookIssueRequest mirrors an Identity into the wire payload.
func NewWebhookIssueRequest(id Identity) WebhookIssueRequest {
	return WebhookIssueRequest{
		Name:  id.Name,
		RegNo: id.RegNo,
		Email: id.Email,
	}
}

// WebhookIssueResponse is returned by the webhook-issue call.
// Unknown fields in the response are ignored.
type WebhookIssueResponse struct {
	Webhook     string `json:"webhook"`
	AccessToken string `json:"accessToken"`
}

// AnswerSubmission is the JSON body posted to the issued webhook.
type AnswerSubmission struct {
	FinalQuery string `json:"finalQuery"`
}
