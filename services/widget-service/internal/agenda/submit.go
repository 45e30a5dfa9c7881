package agenda

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// BookingRequest is the booking write payload, field for field what the
// remote endpoint expects.
type BookingRequest struct {
	Action   string   `json:"action"`
	Name     string   `json:"name"`
	Phone    string   `json:"phone"`
	Barber   string   `json:"barber"`
	Date     string   `json:"date"`
	Time     string   `json:"time"`
	Services []string `json:"services"`
}

// ActionBook is the action tag the remote endpoint dispatches on.
const ActionBook = "agendar"

// Outcome classifies a submission per the endpoint's inverted contract.
type Outcome string

const (
	// ConfirmedViaOpaqueChannel is the success path: the write channel is
	// opaque, so the inability to read a response is the confirmation.
	ConfirmedViaOpaqueChannel Outcome = "confirmed_via_opaque_channel"
	// ExplicitFailure is any readable response; the booking cannot be
	// assumed to exist and the session state must be preserved for retry.
	ExplicitFailure Outcome = "explicit_failure"
)

// SubmitResult carries the outcome plus, on the readable path, whatever
// detail the response offered.
type SubmitResult struct {
	Outcome Outcome
	Detail  string
}

type explicitResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Submit posts the booking. The deployment's write channel is opaque: the
// endpoint never produces a readable response for an accepted booking, so a
// transport-level failure IS the confirmation, and any response that can be
// read means the booking did not land. This inversion is the documented
// contract of the remote endpoint; do not "fix" it here.
func (c *Client) Submit(ctx context.Context, req BookingRequest) (SubmitResult, error) {
	if req.Action == "" {
		req.Action = ActionBook
	}
	raw, err := json.Marshal(req)
	if err != nil {
		return SubmitResult{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(raw))
	if err != nil {
		return SubmitResult{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Idempotency-Key", uuid.NewString())

	resp, err := c.http.Do(httpReq)
	if err != nil {
		if c.logger != nil {
			c.logger.Info("booking submitted over opaque channel",
				"barber", req.Barber, "date", req.Date, "time", req.Time)
		}
		return SubmitResult{Outcome: ConfirmedViaOpaqueChannel}, nil
	}
	defer resp.Body.Close()

	detail := "error al agendar la cita"
	body, readErr := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if readErr == nil && len(body) > 0 {
		var er explicitResponse
		if json.Unmarshal(body, &er) == nil && strings.TrimSpace(er.Message) != "" {
			detail = strings.TrimSpace(er.Message)
		}
	}
	if c.logger != nil {
		c.logger.Warn("booking submission got a readable response",
			"status", resp.StatusCode, "barber", req.Barber, "date", req.Date)
	}
	return SubmitResult{Outcome: ExplicitFailure, Detail: detail}, nil
}
