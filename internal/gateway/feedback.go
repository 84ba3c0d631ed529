// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gateway

import (
	"context"
	"log"
	"net/http"
)

// Feedback rates one answer.
type Feedback struct {
	Query      string `json:"query"`
	Response   string `json:"response"`
	WasHelpful bool   `json:"was_helpful"`
	Comment    string `json:"user_feedback"`
}

// SubmitFeedback records a rating for an answer. Errors use the same kinds
// as Ask.
func (c *Client) SubmitFeedback(ctx context.Context, token string, fb Feedback) error {
	if token == "" {
		return &QueryError{Kind: Unauthenticated}
	}

	resp, err := c.do(ctx, http.MethodPost, PathFeedback, token, fb)
	if err != nil {
		log.Printf("FEEDBACK_ERROR | kind=%s error=%v", QueryUnreachable, err)
		return &QueryError{Kind: QueryUnreachable, Err: err}
	}
	if !resp.ok() {
		qe := &QueryError{Kind: ServiceError, Status: resp.status, Message: resp.errorField()}
		log.Printf("FEEDBACK_ERROR | kind=%s status=%d error=%s", ServiceError, resp.status, qe.Message)
		return qe
	}

	log.Printf("FEEDBACK_SUBMITTED | helpful=%t", fb.WasHelpful)
	return nil
}
