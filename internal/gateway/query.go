// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
)

// Suggestion is an automation hint attached to an answer.
type Suggestion struct {
	Command     string `json:"command"`
	Description string `json:"description"`
}

// QueryResponse is the service's answer to one query. Only Response is
// shown in the transcript.
type QueryResponse struct {
	Response              string              `json:"response"`
	Intent                string              `json:"intent"`
	Entities              map[string][]string `json:"entities"`
	AutomationSuggestions []Suggestion        `json:"automation_suggestions"`
	KBMatches             []string            `json:"kb_matches"`
}

type queryRequest struct {
	Query string `json:"query"`
}

// Ask sends one query. Without a token no request is made.
func (c *Client) Ask(ctx context.Context, token, query string) (QueryResponse, error) {
	if token == "" {
		log.Printf("QUERY_ERROR | kind=%s", Unauthenticated)
		return QueryResponse{}, &QueryError{Kind: Unauthenticated}
	}

	resp, err := c.do(ctx, http.MethodPost, PathQuery, token, queryRequest{Query: query})
	if err != nil {
		log.Printf("QUERY_ERROR | kind=%s error=%v", QueryUnreachable, err)
		return QueryResponse{}, &QueryError{Kind: QueryUnreachable, Err: err}
	}

	if !resp.ok() {
		qe := &QueryError{Kind: ServiceError, Status: resp.status, Message: resp.errorField()}
		log.Printf("QUERY_ERROR | kind=%s status=%d error=%s", ServiceError, resp.status, qe.Message)
		return QueryResponse{}, qe
	}

	var qr QueryResponse
	if err := json.Unmarshal(resp.body, &qr); err != nil {
		log.Printf("QUERY_ERROR | kind=%s status=%d error=%v", ServiceError, resp.status, err)
		return QueryResponse{}, &QueryError{
			Kind:   ServiceError,
			Status: resp.status,
			Err:    fmt.Errorf("failed to decode answer: %w", err),
		}
	}

	log.Printf("QUERY_ANSWERED | intent=%s suggestions=%d kb_matches=%d",
		qr.Intent, len(qr.AutomationSuggestions), len(qr.KBMatches))
	return qr, nil
}
