// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jeranaias/copilot-tui/internal/model"
)

// =============================================================================
// JSON EXPORTER
// =============================================================================

// JSONExporter exports conversations to JSON. Bot messages carry both the
// raw service text and its plain rendering.
type JSONExporter struct{}

// NewJSONExporter creates a JSON exporter.
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

type jsonConversation struct {
	User       model.User    `json:"user"`
	Service    string        `json:"service,omitempty"`
	ExportedAt time.Time     `json:"exported_at"`
	Messages   []jsonMessage `json:"messages"`
}

type jsonMessage struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
	Text      string    `json:"text"`
	Plain     string    `json:"plain,omitempty"`
	Query     string    `json:"query,omitempty"`
	Failed    bool      `json:"failed,omitempty"`
}

// Export converts a conversation to indented JSON.
func (e *JSONExporter) Export(conv *Conversation) ([]byte, error) {
	if conv == nil {
		return nil, fmt.Errorf("conversation is nil")
	}

	out := jsonConversation{
		User:       conv.User,
		Service:    conv.Service,
		ExportedAt: conv.ExportedAt,
		Messages:   make([]jsonMessage, 0, len(conv.Messages)),
	}
	for _, msg := range conv.Messages {
		jm := jsonMessage{
			ID:        msg.ID,
			Sender:    string(msg.Sender),
			Timestamp: msg.Timestamp,
			Text:      msg.Raw,
			Query:     msg.Query,
			Failed:    msg.Failed,
		}
		if msg.Sender == model.SenderBot {
			jm.Plain = msg.PlainText()
		}
		out.Messages = append(out.Messages, jm)
	}
	return json.MarshalIndent(out, "", "  ")
}

// FileExtension returns ".json".
func (e *JSONExporter) FileExtension() string {
	return ".json"
}
