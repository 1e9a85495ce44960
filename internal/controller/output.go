package controller

import (
	"github.com/ytlooper/server/internal/domain"
	"github.com/ytlooper/server/internal/service/looper"
)

type Output struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type sessionOutput struct {
	SessionID string `json:"session_id"`
}

// stateOutput carries the formatted times next to the raw snapshot, so the
// page never formats times itself.
type stateOutput struct {
	looper.Snapshot
	CurrentTimeText string `json:"current_time_text"`
	StartText       string `json:"start_text"`
	EndText         string `json:"end_text"`
}

func newStateOutput(snapshot looper.Snapshot) *Output {
	return &Output{
		Type: "STATE",
		Payload: stateOutput{
			Snapshot:        snapshot,
			CurrentTimeText: looper.FormatTime(snapshot.Session.CurrentTime),
			StartText:       looper.FormatTime(snapshot.Loop.StartSeconds),
			EndText:         looper.FormatTime(snapshot.Loop.EndSeconds),
		},
	}
}

type notificationOutput struct {
	Message string                  `json:"message"`
	Kind    domain.NotificationKind `json:"kind"`
	TTLMs   int64                   `json:"ttl_ms"`
}

func newNotificationOutput(n domain.Notification) *Output {
	return &Output{
		Type: "NOTIFICATION",
		Payload: notificationOutput{
			Message: n.Message,
			Kind:    n.Kind,
			TTLMs:   n.TTL.Milliseconds(),
		},
	}
}

type playerCommandOutput struct {
	Seq     uint64   `json:"seq"`
	Command string   `json:"command"`
	VideoID string   `json:"video_id,omitempty"`
	Seconds *float64 `json:"seconds,omitempty"`
}

type errorOutput struct {
	Error string `json:"error"`
	// Errors lists field errors of a payload that failed validation.
	Errors any `json:"errors,omitempty"`
}
