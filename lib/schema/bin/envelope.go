// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bin

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Envelope is a decoded outer message with each facet still in raw
// form. Facets are parsed on demand by the accessor methods.
type Envelope map[string]json.RawMessage

// DecodeEnvelope parses one message. The payload must be a JSON
// object; anything else is an error and nothing from it may be
// applied.
func DecodeEnvelope(data []byte) (Envelope, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("decoding bin message: payload is not a JSON object")
	}
	var envelope Envelope
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("decoding bin message: %w", err)
	}
	return envelope, nil
}

// facet returns the raw value for key. A key whose value is null is
// treated the same as a missing key.
func (e Envelope) facet(key string) (json.RawMessage, bool) {
	raw, ok := e[key]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), nullLiteral) {
		return nil, false
	}
	return raw, true
}

// Reading decodes the facet for category. present is false when the
// key is missing or null; err is set when the facet is present but
// malformed.
func (e Envelope) Reading(category Category) (reading CategoryReading, present bool, err error) {
	raw, ok := e.facet(string(category))
	if !ok {
		return CategoryReading{}, false, nil
	}
	if err := json.Unmarshal(raw, &reading); err != nil {
		return CategoryReading{}, true, fmt.Errorf("decoding %s reading: %w", category, err)
	}
	return reading, true, nil
}

// Global decodes the "global" facet.
func (e Envelope) Global() (status GlobalStatus, present bool, err error) {
	raw, ok := e.facet(KeyGlobal)
	if !ok {
		return GlobalStatus{}, false, nil
	}
	if err := json.Unmarshal(raw, &status); err != nil {
		return GlobalStatus{}, true, fmt.Errorf("decoding global status: %w", err)
	}
	return status, true, nil
}

// Alert decodes the "alert" facet.
func (e Envelope) Alert() (event AlertEvent, present bool, err error) {
	raw, ok := e.facet(KeyAlert)
	if !ok {
		return AlertEvent{}, false, nil
	}
	if err := json.Unmarshal(raw, &event); err != nil {
		return AlertEvent{}, true, fmt.Errorf("decoding alert: %w", err)
	}
	return event, true, nil
}

// Encode renders a Snapshot as one wire message. Nil facets are
// omitted.
func Encode(snapshot Snapshot) ([]byte, error) {
	out := make(map[string]any, len(snapshot.Categories)+2)
	for category, reading := range snapshot.Categories {
		out[string(category)] = reading
	}
	if snapshot.Global != nil {
		out[KeyGlobal] = snapshot.Global
	}
	if snapshot.Alert != nil {
		out[KeyAlert] = snapshot.Alert
	}
	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encoding bin message: %w", err)
	}
	return data, nil
}
