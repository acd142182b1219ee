// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package bin defines the wire types streamed by a smart waste bin
// controller: per-compartment readings, the shared actuator status,
// and misplaced-item alerts.
//
// Every message is one JSON object. Each top-level key is an
// independent facet that may be absent:
//
//	{
//	  "cans":     {"distance": 12.5, "status": "Ready"},
//	  "papers":   {"distance": null},
//	  "plastics": {"status": "FULL (change >= 1cm)"},
//	  "global":   {"servo": "Open", "stepper": "Papers (2800 Steps)"},
//	  "alert":    {"type": "wrong", "message": "..."}
//	}
//
// A producer sends partial updates freely, so the types here keep
// three states for every optional field: absent, explicit null, and a
// value. [Field] carries that distinction; consumers must never treat
// an absent field as a reset.
//
// [DecodeEnvelope] parses the outer object only. Facets decode lazily
// and independently through [Envelope.Reading], [Envelope.Global], and
// [Envelope.Alert], so one malformed facet does not discard the rest
// of the message.
package bin
