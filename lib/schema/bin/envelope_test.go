// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bin

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestDecodeEnvelopeRejectsNonObjects(t *testing.T) {
	for _, payload := range []string{"", "   ", "null", "[]", `"cans"`, "42", "{not json", `{"cans":`} {
		if _, err := DecodeEnvelope([]byte(payload)); err == nil {
			t.Errorf("DecodeEnvelope(%q) succeeded, want error", payload)
		}
	}
}

func TestReadingDistinguishesAbsentNullAndValue(t *testing.T) {
	envelope, err := DecodeEnvelope([]byte(`{
		"cans": {"distance": 12.5, "status": "Ready"},
		"papers": {"distance": null},
		"plastics": {"status": "FULL"}
	}`))
	if err != nil {
		t.Fatalf("DecodeEnvelope: %v", err)
	}

	cans, present, err := envelope.Reading(CategoryCans)
	if err != nil || !present {
		t.Fatalf("Reading(cans) = present %v, err %v", present, err)
	}
	if distance, ok := cans.Distance.Get(); !ok || distance != 12.5 {
		t.Errorf("cans distance = %v (ok=%v), want 12.5", distance, ok)
	}
	if status, ok := cans.Status.Get(); !ok || status != "Ready" {
		t.Errorf("cans status = %q (ok=%v), want Ready", status, ok)
	}

	papers, _, _ := envelope.Reading(CategoryPapers)
	if !papers.Distance.Set || !papers.Distance.Null {
		t.Errorf("papers distance = %+v, want explicit null", papers.Distance)
	}
	if papers.Status.Present() {
		t.Errorf("papers status should be absent, got %+v", papers.Status)
	}

	plastics, _, _ := envelope.Reading(CategoryPlastics)
	if plastics.Distance.Present() {
		t.Errorf("plastics distance should be absent, got %+v", plastics.Distance)
	}
}

func TestNullAndMissingFacetsAreNotPresent(t *testing.T) {
	envelope, err := DecodeEnvelope([]byte(`{"cans": null, "global": null}`))
	if err != nil {
		t.Fatalf("DecodeEnvelope: %v", err)
	}
	if _, present, _ := envelope.Reading(CategoryCans); present {
		t.Error("null cans facet reported as present")
	}
	if _, present, _ := envelope.Reading(CategoryPapers); present {
		t.Error("missing papers facet reported as present")
	}
	if _, present, _ := envelope.Global(); present {
		t.Error("null global facet reported as present")
	}
	if _, present, _ := envelope.Alert(); present {
		t.Error("missing alert facet reported as present")
	}
}

// A malformed facet is reported on its own; sibling facets still decode.
func TestMalformedFacetIsIsolated(t *testing.T) {
	envelope, err := DecodeEnvelope([]byte(`{
		"cans": {"distance": "far"},
		"papers": {"distance": 3},
		"global": {"servo": 7}
	}`))
	if err != nil {
		t.Fatalf("DecodeEnvelope: %v", err)
	}
	if _, present, err := envelope.Reading(CategoryCans); !present || err == nil {
		t.Errorf("Reading(cans) = present %v, err %v; want present with error", present, err)
	}
	if _, present, err := envelope.Global(); !present || err == nil {
		t.Errorf("Global() = present %v, err %v; want present with error", present, err)
	}
	papers, present, err := envelope.Reading(CategoryPapers)
	if !present || err != nil {
		t.Fatalf("Reading(papers) = present %v, err %v", present, err)
	}
	if distance, _ := papers.Distance.Get(); distance != 3 {
		t.Errorf("papers distance = %v, want 3", distance)
	}
}

func TestAlertDecode(t *testing.T) {
	envelope, err := DecodeEnvelope([]byte(`{"alert": {"type": "wrong", "message": "Can in paper slot"}}`))
	if err != nil {
		t.Fatalf("DecodeEnvelope: %v", err)
	}
	event, present, err := envelope.Alert()
	if err != nil || !present {
		t.Fatalf("Alert() = present %v, err %v", present, err)
	}
	if event.Type != AlertKindWrong || event.Message != "Can in paper slot" {
		t.Errorf("Alert() = %+v", event)
	}
}

func TestEncodeOmitsAbsentFields(t *testing.T) {
	data, err := Encode(Snapshot{
		Categories: map[Category]CategoryReading{
			CategoryCans:   {Distance: Some(8.0)},
			CategoryPapers: {Distance: Null[float64](), Status: Some("Ready")},
		},
		Global: &GlobalStatus{Servo: Some("Closed")},
	})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	var object map[string]map[string]any
	if err := json.Unmarshal(data, &object); err != nil {
		t.Fatalf("unmarshal encoded message: %v", err)
	}
	if _, ok := object["cans"]["status"]; ok {
		t.Errorf("absent cans status was encoded: %s", data)
	}
	if value, ok := object["papers"]["distance"]; !ok || value != nil {
		t.Errorf("papers distance = %v (present=%v), want explicit null", value, ok)
	}
	if _, ok := object["global"]["stepper"]; ok {
		t.Errorf("absent stepper was encoded: %s", data)
	}
	if strings.Contains(string(data), `"alert"`) {
		t.Errorf("nil alert was encoded: %s", data)
	}
}
