// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "testing"

func TestIsKnownSector(t *testing.T) {
	tests := []struct {
		sector string
		want   bool
	}{
		{"F-7", true},
		{"G-10", true},
		{"I-16", true},
		{"Z-1", false},
		{"f-7", false}, // sector tags are case-sensitive
		{"", false},
	}

	for _, tt := range tests {
		if got := IsKnownSector(tt.sector); got != tt.want {
			t.Errorf("IsKnownSector(%q) = %v, want %v", tt.sector, got, tt.want)
		}
	}
}

func TestIsKnownCategory(t *testing.T) {
	for _, c := range Categories {
		if !IsKnownCategory(c) {
			t.Errorf("IsKnownCategory(%q) = false, want true", c)
		}
	}
	if IsKnownCategory("Schools") {
		t.Error("IsKnownCategory(\"Schools\") = true, want false")
	}
}

func TestSectorTaxonomyShape(t *testing.T) {
	if len(SectorTaxonomy) != 9 {
		t.Fatalf("SectorTaxonomy has %d series, want 9", len(SectorTaxonomy))
	}
	for _, series := range SectorTaxonomy {
		if series.Name == "" || series.Description == "" {
			t.Errorf("series %+v missing name or description", series)
		}
		if len(series.Sectors) == 0 {
			t.Errorf("series %s has no sectors", series.Name)
		}
	}
}
