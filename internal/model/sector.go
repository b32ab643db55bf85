// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// SectorSeries groups the sectors of one letter series with a short
// description, as shown in the listing sidebar.
type SectorSeries struct {
	Name        string
	Description string
	Sectors     []string
}

// SectorTaxonomy is the fixed Islamabad sector taxonomy, ordered A through I.
var SectorTaxonomy = []SectorSeries{
	{Name: "A-Series", Description: "Northernmost sectors — mostly restricted/Govt. areas", Sectors: []string{"A-16", "A-17", "A-18"}},
	{Name: "B-Series", Description: "Somewhat planned but not fully developed", Sectors: []string{"B-16", "B-17", "B-18"}},
	{Name: "C-Series", Description: "Central residential areas", Sectors: []string{"C-15", "C-16", "C-17"}},
	{Name: "D-Series", Description: "Under Development or Institutional Areas", Sectors: []string{"D-12", "D-13", "D-14", "D-15", "D-16"}},
	{Name: "E-Series", Description: "Elite residential areas", Sectors: []string{"E-7", "E-8", "E-9", "E-10", "E-11"}},
	{Name: "F-Series", Description: "Central and upscale", Sectors: []string{"F-5", "F-6", "F-7", "F-8", "F-9", "F-10", "F-11"}},
	{Name: "G-Series", Description: "Densely populated, residential + commercial", Sectors: []string{"G-5", "G-6", "G-7", "G-8", "G-9", "G-10", "G-11", "G-12", "G-13", "G-14"}},
	{Name: "H-Series", Description: "Mostly institutional/educational", Sectors: []string{"H-8", "H-9", "H-10", "H-11", "H-12"}},
	{Name: "I-Series", Description: "Affordable housing, mix of residential & institutions", Sectors: []string{"I-8", "I-9", "I-10", "I-11", "I-12", "I-13", "I-14", "I-15", "I-16"}},
}

// Categories is the fixed set of content categories.
var Categories = []string{
	"Restaurants",
	"Parks & Grounds",
	"Gyms & Pools",
	"Cafes & Desserts",
	"Activities & Events",
}

// IsKnownSector reports whether s appears in the sector taxonomy.
func IsKnownSector(s string) bool {
	for _, series := range SectorTaxonomy {
		for _, sector := range series.Sectors {
			if sector == s {
				return true
			}
		}
	}
	return false
}

// IsKnownCategory reports whether c is one of the fixed categories.
func IsKnownCategory(c string) bool {
	for _, category := range Categories {
		if category == c {
			return true
		}
	}
	return false
}
