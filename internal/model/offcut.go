package model

import "sort"

// Offcut is the unused tail of a roll that is long enough to be reused on a later job.
type Offcut struct {
	RollNumber int            `json:"roll_number"`
	Foil       FoilAssignment `json:"foil"`
	RollWidth  RollWidth      `json:"roll_width"`
	Length     float64        `json:"length"`
	Area       float64        `json:"area"`
}

// IsReusable reports whether a roll remainder of the given length is worth keeping.
func IsReusable(length, threshold float64) bool {
	return length > 0 && length >= threshold
}

// DetectOffcuts lists the reusable remainders of the given rolls, largest first.
// Rolls with equal remainders keep their roll order.
func DetectOffcuts(rolls []RollAllocation, threshold float64) []Offcut {
	var offcuts []Offcut
	for _, r := range rolls {
		if !IsReusable(r.WasteLength, threshold) {
			continue
		}
		offcuts = append(offcuts, Offcut{
			RollNumber: r.Number,
			Foil:       r.Foil,
			RollWidth:  r.RollWidth,
			Length:     r.WasteLength,
			Area:       r.WasteLength * float64(r.RollWidth),
		})
	}
	sort.SliceStable(offcuts, func(i, j int) bool {
		return offcuts[i].Area > offcuts[j].Area
	})
	return offcuts
}

// TotalOffcutArea returns the total area of all offcuts in m².
func TotalOffcutArea(offcuts []Offcut) float64 {
	var total float64
	for _, o := range offcuts {
		total += o.Area
	}
	return total
}
