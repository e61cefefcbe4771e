package domain

import (
	"sort"
	"strings"
)

// Department is a named cost category inside a phase. Any non-empty key is
// accepted; the catalog below only fixes display order and the departments
// the catering rule treats specially.
type Department string

const (
	DeptProduction     Department = "production"
	DeptDirection      Department = "direction"
	DeptPhotography    Department = "photography"
	DeptArt            Department = "art"
	DeptWardrobe       Department = "wardrobe"
	DeptMakeup         Department = "makeup"
	DeptSound          Department = "sound"
	DeptCasting        Department = "casting"
	DeptCatering       Department = "catering"
	DeptEquipment      Department = "equipment"
	DeptLocations      Department = "locations"
	DeptTransport      Department = "transport"
	DeptPostProduction Department = "post_production"
	DeptGeneral        Department = "general"
)

// Departments is the catalog in display order.
var Departments = []Department{
	DeptProduction, DeptDirection, DeptPhotography, DeptArt, DeptWardrobe,
	DeptMakeup, DeptSound, DeptCasting, DeptCatering, DeptEquipment,
	DeptLocations, DeptTransport, DeptPostProduction, DeptGeneral,
}

// PersonDepartments hold crew whose headcount feeds the catering estimate.
var PersonDepartments = map[Department]bool{
	DeptProduction:  true,
	DeptDirection:   true,
	DeptPhotography: true,
	DeptArt:         true,
	DeptWardrobe:    true,
	DeptMakeup:      true,
	DeptSound:       true,
}

// ParseDepartment normalizes user input into a department key.
// Returns false for blank input.
func ParseDepartment(s string) (Department, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.ReplaceAll(key, " ", "_")
	key = strings.ReplaceAll(key, "-", "_")
	if key == "" {
		return "", false
	}
	return Department(key), true
}

// SortDepartments orders department keys by catalog position, with unknown
// keys after the catalog in alphabetical order.
func SortDepartments(depts []Department) {
	rank := make(map[Department]int, len(Departments))
	for i, d := range Departments {
		rank[d] = i
	}
	sort.SliceStable(depts, func(i, j int) bool {
		ri, iKnown := rank[depts[i]]
		rj, jKnown := rank[depts[j]]
		switch {
		case iKnown && jKnown:
			return ri < rj
		case iKnown:
			return true
		case jKnown:
			return false
		default:
			return depts[i] < depts[j]
		}
	})
}
