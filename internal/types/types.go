// Package types provides shared types used across the districtkpi codebase.
// This package is at the bottom of the dependency graph and should not import
// any other internal packages to avoid circular dependencies.
package types

import (
	"fmt"
	"strings"
)

// District identifies one of the six assessed districts or the synthesized
// city aggregate.
type District int

// Districts in display order. City is always last and is never an input row.
const (
	East District = iota
	Gaoxin
	West
	Renhe
	Miyi
	Yanbian
	City
)

// DistrictCount is the number of real districts (City excluded).
const DistrictCount = 6

// SlotCount is the number of rows in a result table: every district plus City.
const SlotCount = DistrictCount + 1

var districtKeys = [SlotCount]string{"east", "gaoxin", "west", "renhe", "miyi", "yanbian", "city"}

var districtNames = [SlotCount]string{"东区", "高新", "西区", "仁和", "米易", "盐边", "全市"}

// AllDistricts returns the six real districts in display order.
func AllDistricts() []District {
	return []District{East, Gaoxin, West, Renhe, Miyi, Yanbian}
}

// AllSlots returns the six districts followed by City.
func AllSlots() []District {
	return append(AllDistricts(), City)
}

// Key returns the config/file key for the district, e.g. "east".
func (d District) Key() string {
	if !d.Valid() {
		return fmt.Sprintf("district(%d)", int(d))
	}
	return districtKeys[d]
}

// Name returns the Chinese display name, e.g. "东区".
func (d District) Name() string {
	if !d.Valid() {
		return d.Key()
	}
	return districtNames[d]
}

// String implements fmt.Stringer.
func (d District) String() string {
	return d.Key()
}

// Valid reports whether d is one of the six districts or City.
func (d District) Valid() bool {
	return d >= East && d <= City
}

// IsCity reports whether d is the city aggregate.
func (d District) IsCity() bool {
	return d == City
}

// ParseDistrict resolves a config key ("east") or a display name ("东区").
func ParseDistrict(s string) (District, error) {
	s = strings.TrimSpace(s)
	for i := range districtKeys {
		if strings.EqualFold(s, districtKeys[i]) || s == districtNames[i] {
			return District(i), nil
		}
	}
	return 0, fmt.Errorf("unknown district %q", s)
}

// Module identifies one of the three scoring programs.
type Module string

// Scoring program constants.
const (
	ModuleComplaint Module = "complaint" // complaint and repeat-fault management
	ModuleDelivery  Module = "delivery"  // delivery timeliness and success
	ModuleOutage    Module = "outage"    // dedicated-circuit outage control
)

// AllModules returns every module in report order.
func AllModules() []Module {
	return []Module{ModuleComplaint, ModuleDelivery, ModuleOutage}
}

// ParseModule resolves a module name.
func ParseModule(s string) (Module, error) {
	switch Module(strings.ToLower(strings.TrimSpace(s))) {
	case ModuleComplaint:
		return ModuleComplaint, nil
	case ModuleDelivery:
		return ModuleDelivery, nil
	case ModuleOutage:
		return ModuleOutage, nil
	default:
		return "", fmt.Errorf("unknown module %q: must be complaint, delivery, or outage", s)
	}
}

// MarshalText encodes the district as its key so it can be used in JSON
// documents and as a map key.
func (d District) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("invalid district %d", int(d))
	}
	return []byte(d.Key()), nil
}

// UnmarshalText accepts anything ParseDistrict accepts.
func (d *District) UnmarshalText(text []byte) error {
	parsed, err := ParseDistrict(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
