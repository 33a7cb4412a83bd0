package model

import (
	"fmt"
	"regexp"
)

// Department is a routing target for triaged emails. Nome is the unique key.
type Department struct {
	Nome        string `json:"nome"`
	Descrizione string `json:"descrizione"`
	Email       string `json:"email"`
	Icon        string `json:"icon,omitempty"`
	Color       string `json:"color,omitempty"`
}

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Validate checks the fields that must be correct before the department is
// sent to the backend. Icon and Color are optional overrides of the
// deterministic defaults.
func (d *Department) Validate() error {
	if d.Nome == "" {
		return fmt.Errorf("department name is required")
	}
	if d.Email == "" {
		return fmt.Errorf("department email is required")
	}
	if d.Color != "" && !hexColorPattern.MatchString(d.Color) {
		return fmt.Errorf("invalid hex color: %s", d.Color)
	}
	if d.Icon != "" && !IsKnownIcon(d.Icon) {
		return fmt.Errorf("unknown icon: %s", d.Icon)
	}
	return nil
}

// DisplayColor returns the explicit color when set, otherwise the
// deterministic default for the department name.
func (d *Department) DisplayColor() string {
	if d.Color != "" {
		return d.Color
	}
	return DepartmentColor(d.Nome)
}

// DisplayIcon returns the explicit icon when set, otherwise the catalog
// default.
func (d *Department) DisplayIcon() string {
	if d.Icon != "" {
		return d.Icon
	}
	return DefaultDepartmentIcon
}
