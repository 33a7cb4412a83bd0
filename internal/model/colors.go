package model

// Palette of distinct colors assigned to departments that have no explicit
// color configured.
var departmentPalette = []string{
	"#FF0000", "#00FF00", "#0000FF", "#FFFF00", "#FF00FF",
	"#00FFFF", "#FF8000", "#8000FF", "#FF0080", "#80FF00",
	"#0080FF", "#FF8080", "#80FF80", "#8080FF", "#FFFF80",
	"#FF80FF", "#80FFFF", "#800000", "#008000", "#000080",
}

const fallbackColor = "#6B7280"

// DepartmentColor maps a department name to a palette entry. The same name
// always yields the same color, so a department keeps its visual identity
// across sessions without any stored state.
func DepartmentColor(nome string) string {
	if nome == "" {
		return fallbackColor
	}
	var hash int32
	for _, r := range nome {
		hash = hash<<5 - hash + int32(r)
	}
	if hash < 0 {
		hash = -hash
	}
	return departmentPalette[int(hash)%len(departmentPalette)]
}
