package model

// DefaultDepartmentIcon is used for departments without an explicit icon.
const DefaultDepartmentIcon = "Building2"

// IconCategory groups the selectable department icons by theme.
type IconCategory struct {
	Name  string   `json:"name"`
	Label string   `json:"label"`
	Icons []string `json:"icons"`
}

// DepartmentIconCategories is the fixed catalog of symbolic icon names a
// department may use.
var DepartmentIconCategories = []IconCategory{
	{Name: "business", Label: "Business & Management", Icons: []string{"Building2", "Briefcase", "TrendingUp", "PieChart", "BarChart3", "Target"}},
	{Name: "technical", Label: "Technical & IT", Icons: []string{"Wrench", "Settings", "Cpu", "HardDrive", "Wifi", "Server", "Code", "Terminal"}},
	{Name: "healthcare", Label: "Healthcare & Medical", Icons: []string{"Heart", "Activity", "Stethoscope", "Pill", "Syringe", "Hospital"}},
	{Name: "education", Label: "Education & Training", Icons: []string{"GraduationCap", "BookOpen", "School", "Award", "Library", "Pencil"}},
	{Name: "communication", Label: "Communication & Support", Icons: []string{"Mail", "Phone", "MessageSquare", "Headphones", "Send", "Radio"}},
	{Name: "transport", Label: "Transport & Logistics", Icons: []string{"Truck", "Car", "Package", "Plane", "Ship", "MapPin"}},
	{Name: "finance", Label: "Finance & Accounting", Icons: []string{"DollarSign", "CreditCard", "Wallet", "Calculator", "TrendingDown", "Receipt"}},
	{Name: "people", Label: "People & HR", Icons: []string{"Users", "User", "UserCheck", "Contact", "UserPlus", "Shield"}},
	{Name: "creative", Label: "Creative & Media", Icons: []string{"Palette", "Camera", "Film", "Music", "Image", "Sparkles"}},
	{Name: "security", Label: "Security & Safety", Icons: []string{"Lock", "Key", "Eye", "ShieldCheck", "AlertTriangle", "ShieldAlert"}},
	{Name: "retail", Label: "Retail & Sales", Icons: []string{"Home", "Store", "ShoppingCart", "Tag", "Gift", "Percent"}},
	{Name: "general", Label: "General Purpose", Icons: []string{"Globe", "Leaf", "Lightbulb", "Zap", "Flame", "Sun"}},
	{Name: "data", Label: "Data & Storage", Icons: []string{"FileText", "Folder", "Archive", "Database", "HardDriveDownload", "Cloud"}},
	{Name: "time", Label: "Time & Scheduling", Icons: []string{"Clock", "Calendar", "Timer", "AlarmClock", "Hourglass", "Watch"}},
	{Name: "favorites", Label: "Favorites & Priority", Icons: []string{"Star", "Heart", "Flag", "Bookmark", "Award", "Medal"}},
	{Name: "tools", Label: "Tools & Maintenance", Icons: []string{"Wrench", "Hammer", "Scissors", "Ruler", "Paintbrush", "Pipette"}},
}

var knownIcons = buildIconSet()

func buildIconSet() map[string]struct{} {
	icons := make(map[string]struct{})
	for _, category := range DepartmentIconCategories {
		for _, icon := range category.Icons {
			icons[icon] = struct{}{}
		}
	}
	return icons
}

// IsKnownIcon reports whether the icon name is part of the fixed catalog.
func IsKnownIcon(name string) bool {
	_, ok := knownIcons[name]
	return ok
}

// AllIcons returns the flat list of available icon names.
func AllIcons() []string {
	var icons []string
	seen := make(map[string]struct{})
	for _, category := range DepartmentIconCategories {
		for _, icon := range category.Icons {
			if _, ok := seen[icon]; ok {
				continue
			}
			seen[icon] = struct{}{}
			icons = append(icons, icon)
		}
	}
	return icons
}
