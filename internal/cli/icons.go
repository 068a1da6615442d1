package cli

// DefaultIcon is shown for commitments without a known icon.
const DefaultIcon = "💸"

var icons = map[string]string{
	"Rumah Sewa":     "🏠",
	"Ninja":          "🏍️",
	"ASB Saving":     "💰",
	"ASBF":           "🏦",
	"Insurance":      "🛡️",
	"S24 Ultra":      "📱",
	"Tabung Haji":    "🕌",
	"Telephone":      "☎️",
	"Microsoft":      "💻",
	"Parents":        "👨‍👩‍👦",
	"Shopee":         "🛒",
	"Google Storage": "☁️",
	"Siblings":       "👥",
	"Makan":          "🍽️",
	"TNG":            "💳",
	"Foodpanda":      "🐼",
	"DigitalOcean":   "🌊",
	"Claude":         "🤖",
}

// Icon returns the display icon for a commitment name.
func Icon(name string) string {
	if icon, ok := icons[name]; ok {
		return icon
	}
	return DefaultIcon
}
