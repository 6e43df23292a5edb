package view

// Icon names follow the outline icon set the web templates draw.
const (
	IconCheckCircle = "check-circle"
	IconXCircle     = "x-circle"
	IconScale       = "scale"
	IconNoSymbol    = "no-symbol"
)

// BadgeSpec describes both faces of a feature badge.
type BadgeSpec struct {
	ActiveText    string
	InactiveText  string
	ActiveIcon    string
	InactiveIcon  string
	ActiveClass   string
	InactiveClass string
}

type Badge struct {
	Active bool
	Text   string
	Icon   string
	Class  string
}

var (
	RoadLegal = BadgeSpec{
		ActiveText:    "Road Legal",
		InactiveText:  "Not Road Legal",
		ActiveIcon:    IconCheckCircle,
		InactiveIcon:  IconXCircle,
		ActiveClass:   "bg-green-50 text-green-700 border border-green-100",
		InactiveClass: "bg-red-50 text-red-700 border border-red-100",
	}

	HeavyWaste = BadgeSpec{
		ActiveText:    "Heavy Waste Allowed",
		InactiveText:  "Light Waste Only",
		ActiveIcon:    IconScale,
		InactiveIcon:  IconNoSymbol,
		ActiveClass:   "bg-blue-50 text-blue-700 border border-blue-100",
		InactiveClass: "bg-yellow-50 text-yellow-700 border border-yellow-100",
	}
)

func FeatureBadge(active bool, spec BadgeSpec) Badge {
	if active {
		return Badge{Active: true, Text: spec.ActiveText, Icon: spec.ActiveIcon, Class: spec.ActiveClass}
	}
	return Badge{Text: spec.InactiveText, Icon: spec.InactiveIcon, Class: spec.InactiveClass}
}
