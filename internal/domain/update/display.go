package update

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// DisplayDateLayout is the layout of Display.Date.
const DisplayDateLayout = "02 Jan 2006"

// BadgeKind classifies how an update's impact badge is drawn.
type BadgeKind string

const (
	BadgeProgress    BadgeKind = "progress"
	BadgeImpact      BadgeKind = "impact"
	BadgeNoValue     BadgeKind = "impact_no_value"
	BadgeNoIndicator BadgeKind = "no_indicator"
	// BadgeUnknown marks a type this version does not recognise.
	BadgeUnknown     BadgeKind = "unknown"
)

// Badge is the impact label shown next to an update.
type Badge struct {
	Kind  BadgeKind `json:"kind"`
	Label string    `json:"label"`
	// Value is the formatted number, empty unless Kind is BadgeImpact.
	Value string `json:"value,omitempty"`
}

// Display holds the derived presentation fields of one update.
type Display struct {
	RelativeDate string `json:"relative_date"`
	Date         string `json:"date"`
	Badge        Badge  `json:"badge"`
}

// Row is an update paired with its display fields.
type Row struct {
	Update
	Display Display `json:"display"`
}

// ComputeDisplayFields derives the presentation fields of u relative to now.
// It reads nothing but its arguments.
func ComputeDisplayFields(u Update, now time.Time) Display {
	return Display{
		RelativeDate: humanize.RelTime(u.Date, now, "ago", "from now"),
		Date:         u.Date.Format(DisplayDateLayout),
		Badge:        badgeFor(u),
	}
}

// Rows pairs every update with its display fields.
func Rows(updates []Update, now time.Time) []Row {
	rows := make([]Row, len(updates))
	for i, u := range updates {
		rows[i] = Row{Update: u, Display: ComputeDisplayFields(u, now)}
	}
	return rows
}

func badgeFor(u Update) Badge {
	switch u.Type {
	case TypeProgress:
		return Badge{Kind: BadgeProgress, Label: "Progress update"}
	case TypeImpact:
	default:
		return Badge{Kind: BadgeUnknown, Label: "Unknown update"}
	}
	if u.ImpactIndicator == nil {
		return Badge{Kind: BadgeNoIndicator, Label: "No impact indicator"}
	}
	if u.Value == nil {
		return Badge{Kind: BadgeNoValue, Label: "Impact update"}
	}
	value := FormatValue(*u.Value)
	label := value
	if unit := strings.TrimSpace(u.ImpactIndicator.Unit); unit != "" {
		label = value + " " + unit
	}
	return Badge{Kind: BadgeImpact, Label: label, Value: value}
}

// FormatValue formats v with thousands separators.
func FormatValue(v float64) string {
	return humanize.Commaf(v)
}
