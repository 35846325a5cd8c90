// ABOUTME: Presentation hints for activity types and pipeline stages
// ABOUTME: Maps each enum value to an icon name and a colour variant for renderers
package viz

import "github.com/harperreed/crmboard/models"

// Hint is how a renderer should decorate one enum value.
type Hint struct {
	Icon    string `json:"icon"`
	Variant string `json:"variant"`
	Glyph   string `json:"glyph"`
}

var defaultHint = Hint{Icon: "Activity", Variant: "default", Glyph: "•"}

var activityHints = map[models.ActivityType]Hint{
	models.ActivityContactCreated:   {Icon: "UserPlus", Variant: "success", Glyph: "+"},
	models.ActivityContactUpdated:   {Icon: "UserCheck", Variant: "primary", Glyph: "~"},
	models.ActivityDealCreated:      {Icon: "Target", Variant: "success", Glyph: "$"},
	models.ActivityDealUpdated:      {Icon: "TrendingUp", Variant: "secondary", Glyph: "~"},
	models.ActivityDealStageChanged: {Icon: "ArrowRight", Variant: "warning", Glyph: "→"},
	models.ActivityTaskCreated:      {Icon: "CheckSquare", Variant: "primary", Glyph: "□"},
	models.ActivityTaskCompleted:    {Icon: "CheckCircle", Variant: "success", Glyph: "✓"},
	models.ActivityEmailSent:        {Icon: "Mail", Variant: "info", Glyph: "@"},
	models.ActivityCallMade:         {Icon: "Phone", Variant: "secondary", Glyph: "☎"},
	models.ActivityMeetingScheduled: {Icon: "Calendar", Variant: "warning", Glyph: "◷"},
	models.ActivityNoteAdded:        {Icon: "FileText", Variant: "default", Glyph: "✎"},
	models.ActivityLeadConverted:    {Icon: "UserCheck", Variant: "success", Glyph: "★"},
}

// ActivityHint returns the decoration for an activity type. Unknown types
// get a neutral hint.
func ActivityHint(t models.ActivityType) Hint {
	if h, ok := activityHints[t]; ok {
		return h
	}
	return defaultHint
}

var stageVariants = map[models.Stage]string{
	models.StageProspecting:   "secondary",
	models.StageQualification: "success",
	models.StageProposal:      "warning",
	models.StageNegotiation:   "info",
	models.StageClosedWon:     "success",
	models.StageClosedLost:    "error",
}

// StageVariant returns the colour variant for a board column.
func StageVariant(s models.Stage) string {
	if v, ok := stageVariants[s]; ok {
		return v
	}
	return "default"
}

// VariantColor maps a variant onto an ANSI 256 colour code for terminals.
func VariantColor(variant string) string {
	switch variant {
	case "primary":
		return "63"
	case "secondary":
		return "141"
	case "success":
		return "35"
	case "warning":
		return "214"
	case "info":
		return "39"
	case "error":
		return "196"
	}
	return "245"
}
