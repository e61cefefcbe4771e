package domain

type Stage string

const (
	StageInitial Stage = "initial"
	StageFinal   Stage = "final"
	StageClosing Stage = "closing"
)

// Stages lists the budget lifecycle stages in order.
var Stages = []Stage{StageInitial, StageFinal, StageClosing}

type Phase string

const (
	PhasePre        Phase = "pre"
	PhaseProduction Phase = "production"
	PhasePost       Phase = "post"
)

// Phases lists the production phases in order.
var Phases = []Phase{PhasePre, PhaseProduction, PhasePost}

type StageStatus string

const (
	StatusOpen   StageStatus = "open"
	StatusLocked StageStatus = "locked"
)

type PayBasis string

const (
	PayDaily  PayBasis = "daily"
	PayWeekly PayBasis = "weekly"
	PayFlat   PayBasis = "flat"
)

type UnitType string

const (
	UnitCache UnitType = "cache"
	UnitVerba UnitType = "verba"
	UnitExtra UnitType = "extra"
)

type ComplementaryType string

const (
	CompPickup     ComplementaryType = "pickup"
	CompDelivery   ComplementaryType = "delivery"
	CompCheck      ComplementaryType = "check"
	CompSetup      ComplementaryType = "setup"
	CompStrike     ComplementaryType = "strike"
	CompPreCallDay ComplementaryType = "pre_call_day"
	CompPreLight   ComplementaryType = "pre_light"
	CompScout      ComplementaryType = "scout"
	CompOther      ComplementaryType = "other"
)

type PayStatus string

const (
	PayPending PayStatus = "pending"
	PayPaid    PayStatus = "paid"
)

// CateringMode tells whether the catering row follows the derived team cost
// or keeps a manually entered value. The zero value behaves as derived.
type CateringMode string

const (
	CateringDerived    CateringMode = "derived"
	CateringOverridden CateringMode = "overridden"
)

type RowKind string

const (
	KindPeople RowKind = "people"
	KindLabor  RowKind = "labor"
	KindCost   RowKind = "cost"
)

// ValidStages is the canonical set of accepted stage strings.
var ValidStages = map[string]bool{
	"initial": true, "final": true, "closing": true,
}

// ValidPhases is the canonical set of accepted phase strings.
var ValidPhases = map[string]bool{
	"pre": true, "production": true, "post": true,
}

// ValidPayBases is the canonical set of accepted pay basis strings.
var ValidPayBases = map[string]bool{
	"daily": true, "weekly": true, "flat": true,
}

// ValidUnitTypes is the canonical set of accepted cost unit type strings.
var ValidUnitTypes = map[string]bool{
	"cache": true, "verba": true, "extra": true,
}

// ValidComplementaryTypes is the canonical set of accepted complementary line types.
var ValidComplementaryTypes = map[string]bool{
	"pickup": true, "delivery": true, "check": true, "setup": true, "strike": true,
	"pre_call_day": true, "pre_light": true, "scout": true, "other": true,
}

// ValidRowKinds is the canonical set of accepted row kind strings.
var ValidRowKinds = map[string]bool{
	"people": true, "labor": true, "cost": true,
}

// ValidPayStatuses is the canonical set of accepted pay status strings.
var ValidPayStatuses = map[string]bool{
	"pending": true, "paid": true,
}
