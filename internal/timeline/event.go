package timeline

// ItemKind identifies the class of a produced item.
type ItemKind string

const (
	// Unit covers all trainable units, military and economic.
	Unit ItemKind = "Unit"
	// Building covers constructed structures.
	Building ItemKind = "Building"
	// Age covers age-up research.
	Age ItemKind = "Age"
	// Upgrade covers unit and economy upgrades.
	Upgrade ItemKind = "Upgrade"
	// Animal covers trained animals (e.g. sheep from certain landmarks).
	Animal ItemKind = "Animal"
)

// EventType is the lifecycle point an item reached.
type EventType string

const (
	// Constructed marks the start of production or construction.
	Constructed EventType = "Constructed"
	// Finished marks completed production. Most derived statistics key
	// off Finished timestamps.
	Finished EventType = "Finished"
	// Destroyed marks the loss of the item.
	Destroyed EventType = "Destroyed"
)

// ProductionEvent is one instant at which a trackable item reached a
// lifecycle point.
type ProductionEvent struct {
	// Kind is the item class.
	Kind ItemKind `json:"kind"`
	// ItemID is the stable identifier of the produced thing. It is an
	// opaque key; display names come from an injected lookup.
	ItemID string `json:"itemId"`
	// Pbgid is the numeric game-data key carried through for name
	// resolution in the presentation layer.
	Pbgid int `json:"pbgid,omitempty"`
	// Seconds is the offset from game start.
	Seconds int `json:"seconds"`
	// Type is the lifecycle point recorded.
	Type EventType `json:"eventType"`
}
