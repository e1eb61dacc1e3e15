// Package inventory applies material drawdowns to on-hand inventory exactly
// once per production event.
package inventory

import (
	"github.com/google/uuid"
	"github.com/iwvelando/field-forecast/pkg/earnedvalue"
	"go.uber.org/zap"
)

// keyNamespace seeds the UUIDs used for event IDs that are not UUIDs.
var keyNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/iwvelando/field-forecast/inventory"))

// Ledger tracks on-hand inventory and the events already drawn against it.
type Ledger struct {
	logger  *zap.Logger
	items   []earnedvalue.InventoryItem
	applied map[uuid.UUID]struct{}
}

// NewLedger creates a ledger over a copy of the given inventory.
// If logger is nil, it will use a no-op logger to prevent panics.
func NewLedger(logger *zap.Logger, items []earnedvalue.InventoryItem) *Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}
	copied := make([]earnedvalue.InventoryItem, len(items))
	copy(copied, items)
	return &Ledger{
		logger:  logger,
		items:   copied,
		applied: make(map[uuid.UUID]struct{}),
	}
}

// Key returns the ledger key for an event ID. UUIDs are used as-is; any
// other ID is mapped to a name-based UUID.
func Key(eventID string) uuid.UUID {
	if parsed, err := uuid.Parse(eventID); err == nil {
		return parsed
	}
	return uuid.NewSHA1(keyNamespace, []byte(eventID))
}

// Apply deducts the drawdowns for an event unless that event was already
// applied. It reports whether the drawdowns were applied.
func (l *Ledger) Apply(eventID string, drawdowns []earnedvalue.Drawdown) bool {
	key := Key(eventID)
	if _, seen := l.applied[key]; seen {
		l.logger.Debug("drawdown already applied",
			zap.String("op", "inventory.Apply"),
			zap.String("event", eventID),
		)
		return false
	}

	l.items = earnedvalue.ApplyDrawdown(l.items, drawdowns)
	l.applied[key] = struct{}{}
	for _, drawdown := range drawdowns {
		l.logger.Debug("material drawn down",
			zap.String("op", "inventory.Apply"),
			zap.String("event", eventID),
			zap.String("material", drawdown.Material),
			zap.Float64("qty", drawdown.Qty),
		)
	}
	return true
}

// ApplyEvents draws down inventory for each event in order using that
// event's installed quantity. Events for unknown codes are skipped. It
// returns the number of events newly applied.
func (l *Ledger) ApplyEvents(units []earnedvalue.WorkUnit, events []earnedvalue.ProductionEvent) int {
	byCode := make(map[string]earnedvalue.WorkUnit, len(units))
	for _, unit := range units {
		if _, exists := byCode[unit.Code]; !exists {
			byCode[unit.Code] = unit
		}
	}

	applied := 0
	for _, event := range events {
		unit, ok := byCode[event.Code]
		if !ok {
			l.logger.Warn("skipping drawdown for unknown work unit",
				zap.String("op", "inventory.ApplyEvents"),
				zap.String("code", event.Code),
				zap.String("event", event.ID),
			)
			continue
		}
		drawdowns := earnedvalue.MaterialDrawdown(event.Qty, unit)
		if len(drawdowns) == 0 {
			continue
		}
		if l.Apply(event.ID, drawdowns) {
			applied++
		}
	}
	return applied
}

// Applied reports whether the event's drawdown has been applied.
func (l *Ledger) Applied(eventID string) bool {
	_, seen := l.applied[Key(eventID)]
	return seen
}

// Items returns a copy of the current inventory.
func (l *Ledger) Items() []earnedvalue.InventoryItem {
	items := make([]earnedvalue.InventoryItem, len(l.items))
	copy(items, l.items)
	return items
}
