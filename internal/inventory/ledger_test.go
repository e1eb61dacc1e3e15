package inventory

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/iwvelando/field-forecast/pkg/earnedvalue"
	"go.uber.org/zap"
)

func testUnits() []earnedvalue.WorkUnit {
	return []earnedvalue.WorkUnit{
		{
			Code:        "26-05-33",
			BudgetedQty: 580,
			Materials: []earnedvalue.MaterialRequirement{
				{Material: "EMT 3/4", UOM: "ft", QtyRequired: 600},
				{Material: "EMT coupling 3/4", UOM: "ea", QtyRequired: 116},
			},
		},
		{Code: "26-27-26", BudgetedQty: 200},
	}
}

func testInventory() []earnedvalue.InventoryItem {
	return []earnedvalue.InventoryItem{
		{Material: "EMT 3/4", UOM: "ft", OnHand: 700},
		{Material: "EMT coupling 3/4", UOM: "ea", OnHand: 100},
	}
}

func TestKey(t *testing.T) {
	id := uuid.New()
	if Key(id.String()) != id {
		t.Error("Key() should return UUID event IDs unchanged")
	}
	if Key("kiosk-17") != Key("kiosk-17") {
		t.Error("Key() should be deterministic for non-UUID IDs")
	}
	if Key("kiosk-17") == Key("kiosk-18") {
		t.Error("Key() should differ for different IDs")
	}
}

func TestApplyExactlyOnce(t *testing.T) {
	ledger := NewLedger(zap.NewNop(), testInventory())
	drawdowns := []earnedvalue.Drawdown{{Material: "EMT 3/4", Qty: 100}}

	if !ledger.Apply("event-1", drawdowns) {
		t.Fatal("first Apply() should change inventory")
	}
	if ledger.Apply("event-1", drawdowns) {
		t.Error("second Apply() for the same event should be ignored")
	}
	if !ledger.Applied("event-1") || ledger.Applied("event-2") {
		t.Error("Applied() does not reflect ledger state")
	}

	items := ledger.Items()
	if items[0].OnHand != 600 {
		t.Errorf("EMT on hand = %v, expected 600", items[0].OnHand)
	}
}

func TestNewLedgerCopiesInventory(t *testing.T) {
	inventory := testInventory()
	ledger := NewLedger(nil, inventory)
	ledger.Apply("event-1", []earnedvalue.Drawdown{{Material: "EMT 3/4", Qty: 50}})

	if inventory[0].OnHand != 700 {
		t.Errorf("ledger mutated caller inventory: %+v", inventory)
	}

	items := ledger.Items()
	items[0].OnHand = 0
	if ledger.Items()[0].OnHand != 650 {
		t.Error("Items() should return a copy")
	}
}

func TestApplyEvents(t *testing.T) {
	events := []earnedvalue.ProductionEvent{
		{ID: "e1", Code: "26-05-33", Qty: 100},
		{ID: "e2", Code: "26-05-33", Qty: 86},
		{ID: "e3", Code: "26-05-33", Qty: 60},
		{ID: "e4", Code: "26-27-26", Qty: 10},
		{ID: "e5", Code: "99-99-99", Qty: 10},
	}

	ledger := NewLedger(zap.NewNop(), testInventory())
	if applied := ledger.ApplyEvents(testUnits(), events); applied != 3 {
		t.Errorf("ApplyEvents() applied %d events, expected 3", applied)
	}

	items := ledger.Items()
	// 103.45 + 88.97 + 62.07 ft and 20 + 17.2 + 12 ea
	if math.Abs(items[0].OnHand-445.51) > 1e-9 {
		t.Errorf("EMT on hand = %v, expected 445.51", items[0].OnHand)
	}
	if math.Abs(items[1].OnHand-50.8) > 1e-9 {
		t.Errorf("coupling on hand = %v, expected 50.8", items[1].OnHand)
	}

	if applied := ledger.ApplyEvents(testUnits(), events); applied != 0 {
		t.Errorf("replaying events applied %d, expected 0", applied)
	}
	if math.Abs(ledger.Items()[0].OnHand-445.51) > 1e-9 {
		t.Error("replaying events changed inventory")
	}
}
