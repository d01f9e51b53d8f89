package dataset

import (
	"math"
	"testing"
)

func TestProfile(t *testing.T) {
	ds := newTestDataset("sales", []string{"amount", "date", "region"}, []Record{
		{"amount": Number(1), "date": Text("2024-01-01"), "region": Text("North")},
		{"amount": Number(2), "date": Text("2024-01-02"), "region": Text("South")},
		{"amount": Number(3), "date": Text("2024-01-03"), "region": Text("North")},
		{"amount": Number(4), "date": Text("2024-01-04"), "region": Null()},
		{"amount": Number(5), "date": Text("2024-01-05"), "region": Text("East")},
	})

	profiles, err := Profile(ds)
	if err != nil {
		t.Fatalf("Profile failed: %v", err)
	}
	if len(profiles) != 3 {
		t.Fatalf("profiles = %d, want 3", len(profiles))
	}

	byName := make(map[string]ColumnProfile)
	for _, p := range profiles {
		byName[p.Name] = p
	}

	amount := byName["amount"]
	if amount.Kind != Numeric {
		t.Errorf("amount kind = %q, want numeric", amount.Kind)
	}
	if amount.Count != 5 || amount.Nulls != 0 {
		t.Errorf("amount counts = (%d,%d), want (5,0)", amount.Count, amount.Nulls)
	}
	if math.Abs(amount.Mean-3) > 1e-12 {
		t.Errorf("amount mean = %v, want 3", amount.Mean)
	}
	if math.Abs(amount.StdDev-math.Sqrt(2.5)) > 1e-12 {
		t.Errorf("amount stddev = %v, want %v", amount.StdDev, math.Sqrt(2.5))
	}
	if amount.Min != 1 || amount.Max != 5 {
		t.Errorf("amount range = [%v,%v], want [1,5]", amount.Min, amount.Max)
	}

	if byName["date"].Kind != Date {
		t.Errorf("date kind = %q, want date", byName["date"].Kind)
	}

	region := byName["region"]
	if region.Kind != Categorical {
		t.Errorf("region kind = %q, want categorical", region.Kind)
	}
	if region.Count != 4 || region.Nulls != 1 {
		t.Errorf("region counts = (%d,%d), want (4,1)", region.Count, region.Nulls)
	}
}

func TestProfileDateTokenName(t *testing.T) {
	// Name token alone marks a non-numeric column as a date.
	ds := newTestDataset("d", []string{"created_at"}, []Record{
		{"created_at": Text("yesterday")},
		{"created_at": Text("today")},
	})

	profiles, err := Profile(ds)
	if err != nil {
		t.Fatalf("Profile failed: %v", err)
	}
	if profiles[0].Kind != Date {
		t.Errorf("created_at kind = %q, want date", profiles[0].Kind)
	}
}

func TestProfileIncludesStragglerColumns(t *testing.T) {
	ds := newTestDataset("d", []string{"x"}, []Record{
		{"x": Number(1)},
		{"x": Number(2), "extra": Text("s")},
	})

	profiles, err := Profile(ds)
	if err != nil {
		t.Fatalf("Profile failed: %v", err)
	}
	if len(profiles) != 2 {
		t.Fatalf("profiles = %d, want 2 (declared + straggler)", len(profiles))
	}
	if profiles[1].Name != "extra" {
		t.Errorf("straggler profile name = %q, want extra", profiles[1].Name)
	}
}

func TestProfileEmptyDataset(t *testing.T) {
	ds := newTestDataset("d", []string{"x"}, nil)
	if _, err := Profile(ds); err == nil {
		t.Error("want error for empty dataset")
	}
}
