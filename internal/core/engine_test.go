package core

import (
	"reflect"
	"testing"
)

func sampleRecords() []Record {
	return []Record{
		{Year: "2025", Month: "Jan", AccountName: "Acme Traders", AccountBeat: "North", BaseCat: "A", Consignee: "Acme", Employee: "Ravi", TotalAmt: 100},
		{Year: "2025", Month: "Feb", AccountName: "Acme Retail", AccountBeat: "North", BaseCat: "A", Consignee: "Acme", Employee: "Sunil", TotalAmt: 50},
		{Year: "2024", Month: "Dec", AccountName: "Beta Stores", AccountBeat: "South", BaseCat: "B", Consignee: "Beta", Employee: "Anil", TotalAmt: 30},
	}
}

func TestRestrict(t *testing.T) {
	records := sampleRecords()

	admin := User{Role: RoleAdmin, Name: "Administrator", ID: "admin"}
	if got := Restrict(records, admin); len(got) != 3 {
		t.Fatalf("admin should see all records, got %d", len(got))
	}

	user := User{Role: RoleUser, Name: "Acme", ID: "u1"}
	got := Restrict(records, user)
	if len(got) != 2 {
		t.Fatalf("user should see 2 records, got %d", len(got))
	}
	for _, r := range got {
		if r.Consignee != "Acme" {
			t.Errorf("leaked record for consignee %q", r.Consignee)
		}
	}
}

func TestRestrictCommutesWithFilter(t *testing.T) {
	records := sampleRecords()
	user := User{Role: RoleUser, Name: "Acme", ID: "u1"}
	f := DefaultFilter()
	f.Year = "2025"

	a := Apply(Restrict(records, user), f)
	b := Restrict(Apply(records, f), user)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("restrict/filter order changed the result: %+v vs %+v", a, b)
	}
}

func TestApplyConjunctive(t *testing.T) {
	records := sampleRecords()

	f := DefaultFilter()
	f.Year = "2025"
	f.Employee = "Ravi"
	got := Apply(records, f)
	if len(got) != 1 || got[0].AccountName != "Acme Traders" {
		t.Fatalf("conjunctive filter mismatch: %+v", got)
	}

	// FilterAll on every dimension keeps everything.
	if got := Apply(records, DefaultFilter()); len(got) != 3 {
		t.Fatalf("all-pass filter dropped records: %d", len(got))
	}
}

func TestComputeOptions(t *testing.T) {
	records := sampleRecords()

	t.Run("consignee narrows employees and accounts", func(t *testing.T) {
		f := DefaultFilter()
		f.Consignee = "Acme"
		opts := ComputeOptions(records, f)

		if want := []string{"Ravi", "Sunil"}; !reflect.DeepEqual(opts.Employees, want) {
			t.Errorf("employees = %v, want %v", opts.Employees, want)
		}
		if want := []string{"Acme Retail", "Acme Traders"}; !reflect.DeepEqual(opts.Accounts, want) {
			t.Errorf("accounts = %v, want %v", opts.Accounts, want)
		}
	})

	t.Run("account selection never narrows consignees", func(t *testing.T) {
		f := DefaultFilter()
		f.Account = "Beta Stores"
		opts := ComputeOptions(records, f)
		if want := []string{"Acme", "Beta"}; !reflect.DeepEqual(opts.Consignees, want) {
			t.Errorf("consignees = %v, want %v", opts.Consignees, want)
		}
	})

	t.Run("months keep encounter order under active filters", func(t *testing.T) {
		f := DefaultFilter()
		f.Year = "2025"
		opts := ComputeOptions(records, f)
		if want := []string{"Jan", "Feb"}; !reflect.DeepEqual(opts.Months, want) {
			t.Errorf("months = %v, want %v", opts.Months, want)
		}
	})

	t.Run("month selection does not narrow the month list", func(t *testing.T) {
		f := DefaultFilter()
		f.Month = "Jan"
		opts := ComputeOptions(records, f)
		if want := []string{"Jan", "Feb", "Dec"}; !reflect.DeepEqual(opts.Months, want) {
			t.Errorf("months = %v, want %v", opts.Months, want)
		}
	})

	t.Run("empty values are not offered", func(t *testing.T) {
		withBlank := append(sampleRecords(), Record{Year: "2025"})
		opts := ComputeOptions(withBlank, DefaultFilter())
		for _, c := range opts.Consignees {
			if c == "" {
				t.Error("blank consignee offered as an option")
			}
		}
	})
}

func TestGroupTotals(t *testing.T) {
	records := []Record{
		{BaseCat: "A", TotalAmt: 100},
		{BaseCat: "A", TotalAmt: 50},
		{BaseCat: "B", TotalAmt: 30},
	}

	got := GroupTotals(records, StatusBaseCat, 0)
	want := []GroupTotal{{Label: "A", Total: 150}, {Label: "B", Total: 30}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("GroupTotals = %+v, want %+v", got, want)
	}
}

func TestGroupTotalsLimitAndMode(t *testing.T) {
	records := make([]Record, 0, 12)
	for i := 0; i < 12; i++ {
		records = append(records, Record{
			AccountBeat: string(rune('A' + i)),
			BaseCat:     "same",
			TotalAmt:    float64(i + 1),
		})
	}

	top := GroupTotals(records, StatusBeatwise, 10)
	if len(top) != 10 {
		t.Fatalf("limit 10 returned %d groups", len(top))
	}
	if top[0].Total != 12 {
		t.Errorf("largest group first, got %+v", top[0])
	}

	all := GroupTotals(records, StatusBeatwise, 0)
	if len(all) != 12 {
		t.Errorf("no limit returned %d groups", len(all))
	}

	// Beatwise mode must ignore BaseCat entirely.
	byCat := GroupTotals(records, StatusBaseCat, 0)
	if len(byCat) != 1 || byCat[0].Label != "same" {
		t.Errorf("BaseCat grouping mismatch: %+v", byCat)
	}
}

func TestSummarize(t *testing.T) {
	records := sampleRecords()
	s := Summarize(records)
	if s.TotalAmount != 180 || s.RecordCount != 3 || s.AverageAmount != 60 {
		t.Errorf("summary = %+v", s)
	}

	empty := Summarize(nil)
	if empty.TotalAmount != 0 || empty.RecordCount != 0 || empty.AverageAmount != 0 {
		t.Errorf("empty summary = %+v", empty)
	}
}
