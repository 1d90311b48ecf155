package core

import "sort"

// Filter holds the selected value per dimension; FilterAll disables a
// dimension. Filters combine conjunctively.
type Filter struct {
	Year      string
	Month     string
	Employee  string
	Consignee string
	Account   string
}

// DefaultFilter selects everything.
func DefaultFilter() Filter {
	return Filter{
		Year:      FilterAll,
		Month:     FilterAll,
		Employee:  FilterAll,
		Consignee: FilterAll,
		Account:   FilterAll,
	}
}

// Matches reports whether the record passes every active dimension filter.
func (f Filter) Matches(r Record) bool {
	if f.Year != FilterAll && r.Year != f.Year {
		return false
	}
	if f.Month != FilterAll && r.Month != f.Month {
		return false
	}
	if f.Employee != FilterAll && r.Employee != f.Employee {
		return false
	}
	if f.Consignee != FilterAll && r.Consignee != f.Consignee {
		return false
	}
	if f.Account != FilterAll && r.AccountName != f.Account {
		return false
	}
	return true
}

// GroupTotal is one chart bar: a grouping label and the summed amount.
type GroupTotal struct {
	Label string  `json:"name"`
	Total float64 `json:"value"`
}

// Summary holds the card totals over a filtered set.
type Summary struct {
	TotalAmount   float64 `json:"totalAmount"`
	RecordCount   int     `json:"recordCount"`
	AverageAmount float64 `json:"averageAmount"`
}

// Options lists the selectable values per dimension, each conditioned on the
// other current selections as the dashboard defines it.
type Options struct {
	Years      []string `json:"years"`
	Months     []string `json:"months"`
	Consignees []string `json:"consignees"`
	Employees  []string `json:"employees"`
	Accounts   []string `json:"accounts"`
}

// Restrict applies the role-based visibility rule: non-admin users only see
// records whose consignee equals their own name. It runs before any dimension
// filter so option lists never leak values outside the user's scope.
func Restrict(records []Record, user User) []Record {
	if user.IsAdmin() {
		return records
	}
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if r.Consignee == user.Name {
			out = append(out, r)
		}
	}
	return out
}

// Apply returns the subset of records passing the filter.
func Apply(records []Record, f Filter) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if f.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// ComputeOptions derives the selectable values per dimension from the
// visibility-restricted set.
//
// Years and consignees come from the whole restricted set; employees and
// accounts narrow when a consignee is selected; months narrow under every
// other selected dimension. All lists are sorted ascending except months,
// which keep the order they appear in the source.
func ComputeOptions(restricted []Record, f Filter) Options {
	monthScope := f
	monthScope.Month = FilterAll

	byConsignee := DefaultFilter()
	byConsignee.Consignee = f.Consignee

	return Options{
		Years:      distinct(restricted, func(r Record) string { return r.Year }, true),
		Months:     distinct(Apply(restricted, monthScope), func(r Record) string { return r.Month }, false),
		Consignees: distinct(restricted, func(r Record) string { return r.Consignee }, true),
		Employees:  distinct(Apply(restricted, byConsignee), func(r Record) string { return r.Employee }, true),
		Accounts:   distinct(Apply(restricted, byConsignee), func(r Record) string { return r.AccountName }, true),
	}
}

// GroupTotals groups the records by the mode's categorical value and sums
// TotalAmt per group, sorted by sum descending. limit > 0 truncates to the
// top groups; limit <= 0 returns all.
func GroupTotals(records []Record, mode StatusMode, limit int) []GroupTotal {
	sums := map[string]float64{}
	order := make([]string, 0)
	for _, r := range records {
		key := mode.GroupKey(r)
		if _, seen := sums[key]; !seen {
			order = append(order, key)
		}
		sums[key] += r.TotalAmt
	}
	out := make([]GroupTotal, 0, len(order))
	for _, label := range order {
		out = append(out, GroupTotal{Label: label, Total: sums[label]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Total > out[j].Total })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Summarize computes the card totals. Average is 0 for an empty set.
func Summarize(records []Record) Summary {
	s := Summary{RecordCount: len(records)}
	for _, r := range records {
		s.TotalAmount += r.TotalAmt
	}
	if s.RecordCount > 0 {
		s.AverageAmount = s.TotalAmount / float64(s.RecordCount)
	}
	return s
}

func distinct(records []Record, key func(Record) string, sorted bool) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0)
	for _, r := range records {
		v := key(r)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	if sorted {
		sort.Strings(out)
	}
	return out
}
