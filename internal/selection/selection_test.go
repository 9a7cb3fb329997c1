package selection

import (
	"reflect"
	"testing"

	"sheets-bridge/internal/catalog"
	"sheets-bridge/internal/model"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "json array",
			raw:  `["order_id","billing_email"]`,
			want: []string{"order_id", "billing_email"},
		},
		{
			name: "comma separated legacy string",
			raw:  "order_id, billing_email ,product_name",
			want: []string{"order_id", "billing_email", "product_name"},
		},
		{
			name: "single bare id",
			raw:  "order_id",
			want: []string{"order_id"},
		},
		{
			name: "empty",
			raw:  "",
			want: nil,
		},
		{
			name: "whitespace only",
			raw:  "   ",
			want: nil,
		},
		{
			name: "duplicates keep first position",
			raw:  "order_id,billing_email,order_id",
			want: []string{"order_id", "billing_email"},
		},
		{
			name: "unknown ids dropped",
			raw:  "order_id,made_up_field,billing_email",
			want: []string{"order_id", "billing_email"},
		},
		{
			name: "malformed json falls back to comma split",
			raw:  `["order_id",`,
			want: nil, // no valid ids survive the split
		},
		{
			name: "blank entries dropped",
			raw:  "order_id,,billing_email,",
			want: []string{"order_id", "billing_email"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.raw)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Normalize(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestHeal(t *testing.T) {
	tests := []struct {
		name        string
		selected    []string
		wantChanged bool
	}{
		{"empty selection", nil, true},
		{"partial selection", []string{"billing_email"}, true},
		{"already complete", catalog.AlwaysInclude(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			healed, changed := Heal(tt.selected)
			if changed != tt.wantChanged {
				t.Errorf("Heal() changed = %v, want %v", changed, tt.wantChanged)
			}

			present := make(map[string]bool)
			for _, id := range healed {
				present[id] = true
			}
			for _, id := range catalog.AlwaysInclude() {
				if !present[id] {
					t.Errorf("healed selection missing always-include field %q", id)
				}
			}
		})
	}
}

func TestHealPreservesExistingOrder(t *testing.T) {
	selected := []string{"billing_email", "order_id"}
	healed, _ := Heal(selected)

	if healed[0] != "billing_email" || healed[1] != "order_id" {
		t.Errorf("Heal() reordered existing selection: %v", healed)
	}
}

func TestHealLeavesInputAlone(t *testing.T) {
	// A caller's slice with spare capacity must not have its backing array
	// written into.
	backing := make([]string, 1, 8)
	backing = backing[:cap(backing)]
	for i := range backing {
		backing[i] = "sentinel"
	}
	selected := backing[:1]
	selected[0] = "billing_email"

	healed, changed := Heal(selected)
	if !changed {
		t.Fatal("Heal() changed = false, want true")
	}
	if &healed[0] == &selected[0] {
		t.Error("Heal() returned the input's backing array")
	}
	for i := 1; i < cap(backing); i++ {
		if backing[i] != "sentinel" {
			t.Errorf("backing[%d] = %q, input's spare capacity was written to", i, backing[i])
		}
	}
}

func TestGateProFields(t *testing.T) {
	selected := []string{"order_id", "product_sku", "billing_email", "coupon_used"}

	t.Run("pro inactive strips pro fields", func(t *testing.T) {
		got := GateProFields(selected, false)
		want := []string{"order_id", "billing_email"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("GateProFields() = %v, want %v", got, want)
		}
	})

	t.Run("pro active keeps everything", func(t *testing.T) {
		got := GateProFields(selected, true)
		if !reflect.DeepEqual(got, selected) {
			t.Errorf("GateProFields() = %v, want %v", got, selected)
		}
	})
}

func TestEffective(t *testing.T) {
	t.Run("missing config falls back to defaults", func(t *testing.T) {
		got := Effective("", false)
		if len(got) == 0 {
			t.Fatal("Effective(\"\") returned empty selection")
		}
		if got[0] != "order_id" {
			t.Errorf("first effective field = %q, want %q", got[0], "order_id")
		}
	})

	t.Run("always-include enforced over malformed config", func(t *testing.T) {
		got := Effective("billing_email", false)
		present := make(map[string]bool)
		for _, id := range got {
			present[id] = true
		}
		for _, id := range catalog.AlwaysInclude() {
			if !present[id] {
				t.Errorf("effective selection missing always-include field %q", id)
			}
		}
	})

	t.Run("pro fields gated without license", func(t *testing.T) {
		got := Effective(`["order_id","product_sku"]`, false)
		for _, id := range got {
			if id == "product_sku" {
				t.Error("pro field survived gating without a license")
			}
		}
	})
}

func TestEligible(t *testing.T) {
	order := func(status string, catIDs ...int) *model.Order {
		o := &model.Order{Status: status}
		if len(catIDs) > 0 {
			o.Items = []model.OrderItem{{Name: "Widget", CategoryIDs: catIDs}}
		} else {
			o.Items = []model.OrderItem{{Name: "Widget"}}
		}
		return o
	}

	tests := []struct {
		name       string
		engine     Engine
		order      *model.Order
		want       bool
		wantReason string
	}{
		{
			name:   "status allowed, no category filter",
			engine: Engine{Statuses: []string{"completed", "processing"}},
			order:  order("completed"),
			want:   true,
		},
		{
			name:       "status not selected",
			engine:     Engine{Statuses: []string{"completed"}},
			order:      order("on-hold"),
			want:       false,
			wantReason: "status not selected for export",
		},
		{
			name:       "empty statuses export nothing",
			engine:     Engine{},
			order:      order("completed"),
			want:       false,
			wantReason: "status not selected for export",
		},
		{
			name:   "category filter matches",
			engine: Engine{Statuses: []string{"completed"}, CategoryIDs: []int{7, 9}},
			order:  order("completed", 3, 9),
			want:   true,
		},
		{
			name:       "category filter misses",
			engine:     Engine{Statuses: []string{"completed"}, CategoryIDs: []int{7}},
			order:      order("completed", 3),
			want:       false,
			wantReason: "no item in a selected category",
		},
		{
			name:       "unresolvable product never matches filter",
			engine:     Engine{Statuses: []string{"completed"}, CategoryIDs: []int{7}},
			order:      order("completed"),
			want:       false,
			wantReason: "no item in a selected category",
		},
		{
			name:   "status check wins over category check",
			engine: Engine{Statuses: []string{"completed"}, CategoryIDs: []int{7}},
			order:  order("pending", 7),
			want:   false,
			// status reason, not category reason
			wantReason: "status not selected for export",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, reason := tt.engine.Eligible(tt.order)
			if got != tt.want {
				t.Errorf("Eligible() = %v, want %v", got, tt.want)
			}
			if reason != tt.wantReason {
				t.Errorf("Eligible() reason = %q, want %q", reason, tt.wantReason)
			}
		})
	}
}
