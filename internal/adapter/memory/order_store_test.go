package memory

import (
	"testing"
	"time"

	"github.com/yumyum-pos/orderdesk/internal/domain"
)

func TestOrderStore(t *testing.T) {
	store := NewOrderStore()

	first := &domain.Order{ID: "a", CustomerName: "Kim"}
	second := &domain.Order{ID: "b", CustomerName: "Lee"}
	store.Add(first)
	store.Add(second)

	t.Run("get", func(t *testing.T) {
		got, ok := store.Get("a")
		if !ok || got.CustomerName != "Kim" {
			t.Errorf("Get(a) = %v, %v", got, ok)
		}
		if _, ok := store.Get("missing"); ok {
			t.Error("Get(missing) found an order")
		}
	})

	t.Run("list preserves intake order", func(t *testing.T) {
		orders := store.List()
		if len(orders) != 2 || orders[0].ID != "a" || orders[1].ID != "b" {
			t.Errorf("List() = %v", orders)
		}
	})

	t.Run("duplicate add is ignored", func(t *testing.T) {
		store.Add(&domain.Order{ID: "a", CustomerName: "Park"})
		got, _ := store.Get("a")
		if got.CustomerName != "Kim" {
			t.Errorf("duplicate Add replaced the order: %s", got.CustomerName)
		}
	})

	t.Run("remove", func(t *testing.T) {
		store.Remove("a")
		if _, ok := store.Get("a"); ok {
			t.Error("order still present after Remove")
		}
		orders := store.List()
		if len(orders) != 1 || orders[0].ID != "b" {
			t.Errorf("List() after Remove = %v", orders)
		}
		store.Remove("a") // no-op
	})
}

func TestNextNumber(t *testing.T) {
	store := NewOrderStore()
	monday := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	if n := store.NextNumber(monday); n != 1 {
		t.Errorf("NextNumber = %d, want 1", n)
	}
	if n := store.NextNumber(monday.Add(2 * time.Hour)); n != 2 {
		t.Errorf("NextNumber = %d, want 2", n)
	}

	tuesday := monday.AddDate(0, 0, 1)
	if n := store.NextNumber(tuesday); n != 1 {
		t.Errorf("NextNumber after day change = %d, want 1", n)
	}
}
