package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/yumyum-pos/orderdesk/internal/domain"
)

// Rules are the business limits an order is checked against.
type Rules struct {
	MinOrderAmount        int
	MaxItemsPerOrder      int
	MaxPreparationMinutes int
}

// Result aggregates every violation found on an order. Errors block the
// accept transition; Overdue is advisory only.
type Result struct {
	Errors  []string
	Overdue bool
}

func (r Result) IsValid() bool {
	return len(r.Errors) == 0
}

// Phone numbers use the 3-4-4 digit grouping.
var phonePattern = regexp.MustCompile(`^\d{3}-\d{4}-\d{4}$`)

// Validate checks an order against the rules. Every check runs; the result
// carries all violations in a fixed order rather than the first one found.
// The function is pure and never mutates the order.
func Validate(order *domain.Order, rules Rules) Result {
	var result Result

	if order.TotalAmount < rules.MinOrderAmount {
		result.Errors = append(result.Errors,
			fmt.Sprintf("below minimum order amount (%d)", rules.MinOrderAmount))
	}

	if len(order.Items) > rules.MaxItemsPerOrder {
		result.Errors = append(result.Errors,
			fmt.Sprintf("exceeds max item count (%d)", rules.MaxItemsPerOrder))
	}

	if order.Type == domain.OrderTypePackaging && (order.ReservationDate != "" || order.ReservationTime != "") {
		result.Errors = append(result.Errors, "packaging orders cannot be reserved")
	}

	// Overdue is recorded but never blocks a transition.
	if order.ElapsedMinutes() > rules.MaxPreparationMinutes {
		result.Overdue = true
	}

	if strings.TrimSpace(order.CustomerName) == "" {
		result.Errors = append(result.Errors, "missing customer name")
	}

	if order.CustomerPhone != "" && !phonePattern.MatchString(order.CustomerPhone) {
		result.Errors = append(result.Errors, "invalid phone number")
	}

	return result
}
