package payment

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/cloudjet/airbooking/internal/domain"
)

// Notification is the subset of a provider callback the state machine acts on.
type Notification struct {
	Status    string
	OrderID   string
	ReceiptID string
	Amount    string
}

var paidStatuses = map[string]struct{}{
	"PAID":     {},
	"COMPLETE": {},
	"SUCCESS":  {},
}

// Paid reports whether the notification confirms a payment. A success status
// without a receipt id does not count.
func (n Notification) Paid() bool {
	_, ok := paidStatuses[n.Status]
	return ok && n.ReceiptID != ""
}

// ParseNotification reads a form-encoded or JSON callback body. Field names
// are accepted in both snake_case and camelCase.
func ParseNotification(contentType string, body []byte) (Notification, error) {
	fields := map[string]string{}

	if strings.Contains(contentType, "application/x-www-form-urlencoded") {
		values, err := url.ParseQuery(string(body))
		if err != nil {
			return Notification{}, domain.Validation("malformed form payload")
		}
		for k := range values {
			fields[k] = values.Get(k)
		}
	} else if len(strings.TrimSpace(string(body))) > 0 {
		var raw map[string]any
		if err := json.Unmarshal(body, &raw); err != nil {
			return Notification{}, domain.Validation("malformed json payload")
		}
		for k, v := range raw {
			fields[k] = stringify(v)
		}
	}

	n := Notification{
		Status:    strings.ToUpper(firstOf(fields, "status", "status_en")),
		OrderID:   firstOf(fields, "order_id", "orderId"),
		ReceiptID: firstOf(fields, "receipt_id", "receiptId"),
		Amount:    firstOf(fields, "price", "amount"),
	}
	if n.OrderID == "" {
		return n, domain.Validation("order_id is required")
	}
	return n, nil
}

func firstOf(fields map[string]string, keys ...string) string {
	for _, k := range keys {
		if v := fields[k]; v != "" {
			return v
		}
	}
	return ""
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}
