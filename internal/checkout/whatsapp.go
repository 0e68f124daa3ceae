package checkout

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/ezzshop/ezzshop-backend/internal/orders"
	"github.com/ezzshop/ezzshop-backend/pkg/types"
)

// buildWhatsAppLink renders the order as a wa.me deep link. The customer
// opens the link and the pre-filled message lands in the shop's WhatsApp
// thread, where fulfilment is arranged by hand.
func buildWhatsAppLink(number string, order orders.OrderDTO) string {
	var msg strings.Builder
	fmt.Fprintf(&msg, "Hello, I would like to place order #%d:\n\n", order.OrderNumber)
	for _, item := range order.Items {
		fmt.Fprintf(&msg, "- %s (%d x %s)\n", item.Title, item.Quantity, types.Cents(item.UnitPriceCents).String())
	}
	msg.WriteString("\nCustomer details:\n")
	fmt.Fprintf(&msg, "Name: %s\n", order.Customer.Name)
	fmt.Fprintf(&msg, "Email: %s\n", order.Customer.Email)
	fmt.Fprintf(&msg, "Phone: %s\n", order.Customer.Phone)
	if order.Customer.Address != "" {
		fmt.Fprintf(&msg, "Address: %s\n", order.Customer.Address)
	}
	if order.Customer.City != "" {
		fmt.Fprintf(&msg, "City: %s\n", order.Customer.City)
	}
	if order.Customer.PostalCode != "" {
		fmt.Fprintf(&msg, "Postal code: %s\n", order.Customer.PostalCode)
	}
	fmt.Fprintf(&msg, "\nTotal: %s", order.Total)

	target := strings.ReplaceAll(strings.TrimSpace(number), " ", "")
	return "https://wa.me/" + target + "?text=" + url.QueryEscape(msg.String())
}
