package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"storefront/internal/domain/entity"
	"storefront/internal/usecase"
	"storefront/internal/util"
)

const dateLayout = "2006-01-02 15:04"

func newTable(out io.Writer, header ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	return tw
}

func row(tw *tabwriter.Writer, cols ...string) {
	fmt.Fprintln(tw, strings.Join(cols, "\t"))
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}

	return t.Local().Format(dateLayout)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}

	return s
}

func printIdentity(out io.Writer, identity *entity.Identity) {
	fmt.Fprintf(out, "Name:    %s\n", orDash(identity.Name))
	fmt.Fprintf(out, "Email:   %s\n", identity.Email)
	fmt.Fprintf(out, "ID:      %s\n", identity.ID)
	fmt.Fprintf(out, "Since:   %s\n", formatDate(identity.CreatedAt))
}

func printProducts(out io.Writer, symbol string, products []*entity.Product) {
	if len(products) == 0 {
		fmt.Fprintln(out, "No products")

		return
	}

	tw := newTable(out, "ID", "NAME", "PRICE", "STOCK", "FEATURED")
	for _, p := range products {
		featured := ""
		if p.Featured {
			featured = "yes"
		}
		row(tw, p.ID, p.Name, util.FormatAmount(symbol, p.Price), fmt.Sprint(p.Stock), featured)
	}
	_ = tw.Flush()
}

func printProduct(out io.Writer, symbol string, p *entity.Product) {
	fmt.Fprintf(out, "%s (%s)\n", p.Name, p.ID)
	fmt.Fprintf(out, "  Price:   %s\n", util.FormatAmount(symbol, p.Price))
	if p.InStock() {
		fmt.Fprintf(out, "  Stock:   %d\n", p.Stock)
	} else {
		fmt.Fprintln(out, "  Stock:   sold out")
	}
	if len(p.Sizes) > 0 {
		fmt.Fprintf(out, "  Sizes:   %s\n", strings.Join(p.Sizes, ", "))
	}
	if len(p.Colors) > 0 {
		fmt.Fprintf(out, "  Colors:  %s\n", strings.Join(p.Colors, ", "))
	}
	if p.ImageURL != "" {
		fmt.Fprintf(out, "  Image:   %s\n", p.ImageURL)
	}
	if p.Description != "" {
		fmt.Fprintf(out, "\n%s\n", p.Description)
	}
}

func printTestimonials(out io.Writer, testimonials []*entity.Testimonial) {
	if len(testimonials) == 0 {
		fmt.Fprintln(out, "No testimonials yet")

		return
	}

	for _, t := range testimonials {
		stars := strings.Repeat("*", max(0, min(t.Rating, 5)))
		fmt.Fprintf(out, "%-5s %s\n      %q\n", stars, t.Name, t.Comment)
	}
}

func printCart(out io.Writer, symbol string, items []*entity.CartItem, quote usecase.CheckoutQuote) {
	if len(items) == 0 {
		fmt.Fprintln(out, "Your cart is empty")

		return
	}

	tw := newTable(out, "ITEM", "PRODUCT", "SIZE", "COLOR", "QTY", "PRICE", "TOTAL")
	for _, item := range items {
		name := item.ProductID
		if item.Product != nil && item.Product.Name != "" {
			name = item.Product.Name
		}
		row(tw,
			item.ItemID,
			name,
			orDash(item.Size),
			orDash(item.Color),
			util.FormatQuantity(item.Quantity),
			util.FormatAmount(symbol, item.EffectivePrice()),
			util.FormatAmount(symbol, item.LineTotal()),
		)
	}
	_ = tw.Flush()

	fmt.Fprintf(out, "\n%d item(s)\n", quote.ItemCount)
	fmt.Fprintf(out, "Subtotal: %s\n", util.FormatAmount(symbol, quote.Subtotal))
	fmt.Fprintf(out, "Delivery: %s\n", util.FormatAmount(symbol, quote.DeliveryFee))
	fmt.Fprintf(out, "Total:    %s\n", util.FormatAmount(symbol, quote.Total))
}

func printOrders(out io.Writer, symbol string, orders []*entity.Order) {
	if len(orders) == 0 {
		fmt.Fprintln(out, "No orders yet")

		return
	}

	tw := newTable(out, "ID", "PLACED", "STATUS", "PAYMENT", "TOTAL")
	for _, o := range orders {
		row(tw, o.ID, formatDate(o.CreatedAt), orDash(o.Status), orDash(string(o.PaymentStatus)), util.FormatAmount(symbol, o.TotalAmount))
	}
	_ = tw.Flush()
}

func printOrder(out io.Writer, symbol string, o *entity.Order) {
	fmt.Fprintf(out, "Order %s placed %s\n", o.ID, formatDate(o.CreatedAt))
	fmt.Fprintf(out, "  Status:   %s\n", orDash(o.Status))
	fmt.Fprintf(out, "  Payment:  %s\n", orDash(string(o.PaymentStatus)))
	addr := o.ShippingAddress
	fmt.Fprintf(out, "  Ship to:  %s, %s, %s %s, %s\n", addr.Name, addr.Address, addr.City, addr.Zip, addr.Country)
	fmt.Fprintln(out)

	tw := newTable(out, "PRODUCT", "SIZE", "COLOR", "QTY", "PRICE")
	for _, line := range o.Items {
		name := line.Name
		if name == "" {
			name = line.ProductID
		}
		row(tw, name, orDash(line.Size), orDash(line.Color), util.FormatQuantity(line.Quantity), util.FormatAmount(symbol, line.Price))
	}
	_ = tw.Flush()

	fmt.Fprintf(out, "\nDelivery: %s\n", util.FormatAmount(symbol, o.DeliveryFee))
	fmt.Fprintf(out, "Total:    %s\n", util.FormatAmount(symbol, o.TotalAmount))
}

func printPayments(out io.Writer, symbol string, payments []*entity.Payment) {
	if len(payments) == 0 {
		fmt.Fprintln(out, "No payments yet")

		return
	}

	tw := newTable(out, "ID", "DATE", "REFERENCE", "ORDER", "STATUS", "AMOUNT")
	for _, p := range payments {
		row(tw, p.ID, formatDate(p.CreatedAt), p.Reference, orDash(p.OrderID), orDash(p.Status), util.FormatAmount(symbol, p.Amount))
	}
	_ = tw.Flush()
}

func printVerification(out io.Writer, symbol string, v *entity.PaymentVerification) {
	fmt.Fprintf(out, "Reference: %s\n", v.Reference)
	fmt.Fprintf(out, "Status:    %s\n", orDash(v.Status))
	fmt.Fprintf(out, "Amount:    %s\n", util.FormatAmount(symbol, v.Amount))
	fmt.Fprintf(out, "Order:     %s\n", orDash(v.OrderID))
	if !v.PaidAt.IsZero() {
		fmt.Fprintf(out, "Paid at:   %s\n", formatDate(v.PaidAt))
	}
}

func printDeliveryInfo(out io.Writer, info *entity.DeliveryInfo) {
	fmt.Fprintf(out, "%s %s\n", info.FirstName, info.LastName)
	fmt.Fprintf(out, "%s\n%s %s\n", info.Address, info.City, info.ZipCode)
	fmt.Fprintf(out, "Mobile: %s\n", orDash(info.Mobile))
	fmt.Fprintf(out, "Email:  %s\n", orDash(info.Email))
}

func printCheckoutResult(out io.Writer, symbol string, attempt *entity.CheckoutAttempt, elapsed time.Duration) {
	if attempt == nil {
		return
	}

	fmt.Fprintln(out)
	switch attempt.State {
	case entity.CheckoutStatePaymentSucceeded:
		fmt.Fprintf(out, "Payment of %s confirmed for order %s (%s)\n",
			util.FormatAmount(symbol, attempt.TotalAmount), attempt.OrderID, util.FormatDuration(elapsed))
	case entity.CheckoutStatePaymentFailed:
		fmt.Fprintf(out, "Payment for order %s failed: %s\n", attempt.OrderID, orDash(attempt.FailureReason))
	case entity.CheckoutStatePaymentAbandoned:
		if attempt.OrderID == "" {
			fmt.Fprintf(out, "Checkout abandoned: %s\n", orDash(attempt.FailureReason))

			break
		}
		fmt.Fprintf(out, "Checkout abandoned; order %s is still pending\n", attempt.OrderID)
	case entity.CheckoutStatePaymentVerifying:
		fmt.Fprintf(out, "Payment %s is still being confirmed; run 'storefront verify-payment %s' later\n", attempt.Reference, attempt.Reference)
	default:
		fmt.Fprintf(out, "Checkout stopped at %s\n", attempt.State)
	}
}
