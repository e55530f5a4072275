package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"storefront/internal/domain/entity"
	"storefront/internal/usecase"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type command struct {
	name  string
	usage string
	run   func(ctx context.Context, deps *app, args []string, out io.Writer) error
}

//nolint:gochecknoglobals
var commands = []command{
	{name: "login", usage: "Sign in (-email, -password)", run: runLogin},
	{name: "signup", usage: "Create an account (-name, -email, -password)", run: runSignUp},
	{name: "logout", usage: "Sign out and forget the token", run: runLogout},
	{name: "whoami", usage: "Show the signed-in customer", run: runWhoAmI},
	{name: "verify-email", usage: "Confirm an email address (-email, -otp)", run: runVerifyEmail},
	{name: "resend-otp", usage: "Send a new verification code (-email)", run: runResendOTP},
	{name: "products", usage: "List products (-featured)", run: runProducts},
	{name: "product", usage: "Show one product: product <id>", run: runProduct},
	{name: "testimonials", usage: "List customer testimonials", run: runTestimonials},
	{name: "cart", usage: "Show the cart and its totals", run: runCart},
	{name: "cart-add", usage: "Add a product (-product, -size, -color, -price, -qty)", run: runCartAdd},
	{name: "cart-update", usage: "Set a line's quantity: cart-update <item-id> <qty>", run: runCartUpdate},
	{name: "cart-remove", usage: "Remove a line: cart-remove <item-id>", run: runCartRemove},
	{name: "cart-clear", usage: "Empty the cart", run: runCartClear},
	{name: "checkout", usage: "Place an order and pay for it", run: runCheckout},
	{name: "orders", usage: "List your orders", run: runOrders},
	{name: "order", usage: "Show one order: order <id>", run: runOrder},
	{name: "cancel-order", usage: "Cancel a pending order: cancel-order <id>", run: runCancelOrder},
	{name: "payments", usage: "List your payments", run: runPayments},
	{name: "payment", usage: "Show one payment: payment <id>", run: runPayment},
	{name: "verify-payment", usage: "Check a payment reference: verify-payment <reference>", run: runVerifyPayment},
	{name: "delivery", usage: "Show saved delivery details", run: runDelivery},
	{name: "delivery-save", usage: "Save delivery details (-first, -last, -address, -city, -zip, -mobile, -email)", run: runDeliverySave},
}

func lookupCommand(name string) (command, bool) {
	for _, cmd := range commands {
		if cmd.name == name {
			return cmd, true
		}
	}

	return command{}, false
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: storefront <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")

	sorted := append([]command(nil), commands...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].name < sorted[j].name })
	for _, cmd := range sorted {
		fmt.Fprintf(w, "  %-15s %s\n", cmd.name, cmd.usage)
	}
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Use 'storefront <command> -h' for more information about a command.")
}

func newFlagSet(name string) *flag.FlagSet {
	return flag.NewFlagSet(name, flag.ContinueOnError)
}

// positional returns exactly n positional arguments.
func positional(args []string, n int, usage string) ([]string, error) {
	if len(args) != n {
		return nil, errors.Errorf("usage: storefront %s", usage)
	}

	return args, nil
}

// readSecret takes the value from the flag, then the environment, then one line of stdin.
func readSecret(flagValue, envKey, prompt string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if v := os.Getenv(envKey); v != "" {
		return v, nil
	}

	fmt.Fprint(os.Stderr, prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", errors.Wrap(err, "failed to read "+strings.ToLower(strings.TrimSuffix(prompt, ": ")))
	}

	return strings.TrimRight(line, "\r\n"), nil
}

func runLogin(ctx context.Context, deps *app, args []string, out io.Writer) error {
	fs := newFlagSet("login")
	email := fs.String("email", "", "Account email")
	password := fs.String("password", "", "Password (or STOREFRONT_PASSWORD, or stdin)")
	if err := fs.Parse(args); err != nil {
		return errors.Wrap(err, "failed to parse login flags")
	}

	secret, err := readSecret(*password, "STOREFRONT_PASSWORD", "Password: ")
	if err != nil {
		return err
	}

	identity, err := deps.Session.SignIn(ctx, &usecase.SignInInput{Email: *email, Password: secret})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Signed in as %s\n", identity.DisplayName())

	return nil
}

func runSignUp(ctx context.Context, deps *app, args []string, out io.Writer) error {
	fs := newFlagSet("signup")
	name := fs.String("name", "", "Your name")
	email := fs.String("email", "", "Account email")
	password := fs.String("password", "", "Password (or STOREFRONT_PASSWORD, or stdin)")
	if err := fs.Parse(args); err != nil {
		return errors.Wrap(err, "failed to parse signup flags")
	}

	secret, err := readSecret(*password, "STOREFRONT_PASSWORD", "Password: ")
	if err != nil {
		return err
	}

	identity, err := deps.Session.SignUp(ctx, &usecase.SignUpInput{Name: *name, Email: *email, Password: secret})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Welcome, %s. Check %s for your verification code.\n", identity.DisplayName(), identity.Email)

	return nil
}

func runLogout(ctx context.Context, deps *app, _ []string, out io.Writer) error {
	if err := deps.Session.SignOut(ctx); err != nil {
		return err
	}
	fmt.Fprintln(out, "Signed out")

	return nil
}

func runWhoAmI(_ context.Context, deps *app, _ []string, out io.Writer) error {
	identity := deps.Session.Current()
	if identity == nil {
		fmt.Fprintln(out, "Not signed in")

		return nil
	}
	printIdentity(out, identity)

	return nil
}

func runVerifyEmail(ctx context.Context, deps *app, args []string, out io.Writer) error {
	fs := newFlagSet("verify-email")
	email := fs.String("email", "", "Account email")
	otp := fs.String("otp", "", "Verification code")
	if err := fs.Parse(args); err != nil {
		return errors.Wrap(err, "failed to parse verify-email flags")
	}

	if err := deps.Session.VerifyEmail(ctx, *email, *otp); err != nil {
		return err
	}
	fmt.Fprintln(out, "Email verified")

	return nil
}

func runResendOTP(ctx context.Context, deps *app, args []string, out io.Writer) error {
	fs := newFlagSet("resend-otp")
	email := fs.String("email", "", "Account email")
	if err := fs.Parse(args); err != nil {
		return errors.Wrap(err, "failed to parse resend-otp flags")
	}

	if err := deps.Session.RequestNewOTP(ctx, *email); err != nil {
		return err
	}
	fmt.Fprintln(out, "A new code is on its way")

	return nil
}

func runProducts(ctx context.Context, deps *app, args []string, out io.Writer) error {
	fs := newFlagSet("products")
	featured := fs.Bool("featured", false, "Only featured products")
	if err := fs.Parse(args); err != nil {
		return errors.Wrap(err, "failed to parse products flags")
	}

	list := deps.Catalog.ListProducts
	if *featured {
		list = deps.Catalog.FeaturedProducts
	}
	products, err := list(ctx)
	if err != nil {
		return err
	}
	printProducts(out, deps.Config.Checkout.CurrencySymbol, products)

	return nil
}

func runProduct(ctx context.Context, deps *app, args []string, out io.Writer) error {
	ids, err := positional(args, 1, "product <id>")
	if err != nil {
		return err
	}

	product, err := deps.Catalog.FindProduct(ctx, ids[0])
	if err != nil {
		return err
	}
	printProduct(out, deps.Config.Checkout.CurrencySymbol, product)

	return nil
}

func runTestimonials(ctx context.Context, deps *app, _ []string, out io.Writer) error {
	testimonials, err := deps.Catalog.ListTestimonials(ctx)
	if err != nil {
		return err
	}
	printTestimonials(out, testimonials)

	return nil
}

func runCart(ctx context.Context, deps *app, _ []string, out io.Writer) error {
	if err := deps.Cart.Fetch(ctx); err != nil {
		return err
	}
	printCart(out, deps.Config.Checkout.CurrencySymbol, deps.Cart.Items(), deps.Checkout.Quote())

	return nil
}

func runCartAdd(ctx context.Context, deps *app, args []string, out io.Writer) error {
	fs := newFlagSet("cart-add")
	productID := fs.String("product", "", "Product id")
	size := fs.String("size", "", "Size")
	color := fs.String("color", "", "Color")
	price := fs.String("price", "", "Unit price, defaults to the catalog price")
	qty := fs.Int("qty", 1, "Quantity")
	if err := fs.Parse(args); err != nil {
		return errors.Wrap(err, "failed to parse cart-add flags")
	}

	unitPrice, err := resolvePrice(ctx, deps, *productID, *price)
	if err != nil {
		return err
	}

	if err := deps.Cart.Add(ctx, &usecase.AddToCartInput{
		ProductID: *productID,
		Size:      *size,
		Color:     *color,
		Price:     unitPrice,
		Quantity:  *qty,
	}); err != nil {
		return err
	}
	printCart(out, deps.Config.Checkout.CurrencySymbol, deps.Cart.Items(), deps.Checkout.Quote())

	return nil
}

// resolvePrice parses the given price, or looks the product up when none is given.
func resolvePrice(ctx context.Context, deps *app, productID, price string) (decimal.Decimal, error) {
	if price != "" {
		d, err := decimal.NewFromString(price)
		if err != nil {
			return decimal.Zero, errors.Wrapf(err, "invalid price %q", price)
		}

		return d, nil
	}
	if productID == "" {
		return decimal.Zero, nil
	}

	product, err := deps.Catalog.FindProduct(ctx, productID)
	if err != nil {
		return decimal.Zero, err
	}

	return product.Price, nil
}

func runCartUpdate(ctx context.Context, deps *app, args []string, out io.Writer) error {
	parts, err := positional(args, 2, "cart-update <item-id> <qty>")
	if err != nil {
		return err
	}
	qty, err := strconv.Atoi(parts[1])
	if err != nil {
		return errors.Wrapf(err, "invalid quantity %q", parts[1])
	}

	if err := deps.Cart.UpdateQuantity(ctx, parts[0], qty); err != nil {
		return err
	}
	printCart(out, deps.Config.Checkout.CurrencySymbol, deps.Cart.Items(), deps.Checkout.Quote())

	return nil
}

func runCartRemove(ctx context.Context, deps *app, args []string, out io.Writer) error {
	ids, err := positional(args, 1, "cart-remove <item-id>")
	if err != nil {
		return err
	}

	if err := deps.Cart.Remove(ctx, ids[0]); err != nil {
		return err
	}
	printCart(out, deps.Config.Checkout.CurrencySymbol, deps.Cart.Items(), deps.Checkout.Quote())

	return nil
}

func runCartClear(ctx context.Context, deps *app, _ []string, out io.Writer) error {
	if err := deps.Cart.Clear(ctx); err != nil {
		return err
	}
	fmt.Fprintln(out, "Cart cleared")

	return nil
}

func runOrders(ctx context.Context, deps *app, _ []string, out io.Writer) error {
	orders, err := deps.Orders.ListOrders(ctx)
	if err != nil {
		return err
	}
	printOrders(out, deps.Config.Checkout.CurrencySymbol, orders)

	return nil
}

func runOrder(ctx context.Context, deps *app, args []string, out io.Writer) error {
	ids, err := positional(args, 1, "order <id>")
	if err != nil {
		return err
	}

	order, err := deps.Orders.GetOrder(ctx, ids[0])
	if err != nil {
		return err
	}
	printOrder(out, deps.Config.Checkout.CurrencySymbol, order)

	return nil
}

func runCancelOrder(ctx context.Context, deps *app, args []string, out io.Writer) error {
	ids, err := positional(args, 1, "cancel-order <id>")
	if err != nil {
		return err
	}

	if err := deps.Orders.CancelOrder(ctx, ids[0]); err != nil {
		return err
	}
	fmt.Fprintf(out, "Order %s cancelled\n", ids[0])

	return nil
}

func runPayments(ctx context.Context, deps *app, _ []string, out io.Writer) error {
	payments, err := deps.Payments.History(ctx)
	if err != nil {
		return err
	}
	printPayments(out, deps.Config.Checkout.CurrencySymbol, payments)

	return nil
}

func runPayment(ctx context.Context, deps *app, args []string, out io.Writer) error {
	ids, err := positional(args, 1, "payment <id>")
	if err != nil {
		return err
	}

	payment, err := deps.Payments.GetPayment(ctx, ids[0])
	if err != nil {
		return err
	}
	printPayments(out, deps.Config.Checkout.CurrencySymbol, []*entity.Payment{payment})

	return nil
}

func runVerifyPayment(ctx context.Context, deps *app, args []string, out io.Writer) error {
	refs, err := positional(args, 1, "verify-payment <reference>")
	if err != nil {
		return err
	}

	verification, err := deps.Payments.Verify(ctx, refs[0])
	if err != nil {
		return err
	}
	printVerification(out, deps.Config.Checkout.CurrencySymbol, verification)

	return nil
}

func runDelivery(ctx context.Context, deps *app, _ []string, out io.Writer) error {
	info, err := deps.Account.GetDeliveryInfo(ctx)
	if err != nil {
		return err
	}
	if info == nil {
		fmt.Fprintln(out, "No delivery details saved")

		return nil
	}
	printDeliveryInfo(out, info)

	return nil
}

// formFlags binds the delivery and contact fields shared by checkout and delivery-save.
type formFlags struct {
	first, last, address, city, zip, mobile, email *string
}

func bindFormFlags(fs *flag.FlagSet) formFlags {
	return formFlags{
		first:   fs.String("first", "", "First name"),
		last:    fs.String("last", "", "Last name"),
		address: fs.String("address", "", "Street address"),
		city:    fs.String("city", "", "City"),
		zip:     fs.String("zip", "", "Postal code"),
		mobile:  fs.String("mobile", "", "Mobile number"),
		email:   fs.String("email", "", "Email"),
	}
}

// apply overrides form fields with the flags that were given.
func (f formFlags) apply(form entity.CheckoutForm) entity.CheckoutForm {
	override := func(dst *string, src *string) {
		if v := strings.TrimSpace(*src); v != "" {
			*dst = v
		}
	}
	override(&form.FirstName, f.first)
	override(&form.LastName, f.last)
	override(&form.Address, f.address)
	override(&form.City, f.city)
	override(&form.ZipCode, f.zip)
	override(&form.Mobile, f.mobile)
	override(&form.Email, f.email)

	return form
}

func runDeliverySave(ctx context.Context, deps *app, args []string, out io.Writer) error {
	fs := newFlagSet("delivery-save")
	fields := bindFormFlags(fs)
	if err := fs.Parse(args); err != nil {
		return errors.Wrap(err, "failed to parse delivery-save flags")
	}

	// Start from what is saved so single fields can be changed
	form, err := deps.Account.PrefillCheckoutForm(ctx)
	if err != nil {
		return err
	}
	form = fields.apply(form)

	info := &entity.DeliveryInfo{
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Address:   form.Address,
		City:      form.City,
		ZipCode:   form.ZipCode,
		Mobile:    form.Mobile,
		Email:     form.Email,
	}
	if err := deps.Account.SaveDeliveryInfo(ctx, info); err != nil {
		return err
	}
	printDeliveryInfo(out, info)

	return nil
}
