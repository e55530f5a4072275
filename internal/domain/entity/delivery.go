package entity

// DeliveryInfo is the customer's saved delivery details, used to prefill checkout.
type DeliveryInfo struct {
	FirstName string
	LastName  string
	Address   string
	City      string
	ZipCode   string
	Mobile    string
	Email     string
}
