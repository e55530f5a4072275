package api

import (
	"bytes"
	"encoding/json"
	"time"

	"storefront/internal/domain/entity"
	"storefront/internal/errors"

	"github.com/shopspring/decimal"
)

// The backend is a document store; ids arrive as either "_id" or "id" and
// references are either an id string or the populated document.

// timestamp accepts RFC 3339 strings. Empty, null or malformed values decode as zero.
type timestamp time.Time

func (t *timestamp) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil || s == "" {
		return nil
	}
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return nil
	}
	*t = timestamp(parsed)

	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}

func firstTime(values ...timestamp) time.Time {
	for _, v := range values {
		if !time.Time(v).IsZero() {
			return time.Time(v)
		}
	}

	return time.Time{}
}

// envelope is the {success, message, data} wrapper most endpoints answer with.
type envelope struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (e *envelope) failed() bool {
	return e.Success != nil && !*e.Success
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)

	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// decodeList accepts a bare array or an envelope whose data is one.
func decodeList[T any](raw json.RawMessage) ([]T, error) {
	trimmed := bytes.TrimSpace(raw)
	if isNull(trimmed) {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var list []T
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, errors.Wrap(err, "decode list")
		}

		return list, nil
	}

	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, errors.Wrap(err, "decode envelope")
	}
	if data := bytes.TrimSpace(env.Data); len(data) > 0 && data[0] != '[' {
		return nil, nil
	}

	return decodeList[T](env.Data)
}

// decodeObject accepts a bare object or an envelope whose data is one. It
// reports false when there is no object.
func decodeObject[T any](raw json.RawMessage, out *T) (bool, error) {
	if isNull(raw) {
		return false, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return false, errors.Wrap(err, "decode envelope")
	}
	payload := raw
	if data, ok := fields["data"]; ok {
		if isNull(data) {
			return false, nil
		}
		payload = data
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return false, errors.Wrap(err, "decode object")
	}

	return true, nil
}

type userDTO struct {
	ID        string    `json:"_id"`
	AltID     string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	FullName  string    `json:"fullName"`
	CreatedAt timestamp `json:"createdAt"`
	Created   timestamp `json:"created_at"`
}

func (u *userDTO) toEntity() *entity.Identity {
	if u == nil {
		return nil
	}

	return &entity.Identity{
		ID:        firstNonEmpty(u.ID, u.AltID),
		Email:     u.Email,
		Name:      firstNonEmpty(u.Name, u.FullName),
		CreatedAt: firstTime(u.CreatedAt, u.Created),
	}
}

type authResponse struct {
	User        *userDTO `json:"user"`
	AccessToken string   `json:"accessToken"`
	Data        *struct {
		User        *userDTO `json:"user"`
		AccessToken string   `json:"accessToken"`
	} `json:"data"`
}

func (r *authResponse) token() string {
	if r.AccessToken == "" && r.Data != nil {
		return r.Data.AccessToken
	}

	return r.AccessToken
}

func (r *authResponse) toEntity() *entity.AuthResult {
	user := r.User
	if user == nil && r.Data != nil {
		user = r.Data.User
	}

	return &entity.AuthResult{
		Identity:    user.toEntity(),
		AccessToken: r.token(),
	}
}

type productDTO struct {
	ID          string          `json:"_id"`
	AltID       string          `json:"id"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    json.RawMessage `json:"category_id"`
	ImageURL    string          `json:"image_url"`
	Images      []string        `json:"images"`
	Sizes       []string        `json:"sizes"`
	Colors      []string        `json:"colors"`
	Stock       int             `json:"stock"`
	Featured    bool            `json:"featured"`
	CreatedAt   timestamp       `json:"created_at"`
	Created     timestamp       `json:"createdAt"`
}

func (p *productDTO) toEntity(resolve func(string) string) *entity.Product {
	images := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, resolve(img))
	}

	return &entity.Product{
		ID:          firstNonEmpty(p.ID, p.AltID),
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Price:       p.Price,
		CategoryID:  referenceID(p.Category),
		ImageURL:    resolve(p.ImageURL),
		Images:      images,
		Sizes:       p.Sizes,
		Colors:      p.Colors,
		Stock:       p.Stock,
		Featured:    p.Featured,
		CreatedAt:   firstTime(p.CreatedAt, p.Created),
	}
}

// referenceID extracts the id of a reference that is either an id string or a populated document.
func referenceID(raw json.RawMessage) string {
	if isNull(raw) {
		return ""
	}

	var id string
	if err := json.Unmarshal(raw, &id); err == nil {
		return id
	}

	var doc struct {
		ID    string `json:"_id"`
		AltID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &doc); err == nil {
		return firstNonEmpty(doc.ID, doc.AltID)
	}

	return ""
}

// populatedProduct returns the embedded product document, if the reference carries one.
func populatedProduct(raw json.RawMessage) *productDTO {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}

	var p productDTO
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return nil
	}

	return &p
}

type testimonialDTO struct {
	ID        string    `json:"_id"`
	AltID     string    `json:"id"`
	Name      string    `json:"name"`
	AvatarURL string    `json:"avatar_url"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt timestamp `json:"created_at"`
	Created   timestamp `json:"createdAt"`
}

func (t *testimonialDTO) toEntity(resolve func(string) string) *entity.Testimonial {
	return &entity.Testimonial{
		ID:        firstNonEmpty(t.ID, t.AltID),
		Name:      t.Name,
		AvatarURL: resolve(t.AvatarURL),
		Rating:    t.Rating,
		Comment:   t.Comment,
		CreatedAt: firstTime(t.CreatedAt, t.Created),
	}
}

type cartItemDTO struct {
	ID        string          `json:"_id"`
	AltID     string          `json:"id"`
	ProductID json.RawMessage `json:"product_id"`
	Product   *productDTO     `json:"product"`
	Quantity  int             `json:"quantity"`
	Size      string          `json:"size"`
	Color     string          `json:"color"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt timestamp       `json:"created_at"`
	Created   timestamp       `json:"createdAt"`
}

func (i *cartItemDTO) toEntity(resolve func(string) string) *entity.CartItem {
	item := &entity.CartItem{
		ItemID:    firstNonEmpty(i.ID, i.AltID),
		ProductID: referenceID(i.ProductID),
		Quantity:  i.Quantity,
		Size:      i.Size,
		Color:     i.Color,
		UnitPrice: i.Price,
		CreatedAt: firstTime(i.CreatedAt, i.Created),
	}

	snapshot := populatedProduct(i.ProductID)
	if snapshot == nil {
		snapshot = i.Product
	}
	if snapshot != nil {
		item.Product = snapshot.toEntity(resolve)
		if item.ProductID == "" {
			item.ProductID = item.Product.ID
		}
	}

	return item
}

type addCartRequest struct {
	ProductID string  `json:"productId"`
	Size      string  `json:"size"`
	Color     string  `json:"color"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

type updateCartRequest struct {
	Quantity int `json:"quantity"`
}

type shippingAddressDTO struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

func newShippingAddressDTO(a entity.ShippingAddress) shippingAddressDTO {
	return shippingAddressDTO(a)
}

func (a *shippingAddressDTO) toEntity() entity.ShippingAddress {
	if a == nil {
		return entity.ShippingAddress{}
	}

	return entity.ShippingAddress(*a)
}

type orderRequestDTO struct {
	ShippingAddress shippingAddressDTO `json:"shippingAddress"`
	PhoneNumber     string             `json:"phoneNumber"`
	PaymentMethod   string             `json:"paymentMethod"`
	DeliveryFee     float64            `json:"deliveryFee"`
	TotalAmount     float64            `json:"totalAmount"`
	PaymentStatus   string             `json:"paymentStatus"`
}

type orderItemDTO struct {
	ProductID json.RawMessage `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Size      string          `json:"size"`
	Color     string          `json:"color"`
	Price     decimal.Decimal `json:"price"`
}

type orderDTO struct {
	ID              string              `json:"_id"`
	AltID           string              `json:"id"`
	Status          string              `json:"status"`
	PaymentStatus   string              `json:"paymentStatus"`
	ShippingAddress *shippingAddressDTO `json:"shippingAddress"`
	ShippingSnake   *shippingAddressDTO `json:"shipping_address"`
	Items           []orderItemDTO      `json:"items"`
	DeliveryFee     decimal.Decimal     `json:"deliveryFee"`
	TotalAmount     decimal.Decimal     `json:"totalAmount"`
	Total           decimal.Decimal     `json:"total"`
	CreatedAt       timestamp           `json:"createdAt"`
	Created         timestamp           `json:"created_at"`
}

func (o *orderDTO) toEntity() *entity.Order {
	address := o.ShippingAddress
	if address == nil {
		address = o.ShippingSnake
	}

	total := o.TotalAmount
	if total.IsZero() {
		total = o.Total
	}

	lines := make([]entity.OrderLine, 0, len(o.Items))
	for _, item := range o.Items {
		line := entity.OrderLine{
			ProductID: referenceID(item.ProductID),
			Quantity:  item.Quantity,
			Size:      item.Size,
			Color:     item.Color,
			Price:     item.Price,
		}
		if product := populatedProduct(item.ProductID); product != nil {
			line.Name = product.Name
		}
		lines = append(lines, line)
	}

	return &entity.Order{
		ID:              firstNonEmpty(o.ID, o.AltID),
		Status:          o.Status,
		PaymentStatus:   entity.PaymentStatus(o.PaymentStatus),
		ShippingAddress: address.toEntity(),
		Items:           lines,
		DeliveryFee:     o.DeliveryFee,
		TotalAmount:     total,
		CreatedAt:       firstTime(o.CreatedAt, o.Created),
	}
}

type paymentInitRequest struct {
	Amount      int64             `json:"amount"`
	Email       string            `json:"email"`
	OrderID     string            `json:"orderId"`
	Reference   string            `json:"reference"`
	CallbackURL string            `json:"callbackUrl,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type paymentSessionDTO struct {
	AuthorizationURL string `json:"authorization_url"`
	AuthorizationAlt string `json:"authorizationUrl"`
	AccessCode       string `json:"access_code"`
	AccessCodeAlt    string `json:"accessCode"`
	Reference        string `json:"reference"`
}

type paymentDTO struct {
	ID        string          `json:"_id"`
	AltID     string          `json:"id"`
	Reference string          `json:"reference"`
	OrderID   json.RawMessage `json:"orderId"`
	Order     json.RawMessage `json:"order"`
	Amount    decimal.Decimal `json:"amount"`
	Status    string          `json:"status"`
	Channel   string          `json:"channel"`
	PaidAt    timestamp       `json:"paid_at"`
	PaidAtAlt timestamp       `json:"paidAt"`
	CreatedAt timestamp       `json:"createdAt"`
	Created   timestamp       `json:"created_at"`
}

func (p *paymentDTO) orderID() string {
	return firstNonEmpty(referenceID(p.OrderID), referenceID(p.Order))
}

func (p *paymentDTO) toEntity() *entity.Payment {
	return &entity.Payment{
		ID:        firstNonEmpty(p.ID, p.AltID),
		Reference: p.Reference,
		OrderID:   p.orderID(),
		Amount:    p.Amount,
		Status:    p.Status,
		Channel:   p.Channel,
		CreatedAt: firstTime(p.CreatedAt, p.Created),
	}
}

func (p *paymentDTO) toVerification() *entity.PaymentVerification {
	return &entity.PaymentVerification{
		Reference: p.Reference,
		Status:    p.Status,
		Amount:    p.Amount,
		OrderID:   p.orderID(),
		Channel:   p.Channel,
		PaidAt:    firstTime(p.PaidAt, p.PaidAtAlt),
	}
}

// deliveryInfoDTO names the city "cityTown" on the wire.
type deliveryInfoDTO struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Address   string `json:"address"`
	CityTown  string `json:"cityTown"`
	ZipCode   string `json:"zipCode"`
	Mobile    string `json:"mobile"`
	Email     string `json:"email"`
}

func newDeliveryInfoDTO(info *entity.DeliveryInfo) deliveryInfoDTO {
	return deliveryInfoDTO{
		FirstName: info.FirstName,
		LastName:  info.LastName,
		Address:   info.Address,
		CityTown:  info.City,
		ZipCode:   info.ZipCode,
		Mobile:    info.Mobile,
		Email:     info.Email,
	}
}

func (d *deliveryInfoDTO) toEntity() *entity.DeliveryInfo {
	return &entity.DeliveryInfo{
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Address:   d.Address,
		City:      d.CityTown,
		ZipCode:   d.ZipCode,
		Mobile:    d.Mobile,
		Email:     d.Email,
	}
}
