package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_GetCartDecodesPopulatedProducts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/cart/get-cart", r.URL.Path)
		_, _ = io.WriteString(w, `{
			"success": true,
			"data": [
				{"_id": "line-1", "product_id": {"_id": "p1", "name": "Tee", "price": 12.5, "image_url": "/uploads/tee.png"},
				 "quantity": 2, "size": "M", "color": "Black", "price": 10},
				{"_id": "line-2", "product_id": "p2", "quantity": 1, "size": "L", "color": "", "price": "7.25"}
			]
		}`)
	}))
	defer server.Close()

	client := newTestClient(t, server, &memoryTokens{token: "t"})

	items, err := client.GetCart(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "line-1", items[0].ItemID)
	assert.Equal(t, "p1", items[0].ProductID)
	require.NotNil(t, items[0].Product)
	assert.Equal(t, server.URL+"/uploads/tee.png", items[0].Product.ImageURL)
	assert.True(t, decimal.NewFromFloat(12.5).Equal(items[0].EffectivePrice()))

	assert.Equal(t, "p2", items[1].ProductID)
	assert.Nil(t, items[1].Product)
	assert.True(t, decimal.RequireFromString("7.25").Equal(items[1].EffectivePrice()))
}

func TestClient_AddCartItemBody(t *testing.T) {
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/cart/add-cart", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = io.WriteString(w, `{"success":true}`)
	}))
	defer server.Close()

	client := newTestClient(t, server, &memoryTokens{token: "t"})

	err := client.AddCartItem(context.Background(), &entity.AddCartItem{
		ProductID: "p1",
		Size:      "M",
		Color:     "Black",
		Price:     decimal.NewFromInt(10),
		Quantity:  1,
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"productId": "p1",
		"size":      "M",
		"color":     "Black",
		"price":     float64(10),
		"quantity":  float64(1),
	}, body)
}

func TestClient_CreateOrderSendsShapeAndReadsID(t *testing.T) {
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/orders/checkout", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"success":true,"data":{"_id":"order-9","status":"pending"}}`)
	}))
	defer server.Close()

	client := newTestClient(t, server, &memoryTokens{token: "t"})

	order, err := client.CreateOrder(context.Background(), &entity.OrderRequest{
		ShippingAddress: entity.ShippingAddress{
			Name: "Ada Lovelace", Address: "1 Main St", City: "Lagos", State: "Lagos", Zip: "100001", Country: "Nigeria",
		},
		PhoneNumber:   "0800",
		PaymentMethod: "Credit/Debit Card",
		DeliveryFee:   decimal.NewFromInt(500),
		TotalAmount:   decimal.NewFromInt(10500),
		PaymentStatus: entity.PaymentStatusPending,
	})
	require.NoError(t, err)

	assert.Equal(t, "order-9", order.ID)
	assert.Equal(t, entity.PaymentStatusPending, order.PaymentStatus)
	assert.True(t, decimal.NewFromInt(10500).Equal(order.TotalAmount))

	assert.Equal(t, float64(500), body["deliveryFee"])
	assert.Equal(t, float64(10500), body["totalAmount"])
	assert.Equal(t, "pending", body["paymentStatus"])
	assert.Equal(t, "0800", body["phoneNumber"])
	shipping, ok := body["shippingAddress"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Lagos", shipping["state"])
	assert.Equal(t, "Nigeria", shipping["country"])
}

func TestClient_CreateOrderWithoutIDFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":true,"data":{}}`)
	}))
	defer server.Close()

	client := newTestClient(t, server, &memoryTokens{token: "t"})

	_, err := client.CreateOrder(context.Background(), &entity.OrderRequest{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrCollaborator))
}

func TestClient_VerifyPayment(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus string
		wantOK     bool
	}{
		{
			name:       "success",
			body:       `{"success":true,"data":{"status":"success","reference":"ORDER_1_abc","amount":1050000}}`,
			wantStatus: "success",
			wantOK:     true,
		},
		{
			name:       "gateway failed",
			body:       `{"success":true,"data":{"status":"failed","reference":"ORDER_1_abc"}}`,
			wantStatus: "failed",
		},
		{
			name:       "unsuccessful envelope",
			body:       `{"success":false,"message":"Transaction not found"}`,
			wantStatus: "failed",
		},
		{
			name:       "still pending",
			body:       `{"success":false,"data":{"status":"ongoing"}}`,
			wantStatus: "ongoing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/payment/verify/ORDER_1_abc", r.URL.Path)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer server.Close()

			client := newTestClient(t, server, &memoryTokens{token: "t"})

			verification, err := client.VerifyPayment(context.Background(), "ORDER_1_abc")
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, verification.Status)
			assert.Equal(t, tt.wantOK, verification.IsSuccessful())
			assert.Equal(t, "ORDER_1_abc", verification.Reference)
		})
	}
}

func TestClient_InitializePayment(t *testing.T) {
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/payment/initialize-payment", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = io.WriteString(w, `{"success":true,"data":{"authorization_url":"https://checkout.example/abc","access_code":"abc","reference":"ORDER_1_x"}}`)
	}))
	defer server.Close()

	client := newTestClient(t, server, &memoryTokens{token: "t"})

	session, err := client.InitializePayment(context.Background(), &entity.PaymentInit{
		Amount:    1050000,
		Email:     "ada@example.com",
		OrderID:   "order-9",
		Reference: "ORDER_1_x",
		Metadata:  map[string]string{"customerName": "Ada Lovelace"},
	})
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.example/abc", session.AuthorizationURL)
	assert.Equal(t, "abc", session.AccessCode)
	assert.Equal(t, float64(1050000), body["amount"])
	assert.Equal(t, "order-9", body["orderId"])
	assert.Equal(t, "ORDER_1_x", body["reference"])
}

func TestClient_GetDeliveryInfo(t *testing.T) {
	t.Run("saved", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"success":true,"data":{"firstName":"Ada","lastName":"Lovelace","address":"1 Main St","cityTown":"Lagos","zipCode":"100001","mobile":"0800","email":"ada@example.com"}}`)
		}))
		defer server.Close()

		client := newTestClient(t, server, &memoryTokens{token: "t"})

		info, err := client.GetDeliveryInfo(context.Background())
		require.NoError(t, err)
		require.NotNil(t, info)
		assert.Equal(t, "Lagos", info.City)
		assert.Equal(t, "100001", info.ZipCode)
	})

	t.Run("none saved", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"success":false,"message":"No delivery information"}`)
		}))
		defer server.Close()

		client := newTestClient(t, server, &memoryTokens{token: "t"})

		info, err := client.GetDeliveryInfo(context.Background())
		require.NoError(t, err)
		assert.Nil(t, info)
	})
}

func TestClient_ListOrdersAcceptsSnakeCaseAddress(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":true,"data":[
			{"_id":"o1","status":"pending","paymentStatus":"pending","total":10500,
			 "shipping_address":{"name":"Ada","city":"Lagos"},
			 "items":[{"product_id":{"_id":"p1","name":"Tee"},"quantity":1,"price":10000}]}
		]}`)
	}))
	defer server.Close()

	client := newTestClient(t, server, &memoryTokens{token: "t"})

	orders, err := client.ListOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "o1", orders[0].ID)
	assert.True(t, orders[0].IsPending())
	assert.Equal(t, "Lagos", orders[0].ShippingAddress.City)
	assert.True(t, decimal.NewFromInt(10500).Equal(orders[0].TotalAmount))
	require.Len(t, orders[0].Items, 1)
	assert.Equal(t, "Tee", orders[0].Items[0].Name)
}

func TestClient_ListTestimonialsBareArray(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"id":"t1","name":"Bola","rating":5,"comment":"Great fit","avatar_url":"https://cdn.example/b.png"}]`)
	}))
	defer server.Close()

	client := newTestClient(t, server, &memoryTokens{})

	testimonials, err := client.ListTestimonials(context.Background())
	require.NoError(t, err)
	require.Len(t, testimonials, 1)
	assert.Equal(t, "t1", testimonials[0].ID)
	assert.Equal(t, "https://cdn.example/b.png", testimonials[0].AvatarURL)
}

func TestResolveImageURL(t *testing.T) {
	tests := []struct {
		base string
		path string
		want string
	}{
		{base: "http://localhost:5001/api", path: "uploads/a.png", want: "http://localhost:5001/uploads/a.png"},
		{base: "http://localhost:5001/api/", path: "//uploads/a.png", want: "http://localhost:5001/uploads/a.png"},
		{base: "https://shop.example.com", path: "/img/b.jpg", want: "https://shop.example.com/img/b.jpg"},
		{base: "http://localhost:5001/api", path: "HTTPS://cdn.example/c.png", want: "HTTPS://cdn.example/c.png"},
		{base: "http://localhost:5001/api", path: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveImageURL(tt.base, tt.path))
		})
	}
}
