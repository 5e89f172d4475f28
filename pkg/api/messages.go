package api

type Product struct {
	Id          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Stock       int64  `json:"stock"`
	Category    string `json:"category"`
	ImageUrl    string `json:"image_url"`
}

type CartItem struct {
	ProductId int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

type OrderItem struct {
	Product  *Product `json:"product"`
	Quantity int64    `json:"quantity"`
}

type Order struct {
	Id            int64        `json:"id"`
	Status        string       `json:"status"`
	Total         int64        `json:"total"`
	PaymentMethod string       `json:"payment_method"`
	User          string       `json:"user"`
	Timestamp     int64        `json:"timestamp"` // unix nanoseconds
	Items         []*OrderItem `json:"items"`
}

type Empty struct{}

type ProductsResponse struct {
	Products []*Product `json:"products"`
}

type GetProductRequest struct {
	Id int64 `json:"id"`
}

type ProductResponse struct {
	Product *Product `json:"product"`
}

type SearchByNameRequest struct {
	Text string `json:"text"`
}

type SearchByCategoryRequest struct {
	Category string `json:"category"`
}

type CartResponse struct {
	Items []*CartItem `json:"items"`
}

type CartItemRequest struct {
	ProductId int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

type RemoveFromCartRequest struct {
	ProductId int64 `json:"product_id"`
}

type CreateOrderRequest struct {
	PaymentMethod string `json:"payment_method"`
}

type IdResponse struct {
	Id int64 `json:"id"`
}

type OrdersResponse struct {
	Orders []*Order `json:"orders"`
}

type GetOrderRequest struct {
	Id int64 `json:"id"`
}

type OrderResponse struct {
	Order *Order `json:"order"`
}

type CreateProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	ImageUrl    string `json:"image_url"`
	Stock       int64  `json:"stock"`
	Category    string `json:"category"`
}

type UpdateProductRequest struct {
	Id          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	ImageUrl    string `json:"image_url"`
	Stock       int64  `json:"stock"`
	Category    string `json:"category"`
}

type DeleteProductRequest struct {
	Id int64 `json:"id"`
}

type UpdateOrderStatusRequest struct {
	OrderId int64  `json:"order_id"`
	Status  string `json:"status"`
}

type DeleteOrderRequest struct {
	OrderId int64 `json:"order_id"`
}
