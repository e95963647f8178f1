package paypal

// Amount представляет денежную сумму.
type Amount struct {
	CurrencyCode string `json:"currency_code"` // валюта, например "USD"
	Value        string `json:"value"`         // сумма, например "50.00"
}

// PurchaseUnit — одна позиция платёжного ордера.
type PurchaseUnit struct {
	Amount      Amount `json:"amount"`
	Description string `json:"description,omitempty"`
}

// ApplicationContext задаёт внешний вид и адреса возврата на странице оплаты.
type ApplicationContext struct {
	BrandName   string `json:"brand_name,omitempty"`
	LandingPage string `json:"landing_page,omitempty"`
	UserAction  string `json:"user_action,omitempty"`
	ReturnURL   string `json:"return_url"`
	CancelURL   string `json:"cancel_url"`
}

// CreateOrderRequest представляет запрос на создание ордера.
type CreateOrderRequest struct {
	Intent             string             `json:"intent"` // всегда "CAPTURE"
	PurchaseUnits      []PurchaseUnit     `json:"purchase_units"`
	ApplicationContext ApplicationContext `json:"application_context"`
}

// Link — HATEOAS-ссылка в ответе шлюза.
type Link struct {
	Href string `json:"href"`
	Rel  string `json:"rel"`
}

// Order представляет созданный ордер до одобрения покупателем.
type Order struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Links  []Link `json:"links"`
}

// ApproveLink возвращает ссылку, на которую нужно перенаправить покупателя
// для одобрения платежа, либо пустую строку, если шлюз её не прислал.
func (o *Order) ApproveLink() string {
	for _, l := range o.Links {
		if l.Rel == "approve" {
			return l.Href
		}
	}
	return ""
}

// CaptureDetails — данные одного списания внутри завершённого ордера.
type CaptureDetails struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Amount Amount `json:"amount"`
}

// CapturePayments — список списаний одной позиции ордера.
type CapturePayments struct {
	Captures []CaptureDetails `json:"captures"`
}

// CapturePurchaseUnit — позиция завершённого ордера.
type CapturePurchaseUnit struct {
	Payments CapturePayments `json:"payments"`
}

// CaptureResult представляет ответ на запрос списания средств по ордеру.
// Статус, отличный от COMPLETED, не является ошибкой транспорта: решение
// о дальнейших действиях принимает вызывающая сторона.
type CaptureResult struct {
	ID            string                `json:"id"`
	Status        string                `json:"status"`
	PurchaseUnits []CapturePurchaseUnit `json:"purchase_units"`
}

// StatusCompleted — статус ордера, средства по которому успешно списаны.
const StatusCompleted = "COMPLETED"

// Capture возвращает первое списание ордера, если оно есть.
func (c *CaptureResult) Capture() *CaptureDetails {
	if len(c.PurchaseUnits) == 0 || len(c.PurchaseUnits[0].Payments.Captures) == 0 {
		return nil
	}
	return &c.PurchaseUnits[0].Payments.Captures[0]
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}
