package rpc

type SignInRequest struct{}

type SignInResponse struct {
	UID   string `json:"uid"`
	Token string `json:"token"`
}

type StatusRequest struct {
	DeviceID string `json:"deviceId"`
}

type StatusResponse struct {
	IsPro     bool `json:"isPro"`
	Remaining int  `json:"remaining"`
}

type DistillRequest struct {
	DeviceID string `json:"deviceId"`
	URL      string `json:"url"`
}

type DistillResponse struct {
	Text      string `json:"text"`
	Percent   string `json:"percent"`
	Remaining int    `json:"remaining"`
}

type PaymentIntentRequest struct {
	IsLive bool `json:"isLive"`
}

type PaymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

type ConfirmPurchaseRequest struct {
	DeviceID string `json:"deviceId"`
	Receipt  string `json:"receipt"`
	Platform string `json:"platform,omitempty"`
	IsLive   bool   `json:"isLive"`
}

type ConfirmPurchaseResponse struct {
	Success bool `json:"success"`
}
