package mpesa

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"renthaven/internal/config"
	"renthaven/internal/domain"
)

const timestampLayout = "20060102150405"

// transactionDesc maps a payment type to the human-readable description the
// gateway shows on the customer's phone.
var transactionDesc = map[domain.PaymentType]string{
	domain.PaymentTypeRent:    "Monthly rent payment",
	domain.PaymentTypeDeposit: "Security deposit",
	domain.PaymentTypeFee:     "Service fee",
}

type Client struct {
	cfg     config.Mpesa
	http    *http.Client
	loggerf func(format string, args ...interface{})
	now     func() time.Time

	mu       sync.Mutex
	token    string
	tokenExp time.Time
}

func NewClient(cfg config.Mpesa, loggerf func(format string, args ...interface{})) *Client {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: 30 * time.Second},
		loggerf: loggerf,
		now:     time.Now,
	}
}

type STKPushResult struct {
	CheckoutRequestID   string
	MerchantRequestID   string
	ResponseDescription string
}

type stkPushRequest struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	TransactionType   string `json:"TransactionType"`
	Amount            int64  `json:"Amount"`
	PartyA            string `json:"PartyA"`
	PartyB            string `json:"PartyB"`
	PhoneNumber       string `json:"PhoneNumber"`
	CallBackURL       string `json:"CallBackURL"`
	AccountReference  string `json:"AccountReference"`
	TransactionDesc   string `json:"TransactionDesc"`
}

type stkPushResponse struct {
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	MerchantRequestID   string `json:"MerchantRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	ErrorCode           string `json:"errorCode"`
	ErrorMessage        string `json:"errorMessage"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   string `json:"expires_in"`
}

// AccessToken exchanges the configured consumer key/secret for a short-lived
// bearer token. Tokens are cached until shortly before expiry.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	if err := c.cfg.Validate(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" && c.now().Before(c.tokenExp) {
		return c.token, nil
	}

	url := c.cfg.BaseURL + "/oauth/v1/generate?grant_type=client_credentials"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.cfg.ConsumerKey, c.cfg.ConsumerSecret)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAuth, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		c.loggerf("level=error msg=mpesa token request rejected status=%d body=%s", resp.StatusCode, string(body))
		return "", fmt.Errorf("%w: provider returned status %d", ErrAuth, resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return "", fmt.Errorf("%w: decoding token response: %v", ErrAuth, err)
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access token", ErrAuth)
	}

	ttl := 3599
	if n, err := strconv.Atoi(tr.ExpiresIn); err == nil && n > 0 {
		ttl = n
	}
	c.token = tr.AccessToken
	c.tokenExp = c.now().Add(time.Duration(ttl-60) * time.Second)
	return c.token, nil
}

// RoundAmount converts a fractional amount to the whole currency units the
// gateway requires, rounding half-up. Callers must treat this as lossy.
func RoundAmount(amount float64) int64 {
	return int64(math.Round(amount))
}

// STKPush submits a push-payment request for the phone/amount pair and
// returns the gateway's correlation identifiers. A provider-reported error
// code fails the call even when the HTTP status is 200.
func (c *Client) STKPush(ctx context.Context, phone string, amount float64, paymentType domain.PaymentType, accountRef string) (*STKPushResult, error) {
	ctx, span := otel.Tracer("renthaven/mpesa").Start(ctx, "mpesa.stk_push")
	defer span.End()
	span.SetAttributes(attribute.String("payment.type", string(paymentType)))

	token, err := c.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	desc, ok := transactionDesc[paymentType]
	if !ok {
		return nil, fmt.Errorf("%w: unknown payment type %q", ErrPaymentInitiation, paymentType)
	}

	ts := c.now().Format(timestampLayout)
	password := base64.StdEncoding.EncodeToString([]byte(c.cfg.ShortCode + c.cfg.Passkey + ts))

	body := stkPushRequest{
		BusinessShortCode: c.cfg.ShortCode,
		Password:          password,
		Timestamp:         ts,
		TransactionType:   "CustomerPayBillOnline",
		Amount:            RoundAmount(amount),
		PartyA:            phone,
		PartyB:            c.cfg.ShortCode,
		PhoneNumber:       phone,
		CallBackURL:       c.cfg.CallbackBaseURL + "/api/v1/payments/mpesa/callback",
		AccountReference:  accountRef,
		TransactionDesc:   desc,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	url := c.cfg.BaseURL + "/mpesa/stkpush/v1/processrequest"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentInitiation, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)

	var sr stkPushResponse
	if err := json.Unmarshal(raw, &sr); err != nil {
		return nil, fmt.Errorf("%w: decoding response (status %d): %v", ErrPaymentInitiation, resp.StatusCode, err)
	}

	if sr.ErrorCode != "" {
		c.loggerf("level=error msg=mpesa stk push rejected error_code=%s error_message=%s", sr.ErrorCode, sr.ErrorMessage)
		return nil, fmt.Errorf("%w: %s (%s)", ErrPaymentInitiation, sr.ErrorMessage, sr.ErrorCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: provider returned status %d", ErrPaymentInitiation, resp.StatusCode)
	}
	if sr.ResponseCode != "0" {
		return nil, fmt.Errorf("%w: %s (response code %s)", ErrPaymentInitiation, sr.ResponseDescription, sr.ResponseCode)
	}

	c.loggerf("level=info msg=mpesa stk push accepted checkout_id=%s merchant_request_id=%s", sr.CheckoutRequestID, sr.MerchantRequestID)
	return &STKPushResult{
		CheckoutRequestID:   sr.CheckoutRequestID,
		MerchantRequestID:   sr.MerchantRequestID,
		ResponseDescription: sr.ResponseDescription,
	}, nil
}
