package paytm

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Error taxonomy for the gateway exchange. Callers classify failures with
// errors.Is: ErrTimeout and ErrNetwork are transient ("try again"),
// ErrProtocol means the gateway answered with something we cannot trust,
// and ErrMissingCredentials is a configuration error caught at startup.
var (
	ErrMissingCredentials = errors.New("paytm credentials missing")
	ErrTimeout            = errors.New("paytm request timeout")
	ErrNetwork            = errors.New("paytm network error")
	ErrProtocol           = errors.New("invalid response from paytm")
)

// Transaction statuses the gateway reports in its callback. Anything other
// than these two means the transaction failed.
const (
	StatusTxnSuccess = "TXN_SUCCESS"
	StatusPending    = "PENDING"
)

const (
	defaultHost    = "securegw-stage.paytm.in"
	defaultTimeout = 30 * time.Second

	initiatePath = "/theia/api/v1/initiateTransaction"
)

// Config holds the merchant credentials and connection details for the
// payment gateway.
type Config struct {
	Host        string // gateway hostname, reached over TLS
	MerchantID  string
	MerchantKey string
	Website     string // gateway-assigned website name, e.g. WEBSTAGING
	CallbackURL string // absolute URL the gateway posts the final status to
	Timeout     time.Duration

	// BaseURL overrides the https://Host prefix when set. Tests point it at
	// an httptest server.
	BaseURL string
}

// Client performs the signed HTTPS exchange with the payment processor.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient creates a gateway client. Missing merchant credentials are a
// fatal configuration error, surfaced here so the process fails at startup
// rather than on the first checkout.
func NewClient(cfg Config) (*Client, error) {
	if cfg.MerchantID == "" || cfg.MerchantKey == "" {
		return nil, ErrMissingCredentials
	}
	if cfg.Host == "" {
		cfg.Host = defaultHost
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// GenerateSignature computes an HMAC-SHA256 checksum over the exact
// serialized body using the shared merchant key, hex encoded.
func GenerateSignature(body []byte, key string) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature reports whether signature matches the checksum of body.
func VerifySignature(body []byte, key, signature string) bool {
	expected := GenerateSignature(body, key)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// InitiateResponse is the parsed result of an initiate-transaction call.
type InitiateResponse struct {
	TxnToken string
	Raw      map[string]interface{}
}

type txnAmount struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

type userInfo struct {
	CustID string `json:"custId"`
}

type initiateBody struct {
	RequestType string    `json:"requestType"`
	MID         string    `json:"mid"`
	WebsiteName string    `json:"websiteName"`
	OrderID     string    `json:"orderId"`
	CallbackURL string    `json:"callbackUrl"`
	TxnAmount   txnAmount `json:"txnAmount"`
	UserInfo    userInfo  `json:"userInfo"`
}

type initiateRequest struct {
	Head map[string]string `json:"head"`
	Body initiateBody      `json:"body"`
}

// InitiateTransaction requests a transaction token from the gateway for the
// given order. The request body is signed with the merchant key and posted
// over TLS with a bounded timeout.
func (c *Client) InitiateTransaction(ctx context.Context, orderID, customerID string, amount float64) (*InitiateResponse, error) {
	body := initiateBody{
		RequestType: "Payment",
		MID:         c.cfg.MerchantID,
		WebsiteName: c.cfg.Website,
		OrderID:     orderID,
		CallbackURL: c.cfg.CallbackURL,
		TxnAmount: txnAmount{
			Value:    strconv.FormatFloat(amount, 'f', 2, 64),
			Currency: "INR",
		},
		UserInfo: userInfo{CustID: customerID},
	}

	serialized, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize gateway request: %w", err)
	}

	payload, err := json.Marshal(initiateRequest{
		Head: map[string]string{"signature": GenerateSignature(serialized, c.cfg.MerchantKey)},
		Body: body,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to serialize gateway request: %w", err)
	}

	endpoint := c.cfg.BaseURL
	if endpoint == "" {
		endpoint = "https://" + c.cfg.Host
	}
	endpoint += initiatePath + "?" + url.Values{
		"mid":     {c.cfg.MerchantID},
		"orderId": {orderID},
	}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if !strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		return nil, fmt.Errorf("%w: unexpected content type %q", ErrProtocol, resp.Header.Get("Content-Type"))
	}

	var parsed struct {
		Body map[string]interface{} `json:"body"`
		Head map[string]interface{} `json:"head"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProtocol, err)
	}

	token, _ := parsed.Body["txnToken"].(string)
	if token == "" {
		return nil, fmt.Errorf("%w: transaction token not received", ErrProtocol)
	}

	return &InitiateResponse{
		TxnToken: token,
		Raw:      map[string]interface{}{"body": parsed.Body, "head": parsed.Head},
	}, nil
}

// isTimeout classifies client-timeout and deadline failures separately from
// generic transport errors, since the caller's retry advice differs.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
