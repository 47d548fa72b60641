// Package vnpay implements the VNPay redirect-payment protocol: building
// signed payment URLs and verifying the signature of inbound callbacks.
package vnpay

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	Version     = "2.1.0"
	CommandPay  = "pay"
	CurrencyVND = "VND"
	LocaleVN    = "vn"

	// ResponseCodeSuccess is the gateway's code for a completed payment.
	ResponseCodeSuccess = "00"

	ParamVersion        = "vnp_Version"
	ParamCommand        = "vnp_Command"
	ParamTmnCode        = "vnp_TmnCode"
	ParamAmount         = "vnp_Amount"
	ParamCurrCode       = "vnp_CurrCode"
	ParamTxnRef         = "vnp_TxnRef"
	ParamOrderInfo      = "vnp_OrderInfo"
	ParamOrderType      = "vnp_OrderType"
	ParamLocale         = "vnp_Locale"
	ParamReturnURL      = "vnp_ReturnUrl"
	ParamIPAddr         = "vnp_IpAddr"
	ParamCreateDate     = "vnp_CreateDate"
	ParamExpireDate     = "vnp_ExpireDate"
	ParamSecureHash     = "vnp_SecureHash"
	ParamSecureHashType = "vnp_SecureHashType"
	ParamResponseCode   = "vnp_ResponseCode"
	ParamTransactionNo  = "vnp_TransactionNo"
	ParamPayDate        = "vnp_PayDate"

	timestampLayout = "20060102150405"
)

// VNPay timestamps are expressed in Vietnam time regardless of where the
// service runs.
var vnpayLocation = time.FixedZone("GMT+7", 7*60*60)

type Config struct {
	TmnCode      string
	HashSecret   string
	PayURL       string
	ReturnURL    string
	ExpireWindow time.Duration
}

// Order is the merchant side of one payment attempt. Amount is the charge in
// VND before the gateway's x100 scaling.
type Order struct {
	TxnRef    string
	Amount    int64
	OrderInfo string
	OrderType string
	ClientIP  string
}

type Client struct {
	cfg Config
	now func() time.Time
}

func NewClient(cfg Config) *Client {
	return &Client{cfg: cfg, now: time.Now}
}

// BuildPaymentURL assembles the canonical parameter set for the order, signs
// it and returns the fully qualified redirect URL.
func (c *Client) BuildPaymentURL(order Order) string {
	createAt := c.now().In(vnpayLocation)
	expireAt := createAt.Add(c.cfg.ExpireWindow)

	params := map[string]string{
		ParamVersion:    Version,
		ParamCommand:    CommandPay,
		ParamTmnCode:    c.cfg.TmnCode,
		ParamAmount:     strconv.FormatInt(order.Amount*100, 10),
		ParamCurrCode:   CurrencyVND,
		ParamTxnRef:     order.TxnRef,
		ParamOrderInfo:  order.OrderInfo,
		ParamOrderType:  order.OrderType,
		ParamLocale:     LocaleVN,
		ParamReturnURL:  c.cfg.ReturnURL,
		ParamIPAddr:     order.ClientIP,
		ParamCreateDate: createAt.Format(timestampLayout),
		ParamExpireDate: expireAt.Format(timestampLayout),
	}

	hashData, query := canonicalize(params)
	secureHash := c.sign(hashData)

	return c.cfg.PayURL + "?" + query + "&" + ParamSecureHash + "=" + secureHash
}

// ValidateResponse recomputes the signature over every parameter except the
// signature fields themselves and compares it to the supplied hash. No other
// field of the callback can be trusted when this returns false.
func (c *Client) ValidateResponse(params map[string]string) bool {
	supplied := params[ParamSecureHash]
	if supplied == "" {
		return false
	}

	filtered := make(map[string]string, len(params))
	for name, value := range params {
		if name == ParamSecureHash || name == ParamSecureHashType {
			continue
		}
		filtered[name] = value
	}

	hashData, _ := canonicalize(filtered)
	expected := c.sign(hashData)

	return hmac.Equal([]byte(expected), []byte(strings.ToLower(supplied)))
}

// canonicalize sorts parameters by name, drops empty values, and renders both
// the string that gets signed and the URL-encoded query string. The gateway
// signs over encoded values, so both use the same escaping.
func canonicalize(params map[string]string) (hashData string, query string) {
	names := make([]string, 0, len(params))
	for name, value := range params {
		if value == "" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	var hashBuilder strings.Builder
	var queryBuilder strings.Builder
	for i, name := range names {
		value := url.QueryEscape(params[name])
		if i > 0 {
			hashBuilder.WriteByte('&')
			queryBuilder.WriteByte('&')
		}
		hashBuilder.WriteString(name)
		hashBuilder.WriteByte('=')
		hashBuilder.WriteString(value)
		queryBuilder.WriteString(url.QueryEscape(name))
		queryBuilder.WriteByte('=')
		queryBuilder.WriteString(value)
	}

	return hashBuilder.String(), queryBuilder.String()
}

func (c *Client) sign(data string) string {
	mac := hmac.New(sha512.New, []byte(c.cfg.HashSecret))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}
