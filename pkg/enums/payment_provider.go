package enums

import "fmt"

// PaymentProvider identifies the external processor behind a payment.
type PaymentProvider string

const (
	PaymentProviderPayPal      PaymentProvider = "paypal"
	PaymentProviderMercadoPago PaymentProvider = "mercadopago"
)

var validPaymentProviders = []PaymentProvider{
	PaymentProviderPayPal,
	PaymentProviderMercadoPago,
}

func (p PaymentProvider) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentProvider.
func (p PaymentProvider) IsValid() bool {
	for _, candidate := range validPaymentProviders {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentProvider converts raw input into a PaymentProvider.
func ParsePaymentProvider(value string) (PaymentProvider, error) {
	for _, candidate := range validPaymentProviders {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment provider %q", value)
}

// PaymentMethodType covers every checkout method a tenant can enable,
// including the manual ones that settle without a webhook.
type PaymentMethodType string

const (
	PaymentMethodTypePayPal       PaymentMethodType = "paypal"
	PaymentMethodTypeMercadoPago  PaymentMethodType = "mercadopago"
	PaymentMethodTypeBankTransfer PaymentMethodType = "bank_transfer"
	PaymentMethodTypeCoordinate   PaymentMethodType = "coordinate"
)

var validPaymentMethodTypes = []PaymentMethodType{
	PaymentMethodTypePayPal,
	PaymentMethodTypeMercadoPago,
	PaymentMethodTypeBankTransfer,
	PaymentMethodTypeCoordinate,
}

func (p PaymentMethodType) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentMethodType.
func (p PaymentMethodType) IsValid() bool {
	for _, candidate := range validPaymentMethodTypes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentMethodType converts raw input into a PaymentMethodType.
func ParsePaymentMethodType(value string) (PaymentMethodType, error) {
	for _, candidate := range validPaymentMethodTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method type %q", value)
}
