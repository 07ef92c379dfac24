package coupon

import (
	"errors"
	"regexp"
	"strings"
)

var ErrInvalidCouponCode = errors.New("invalid coupon code format")

var couponCodeRegex = regexp.MustCompile(`^[A-Z0-9]{3,20}$`)

type Code string

func NewCouponCode(code string) (Code, error) {
	code = strings.TrimSpace(strings.ToUpper(code))
	if !couponCodeRegex.MatchString(code) {
		return Code(""), ErrInvalidCouponCode
	}
	return Code(code), nil
}

func (c Code) String() string {
	return string(c)
}
