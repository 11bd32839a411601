package models

import "fmt"

var (
	ErrIllegalTransition    = fmt.Errorf("illegal order state transition")
	ErrZeroOrderSize        = fmt.Errorf("order size must be non-zero")
	ErrInvalidPrice         = fmt.Errorf("price must be greater than 0")
	ErrInvalidPercentage    = fmt.Errorf("percentage must be greater than 0")
	ErrAssetMismatch        = fmt.Errorf("all legs of a composite order must share one asset")
	ErrUnbalancedBracket    = fmt.Errorf("bracket exit sizes must exactly negate the entry size")
	ErrNilOrderLeg          = fmt.Errorf("composite order leg must not be nil")
	ErrUnsupportedOrderType = fmt.Errorf("unsupported order type")
)
